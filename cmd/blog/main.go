package main

import (
	"os"

	"github.com/d60-Lab/restful-blog/internal/cli"
)

var version = "dev"

// @title RESTful Blog API
// @version 1.0
// @description 博客文章的增删改查接口
// @BasePath /
func main() {
	cli.SetVersion(version)
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
