package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/d60-Lab/restful-blog/internal/repository"
	"github.com/d60-Lab/restful-blog/internal/sanitize"
	"github.com/d60-Lab/restful-blog/internal/service"
	"github.com/d60-Lab/restful-blog/pkg/logger"
)

// seedFile 种子文件格式：
//
//	posts:
//	  - title: Hello
//	    image: https://example.com/a.png
//	    body: <p>first post</p>
type seedFile struct {
	Posts []seedPost `yaml:"posts"`
}

type seedPost struct {
	Title string `yaml:"title"`
	Image string `yaml:"image"`
	Body  string `yaml:"body"`
}

var seedPath string

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load posts from a YAML fixture",
	RunE: func(cmd *cobra.Command, args []string) error {
		inputs, err := loadSeedFile(seedPath)
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		repo, err := repository.Open(ctx, cfg)
		if err != nil {
			return err
		}
		defer repo.Close()
		if err := repo.InitSchema(ctx); err != nil {
			return err
		}

		n, err := seedPosts(ctx, service.NewPostService(repo, sanitize.New()), inputs)
		fmt.Fprintf(cmd.OutOrStdout(), "seeded %d/%d posts\n", n, len(inputs))
		return err
	},
}

func init() {
	seedCmd.Flags().StringVarP(&seedPath, "file", "f", "posts.yaml", "YAML fixture with a top-level posts list")
}

func loadSeedFile(path string) ([]service.PostInput, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open seed file: %w", err)
	}
	defer f.Close()
	return decodeSeed(f)
}

func decodeSeed(r io.Reader) ([]service.PostInput, error) {
	var sf seedFile
	if err := yaml.NewDecoder(r).Decode(&sf); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, fmt.Errorf("decode seed file: %w", err)
	}
	inputs := make([]service.PostInput, len(sf.Posts))
	for i, p := range sf.Posts {
		inputs[i] = service.PostInput{Title: p.Title, Image: p.Image, Body: p.Body}
	}
	return inputs, nil
}

// seedPosts 逐条创建；校验失败的记录跳过，存储错误立即返回
func seedPosts(ctx context.Context, svc service.PostService, inputs []service.PostInput) (int, error) {
	created := 0
	for i, in := range inputs {
		if _, err := svc.Create(ctx, in); err != nil {
			if service.KindOf(err) == service.KindValidation {
				logger.Warn("skip invalid seed post", zap.Int("index", i), zap.Error(err))
				continue
			}
			return created, err
		}
		created++
	}
	return created, nil
}
