// Package web 内嵌页面模板与静态资源
package web

import (
	"embed"
	"html/template"
	"io/fs"
	"net/http"
	"time"

	"github.com/d60-Lab/restful-blog/internal/model"
	"github.com/d60-Lab/restful-blog/internal/sanitize"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// 模板名，传给 c.HTML
const (
	ViewIndex = "index.html"
	ViewNew   = "new.html"
	ViewShow  = "show.html"
	ViewEdit  = "edit.html"
)

// Page 所有页面共用的数据
type Page struct {
	Title string
	Posts []*model.Post
	Post  *model.Post
}

// DateLayout 列表与详情页的日期格式，如 "Mon Jan 02 2006"
const DateLayout = "Mon Jan 02 2006"

// Templates 解析内嵌模板。输出时再次清洗 body，绕过 service 写入的数据也能安全渲染
func Templates(s *sanitize.Sanitizer) (*template.Template, error) {
	funcs := template.FuncMap{
		"formatDate": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}
			return t.Local().Format(DateLayout)
		},
		"excerpt": s.Excerpt,
		"renderBody": func(body string) template.HTML {
			return template.HTML(s.Clean(body))
		},
	}
	return template.New("").Funcs(funcs).ParseFS(templateFS, "templates/*.html")
}

// Static 以 static/ 为根提供内嵌资源
func Static() http.FileSystem {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return http.FS(sub)
}
