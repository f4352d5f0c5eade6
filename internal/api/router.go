package api

import (
	"html/template"
	"net/http"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/d60-Lab/restful-blog/config"
	_ "github.com/d60-Lab/restful-blog/docs"
	"github.com/d60-Lab/restful-blog/internal/api/handler"
	"github.com/d60-Lab/restful-blog/internal/middleware"
	"github.com/d60-Lab/restful-blog/internal/web"
)

// Options 路由可选组件
type Options struct {
	Swagger     bool
	Gzip        bool
	Tracing     bool
	ServiceName string
	RateLimiter *middleware.IPRateLimiter
}

// OptionsFromConfig 由配置生成路由选项；限流器需调用方启动清理
func OptionsFromConfig(cfg *config.Config) Options {
	opts := Options{
		Swagger:     cfg.Server.Swagger,
		Gzip:        cfg.Gzip.Enabled,
		Tracing:     cfg.Tracing.Enabled,
		ServiceName: cfg.Tracing.ServiceName,
	}
	if cfg.RateLimit.Enabled {
		opts.RateLimiter = middleware.NewIPRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst)
	}
	return opts
}

// NewRouter 注册页面、API 与静态资源路由
func NewRouter(h *handler.Handler, tmpl *template.Template, opts Options) *gin.Engine {
	r := gin.New()
	r.SetHTMLTemplate(tmpl)

	r.Use(middleware.RequestID(), middleware.Logger(), middleware.Recovery(), middleware.SecureHeaders())
	if opts.Tracing {
		r.Use(otelgin.Middleware(opts.ServiceName))
	}
	if opts.Gzip {
		r.Use(gzip.Gzip(gzip.DefaultCompression))
	}
	if opts.RateLimiter != nil {
		r.Use(middleware.RateLimit(opts.RateLimiter))
	}

	r.StaticFS("/static", web.Static())
	r.GET("/health", h.Health)

	r.GET("/", h.Root)
	posts := r.Group(handler.PostsPath)
	{
		posts.GET("", h.Index)
		posts.GET("/new", h.New)
		posts.POST("", h.Create)
		posts.GET("/:id", h.Show)
		posts.GET("/:id/edit", h.Edit)
		posts.PUT("/:id", h.Update)
		posts.DELETE("/:id", h.Destroy)
	}

	v1 := r.Group("/api/v1")
	{
		v1.GET("/posts", h.ListPosts)
		v1.POST("/posts", h.CreatePost)
		v1.GET("/posts/:id", h.GetPost)
		v1.PUT("/posts/:id", h.UpdatePost)
		v1.DELETE("/posts/:id", h.DeletePost)
	}

	if opts.Swagger {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}
	return r
}

// NewHTTPHandler 在 gin 路由前应用 _method 覆盖
func NewHTTPHandler(r *gin.Engine) http.Handler {
	return middleware.MethodOverride(r)
}
