package cli

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/d60-Lab/restful-blog/internal/api"
	"github.com/d60-Lab/restful-blog/internal/api/handler"
	"github.com/d60-Lab/restful-blog/internal/repository"
	"github.com/d60-Lab/restful-blog/internal/sanitize"
	"github.com/d60-Lab/restful-blog/internal/service"
	"github.com/d60-Lab/restful-blog/internal/web"
	"github.com/d60-Lab/restful-blog/pkg/logger"
	"github.com/d60-Lab/restful-blog/pkg/sentryx"
	"github.com/d60-Lab/restful-blog/pkg/tracing"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return serve(ctx)
	},
}

func serve(ctx context.Context) error {
	gin.SetMode(cfg.Server.Mode)

	if err := sentryx.Init(cfg.Sentry, version); err != nil {
		logger.Warn("sentry disabled", zap.Error(err))
	}
	defer sentryx.Flush(2 * time.Second)

	shutdownTracing, err := tracing.Init(ctx, cfg.Tracing)
	if err != nil {
		return err
	}
	defer func() { _ = shutdownTracing(context.Background()) }()

	repo, err := repository.Open(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := repo.Close(); err != nil {
			logger.Warn("close repository", zap.Error(err))
		}
	}()
	if err := repo.InitSchema(ctx); err != nil {
		return err
	}

	sanitizer := sanitize.New()
	tmpl, err := web.Templates(sanitizer)
	if err != nil {
		return err
	}

	postService := service.NewPostService(repo, sanitizer)
	h := handler.NewHandler(postService, repo)

	opts := api.OptionsFromConfig(cfg)
	if opts.RateLimiter != nil {
		go opts.RateLimiter.Run(ctx.Done())
	}
	router := api.NewRouter(h, tmpl, opts)

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      api.NewHTTPHandler(router),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("blog server has started",
			zap.String("addr", "http://localhost"+srv.Addr),
			zap.String("driver", cfg.Database.Driver),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
