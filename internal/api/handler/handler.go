package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/d60-Lab/restful-blog/internal/middleware"
	"github.com/d60-Lab/restful-blog/internal/service"
	"github.com/d60-Lab/restful-blog/pkg/logger"
	"github.com/d60-Lab/restful-blog/pkg/sentryx"
)

// Pinger 存储健康检查
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler HTTP 处理器集合（HTML 页面 + JSON API）
type Handler struct {
	postService service.PostService
	pinger      Pinger
}

func NewHandler(postService service.PostService, pinger Pinger) *Handler {
	return &Handler{postService: postService, pinger: pinger}
}

// logFailure 按错误分类记录日志；存储错误额外上报 Sentry
func logFailure(c *gin.Context, op, id string, err error) {
	kind := service.KindOf(err)
	fields := []zap.Field{
		zap.String("op", op),
		zap.String("kind", kind.String()),
		zap.String("request_id", c.GetString(middleware.RequestIDKey)),
		zap.Error(err),
	}
	if id != "" {
		fields = append(fields, zap.String("id", id))
	}
	if kind == service.KindStore {
		logger.Error("post operation failed", fields...)
		sentryx.Capture(err, map[string]string{"op": op})
		return
	}
	logger.Warn("post operation rejected", fields...)
}

// Health 检查存储连通性
// @Summary 健康检查
// @Tags 系统
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 503 {object} map[string]string
// @Router /health [get]
func (h *Handler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()
	if err := h.pinger.Ping(ctx); err != nil {
		logger.Error("health check failed", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
