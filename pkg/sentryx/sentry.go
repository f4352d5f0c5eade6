// Package sentryx 可选的 Sentry 错误上报
package sentryx

import (
	"time"

	"github.com/getsentry/sentry-go"

	"github.com/d60-Lab/restful-blog/config"
)

var enabled bool

// Init 初始化 Sentry，DSN 为空时不上报
func Init(cfg config.SentryConfig, release string) error {
	if cfg.DSN == "" {
		return nil
	}
	if err := sentry.Init(sentry.ClientOptions{
		Dsn:         cfg.DSN,
		Environment: cfg.Environment,
		Release:     release,
	}); err != nil {
		return err
	}
	enabled = true
	return nil
}

// Capture 带 tag 上报错误，未启用时忽略
func Capture(err error, tags map[string]string) {
	if !enabled || err == nil {
		return
	}
	sentry.WithScope(func(scope *sentry.Scope) {
		scope.SetTags(tags)
		sentry.CaptureException(err)
	})
}

// Flush 退出前等待缓冲事件发送完成
func Flush(timeout time.Duration) {
	if enabled {
		sentry.Flush(timeout)
	}
}
