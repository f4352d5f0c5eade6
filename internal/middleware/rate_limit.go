package middleware

import (
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/d60-Lab/restful-blog/pkg/response"
)

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// IPRateLimiter 按客户端 IP 的令牌桶限流
type IPRateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	rps      rate.Limit
	burst    int
	ttl      time.Duration
}

func NewIPRateLimiter(rps float64, burst int) *IPRateLimiter {
	return &IPRateLimiter{
		visitors: make(map[string]*visitor),
		rps:      rate.Limit(rps),
		burst:    burst,
		ttl:      3 * time.Minute,
	}
}

// Allow 消耗 ip 的一个令牌
func (l *IPRateLimiter) Allow(ip string) bool {
	now := time.Now()
	l.mu.Lock()
	defer l.mu.Unlock()

	v, ok := l.visitors[ip]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(l.rps, l.burst)}
		l.visitors[ip] = v
	}
	v.lastSeen = now
	return v.limiter.AllowN(now, 1)
}

// Cleanup 清理超过 ttl 未访问的 IP
func (l *IPRateLimiter) Cleanup() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	removed := 0
	for ip, v := range l.visitors {
		if time.Since(v.lastSeen) > l.ttl {
			delete(l.visitors, ip)
			removed++
		}
	}
	return removed
}

// Len 当前跟踪的 IP 数
func (l *IPRateLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.visitors)
}

// Run 周期性清理，直到 stop 关闭
func (l *IPRateLimiter) Run(stop <-chan struct{}) {
	ticker := time.NewTicker(l.ttl)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			l.Cleanup()
		}
	}
}

// RateLimit 超出限额返回 429
func RateLimit(l *IPRateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !l.Allow(c.ClientIP()) {
			response.TooManyRequests(c)
			return
		}
		c.Next()
	}
}
