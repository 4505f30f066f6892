// internal/transport/http/router/api.go
package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"whosbook/internal/app"
	"whosbook/internal/core/server"
	mdw "whosbook/internal/transport/http/middleware"
)

func NewAPIEngine(l *zap.Logger, s *app.Services, o server.Options) *gin.Engine {
	r := server.NewRouter(l, o)

	// 中间件
	r.Use(
		mdw.RateLimit(200, 400),
		mdw.RateLimitPerIP(50, 100),
		mdw.ConcurrencyLimit(300),
		mdw.MaxBodyBytes(16<<20),
		mdw.Timeout(10*time.Second),
		mdw.Metrics(),
		mdw.AccessLog(l, "/health", "/metrics"),
	)

	// 健康检查 + 指标
	server.MountOps(r, o.Name, s.Probes())

	// 前缀；令牌可选，需要登录的动作自行声明 Auth
	api := r.Group("/api/v1")
	api.Use(mdw.OptionalAuth(s.JWT))

	Modules(s).MountAllAPI(api)
	return r
}
