// internal/transport/http/router/admin.go
package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"whosbook/internal/app"
	"whosbook/internal/core/server"
	mdw "whosbook/internal/transport/http/middleware"
)

func NewAdminEngine(l *zap.Logger, s *app.Services, o server.Options) *gin.Engine {
	r := server.NewRouter(l, o)

	r.Use(
		mdw.RateLimit(50, 100),
		mdw.ConcurrencyLimit(50),
		mdw.MaxBodyBytes(1<<20),
		mdw.Timeout(15*time.Second),
		mdw.Metrics(),
		mdw.AccessLog(l, "/health", "/metrics"),
	)

	server.MountOps(r, o.Name, s.Probes())

	// 管理端 v1：必须登录；是否具备管理能力由 AdminPolicy 判定（角色或配置的邮箱）
	admin := r.Group("/admin/v1")
	admin.Use(mdw.AuthJWT(s.JWT, ""))

	Modules(s).MountAllAdmin(admin)
	return r
}
