package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	mdw "whosbook/internal/transport/http/middleware"
	resp "whosbook/internal/transport/http/response"
)

type Options struct {
	Name         string
	Mode         string
	AllowOrigins []string
}

// NewRouter 基础引擎：request id、recovery、cors；其余中间件由各端自行追加
func NewRouter(l *zap.Logger, o Options) *gin.Engine {
	if o.Mode != "" {
		gin.SetMode(o.Mode)
	}
	r := gin.New()
	r.Use(mdw.RequestID(), mdw.Recovery(l))
	if len(o.AllowOrigins) > 0 {
		cfg := cors.DefaultConfig()
		cfg.AllowOrigins = o.AllowOrigins
		cfg.AddAllowHeaders("Authorization", mdw.KeyRequestID)
		r.Use(cors.New(cfg))
	} else {
		r.Use(cors.Default())
	}
	return r
}

// Probe 健康检查项
type Probe = func(ctx context.Context) error

// MountOps /health 逐项探测依赖；/metrics 暴露 prometheus 指标
func MountOps(r *gin.Engine, name string, probes map[string]Probe) {
	r.GET("/health", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		checks := make(map[string]string, len(probes))
		status := http.StatusOK
		for k, p := range probes {
			if err := p(ctx); err != nil {
				checks[k] = err.Error()
				status = http.StatusServiceUnavailable
				continue
			}
			checks[k] = "ok"
		}
		data := gin.H{"name": name, "checks": checks}
		if status != http.StatusOK {
			c.JSON(status, resp.New(resp.CodeServiceBusy, resp.CodeMsgMap[resp.CodeServiceBusy], data))
			return
		}
		c.JSON(status, resp.OK(data))
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

func StartHTTP(srv *http.Server, l *zap.Logger) error {
	l.Info("http starting", zap.String("addr", srv.Addr))
	return srv.ListenAndServe()
}

func BuildServer(addr string, handler http.Handler, rt, wt, it time.Duration) *http.Server {
	return &http.Server{
		Addr:           addr,
		Handler:        handler,
		ReadTimeout:    rt,
		WriteTimeout:   wt,
		IdleTimeout:    it,
		MaxHeaderBytes: 1 << 20, // 1MB
	}
}

func Addr(host string, port int) string { return fmt.Sprintf("%s:%d", host, port) }
