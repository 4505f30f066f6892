package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"whosbook/internal/domain"
	"whosbook/internal/service"
	"whosbook/internal/transport/http/ez"
	mdw "whosbook/internal/transport/http/middleware"
	resp "whosbook/internal/transport/http/response"
)

// Admin 管理端：统计、排行、成员管理。权限由 service 层的 AdminPolicy 判定
type Admin struct {
	ranking *service.RankingService
	members *service.MemberService
}

func NewAdmin(ranking *service.RankingService, members *service.MemberService) *Admin {
	return &Admin{ranking: ranking, members: members}
}

type topQuery struct {
	N int `form:"n,default=0" binding:"min=0,max=100"`
}

type memberListQuery struct {
	Q string `form:"q"` // 按 email/nickname 模糊搜
	resp.PageQuery
}

func (h *Admin) MountAdmin(g *gin.RouterGroup) {
	e := ez.New(g)

	ez.RegisterAction(e, ez.Action[struct{}, *service.Dashboard]{
		Method: http.MethodGet,
		Path:   "/dashboard",
		Binder: ez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) (*service.Dashboard, error) {
			return h.ranking.Dashboard(c.Request.Context(), mdw.Identity(c))
		},
	})

	ez.RegisterAction(e, ez.Action[struct{}, gin.H]{
		Method: http.MethodGet,
		Path:   "/stats/curations",
		Binder: ez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) (gin.H, error) {
			n, err := h.ranking.TotalCurations(c.Request.Context(), mdw.Identity(c))
			if err != nil {
				return nil, err
			}
			return gin.H{"totalCurations": n}, nil
		},
	})

	ez.RegisterAction(e, ez.Action[struct{}, gin.H]{
		Method: http.MethodGet,
		Path:   "/stats/members",
		Binder: ez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) (gin.H, error) {
			n, err := h.ranking.TotalMembers(c.Request.Context(), mdw.Identity(c))
			if err != nil {
				return nil, err
			}
			return gin.H{"totalMembers": n}, nil
		},
	})

	ez.RegisterAction(e, ez.Action[struct{}, *service.MostSubscribed]{
		Method: http.MethodGet,
		Path:   "/stats/most-subscribed",
		Binder: ez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) (*service.MostSubscribed, error) {
			return h.ranking.MostSubscribed(c.Request.Context(), mdw.Identity(c))
		},
	})

	// n=0 时取配置的默认条数
	ez.RegisterAction(e, ez.Action[topQuery, []domain.CuratorStat]{
		Method: http.MethodGet,
		Path:   "/curators/top",
		Binder: ez.BindQuery,
		Auth:   true,
		Handler: func(c *gin.Context, in *topQuery) ([]domain.CuratorStat, error) {
			return h.ranking.TopCurators(c.Request.Context(), mdw.Identity(c), in.N)
		},
	})

	ez.RegisterAction(e, ez.Action[resp.PageQuery, resp.Page[domain.CuratorStat]]{
		Method: http.MethodGet,
		Path:   "/curators/best",
		Binder: ez.BindQuery,
		Auth:   true,
		Handler: func(c *gin.Context, in *resp.PageQuery) (resp.Page[domain.CuratorStat], error) {
			p, err := h.ranking.BestCurators(c.Request.Context(), mdw.Identity(c), in.Request())
			return resp.FromPage(p), err
		},
	})

	// --- GET /admin/v1/members  成员列表 ---
	ez.RegisterAction(e, ez.Action[memberListQuery, resp.Page[domain.Member]]{
		Method: http.MethodGet,
		Path:   "/members",
		Binder: ez.BindQuery,
		Auth:   true,
		Handler: func(c *gin.Context, in *memberListQuery) (resp.Page[domain.Member], error) {
			p, err := h.members.List(c.Request.Context(), mdw.Identity(c), in.Q, in.Request())
			return resp.FromPage(p), err
		},
	})

	// --- POST /admin/v1/members/:memberId/ban  封禁（软删） ---
	ez.RegisterAction(e, ez.Action[memberURI, gin.H]{
		Method: http.MethodPost,
		Path:   "/members/:memberId/ban",
		Binder: ez.BindURI,
		Auth:   true,
		Handler: func(c *gin.Context, in *memberURI) (gin.H, error) {
			if err := h.members.Ban(c.Request.Context(), mdw.Identity(c), in.MemberID); err != nil {
				return nil, err
			}
			return gin.H{"memberId": in.MemberID}, nil
		},
	})
}
