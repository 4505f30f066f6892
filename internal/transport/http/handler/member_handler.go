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

// Members 个人主页、注销与关注关系
type Members struct {
	members *service.MemberService
	social  *service.SocialService
}

func NewMembers(members *service.MemberService, social *service.SocialService) *Members {
	return &Members{members: members, social: social}
}

func (h *Members) Priority() int { return 20 }

func (h *Members) MountAPI(g *gin.RouterGroup) {
	e := ez.New(g)

	ez.RegisterAction(e, ez.Action[memberURI, *service.MemberProfile]{
		Method: http.MethodGet,
		Path:   "/members/:memberId",
		Binder: ez.BindURI,
		Handler: func(c *gin.Context, in *memberURI) (*service.MemberProfile, error) {
			return h.members.Profile(c.Request.Context(), mdw.Identity(c), in.MemberID)
		},
	})

	ez.RegisterAction(e, ez.Action[memberPageIn, resp.Page[domain.Member]]{
		Method: http.MethodGet,
		Path:   "/members/:memberId/subscribers",
		Binder: ez.BindURIQuery,
		Handler: func(c *gin.Context, in *memberPageIn) (resp.Page[domain.Member], error) {
			p, err := h.social.SubscribersOf(c.Request.Context(), in.MemberID, in.Request())
			return resp.FromPage(p), err
		},
	})

	ez.RegisterAction(e, ez.Action[memberPageIn, resp.Page[domain.Member]]{
		Method: http.MethodGet,
		Path:   "/members/:memberId/subscriptions",
		Binder: ez.BindURIQuery,
		Handler: func(c *gin.Context, in *memberPageIn) (resp.Page[domain.Member], error) {
			p, err := h.social.SubscriptionsOf(c.Request.Context(), in.MemberID, in.Request())
			return resp.FromPage(p), err
		},
	})

	// 关注 / 取消关注，重复操作幂等
	ez.RegisterAction(e, ez.Action[memberURI, *service.SubscribeState]{
		Method: http.MethodPost,
		Path:   "/members/:memberId/subscribe",
		Binder: ez.BindURI,
		Auth:   true,
		Handler: func(c *gin.Context, in *memberURI) (*service.SubscribeState, error) {
			return h.social.Subscribe(c.Request.Context(), mdw.Identity(c), in.MemberID)
		},
	})
	ez.RegisterAction(e, ez.Action[memberURI, *service.SubscribeState]{
		Method: http.MethodDelete,
		Path:   "/members/:memberId/subscribe",
		Binder: ez.BindURI,
		Auth:   true,
		Handler: func(c *gin.Context, in *memberURI) (*service.SubscribeState, error) {
			return h.social.Unsubscribe(c.Request.Context(), mdw.Identity(c), in.MemberID)
		},
	})

	// /me 系列需要登录
	ez.RegisterAction(e, ez.Action[struct{}, *service.MemberProfile]{
		Method: http.MethodGet,
		Path:   "/me",
		Binder: ez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) (*service.MemberProfile, error) {
			id := mdw.Identity(c)
			return h.members.Profile(c.Request.Context(), id, id.MemberID)
		},
	})

	ez.RegisterAction(e, ez.Action[struct{}, gin.H]{
		Method: http.MethodDelete,
		Path:   "/me",
		Binder: ez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) (gin.H, error) {
			id := mdw.Identity(c)
			if err := h.members.Withdraw(c.Request.Context(), id); err != nil {
				return nil, err
			}
			return gin.H{"memberId": id.MemberID}, nil
		},
	})

	ez.RegisterAction(e, ez.Action[resp.PageQuery, resp.Page[domain.Member]]{
		Method: http.MethodGet,
		Path:   "/me/subscriptions",
		Binder: ez.BindQuery,
		Auth:   true,
		Handler: func(c *gin.Context, in *resp.PageQuery) (resp.Page[domain.Member], error) {
			p, err := h.social.SubscriptionsOf(c.Request.Context(), mdw.Identity(c).MemberID, in.Request())
			return resp.FromPage(p), err
		},
	})
}
