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

// Feeds 列表类只读接口与分类
type Feeds struct {
	feeds      *service.FeedService
	categories *service.CategoryService
}

func NewFeeds(feeds *service.FeedService, categories *service.CategoryService) *Feeds {
	return &Feeds{feeds: feeds, categories: categories}
}

func (h *Feeds) Priority() int { return 40 }

type feedPage = resp.Page[domain.CurationView]

type feedQuery struct {
	Order      string  `form:"order,default=newest" binding:"oneof=newest best"`
	CategoryID *uint64 `form:"categoryId"`
	resp.PageQuery
}

type categoryPageIn struct {
	CategoryID uint64 `uri:"categoryId" form:"-" json:"-"`
	resp.PageQuery
}

func (h *Feeds) MountAPI(g *gin.RouterGroup) {
	e := ez.New(g)

	// GET /curations?order=newest|best&categoryId=
	ez.RegisterAction(e, ez.Action[feedQuery, feedPage]{
		Method: http.MethodGet,
		Path:   "/curations",
		Binder: ez.BindQuery,
		Handler: func(c *gin.Context, in *feedQuery) (feedPage, error) {
			list := h.feeds.Newest
			if in.Order == "best" {
				list = h.feeds.Best
			}
			p, err := list(c.Request.Context(), mdw.Identity(c), in.CategoryID, in.Request())
			return resp.FromPage(p), err
		},
	})

	ez.RegisterAction(e, ez.Action[struct{}, []domain.Category]{
		Method: http.MethodGet,
		Path:   "/categories",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) ([]domain.Category, error) {
			return h.categories.List(c.Request.Context())
		},
	})

	ez.RegisterAction(e, ez.Action[categoryPageIn, feedPage]{
		Method: http.MethodGet,
		Path:   "/categories/:categoryId/curations",
		Binder: ez.BindURIQuery,
		Handler: func(c *gin.Context, in *categoryPageIn) (feedPage, error) {
			p, err := h.feeds.ByCategory(c.Request.Context(), mdw.Identity(c), in.CategoryID, in.Request())
			return resp.FromPage(p), err
		},
	})

	ez.RegisterAction(e, ez.Action[memberPageIn, feedPage]{
		Method: http.MethodGet,
		Path:   "/members/:memberId/curations",
		Binder: ez.BindURIQuery,
		Handler: func(c *gin.Context, in *memberPageIn) (feedPage, error) {
			p, err := h.feeds.OfMember(c.Request.Context(), mdw.Identity(c), in.MemberID, in.Request())
			return resp.FromPage(p), err
		},
	})

	ez.RegisterAction(e, ez.Action[memberPageIn, feedPage]{
		Method: http.MethodGet,
		Path:   "/members/:memberId/likes",
		Binder: ez.BindURIQuery,
		Handler: func(c *gin.Context, in *memberPageIn) (feedPage, error) {
			p, err := h.feeds.LikedByMember(c.Request.Context(), mdw.Identity(c), in.MemberID, in.Request())
			return resp.FromPage(p), err
		},
	})

	ez.RegisterAction(e, ez.Action[resp.PageQuery, feedPage]{
		Method: http.MethodGet,
		Path:   "/me/curations",
		Binder: ez.BindQuery,
		Auth:   true,
		Handler: func(c *gin.Context, in *resp.PageQuery) (feedPage, error) {
			p, err := h.feeds.Mine(c.Request.Context(), mdw.Identity(c), in.Request())
			return resp.FromPage(p), err
		},
	})

	ez.RegisterAction(e, ez.Action[resp.PageQuery, feedPage]{
		Method: http.MethodGet,
		Path:   "/me/likes",
		Binder: ez.BindQuery,
		Auth:   true,
		Handler: func(c *gin.Context, in *resp.PageQuery) (feedPage, error) {
			p, err := h.feeds.LikedByMe(c.Request.Context(), mdw.Identity(c), in.Request())
			return resp.FromPage(p), err
		},
	})
}
