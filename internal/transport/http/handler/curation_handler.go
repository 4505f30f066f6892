package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"whosbook/internal/domain"
	"whosbook/internal/service"
	"whosbook/internal/transport/http/ez"
	mdw "whosbook/internal/transport/http/middleware"
)

// Curations 单篇 curation 的增删改查、点赞与配图登记
type Curations struct {
	curations *service.CurationService
	social    *service.SocialService
	images    *service.ImageService
	members   *service.MemberService
}

func NewCurations(curations *service.CurationService, social *service.SocialService,
	images *service.ImageService, members *service.MemberService) *Curations {
	return &Curations{curations: curations, social: social, images: images, members: members}
}

func (h *Curations) Priority() int { return 30 }

type curationPatchIn struct {
	CurationID uint64 `uri:"curationId" form:"-" json:"-"`
	service.CurationPatch
}

func (h *Curations) MountAPI(g *gin.RouterGroup) {
	e := ez.New(g)

	ez.RegisterAction(e, ez.Action[service.CurationDraft, *domain.CurationView]{
		Method: http.MethodPost,
		Path:   "/curations",
		Binder: ez.BindJSON,
		Auth:   true,
		Status: http.StatusCreated,
		Handler: func(c *gin.Context, in *service.CurationDraft) (*domain.CurationView, error) {
			return h.curations.Create(c.Request.Context(), mdw.Identity(c), *in)
		},
	})

	ez.RegisterAction(e, ez.Action[curationURI, *domain.CurationView]{
		Method: http.MethodGet,
		Path:   "/curations/:curationId",
		Binder: ez.BindURI,
		Handler: func(c *gin.Context, in *curationURI) (*domain.CurationView, error) {
			return h.curations.Get(c.Request.Context(), mdw.Identity(c), in.CurationID)
		},
	})

	ez.RegisterAction(e, ez.Action[curationPatchIn, *domain.CurationView]{
		Method: http.MethodPatch,
		Path:   "/curations/:curationId",
		Binder: ez.BindURIJSON,
		Auth:   true,
		Handler: func(c *gin.Context, in *curationPatchIn) (*domain.CurationView, error) {
			return h.curations.Update(c.Request.Context(), mdw.Identity(c), in.CurationID, in.CurationPatch)
		},
	})

	ez.RegisterAction(e, ez.Action[curationURI, gin.H]{
		Method: http.MethodDelete,
		Path:   "/curations/:curationId",
		Binder: ez.BindURI,
		Auth:   true,
		Handler: func(c *gin.Context, in *curationURI) (gin.H, error) {
			if err := h.curations.Delete(c.Request.Context(), mdw.Identity(c), in.CurationID); err != nil {
				return nil, err
			}
			return gin.H{"curationId": in.CurationID}, nil
		},
	})

	// 点赞 / 取消点赞
	ez.RegisterAction(e, ez.Action[curationURI, *service.LikeState]{
		Method: http.MethodPost,
		Path:   "/curations/:curationId/like",
		Binder: ez.BindURI,
		Auth:   true,
		Handler: func(c *gin.Context, in *curationURI) (*service.LikeState, error) {
			return h.social.Like(c.Request.Context(), mdw.Identity(c), in.CurationID)
		},
	})
	ez.RegisterAction(e, ez.Action[curationURI, *service.LikeState]{
		Method: http.MethodDelete,
		Path:   "/curations/:curationId/like",
		Binder: ez.BindURI,
		Auth:   true,
		Handler: func(c *gin.Context, in *curationURI) (*service.LikeState, error) {
			return h.social.Unlike(c.Request.Context(), mdw.Identity(c), in.CurationID)
		},
	})

	// POST /images：登记已上传的图片，之后在 curation 里按 id 引用
	ez.RegisterAction(e, ez.Action[service.ImageInput, *domain.CurationImage]{
		Method: http.MethodPost,
		Path:   "/images",
		Binder: ez.BindJSON,
		Auth:   true,
		Status: http.StatusCreated,
		Handler: func(c *gin.Context, in *service.ImageInput) (*domain.CurationImage, error) {
			owner, err := h.members.ByEmail(c.Request.Context(), mdw.Identity(c).Email)
			if err != nil {
				return nil, err
			}
			return h.images.Register(c.Request.Context(), owner.ID, *in)
		},
	})
}
