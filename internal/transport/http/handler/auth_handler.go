package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"whosbook/internal/domain"
	"whosbook/internal/service"
	"whosbook/internal/transport/http/ez"
)

// Auth 登录与注册（公共接口）
type Auth struct {
	members *service.MemberService
}

func NewAuth(members *service.MemberService) *Auth { return &Auth{members: members} }

func (h *Auth) Priority() int { return 10 }

type loginIn struct {
	Email    string `json:"email"    binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type loginOut struct {
	Token  string         `json:"token"`
	Member *domain.Member `json:"member"`
}

func (h *Auth) MountAPI(g *gin.RouterGroup) {
	e := ez.New(g)

	// POST /auth/login：账号不存在与密码错误统一返回 INVALID_CREDENTIALS
	ez.RegisterAction(e, ez.Action[loginIn, loginOut]{
		Method: http.MethodPost,
		Path:   "/auth/login",
		Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *loginIn) (loginOut, error) {
			tok, m, err := h.members.Login(c.Request.Context(), in.Email, in.Password)
			if err != nil {
				return loginOut{}, err
			}
			return loginOut{Token: tok, Member: m}, nil
		},
	})

	// POST /members：注册
	ez.RegisterAction(e, ez.Action[service.SignupInput, *domain.Member]{
		Method: http.MethodPost,
		Path:   "/members",
		Binder: ez.BindJSON,
		Status: http.StatusCreated,
		Handler: func(c *gin.Context, in *service.SignupInput) (*domain.Member, error) {
			return h.members.Register(c.Request.Context(), *in)
		},
	})
}
