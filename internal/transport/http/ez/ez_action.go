package ez

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	resp "whosbook/internal/transport/http/response"
)

// 绑定方式
type Binder string

const (
	BindJSON     Binder = "json"      // 从 JSON 绑定
	BindQuery    Binder = "query"     // 从 URL ?a=b 绑定
	BindURI      Binder = "uri"       // 从路径参数 :id 绑定
	BindURIJSON  Binder = "uri+json"  // 路径参数 + JSON
	BindURIQuery Binder = "uri+query" // 路径参数 + 查询串
	BindNone     Binder = "none"      // 不绑定，自己从 c.Param / c.PostForm 取
)

// 动作定义：I 入参，O 出参
type Action[I any, O any] struct {
	Method  string   // "GET" | "POST" | "PUT" | "PATCH" | "DELETE"
	Path    string   // 例："/auth/login"、"/curations/:id"
	Binder  Binder   // 绑定方式
	Auth    bool     // 是否要求登录（检查 userId）
	Roles   []string // 限定角色（可选）
	Status  int      // 成功时的 HTTP 状态，默认 200
	Handler func(c *gin.Context, in *I) (O, error)
}

func bind(c *gin.Context, b Binder, in any) error {
	switch b {
	case BindJSON:
		return c.ShouldBindJSON(in)
	case BindQuery:
		return c.ShouldBindQuery(in)
	case BindURI:
		return c.ShouldBindUri(in)
	case BindURIJSON:
		if err := mapURI(c, in); err != nil {
			return err
		}
		return c.ShouldBindJSON(in)
	case BindURIQuery:
		if err := mapURI(c, in); err != nil {
			return err
		}
		return c.ShouldBindQuery(in)
	default: // BindNone: 不绑定
		return nil
	}
}

// mapURI 只填充路径参数不做校验，校验留给随后的 JSON/Query 绑定统一执行
func mapURI(c *gin.Context, in any) error {
	m := make(map[string][]string, len(c.Params))
	for _, p := range c.Params {
		m[p.Key] = []string{p.Value}
	}
	return binding.MapFormWithTag(in, m, "uri")
}

// RegisterAction 在当前 EZ 下注册动作接口；事务由 service 层负责
func RegisterAction[I any, O any](e EZ, a Action[I, O]) {
	status := a.Status
	if status == 0 {
		status = http.StatusOK
	}
	h := func(c *gin.Context) {
		// 1) 鉴权/角色
		if a.Auth {
			if c.GetString("userId") == "" {
				WriteError(c, Unauthorized("unauthorized"))
				return
			}
			if len(a.Roles) > 0 {
				role := c.GetString("role")
				ok := false
				for _, r := range a.Roles {
					if role == r {
						ok = true
						break
					}
				}
				if !ok {
					WriteError(c, Forbidden("forbidden"))
					return
				}
			}
		}

		// 2) 绑定入参
		var in I
		if err := bind(c, a.Binder, &in); err != nil {
			WriteError(c, BadRequest(err.Error()))
			return
		}

		// 3) 执行 + 统一错误映射
		out, err := a.Handler(c, &in)
		if err != nil {
			WriteError(c, err)
			return
		}
		c.JSON(status, resp.OK(out))
	}

	switch strings.ToUpper(a.Method) {
	case http.MethodGet:
		e.g.GET(a.Path, h)
	case http.MethodPut:
		e.g.PUT(a.Path, h)
	case http.MethodPatch:
		e.g.PATCH(a.Path, h)
	case http.MethodDelete:
		e.g.DELETE(a.Path, h)
	default: // 默认 POST
		e.g.POST(a.Path, h)
	}
}
