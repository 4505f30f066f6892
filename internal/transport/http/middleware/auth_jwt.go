package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"whosbook/internal/core/auth"
	"whosbook/internal/domain"
	resp "whosbook/internal/transport/http/response"
)

// 写入 gin.Context 的键
const (
	KeyClaims = "claims"
	KeyUserID = "userId"
	KeyEmail  = "email"
	KeyRole   = "role"
)

func bearer(c *gin.Context) (string, bool) {
	ah := c.GetHeader("Authorization")
	if !strings.HasPrefix(ah, "Bearer ") {
		return "", false
	}
	return strings.TrimSpace(strings.TrimPrefix(ah, "Bearer ")), true
}

func setClaims(c *gin.Context, claims *auth.Claims) {
	c.Set(KeyClaims, claims)
	c.Set(KeyUserID, claims.UID)
	c.Set(KeyEmail, claims.Email)
	c.Set(KeyRole, claims.Role)
}

// AuthJWT 必须登录；requireRole 非空时还要求角色一致
func AuthJWT(j *auth.JWTer, requireRole string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tok, ok := bearer(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, resp.Fail(resp.CodeUnauthorized, domain.ErrUnauthorized.Code, "missing token"))
			return
		}
		claims, err := j.Parse(tok)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, resp.Fail(resp.CodeUnauthorized, domain.ErrUnauthorized.Code, "invalid token"))
			return
		}
		if requireRole != "" && claims.Role != requireRole {
			c.AbortWithStatusJSON(http.StatusForbidden, resp.Error(resp.CodeForbidden, "forbidden"))
			return
		}
		setClaims(c, claims)
		c.Next()
	}
}

// OptionalAuth 没带令牌按匿名处理；带了但无效仍然拒绝
func OptionalAuth(j *auth.JWTer) gin.HandlerFunc {
	return func(c *gin.Context) {
		tok, ok := bearer(c)
		if !ok {
			c.Next()
			return
		}
		claims, err := j.Parse(tok)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, resp.Fail(resp.CodeUnauthorized, domain.ErrUnauthorized.Code, "invalid token"))
			return
		}
		setClaims(c, claims)
		c.Next()
	}
}

// Identity 当前调用方；未登录返回匿名
func Identity(c *gin.Context) domain.Identity {
	if v, ok := c.Get(KeyClaims); ok {
		if claims, ok := v.(*auth.Claims); ok {
			return claims.Identity()
		}
	}
	id, _ := strconv.ParseUint(c.GetString(KeyUserID), 10, 64)
	return domain.Identity{MemberID: id, Email: c.GetString(KeyEmail), Role: c.GetString(KeyRole)}
}
