package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"whosbook/internal/core/auth"
	"whosbook/internal/domain"
)

func init() { gin.SetMode(gin.TestMode) }

func serve(r *gin.Engine, path string, header map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(KeyRequestID)) })

	w := serve(r, "/", map[string]string{KeyRequestID: "abc-123"})
	assert.Equal(t, "abc-123", w.Header().Get(KeyRequestID))
	assert.Equal(t, "abc-123", w.Body.String())

	for _, bad := range []string{strings.Repeat("x", 65), "a b", ""} {
		w = serve(r, "/", map[string]string{KeyRequestID: bad})
		assert.NotEqual(t, bad, w.Header().Get(KeyRequestID))
		assert.Len(t, w.Header().Get(KeyRequestID), 36)
	}
}

func TestOptionalAndRequiredAuth(t *testing.T) {
	j := &auth.JWTer{Secret: []byte("k"), Issuer: "whosbook", TTL: time.Hour}
	tok, err := j.Issue(&domain.Member{ID: 7, Email: "a@whosbook.io", Role: domain.RoleUser})
	require.NoError(t, err)

	var seen domain.Identity
	echo := func(c *gin.Context) {
		seen = Identity(c)
		c.Status(http.StatusNoContent)
	}
	r := gin.New()
	r.GET("/open", OptionalAuth(j), echo)
	r.GET("/closed", AuthJWT(j, ""), echo)
	r.GET("/admin", AuthJWT(j, domain.RoleAdmin), echo)

	w := serve(r, "/open", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.True(t, seen.IsAnonymous())

	w = serve(r, "/open", map[string]string{"Authorization": "Bearer " + tok})
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, uint64(7), seen.MemberID)
	assert.Equal(t, "a@whosbook.io", seen.Email)

	w = serve(r, "/open", map[string]string{"Authorization": "Bearer garbage"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = serve(r, "/closed", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), domain.ErrUnauthorized.Code)

	w = serve(r, "/admin", map[string]string{"Authorization": "Bearer " + tok})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRateLimit(t *testing.T) {
	r := gin.New()
	r.Use(RateLimitPerIP(0.001, 2))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusOK, serve(r, "/", nil).Code)
	assert.Equal(t, http.StatusOK, serve(r, "/", nil).Code)
	assert.Equal(t, http.StatusTooManyRequests, serve(r, "/", nil).Code)
}

func TestTimeoutWritesGatewayTimeout(t *testing.T) {
	r := gin.New()
	r.Use(Timeout(10 * time.Millisecond))
	r.GET("/", func(c *gin.Context) { <-c.Request.Context().Done() })

	assert.Equal(t, http.StatusGatewayTimeout, serve(r, "/", nil).Code)
}
