package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProtectedRouter(tokens *TokenManager) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/protected", Middleware(tokens), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true, "admin_id": AdminID(c)})
	})
	return r
}

func doRequest(r *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestMiddlewareAllowsAdmin(t *testing.T) {
	tokens := NewTokenManager("secret")
	token, err := tokens.Generate("admin-1", "admin@example.com", "admin")
	require.NoError(t, err)

	w := doRequest(newProtectedRouter(tokens), "Bearer "+token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "admin-1")
}

func TestMiddlewareRejectsMissingHeader(t *testing.T) {
	w := doRequest(newProtectedRouter(NewTokenManager("secret")), "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestMiddlewareRejectsMalformedHeader(t *testing.T) {
	w := doRequest(newProtectedRouter(NewTokenManager("secret")), "Token abc")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestMiddlewareRejectsInvalidToken(t *testing.T) {
	w := doRequest(newProtectedRouter(NewTokenManager("secret")), "Bearer bogus")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestMiddlewareForbidsNonAdminRole(t *testing.T) {
	tokens := NewTokenManager("secret")
	token, err := tokens.Generate("u1", "user@example.com", "investor")
	require.NoError(t, err)

	w := doRequest(newProtectedRouter(tokens), "Bearer "+token)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
