package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func TestNewAndVerifyToken(t *testing.T) {
	token, err := NewToken("secret", "client-1", time.Minute)
	require.NoError(t, err)

	subject, err := VerifyToken("secret", token)
	require.NoError(t, err)
	require.Equal(t, "client-1", subject)
}

func TestVerifyToken_WrongSecret(t *testing.T) {
	token, err := NewToken("secret", "client-1", time.Minute)
	require.NoError(t, err)

	_, err = VerifyToken("other", token)
	require.Error(t, err)
}

func TestVerifyToken_Expired(t *testing.T) {
	token, err := NewToken("secret", "client-1", -time.Minute)
	require.NoError(t, err)

	_, err = VerifyToken("secret", token)
	require.Error(t, err)
}

func protectedRouter(secret string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(Middleware(secret))
	router.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	return router
}

func TestMiddleware_MissingToken(t *testing.T) {
	router := protectedRouter("secret")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))

	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestMiddleware_InvalidToken(t *testing.T) {
	router := protectedRouter("secret")

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestMiddleware_ValidToken(t *testing.T) {
	router := protectedRouter("secret")

	token, err := NewToken("secret", "client-1", time.Minute)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "pong", w.Body.String())
}
