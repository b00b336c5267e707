package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/linskybing/nominate-go/internal/config"
	"github.com/linskybing/nominate-go/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupJWT(t *testing.T) {
	old := config.JwtSecret
	config.JwtSecret = "middleware-test-secret"
	Init()
	t.Cleanup(func() {
		config.JwtSecret = old
		Init()
	})
}

func TestGenerateAndParseToken(t *testing.T) {
	setupJWT(t)

	token, err := GenerateToken(3, "carol", true, time.Hour)
	require.NoError(t, err)

	claims, err := ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(3), claims.UserID)
	assert.Equal(t, "carol", claims.Username)
	assert.True(t, claims.IsAdmin)
}

func TestParseToken_Rejects(t *testing.T) {
	setupJWT(t)

	expired, err := GenerateToken(3, "carol", false, -time.Minute)
	require.NoError(t, err)
	_, err = ParseToken(expired)
	assert.Error(t, err)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, &types.Claims{UserID: 3, IsAdmin: true})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = ParseToken(unsigned)
	assert.Error(t, err)

	foreign := jwt.NewWithClaims(jwt.SigningMethodHS256, &types.Claims{UserID: 3})
	signed, err := foreign.SignedString([]byte("some-other-secret"))
	require.NoError(t, err)
	_, err = ParseToken(signed)
	assert.Error(t, err)
}

func TestJWTAuthAndAdmin(t *testing.T) {
	setupJWT(t)
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.GET("/admin", JWTAuthMiddleware(), Admin(), func(c *gin.Context) { c.Status(http.StatusOK) })

	userToken, _ := GenerateToken(7, "nominator", false, time.Hour)
	adminToken, _ := GenerateToken(1, "admin", true, time.Hour)

	tests := []struct {
		name   string
		header string
		cookie string
		want   int
	}{
		{"no credentials", "", "", http.StatusUnauthorized},
		{"malformed header", "Token " + adminToken, "", http.StatusUnauthorized},
		{"nominator", "Bearer " + userToken, "", http.StatusForbidden},
		{"admin header", "Bearer " + adminToken, "", http.StatusOK},
		{"admin cookie", "", adminToken, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/admin", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: "token", Value: tt.cookie})
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestCORSMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(CORSMiddleware([]string{"https://awards.example.org"}))
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Origin", "https://awards.example.org")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "https://awards.example.org", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
