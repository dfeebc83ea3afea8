package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"servicehub/internal/domain"
	"servicehub/internal/pkg/jwt"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func echoActor(c *gin.Context) {
	a := Actor(c)
	c.JSON(http.StatusOK, gin.H{"user_id": a.UserID, "role": a.Role})
}

func TestJWTAuth_ValidToken(t *testing.T) {
	jwtService := jwt.New("test-secret-123", time.Hour)
	validToken, _, err := jwtService.GenerateToken(42, domain.RoleCustomer)
	require.NoError(t, err)

	router := gin.New()
	router.Use(JWTAuth(jwtService))
	router.GET("/protected", echoActor)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+validToken)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user_id":42,"role":"customer"}`, w.Body.String())
}

func TestJWTAuth_InvalidToken(t *testing.T) {
	jwtService := jwt.New("wrong-secret", time.Hour)

	router := gin.New()
	router.Use(JWTAuth(jwtService))
	router.GET("/protected", func(c *gin.Context) {
		t.Fatal("This handler should not be reached")
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer invalid-jwt-here")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "UNAUTHORIZED")
}

func TestJWTAuth_NoTokenOrWrongFormat(t *testing.T) {
	jwtService := jwt.New("secret", time.Hour)

	router := gin.New()
	router.Use(JWTAuth(jwtService))
	router.GET("/protected", func(c *gin.Context) {
		t.Fatal("Should not reach here")
	})

	for _, header := range []string{"", "Basic dGVzdA==", "Bearer "} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/protected", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code, "header %q", header)
	}
}

func TestOptionalAuth(t *testing.T) {
	jwtService := jwt.New("secret", time.Hour)
	token, _, err := jwtService.GenerateToken(7, domain.RoleHost)
	require.NoError(t, err)

	router := gin.New()
	router.Use(OptionalAuth(jwtService))
	router.GET("/maybe", echoActor)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/maybe", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user_id":0,"role":""}`, w.Body.String())

	w = httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/maybe", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)
	assert.JSONEq(t, `{"user_id":7,"role":"host"}`, w.Body.String())

	w = httptest.NewRecorder()
	req = httptest.NewRequest("GET", "/maybe", nil)
	req.Header.Set("Authorization", "Bearer broken")
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user_id":0,"role":""}`, w.Body.String())
}

func TestRequireRole(t *testing.T) {
	jwtService := jwt.New("secret", time.Hour)
	hostToken, _, _ := jwtService.GenerateToken(1, domain.RoleHost)
	customerToken, _, _ := jwtService.GenerateToken(2, domain.RoleCustomer)

	router := gin.New()
	router.GET("/host", JWTAuth(jwtService), RequireRole(domain.RoleHost, domain.RoleAdmin), echoActor)
	router.GET("/norole", RequireRole(domain.RoleHost), echoActor)

	cases := []struct {
		path   string
		token  string
		status int
	}{
		{"/host", hostToken, http.StatusOK},
		{"/host", customerToken, http.StatusForbidden},
		{"/norole", "", http.StatusUnauthorized},
	}
	for _, tc := range cases {
		w := httptest.NewRecorder()
		req := httptest.NewRequest("GET", tc.path, nil)
		if tc.token != "" {
			req.Header.Set("Authorization", "Bearer "+tc.token)
		}
		router.ServeHTTP(w, req)
		assert.Equal(t, tc.status, w.Code, tc.path)
	}
}
