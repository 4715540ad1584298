// File: internal/middleware/auth_test.go
package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Ninano9/camera/internal/shared"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// stubTokenService accepts exactly one token string.
type stubTokenService struct {
	accepted string
	claims   *shared.Claims
}

func (s *stubTokenService) GenerateAccessToken(shared.UserDataForToken) (string, time.Time, error) {
	return "", time.Time{}, nil
}

func (s *stubTokenService) GenerateRefreshToken(shared.UserDataForToken) (string, time.Time, error) {
	return "", time.Time{}, nil
}

func (s *stubTokenService) ValidateAccessToken(tokenString string) (*shared.Claims, error) {
	if tokenString == s.accepted {
		return s.claims, nil
	}
	return nil, jwt.ErrTokenMalformed
}

func (s *stubTokenService) ParseRefreshToken(string) (*shared.Claims, error) {
	return nil, jwt.ErrTokenMalformed
}

// stubBlocklist blocks a fixed set of JTIs.
type stubBlocklist struct {
	blocked map[string]bool
}

func (s *stubBlocklist) IsBlocklisted(ctx context.Context, jti string) (bool, error) {
	return s.blocked[jti], nil
}

func setupAuthRouter(tokens shared.TokenService, blocklist TokenBlocklist) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/protected", AuthMiddleware(tokens, blocklist, zap.NewNop()), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"userId": GetUserIDFromContext(c)})
	})
	return router
}

func performRequest(router *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set(AuthorizationHeader, authHeader)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func testClaims() *shared.Claims {
	return &shared.Claims{
		UserID:    uuid.New(),
		Email:     "jo@example.com",
		TokenType: "access",
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
}

func TestAuthMiddleware_ValidTokenPasses(t *testing.T) {
	claims := testClaims()
	router := setupAuthRouter(
		&stubTokenService{accepted: "good-token", claims: claims},
		&stubBlocklist{blocked: map[string]bool{}},
	)

	w := performRequest(router, "Bearer good-token")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), claims.UserID.String())
}

func TestAuthMiddleware_MissingHeaderRejected(t *testing.T) {
	router := setupAuthRouter(
		&stubTokenService{accepted: "good-token", claims: testClaims()},
		&stubBlocklist{blocked: map[string]bool{}},
	)

	w := performRequest(router, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddleware_MalformedHeaderRejected(t *testing.T) {
	router := setupAuthRouter(
		&stubTokenService{accepted: "good-token", claims: testClaims()},
		&stubBlocklist{blocked: map[string]bool{}},
	)

	for _, header := range []string{"good-token", "Basic good-token"} {
		w := performRequest(router, header)
		assert.Equal(t, http.StatusUnauthorized, w.Code, "header %q", header)
	}
}

func TestAuthMiddleware_InvalidTokenRejected(t *testing.T) {
	router := setupAuthRouter(
		&stubTokenService{accepted: "good-token", claims: testClaims()},
		&stubBlocklist{blocked: map[string]bool{}},
	)

	w := performRequest(router, "Bearer forged-token")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddleware_BlocklistedTokenRejected(t *testing.T) {
	claims := testClaims()
	router := setupAuthRouter(
		&stubTokenService{accepted: "good-token", claims: claims},
		&stubBlocklist{blocked: map[string]bool{claims.ID: true}},
	)

	w := performRequest(router, "Bearer good-token")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "revoked")
}

func TestGetUserIDFromContext_MissingReturnsNil(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	require.Equal(t, uuid.Nil, GetUserIDFromContext(c))
}
