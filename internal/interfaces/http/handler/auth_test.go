package handler

import (
	"net/http"
	"testing"
	"time"

	appidentity "github.com/bergizi/backend/internal/application/identity"
	"github.com/bergizi/backend/internal/domain/identity"
	"github.com/bergizi/backend/internal/infrastructure/auth"
	"github.com/bergizi/backend/internal/infrastructure/config"
	"github.com/bergizi/backend/internal/interfaces/http/dto"
	"github.com/bergizi/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type authFixture struct {
	router    *gin.Engine
	jwt       *auth.JWTService
	blacklist *auth.InMemoryTokenBlacklist
	users     *memUserRepo
	user      *identity.User
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	tenant := activeSPPG("BDG01")
	user, err := identity.NewUser(tenant.ID, "kepala.bdg01", "rahasia123", identity.RoleSPPGKepala)
	require.NoError(t, err)
	user.ClearDomainEvents()

	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-key-that-is-long-enough",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 24 * time.Hour,
		Issuer:                 "bergizi-test",
		MaxRefreshCount:        10,
	})
	blacklist := auth.NewInMemoryTokenBlacklist()
	users := newMemUserRepo(user)
	service := appidentity.NewAuthService(users, newMemSPPGRepo(tenant), jwtService, blacklist, zap.NewNop())
	h := NewAuthHandler(service)

	r := gin.New()
	api := r.Group("/api/v1")
	api.POST("/auth/login", h.Login)
	api.POST("/auth/refresh", h.Refresh)
	protected := api.Group("/auth", middleware.JWTAuthMiddlewareWithConfig(middleware.JWTMiddlewareConfig{
		Validator:      jwtService,
		TokenBlacklist: blacklist,
	}))
	protected.POST("/logout", h.Logout)
	protected.GET("/me", h.Me)
	protected.PUT("/password", h.ChangePassword)

	return &authFixture{router: r, jwt: jwtService, blacklist: blacklist, users: users, user: user}
}

func (f *authFixture) login(t *testing.T, password string) appidentity.LoginResult {
	t.Helper()
	w := doJSON(t, f.router, http.MethodPost, "/api/v1/auth/login", LoginRequest{Username: "kepala.bdg01", Password: password})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var result appidentity.LoginResult
	decodeData(t, w, &result)
	return result
}

func (f *authFixture) authed(t *testing.T, method, path, token string, body any) int {
	t.Helper()
	w := doJSONWithToken(t, f.router, method, path, token, body)
	return w.Code
}

func TestAuthHandler_Login(t *testing.T) {
	f := newAuthFixture(t)

	result := f.login(t, "rahasia123")
	assert.NotEmpty(t, result.AccessToken)
	assert.NotEmpty(t, result.RefreshToken)
	assert.Equal(t, "Bearer", result.TokenType)
	assert.Equal(t, "kepala.bdg01", result.User.Username)
	assert.Equal(t, string(identity.RoleSPPGKepala), result.User.Role)

	claims, err := f.jwt.ValidateAccessToken(result.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, f.user.TenantID.String(), claims.TenantID)
	assert.NotEmpty(t, claims.Permissions)
}

func TestAuthHandler_LoginFailures(t *testing.T) {
	f := newAuthFixture(t)

	w := doJSON(t, f.router, http.MethodPost, "/api/v1/auth/login", LoginRequest{Username: "kepala.bdg01", Password: "wrong-password"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, dto.ErrCodeInvalidCredentials, decodeResponse(t, w).Error.Code)

	w = doJSON(t, f.router, http.MethodPost, "/api/v1/auth/login", LoginRequest{Username: "nobody", Password: "rahasia123"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, f.router, http.MethodPost, "/api/v1/auth/login", map[string]string{"username": "kepala.bdg01"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuthHandler_RefreshRotatesToken(t *testing.T) {
	f := newAuthFixture(t)
	first := f.login(t, "rahasia123")

	w := doJSON(t, f.router, http.MethodPost, "/api/v1/auth/refresh", RefreshTokenRequest{RefreshToken: first.RefreshToken})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var refreshed appidentity.RefreshResult
	decodeData(t, w, &refreshed)
	assert.NotEmpty(t, refreshed.AccessToken)
	assert.NotEqual(t, first.RefreshToken, refreshed.RefreshToken)

	// the used refresh token is revoked
	w = doJSON(t, f.router, http.MethodPost, "/api/v1/auth/refresh", RefreshTokenRequest{RefreshToken: first.RefreshToken})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, dto.ErrCodeTokenRevoked, decodeResponse(t, w).Error.Code)
}

func TestAuthHandler_MeAndLogout(t *testing.T) {
	f := newAuthFixture(t)
	result := f.login(t, "rahasia123")

	w := doJSONWithToken(t, f.router, http.MethodGet, "/api/v1/auth/me", result.AccessToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var me appidentity.UserResponse
	decodeData(t, w, &me)
	assert.Equal(t, f.user.ID, me.ID)
	assert.NotEmpty(t, me.Permissions)

	assert.Equal(t, http.StatusOK, f.authed(t, http.MethodPost, "/api/v1/auth/logout", result.AccessToken,
		LogoutRequest{RefreshToken: result.RefreshToken}))

	assert.Equal(t, http.StatusUnauthorized, f.authed(t, http.MethodGet, "/api/v1/auth/me", result.AccessToken, nil))
	w = doJSON(t, f.router, http.MethodPost, "/api/v1/auth/refresh", RefreshTokenRequest{RefreshToken: result.RefreshToken})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthHandler_Unauthenticated(t *testing.T) {
	f := newAuthFixture(t)
	w := doJSON(t, f.router, http.MethodGet, "/api/v1/auth/me", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthHandler_ChangePassword(t *testing.T) {
	f := newAuthFixture(t)
	result := f.login(t, "rahasia123")

	code := f.authed(t, http.MethodPut, "/api/v1/auth/password", result.AccessToken, appidentity.ChangePasswordRequest{
		OldPassword: "salah-sekali",
		NewPassword: "rahasia456",
	})
	assert.Equal(t, http.StatusBadRequest, code)

	code = f.authed(t, http.MethodPut, "/api/v1/auth/password", result.AccessToken, appidentity.ChangePasswordRequest{
		OldPassword: "rahasia123",
		NewPassword: "rahasia456",
	})
	require.Equal(t, http.StatusOK, code)
	assert.True(t, f.user.VerifyPassword("rahasia456"))
}
