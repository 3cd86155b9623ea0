package service_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"cargoscan/internal/config"
	"cargoscan/internal/domain"
	"cargoscan/internal/service"
)

func hashPassword(password string) string {
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	return string(hash)
}

func testAuthConfig() config.AuthConfig {
	return config.AuthConfig{
		JWTSecret:    "test-secret-key-for-unit-tests",
		TokenExpiry:  15 * time.Minute,
		Issuer:       "cargoscan-test",
		PasswordHash: hashPassword("correct-password"),
	}
}

func TestAuthService_Login_Success(t *testing.T) {
	svc := service.NewAuthService(testAuthConfig())

	token, err := svc.Login(service.LoginInput{Password: "correct-password"})
	require.NoError(t, err)
	assert.NotEmpty(t, token.AccessToken)
	assert.True(t, token.ExpiresAt.After(time.Now()))

	claims, err := svc.ValidateToken(token.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "operator", claims.Subject)
	assert.Equal(t, "cargoscan-test", claims.Issuer)
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	svc := service.NewAuthService(testAuthConfig())

	_, err := svc.Login(service.LoginInput{Password: "wrong"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestAuthService_Login_NoHashConfigured(t *testing.T) {
	cfg := testAuthConfig()
	cfg.PasswordHash = ""
	svc := service.NewAuthService(cfg)

	_, err := svc.Login(service.LoginInput{Password: "anything"})
	assert.ErrorIs(t, err, domain.ErrMissingCredential)
}

func TestAuthService_ValidateToken_Garbage(t *testing.T) {
	svc := service.NewAuthService(testAuthConfig())

	_, err := svc.ValidateToken("not-a-jwt")
	assert.Error(t, err)
}

func TestAuthService_ValidateToken_WrongSecret(t *testing.T) {
	svc := service.NewAuthService(testAuthConfig())
	token, err := svc.Login(service.LoginInput{Password: "correct-password"})
	require.NoError(t, err)

	other := testAuthConfig()
	other.JWTSecret = "a-different-secret"
	otherSvc := service.NewAuthService(other)

	_, err = otherSvc.ValidateToken(token.AccessToken)
	assert.Error(t, err)
}

func TestAuthService_ValidateToken_Expired(t *testing.T) {
	cfg := testAuthConfig()
	cfg.TokenExpiry = -time.Minute
	svc := service.NewAuthService(cfg)

	token, err := svc.Login(service.LoginInput{Password: "correct-password"})
	require.NoError(t, err)

	_, err = svc.ValidateToken(token.AccessToken)
	assert.Error(t, err)
}
