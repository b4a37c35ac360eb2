package service

import (
	"testing"
	"time"

	"aduan-portal/config"
	"aduan-portal/internal/model"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testSecret = "unit-test-secret"

func newTestAuthService(users UserStore) *AuthService {
	return NewAuthService(users, config.JWTConfig{Secret: testSecret})
}

func strPtr(s string) *string {
	return &s
}

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("rahasia123")
	require.NoError(t, err)
	assert.NotEqual(t, "rahasia123", hash)

	assert.True(t, VerifyPassword("rahasia123", hash))
	assert.False(t, VerifyPassword("salah", hash))
}

func TestIssueAndVerifyToken(t *testing.T) {
	svc := newTestAuthService(new(MockUserStore))

	user := &model.User{
		ID:          42,
		NamaLengkap: "Budi Santoso",
		Email:       strPtr("budi@example.com"),
		Role:        model.RolePetugas,
	}

	token, err := svc.IssueToken(user)
	require.NoError(t, err)

	claims := svc.VerifyToken(token)
	require.NotNil(t, claims)
	assert.Equal(t, int64(42), claims.ID)
	assert.Equal(t, "budi@example.com", claims.Email)
	assert.Equal(t, "Budi Santoso", claims.Nama)
	assert.Equal(t, model.RolePetugas, claims.Role)
}

func TestVerifyTokenRejectsTampering(t *testing.T) {
	svc := newTestAuthService(new(MockUserStore))

	assert.Nil(t, svc.VerifyToken("not-a-token"))

	otherSecret := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":   float64(1),
		"role": "admin",
		"exp":  time.Now().Add(time.Hour).Unix(),
	})
	signed, err := otherSecret.SignedString([]byte("some-other-secret"))
	require.NoError(t, err)
	assert.Nil(t, svc.VerifyToken(signed))
}

func TestVerifyTokenRejectsExpired(t *testing.T) {
	svc := newTestAuthService(new(MockUserStore))

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":   float64(7),
		"role": "masyarakat",
		"iat":  time.Now().Add(-2 * time.Hour).Unix(),
		"exp":  time.Now().Add(-time.Hour).Unix(),
	})
	signed, err := expired.SignedString([]byte(testSecret))
	require.NoError(t, err)

	assert.Nil(t, svc.VerifyToken(signed))
}

func TestRegisterStartsUnverifiedCitizen(t *testing.T) {
	users := new(MockUserStore)
	users.On("NIKExists", "3175091201990001").Return(false, nil)
	users.On("EmailExists", "budi@example.com").Return(false, nil)
	users.On("Create", mock.AnythingOfType("*model.User")).Return(nil)

	svc := newTestAuthService(users)
	user, err := svc.Register(&model.RegisterRequest{
		NIK:         "3175091201990001",
		NamaLengkap: "Budi Santoso",
		Password:    "rahasia123",
		Email:       "budi@example.com",
	})
	require.NoError(t, err)

	assert.Equal(t, model.RoleMasyarakat, user.Role)
	assert.False(t, user.Verified)
	assert.True(t, VerifyPassword("rahasia123", user.PasswordHash))
	users.AssertExpectations(t)
}

func TestRegisterDuplicateNIK(t *testing.T) {
	users := new(MockUserStore)
	users.On("NIKExists", "3175091201990001").Return(true, nil)

	svc := newTestAuthService(users)
	_, err := svc.Register(&model.RegisterRequest{
		NIK:         "3175091201990001",
		NamaLengkap: "Budi Santoso",
		Password:    "rahasia123",
	})

	appErr, ok := model.AsError(err)
	require.True(t, ok)
	assert.Equal(t, model.KindConflict, appErr.Kind)
	users.AssertNotCalled(t, "Create")
}

func TestRegisterDuplicateEmail(t *testing.T) {
	users := new(MockUserStore)
	users.On("EmailExists", "budi@example.com").Return(true, nil)

	svc := newTestAuthService(users)
	_, err := svc.Register(&model.RegisterRequest{
		NamaLengkap: "Budi Santoso",
		Password:    "rahasia123",
		Email:       "budi@example.com",
	})

	appErr, ok := model.AsError(err)
	require.True(t, ok)
	assert.Equal(t, model.KindConflict, appErr.Kind)
}

func TestLoginUnverifiedRefusedBeforePasswordCheck(t *testing.T) {
	hash, err := HashPassword("rahasia123")
	require.NoError(t, err)

	users := new(MockUserStore)
	users.On("FindByEmail", "budi@example.com").Return(&model.User{
		ID:           1,
		Email:        strPtr("budi@example.com"),
		Verified:     false,
		PasswordHash: hash,
	}, nil)

	svc := newTestAuthService(users)

	// Even the correct password does not get an unverified account in.
	_, err = svc.Login(&model.LoginRequest{Email: "budi@example.com", Password: "rahasia123"})
	appErr, ok := model.AsError(err)
	require.True(t, ok)
	assert.Equal(t, model.KindForbidden, appErr.Kind)
	assert.Equal(t, "Account not verified", appErr.Message)
}

func TestLoginWrongPassword(t *testing.T) {
	hash, err := HashPassword("rahasia123")
	require.NoError(t, err)

	users := new(MockUserStore)
	users.On("FindByEmail", "budi@example.com").Return(&model.User{
		ID:           1,
		Email:        strPtr("budi@example.com"),
		Verified:     true,
		PasswordHash: hash,
	}, nil)

	svc := newTestAuthService(users)
	_, err = svc.Login(&model.LoginRequest{Email: "budi@example.com", Password: "salah"})

	appErr, ok := model.AsError(err)
	require.True(t, ok)
	assert.Equal(t, model.KindUnauthenticated, appErr.Kind)
}

func TestLoginUnknownEmail(t *testing.T) {
	users := new(MockUserStore)
	users.On("FindByEmail", "tidakada@example.com").Return(nil, nil)

	svc := newTestAuthService(users)
	_, err := svc.Login(&model.LoginRequest{Email: "tidakada@example.com", Password: "apapun"})

	appErr, ok := model.AsError(err)
	require.True(t, ok)
	assert.Equal(t, model.KindUnauthenticated, appErr.Kind)
}

func TestLoginSuccessIssuesValidToken(t *testing.T) {
	hash, err := HashPassword("rahasia123")
	require.NoError(t, err)

	users := new(MockUserStore)
	users.On("FindByEmail", "admin@example.com").Return(&model.User{
		ID:           3,
		NamaLengkap:  "Admin Portal",
		Email:        strPtr("admin@example.com"),
		Role:         model.RoleAdmin,
		Verified:     true,
		PasswordHash: hash,
	}, nil)

	svc := newTestAuthService(users)
	resp, err := svc.Login(&model.LoginRequest{Email: "admin@example.com", Password: "rahasia123"})
	require.NoError(t, err)

	claims := svc.VerifyToken(resp.Token)
	require.NotNil(t, claims)
	assert.Equal(t, int64(3), claims.ID)
	assert.Equal(t, model.RoleAdmin, claims.Role)
	assert.Equal(t, int64(3), resp.User.ID)
}
