package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"aduan-portal/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "middleware-test-secret"

func signToken(t *testing.T, secret string, role model.Role) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":    float64(5),
		"email": "budi@example.com",
		"nama":  "Budi",
		"role":  string(role),
		"iat":   time.Now().Unix(),
		"exp":   time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func newTestRouter(extra ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handlers := append([]gin.HandlerFunc{Authenticate(testSecret)}, extra...)
	handlers = append(handlers, func(c *gin.Context) {
		claims := Claims(c)
		c.JSON(http.StatusOK, gin.H{"id": claims.ID, "role": claims.Role})
	})
	r.GET("/protected", handlers...)
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

func TestAuthenticateMissingHeader(t *testing.T) {
	w := doRequest(newTestRouter(), "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthenticateNonBearerHeader(t *testing.T) {
	w := doRequest(newTestRouter(), "Basic abc123")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthenticateTamperedToken(t *testing.T) {
	token := signToken(t, "another-secret", model.RoleAdmin)
	w := doRequest(newTestRouter(), "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthenticatePassesClaimsThrough(t *testing.T) {
	token := signToken(t, testSecret, model.RoleMasyarakat)
	w := doRequest(newTestRouter(), "Bearer "+token)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id": 5, "role": "masyarakat"}`, w.Body.String())
}

func TestRequireRolesRejectsOtherRole(t *testing.T) {
	r := newTestRouter(RequireRoles(model.RoleAdmin))
	token := signToken(t, testSecret, model.RoleMasyarakat)

	w := doRequest(r, "Bearer "+token)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequireRolesAdmitsListedRole(t *testing.T) {
	r := newTestRouter(RequireRoles(model.RoleAdmin, model.RolePetugas))
	token := signToken(t, testSecret, model.RolePetugas)

	w := doRequest(r, "Bearer "+token)
	assert.Equal(t, http.StatusOK, w.Code)
}
