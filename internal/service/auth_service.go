package service

import (
	"errors"
	"time"

	"aduan-portal/config"
	"aduan-portal/internal/model"
	"aduan-portal/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// Tokens stay valid for one week from issuance.
const tokenValidity = 7 * 24 * time.Hour

// UserStore is the persistence surface the user-facing services need.
// *repository.UserRepository implements it.
type UserStore interface {
	Create(user *model.User) error
	FindByID(id int64) (*model.User, error)
	FindByEmail(email string) (*model.User, error)
	FindAll() ([]model.User, error)
	FindPetugas() ([]model.PetugasSummary, error)
	Update(user *model.User) error
	SetVerified(id int64, verified bool, at time.Time) error
	Delete(id int64) error
	NIKExists(nik string) (bool, error)
	EmailExists(email string) (bool, error)
	EmailExistsExcept(email string, userID int64) (bool, error)
	ComplaintRefCount(userID int64) (int, error)
}

type AuthService struct {
	users     UserStore
	jwtSecret string
}

func NewAuthService(users UserStore, jwtConfig config.JWTConfig) *AuthService {
	return &AuthService{
		users:     users,
		jwtSecret: jwtConfig.Secret,
	}
}

func HashPassword(plaintext string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

func VerifyPassword(plaintext, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}

func (s *AuthService) IssueToken(user *model.User) (string, error) {
	email := ""
	if user.Email != nil {
		email = *user.Email
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"id":    user.ID,
		"email": email,
		"nama":  user.NamaLengkap,
		"role":  string(user.Role),
		"iat":   now.Unix(),
		"exp":   now.Add(tokenValidity).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}

// VerifyToken resolves a signed token back into its claims. Malformed,
// tampered and expired tokens all come back as nil; callers cannot tell
// which failure occurred.
func (s *AuthService) VerifyToken(tokenString string) *model.TokenClaims {
	return ParseClaims(tokenString, s.jwtSecret)
}

// ParseClaims is the shared verification path for the auth service and the
// request middleware.
func ParseClaims(tokenString, secret string) *model.TokenClaims {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return nil
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil
	}

	id, ok := mapClaims["id"].(float64)
	if !ok {
		return nil
	}
	role, ok := mapClaims["role"].(string)
	if !ok {
		return nil
	}

	claims := &model.TokenClaims{
		ID:   int64(id),
		Role: model.Role(role),
	}
	if email, ok := mapClaims["email"].(string); ok {
		claims.Email = email
	}
	if nama, ok := mapClaims["nama"].(string); ok {
		claims.Nama = nama
	}

	return claims
}

// Register creates a self-service citizen account. The role is always
// masyarakat and the account starts unverified.
func (s *AuthService) Register(req *model.RegisterRequest) (*model.User, error) {
	if req.NIK != "" {
		exists, err := s.users.NIKExists(req.NIK)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, model.Conflict("NIK sudah terdaftar")
		}
	}
	if req.Email != "" {
		exists, err := s.users.EmailExists(req.Email)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, model.Conflict("Email sudah terdaftar")
		}
	}

	hashed, err := HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	user := &model.User{
		NamaLengkap:  req.NamaLengkap,
		Role:         model.RoleMasyarakat,
		Verified:     false,
		PasswordHash: hashed,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if req.NIK != "" {
		user.NIK = &req.NIK
	}
	if req.Email != "" {
		user.Email = &req.Email
	}
	if req.NomorTelepon != "" {
		user.NomorTelepon = &req.NomorTelepon
	}
	if req.Alamat != "" {
		user.Alamat = &req.Alamat
	}

	if err := s.users.Create(user); err != nil {
		// Concurrent registrations can slip past the pre-checks; the
		// database constraint is the final word.
		if repository.IsUniqueViolation(err) {
			return nil, model.Conflict("NIK atau email sudah terdaftar")
		}
		return nil, err
	}

	return user, nil
}

func (s *AuthService) Login(req *model.LoginRequest) (*model.LoginResponse, error) {
	user, err := s.users.FindByEmail(req.Email)
	if err != nil {
		return nil, err
	}

	// Unverified accounts are refused before the credential check, so a
	// pending user learns why they cannot log in.
	if user != nil && !user.Verified {
		return nil, model.Forbidden("Account not verified")
	}
	if user == nil || !VerifyPassword(req.Password, user.PasswordHash) {
		return nil, model.Unauthenticated("invalid email or password")
	}

	token, err := s.IssueToken(user)
	if err != nil {
		return nil, err
	}

	return &model.LoginResponse{
		Token: token,
		User:  *user,
	}, nil
}

func (s *AuthService) GetUserByID(id int64) (*model.User, error) {
	user, err := s.users.FindByID(id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, model.NotFound("user not found")
	}
	return user, nil
}
