package model

import "time"

type Role string

const (
	RoleAdmin      Role = "admin"
	RolePetugas    Role = "petugas"
	RoleMasyarakat Role = "masyarakat"
)

func ValidRole(r Role) bool {
	switch r {
	case RoleAdmin, RolePetugas, RoleMasyarakat:
		return true
	}
	return false
}

type User struct {
	ID           int64     `json:"id_pengguna"`
	NIK          *string   `json:"nik,omitempty"`
	NamaLengkap  string    `json:"nama_lengkap"`
	Email        *string   `json:"email,omitempty"`
	NomorTelepon *string   `json:"nomor_telepon,omitempty"`
	Alamat       *string   `json:"alamat,omitempty"`
	Role         Role      `json:"role"`
	Verified     bool      `json:"verified"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// PetugasSummary is the slim shape returned for staff pickers and
// embedded complaint assignees.
type PetugasSummary struct {
	ID           int64   `json:"id_pengguna"`
	NamaLengkap  string  `json:"nama_lengkap"`
	Email        *string `json:"email,omitempty"`
	NomorTelepon *string `json:"nomor_telepon,omitempty"`
}

// TokenClaims is the identity a verified bearer token resolves to.
type TokenClaims struct {
	ID    int64
	Email string
	Nama  string
	Role  Role
}

// Request/Response
type RegisterRequest struct {
	NIK          string `json:"nik"`
	NamaLengkap  string `json:"nama_lengkap" binding:"required"`
	Password     string `json:"password" binding:"required,min=6"`
	Email        string `json:"email" binding:"omitempty,email"`
	NomorTelepon string `json:"nomor_telepon"`
	Alamat       string `json:"alamat"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

type ValidateRequest struct {
	Token string `json:"token" binding:"required"`
}

type CreateUserRequest struct {
	NIK          string `json:"nik"`
	NamaLengkap  string `json:"nama_lengkap" binding:"required"`
	Password     string `json:"password" binding:"required,min=6"`
	Email        string `json:"email" binding:"omitempty,email"`
	NomorTelepon string `json:"nomor_telepon"`
	Alamat       string `json:"alamat"`
	Role         Role   `json:"role" binding:"required"`
	Verified     bool   `json:"verified"`
}

type UpdateUserRequest struct {
	NamaLengkap  string `json:"nama_lengkap" binding:"required"`
	Email        string `json:"email" binding:"omitempty,email"`
	NomorTelepon string `json:"nomor_telepon"`
	Alamat       string `json:"alamat"`
	Password     string `json:"password"`
	Role         Role   `json:"role"`
}

type VerifyUserRequest struct {
	Verified *bool `json:"verified" binding:"required"`
}

type UserListResponse struct {
	Users []User `json:"users"`
	Total int    `json:"total"`
}
