package service

import (
	"time"

	"aduan-portal/internal/model"
	"aduan-portal/internal/repository"
)

// UserService implements the directory rules: who may see, create, change
// and remove which accounts.
type UserService struct {
	users UserStore
}

func NewUserService(users UserStore) *UserService {
	return &UserService{users: users}
}

// CreateByAdmin creates an account with a caller-chosen role and verified
// flag. Uniqueness rules match self-service registration.
func (s *UserService) CreateByAdmin(req *model.CreateUserRequest) (*model.User, error) {
	if !model.ValidRole(req.Role) {
		return nil, model.ValidationError("Role tidak valid")
	}

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
		Role:         req.Role,
		Verified:     req.Verified,
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
		if repository.IsUniqueViolation(err) {
			return nil, model.Conflict("NIK atau email sudah terdaftar")
		}
		return nil, err
	}

	return user, nil
}

// Get returns a single account. Non-admins may only read themselves.
func (s *UserService) Get(id int64, caller *model.TokenClaims) (*model.User, error) {
	if caller.Role != model.RoleAdmin && caller.ID != id {
		return nil, model.Forbidden("Anda hanya dapat melihat data diri sendiri")
	}

	user, err := s.users.FindByID(id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, model.NotFound("Pengguna tidak ditemukan")
	}
	return user, nil
}

// List returns every account for admins; everyone else gets a single-entry
// list holding their own account.
func (s *UserService) List(caller *model.TokenClaims) (*model.UserListResponse, error) {
	if caller.Role == model.RoleAdmin {
		users, err := s.users.FindAll()
		if err != nil {
			return nil, err
		}
		if users == nil {
			users = []model.User{}
		}
		return &model.UserListResponse{Users: users, Total: len(users)}, nil
	}

	self, err := s.users.FindByID(caller.ID)
	if err != nil {
		return nil, err
	}
	if self == nil {
		return nil, model.NotFound("Pengguna tidak ditemukan")
	}
	return &model.UserListResponse{Users: []model.User{*self}, Total: 1}, nil
}

func (s *UserService) ListPetugas() ([]model.PetugasSummary, error) {
	petugas, err := s.users.FindPetugas()
	if err != nil {
		return nil, err
	}
	if petugas == nil {
		petugas = []model.PetugasSummary{}
	}
	return petugas, nil
}

// Update edits an account. Non-admins may only edit themselves, and a role
// supplied by a non-admin is ignored rather than applied.
func (s *UserService) Update(id int64, req *model.UpdateUserRequest, caller *model.TokenClaims) (*model.User, error) {
	user, err := s.users.FindByID(id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, model.NotFound("Pengguna tidak ditemukan")
	}

	if caller.Role != model.RoleAdmin && caller.ID != id {
		return nil, model.Forbidden("Anda hanya dapat mengedit data diri sendiri")
	}

	if req.Email != "" {
		if user.Email == nil || *user.Email != req.Email {
			exists, err := s.users.EmailExistsExcept(req.Email, id)
			if err != nil {
				return nil, err
			}
			if exists {
				return nil, model.Conflict("Email sudah digunakan")
			}
		}
		user.Email = &req.Email
	}

	user.NamaLengkap = req.NamaLengkap
	if req.NomorTelepon != "" {
		user.NomorTelepon = &req.NomorTelepon
	}
	if req.Alamat != "" {
		user.Alamat = &req.Alamat
	}

	if req.Role != "" && caller.Role == model.RoleAdmin {
		if !model.ValidRole(req.Role) {
			return nil, model.ValidationError("Role tidak valid")
		}
		user.Role = req.Role
	}

	if req.Password != "" {
		if len(req.Password) < 6 {
			return nil, model.ValidationError("Password minimal 6 karakter")
		}
		hashed, err := HashPassword(req.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hashed
	}

	user.UpdatedAt = time.Now()
	if err := s.users.Update(user); err != nil {
		return nil, err
	}

	return user, nil
}

func (s *UserService) SetVerified(id int64, verified bool) (*model.User, error) {
	user, err := s.users.FindByID(id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, model.NotFound("Pengguna tidak ditemukan")
	}

	if err := s.users.SetVerified(id, verified, time.Now()); err != nil {
		return nil, err
	}

	return s.users.FindByID(id)
}

// Delete removes an account. Admins cannot delete themselves, and accounts
// still referenced by a complaint (as filer or
// assigned staff) are protected.
func (s *UserService) Delete(id int64, caller *model.TokenClaims) (*model.User, error) {
	if caller.ID == id {
		return nil, model.Conflict("Tidak dapat menghapus akun sendiri")
	}

	user, err := s.users.FindByID(id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, model.NotFound("Pengguna tidak ditemukan")
	}

	refs, err := s.users.ComplaintRefCount(id)
	if err != nil {
		return nil, err
	}
	if refs > 0 {
		return nil, model.Conflict("Tidak dapat menghapus pengguna yang memiliki aduan terkait")
	}

	if err := s.users.Delete(id); err != nil {
		return nil, err
	}

	return user, nil
}
