package repository

import (
	"database/sql"
	"errors"
	"time"

	"aduan-portal/internal/model"

	"github.com/lib/pq"
)

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// IsUniqueViolation reports whether err is a Postgres unique-constraint
// violation (code 23505).
func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

func (r *UserRepository) Create(user *model.User) error {
	query := `
		INSERT INTO pengguna (nik, nama_lengkap, email, nomor_telepon, alamat, role, verified, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id_pengguna
	`
	return r.db.QueryRow(query,
		user.NIK,
		user.NamaLengkap,
		user.Email,
		user.NomorTelepon,
		user.Alamat,
		user.Role,
		user.Verified,
		user.PasswordHash,
		user.CreatedAt,
		user.UpdatedAt,
	).Scan(&user.ID)
}

const userColumns = `id_pengguna, nik, nama_lengkap, email, nomor_telepon, alamat, role, verified, password_hash, created_at, updated_at`

func scanUser(row *sql.Row) (*model.User, error) {
	user := &model.User{}
	var nik, email, telepon, alamat sql.NullString

	err := row.Scan(
		&user.ID,
		&nik,
		&user.NamaLengkap,
		&email,
		&telepon,
		&alamat,
		&user.Role,
		&user.Verified,
		&user.PasswordHash,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	if nik.Valid {
		user.NIK = &nik.String
	}
	if email.Valid {
		user.Email = &email.String
	}
	if telepon.Valid {
		user.NomorTelepon = &telepon.String
	}
	if alamat.Valid {
		user.Alamat = &alamat.String
	}

	return user, nil
}

// FindByID returns (nil, nil) when no user exists with the given id.
func (r *UserRepository) FindByID(id int64) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM pengguna WHERE id_pengguna = $1`
	return scanUser(r.db.QueryRow(query, id))
}

// FindByEmail returns (nil, nil) when no user has the given email.
func (r *UserRepository) FindByEmail(email string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM pengguna WHERE email = $1`
	return scanUser(r.db.QueryRow(query, email))
}

func (r *UserRepository) FindAll() ([]model.User, error) {
	query := `SELECT ` + userColumns + ` FROM pengguna ORDER BY created_at ASC`
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		var user model.User
		var nik, email, telepon, alamat sql.NullString

		err := rows.Scan(
			&user.ID,
			&nik,
			&user.NamaLengkap,
			&email,
			&telepon,
			&alamat,
			&user.Role,
			&user.Verified,
			&user.PasswordHash,
			&user.CreatedAt,
			&user.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}

		if nik.Valid {
			user.NIK = &nik.String
		}
		if email.Valid {
			user.Email = &email.String
		}
		if telepon.Valid {
			user.NomorTelepon = &telepon.String
		}
		if alamat.Valid {
			user.Alamat = &alamat.String
		}

		users = append(users, user)
	}

	return users, rows.Err()
}

// FindPetugas returns all staff accounts ordered by name, in the slim
// shape the assignment picker needs.
func (r *UserRepository) FindPetugas() ([]model.PetugasSummary, error) {
	query := `
		SELECT id_pengguna, nama_lengkap, email, nomor_telepon
		FROM pengguna
		WHERE role = $1
		ORDER BY nama_lengkap ASC
	`
	rows, err := r.db.Query(query, model.RolePetugas)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var petugas []model.PetugasSummary
	for rows.Next() {
		var p model.PetugasSummary
		var email, telepon sql.NullString

		if err := rows.Scan(&p.ID, &p.NamaLengkap, &email, &telepon); err != nil {
			return nil, err
		}
		if email.Valid {
			p.Email = &email.String
		}
		if telepon.Valid {
			p.NomorTelepon = &telepon.String
		}
		petugas = append(petugas, p)
	}

	return petugas, rows.Err()
}

func (r *UserRepository) Update(user *model.User) error {
	query := `
		UPDATE pengguna
		SET nama_lengkap = $2, email = $3, nomor_telepon = $4, alamat = $5,
		    role = $6, password_hash = $7, updated_at = $8
		WHERE id_pengguna = $1
	`
	result, err := r.db.Exec(query,
		user.ID,
		user.NamaLengkap,
		user.Email,
		user.NomorTelepon,
		user.Alamat,
		user.Role,
		user.PasswordHash,
		user.UpdatedAt,
	)
	if err != nil {
		return err
	}
	affected, _ := result.RowsAffected()
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *UserRepository) SetVerified(id int64, verified bool, at time.Time) error {
	query := `UPDATE pengguna SET verified = $2, updated_at = $3 WHERE id_pengguna = $1`
	result, err := r.db.Exec(query, id, verified, at)
	if err != nil {
		return err
	}
	affected, _ := result.RowsAffected()
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *UserRepository) Delete(id int64) error {
	result, err := r.db.Exec(`DELETE FROM pengguna WHERE id_pengguna = $1`, id)
	if err != nil {
		return err
	}
	affected, _ := result.RowsAffected()
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *UserRepository) NIKExists(nik string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM pengguna WHERE nik = $1)`
	var exists bool
	err := r.db.QueryRow(query, nik).Scan(&exists)
	return exists, err
}

func (r *UserRepository) EmailExists(email string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM pengguna WHERE email = $1)`
	var exists bool
	err := r.db.QueryRow(query, email).Scan(&exists)
	return exists, err
}

// EmailExistsExcept checks email uniqueness while ignoring the user being
// updated.
func (r *UserRepository) EmailExistsExcept(email string, userID int64) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM pengguna WHERE email = $1 AND id_pengguna <> $2)`
	var exists bool
	err := r.db.QueryRow(query, email, userID).Scan(&exists)
	return exists, err
}

// ComplaintRefCount counts complaints referencing the user as filer or as
// assigned staff. A user with a non-zero count cannot be deleted.
func (r *UserRepository) ComplaintRefCount(userID int64) (int, error) {
	query := `SELECT COUNT(*) FROM aduan WHERE id_pelapor = $1 OR id_petugas = $1`
	var count int
	err := r.db.QueryRow(query, userID).Scan(&count)
	return count, err
}
