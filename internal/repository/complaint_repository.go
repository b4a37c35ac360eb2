package repository

import (
	"database/sql"
	"errors"
	"time"

	"aduan-portal/internal/model"
)

type ComplaintRepository struct {
	db     *sql.DB
	outbox *OutboxRepository
}

func NewComplaintRepository(db *sql.DB, outbox *OutboxRepository) *ComplaintRepository {
	return &ComplaintRepository{db: db, outbox: outbox}
}

// CreateWithInitialStatus inserts the complaint, its first status entry
// and any filing attachments in a single transaction, so a complaint can
// never exist without history. The created event rides in the same
// transaction through the outbox.
func (r *ComplaintRepository) CreateWithInitialStatus(c *model.Complaint, first *model.StatusEntry, attachments []string, routingKey string, event interface{}) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `
		INSERT INTO aduan (judul_aduan, deskripsi_aduan, kategori_aduan, alamat_aduan, id_pelapor, status_terkini, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id_aduan
	`
	err = tx.QueryRow(query,
		c.JudulAduan,
		c.DeskripsiAduan,
		c.KategoriAduan,
		c.AlamatAduan,
		c.PelaporID,
		c.StatusTerkini,
		c.CreatedAt,
		c.UpdatedAt,
	).Scan(&c.ID)
	if err != nil {
		return err
	}

	first.AduanID = c.ID
	err = tx.QueryRow(
		`INSERT INTO status_aduan (id_aduan, status, keterangan, tanggal_status) VALUES ($1, $2, $3, $4) RETURNING id_status_aduan`,
		first.AduanID, first.Status, first.Keterangan, first.TanggalStatus,
	).Scan(&first.ID)
	if err != nil {
		return err
	}

	for _, path := range attachments {
		_, err := tx.Exec(`INSERT INTO lampiran (id_aduan, file_path) VALUES ($1, $2)`, c.ID, path)
		if err != nil {
			return err
		}
	}

	if routingKey != "" {
		// The event is built before the insert, so the generated id is
		// patched in here.
		if ev, ok := event.(interface{ SetAduanID(id int64) }); ok {
			ev.SetAduanID(c.ID)
		}
		if err := r.outbox.CreateInTransaction(tx, routingKey, event); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// AppendStatus appends a status entry, syncs the complaint's cached
// status, binds attachments to the new entry and records the outbox event,
// all in one transaction.
func (r *ComplaintRepository) AppendStatus(entry *model.StatusEntry, attachments []string, routingKey string, event interface{}) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	err = tx.QueryRow(
		`INSERT INTO status_aduan (id_aduan, status, keterangan, tanggal_status) VALUES ($1, $2, $3, $4) RETURNING id_status_aduan`,
		entry.AduanID, entry.Status, entry.Keterangan, entry.TanggalStatus,
	).Scan(&entry.ID)
	if err != nil {
		return err
	}

	_, err = tx.Exec(
		`UPDATE aduan SET status_terkini = $2, updated_at = $3 WHERE id_aduan = $1`,
		entry.AduanID, entry.Status, entry.TanggalStatus,
	)
	if err != nil {
		return err
	}

	for _, path := range attachments {
		_, err := tx.Exec(`INSERT INTO lampiran (id_status_aduan, file_path) VALUES ($1, $2)`, entry.ID, path)
		if err != nil {
			return err
		}
	}

	if routingKey != "" {
		if err := r.outbox.CreateInTransaction(tx, routingKey, event); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// FindByID returns (nil, nil) when the complaint does not exist.
func (r *ComplaintRepository) FindByID(id int64) (*model.Complaint, error) {
	query := `
		SELECT id_aduan, judul_aduan, deskripsi_aduan, kategori_aduan, alamat_aduan,
		       id_pelapor, id_petugas, status_terkini, created_at, updated_at
		FROM aduan
		WHERE id_aduan = $1
	`
	c := &model.Complaint{}
	var petugasID sql.NullInt64

	err := r.db.QueryRow(query, id).Scan(
		&c.ID,
		&c.JudulAduan,
		&c.DeskripsiAduan,
		&c.KategoriAduan,
		&c.AlamatAduan,
		&c.PelaporID,
		&petugasID,
		&c.StatusTerkini,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	if petugasID.Valid {
		c.PetugasID = &petugasID.Int64
	}

	return c, nil
}

func (r *ComplaintRepository) AssignPetugas(aduanID, petugasID int64, at time.Time) error {
	query := `UPDATE aduan SET id_petugas = $2, updated_at = $3 WHERE id_aduan = $1`
	result, err := r.db.Exec(query, aduanID, petugasID, at)
	if err != nil {
		return err
	}
	affected, _ := result.RowsAffected()
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// List returns complaint summaries with their latest status timestamp.
// Scoping is expressed through the optional filer/staff filters; both nil
// means every complaint (admin view).
func (r *ComplaintRepository) List(pelaporID, petugasID *int64) ([]model.ComplaintSummary, error) {
	query := `
		SELECT a.id_aduan, a.judul_aduan, a.kategori_aduan, a.alamat_aduan,
		       p.id_pengguna, p.nama_lengkap, p.email, p.nomor_telepon,
		       a.status_terkini, s.tanggal_status
		FROM aduan a
		LEFT JOIN pengguna p ON a.id_petugas = p.id_pengguna
		LEFT JOIN LATERAL (
			SELECT tanggal_status FROM status_aduan
			WHERE id_aduan = a.id_aduan
			ORDER BY tanggal_status DESC
			LIMIT 1
		) s ON TRUE
		WHERE ($1::bigint IS NULL OR a.id_pelapor = $1)
		  AND ($2::bigint IS NULL OR a.id_petugas = $2)
		ORDER BY a.created_at DESC
	`
	rows, err := r.db.Query(query, pelaporID, petugasID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var summaries []model.ComplaintSummary
	for rows.Next() {
		var s model.ComplaintSummary
		var pID sql.NullInt64
		var pNama, pEmail, pTelepon sql.NullString
		var tanggal sql.NullTime

		err := rows.Scan(
			&s.ID,
			&s.JudulAduan,
			&s.KategoriAduan,
			&s.AlamatAduan,
			&pID,
			&pNama,
			&pEmail,
			&pTelepon,
			&s.Status,
			&tanggal,
		)
		if err != nil {
			return nil, err
		}

		if pID.Valid {
			petugas := &model.PetugasSummary{ID: pID.Int64, NamaLengkap: pNama.String}
			if pEmail.Valid {
				petugas.Email = &pEmail.String
			}
			if pTelepon.Valid {
				petugas.NomorTelepon = &pTelepon.String
			}
			s.Petugas = petugas
		}
		if tanggal.Valid {
			s.TanggalStatus = tanggal.Time
		}

		summaries = append(summaries, s)
	}

	return summaries, rows.Err()
}

// Detail loads a complaint with filer and staff summaries, the full status
// history (most recent first, each with its attachments) and the filing
// attachments. The same row-scoping filters apply as in List, so a
// complaint outside the caller's scope reads as absent: (nil, nil).
func (r *ComplaintRepository) Detail(id int64, pelaporID, petugasID *int64) (*model.ComplaintDetail, error) {
	query := `
		SELECT a.id_aduan, a.judul_aduan, a.deskripsi_aduan, a.kategori_aduan, a.alamat_aduan,
		       a.id_pelapor, a.id_petugas, a.status_terkini, a.created_at, a.updated_at,
		       f.nama_lengkap, f.nomor_telepon, f.email,
		       p.id_pengguna, p.nama_lengkap, p.email, p.nomor_telepon
		FROM aduan a
		JOIN pengguna f ON a.id_pelapor = f.id_pengguna
		LEFT JOIN pengguna p ON a.id_petugas = p.id_pengguna
		WHERE a.id_aduan = $1
		  AND ($2::bigint IS NULL OR a.id_pelapor = $2)
		  AND ($3::bigint IS NULL OR a.id_petugas = $3)
	`
	d := &model.ComplaintDetail{}
	pelapor := model.PelaporSummary{}
	var aPetugasID sql.NullInt64
	var fTelepon, fEmail sql.NullString
	var pID sql.NullInt64
	var pNama, pEmail, pTelepon sql.NullString

	err := r.db.QueryRow(query, id, pelaporID, petugasID).Scan(
		&d.ID,
		&d.JudulAduan,
		&d.DeskripsiAduan,
		&d.KategoriAduan,
		&d.AlamatAduan,
		&d.PelaporID,
		&aPetugasID,
		&d.StatusTerkini,
		&d.CreatedAt,
		&d.UpdatedAt,
		&pelapor.NamaLengkap,
		&fTelepon,
		&fEmail,
		&pID,
		&pNama,
		&pEmail,
		&pTelepon,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	if fTelepon.Valid {
		pelapor.NomorTelepon = &fTelepon.String
	}
	if fEmail.Valid {
		pelapor.Email = &fEmail.String
	}
	d.Pelapor = &pelapor

	if aPetugasID.Valid {
		d.PetugasID = &aPetugasID.Int64
	}
	if pID.Valid {
		petugas := &model.PetugasSummary{ID: pID.Int64, NamaLengkap: pNama.String}
		if pEmail.Valid {
			petugas.Email = &pEmail.String
		}
		if pTelepon.Valid {
			petugas.NomorTelepon = &pTelepon.String
		}
		d.Petugas = petugas
	}

	history, err := r.statusHistory(id)
	if err != nil {
		return nil, err
	}
	d.StatusHistory = history

	lampiran, err := r.complaintAttachments(id)
	if err != nil {
		return nil, err
	}
	d.Lampiran = lampiran

	return d, nil
}

func (r *ComplaintRepository) statusHistory(aduanID int64) ([]model.StatusEntry, error) {
	query := `
		SELECT id_status_aduan, id_aduan, status, keterangan, tanggal_status
		FROM status_aduan
		WHERE id_aduan = $1
		ORDER BY tanggal_status DESC
	`
	rows, err := r.db.Query(query, aduanID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []model.StatusEntry{}
	for rows.Next() {
		var e model.StatusEntry
		var keterangan sql.NullString

		if err := rows.Scan(&e.ID, &e.AduanID, &e.Status, &keterangan, &e.TanggalStatus); err != nil {
			return nil, err
		}
		if keterangan.Valid {
			e.Keterangan = &keterangan.String
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range entries {
		lampiran, err := r.statusAttachments(entries[i].ID)
		if err != nil {
			return nil, err
		}
		entries[i].Lampiran = lampiran
	}

	return entries, nil
}

func (r *ComplaintRepository) complaintAttachments(aduanID int64) ([]model.Attachment, error) {
	return r.attachments(`SELECT id_lampiran, file_path FROM lampiran WHERE id_aduan = $1`, aduanID)
}

func (r *ComplaintRepository) statusAttachments(statusID int64) ([]model.Attachment, error) {
	return r.attachments(`SELECT id_lampiran, file_path FROM lampiran WHERE id_status_aduan = $1`, statusID)
}

func (r *ComplaintRepository) attachments(query string, parentID int64) ([]model.Attachment, error) {
	rows, err := r.db.Query(query, parentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	attachments := []model.Attachment{}
	for rows.Next() {
		var a model.Attachment
		if err := rows.Scan(&a.ID, &a.FilePath); err != nil {
			return nil, err
		}
		attachments = append(attachments, a)
	}

	return attachments, rows.Err()
}

// Statistics queries. A nil pelaporID aggregates over all complaints;
// otherwise only the filer's own.

func (r *ComplaintRepository) DailyCounts(since time.Time, pelaporID *int64) ([]model.DailyCount, error) {
	query := `
		SELECT DATE(created_at) AS date, COUNT(*) AS count
		FROM aduan
		WHERE created_at >= $1
		  AND ($2::bigint IS NULL OR id_pelapor = $2)
		GROUP BY DATE(created_at)
		ORDER BY date ASC
	`
	rows, err := r.db.Query(query, since, pelaporID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := []model.DailyCount{}
	for rows.Next() {
		var c model.DailyCount
		var date time.Time
		if err := rows.Scan(&date, &c.Count); err != nil {
			return nil, err
		}
		c.Date = date.Format("2006-01-02")
		counts = append(counts, c)
	}

	return counts, rows.Err()
}

func (r *ComplaintRepository) StatusDistribution(pelaporID *int64) ([]model.StatusCount, error) {
	query := `
		SELECT status_terkini, COUNT(*)
		FROM aduan
		WHERE ($1::bigint IS NULL OR id_pelapor = $1)
		GROUP BY status_terkini
	`
	rows, err := r.db.Query(query, pelaporID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := []model.StatusCount{}
	for rows.Next() {
		var c model.StatusCount
		if err := rows.Scan(&c.Status, &c.Count); err != nil {
			return nil, err
		}
		counts = append(counts, c)
	}

	return counts, rows.Err()
}

func (r *ComplaintRepository) CategoryDistribution(pelaporID *int64) ([]model.CategoryCount, error) {
	query := `
		SELECT kategori_aduan, COUNT(*)
		FROM aduan
		WHERE ($1::bigint IS NULL OR id_pelapor = $1)
		GROUP BY kategori_aduan
	`
	rows, err := r.db.Query(query, pelaporID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := []model.CategoryCount{}
	for rows.Next() {
		var c model.CategoryCount
		if err := rows.Scan(&c.Category, &c.Count); err != nil {
			return nil, err
		}
		counts = append(counts, c)
	}

	return counts, rows.Err()
}

func (r *ComplaintRepository) CountAduan(pelaporID *int64) (int, error) {
	query := `SELECT COUNT(*) FROM aduan WHERE ($1::bigint IS NULL OR id_pelapor = $1)`
	var count int
	err := r.db.QueryRow(query, pelaporID).Scan(&count)
	return count, err
}
