package model

import "time"

type ComplaintStatus string

const (
	StatusDiajukan     ComplaintStatus = "Diajukan"
	StatusDiverifikasi ComplaintStatus = "Diverifikasi"
	StatusDiproses     ComplaintStatus = "Diproses"
	StatusDitunda      ComplaintStatus = "Ditunda"
	StatusDitolak      ComplaintStatus = "Ditolak"
	StatusSelesai      ComplaintStatus = "Selesai"
)

func ValidStatus(s ComplaintStatus) bool {
	switch s {
	case StatusDiajukan, StatusDiverifikasi, StatusDiproses, StatusDitunda, StatusDitolak, StatusSelesai:
		return true
	}
	return false
}

type ComplaintCategory string

const (
	KategoriInfrastruktur   ComplaintCategory = "infrastruktur"
	KategoriLingkungan      ComplaintCategory = "lingkungan"
	KategoriSosial          ComplaintCategory = "sosial"
	KategoriKeamanan        ComplaintCategory = "keamanan"
	KategoriPelayananPublik ComplaintCategory = "pelayanan_publik"
	KategoriLainnya         ComplaintCategory = "lainnya"
)

func ValidCategory(c ComplaintCategory) bool {
	switch c {
	case KategoriInfrastruktur, KategoriLingkungan, KategoriSosial, KategoriKeamanan, KategoriPelayananPublik, KategoriLainnya:
		return true
	}
	return false
}

type Complaint struct {
	ID             int64             `json:"id_aduan"`
	JudulAduan     string            `json:"judul_aduan"`
	DeskripsiAduan string            `json:"deskripsi_aduan"`
	KategoriAduan  ComplaintCategory `json:"kategori_aduan"`
	AlamatAduan    string            `json:"alamat_aduan"`
	PelaporID      int64             `json:"id_pelapor"`
	PetugasID      *int64            `json:"id_petugas,omitempty"`
	StatusTerkini  ComplaintStatus   `json:"status_terkini"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
}

// StatusEntry is one append-only node in a complaint's status history.
type StatusEntry struct {
	ID            int64           `json:"id_status_aduan"`
	AduanID       int64           `json:"id_aduan"`
	Status        ComplaintStatus `json:"status"`
	Keterangan    *string         `json:"keterangan,omitempty"`
	TanggalStatus time.Time       `json:"tanggal_status"`
	Lampiran      []Attachment    `json:"lampiran_status,omitempty"`
}

// Attachment is a stored file reference owned by a complaint or by a
// single status entry, never both.
type Attachment struct {
	ID       int64  `json:"id_lampiran"`
	FilePath string `json:"file_path"`
}

// ComplaintSummary is the list-view row: latest status only, no history.
type ComplaintSummary struct {
	ID            int64             `json:"id_aduan"`
	JudulAduan    string            `json:"judul_aduan"`
	KategoriAduan ComplaintCategory `json:"kategori_aduan"`
	AlamatAduan   string            `json:"alamat_aduan"`
	Petugas       *PetugasSummary   `json:"petugas,omitempty"`
	Status        ComplaintStatus   `json:"status"`
	TanggalStatus time.Time         `json:"tanggal_status"`
}

// PelaporSummary is the filer contact block embedded in a detail view.
type PelaporSummary struct {
	NamaLengkap  string  `json:"nama_lengkap"`
	NomorTelepon *string `json:"nomor_telepon,omitempty"`
	Email        *string `json:"email,omitempty"`
}

type ComplaintDetail struct {
	Complaint
	Pelapor       *PelaporSummary `json:"pelapor,omitempty"`
	Petugas       *PetugasSummary `json:"petugas,omitempty"`
	StatusHistory []StatusEntry   `json:"status_aduan"`
	Lampiran      []Attachment    `json:"lampiran_aduan"`
}

// Request/Response
type AssignPetugasRequest struct {
	AduanID   int64 `json:"id_aduan" binding:"required"`
	PetugasID int64 `json:"id_petugas" binding:"required"`
}

type ComplaintListResponse struct {
	Aduan []ComplaintSummary `json:"aduan"`
	Total int                `json:"total"`
}

type DailyCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

type StatusCount struct {
	Status ComplaintStatus `json:"status"`
	Count  int             `json:"count"`
}

type CategoryCount struct {
	Category ComplaintCategory `json:"category"`
	Count    int               `json:"count"`
}

type Statistics struct {
	DailyCounts          []DailyCount    `json:"dailyCounts"`
	StatusDistribution   []StatusCount   `json:"statusDistribution"`
	CategoryDistribution []CategoryCount `json:"categoryDistribution"`
	TotalAduan           int             `json:"totalAduan"`
}
