package service

import (
	"time"

	"aduan-portal/internal/messaging"
	"aduan-portal/internal/model"
)

// ComplaintStore is the persistence surface of the complaint lifecycle.
// *repository.ComplaintRepository implements it.
type ComplaintStore interface {
	CreateWithInitialStatus(c *model.Complaint, first *model.StatusEntry, attachments []string, routingKey string, event interface{}) error
	AppendStatus(entry *model.StatusEntry, attachments []string, routingKey string, event interface{}) error
	FindByID(id int64) (*model.Complaint, error)
	AssignPetugas(aduanID, petugasID int64, at time.Time) error
	List(pelaporID, petugasID *int64) ([]model.ComplaintSummary, error)
	Detail(id int64, pelaporID, petugasID *int64) (*model.ComplaintDetail, error)
}

type ComplaintService struct {
	complaints ComplaintStore
	users      UserStore
}

func NewComplaintService(complaints ComplaintStore, users UserStore) *ComplaintService {
	return &ComplaintService{
		complaints: complaints,
		users:      users,
	}
}

// scope translates a caller into the row filters every read uses: admins
// see everything, citizens their own filings, staff their assignments.
// Keeping this in one place stops the per-endpoint rules from drifting.
func scope(caller *model.TokenClaims) (pelaporID, petugasID *int64, err error) {
	switch caller.Role {
	case model.RoleAdmin:
		return nil, nil, nil
	case model.RoleMasyarakat:
		return &caller.ID, nil, nil
	case model.RolePetugas:
		return nil, &caller.ID, nil
	default:
		return nil, nil, model.Forbidden("forbidden")
	}
}

// FileComplaint creates a complaint in the Diajukan state. The complaint
// row, its first status entry and the filing attachments are one
// transaction.
func (s *ComplaintService) FileComplaint(caller *model.TokenClaims, judul, deskripsi string, kategori model.ComplaintCategory, alamat string, attachments []string) (*model.Complaint, error) {
	if judul == "" || deskripsi == "" || alamat == "" {
		return nil, model.ValidationError("Missing required fields")
	}
	if kategori == "" {
		kategori = model.KategoriLainnya
	}
	if !model.ValidCategory(kategori) {
		return nil, model.ValidationError("invalid category")
	}

	now := time.Now()
	complaint := &model.Complaint{
		JudulAduan:     judul,
		DeskripsiAduan: deskripsi,
		KategoriAduan:  kategori,
		AlamatAduan:    alamat,
		PelaporID:      caller.ID,
		StatusTerkini:  model.StatusDiajukan,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	first := &model.StatusEntry{
		Status:        model.StatusDiajukan,
		TanggalStatus: now,
	}

	event := messaging.ComplaintCreatedEvent{
		JudulAduan:    judul,
		KategoriAduan: string(kategori),
		PelaporID:     caller.ID,
		PelaporNama:   caller.Nama,
		Timestamp:     now.Unix(),
	}
	err := s.complaints.CreateWithInitialStatus(complaint, first, attachments, messaging.RoutingKeyComplaintCreated, &event)
	if err != nil {
		return nil, err
	}

	return complaint, nil
}

// AssignPetugas sets (or replaces) the staff member handling a complaint.
func (s *ComplaintService) AssignPetugas(req *model.AssignPetugasRequest) (*model.Complaint, error) {
	complaint, err := s.complaints.FindByID(req.AduanID)
	if err != nil {
		return nil, err
	}
	if complaint == nil {
		return nil, model.NotFound("Aduan not found")
	}

	petugas, err := s.users.FindByID(req.PetugasID)
	if err != nil {
		return nil, err
	}
	if petugas == nil {
		return nil, model.NotFound("Petugas not found")
	}
	if petugas.Role != model.RolePetugas {
		return nil, model.ValidationError("Pengguna bukan petugas")
	}

	now := time.Now()
	if err := s.complaints.AssignPetugas(req.AduanID, req.PetugasID, now); err != nil {
		return nil, err
	}

	complaint.PetugasID = &req.PetugasID
	complaint.UpdatedAt = now
	return complaint, nil
}

// UpdateStatus appends a status entry. Admins may update any complaint;
// staff only the one assigned to them.
func (s *ComplaintService) UpdateStatus(caller *model.TokenClaims, aduanID int64, status model.ComplaintStatus, keterangan string, attachments []string) (*model.StatusEntry, error) {
	if !model.ValidStatus(status) {
		return nil, model.ValidationError("invalid status")
	}

	complaint, err := s.complaints.FindByID(aduanID)
	if err != nil {
		return nil, err
	}
	if complaint == nil {
		return nil, model.NotFound("Aduan not found")
	}

	if caller.Role == model.RolePetugas {
		if complaint.PetugasID == nil || *complaint.PetugasID != caller.ID {
			return nil, model.Forbidden("Access denied. You can only update aduan assigned to you.")
		}
	}

	entry := &model.StatusEntry{
		AduanID:       aduanID,
		Status:        status,
		TanggalStatus: time.Now(),
	}
	if keterangan != "" {
		entry.Keterangan = &keterangan
	}

	event := messaging.StatusUpdatedEvent{
		AduanID:    aduanID,
		JudulAduan: complaint.JudulAduan,
		NewStatus:  string(status),
		PelaporID:  complaint.PelaporID,
		Timestamp:  entry.TanggalStatus.Unix(),
	}
	err = s.complaints.AppendStatus(entry, attachments, messaging.RoutingKeyStatusUpdate, &event)
	if err != nil {
		return nil, err
	}

	return entry, nil
}

func (s *ComplaintService) List(caller *model.TokenClaims) (*model.ComplaintListResponse, error) {
	pelaporID, petugasID, err := scope(caller)
	if err != nil {
		return nil, err
	}

	summaries, err := s.complaints.List(pelaporID, petugasID)
	if err != nil {
		return nil, err
	}
	if summaries == nil {
		summaries = []model.ComplaintSummary{}
	}

	return &model.ComplaintListResponse{Aduan: summaries, Total: len(summaries)}, nil
}

// Detail returns one complaint with its full history. A complaint outside
// the caller's scope is reported as absent, not as forbidden.
func (s *ComplaintService) Detail(caller *model.TokenClaims, aduanID int64) (*model.ComplaintDetail, error) {
	pelaporID, petugasID, err := scope(caller)
	if err != nil {
		return nil, err
	}

	detail, err := s.complaints.Detail(aduanID, pelaporID, petugasID)
	if err != nil {
		return nil, err
	}
	if detail == nil {
		return nil, model.NotFound("Aduan not found or access denied")
	}

	return detail, nil
}
