package handler

import (
	"net/http"
	"strconv"

	"aduan-portal/internal/middleware"
	"aduan-portal/internal/model"
	"aduan-portal/internal/service"
	"aduan-portal/internal/storage"

	"github.com/gin-gonic/gin"
)

type ComplaintHandler struct {
	complaintService *service.ComplaintService
	uploads          *storage.UploadStore
}

func NewComplaintHandler(complaintService *service.ComplaintService, uploads *storage.UploadStore) *ComplaintHandler {
	return &ComplaintHandler{
		complaintService: complaintService,
		uploads:          uploads,
	}
}

// Handles GET /complaints - role-scoped list with each complaint's latest
// status.
func (h *ComplaintHandler) List(c *gin.Context) {
	response, err := h.complaintService.List(middleware.Claims(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response)
}

// Handles POST /complaints - citizen files a complaint as a multipart form
// with optional "lampiran" attachments.
func (h *ComplaintHandler) Create(c *gin.Context) {
	judul := c.PostForm("judul_aduan")
	deskripsi := c.PostForm("deskripsi_aduan")
	kategori := c.PostForm("kategori_aduan")
	alamat := c.PostForm("alamat_aduan")

	if judul == "" || deskripsi == "" || alamat == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields"})
		return
	}

	attachments, ok := h.saveAttachments(c)
	if !ok {
		return
	}

	complaint, err := h.complaintService.FileComplaint(
		middleware.Claims(c),
		judul,
		deskripsi,
		model.ComplaintCategory(kategori),
		alamat,
		attachments,
	)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Aduan created successfully",
		"aduan":   complaint,
	})
}

// Handles GET /complaints/:id - role-scoped detail with the full status
// history, most recent first.
func (h *ComplaintHandler) Detail(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid aduan id"})
		return
	}

	detail, err := h.complaintService.Detail(middleware.Claims(c), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"aduan": detail})
}

// Handles POST /complaints/assign-petugas - admin assigns or reassigns the
// handling staff member.
func (h *ComplaintHandler) AssignPetugas(c *gin.Context) {
	var req model.AssignPetugasRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields: id_aduan or id_petugas"})
		return
	}

	complaint, err := h.complaintService.AssignPetugas(&req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Petugas assigned successfully",
		"aduan":   complaint,
	})
}

// Handles POST /complaints/update-status - admin or the assigned staff
// appends a status entry; a multipart form so evidence files can ride
// along.
func (h *ComplaintHandler) UpdateStatus(c *gin.Context) {
	aduanIDStr := c.PostForm("id_aduan")
	status := c.PostForm("status")
	keterangan := c.PostForm("keterangan")

	if aduanIDStr == "" || status == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields: id_aduan or status"})
		return
	}

	aduanID, err := strconv.ParseInt(aduanIDStr, 10, 64)
	if err != nil || aduanID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid aduan id"})
		return
	}

	attachments, ok := h.saveAttachments(c)
	if !ok {
		return
	}

	entry, err := h.complaintService.UpdateStatus(
		middleware.Claims(c),
		aduanID,
		model.ComplaintStatus(status),
		keterangan,
		attachments,
	)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Status updated successfully",
		"status":  entry,
	})
}

// saveAttachments stores the "lampiran" files of a multipart request and
// returns their public paths. A request without files is fine.
func (h *ComplaintHandler) saveAttachments(c *gin.Context) ([]string, bool) {
	form, err := c.MultipartForm()
	if err != nil {
		// not a multipart request, nothing to save
		return nil, true
	}

	files := form.File["lampiran"]
	if len(files) == 0 {
		return nil, true
	}

	paths, err := h.uploads.Save(c, files)
	if err != nil {
		respondError(c, err)
		return nil, false
	}
	return paths, true
}
