package handler

import (
	"net/http"
	"strconv"

	"aduan-portal/internal/middleware"
	"aduan-portal/internal/model"
	"aduan-portal/internal/service"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	userService *service.UserService
}

func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

func userIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return 0, false
	}
	return id, true
}

// Handles GET /users - admins get everyone, others a list of just
// themselves.
func (h *UserHandler) List(c *gin.Context) {
	response, err := h.userService.List(middleware.Claims(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response)
}

// Handles GET /users/petugas - staff picker for complaint assignment.
func (h *UserHandler) ListPetugas(c *gin.Context) {
	petugas, err := h.userService.ListPetugas()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"petugas": petugas})
}

// Handles GET /users/:id - self or admin.
func (h *UserHandler) Get(c *gin.Context) {
	id, ok := userIDParam(c)
	if !ok {
		return
	}

	user, err := h.userService.Get(id, middleware.Claims(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// Handles POST /users - admin account creation with explicit role and
// verified flag.
func (h *UserHandler) Create(c *gin.Context) {
	var req model.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.userService.CreateByAdmin(&req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Pengguna berhasil ditambahkan",
		"user":    user,
	})
}

// Handles PUT /users/:id - self updates limited fields, admin updates all.
func (h *UserHandler) Update(c *gin.Context) {
	id, ok := userIDParam(c)
	if !ok {
		return
	}

	var req model.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.userService.Update(id, &req, middleware.Claims(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Data pengguna berhasil diperbarui",
		"user":    user,
	})
}

// Handles PATCH /users/:id/verify - admin toggles the verified flag.
func (h *UserHandler) Verify(c *gin.Context) {
	id, ok := userIDParam(c)
	if !ok {
		return
	}

	var req model.VerifyUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.userService.SetVerified(id, *req.Verified)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Status verifikasi berhasil diperbarui",
		"user":    user,
	})
}

// Handles DELETE /users/:id - admin only; blocked for self-deletion and
// for users still referenced by complaints.
func (h *UserHandler) Delete(c *gin.Context) {
	id, ok := userIDParam(c)
	if !ok {
		return
	}

	user, err := h.userService.Delete(id, middleware.Claims(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Pengguna berhasil dihapus",
		"user":    user,
	})
}
