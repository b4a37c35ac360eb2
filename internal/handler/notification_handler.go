package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"aduan-portal/internal/middleware"
	"aduan-portal/internal/model"
	"aduan-portal/internal/service"

	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	notificationService *service.NotificationService
	jwtSecret           string
}

func NewNotificationHandler(notificationService *service.NotificationService, jwtSecret string) *NotificationHandler {
	return &NotificationHandler{
		notificationService: notificationService,
		jwtSecret:           jwtSecret,
	}
}

// Handles GET /notifications - the caller's recent notifications plus the
// unread count.
func (h *NotificationHandler) GetNotifications(c *gin.Context) {
	claims := middleware.Claims(c)

	response, err := h.notificationService.GetUserNotifications(claims.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// Handles GET /notifications/stream - a server-sent events stream that
// pushes notifications as they happen. EventSource cannot set headers, so a
// ?token= query parameter is accepted as an alternative to the
// Authorization header.
func (h *NotificationHandler) StreamNotifications(c *gin.Context) {
	claims := h.streamClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	client := h.notificationService.RegisterClient(claims.ID)
	defer h.notificationService.UnregisterClient(client)

	c.SSEvent("connected", gin.H{"status": "connected", "id_pengguna": claims.ID})
	c.Writer.Flush()

	clientGone := c.Request.Context().Done()
	for {
		select {
		case <-clientGone:
			return
		case notification, ok := <-client.Channel:
			if !ok {
				return
			}
			data, _ := json.Marshal(notification)
			c.SSEvent("notification", string(data))
			c.Writer.Flush()
		}
	}
}

func (h *NotificationHandler) streamClaims(c *gin.Context) *model.TokenClaims {
	if claims := middleware.Claims(c); claims != nil {
		return claims
	}
	token := c.Query("token")
	if token == "" {
		authHeader := c.GetHeader("Authorization")
		token = strings.TrimPrefix(authHeader, "Bearer ")
		if token == authHeader {
			return nil
		}
	}
	return service.ParseClaims(token, h.jwtSecret)
}

// Handles PATCH /notifications/:id/read.
func (h *NotificationHandler) MarkAsRead(c *gin.Context) {
	claims := middleware.Claims(c)

	notificationID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || notificationID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid notification id"})
		return
	}

	if err := h.notificationService.MarkAsRead(notificationID, claims.ID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "marked as read"})
}

// Handles PATCH /notifications/read-all.
func (h *NotificationHandler) MarkAllAsRead(c *gin.Context) {
	claims := middleware.Claims(c)

	if err := h.notificationService.MarkAllAsRead(claims.ID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "all marked as read"})
}
