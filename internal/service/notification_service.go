package service

import (
	"database/sql"
	"errors"

	"aduan-portal/internal/messaging"
	"aduan-portal/internal/model"
)

// NotificationStore is the persistence surface for user notifications.
type NotificationStore interface {
	GetByUserID(userID int64) ([]model.Notification, error)
	GetUnreadCount(userID int64) (int, error)
	MarkAsRead(notificationID, userID int64) error
	MarkAllAsRead(userID int64) error
}

type NotificationService struct {
	notifications NotificationStore
	sseHub        *messaging.SSEHub
}

func NewNotificationService(notifications NotificationStore, sseHub *messaging.SSEHub) *NotificationService {
	return &NotificationService{
		notifications: notifications,
		sseHub:        sseHub,
	}
}

func (s *NotificationService) GetUserNotifications(userID int64) (*model.NotificationListResponse, error) {
	notifications, err := s.notifications.GetByUserID(userID)
	if err != nil {
		return nil, err
	}
	if notifications == nil {
		notifications = []model.Notification{}
	}

	unreadCount, err := s.notifications.GetUnreadCount(userID)
	if err != nil {
		return nil, err
	}

	return &model.NotificationListResponse{
		Notifications: notifications,
		UnreadCount:   unreadCount,
	}, nil
}

func (s *NotificationService) MarkAsRead(notificationID, userID int64) error {
	err := s.notifications.MarkAsRead(notificationID, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return model.NotFound("notification not found")
	}
	return err
}

func (s *NotificationService) MarkAllAsRead(userID int64) error {
	return s.notifications.MarkAllAsRead(userID)
}

func (s *NotificationService) RegisterClient(userID int64) *messaging.SSEClient {
	return s.sseHub.RegisterClient(userID)
}

func (s *NotificationService) UnregisterClient(client *messaging.SSEClient) {
	s.sseHub.UnregisterClient(client)
}
