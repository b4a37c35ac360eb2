package repository

import (
	"database/sql"

	"aduan-portal/internal/model"
)

type NotificationRepository struct {
	db *sql.DB
}

func NewNotificationRepository(db *sql.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) Create(n *model.Notification) error {
	query := `
		INSERT INTO notifications (user_id, id_aduan, title, message, is_read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	return r.db.QueryRow(query,
		n.UserID,
		n.AduanID,
		n.Title,
		n.Message,
		n.IsRead,
		n.CreatedAt,
	).Scan(&n.ID)
}

func (r *NotificationRepository) GetByUserID(userID int64) ([]model.Notification, error) {
	query := `
		SELECT id, user_id, id_aduan, title, message, is_read, created_at
		FROM notifications
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT 50
	`
	rows, err := r.db.Query(query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notifications []model.Notification
	for rows.Next() {
		var n model.Notification
		var aduanID sql.NullInt64

		err := rows.Scan(&n.ID, &n.UserID, &aduanID, &n.Title, &n.Message, &n.IsRead, &n.CreatedAt)
		if err != nil {
			return nil, err
		}
		if aduanID.Valid {
			n.AduanID = &aduanID.Int64
		}
		notifications = append(notifications, n)
	}

	return notifications, rows.Err()
}

func (r *NotificationRepository) GetUnreadCount(userID int64) (int, error) {
	query := `SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND is_read = FALSE`
	var count int
	err := r.db.QueryRow(query, userID).Scan(&count)
	return count, err
}

func (r *NotificationRepository) MarkAsRead(notificationID, userID int64) error {
	query := `UPDATE notifications SET is_read = TRUE WHERE id = $1 AND user_id = $2`
	result, err := r.db.Exec(query, notificationID, userID)
	if err != nil {
		return err
	}
	affected, _ := result.RowsAffected()
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *NotificationRepository) MarkAllAsRead(userID int64) error {
	query := `UPDATE notifications SET is_read = TRUE WHERE user_id = $1 AND is_read = FALSE`
	_, err := r.db.Exec(query, userID)
	return err
}

// IsMessageProcessed and MarkMessageProcessed give the consumer
// at-least-once delivery without duplicate notifications.
func (r *NotificationRepository) IsMessageProcessed(messageID string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM processed_messages WHERE message_id = $1)`
	var exists bool
	err := r.db.QueryRow(query, messageID).Scan(&exists)
	return exists, err
}

func (r *NotificationRepository) MarkMessageProcessed(messageID string) error {
	query := `INSERT INTO processed_messages (message_id) VALUES ($1) ON CONFLICT DO NOTHING`
	_, err := r.db.Exec(query, messageID)
	return err
}
