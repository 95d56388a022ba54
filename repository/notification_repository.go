package repository

import (
	"database/sql"

	"farm-ledger-api/logger"
	"farm-ledger-api/model"
)

// INotificationRepository defines the contract for notification persistence.
type INotificationRepository interface {
	CreateNotification(notification *model.Notification) error
}

// NotificationRepository implements INotificationRepository.
type NotificationRepository struct {
	DB *sql.DB
}

func NewNotificationRepository(db *sql.DB) *NotificationRepository {
	return &NotificationRepository{DB: db}
}

// CreateNotification inserts one notification row. Callers treat failures as
// best-effort; the transaction that triggered the notice has already committed.
func (r *NotificationRepository) CreateNotification(notification *model.Notification) error {
	log := logger.Log.WithField("farmer_id", notification.FarmerID)
	log.Debug("Executing query to create a notification")

	query := `INSERT INTO notifications (farmer_id, message) VALUES ($1, $2) RETURNING id, created_at`
	err := r.DB.QueryRow(query, notification.FarmerID, notification.Message).
		Scan(&notification.ID, &notification.CreatedAt)
	if err != nil {
		log.WithError(err).Error("Failed to execute create notification query")
		return err
	}
	return nil
}
