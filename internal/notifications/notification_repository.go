package notifications

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/google/uuid"

	"github.com/Avanquish/DoughNation-sub000/internal/repository"
	"github.com/Avanquish/DoughNation-sub000/pkg/models"
)

type NotificationRepository interface {
	PersistNotification(charityID int, kind, message string, data interface{}) error
	GetNotificationsByCharity(charityID int) ([]models.Notification, error)
}

type notificationRepository struct {
	repo *repository.Repository
}

func NewRepository(r *repository.Repository) *notificationRepository {
	return &notificationRepository{repo: r}
}

func (r *notificationRepository) PersistNotification(charityID int, kind, message string, data interface{}) error {
	dataJSON, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal notification data: %w", err)
	}

	query := r.repo.GoquDBWrapper.Insert("notifications").
		Rows(goqu.Record{
			"uuid":       uuid.NewString(),
			"charity_id": charityID,
			"kind":       kind,
			"message":    message,
			"data":       dataJSON,
			"created_at": time.Now().UTC(),
		})

	if _, err := query.Executor().Exec(); err != nil {
		return fmt.Errorf("failed to insert notification: %w", err)
	}

	return nil
}

func (r *notificationRepository) GetNotificationsByCharity(charityID int) ([]models.Notification, error) {
	rows, err := r.repo.GoquDBWrapper.
		From("notifications").
		Select("id", "uuid", "charity_id", "kind", "message", "data", "created_at").
		Where(goqu.Ex{"charity_id": charityID}).
		Order(goqu.I("created_at").Desc()).
		Executor().Query()
	if err != nil {
		return nil, fmt.Errorf("error executing SQL statement: %w", err)
	}
	defer rows.Close()

	var notifications []models.Notification
	for rows.Next() {
		var n models.Notification
		if err := rows.Scan(&n.ID, &n.UUID, &n.CharityID, &n.Kind, &n.Message, &n.DataRaw, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan notification: %w", err)
		}
		n.LoadFromDB()
		notifications = append(notifications, n)
	}

	return notifications, nil
}
