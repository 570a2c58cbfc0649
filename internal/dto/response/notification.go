package response

import (
	"time"

	"polyglot-booking/internal/data/entity"
)

type NotificationResponse struct {
	ID        string                     `json:"id"`
	UserID    string                     `json:"user_id"`
	Type      entity.NotificationType    `json:"type"`
	Subject   string                     `json:"subject"`
	Content   string                     `json:"content"`
	Channel   entity.NotificationChannel `json:"channel"`
	Status    entity.NotificationStatus  `json:"status"`
	CreatedAt time.Time                  `json:"created_at"`
	SentAt    *time.Time                 `json:"sent_at"`
	Metadata  entity.Metadata            `json:"metadata,omitempty"`
}

func NotificationToResponse(n *entity.Notification) NotificationResponse {
	return NotificationResponse{
		ID:        n.ID,
		UserID:    n.UserID,
		Type:      n.Type,
		Subject:   n.Subject,
		Content:   n.Content,
		Channel:   n.Channel,
		Status:    n.Status,
		CreatedAt: n.CreatedAt,
		SentAt:    n.SentAt,
		Metadata:  n.Metadata,
	}
}
