package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/shijra-api/internal/domain"
	"github.com/shijra-api/internal/pkg/id"
	"gorm.io/gorm"
)

// NotificationRepo stores broadcast events in the notifications table.
type NotificationRepo struct {
	db  *gorm.DB
	now func() time.Time
}

func NewNotificationRepo(db *gorm.DB, opts ...Option) *NotificationRepo {
	o := buildOptions(opts)
	return &NotificationRepo{db: db, now: o.now}
}

// Insert assigns the id and creation time, then writes n in a single statement.
func (r *NotificationRepo) Insert(ctx context.Context, n *domain.Notification) error {
	createdAt := stamp(r.now)
	n.ID = id.NewAt(createdAt)
	n.CreatedAt = createdAt
	n.IsRead = false
	if err := r.db.WithContext(ctx).Create(n).Error; err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}
	return nil
}

const listByTreeSQL = `
SELECT n.id, n.tree_id, n.sender_id, n.event_type, n.message, n.is_read, n.created_at,
       u.full_name AS sender_name
FROM notifications n
LEFT JOIN users u ON n.sender_id = u.id
WHERE n.tree_id = ?
ORDER BY n.created_at DESC, n.id DESC
LIMIT ?`

type notificationRow struct {
	ID         string
	TreeID     string
	SenderID   string
	EventType  string
	Message    string
	IsRead     bool
	CreatedAt  time.Time
	SenderName *string
}

// ListByTree returns the newest notifications of a tree joined with the
// sender's full name. SenderName is empty when no user row matches.
func (r *NotificationRepo) ListByTree(ctx context.Context, treeID string, limit int) ([]domain.NotificationView, error) {
	var rows []notificationRow
	if err := r.db.WithContext(ctx).Raw(listByTreeSQL, treeID, limit).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	views := make([]domain.NotificationView, 0, len(rows))
	for _, row := range rows {
		v := domain.NotificationView{
			Notification: domain.Notification{
				ID:        row.ID,
				TreeID:    row.TreeID,
				SenderID:  row.SenderID,
				EventType: row.EventType,
				Message:   row.Message,
				IsRead:    row.IsRead,
				CreatedAt: row.CreatedAt.UTC(),
			},
		}
		if row.SenderName != nil {
			v.SenderName = *row.SenderName
		}
		views = append(views, v)
	}
	return views, nil
}
