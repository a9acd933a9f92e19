package domain

import "time"

// DefaultSenderName is shown when a notification's sender has no user row.
const DefaultSenderName = "Family Member"

// NotificationListLimit caps how many events a tree query returns.
const NotificationListLimit = 20

// Notification is a broadcast event owned by a family tree. It is append-only:
// ID and CreatedAt are assigned by the store on insert and never change.
type Notification struct {
	ID        string    `json:"id" gorm:"primaryKey;size:26"`
	TreeID    string    `json:"treeId" gorm:"size:128;not null;index:idx_notifications_tree_created,priority:1"`
	SenderID  string    `json:"senderId" gorm:"size:128;not null"`
	EventType string    `json:"eventType" gorm:"size:64;not null"`
	Message   string    `json:"message"`
	IsRead    bool      `json:"isRead" gorm:"not null;default:false"`
	CreatedAt time.Time `json:"createdAt" gorm:"not null;index:idx_notifications_tree_created,priority:2"`
}

func (Notification) TableName() string { return "notifications" }

// NotificationView is a notification enriched with its sender's display name.
type NotificationView struct {
	Notification
	SenderName string `json:"senderName"`
}

type BroadcastRequest struct {
	TreeID    string `json:"treeId" validate:"required"`
	SenderID  string `json:"senderId" validate:"required"`
	EventType string `json:"eventType" validate:"required"`
	Message   string `json:"message"`
}
