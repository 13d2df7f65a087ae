package domain

import "time"

// Notification type tags. Other values are accepted as-is.
const (
	NotificationInfo     = "info"
	NotificationSuccess  = "success"
	NotificationWarning  = "warning"
	NotificationError    = "error"
	NotificationProject  = "project"
	NotificationResource = "resource"
)

// Notification is an inbox alert owned by a user, optionally scoped to a client.
type Notification struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	ClientID  string    `json:"client_id,omitempty"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Type      string    `json:"type"`
	Read      bool      `json:"read"`
	Link      string    `json:"link,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
