package models

import "time"

type NotificationType string

const (
	NotifNewQuote      NotificationType = "new_quote"
	NotifBookingStatus NotificationType = "booking_status"
	NotifSystem        NotificationType = "system"
)

// Notification is addressed to an explicit recipient; counts and lists are
// always scoped to the authenticated caller, never a fixed admin id.
type Notification struct {
	ID          int64            `json:"id"`
	RecipientID int64            `json:"recipientId"`
	Type        NotificationType `json:"type"`
	Message     string           `json:"message"`
	Link        string           `json:"link,omitempty"`
	IsRead      bool             `json:"isRead"`
	CreatedAt   time.Time        `json:"createdAt"`
}
