package notification

import (
	"time"
)

// Notification tells a staff member about a change made by someone else.
// (UserID, EventID) is unique: one notification per recipient per triggering mutation.
type Notification struct {
	ID        string     `bson:"_id" json:"id"`
	UserID    string     `bson:"user_id" json:"user_id"`
	LeadID    string     `bson:"lead_id,omitempty" json:"lead_id,omitempty"`
	EventID   string     `bson:"event_id" json:"event_id"`
	Content   string     `bson:"content" json:"content"`
	Author    string     `bson:"author" json:"author"`
	Read      bool       `bson:"read" json:"read"`
	CreatedAt time.Time  `bson:"created_at" json:"created_at"`
	ReadAt    *time.Time `bson:"read_at,omitempty" json:"read_at,omitempty"`
}

// LeadRef identifies the lead a notification is about.
type LeadRef struct {
	ID   string
	Name string
}
