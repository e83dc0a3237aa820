package models

import "time"

const (
	ReminderPending   = "pending"
	ReminderCompleted = "completed"
	ReminderSkipped   = "skipped"
)

// Reminder is one scheduled medication dose. Name and Phone are snapshots
// of the owning user taken at creation time, so a reminder stays
// deliverable even if the user record changes later.
type Reminder struct {
	ID     uint `gorm:"primaryKey" json:"id"`
	UserID uint `gorm:"index" json:"userid"`

	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Medicine string `json:"medicine"`

	// HH:MM, 24-hour, compared against the server wall clock.
	ReminderTime string `gorm:"size:5;index" json:"reminderTime"`

	Status string `gorm:"size:20;default:pending" json:"status"`

	// Written by the schema migration only; the delivery loop never reads
	// or sets it.
	Sent bool `json:"sent"`

	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
	CompletedAt *time.Time `json:"completedAt"`
}
