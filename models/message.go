package models

import "time"

// Message is one community chat entry. Sender is the display name, Time
// the client-formatted clock string shown in the chat UI.
type Message struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"index" json:"userid"`
	Sender    string    `json:"sender"`
	Text      string    `gorm:"type:text" json:"text"`
	Time      string    `json:"time"`
	CreatedAt time.Time `json:"createdAt"`
}
