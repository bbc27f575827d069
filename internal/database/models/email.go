package models

import (
	"time"
)

// Email represents a PagBank notification message fetched from the mailbox.
// MessageID is unique so re-running the pipeline never stores a message twice.
type Email struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	MessageID string    `gorm:"uniqueIndex;size:255;not null" json:"message_id"`
	UID       uint32    `gorm:"index" json:"uid"`
	Subject   string    `gorm:"size:500" json:"subject"`
	FromAddr  string    `gorm:"size:255" json:"from"`
	Date      time.Time `gorm:"index" json:"date"`
	HTMLBody  string    `gorm:"type:text" json:"html_body"`
	TextBody  string    `gorm:"type:text" json:"text_body"`
	CreatedAt time.Time `json:"created_at"`
}
