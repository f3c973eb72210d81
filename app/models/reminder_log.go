package models

import (
	"time"
)

const (
	ReminderLogStatusSent   = "sent"
	ReminderLogStatusFailed = "failed"
)

// ReminderLog records one dispatch attempt of a payment reminder. Rows are
// append-only; the (reminder, receivable, day) read-before-write check in the
// scheduler keys off this table.
type ReminderLog struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	UserID       uint      `gorm:"not null;index" json:"user_id"`
	ReminderID   uint      `gorm:"not null;index:idx_reminder_logs_dispatch,priority:1" json:"reminder_id"`
	ReceivableID uint      `gorm:"not null;index:idx_reminder_logs_dispatch,priority:2" json:"receivable_id"`
	ClientID     uint      `gorm:"not null;index" json:"client_id"`
	Message      string    `gorm:"type:text" json:"message"`
	Status       string    `gorm:"type:varchar(20);not null" json:"status"`
	ErrorMessage string    `gorm:"type:text" json:"error_message,omitempty"`
	SentAt       time.Time `gorm:"not null;index:idx_reminder_logs_dispatch,priority:3" json:"sent_at"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// Succeeded reports whether the dispatch attempt went through.
func (l *ReminderLog) Succeeded() bool {
	return l.Status == ReminderLogStatusSent
}
