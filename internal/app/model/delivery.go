package model

import "time"

// ContactDelivery records the outbound email state of one contact message.
// Only the queue message id is kept, never the submission content.
type ContactDelivery struct {
	MessageID string    `db:"message_id" gorm:"primaryKey;size:64"`
	Status    string    `db:"status" gorm:"size:16;not null;index"`
	Attempts  int       `db:"attempts" gorm:"not null;default:0"`
	LastError string    `db:"last_error" gorm:"type:text"`
	CreatedAt time.Time `db:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `db:"updated_at" gorm:"autoUpdateTime;index"`
}

const (
	DeliveryStatusPending = "pending"
	DeliveryStatusSent    = "sent"
	DeliveryStatusFailed  = "failed"
)
