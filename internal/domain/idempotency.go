package domain

import "time"

// Idempotency records the chat turn produced for a client-supplied
// Idempotency-Key so a retried POST /chat can be answered without repeating
// external calls or writes.
type Idempotency struct {
	ID         string    `gorm:"type:char(36);primaryKey"`
	Key        string    `gorm:"type:varchar(200);not null;uniqueIndex:ux_idempotency_key"`
	ChatTurnID string    `gorm:"type:char(36);not null"`
	CreatedAt  time.Time `gorm:"not null;autoCreateTime"`
	ExpiresAt  time.Time `gorm:"not null;index"`
}

// TableName implements the GORM tabler interface.
func (Idempotency) TableName() string { return "idempotency" }

// Expired reports whether the record is no longer valid at now.
func (i Idempotency) Expired(now time.Time) bool {
	return !now.Before(i.ExpiresAt)
}
