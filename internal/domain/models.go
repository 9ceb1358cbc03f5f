// Package domain defines the persistence models for chat turns, mood entries
// and idempotency records. These types are mapped with GORM and are also the
// values carried through the Redis stream store and the HTTP layer.
package domain

import "time"

// ChatTurn is one processed user message together with the assistant reply
// and the signals derived from it. Turns are append-only.
//
// Fields:
//   - ID: UUID primary key (char(36)).
//   - Message: the raw user message as received.
//   - Reply: the assistant reply returned to the user.
//   - Sentiment: emotion label, never empty ("neutral" when unknown).
//   - Risk: true when the message matched a high-risk phrase.
//   - Timestamp: UTC time the turn was written; indexed for ordering.
type ChatTurn struct {
	ID        string    `json:"id"        gorm:"type:char(36);primaryKey"`
	Message   string    `json:"message"   gorm:"type:text;not null"`
	Reply     string    `json:"reply"     gorm:"type:text;not null"`
	Sentiment string    `json:"sentiment" gorm:"type:varchar(64);not null"`
	Risk      bool      `json:"risk"      gorm:"not null;default:false"`
	Timestamp time.Time `json:"timestamp" gorm:"not null;index:idx_chats_ts"`
}

// TableName returns the database table name for ChatTurn.
func (ChatTurn) TableName() string { return "chats" }

// MoodEntry is a single mood label recorded either by a chat turn or by an
// explicit append. Client-supplied labels are free text.
type MoodEntry struct {
	ID        string    `json:"id"        gorm:"type:char(36);primaryKey" example:"7d1f6c2a-5b8e-4f3a-9c11-2e4b6a8d0f13"`
	Mood      string    `json:"mood"      gorm:"type:text;not null"       example:"sadness"`
	Timestamp time.Time `json:"timestamp" gorm:"not null;index:idx_moods_ts" example:"2025-05-01T12:00:00Z"`
}

// TableName returns the database table name for MoodEntry.
func (MoodEntry) TableName() string { return "moods" }
