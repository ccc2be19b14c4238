package model

import "time"

// ViewEvent keeps exactly one row per (user, note) pair. Repeat views update
// the row in place instead of appending; ViewedAt is refreshed on every visit
// while Counted records whether the latest visit incremented the note counter
// (true outside the one hour dedup window, false inside it). The flag is
// written by the same upsert statement so the outcome can be read back inside
// the surrounding transaction.
type ViewEvent struct {
	ID        uint64    `gorm:"primarykey" json:"id"`
	UserID    uint64    `gorm:"not null;uniqueIndex:uk_view_event,priority:1;index" json:"user_id"`
	NoteID    uint64    `gorm:"not null;uniqueIndex:uk_view_event,priority:2;index" json:"note_id"`
	ViewedAt  time.Time `gorm:"not null;index" json:"viewed_at"`
	Counted   bool      `gorm:"not null;default:true" json:"counted"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
