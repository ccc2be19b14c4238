package model

import (
	"time"

	"gorm.io/gorm"
)

// Note 笔记模型
// ViewsCount only ever moves up, and only through the view ledger upsert;
// nothing else writes it. DeletedAt keeps soft-deleted notes out of every
// query unless Unscoped is used.
type Note struct {
	ID           uint64         `gorm:"primarykey" json:"id"`
	Title        string         `gorm:"not null;size:200" json:"title"`
	Content      string         `gorm:"type:text" json:"content"`
	OwnerID      uint64         `gorm:"not null;index" json:"owner_id"`
	FolderID     *uint64        `gorm:"index" json:"folder_id"`
	WorkspaceID  *uint64        `gorm:"index" json:"workspace_id"`
	LastEditorID *uint64        `gorm:"index" json:"last_editor_id"`
	ViewsCount   int64          `gorm:"not null;default:0" json:"views_count"`
	LastViewedAt *time.Time     `json:"last_viewed_at"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}
