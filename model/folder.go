package model

import "time"

// Folder 笔记文件夹模型
type Folder struct {
	ID          uint64    `gorm:"primarykey" json:"id"`
	Name        string    `gorm:"not null;size:100" json:"name"`
	WorkspaceID *uint64   `gorm:"index" json:"workspace_id"`
	OwnerID     uint64    `gorm:"not null;index" json:"owner_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
