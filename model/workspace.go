package model

import "time"

// Workspace 团队空间模型
type Workspace struct {
	ID        uint64    `gorm:"primarykey" json:"id"`
	Name      string    `gorm:"not null;size:100" json:"name"`
	Slug      string    `gorm:"unique;not null;size:64" json:"slug"`
	OwnerID   uint64    `gorm:"not null;index" json:"owner_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// WorkspaceMember grants a user access to every note inside a workspace.
type WorkspaceMember struct {
	ID          uint64    `gorm:"primarykey" json:"id"`
	WorkspaceID uint64    `gorm:"not null;uniqueIndex:uk_workspace_member,priority:1" json:"workspace_id"`
	UserID      uint64    `gorm:"not null;uniqueIndex:uk_workspace_member,priority:2;index" json:"user_id"`
	Role        string    `gorm:"not null;size:16;default:'member'" json:"role"`
	CreatedAt   time.Time `json:"created_at"`
}
