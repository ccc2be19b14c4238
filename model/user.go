package model

import "time"

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User 用户模型
type User struct {
	ID        uint64    `gorm:"primarykey" json:"id"`
	Email     string    `gorm:"unique;not null;size:255" json:"email"`
	Username  string    `gorm:"unique;not null;size:50" json:"username"`
	Password  string    `gorm:"not null;size:100" json:"-"`
	Nickname  string    `gorm:"size:100" json:"nickname"`
	AvatarURL string    `gorm:"size:255" json:"avatar_url"`
	Role      string    `gorm:"not null;size:16;default:'user'" json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
