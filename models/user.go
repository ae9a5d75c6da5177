package models

import "time"

// User 账号。邀请注册产生的账号 Role 固定为 RoleUser，CanCreateAdmin 恒为 false
type User struct {
	ID           int64  `gorm:"primaryKey" json:"id"`
	Username     string `gorm:"uniqueIndex;size:255;not null" json:"username"`
	PasswordHash string `gorm:"size:255;not null" json:"-"`
	Role         string `gorm:"size:32;not null;default:user" json:"role"`

	CanCreateAdmin  bool    `gorm:"not null;default:false" json:"canCreateAdmin"`
	PerHourLimit    *int    `json:"perHourLimit,omitempty"`
	PermissionsJSON *string `gorm:"type:text" json:"-"`
	Remark          *string `gorm:"size:255" json:"remark,omitempty"`

	CreatedAt   time.Time  `json:"createdAt"`
	LastLoginAt *time.Time `gorm:"index" json:"lastLoginAt,omitempty"`
}

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

func (User) TableName() string { return "users" }

func (u *User) IsAdmin() bool { return u.Role == RoleAdmin }
