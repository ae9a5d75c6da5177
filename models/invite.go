package models

import "time"

// Invite 邀请码：限定使用次数 + 可选过期时间，注册时把 perHourLimit/权限/备注 继承给新账号
type Invite struct {
	ID              int64      `gorm:"primaryKey" json:"id"`
	Code            string     `gorm:"uniqueIndex;size:32;not null" json:"code"`
	CreatedByUserID int64      `gorm:"index;not null" json:"createdByUserId"`
	CreatedAt       time.Time  `json:"createdAt"`
	MaxUses         int        `gorm:"not null;default:1" json:"maxUses"`
	UsedCount       int        `gorm:"not null;default:0" json:"usedCount"`
	ExpiresAt       *time.Time `gorm:"index" json:"expiresAt,omitempty"`
	PerHourLimit    *int       `json:"perHourLimit,omitempty"`
	PermissionsJSON *string    `gorm:"type:text" json:"permissionsJson,omitempty"`
	Remark          *string    `gorm:"size:255" json:"remark,omitempty"`
	IsEnabled       bool       `gorm:"not null;default:true" json:"isEnabled"`
}

func (Invite) TableName() string { return "invites" }
