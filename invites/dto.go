package invites

import "time"

// CreateRequest 创建邀请码的请求体
type CreateRequest struct {
	MaxUses      int            `json:"maxUses" binding:"required,min=1,max=1000"`
	PerHourLimit *int           `json:"perHourLimit"`
	Permissions  map[string]any `json:"permissions"` // 值可以是 bool 或 'allow'/'deny'/'inherit'
	Remark       *string        `json:"remark"`
	ExpiresAt    *time.Time     `json:"expiresAt"`
}

// RegisterRequest 受邀注册的请求体
type RegisterRequest struct {
	Code     string `json:"code" binding:"required"`
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Info 返回给持有者/管理员的完整邀请码视图
type Info struct {
	ID              int64           `json:"id"`
	Code            string          `json:"code"`
	CreatedByUserID int64           `json:"createdByUserId"`
	CreatedAt       time.Time       `json:"createdAt"`
	MaxUses         int             `json:"maxUses"`
	UsedCount       int             `json:"usedCount"`
	ExpiresAt       *time.Time      `json:"expiresAt,omitempty"`
	IsExpired       bool            `json:"isExpired"`
	PerHourLimit    *int            `json:"perHourLimit,omitempty"`
	Permissions     map[string]bool `json:"permissions,omitempty"`
	Remark          *string         `json:"remark,omitempty"`
	IsEnabled       bool            `json:"isEnabled"`
}

// ValidateResponse 公开校验接口的响应。禁用的码对外伪装成不存在，
// 且不回显 maxUses/usedCount 等元数据
type ValidateResponse struct {
	Valid     bool       `json:"valid"`
	Reason    string     `json:"reason,omitempty"` // not_found | expired | no_remaining（禁用伪装成 not_found）
	Message   string     `json:"message"`
	MaxUses   *int       `json:"maxUses,omitempty"`
	UsedCount *int       `json:"usedCount,omitempty"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
}
