package invites

import (
	"time"

	"github.com/Sapphirecho8/misaka-danmu-server-plus/models"
)

// Status 邀请码当前的可用性判定结果
type Status string

const (
	StatusValid       Status = "valid"
	StatusNotFound    Status = "not_found"
	StatusExpired     Status = "expired"
	StatusNoRemaining Status = "no_remaining"
	StatusDisabled    Status = "disabled"
)

// Evaluate 统一的状态机，列表展示、公开校验、注册三处都走这里。
// 判定顺序固定：不存在 → 已过期 → 次数用尽 → 被禁用 → 可用。
// 过期和用尽要排在禁用前面，这样管理员禁用一个本来就过期的码时，
// 对外的说法不会突然从"已过期"变成"不存在"。
func Evaluate(inv *models.Invite, now time.Time) Status {
	if inv == nil {
		return StatusNotFound
	}
	if inv.ExpiresAt != nil && !inv.ExpiresAt.After(now) {
		return StatusExpired
	}
	if inv.UsedCount >= inv.MaxUses {
		return StatusNoRemaining
	}
	if !inv.IsEnabled {
		return StatusDisabled
	}
	return StatusValid
}

// IsExpired 给鉴权后的列表视图算 isExpired 字段用
func IsExpired(inv *models.Invite, now time.Time) bool {
	return inv.ExpiresAt != nil && !inv.ExpiresAt.After(now)
}
