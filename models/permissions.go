package models

import (
	"encoding/json"
	"strings"
)

// PermCreateUsers 允许创建/管理邀请码的能力名
const PermCreateUsers = "createUsers"

// EncodePermissions 把前端提交的权限表（bool 或 'allow'/'deny'/'inherit'）
// 规范化为纯布尔映射后序列化。'inherit' 和不认识的取值直接丢弃，不算错误。
// 输入为 nil 时返回 nil（"没有权限覆盖"，区别于显式的空映射）。
func EncodePermissions(raw map[string]any) *string {
	if raw == nil {
		return nil
	}
	norm := make(map[string]bool, len(raw))
	for k, v := range raw {
		switch val := v.(type) {
		case bool:
			norm[k] = val
		case string:
			switch strings.ToLower(strings.TrimSpace(val)) {
			case "allow":
				norm[k] = true
			case "deny":
				norm[k] = false
			}
		}
	}
	b, err := json.Marshal(norm)
	if err != nil {
		return nil
	}
	s := string(b)
	return &s
}

// DecodePermissions 尽力解析存储的权限 JSON。解析失败按"无权限"处理，
// 绝不向调用方抛错：权限是附带元数据，坏数据只降级不拦路。
func DecodePermissions(serialized *string) map[string]bool {
	if serialized == nil || strings.TrimSpace(*serialized) == "" {
		return nil
	}
	var perms map[string]bool
	if err := json.Unmarshal([]byte(*serialized), &perms); err != nil {
		return nil
	}
	return perms
}
