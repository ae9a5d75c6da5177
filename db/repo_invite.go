package db

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/Sapphirecho8/misaka-danmu-server-plus/models"
)

// ErrNoUsesLeft 条件自增没改到任何行：名额已被并发耗尽
var ErrNoUsesLeft = errors.New("invite has no remaining uses")

func (r *Repo) CreateInvite(ctx context.Context, inv *models.Invite) error {
	return r.DB.WithContext(ctx).Create(inv).Error
}

func (r *Repo) GetInviteByCode(ctx context.Context, code string) (*models.Invite, error) {
	var inv models.Invite
	if err := r.DB.WithContext(ctx).Where("code = ?", code).First(&inv).Error; err != nil {
		return nil, err
	}
	return &inv, nil
}

func (r *Repo) GetInviteByID(ctx context.Context, id int64) (*models.Invite, error) {
	var inv models.Invite
	if err := r.DB.WithContext(ctx).First(&inv, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &inv, nil
}

// ListInvites 管理员看全部，普通持有者只看自己创建的
func (r *Repo) ListInvites(ctx context.Context, ownerID int64, isAdmin bool) ([]models.Invite, error) {
	tx := r.DB.WithContext(ctx).Model(&models.Invite{})
	if !isAdmin {
		tx = tx.Where("created_by_user_id = ?", ownerID)
	}
	var invites []models.Invite
	if err := tx.Order("id").Find(&invites).Error; err != nil {
		return nil, err
	}
	return invites, nil
}

// DeleteInvite 硬删除。返回是否真的删掉了一行；非管理员只能删自己创建的
func (r *Repo) DeleteInvite(ctx context.Context, id, ownerID int64, isAdmin bool) (bool, error) {
	tx := r.DB.WithContext(ctx).Where("id = ?", id)
	if !isAdmin {
		tx = tx.Where("created_by_user_id = ?", ownerID)
	}
	res := tx.Delete(&models.Invite{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// SetInviteExpiry 过期时间走插入后的补充更新
func (r *Repo) SetInviteExpiry(ctx context.Context, id int64, expiresAt time.Time) error {
	return r.DB.WithContext(ctx).Model(&models.Invite{}).
		Where("id = ?", id).
		Update("expires_at", expiresAt).Error
}

// IncrementInviteUsed 消耗一次名额。自增和余量校验必须在同一条语句里完成，
// 并发兑换同一个码时才不会超卖；读改写分两趟是错的
func (r *Repo) IncrementInviteUsed(ctx context.Context, id int64) error {
	res := r.DB.WithContext(ctx).Model(&models.Invite{}).
		Where("id = ? AND used_count < max_uses", id).
		UpdateColumn("used_count", gorm.Expr("used_count + 1"))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNoUsesLeft
	}
	return nil
}
