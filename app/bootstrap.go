package app

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/Sapphirecho8/misaka-danmu-server-plus/config"
	"github.com/Sapphirecho8/misaka-danmu-server-plus/db"
	"github.com/Sapphirecho8/misaka-danmu-server-plus/models"
)

// EnsureSuperAdmin 启动时保证配置的超级管理员账号存在。
// 没配初始密码就随机生成一个，打印在日志里让运维第一次登录后改掉
func EnsureSuperAdmin(ctx context.Context, cfg config.Config, repo *db.Repo, logger *zap.Logger) {
	if cfg.SuperAdminUsername == "" {
		return
	}
	if _, err := repo.FindUserByUsername(ctx, cfg.SuperAdminUsername); err == nil {
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		logger.Error("查询超级管理员失败", zap.Error(err))
		return
	}

	pwd := cfg.SuperAdminPassword
	generated := false
	if pwd == "" {
		pwd = uuid.NewString()
		generated = true
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	if err != nil {
		logger.Error("生成超级管理员密码哈希失败", zap.Error(err))
		return
	}

	u := &models.User{
		Username:       cfg.SuperAdminUsername,
		PasswordHash:   string(hash),
		Role:           models.RoleAdmin,
		CanCreateAdmin: true,
	}
	if err := repo.CreateUser(ctx, u); err != nil {
		logger.Error("创建超级管理员失败", zap.Error(err))
		return
	}
	if generated {
		logger.Info("[BOOTSTRAP] 已创建超级管理员（随机初始密码，请尽快修改）",
			zap.String("username", u.Username),
			zap.String("password", pwd))
	} else {
		logger.Info("[BOOTSTRAP] 已创建超级管理员", zap.String("username", u.Username))
	}
}
