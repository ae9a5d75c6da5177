package app

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Sapphirecho8/misaka-danmu-server-plus/config"
	"github.com/Sapphirecho8/misaka-danmu-server-plus/db"
	"github.com/Sapphirecho8/misaka-danmu-server-plus/logging"
)

// 简化别名，便于 handlers 调用
type Ctx = gin.Context
type H = gin.H

// App 聚合各依赖
type App struct {
	Router *gin.Engine
	DB     *gorm.DB
	RDB    *redis.Client
	Logger *zap.Logger
	Config config.Config
}

func MustNew() *App {
	cfg := config.Load()
	logger := logging.New()

	if cfg.JWTSecret == "" {
		logger.Fatal("JWT_SECRET 未配置")
	}

	// --- DB: Postgres ---
	dbConn := db.ConnectDB()

	// --- Redis ---
	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPwd, DB: 0})
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.Fatal("redis", zap.Error(err))
	}

	// --- Gin ---
	r := gin.Default()
	useCORS(r, cfg.WebOrigin)

	return &App{Router: r, DB: dbConn, RDB: rdb, Logger: logger, Config: cfg}
}

func (a *App) Close() {
	_ = a.RDB.Close()
	_ = a.Logger.Sync()
}
