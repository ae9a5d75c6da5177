package config

import (
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// LoadEnv 读取 .env（没有就直接用进程环境变量）
func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}
}

// Config 从环境变量读取。超级管理员身份是注入配置，不是全局单例
type Config struct {
	WebOrigin string
	RedisAddr string
	RedisPwd  string

	JWTSecret  string
	SessionTTL time.Duration

	SuperAdminUsername string
	SuperAdminPassword string
}

func Load() Config {
	get := func(k, def string) string {
		v := strings.TrimSpace(os.Getenv(k))
		if v == "" {
			return def
		}
		return v
	}

	ttl := 24 * time.Hour
	if d, err := time.ParseDuration(get("SESSION_TTL_SECONDS", "86400") + "s"); err == nil {
		ttl = d
	}

	return Config{
		WebOrigin:          get("WEB_ORIGIN", "http://localhost:3000"),
		RedisAddr:          get("REDIS_ADDR", "127.0.0.1:6379"),
		RedisPwd:           os.Getenv("REDIS_PASSWORD"),
		JWTSecret:          get("JWT_SECRET", ""),
		SessionTTL:         ttl,
		SuperAdminUsername: get("ADMIN_INITIAL_USER", "admin"),
		SuperAdminPassword: os.Getenv("ADMIN_INITIAL_PASSWORD"),
	}
}
