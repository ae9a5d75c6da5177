package logging

import (
	"os"

	"go.uber.org/zap"
)

// New 构造 zap 日志器。LOG_FORMAT=console 时用开发配置，方便本地看日志
func New() *zap.Logger {
	if os.Getenv("LOG_FORMAT") == "console" {
		logger, _ := zap.NewDevelopment()
		return logger
	}
	logger, _ := zap.NewProduction()
	return logger
}
