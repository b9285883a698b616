package logger

import (
	"fmt"
	"go-shift-planner/pkg/config"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// 全局日志记录器实例
var L *zap.Logger

// 根据配置初始化全局logger。
// production模式输出JSON格式，开发模式输出控制台格式。
func Init(cfg config.LogConfig) error {
	var zapLevel zapcore.Level
	if err := zapLevel.UnmarshalText([]byte(cfg.Level)); err != nil {
		zapLevel = zapcore.InfoLevel // 如果解析失败，则默认为Info级别
		fmt.Fprintf(os.Stderr, "Warning: Invalid log level '%s', using default 'info'. Error: %v\n", cfg.Level, err)
	}

	var err error
	if cfg.ProductionMode {
		zc := zap.NewProductionConfig()
		zc.Level = zap.NewAtomicLevelAt(zapLevel)
		L, err = zc.Build(zap.AddCallerSkip(1))
	} else {
		zc := zap.NewDevelopmentConfig()
		zc.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder // 彩色级别输出
		zc.Level = zap.NewAtomicLevelAt(zapLevel)
		L, err = zc.Build(zap.AddCallerSkip(1))
	}

	if err != nil {
		return fmt.Errorf("failed to initialize zap logger: %w", err)
	}

	L.Info("Zap logger initialized", zap.String("level", zapLevel.String()), zap.Bool("productionMode", cfg.ProductionMode))
	return nil
}

// Sync刷新任何缓冲的日志条目。
// 建议在应用程序退出之前调用它。
func Sync() {
	if L != nil {
		_ = L.Sync()
	}
}
