package storage

import (
	"context"
	"time"

	"go.uber.org/zap"

	"SpendWise/pkg/logger"
	"SpendWise/storage/database"
	"SpendWise/storage/mq"
	"SpendWise/storage/redis"
)

// Close 优雅关闭所有存储连接
// 先停事件发布，再关缓存，最后关数据库，保证落库动作先完成
func Close() {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	logger.Logger.Info("Closing storage connections...")

	closers := []struct {
		name  string
		close func(context.Context) error
	}{
		{"message queue", mq.Close},
		{"redis", redis.Close},
		{"database", database.Close},
	}

	for _, c := range closers {
		if err := c.close(ctx); err != nil {
			logger.Logger.Error("Failed to close storage connection",
				zap.String("component", c.name),
				zap.Error(err),
			)
			continue
		}
		logger.Logger.Info("Storage connection closed", zap.String("component", c.name))
	}
}
