package middleware

import (
	"go.uber.org/zap"

	"SpendWise/pkg/logger"
)

// Init 初始化需要前置状态的中间件, 目前只有 JWT 鉴权
func Init() error {
	if err := initAuthMiddleware(); err != nil {
		logger.Logger.Error("Failed to initialize auth middleware", zap.Error(err))
		return err
	}

	logger.Logger.Info("Middlewares initialized")
	return nil
}
