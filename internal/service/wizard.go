package service

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"SpendWise/config"
	"SpendWise/internal/model"
	"SpendWise/internal/queue"
	"SpendWise/internal/wizard"
	"SpendWise/pkg/logger"
	"SpendWise/pkg/metrics"
)

var (
	wizardManager *wizard.Manager
	wizardOnce    sync.Once
)

// Wizard 返回接好持久化与完成事件的会话管理器单例
func Wizard() *wizard.Manager {
	wizardOnce.Do(func() {
		cfg := wizard.Config{
			Ticks:           config.Cfg.OnboardingTicks,
			TickInterval:    time.Duration(config.Cfg.OnboardingTickIntervalMS) * time.Millisecond,
			SaveTimeout:     time.Duration(config.Cfg.OnboardingSaveTimeoutSec) * time.Second,
			DefaultCurrency: config.Cfg.DefaultCurrency,
		}

		wizardManager = wizard.NewManager(cfg, Onboarding(), NewCompletionNotifier(logger.Logger), logger.Logger)
	})
	return wizardManager
}

// CompletionNotifier 把完成信号发到消息队列，外部导航/界面订阅
type CompletionNotifier struct {
	logger *zap.Logger
}

func NewCompletionNotifier(log *zap.Logger) *CompletionNotifier {
	if log == nil {
		log = zap.NewNop()
	}
	return &CompletionNotifier{logger: log}
}

func (n *CompletionNotifier) OnboardingCompleted(userID string) {
	// message id 和时间戳由 producer 统一补齐
	msg := model.OnboardingCompletedMessage{
		UserID: userID,
	}

	if err := queue.PublishOnboardingCompleted(msg); err != nil {
		// 事件发不出去不影响向导本身，订阅方兜底轮询完成标记
		n.logger.Error("Failed to publish onboarding completed event",
			zap.String("user_id", userID),
			zap.Error(err),
		)
	}

	if m := metrics.GetMetrics(); m != nil {
		m.RecordOnboardingCompleted(context.Background())
	}
}
