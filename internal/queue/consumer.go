package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"SpendWise/internal/cache"
	"SpendWise/internal/model"
	pkgerrors "SpendWise/pkg/errors"
	"SpendWise/pkg/logger"
	"SpendWise/storage/mq"
)

// StartOnboardingCompletedConsumer 启动引导完成事件消费者。
// 下游动作全是兜底性质：补写完成标记、记指标，处理必须幂等。
func StartOnboardingCompletedConsumer(ctx context.Context) error {
	onboardingCache := cache.NewOnboardingCache()

	handler := func(body []byte) error {
		var msg model.OnboardingCompletedMessage
		if err := json.Unmarshal(body, &msg); err != nil {
			return fmt.Errorf("failed to unmarshal onboarding completed message: %w", err)
		}

		processing, err := cache.TryMarkMessageProcessing(ctx, msg.MessageID, 24*time.Hour)
		if err != nil {
			logger.Logger.Warn("Failed to check message processed status",
				zap.String("message_id", msg.MessageID),
				zap.Error(err),
			)
			// 检查失败时继续处理，动作本身幂等
		} else if !processing {
			return &pkgerrors.SkipMessageError{Reason: fmt.Sprintf("Message %s already processed", msg.MessageID)}
		}

		logger.Logger.Info("Processing onboarding completed event",
			zap.String("message_id", msg.MessageID),
			zap.String("user_id", msg.UserID),
			zap.String("completed_at", msg.CompletedAt),
		)

		// 保存路径已经写过标记，这里补一次，保证消费方视角的最终一致
		if err := onboardingCache.MarkOnboardingComplete(ctx, msg.UserID); err != nil {
			cache.UnmarkMessageProcessing(ctx, msg.MessageID)
			return fmt.Errorf("failed to ensure onboarding complete flag: %w", err)
		}

		if err := cache.MarkMessageProcessed(ctx, msg.MessageID, 48*time.Hour); err != nil {
			logger.Logger.Warn("Failed to mark message as processed",
				zap.String("message_id", msg.MessageID),
				zap.Error(err),
			)
		}

		return nil
	}

	return mq.Consume(mq.ConsumeOptions{
		Queue:         mq.OnboardingCompletedQueue,
		ConsumerTag:   "onboarding_completed_consumer",
		PrefetchCount: 10,
		Handler:       handler,
	})
}

// StartAllConsumers 启动全部消费者，单个退出后带退避重启
func StartAllConsumers(ctx context.Context) {
	go func() {
		for {
			if err := StartOnboardingCompletedConsumer(ctx); err != nil {
				logger.Logger.Error("Onboarding completed consumer exited", zap.Error(err))
			}

			select {
			case <-ctx.Done():
				return
			case <-time.After(5 * time.Second):
			}
		}
	}()

	<-ctx.Done()
}
