package queue

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"SpendWise/internal/model"
	"SpendWise/pkg/logger"
	"SpendWise/pkg/snowflake"
	"SpendWise/storage/mq"
)

// PublishOnboardingCompleted 发布引导完成事件
func PublishOnboardingCompleted(msg model.OnboardingCompletedMessage) error {
	if msg.MessageID == "" {
		id, err := snowflake.NextID()
		if err != nil {
			logger.Logger.Error("Failed to generate message ID",
				zap.String("user_id", msg.UserID),
				zap.Error(err),
			)
			return fmt.Errorf("failed to generate message ID: %w", err)
		}
		msg.MessageID = fmt.Sprintf("ob_completed_%d", id)
	}

	if msg.CompletedAt == "" {
		msg.CompletedAt = time.Now().Format(time.RFC3339)
	}

	err := mq.PublishMessage(
		mq.EventsExchange,
		mq.OnboardingCompletedRoutingKey,
		msg,
	)

	if err != nil {
		logger.Logger.Error("Failed to publish onboarding completed event",
			zap.String("message_id", msg.MessageID),
			zap.String("user_id", msg.UserID),
			zap.Error(err),
		)
		return err
	}

	logger.Logger.Info("Published onboarding completed event",
		zap.String("message_id", msg.MessageID),
		zap.String("user_id", msg.UserID),
	)

	return nil
}
