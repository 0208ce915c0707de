package model

// OnboardingCompletedMessage 引导完成事件。
// 对订阅方来说是个纯信号，字段只用于幂等检查和排查。
type OnboardingCompletedMessage struct {
	MessageID   string `json:"message_id"` // 消息唯一ID，用于幂等性检查
	UserID      string `json:"user_id"`
	CompletedAt string `json:"completed_at"`
}
