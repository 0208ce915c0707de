package errors

import "errors"

// SkipMessageError 消费者用：消息不需要处理（重复投递等），直接 ack 不重试
type SkipMessageError struct {
	Reason string
}

func (e *SkipMessageError) Error() string {
	return "skip message: " + e.Reason
}

func IsSkipMessageError(err error) bool {
	var skip *SkipMessageError
	return errors.As(err, &skip)
}
