package wizard

import (
	"context"
	"time"
)

// 个性化阶段：定时 tick 推进进度，最后一个 tick 之后做真正的持久化。
// 持久化失败不拦截到达终点步骤，只把失败写到错误面板。

// beginPersonalizationLocked 启动阶段运行，调用方持有 s.mu。
// processing 标志保证单个会话至多一个并发运行。
func (s *Session) beginPersonalizationLocked() bool {
	if s.processing || s.closed {
		return false
	}

	s.processing = true
	s.phaseProgress = 0
	s.hasError = false
	s.errorMessage = ""

	ctx, cancel := context.WithCancel(context.Background())
	s.phaseCancel = cancel

	go s.runPersonalization(ctx)
	return true
}

func (s *Session) runPersonalization(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.TickInterval)
	defer ticker.Stop()

	for tick := 1; tick <= s.cfg.Ticks; tick++ {
		select {
		case <-ctx.Done():
			// 会话被拆除，停止发进度，也不再碰持久化
			return
		case <-ticker.C:
			s.setPhaseProgress(float64(tick) / float64(s.cfg.Ticks))
		}
	}

	if ctx.Err() != nil {
		return
	}

	var err error
	if s.saver != nil {
		saveCtx := ctx
		if s.cfg.SaveTimeout > 0 {
			var cancel context.CancelFunc
			saveCtx, cancel = context.WithTimeout(ctx, s.cfg.SaveTimeout)
			defer cancel()
		}
		err = s.saver.Save(saveCtx, s.Snapshot(), s.userID)
	}

	s.finishPersonalization(ctx, err)
}

// setPhaseProgress 进度只增不减，阶段开始时已清零
func (s *Session) setPhaseProgress(p float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || p <= s.phaseProgress {
		return
	}
	s.phaseProgress = p
	s.publishLocked()
}

// finishPersonalization 无条件落到终点步骤并清掉处理标志，
// 保存失败先写错误面板再跳转
func (s *Session) finishPersonalization(ctx context.Context, saveErr error) {
	s.mu.Lock()
	if s.closed || ctx.Err() != nil {
		s.mu.Unlock()
		return
	}

	if saveErr != nil {
		s.hasError = true
		s.errorMessage = saveErr.Error()
	}

	s.step = StepCompletion
	s.processing = false
	s.phaseCancel = nil

	notify := !s.notified
	s.notified = true
	s.publishLocked()
	s.mu.Unlock()

	if notify && s.notifier != nil {
		s.notifier.OnboardingCompleted(s.userID)
	}
}
