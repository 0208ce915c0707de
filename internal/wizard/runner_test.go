package wizard

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSaver struct {
	mu    sync.Mutex
	calls []Snapshot
	err   error
}

func (f *fakeSaver) Save(ctx context.Context, snap Snapshot, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, snap)
	return f.err
}

func (f *fakeSaver) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

type fakeNotifier struct {
	mu    sync.Mutex
	users []string
}

func (f *fakeNotifier) OnboardingCompleted(userID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users = append(f.users, userID)
}

func (f *fakeNotifier) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.users)
}

// driveToCurrency 把会话推到币种步骤，每一步都填上合法选择
func driveToCurrency(t *testing.T, sess *Session) {
	t.Helper()

	require.NoError(t, sess.SetReferralSource("App Store search"))
	require.NoError(t, sess.SetUsageReason("Track my spending and expenses"))
	require.NoError(t, sess.ToggleGoal("Build an emergency fund"))
	require.NoError(t, sess.SetBudgetRange("$1,000 - $2,500/month"))
	require.NoError(t, sess.ToggleCategory("Groceries"))

	for sess.Snapshot().Step != StepCurrency {
		moved, _ := sess.Advance()
		require.True(t, moved, "stuck at step %s", sess.Snapshot().Step)
	}
}

func TestPersonalizationRunsToCompletion(t *testing.T) {
	saver := &fakeSaver{}
	notifier := &fakeNotifier{}
	cfg := Config{Ticks: 5, TickInterval: time.Millisecond, SaveTimeout: time.Second, DefaultCurrency: "USD"}

	sess := NewSession("u1", cfg, saver, notifier)
	driveToCurrency(t, sess)

	moved, began := sess.Advance()
	require.True(t, moved)
	require.True(t, began)
	assert.Equal(t, StepPersonalization, sess.Snapshot().Step)
	assert.True(t, sess.Snapshot().Processing)

	require.Eventually(t, func() bool {
		return sess.Snapshot().Step == StepCompletion
	}, 2*time.Second, time.Millisecond)

	snap := sess.Snapshot()
	assert.False(t, snap.Processing)
	assert.False(t, snap.HasError)
	assert.Equal(t, 1.0, snap.PhaseProgress)

	require.Equal(t, 1, saver.callCount())
	saver.mu.Lock()
	saved := saver.calls[0]
	saver.mu.Unlock()
	assert.Equal(t, "u1", saved.UserID)
	assert.Equal(t, []string{"Groceries"}, saved.Categories)

	require.Eventually(t, func() bool { return notifier.count() == 1 }, time.Second, time.Millisecond)
	notifier.mu.Lock()
	assert.Equal(t, []string{"u1"}, notifier.users)
	notifier.mu.Unlock()
}

func TestAdvanceDuringProcessingIsNoOp(t *testing.T) {
	saver := &fakeSaver{}
	cfg := Config{Ticks: 50, TickInterval: 10 * time.Millisecond, DefaultCurrency: "USD"}

	sess := NewSession("u1", cfg, saver, nil)
	driveToCurrency(t, sess)

	_, began := sess.Advance()
	require.True(t, began)

	// 阶段运行中前进后退都不动
	moved, beganAgain := sess.Advance()
	assert.False(t, moved)
	assert.False(t, beganAgain)
	assert.False(t, sess.Retreat())
	assert.Equal(t, StepPersonalization, sess.Snapshot().Step)

	sess.Close()
}

func TestSaveFailureSurfacesErrorButCompletes(t *testing.T) {
	saver := &fakeSaver{err: errors.New("connection refused")}
	notifier := &fakeNotifier{}
	cfg := Config{Ticks: 3, TickInterval: time.Millisecond, DefaultCurrency: "USD"}

	sess := NewSession("u1", cfg, saver, notifier)
	driveToCurrency(t, sess)
	sess.Advance()

	require.Eventually(t, func() bool {
		return sess.Snapshot().Step == StepCompletion
	}, 2*time.Second, time.Millisecond)

	snap := sess.Snapshot()
	assert.True(t, snap.HasError)
	assert.Equal(t, "connection refused", snap.ErrorMessage)

	// 保存失败照样算完成，事件也照发
	require.Eventually(t, func() bool { return notifier.count() == 1 }, time.Second, time.Millisecond)
}

func TestCloseCancelsPersistence(t *testing.T) {
	saver := &fakeSaver{}
	notifier := &fakeNotifier{}
	cfg := Config{Ticks: 100, TickInterval: 10 * time.Millisecond, DefaultCurrency: "USD"}

	sess := NewSession("u1", cfg, saver, notifier)
	driveToCurrency(t, sess)

	_, began := sess.Advance()
	require.True(t, began)

	sess.Close()

	// 给取消一点传播时间，阶段应该在 tick 边界停掉
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 0, saver.callCount())
	assert.Equal(t, 0, notifier.count())
	assert.NotEqual(t, StepCompletion, sess.Snapshot().Step)
}

func TestPhaseProgressMonotonic(t *testing.T) {
	saver := &fakeSaver{}
	cfg := Config{Ticks: 10, TickInterval: time.Millisecond, DefaultCurrency: "USD"}

	sess := NewSession("u1", cfg, saver, nil)
	driveToCurrency(t, sess)

	// 进阶段前才订阅，缓冲装得下整个阶段的快照
	ch, cancel := sess.Subscribe()
	defer cancel()
	sess.Advance()

	require.Eventually(t, func() bool {
		return sess.Snapshot().Step == StepCompletion
	}, 2*time.Second, time.Millisecond)

	last := -1.0
	sawFull := false
	for {
		select {
		case snap := <-ch:
			if snap.Step == StepPersonalization || snap.Step == StepCompletion {
				assert.GreaterOrEqual(t, snap.PhaseProgress, last)
				last = snap.PhaseProgress
				if snap.PhaseProgress == 1.0 {
					sawFull = true
				}
			}
		default:
			assert.True(t, sawFull, "never observed full phase progress")
			return
		}
	}
}

func TestCompletionNotifiedExactlyOnce(t *testing.T) {
	saver := &fakeSaver{}
	notifier := &fakeNotifier{}
	cfg := Config{Ticks: 2, TickInterval: time.Millisecond, DefaultCurrency: "USD"}

	sess := NewSession("u1", cfg, saver, notifier)
	driveToCurrency(t, sess)
	sess.Advance()

	require.Eventually(t, func() bool {
		return notifier.count() == 1
	}, 2*time.Second, time.Millisecond)

	// 终点之后再推几次，不会重复发事件
	for i := 0; i < 3; i++ {
		moved, _ := sess.Advance()
		assert.False(t, moved)
	}
	assert.Equal(t, 1, notifier.count())
}
