package wizard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"SpendWise/internal/model"
	pkgerrors "SpendWise/pkg/errors"
)

func testConfig() Config {
	return Config{
		Ticks:           3,
		TickInterval:    1, // 1ns，测试里阶段瞬间跑完
		SaveTimeout:     0,
		DefaultCurrency: "USD",
	}
}

func TestNewSessionDefaults(t *testing.T) {
	sess := NewSession("u1", testConfig(), nil, nil)

	snap := sess.Snapshot()
	assert.Equal(t, StepWelcome, snap.Step)
	assert.Equal(t, string(model.AppearanceSystem), snap.Appearance)
	assert.Equal(t, "USD", snap.Currency)
	assert.Empty(t, snap.Categories)
	assert.Empty(t, snap.Goals)
	assert.False(t, snap.Processing)
	assert.NotEmpty(t, sess.ID())
}

func TestAdvanceGating(t *testing.T) {
	sess := NewSession("u1", testConfig(), nil, nil)

	// 欢迎和外观没有门控
	moved, _ := sess.Advance()
	require.True(t, moved)
	moved, _ = sess.Advance()
	require.True(t, moved)
	assert.Equal(t, StepDiscovery, sess.Snapshot().Step)

	// 渠道未选，卡住
	moved, _ = sess.Advance()
	assert.False(t, moved)
	assert.Equal(t, StepDiscovery, sess.Snapshot().Step)

	require.NoError(t, sess.SetReferralSource("TikTok"))
	moved, _ = sess.Advance()
	require.True(t, moved)
	assert.Equal(t, StepUsageReason, sess.Snapshot().Step)

	// 后面每一步都一样：不选不让走
	moved, _ = sess.Advance()
	assert.False(t, moved)
	require.NoError(t, sess.SetUsageReason("Stick to a budget"))
	moved, _ = sess.Advance()
	require.True(t, moved)

	moved, _ = sess.Advance()
	assert.False(t, moved)
	require.NoError(t, sess.ToggleGoal("Pay down debt"))
	moved, _ = sess.Advance()
	require.True(t, moved)

	moved, _ = sess.Advance()
	assert.False(t, moved)
	require.NoError(t, sess.SetBudgetRange("Under $1,000/month"))
	moved, _ = sess.Advance()
	require.True(t, moved)

	moved, _ = sess.Advance()
	assert.False(t, moved)
	require.NoError(t, sess.ToggleCategory("Food & Dining"))
	moved, _ = sess.Advance()
	require.True(t, moved)
	assert.Equal(t, StepCurrency, sess.Snapshot().Step)
}

func TestRetreatKeepsSelections(t *testing.T) {
	sess := NewSession("u1", testConfig(), nil, nil)

	// 起点不能再退
	assert.False(t, sess.Retreat())

	sess.Advance()
	sess.Advance()
	require.NoError(t, sess.SetReferralSource("Podcast"))

	assert.True(t, sess.Retreat())
	assert.Equal(t, StepAppearance, sess.Snapshot().Step)
	assert.Equal(t, "Podcast", sess.Snapshot().ReferralSource)
}

func TestSettersRejectUnknownValues(t *testing.T) {
	sess := NewSession("u1", testConfig(), nil, nil)

	assert.ErrorIs(t, sess.SetAppearance("sepia"), pkgerrors.SelectionInvalid)
	assert.ErrorIs(t, sess.SetReferralSource("Carrier pigeon"), pkgerrors.SelectionInvalid)
	assert.ErrorIs(t, sess.SetAgeRange("12-17"), pkgerrors.SelectionInvalid)
	assert.ErrorIs(t, sess.SetUsageReason("Get rich quick"), pkgerrors.SelectionInvalid)
	assert.ErrorIs(t, sess.SetBudgetRange("$1/month"), pkgerrors.SelectionInvalid)
	assert.ErrorIs(t, sess.ToggleCategory("Yachts"), pkgerrors.SelectionInvalid)
	assert.ErrorIs(t, sess.ToggleGoal("World domination"), pkgerrors.SelectionInvalid)
	assert.ErrorIs(t, sess.SetCurrency("usd"), pkgerrors.CurrencyInvalid)
	assert.ErrorIs(t, sess.SetCurrency("DOLLARS"), pkgerrors.CurrencyInvalid)

	// 全部被拒，状态不变
	snap := sess.Snapshot()
	assert.Equal(t, string(model.AppearanceSystem), snap.Appearance)
	assert.Equal(t, "USD", snap.Currency)
	assert.Empty(t, snap.ReferralSource)
}

func TestToggleCategoryCap(t *testing.T) {
	sess := NewSession("u1", testConfig(), nil, nil)

	picks := []string{"Food & Dining", "Groceries", "Transport", "Travel"}
	for _, p := range picks {
		require.NoError(t, sess.ToggleCategory(p))
	}

	// 第 5 个是静默 no-op，不报错
	require.NoError(t, sess.ToggleCategory("Shopping"))
	snap := sess.Snapshot()
	assert.Equal(t, picks, snap.Categories)

	// 取消一个之后能再选
	require.NoError(t, sess.ToggleCategory("Transport"))
	require.NoError(t, sess.ToggleCategory("Shopping"))
	snap = sess.Snapshot()
	assert.Len(t, snap.Categories, 4)
	assert.Contains(t, snap.Categories, "Shopping")
	assert.NotContains(t, snap.Categories, "Transport")
}

func TestToggleGoalRoundTrip(t *testing.T) {
	sess := NewSession("u1", testConfig(), nil, nil)

	require.NoError(t, sess.ToggleGoal("Invest more"))
	require.NoError(t, sess.ToggleGoal("Build an emergency fund"))
	assert.Len(t, sess.Snapshot().Goals, 2)

	require.NoError(t, sess.ToggleGoal("Invest more"))
	snap := sess.Snapshot()
	assert.Equal(t, []string{"Build an emergency fund"}, snap.Goals)
}

func TestProgressFraction(t *testing.T) {
	sess := NewSession("u1", testConfig(), nil, nil)

	assert.Equal(t, 0.0, sess.Snapshot().ProgressFraction())
	sess.Advance()
	assert.InDelta(t, 1.0/float64(TotalSteps-1), sess.Snapshot().ProgressFraction(), 1e-9)
}

func TestSubscribeReceivesChanges(t *testing.T) {
	sess := NewSession("u1", testConfig(), nil, nil)

	ch, cancel := sess.Subscribe()
	defer cancel()

	moved, _ := sess.Advance()
	require.True(t, moved)

	select {
	case snap := <-ch:
		assert.Equal(t, StepAppearance, snap.Step)
	default:
		t.Fatal("expected a snapshot on the subscription channel")
	}
}

func TestCloseStopsSession(t *testing.T) {
	sess := NewSession("u1", testConfig(), nil, nil)

	ch, _ := sess.Subscribe()
	sess.Close()

	_, open := <-ch
	assert.False(t, open)

	moved, _ := sess.Advance()
	assert.False(t, moved)
	assert.False(t, sess.Retreat())
}
