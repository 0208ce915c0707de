package handler

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"

	"SpendWise/internal/middleware"
	"SpendWise/internal/model/dto"
	"SpendWise/internal/service"
	"SpendWise/internal/wizard"
	"SpendWise/pkg/errors"
	"SpendWise/pkg/metrics"
	"SpendWise/pkg/response"
)

// sessionFor 获取会话，新建时记一次活跃会话
func sessionFor(ctx context.Context, userID string) *wizard.Session {
	sess, created := service.Wizard().GetOrCreate(userID)
	if created {
		if m := metrics.GetMetrics(); m != nil {
			m.AddActiveSession(ctx)
		}
	}
	return sess
}

func snapshotToState(snap wizard.Snapshot) dto.OnboardingStateData {
	return dto.OnboardingStateData{
		Step:             int(snap.Step),
		StepName:         snap.Step.String(),
		Title:            snap.Step.Title(),
		Subtitle:         snap.Step.Subtitle(),
		Phase:            string(snap.Step.Phase()),
		ProgressFraction: snap.ProgressFraction(),
		Appearance:       snap.Appearance,
		ReferralSource:   snap.ReferralSource,
		AgeRange:         snap.AgeRange,
		UsageReason:      snap.UsageReason,
		BudgetRange:      snap.BudgetRange,
		Currency:         snap.Currency,
		Categories:       snap.Categories,
		Goals:            snap.Goals,
		Processing:       snap.Processing,
		PhaseProgress:    snap.PhaseProgress,
		HasError:         snap.HasError,
		ErrorMessage:     snap.ErrorMessage,
	}
}

// GetOnboardingState 获取当前用户的向导状态，没有会话就建一个
// GET /v1/onboarding/state
func GetOnboardingState(ctx context.Context, c *app.RequestContext) {
	userID, ok := middleware.GetUserID(ctx, c)
	if !ok {
		response.Error(ctx, c, errors.NotAuthenticated)
		return
	}

	sess := sessionFor(ctx, userID)
	response.Success(ctx, c, snapshotToState(sess.Snapshot()))
}

// AdvanceOnboarding 前进一步。门控不过或阶段运行中都返回 moved=false。
// POST /v1/onboarding/advance
func AdvanceOnboarding(ctx context.Context, c *app.RequestContext) {
	userID, ok := middleware.GetUserID(ctx, c)
	if !ok {
		response.Error(ctx, c, errors.NotAuthenticated)
		return
	}

	sess := sessionFor(ctx, userID)
	moved, began := sess.Advance()
	snap := sess.Snapshot()

	if moved {
		if m := metrics.GetMetrics(); m != nil {
			m.RecordStepAdvance(ctx, snap.Step.String())
		}
	}

	response.Success(ctx, c, dto.AdvanceData{
		Moved:                moved,
		Step:                 int(snap.Step),
		StepName:             snap.Step.String(),
		PersonalizationBegan: began,
	})
}

// RetreatOnboarding 后退一步，起点处 moved=false
// POST /v1/onboarding/retreat
func RetreatOnboarding(ctx context.Context, c *app.RequestContext) {
	userID, ok := middleware.GetUserID(ctx, c)
	if !ok {
		response.Error(ctx, c, errors.NotAuthenticated)
		return
	}

	sess := sessionFor(ctx, userID)
	moved := sess.Retreat()
	snap := sess.Snapshot()

	response.Success(ctx, c, dto.AdvanceData{
		Moved:    moved,
		Step:     int(snap.Step),
		StepName: snap.Step.String(),
	})
}

// UpdateSelections 批量更新选择项，未出现的字段不动
// PUT /v1/onboarding/selections
func UpdateSelections(ctx context.Context, c *app.RequestContext) {
	userID, ok := middleware.GetUserID(ctx, c)
	if !ok {
		response.Error(ctx, c, errors.NotAuthenticated)
		return
	}

	var req dto.UpdateSelectionsRequest
	if err := c.Bind(&req); err != nil {
		response.BindError(ctx, c, err)
		return
	}

	sess := sessionFor(ctx, userID)

	setters := []struct {
		value *string
		apply func(string) error
	}{
		{req.Appearance, sess.SetAppearance},
		{req.ReferralSource, sess.SetReferralSource},
		{req.AgeRange, sess.SetAgeRange},
		{req.UsageReason, sess.SetUsageReason},
		{req.BudgetRange, sess.SetBudgetRange},
		{req.Currency, sess.SetCurrency},
	}

	for _, s := range setters {
		if s.value == nil {
			continue
		}
		if err := s.apply(*s.value); err != nil {
			response.ErrorWithDetails(ctx, c, err, map[string]interface{}{"value": *s.value})
			return
		}
	}

	response.Success(ctx, c, snapshotToState(sess.Snapshot()))
}

// ToggleCategory 翻转一个消费类目
// POST /v1/onboarding/categories/toggle
func ToggleCategory(ctx context.Context, c *app.RequestContext) {
	userID, ok := middleware.GetUserID(ctx, c)
	if !ok {
		response.Error(ctx, c, errors.NotAuthenticated)
		return
	}

	var req dto.ToggleRequest
	if err := c.Bind(&req); err != nil {
		response.BindError(ctx, c, err)
		return
	}

	sess := sessionFor(ctx, userID)
	if err := sess.ToggleCategory(req.Value); err != nil {
		response.ErrorWithDetails(ctx, c, err, map[string]interface{}{"value": req.Value})
		return
	}

	response.Success(ctx, c, snapshotToState(sess.Snapshot()))
}

// ToggleGoal 翻转一个储蓄目标
// POST /v1/onboarding/goals/toggle
func ToggleGoal(ctx context.Context, c *app.RequestContext) {
	userID, ok := middleware.GetUserID(ctx, c)
	if !ok {
		response.Error(ctx, c, errors.NotAuthenticated)
		return
	}

	var req dto.ToggleRequest
	if err := c.Bind(&req); err != nil {
		response.BindError(ctx, c, err)
		return
	}

	sess := sessionFor(ctx, userID)
	if err := sess.ToggleGoal(req.Value); err != nil {
		response.ErrorWithDetails(ctx, c, err, map[string]interface{}{"value": req.Value})
		return
	}

	response.Success(ctx, c, snapshotToState(sess.Snapshot()))
}

// DeleteOnboardingSession 拆除当前用户的会话
// DELETE /v1/onboarding/session
func DeleteOnboardingSession(ctx context.Context, c *app.RequestContext) {
	userID, ok := middleware.GetUserID(ctx, c)
	if !ok {
		response.Error(ctx, c, errors.NotAuthenticated)
		return
	}

	if !service.Wizard().Remove(userID) {
		response.Error(ctx, c, errors.SessionNotFound)
		return
	}

	if m := metrics.GetMetrics(); m != nil {
		m.SubtractActiveSession(ctx)
	}

	response.NoContent(ctx, c)
}
