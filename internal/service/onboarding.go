package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"SpendWise/internal/cache"
	"SpendWise/internal/model"
	"SpendWise/internal/repository"
	"SpendWise/internal/wizard"
	pkgerrors "SpendWise/pkg/errors"
	"SpendWise/pkg/logger"
	"SpendWise/pkg/metrics"
	"SpendWise/pkg/snowflake"
	"SpendWise/storage/database"
)

// PreferenceStore 远端偏好记录存储
type PreferenceStore interface {
	FindIDByUserID(ctx context.Context, userID string) (int64, bool, error)
	Upsert(ctx context.Context, pref *model.OnboardingPreference) error
	UpsertLegacy(ctx context.Context, row *model.LegacyOnboardingRow) error
	SupportsThemeColumns(ctx context.Context) bool
}

// PreferenceLocalStore 本地键值存储（备份副本、币种设置、完成标记）
type PreferenceLocalStore interface {
	SaveBackup(ctx context.Context, userID string, pref *model.OnboardingPreference) error
	SetCurrencyPreference(ctx context.Context, userID, currency string) error
	MarkOnboardingComplete(ctx context.Context, userID string) error
}

var (
	onboardingService *OnboardingService
	onboardingOnce    sync.Once
)

// Onboarding 返回接好真实依赖的单例
func Onboarding() *OnboardingService {
	onboardingOnce.Do(func() {
		onboardingService = NewOnboardingService(
			repository.NewOnboardingRepository(database.DB(), logger.Logger),
			cache.NewOnboardingCache(),
			logger.Logger,
		)
	})
	return onboardingService
}

// OnboardingService 持久化协调器：查已有记录、定 upsert 语义、
// 缺列降级重试、本地备份。依赖走构造注入，测试用假实现。
type OnboardingService struct {
	store  PreferenceStore
	local  PreferenceLocalStore
	logger *zap.Logger

	newID func() (int64, error)
	now   func() time.Time
}

func NewOnboardingService(store PreferenceStore, local PreferenceLocalStore, log *zap.Logger) *OnboardingService {
	if log == nil {
		log = zap.NewNop()
	}
	return &OnboardingService{
		store:  store,
		local:  local,
		logger: log,
		newID:  snowflake.NextID,
		now:    time.Now,
	}
}

// FindExistingRecordID 查当前身份已有的记录 ID。
// 没有身份返回 NotAuthenticated，传输失败返回包着 ErrRecordLookup 的错误。
func (s *OnboardingService) FindExistingRecordID(ctx context.Context, userID string) (int64, bool, error) {
	if userID == "" {
		return 0, false, pkgerrors.NotAuthenticated
	}

	return s.store.FindIDByUserID(ctx, userID)
}

// Save 把会话快照落到远端记录。
// 查询失败按插入语义继续；upsert 因缺列失败只重试一次降级 payload；
// 其它失败不重试，映射成 PreferenceSaveFailed 交给错误面板。
func (s *OnboardingService) Save(ctx context.Context, snap wizard.Snapshot, userID string) error {
	if userID == "" {
		return pkgerrors.NotAuthenticated
	}

	start := s.now()

	recordID, found, err := s.store.FindIDByUserID(ctx, userID)
	if err != nil {
		// 宁可多一次插入尝试也不卡住用户，按没有已存在记录处理
		s.logger.Warn("Existing record lookup failed, proceeding with insert semantics",
			zap.String("user_id", userID),
			zap.Error(err),
		)
		found = false
	}

	if !found {
		recordID, err = s.newID()
		if err != nil {
			s.recordSave(ctx, "failed", false, start)
			s.logger.Error("Failed to allocate record ID", zap.String("user_id", userID), zap.Error(err))
			return pkgerrors.PreferenceSaveFailed
		}
	}

	pref := s.buildPreference(snap, userID, recordID)

	fallback := !s.store.SupportsThemeColumns(ctx)
	if !fallback {
		err = s.store.Upsert(ctx, pref)
		if err != nil && errors.Is(err, pkgerrors.ErrSchemaMismatch) {
			fallback = true
		} else if err != nil {
			s.recordSave(ctx, "failed", false, start)
			s.logger.Error("Failed to persist onboarding preferences",
				zap.String("user_id", userID),
				zap.Int64("record_id", recordID),
				zap.Error(err),
			)
			return pkgerrors.PreferenceSaveFailed
		}
	}

	if fallback {
		if err := s.store.UpsertLegacy(ctx, pref.ToLegacy()); err != nil {
			s.recordSave(ctx, "failed", true, start)
			s.logger.Error("Legacy fallback upsert failed",
				zap.String("user_id", userID),
				zap.Int64("record_id", recordID),
				zap.Error(err),
			)
			return pkgerrors.PreferenceSaveFailed
		}
		s.logger.Info("Preferences saved with legacy payload",
			zap.String("user_id", userID),
			zap.Int64("record_id", recordID),
		)
	}

	// 本地备份总是存全量 payload，失败只记日志，不影响保存结果
	if err := s.local.SaveBackup(ctx, userID, pref); err != nil {
		s.logger.Warn("Local backup write failed",
			zap.String("user_id", userID),
			zap.Error(err),
		)
	}

	if err := s.local.SetCurrencyPreference(ctx, userID, snap.Currency); err != nil {
		s.logger.Warn("Failed to persist currency preference",
			zap.String("user_id", userID),
			zap.Error(err),
		)
	}

	if err := s.local.MarkOnboardingComplete(ctx, userID); err != nil {
		s.logger.Warn("Failed to set onboarding complete flag",
			zap.String("user_id", userID),
			zap.Error(err),
		)
	}

	s.recordSave(ctx, "success", fallback, start)
	s.logger.Info("Onboarding preferences saved",
		zap.String("user_id", userID),
		zap.Int64("record_id", recordID),
		zap.Bool("legacy_fallback", fallback),
	)

	return nil
}

func (s *OnboardingService) buildPreference(snap wizard.Snapshot, userID string, recordID int64) *model.OnboardingPreference {
	now := s.now()

	pref := &model.OnboardingPreference{
		ID:                 recordID,
		UserID:             userID,
		SpendingGoals:      model.StringList(snap.Goals),
		PrimaryCategories:  model.StringList(snap.Categories),
		CurrencyPreference: snap.Currency,
		ThemePreference:    snap.Appearance,
		CompletedAt:        now,
		CreatedAt:          now,
	}

	if snap.AgeRange != "" {
		pref.AgeRange = &snap.AgeRange
	}
	if snap.UsageReason != "" {
		pref.AppUsageReason = &snap.UsageReason
	}
	if snap.BudgetRange != "" {
		pref.MonthlyBudgetRange = &snap.BudgetRange
	}
	if snap.ReferralSource != "" {
		pref.ReferralSource = &snap.ReferralSource
	}

	return pref
}

func (s *OnboardingService) recordSave(ctx context.Context, status string, fallback bool, start time.Time) {
	if m := metrics.GetMetrics(); m != nil {
		m.RecordSaveResult(ctx, status, fallback, s.now().Sub(start).Seconds())
	}
}
