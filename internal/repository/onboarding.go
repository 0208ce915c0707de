package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"SpendWise/internal/model"
	pkgerrors "SpendWise/pkg/errors"
)

// pgUndefinedColumn PostgreSQL SQLSTATE 42703，
// 远端 schema 还没迁移出新列时 upsert 会带着它失败
const pgUndefinedColumn = "42703"

// OnboardingRepository user_onboarding 表的读写。
// 每个用户至多一行，靠 user_id 的唯一索引保证。
type OnboardingRepository struct {
	db     *gorm.DB
	logger *zap.Logger

	probeOnce sync.Once
	hasTheme  bool
}

func NewOnboardingRepository(db *gorm.DB, logger *zap.Logger) *OnboardingRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OnboardingRepository{db: db, logger: logger}
}

// FindIDByUserID 查该用户已有的记录 ID，最多一行。
// 传输层错误包一层 ErrRecordLookup，上层按"没有已存在记录"兜底。
func (r *OnboardingRepository) FindIDByUserID(ctx context.Context, userID string) (int64, bool, error) {
	var row struct{ ID int64 }

	err := r.db.WithContext(ctx).
		Model(&model.OnboardingPreference{}).
		Select("id").
		Where("user_id = ?", userID).
		Limit(1).
		Take(&row).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("%w: %v", pkgerrors.ErrRecordLookup, err)
	}

	return row.ID, true, nil
}

// Upsert 按 user_id 插入或整行替换。缺列失败映射成 ErrSchemaMismatch。
func (r *OnboardingRepository) Upsert(ctx context.Context, pref *model.OnboardingPreference) error {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			UpdateAll: true,
		}).
		Create(pref).Error

	if err != nil {
		if isUndefinedColumn(err) {
			return fmt.Errorf("%w: %v", pkgerrors.ErrSchemaMismatch, err)
		}
		return fmt.Errorf("failed to upsert onboarding preference: %w", err)
	}

	return nil
}

// UpsertLegacy 降级写入，payload 不带 theme/referral 两列
func (r *OnboardingRepository) UpsertLegacy(ctx context.Context, row *model.LegacyOnboardingRow) error {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			UpdateAll: true,
		}).
		Create(row).Error

	if err != nil {
		return fmt.Errorf("failed to upsert legacy onboarding row: %w", err)
	}

	return nil
}

// SupportsThemeColumns 每个进程探测一次 information_schema，
// 避免靠解析错误文案判断缺列。探测失败按支持处理，42703 仍然兜底。
func (r *OnboardingRepository) SupportsThemeColumns(ctx context.Context) bool {
	r.probeOnce.Do(func() {
		var count int64
		err := r.db.WithContext(ctx).Raw(
			`SELECT count(*) FROM information_schema.columns
			 WHERE table_name = 'user_onboarding' AND column_name = 'theme_preference'`,
		).Scan(&count).Error

		if err != nil {
			r.logger.Warn("Schema capability probe failed, assuming full schema", zap.Error(err))
			r.hasTheme = true
			return
		}

		r.hasTheme = count > 0
		if !r.hasTheme {
			r.logger.Warn("Remote schema missing theme_preference column, writes will use the legacy payload")
		}
	})

	return r.hasTheme
}

func isUndefinedColumn(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUndefinedColumn
}
