package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"SpendWise/internal/model"
	pkgerrors "SpendWise/pkg/errors"
	"SpendWise/storage/redis"
)

// 本地键值存储的三个关口：偏好全量备份、币种设置、完成标记。
// 备份是兜底数据，不设过期；标记只在保存成功后写入，读方按"最终会有"处理。

const (
	onboardingBackupPrefix   = "onboarding:backup"
	onboardingCompletePrefix = "onboarding:complete"
	userCurrencyPrefix       = "user:currency"

	currencyTTL = 30 * 24 * time.Hour
)

// OnboardingCache 引导相关的本地键值操作
type OnboardingCache struct{}

func NewOnboardingCache() *OnboardingCache {
	return &OnboardingCache{}
}

// SaveBackup 写偏好记录的本地备份副本
func (c *OnboardingCache) SaveBackup(ctx context.Context, userID string, pref *model.OnboardingPreference) error {
	payload, err := json.Marshal(pref)
	if err != nil {
		return fmt.Errorf("%w: marshal: %v", pkgerrors.ErrLocalBackup, err)
	}

	key := redis.Key(onboardingBackupPrefix, userID)
	if err := redis.Client().Set(ctx, key, payload, 0).Err(); err != nil {
		return fmt.Errorf("%w: %v", pkgerrors.ErrLocalBackup, err)
	}
	return nil
}

// GetBackup 读本地备份，没有时返回 nil
func (c *OnboardingCache) GetBackup(ctx context.Context, userID string) (*model.OnboardingPreference, error) {
	key := redis.Key(onboardingBackupPrefix, userID)

	raw, err := redis.Client().Get(ctx, key).Bytes()
	if err == goredis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read onboarding backup: %w", err)
	}

	var pref model.OnboardingPreference
	if err := json.Unmarshal(raw, &pref); err != nil {
		return nil, fmt.Errorf("failed to unmarshal onboarding backup: %w", err)
	}
	return &pref, nil
}

// SetCurrencyPreference 保存成功后同步币种设置
func (c *OnboardingCache) SetCurrencyPreference(ctx context.Context, userID, currency string) error {
	key := redis.Key(userCurrencyPrefix, userID)
	if err := redis.Client().Set(ctx, key, currency, currencyTTL).Err(); err != nil {
		return fmt.Errorf("failed to set currency preference: %w", err)
	}
	return nil
}

// GetCurrencyPreference 读币种设置，未写入时返回空串
func (c *OnboardingCache) GetCurrencyPreference(ctx context.Context, userID string) (string, error) {
	key := redis.Key(userCurrencyPrefix, userID)

	currency, err := redis.Client().Get(ctx, key).Result()
	if err == goredis.Nil {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get currency preference: %w", err)
	}
	return currency, nil
}

// MarkOnboardingComplete 设置完成标记
func (c *OnboardingCache) MarkOnboardingComplete(ctx context.Context, userID string) error {
	key := redis.Key(onboardingCompletePrefix, userID)
	if err := redis.Client().Set(ctx, key, "1", 0).Err(); err != nil {
		return fmt.Errorf("failed to mark onboarding complete: %w", err)
	}
	return nil
}

// IsOnboardingComplete 查完成标记
func (c *OnboardingCache) IsOnboardingComplete(ctx context.Context, userID string) (bool, error) {
	key := redis.Key(onboardingCompletePrefix, userID)

	result, err := redis.Client().Exists(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check onboarding complete flag: %w", err)
	}
	return result > 0, nil
}
