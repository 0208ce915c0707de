package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// Appearance 外观主题枚举
type Appearance string

const (
	AppearanceSystem Appearance = "system" // 跟随系统
	AppearanceLight  Appearance = "light"
	AppearanceDark   Appearance = "dark"
)

// 固定的选项目录，编译期确定，输入必须落在目录内
var (
	AgeRanges = []string{
		"18-24", "25-34", "35-44", "45-54", "55-64", "65+",
	}

	UsageReasons = []string{
		"Track my spending and expenses",
		"Stick to a budget",
		"Save for a goal",
		"Understand where my money goes",
		"Manage money with my partner / family",
	}

	SpendingGoals = []string{
		"Spend less on non-essentials",
		"Build an emergency fund",
		"Pay down debt",
		"Save for something big",
		"Invest more",
		"Stop living paycheck to paycheck",
	}

	BudgetRanges = []string{
		"Under $1,000/month",
		"$1,000 - $2,500/month",
		"$2,500 - $5,000/month",
		"$5,000 - $10,000/month",
		"Over $10,000/month",
	}

	ExpenseCategories = []string{
		"Food & Dining",
		"Groceries",
		"Transport",
		"Housing & Rent",
		"Shopping",
		"Entertainment",
		"Travel",
		"Health & Fitness",
		"Subscriptions",
		"Utilities & Bills",
	}

	ReferralSources = []string{
		"App Store search",
		"Friend / Word of Mouth",
		"Instagram",
		"TikTok",
		"YouTube",
		"Podcast",
		"Web search",
		"Other",
	}
)

// MaxPrimaryCategories 消费类目多选上限，超出后追加是 no-op
const MaxPrimaryCategories = 4

func contains(catalog []string, v string) bool {
	for _, item := range catalog {
		if item == v {
			return true
		}
	}
	return false
}

func IsValidAgeRange(v string) bool        { return contains(AgeRanges, v) }
func IsValidUsageReason(v string) bool     { return contains(UsageReasons, v) }
func IsValidSpendingGoal(v string) bool    { return contains(SpendingGoals, v) }
func IsValidBudgetRange(v string) bool     { return contains(BudgetRanges, v) }
func IsValidExpenseCategory(v string) bool { return contains(ExpenseCategories, v) }
func IsValidReferralSource(v string) bool  { return contains(ReferralSources, v) }

func IsValidAppearance(v string) bool {
	switch Appearance(v) {
	case AppearanceSystem, AppearanceLight, AppearanceDark:
		return true
	default:
		return false
	}
}

// IsValidCurrency 币种用 ISO 4217 风格的三位大写字母码
func IsValidCurrency(v string) bool {
	if len(v) != 3 {
		return false
	}
	for _, r := range v {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}

// StringList 字符串数组（JSONB）
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (l *StringList) Scan(value interface{}) error {
	if value == nil {
		*l = nil
		return nil
	}

	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return errors.New("failed to unmarshal StringList value")
	}
}

// OnboardingPreference 引导完成后落库的偏好记录，每个用户至多一行
type OnboardingPreference struct {
	ID                 int64      `gorm:"primaryKey;column:id" json:"id"`
	UserID             string     `gorm:"column:user_id;type:varchar(64);uniqueIndex;not null" json:"user_id"`
	AgeRange           *string    `gorm:"column:age_range;type:varchar(16)" json:"age_range,omitempty"`
	AppUsageReason     *string    `gorm:"column:app_usage_reason;type:varchar(128)" json:"app_usage_reason,omitempty"`
	SpendingGoals      StringList `gorm:"column:spending_goals;type:jsonb;default:'[]'" json:"spending_goals"`
	MonthlyBudgetRange *string    `gorm:"column:monthly_budget_range;type:varchar(64)" json:"monthly_budget_range,omitempty"`
	PrimaryCategories  StringList `gorm:"column:primary_categories;type:jsonb;default:'[]'" json:"primary_categories"`
	CurrencyPreference string     `gorm:"column:currency_preference;type:varchar(8);not null" json:"currency_preference"`
	ThemePreference    string     `gorm:"column:theme_preference;type:varchar(16);not null;default:'system'" json:"theme_preference"`
	ReferralSource     *string    `gorm:"column:referral_source;type:varchar(64)" json:"referral_source,omitempty"`
	CompletedAt        time.Time  `gorm:"column:completed_at;not null" json:"completed_at"`
	CreatedAt          time.Time  `gorm:"column:created_at;not null;default:now()" json:"created_at"`
}

// TableName 指定表名
func (OnboardingPreference) TableName() string {
	return "user_onboarding"
}

// LegacyOnboardingRow 兼容未迁移 schema 的降级行，
// 比完整记录少 theme_preference 和 referral_source 两列
type LegacyOnboardingRow struct {
	ID                 int64      `gorm:"primaryKey;column:id" json:"id"`
	UserID             string     `gorm:"column:user_id;type:varchar(64);uniqueIndex;not null" json:"user_id"`
	AgeRange           *string    `gorm:"column:age_range;type:varchar(16)" json:"age_range,omitempty"`
	AppUsageReason     *string    `gorm:"column:app_usage_reason;type:varchar(128)" json:"app_usage_reason,omitempty"`
	SpendingGoals      StringList `gorm:"column:spending_goals;type:jsonb;default:'[]'" json:"spending_goals"`
	MonthlyBudgetRange *string    `gorm:"column:monthly_budget_range;type:varchar(64)" json:"monthly_budget_range,omitempty"`
	PrimaryCategories  StringList `gorm:"column:primary_categories;type:jsonb;default:'[]'" json:"primary_categories"`
	CurrencyPreference string     `gorm:"column:currency_preference;type:varchar(8);not null" json:"currency_preference"`
	CompletedAt        time.Time  `gorm:"column:completed_at;not null" json:"completed_at"`
	CreatedAt          time.Time  `gorm:"column:created_at;not null;default:now()" json:"created_at"`
}

func (LegacyOnboardingRow) TableName() string {
	return "user_onboarding"
}

// ToLegacy 去掉新增可选列，其余字段原样保留
func (p *OnboardingPreference) ToLegacy() *LegacyOnboardingRow {
	return &LegacyOnboardingRow{
		ID:                 p.ID,
		UserID:             p.UserID,
		AgeRange:           p.AgeRange,
		AppUsageReason:     p.AppUsageReason,
		SpendingGoals:      p.SpendingGoals,
		MonthlyBudgetRange: p.MonthlyBudgetRange,
		PrimaryCategories:  p.PrimaryCategories,
		CurrencyPreference: p.CurrencyPreference,
		CompletedAt:        p.CompletedAt,
		CreatedAt:          p.CreatedAt,
	}
}
