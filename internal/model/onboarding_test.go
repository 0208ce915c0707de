package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogValidation(t *testing.T) {
	assert.True(t, IsValidAgeRange("25-34"))
	assert.False(t, IsValidAgeRange("17-20"))

	assert.True(t, IsValidUsageReason("Save for a goal"))
	assert.False(t, IsValidUsageReason("save for a goal")) // 大小写敏感

	assert.True(t, IsValidSpendingGoal("Invest more"))
	assert.False(t, IsValidSpendingGoal(""))

	assert.True(t, IsValidBudgetRange("Over $10,000/month"))
	assert.False(t, IsValidBudgetRange("$10000"))

	assert.True(t, IsValidExpenseCategory("Food & Dining"))
	assert.False(t, IsValidExpenseCategory("Food"))

	assert.True(t, IsValidReferralSource("Friend / Word of Mouth"))
	assert.False(t, IsValidReferralSource("Billboard"))
}

func TestAppearanceValidation(t *testing.T) {
	assert.True(t, IsValidAppearance("system"))
	assert.True(t, IsValidAppearance("light"))
	assert.True(t, IsValidAppearance("dark"))
	assert.False(t, IsValidAppearance("auto"))
	assert.False(t, IsValidAppearance(""))
}

func TestCurrencyValidation(t *testing.T) {
	assert.True(t, IsValidCurrency("USD"))
	assert.True(t, IsValidCurrency("JPY"))
	assert.False(t, IsValidCurrency("usd"))
	assert.False(t, IsValidCurrency("US"))
	assert.False(t, IsValidCurrency("USDT"))
	assert.False(t, IsValidCurrency("U$D"))
}

func TestStringListValueAndScan(t *testing.T) {
	l := StringList{"Groceries", "Travel"}

	v, err := l.Value()
	require.NoError(t, err)
	assert.JSONEq(t, `["Groceries","Travel"]`, v.(string))

	var out StringList
	require.NoError(t, out.Scan([]byte(`["a","b"]`)))
	assert.Equal(t, StringList{"a", "b"}, out)

	require.NoError(t, out.Scan(nil))
	assert.Nil(t, out)

	var nilList StringList
	v, err = nilList.Value()
	require.NoError(t, err)
	assert.Equal(t, "[]", v)

	assert.Error(t, out.Scan(42))
}

func TestToLegacyDropsNewerColumns(t *testing.T) {
	src := "Instagram"
	pref := &OnboardingPreference{
		ID:                 9,
		UserID:             "u1",
		CurrencyPreference: "EUR",
		ThemePreference:    "dark",
		ReferralSource:     &src,
		SpendingGoals:      StringList{"Invest more"},
	}

	legacy := pref.ToLegacy()
	assert.Equal(t, int64(9), legacy.ID)
	assert.Equal(t, "u1", legacy.UserID)
	assert.Equal(t, "EUR", legacy.CurrencyPreference)
	assert.Equal(t, StringList{"Invest more"}, legacy.SpendingGoals)
	// 降级行和完整行写同一张表
	assert.Equal(t, pref.TableName(), LegacyOnboardingRow{}.TableName())
}
