package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"SpendWise/internal/model"
	"SpendWise/internal/wizard"
	pkgerrors "SpendWise/pkg/errors"
)

type fakeStore struct {
	rows       map[string]*model.OnboardingPreference
	legacyRows map[string]*model.LegacyOnboardingRow

	lookupErr    error
	upsertErr    error
	legacyErr    error
	themeColumns bool

	upsertCalls       int
	legacyUpsertCalls int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		rows:         make(map[string]*model.OnboardingPreference),
		legacyRows:   make(map[string]*model.LegacyOnboardingRow),
		themeColumns: true,
	}
}

func (f *fakeStore) FindIDByUserID(ctx context.Context, userID string) (int64, bool, error) {
	if f.lookupErr != nil {
		return 0, false, f.lookupErr
	}
	if row, ok := f.rows[userID]; ok {
		return row.ID, true, nil
	}
	return 0, false, nil
}

func (f *fakeStore) Upsert(ctx context.Context, pref *model.OnboardingPreference) error {
	f.upsertCalls++
	if f.upsertErr != nil {
		return f.upsertErr
	}
	f.rows[pref.UserID] = pref
	return nil
}

func (f *fakeStore) UpsertLegacy(ctx context.Context, row *model.LegacyOnboardingRow) error {
	f.legacyUpsertCalls++
	if f.legacyErr != nil {
		return f.legacyErr
	}
	f.legacyRows[row.UserID] = row
	return nil
}

func (f *fakeStore) SupportsThemeColumns(ctx context.Context) bool {
	return f.themeColumns
}

type fakeLocal struct {
	backups    map[string]*model.OnboardingPreference
	currencies map[string]string
	completed  map[string]bool

	backupErr error
}

func newFakeLocal() *fakeLocal {
	return &fakeLocal{
		backups:    make(map[string]*model.OnboardingPreference),
		currencies: make(map[string]string),
		completed:  make(map[string]bool),
	}
}

func (f *fakeLocal) SaveBackup(ctx context.Context, userID string, pref *model.OnboardingPreference) error {
	if f.backupErr != nil {
		return f.backupErr
	}
	f.backups[userID] = pref
	return nil
}

func (f *fakeLocal) SetCurrencyPreference(ctx context.Context, userID, currency string) error {
	f.currencies[userID] = currency
	return nil
}

func (f *fakeLocal) MarkOnboardingComplete(ctx context.Context, userID string) error {
	f.completed[userID] = true
	return nil
}

func newTestService(store PreferenceStore, local PreferenceLocalStore) *OnboardingService {
	svc := NewOnboardingService(store, local, nil)

	var next int64
	svc.newID = func() (int64, error) {
		next++
		return next, nil
	}
	svc.now = func() time.Time {
		return time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	}
	return svc
}

func sampleSnapshot() wizard.Snapshot {
	return wizard.Snapshot{
		UserID:         "u1",
		Step:           wizard.StepPersonalization,
		Appearance:     "dark",
		ReferralSource: "Instagram",
		AgeRange:       "25-34",
		UsageReason:    "Stick to a budget",
		BudgetRange:    "$2,500 - $5,000/month",
		Currency:       "EUR",
		Categories:     []string{"Groceries", "Transport"},
		Goals:          []string{"Pay down debt"},
	}
}

func TestSaveInsertsNewRecord(t *testing.T) {
	store := newFakeStore()
	local := newFakeLocal()
	svc := newTestService(store, local)

	require.NoError(t, svc.Save(context.Background(), sampleSnapshot(), "u1"))

	row := store.rows["u1"]
	require.NotNil(t, row)
	assert.Equal(t, int64(1), row.ID)
	assert.Equal(t, "EUR", row.CurrencyPreference)
	assert.Equal(t, "dark", row.ThemePreference)
	require.NotNil(t, row.ReferralSource)
	assert.Equal(t, "Instagram", *row.ReferralSource)
	assert.Equal(t, model.StringList{"Groceries", "Transport"}, row.PrimaryCategories)

	// 本地副本和设置也同步落了
	assert.NotNil(t, local.backups["u1"])
	assert.Equal(t, "EUR", local.currencies["u1"])
	assert.True(t, local.completed["u1"])
}

func TestSaveReusesExistingRecordID(t *testing.T) {
	store := newFakeStore()
	local := newFakeLocal()
	svc := newTestService(store, local)

	require.NoError(t, svc.Save(context.Background(), sampleSnapshot(), "u1"))
	firstID := store.rows["u1"].ID

	// 第二次保存复用已有记录，不新建一行
	snap := sampleSnapshot()
	snap.Currency = "GBP"
	require.NoError(t, svc.Save(context.Background(), snap, "u1"))

	assert.Len(t, store.rows, 1)
	assert.Equal(t, firstID, store.rows["u1"].ID)
	assert.Equal(t, "GBP", store.rows["u1"].CurrencyPreference)
}

func TestSaveWithoutIdentityFailsFast(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store, newFakeLocal())

	err := svc.Save(context.Background(), sampleSnapshot(), "")
	assert.ErrorIs(t, err, pkgerrors.NotAuthenticated)
	assert.Zero(t, store.upsertCalls)
}

func TestSaveLookupFailureFallsBackToInsert(t *testing.T) {
	store := newFakeStore()
	store.rows["u1"] = &model.OnboardingPreference{ID: 42, UserID: "u1"}
	store.lookupErr = fmt.Errorf("%w: connection reset", pkgerrors.ErrRecordLookup)

	svc := newTestService(store, newFakeLocal())

	// 查询挂了按插入语义继续，分配新 ID 而不是中断保存
	require.NoError(t, svc.Save(context.Background(), sampleSnapshot(), "u1"))
	assert.Equal(t, int64(1), store.rows["u1"].ID)
}

func TestSaveSchemaMismatchRetriesWithLegacyRow(t *testing.T) {
	store := newFakeStore()
	store.upsertErr = fmt.Errorf("%w: column theme_preference", pkgerrors.ErrSchemaMismatch)

	svc := newTestService(store, newFakeLocal())
	require.NoError(t, svc.Save(context.Background(), sampleSnapshot(), "u1"))

	assert.Equal(t, 1, store.upsertCalls)
	assert.Equal(t, 1, store.legacyUpsertCalls)

	row := store.legacyRows["u1"]
	require.NotNil(t, row)
	assert.Equal(t, "EUR", row.CurrencyPreference)
	require.NotNil(t, row.AgeRange)
	assert.Equal(t, "25-34", *row.AgeRange)
}

func TestSaveSkipsFullPayloadWhenProbeSaysLegacy(t *testing.T) {
	store := newFakeStore()
	store.themeColumns = false

	svc := newTestService(store, newFakeLocal())
	require.NoError(t, svc.Save(context.Background(), sampleSnapshot(), "u1"))

	// 探测说没有新列，直接走降级 payload，连第一次尝试都省掉
	assert.Zero(t, store.upsertCalls)
	assert.Equal(t, 1, store.legacyUpsertCalls)
}

func TestSaveOtherUpsertErrorsDoNotRetry(t *testing.T) {
	store := newFakeStore()
	store.upsertErr = errors.New("deadlock detected")

	svc := newTestService(store, newFakeLocal())
	err := svc.Save(context.Background(), sampleSnapshot(), "u1")

	assert.ErrorIs(t, err, pkgerrors.PreferenceSaveFailed)
	assert.Equal(t, 1, store.upsertCalls)
	assert.Zero(t, store.legacyUpsertCalls)
}

func TestSaveLegacyFallbackFailureReported(t *testing.T) {
	store := newFakeStore()
	store.upsertErr = fmt.Errorf("%w: column referral_source", pkgerrors.ErrSchemaMismatch)
	store.legacyErr = errors.New("disk full")

	svc := newTestService(store, newFakeLocal())
	err := svc.Save(context.Background(), sampleSnapshot(), "u1")

	assert.ErrorIs(t, err, pkgerrors.PreferenceSaveFailed)
}

func TestSaveSwallowsLocalBackupFailure(t *testing.T) {
	store := newFakeStore()
	local := newFakeLocal()
	local.backupErr = errors.New("redis down")

	svc := newTestService(store, local)

	// 本地备份失败不影响保存结果
	require.NoError(t, svc.Save(context.Background(), sampleSnapshot(), "u1"))
	assert.NotNil(t, store.rows["u1"])
}

func TestFindExistingRecordID(t *testing.T) {
	store := newFakeStore()
	store.rows["u1"] = &model.OnboardingPreference{ID: 7, UserID: "u1"}

	svc := newTestService(store, newFakeLocal())

	id, found, err := svc.FindExistingRecordID(context.Background(), "u1")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, int64(7), id)

	_, found, err = svc.FindExistingRecordID(context.Background(), "stranger")
	require.NoError(t, err)
	assert.False(t, found)

	_, _, err = svc.FindExistingRecordID(context.Background(), "")
	assert.ErrorIs(t, err, pkgerrors.NotAuthenticated)
}
