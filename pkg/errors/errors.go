package errors

import "errors"

func (d Definition) Error() string {
	return d.Message
}

// Definition 表示业务错误码及默认信息。
type Definition struct {
	Code    string
	Message string
}

// 认证相关错误。
var (
	Unauthorized     = Definition{Code: "UNAUTHORIZED", Message: "Unauthorized"}
	NotAuthenticated = Definition{Code: "NOT_AUTHENTICATED", Message: "No authenticated identity available"}
	InvalidUserID    = Definition{Code: "INVALID_USER_ID", Message: "Invalid user ID format"}
)

// 引导向导错误。
var (
	OnboardingStepBlocked   = Definition{Code: "ONBOARDING_STEP_BLOCKED", Message: "Current step is not complete"}
	OnboardingStepInvalid   = Definition{Code: "ONBOARDING_STEP_INVALID", Message: "Onboarding step invalid"}
	OnboardingInProgress    = Definition{Code: "ONBOARDING_IN_PROGRESS", Message: "Personalization already running"}
	SessionNotFound         = Definition{Code: "ONBOARDING_SESSION_NOT_FOUND", Message: "Onboarding session not found"}
	SelectionInvalid        = Definition{Code: "SELECTION_INVALID", Message: "Selection is not in the catalog"}
	CurrencyInvalid         = Definition{Code: "CURRENCY_INVALID", Message: "Currency code invalid"}
	PreferenceSaveFailed    = Definition{Code: "PREFERENCE_SAVE_FAILED", Message: "Failed to save onboarding preferences"}
	RateLimited             = Definition{Code: "RATE_LIMITED", Message: "Too many requests"}
	TokenGeneratorNotInit   = Definition{Code: "TOKEN_GENERATOR_NOT_INITIALIZED", Message: "Token generator not initialized"}
	InternalServerError     = Definition{Code: "INTERNAL_SERVER_ERROR", Message: "Internal server error"}
)

// 以下错误只在引擎内部流转，不会出现在 API 响应中：
// 查询失败按"没有已存在记录"处理，schema 落后走降级重试，本地备份失败直接吞掉。
var (
	ErrRecordLookup   = errors.New("onboarding: existing record lookup failed")
	ErrSchemaMismatch = errors.New("onboarding: remote schema missing newer columns")
	ErrLocalBackup    = errors.New("onboarding: local backup write failed")
)

// Lookup 提供错误码查询能力。
var Lookup = map[string]Definition{
	Unauthorized.Code:          Unauthorized,
	NotAuthenticated.Code:      NotAuthenticated,
	InvalidUserID.Code:         InvalidUserID,
	OnboardingStepBlocked.Code: OnboardingStepBlocked,
	OnboardingStepInvalid.Code: OnboardingStepInvalid,
	OnboardingInProgress.Code:  OnboardingInProgress,
	SessionNotFound.Code:       SessionNotFound,
	SelectionInvalid.Code:      SelectionInvalid,
	CurrencyInvalid.Code:       CurrencyInvalid,
	PreferenceSaveFailed.Code:  PreferenceSaveFailed,
	RateLimited.Code:           RateLimited,
	TokenGeneratorNotInit.Code: TokenGeneratorNotInit,
	InternalServerError.Code:   InternalServerError,
}
