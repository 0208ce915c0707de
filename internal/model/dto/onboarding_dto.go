package dto

// OnboardingStateData 向导当前状态的响应数据
type OnboardingStateData struct {
	Step             int      `json:"step"`
	StepName         string   `json:"step_name"`
	Title            string   `json:"title"`
	Subtitle         string   `json:"subtitle,omitempty"`
	Phase            string   `json:"phase"`
	ProgressFraction float64  `json:"progress_fraction"` // 步骤进度，给进度条用
	Appearance       string   `json:"appearance"`
	ReferralSource   string   `json:"referral_source,omitempty"`
	AgeRange         string   `json:"age_range,omitempty"`
	UsageReason      string   `json:"app_usage_reason,omitempty"`
	BudgetRange      string   `json:"monthly_budget_range,omitempty"`
	Currency         string   `json:"currency_preference"`
	Categories       []string `json:"primary_categories"`
	Goals            []string `json:"spending_goals"`
	Processing       bool     `json:"processing"`
	PhaseProgress    float64  `json:"phase_progress"` // 个性化阶段进度 0.0-1.0
	HasError         bool     `json:"has_error"`
	ErrorMessage     string   `json:"error_message,omitempty"`
}

// UpdateSelectionsRequest 部分更新选择项，nil 表示不改
type UpdateSelectionsRequest struct {
	Appearance     *string `json:"appearance,omitempty"`
	ReferralSource *string `json:"referral_source,omitempty"`
	AgeRange       *string `json:"age_range,omitempty"`
	UsageReason    *string `json:"app_usage_reason,omitempty"`
	BudgetRange    *string `json:"monthly_budget_range,omitempty"`
	Currency       *string `json:"currency_preference,omitempty"`
}

// ToggleRequest 多选项的翻转请求（类目 / 目标）
type ToggleRequest struct {
	Value string `json:"value"`
}

// AdvanceData 前进/后退操作的响应数据
type AdvanceData struct {
	Moved                 bool   `json:"moved"`
	Step                  int    `json:"step"`
	StepName              string `json:"step_name"`
	PersonalizationBegan  bool   `json:"personalization_began,omitempty"`
}

// RefreshTokenRequest 刷新 token 请求
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// TokenPairData 刷新 token 响应数据
type TokenPairData struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
}
