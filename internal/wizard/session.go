package wizard

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"SpendWise/internal/model"
	pkgerrors "SpendWise/pkg/errors"
)

// Config 向导引擎参数，由调用方注入，包内不读全局配置
type Config struct {
	Ticks           int           // 个性化阶段 tick 数
	TickInterval    time.Duration // 每个 tick 的间隔
	SaveTimeout     time.Duration // 持久化超时
	DefaultCurrency string        // 系统检测到的币种
}

// DefaultConfig 参考行为：20 个 tick，每个 250ms
func DefaultConfig() Config {
	return Config{
		Ticks:           20,
		TickInterval:    250 * time.Millisecond,
		SaveTimeout:     5 * time.Second,
		DefaultCurrency: "USD",
	}
}

// Saver 由持久化协调器实现，阶段结束时被调用
type Saver interface {
	Save(ctx context.Context, snap Snapshot, userID string) error
}

// CompletionNotifier 到达终点步骤时触发，每个会话恰好一次
type CompletionNotifier interface {
	OnboardingCompleted(userID string)
}

// Snapshot 选择状态的只读快照，给订阅方和持久化层消费
type Snapshot struct {
	SessionID      string
	UserID         string
	Step           Step
	Appearance     string
	ReferralSource string
	AgeRange       string
	UsageReason    string
	BudgetRange    string
	Currency       string
	Categories     []string
	Goals          []string
	Processing     bool
	PhaseProgress  float64
	HasError       bool
	ErrorMessage   string
}

// ProgressFraction 步骤进度，currentStep / (totalSteps - 1)
func (s Snapshot) ProgressFraction() float64 {
	return float64(s.Step) / float64(TotalSteps-1)
}

// Session 单个用户的一次引导会话。
// 所有修改都走同一把锁，等价于参考行为里的单一执行上下文。
type Session struct {
	mu sync.Mutex

	id     string
	userID string
	cfg    Config

	saver    Saver
	notifier CompletionNotifier

	step           Step
	appearance     string
	referralSource string
	ageRange       string
	usageReason    string
	budgetRange    string
	currency       string
	categories     []string
	goals          []string

	processing    bool
	phaseProgress float64
	hasError      bool
	errorMessage  string

	phaseCancel context.CancelFunc
	notified    bool
	closed      bool

	subs map[int]chan Snapshot
	next int
}

func NewSession(userID string, cfg Config, saver Saver, notifier CompletionNotifier) *Session {
	if cfg.Ticks <= 0 {
		cfg.Ticks = 20
	}
	if cfg.TickInterval <= 0 {
		cfg.TickInterval = 250 * time.Millisecond
	}
	if cfg.DefaultCurrency == "" {
		cfg.DefaultCurrency = "USD"
	}

	return &Session{
		id:         uuid.New().String(),
		userID:     userID,
		cfg:        cfg,
		saver:      saver,
		notifier:   notifier,
		step:       StepWelcome,
		appearance: string(model.AppearanceSystem),
		currency:   cfg.DefaultCurrency,
		subs:       make(map[int]chan Snapshot),
	}
}

func (s *Session) ID() string {
	return s.id
}

func (s *Session) UserID() string {
	return s.userID
}

// Snapshot 拷贝一份当前状态
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() Snapshot {
	categories := make([]string, len(s.categories))
	copy(categories, s.categories)
	goals := make([]string, len(s.goals))
	copy(goals, s.goals)

	return Snapshot{
		SessionID:      s.id,
		UserID:         s.userID,
		Step:           s.step,
		Appearance:     s.appearance,
		ReferralSource: s.referralSource,
		AgeRange:       s.ageRange,
		UsageReason:    s.usageReason,
		BudgetRange:    s.budgetRange,
		Currency:       s.currency,
		Categories:     categories,
		Goals:          goals,
		Processing:     s.processing,
		PhaseProgress:  s.phaseProgress,
		HasError:       s.hasError,
		ErrorMessage:   s.errorMessage,
	}
}

// Subscribe 订阅状态变更，返回通道和取消函数。
// 通道带缓冲，消费不过来时丢中间快照，不阻塞变更方。
func (s *Session) Subscribe() (<-chan Snapshot, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.next
	s.next++
	ch := make(chan Snapshot, 16)
	s.subs[id] = ch

	return ch, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if sub, ok := s.subs[id]; ok {
			delete(s.subs, id)
			close(sub)
		}
	}
}

func (s *Session) publishLocked() {
	snap := s.snapshotLocked()
	for _, ch := range s.subs {
		select {
		case ch <- snap:
		default:
		}
	}
}

// CanAdvance 当前步骤是否允许前进
func (s *Session) CanAdvance() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.canAdvanceLocked()
}

func (s *Session) canAdvanceLocked() bool {
	switch s.step {
	case StepWelcome, StepAppearance, StepPersonalization, StepCompletion:
		return true
	case StepDiscovery:
		return s.referralSource != ""
	case StepUsageReason:
		return s.usageReason != ""
	case StepSpendingGoals:
		return len(s.goals) > 0
	case StepBudgetRange:
		return s.budgetRange != ""
	case StepCategories:
		return len(s.categories) >= 1 && len(s.categories) <= model.MaxPrimaryCategories
	case StepCurrency:
		return s.currency != ""
	default:
		return false
	}
}

// Advance 前进一步。门控不过、已在终点或个性化阶段运行中都是 no-op。
// 进入个性化步骤时启动阶段运行，单个会话至多一个并发运行。
func (s *Session) Advance() (moved bool, began bool) {
	s.mu.Lock()

	if s.closed || s.processing || s.step == StepCompletion || !s.canAdvanceLocked() {
		s.mu.Unlock()
		return false, false
	}

	s.step++
	if s.step == StepPersonalization {
		began = s.beginPersonalizationLocked()
	}
	s.publishLocked()
	s.mu.Unlock()

	return true, began
}

// Retreat 后退一步，起点处 no-op。后退不清除已做的选择。
func (s *Session) Retreat() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || s.processing || s.step == StepWelcome {
		return false
	}

	s.step--
	s.publishLocked()
	return true
}

// SetAppearance 设置外观主题
func (s *Session) SetAppearance(v string) error {
	if !model.IsValidAppearance(v) {
		return pkgerrors.SelectionInvalid
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.appearance = v
	s.publishLocked()
	return nil
}

// SetReferralSource 设置获知渠道（单选）
func (s *Session) SetReferralSource(v string) error {
	if !model.IsValidReferralSource(v) {
		return pkgerrors.SelectionInvalid
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.referralSource = v
	s.publishLocked()
	return nil
}

// SetAgeRange 设置年龄段
func (s *Session) SetAgeRange(v string) error {
	if !model.IsValidAgeRange(v) {
		return pkgerrors.SelectionInvalid
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ageRange = v
	s.publishLocked()
	return nil
}

// SetUsageReason 设置使用目的（单选）
func (s *Session) SetUsageReason(v string) error {
	if !model.IsValidUsageReason(v) {
		return pkgerrors.SelectionInvalid
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.usageReason = v
	s.publishLocked()
	return nil
}

// SetBudgetRange 设置月度预算档位（单选）
func (s *Session) SetBudgetRange(v string) error {
	if !model.IsValidBudgetRange(v) {
		return pkgerrors.SelectionInvalid
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.budgetRange = v
	s.publishLocked()
	return nil
}

// SetCurrency 设置币种
func (s *Session) SetCurrency(v string) error {
	if !model.IsValidCurrency(v) {
		return pkgerrors.CurrencyInvalid
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.currency = v
	s.publishLocked()
	return nil
}

// ToggleCategory 翻转消费类目。已选 4 个时再添加是 no-op，不报错。
func (s *Session) ToggleCategory(v string) error {
	if !model.IsValidExpenseCategory(v) {
		return pkgerrors.SelectionInvalid
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i, c := range s.categories {
		if c == v {
			s.categories = append(s.categories[:i], s.categories[i+1:]...)
			s.publishLocked()
			return nil
		}
	}

	if len(s.categories) >= model.MaxPrimaryCategories {
		return nil
	}

	s.categories = append(s.categories, v)
	s.publishLocked()
	return nil
}

// ToggleGoal 翻转储蓄目标，数量不设上限
func (s *Session) ToggleGoal(v string) error {
	if !model.IsValidSpendingGoal(v) {
		return pkgerrors.SelectionInvalid
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i, g := range s.goals {
		if g == v {
			s.goals = append(s.goals[:i], s.goals[i+1:]...)
			s.publishLocked()
			return nil
		}
	}

	s.goals = append(s.goals, v)
	s.publishLocked()
	return nil
}

// Close 会话拆除：取消运行中的阶段，之后不再发事件、不再触发持久化
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	cancel := s.phaseCancel
	for id, ch := range s.subs {
		delete(s.subs, id)
		close(ch)
	}
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
}
