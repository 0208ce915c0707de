package wizard

// Step 向导步骤，固定 10 步，序号连续
type Step int

const (
	StepWelcome Step = iota
	StepAppearance
	StepDiscovery
	StepUsageReason
	StepSpendingGoals
	StepBudgetRange
	StepCategories
	StepCurrency
	StepPersonalization
	StepCompletion

	stepCount // 哨兵，新增步骤必须排在它前面
)

// TotalSteps 步骤总数
const TotalSteps = int(stepCount)

// StepPhase 视觉分组标签，只给展示层用，不参与门控
type StepPhase string

const (
	PhaseIntro   StepPhase = "intro"
	PhaseProfile StepPhase = "profile"
	PhasePlan    StepPhase = "plan"
	PhaseFinish  StepPhase = "finish"
)

func (s Step) Valid() bool {
	return s >= StepWelcome && s < stepCount
}

func (s Step) String() string {
	switch s {
	case StepWelcome:
		return "welcome"
	case StepAppearance:
		return "appearance"
	case StepDiscovery:
		return "discovery"
	case StepUsageReason:
		return "usage_reason"
	case StepSpendingGoals:
		return "spending_goals"
	case StepBudgetRange:
		return "budget_range"
	case StepCategories:
		return "categories"
	case StepCurrency:
		return "currency"
	case StepPersonalization:
		return "personalization"
	case StepCompletion:
		return "completion"
	default:
		return "unknown"
	}
}

// Title 步骤标题
func (s Step) Title() string {
	switch s {
	case StepWelcome:
		return "Welcome to SpendWise"
	case StepAppearance:
		return "Make it yours"
	case StepDiscovery:
		return "How did you hear about us?"
	case StepUsageReason:
		return "What brings you here?"
	case StepSpendingGoals:
		return "What are your goals?"
	case StepBudgetRange:
		return "What's your monthly budget?"
	case StepCategories:
		return "Where does your money go?"
	case StepCurrency:
		return "Pick your currency"
	case StepPersonalization:
		return "Personalizing your experience"
	case StepCompletion:
		return "You're all set!"
	default:
		return ""
	}
}

// Subtitle 步骤副标题，允许为空
func (s Step) Subtitle() string {
	switch s {
	case StepWelcome:
		return "Let's set up your money in a few quick steps"
	case StepAppearance:
		return "Choose a look that fits you"
	case StepUsageReason:
		return "We'll tailor SpendWise to match"
	case StepSpendingGoals:
		return "Pick as many as you like"
	case StepCategories:
		return "Pick up to 4 categories you spend on most"
	case StepPersonalization:
		return "This only takes a moment"
	default:
		return ""
	}
}

func (s Step) Phase() StepPhase {
	switch s {
	case StepWelcome, StepAppearance, StepDiscovery:
		return PhaseIntro
	case StepUsageReason, StepSpendingGoals:
		return PhaseProfile
	case StepBudgetRange, StepCategories, StepCurrency:
		return PhasePlan
	case StepPersonalization, StepCompletion:
		return PhaseFinish
	default:
		return PhaseIntro
	}
}
