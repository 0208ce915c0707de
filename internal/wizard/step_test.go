package wizard

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStepValid(t *testing.T) {
	assert.True(t, StepWelcome.Valid())
	assert.True(t, StepCompletion.Valid())
	assert.False(t, Step(-1).Valid())
	assert.False(t, Step(TotalSteps).Valid())
}

func TestStepNamesDistinct(t *testing.T) {
	seen := make(map[string]Step)
	for s := StepWelcome; s.Valid(); s++ {
		name := s.String()
		assert.NotEqual(t, "unknown", name)
		_, dup := seen[name]
		assert.False(t, dup, "duplicate step name %q", name)
		seen[name] = s

		assert.NotEmpty(t, s.Title())
	}
	assert.Len(t, seen, TotalSteps)
}

func TestStepPhases(t *testing.T) {
	assert.Equal(t, PhaseIntro, StepWelcome.Phase())
	assert.Equal(t, PhaseProfile, StepSpendingGoals.Phase())
	assert.Equal(t, PhasePlan, StepCurrency.Phase())
	assert.Equal(t, PhaseFinish, StepCompletion.Phase())
}
