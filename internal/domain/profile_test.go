package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func validProfile() UserProfile {
	return UserProfile{
		Name:              "Alex",
		Age:               29,
		Gender:            GenderOther,
		HeightCM:          172,
		WeightKG:          68.5,
		FitnessGoal:       GoalEndurance,
		FitnessLevel:      LevelIntermediate,
		WorkoutLocation:   LocationOutdoor,
		DietaryPreference: DietKeto,
	}
}

func TestValidateAcceptsCompleteProfile(t *testing.T) {
	require.NoError(t, validProfile().Validate())

	p := validProfile()
	p.StressLevel = StressHigh
	p.MedicalHistory = "old knee injury"
	require.NoError(t, p.Validate())
}

func TestValidateRejectsBadFields(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*UserProfile)
		want   string
	}{
		{"missing name", func(p *UserProfile) { p.Name = "" }, "name is required"},
		{"zero age", func(p *UserProfile) { p.Age = 0 }, "age is required"},
		{"negative height", func(p *UserProfile) { p.HeightCM = -3 }, "height is out of range"},
		{"unknown goal", func(p *UserProfile) { p.FitnessGoal = "bulk" }, "fitnessGoal must be one of"},
		{"unknown diet", func(p *UserProfile) { p.DietaryPreference = "carnivore" }, "dietaryPreference must be one of"},
		{"unknown stress", func(p *UserProfile) { p.StressLevel = "extreme" }, "stressLevel must be one of"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validProfile()
			tt.mutate(&p)
			err := p.Validate()
			require.Error(t, err)
			require.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestSanitizedStripsMarkup(t *testing.T) {
	p := validProfile()
	p.Name = "<b>Alex</b>"
	p.MedicalHistory = "<script>alert(1)</script>asthma"

	clean := p.Sanitized()
	require.Equal(t, "Alex", clean.Name)
	require.Equal(t, "asthma", clean.MedicalHistory)
	require.Equal(t, "<b>Alex</b>", p.Name, "original must stay untouched")
}

func TestPlanValidate(t *testing.T) {
	plan := FitnessPlan{
		WorkoutPlan: make([]WorkoutDay, PlanDays),
		DietPlan:    make([]MealDay, PlanDays),
		Tips:        []string{"sleep"},
		Motivation:  "go",
	}
	require.NoError(t, plan.Validate())

	short := plan
	short.DietPlan = short.DietPlan[:5]
	require.ErrorIs(t, short.Validate(), ErrInvalidPlan)

	noTips := plan
	noTips.Tips = nil
	require.ErrorIs(t, noTips.Validate(), ErrInvalidPlan)

	blank := plan
	blank.Motivation = "  "
	require.ErrorIs(t, blank.Validate(), ErrInvalidPlan)
}
