package geminiservice

import (
	"strings"
	"testing"

	"FitCoach_V0.1/internal/domain"
	"github.com/stretchr/testify/require"
)

func sampleProfile() domain.UserProfile {
	return domain.UserProfile{
		Name:              "Priya",
		Age:               34,
		Gender:            domain.GenderFemale,
		HeightCM:          165,
		WeightKG:          62,
		FitnessGoal:       domain.GoalWeightLoss,
		FitnessLevel:      domain.LevelBeginner,
		WorkoutLocation:   domain.LocationHome,
		DietaryPreference: domain.DietNonVegetarian,
	}
}

func TestFallbackPlanIsStructurallyValid(t *testing.T) {
	for _, diet := range []domain.DietaryPreference{
		domain.DietVegetarian, domain.DietNonVegetarian, domain.DietVegan, domain.DietKeto, domain.DietPaleo,
	} {
		p := sampleProfile()
		p.DietaryPreference = diet

		plan := FallbackPlan(p)
		require.NoError(t, plan.Validate(), diet)
		require.Len(t, plan.WorkoutPlan, domain.PlanDays)
		require.Len(t, plan.DietPlan, domain.PlanDays)
		require.Len(t, plan.Tips, 5)
	}
}

func TestFallbackPlanWeekVaries(t *testing.T) {
	plan := FallbackPlan(sampleProfile())

	wantFocus := []string{"Upper Body", "Lower Body", "Cardio & Core", "Active Recovery", "Full Body", "Flexibility", "Rest"}
	for i, focus := range wantFocus {
		require.Contains(t, plan.WorkoutPlan[i].Day, focus)
	}
	require.Equal(t, "Day 1", plan.DietPlan[0].Day)
	require.Equal(t, "Day 7", plan.DietPlan[6].Day)
}

func TestFallbackPlanDeterministic(t *testing.T) {
	p := sampleProfile()
	first := FallbackPlan(p)
	second := FallbackPlan(p)
	require.Equal(t, first, second)

	// Mutating a returned plan must not leak into later calls.
	first.WorkoutPlan[0].Exercises[0].Name = "changed"
	first.DietPlan[0].Meals[0].Name = "changed"
	require.Equal(t, second, FallbackPlan(p))
}

func TestFallbackPlanInterpolatesProfile(t *testing.T) {
	plan := FallbackPlan(sampleProfile())

	require.True(t, strings.HasPrefix(plan.Motivation, "Priya, "))
	require.Contains(t, plan.Motivation, "weight loss")
	require.Contains(t, plan.Tips[0], "home workouts")
	require.Contains(t, plan.Tips[3], "beginner level")
	require.Contains(t, plan.Tips[4], "For weight loss")
}

func TestFallbackPlanPlantBasedDayOne(t *testing.T) {
	meatWords := []string{"chicken", "salmon", "beef", "turkey", "fish"}

	for _, diet := range []domain.DietaryPreference{domain.DietVegan, domain.DietVegetarian} {
		p := sampleProfile()
		p.DietaryPreference = diet
		plan := FallbackPlan(p)

		for _, day := range plan.DietPlan {
			for _, m := range day.Meals {
				if m.Type != domain.MealLunch && m.Type != domain.MealDinner {
					continue
				}
				name := strings.ToLower(m.Name)
				for _, word := range meatWords {
					require.NotContains(t, name, word, "%s %s %s", diet, day.Day, m.Type)
				}
			}
		}

		day1 := plan.DietPlan[0].Meals
		require.Equal(t, "Chickpea Salad Bowl", day1[2].Name)
		require.Equal(t, "Tofu Stir-fry with Brown Rice", day1[4].Name)
		require.Equal(t, "Black Bean Burger Bowl", plan.DietPlan[6].Meals[4].Name)
	}

	omnivore := FallbackPlan(sampleProfile()).DietPlan[0].Meals
	require.Equal(t, "Grilled Chicken Salad", omnivore[2].Name)
	require.Equal(t, "Baked Salmon with Quinoa", omnivore[4].Name)
}

func TestFallbackPlanPlantBasedReplacesEveryMainMeal(t *testing.T) {
	omnivore := FallbackPlan(sampleProfile())
	p := sampleProfile()
	p.DietaryPreference = domain.DietVegan
	vegan := FallbackPlan(p)

	for i, day := range vegan.DietPlan {
		for j, m := range day.Meals {
			if m.Type != domain.MealLunch && m.Type != domain.MealDinner {
				require.Equal(t, omnivore.DietPlan[i].Meals[j], m)
				continue
			}
			require.NotEqual(t, omnivore.DietPlan[i].Meals[j].Name, m.Name, "%s %s", day.Day, m.Type)
		}
	}
	require.Equal(t, "Veggie Pizza with Salad", vegan.DietPlan[6].Meals[2].Name)
	require.Equal(t, "Lentil Soup and Hummus Sandwich", vegan.DietPlan[5].Meals[2].Name)
}
