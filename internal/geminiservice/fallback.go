package geminiservice

import (
	"fmt"
	"strings"

	"FitCoach_V0.1/internal/domain"
)

/* =================================================================================
								STATIC FALLBACK PLAN
	Served whenever the model call or its parsing fails. Everything except the
	interpolated profile fields is fixed.
=================================================================================*/

var fallbackWorkouts = []domain.WorkoutDay{
	{
		Day: "Day 1 - Upper Body",
		Exercises: []domain.Exercise{
			{Name: "Push-ups", Sets: 3, Reps: "10-15", Rest: "60s", Description: "Classic upper body exercise targeting chest, shoulders, and triceps"},
			{Name: "Dumbbell Rows", Sets: 3, Reps: "12-15", Rest: "60s", Description: "Strengthens back muscles and improves posture"},
			{Name: "Shoulder Press", Sets: 3, Reps: "10-12", Rest: "90s", Description: "Builds shoulder strength and stability"},
		},
	},
	{
		Day: "Day 2 - Lower Body",
		Exercises: []domain.Exercise{
			{Name: "Squats", Sets: 4, Reps: "12-15", Rest: "90s", Description: "Fundamental leg exercise for overall lower body strength"},
			{Name: "Lunges", Sets: 3, Reps: "10 each leg", Rest: "60s", Description: "Improves leg strength and balance"},
			{Name: "Calf Raises", Sets: 3, Reps: "15-20", Rest: "45s", Description: "Strengthens calf muscles"},
		},
	},
	{
		Day: "Day 3 - Cardio & Core",
		Exercises: []domain.Exercise{
			{Name: "Running/Jogging", Sets: 1, Reps: "20-30 min", Rest: "0s", Description: "Cardiovascular endurance training"},
			{Name: "Plank", Sets: 3, Reps: "30-60s", Rest: "45s", Description: "Core stability and strength"},
			{Name: "Mountain Climbers", Sets: 3, Reps: "20 reps", Rest: "60s", Description: "Dynamic core and cardio exercise"},
		},
	},
	{
		Day: "Day 4 - Active Recovery",
		Exercises: []domain.Exercise{
			{Name: "Light Walking", Sets: 1, Reps: "30 min", Rest: "0s", Description: "Gentle movement for recovery"},
			{Name: "Stretching", Sets: 1, Reps: "15 min", Rest: "0s", Description: "Full body flexibility work"},
		},
	},
	{
		Day: "Day 5 - Full Body",
		Exercises: []domain.Exercise{
			{Name: "Burpees", Sets: 3, Reps: "10-15", Rest: "90s", Description: "Full body conditioning exercise"},
			{Name: "Pull-ups/Rows", Sets: 3, Reps: "8-12", Rest: "90s", Description: "Upper body pulling strength"},
			{Name: "Jump Squats", Sets: 3, Reps: "12-15", Rest: "90s", Description: "Explosive leg power"},
		},
	},
	{
		Day: "Day 6 - Flexibility & Balance",
		Exercises: []domain.Exercise{
			{Name: "Yoga Flow", Sets: 1, Reps: "30 min", Rest: "0s", Description: "Improve flexibility and mental focus"},
			{Name: "Balance Exercises", Sets: 3, Reps: "10 each side", Rest: "45s", Description: "Single leg balance work"},
		},
	},
	{
		Day: "Day 7 - Rest",
		Exercises: []domain.Exercise{
			{Name: "Complete Rest", Sets: 0, Reps: "N/A", Rest: "N/A", Description: "Allow your body to fully recover and rebuild"},
		},
	},
}

// fallbackMeal carries a plant-based name used for vegetarian and vegan
// profiles. Every lunch and dinner entry sets it.
type fallbackMeal struct {
	domain.Meal
	PlantName string
}

func meal(t domain.MealType, name string, kcal int, protein, carbs, fats, desc string) fallbackMeal {
	return fallbackMeal{Meal: domain.Meal{
		Type: t, Name: name, Calories: kcal,
		Protein: protein, Carbs: carbs, Fats: fats, Description: desc,
	}}
}

func (m fallbackMeal) plant(name string) fallbackMeal {
	m.PlantName = name
	return m
}

var fallbackDiet = [domain.PlanDays][]fallbackMeal{
	{
		meal(domain.MealBreakfast, "Oatmeal with Berries & Nuts", 380, "15g", "55g", "12g", "Fiber-rich breakfast with antioxidants"),
		meal(domain.MealSnack, "Greek Yogurt", 150, "18g", "12g", "5g", "High protein snack"),
		meal(domain.MealLunch, "Grilled Chicken Salad", 450, "35g", "40g", "18g", "Balanced protein and vegetables").plant("Chickpea Salad Bowl"),
		meal(domain.MealSnack, "Apple with Almond Butter", 180, "6g", "22g", "10g", "Healthy fats and fiber"),
		meal(domain.MealDinner, "Baked Salmon with Quinoa", 520, "42g", "45g", "20g", "Protein-rich dinner with complex carbs").plant("Tofu Stir-fry with Brown Rice"),
	},
	{
		meal(domain.MealBreakfast, "Scrambled Eggs with Whole Wheat Toast", 350, "22g", "35g", "15g", "High protein breakfast"),
		meal(domain.MealSnack, "Protein Smoothie", 200, "20g", "25g", "5g", "Post-workout nutrition"),
		meal(domain.MealLunch, "Turkey Wrap", 420, "30g", "45g", "12g", "Portable balanced meal").plant("Veggie Hummus Wrap"),
		meal(domain.MealSnack, "Mixed Nuts", 180, "6g", "8g", "16g", "Healthy fats for energy"),
		meal(domain.MealDinner, "Lean Beef Stew", 480, "38g", "42g", "16g", "Hearty nutrient-dense meal").plant("Lentil Stew"),
	},
	{
		meal(domain.MealBreakfast, "Protein Pancakes with Fruit", 400, "25g", "50g", "10g", "Energizing breakfast"),
		meal(domain.MealSnack, "Cottage Cheese with Berries", 160, "16g", "18g", "4g", "Protein-rich snack"),
		meal(domain.MealLunch, "Buddha Bowl", 480, "28g", "55g", "18g", "Balanced macro meal").plant("Tofu Buddha Bowl"),
		meal(domain.MealSnack, "Hummus with Veggies", 150, "6g", "18g", "7g", "Fiber and protein"),
		meal(domain.MealDinner, "Grilled Fish with Sweet Potato", 510, "40g", "48g", "18g", "Omega-3 rich dinner").plant("Grilled Tempeh with Sweet Potato"),
	},
	{
		meal(domain.MealBreakfast, "Smoothie Bowl", 370, "18g", "52g", "12g", "Nutrient-dense start"),
		meal(domain.MealSnack, "Boiled Eggs", 140, "12g", "2g", "10g", "Quick protein"),
		meal(domain.MealLunch, "Quinoa Salad", 440, "26g", "48g", "16g", "Complete protein meal").plant("Quinoa and Black Bean Salad"),
		meal(domain.MealSnack, "Banana with Peanut Butter", 210, "8g", "28g", "10g", "Energy boost"),
		meal(domain.MealDinner, "Chicken Breast with Vegetables", 460, "45g", "35g", "14g", "Lean protein dinner").plant("Chickpea Curry with Vegetables"),
	},
	{
		meal(domain.MealBreakfast, "Avocado Toast with Eggs", 420, "20g", "38g", "22g", "Healthy fats breakfast"),
		meal(domain.MealSnack, "Protein Bar", 190, "15g", "22g", "7g", "Convenient nutrition"),
		meal(domain.MealLunch, "Pasta with Lean Protein", 520, "32g", "62g", "16g", "Carb-loading meal").plant("Pasta with Lentil Bolognese"),
		meal(domain.MealSnack, "Trail Mix", 200, "7g", "20g", "12g", "Energy snack"),
		meal(domain.MealDinner, "Stir-fry with Brown Rice", 490, "35g", "50g", "16g", "Asian-inspired balanced meal").plant("Tofu Stir-fry with Brown Rice"),
	},
	{
		meal(domain.MealBreakfast, "Whole Grain Cereal with Milk", 340, "16g", "50g", "10g", "Quick breakfast"),
		meal(domain.MealSnack, "Fruit Salad", 120, "2g", "30g", "1g", "Vitamin boost"),
		meal(domain.MealLunch, "Soup and Sandwich Combo", 460, "28g", "52g", "16g", "Comfort meal").plant("Lentil Soup and Hummus Sandwich"),
		meal(domain.MealSnack, "Cheese and Crackers", 180, "10g", "18g", "9g", "Satisfying snack"),
		meal(domain.MealDinner, "Roasted Chicken with Veggies", 500, "42g", "38g", "20g", "Classic dinner").plant("Roasted Chickpeas with Veggies"),
	},
	{
		meal(domain.MealBreakfast, "French Toast with Fruit", 390, "18g", "55g", "12g", "Weekend breakfast"),
		meal(domain.MealSnack, "Smoothie", 170, "12g", "26g", "4g", "Refreshing snack"),
		meal(domain.MealLunch, "Pizza with Salad", 550, "28g", "60g", "22g", "Treat meal").plant("Veggie Pizza with Salad"),
		meal(domain.MealSnack, "Dark Chocolate & Almonds", 160, "5g", "14g", "11g", "Antioxidant treat"),
		meal(domain.MealDinner, "Homemade Burger Bowl", 520, "38g", "42g", "24g", "Satisfying dinner").plant("Black Bean Burger Bowl"),
	},
}

// FallbackPlan returns the hand-authored plan for a profile. It never fails
// and returns freshly allocated slices on every call.
func FallbackPlan(profile domain.UserProfile) domain.FitnessPlan {
	plantBased := profile.IsPlantBased()

	workouts := make([]domain.WorkoutDay, len(fallbackWorkouts))
	for i, day := range fallbackWorkouts {
		workouts[i] = domain.WorkoutDay{
			Day:       day.Day,
			Exercises: append([]domain.Exercise(nil), day.Exercises...),
		}
	}

	diet := make([]domain.MealDay, domain.PlanDays)
	for i, templates := range fallbackDiet {
		meals := make([]domain.Meal, len(templates))
		for j, tmpl := range templates {
			meals[j] = tmpl.Meal
			if plantBased && tmpl.PlantName != "" {
				meals[j].Name = tmpl.PlantName
			}
		}
		diet[i] = domain.MealDay{Day: fmt.Sprintf("Day %d", i+1), Meals: meals}
	}

	goal := readable(string(profile.FitnessGoal))

	return domain.FitnessPlan{
		WorkoutPlan: workouts,
		DietPlan:    diet,
		Tips: []string{
			fmt.Sprintf("Stay hydrated - drink at least 8-10 glasses of water daily, especially during %s workouts", profile.WorkoutLocation),
			"Get 7-8 hours of quality sleep each night for optimal recovery and muscle growth",
			"Always warm up for 5-10 minutes before workouts and cool down with stretching",
			fmt.Sprintf("As a %s level athlete, focus on proper form over heavy weights to prevent injuries", profile.FitnessLevel),
			fmt.Sprintf("For %s, maintain consistency and track your progress weekly", goal),
		},
		Motivation: fmt.Sprintf(
			"%s, your journey to %s is built one small step at a time. Every workout today lays the foundation for a stronger, healthier tomorrow. Believe in yourself, embrace the challenge, and let your determination shine!",
			profile.Name, goal,
		),
	}
}

// readable turns an enum value such as "weight-loss" into "weight loss".
func readable(v string) string {
	return strings.ReplaceAll(v, "-", " ")
}
