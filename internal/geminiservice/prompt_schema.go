package geminiservice

import (
	"fmt"
	"strconv"
	"strings"

	"FitCoach_V0.1/internal/domain"
)

/* =================================================================================
							GEMINI SCHEMA DEFINITION
	Tells Gemini how to format its JSON response (structured output).
=================================================================================*/

// GeminiSchema maps to Gemini's OpenAPI-subset response schema.
type GeminiSchema struct {
	// Type is the data type: "OBJECT", "ARRAY", "STRING", "INTEGER".
	Type string `json:"type"`

	// Format is "enum" when Enum restricts the allowed values.
	Format string `json:"format,omitempty"`

	Description string `json:"description,omitempty"`

	// Properties maps field names to child schemas when Type is "OBJECT".
	Properties map[string]*GeminiSchema `json:"properties,omitempty"`

	// Items describes array elements when Type is "ARRAY".
	Items *GeminiSchema `json:"items,omitempty"`

	Required []string `json:"required,omitempty"`

	Enum []string `json:"enum,omitempty"`
}

/* =================================================================================
						PROMPT ENGINEERING
=================================================================================*/

// SystemPrompt sets the persona for plan generation.
const SystemPrompt = `You are an expert fitness coach and nutritionist.
You design safe, realistic and personalized weekly training and meal plans.
You always answer with a single raw JSON object and nothing else.`

// planPromptTemplate is filled by BuildPlanPrompt. The profile block is
// injected at %s.
const planPromptTemplate = `You are an expert fitness coach and nutritionist. Create a comprehensive, personalized fitness plan.

User Profile:
%s
Create a detailed 7-day plan: exactly 7 entries in "workoutPlan" (Day 1 to Day 7) and exactly 7 entries in "dietPlan" (Day 1 to Day 7).

Required structure:
{
  "workoutPlan": [
    {
      "day": "Day 1",
      "exercises": [
        {
          "name": "Exercise Name",
          "sets": 3,
          "reps": "10-12",
          "rest": "60s",
          "description": "Brief description"
        }
      ]
    }
  ],
  "dietPlan": [
    {
      "day": "Day 1",
      "meals": [
        {
          "type": "breakfast",
          "name": "Meal Name",
          "calories": 350,
          "protein": "20g",
          "carbs": "45g",
          "fats": "10g",
          "description": "Brief description"
        }
      ]
    }
  ],
  "tips": ["Tip 1", "Tip 2", "Tip 3", "Tip 4", "Tip 5"],
  "motivation": "Motivational message here"
}

Field rules:
- "sets" and "calories" are non-negative integers.
- "reps" and "rest" are short strings such as "10-12", "30s" or "N/A".
- "type" is one of: breakfast, lunch, dinner, snack.
- "protein", "carbs" and "fats" are strings with a unit suffix, e.g. "20g".
- "tips" has at least one entry; "motivation" is a non-empty string.

Return ONLY the raw JSON object. Do NOT wrap it in markdown code blocks and do NOT add any text before or after it.`

// QuotePrompt asks for a single short motivational line.
const QuotePrompt = `Generate a short, powerful fitness motivation quote (max 20 words). Return only the quote text without quotes or markdown.`

// BuildPlanPrompt embeds every profile field into the plan instruction.
// Medical history and stress level are only written when present.
func BuildPlanPrompt(profile domain.UserProfile) string {
	var b strings.Builder

	fmt.Fprintf(&b, "- Name: %s\n", profile.Name)
	fmt.Fprintf(&b, "- Age: %d, Gender: %s\n", profile.Age, profile.Gender)
	fmt.Fprintf(&b, "- Height: %scm, Weight: %skg\n", formatNumber(profile.HeightCM), formatNumber(profile.WeightKG))
	fmt.Fprintf(&b, "- Fitness Goal: %s\n", profile.FitnessGoal)
	fmt.Fprintf(&b, "- Fitness Level: %s\n", profile.FitnessLevel)
	fmt.Fprintf(&b, "- Workout Location: %s\n", profile.WorkoutLocation)
	fmt.Fprintf(&b, "- Dietary Preference: %s\n", profile.DietaryPreference)

	if history := strings.TrimSpace(profile.MedicalHistory); history != "" {
		fmt.Fprintf(&b, "- Medical History: %s\n", history)
	}
	if profile.StressLevel != "" {
		fmt.Fprintf(&b, "- Stress Level: %s\n", profile.StressLevel)
	}

	return fmt.Sprintf(planPromptTemplate, b.String())
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

/*
PlanSchema describes the exact JSON structure of a FitnessPlan. It is passed
as the response schema so Gemini's structured output matches ParsePlan.
*/
var PlanSchema = &GeminiSchema{
	Type: "OBJECT",
	Properties: map[string]*GeminiSchema{
		"workoutPlan": {
			Type:        "ARRAY",
			Description: "Exactly 7 workout days, Day 1 to Day 7.",
			Items: &GeminiSchema{
				Type: "OBJECT",
				Properties: map[string]*GeminiSchema{
					"day": {Type: "STRING", Description: "Day label, e.g. 'Day 1 - Upper Body'"},
					"exercises": {
						Type: "ARRAY",
						Items: &GeminiSchema{
							Type: "OBJECT",
							Properties: map[string]*GeminiSchema{
								"name":        {Type: "STRING"},
								"sets":        {Type: "INTEGER", Description: "Non-negative number of sets"},
								"reps":        {Type: "STRING", Description: "Free-form, e.g. '10-12' or '30s'"},
								"rest":        {Type: "STRING", Description: "Rest between sets, e.g. '60s'"},
								"description": {Type: "STRING"},
							},
							Required: []string{"name", "sets", "reps", "rest", "description"},
						},
					},
				},
				Required: []string{"day", "exercises"},
			},
		},
		"dietPlan": {
			Type:        "ARRAY",
			Description: "Exactly 7 diet days, Day 1 to Day 7.",
			Items: &GeminiSchema{
				Type: "OBJECT",
				Properties: map[string]*GeminiSchema{
					"day": {Type: "STRING"},
					"meals": {
						Type: "ARRAY",
						Items: &GeminiSchema{
							Type: "OBJECT",
							Properties: map[string]*GeminiSchema{
								"type": {
									Type:   "STRING",
									Format: "enum",
									Enum:   []string{"breakfast", "lunch", "dinner", "snack"},
								},
								"name":        {Type: "STRING"},
								"calories":    {Type: "INTEGER", Description: "Non-negative kcal"},
								"protein":     {Type: "STRING", Description: "Grams with unit, e.g. '20g'"},
								"carbs":       {Type: "STRING", Description: "Grams with unit, e.g. '45g'"},
								"fats":        {Type: "STRING", Description: "Grams with unit, e.g. '10g'"},
								"description": {Type: "STRING"},
							},
							Required: []string{"type", "name", "calories", "protein", "carbs", "fats", "description"},
						},
					},
				},
				Required: []string{"day", "meals"},
			},
		},
		"tips": {
			Type:        "ARRAY",
			Description: "Practical tips, at least one.",
			Items:       &GeminiSchema{Type: "STRING"},
		},
		"motivation": {
			Type:        "STRING",
			Description: "A personal motivational message addressed to the user.",
		},
	},
	Required: []string{"workoutPlan", "dietPlan", "tips", "motivation"},
}
