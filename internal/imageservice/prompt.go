package imageservice

import (
	"fmt"
	"strings"

	"FitCoach_V0.1/internal/domain"
)

const exercisePromptTemplate = `Professional fitness photograph of a person performing %s.
Show correct form, proper posture, and anatomically accurate positioning.
Clean gym or home environment with good lighting.
High-resolution, detailed, fitness-focused visual.
Suitable for a personal training guide.`

const mealPromptTemplate = `Professional food photography of %s on a plate.
Show appetizing presentation with accurate ingredients and proper portion size.
Clean, bright lighting with neutral background.
High-resolution food styling, restaurant quality.
Suitable for a nutrition plan guide.`

// BuildImagePrompt returns the photography prompt for one exercise or meal.
func BuildImagePrompt(itemName string, kind domain.ImageKind) string {
	name := strings.TrimSpace(itemName)
	if kind == domain.KindExercise {
		return fmt.Sprintf(exercisePromptTemplate, name)
	}
	return fmt.Sprintf(mealPromptTemplate, name)
}

// searchKeywords qualifies a stock photo search so results stay on topic.
func searchKeywords(kind domain.ImageKind) string {
	if kind == domain.KindExercise {
		return "exercise fitness gym"
	}
	return "food meal nutrition"
}
