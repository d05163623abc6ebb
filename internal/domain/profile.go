/*
Package domain holds the request-scoped types shared by the plan, image and
speech services: the submitted user profile and the generated fitness plan.
*/
package domain

import (
	"errors"
	"fmt"
	"html"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
)

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

type FitnessGoal string

const (
	GoalWeightLoss     FitnessGoal = "weight-loss"
	GoalMuscleGain     FitnessGoal = "muscle-gain"
	GoalGeneralFitness FitnessGoal = "general-fitness"
	GoalEndurance      FitnessGoal = "endurance"
	GoalFlexibility    FitnessGoal = "flexibility"
)

type FitnessLevel string

const (
	LevelBeginner     FitnessLevel = "beginner"
	LevelIntermediate FitnessLevel = "intermediate"
	LevelAdvanced     FitnessLevel = "advanced"
)

type WorkoutLocation string

const (
	LocationHome    WorkoutLocation = "home"
	LocationGym     WorkoutLocation = "gym"
	LocationOutdoor WorkoutLocation = "outdoor"
)

type DietaryPreference string

const (
	DietVegetarian    DietaryPreference = "vegetarian"
	DietNonVegetarian DietaryPreference = "non-vegetarian"
	DietVegan         DietaryPreference = "vegan"
	DietKeto          DietaryPreference = "keto"
	DietPaleo         DietaryPreference = "paleo"
)

type StressLevel string

const (
	StressLow    StressLevel = "low"
	StressMedium StressLevel = "medium"
	StressHigh   StressLevel = "high"
)

// UserProfile is the payload a user submits to get a plan. It is treated as
// immutable once it has passed Validate.
type UserProfile struct {
	Name              string            `json:"name" yaml:"name" validate:"required,max=100"`
	Age               int               `json:"age" yaml:"age" validate:"required,gt=0,lte=120"`
	Gender            Gender            `json:"gender" yaml:"gender" validate:"required,oneof=male female other"`
	HeightCM          float64           `json:"height" yaml:"height" validate:"required,gt=0"`
	WeightKG          float64           `json:"weight" yaml:"weight" validate:"required,gt=0"`
	FitnessGoal       FitnessGoal       `json:"fitnessGoal" yaml:"fitnessGoal" validate:"required,oneof=weight-loss muscle-gain general-fitness endurance flexibility"`
	FitnessLevel      FitnessLevel      `json:"fitnessLevel" yaml:"fitnessLevel" validate:"required,oneof=beginner intermediate advanced"`
	WorkoutLocation   WorkoutLocation   `json:"workoutLocation" yaml:"workoutLocation" validate:"required,oneof=home gym outdoor"`
	DietaryPreference DietaryPreference `json:"dietaryPreference" yaml:"dietaryPreference" validate:"required,oneof=vegetarian non-vegetarian vegan keto paleo"`
	MedicalHistory    string            `json:"medicalHistory,omitempty" yaml:"medicalHistory,omitempty" validate:"max=2000"`
	StressLevel       StressLevel       `json:"stressLevel,omitempty" yaml:"stressLevel,omitempty" validate:"omitempty,oneof=low medium high"`
}

var (
	validate   = validator.New()
	textPolicy = bluemonday.StrictPolicy()
)

// Validate checks required fields, numeric ranges and enum membership.
// The returned error lists every offending field by its JSON name.
func (p UserProfile) Validate() error {
	err := validate.Struct(p)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, describeFieldError(fe))
	}
	return fmt.Errorf("invalid profile: %s", strings.Join(msgs, "; "))
}

// Sanitized returns a copy with markup stripped from the free-text fields so
// nothing but plain text is embedded into a provider prompt.
func (p UserProfile) Sanitized() UserProfile {
	p.Name = PlainText(p.Name)
	p.MedicalHistory = PlainText(p.MedicalHistory)
	return p
}

// PlainText drops tags but keeps characters like '&' readable; the strict
// policy escapes them.
func PlainText(s string) string {
	return strings.TrimSpace(html.UnescapeString(textPolicy.Sanitize(s)))
}

// IsPlantBased reports whether the diet excludes meat.
func (p UserProfile) IsPlantBased() bool {
	return p.DietaryPreference == DietVegetarian || p.DietaryPreference == DietVegan
}

func describeFieldError(fe validator.FieldError) string {
	field := jsonFieldNames[fe.Field()]
	if field == "" {
		field = fe.Field()
	}

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", field, fe.Param())
	case "gt", "lte", "max":
		return fmt.Sprintf("%s is out of range (%s %s)", field, fe.Tag(), fe.Param())
	default:
		return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
	}
}

var jsonFieldNames = map[string]string{
	"Name":              "name",
	"Age":               "age",
	"Gender":            "gender",
	"HeightCM":          "height",
	"WeightKG":          "weight",
	"FitnessGoal":       "fitnessGoal",
	"FitnessLevel":      "fitnessLevel",
	"WorkoutLocation":   "workoutLocation",
	"DietaryPreference": "dietaryPreference",
	"MedicalHistory":    "medicalHistory",
	"StressLevel":       "stressLevel",
}
