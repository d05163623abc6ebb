package domain

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// PlanDays is the fixed length of both the workout and the diet schedule.
const PlanDays = 7

type MealType string

const (
	MealBreakfast MealType = "breakfast"
	MealLunch     MealType = "lunch"
	MealDinner    MealType = "dinner"
	MealSnack     MealType = "snack"
)

type Exercise struct {
	Name        string `json:"name" yaml:"name"`
	Sets        int    `json:"sets" yaml:"sets"`
	Reps        string `json:"reps" yaml:"reps"`
	Rest        string `json:"rest" yaml:"rest"`
	Description string `json:"description" yaml:"description"`
}

type WorkoutDay struct {
	Day       string     `json:"day" yaml:"day"`
	Exercises []Exercise `json:"exercises" yaml:"exercises"`
}

type Meal struct {
	Type        MealType `json:"type" yaml:"type"`
	Name        string   `json:"name" yaml:"name"`
	Calories    int      `json:"calories" yaml:"calories"`
	Protein     string   `json:"protein" yaml:"protein"`
	Carbs       string   `json:"carbs" yaml:"carbs"`
	Fats        string   `json:"fats" yaml:"fats"`
	Description string   `json:"description" yaml:"description"`
}

type MealDay struct {
	Day   string `json:"day" yaml:"day"`
	Meals []Meal `json:"meals" yaml:"meals"`
}

// FitnessPlan is the combined 7-day workout and diet schedule for one profile.
type FitnessPlan struct {
	WorkoutPlan []WorkoutDay `json:"workoutPlan" yaml:"workoutPlan"`
	DietPlan    []MealDay    `json:"dietPlan" yaml:"dietPlan"`
	Tips        []string     `json:"tips" yaml:"tips"`
	Motivation  string       `json:"motivation" yaml:"motivation"`
}

var ErrInvalidPlan = errors.New("plan violates the 7-day structure")

// Validate enforces the structural invariant a plan must hold before it can
// be returned to a caller.
func (p FitnessPlan) Validate() error {
	switch {
	case len(p.WorkoutPlan) != PlanDays:
		return fmt.Errorf("%w: %d workout days", ErrInvalidPlan, len(p.WorkoutPlan))
	case len(p.DietPlan) != PlanDays:
		return fmt.Errorf("%w: %d diet days", ErrInvalidPlan, len(p.DietPlan))
	case len(p.Tips) == 0:
		return fmt.Errorf("%w: no tips", ErrInvalidPlan)
	case strings.TrimSpace(p.Motivation) == "":
		return fmt.Errorf("%w: empty motivation", ErrInvalidPlan)
	}
	return nil
}

type ImageKind string

const (
	KindExercise ImageKind = "exercise"
	KindMeal     ImageKind = "meal"
)

// Valid reports whether k is one of the two accepted image categories.
func (k ImageKind) Valid() bool {
	return k == KindExercise || k == KindMeal
}

// ImageResult describes which image a lookup settled on. Model names the
// tier that produced ImageURL.
type ImageResult struct {
	Success  bool   `json:"success"`
	ImageURL string `json:"imageUrl,omitempty"`
	Prompt   string `json:"prompt,omitempty"`
	Model    string `json:"model,omitempty"`
	Error    string `json:"error,omitempty"`
}

// Generation kinds reported to a GenerationRecorder.
const (
	EventPlan   = "plan"
	EventQuote  = "quote"
	EventImage  = "image"
	EventSpeech = "speech"
)

// GenerationEvent is one completed call into a provider-backed service.
type GenerationEvent struct {
	Kind     string
	Source   string
	Fallback bool
	Duration time.Duration
	Error    string
}

// GenerationRecorder receives an event for every plan, quote, image and
// speech operation. Implementations must return without waiting on storage.
type GenerationRecorder interface {
	RecordGeneration(ctx context.Context, evt GenerationEvent)
}

// NopRecorder discards events.
type NopRecorder struct{}

func (NopRecorder) RecordGeneration(context.Context, GenerationEvent) {}
