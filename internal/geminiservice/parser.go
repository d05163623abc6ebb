package geminiservice

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"FitCoach_V0.1/internal/domain"
)

var (
	ErrMalformedPlan     = errors.New("could not parse Gemini response as JSON")
	ErrMissingPlanFields = errors.New("invalid response structure from AI - missing required fields")
)

// requiredPlanFields are the top-level keys a plan response must carry.
var requiredPlanFields = []string{"workoutPlan", "dietPlan", "tips", "motivation"}

// fencePattern matches a leading code fence (with an optional language tag)
// or a trailing one.
var fencePattern = regexp.MustCompile("^\\s*```[A-Za-z0-9_-]*\\s*|```\\s*$")

// ExtractJSON strips markdown fences and any prose around a JSON object by
// slicing from the first '{' to the last '}'.
//
// The slice is a heuristic: braces in commentary outside the payload will
// shift the cut. Callers treat any resulting decode failure as a parse error.
func ExtractJSON(raw string) string {
	if raw == "" {
		return raw
	}

	cleaned := strings.TrimSpace(fencePattern.ReplaceAllString(raw, ""))

	first := strings.Index(cleaned, "{")
	last := strings.LastIndex(cleaned, "}")
	if first != -1 && last > first {
		cleaned = cleaned[first : last+1]
	}
	return cleaned
}

// ParsePlan turns a raw model reply into a FitnessPlan. Only top-level field
// presence is checked here; the 7-day invariant is FitnessPlan.Validate's job.
func ParsePlan(raw string) (domain.FitnessPlan, error) {
	cleaned := []byte(ExtractJSON(raw))

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(cleaned, &fields); err != nil {
		return domain.FitnessPlan{}, fmt.Errorf("%w: %v", ErrMalformedPlan, err)
	}

	var missing []string
	for _, key := range requiredPlanFields {
		if !present(fields[key]) {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return domain.FitnessPlan{}, fmt.Errorf("%w: %s", ErrMissingPlanFields, strings.Join(missing, ", "))
	}

	var plan domain.FitnessPlan
	if err := json.Unmarshal(cleaned, &plan); err != nil {
		return domain.FitnessPlan{}, fmt.Errorf("%w: %v", ErrMalformedPlan, err)
	}
	return plan, nil
}

// present treats absent, null and empty-string values as missing.
func present(v json.RawMessage) bool {
	v = bytes.TrimSpace(v)
	return len(v) > 0 && !bytes.Equal(v, []byte("null")) && !bytes.Equal(v, []byte(`""`))
}
