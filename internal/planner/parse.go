package planner

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/vbonduro/smartgrocer/internal/domain"
)

// planDayWire is the JSON shape the model is asked to return. Decoded into an
// intermediate type so validation can report missing fields precisely before
// anything touches the inventory.
type planDayWire struct {
	Day   int      `json:"day"`
	Dish  string   `json:"dish"`
	Uses  []string `json:"uses"`
	Extra []string `json:"extra"`
	Steps []string `json:"steps"`
}

// ParsePlanDays extracts and validates a meal plan from raw model output.
// It tries a direct JSON parse first, then falls back to locating and
// repairing a JSON block inside noisy text (models occasionally wrap the
// array in prose or markdown fences). Anything that does not validate against
// the expected shape fails with *domain.MalformedPlanError.
func ParsePlanDays(raw string, expectedDays int) ([]domain.PlanDay, error) {
	var wire []planDayWire
	if err := json.Unmarshal([]byte(raw), &wire); err != nil {
		block := extractJSONBlock(raw)
		if block == "" {
			return nil, &domain.MalformedPlanError{Reason: "no JSON array found in response"}
		}
		if err := json.Unmarshal([]byte(block), &wire); err != nil {
			if err := json.Unmarshal([]byte(repairJSON(block)), &wire); err != nil {
				return nil, &domain.MalformedPlanError{Reason: fmt.Sprintf("response is not a valid plan array: %v", err)}
			}
		}
	}

	return validateDays(wire, expectedDays)
}

func validateDays(wire []planDayWire, expectedDays int) ([]domain.PlanDay, error) {
	if len(wire) == 0 {
		return nil, &domain.MalformedPlanError{Reason: "plan contains no days"}
	}

	days := make([]domain.PlanDay, 0, len(wire))
	for i, d := range wire {
		if d.Dish == "" {
			return nil, &domain.MalformedPlanError{Reason: fmt.Sprintf("day %d has no dish", i+1)}
		}
		if len(d.Uses)+len(d.Extra) == 0 {
			return nil, &domain.MalformedPlanError{Reason: fmt.Sprintf("day %d has no ingredients", i+1)}
		}
		day := d.Day
		if day == 0 {
			day = i + 1
		}
		days = append(days, domain.PlanDay{
			Day:   day,
			Dish:  d.Dish,
			Uses:  normalizeAll(d.Uses),
			Extra: normalizeAll(d.Extra),
			Steps: d.Steps,
		})
	}

	if expectedDays > 0 && len(days) > expectedDays {
		days = days[:expectedDays]
	}
	return days, nil
}

func normalizeAll(names []string) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		if norm := domain.NormalizeName(n); norm != "" {
			out = append(out, norm)
		}
	}
	return out
}

var jsonBlockRe = regexp.MustCompile(`(?s)(\[.*\]|\{.*\})`)

// extractJSONBlock finds the first JSON array or object embedded in text.
func extractJSONBlock(text string) string {
	m := jsonBlockRe.FindString(text)
	return strings.TrimSpace(m)
}

var (
	trailingCommaObjRe = regexp.MustCompile(`,\s*}`)
	trailingCommaArrRe = regexp.MustCompile(`,\s*]`)
	lineCommentRe      = regexp.MustCompile(`(?m)//.*$`)
)

// repairJSON applies the small set of fixes models commonly need: single
// quotes, trailing commas, comments, and unbalanced closing brackets.
func repairJSON(block string) string {
	fixed := block

	if strings.Contains(fixed, "'") && !strings.Contains(fixed, `"`) {
		fixed = strings.ReplaceAll(fixed, "'", `"`)
	}

	fixed = trailingCommaObjRe.ReplaceAllString(fixed, "}")
	fixed = trailingCommaArrRe.ReplaceAllString(fixed, "]")
	fixed = lineCommentRe.ReplaceAllString(fixed, "")

	opens := strings.Count(fixed, "{") + strings.Count(fixed, "[")
	closes := strings.Count(fixed, "}") + strings.Count(fixed, "]")
	if opens > closes {
		fixed += strings.Repeat("]", opens-closes)
	}

	return fixed
}
