package planner

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/vbonduro/smartgrocer/internal/domain"
)

// AvailableItem is one inventory entry serialized into a plan request.
type AvailableItem struct {
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit"`
}

// Request is the structured payload sent to a meal-planning backend.
type Request struct {
	Available    []AvailableItem `json:"available"`
	ExpiringSoon []string        `json:"expiring_soon"`
	Days         int             `json:"days"`
	Cuisine      string          `json:"cuisine,omitempty"`
}

// Planner generates a structured meal plan from an inventory-derived request.
// Implementations wrap an external model call (or a deterministic local
// fallback) and are responsible for returning validated plan days.
type Planner interface {
	Plan(ctx context.Context, req Request) ([]domain.PlanDay, error)
}

// BuildRequest serializes a snapshot into a plan request. Depleted items are
// omitted; expiring reminders bias the plan toward using those items first.
func BuildRequest(snap domain.Snapshot, reminders []domain.Reminder, days int, cuisine string) Request {
	req := Request{Days: days, Cuisine: cuisine}

	names := make([]string, 0, len(snap))
	for name := range snap {
		names = append(names, name)
	}
	slices.Sort(names)

	for _, name := range names {
		item := snap[name]
		if item.Depleted() {
			continue
		}
		req.Available = append(req.Available, AvailableItem{
			Name:     item.Name,
			Quantity: item.Quantity,
			Unit:     item.Unit,
		})
	}

	for _, r := range reminders {
		if r.Reason == domain.ReasonExpiringSoon || r.Reason == domain.ReasonExpired {
			req.ExpiringSoon = append(req.ExpiringSoon, r.Name)
		}
	}

	return req
}

// BuildPrompt renders the strict-JSON instruction shared by all model
// backends. The schema mirrors the response contract ParsePlanDays validates.
func BuildPrompt(req Request) string {
	var b strings.Builder

	cuisine := req.Cuisine
	if cuisine == "" {
		cuisine = "simple home-style"
	}
	fmt.Fprintf(&b, "You are an expert %s meal planner for a small household.\n", cuisine)
	fmt.Fprintf(&b, "Create a %d-day meal plan that MUST use the expiring items first when available.\n\n", req.Days)

	if len(req.ExpiringSoon) > 0 {
		fmt.Fprintf(&b, "Expiring items: %s\n", strings.Join(req.ExpiringSoon, ", "))
	} else {
		b.WriteString("Expiring items: none\n")
	}

	if len(req.Available) > 0 {
		b.WriteString("Available inventory:\n")
		for _, it := range req.Available {
			fmt.Fprintf(&b, "- %s: %g %s\n", it.Name, it.Quantity, it.Unit)
		}
	}

	b.WriteString(`
Return ONLY valid JSON: an array of day objects with this schema:
[
  {
    "day": 1,
    "dish": "Aloo Gobi",
    "uses": ["paneer","milk"],
    "extra": ["potato","onion"],
    "steps": ["step 1","step 2","step 3"]
  }
]

Do not include explanations, markdown, or any text outside the JSON array.
Use lowercase for ingredient names.
`)

	return b.String()
}
