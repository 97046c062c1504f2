package domain

import (
	"strings"
	"time"
)

// Item is a single tracked grocery item. Items are keyed by their normalized
// name; there is one batch per item, so a merge of two purchases keeps the
// later expiry date.
type Item struct {
	Name       string     `json:"name"`
	Quantity   float64    `json:"quantity"`
	Unit       string     `json:"unit"`
	Category   string     `json:"category,omitempty"`
	AcquiredAt time.Time  `json:"acquired_at"`
	ExpiresAt  *time.Time `json:"expires_at,omitempty"`
}

// Depleted reports whether the item has been consumed down to zero. Depleted
// items stay in the inventory so low-stock reminders can still fire for them.
func (i Item) Depleted() bool {
	return i.Quantity == 0
}

// Snapshot is the complete inventory state at a point in time, keyed by
// normalized item name. It is what gets persisted and what the read-only
// engines (reminders, meal context) consume.
type Snapshot map[string]Item

// Clone returns an independent copy of the snapshot. ExpiresAt pointers are
// re-allocated so mutations cannot leak across copies.
func (s Snapshot) Clone() Snapshot {
	out := make(Snapshot, len(s))
	for k, v := range s {
		if v.ExpiresAt != nil {
			t := *v.ExpiresAt
			v.ExpiresAt = &t
		}
		out[k] = v
	}
	return out
}

// NormalizeName trims, lowercases, and collapses inner whitespace so that
// " Whole  Milk " and "whole milk" address the same inventory entry.
func NormalizeName(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), " ")
}

// ReminderReason classifies why an item needs attention.
type ReminderReason string

const (
	ReasonExpired      ReminderReason = "expired"
	ReasonExpiringSoon ReminderReason = "expiring-soon"
	ReasonLowStock     ReminderReason = "low-stock"
)

// Reminder is a derived notice; it is computed fresh on every request and
// never persisted.
type Reminder struct {
	Name     string         `json:"name"`
	Reason   ReminderReason `json:"reason"`
	DaysLeft float64        `json:"days_left"`
	Quantity float64        `json:"quantity"`
	Unit     string         `json:"unit"`
}

// PlanDay is one day of a generated meal plan. Uses lists the soon-to-expire
// inventory the dish consumes; Extra lists everything else it needs.
type PlanDay struct {
	Day   int      `json:"day"`
	Dish  string   `json:"dish"`
	Uses  []string `json:"uses"`
	Extra []string `json:"extra,omitempty"`
	Steps []string `json:"steps,omitempty"`
}

// Ingredients returns the combined Uses+Extra ingredient list for the day.
func (d PlanDay) Ingredients() []string {
	out := make([]string, 0, len(d.Uses)+len(d.Extra))
	out = append(out, d.Uses...)
	out = append(out, d.Extra...)
	return out
}

// Plan is a generated meal plan kept in the service's plan cache so its
// missing-ingredient set can be recomputed against a later snapshot.
type Plan struct {
	ID          int64     `json:"id"`
	GeneratedAt time.Time `json:"generated_at"`
	Days        []PlanDay `json:"days"`
}

// MissingItem describes a plan ingredient the current inventory cannot
// satisfy. Quantities are expressed in Unit.
type MissingItem struct {
	Name     string  `json:"name"`
	Required float64 `json:"required"`
	Have     float64 `json:"have"`
	Unit     string  `json:"unit"`
	ToBuy    float64 `json:"to_buy"`
}
