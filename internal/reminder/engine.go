package reminder

import (
	"sort"
	"time"

	"github.com/vbonduro/smartgrocer/internal/domain"
)

// Thresholds configure reminder classification. Per-category low-stock levels
// take precedence over the global one; a category absent from the map falls
// back to Global.
type Thresholds struct {
	ExpiringSoonDays   int                `yaml:"expiring_soon_days"`
	LowStockQuantity   float64            `yaml:"low_stock_quantity"`
	LowStockByCategory map[string]float64 `yaml:"low_stock_by_category"`
}

// DefaultThresholds match the behaviour of the original tracker: warn three
// days ahead of expiry, flag non-perishables below one unit.
func DefaultThresholds() Thresholds {
	return Thresholds{ExpiringSoonDays: 3, LowStockQuantity: 1}
}

func (t Thresholds) lowStockFor(category string) float64 {
	if v, ok := t.LowStockByCategory[category]; ok {
		return v
	}
	return t.LowStockQuantity
}

// Evaluate derives the current reminders from a snapshot. It is a pure
// function of the snapshot and now: items with an expiry date classify as
// expired or expiring-soon; items without one classify as low-stock when
// their quantity drops below the configured threshold. The result is ordered
// most urgent first (expired > expiring-soon > low-stock), ties broken by
// nearest expiry and then name so output is deterministic.
func Evaluate(snap domain.Snapshot, now time.Time, t Thresholds) []domain.Reminder {
	var out []domain.Reminder

	for _, item := range snap {
		if item.ExpiresAt != nil {
			daysLeft := item.ExpiresAt.Sub(now).Hours() / 24
			switch {
			case item.ExpiresAt.Before(now):
				out = append(out, reminderFor(item, domain.ReasonExpired, daysLeft))
			case daysLeft <= float64(t.ExpiringSoonDays):
				out = append(out, reminderFor(item, domain.ReasonExpiringSoon, daysLeft))
			}
			continue
		}

		if item.Quantity < t.lowStockFor(item.Category) {
			out = append(out, reminderFor(item, domain.ReasonLowStock, 0))
		}
	}

	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if ra, rb := reasonRank(a.Reason), reasonRank(b.Reason); ra != rb {
			return ra < rb
		}
		if a.DaysLeft != b.DaysLeft {
			return a.DaysLeft < b.DaysLeft
		}
		return a.Name < b.Name
	})

	return out
}

func reminderFor(item domain.Item, reason domain.ReminderReason, daysLeft float64) domain.Reminder {
	return domain.Reminder{
		Name:     item.Name,
		Reason:   reason,
		DaysLeft: daysLeft,
		Quantity: item.Quantity,
		Unit:     item.Unit,
	}
}

func reasonRank(r domain.ReminderReason) int {
	switch r {
	case domain.ReasonExpired:
		return 0
	case domain.ReasonExpiringSoon:
		return 1
	default:
		return 2
	}
}
