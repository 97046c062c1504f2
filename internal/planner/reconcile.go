package planner

import (
	"math"
	"sort"

	"github.com/vbonduro/smartgrocer/internal/domain"
)

// requirement is the default quantity a recipe portion consumes of an
// ingredient. The table covers common staples; anything unlisted defaults to
// one count per appearance.
type requirement struct {
	Qty  float64
	Unit string
}

var defaultRequirements = map[string]requirement{
	"milk":    {0.25, "l"},
	"paneer":  {0.15, "kg"},
	"egg":     {2, "count"},
	"eggs":    {2, "count"},
	"potato":  {2, "count"},
	"onion":   {1, "count"},
	"tomato":  {1, "count"},
	"rice":    {0.25, "kg"},
	"dal":     {0.1, "kg"},
	"flour":   {0.2, "kg"},
	"sugar":   {0.05, "kg"},
	"salt":    {0.01, "kg"},
	"butter":  {0.03, "kg"},
	"ginger":  {0.02, "kg"},
	"garlic":  {0.01, "kg"},
	"yogurt":  {0.2, "kg"},
	"cheese":  {0.1, "kg"},
	"bread":   {4, "count"},
	"oil":     {0.03, "l"},
	"cumin":   {0.005, "kg"},
	"chicken": {0.4, "kg"},
}

func requirementFor(name string) requirement {
	if r, ok := defaultRequirements[name]; ok {
		return r
	}
	return requirement{1, "count"}
}

// aggregateRequirements totals up what the whole plan needs, one requirement
// per ingredient appearance per day.
func aggregateRequirements(days []domain.PlanDay) map[string]requirement {
	reqs := make(map[string]requirement)
	for _, day := range days {
		for _, name := range day.Ingredients() {
			name = domain.NormalizeName(name)
			if name == "" {
				continue
			}
			need := requirementFor(name)
			acc := reqs[name]
			if acc.Unit == "" {
				acc.Unit = need.Unit
			}
			acc.Qty += need.Qty
			reqs[name] = acc
		}
	}
	return reqs
}

// Reconcile compares a validated plan against the current snapshot and
// returns every ingredient the inventory cannot satisfy, either because it is
// absent or because the quantity on hand falls short of the plan's aggregated
// requirement. Stock in a unit that cannot be converted to the requirement's
// unit counts as zero rather than guessing. Results are sorted by the amount
// to buy, largest first, then by name.
func Reconcile(days []domain.PlanDay, snap domain.Snapshot) []domain.MissingItem {
	reqs := aggregateRequirements(days)

	var missing []domain.MissingItem
	for name, need := range reqs {
		have := 0.0
		if item, ok := snap[name]; ok {
			if converted, err := domain.ConvertQuantity(item.Quantity, item.Unit, need.Unit); err == nil {
				have = converted
			}
		}

		if have >= need.Qty {
			continue
		}

		toBuy := need.Qty - have
		if toBuy >= 0.01 {
			toBuy = math.Ceil(toBuy*100) / 100
		}
		missing = append(missing, domain.MissingItem{
			Name:     name,
			Required: need.Qty,
			Have:     have,
			Unit:     need.Unit,
			ToBuy:    toBuy,
		})
	}

	sort.Slice(missing, func(i, j int) bool {
		if missing[i].ToBuy != missing[j].ToBuy {
			return missing[i].ToBuy > missing[j].ToBuy
		}
		return missing[i].Name < missing[j].Name
	})

	return missing
}
