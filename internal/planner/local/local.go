// Package local is a deterministic meal planner used when no model backend is
// configured, and as the degradation target for demos and tests. It picks
// from a fixed recipe book, preferring recipes that consume expiring items.
package local

import (
	"context"
	"strings"

	"github.com/vbonduro/smartgrocer/internal/domain"
	"github.com/vbonduro/smartgrocer/internal/planner"
)

type recipe struct {
	uses  []string
	steps []string
}

// recipeBook iteration must be deterministic, so recipes are held in ordered
// slices rather than a map.
var recipeNames = []string{"paneer bhurji", "milk poha", "aloo sabzi", "dal tadka", "veg fried rice"}

var recipeBook = map[string]recipe{
	"paneer bhurji":  {uses: []string{"paneer", "onion", "tomato"}, steps: []string{"Crumble paneer", "Saute onions and tomatoes", "Mix and serve"}},
	"milk poha":      {uses: []string{"milk", "poha", "sugar"}, steps: []string{"Soak poha", "Warm milk", "Mix and serve"}},
	"aloo sabzi":     {uses: []string{"potato", "onion", "tomato"}, steps: []string{"Boil potatoes", "Saute masala", "Mix and serve"}},
	"dal tadka":      {uses: []string{"dal", "onion", "tomato"}, steps: []string{"Wash dal", "Cook dal", "Temper and serve"}},
	"veg fried rice": {uses: []string{"rice", "onion", "oil"}, steps: []string{"Cook rice", "Stir-fry vegetables", "Toss and serve"}},
}

type LocalPlanner struct{}

func NewLocalPlanner() *LocalPlanner {
	return &LocalPlanner{}
}

func (p *LocalPlanner) Plan(_ context.Context, req planner.Request) ([]domain.PlanDay, error) {
	expiring := make(map[string]bool, len(req.ExpiringSoon))
	for _, name := range req.ExpiringSoon {
		expiring[domain.NormalizeName(name)] = true
	}

	plan := make([]domain.PlanDay, 0, req.Days)
	usedIngredients := map[string]bool{}
	usedDishes := map[string]bool{}

	for d := 0; d < req.Days; d++ {
		name := pickRecipe(expiring, usedIngredients, usedDishes)
		r := recipeBook[name]
		usedDishes[name] = true

		var uses, extra []string
		for _, ing := range r.uses {
			if expiring[ing] {
				uses = append(uses, ing)
				usedIngredients[ing] = true
			} else {
				extra = append(extra, ing)
			}
		}
		if len(uses) == 0 {
			uses, extra = r.uses[:2], r.uses[2:]
		}

		plan = append(plan, domain.PlanDay{
			Day:   d + 1,
			Dish:  titleCase(name),
			Uses:  uses,
			Extra: extra,
			Steps: r.steps,
		})
	}

	return plan, nil
}

// pickRecipe prefers an unused recipe consuming a not-yet-planned expiring
// item, then any unused recipe, then wraps around.
func pickRecipe(expiring, usedIngredients, usedDishes map[string]bool) string {
	for _, name := range recipeNames {
		if usedDishes[name] {
			continue
		}
		for _, ing := range recipeBook[name].uses {
			if expiring[ing] && !usedIngredients[ing] {
				return name
			}
		}
	}
	for _, name := range recipeNames {
		if !usedDishes[name] {
			return name
		}
	}
	return recipeNames[0]
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
