package planner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vbonduro/smartgrocer/internal/domain"
)

func TestReconcileMissingIngredient(t *testing.T) {
	snap := domain.Snapshot{
		"eggs": {Name: "eggs", Quantity: 2, Unit: "count"},
		"milk": {Name: "milk", Quantity: 1, Unit: "l"},
	}
	days := []domain.PlanDay{
		{Day: 1, Dish: "Pancakes", Uses: []string{"eggs"}, Extra: []string{"flour"}},
	}

	missing := Reconcile(days, snap)

	require.Len(t, missing, 1)
	assert.Equal(t, "flour", missing[0].Name)
	assert.Zero(t, missing[0].Have)
}

func TestReconcileFullySatisfied(t *testing.T) {
	snap := domain.Snapshot{
		"rice": {Name: "rice", Quantity: 2, Unit: "kg"},
		"dal":  {Name: "dal", Quantity: 1, Unit: "kg"},
	}
	days := []domain.PlanDay{
		{Day: 1, Dish: "Khichdi", Uses: []string{"rice", "dal"}},
	}

	assert.Empty(t, Reconcile(days, snap))
}

func TestReconcileInsufficientQuantity(t *testing.T) {
	// One egg on hand, plan needs two per portion.
	snap := domain.Snapshot{
		"eggs": {Name: "eggs", Quantity: 1, Unit: "count"},
	}
	days := []domain.PlanDay{
		{Day: 1, Dish: "Omelette", Uses: []string{"eggs"}},
	}

	missing := Reconcile(days, snap)
	require.Len(t, missing, 1)
	assert.Equal(t, "eggs", missing[0].Name)
	assert.Equal(t, 1.0, missing[0].Have)
	assert.Equal(t, 1.0, missing[0].ToBuy)
}

func TestReconcileConvertsUnits(t *testing.T) {
	// 500 g of rice satisfies a 0.25 kg requirement.
	snap := domain.Snapshot{
		"rice": {Name: "rice", Quantity: 500, Unit: "g"},
	}
	days := []domain.PlanDay{
		{Day: 1, Dish: "Fried Rice", Uses: []string{"rice"}},
	}

	assert.Empty(t, Reconcile(days, snap))
}

func TestReconcileUnconvertibleStockCountsAsZero(t *testing.T) {
	// Milk tracked in count cannot satisfy a litre requirement.
	snap := domain.Snapshot{
		"milk": {Name: "milk", Quantity: 3, Unit: "count"},
	}
	days := []domain.PlanDay{
		{Day: 1, Dish: "Kheer", Uses: []string{"milk"}},
	}

	missing := Reconcile(days, snap)
	require.Len(t, missing, 1)
	assert.Zero(t, missing[0].Have)
	assert.Equal(t, 0.25, missing[0].Required)
}

func TestReconcileAggregatesAcrossDays(t *testing.T) {
	snap := domain.Snapshot{}
	days := []domain.PlanDay{
		{Day: 1, Dish: "Omelette", Uses: []string{"eggs"}},
		{Day: 2, Dish: "Egg Curry", Uses: []string{"eggs"}},
	}

	missing := Reconcile(days, snap)
	require.Len(t, missing, 1)
	assert.Equal(t, 4.0, missing[0].Required, "two appearances of eggs at 2 count each")
}

func TestReconcileSortsByToBuy(t *testing.T) {
	snap := domain.Snapshot{}
	days := []domain.PlanDay{
		{Day: 1, Dish: "Breakfast", Uses: []string{"eggs", "salt"}},
	}

	missing := Reconcile(days, snap)
	require.Len(t, missing, 2)
	assert.Equal(t, "eggs", missing[0].Name, "largest to-buy amount first")
	assert.Equal(t, "salt", missing[1].Name)
}
