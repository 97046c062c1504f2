package planner

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vbonduro/smartgrocer/internal/domain"
)

func TestBuildRequest(t *testing.T) {
	exp := time.Now().AddDate(0, 0, 1)
	snap := domain.Snapshot{
		"milk":   {Name: "milk", Quantity: 1, Unit: "l", ExpiresAt: &exp},
		"rice":   {Name: "rice", Quantity: 2, Unit: "kg"},
		"butter": {Name: "butter", Quantity: 0, Unit: "g"},
	}
	reminders := []domain.Reminder{
		{Name: "milk", Reason: domain.ReasonExpiringSoon},
		{Name: "salt", Reason: domain.ReasonLowStock},
	}

	req := BuildRequest(snap, reminders, 3, "indian")

	assert.Equal(t, 3, req.Days)
	assert.Equal(t, "indian", req.Cuisine)
	require.Len(t, req.Available, 2, "depleted items are omitted")
	assert.Equal(t, "milk", req.Available[0].Name, "available items are name-ordered")
	assert.Equal(t, "rice", req.Available[1].Name)
	assert.Equal(t, []string{"milk"}, req.ExpiringSoon, "low-stock reminders do not bias the plan")
}

func TestBuildRequestIncludesExpired(t *testing.T) {
	req := BuildRequest(domain.Snapshot{}, []domain.Reminder{
		{Name: "curd", Reason: domain.ReasonExpired},
	}, 2, "")

	assert.Equal(t, []string{"curd"}, req.ExpiringSoon)
}

func TestBuildPrompt(t *testing.T) {
	req := Request{
		Available: []AvailableItem{
			{Name: "milk", Quantity: 1.5, Unit: "l"},
		},
		ExpiringSoon: []string{"milk", "paneer"},
		Days:         3,
		Cuisine:      "indian",
	}

	prompt := BuildPrompt(req)

	assert.Contains(t, prompt, "3-day meal plan")
	assert.Contains(t, prompt, "Expiring items: milk, paneer")
	assert.Contains(t, prompt, "- milk: 1.5 l")
	assert.Contains(t, prompt, "ONLY valid JSON")
	assert.Contains(t, prompt, "indian")
}

func TestBuildPromptNoExpiring(t *testing.T) {
	prompt := BuildPrompt(Request{Days: 2})
	assert.Contains(t, prompt, "Expiring items: none")
	assert.False(t, strings.Contains(prompt, "Available inventory"), "empty inventory section is omitted")
}
