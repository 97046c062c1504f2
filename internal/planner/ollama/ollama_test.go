package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vbonduro/smartgrocer/internal/domain"
	"github.com/vbonduro/smartgrocer/internal/planner"
)

func TestOllamaPlan(t *testing.T) {
	planText := `[{"day": 1, "dish": "Dal Tadka", "uses": ["dal"], "extra": ["onion"]}]`
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/generate", r.URL.Path)

		var req map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "test-model", req["model"])
		assert.Contains(t, req["prompt"], "1-day meal plan")

		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(map[string]string{"response": planText}))
	}))
	defer server.Close()

	p := NewOllamaPlanner(server.URL, "test-model")

	days, err := p.Plan(context.Background(), planner.Request{Days: 1})
	require.NoError(t, err)
	require.Len(t, days, 1)
	assert.Equal(t, "Dal Tadka", days[0].Dish)
}

func TestOllamaPlanServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not loaded", http.StatusInternalServerError)
	}))
	defer server.Close()

	p := NewOllamaPlanner(server.URL, "test-model")

	_, err := p.Plan(context.Background(), planner.Request{Days: 1})
	assert.Error(t, err)
}

func TestOllamaPlanMalformedResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(map[string]string{"response": "no plan here"}))
	}))
	defer server.Close()

	p := NewOllamaPlanner(server.URL, "test-model")

	_, err := p.Plan(context.Background(), planner.Request{Days: 1})
	var malformed *domain.MalformedPlanError
	assert.ErrorAs(t, err, &malformed)
}
