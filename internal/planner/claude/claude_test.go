package claude

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

func messagesResponse(text string) map[string]interface{} {
	return map[string]interface{}{
		"id":          "msg_test",
		"type":        "message",
		"role":        "assistant",
		"model":       "claude-test",
		"stop_reason": "end_turn",
		"content": []map[string]interface{}{
			{"type": "text", "text": text},
		},
		"usage": map[string]int{"input_tokens": 10, "output_tokens": 20},
	}
}

func TestClaudePlan(t *testing.T) {
	planText := `[{"day": 1, "dish": "Paneer Bhurji", "uses": ["paneer"], "extra": ["onion"], "steps": ["cook"]}]`
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(messagesResponse(planText)))
	}))
	defer server.Close()

	p := NewClaudePlannerWithBaseURL("sk-test", "claude-test", server.URL)

	days, err := p.Plan(context.Background(), planner.Request{Days: 1, ExpiringSoon: []string{"paneer"}})
	require.NoError(t, err)
	require.Len(t, days, 1)
	assert.Equal(t, "Paneer Bhurji", days[0].Dish)
	assert.Equal(t, []string{"paneer"}, days[0].Uses)
}

func TestClaudePlanAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"type":"error","error":{"type":"rate_limit_error","message":"rate limited"}}`))
	}))
	defer server.Close()

	p := NewClaudePlannerWithBaseURL("sk-test", "claude-test", server.URL)

	_, err := p.Plan(context.Background(), planner.Request{Days: 1})
	assert.Error(t, err)
}

func TestClaudePlanMalformedResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(messagesResponse("Sorry, I cannot plan meals today.")))
	}))
	defer server.Close()

	p := NewClaudePlannerWithBaseURL("sk-test", "claude-test", server.URL)

	_, err := p.Plan(context.Background(), planner.Request{Days: 1})
	var malformed *domain.MalformedPlanError
	assert.ErrorAs(t, err, &malformed)
}
