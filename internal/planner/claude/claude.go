// Package claude plans meals through the Anthropic Messages API.
package claude

import (
	"context"
	"fmt"

	"github.com/liushuangls/go-anthropic/v2"

	"github.com/vbonduro/smartgrocer/internal/domain"
	"github.com/vbonduro/smartgrocer/internal/planner"
)

const systemPrompt = "You are a meal-planning assistant. You always answer with a single JSON array and nothing else."

type ClaudePlanner struct {
	client *anthropic.Client
	model  string
}

func NewClaudePlanner(apiKey, model string) *ClaudePlanner {
	return &ClaudePlanner{
		client: anthropic.NewClient(apiKey),
		model:  model,
	}
}

// NewClaudePlannerWithBaseURL points the client at an alternate endpoint;
// used by tests to target an httptest server.
func NewClaudePlannerWithBaseURL(apiKey, model, baseURL string) *ClaudePlanner {
	return &ClaudePlanner{
		client: anthropic.NewClient(apiKey, anthropic.WithBaseURL(baseURL)),
		model:  model,
	}
}

func (p *ClaudePlanner) Plan(ctx context.Context, req planner.Request) ([]domain.PlanDay, error) {
	resp, err := p.client.CreateMessages(ctx, anthropic.MessagesRequest{
		Model:  anthropic.Model(p.model),
		System: systemPrompt,
		// 1500 tokens covers a 7-day plan with steps; typical 3-day plans
		// come in well under half of that.
		MaxTokens: 1500,
		Messages: []anthropic.Message{
			anthropic.NewUserTextMessage(planner.BuildPrompt(req)),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to call claude: %w", err)
	}

	return planner.ParsePlanDays(resp.GetFirstContentText(), req.Days)
}
