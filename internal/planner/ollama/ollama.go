// Package ollama plans meals through a local Ollama instance.
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/vbonduro/smartgrocer/internal/domain"
	"github.com/vbonduro/smartgrocer/internal/planner"
)

type OllamaPlanner struct {
	host   string
	model  string
	client *http.Client
}

func NewOllamaPlanner(host, model string) *OllamaPlanner {
	return &OllamaPlanner{
		host:   host,
		model:  model,
		client: &http.Client{},
	}
}

func (p *OllamaPlanner) Plan(ctx context.Context, req planner.Request) ([]domain.PlanDay, error) {
	reqBody := map[string]interface{}{
		"model":  p.model,
		"prompt": planner.BuildPrompt(req),
		"format": "json",
		"stream": false,
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.host+"/api/generate", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to call ollama: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ollama returned status %d", resp.StatusCode)
	}

	var respBody struct {
		Response string `json:"response"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&respBody); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return planner.ParsePlanDays(respBody.Response, req.Days)
}
