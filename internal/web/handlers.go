package web

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/vbonduro/smartgrocer/internal/domain"
	"github.com/vbonduro/smartgrocer/internal/inventory"
)

type addItemRequest struct {
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit"`
	// Expiry is an optional YYYY-MM-DD date.
	Expiry   string `json:"expiry,omitempty"`
	Category string `json:"category,omitempty"`
}

func (s *Server) handleAddItem(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, &domain.ValidationError{Field: "body", Reason: "invalid JSON"})
		return
	}

	var expiry *time.Time
	if req.Expiry != "" {
		t, err := time.Parse("2006-01-02", req.Expiry)
		if err != nil {
			s.writeError(w, &domain.ValidationError{Field: "expiry", Reason: "must be YYYY-MM-DD"})
			return
		}
		// End of day, so an item expiring "today" is not already expired.
		t = t.Add(24*time.Hour - time.Second)
		expiry = &t
	}

	item, err := s.service.AddItem(r.Context(), req.Name, req.Quantity, req.Unit, expiry, req.Category)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, item)
}

func (s *Server) handleListItems(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := inventory.Filter{
		Category:     q.Get("category"),
		NameContains: q.Get("q"),
	}
	if v := q.Get("expiring_within_days"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			s.writeError(w, &domain.ValidationError{Field: "expiring_within_days", Reason: "must be a non-negative integer"})
			return
		}
		filter.ExpiringWithin = &n
	}

	items := make([]domain.Item, 0)
	for item := range s.service.ListInventory(filter) {
		items = append(items, item)
	}
	s.writeJSON(w, http.StatusOK, items)
}

type consumeRequest struct {
	Quantity float64 `json:"quantity"`
}

func (s *Server) handleConsumeItem(w http.ResponseWriter, r *http.Request) {
	var req consumeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, &domain.ValidationError{Field: "body", Reason: "invalid JSON"})
		return
	}

	item, err := s.service.ConsumeItem(r.Context(), r.PathValue("name"), req.Quantity)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, item)
}

func (s *Server) handleRemoveItem(w http.ResponseWriter, r *http.Request) {
	removed, err := s.service.RemoveItem(r.Context(), r.PathValue("name"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]bool{"removed": removed})
}

func (s *Server) handleForecast(w http.ResponseWriter, r *http.Request) {
	daysLeft, ok, err := s.service.EstimateDepletion(r.Context(), r.PathValue("name"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	resp := map[string]any{"known": ok}
	if ok {
		resp["days_left"] = daysLeft
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleReminders(w http.ResponseWriter, _ *http.Request) {
	reminders := s.service.GetReminders()
	if reminders == nil {
		reminders = []domain.Reminder{}
	}
	s.writeJSON(w, http.StatusOK, reminders)
}

type mealPlanRequest struct {
	Days    int    `json:"days"`
	Cuisine string `json:"cuisine,omitempty"`
}

type mealPlanResponse struct {
	Plan    *domain.Plan         `json:"plan"`
	Missing []domain.MissingItem `json:"missing"`
}

func (s *Server) handleGenerateMealPlan(w http.ResponseWriter, r *http.Request) {
	var req mealPlanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, &domain.ValidationError{Field: "body", Reason: "invalid JSON"})
		return
	}

	plan, missing, err := s.service.GenerateMealPlan(r.Context(), req.Days, req.Cuisine)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if missing == nil {
		missing = []domain.MissingItem{}
	}
	s.writeJSON(w, http.StatusCreated, mealPlanResponse{Plan: plan, Missing: missing})
}

func (s *Server) planID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		s.writeError(w, &domain.ValidationError{Field: "id", Reason: "must be an integer"})
		return 0, false
	}
	return id, true
}

func (s *Server) handleGetMealPlan(w http.ResponseWriter, r *http.Request) {
	id, ok := s.planID(w, r)
	if !ok {
		return
	}
	plan, err := s.service.GetPlan(id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, plan)
}

func (s *Server) handleMissingIngredients(w http.ResponseWriter, r *http.Request) {
	id, ok := s.planID(w, r)
	if !ok {
		return
	}
	missing, err := s.service.GetMissingIngredients(id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if missing == nil {
		missing = []domain.MissingItem{}
	}
	s.writeJSON(w, http.StatusOK, missing)
}
