package service

import (
	"context"
	"errors"
	"iter"
	"log/slog"
	"sync"
	"time"

	"github.com/vbonduro/smartgrocer/internal/domain"
	"github.com/vbonduro/smartgrocer/internal/inventory"
	"github.com/vbonduro/smartgrocer/internal/planner"
	"github.com/vbonduro/smartgrocer/internal/reminder"
)

// historyRecorder is the subset of store.HistoryStore that GrocerService
// requires.
type historyRecorder interface {
	RecordPurchase(ctx context.Context, name string, qty float64, unit string) error
	RecordConsumption(ctx context.Context, name string, qty float64) error
	ConsumptionRate(ctx context.Context, name string) (float64, error)
}

// GrocerService is the command surface consumed by the presentation layer.
// It composes the inventory manager, reminder thresholds, consumption
// history, and the meal-planning backend.
type GrocerService struct {
	inv        *inventory.Manager
	history    historyRecorder
	planner    planner.Planner
	backend    string
	thresholds reminder.Thresholds
	timeout    time.Duration
	logger     *slog.Logger

	planMu sync.Mutex
	plans  map[int64]*domain.Plan
	nextID int64
}

func NewGrocerService(
	inv *inventory.Manager,
	history historyRecorder,
	p planner.Planner,
	backend string,
	thresholds reminder.Thresholds,
	plannerTimeout time.Duration,
	logger *slog.Logger,
) *GrocerService {
	return &GrocerService{
		inv:        inv,
		history:    history,
		planner:    p,
		backend:    backend,
		thresholds: thresholds,
		timeout:    plannerTimeout,
		logger:     logger,
		plans:      make(map[int64]*domain.Plan),
		nextID:     1,
	}
}

// AddItem adds or merges a purchase and logs it to the purchase history. A
// history write failure is logged but does not undo the inventory mutation;
// the history is advisory.
func (s *GrocerService) AddItem(ctx context.Context, name string, qty float64, unit string, expiry *time.Time, category string) (domain.Item, error) {
	item, err := s.inv.AddOrMerge(name, qty, unit, expiry, category)
	if err != nil {
		return domain.Item{}, err
	}
	if err := s.history.RecordPurchase(ctx, item.Name, qty, unit); err != nil {
		s.logger.Warn("failed to record purchase history", "name", item.Name, "error", err)
	}
	return item, nil
}

// ConsumeItem decrements an item and logs the consumption event.
func (s *GrocerService) ConsumeItem(ctx context.Context, name string, qty float64) (domain.Item, error) {
	item, err := s.inv.Consume(name, qty)
	if err != nil {
		return domain.Item{}, err
	}
	if err := s.history.RecordConsumption(ctx, item.Name, qty); err != nil {
		s.logger.Warn("failed to record consumption history", "name", item.Name, "error", err)
	}
	return item, nil
}

// RemoveItem deletes an item; removing an absent item reports removed=false
// without error.
func (s *GrocerService) RemoveItem(_ context.Context, name string) (bool, error) {
	return s.inv.Remove(name)
}

// ListInventory returns a lazy, name-ordered sequence of items matching the
// filter.
func (s *GrocerService) ListInventory(f inventory.Filter) iter.Seq[domain.Item] {
	return s.inv.Query(f)
}

// GetReminders recomputes reminders from the current snapshot and date.
func (s *GrocerService) GetReminders() []domain.Reminder {
	return reminder.Evaluate(s.inv.Snapshot(), time.Now(), s.thresholds)
}

// GenerateMealPlan builds the plan request from the current snapshot, calls
// the planning backend under the configured timeout (retrying once on a
// transient timeout), validates the response, and returns the cached plan
// together with its missing-ingredient set. Any backend failure surfaces as a
// *domain.ProviderError and leaves inventory state untouched.
func (s *GrocerService) GenerateMealPlan(ctx context.Context, days int, cuisine string) (*domain.Plan, []domain.MissingItem, error) {
	if days < 1 {
		return nil, nil, &domain.ValidationError{Field: "days", Reason: "must be at least 1"}
	}

	snap := s.inv.Snapshot()
	req := planner.BuildRequest(snap, reminder.Evaluate(snap, time.Now(), s.thresholds), days, cuisine)

	planDays, err := s.callPlanner(ctx, req)
	if err != nil {
		// Malformed responses stay inspectable through Unwrap.
		return nil, nil, &domain.ProviderError{Backend: s.backend, Err: err}
	}

	plan := &domain.Plan{GeneratedAt: time.Now(), Days: planDays}

	s.planMu.Lock()
	plan.ID = s.nextID
	s.nextID++
	s.plans[plan.ID] = plan
	s.planMu.Unlock()

	s.logger.Info("meal plan generated", "plan_id", plan.ID, "days", len(planDays))
	return plan, planner.Reconcile(planDays, snap), nil
}

// callPlanner runs one planning call under the timeout, retrying exactly once
// if the first attempt times out before the parent context is done.
func (s *GrocerService) callPlanner(ctx context.Context, req planner.Request) ([]domain.PlanDay, error) {
	attempt := func() ([]domain.PlanDay, error) {
		callCtx, cancel := context.WithTimeout(ctx, s.timeout)
		defer cancel()
		return s.planner.Plan(callCtx, req)
	}

	days, err := attempt()
	if err != nil && errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
		s.logger.Warn("meal planner timed out, retrying once")
		days, err = attempt()
	}
	return days, err
}

// GetMissingIngredients recomputes the missing set for a cached plan against
// the current snapshot, so items bought since planning drop out of the list.
func (s *GrocerService) GetMissingIngredients(planID int64) ([]domain.MissingItem, error) {
	s.planMu.Lock()
	plan, ok := s.plans[planID]
	s.planMu.Unlock()
	if !ok {
		return nil, domain.ErrPlanNotFound
	}
	return planner.Reconcile(plan.Days, s.inv.Snapshot()), nil
}

// GetPlan returns a cached plan by ID.
func (s *GrocerService) GetPlan(planID int64) (*domain.Plan, error) {
	s.planMu.Lock()
	defer s.planMu.Unlock()
	plan, ok := s.plans[planID]
	if !ok {
		return nil, domain.ErrPlanNotFound
	}
	return plan, nil
}

// EstimateDepletion projects how many days of stock remain for an item from
// its recorded consumption rate. ok is false when there is no usable history,
// in which case no projection should be shown.
func (s *GrocerService) EstimateDepletion(ctx context.Context, name string) (daysLeft float64, ok bool, err error) {
	item, err := s.inv.Get(name)
	if err != nil {
		return 0, false, err
	}

	rate, err := s.history.ConsumptionRate(ctx, item.Name)
	if err != nil {
		return 0, false, err
	}
	if rate <= 0 {
		return 0, false, nil
	}
	return item.Quantity / rate, true, nil
}
