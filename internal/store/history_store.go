package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/vbonduro/smartgrocer/internal/domain"
)

// HistoryStore records purchases and consumption events in sqlite. The log is
// advisory: it feeds consumption-rate estimates and never participates in the
// inventory save/rollback protocol.
type HistoryStore struct {
	db *sql.DB
}

func NewHistoryStore(db *sql.DB) *HistoryStore {
	return &HistoryStore{db: db}
}

func (s *HistoryStore) RecordPurchase(ctx context.Context, name string, qty float64, unit string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO purchases (name, quantity, unit) VALUES (?, ?, ?)
	`, domain.NormalizeName(name), qty, domain.NormalizeUnit(unit))
	if err != nil {
		return fmt.Errorf("failed to record purchase: %w", err)
	}
	return nil
}

func (s *HistoryStore) RecordConsumption(ctx context.Context, name string, qty float64) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO consumption (name, quantity) VALUES (?, ?)
	`, domain.NormalizeName(name), qty)
	if err != nil {
		return fmt.Errorf("failed to record consumption: %w", err)
	}
	return nil
}

// ConsumptionRate estimates how much of an item is consumed per day from the
// recorded history. With fewer than two distinct days of history the observed
// window is clamped to one day. Returns 0 when there is no history at all.
func (s *HistoryStore) ConsumptionRate(ctx context.Context, name string) (float64, error) {
	var total, days float64
	err := s.db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(quantity), 0),
		       COALESCE(julianday(MAX(recorded_at)) - julianday(MIN(recorded_at)), 0)
		FROM consumption WHERE name = ?
	`, domain.NormalizeName(name)).Scan(&total, &days)
	if err != nil {
		return 0, fmt.Errorf("failed to query consumption history: %w", err)
	}

	if total == 0 {
		return 0, nil
	}
	if days < 1 {
		days = 1
	}
	return total / days, nil
}

// PurchaseCount reports how many purchase events exist for an item; used by
// tests and diagnostics.
func (s *HistoryStore) PurchaseCount(ctx context.Context, name string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM purchases WHERE name = ?
	`, domain.NormalizeName(name)).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count purchases: %w", err)
	}
	return n, nil
}
