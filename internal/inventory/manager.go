package inventory

import (
	"errors"
	"iter"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/vbonduro/smartgrocer/internal/domain"
)

// snapshotStore is the subset of store.FileStore that Manager requires.
type snapshotStore interface {
	Load() (domain.Snapshot, error)
	Save(domain.Snapshot) error
}

// Filter narrows a Query. Zero-value fields are ignored.
type Filter struct {
	Category     string
	NameContains string
	// ExpiringWithin keeps only items whose expiry falls within this many
	// days of Now (expired items included). Nil disables the check.
	ExpiringWithin *int
	Now            time.Time
}

// Manager owns the in-memory inventory snapshot and is the only component
// that mutates it. Every mutation is built on a copy, saved to the store, and
// only swapped in once the save succeeds, so memory and disk never diverge.
// A single mutex serializes all access; the store has no isolation of its own.
type Manager struct {
	mu     sync.Mutex
	items  domain.Snapshot
	store  snapshotStore
	logger *slog.Logger
}

// NewManager loads the persisted snapshot and returns a manager owning it.
func NewManager(store snapshotStore, logger *slog.Logger) (*Manager, error) {
	snap, err := store.Load()
	if err != nil {
		return nil, err
	}
	return &Manager{items: snap, store: store, logger: logger}, nil
}

// AddOrMerge adds a purchase. If the normalized name already exists with a
// compatible unit, the incoming quantity is converted to the stored unit and
// summed, and the later expiry date is kept (single batch per item). An
// incompatible unit fails with *domain.UnitMismatchError and leaves the
// inventory unchanged.
func (m *Manager) AddOrMerge(name string, qty float64, unit string, expiry *time.Time, category string) (domain.Item, error) {
	key := domain.NormalizeName(name)
	if key == "" {
		return domain.Item{}, &domain.ValidationError{Field: "name", Reason: "must not be empty"}
	}
	if qty <= 0 {
		return domain.Item{}, &domain.ValidationError{Field: "quantity", Reason: "must be positive"}
	}
	unit = domain.NormalizeUnit(unit)

	now := time.Now()
	if expiry != nil && expiry.Before(startOfDay(now)) {
		// An expiry before the acquisition date is a data-entry error, not
		// an already-expired purchase.
		return domain.Item{}, &domain.ValidationError{Field: "expiry", Reason: "must not precede acquisition date"}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	item := domain.Item{
		Name:       key,
		Quantity:   qty,
		Unit:       unit,
		Category:   strings.ToLower(strings.TrimSpace(category)),
		AcquiredAt: now,
		ExpiresAt:  copyTime(expiry),
	}

	if existing, ok := m.items[key]; ok {
		converted, err := domain.ConvertQuantity(qty, unit, existing.Unit)
		if err != nil {
			var mismatch *domain.UnitMismatchError
			if errors.As(err, &mismatch) {
				mismatch.Name = key
			}
			return domain.Item{}, err
		}
		item.Unit = existing.Unit
		item.Quantity = existing.Quantity + converted
		item.ExpiresAt = laterExpiry(existing.ExpiresAt, expiry)
		if item.Category == "" {
			item.Category = existing.Category
		}
	}

	if err := m.commit(key, &item); err != nil {
		return domain.Item{}, err
	}

	m.logger.Info("item added", "name", key, "quantity", item.Quantity, "unit", item.Unit)
	return item, nil
}

// Consume decrements an item's quantity. A decrement past zero is rejected
// with domain.ErrInsufficientQuantity rather than clamped; the caller decides
// whether to retry with the available amount. Consuming down to exactly zero
// retains the item as depleted.
func (m *Manager) Consume(name string, qty float64) (domain.Item, error) {
	if qty <= 0 {
		return domain.Item{}, &domain.ValidationError{Field: "quantity", Reason: "must be positive"}
	}
	key := domain.NormalizeName(name)

	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.items[key]
	if !ok {
		return domain.Item{}, domain.ErrItemNotFound
	}
	if qty > existing.Quantity {
		return domain.Item{}, domain.ErrInsufficientQuantity
	}

	item := existing
	item.Quantity -= qty
	item.ExpiresAt = copyTime(existing.ExpiresAt)

	if err := m.commit(key, &item); err != nil {
		return domain.Item{}, err
	}

	m.logger.Info("item consumed", "name", key, "quantity", qty, "remaining", item.Quantity)
	return item, nil
}

// Remove deletes an item. Removing an absent item is a no-op reported via the
// boolean, not an error, so conversational retries stay idempotent.
func (m *Manager) Remove(name string) (bool, error) {
	key := domain.NormalizeName(name)

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.items[key]; !ok {
		return false, nil
	}

	if err := m.commit(key, nil); err != nil {
		return false, err
	}

	m.logger.Info("item removed", "name", key)
	return true, nil
}

// Get returns a single item by name.
func (m *Manager) Get(name string) (domain.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	item, ok := m.items[domain.NormalizeName(name)]
	if !ok {
		return domain.Item{}, domain.ErrItemNotFound
	}
	return item, nil
}

// Query returns a lazy, restartable sequence of items matching the filter,
// ordered by name. The sequence iterates over a point-in-time copy, so it is
// safe to mutate the inventory while (or between) iterations.
func (m *Manager) Query(f Filter) iter.Seq[domain.Item] {
	snap := m.Snapshot()

	keys := make([]string, 0, len(snap))
	for k := range snap {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	return func(yield func(domain.Item) bool) {
		for _, k := range keys {
			item := snap[k]
			if !matches(item, f) {
				continue
			}
			if !yield(item) {
				return
			}
		}
	}
}

// Snapshot returns a deep copy of the current inventory for read-only
// engines.
func (m *Manager) Snapshot() domain.Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.items.Clone()
}

// commit applies a single-entry change (item == nil deletes key) to a copy of
// the snapshot, saves it, and swaps it in only if the save succeeded. Callers
// must hold the lock.
func (m *Manager) commit(key string, item *domain.Item) error {
	next := m.items.Clone()
	if item == nil {
		delete(next, key)
	} else {
		next[key] = *item
	}

	if err := m.store.Save(next); err != nil {
		m.logger.Error("failed to save inventory, mutation rolled back", "name", key, "error", err)
		return err
	}

	m.items = next
	return nil
}

func matches(item domain.Item, f Filter) bool {
	if f.Category != "" && item.Category != strings.ToLower(f.Category) {
		return false
	}
	if f.NameContains != "" && !strings.Contains(item.Name, strings.ToLower(f.NameContains)) {
		return false
	}
	if f.ExpiringWithin != nil {
		if item.ExpiresAt == nil {
			return false
		}
		now := f.Now
		if now.IsZero() {
			now = time.Now()
		}
		cutoff := now.AddDate(0, 0, *f.ExpiringWithin)
		if item.ExpiresAt.After(cutoff) {
			return false
		}
	}
	return true
}

func laterExpiry(a, b *time.Time) *time.Time {
	switch {
	case a == nil:
		return copyTime(b)
	case b == nil:
		return copyTime(a)
	case b.After(*a):
		return copyTime(b)
	default:
		return copyTime(a)
	}
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
