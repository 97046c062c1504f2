package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for the recoverable inventory failure modes. Callers match
// them with errors.Is.
var (
	ErrItemNotFound         = errors.New("item not found")
	ErrInsufficientQuantity = errors.New("insufficient quantity")
	ErrPlanNotFound         = errors.New("meal plan not found")
)

// ValidationError reports rejected input (bad quantity, expiry before
// acquisition, empty name). The inventory is never changed by a rejected
// operation.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// UnitMismatchError reports a merge or comparison between units with no
// conversion rule (e.g. count vs volume).
type UnitMismatchError struct {
	Name string
	Have string
	Got  string
}

func (e *UnitMismatchError) Error() string {
	return fmt.Sprintf("unit mismatch for %q: have %q, got %q", e.Name, e.Have, e.Got)
}

// CorruptStoreError means the inventory file exists but cannot be parsed.
type CorruptStoreError struct {
	Path string
	Err  error
}

func (e *CorruptStoreError) Error() string {
	return fmt.Sprintf("corrupt inventory file %s: %v", e.Path, e.Err)
}

func (e *CorruptStoreError) Unwrap() error { return e.Err }

// StoreWriteError means the inventory file could not be durably written. The
// in-memory mutation that triggered the save is rolled back.
type StoreWriteError struct {
	Path string
	Err  error
}

func (e *StoreWriteError) Error() string {
	return fmt.Sprintf("failed to write inventory file %s: %v", e.Path, e.Err)
}

func (e *StoreWriteError) Unwrap() error { return e.Err }

// ProviderError wraps a failed, timed-out, or malformed meal-planner call.
// Provider failures never disturb local inventory state.
type ProviderError struct {
	Backend string
	Err     error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("meal planner %s: %v", e.Backend, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// MalformedPlanError means the provider responded, but the response does not
// conform to the expected plan shape. Detected by validation, before any
// reconciliation lookups.
type MalformedPlanError struct {
	Reason string
}

func (e *MalformedPlanError) Error() string {
	return fmt.Sprintf("malformed meal plan: %s", e.Reason)
}
