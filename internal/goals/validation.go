package goals

import (
	"fmt"

	"github.com/chipheo00/wealth-vn/internal/types"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ValidationError is a recoverable business-rule violation. It is always
// detected before any write is issued, so a failed validation never leaves
// partial state behind. Callers should surface the message to the user.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func newValidationError(format string, args ...any) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// ValidateAllocationConflicts checks that a date-ranged allocation does not
// push the account's percentage sum over 100 during its active window. Two
// ranges overlap when start <= newEnd and end >= newStart. Overlapping
// allocations count with their AllocationPercentage; allocations without
// both dates are never active and are skipped, as is the allocation
// identified by excludeID (set when re-validating an update).
//
// Deprecated: this operates on the legacy date-range scheme and is retained
// for backward compatibility. Use ValidateAllocationPercentages for the
// versioned scheme.
func (s *Service) ValidateAllocationConflicts(accountID string, newStart, newEnd types.Date, newPercent int, excludeID *uuid.UUID) error {
	return validateAllocationConflicts(s.store, accountID, newStart, newEnd, newPercent, excludeID)
}

func validateAllocationConflicts(store Store, accountID string, newStart, newEnd types.Date, newPercent int, excludeID *uuid.UUID) error {
	allocations, err := store.Allocations()
	if err != nil {
		return err
	}

	total := decimal.NewFromInt(int64(newPercent))

	for _, allocation := range allocations {
		if allocation.AccountID != accountID {
			continue
		}

		if allocation.StartDate == nil || allocation.EndDate == nil {
			continue
		}

		if allocation.StartDate.After(newEnd) || allocation.EndDate.Before(newStart) {
			continue
		}

		if excludeID != nil && allocation.ID == *excludeID {
			continue
		}

		total = total.Add(allocation.AllocationPercentage)
	}

	if total.GreaterThan(hundred) {
		return newValidationError(
			"total allocation %s%% exceeds 100%% on account %s during this period",
			total.StringFixed(1), accountID,
		)
	}

	return nil
}

// ValidateAllocationPercentages checks that the account's percentage sum
// stays at or below 100 when newPercentage is added. It deliberately ignores
// date ranges: with at most one active version per allocation, every stored
// allocation counts.
func (s *Service) ValidateAllocationPercentages(accountID string, newPercentage decimal.Decimal, excludeID *uuid.UUID) error {
	return validateAllocationPercentages(s.store, accountID, newPercentage, excludeID)
}

func validateAllocationPercentages(store Store, accountID string, newPercentage decimal.Decimal, excludeID *uuid.UUID) error {
	allocations, err := store.AllocationsForAccount(accountID)
	if err != nil {
		return err
	}

	total := newPercentage

	for _, allocation := range allocations {
		if excludeID != nil && allocation.ID == *excludeID {
			continue
		}

		total = total.Add(allocation.AllocationPercentage)
	}

	if total.GreaterThan(hundred) {
		return newValidationError(
			"total allocation percentage %s%% exceeds 100%% on account %s",
			total.StringFixed(1), accountID,
		)
	}

	return nil
}

// UnallocatedBalance returns the part of the account's current value that no
// allocation claims. It never goes below zero.
func (s *Service) UnallocatedBalance(accountID string, currentAccountValue decimal.Decimal) (decimal.Decimal, error) {
	return unallocatedBalance(s.store, accountID, currentAccountValue)
}

func unallocatedBalance(store Store, accountID string, currentAccountValue decimal.Decimal) (decimal.Decimal, error) {
	allocations, err := store.AllocationsForAccount(accountID)
	if err != nil {
		return decimal.Zero, err
	}

	allocated := decimal.Zero
	for _, allocation := range allocations {
		allocated = allocated.Add(allocation.AllocationAmount)
	}

	unallocated := currentAccountValue.Sub(allocated)
	if unallocated.IsNegative() {
		return decimal.Zero, nil
	}

	return unallocated, nil
}

// ValidateUnallocatedBalance checks that the account's unallocated balance
// covers the proposed allocation amount.
func (s *Service) ValidateUnallocatedBalance(accountID string, allocationAmount, currentAccountValue decimal.Decimal) error {
	return validateUnallocatedBalance(s.store, accountID, allocationAmount, currentAccountValue)
}

func validateUnallocatedBalance(store Store, accountID string, allocationAmount, currentAccountValue decimal.Decimal) error {
	unallocated, err := unallocatedBalance(store, accountID, currentAccountValue)
	if err != nil {
		return err
	}

	if allocationAmount.GreaterThan(unallocated) {
		return newValidationError(
			"allocation amount $%s exceeds available unallocated balance $%s",
			allocationAmount.String(), unallocated.StringFixed(2),
		)
	}

	return nil
}

// ValidateHistoricalAllocation checks that adding the proposed amount on
// asOf would not have exceeded the account value on that date. Every
// allocation dated on or before asOf counts as still active; there is no
// deactivation date to consult, so this over-counts rather than
// under-counts.
func (s *Service) ValidateHistoricalAllocation(accountID string, allocationAmount decimal.Decimal, asOf types.Date, accountValueAtDate decimal.Decimal) error {
	return validateHistoricalAllocation(s.store, accountID, allocationAmount, asOf, accountValueAtDate)
}

func validateHistoricalAllocation(store Store, accountID string, allocationAmount decimal.Decimal, asOf types.Date, accountValueAtDate decimal.Decimal) error {
	allocations, err := store.AllocationsForAccount(accountID)
	if err != nil {
		return err
	}

	total := decimal.Zero
	for _, allocation := range allocations {
		if allocation.AllocationDate == nil {
			continue
		}

		if !allocation.AllocationDate.After(asOf) {
			total = total.Add(allocation.InitAmount)
		}
	}

	total = total.Add(allocationAmount)

	if total.GreaterThan(accountValueAtDate) {
		return newValidationError(
			"on %s, total allocation $%s would exceed account value $%s",
			asOf, total.StringFixed(2), accountValueAtDate.StringFixed(2),
		)
	}

	return nil
}
