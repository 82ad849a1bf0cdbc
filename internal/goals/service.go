// Package goals implements the goal-allocation accounting engine: it tracks
// how portions of investment-account value are earmarked for savings goals,
// validates that allocations never exceed an account or its unallocated
// balance, and computes time-segmented growth per allocation.
package goals

import (
	"github.com/chipheo00/wealth-vn/internal/models"
	"github.com/chipheo00/wealth-vn/internal/types"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Service orchestrates goal and allocation lifecycle operations. Every
// public operation is synchronous; each lifecycle mutation validates and
// writes inside one transaction on the store's serialized write path.
type Service struct {
	store Store

	// today is overridable in tests
	today func() types.Date
}

func NewService(store Store) *Service {
	return &Service{
		store: store,
		today: types.Today,
	}
}

// Store exposes the underlying store for read-only pass-through queries.
func (s *Service) Store() Store {
	return s.store
}

func (s *Service) Goals() ([]models.Goal, error) {
	return s.store.Goals()
}

func (s *Service) Goal(id uuid.UUID) (models.Goal, error) {
	return s.store.Goal(id)
}

func (s *Service) CreateGoal(goal *models.Goal) error {
	return s.store.CreateGoal(goal)
}

func (s *Service) UpdateGoal(goal models.Goal) (models.Goal, error) {
	return s.store.UpdateGoal(goal)
}

// DeleteGoal removes a goal and reports the number of rows removed.
// Deleting a non-existent goal is not an error, the count is 0.
func (s *Service) DeleteGoal(id uuid.UUID) (int64, error) {
	return s.store.DeleteGoal(id)
}

// Allocations returns the allocations of all non-achieved goals.
func (s *Service) Allocations() ([]models.Allocation, error) {
	return s.store.Allocations()
}

func (s *Service) Allocation(id uuid.UUID) (models.Allocation, error) {
	return s.store.Allocation(id)
}

func (s *Service) AllocationsForGoal(goalID uuid.UUID) ([]models.Allocation, error) {
	return s.store.AllocationsForGoal(goalID)
}

func (s *Service) AllocationsForAccount(accountID string) ([]models.Allocation, error) {
	return s.store.AllocationsForAccount(accountID)
}

// AllocationsForAccountOnDate returns the account's allocations whose date
// range covers the given date.
func (s *Service) AllocationsForAccountOnDate(accountID string, date types.Date) ([]models.Allocation, error) {
	return s.store.AllocationsForAccountOnDate(accountID, date)
}

// UpsertAllocations writes a batch of allocations as insert-or-update keyed
// by their ID and returns the number of affected rows.
//
// Allocations without an explicit date range inherit their goal's timeframe:
// a missing start date is backfilled from the goal's start date, a missing
// end date from the goal's due date. Without this, undated allocations would
// be invisible to every date-range query.
func (s *Service) UpsertAllocations(allocations []models.Allocation) (int64, error) {
	var affected int64
	err := s.store.Atomically(func(tx Store) error {
		goals, err := tx.Goals()
		if err != nil {
			return err
		}

		goalsByID := make(map[uuid.UUID]models.Goal, len(goals))
		for _, goal := range goals {
			goalsByID[goal.ID] = goal
		}

		for i := range allocations {
			goal, ok := goalsByID[allocations[i].GoalID]
			if !ok {
				continue
			}

			if allocations[i].StartDate == nil {
				allocations[i].StartDate = goal.StartDate
			}

			if allocations[i].EndDate == nil {
				allocations[i].EndDate = goal.DueDate
			}
		}

		affected, err = tx.UpsertAllocations(allocations)
		return err
	})

	return affected, err
}

// NewAllocation is the payload for creating an allocation in the versioned
// scheme.
type NewAllocation struct {
	GoalID              uuid.UUID
	AccountID           string
	Amount              decimal.Decimal
	Percentage          decimal.Decimal
	Date                types.Date
	CurrentAccountValue decimal.Decimal
}

// CreateAllocation validates and persists a new allocation. The amount
// becomes both the immutable initial amount and the current allocation
// amount, and the initial open-ended version is recorded. Validations and
// both writes run in one writer transaction.
func (s *Service) CreateAllocation(create NewAllocation) (models.Allocation, error) {
	date := create.Date
	allocation := models.Allocation{
		GoalID:               create.GoalID,
		AccountID:            create.AccountID,
		InitAmount:           create.Amount,
		AllocationAmount:     create.Amount,
		AllocationPercentage: create.Percentage,
		AllocationDate:       &date,
	}

	err := s.store.Atomically(func(tx Store) error {
		err := validateAllocationPercentages(tx, create.AccountID, create.Percentage, nil)
		if err != nil {
			return err
		}

		err = validateUnallocatedBalance(tx, create.AccountID, create.Amount, create.CurrentAccountValue)
		if err != nil {
			return err
		}

		err = validateHistoricalAllocation(tx, create.AccountID, create.Amount, create.Date, create.CurrentAccountValue)
		if err != nil {
			return err
		}

		err = tx.CreateAllocation(&allocation)
		if err != nil {
			return err
		}

		version := models.AllocationVersion{
			AllocationID: allocation.ID,
			Percentage:   create.Percentage,
			Amount:       create.Amount,
			StartDate:    date,
		}

		return tx.CreateAllocationVersion(&version)
	})
	if err != nil {
		return models.Allocation{}, err
	}

	return allocation, nil
}

// UpdateAllocationAmount changes the current allocation amount after
// checking that the account's unallocated balance covers the change. The
// allocation's own current amount does not count against itself.
func (s *Service) UpdateAllocationAmount(id uuid.UUID, newAmount, currentAccountValue decimal.Decimal) (models.Allocation, error) {
	var updated models.Allocation
	err := s.store.Atomically(func(tx Store) error {
		allocation, err := tx.Allocation(id)
		if err != nil {
			return err
		}

		unallocated, err := unallocatedBalance(tx, allocation.AccountID, currentAccountValue)
		if err != nil {
			return err
		}

		available := unallocated.Add(allocation.AllocationAmount)
		if newAmount.GreaterThan(available) {
			return newValidationError(
				"allocation amount $%s exceeds available unallocated balance $%s",
				newAmount.String(), available.StringFixed(2),
			)
		}

		allocation.AllocationAmount = newAmount
		updated, err = tx.UpdateAllocation(allocation)
		return err
	})
	if err != nil {
		return models.Allocation{}, err
	}

	return updated, nil
}

// UpdateAllocationPercentage changes the allocation's percentage effective
// on the given date. The open version is closed off on that date and a new
// open-ended version starts there, so growth before the change keeps
// accruing at the old rate. Closing the old version, opening the new one and
// updating the allocation run in one writer transaction.
func (s *Service) UpdateAllocationPercentage(id uuid.UUID, newPercentage decimal.Decimal, effective types.Date) (models.Allocation, error) {
	if effective.IsZero() {
		effective = s.today()
	}

	var updated models.Allocation
	err := s.store.Atomically(func(tx Store) error {
		allocation, err := tx.Allocation(id)
		if err != nil {
			return err
		}

		err = validateAllocationPercentages(tx, allocation.AccountID, newPercentage, &id)
		if err != nil {
			return err
		}

		versions, err := tx.AllocationVersions(id)
		if err != nil {
			return err
		}

		for _, version := range versions {
			if version.EndDate == nil {
				err = tx.CloseAllocationVersion(version.ID, effective)
				if err != nil {
					return err
				}
			}
		}

		version := models.AllocationVersion{
			AllocationID: id,
			Percentage:   newPercentage,
			Amount:       allocation.AllocationAmount,
			StartDate:    effective,
		}

		err = tx.CreateAllocationVersion(&version)
		if err != nil {
			return err
		}

		allocation.AllocationPercentage = newPercentage
		updated, err = tx.UpdateAllocation(allocation)
		return err
	})
	if err != nil {
		return models.Allocation{}, err
	}

	return updated, nil
}

// UpdateAllocation is a pass-through write. Callers are responsible for
// running the validators first.
func (s *Service) UpdateAllocation(allocation models.Allocation) (models.Allocation, error) {
	return s.store.UpdateAllocation(allocation)
}

// DeleteAllocation removes an allocation and reports the number of rows
// removed. Deleting a non-existent allocation is not an error, the count
// is 0.
func (s *Service) DeleteAllocation(id uuid.UUID) (int64, error) {
	return s.store.DeleteAllocation(id)
}

// AllocationVersions returns an allocation's version history, ordered by
// start date ascending.
func (s *Service) AllocationVersions(allocationID uuid.UUID) ([]models.AllocationVersion, error) {
	return s.store.AllocationVersions(allocationID)
}

// InsertAllocationVersion is a pass-through write for callers managing
// version history themselves.
func (s *Service) InsertAllocationVersion(version *models.AllocationVersion) error {
	return s.store.CreateAllocationVersion(version)
}
