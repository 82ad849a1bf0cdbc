package goals

import (
	"github.com/chipheo00/wealth-vn/internal/models"
	"github.com/chipheo00/wealth-vn/internal/types"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/exp/slices"
)

// AllocationDetail is the per-allocation breakdown of a progress snapshot.
type AllocationDetail struct {
	AccountID               string          `json:"accountId"`
	PercentAllocation       int             `json:"percentAllocation"`
	AccountValueAtGoalStart decimal.Decimal `json:"accountValueAtGoalStart"`
	AccountCurrentValue     decimal.Decimal `json:"accountCurrentValue"`
	AccountGrowth           decimal.Decimal `json:"accountGrowth"`
	AllocatedGrowth         decimal.Decimal `json:"allocatedGrowth"`
}

// ProgressSnapshot is the point-in-time progress of a goal. InitValue is
// always zero: progress is tracked purely as accumulated growth, not as
// absolute principal.
type ProgressSnapshot struct {
	GoalID            uuid.UUID          `json:"goalId"`
	GoalTitle         string             `json:"goalTitle"`
	QueryDate         types.Date         `json:"queryDate"`
	InitValue         decimal.Decimal    `json:"initValue"`
	CurrentValue      decimal.Decimal    `json:"currentValue"`
	Growth            decimal.Decimal    `json:"growth"`
	AllocationDetails []AllocationDetail `json:"allocationDetails"`
}

// GoalAllocationsOnDate returns the goal's allocations whose date window
// contains queryDate. Allocations without both dates are never active.
func (s *Service) GoalAllocationsOnDate(goalID uuid.UUID, queryDate types.Date) ([]models.Allocation, error) {
	allocations, err := s.store.AllocationsForGoal(goalID)
	if err != nil {
		return nil, err
	}

	active := make([]models.Allocation, 0, len(allocations))
	for _, allocation := range allocations {
		if allocation.StartDate == nil || allocation.EndDate == nil {
			continue
		}

		if allocation.StartDate.After(queryDate) || allocation.EndDate.Before(queryDate) {
			continue
		}

		active = append(active, allocation)
	}

	return active, nil
}

// GoalProgressOnDate computes the goal's progress on queryDate from the
// caller-supplied account value snapshots. valuesAtStart maps account IDs to
// their value at the goal's start date, currentValues to their value on
// queryDate; missing accounts count as zero. A goal with no active
// allocations yields a zero-growth snapshot.
func (s *Service) GoalProgressOnDate(goal models.Goal, valuesAtStart, currentValues map[string]decimal.Decimal, queryDate types.Date) (ProgressSnapshot, error) {
	if goal.StartDate == nil {
		return ProgressSnapshot{}, newValidationError("goal %s must have a start date", goal.ID)
	}

	active, err := s.GoalAllocationsOnDate(goal.ID, queryDate)
	if err != nil {
		return ProgressSnapshot{}, err
	}

	// Deterministic breakdown order
	slices.SortFunc(active, func(a, b models.Allocation) int {
		switch {
		case a.AccountID < b.AccountID:
			return -1
		case a.AccountID > b.AccountID:
			return 1
		default:
			return 0
		}
	})

	totalGrowth := decimal.Zero
	details := make([]AllocationDetail, 0, len(active))

	for _, allocation := range active {
		valueAtStart := valuesAtStart[allocation.AccountID]
		currentValue := currentValues[allocation.AccountID]

		accountGrowth := currentValue.Sub(valueAtStart)
		percent := decimal.NewFromInt(int64(allocation.PercentAllocation))
		allocatedGrowth := accountGrowth.Mul(percent).Div(hundred)

		totalGrowth = totalGrowth.Add(allocatedGrowth)

		details = append(details, AllocationDetail{
			AccountID:               allocation.AccountID,
			PercentAllocation:       allocation.PercentAllocation,
			AccountValueAtGoalStart: valueAtStart,
			AccountCurrentValue:     currentValue,
			AccountGrowth:           accountGrowth,
			AllocatedGrowth:         allocatedGrowth,
		})
	}

	return ProgressSnapshot{
		GoalID:            goal.ID,
		GoalTitle:         goal.Title,
		QueryDate:         queryDate,
		InitValue:         decimal.Zero,
		CurrentValue:      totalGrowth,
		Growth:            totalGrowth,
		AllocationDetails: details,
	}, nil
}
