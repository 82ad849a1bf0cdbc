package goals_test

import (
	"errors"
	"time"

	"github.com/chipheo00/wealth-vn/internal/goals"
	"github.com/chipheo00/wealth-vn/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func (suite *TestSuiteStandard) TestGoalProgressOnDate() {
	t := suite.T()

	start := date(2024, time.January, 1)
	end := date(2024, time.December, 31)
	goal := suite.createTestGoal(models.Goal{Title: "House", StartDate: &start})

	suite.createTestAllocation(models.Allocation{
		GoalID:            goal.ID,
		AccountID:         "account-1",
		PercentAllocation: 50,
		StartDate:         &start,
		EndDate:           &end,
	})

	snapshot, err := suite.service.GoalProgressOnDate(
		goal,
		map[string]decimal.Decimal{"account-1": decimal.NewFromFloat(1000)},
		map[string]decimal.Decimal{"account-1": decimal.NewFromFloat(1400)},
		date(2024, time.June, 1),
	)

	assert.Nil(t, err)
	assert.Equal(t, goal.ID, snapshot.GoalID)
	assert.Equal(t, "House", snapshot.GoalTitle)
	assert.True(t, snapshot.InitValue.IsZero())
	assert.True(t, snapshot.Growth.Equal(decimal.NewFromFloat(200)), "growth is %s", snapshot.Growth)
	assert.True(t, snapshot.CurrentValue.Equal(snapshot.Growth), "current value equals growth")

	suite.Require().Len(snapshot.AllocationDetails, 1)
	detail := snapshot.AllocationDetails[0]
	assert.Equal(t, "account-1", detail.AccountID)
	assert.Equal(t, 50, detail.PercentAllocation)
	assert.True(t, detail.AccountGrowth.Equal(decimal.NewFromFloat(400)), "account growth is %s", detail.AccountGrowth)
	assert.True(t, detail.AllocatedGrowth.Equal(decimal.NewFromFloat(200)), "allocated growth is %s", detail.AllocatedGrowth)
}

func (suite *TestSuiteStandard) TestGoalProgressOnDateNoActiveAllocations() {
	t := suite.T()

	start := date(2024, time.January, 1)
	goal := suite.createTestGoal(models.Goal{Title: "House", StartDate: &start})

	// An allocation whose window does not contain the query date
	end := date(2024, time.March, 31)
	suite.createTestAllocation(models.Allocation{
		GoalID:            goal.ID,
		AccountID:         "account-1",
		PercentAllocation: 50,
		StartDate:         &start,
		EndDate:           &end,
	})

	snapshot, err := suite.service.GoalProgressOnDate(
		goal,
		map[string]decimal.Decimal{"account-1": decimal.NewFromFloat(1000)},
		map[string]decimal.Decimal{"account-1": decimal.NewFromFloat(1400)},
		date(2024, time.June, 1),
	)

	assert.Nil(t, err, "no active allocations is not an error")
	assert.True(t, snapshot.Growth.IsZero())
	assert.Empty(t, snapshot.AllocationDetails)
	assert.NotNil(t, snapshot.AllocationDetails, "the breakdown must render as an empty list")
}

func (suite *TestSuiteStandard) TestGoalProgressOnDateMissingStartDate() {
	goal := suite.createTestGoal(models.Goal{Title: "House"})

	_, err := suite.service.GoalProgressOnDate(goal, nil, nil, date(2024, time.June, 1))

	var validationErr *goals.ValidationError
	assert.True(suite.T(), errors.As(err, &validationErr), "missing start date must be a validation error, got %v", err)
}

func (suite *TestSuiteStandard) TestGoalProgressOnDateMissingAccountValues() {
	t := suite.T()

	start := date(2024, time.January, 1)
	end := date(2024, time.December, 31)
	goal := suite.createTestGoal(models.Goal{Title: "House", StartDate: &start})

	suite.createTestAllocation(models.Allocation{
		GoalID:            goal.ID,
		AccountID:         "account-1",
		PercentAllocation: 50,
		StartDate:         &start,
		EndDate:           &end,
	})

	// Missing accounts default to zero on both sides
	snapshot, err := suite.service.GoalProgressOnDate(goal, map[string]decimal.Decimal{}, map[string]decimal.Decimal{}, date(2024, time.June, 1))

	assert.Nil(t, err)
	assert.True(t, snapshot.Growth.IsZero())
	suite.Require().Len(snapshot.AllocationDetails, 1)
	assert.True(t, snapshot.AllocationDetails[0].AccountGrowth.IsZero())
}

func (suite *TestSuiteStandard) TestGoalAllocationsOnDate() {
	t := suite.T()

	start := date(2024, time.January, 1)
	end := date(2024, time.December, 31)
	goal := suite.createTestGoal(models.Goal{Title: "House", StartDate: &start})

	dated := suite.createTestAllocation(models.Allocation{
		GoalID:    goal.ID,
		AccountID: "account-1",
		StartDate: &start,
		EndDate:   &end,
	})

	// Another goal's allocation must not show up
	suite.createTestAllocation(models.Allocation{
		AccountID: "account-1",
		StartDate: &start,
		EndDate:   &end,
	})

	active, err := suite.service.GoalAllocationsOnDate(goal.ID, date(2024, time.June, 1))
	assert.Nil(t, err)
	suite.Require().Len(active, 1)
	assert.Equal(t, dated.ID, active[0].ID)

	active, err = suite.service.GoalAllocationsOnDate(goal.ID, date(2025, time.June, 1))
	assert.Nil(t, err)
	assert.Empty(t, active)
}
