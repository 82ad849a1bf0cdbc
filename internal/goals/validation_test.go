package goals_test

import (
	"errors"
	"time"

	"github.com/chipheo00/wealth-vn/internal/goals"
	"github.com/chipheo00/wealth-vn/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func (suite *TestSuiteStandard) TestValidateAllocationPercentagesCapExceeded() {
	t := suite.T()

	existing := suite.createTestAllocation(models.Allocation{
		AccountID:            "account-1",
		AllocationPercentage: decimal.NewFromFloat(60),
	})

	err := suite.service.ValidateAllocationPercentages("account-1", decimal.NewFromFloat(50), nil)

	var validationErr *goals.ValidationError
	assert.ErrorAs(t, err, &validationErr)
	assert.Contains(t, validationErr.Message, "110.0%", "sum must be reported")
	assert.Contains(t, validationErr.Message, "account-1")

	// Excluding the existing allocation re-validates an in-place update
	err = suite.service.ValidateAllocationPercentages("account-1", decimal.NewFromFloat(50), &existing.ID)
	assert.Nil(t, err)

	// Other accounts are unaffected
	err = suite.service.ValidateAllocationPercentages("account-2", decimal.NewFromFloat(50), nil)
	assert.Nil(t, err)
}

func (suite *TestSuiteStandard) TestValidateAllocationPercentagesExactCap() {
	suite.createTestAllocation(models.Allocation{
		AccountID:            "account-1",
		AllocationPercentage: decimal.NewFromFloat(60),
	})

	// Exactly 100% is allowed
	err := suite.service.ValidateAllocationPercentages("account-1", decimal.NewFromFloat(40), nil)
	assert.Nil(suite.T(), err)
}

func (suite *TestSuiteStandard) TestValidateAllocationConflicts() {
	t := suite.T()

	start := date(2024, time.January, 1)
	end := date(2024, time.December, 31)

	existing := suite.createTestAllocation(models.Allocation{
		AccountID:            "account-1",
		StartDate:            &start,
		EndDate:              &end,
		AllocationPercentage: decimal.NewFromFloat(60),
	})

	// Overlapping window exceeding the cap
	err := suite.service.ValidateAllocationConflicts("account-1", date(2024, time.June, 1), date(2025, time.June, 1), 50, nil)
	var validationErr *goals.ValidationError
	assert.ErrorAs(t, err, &validationErr)
	assert.Contains(t, validationErr.Message, "110.0%")

	// Non-overlapping window is fine
	err = suite.service.ValidateAllocationConflicts("account-1", date(2025, time.January, 1), date(2025, time.December, 31), 50, nil)
	assert.Nil(t, err)

	// Excluding the conflicting allocation is fine
	err = suite.service.ValidateAllocationConflicts("account-1", date(2024, time.June, 1), date(2025, time.June, 1), 50, &existing.ID)
	assert.Nil(t, err)
}

func (suite *TestSuiteStandard) TestValidateAllocationConflictsUndatedSkipped() {
	// An allocation without a date range is never active in the legacy scheme
	suite.createTestAllocation(models.Allocation{
		AccountID:            "account-1",
		AllocationPercentage: decimal.NewFromFloat(60),
	})

	err := suite.service.ValidateAllocationConflicts("account-1", date(2024, time.January, 1), date(2024, time.December, 31), 50, nil)
	assert.Nil(suite.T(), err)
}

func (suite *TestSuiteStandard) TestUnallocatedBalance() {
	t := suite.T()

	goal := suite.createTestGoal(models.Goal{Title: "House"})
	suite.createTestAllocation(models.Allocation{
		GoalID:           goal.ID,
		AccountID:        "account-1",
		AllocationAmount: decimal.NewFromFloat(400),
	})
	suite.createTestAllocation(models.Allocation{
		GoalID:           goal.ID,
		AccountID:        "account-1",
		AllocationAmount: decimal.NewFromFloat(300),
	})

	unallocated, err := suite.service.UnallocatedBalance("account-1", decimal.NewFromFloat(1000))
	assert.Nil(t, err)
	assert.True(t, unallocated.Equal(decimal.NewFromFloat(300)), "unallocated is %s", unallocated)

	// Never negative
	unallocated, err = suite.service.UnallocatedBalance("account-1", decimal.NewFromFloat(500))
	assert.Nil(t, err)
	assert.True(t, unallocated.IsZero(), "unallocated is %s", unallocated)
}

func (suite *TestSuiteStandard) TestValidateUnallocatedBalance() {
	t := suite.T()

	suite.createTestAllocation(models.Allocation{
		AccountID:        "account-1",
		AllocationAmount: decimal.NewFromFloat(700),
	})

	// 400 exceeds the remaining 300
	err := suite.service.ValidateUnallocatedBalance("account-1", decimal.NewFromFloat(400), decimal.NewFromFloat(1000))
	var validationErr *goals.ValidationError
	assert.ErrorAs(t, err, &validationErr)
	assert.Contains(t, validationErr.Message, "300.00")

	// 300 fits exactly
	err = suite.service.ValidateUnallocatedBalance("account-1", decimal.NewFromFloat(300), decimal.NewFromFloat(1000))
	assert.Nil(t, err)
}

func (suite *TestSuiteStandard) TestValidateHistoricalAllocation() {
	t := suite.T()

	early := date(2024, time.January, 1)
	late := date(2024, time.June, 1)

	suite.createTestAllocation(models.Allocation{
		AccountID:      "account-1",
		InitAmount:     decimal.NewFromFloat(600),
		AllocationDate: &early,
	})
	suite.createTestAllocation(models.Allocation{
		AccountID:      "account-1",
		InitAmount:     decimal.NewFromFloat(500),
		AllocationDate: &late,
	})

	// On 2024-03-01 only the first allocation was active: 600 + 300 <= 1000
	err := suite.service.ValidateHistoricalAllocation("account-1", decimal.NewFromFloat(300), date(2024, time.March, 1), decimal.NewFromFloat(1000))
	assert.Nil(t, err)

	// On 2024-07-01 both count: 600 + 500 + 300 > 1000
	err = suite.service.ValidateHistoricalAllocation("account-1", decimal.NewFromFloat(300), date(2024, time.July, 1), decimal.NewFromFloat(1000))
	var validationErr *goals.ValidationError
	assert.ErrorAs(t, err, &validationErr)
	assert.Contains(t, validationErr.Message, "1400.00")
}

func (suite *TestSuiteStandard) TestValidationDoesNotWrite() {
	t := suite.T()

	suite.createTestAllocation(models.Allocation{
		AccountID:            "account-1",
		AllocationPercentage: decimal.NewFromFloat(60),
	})

	err := suite.service.ValidateAllocationPercentages("account-1", decimal.NewFromFloat(50), nil)
	assert.NotNil(t, err)

	// A failed validation must not alter stored state
	allocations, err := suite.service.AllocationsForAccount("account-1")
	assert.Nil(t, err)
	assert.Len(t, allocations, 1)
	assert.True(t, allocations[0].AllocationPercentage.Equal(decimal.NewFromFloat(60)))
}

func (suite *TestSuiteStandard) TestValidateAllocationPercentagesStoreError() {
	sqlDB, _ := models.DB.DB()
	sqlDB.Close()

	err := suite.service.ValidateAllocationPercentages("account-1", decimal.NewFromFloat(50), nil)
	assert.NotNil(suite.T(), err)

	var validationErr *goals.ValidationError
	assert.False(suite.T(), errors.As(err, &validationErr), "store errors must not be validation errors")
}
