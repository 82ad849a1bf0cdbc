package v1_test

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	v1 "github.com/chipheo00/wealth-vn/internal/controllers/v1"
	"github.com/chipheo00/wealth-vn/test"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func (suite *TestSuiteStandard) TestAllocationsOptions() {
	r := suite.request(http.MethodOptions, "http://example.com/v1/allocations", "")
	test.AssertHTTPStatus(suite.T(), http.StatusNoContent, &r)
	assert.Equal(suite.T(), "GET, POST, PUT", r.Header().Get("allow"))
}

// TestAllocationOptions verifies that OPTIONS requests are handled correctly.
func (suite *TestSuiteStandard) TestAllocationOptions() {
	tests := []struct {
		name   string
		id     string // path at the allocations endpoint to test
		status int    // Expected HTTP status code
	}{
		{"No allocation with this ID", uuid.New().String(), http.StatusNotFound},
		{"Not a valid UUID", "NotParseableAsUUID", http.StatusBadRequest},
		{"Allocation exists", suite.createTestAllocation(v1.AllocationUpsert{AllocationEditable: v1.AllocationEditable{AccountID: "account-1"}}).Data.ID.String(), http.StatusNoContent},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			path := fmt.Sprintf("http://example.com/v1/allocations/%s", tt.id)
			r := suite.request(http.MethodOptions, path, "")
			test.AssertHTTPStatus(t, tt.status, &r)
		})
	}
}

func (suite *TestSuiteStandard) TestGetAllocationsEmpty() {
	t := suite.T()

	r := suite.request(http.MethodGet, "http://example.com/v1/allocations", "")
	test.AssertHTTPStatus(t, http.StatusOK, &r)
	assert.JSONEq(t, `{ "data": [], "error": null }`, r.Body.String())
}

// POST creates a validated allocation with an initial open version.
func (suite *TestSuiteStandard) TestCreateAllocation() {
	t := suite.T()

	goal := suite.createTestGoal(v1.GoalEditable{Title: "House"})

	r := suite.request(http.MethodPost, "http://example.com/v1/allocations", v1.AllocationCreateRequest{
		GoalID:              goal.Data.ID,
		AccountID:           "account-1",
		Amount:              decimal.NewFromFloat(500),
		Percentage:          decimal.NewFromFloat(50),
		Date:                date(2024, time.January, 1),
		CurrentAccountValue: decimal.NewFromFloat(1000),
	})
	test.AssertHTTPStatus(t, http.StatusCreated, &r)

	var response v1.AllocationResponse
	test.DecodeResponse(t, &r, &response)
	suite.Require().NotNil(response.Data)
	assert.True(t, response.Data.InitAmount.Equal(decimal.NewFromFloat(500)))
	assert.True(t, response.Data.AllocationAmount.Equal(decimal.NewFromFloat(500)))

	// The initial version is recorded
	r = suite.request(http.MethodGet, response.Data.Links.Versions, "")
	test.AssertHTTPStatus(t, http.StatusOK, &r)

	var versions v1.AllocationVersionListResponse
	test.DecodeResponse(t, &r, &versions)
	suite.Require().Len(versions.Data, 1)
	assert.True(t, versions.Data[0].Percentage.Equal(decimal.NewFromFloat(50)))
	assert.Nil(t, versions.Data[0].EndDate)
}

// An allocation that does not pass validation is rejected with the
// validator's message.
func (suite *TestSuiteStandard) TestCreateAllocationRejected() {
	t := suite.T()

	goal := suite.createTestGoal(v1.GoalEditable{Title: "House"})
	suite.createTestAllocation(v1.AllocationUpsert{
		AllocationEditable: v1.AllocationEditable{
			GoalID:               goal.Data.ID,
			AccountID:            "account-1",
			AllocationAmount:     decimal.NewFromFloat(700),
			AllocationPercentage: decimal.NewFromFloat(60),
		},
	})

	r := suite.request(http.MethodPost, "http://example.com/v1/allocations", v1.AllocationCreateRequest{
		GoalID:              goal.Data.ID,
		AccountID:           "account-1",
		Amount:              decimal.NewFromFloat(400),
		Percentage:          decimal.NewFromFloat(10),
		Date:                date(2024, time.January, 1),
		CurrentAccountValue: decimal.NewFromFloat(1000),
	})
	test.AssertHTTPStatus(t, http.StatusBadRequest, &r)

	var response v1.AllocationResponse
	test.DecodeResponse(t, &r, &response)
	suite.Require().NotNil(response.Error)
	assert.Contains(t, *response.Error, "exceeds available unallocated balance")
}

// PUT upserts allocations and backfills missing dates from the goal.
func (suite *TestSuiteStandard) TestUpsertAllocations() {
	t := suite.T()

	start := date(2024, time.January, 1)
	due := date(2025, time.January, 1)
	goal := suite.createTestGoal(v1.GoalEditable{
		Title:     "World trip",
		StartDate: &start,
		DueDate:   &due,
	})

	id := uuid.New()
	r := suite.request(http.MethodPut, "http://example.com/v1/allocations", []v1.AllocationUpsert{{
		ID: id,
		AllocationEditable: v1.AllocationEditable{
			GoalID:    goal.Data.ID,
			AccountID: "account-1",
		},
	}})
	test.AssertHTTPStatus(t, http.StatusOK, &r)

	var count v1.CountResponse
	test.DecodeResponse(t, &r, &count)
	suite.Require().NotNil(count.Data)
	assert.Equal(t, int64(1), *count.Data)

	r = suite.request(http.MethodGet, fmt.Sprintf("http://example.com/v1/allocations/%s", id), "")
	test.AssertHTTPStatus(t, http.StatusOK, &r)

	var response v1.AllocationResponse
	test.DecodeResponse(t, &r, &response)
	suite.Require().NotNil(response.Data.StartDate)
	suite.Require().NotNil(response.Data.EndDate)
	assert.True(t, response.Data.StartDate.Equal(start))
	assert.True(t, response.Data.EndDate.Equal(due))
}

func (suite *TestSuiteStandard) TestGetAllocationsForAccount() {
	t := suite.T()

	suite.createTestAllocation(v1.AllocationUpsert{AllocationEditable: v1.AllocationEditable{AccountID: "account-1"}})
	suite.createTestAllocation(v1.AllocationUpsert{AllocationEditable: v1.AllocationEditable{AccountID: "account-2"}})

	r := suite.request(http.MethodGet, "http://example.com/v1/allocations?account=account-1", "")
	test.AssertHTTPStatus(t, http.StatusOK, &r)

	var response v1.AllocationListResponse
	test.DecodeResponse(t, &r, &response)
	suite.Require().Len(response.Data, 1)
	assert.Equal(t, "account-1", response.Data[0].AccountID)
}

func (suite *TestSuiteStandard) TestGetAllocationsForAccountOnDate() {
	t := suite.T()

	start := date(2024, time.January, 1)
	end := date(2024, time.June, 30)
	covered := suite.createTestAllocation(v1.AllocationUpsert{
		AllocationEditable: v1.AllocationEditable{
			AccountID: "account-1",
			StartDate: &start,
			EndDate:   &end,
		},
	})

	laterStart := date(2024, time.July, 1)
	laterEnd := date(2024, time.December, 31)
	suite.createTestAllocation(v1.AllocationUpsert{
		AllocationEditable: v1.AllocationEditable{
			AccountID: "account-1",
			StartDate: &laterStart,
			EndDate:   &laterEnd,
		},
	})

	r := suite.request(http.MethodGet, "http://example.com/v1/allocations?account=account-1&date=2024-03-01", "")
	test.AssertHTTPStatus(t, http.StatusOK, &r)

	var response v1.AllocationListResponse
	test.DecodeResponse(t, &r, &response)
	suite.Require().Len(response.Data, 1)
	assert.Equal(t, covered.Data.ID, response.Data[0].ID)

	// A date outside every window matches nothing
	r = suite.request(http.MethodGet, "http://example.com/v1/allocations?account=account-1&date=2025-03-01", "")
	test.AssertHTTPStatus(t, http.StatusOK, &r)
	test.DecodeResponse(t, &r, &response)
	assert.Len(t, response.Data, 0)

	// An unparseable date is a client error
	r = suite.request(http.MethodGet, "http://example.com/v1/allocations?account=account-1&date=tomorrow", "")
	test.AssertHTTPStatus(t, http.StatusBadRequest, &r)
}

// PATCH with an amount revalidates against the unallocated balance.
func (suite *TestSuiteStandard) TestUpdateAllocationAmount() {
	t := suite.T()

	created := suite.createTestAllocation(v1.AllocationUpsert{
		AllocationEditable: v1.AllocationEditable{
			AccountID:        "account-1",
			AllocationAmount: decimal.NewFromFloat(700),
		},
	})

	r := suite.request(http.MethodPatch, created.Data.Links.Self, map[string]any{
		"allocationAmount":    "900",
		"currentAccountValue": "1000",
	})
	test.AssertHTTPStatus(t, http.StatusOK, &r)

	var response v1.AllocationResponse
	test.DecodeResponse(t, &r, &response)
	assert.True(t, response.Data.AllocationAmount.Equal(decimal.NewFromFloat(900)))

	// Exceeding the account value is rejected
	r = suite.request(http.MethodPatch, created.Data.Links.Self, map[string]any{
		"allocationAmount":    "1100",
		"currentAccountValue": "1000",
	})
	test.AssertHTTPStatus(t, http.StatusBadRequest, &r)
}

// PATCH with a percentage closes the open version and opens a new one.
func (suite *TestSuiteStandard) TestUpdateAllocationPercentage() {
	t := suite.T()

	goal := suite.createTestGoal(v1.GoalEditable{Title: "House"})

	r := suite.request(http.MethodPost, "http://example.com/v1/allocations", v1.AllocationCreateRequest{
		GoalID:              goal.Data.ID,
		AccountID:           "account-1",
		Amount:              decimal.NewFromFloat(500),
		Percentage:          decimal.NewFromFloat(50),
		Date:                date(2024, time.January, 1),
		CurrentAccountValue: decimal.NewFromFloat(1000),
	})
	test.AssertHTTPStatus(t, http.StatusCreated, &r)

	var created v1.AllocationResponse
	test.DecodeResponse(t, &r, &created)

	r = suite.request(http.MethodPatch, created.Data.Links.Self, map[string]any{
		"allocationPercentage": "25",
		"effectiveDate":        "2024-06-30",
	})
	test.AssertHTTPStatus(t, http.StatusOK, &r)

	var response v1.AllocationResponse
	test.DecodeResponse(t, &r, &response)
	assert.True(t, response.Data.AllocationPercentage.Equal(decimal.NewFromFloat(25)))

	r = suite.request(http.MethodGet, created.Data.Links.Versions, "")
	test.AssertHTTPStatus(t, http.StatusOK, &r)

	var versions v1.AllocationVersionListResponse
	test.DecodeResponse(t, &r, &versions)
	suite.Require().Len(versions.Data, 2)
	suite.Require().NotNil(versions.Data[0].EndDate)
	assert.True(t, versions.Data[0].EndDate.Equal(date(2024, time.June, 30)))
	assert.Nil(t, versions.Data[1].EndDate)
}

// PATCH must set exactly one of amount and percentage.
func (suite *TestSuiteStandard) TestUpdateAllocationAmbiguous() {
	created := suite.createTestAllocation(v1.AllocationUpsert{AllocationEditable: v1.AllocationEditable{AccountID: "account-1"}})

	tests := []struct {
		name string
		body map[string]any
	}{
		{"neither", map[string]any{}},
		{"both", map[string]any{"allocationAmount": "100", "allocationPercentage": "10"}},
		{"amount without account value", map[string]any{"allocationAmount": "100"}},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := suite.request(http.MethodPatch, created.Data.Links.Self, tt.body)
			test.AssertHTTPStatus(t, http.StatusBadRequest, &r)
		})
	}
}

func (suite *TestSuiteStandard) TestDeleteAllocation() {
	t := suite.T()

	created := suite.createTestAllocation(v1.AllocationUpsert{AllocationEditable: v1.AllocationEditable{AccountID: "account-1"}})

	r := suite.request(http.MethodDelete, created.Data.Links.Self, "")
	test.AssertHTTPStatus(t, http.StatusOK, &r)

	var response v1.CountResponse
	test.DecodeResponse(t, &r, &response)
	suite.Require().NotNil(response.Data)
	assert.Equal(t, int64(1), *response.Data)

	r = suite.request(http.MethodDelete, created.Data.Links.Self, "")
	test.AssertHTTPStatus(t, http.StatusOK, &r)
	test.DecodeResponse(t, &r, &response)
	assert.Equal(t, int64(0), *response.Data)
}

// Failing a validation is a regular response with the reason, not an
// HTTP error.
func (suite *TestSuiteStandard) TestValidatePercentages() {
	t := suite.T()

	suite.createTestAllocation(v1.AllocationUpsert{
		AllocationEditable: v1.AllocationEditable{
			AccountID:            "account-1",
			AllocationPercentage: decimal.NewFromFloat(60),
		},
	})

	r := suite.request(http.MethodPost, "http://example.com/v1/allocations/validate-percentages", v1.ValidatePercentagesRequest{
		AccountID:  "account-1",
		Percentage: decimal.NewFromFloat(50),
	})
	test.AssertHTTPStatus(t, http.StatusOK, &r)

	var response v1.ValidationResponse
	test.DecodeResponse(t, &r, &response)
	assert.False(t, response.Valid)
	assert.Contains(t, response.Message, "110.0% exceeds 100%")

	// Exactly 100 is allowed
	r = suite.request(http.MethodPost, "http://example.com/v1/allocations/validate-percentages", v1.ValidatePercentagesRequest{
		AccountID:  "account-1",
		Percentage: decimal.NewFromFloat(40),
	})
	test.AssertHTTPStatus(t, http.StatusOK, &r)
	test.DecodeResponse(t, &r, &response)
	assert.True(t, response.Valid)
	assert.Empty(t, response.Message)
}

func (suite *TestSuiteStandard) TestValidateBalance() {
	t := suite.T()

	suite.createTestAllocation(v1.AllocationUpsert{
		AllocationEditable: v1.AllocationEditable{
			AccountID:        "account-1",
			AllocationAmount: decimal.NewFromFloat(700),
		},
	})

	r := suite.request(http.MethodPost, "http://example.com/v1/allocations/validate-balance", v1.ValidateBalanceRequest{
		AccountID:           "account-1",
		Amount:              decimal.NewFromFloat(400),
		CurrentAccountValue: decimal.NewFromFloat(1000),
	})
	test.AssertHTTPStatus(t, http.StatusOK, &r)

	var response v1.ValidationResponse
	test.DecodeResponse(t, &r, &response)
	assert.False(t, response.Valid)
	assert.Contains(t, response.Message, "exceeds available unallocated balance $300.00")

	r = suite.request(http.MethodPost, "http://example.com/v1/allocations/validate-balance", v1.ValidateBalanceRequest{
		AccountID:           "account-1",
		Amount:              decimal.NewFromFloat(300),
		CurrentAccountValue: decimal.NewFromFloat(1000),
	})
	test.AssertHTTPStatus(t, http.StatusOK, &r)
	test.DecodeResponse(t, &r, &response)
	assert.True(t, response.Valid)
}

func (suite *TestSuiteStandard) TestValidateConflicts() {
	t := suite.T()

	start := date(2024, time.January, 1)
	end := date(2024, time.December, 31)
	suite.createTestAllocation(v1.AllocationUpsert{
		AllocationEditable: v1.AllocationEditable{
			AccountID:            "account-1",
			AllocationPercentage: decimal.NewFromFloat(60),
			StartDate:            &start,
			EndDate:              &end,
		},
	})

	r := suite.request(http.MethodPost, "http://example.com/v1/allocations/validate-conflicts", v1.ValidateConflictsRequest{
		AccountID:         "account-1",
		StartDate:         date(2024, time.June, 1),
		EndDate:           date(2025, time.June, 1),
		PercentAllocation: 50,
	})
	test.AssertHTTPStatus(t, http.StatusOK, &r)

	var response v1.ValidationResponse
	test.DecodeResponse(t, &r, &response)
	assert.False(t, response.Valid)
	assert.Contains(t, response.Message, "exceeds 100% on account account-1 during this period")

	// A window that does not overlap passes
	r = suite.request(http.MethodPost, "http://example.com/v1/allocations/validate-conflicts", v1.ValidateConflictsRequest{
		AccountID:         "account-1",
		StartDate:         date(2025, time.January, 1),
		EndDate:           date(2025, time.June, 1),
		PercentAllocation: 50,
	})
	test.AssertHTTPStatus(t, http.StatusOK, &r)
	test.DecodeResponse(t, &r, &response)
	assert.True(t, response.Valid)
}

func (suite *TestSuiteStandard) TestUnallocatedBalance() {
	t := suite.T()

	suite.createTestAllocation(v1.AllocationUpsert{
		AllocationEditable: v1.AllocationEditable{
			AccountID:        "account-1",
			AllocationAmount: decimal.NewFromFloat(700),
		},
	})

	r := suite.request(http.MethodGet, "http://example.com/v1/accounts/account-1/unallocated-balance?currentValue=1000", "")
	test.AssertHTTPStatus(t, http.StatusOK, &r)

	var response v1.BalanceResponse
	test.DecodeResponse(t, &r, &response)
	suite.Require().NotNil(response.Data)
	assert.True(t, response.Data.Equal(decimal.NewFromFloat(300)), "balance is %s", response.Data)

	// The query parameter is required
	r = suite.request(http.MethodGet, "http://example.com/v1/accounts/account-1/unallocated-balance", "")
	test.AssertHTTPStatus(t, http.StatusBadRequest, &r)
}
