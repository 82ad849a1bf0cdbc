package v1

import (
	"fmt"

	"github.com/chipheo00/wealth-vn/internal/models"
	"github.com/chipheo00/wealth-vn/internal/types"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type AllocationEditable struct {
	GoalID               uuid.UUID       `json:"goalId" example:"550dc009-cea6-4c12-b2a5-03446eb7b7cf"` // ID of the goal this allocation funds
	AccountID            string          `json:"accountId" example:"broker-123" default:""`             // ID of the account the allocation draws from
	PercentAllocation    int             `json:"percentAllocation" example:"50" default:"0"`            // Share of the account's growth attributed to the goal, in percent
	StartDate            *types.Date     `json:"startDate" example:"2024-01-01"`                        // First day the allocation is active
	EndDate              *types.Date     `json:"endDate" example:"2024-12-31"`                          // Last day the allocation is active
	InitAmount           decimal.Decimal `json:"initAmount" example:"500" default:"0"`                  // Amount set aside when the allocation was created, immutable
	AllocationAmount     decimal.Decimal `json:"allocationAmount" example:"500" default:"0"`            // Currently allocated amount
	AllocationPercentage decimal.Decimal `json:"allocationPercentage" example:"50" default:"0"`         // Currently allocated percentage of the account
	AllocationDate       *types.Date     `json:"allocationDate" example:"2024-01-01"`                   // Date the allocation was made
}

// model returns the database resource for the editable fields
func (editable AllocationEditable) model() models.Allocation {
	return models.Allocation{
		GoalID:               editable.GoalID,
		AccountID:            editable.AccountID,
		PercentAllocation:    editable.PercentAllocation,
		StartDate:            editable.StartDate,
		EndDate:              editable.EndDate,
		InitAmount:           editable.InitAmount,
		AllocationAmount:     editable.AllocationAmount,
		AllocationPercentage: editable.AllocationPercentage,
		AllocationDate:       editable.AllocationDate,
	}
}

func newAllocationEditable(model models.Allocation) AllocationEditable {
	return AllocationEditable{
		GoalID:               model.GoalID,
		AccountID:            model.AccountID,
		PercentAllocation:    model.PercentAllocation,
		StartDate:            model.StartDate,
		EndDate:              model.EndDate,
		InitAmount:           model.InitAmount,
		AllocationAmount:     model.AllocationAmount,
		AllocationPercentage: model.AllocationPercentage,
		AllocationDate:       model.AllocationDate,
	}
}

type AllocationLinks struct {
	Self     string `json:"self" example:"https://example.com/api/v1/allocations/af892e10-7e0a-4fb8-b1bc-4b6d88401ed2"`          // The allocation itself
	Goal     string `json:"goal" example:"https://example.com/api/v1/goals/550dc009-cea6-4c12-b2a5-03446eb7b7cf"`                // The goal this allocation funds
	Versions string `json:"versions" example:"https://example.com/api/v1/allocations/af892e10-7e0a-4fb8-b1bc-4b6d88401ed2/versions"` // Percentage history of the allocation
}

// Allocation is the API v1 representation of an allocation.
type Allocation struct {
	models.DefaultModel
	AllocationEditable
	Links AllocationLinks `json:"links"`
}

func newAllocation(c *gin.Context, model models.Allocation) Allocation {
	url := c.GetString(string(models.DBContextURL))

	return Allocation{
		DefaultModel:       model.DefaultModel,
		AllocationEditable: newAllocationEditable(model),
		Links: AllocationLinks{
			Self:     fmt.Sprintf("%s/v1/allocations/%s", url, model.ID),
			Goal:     fmt.Sprintf("%s/v1/goals/%s", url, model.GoalID),
			Versions: fmt.Sprintf("%s/v1/allocations/%s/versions", url, model.ID),
		},
	}
}

type AllocationListResponse struct {
	Data  []Allocation `json:"data"`                                                          // List of allocations
	Error *string      `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

type AllocationResponse struct {
	Data  *Allocation `json:"data"`                                                          // Data for the allocation
	Error *string     `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

// AllocationCreateRequest is the request body for creating a validated
// allocation. The account value is supplied by the caller since account
// data lives outside this backend.
type AllocationCreateRequest struct {
	GoalID              uuid.UUID       `json:"goalId" example:"550dc009-cea6-4c12-b2a5-03446eb7b7cf"` // ID of the goal to fund
	AccountID           string          `json:"accountId" example:"broker-123"`                        // ID of the account to draw from
	Amount              decimal.Decimal `json:"amount" example:"500"`                                  // Amount to allocate
	Percentage          decimal.Decimal `json:"percentage" example:"50"`                               // Percentage of the account to allocate
	Date                types.Date      `json:"date" example:"2024-01-01"`                             // Date the allocation is made
	CurrentAccountValue decimal.Decimal `json:"currentAccountValue" example:"1000"`                    // Current value of the account
}

// AllocationUpsert is one element of a batch upsert. The ID identifies
// the allocation to update and is used as-is for new allocations.
type AllocationUpsert struct {
	ID uuid.UUID `json:"id" example:"af892e10-7e0a-4fb8-b1bc-4b6d88401ed2"` // ID of the allocation
	AllocationEditable
}

func (upsert AllocationUpsert) model() models.Allocation {
	allocation := upsert.AllocationEditable.model()
	allocation.ID = upsert.ID
	return allocation
}

// AllocationUpdateRequest updates either the amount or the percentage
// of an allocation. Exactly one of the two must be set.
type AllocationUpdateRequest struct {
	AllocationAmount     *decimal.Decimal `json:"allocationAmount" example:"900"`      // New allocation amount
	CurrentAccountValue  *decimal.Decimal `json:"currentAccountValue" example:"1000"`  // Current value of the account, required for amount updates
	AllocationPercentage *decimal.Decimal `json:"allocationPercentage" example:"25"`   // New allocation percentage
	EffectiveDate        *types.Date      `json:"effectiveDate" example:"2024-06-30"`  // Date the percentage change takes effect, defaults to today
}

type AllocationVersionListResponse struct {
	Data  []models.AllocationVersion `json:"data"`  // Percentage history, oldest first
	Error *string                    `json:"error"` // The error, if any occurred
}

// ValidateConflictsRequest checks a dated allocation window against the
// legacy per-account percentage cap.
type ValidateConflictsRequest struct {
	AccountID         string      `json:"accountId" example:"broker-123"`  // ID of the account
	StartDate         types.Date  `json:"startDate" example:"2024-01-01"`  // First day of the window
	EndDate           types.Date  `json:"endDate" example:"2024-12-31"`    // Last day of the window
	PercentAllocation int         `json:"percentAllocation" example:"50"`  // Percentage the new allocation would take
	ExcludeID         *uuid.UUID  `json:"excludeId"`                       // Allocation to leave out, for updates
}

// ValidatePercentagesRequest checks a percentage against the
// per-account 100% cap.
type ValidatePercentagesRequest struct {
	AccountID  string          `json:"accountId" example:"broker-123"` // ID of the account
	Percentage decimal.Decimal `json:"percentage" example:"50"`        // Percentage the new allocation would take
	ExcludeID  *uuid.UUID      `json:"excludeId"`                      // Allocation to leave out, for updates
}

// ValidateBalanceRequest checks an amount against the account's
// unallocated balance, and optionally against the account value on a
// past date.
type ValidateBalanceRequest struct {
	AccountID           string           `json:"accountId" example:"broker-123"`     // ID of the account
	Amount              decimal.Decimal  `json:"amount" example:"400"`               // Amount to allocate
	CurrentAccountValue decimal.Decimal  `json:"currentAccountValue" example:"1000"` // Current value of the account
	Date                *types.Date      `json:"date" example:"2024-01-01"`          // Allocation date for the historical check
	AccountValueAtDate  *decimal.Decimal `json:"accountValueAtDate" example:"800"`   // Value of the account on that date
}

// ValidationResponse reports the outcome of a validation. Failing a
// validation is a regular response, not an HTTP error.
type ValidationResponse struct {
	Valid   bool   `json:"valid" example:"false"`                                                              // Did the check pass?
	Message string `json:"message" example:"total allocation 110.0% exceeds 100% on account broker-123 during this period"` // The reason it did not
}

// BalanceResponse reports the unallocated balance of an account.
type BalanceResponse struct {
	Data  *decimal.Decimal `json:"data" example:"300"` // The unallocated balance
	Error *string          `json:"error"`              // The error, if any occurred
}
