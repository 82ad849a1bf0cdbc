package v1

import (
	"fmt"

	"github.com/chipheo00/wealth-vn/internal/goals"
	"github.com/chipheo00/wealth-vn/internal/models"
	"github.com/chipheo00/wealth-vn/internal/types"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type GoalEditable struct {
	Title               string           `json:"title" example:"House down payment" default:""`                      // Name of the goal
	Description         string           `json:"description" example:"20% of the purchase price" default:""`         // A longer description for the goal
	TargetAmount        decimal.Decimal  `json:"targetAmount" example:"50000" minimum:"0.00000001"`                  // Amount the goal is aiming for, must be positive
	Achieved            bool             `json:"achieved" example:"false" default:"false"`                           // Has the goal been reached?
	TargetReturnRate    *decimal.Decimal `json:"targetReturnRate" example:"7.5"`                                     // Expected yearly return rate in percent
	DueDate             *types.Date      `json:"dueDate" example:"2027-06-30"`                                       // Date the goal should be reached by
	MonthlyContribution *decimal.Decimal `json:"monthlyContribution" example:"500"`                                  // Planned monthly contribution
	StartDate           *types.Date      `json:"startDate" example:"2024-01-01"`                                     // Date saving towards the goal started
	InitialValue        *decimal.Decimal `json:"initialValue" example:"1000"`                                        // Value already saved when the goal was created
}

// model returns the database resource for the editable fields
func (editable GoalEditable) model() models.Goal {
	return models.Goal{
		Title:               editable.Title,
		Description:         editable.Description,
		TargetAmount:        editable.TargetAmount,
		Achieved:            editable.Achieved,
		TargetReturnRate:    editable.TargetReturnRate,
		DueDate:             editable.DueDate,
		MonthlyContribution: editable.MonthlyContribution,
		StartDate:           editable.StartDate,
		InitialValue:        editable.InitialValue,
	}
}

// newGoalEditable returns the editable fields of a goal. Binding a
// PATCH body on top of it keeps the fields the request does not set.
func newGoalEditable(model models.Goal) GoalEditable {
	return GoalEditable{
		Title:               model.Title,
		Description:         model.Description,
		TargetAmount:        model.TargetAmount,
		Achieved:            model.Achieved,
		TargetReturnRate:    model.TargetReturnRate,
		DueDate:             model.DueDate,
		MonthlyContribution: model.MonthlyContribution,
		StartDate:           model.StartDate,
		InitialValue:        model.InitialValue,
	}
}

type GoalLinks struct {
	Self        string `json:"self" example:"https://example.com/api/v1/goals/af892e10-7e0a-4fb8-b1bc-4b6d88401ed2"`             // The goal itself
	Allocations string `json:"allocations" example:"https://example.com/api/v1/goals/af892e10-7e0a-4fb8-b1bc-4b6d88401ed2/allocations"` // Allocations funding this goal
	Progress    string `json:"progress" example:"https://example.com/api/v1/goals/af892e10-7e0a-4fb8-b1bc-4b6d88401ed2/progress"` // Progress computation for this goal
}

// Goal is the API v1 representation of a savings goal.
type Goal struct {
	models.DefaultModel
	GoalEditable
	Links GoalLinks `json:"links"`
}

func newGoal(c *gin.Context, model models.Goal) Goal {
	url := c.GetString(string(models.DBContextURL))

	return Goal{
		DefaultModel: model.DefaultModel,
		GoalEditable: newGoalEditable(model),
		Links: GoalLinks{
			Self:        fmt.Sprintf("%s/v1/goals/%s", url, model.ID),
			Allocations: fmt.Sprintf("%s/v1/goals/%s/allocations", url, model.ID),
			Progress:    fmt.Sprintf("%s/v1/goals/%s/progress", url, model.ID),
		},
	}
}

type GoalListResponse struct {
	Data  []Goal  `json:"data"`                                                          // List of goals
	Error *string `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

type GoalCreateResponse struct {
	Error *string        `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Data  []GoalResponse `json:"data"`                                                          // List of created goals
}

func (g *GoalCreateResponse) appendError(err error, currentStatus int) int {
	s := err.Error()
	g.Data = append(g.Data, GoalResponse{Error: &s})

	// The final status code is the highest HTTP status code number
	newStatus := status(err)
	if newStatus > currentStatus {
		return newStatus
	}

	return currentStatus
}

type GoalResponse struct {
	Data  *Goal   `json:"data"`                                                          // Data for the goal
	Error *string `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

// GoalProgressRequest carries the account value snapshots the progress
// computation needs. Values are keyed by account ID.
type GoalProgressRequest struct {
	ValuesAtStart map[string]decimal.Decimal `json:"valuesAtStart"` // Account values on the goal's start date
	CurrentValues map[string]decimal.Decimal `json:"currentValues"` // Account values on the query date
	Date          types.Date                 `json:"date" example:"2024-06-01"` // The date to compute progress for, defaults to today
}

type GoalProgressResponse struct {
	Data  *goals.ProgressSnapshot `json:"data"`  // The progress snapshot
	Error *string                 `json:"error"` // The error, if any occurred
}
