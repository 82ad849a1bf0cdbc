package models

import (
	"strings"

	"github.com/chipheo00/wealth-vn/internal/types"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Goal is a savings target. Progress towards it is tracked through the
// allocations that earmark parts of investment accounts for it.
type Goal struct {
	DefaultModel
	Title               string           `json:"title"`
	Description         string           `json:"description"`
	TargetAmount        decimal.Decimal  `json:"targetAmount" gorm:"type:DECIMAL(20,8)"`
	Achieved            bool             `json:"achieved"`
	TargetReturnRate    *decimal.Decimal `json:"targetReturnRate" gorm:"type:DECIMAL(20,8)"`
	DueDate             *types.Date      `json:"dueDate"`
	MonthlyContribution *decimal.Decimal `json:"monthlyContribution" gorm:"type:DECIMAL(20,8)"`
	StartDate           *types.Date      `json:"startDate"`
	InitialValue        *decimal.Decimal `json:"initialValue" gorm:"type:DECIMAL(20,8)"`
}

func (g *Goal) BeforeSave(_ *gorm.DB) error {
	g.Title = strings.TrimSpace(g.Title)
	g.Description = strings.TrimSpace(g.Description)

	return nil
}

func (g *Goal) AfterSave(_ *gorm.DB) error {
	if !decimal.Decimal.IsPositive(g.TargetAmount) {
		return ErrGoalTargetAmountNotPositive
	}

	return nil
}
