package models

import (
	"github.com/chipheo00/wealth-vn/internal/types"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Allocation binds a fraction of one investment account's value to one goal.
//
// Accounts are managed outside of this backend, so AccountID is an opaque
// reference.
//
// The integer PercentAllocation together with StartDate and EndDate is the
// legacy scheme. New allocations carry AllocationPercentage and
// AllocationDate, with their percentage history in AllocationVersion rows.
type Allocation struct {
	DefaultModel
	Goal                 Goal            `json:"-"`
	GoalID               uuid.UUID       `json:"goalId"`
	AccountID            string          `json:"accountId" gorm:"index"`
	PercentAllocation    int             `json:"percentAllocation"` // Deprecated: use AllocationPercentage
	StartDate            *types.Date     `json:"startDate"`         // Deprecated: use AllocationDate
	EndDate              *types.Date     `json:"endDate"`           // Deprecated: use AllocationVersion ranges
	InitAmount           decimal.Decimal `json:"initAmount" gorm:"type:DECIMAL(20,8)"`           // Fixed at creation
	AllocationAmount     decimal.Decimal `json:"allocationAmount" gorm:"type:DECIMAL(20,8)"`     // Currently allocated amount
	AllocationPercentage decimal.Decimal `json:"allocationPercentage" gorm:"type:DECIMAL(20,8)"` // 0-100
	AllocationDate       *types.Date     `json:"allocationDate"`
}

func (a *Allocation) BeforeCreate(tx *gorm.DB) error {
	_ = a.DefaultModel.BeforeCreate(tx)

	return a.checkIntegrity(tx)
}

func (a *Allocation) BeforeUpdate(tx *gorm.DB) error {
	if tx.Statement.Changed("InitAmount") {
		return ErrInitAmountImmutable
	}

	if tx.Statement.Changed("GoalID") {
		return a.checkIntegrity(tx)
	}

	return nil
}

func (a *Allocation) AfterSave(_ *gorm.DB) error {
	if a.PercentAllocation < 0 || a.PercentAllocation > 100 {
		return ErrPercentageOutOfRange
	}

	if a.AllocationPercentage.IsNegative() || a.AllocationPercentage.GreaterThan(decimal.NewFromInt(100)) {
		return ErrPercentageOutOfRange
	}

	return nil
}

// checkIntegrity verifies that the referenced goal exists.
func (a *Allocation) checkIntegrity(tx *gorm.DB) error {
	return tx.First(&Goal{}, "id = ?", a.GoalID).Error
}
