package models

import (
	"github.com/chipheo00/wealth-vn/internal/types"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// AllocationVersion is an immutable record of an allocation's percentage and
// amount over one historical sub-period. A version without an end date is the
// currently active one; there is at most one per allocation. Versions are
// never changed after creation, only their end date is closed off when the
// percentage changes.
type AllocationVersion struct {
	DefaultModel
	Allocation   Allocation      `json:"-"`
	AllocationID uuid.UUID       `json:"allocationId" gorm:"index"`
	Percentage   decimal.Decimal `json:"percentage" gorm:"type:DECIMAL(20,8)"`
	Amount       decimal.Decimal `json:"amount" gorm:"type:DECIMAL(20,8)"`
	StartDate    types.Date      `json:"startDate"`
	EndDate      *types.Date     `json:"endDate"`
}

func (v *AllocationVersion) BeforeCreate(tx *gorm.DB) error {
	_ = v.DefaultModel.BeforeCreate(tx)

	return tx.First(&Allocation{}, "id = ?", v.AllocationID).Error
}
