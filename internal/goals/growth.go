package goals

import (
	"github.com/chipheo00/wealth-vn/internal/models"
	"github.com/chipheo00/wealth-vn/internal/types"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// GrowthSegment is one historical sub-period of an allocation: the
// percentage that was active and the account value at the period bounds.
type GrowthSegment struct {
	Percentage decimal.Decimal
	ValueStart decimal.Decimal
	ValueEnd   decimal.Decimal
}

// AllocationGrowth returns the account growth over a period that is
// attributable to an allocation:
//
//	(valueEnd - valueStart) * percentage / 100
func AllocationGrowth(percentage, valueStart, valueEnd decimal.Decimal) decimal.Decimal {
	return valueEnd.Sub(valueStart).Mul(percentage).Div(hundred)
}

// SegmentedGrowth returns the total growth across all segments. A percentage
// change mid-history is weighted correctly because every version contributes
// only its own period's growth at its own rate. An empty segment list yields
// zero.
func SegmentedGrowth(segments []GrowthSegment) decimal.Decimal {
	total := decimal.Zero
	for _, segment := range segments {
		total = total.Add(AllocationGrowth(segment.Percentage, segment.ValueStart, segment.ValueEnd))
	}

	return total
}

// AllocationCurrentValue returns the current value of an allocation: its
// fixed initial amount plus the accumulated growth.
func AllocationCurrentValue(allocation models.Allocation, growth decimal.Decimal) decimal.Decimal {
	return allocation.InitAmount.Add(growth)
}

// VersionSegments assembles growth segments from an allocation's version
// history. valueAt must return the account value on a given date; a version
// without an end date is still active and uses queryDate as its end.
func VersionSegments(versions []models.AllocationVersion, queryDate types.Date, valueAt func(types.Date) decimal.Decimal) []GrowthSegment {
	segments := make([]GrowthSegment, 0, len(versions))
	for _, version := range versions {
		end := queryDate
		if version.EndDate != nil {
			end = *version.EndDate
		}

		segments = append(segments, GrowthSegment{
			Percentage: version.Percentage,
			ValueStart: valueAt(version.StartDate),
			ValueEnd:   valueAt(end),
		})
	}

	return segments
}
