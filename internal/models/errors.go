package models

import (
	"errors"
)

var (
	ErrGeneral          = errors.New("an error occurred on the server during your request")
	ErrResourceNotFound = errors.New("there is no")

	ErrGoalTargetAmountNotPositive = errors.New("goal target amounts must be larger than zero")
	ErrInitAmountImmutable         = errors.New("the initial amount of an allocation cannot be changed after creation")
	ErrPercentageOutOfRange        = errors.New("allocation percentages must be between 0 and 100")
)
