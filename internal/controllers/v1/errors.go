package v1

import (
	"errors"
	"net/http"

	"github.com/chipheo00/wealth-vn/internal/goals"
	"github.com/chipheo00/wealth-vn/internal/models"
)

type httpError struct {
	Error string `json:"error" example:"An ID specified in the query string was not a valid UUID"`
}

// status returns the appropriate status for an error coming out of
// the goals service or the database
func status(err error) int {
	var validationErr *goals.ValidationError
	if errors.As(err, &validationErr) {
		return http.StatusBadRequest
	}

	if errors.Is(err, models.ErrGeneral) {
		return http.StatusInternalServerError
	}

	if errors.Is(err, models.ErrResourceNotFound) {
		return http.StatusNotFound
	}

	return http.StatusBadRequest
}

// Allocation errors
var (
	errAllocationUpdateFields = errors.New("exactly one of allocationAmount and allocationPercentage must be set")
	errCurrentValueRequired   = errors.New("currentAccountValue must be set when updating the allocation amount")
	errCurrentValueParameter  = errors.New("the currentValue query parameter must be set to a decimal number")
	errDateParameter          = errors.New("the date query parameter must be a date in the format YYYY-MM-DD")
)
