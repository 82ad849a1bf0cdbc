package v1

import (
	"github.com/chipheo00/wealth-vn/internal/goals"
	ez_uuid "github.com/chipheo00/wealth-vn/internal/uuid"
)

type URIID struct {
	ID ez_uuid.UUID `uri:"id" binding:"required"` // The ID of the resource
}

// Controller carries the goals service for all v1 handlers.
type Controller struct {
	service *goals.Service
}

func NewController(service *goals.Service) Controller {
	return Controller{service: service}
}

// CountResponse is the response for operations that report the number
// of affected resources.
type CountResponse struct {
	Data  *int64  `json:"data" example:"1"` // Number of affected resources
	Error *string `json:"error"`            // The error, if any occurred
}
