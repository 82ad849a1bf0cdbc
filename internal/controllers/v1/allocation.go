package v1

import (
	"errors"
	"net/http"

	"github.com/chipheo00/wealth-vn/internal/goals"
	"github.com/chipheo00/wealth-vn/internal/httputil"
	"github.com/chipheo00/wealth-vn/internal/models"
	"github.com/chipheo00/wealth-vn/internal/types"
	"github.com/gin-gonic/gin"
)

// RegisterAllocationRoutes registers the routes for allocations with
// the RouterGroup that is passed.
func (co Controller) RegisterAllocationRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", co.OptionsAllocationList)
		r.GET("", co.GetAllocations)
		r.POST("", co.CreateAllocation)
		r.PUT("", co.UpsertAllocations)
	}

	// Validation commands. These are POST endpoints because some
	// clients don't allow GET requests to have bodies
	{
		r.OPTIONS("/validate-conflicts", httputil.OptionsPost)
		r.POST("/validate-conflicts", co.ValidateConflicts)
		r.OPTIONS("/validate-percentages", httputil.OptionsPost)
		r.POST("/validate-percentages", co.ValidatePercentages)
		r.OPTIONS("/validate-balance", httputil.OptionsPost)
		r.POST("/validate-balance", co.ValidateBalance)
	}

	// Allocation with ID
	{
		r.OPTIONS("/:id", co.OptionsAllocationDetail)
		r.GET("/:id", co.GetAllocation)
		r.GET("/:id/versions", co.GetAllocationVersions)
		r.PATCH("/:id", co.UpdateAllocation)
		r.DELETE("/:id", co.DeleteAllocation)
	}
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Allocations
// @Success		204
// @Router			/v1/allocations [options]
func (co Controller) OptionsAllocationList(c *gin.Context) {
	httputil.OptionsGetPostPut(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Allocations
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ID of the allocation"
// @Router			/v1/allocations/{id} [options]
func (co Controller) OptionsAllocationDetail(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	_, err = co.service.Allocation(uri.ID.UUID)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	httputil.OptionsGetPatchDelete(c)
}

// @Summary		List allocations
// @Description	Returns all allocations for goals that are not yet achieved
// @Tags			Allocations
// @Produce		json
// @Success		200		{object}	AllocationListResponse
// @Failure		400		{object}	AllocationListResponse
// @Failure		500		{object}	AllocationListResponse
// @Param			account	query		string	false	"Only allocations for this account"
// @Param			date	query		string	false	"Only allocations whose date range covers this date, requires account"
// @Router			/v1/allocations [get]
func (co Controller) GetAllocations(c *gin.Context) {
	var allocations []models.Allocation
	var err error

	// Filtering by account returns allocations for achieved goals, too
	if accountID, ok := c.GetQuery("account"); ok {
		if dateString, ok := c.GetQuery("date"); ok {
			date, parseErr := types.ParseDate(dateString)
			if parseErr != nil {
				s := errDateParameter.Error()
				c.JSON(http.StatusBadRequest, AllocationListResponse{
					Error: &s,
				})
				return
			}

			allocations, err = co.service.AllocationsForAccountOnDate(accountID, date)
		} else {
			allocations, err = co.service.AllocationsForAccount(accountID)
		}
	} else {
		allocations, err = co.service.Allocations()
	}

	if err != nil {
		s := err.Error()
		c.JSON(status(err), AllocationListResponse{
			Error: &s,
		})
		return
	}

	data := make([]Allocation, 0, len(allocations))
	for _, allocation := range allocations {
		data = append(data, newAllocation(c, allocation))
	}

	c.JSON(http.StatusOK, AllocationListResponse{Data: data})
}

// @Summary		Create allocation
// @Description	Creates a new allocation after validating it against the account's percentage cap and unallocated balance
// @Tags			Allocations
// @Produce		json
// @Success		201		{object}	AllocationResponse
// @Failure		400		{object}	AllocationResponse
// @Failure		404		{object}	AllocationResponse
// @Failure		500		{object}	AllocationResponse
// @Param			request	body		AllocationCreateRequest	true	"Allocation"
// @Router			/v1/allocations [post]
func (co Controller) CreateAllocation(c *gin.Context) {
	var request AllocationCreateRequest
	err := httputil.BindData(c, &request)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), AllocationResponse{
			Error: &s,
		})
		return
	}

	allocation, err := co.service.CreateAllocation(goals.NewAllocation{
		GoalID:              request.GoalID,
		AccountID:           request.AccountID,
		Amount:              request.Amount,
		Percentage:          request.Percentage,
		Date:                request.Date,
		CurrentAccountValue: request.CurrentAccountValue,
	})
	if err != nil {
		s := err.Error()
		c.JSON(status(err), AllocationResponse{
			Error: &s,
		})
		return
	}

	data := newAllocation(c, allocation)
	c.JSON(http.StatusCreated, AllocationResponse{Data: &data})
}

// @Summary		Upsert allocations
// @Description	Creates or updates allocations in a batch, backfilling missing dates from the goal
// @Tags			Allocations
// @Produce		json
// @Success		200			{object}	CountResponse
// @Failure		400			{object}	CountResponse
// @Failure		404			{object}	CountResponse
// @Failure		500			{object}	CountResponse
// @Param			allocations	body		[]AllocationUpsert	true	"Allocations"
// @Router			/v1/allocations [put]
func (co Controller) UpsertAllocations(c *gin.Context) {
	var upserts []AllocationUpsert
	err := httputil.BindData(c, &upserts)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), CountResponse{
			Error: &s,
		})
		return
	}

	allocations := make([]models.Allocation, 0, len(upserts))
	for _, upsert := range upserts {
		allocations = append(allocations, upsert.model())
	}

	count, err := co.service.UpsertAllocations(allocations)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), CountResponse{
			Error: &s,
		})
		return
	}

	c.JSON(http.StatusOK, CountResponse{Data: &count})
}

// @Summary		Get allocation
// @Description	Returns a specific allocation
// @Tags			Allocations
// @Produce		json
// @Success		200	{object}	AllocationResponse
// @Failure		400	{object}	AllocationResponse
// @Failure		404	{object}	AllocationResponse
// @Failure		500	{object}	AllocationResponse
// @Param			id	path		URIID	true	"ID of the allocation"
// @Router			/v1/allocations/{id} [get]
func (co Controller) GetAllocation(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), AllocationResponse{
			Error: &s,
		})
		return
	}

	allocation, err := co.service.Allocation(uri.ID.UUID)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), AllocationResponse{
			Error: &s,
		})
		return
	}

	data := newAllocation(c, allocation)
	c.JSON(http.StatusOK, AllocationResponse{Data: &data})
}

// @Summary		Update allocation
// @Description	Updates the amount or the percentage of an allocation. Percentage changes are recorded in the version history.
// @Tags			Allocations
// @Produce		json
// @Success		200		{object}	AllocationResponse
// @Failure		400		{object}	AllocationResponse
// @Failure		404		{object}	AllocationResponse
// @Failure		500		{object}	AllocationResponse
// @Param			id		path		URIID					true	"ID of the allocation"
// @Param			request	body		AllocationUpdateRequest	true	"Update"
// @Router			/v1/allocations/{id} [patch]
func (co Controller) UpdateAllocation(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), AllocationResponse{
			Error: &s,
		})
		return
	}

	var request AllocationUpdateRequest
	err = httputil.BindData(c, &request)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), AllocationResponse{
			Error: &s,
		})
		return
	}

	var allocation models.Allocation
	switch {
	case request.AllocationAmount != nil && request.AllocationPercentage == nil:
		if request.CurrentAccountValue == nil {
			s := errCurrentValueRequired.Error()
			c.JSON(http.StatusBadRequest, AllocationResponse{
				Error: &s,
			})
			return
		}

		allocation, err = co.service.UpdateAllocationAmount(uri.ID.UUID, *request.AllocationAmount, *request.CurrentAccountValue)

	case request.AllocationPercentage != nil && request.AllocationAmount == nil:
		var effective types.Date
		if request.EffectiveDate != nil {
			effective = *request.EffectiveDate
		}

		allocation, err = co.service.UpdateAllocationPercentage(uri.ID.UUID, *request.AllocationPercentage, effective)

	default:
		s := errAllocationUpdateFields.Error()
		c.JSON(http.StatusBadRequest, AllocationResponse{
			Error: &s,
		})
		return
	}

	if err != nil {
		s := err.Error()
		c.JSON(status(err), AllocationResponse{
			Error: &s,
		})
		return
	}

	data := newAllocation(c, allocation)
	c.JSON(http.StatusOK, AllocationResponse{Data: &data})
}

// @Summary		Delete allocation
// @Description	Deletes an allocation and reports the number of deleted resources
// @Tags			Allocations
// @Produce		json
// @Success		200	{object}	CountResponse
// @Failure		400	{object}	CountResponse
// @Failure		500	{object}	CountResponse
// @Param			id	path		URIID	true	"ID of the allocation"
// @Router			/v1/allocations/{id} [delete]
func (co Controller) DeleteAllocation(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), CountResponse{
			Error: &s,
		})
		return
	}

	count, err := co.service.DeleteAllocation(uri.ID.UUID)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), CountResponse{
			Error: &s,
		})
		return
	}

	c.JSON(http.StatusOK, CountResponse{Data: &count})
}

// @Summary		List allocation versions
// @Description	Returns the percentage history of an allocation, oldest first
// @Tags			Allocations
// @Produce		json
// @Success		200	{object}	AllocationVersionListResponse
// @Failure		400	{object}	AllocationVersionListResponse
// @Failure		500	{object}	AllocationVersionListResponse
// @Param			id	path		URIID	true	"ID of the allocation"
// @Router			/v1/allocations/{id}/versions [get]
func (co Controller) GetAllocationVersions(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), AllocationVersionListResponse{
			Error: &s,
		})
		return
	}

	versions, err := co.service.AllocationVersions(uri.ID.UUID)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), AllocationVersionListResponse{
			Error: &s,
		})
		return
	}

	if versions == nil {
		versions = make([]models.AllocationVersion, 0)
	}

	c.JSON(http.StatusOK, AllocationVersionListResponse{Data: versions})
}

// validation writes the outcome of a validator call. A failed check is
// a regular response, everything else is an HTTP error.
func validation(c *gin.Context, err error) {
	var validationErr *goals.ValidationError
	if errors.As(err, &validationErr) {
		c.JSON(http.StatusOK, ValidationResponse{
			Valid:   false,
			Message: validationErr.Message,
		})
		return
	}

	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, ValidationResponse{Valid: true})
}

// @Summary		Validate allocation window
// @Description	Checks a dated allocation against the percentage cap of the account for overlapping windows
// @Tags			Allocations
// @Produce		json
// @Success		200		{object}	ValidationResponse
// @Failure		400		{object}	httpError
// @Failure		500		{object}	httpError
// @Param			request	body		ValidateConflictsRequest	true	"Allocation window"
// @Router			/v1/allocations/validate-conflicts [post]
func (co Controller) ValidateConflicts(c *gin.Context) {
	var request ValidateConflictsRequest
	err := httputil.BindData(c, &request)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	err = co.service.ValidateAllocationConflicts(request.AccountID, request.StartDate, request.EndDate, request.PercentAllocation, request.ExcludeID)
	validation(c, err)
}

// @Summary		Validate allocation percentage
// @Description	Checks a percentage against the 100% cap of the account
// @Tags			Allocations
// @Produce		json
// @Success		200		{object}	ValidationResponse
// @Failure		400		{object}	httpError
// @Failure		500		{object}	httpError
// @Param			request	body		ValidatePercentagesRequest	true	"Percentage"
// @Router			/v1/allocations/validate-percentages [post]
func (co Controller) ValidatePercentages(c *gin.Context) {
	var request ValidatePercentagesRequest
	err := httputil.BindData(c, &request)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	err = co.service.ValidateAllocationPercentages(request.AccountID, request.Percentage, request.ExcludeID)
	validation(c, err)
}

// @Summary		Validate allocation amount
// @Description	Checks an amount against the unallocated balance of the account, and against the account value on the allocation date when one is given
// @Tags			Allocations
// @Produce		json
// @Success		200		{object}	ValidationResponse
// @Failure		400		{object}	httpError
// @Failure		500		{object}	httpError
// @Param			request	body		ValidateBalanceRequest	true	"Amount"
// @Router			/v1/allocations/validate-balance [post]
func (co Controller) ValidateBalance(c *gin.Context) {
	var request ValidateBalanceRequest
	err := httputil.BindData(c, &request)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	err = co.service.ValidateUnallocatedBalance(request.AccountID, request.Amount, request.CurrentAccountValue)

	if err == nil && request.Date != nil {
		valueAtDate := request.CurrentAccountValue
		if request.AccountValueAtDate != nil {
			valueAtDate = *request.AccountValueAtDate
		}

		err = co.service.ValidateHistoricalAllocation(request.AccountID, request.Amount, *request.Date, valueAtDate)
	}

	validation(c, err)
}
