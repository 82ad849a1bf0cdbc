package v1

import (
	"net/http"

	"github.com/chipheo00/wealth-vn/internal/httputil"
	"github.com/chipheo00/wealth-vn/internal/types"
	"github.com/gin-gonic/gin"
)

// RegisterGoalRoutes registers the routes for goals with
// the RouterGroup that is passed.
func (co Controller) RegisterGoalRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", co.OptionsGoalList)
		r.GET("", co.GetGoals)
		r.POST("", co.CreateGoals)
	}

	// Goal with ID
	{
		r.OPTIONS("/:id", co.OptionsGoalDetail)
		r.GET("/:id", co.GetGoal)
		r.GET("/:id/allocations", co.GetGoalAllocations)
		r.POST("/:id/progress", co.GetGoalProgress) // This is a POST endpoint because some clients don't allow GET requests to have bodies
		r.PATCH("/:id", co.UpdateGoal)
		r.DELETE("/:id", co.DeleteGoal)
	}
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Goals
// @Success		204
// @Router			/v1/goals [options]
func (co Controller) OptionsGoalList(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Goals
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ID of the goal"
// @Router			/v1/goals/{id} [options]
func (co Controller) OptionsGoalDetail(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	_, err = co.service.Goal(uri.ID.UUID)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	httputil.OptionsGetPatchDelete(c)
}

// @Summary		Create goals
// @Description	Creates new goals
// @Tags			Goals
// @Produce		json
// @Success		201		{object}	GoalCreateResponse
// @Failure		400		{object}	GoalCreateResponse
// @Failure		500		{object}	GoalCreateResponse
// @Param			goals	body		[]GoalEditable	true	"Goals"
// @Router			/v1/goals [post]
func (co Controller) CreateGoals(c *gin.Context) {
	var editables []GoalEditable

	// Bind data and return error if not possible
	err := httputil.BindData(c, &editables)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), GoalCreateResponse{
			Error: &e,
		})
		return
	}

	// The final http status. Will be modified when errors occur
	status := http.StatusCreated
	r := GoalCreateResponse{}

	for _, editable := range editables {
		goal := editable.model()
		err = co.service.CreateGoal(&goal)
		if err != nil {
			status = r.appendError(err, status)
			continue
		}

		data := newGoal(c, goal)
		r.Data = append(r.Data, GoalResponse{Data: &data})
	}

	c.JSON(status, r)
}

// @Summary		List goals
// @Description	Returns a list of goals
// @Tags			Goals
// @Produce		json
// @Success		200	{object}	GoalListResponse
// @Failure		500	{object}	GoalListResponse
// @Router			/v1/goals [get]
func (co Controller) GetGoals(c *gin.Context) {
	goals, err := co.service.Goals()
	if err != nil {
		s := err.Error()
		c.JSON(status(err), GoalListResponse{
			Error: &s,
		})
		return
	}

	// When there are no resources, we want an empty list, not null
	data := make([]Goal, 0, len(goals))
	for _, goal := range goals {
		data = append(data, newGoal(c, goal))
	}

	c.JSON(http.StatusOK, GoalListResponse{Data: data})
}

// @Summary		Get goal
// @Description	Returns a specific goal
// @Tags			Goals
// @Produce		json
// @Success		200	{object}	GoalResponse
// @Failure		400	{object}	GoalResponse
// @Failure		404	{object}	GoalResponse
// @Failure		500	{object}	GoalResponse
// @Param			id	path		URIID	true	"ID of the goal"
// @Router			/v1/goals/{id} [get]
func (co Controller) GetGoal(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), GoalResponse{
			Error: &s,
		})
		return
	}

	goal, err := co.service.Goal(uri.ID.UUID)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), GoalResponse{
			Error: &s,
		})
		return
	}

	data := newGoal(c, goal)
	c.JSON(http.StatusOK, GoalResponse{Data: &data})
}

// @Summary		Update goal
// @Description	Updates a goal. Only values to be updated need to be specified.
// @Tags			Goals
// @Produce		json
// @Success		200		{object}	GoalResponse
// @Failure		400		{object}	GoalResponse
// @Failure		404		{object}	GoalResponse
// @Failure		500		{object}	GoalResponse
// @Param			id		path		URIID			true	"ID of the goal"
// @Param			goal	body		GoalEditable	true	"Goal"
// @Router			/v1/goals/{id} [patch]
func (co Controller) UpdateGoal(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), GoalResponse{
			Error: &s,
		})
		return
	}

	goal, err := co.service.Goal(uri.ID.UUID)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), GoalResponse{
			Error: &s,
		})
		return
	}

	// Fields absent from the request body keep their current values
	editable := newGoalEditable(goal)
	err = httputil.BindData(c, &editable)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), GoalResponse{
			Error: &s,
		})
		return
	}

	updated := editable.model()
	updated.DefaultModel = goal.DefaultModel

	updated, err = co.service.UpdateGoal(updated)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), GoalResponse{
			Error: &s,
		})
		return
	}

	data := newGoal(c, updated)
	c.JSON(http.StatusOK, GoalResponse{Data: &data})
}

// @Summary		Delete goal
// @Description	Deletes a goal and reports the number of deleted resources
// @Tags			Goals
// @Produce		json
// @Success		200	{object}	CountResponse
// @Failure		400	{object}	CountResponse
// @Failure		500	{object}	CountResponse
// @Param			id	path		URIID	true	"ID of the goal"
// @Router			/v1/goals/{id} [delete]
func (co Controller) DeleteGoal(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), CountResponse{
			Error: &s,
		})
		return
	}

	count, err := co.service.DeleteGoal(uri.ID.UUID)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), CountResponse{
			Error: &s,
		})
		return
	}

	c.JSON(http.StatusOK, CountResponse{Data: &count})
}

// @Summary		List goal allocations
// @Description	Returns the allocations funding a specific goal
// @Tags			Goals
// @Produce		json
// @Success		200	{object}	AllocationListResponse
// @Failure		400	{object}	AllocationListResponse
// @Failure		500	{object}	AllocationListResponse
// @Param			id	path		URIID	true	"ID of the goal"
// @Router			/v1/goals/{id}/allocations [get]
func (co Controller) GetGoalAllocations(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), AllocationListResponse{
			Error: &s,
		})
		return
	}

	allocations, err := co.service.AllocationsForGoal(uri.ID.UUID)
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

// @Summary		Compute goal progress
// @Description	Computes the progress of a goal from account value snapshots
// @Tags			Goals
// @Produce		json
// @Success		200		{object}	GoalProgressResponse
// @Failure		400		{object}	GoalProgressResponse
// @Failure		404		{object}	GoalProgressResponse
// @Failure		500		{object}	GoalProgressResponse
// @Param			id		path		URIID				true	"ID of the goal"
// @Param			request	body		GoalProgressRequest	true	"Account value snapshots"
// @Router			/v1/goals/{id}/progress [post]
func (co Controller) GetGoalProgress(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), GoalProgressResponse{
			Error: &s,
		})
		return
	}

	var request GoalProgressRequest
	err = httputil.BindData(c, &request)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), GoalProgressResponse{
			Error: &s,
		})
		return
	}

	goal, err := co.service.Goal(uri.ID.UUID)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), GoalProgressResponse{
			Error: &s,
		})
		return
	}

	queryDate := request.Date
	if queryDate.IsZero() {
		queryDate = types.Today()
	}

	snapshot, err := co.service.GoalProgressOnDate(goal, request.ValuesAtStart, request.CurrentValues, queryDate)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), GoalProgressResponse{
			Error: &s,
		})
		return
	}

	c.JSON(http.StatusOK, GoalProgressResponse{Data: &snapshot})
}
