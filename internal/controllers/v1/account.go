package v1

import (
	"net/http"

	"github.com/chipheo00/wealth-vn/internal/httputil"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// RegisterAccountRoutes registers the account routes with the
// RouterGroup that is passed. Accounts live outside this backend, the
// only resource here is the computed unallocated balance.
func (co Controller) RegisterAccountRoutes(r *gin.RouterGroup) {
	r.OPTIONS("/:id/unallocated-balance", httputil.OptionsGet)
	r.GET("/:id/unallocated-balance", co.GetUnallocatedBalance)
}

// @Summary		Get unallocated balance
// @Description	Returns the part of the account value that is not claimed by any allocation
// @Tags			Accounts
// @Produce		json
// @Success		200				{object}	BalanceResponse
// @Failure		400				{object}	BalanceResponse
// @Failure		500				{object}	BalanceResponse
// @Param			id				path		string	true	"ID of the account"
// @Param			currentValue	query		string	true	"Current value of the account"
// @Router			/v1/accounts/{id}/unallocated-balance [get]
func (co Controller) GetUnallocatedBalance(c *gin.Context) {
	currentValue, err := decimal.NewFromString(c.Query("currentValue"))
	if err != nil {
		s := errCurrentValueParameter.Error()
		c.JSON(http.StatusBadRequest, BalanceResponse{
			Error: &s,
		})
		return
	}

	balance, err := co.service.UnallocatedBalance(c.Param("id"), currentValue)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), BalanceResponse{
			Error: &s,
		})
		return
	}

	c.JSON(http.StatusOK, BalanceResponse{Data: &balance})
}
