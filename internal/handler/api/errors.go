package api

import (
	"net/http"

	"venue-booking/internal/handler/httperr"
	"venue-booking/internal/pkg/errs"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type errorMapping struct {
	target  error
	status  int
	message string
}

var bookingErrorMappings = []errorMapping{
	{errs.ErrInvalidInput, http.StatusBadRequest, "Invalid request"},
	{errs.ErrDomainValidation, http.StatusUnprocessableEntity, "Domain validation failed"},
	{errs.ErrStaleAvailability, http.StatusConflict, "Availability changed, check again"},
	{errs.ErrBookingFinalized, http.StatusConflict, "Booking is canceled or archived"},
	{errs.ErrBookingNotFound, http.StatusNotFound, "Booking not found"},
	{errs.ErrVenueNotFound, http.StatusNotFound, "Venue not found"},
	{errs.ErrItemNotFound, http.StatusNotFound, "Inventory item not found"},
	{errs.ErrBillingNotFound, http.StatusNotFound, "Billing not found"},
}

// abortWithUsecaseError maps usecase sentinels to HTTP statuses; unknown errors become 500.
func abortWithUsecaseError(c *gin.Context, err error, fallback string) {
	for _, m := range bookingErrorMappings {
		if errs.Is(err, m.target) {
			httperr.AbortWithError(c, m.status, err, m.message, nil)
			return
		}
	}
	httperr.AbortWithError(c, http.StatusInternalServerError, err, fallback, nil)
}

// respond writes body, or a 500 when building it failed.
func respond[T any](c *gin.Context, status int, body T, err error) {
	if err != nil {
		abortWithMappingError(c, err)
		return
	}
	c.JSON(status, body)
}

func abortWithMappingError(c *gin.Context, err error) {
	httperr.AbortWithError(c, http.StatusInternalServerError, err, "Failed to build response", nil)
}

func parseIDParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid id", nil)
		return uuid.Nil, false
	}
	return id, true
}
