package api

import (
	"net/http"

	reqdto "venue-booking/internal/handler/dto/request"
	resdto "venue-booking/internal/handler/dto/response"
	"venue-booking/internal/handler/httperr"
	"venue-booking/internal/pkg/errs"
	"venue-booking/internal/usecase/commands"
	"venue-booking/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type BookingHandler struct {
	cmds commands.BookingCommands
	q    queries.BookingQueries
}

func NewBookingHandler(cmds commands.BookingCommands, q queries.BookingQueries) *BookingHandler {
	return &BookingHandler{cmds: cmds, q: q}
}

// @Summary Quote a booking
// @Description Price a package, catering, discount and charges without saving anything
// @Tags bookings
// @Accept json
// @Produce json
// @Param request body reqdto.QuoteRequest true "Quote request"
// @Success 200 {object} resdto.BreakdownResponse
// @Failure 400 {object} httperr.Response
// @Router /api/quotes [post]
func (h *BookingHandler) Quote(c *gin.Context) {
	var req reqdto.QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
		return
	}
	breakdown, err := h.q.Quote(c.Request.Context(), req.ToInput())
	if err != nil {
		abortWithUsecaseError(c, err, "Quote failed")
		return
	}
	body, err := resdto.FromBreakdown(*breakdown)
	respond(c, http.StatusOK, body, err)
}

// @Summary Check item availability
// @Description Report conflicts and warnings for requested items and the venue over a period
// @Tags availability
// @Accept json
// @Produce json
// @Param request body reqdto.AvailabilityRequest true "Availability request"
// @Success 200 {object} resdto.AvailabilityResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /api/availability/items [post]
func (h *BookingHandler) CheckAvailability(c *gin.Context) {
	var req reqdto.AvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
		return
	}
	result, err := h.q.CheckAvailability(c.Request.Context(), req.ToInput())
	if err != nil {
		abortWithUsecaseError(c, err, "Availability check failed")
		return
	}
	body, err := resdto.FromAvailability(result)
	respond(c, http.StatusOK, body, err)
}

// @Summary List unavailable venue days
// @Description Days on which the venue is held by a counting booking
// @Tags availability
// @Produce json
// @Param id path string true "Venue ID"
// @Param excludeBookingId query string false "Booking to ignore, e.g. the one being edited"
// @Success 200 {object} resdto.UnavailableDaysResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /api/venues/{id}/unavailable-days [get]
func (h *BookingHandler) VenueUnavailableDays(c *gin.Context) {
	venueID, ok := parseIDParam(c)
	if !ok {
		return
	}
	var exclude *uuid.UUID
	if raw := c.Query("excludeBookingId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid excludeBookingId", nil)
			return
		}
		exclude = &id
	}
	days, err := h.q.VenueUnavailableDays(c.Request.Context(), venueID, exclude)
	if err != nil {
		abortWithUsecaseError(c, err, "Failed to load unavailable days")
		return
	}
	c.JSON(http.StatusOK, resdto.UnavailableDaysResponse{VenueID: venueID, Days: days})
}

// @Summary Create booking
// @Description Create a booking. Conflicts return 409 with a token that must be echoed to proceed.
// @Tags bookings
// @Accept json
// @Produce json
// @Param request body reqdto.SaveBookingRequest true "Booking"
// @Success 201 {object} resdto.SaveBookingResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response{detail=resdto.AcknowledgmentDetail}
// @Failure 422 {object} httperr.Response
// @Router /api/bookings [post]
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	var req reqdto.SaveBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
		return
	}
	h.save(c, req.ToInput(nil), http.StatusCreated)
}

// @Summary Update booking
// @Description Edit a booking. Omitted fields keep their stored values.
// @Tags bookings
// @Accept json
// @Produce json
// @Param id path string true "Booking ID"
// @Param request body reqdto.SaveBookingRequest true "Booking changes"
// @Success 200 {object} resdto.SaveBookingResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response{detail=resdto.AcknowledgmentDetail}
// @Failure 422 {object} httperr.Response
// @Router /api/bookings/{id} [put]
func (h *BookingHandler) UpdateBooking(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var req reqdto.SaveBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
		return
	}
	h.save(c, req.ToInput(&id), http.StatusOK)
}

func (h *BookingHandler) save(c *gin.Context, in commands.SaveBookingInput, okStatus int) {
	result, err := h.cmds.SaveBooking(c.Request.Context(), in)
	if err != nil {
		if errs.Is(err, errs.ErrAcknowledgmentRequired) && result != nil {
			detail, mapErr := resdto.FromAcknowledgment(result)
			if mapErr != nil {
				abortWithMappingError(c, mapErr)
				return
			}
			httperr.AbortWithError(c, http.StatusConflict, err,
				"Availability conflicts must be acknowledged", detail)
			return
		}
		abortWithUsecaseError(c, err, "Save booking failed")
		return
	}
	body, err := resdto.FromSaveResult(result)
	respond(c, okStatus, body, err)
}

// @Summary Set manual status
// @Description Set an operator status (canceled, archived, draft) that the resolver will not override
// @Tags bookings
// @Accept json
// @Produce json
// @Param id path string true "Booking ID"
// @Param request body reqdto.SetStatusRequest true "Status"
// @Success 200 {object} resdto.BookingStatusResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /api/bookings/{id}/status [put]
func (h *BookingHandler) SetStatus(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var req reqdto.SetStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
		return
	}
	state, err := req.ToManualState()
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid status", nil)
		return
	}
	if err := h.cmds.SetManualStatus(c.Request.Context(), id, state); err != nil {
		abortWithUsecaseError(c, err, "Set status failed")
		return
	}
	c.JSON(http.StatusOK, resdto.BookingStatusResponse{ID: id, Status: state.String()})
}

// @Summary Record payment
// @Description Record a payment against a booking and re-resolve its status
// @Tags payments
// @Accept json
// @Produce json
// @Param id path string true "Booking ID"
// @Param request body reqdto.RecordPaymentRequest true "Payment"
// @Success 201 {object} resdto.PaymentResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /api/bookings/{id}/payments [post]
func (h *BookingHandler) RecordPayment(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var req reqdto.RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
		return
	}
	result, err := h.cmds.RecordPayment(c.Request.Context(), req.ToInput(id))
	if err != nil {
		abortWithUsecaseError(c, err, "Record payment failed")
		return
	}
	c.JSON(http.StatusCreated, resdto.FromPaymentResult(result))
}

// @Summary Get billing
// @Description Persisted price breakdown of a booking with payment totals
// @Tags payments
// @Produce json
// @Param id path string true "Booking ID"
// @Success 200 {object} resdto.BillingResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /api/bookings/{id}/billing [get]
func (h *BookingHandler) GetBilling(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	view, err := h.q.GetBilling(c.Request.Context(), id)
	if err != nil {
		abortWithUsecaseError(c, err, "Failed to load billing")
		return
	}
	body, err := resdto.FromBillingView(view)
	respond(c, http.StatusOK, body, err)
}

// @Summary Refresh statuses
// @Description Re-resolve the status of every dated booking and persist the changes
// @Tags bookings
// @Produce json
// @Success 200 {object} resdto.RefreshStatusesResponse
// @Failure 500 {object} httperr.Response
// @Router /api/bookings/statuses/refresh [post]
func (h *BookingHandler) RefreshStatuses(c *gin.Context) {
	changed, err := h.cmds.RefreshStatuses(c.Request.Context())
	if err != nil {
		abortWithUsecaseError(c, err, "Status refresh failed")
		return
	}
	c.JSON(http.StatusOK, resdto.RefreshStatusesResponse{Changed: changed})
}
