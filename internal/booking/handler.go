package booking

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/linhlinh38/Bookminton/internal/api"
	"github.com/linhlinh38/Bookminton/internal/auth"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// CreateBooking answers POST /bookings for the logged in customer.
func (h *Handler) CreateBooking(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	var req CreateBookingRequest
	if !api.BindJSON(c, &req) {
		return
	}

	in, err := req.ToInput()
	if err != nil {
		api.WriteError(c, err)
		return
	}

	result, err := h.service.CreateBooking(c.Request.Context(), in, userID)
	if err != nil {
		api.WriteError(c, err)
		return
	}

	c.JSON(http.StatusCreated, api.DataResponse{Message: "Create booking success", Data: result})
}

func (h *Handler) GetMyBookings(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	bookings, err := h.service.GetBookingByCustomer(c.Request.Context(), userID)
	if err != nil {
		api.WriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, bookings)
}

// GetBooking is readable by the booking's customer and by desk accounts of
// the court's branch.
func (h *Handler) GetBooking(c *gin.Context) {
	who, ok := caller(c)
	if !ok {
		return
	}
	id, ok := api.ParamInt(c, "id")
	if !ok {
		return
	}

	b, err := h.service.GetBooking(c.Request.Context(), id, who)
	if err != nil {
		api.WriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, b)
}

func (h *Handler) ListSchedules(c *gin.Context) {
	who, ok := caller(c)
	if !ok {
		return
	}
	id, ok := api.ParamInt(c, "id")
	if !ok {
		return
	}

	schedules, err := h.service.ListSchedules(c.Request.Context(), id, who)
	if err != nil {
		api.WriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, schedules)
}

func (h *Handler) CancelBooking(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	id, ok := api.ParamInt(c, "id")
	if !ok {
		return
	}

	b, err := h.service.CancelBooking(c.Request.Context(), id, userID)
	if err != nil {
		api.WriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, api.DataResponse{Message: "Booking cancelled", Data: b})
}

// ConfirmBooking is called once the payment of a booking has settled.
func (h *Handler) ConfirmBooking(c *gin.Context) {
	who, ok := caller(c)
	if !ok {
		return
	}
	id, ok := api.ParamInt(c, "id")
	if !ok {
		return
	}

	b, err := h.service.ConfirmAfterPayment(c.Request.Context(), id, who)
	if err != nil {
		api.WriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, api.DataResponse{Message: "Booking confirmed", Data: b})
}

func (h *Handler) UpdateTotalHours(c *gin.Context) {
	who, ok := caller(c)
	if !ok {
		return
	}
	id, ok := api.ParamInt(c, "id")
	if !ok {
		return
	}

	var req UpdateHoursRequest
	if !api.BindJSON(c, &req) {
		return
	}

	b, err := h.service.UpdateTotalHours(c.Request.Context(), id, req.Duration, who)
	if err != nil {
		api.WriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, api.DataResponse{Message: "Update total hours success", Data: b})
}

func (h *Handler) ListByCourt(c *gin.Context) {
	who, ok := caller(c)
	if !ok {
		return
	}
	courtID, ok := api.ParamInt(c, "courtID")
	if !ok {
		return
	}

	bookings, err := h.service.ListByCourt(c.Request.Context(), courtID, who)
	if err != nil {
		api.WriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, bookings)
}

func (h *Handler) ListByStatus(c *gin.Context) {
	who, ok := caller(c)
	if !ok {
		return
	}
	status := strings.ToUpper(c.Param("status"))

	bookings, err := h.service.ListByStatus(c.Request.Context(), status, who)
	if err != nil {
		api.WriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, bookings)
}

func caller(c *gin.Context) (auth.Identity, bool) {
	who, ok := auth.CurrentIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
	}
	return who, ok
}
