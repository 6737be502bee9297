package schedule

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/linhlinh38/Bookminton/internal/api"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// ListCourtSchedules answers GET /courts/:id/schedules?date=YYYY-MM-DD.
func (h *Handler) ListCourtSchedules(c *gin.Context) {
	courtID, ok := api.ParamInt(c, "id")
	if !ok {
		return
	}

	date := c.Query("date")
	if date == "" {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "date query parameter required"})
		return
	}

	schedules, err := h.service.ListByCourtAndDate(c.Request.Context(), courtID, date)
	if err != nil {
		api.WriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, schedules)
}
