package transaction

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/linhlinh38/Bookminton/internal/api"
	"github.com/linhlinh38/Bookminton/internal/auth"
)

type Handler struct {
	repo Repository
}

func NewHandler(repo Repository) *Handler {
	return &Handler{repo: repo}
}

func (h *Handler) ListTransactions(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	txs, err := h.repo.ListByAccount(c.Request.Context(), userID, limit, offset)
	if err != nil {
		api.WriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, txs)
}
