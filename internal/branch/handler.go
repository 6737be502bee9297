package branch

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

// ListBranches answers GET /branches, optionally filtered by ?status=.
func (h *Handler) ListBranches(c *gin.Context) {
	status := strings.ToUpper(c.Query("status"))

	branches, err := h.service.ListBranches(c.Request.Context(), status)
	if err != nil {
		api.WriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, branches)
}

func (h *Handler) GetBranch(c *gin.Context) {
	id, ok := api.ParamInt(c, "id")
	if !ok {
		return
	}

	b, err := h.service.GetBranch(c.Request.Context(), id)
	if err != nil {
		api.WriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, b)
}

func (h *Handler) ListCourts(c *gin.Context) {
	id, ok := api.ParamInt(c, "id")
	if !ok {
		return
	}

	courts, err := h.service.ListCourts(c.Request.Context(), id)
	if err != nil {
		api.WriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, courts)
}

func (h *Handler) RequestCreateBranch(c *gin.Context) {
	managerID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	var req CreateBranchRequest
	if !api.BindJSON(c, &req) {
		return
	}

	b, err := h.service.RequestCreateBranch(c.Request.Context(), managerID, req)
	if err != nil {
		api.WriteError(c, err)
		return
	}

	c.JSON(http.StatusCreated, api.DataResponse{Message: "Branch request sent", Data: b})
}

func (h *Handler) HandleRequest(c *gin.Context) {
	var req HandleRequestRequest
	if !api.BindJSON(c, &req) {
		return
	}

	b, err := h.service.HandleRequest(c.Request.Context(), req.BranchID, req.Approve)
	if err != nil {
		api.WriteError(c, err)
		return
	}

	msg := "Branch request denied"
	if req.Approve {
		msg = "Branch request approved"
	}
	c.JSON(http.StatusOK, api.DataResponse{Message: msg, Data: b})
}

func (h *Handler) CreateCourt(c *gin.Context) {
	managerID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	branchID, ok := api.ParamInt(c, "id")
	if !ok {
		return
	}

	var req CreateCourtRequest
	if !api.BindJSON(c, &req) {
		return
	}

	court, err := h.service.CreateCourt(c.Request.Context(), managerID, branchID, req)
	if err != nil {
		api.WriteError(c, err)
		return
	}

	c.JSON(http.StatusCreated, court)
}
