package packagecourt

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/linhlinh38/Bookminton/internal/api"
	"github.com/linhlinh38/Bookminton/internal/auth"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) ListPackages(c *gin.Context) {
	pkgs, err := h.service.ListPackages(c.Request.Context())
	if err != nil {
		api.WriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, pkgs)
}

func (h *Handler) GetPackage(c *gin.Context) {
	id, ok := api.ParamInt(c, "id")
	if !ok {
		return
	}

	pkg, err := h.service.GetPackage(c.Request.Context(), id)
	if err != nil {
		api.WriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, pkg)
}

func (h *Handler) CreatePackage(c *gin.Context) {
	var req CreatePackageRequest
	if !api.BindJSON(c, &req) {
		return
	}

	pkg, err := h.service.CreatePackage(c.Request.Context(), req)
	if err != nil {
		api.WriteError(c, err)
		return
	}

	c.JSON(http.StatusCreated, api.DataResponse{Message: "Create package success", Data: pkg})
}

// BuyPackageCourt answers POST /package-purchases/buy. The purchase stays
// PENDING until ConfirmPurchase.
func (h *Handler) BuyPackageCourt(c *gin.Context) {
	in, ok := h.bindPurchase(c)
	if !ok {
		return
	}

	purchase, err := h.service.BuyPackageCourt(c.Request.Context(), in)
	if err != nil {
		api.WriteError(c, err)
		return
	}

	c.JSON(http.StatusCreated, api.DataResponse{Message: "Buy package success", Data: purchase})
}

func (h *Handler) BuyPackageFull(c *gin.Context) {
	in, ok := h.bindPurchase(c)
	if !ok {
		return
	}
	if in.PaymentID == nil {
		id := uuid.New()
		in.PaymentID = &id
	}

	purchase, err := h.service.BuyPackageFull(c.Request.Context(), in)
	if err != nil {
		api.WriteError(c, err)
		return
	}

	c.JSON(http.StatusCreated, api.DataResponse{Message: "Buy package success", Data: purchase})
}

func (h *Handler) bindPurchase(c *gin.Context) (BuyPackageInput, bool) {
	managerID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return BuyPackageInput{}, false
	}

	var req BuyPackageRequest
	if !api.BindJSON(c, &req) {
		return BuyPackageInput{}, false
	}

	in := BuyPackageInput{
		PackageID:  req.PackageID,
		ManagerID:  managerID,
		TotalCourt: req.TotalCourt,
	}
	if req.PaymentID != "" {
		id, err := uuid.Parse(req.PaymentID)
		if err != nil {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid payment_id"})
			return BuyPackageInput{}, false
		}
		in.PaymentID = &id
	}
	return in, true
}

// ConfirmPurchase answers PUT /package-purchases/:id/confirm once the
// payment of a pending purchase has settled.
func (h *Handler) ConfirmPurchase(c *gin.Context) {
	id, ok := api.ParamInt(c, "id")
	if !ok {
		return
	}

	purchase, err := h.service.ConfirmPurchase(c.Request.Context(), id)
	if err != nil {
		api.WriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, api.DataResponse{Message: "Purchase confirmed", Data: purchase})
}

func (h *Handler) ListPurchasesOfManager(c *gin.Context) {
	who, ok := auth.CurrentIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}
	managerID, ok := api.ParamInt(c, "managerID")
	if !ok {
		return
	}

	purchases, err := h.service.ListPurchasesOfManager(c.Request.Context(), managerID, who)
	if err != nil {
		api.WriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, purchases)
}

func (h *Handler) GetPurchase(c *gin.Context) {
	who, ok := auth.CurrentIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}
	id, ok := api.ParamInt(c, "id")
	if !ok {
		return
	}

	purchase, err := h.service.GetPurchase(c.Request.Context(), id, who)
	if err != nil {
		api.WriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, purchase)
}
