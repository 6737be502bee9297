package packagecourt

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/linhlinh38/Bookminton/internal/auth"
)

type MockService struct{ mock.Mock }

func (m *MockService) CreatePackage(ctx context.Context, req CreatePackageRequest) (*PackageCourt, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*PackageCourt), args.Error(1)
}

func (m *MockService) ListPackages(ctx context.Context) ([]PackageCourt, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]PackageCourt), args.Error(1)
}

func (m *MockService) GetPackage(ctx context.Context, id int) (*PackageCourt, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*PackageCourt), args.Error(1)
}

func (m *MockService) BuyPackageCourt(ctx context.Context, in BuyPackageInput) (*PackagePurchase, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*PackagePurchase), args.Error(1)
}

func (m *MockService) BuyPackageFull(ctx context.Context, in BuyPackageInput) (*PackagePurchase, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*PackagePurchase), args.Error(1)
}

func (m *MockService) ConfirmPurchase(ctx context.Context, id int) (*PackagePurchase, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*PackagePurchase), args.Error(1)
}

func (m *MockService) GetPurchase(ctx context.Context, id int, who auth.Identity) (*PackagePurchase, error) {
	args := m.Called(ctx, id, who)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*PackagePurchase), args.Error(1)
}

func (m *MockService) ListPurchasesOfManager(ctx context.Context, managerID int, who auth.Identity) ([]PackagePurchase, error) {
	args := m.Called(ctx, managerID, who)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]PackagePurchase), args.Error(1)
}

func (m *MockService) ExpirePurchases(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func serve(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func asManager(c *gin.Context) {
	c.Set("user_id", 5)
	c.Set("user_role", "MANAGER")
}

func TestHandler_BuyPackageCourt(t *testing.T) {
	gin.SetMode(gin.TestMode)

	svc := new(MockService)
	svc.On("BuyPackageCourt", mock.Anything, BuyPackageInput{PackageID: 2, ManagerID: 5, TotalCourt: 4}).
		Return(&PackagePurchase{ID: 40, Status: PurchasePending}, nil)
	svc.On("BuyPackageCourt", mock.Anything, BuyPackageInput{PackageID: 3, ManagerID: 5}).
		Return(nil, ErrPackageStillActive)

	router := gin.New()
	router.POST("/package-purchases/buy", asManager, NewHandler(svc).BuyPackageCourt)

	w := serve(router, http.MethodPost, "/package-purchases/buy", `{"package_id":2,"total_court":4}`)
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"PENDING"`)

	w = serve(router, http.MethodPost, "/package-purchases/buy", `{"package_id":3}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "active package")

	w = serve(router, http.MethodPost, "/package-purchases/buy", `{"total_court":4}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	svc.AssertExpectations(t)
}

func TestHandler_BuyPackageFull_PaymentID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	given := uuid.MustParse("6f1c2a1e-8a53-4f3e-9d55-2b1f0b8c7e11")

	svc := new(MockService)
	svc.On("BuyPackageFull", mock.Anything, mock.MatchedBy(func(in BuyPackageInput) bool {
		return in.PaymentID != nil && *in.PaymentID == given
	})).Return(&PackagePurchase{ID: 41, Status: PurchaseActive}, nil).Once()
	svc.On("BuyPackageFull", mock.Anything, mock.MatchedBy(func(in BuyPackageInput) bool {
		return in.PaymentID != nil && *in.PaymentID != given
	})).Return(&PackagePurchase{ID: 42, Status: PurchaseActive}, nil).Once()

	router := gin.New()
	router.POST("/package-purchases/buy-full", asManager, NewHandler(svc).BuyPackageFull)

	w := serve(router, http.MethodPost, "/package-purchases/buy-full", `{"package_id":2,"payment_id":"`+given.String()+`"}`)
	assert.Equal(t, http.StatusCreated, w.Code)

	w = serve(router, http.MethodPost, "/package-purchases/buy-full", `{"package_id":2}`)
	assert.Equal(t, http.StatusCreated, w.Code)

	w = serve(router, http.MethodPost, "/package-purchases/buy-full", `{"package_id":2,"payment_id":"not-a-uuid"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	svc.AssertExpectations(t)
}

func TestHandler_GetPackage(t *testing.T) {
	gin.SetMode(gin.TestMode)

	svc := new(MockService)
	svc.On("GetPackage", mock.Anything, 9).Return(nil, ErrPackageNotFound)

	router := gin.New()
	router.GET("/packages/:id", NewHandler(svc).GetPackage)

	w := serve(router, http.MethodGet, "/packages/9", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandler_CreatePackage(t *testing.T) {
	gin.SetMode(gin.TestMode)

	svc := new(MockService)
	svc.On("CreatePackage", mock.Anything, mock.AnythingOfType("CreatePackageRequest")).
		Return(nil, ErrCustomFieldsSet)

	router := gin.New()
	router.POST("/packages", NewHandler(svc).CreatePackage)

	w := serve(router, http.MethodPost, "/packages", `{"name":"Flexi","type":"CUSTOM","duration":2,"price_each_court":"80000"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "only allowed for standard packages")

	w = serve(router, http.MethodPost, "/packages", `{"type":"CUSTOM"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertNumberOfCalls(t, "CreatePackage", 1)
}

func TestHandler_GetPurchase(t *testing.T) {
	gin.SetMode(gin.TestMode)
	manager := auth.Identity{UserID: 5, Role: auth.RoleManager}

	svc := new(MockService)
	svc.On("GetPurchase", mock.Anything, 40, manager).Return(&PackagePurchase{ID: 40, ManagerID: 5, Status: PurchasePending}, nil)
	svc.On("GetPurchase", mock.Anything, 41, manager).Return(nil, ErrForeignPurchase)
	svc.On("GetPurchase", mock.Anything, 42, manager).Return(nil, ErrPurchaseNotFound)

	h := NewHandler(svc)
	router := gin.New()
	router.GET("/package-purchases/:id", asManager, h.GetPurchase)
	router.GET("/anonymous/:id", h.GetPurchase)

	w := serve(router, http.MethodGet, "/package-purchases/40", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"id":40`)

	assert.Equal(t, http.StatusForbidden, serve(router, http.MethodGet, "/package-purchases/41", "").Code)
	assert.Equal(t, http.StatusNotFound, serve(router, http.MethodGet, "/package-purchases/42", "").Code)
	assert.Equal(t, http.StatusBadRequest, serve(router, http.MethodGet, "/package-purchases/abc", "").Code)
	assert.Equal(t, http.StatusUnauthorized, serve(router, http.MethodGet, "/anonymous/40", "").Code)
	svc.AssertExpectations(t)
}

func TestHandler_ConfirmPurchase(t *testing.T) {
	gin.SetMode(gin.TestMode)

	svc := new(MockService)
	svc.On("ConfirmPurchase", mock.Anything, 40).Return(&PackagePurchase{ID: 40, Status: PurchaseActive}, nil)
	svc.On("ConfirmPurchase", mock.Anything, 41).Return(nil, ErrPurchaseNotPending)

	router := gin.New()
	router.PUT("/package-purchases/:id/confirm", NewHandler(svc).ConfirmPurchase)

	w := serve(router, http.MethodPut, "/package-purchases/40/confirm", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ACTIVE"`)

	w = serve(router, http.MethodPut, "/package-purchases/41/confirm", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "not pending")
}

func TestHandler_ListPurchasesOfManager(t *testing.T) {
	gin.SetMode(gin.TestMode)
	manager := auth.Identity{UserID: 5, Role: auth.RoleManager}

	svc := new(MockService)
	svc.On("ListPurchasesOfManager", mock.Anything, 5, manager).Return([]PackagePurchase{{ID: 40}}, nil)
	svc.On("ListPurchasesOfManager", mock.Anything, 6, manager).Return(nil, ErrForeignPurchase)

	router := gin.New()
	router.GET("/package-purchases/manager/:managerID", asManager, NewHandler(svc).ListPurchasesOfManager)

	assert.Equal(t, http.StatusOK, serve(router, http.MethodGet, "/package-purchases/manager/5", "").Code)
	assert.Equal(t, http.StatusForbidden, serve(router, http.MethodGet, "/package-purchases/manager/6", "").Code)
}
