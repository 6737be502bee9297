package packagecourt

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/linhlinh38/Bookminton/internal/apperror"
	"github.com/linhlinh38/Bookminton/internal/auth"
	"github.com/linhlinh38/Bookminton/internal/clock"
	"github.com/linhlinh38/Bookminton/internal/db"
	"github.com/linhlinh38/Bookminton/internal/events"
	"github.com/linhlinh38/Bookminton/internal/logger"
	"github.com/linhlinh38/Bookminton/internal/metrics"
	"github.com/linhlinh38/Bookminton/internal/schedule"
	"github.com/linhlinh38/Bookminton/internal/transaction"
	"github.com/linhlinh38/Bookminton/internal/user"
)

var (
	ErrPackageNotFound    = apperror.NotFound("package not found")
	ErrManagerNotFound    = apperror.NotFound("manager not found")
	ErrInvalidPackageType = apperror.Validation("package type must be STANDARD or CUSTOM")
	ErrCustomFieldsSet    = apperror.Validation("duration, max court and total price are only allowed for standard packages")
	ErrStandardIncomplete = apperror.Validation("standard package needs total price and max court")
	ErrCustomUnpriced     = apperror.Validation("custom package needs a price for each court")
	ErrPackageUnpriced    = apperror.Validation("package has no price")
	ErrInvalidTotalCourt  = apperror.Validation("total court must be positive")
	ErrPackageStillActive = apperror.Validation("manager already has an active package")
	ErrNegativePrice      = apperror.Validation("prices must not be negative")
	ErrPurchaseNotFound   = apperror.NotFound("purchase not found")
	ErrPurchaseNotPending = apperror.Validation("purchase is not pending")
	ErrForeignPurchase    = apperror.Forbidden("purchase belongs to another manager")
)

const (
	modeCourt = "court"
	modeFull  = "full"
)

// Payment method recorded on package transactions.
const paymentLinkedAccount = "LINKED_ACCOUNT"

// ManagerStore reads and updates the manager account inside a purchase.
type ManagerStore interface {
	GetManagerForUpdate(ctx context.Context, id int) (*user.User, error)
	UpdateManagerPlan(ctx context.Context, id int, expiredDate time.Time, maxCourt int) error
}

type TransactionRecorder interface {
	Create(ctx context.Context, t *transaction.Transaction) (*transaction.Transaction, error)
}

type Notifier interface {
	SendPackageReceipt(ctx context.Context, to, name, packageName string, total decimal.Decimal, start, end time.Time) error
}

type Options struct {
	// AdminAccountID receives the money of full purchases.
	AdminAccountID  int
	MaxCustomCourts int
}

type Service interface {
	CreatePackage(ctx context.Context, req CreatePackageRequest) (*PackageCourt, error)
	ListPackages(ctx context.Context) ([]PackageCourt, error)
	GetPackage(ctx context.Context, id int) (*PackageCourt, error)
	BuyPackageCourt(ctx context.Context, in BuyPackageInput) (*PackagePurchase, error)
	BuyPackageFull(ctx context.Context, in BuyPackageInput) (*PackagePurchase, error)
	ConfirmPurchase(ctx context.Context, id int) (*PackagePurchase, error)
	ListPurchasesOfManager(ctx context.Context, managerID int, who auth.Identity) ([]PackagePurchase, error)
	GetPurchase(ctx context.Context, id int, who auth.Identity) (*PackagePurchase, error)
	ExpirePurchases(ctx context.Context) (int64, error)
}

type service struct {
	repo         Repository
	managers     ManagerStore
	transactions TransactionRecorder
	tx           db.Transactor
	notifier     Notifier
	events       events.Publisher
	clock        clock.Clock
	opts         Options
}

func NewService(
	repo Repository,
	managers ManagerStore,
	transactions TransactionRecorder,
	tx db.Transactor,
	notifier Notifier,
	publisher events.Publisher,
	clk clock.Clock,
	opts Options,
) Service {
	return &service{
		repo:         repo,
		managers:     managers,
		transactions: transactions,
		tx:           tx,
		notifier:     notifier,
		events:       publisher,
		clock:        clk,
		opts:         opts,
	}
}

func (s *service) CreatePackage(ctx context.Context, req CreatePackageRequest) (*PackageCourt, error) {
	pkg := &PackageCourt{
		Name:        req.Name,
		Type:        strings.ToUpper(req.Type),
		MaxCourt:    req.MaxCourt,
		Duration:    req.Duration,
		Description: req.Description,
	}
	if req.TotalPrice != nil {
		pkg.TotalPrice = decimal.NewNullDecimal(*req.TotalPrice)
	}
	if req.PriceEachCourt != nil {
		pkg.PriceEachCourt = decimal.NewNullDecimal(*req.PriceEachCourt)
	}

	if err := beforeCreate(pkg); err != nil {
		return nil, err
	}

	created, err := s.repo.CreatePackage(ctx, pkg)
	if err != nil {
		return nil, err
	}

	logger.Info("package created", "package_id", created.ID, "type", created.Type)
	return created, nil
}

// beforeCreate enforces which fields each package type may carry.
func beforeCreate(p *PackageCourt) error {
	if (p.TotalPrice.Valid && p.TotalPrice.Decimal.IsNegative()) ||
		(p.PriceEachCourt.Valid && p.PriceEachCourt.Decimal.IsNegative()) {
		return ErrNegativePrice
	}

	switch p.Type {
	case TypeCustom:
		if p.Duration != nil || p.MaxCourt != nil || p.TotalPrice.Valid {
			return ErrCustomFieldsSet
		}
		if !p.PriceEachCourt.Valid {
			return ErrCustomUnpriced
		}
	case TypeStandard:
		if !p.TotalPrice.Valid || p.MaxCourt == nil {
			return ErrStandardIncomplete
		}
	default:
		return ErrInvalidPackageType
	}
	return nil
}

func (s *service) ListPackages(ctx context.Context) ([]PackageCourt, error) {
	return s.repo.ListPackages(ctx)
}

func (s *service) GetPackage(ctx context.Context, id int) (*PackageCourt, error) {
	pkg, err := s.repo.GetPackageByID(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPackageNotFound
	}
	if err != nil {
		return nil, err
	}
	return pkg, nil
}

// BuyPackageCourt records a purchase that waits for payment. ConfirmPurchase
// activates it.
func (s *service) BuyPackageCourt(ctx context.Context, in BuyPackageInput) (*PackagePurchase, error) {
	return s.purchase(ctx, in, purchaseOptions{})
}

// BuyPackageFull records a paid purchase and the transaction that paid it.
func (s *service) BuyPackageFull(ctx context.Context, in BuyPackageInput) (*PackagePurchase, error) {
	return s.purchase(ctx, in, purchaseOptions{full: true})
}

type purchaseOptions struct {
	full bool
}

// quote is what a purchase costs and when it runs.
type quote struct {
	duration   int
	totalCourt int
	totalPrice decimal.Decimal
	startDate  time.Time
	endDate    time.Time
}

// priceQuote applies the eligibility rules to the manager as locked for
// this purchase and computes its terms.
func priceQuote(pkg *PackageCourt, manager *user.User, requestedCourts int, now time.Time, customLimit int) (quote, error) {
	if pkg.Type == TypeCustom {
		if pkg.MaxCourt != nil && *pkg.MaxCourt > customLimit {
			return quote{}, customLimitError(customLimit)
		}
		if pkg.MaxCourt == nil && requestedCourts > customLimit {
			return quote{}, customLimitError(customLimit)
		}
	}

	if manager.HasActivePackage(now) {
		return quote{}, ErrPackageStillActive
	}

	q := quote{duration: 1, totalCourt: requestedCourts}
	if pkg.Duration != nil {
		q.duration = *pkg.Duration
	}
	if pkg.MaxCourt != nil {
		q.totalCourt = *pkg.MaxCourt
	}
	if q.totalCourt <= 0 {
		return quote{}, ErrInvalidTotalCourt
	}

	switch {
	case pkg.TotalPrice.Valid:
		q.totalPrice = pkg.TotalPrice.Decimal
	case pkg.PriceEachCourt.Valid:
		q.totalPrice = pkg.PriceEachCourt.Decimal.Mul(decimal.NewFromInt(int64(q.totalCourt)))
	default:
		return quote{}, ErrPackageUnpriced
	}

	base := now
	if manager.ExpiredDate != nil {
		base = *manager.ExpiredDate
	}
	q.startDate = clock.DateOnly(base).AddDate(0, 0, 1)
	q.endDate = q.startDate.AddDate(0, q.duration, 0)

	return q, nil
}

func customLimitError(limit int) error {
	return apperror.Validation(fmt.Sprintf("max %d courts for custom package", limit))
}

// purchase holds the manager row for the whole write so two purchases of
// one manager cannot both see the manager without a package.
func (s *service) purchase(ctx context.Context, in BuyPackageInput, opts purchaseOptions) (*PackagePurchase, error) {
	pkg, err := s.GetPackage(ctx, in.PackageID)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	status, mode := PurchasePending, modeCourt
	if opts.full {
		status, mode = PurchaseActive, modeFull
	}

	var (
		purchase *PackagePurchase
		manager  *user.User
	)
	err = s.tx.WithTx(ctx, func(ctx context.Context) error {
		manager, err = s.managers.GetManagerForUpdate(ctx, in.ManagerID)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrManagerNotFound
		}
		if err != nil {
			return err
		}

		q, err := priceQuote(pkg, manager, in.TotalCourt, now, s.opts.MaxCustomCourts)
		if err != nil {
			return err
		}

		purchase, err = s.repo.CreatePurchase(ctx, &PackagePurchase{
			TotalPrice:     q.totalPrice,
			TotalCourt:     q.totalCourt,
			Duration:       q.duration,
			PriceEachCourt: pkg.PriceEachCourt,
			StartDate:      q.startDate,
			EndDate:        q.endDate,
			ManagerID:      manager.ID,
			PackageCourtID: pkg.ID,
			Status:         status,
		})
		if err != nil {
			return err
		}

		if err := s.managers.UpdateManagerPlan(ctx, manager.ID, q.endDate, q.totalCourt); err != nil {
			return err
		}

		if !opts.full {
			return nil
		}

		_, err = s.transactions.Create(ctx, &transaction.Transaction{
			Amount:        q.totalPrice,
			FromID:        manager.ID,
			ToID:          s.opts.AdminAccountID,
			Content:       fmt.Sprintf("Manager %s orders package purchase on %s", manager.Name, now.Format(schedule.DateLayout)),
			Type:          transaction.TypePackage,
			PaymentMethod: paymentLinkedAccount,
			PaymentID:     in.PaymentID,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	metrics.RecordPackagePurchase(pkg.Type, mode)
	logger.Info("package purchased",
		"purchase_id", purchase.ID,
		"manager_id", manager.ID,
		"package_id", pkg.ID,
		"status", purchase.Status,
	)

	events.Emit(ctx, s.events, events.KeyPackagePurchased, events.PackagePurchased{
		PurchaseID:  purchase.ID,
		ManagerID:   manager.ID,
		PackageID:   pkg.ID,
		PackageType: pkg.Type,
		Status:      purchase.Status,
		TotalPrice:  purchase.TotalPrice,
		TotalCourt:  purchase.TotalCourt,
		StartDate:   purchase.StartDate,
		EndDate:     purchase.EndDate,
	})
	if err := s.notifier.SendPackageReceipt(ctx, manager.Email, manager.Name, pkg.Name,
		purchase.TotalPrice, purchase.StartDate, purchase.EndDate); err != nil {
		logger.Error("receipt mail not queued", "purchase_id", purchase.ID, "error", err.Error())
	}

	return purchase, nil
}

// ConfirmPurchase activates a pending purchase once its payment has settled.
func (s *service) ConfirmPurchase(ctx context.Context, id int) (*PackagePurchase, error) {
	p, err := s.repo.ConfirmPurchase(ctx, id)
	if err == nil {
		logger.Info("package purchase confirmed", "purchase_id", p.ID, "manager_id", p.ManagerID)
		return p, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	if _, err := s.getPurchase(ctx, id); err != nil {
		return nil, err
	}
	return nil, ErrPurchaseNotPending
}

func (s *service) ListPurchasesOfManager(ctx context.Context, managerID int, who auth.Identity) ([]PackagePurchase, error) {
	if !canSeePurchases(who, managerID) {
		return nil, ErrForeignPurchase
	}
	return s.repo.ListPurchasesByManager(ctx, managerID)
}

func (s *service) GetPurchase(ctx context.Context, id int, who auth.Identity) (*PackagePurchase, error) {
	p, err := s.getPurchase(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canSeePurchases(who, p.ManagerID) {
		return nil, ErrForeignPurchase
	}
	return p, nil
}

func (s *service) getPurchase(ctx context.Context, id int) (*PackagePurchase, error) {
	p, err := s.repo.GetPurchaseByID(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPurchaseNotFound
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// canSeePurchases: managers read their own purchases, admins and operators
// read everyone's.
func canSeePurchases(who auth.Identity, managerID int) bool {
	switch who.Role {
	case auth.RoleAdmin, auth.RoleOperator:
		return true
	case auth.RoleManager:
		return who.UserID == managerID
	}
	return false
}

func (s *service) ExpirePurchases(ctx context.Context) (int64, error) {
	n, err := s.repo.ExpirePurchases(ctx, clock.DateOnly(s.clock.Now()))
	if err != nil {
		return 0, err
	}

	if n > 0 {
		metrics.RecordPurchasesExpired(n)
		logger.Info("package purchases expired", "count", n)
	}
	return n, nil
}
