package schedule

import (
	"context"
	"time"

	"github.com/linhlinh38/Bookminton/internal/apperror"
	"github.com/linhlinh38/Bookminton/internal/branch"
)

var ErrInvalidDate = apperror.Validation("date must be formatted as YYYY-MM-DD")

// CourtLookup resolves a court, answering NotFound when it does not exist.
type CourtLookup interface {
	GetCourtByID(ctx context.Context, id int) (*branch.Court, error)
}

type Service interface {
	ListByCourtAndDate(ctx context.Context, courtID int, date string) ([]Schedule, error)
}

type service struct {
	repo   Repository
	courts CourtLookup
}

func NewService(repo Repository, courts CourtLookup) Service {
	return &service{repo: repo, courts: courts}
}

// ListByCourtAndDate is the availability view of one court on one day.
func (s *service) ListByCourtAndDate(ctx context.Context, courtID int, date string) ([]Schedule, error) {
	day, err := time.Parse(DateLayout, date)
	if err != nil {
		return nil, ErrInvalidDate
	}

	if _, err := s.courts.GetCourtByID(ctx, courtID); err != nil {
		return nil, err
	}

	return s.repo.ListByCourtAndDate(ctx, courtID, day)
}
