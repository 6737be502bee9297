package schedule

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var scheduleRowColumns = []string{"id", "type", "slots", "start_time", "end_time", "date", "booking_id", "court_id", "status", "created_at"}

func newMockRepo(t *testing.T) (Repository, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	// named batch inserts need the postgres bind type
	return NewRepository(sqlx.NewDb(db, "postgres")), mock
}

func day(s string) time.Time {
	d, _ := time.Parse(DateLayout, s)
	return d
}

func TestFindOverlapping(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`SELECT .* FROM schedules WHERE court_id = \$1 AND status = \$2 AND date = ANY\(\$3::date\[\]\) AND slots && \$4`).
		WithArgs(7, StatusAvailable, pq.StringArray{"2024-01-01", "2024-01-08"}, pq.StringArray{"S1", "S2"}).
		WillReturnRows(sqlmock.NewRows(scheduleRowColumns).
			AddRow(3, TypeBooking, "{S2,S3}", "09:00", "11:00", day("2024-01-08"), 1, 7, StatusAvailable, time.Now()))

	found, err := repo.FindOverlapping(context.Background(), 7, []time.Time{day("2024-01-01"), day("2024-01-08")}, []string{"S1", "S2"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, pq.StringArray{"S2", "S3"}, found[0].Slots)
	assert.Equal(t, 1, *found[0].BookingID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateBatch(t *testing.T) {
	repo, mock := newMockRepo(t)
	bookingID := 1

	entries := make([]Schedule, 0, 2)
	for _, d := range []string{"2024-01-01", "2024-01-08"} {
		entries = append(entries, Schedule{
			Type:      TypeBooking,
			Slots:     pq.StringArray{"S1"},
			StartTime: "08:00",
			EndTime:   "09:00",
			Date:      day(d),
			BookingID: &bookingID,
			CourtID:   7,
			Status:    StatusAvailable,
		})
	}

	mock.ExpectExec(`INSERT INTO schedules .* VALUES .*\$16\)`).
		WillReturnResult(sqlmock.NewResult(0, 2))

	require.NoError(t, repo.CreateBatch(context.Background(), entries))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateBatch_Empty(t *testing.T) {
	repo, mock := newMockRepo(t)

	require.NoError(t, repo.CreateBatch(context.Background(), nil))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCancelByBooking(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(`UPDATE schedules SET status = \$1 WHERE booking_id = \$2 AND status = \$3`).
		WithArgs(StatusCancelled, 4, StatusAvailable).
		WillReturnResult(sqlmock.NewResult(0, 3))

	n, err := repo.CancelByBooking(context.Background(), 4)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListByCourtAndDate(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`SELECT .* FROM schedules WHERE court_id = \$1 AND date = \$2::date`).
		WithArgs(7, "2024-01-08", StatusCancelled).
		WillReturnRows(sqlmock.NewRows(scheduleRowColumns))

	out, err := repo.ListByCourtAndDate(context.Background(), 7, day("2024-01-08"))
	require.NoError(t, err)
	assert.Empty(t, out)
	assert.NotNil(t, out)
	assert.NoError(t, mock.ExpectationsWereMet())
}
