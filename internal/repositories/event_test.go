package repositories

import (
	"regexp"
	"testing"
	"time"

	"event-checkout-backend/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventRepository_DeductInventory(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewEventRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT quantity_available")).
		WithArgs(5).
		WillReturnRows(sqlmock.NewRows([]string{"quantity_available"}).AddRow(10))

	mock.ExpectExec(regexp.QuoteMeta("UPDATE events")).
		WithArgs(5, 3, 3000, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = repo.DeductInventory(db, 5, 3, 3000)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEventRepository_DeductInventoryLocksRow(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewEventRepository(db)

	// The availability read must take the row lock.
	mock.ExpectQuery("FOR UPDATE").
		WithArgs(5).
		WillReturnRows(sqlmock.NewRows([]string{"quantity_available"}).AddRow(10))

	mock.ExpectExec(regexp.QuoteMeta("UPDATE events")).
		WithArgs(5, 1, 1000, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = repo.DeductInventory(db, 5, 1, 1000)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEventRepository_DeductInventoryInsufficient(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewEventRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT quantity_available")).
		WithArgs(5).
		WillReturnRows(sqlmock.NewRows([]string{"quantity_available"}).AddRow(2))

	err = repo.DeductInventory(db, 5, 3, 3000)
	require.Error(t, err)
	assert.True(t, models.IsInsufficientInventory(err))

	var insufficientErr *models.InsufficientInventoryError
	require.ErrorAs(t, err, &insufficientErr)
	assert.Equal(t, 5, insufficientErr.EventID)
	assert.Equal(t, 3, insufficientErr.Requested)
	assert.Equal(t, 2, insufficientErr.Available)

	// No UPDATE was expected; the write must not happen.
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEventRepository_DeductInventoryUnknownEvent(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewEventRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT quantity_available")).
		WithArgs(404).
		WillReturnRows(sqlmock.NewRows([]string{"quantity_available"}))

	err = repo.DeductInventory(db, 404, 1, 1000)
	assert.ErrorIs(t, err, models.ErrEventNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEventRepository_GetByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewEventRepository(db)
	now := time.Now()

	rows := sqlmock.NewRows([]string{
		"id", "title", "description", "base_price", "quantity_available",
		"quantity_sold", "revenue_generated", "starts_at", "created_at", "updated_at",
	}).AddRow(5, "Summer Fest", "Open air", 1000, 10, 2, 2000, now, now, now)

	mock.ExpectQuery(regexp.QuoteMeta("FROM events WHERE id = $1")).
		WithArgs(5).
		WillReturnRows(rows)

	event, err := repo.GetByID(5)
	require.NoError(t, err)
	assert.Equal(t, "Summer Fest", event.Title)
	assert.Equal(t, 10, event.QuantityAvailable)
	assert.Equal(t, 2000, event.RevenueGenerated)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEventRepository_GetByIDNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewEventRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM events WHERE id = $1")).
		WithArgs(404).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err = repo.GetByID(404)
	assert.ErrorIs(t, err, models.ErrEventNotFound)
}
