package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mohamedrafeek-mr/FoodHub/pkg/database"
	apperrors "github.com/mohamedrafeek-mr/FoodHub/pkg/errors"
)

func newCartRepo(t *testing.T) (*CartRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := database.NewMockPool()
	require.NoError(t, err)
	return NewCartRepository(mock), mock
}

// --- GetLines Tests ---

func TestCartRepository_GetLines_Success(t *testing.T) {
	repo, mock := newCartRepo(t)

	now := time.Now().UTC()
	rows := pgxmock.NewRows([]string{"item_id", "name", "price", "quantity", "created_at", "updated_at"}).
		AddRow("item-1", "Margherita Pizza", int64(12000), 2, now, now).
		AddRow("item-2", "Garlic Bread", int64(7550), 1, now, now)

	mock.ExpectQuery("SELECT ci.item_id, m.name, m.price").
		WithArgs("user-1").
		WillReturnRows(rows)

	lines, err := repo.GetLines(context.Background(), "user-1")
	require.NoError(t, err)
	require.Len(t, lines, 2)
	assert.Equal(t, "item-1", lines[0].ItemID)
	assert.Equal(t, int64(12000), lines[0].UnitPrice)
	assert.Equal(t, 2, lines[0].Quantity)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCartRepository_GetLines_Empty(t *testing.T) {
	repo, mock := newCartRepo(t)

	mock.ExpectQuery("SELECT ci.item_id, m.name, m.price").
		WithArgs("user-1").
		WillReturnRows(pgxmock.NewRows([]string{"item_id", "name", "price", "quantity", "created_at", "updated_at"}))

	lines, err := repo.GetLines(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Empty(t, lines)
	assert.NotNil(t, lines)

	assert.NoError(t, mock.ExpectationsWereMet())
}

// --- AddLine Tests ---

func TestCartRepository_AddLine_Upsert(t *testing.T) {
	repo, mock := newCartRepo(t)

	mock.ExpectExec("INSERT INTO cart_items").
		WithArgs("user-1", "item-1", 2).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := repo.AddLine(context.Background(), "user-1", "item-1", 2)
	assert.NoError(t, err)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCartRepository_AddLine_InvalidQuantity(t *testing.T) {
	repo, mock := newCartRepo(t)

	err := repo.AddLine(context.Background(), "user-1", "item-1", 0)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "INVALID_QUANTITY", appErr.Code)

	// No statement reaches the database.
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCartRepository_AddLine_UnknownItem(t *testing.T) {
	repo, mock := newCartRepo(t)

	mock.ExpectExec("INSERT INTO cart_items").
		WithArgs("user-1", "item-404", 1).
		WillReturnError(errors.New("ERROR: insert or update violates foreign key constraint (SQLSTATE 23503)"))

	err := repo.AddLine(context.Background(), "user-1", "item-404", 1)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}

// --- SetLineQuantity Tests ---

func TestCartRepository_SetLineQuantity_Update(t *testing.T) {
	repo, mock := newCartRepo(t)

	mock.ExpectExec("UPDATE cart_items").
		WithArgs(5, "user-1", "item-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := repo.SetLineQuantity(context.Background(), "user-1", "item-1", 5)
	assert.NoError(t, err)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCartRepository_SetLineQuantity_MissingLine(t *testing.T) {
	repo, mock := newCartRepo(t)

	mock.ExpectExec("UPDATE cart_items").
		WithArgs(5, "user-1", "item-404").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.SetLineQuantity(context.Background(), "user-1", "item-404", 5)
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "LINE_NOT_FOUND", appErr.Code)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCartRepository_SetLineQuantity_ZeroRemoves(t *testing.T) {
	repo, mock := newCartRepo(t)

	mock.ExpectExec("DELETE FROM cart_items").
		WithArgs("user-1", "item-1").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	err := repo.SetLineQuantity(context.Background(), "user-1", "item-1", 0)
	assert.NoError(t, err)

	assert.NoError(t, mock.ExpectationsWereMet())
}

// --- RemoveLine Tests ---

func TestCartRepository_RemoveLine_AbsentIsNoop(t *testing.T) {
	repo, mock := newCartRepo(t)

	mock.ExpectExec("DELETE FROM cart_items").
		WithArgs("user-1", "item-404").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	err := repo.RemoveLine(context.Background(), "user-1", "item-404")
	assert.NoError(t, err)

	assert.NoError(t, mock.ExpectationsWereMet())
}

// --- Clear Tests ---

func TestCartRepository_Clear(t *testing.T) {
	repo, mock := newCartRepo(t)

	mock.ExpectExec("DELETE FROM cart_items").
		WithArgs("user-1").
		WillReturnResult(pgxmock.NewResult("DELETE", 3))

	err := repo.Clear(context.Background(), "user-1")
	assert.NoError(t, err)

	assert.NoError(t, mock.ExpectationsWereMet())
}
