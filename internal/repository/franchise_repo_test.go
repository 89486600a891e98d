package repository

import (
	"context"
	"testing"

	"pizza_service/internal/model"

	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFranchiseRepository_Create_GrantsFranchiseeRoles(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO franchises`).
		WithArgs("pizzaPocket").
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(3))
	mock.ExpectExec(`INSERT INTO user_roles`).
		WithArgs(4, 3).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec(`INSERT INTO user_roles`).
		WithArgs(5, 3).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	repo := NewFranchiseRepository(mock)
	franchise := &model.Franchise{Name: "pizzaPocket"}
	err = repo.Create(context.Background(), franchise, []int{4, 5})

	assert.NoError(t, err)
	assert.Equal(t, 3, franchise.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFranchiseRepository_Delete_CascadesInOneTransaction(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM stores WHERE franchise_id`).
		WithArgs(3).
		WillReturnResult(pgxmock.NewResult("DELETE", 2))
	mock.ExpectExec(`DELETE FROM user_roles WHERE role = 'franchisee' AND object_id`).
		WithArgs(3).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectExec(`DELETE FROM franchises WHERE id`).
		WithArgs(3).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectCommit()

	repo := NewFranchiseRepository(mock)
	err = repo.Delete(context.Background(), 3)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFranchiseRepository_Delete_NotFoundRollsBack(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM stores WHERE franchise_id`).
		WithArgs(99).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))
	mock.ExpectExec(`DELETE FROM user_roles WHERE role = 'franchisee' AND object_id`).
		WithArgs(99).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))
	mock.ExpectExec(`DELETE FROM franchises WHERE id`).
		WithArgs(99).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))
	mock.ExpectRollback()

	repo := NewFranchiseRepository(mock)
	err = repo.Delete(context.Background(), 99)

	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFranchiseRepository_DeleteStore_ScopedToFranchise(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	// Store 10 belongs to franchise 2, so a delete scoped to franchise 3
	// matches nothing.
	mock.ExpectExec(`DELETE FROM stores WHERE id`).
		WithArgs(10, 3).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	repo := NewFranchiseRepository(mock)
	err = repo.DeleteStore(context.Background(), 3, 10)

	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
