package repository_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"financeiro/internal/models"
	"financeiro/internal/pagination"
	"financeiro/internal/repository"
	"financeiro/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_CRUD(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	store := repository.NewStore[models.Category](db)
	ctx := context.Background()

	cat := &models.Category{Name: "Fuel"}
	require.NoError(t, store.Save(ctx, cat))
	require.NotZero(t, cat.ID)

	got, err := store.FindByID(ctx, cat.ID)
	require.NoError(t, err)
	assert.Equal(t, "Fuel", got.Name)

	require.NoError(t, store.Update(ctx, cat.ID, map[string]any{"name": "Gas"}))
	got, err = store.FindOne(ctx, repository.Where("name = ?", "Gas"))
	require.NoError(t, err)
	assert.Equal(t, cat.ID, got.ID)

	ok, err := store.Exists(ctx, cat.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, store.Delete(ctx, cat.ID))
	_, err = store.FindByID(ctx, cat.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	// Deleting again is a no-op.
	assert.NoError(t, store.Delete(ctx, cat.ID))
}

func TestStore_UpdateMissing(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	store := repository.NewStore[models.Category](db)

	err := store.Update(context.Background(), 999, map[string]any{"name": "x"})
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestStore_FindPage(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	store := repository.NewStore[models.Category](db)
	ctx := context.Background()

	for _, name := range []string{"a", "b", "c", "d", "e"} {
		require.NoError(t, store.Save(ctx, &models.Category{Name: name}))
	}

	req := pagination.PageRequest{Page: 1, Size: 2, Sort: []string{"name,desc"}}
	require.NoError(t, req.ResolveSort(map[string]string{"name": "name"}))

	page, err := store.FindPage(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, int64(5), page.TotalElements)
	assert.Equal(t, 3, page.TotalPages)
	require.Len(t, page.Content, 2)
	assert.Equal(t, "c", page.Content[0].Name)
	assert.Equal(t, "b", page.Content[1].Name)
	assert.False(t, page.First)
	assert.False(t, page.Last)

	count, err := store.Count(ctx, repository.Where("name IN ?", []string{"a", "e"}))
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestStore_DeleteWhere(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	ctx := context.Background()

	recovers := repository.NewStore[models.PasswordRecover](db)
	testutil.CreateTestPasswordRecover(t, db, "a@example.com", "t1", time.Now().Add(-time.Minute))
	testutil.CreateTestPasswordRecover(t, db, "a@example.com", "t2", time.Now().Add(-time.Minute))
	testutil.CreateTestPasswordRecover(t, db, "b@example.com", "t3", time.Now().Add(-time.Minute))

	n, err := recovers.DeleteWhere(ctx, repository.Where("email = ?", "a@example.com"))
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	left, err := recovers.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, left, 1)
	assert.Equal(t, "t3", left[0].Token)
}

func TestStore_DuplicateAndForeignKeyErrors(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	ctx := context.Background()

	users := repository.NewStore[models.User](db)
	testutil.CreateTestUserWithEmail(t, db, "dup@example.com")
	err := users.Save(ctx, &models.User{Email: "dup@example.com", Password: "x"})
	require.Error(t, err)
	assert.True(t, repository.IsDuplicateKey(err))

	txs := repository.NewStore[models.Transaction](db)
	err = txs.Save(ctx, &models.Transaction{
		Date:            models.NewDate(2024, 1, 10),
		TransactionType: models.TransactionTypeExpense,
		CategoryID:      4242,
	})
	require.Error(t, err)
	assert.True(t, repository.IsForeignKeyViolation(err))

	assert.False(t, repository.IsDuplicateKey(nil))
	assert.False(t, repository.IsForeignKeyViolation(errors.New("boom")))
}

func TestTransactor(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	tx := repository.NewTransactor(db)
	store := repository.NewStore[models.Category](db)
	ctx := context.Background()

	t.Run("rollback_on_error", func(t *testing.T) {
		errAbort := errors.New("abort")
		err := tx.WithinTransaction(ctx, func(ctx context.Context) error {
			require.NoError(t, store.Save(ctx, &models.Category{Name: "rolled back"}))
			return errAbort
		})
		assert.ErrorIs(t, err, errAbort)

		n, err := store.Count(ctx, repository.Where("name = ?", "rolled back"))
		require.NoError(t, err)
		assert.Zero(t, n)
	})

	t.Run("nested_joins_outer", func(t *testing.T) {
		err := tx.WithinTransaction(ctx, func(ctx context.Context) error {
			return tx.WithinTransaction(ctx, func(ctx context.Context) error {
				return store.Save(ctx, &models.Category{Name: "nested"})
			})
		})
		require.NoError(t, err)

		n, err := store.Count(ctx, repository.Where("name = ?", "nested"))
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)
	})
}
