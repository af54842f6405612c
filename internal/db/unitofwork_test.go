package db_test

import (
	"context"
	"errors"
	"testing"

	"github.com/alexanderramin/gantry/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupUoW(t *testing.T) *db.SQLiteUnitOfWork {
	t.Helper()
	database, err := db.OpenDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })

	_, err = database.Exec(`INSERT INTO projects (id, name, created_at, updated_at) VALUES ('p', 'P', 'now', 'now')`)
	require.NoError(t, err)
	_, err = database.Exec(`INSERT INTO tasks (id, project_id, name, start_date, due_date, created_at, updated_at)
		VALUES ('t', 'p', 'T', '2024-01-01', '2024-01-05', 'now', 'now')`)
	require.NoError(t, err)

	return db.NewSQLiteUnitOfWork(database)
}

func startDate(t *testing.T, uow *db.SQLiteUnitOfWork) string {
	t.Helper()
	var start string
	err := uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		return tx.QueryRowContext(ctx, `SELECT start_date FROM tasks WHERE id = 't'`).Scan(&start)
	})
	require.NoError(t, err)
	return start
}

func moveStart(ctx context.Context, tx db.DBTX) error {
	_, err := tx.ExecContext(ctx, `UPDATE tasks SET start_date = '2024-01-03' WHERE id = 't'`)
	return err
}

func TestWithinTx_CommitOnSuccess(t *testing.T) {
	uow := setupUoW(t)

	require.NoError(t, uow.WithinTx(context.Background(), moveStart))
	assert.Equal(t, "2024-01-03", startDate(t, uow))
}

func TestWithinTx_RollbackOnError(t *testing.T) {
	uow := setupUoW(t)
	boom := errors.New("second update failed")

	err := uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		if err := moveStart(ctx, tx); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)
	assert.Equal(t, "2024-01-01", startDate(t, uow), "update rolled back")
}

func TestWithinTx_RollbackOnPanic(t *testing.T) {
	uow := setupUoW(t)

	assert.Panics(t, func() {
		_ = uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
			_ = moveStart(ctx, tx)
			panic("boom")
		})
	})
	assert.Equal(t, "2024-01-01", startDate(t, uow))
}

func TestWithinTx_ConstraintFailureRollsBack(t *testing.T) {
	uow := setupUoW(t)

	err := uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		if err := moveStart(ctx, tx); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, `UPDATE tasks SET level = -1 WHERE id = 't'`)
		return err
	})
	require.Error(t, err)
	assert.Equal(t, "2024-01-01", startDate(t, uow))
}
