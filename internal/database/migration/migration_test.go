package migration

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureMigrated(t *testing.T) {
	ctx := context.Background()

	t.Run("schema present skips steps", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery("SELECT to_regclass").
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

		require.NoError(t, EnsureMigrated(ctx, db, zerolog.Nop(), "localhost"))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("fresh database runs every step in order", func(t *testing.T) {
		db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery("SELECT to_regclass('public.documents') IS NOT NULL").
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
		for _, s := range steps {
			mock.ExpectExec(s.SQL).WillReturnResult(sqlmock.NewResult(0, 0))
		}

		require.NoError(t, EnsureMigrated(ctx, db, zerolog.Nop(), "localhost"))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("failing step aborts", func(t *testing.T) {
		db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery("SELECT to_regclass('public.documents') IS NOT NULL").
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
		mock.ExpectExec(steps[0].SQL).WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec(steps[1].SQL).WillReturnError(errors.New("permission denied"))

		err = EnsureMigrated(ctx, db, zerolog.Nop(), "localhost")
		assert.ErrorContains(t, err, "migration step create_table_folders failed")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("sentinel query error", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery("SELECT to_regclass").WillReturnError(errors.New("conn reset"))

		err = EnsureMigrated(ctx, db, zerolog.Nop(), "localhost")
		assert.ErrorContains(t, err, "failed to check sentinel table")
	})
}
