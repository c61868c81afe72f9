//go:build unit

package infra_test

import (
	"testing"

	"bookline/internal/infra"
	"bookline/internal/pkg/errs"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestWrapRepoErr(t *testing.T) {
	t.Run("explicit kind wins", func(t *testing.T) {
		err := infra.WrapRepoErr("no rows", nil, infra.KindNotFound)
		assert.True(t, infra.IsKind(err, infra.KindNotFound))
		assert.False(t, infra.IsKind(err, infra.KindDBFailure))
	})

	t.Run("defaults to db failure", func(t *testing.T) {
		err := infra.WrapRepoErr("query failed", errs.New("boom"))
		assert.True(t, infra.IsKind(err, infra.KindDBFailure))
	})

	t.Run("postgres codes map to kinds", func(t *testing.T) {
		cases := []struct {
			code string
			kind infra.RepositoryErrorKind
		}{
			{"23505", infra.KindDuplicateKey},
			{"23P01", infra.KindConflict},
			{"23503", infra.KindForeignKeyViolated},
			{"40001", infra.KindDBFailure},
		}
		for _, c := range cases {
			err := infra.WrapRepoErr("insert failed", &pgconn.PgError{Code: c.code})
			assert.True(t, infra.IsKind(err, c.kind), "code %s", c.code)
		}
	})

	t.Run("kind survives wrapping", func(t *testing.T) {
		err := infra.WrapRepoErr("no rows", nil, infra.KindNotFound)
		wrapped := errs.Wrap(err, "loading company")
		assert.True(t, infra.IsKind(wrapped, infra.KindNotFound))
	})

	t.Run("foreign errors are no kind", func(t *testing.T) {
		assert.False(t, infra.IsKind(errs.New("plain"), infra.KindNotFound))
	})
}
