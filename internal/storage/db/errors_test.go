package db_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/tuanvumaihuynh/warehouse/internal/storage/db"
)

func TestViolations(t *testing.T) {
	t.Run("Should detect wrapped unique violation", func(t *testing.T) {
		err := fmt.Errorf("insert item: %w", &pgconn.PgError{Code: "23505", ConstraintName: "items_sku_key"})

		constraint, ok := db.UniqueViolation(err)
		assert.True(t, ok)
		assert.Equal(t, "items_sku_key", constraint)

		_, ok = db.ForeignKeyViolation(err)
		assert.False(t, ok)
	})

	t.Run("Should detect foreign key violation", func(t *testing.T) {
		err := &pgconn.PgError{Code: "23503", ConstraintName: "items_category_id_fkey"}

		constraint, ok := db.ForeignKeyViolation(err)
		assert.True(t, ok)
		assert.Equal(t, "items_category_id_fkey", constraint)
	})

	t.Run("Should ignore non postgres errors", func(t *testing.T) {
		_, ok := db.UniqueViolation(errors.New("boom"))
		assert.False(t, ok)

		_, ok = db.CheckViolation(nil)
		assert.False(t, ok)
	})
}
