package custom_error

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrapDBError(t *testing.T) {
	t.Run("unique violation", func(t *testing.T) {
		err := WrapDBError("Username crusty is already taken", "23505")

		var unique *UniqueViolationError
		assert.True(t, errors.As(err, &unique))
		assert.Equal(t, http.StatusConflict, HTTPStatus(err))
	})

	t.Run("foreign key violation", func(t *testing.T) {
		err := WrapDBError("(inventory item 5 has donation records)", "23503")

		var foreignKey *ForeignKeyViolationError
		assert.True(t, errors.As(err, &foreignKey))
		assert.Equal(t, http.StatusConflict, HTTPStatus(err))
	})

	t.Run("unknown code stays untyped", func(t *testing.T) {
		err := WrapDBError("boom", "42601")

		assert.Equal(t, http.StatusInternalServerError, HTTPStatus(err))
	})
}
