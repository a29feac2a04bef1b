package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCodeOf(t *testing.T) {
	t.Run("typed error", func(t *testing.T) {
		assert.Equal(t, CodeConflict, CodeOf(Conflict("taken")))
	})

	t.Run("wrapped typed error", func(t *testing.T) {
		err := fmt.Errorf("outer context: %w", NotFound("gone"))
		assert.Equal(t, CodeNotFound, CodeOf(err))
	})

	t.Run("plain error maps to internal", func(t *testing.T) {
		assert.Equal(t, CodeInternal, CodeOf(errors.New("boom")))
	})
}

func TestErrorUnwrap(t *testing.T) {
	cause := errors.New("connection reset")
	err := Wrap(CodeInternal, "store write failed", cause)
	assert.True(t, errors.Is(err, cause))
	assert.Contains(t, err.Error(), "store write failed")
	assert.Contains(t, err.Error(), "connection reset")
}
