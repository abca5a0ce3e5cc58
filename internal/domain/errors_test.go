package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStorageError_hides_cause(t *testing.T) {
	cause := errors.New("pq: relation \"events\" does not exist")
	err := fmt.Errorf("wrapped: %w", NewStorageError("list events", cause))

	var se *StorageError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "Database error. See server log for details.", se.Error())
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, se.Cause(), "list events")
	assert.Contains(t, se.Cause(), "does not exist")
}

func TestTypedErrors_match_sentinels(t *testing.T) {
	assert.ErrorIs(t, &NotFoundError{Message: "x"}, ErrNotFound)
	assert.ErrorIs(t, &ConflictError{Message: "x"}, ErrConflict)
	assert.NotErrorIs(t, &AuthorizationError{Message: "x"}, ErrNotFound)
}
