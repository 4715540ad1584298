// File: internal/common/errors_test.go
package common

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithDetailsReturnsCopy(t *testing.T) {
	detailed := ErrNotFound.WithDetails("Profile not found.")

	assert.Equal(t, "Profile not found.", detailed.Details)
	assert.Nil(t, ErrNotFound.Details, "sentinel errors must never be mutated")
	assert.Equal(t, ErrNotFound.StatusCode, detailed.StatusCode)
}

func TestSentinelMatchingThroughDetails(t *testing.T) {
	detailed := ErrConflict.WithDetails("Name already taken.")
	assert.ErrorIs(t, detailed, ErrConflict)
	assert.NotErrorIs(t, detailed, ErrNotFound)

	wrapped := fmt.Errorf("creating profile: %w", detailed)
	assert.ErrorIs(t, wrapped, ErrConflict)
}

func TestIsAPIError(t *testing.T) {
	apiErr, ok := IsAPIError(ErrUnauthorized.WithDetails("nope"))
	require.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)

	_, ok = IsAPIError(errors.New("plain"))
	assert.False(t, ok)
}

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("correct-horse")
	require.NoError(t, err)
	assert.NotEqual(t, "correct-horse", hash)

	assert.True(t, CheckPasswordHash("correct-horse", hash))
	assert.False(t, CheckPasswordHash("wrong-horse", hash))
}
