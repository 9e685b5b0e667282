package common

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidationError_CollectsAllFields(t *testing.T) {
	ve := NewValidationError()
	require.False(t, ve.HasErrors())

	ve.Add("name", "required")
	ve.Add("elevation", "must be an integer")
	ve.Add("name", "too long")

	require.True(t, ve.HasErrors())
	assert.Equal(t, []string{"required", "too long"}, ve.Fields["name"])
	assert.Equal(t, []string{"must be an integer"}, ve.Fields["elevation"])
}

func TestValidationError_IsSentinel(t *testing.T) {
	ve := NewValidationError()
	ve.Add("comment", "required")

	var err error = ve
	assert.True(t, errors.Is(err, ErrorValidation))
	assert.False(t, errors.Is(err, ErrorNotFound))
}

func TestValidationError_ErrorStringIsStable(t *testing.T) {
	ve := NewValidationError()
	ve.Add("b", "two")
	ve.Add("a", "one")

	s := ve.Error()
	if !strings.HasPrefix(s, "validation failed") {
		t.Fatalf("unexpected prefix: %q", s)
	}
	// fields are sorted so the message is deterministic
	assert.Equal(t, "validation failed; a: one; b: two", s)
}
