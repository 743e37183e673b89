package domainerrors_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "blpgate/pkg/domain-errors"
)

func TestNewAndCode(t *testing.T) {
	err := dErrors.New(dErrors.CodeForbidden, "no clearance")
	assert.Equal(t, "no clearance", err.Error())
	assert.True(t, dErrors.HasCode(err, dErrors.CodeForbidden))
	assert.False(t, dErrors.HasCode(err, dErrors.CodeNotFound))
	assert.Equal(t, dErrors.CodeForbidden, dErrors.CodeOf(err))
}

func TestWrapPreservesCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := dErrors.Wrap(cause, dErrors.CodeInternal, "query users")

	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInternal))
	assert.ErrorIs(t, err, cause)
}

func TestWrapNil(t *testing.T) {
	assert.NoError(t, dErrors.Wrap(nil, dErrors.CodeInternal, "noop"))
}

func TestCodeOfUnknownError(t *testing.T) {
	assert.Equal(t, dErrors.CodeInternal, dErrors.CodeOf(errors.New("plain")))
}

func TestHasCodeThroughWrapping(t *testing.T) {
	inner := dErrors.New(dErrors.CodeNotFound, "record not found")
	outer := fmt.Errorf("lookup subject: %w", inner)
	assert.True(t, dErrors.HasCode(outer, dErrors.CodeNotFound))
}
