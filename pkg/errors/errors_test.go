package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCloneKeepsCodeAndMatchesSentinel(t *testing.T) {
	err := Clone(ErrNotFound, "student not found")
	assert.Equal(t, "student not found", err.Message)
	assert.Equal(t, ErrNotFound.Code, err.Code)
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.False(t, errors.Is(err, ErrConflict))
	assert.Equal(t, "resource not found", ErrNotFound.Message)
}

func TestWithFieldsDoesNotMutateSource(t *testing.T) {
	base := Clone(ErrValidation, "invalid student")
	withName := WithFields(base, map[string]string{"name": "name is required"})
	withRoll := WithFields(withName, map[string]string{"rollNumber": "rollNumber is required"})

	assert.Nil(t, base.Fields)
	assert.Len(t, withName.Fields, 1)
	assert.Len(t, withRoll.Fields, 2)
	assert.Equal(t, "invalid student (name: name is required; rollNumber: rollNumber is required)", withRoll.Error())
}

func TestFromErrorWrapsUnknown(t *testing.T) {
	raw := fmt.Errorf("boom")
	appErr := FromError(raw)
	assert.Equal(t, ErrInternal.Code, appErr.Code)
	assert.ErrorIs(t, appErr, raw)

	wrapped := fmt.Errorf("load: %w", ErrStoreMiss)
	assert.Same(t, ErrStoreMiss, FromError(wrapped))
	assert.Nil(t, FromError(nil))
}
