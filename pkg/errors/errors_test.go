package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromErrorKeepsTypedError(t *testing.T) {
	err := fmt.Errorf("outer: %w", Clone(ErrPreconditionFailed, "term is not scheduling"))
	appErr := FromError(err)
	assert.Equal(t, ErrPreconditionFailed.Code, appErr.Code)
	assert.Equal(t, "term is not scheduling", appErr.Message)
}

func TestFromErrorWrapsUnknown(t *testing.T) {
	appErr := FromError(fmt.Errorf("boom"))
	assert.Equal(t, http.StatusInternalServerError, appErr.Status)
	assert.EqualError(t, appErr, "internal server error: boom")
}

func TestCloneMatchesTemplate(t *testing.T) {
	clone := WithDetails(ErrConflict, "pairing is ineligible", []string{"schedule conflict"})
	assert.ErrorIs(t, clone, ErrConflict)
	assert.NotErrorIs(t, clone, ErrNotFound)
	assert.Equal(t, []string{"schedule conflict"}, clone.Details)
	assert.Nil(t, ErrConflict.Details)
}
