package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindNotFound, KindOf(NotFound("gone")))
	assert.Equal(t, KindValidation, KindOf(Validation("bad")))
	assert.Equal(t, KindAuthentication, KindOf(Authentication("who?")))
	assert.Equal(t, KindAuthorization, KindOf(Authorization("no")))
	assert.Equal(t, KindConflict, KindOf(Conflict("taken")))
	assert.Equal(t, KindUnknown, KindOf(errors.New("plain")))
	assert.Equal(t, KindUnknown, KindOf(nil))
}

func TestKindOfWrapped(t *testing.T) {
	err := fmt.Errorf("saving survey: %w", Conflict("version mismatch"))
	assert.Equal(t, KindConflict, KindOf(err))
}

func TestMessage(t *testing.T) {
	assert.EqualError(t, Validation("Answer must be defined"), "Answer must be defined")
}
