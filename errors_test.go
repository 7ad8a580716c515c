package fuguetext

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestErrorKindString(t *testing.T) {
	cases := map[Kind]string{
		KindPositionOutOfBounds:   "position-out-of-bounds",
		KindRangeOutOfBounds:      "range-out-of-bounds",
		KindBlockNotFound:         "block-not-found",
		KindBlockSplitRequired:    "block-split-required",
		KindRenderedBufferFailure: "rendered-buffer-failure",
	}
	for kind, want := range cases {
		assert.Equal(t, want, kind.String())
	}
}

func TestErrPositionOutOfBoundsFields(t *testing.T) {
	err := errPositionOutOfBounds(10, 5)
	var fe *Error
	assert.True(t, errors.As(err, &fe))
	assert.Equal(t, KindPositionOutOfBounds, fe.Kind)
	assert.Equal(t, 10, fe.Pos)
	assert.Equal(t, 5, fe.Length)
	assert.Contains(t, err.Error(), "10")
}

func TestErrRangeOutOfBoundsFields(t *testing.T) {
	err := errRangeOutOfBounds(2, 20, 5)
	var fe *Error
	assert.True(t, errors.As(err, &fe))
	assert.Equal(t, KindRangeOutOfBounds, fe.Kind)
	assert.Equal(t, 2, fe.Start)
	assert.Equal(t, 20, fe.End)
}

func TestErrRenderedBufferFailureUnwraps(t *testing.T) {
	cause := errors.New("boom")
	err := errRenderedBufferFailure(cause)

	var fe *Error
	assert.True(t, errors.As(err, &fe))
	assert.Equal(t, KindRenderedBufferFailure, fe.Kind)
	assert.ErrorIs(t, err, cause)
}
