package ctscrape_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/fwojciec/ctscrape"
	"github.com/stretchr/testify/assert"
)

func TestErrorf(t *testing.T) {
	t.Parallel()

	err := ctscrape.Errorf(ctscrape.EINVALID, "unsupported disease %q", "flu")

	assert.Equal(t, ctscrape.EINVALID, ctscrape.ErrorCode(err))
	assert.Equal(t, "unsupported disease \"flu\"", ctscrape.ErrorMessage(err))
}

func TestWrapErrorf(t *testing.T) {
	t.Parallel()

	t.Run("keeps the cause reachable", func(t *testing.T) {
		t.Parallel()

		err := ctscrape.WrapErrorf(context.DeadlineExceeded, ctscrape.ENAVIGATION, "navigating to %s", "https://example.com")

		assert.Equal(t, ctscrape.ENAVIGATION, ctscrape.ErrorCode(err))
		assert.ErrorIs(t, err, context.DeadlineExceeded)
		assert.Contains(t, err.Error(), "deadline exceeded")
	})

	t.Run("code survives further wrapping", func(t *testing.T) {
		t.Parallel()

		inner := ctscrape.WrapErrorf(errors.New("boom"), ctscrape.ESTARTUP, "launching browser")
		err := fmt.Errorf("opening session: %w", inner)

		assert.Equal(t, ctscrape.ESTARTUP, ctscrape.ErrorCode(err))
		assert.Equal(t, "launching browser", ctscrape.ErrorMessage(err))
	})
}

func TestErrorCode_NilError(t *testing.T) {
	t.Parallel()

	assert.Empty(t, ctscrape.ErrorCode(nil))
}

func TestErrorCode_PlainError(t *testing.T) {
	t.Parallel()

	assert.Equal(t, ctscrape.EINTERNAL, ctscrape.ErrorCode(errors.New("plain")))
}

func TestErrorMessage_NilError(t *testing.T) {
	t.Parallel()

	assert.Empty(t, ctscrape.ErrorMessage(nil))
}
