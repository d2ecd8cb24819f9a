package parsekit_test

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/fwojciec/parsekit"
	"github.com/stretchr/testify/assert"
)

func TestErrorf(t *testing.T) {
	t.Parallel()

	err := parsekit.Errorf(parsekit.ENOTFOUND, "parser %q is not registered", "test")

	assert.Equal(t, parsekit.ENOTFOUND, parsekit.ErrorCode(err))
	assert.Equal(t, "parser \"test\" is not registered", parsekit.ErrorMessage(err))
}

func TestErrorCode_NilError(t *testing.T) {
	t.Parallel()

	assert.Empty(t, parsekit.ErrorCode(nil))
}

func TestErrorMessage_NilError(t *testing.T) {
	t.Parallel()

	assert.Empty(t, parsekit.ErrorMessage(nil))
}

func TestErrorCode_Wrapped(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("extracting: %w", parsekit.Errorf(parsekit.EEXTRACT, "bad payload"))

	assert.Equal(t, parsekit.EEXTRACT, parsekit.ErrorCode(err))
	assert.Equal(t, "bad payload", parsekit.ErrorMessage(err))
}

func TestErrorCode_PlainError(t *testing.T) {
	t.Parallel()

	err := errors.New("boom")

	assert.Equal(t, parsekit.EINTERNAL, parsekit.ErrorCode(err))
	assert.Equal(t, "Internal error.", parsekit.ErrorMessage(err))
}

func TestRateLimitedf(t *testing.T) {
	t.Parallel()

	err := parsekit.RateLimitedf(42*time.Second, "rate limit exceeded for %s", "feeds")

	assert.Equal(t, parsekit.ERATELIMITED, parsekit.ErrorCode(err))
	assert.Equal(t, 42*time.Second, parsekit.ErrorRetryAfter(err))
	assert.Zero(t, parsekit.ErrorRetryAfter(errors.New("other")))
}
