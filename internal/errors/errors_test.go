package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TS01: Code-derived category and severity
func TestNew_DerivesClassification(t *testing.T) {
	err := New(ErrCodeCorpusNotFound, "corpus file missing", nil)

	assert.Equal(t, CategoryIO, err.Category)
	assert.Equal(t, SeverityFatal, err.Severity)
	assert.True(t, IsFatal(err))
	assert.Equal(t, "[ERR_201_CORPUS_NOT_FOUND] corpus file missing", err.Error())
}

// TS02: Error chain support
func TestWrap_Unwrap(t *testing.T) {
	cause := fmt.Errorf("open corpus.md: no such file")
	err := Wrap(ErrCodeCorpusNotFound, cause)

	require.NotNil(t, err)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, cause, stderrors.Unwrap(err))

	assert.Nil(t, Wrap(ErrCodeInternal, nil))
}

// TS03: errors.Is matches by code
func TestIs_MatchesByCode(t *testing.T) {
	a := New(ErrCodeNotReady, "index not built", nil)
	b := New(ErrCodeNotReady, "different message", nil)

	assert.ErrorIs(t, a, b)
	assert.NotErrorIs(t, a, New(ErrCodeInternal, "x", nil))
}

// TS04: Detail and suggestion chaining
func TestWithDetail(t *testing.T) {
	err := QueryError("bad filter", nil).
		WithDetail("filter", "min_price").
		WithSuggestion("use a non-negative minimum price")

	assert.Equal(t, "min_price", err.Details["filter"])
	assert.Equal(t, "use a non-negative minimum price", err.Suggestion)
	assert.Equal(t, CategoryQuery, err.Category)
	assert.Equal(t, "", GetCode(fmt.Errorf("plain")))
}
