package errors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseErrorUnwrap(t *testing.T) {
	cause := errors.New("unexpected token")
	pe := NewParseError("a.py", 10, 4, "def", cause)
	assert.ErrorIs(t, pe, cause)
	assert.Contains(t, pe.Error(), "a.py:10:4")
}

func TestTimeoutErrorDowngradesVerdict(t *testing.T) {
	te := NewTimeoutError("andersen_solve", "max_iterations=500000")
	assert.Equal(t, te.Verdict.String(), "Heuristic")
}

func TestMultiErrorFiltersNil(t *testing.T) {
	me := NewMultiError([]error{nil, errors.New("a"), nil, errors.New("b")})
	assert.Len(t, me.Errors, 2)
	assert.Contains(t, me.Error(), "2 errors")
}

func TestMultiErrorSingle(t *testing.T) {
	cause := errors.New("only one")
	me := NewMultiError([]error{cause})
	assert.Equal(t, "only one", me.Error())
}
