package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"unauthorized", New(Unauthorized, "Unauthorized"), http.StatusUnauthorized},
		{"validation", New(Validation, "Validation Error: bad"), http.StatusBadRequest},
		{"conflict maps to 400", New(Conflict, "duplicate"), http.StatusBadRequest},
		{"not found", New(NotFound, "Category not found"), http.StatusNotFound},
		{"internal", New(Internal, "boom"), http.StatusInternalServerError},
		{"untagged", errors.New("boom"), http.StatusInternalServerError},
		{"wrapped keeps kind", fmt.Errorf("get: %w", New(NotFound, "gone")), http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Status(tt.err))
		})
	}
}

func TestUserMessage(t *testing.T) {
	assert.Equal(t, "Category not found", UserMessage(New(NotFound, "Category not found")))
	assert.Equal(t, "gone", UserMessage(fmt.Errorf("get: %w", New(NotFound, "gone"))))

	// untagged or message-less errors never leak their text
	assert.Equal(t, "Internal Server Error", UserMessage(errors.New("pq: connection refused")))
	assert.Equal(t, "Internal Server Error", UserMessage(Wrap(Internal, "", errors.New("dial tcp"))))
}

func TestErrorUnwrap(t *testing.T) {
	cause := errors.New("cause")
	err := Wrap(Validation, "bad input", cause)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "bad input", err.Error())
	assert.Equal(t, Validation, KindOf(err))
}
