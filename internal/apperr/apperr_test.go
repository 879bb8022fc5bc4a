package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"nil", nil, ""},
		{"validation", Validationf("op", "bad slug %q", "A B"), KindValidation},
		{"wrapped not found", fmt.Errorf("ctx: %w", NotFoundf("op", "form not found")), KindNotFound},
		{"plain error", errors.New("boom"), KindPersistence},
		{"persistence", Persistence("op", errors.New("conn reset")), KindPersistence},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.err))
		})
	}
}

func TestMessageHidesPersistenceDetails(t *testing.T) {
	err := Persistence("FormService.Create", errors.New("pq: password authentication failed"))
	assert.Equal(t, "internal server error", Message(err))
	assert.Contains(t, err.Error(), "password authentication failed")

	assert.Equal(t, "form not found", Message(NotFoundf("op", "form not found")))
	assert.True(t, Is(Inactivef("op", "form is not accepting submissions"), KindInactive))
}

func TestUnwrap(t *testing.T) {
	base := errors.New("disk full")
	err := Persistence("op", base)
	assert.ErrorIs(t, err, base)
}
