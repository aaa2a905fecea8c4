package mastery

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

var sentinels = []error{
	ErrInvalidParameters,
	ErrDegenerateLikelihood,
	ErrNegativeLikelihood,
	ErrInvalidLogFormat,
	ErrInvalidQuery,
	ErrLengthMismatch,
	ErrInvalidEvent,
	ErrTimeGap,
	ErrEmptyData,
}

func TestSentinelErrorsIsCheck(t *testing.T) {
	wrapped := fmt.Errorf("context: %w", ErrDegenerateLikelihood)
	if !errors.Is(wrapped, ErrDegenerateLikelihood) {
		t.Error("errors.Is(wrapped, ErrDegenerateLikelihood) = false, want true")
	}
	if errors.Is(wrapped, ErrNegativeLikelihood) {
		t.Error("errors.Is(wrapped, ErrNegativeLikelihood) = true, want false")
	}
}

func TestSentinelErrorPrefix(t *testing.T) {
	for _, err := range sentinels {
		if !strings.HasPrefix(err.Error(), "mastery: ") {
			t.Errorf("%q should start with %q", err.Error(), "mastery: ")
		}
	}
}

func TestSentinelErrorsDistinct(t *testing.T) {
	for i, a := range sentinels {
		for j, b := range sentinels {
			if i != j && errors.Is(a, b) {
				t.Errorf("%v matches %v", a, b)
			}
		}
	}
}
