package tui

import (
	"errors"
	"testing"
)

func TestSurveyValidatorAdapts(t *testing.T) {
	errBlank := errors.New("en blanco")
	validate := surveyValidator(func(s string) error {
		if s == "" {
			return errBlank
		}
		return nil
	})

	if err := validate("algo"); err != nil {
		t.Fatalf("valid answer rejected: %v", err)
	}
	if err := validate(""); !errors.Is(err, errBlank) {
		t.Fatalf("blank answer: got %v, want %v", err, errBlank)
	}
	// survey hands answers over as interface{}; non-strings validate as blank.
	if err := validate(42); !errors.Is(err, errBlank) {
		t.Fatalf("non-string answer: got %v, want %v", err, errBlank)
	}
}
