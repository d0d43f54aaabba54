package render

import (
	"errors"
	"strings"

	"github.com/comunavision/go-admin/pkg/apiclient"
)

// MergeFormErrors concatenates form-level message slices, trimming whitespace
// and dropping duplicates while preserving order.
func MergeFormErrors(existing []string, extras ...string) []string {
	combined := make([]string, 0, len(existing)+len(extras))
	combined = append(combined, existing...)
	combined = append(combined, extras...)
	return normalizeMessages(combined)
}

// MapError folds one backend error into a view's feedback. Errors that name
// a field the view renders attach inline; everything else lands on the form
// level so no message is lost.
func MapError(view *View, err error) {
	if err == nil || view == nil {
		return
	}

	if apiErr, ok := apiclient.AsError(err); ok {
		field := ""
		if apiErr.Payload != nil {
			field = strings.TrimSpace(apiErr.Payload.Field)
		}
		if field != "" && viewHasField(view, field) {
			if view.Errors == nil {
				view.Errors = map[string]string{}
			}
			if _, taken := view.Errors[field]; !taken {
				view.Errors[field] = apiErr.Message
				return
			}
		}
		view.FormErrors = MergeFormErrors(view.FormErrors, apiErr.Message)
		return
	}

	view.FormErrors = MergeFormErrors(view.FormErrors, userMessage(err))
}

func viewHasField(view *View, key string) bool {
	for _, field := range view.Fields {
		if field.Key == key {
			return true
		}
	}
	return false
}

// userMessage unwraps to the outermost message, which by convention already
// reads as a sentence.
func userMessage(err error) string {
	var apiErr *apiclient.Error
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return err.Error()
}

func normalizeMessages(messages []string) []string {
	if len(messages) == 0 {
		return nil
	}

	out := make([]string, 0, len(messages))
	seen := make(map[string]struct{}, len(messages))

	for _, message := range messages {
		trimmed := strings.TrimSpace(message)
		if trimmed == "" {
			continue
		}
		if _, exists := seen[trimmed]; exists {
			continue
		}
		seen[trimmed] = struct{}{}
		out = append(out, trimmed)
	}

	if len(out) == 0 {
		return nil
	}
	return out
}
