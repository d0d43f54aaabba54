// Package form holds the dynamic form engine: typed coercion of raw input,
// change tracking against an initial snapshot, validation, and the
// empty-value pruning applied before a record is written.
package form

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/comunavision/go-admin/pkg/schema"
)

// Layout strings for the two temporal field kinds, matching the wire format
// the HTML date and datetime-local inputs produce.
const (
	DateLayout     = "2006-01-02"
	DatetimeLayout = "2006-01-02T15:04"
)

// ParseValue coerces one raw string into the typed value a field stores.
// Numeric fields keep an empty string as their cleared sentinel so the prune
// step drops them instead of writing a zero the user never typed.
func ParseValue(field schema.FieldDescriptor, raw string) (any, error) {
	switch field.Type {
	case schema.TypeInteger:
		trimmed := strings.TrimSpace(raw)
		if trimmed == "" {
			return "", nil
		}
		n, err := strconv.ParseInt(trimmed, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("form: %s debe ser un número entero", field.DisplayLabel())
		}
		return n, nil

	case schema.TypeNumber:
		trimmed := strings.TrimSpace(raw)
		if trimmed == "" {
			return "", nil
		}
		f, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			return nil, fmt.Errorf("form: %s debe ser un número", field.DisplayLabel())
		}
		return f, nil

	case schema.TypeBoolean:
		switch strings.ToLower(strings.TrimSpace(raw)) {
		case "true", "1", "on", "si", "sí", "yes":
			return true, nil
		default:
			return false, nil
		}

	case schema.TypeSelect:
		value := strings.TrimSpace(raw)
		if value == "" {
			return "", nil
		}
		for _, opt := range field.Options {
			if opt == value {
				return value, nil
			}
		}
		return nil, fmt.Errorf("form: %q no es una opción válida de %s", value, field.DisplayLabel())

	case schema.TypeDate:
		return parseTemporal(field, raw, DateLayout)

	case schema.TypeDatetime:
		return parseTemporal(field, raw, DatetimeLayout)

	default:
		return raw, nil
	}
}

func parseTemporal(field schema.FieldDescriptor, raw, layout string) (any, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return "", nil
	}
	if _, err := time.Parse(layout, value); err != nil {
		return nil, fmt.Errorf("form: %s tiene una fecha inválida", field.DisplayLabel())
	}
	return value, nil
}

// IsEmpty reports whether a stored value counts as absent: nil,
// whitespace-only strings, and empty lists. False and zero are real values.
func IsEmpty(value any) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(v) == ""
	case []any:
		return len(v) == 0
	case []string:
		return len(v) == 0
	default:
		return false
	}
}

// Prune copies the map without its empty entries. The result is what gets
// written as a record's dynamic data; pruning never mutates the input.
func Prune(values map[string]any) map[string]any {
	out := make(map[string]any, len(values))
	for key, value := range values {
		if IsEmpty(value) {
			continue
		}
		out[key] = value
	}
	return out
}
