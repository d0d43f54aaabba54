// Package schema models the dynamic form schema ("campos") and the service
// that maintains it. The backend's descriptor shape has drifted across
// deployments, so decoding tolerates every historical field name and always
// produces one canonical FieldDescriptor.
package schema

import "strings"

// FieldType is the closed set of logical field kinds the form engine and
// renderers understand.
type FieldType string

const (
	TypeText     FieldType = "text"
	TypeTextarea FieldType = "textarea"
	TypeInteger  FieldType = "integer"
	TypeNumber   FieldType = "number"
	TypeDate     FieldType = "date"
	TypeDatetime FieldType = "datetime"
	TypeBoolean  FieldType = "boolean"
	TypeSelect   FieldType = "select"
)

// Types lists every canonical type, in the order the admin screens offer them.
func Types() []FieldType {
	return []FieldType{
		TypeText, TypeTextarea, TypeInteger, TypeNumber,
		TypeDate, TypeDatetime, TypeBoolean, TypeSelect,
	}
}

// NormalizeType maps server- or admin-supplied type names onto the closed
// set. Unrecognised values become text. Idempotent: canonical names map to
// themselves.
func NormalizeType(raw string) FieldType {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "bool", "boolean":
		return TypeBoolean
	case "int", "integer":
		return TypeInteger
	case "number", "float", "decimal":
		return TypeNumber
	case "date":
		return TypeDate
	case "datetime", "date_time":
		return TypeDatetime
	case "select", "enum":
		return TypeSelect
	case "textarea", "text_area", "multiline":
		return TypeTextarea
	default:
		return TypeText
	}
}

// FieldDescriptor is the canonical dynamic schema unit. Key is the storage
// key inside a record's dynamic data map and is immutable once the
// descriptor has a server identifier.
type FieldDescriptor struct {
	ID          int64
	Key         string
	Label       string
	Type        FieldType
	Required    bool
	Placeholder string
	Options     []string
	Active      bool
	Order       int
}

// DisplayLabel falls back to the key when no label was configured.
func (f FieldDescriptor) DisplayLabel() string {
	if strings.TrimSpace(f.Label) != "" {
		return f.Label
	}
	return f.Key
}

// Saved reports whether the descriptor exists server-side.
func (f FieldDescriptor) Saved() bool { return f.ID != 0 }

// ActiveFields filters the rendering set: only descriptors still marked
// active participate in forms, though inactive ones stay editable in the
// admin screen.
func ActiveFields(fields []FieldDescriptor) []FieldDescriptor {
	out := make([]FieldDescriptor, 0, len(fields))
	for _, f := range fields {
		if f.Active {
			out = append(out, f)
		}
	}
	return out
}
