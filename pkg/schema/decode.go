package schema

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Accepted synonym sets, in resolution order. Each reflects a shape some
// deployed backend version actually emitted.
var (
	keySynonyms      = []string{"key", "nombre_campo", "codigo", "slug", "field_key", "name"}
	labelSynonyms    = []string{"label", "etiqueta", "titulo"}
	typeSynonyms     = []string{"type", "tipo"}
	requiredSynonyms = []string{"required", "requerido", "obligatorio"}
	optionsSynonyms  = []string{"options", "opciones"}
	placeholderSyns  = []string{"placeholder", "hint"}
	orderSynonyms    = []string{"order", "orden"}
)

// DecodeDescriptor normalises one raw server record into the canonical
// shape. Records with no recognisable key get a generated placeholder so a
// malformed row never collapses the whole schema fetch.
func DecodeDescriptor(raw map[string]any) FieldDescriptor {
	desc := FieldDescriptor{Active: true}

	if id, ok := numberAt(raw, "id"); ok {
		desc.ID = int64(id)
	}

	desc.Key = strings.TrimSpace(firstString(raw, keySynonyms))
	if desc.Key == "" {
		desc.Key = placeholderKey()
	}

	desc.Label = strings.TrimSpace(firstString(raw, labelSynonyms))
	desc.Type = NormalizeType(firstString(raw, typeSynonyms))
	desc.Required = firstBool(raw, requiredSynonyms)
	desc.Placeholder = strings.TrimSpace(firstString(raw, placeholderSyns))

	if desc.Type == TypeSelect {
		desc.Options = decodeOptions(firstPresent(raw, optionsSynonyms))
	}

	if active, ok := raw["activo"]; ok {
		desc.Active = boolValue(active)
	} else if active, ok := raw["active"]; ok {
		desc.Active = boolValue(active)
	}

	if order, ok := numberAt(raw, orderSynonyms...); ok {
		desc.Order = int(order)
	}

	return desc
}

// DecodeList normalises a whole schema listing. The payload may be a bare
// array or an {items: [...]} envelope.
func DecodeList(doc any) []FieldDescriptor {
	items := extractItems(doc)
	out := make([]FieldDescriptor, 0, len(items))
	for _, item := range items {
		raw, ok := item.(map[string]any)
		if !ok {
			continue
		}
		out = append(out, DecodeDescriptor(raw))
	}
	return out
}

func extractItems(doc any) []any {
	switch v := doc.(type) {
	case []any:
		return v
	case map[string]any:
		if items, ok := v["items"].([]any); ok {
			return items
		}
	}
	return nil
}

// decodeOptions accepts the canonical flat string list and collapses the
// superseded {label, value} object variant down to its value.
func decodeOptions(raw any) []string {
	list, ok := raw.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(list))
	for _, entry := range list {
		switch v := entry.(type) {
		case string:
			if trimmed := strings.TrimSpace(v); trimmed != "" {
				out = append(out, trimmed)
			}
		case map[string]any:
			value := firstString(v, []string{"value", "valor", "label", "etiqueta"})
			if trimmed := strings.TrimSpace(value); trimmed != "" {
				out = append(out, trimmed)
			}
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// ParseOptions splits an admin-entered newline-delimited option block,
// trimming entries and discarding blank lines.
func ParseOptions(block string) []string {
	lines := strings.Split(block, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func placeholderKey() string {
	return "campo_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}

func firstPresent(raw map[string]any, keys []string) any {
	for _, key := range keys {
		if value, ok := raw[key]; ok && value != nil {
			return value
		}
	}
	return nil
}

func firstString(raw map[string]any, keys []string) string {
	for _, key := range keys {
		value, ok := raw[key]
		if !ok || value == nil {
			continue
		}
		switch v := value.(type) {
		case string:
			if strings.TrimSpace(v) != "" {
				return v
			}
		case float64, int, int64, bool:
			return fmt.Sprint(v)
		}
	}
	return ""
}

func firstBool(raw map[string]any, keys []string) bool {
	for _, key := range keys {
		if value, ok := raw[key]; ok && value != nil && boolValue(value) {
			return true
		}
	}
	return false
}

func boolValue(value any) bool {
	switch v := value.(type) {
	case bool:
		return v
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "true", "1", "si", "sí", "yes":
			return true
		}
	case float64:
		return v != 0
	}
	return false
}

func numberAt(raw map[string]any, keys ...string) (float64, bool) {
	for _, key := range keys {
		switch v := raw[key].(type) {
		case float64:
			return v, true
		case int:
			return float64(v), true
		case int64:
			return float64(v), true
		}
	}
	return 0, false
}
