package schema

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
)

// ImportOptions control how an OpenAPI document is turned into descriptors.
type ImportOptions struct {
	// Schema names the component schema to import. When empty the first
	// object schema under components is used.
	Schema string

	// SkipKeys excludes properties that the backend already models as fixed
	// columns (id, nombre, documento and friends).
	SkipKeys []string
}

// ImportOpenAPI derives field descriptors from a component schema of an
// OpenAPI 3 document, so a schema authored for the backend can seed the
// dynamic field set instead of being retyped by hand.
func ImportOpenAPI(ctx context.Context, data []byte, opts ImportOptions) ([]FieldDescriptor, error) {
	if len(data) == 0 {
		return nil, errors.New("schema: openapi document is empty")
	}

	loader := &openapi3.Loader{Context: ctx}
	doc, err := loader.LoadFromData(data)
	if err != nil {
		return nil, fmt.Errorf("schema: load openapi document: %w", err)
	}

	target, name, err := pickSchema(doc, opts.Schema)
	if err != nil {
		return nil, err
	}
	if target.Value == nil || len(target.Value.Properties) == 0 {
		return nil, fmt.Errorf("schema: component %q has no properties", name)
	}

	skip := make(map[string]bool, len(opts.SkipKeys))
	for _, key := range opts.SkipKeys {
		skip[strings.TrimSpace(key)] = true
	}

	required := make(map[string]bool, len(target.Value.Required))
	for _, key := range target.Value.Required {
		required[key] = true
	}

	names := make([]string, 0, len(target.Value.Properties))
	for propName := range target.Value.Properties {
		names = append(names, propName)
	}
	sort.Strings(names)

	fields := make([]FieldDescriptor, 0, len(names))
	for _, propName := range names {
		if skip[propName] {
			continue
		}
		prop := target.Value.Properties[propName]
		if prop == nil || prop.Value == nil {
			continue
		}
		field := FieldDescriptor{
			Key:      propName,
			Label:    strings.TrimSpace(prop.Value.Title),
			Type:     descriptorType(prop.Value),
			Required: required[propName],
			Active:   true,
			Order:    len(fields),
		}
		if field.Label == "" && prop.Value.Description != "" {
			field.Label = firstSentence(prop.Value.Description)
		}
		if len(prop.Value.Enum) > 0 {
			field.Type = TypeSelect
			field.Options = enumOptions(prop.Value.Enum)
		}
		fields = append(fields, field)
	}
	if len(fields) == 0 {
		return nil, fmt.Errorf("schema: component %q yielded no importable fields", name)
	}
	return fields, nil
}

func pickSchema(doc *openapi3.T, name string) (*openapi3.SchemaRef, string, error) {
	if doc.Components == nil || len(doc.Components.Schemas) == 0 {
		return nil, "", errors.New("schema: openapi document has no component schemas")
	}
	if name != "" {
		ref, ok := doc.Components.Schemas[name]
		if !ok {
			return nil, "", fmt.Errorf("schema: component %q not found", name)
		}
		return ref, name, nil
	}

	names := make([]string, 0, len(doc.Components.Schemas))
	for candidate := range doc.Components.Schemas {
		names = append(names, candidate)
	}
	sort.Strings(names)
	for _, candidate := range names {
		ref := doc.Components.Schemas[candidate]
		if ref != nil && ref.Value != nil && len(ref.Value.Properties) > 0 {
			return ref, candidate, nil
		}
	}
	return nil, "", errors.New("schema: no object schema with properties found")
}

// descriptorType maps an OpenAPI property onto the canonical field set,
// honouring the string formats the backend emits for dates.
func descriptorType(prop *openapi3.Schema) FieldType {
	switch firstType(prop.Type) {
	case "boolean":
		return TypeBoolean
	case "integer":
		return TypeInteger
	case "number":
		return TypeNumber
	case "string":
		switch prop.Format {
		case "date":
			return TypeDate
		case "date-time":
			return TypeDatetime
		}
		return TypeText
	default:
		return TypeText
	}
}

func firstType(types *openapi3.Types) string {
	if types == nil {
		return ""
	}
	if values := types.Slice(); len(values) > 0 {
		return values[0]
	}
	return ""
}

func enumOptions(enum []any) []string {
	out := make([]string, 0, len(enum))
	for _, entry := range enum {
		value := strings.TrimSpace(fmt.Sprint(entry))
		if value != "" && value != "<nil>" {
			out = append(out, value)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func firstSentence(text string) string {
	text = strings.TrimSpace(text)
	if idx := strings.IndexAny(text, ".\n"); idx > 0 {
		text = text[:idx]
	}
	if len(text) > 60 {
		return ""
	}
	return text
}
