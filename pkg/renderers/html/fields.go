package html

import (
	"fmt"
	"html"
	"strings"

	"github.com/comunavision/go-admin/pkg/schema"
)

// buildFieldMarkup assembles one labelled control wrapped in its field
// chrome: label, control, optional inline error.
func buildFieldMarkup(field schema.FieldDescriptor, value any, errMsg string) string {
	var builder strings.Builder
	builder.Grow(512)

	builder.WriteString(`<div class="field field--`)
	builder.WriteString(string(field.Type))
	if errMsg != "" {
		builder.WriteString(" field--invalid")
	}
	builder.WriteString(`" data-field="`)
	builder.WriteString(html.EscapeString(field.Key))
	builder.WriteString("\">\n")

	if field.Type != schema.TypeBoolean {
		writeLabel(&builder, field)
	}
	builder.WriteString(buildControl(field, value))
	if field.Type == schema.TypeBoolean {
		writeLabel(&builder, field)
	}

	if errMsg != "" {
		builder.WriteString(`<p class="field__error">`)
		builder.WriteString(html.EscapeString(errMsg))
		builder.WriteString("</p>\n")
	}

	builder.WriteString("</div>\n")
	return builder.String()
}

func writeLabel(builder *strings.Builder, field schema.FieldDescriptor) {
	builder.WriteString(`<label for="campo-`)
	builder.WriteString(html.EscapeString(field.Key))
	builder.WriteString(`">`)
	builder.WriteString(html.EscapeString(field.DisplayLabel()))
	if field.Required {
		builder.WriteString(`<span class="field__required" aria-hidden="true">*</span>`)
	}
	builder.WriteString("</label>\n")
}

func buildControl(field schema.FieldDescriptor, value any) string {
	id := "campo-" + field.Key

	switch field.Type {
	case schema.TypeTextarea:
		return fmt.Sprintf("<textarea id=%q name=%q rows=\"4\"%s%s>%s</textarea>\n",
			id, field.Key, placeholderAttr(field), requiredAttr(field),
			html.EscapeString(displayString(value)))

	case schema.TypeBoolean:
		checked := ""
		if truthy(value) {
			checked = " checked"
		}
		return fmt.Sprintf("<input type=\"checkbox\" id=%q name=%q value=\"true\"%s>\n",
			id, field.Key, checked)

	case schema.TypeSelect:
		var builder strings.Builder
		fmt.Fprintf(&builder, "<select id=%q name=%q%s>\n", id, field.Key, requiredAttr(field))
		builder.WriteString("<option value=\"\">—</option>\n")
		current := displayString(value)
		for _, option := range field.Options {
			selected := ""
			if option == current {
				selected = " selected"
			}
			fmt.Fprintf(&builder, "<option value=%q%s>%s</option>\n",
				html.EscapeString(option), selected, html.EscapeString(option))
		}
		builder.WriteString("</select>\n")
		return builder.String()

	case schema.TypeInteger:
		return inputControl(field, "number", displayString(value), ` step="1"`)
	case schema.TypeNumber:
		return inputControl(field, "number", displayString(value), ` step="any"`)
	case schema.TypeDate:
		return inputControl(field, "date", displayString(value), "")
	case schema.TypeDatetime:
		return inputControl(field, "datetime-local", displayString(value), "")
	default:
		return inputControl(field, "text", displayString(value), "")
	}
}

func inputControl(field schema.FieldDescriptor, inputType, value, extra string) string {
	return fmt.Sprintf("<input type=%q id=\"campo-%s\" name=%q value=%q%s%s%s>\n",
		inputType, html.EscapeString(field.Key), field.Key,
		html.EscapeString(value), extra, placeholderAttr(field), requiredAttr(field))
}

func placeholderAttr(field schema.FieldDescriptor) string {
	if strings.TrimSpace(field.Placeholder) == "" {
		return ""
	}
	return fmt.Sprintf(" placeholder=%q", html.EscapeString(field.Placeholder))
}

func requiredAttr(field schema.FieldDescriptor) string {
	if field.Required {
		return " required"
	}
	return ""
}

// displayString formats a stored value for an HTML attribute. Whole floats
// drop the decimal point JSON decoding forced on them.
func displayString(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		if v == float64(int64(v)) {
			return fmt.Sprintf("%d", int64(v))
		}
		return fmt.Sprintf("%g", v)
	case bool:
		if v {
			return "true"
		}
		return ""
	default:
		return fmt.Sprint(v)
	}
}

func truthy(value any) bool {
	switch v := value.(type) {
	case bool:
		return v
	case string:
		return v == "true" || v == "on" || v == "1"
	default:
		return false
	}
}
