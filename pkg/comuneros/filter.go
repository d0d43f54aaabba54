package comuneros

import (
	"fmt"
	"sort"
	"strings"

	"github.com/comunavision/go-admin/pkg/form"
)

// EmptyCell is the placeholder rendered where a record has no value for a
// dynamic column.
const EmptyCell = "—"

// Filter narrows records to those whose nombre or documento contains the
// query, case-insensitively. A blank query returns the input unchanged. The
// filter runs entirely client-side over the already-fetched listing.
func Filter(records []Comunero, query string) []Comunero {
	needle := strings.ToLower(strings.TrimSpace(query))
	if needle == "" {
		return records
	}
	out := make([]Comunero, 0, len(records))
	for _, record := range records {
		if strings.Contains(strings.ToLower(record.Nombre), needle) ||
			strings.Contains(strings.ToLower(record.Documento), needle) {
			out = append(out, record)
		}
	}
	return out
}

// DynamicColumns derives the table's extra columns: the sorted union of every
// dynamic key holding a non-empty value across the visible records. Columns
// therefore follow the data, not the schema, so stale keys from deleted
// fields still show.
func DynamicColumns(records []Comunero) []string {
	seen := map[string]bool{}
	for _, record := range records {
		for key, value := range record.Datos {
			if !form.IsEmpty(value) {
				seen[key] = true
			}
		}
	}
	columns := make([]string, 0, len(seen))
	for key := range seen {
		columns = append(columns, key)
	}
	sort.Strings(columns)
	return columns
}

// HasValue reports whether a record holds a non-empty value for key.
func (c Comunero) HasValue(key string) bool {
	value, ok := c.Datos[key]
	return ok && !form.IsEmpty(value)
}

// RenderValue formats one dynamic cell for display. Missing and empty values
// render as the placeholder; booleans read as Sí/No; floats drop their
// trailing zeros.
func (c Comunero) RenderValue(key string) string {
	value, ok := c.Datos[key]
	if !ok || form.IsEmpty(value) {
		return EmptyCell
	}
	switch v := value.(type) {
	case bool:
		if v {
			return "Sí"
		}
		return "No"
	case float64:
		return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.4f", v), "0"), ".")
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}
