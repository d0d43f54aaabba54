// Package comuneros is the registry service: listing, CRUD, soft delete,
// export, and the client-side filtering and column derivation the admin
// screens build their tables from.
package comuneros

import (
	"strings"
	"time"
)

// Comunero is one registry record. Datos carries the dynamic portion keyed
// by field key; the fixed columns live beside it.
type Comunero struct {
	ID        int64          `json:"id"`
	Nombre    string         `json:"nombre"`
	Documento string         `json:"documento"`
	Datos     map[string]any `json:"datos_dinamicos,omitempty"`
	CreadoPor string         `json:"creado_por,omitempty"`
	IsDeleted bool           `json:"is_deleted,omitempty"`
	CreatedAt string         `json:"created_at,omitempty"`
	UpdatedAt string         `json:"updated_at,omitempty"`
	DeletedAt string         `json:"deleted_at,omitempty"`
}

// Input is the write shape for create and update.
type Input struct {
	Nombre    string         `json:"nombre"`
	Documento string         `json:"documento"`
	Datos     map[string]any `json:"datos_dinamicos"`
}

// CreatedTime parses the record's creation timestamp, tolerating both the
// bare and the zoned ISO forms the backend has emitted over time.
func (c Comunero) CreatedTime() (time.Time, bool) {
	return parseTimestamp(c.CreatedAt)
}

func parseTimestamp(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05.999999", "2006-01-02T15:04:05"} {
		if ts, err := time.Parse(layout, raw); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}
