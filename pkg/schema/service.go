package schema

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/comunavision/go-admin/pkg/apiclient"
)

const basePath = "/campos"

// Service maintains the dynamic field schema over the backend's /campos
// resource.
type Service struct {
	client *apiclient.Client
}

// NewService wires the schema service onto an API client.
func NewService(client *apiclient.Client) *Service {
	return &Service{client: client}
}

// List fetches every descriptor, tolerating both the bare-array and the
// {items: [...]} envelope listing shapes. Descriptors come back sorted by
// Order, then key, so callers get a stable form layout.
func (s *Service) List(ctx context.Context) ([]FieldDescriptor, error) {
	var doc any
	if err := s.client.GetJSON(ctx, basePath, &doc); err != nil {
		return nil, err
	}
	fields := DecodeList(doc)
	sort.SliceStable(fields, func(i, j int) bool {
		if fields[i].Order != fields[j].Order {
			return fields[i].Order < fields[j].Order
		}
		return fields[i].Key < fields[j].Key
	})
	return fields, nil
}

// Active fetches the descriptors that participate in record forms.
func (s *Service) Active(ctx context.Context) ([]FieldDescriptor, error) {
	fields, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	return ActiveFields(fields), nil
}

// Create registers a new descriptor and returns the stored version.
func (s *Service) Create(ctx context.Context, field FieldDescriptor) (FieldDescriptor, error) {
	if err := validate(field); err != nil {
		return FieldDescriptor{}, err
	}
	var raw map[string]any
	if err := s.client.PostJSON(ctx, basePath, payload(field), &raw); err != nil {
		return FieldDescriptor{}, err
	}
	return decodeSaved(raw, field), nil
}

// Update replaces an existing descriptor.
func (s *Service) Update(ctx context.Context, field FieldDescriptor) (FieldDescriptor, error) {
	if !field.Saved() {
		return FieldDescriptor{}, errors.New("schema: update requires a saved descriptor")
	}
	if err := validate(field); err != nil {
		return FieldDescriptor{}, err
	}
	var raw map[string]any
	path := fmt.Sprintf("%s/%d", basePath, field.ID)
	if err := s.client.PutJSON(ctx, path, payload(field), &raw); err != nil {
		return FieldDescriptor{}, err
	}
	return decodeSaved(raw, field), nil
}

// Delete removes a descriptor. Existing record data under its key is left
// untouched server-side; it simply stops rendering.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if id == 0 {
		return errors.New("schema: delete requires a saved descriptor")
	}
	return s.client.Delete(ctx, fmt.Sprintf("%s/%d", basePath, id))
}

func validate(field FieldDescriptor) error {
	if strings.TrimSpace(field.Key) == "" {
		return errors.New("schema: el campo necesita una clave")
	}
	if field.Type == TypeSelect && len(cleanOptions(field.Options)) == 0 {
		return errors.New("schema: un campo select necesita al menos una opción")
	}
	return nil
}

// payload builds the write shape the backend expects. Both historical
// required spellings are sent so either backend generation honours the flag;
// label is nulled when empty rather than sent blank.
func payload(field FieldDescriptor) map[string]any {
	body := map[string]any{
		"nombre_campo": strings.TrimSpace(field.Key),
		"tipo":         string(NormalizeType(string(field.Type))),
		"requerido":    field.Required,
		"obligatorio":  false,
		"activo":       field.Active,
		"orden":        field.Order,
	}
	if label := strings.TrimSpace(field.Label); label != "" {
		body["etiqueta"] = label
	} else {
		body["etiqueta"] = nil
	}
	if placeholder := strings.TrimSpace(field.Placeholder); placeholder != "" {
		body["placeholder"] = placeholder
	}
	if field.Type == TypeSelect {
		body["opciones"] = cleanOptions(field.Options)
	} else {
		body["opciones"] = nil
	}
	return body
}

func cleanOptions(options []string) []string {
	out := make([]string, 0, len(options))
	for _, opt := range options {
		if trimmed := strings.TrimSpace(opt); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// decodeSaved prefers the server's echo of the stored descriptor and falls
// back to the submitted one for backends that answer writes with no body.
func decodeSaved(raw map[string]any, submitted FieldDescriptor) FieldDescriptor {
	if len(raw) == 0 {
		return submitted
	}
	return DecodeDescriptor(raw)
}
