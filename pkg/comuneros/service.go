package comuneros

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/comunavision/go-admin/pkg/apiclient"
)

const (
	basePath = "/comuneros"

	// exportPath lives under the backend's export router, not the record
	// resource.
	exportPath = "/exportaciones/comuneros"
)

// ErrDuplicateDocument maps the backend's duplicate-document conflict onto a
// sentinel the UIs can phrase precisely.
var ErrDuplicateDocument = errors.New("comuneros: ya existe un comunero con ese documento")

// ExportFormat names the two download encodings the backend offers.
type ExportFormat string

const (
	ExportCSV  ExportFormat = "csv"
	ExportJSON ExportFormat = "json"
)

// Service is the registry client.
type Service struct {
	client *apiclient.Client
	now    func() time.Time
}

// NewService wires the registry service onto an API client.
func NewService(client *apiclient.Client) *Service {
	return &Service{client: client, now: time.Now}
}

// List fetches the registry. Deleted records only appear when includeDeleted
// is set. Both the bare-array and the {items: [...]} listing shapes decode.
func (s *Service) List(ctx context.Context, includeDeleted bool) ([]Comunero, error) {
	path := basePath
	if includeDeleted {
		path += "?include_deleted=true"
	}

	var envelope struct {
		Items []Comunero `json:"items"`
	}
	res, err := s.client.Do(ctx, http.MethodGet, path, apiclient.Options{})
	if err != nil {
		return nil, err
	}

	var bare []Comunero
	if err := res.JSON(&bare); err == nil {
		return bare, nil
	}
	if err := res.JSON(&envelope); err != nil {
		return nil, err
	}
	return envelope.Items, nil
}

// Get fetches one record by id.
func (s *Service) Get(ctx context.Context, id int64) (Comunero, error) {
	var record Comunero
	if err := s.client.GetJSON(ctx, fmt.Sprintf("%s/%d", basePath, id), &record); err != nil {
		return Comunero{}, err
	}
	return record, nil
}

// Create registers a record. The fixed columns must be non-blank; a
// duplicate-document conflict surfaces as ErrDuplicateDocument.
func (s *Service) Create(ctx context.Context, input Input) (Comunero, error) {
	if err := validateInput(&input); err != nil {
		return Comunero{}, err
	}
	var record Comunero
	if err := s.client.PostJSON(ctx, basePath, input, &record); err != nil {
		return Comunero{}, mapConflict(err)
	}
	return record, nil
}

// Update rewrites a record. PATCH is attempted first; a backend that answers
// 405 gets exactly one PUT retry with the same payload.
func (s *Service) Update(ctx context.Context, id int64, input Input) (Comunero, error) {
	if id == 0 {
		return Comunero{}, errors.New("comuneros: update requires a record id")
	}
	if err := validateInput(&input); err != nil {
		return Comunero{}, err
	}
	path := fmt.Sprintf("%s/%d", basePath, id)

	var record Comunero
	res, err := s.client.Do(ctx, http.MethodPatch, path, apiclient.Options{Body: input})
	if err != nil {
		if !apiclient.IsStatus(err, http.StatusMethodNotAllowed) {
			return Comunero{}, mapConflict(err)
		}
		if err := s.client.PutJSON(ctx, path, input, &record); err != nil {
			return Comunero{}, mapConflict(err)
		}
		return record, nil
	}
	if err := res.JSON(&record); err != nil {
		return Comunero{}, err
	}
	return record, nil
}

// Delete soft-deletes a record. The backend keeps the row and flags it; it
// stays reachable through include_deleted listings.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if id == 0 {
		return errors.New("comuneros: delete requires a record id")
	}
	return s.client.Delete(ctx, fmt.Sprintf("%s/%d", basePath, id))
}

// Export holds one downloaded registry export.
type Export struct {
	Filename string
	Data     []byte
}

// Export downloads the registry in the requested encoding. An expired
// session surfaces inline instead of collapsing the whole app session, so
// the user does not lose their place over a download. When the server sends
// no attachment name one is derived from the current time.
func (s *Service) Export(ctx context.Context, format ExportFormat, includeDeleted bool) (Export, error) {
	switch format {
	case ExportCSV, ExportJSON:
	default:
		return Export{}, fmt.Errorf("comuneros: unknown export format %q", format)
	}

	query := url.Values{"formato": {string(format)}}
	if includeDeleted {
		query.Set("include_deleted", "true")
	}

	res, err := s.client.Do(ctx, http.MethodGet, exportPath+"?"+query.Encode(), apiclient.Options{
		KeepSessionOn401: true,
	})
	if err != nil {
		return Export{}, err
	}

	name := strings.TrimSpace(res.Filename())
	if name == "" {
		name = fmt.Sprintf("comuneros_%s.%s", s.now().Format("20060102_150405"), format)
	}
	return Export{Filename: name, Data: res.Bytes()}, nil
}

func validateInput(input *Input) error {
	input.Nombre = strings.TrimSpace(input.Nombre)
	input.Documento = strings.TrimSpace(input.Documento)
	if input.Nombre == "" || input.Documento == "" {
		return errors.New("comuneros: nombre y documento son obligatorios")
	}
	if input.Datos == nil {
		input.Datos = map[string]any{}
	}
	return nil
}

// mapConflict converts the backend's documented duplicate-document conflict
// into the sentinel. Any other error passes through untouched.
func mapConflict(err error) error {
	apiErr, ok := apiclient.AsError(err)
	if !ok || apiErr.Status != http.StatusConflict || apiErr.Payload == nil {
		return err
	}
	if apiErr.Payload.Code == "DOCUMENTO_DUPLICADO" && apiErr.Payload.Field == "documento" {
		return fmt.Errorf("%w: %v", ErrDuplicateDocument, err)
	}
	return err
}
