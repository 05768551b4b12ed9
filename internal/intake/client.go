package intake

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/dentalpm/dentalpm/internal/domain/catalog"
	"github.com/dentalpm/dentalpm/internal/domain/patient"
	"github.com/dentalpm/dentalpm/internal/domain/treatment"
	"github.com/dentalpm/dentalpm/pkg/pagination"
)

// HTTPCollaborator talks to an upstream practice-management API over its JSON
// REST surface. Used when the intake service runs separately from the data
// service.
type HTTPCollaborator struct {
	baseURL string
	token   string
	client  *http.Client
}

func NewHTTPCollaborator(baseURL, token string) *HTTPCollaborator {
	return &HTTPCollaborator{
		baseURL: baseURL,
		token:   token,
		client:  &http.Client{Timeout: 15 * time.Second},
	}
}

func (h *HTTPCollaborator) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, h.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if h.token != "" {
		req.Header.Set("Authorization", "Bearer "+h.token)
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return treatment.ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("upstream %s %s: %s: %s", method, path, resp.Status, msg)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// FetchPatients pages through the upstream directory until it has the full
// candidate list. The server caps page sizes at pagination.MaxLimit, so a
// single request cannot be trusted to return everything.
func (h *HTTPCollaborator) FetchPatients(ctx context.Context) ([]patient.Patient, error) {
	var out []patient.Patient
	for offset := 0; len(out) < candidateListLimit; {
		var envelope struct {
			Data    []patient.Patient `json:"data"`
			HasMore bool              `json:"has_more"`
		}
		path := fmt.Sprintf("/api/v1/patients?limit=%d&offset=%d", pagination.MaxLimit, offset)
		if err := h.do(ctx, http.MethodGet, path, nil, &envelope); err != nil {
			return nil, err
		}
		out = append(out, envelope.Data...)
		if !envelope.HasMore || len(envelope.Data) == 0 {
			break
		}
		offset += len(envelope.Data)
	}
	if len(out) > candidateListLimit {
		out = out[:candidateListLimit]
	}
	return out, nil
}

func (h *HTTPCollaborator) FetchCategories(ctx context.Context) ([]catalog.Category, error) {
	var cats []catalog.Category
	if err := h.do(ctx, http.MethodGet, "/api/v1/treatment-categories", nil, &cats); err != nil {
		return nil, err
	}
	return cats, nil
}

func (h *HTTPCollaborator) FetchTreatment(ctx context.Context, id uuid.UUID) (*treatment.Treatment, error) {
	var t treatment.Treatment
	if err := h.do(ctx, http.MethodGet, "/api/v1/treatments/"+id.String(), nil, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

func (h *HTTPCollaborator) CreateTreatment(ctx context.Context, t *treatment.Treatment) (*treatment.Treatment, error) {
	var created treatment.Treatment
	if err := h.do(ctx, http.MethodPost, "/api/v1/treatments", t, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (h *HTTPCollaborator) UpdateTreatment(ctx context.Context, id uuid.UUID, t *treatment.Treatment) (*treatment.Treatment, error) {
	var updated treatment.Treatment
	if err := h.do(ctx, http.MethodPut, "/api/v1/treatments/"+id.String(), t, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}
