package apiclient

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"procure/models"
)

type RfqInput struct {
	ProjectID           int    `json:"project_id"`
	Title               string `json:"title"`
	Description         string `json:"description,omitempty"`
	Deadline            string `json:"deadline"`
	ContactPerson       string `json:"contact_person,omitempty"`
	ContactEmail        string `json:"contact_email,omitempty"`
	ContactPhone        string `json:"contact_phone,omitempty"`
	SpecialRequirements string `json:"special_requirements,omitempty"`
}

func (in RfqInput) Validate() error {
	switch {
	case in.ProjectID <= 0:
		return &ValidationError{Field: "project_id", Message: "project_id must be positive"}
	case strings.TrimSpace(in.Title) == "":
		return Required("title", "Title")
	case strings.TrimSpace(in.Deadline) == "":
		return Required("deadline", "Deadline")
	}
	return nil
}

type RfqUpdate struct {
	Title               *string           `json:"title,omitempty"`
	Description         *string           `json:"description,omitempty"`
	Deadline            *string           `json:"deadline,omitempty"`
	Status              *models.RfqStatus `json:"status,omitempty"`
	ContactPerson       *string           `json:"contact_person,omitempty"`
	ContactEmail        *string           `json:"contact_email,omitempty"`
	ContactPhone        *string           `json:"contact_phone,omitempty"`
	SpecialRequirements *string           `json:"special_requirements,omitempty"`
}

// RfqQuery selects RFQs by project and status. A zero ProjectID means all
// projects, an empty Status means every status.
type RfqQuery struct {
	ProjectID int
	Status    models.RfqStatus
}

type rfqEnvelope struct {
	Message string     `json:"message"`
	Rfq     models.Rfq `json:"rfq"`
}

type rfqsEnvelope struct {
	Rfqs []models.Rfq `json:"rfqs"`
}

func (c *Client) CreateRfq(ctx context.Context, in RfqInput) (*models.Rfq, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	out, err := call[rfqEnvelope](ctx, c, http.MethodPost, "/rfqs", in)
	if err != nil {
		return nil, err
	}
	return &out.Rfq, nil
}

func (c *Client) GetRfq(ctx context.Context, id int) (*models.Rfq, error) {
	out, err := call[rfqEnvelope](ctx, c, http.MethodGet, fmt.Sprintf("/rfqs/%d", id), nil)
	if err != nil {
		return nil, err
	}
	return &out.Rfq, nil
}

// ListRfqs is the one query path for RFQ collections. Closed and awarded
// RFQs come from the server's closed listing; open RFQs are filtered from
// the full listing.
func (c *Client) ListRfqs(ctx context.Context, q RfqQuery) ([]models.Rfq, error) {
	if q.Status != "" && !q.Status.Valid() {
		return nil, &ValidationError{Field: "status", Message: fmt.Sprintf("unknown rfq status %q", q.Status)}
	}

	path := "/rfqs"
	if q.ProjectID > 0 {
		path = fmt.Sprintf("/rfqs/project/%d", q.ProjectID)
	}
	if q.Status == models.RfqClosed || q.Status == models.RfqAwarded {
		path += "/closed"
	}

	out, err := call[rfqsEnvelope](ctx, c, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}

	switch q.Status {
	case "", models.RfqClosed:
		return out.Rfqs, nil
	}
	filtered := make([]models.Rfq, 0, len(out.Rfqs))
	for _, r := range out.Rfqs {
		if r.Status == q.Status {
			filtered = append(filtered, r)
		}
	}
	return filtered, nil
}

func (c *Client) UpdateRfq(ctx context.Context, id int, in RfqUpdate) (*models.Rfq, error) {
	if in.Status != nil && !in.Status.Valid() {
		return nil, &ValidationError{Field: "status", Message: fmt.Sprintf("unknown rfq status %q", *in.Status)}
	}
	out, err := call[rfqEnvelope](ctx, c, http.MethodPut, fmt.Sprintf("/rfqs/%d", id), in)
	if err != nil {
		return nil, err
	}
	return &out.Rfq, nil
}

func (c *Client) DeleteRfq(ctx context.Context, id int) (*MessageResponse, error) {
	out, err := call[MessageResponse](ctx, c, http.MethodDelete, fmt.Sprintf("/rfqs/%d", id), nil)
	return &out, err
}
