package apiclient

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"procure/models"
)

type RequirementInput struct {
	ProjectID   int      `json:"project_id"`
	ItemName    string   `json:"item_name"`
	Description string   `json:"description,omitempty"`
	Quantity    float64  `json:"quantity"`
	Unit        string   `json:"unit"`
	Rate        *float64 `json:"rate,omitempty"`
	Category    string   `json:"category,omitempty"`
}

func (in RequirementInput) Validate() error {
	switch {
	case in.ProjectID <= 0:
		return &ValidationError{Field: "project_id", Message: "project_id must be positive"}
	case strings.TrimSpace(in.ItemName) == "":
		return Required("item_name", "Item name")
	case in.Quantity <= 0:
		return &ValidationError{Field: "quantity", Message: "quantity must be positive"}
	case strings.TrimSpace(in.Unit) == "":
		return Required("unit", "Unit")
	}
	return nil
}

type RequirementUpdate struct {
	ItemName    *string  `json:"item_name,omitempty"`
	Description *string  `json:"description,omitempty"`
	Quantity    *float64 `json:"quantity,omitempty"`
	Unit        *string  `json:"unit,omitempty"`
	Rate        *float64 `json:"rate,omitempty"`
	Category    *string  `json:"category,omitempty"`
}

type requirementEnvelope struct {
	Message     string             `json:"message"`
	Requirement models.Requirement `json:"requirement"`
}

type requirementsEnvelope struct {
	Requirements []models.Requirement `json:"requirements"`
}

func (c *Client) CreateRequirement(ctx context.Context, in RequirementInput) (*models.Requirement, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	out, err := call[requirementEnvelope](ctx, c, http.MethodPost, "/requirements", in)
	if err != nil {
		return nil, err
	}
	return &out.Requirement, nil
}

func (c *Client) ListRequirementsByProject(ctx context.Context, projectID int) ([]models.Requirement, error) {
	out, err := call[requirementsEnvelope](ctx, c, http.MethodGet, fmt.Sprintf("/requirements/project/%d", projectID), nil)
	return out.Requirements, err
}

func (c *Client) GetRequirement(ctx context.Context, id int) (*models.Requirement, error) {
	out, err := call[requirementEnvelope](ctx, c, http.MethodGet, fmt.Sprintf("/requirements/%d", id), nil)
	if err != nil {
		return nil, err
	}
	return &out.Requirement, nil
}

func (c *Client) UpdateRequirement(ctx context.Context, id int, in RequirementUpdate) (*models.Requirement, error) {
	out, err := call[requirementEnvelope](ctx, c, http.MethodPut, fmt.Sprintf("/requirements/%d", id), in)
	if err != nil {
		return nil, err
	}
	return &out.Requirement, nil
}

func (c *Client) DeleteRequirement(ctx context.Context, id int) (*MessageResponse, error) {
	out, err := call[MessageResponse](ctx, c, http.MethodDelete, fmt.Sprintf("/requirements/%d", id), nil)
	return &out, err
}
