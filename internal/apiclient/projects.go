package apiclient

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"procure/models"
)

type ProjectInput struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Location    string `json:"location,omitempty"`
	Deadline    string `json:"deadline,omitempty"`
}

type ProjectUpdate struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Location    *string `json:"location,omitempty"`
	Deadline    *string `json:"deadline,omitempty"`
}

type projectEnvelope struct {
	Message string         `json:"message"`
	Project models.Project `json:"project"`
}

type projectsEnvelope struct {
	Projects []models.Project `json:"projects"`
}

func (c *Client) CreateProject(ctx context.Context, in ProjectInput) (*models.Project, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, Required("name", "Project name")
	}
	out, err := call[projectEnvelope](ctx, c, http.MethodPost, "/projects", in)
	if err != nil {
		return nil, err
	}
	return &out.Project, nil
}

func (c *Client) ListProjects(ctx context.Context) ([]models.Project, error) {
	out, err := call[projectsEnvelope](ctx, c, http.MethodGet, "/projects", nil)
	return out.Projects, err
}

func (c *Client) GetProject(ctx context.Context, id int) (*models.Project, error) {
	out, err := call[projectEnvelope](ctx, c, http.MethodGet, fmt.Sprintf("/projects/%d", id), nil)
	if err != nil {
		return nil, err
	}
	return &out.Project, nil
}

func (c *Client) UpdateProject(ctx context.Context, id int, in ProjectUpdate) (*models.Project, error) {
	out, err := call[projectEnvelope](ctx, c, http.MethodPut, fmt.Sprintf("/projects/%d", id), in)
	if err != nil {
		return nil, err
	}
	return &out.Project, nil
}

func (c *Client) DeleteProject(ctx context.Context, id int) (*MessageResponse, error) {
	out, err := call[MessageResponse](ctx, c, http.MethodDelete, fmt.Sprintf("/projects/%d", id), nil)
	return &out, err
}
