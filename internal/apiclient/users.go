package apiclient

import (
	"context"
	"fmt"
	"net/http"

	"procure/models"
)

type UserUpdate struct {
	Name          *string `json:"name,omitempty"`
	Email         *string `json:"email,omitempty"`
	CompanyName   *string `json:"company_name,omitempty"`
	ContactPerson *string `json:"contact_person,omitempty"`
	Phone         *string `json:"phone,omitempty"`
	Address       *string `json:"address,omitempty"`
	GSTNumber     *string `json:"gst_number,omitempty"`
}

type userEnvelope struct {
	Message string      `json:"message"`
	User    models.User `json:"user"`
}

func (c *Client) GetUser(ctx context.Context, id int) (*models.User, error) {
	out, err := call[userEnvelope](ctx, c, http.MethodGet, fmt.Sprintf("/users/%d", id), nil)
	if err != nil {
		return nil, err
	}
	return &out.User, nil
}

func (c *Client) UpdateUser(ctx context.Context, id int, in UserUpdate) (*models.User, error) {
	out, err := call[userEnvelope](ctx, c, http.MethodPut, fmt.Sprintf("/users/%d", id), in)
	if err != nil {
		return nil, err
	}
	return &out.User, nil
}
