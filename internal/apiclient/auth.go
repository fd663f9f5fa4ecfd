package apiclient

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"procure/models"
)

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterInput struct {
	Name          string      `json:"name"`
	Email         string      `json:"email"`
	Password      string      `json:"password"`
	Role          models.Role `json:"role"`
	CompanyName   string      `json:"company_name"`
	ContactPerson string      `json:"contact_person"`
	Phone         string      `json:"phone,omitempty"`
	Address       string      `json:"address,omitempty"`
	GSTNumber     string      `json:"gst_number"`
}

// Validate checks the mandatory business fields in form order.
func (in RegisterInput) Validate() error {
	fields := []struct {
		name, label, value string
	}{
		{"name", "Full name", in.Name},
		{"email", "Email", in.Email},
		{"password", "Password", in.Password},
		{"company_name", "Company name", in.CompanyName},
		{"contact_person", "Contact person", in.ContactPerson},
		{"gst_number", "GST number", in.GSTNumber},
	}
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			return Required(f.name, f.label)
		}
	}
	if !in.Role.Valid() {
		return &ValidationError{Field: "role", Message: "role must be project_owner or vendor"}
	}
	return nil
}

type AuthResponse struct {
	Message string      `json:"message"`
	User    models.User `json:"user"`
	Token   string      `json:"token"`
}

func (c *Client) Login(ctx context.Context, creds Credentials) (*AuthResponse, error) {
	if strings.TrimSpace(creds.Email) == "" {
		return nil, Required("email", "Email")
	}
	if creds.Password == "" {
		return nil, Required("password", "Password")
	}
	var out AuthResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login", creds, &out, false); err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && (apiErr.Status == http.StatusUnauthorized || apiErr.Status == http.StatusBadRequest) {
			return nil, errors.Join(ErrInvalidCredentials, err)
		}
		return nil, err
	}
	return &out, nil
}

func (c *Client) Register(ctx context.Context, in RegisterInput) (*AuthResponse, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	var out AuthResponse
	if err := c.do(ctx, http.MethodPost, "/auth/register", in, &out, false); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ForgotPassword(ctx context.Context, email string) (*MessageResponse, error) {
	if strings.TrimSpace(email) == "" {
		return nil, Required("email", "Email")
	}
	var out MessageResponse
	err := c.do(ctx, http.MethodPost, "/auth/forgot-password", map[string]string{"email": email}, &out, false)
	return &out, err
}

func (c *Client) ResetPassword(ctx context.Context, token, newPassword string) (*MessageResponse, error) {
	if token == "" {
		return nil, &ValidationError{Field: "token", Message: "invalid or missing reset token"}
	}
	if newPassword == "" {
		return nil, Required("newPassword", "Password")
	}
	body := struct {
		Token       string `json:"token"`
		NewPassword string `json:"newPassword"`
	}{token, newPassword}
	var out MessageResponse
	err := c.do(ctx, http.MethodPost, "/auth/reset-password", body, &out, false)
	return &out, err
}
