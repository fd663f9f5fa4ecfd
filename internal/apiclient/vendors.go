package apiclient

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"procure/models"
)

type VendorInput struct {
	UserID        int    `json:"user_id"`
	CompanyName   string `json:"company_name"`
	ContactPerson string `json:"contact_person,omitempty"`
	Phone         string `json:"phone,omitempty"`
	Email         string `json:"email,omitempty"`
	Address       string `json:"address,omitempty"`
	GSTNumber     string `json:"gst_number,omitempty"`
}

type VendorUpdate struct {
	CompanyName   *string `json:"company_name,omitempty"`
	ContactPerson *string `json:"contact_person,omitempty"`
	Phone         *string `json:"phone,omitempty"`
	Email         *string `json:"email,omitempty"`
	Address       *string `json:"address,omitempty"`
	GSTNumber     *string `json:"gst_number,omitempty"`
}

type vendorEnvelope struct {
	Message string        `json:"message"`
	Vendor  models.Vendor `json:"vendor"`
}

type vendorsEnvelope struct {
	Vendors []models.Vendor `json:"vendors"`
}

func (c *Client) CreateVendor(ctx context.Context, in VendorInput) (*models.Vendor, error) {
	if strings.TrimSpace(in.CompanyName) == "" {
		return nil, Required("company_name", "Company name")
	}
	out, err := call[vendorEnvelope](ctx, c, http.MethodPost, "/vendors", in)
	if err != nil {
		return nil, err
	}
	return &out.Vendor, nil
}

func (c *Client) GetVendor(ctx context.Context, id int) (*models.Vendor, error) {
	out, err := call[vendorEnvelope](ctx, c, http.MethodGet, fmt.Sprintf("/vendors/%d", id), nil)
	if err != nil {
		return nil, err
	}
	return &out.Vendor, nil
}

func (c *Client) GetVendorByUser(ctx context.Context, userID int) (*models.Vendor, error) {
	out, err := call[vendorEnvelope](ctx, c, http.MethodGet, fmt.Sprintf("/vendors/user/%d", userID), nil)
	if err != nil {
		return nil, err
	}
	return &out.Vendor, nil
}

func (c *Client) ListVendors(ctx context.Context) ([]models.Vendor, error) {
	out, err := call[vendorsEnvelope](ctx, c, http.MethodGet, "/vendors", nil)
	return out.Vendors, err
}

func (c *Client) UpdateVendor(ctx context.Context, id int, in VendorUpdate) (*models.Vendor, error) {
	out, err := call[vendorEnvelope](ctx, c, http.MethodPut, fmt.Sprintf("/vendors/%d", id), in)
	if err != nil {
		return nil, err
	}
	return &out.Vendor, nil
}

func (c *Client) DeleteVendor(ctx context.Context, id int) (*MessageResponse, error) {
	out, err := call[MessageResponse](ctx, c, http.MethodDelete, fmt.Sprintf("/vendors/%d", id), nil)
	return &out, err
}
