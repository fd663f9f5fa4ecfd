package apiclient

import (
	"context"
	"fmt"
	"net/http"

	"procure/models"
)

type QuoteInput struct {
	RfqID       int     `json:"rfq_id"`
	VendorID    int     `json:"vendor_id"`
	TotalAmount float64 `json:"total_amount"`
}

// QuoteUpdate is a partial update; nil fields are not sent.
type QuoteUpdate struct {
	Status      *models.QuoteStatus `json:"status,omitempty"`
	TotalAmount *float64            `json:"total_amount,omitempty"`
}

type quoteEnvelope struct {
	Message string       `json:"message"`
	Quote   models.Quote `json:"quote"`
}

type quotesEnvelope struct {
	Quotes []models.Quote `json:"quotes"`
}

func (c *Client) CreateQuote(ctx context.Context, rfqID, vendorID int, totalAmount float64) (*models.Quote, error) {
	if rfqID <= 0 || vendorID <= 0 {
		return nil, &ValidationError{Field: "rfq_id", Message: "rfq and vendor are required"}
	}
	if totalAmount <= 0 {
		return nil, &ValidationError{Field: "total_amount", Message: "total amount must be positive"}
	}
	in := QuoteInput{RfqID: rfqID, VendorID: vendorID, TotalAmount: totalAmount}
	out, err := call[quoteEnvelope](ctx, c, http.MethodPost, "/quotes", in)
	if err != nil {
		return nil, err
	}
	return &out.Quote, nil
}

func (c *Client) GetQuote(ctx context.Context, id int) (*models.Quote, error) {
	out, err := call[quoteEnvelope](ctx, c, http.MethodGet, fmt.Sprintf("/quotes/%d", id), nil)
	if err != nil {
		return nil, err
	}
	return &out.Quote, nil
}

func (c *Client) ListQuotes(ctx context.Context) ([]models.Quote, error) {
	out, err := call[quotesEnvelope](ctx, c, http.MethodGet, "/quotes", nil)
	return out.Quotes, err
}

func (c *Client) ListQuotesByRfq(ctx context.Context, rfqID int) ([]models.Quote, error) {
	out, err := call[quotesEnvelope](ctx, c, http.MethodGet, fmt.Sprintf("/quotes/rfq/%d", rfqID), nil)
	return out.Quotes, err
}

func (c *Client) ListQuotesByVendor(ctx context.Context, vendorID int) ([]models.Quote, error) {
	out, err := call[quotesEnvelope](ctx, c, http.MethodGet, fmt.Sprintf("/quotes/vendor/%d", vendorID), nil)
	return out.Quotes, err
}

func (c *Client) UpdateQuote(ctx context.Context, id int, in QuoteUpdate) (*models.Quote, error) {
	if in.Status != nil && !in.Status.Valid() {
		return nil, &ValidationError{Field: "status", Message: fmt.Sprintf("unknown quote status %q", *in.Status)}
	}
	out, err := call[quoteEnvelope](ctx, c, http.MethodPut, fmt.Sprintf("/quotes/%d", id), in)
	if err != nil {
		return nil, err
	}
	return &out.Quote, nil
}

func (c *Client) DeleteQuote(ctx context.Context, id int) (*MessageResponse, error) {
	out, err := call[MessageResponse](ctx, c, http.MethodDelete, fmt.Sprintf("/quotes/%d", id), nil)
	return &out, err
}
