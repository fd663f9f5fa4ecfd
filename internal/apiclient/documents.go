package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"procure/models"
)

type documentEnvelope struct {
	Message  string          `json:"message"`
	Document models.Document `json:"document"`
}

type documentsEnvelope struct {
	Message   string            `json:"message"`
	Documents []models.Document `json:"documents"`
}

func checkRef(ref models.EntityRef) error {
	if _, err := models.ParseEntityKind(string(ref.Kind)); err != nil {
		return &ValidationError{Field: "entity_type", Message: err.Error()}
	}
	if ref.ID <= 0 {
		return &ValidationError{Field: "entity_id", Message: "entity_id must be positive"}
	}
	return nil
}

// UploadDocument attaches a file to ref with a multipart form of fields
// file, entity_type and entity_id.
func (c *Client) UploadDocument(ctx context.Context, ref models.EntityRef, filename string, content io.Reader) (*models.Document, error) {
	if err := checkRef(ref); err != nil {
		return nil, err
	}
	if filename == "" {
		return nil, Required("file", "File")
	}
	token := c.token()
	if token == "" {
		return nil, ErrAuthRequired
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("upload document: %w", err)
	}
	if _, err := io.Copy(part, content); err != nil {
		return nil, fmt.Errorf("upload document: read file: %w", err)
	}
	if err := mw.WriteField("entity_type", string(ref.Kind)); err != nil {
		return nil, fmt.Errorf("upload document: %w", err)
	}
	if err := mw.WriteField("entity_id", strconv.Itoa(ref.ID)); err != nil {
		return nil, fmt.Errorf("upload document: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("upload document: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/documents/upload", &buf)
	if err != nil {
		return nil, fmt.Errorf("upload document: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.send(req, token)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var out documentEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("upload document: decode: %w", err)
	}
	return &out.Document, nil
}

func (c *Client) ListDocuments(ctx context.Context, ref models.EntityRef) ([]models.Document, error) {
	if err := checkRef(ref); err != nil {
		return nil, err
	}
	out, err := call[documentsEnvelope](ctx, c, http.MethodGet, fmt.Sprintf("/documents/%s/%d", ref.Kind, ref.ID), nil)
	return out.Documents, err
}

func (c *Client) DeleteDocument(ctx context.Context, id int) (*MessageResponse, error) {
	out, err := call[MessageResponse](ctx, c, http.MethodDelete, fmt.Sprintf("/documents/%d", id), nil)
	return &out, err
}

// DownloadDocument streams the document body into w and returns the number
// of bytes written.
func (c *Client) DownloadDocument(ctx context.Context, id int, w io.Writer) (int64, error) {
	token := c.token()
	if token == "" {
		return 0, ErrAuthRequired
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/documents/download/%d", c.baseURL, id), nil)
	if err != nil {
		return 0, fmt.Errorf("download document: %w", err)
	}
	resp, err := c.send(req, token)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	n, err := io.Copy(w, resp.Body)
	if err != nil {
		return n, &NetworkError{Op: "download document", Err: err}
	}
	return n, nil
}
