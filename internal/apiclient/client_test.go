package apiclient_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"procure/internal/apiclient"
	"procure/models"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
)

type fakeSession struct {
	mu      sync.Mutex
	token   string
	expired []string
}

func (s *fakeSession) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

func (s *fakeSession) Expire(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.expired = append(s.expired, token)
}

func newClient(t *testing.T, h http.Handler, token string) (*apiclient.Client, *fakeSession) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	sess := &fakeSession{token: token}
	return apiclient.New(srv.URL+"/api", apiclient.WithSession(sess)), sess
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func TestBearerHeaderAndDecode(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/api/quotes/rfq/{rfqId}", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer tok-1", r.Header.Get("Authorization"))
		require.Equal(t, "7", chi.URLParam(r, "rfqId"))
		writeJSON(w, http.StatusOK, map[string]any{
			"quotes": []map[string]any{
				{"id": 1, "rfq_id": 7, "vendor_id": 3, "status": "submitted", "total_amount": 1200.5},
			},
		})
	})
	c, _ := newClient(t, r, "tok-1")

	quotes, err := c.ListQuotesByRfq(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, quotes, 1)
	require.Equal(t, models.QuoteSubmitted, quotes[0].Status)
	require.Equal(t, 1200.5, quotes[0].TotalAmount)
}

func TestAuthRequiredBeforeAnyCall(t *testing.T) {
	var calls int32
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	})
	c, _ := newClient(t, h, "")

	_, err := c.CreateQuote(context.Background(), 1, 2, 100)
	require.ErrorIs(t, err, apiclient.ErrAuthRequired)
	_, err = c.ListProjects(context.Background())
	require.ErrorIs(t, err, apiclient.ErrAuthRequired)
	_, err = c.DownloadDocument(context.Background(), 1, io.Discard)
	require.ErrorIs(t, err, apiclient.ErrAuthRequired)
	require.Zero(t, atomic.LoadInt32(&calls))
}

func TestAPIErrorMessage(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/api/projects/{id}", func(w http.ResponseWriter, r *http.Request) {
		switch chi.URLParam(r, "id") {
		case "1":
			writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"message": "deadline in the past"})
		case "2":
			http.Error(w, "boom", http.StatusInternalServerError)
		default:
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "project not found"})
		}
	})
	c, _ := newClient(t, r, "tok")

	_, err := c.GetProject(context.Background(), 1)
	var apiErr *apiclient.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusUnprocessableEntity, apiErr.Status)
	require.Equal(t, "deadline in the past", apiErr.Message)

	_, err = c.GetProject(context.Background(), 2)
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, "Internal Server Error", apiErr.Message)

	_, err = c.GetProject(context.Background(), 3)
	require.Equal(t, http.StatusNotFound, apiclient.StatusCode(err))
	require.Contains(t, err.Error(), "project not found")
	require.NotErrorIs(t, err, apiclient.ErrSessionExpired)
}

func TestUnauthorizedExpiresSession(t *testing.T) {
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	c, sess := newClient(t, h, "stale")

	_, err := c.ListProjects(context.Background())
	require.ErrorIs(t, err, apiclient.ErrSessionExpired)
	require.Equal(t, http.StatusUnauthorized, apiclient.StatusCode(err))
	require.Equal(t, []string{"stale"}, sess.expired)
}

func TestWithTokenDoesNotNotifySession(t *testing.T) {
	var seen string
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusUnauthorized)
	})
	c, sess := newClient(t, h, "session-token")

	_, err := c.WithToken("request-token").ListVendors(context.Background())
	require.ErrorIs(t, err, apiclient.ErrSessionExpired)
	require.Equal(t, "Bearer request-token", seen)
	require.Empty(t, sess.expired)
}

func TestNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := apiclient.New(url, apiclient.WithSession(&fakeSession{token: "tok"}))
	_, err := c.ListRfqs(context.Background(), apiclient.RfqQuery{})
	var netErr *apiclient.NetworkError
	require.ErrorAs(t, err, &netErr)
	require.Zero(t, apiclient.StatusCode(err))
}

func TestUpdateQuoteSendsOnlyGivenFields(t *testing.T) {
	var body map[string]any
	r := chi.NewRouter()
	r.Put("/api/quotes/{id}", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		writeJSON(w, http.StatusOK, map[string]any{"quote": map[string]any{"id": 5, "status": body["status"]}})
	})
	c, _ := newClient(t, r, "tok")

	status := models.QuoteRejected
	q, err := c.UpdateQuote(context.Background(), 5, apiclient.QuoteUpdate{Status: &status})
	require.NoError(t, err)
	require.Equal(t, models.QuoteRejected, q.Status)
	require.Equal(t, map[string]any{"status": "rejected"}, body)

	bad := models.QuoteStatus("won")
	_, err = c.UpdateQuote(context.Background(), 5, apiclient.QuoteUpdate{Status: &bad})
	var vErr *apiclient.ValidationError
	require.ErrorAs(t, err, &vErr)
}

func TestRequirementRoundTrip(t *testing.T) {
	var (
		mu    sync.Mutex
		store = map[int]models.Requirement{}
	)
	r := chi.NewRouter()
	r.Post("/api/requirements", func(w http.ResponseWriter, r *http.Request) {
		var req models.Requirement
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		mu.Lock()
		req.ID = len(store) + 1
		store[req.ID] = req
		mu.Unlock()
		writeJSON(w, http.StatusCreated, map[string]any{"message": "created", "requirement": req})
	})
	r.Get("/api/requirements/{id}", func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		writeJSON(w, http.StatusOK, map[string]any{"requirement": store[1]})
	})
	c, _ := newClient(t, r, "tok")

	rate := 350.0
	created, err := c.CreateRequirement(context.Background(), apiclient.RequirementInput{
		ProjectID: 1, ItemName: "Cement", Quantity: 50, Unit: "bags", Rate: &rate,
	})
	require.NoError(t, err)

	got, err := c.GetRequirement(context.Background(), created.ID)
	require.NoError(t, err)
	require.Equal(t, "Cement", got.ItemName)
	require.Equal(t, 50.0, got.Quantity)
	require.Equal(t, "bags", got.Unit)
	require.NotNil(t, got.Rate)
	require.Equal(t, 350.0, *got.Rate)
	require.Equal(t, 17500.0, got.Total())
}

func TestCreateRequirementValidation(t *testing.T) {
	var calls int32
	c, _ := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	}), "tok")

	_, err := c.CreateRequirement(context.Background(), apiclient.RequirementInput{ProjectID: 1, ItemName: "Sand", Quantity: 3})
	var vErr *apiclient.ValidationError
	require.ErrorAs(t, err, &vErr)
	require.Equal(t, "unit", vErr.Field)
	require.Zero(t, atomic.LoadInt32(&calls))
}

func TestListRfqsQuery(t *testing.T) {
	all := []models.Rfq{
		{ID: 1, Status: models.RfqOpen},
		{ID: 2, Status: models.RfqClosed},
		{ID: 3, Status: models.RfqAwarded},
	}
	var paths []string
	r := chi.NewRouter()
	list := func(rfqs []models.Rfq) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			paths = append(paths, r.URL.Path)
			writeJSON(w, http.StatusOK, map[string]any{"rfqs": rfqs})
		}
	}
	r.Get("/api/rfqs", list(all))
	r.Get("/api/rfqs/closed", list(all[1:]))
	r.Get("/api/rfqs/project/{id}", list(all[:1]))
	r.Get("/api/rfqs/project/{id}/closed", list(all[2:]))
	c, _ := newClient(t, r, "tok")
	ctx := context.Background()

	open, err := c.ListRfqs(ctx, apiclient.RfqQuery{Status: models.RfqOpen})
	require.NoError(t, err)
	require.Equal(t, []models.Rfq{all[0]}, open)

	closed, err := c.ListRfqs(ctx, apiclient.RfqQuery{Status: models.RfqClosed})
	require.NoError(t, err)
	require.Len(t, closed, 2)

	awarded, err := c.ListRfqs(ctx, apiclient.RfqQuery{Status: models.RfqAwarded})
	require.NoError(t, err)
	require.Equal(t, []models.Rfq{all[2]}, awarded)

	_, err = c.ListRfqs(ctx, apiclient.RfqQuery{ProjectID: 9})
	require.NoError(t, err)
	_, err = c.ListRfqs(ctx, apiclient.RfqQuery{ProjectID: 9, Status: models.RfqClosed})
	require.NoError(t, err)

	require.Equal(t, []string{
		"/api/rfqs", "/api/rfqs/closed", "/api/rfqs/closed",
		"/api/rfqs/project/9", "/api/rfqs/project/9/closed",
	}, paths)

	_, err = c.ListRfqs(ctx, apiclient.RfqQuery{Status: "pending"})
	var vErr *apiclient.ValidationError
	require.ErrorAs(t, err, &vErr)
}

func TestUploadDocumentMultipart(t *testing.T) {
	r := chi.NewRouter()
	r.Post("/api/documents/upload", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		require.NoError(t, r.ParseMultipartForm(1<<20))
		require.Equal(t, "rfq", r.FormValue("entity_type"))
		require.Equal(t, "12", r.FormValue("entity_id"))
		f, hdr, err := r.FormFile("file")
		require.NoError(t, err)
		defer f.Close()
		data, _ := io.ReadAll(f)
		writeJSON(w, http.StatusCreated, map[string]any{"document": map[string]any{
			"id": 4, "entity_type": "rfq", "entity_id": 12,
			"original_name": hdr.Filename, "file_size": len(data),
		}})
	})
	r.Get("/api/documents/download/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("pdf-bytes"))
	})
	c, _ := newClient(t, r, "tok")
	ctx := context.Background()

	doc, err := c.UploadDocument(ctx, models.EntityRef{Kind: models.KindRfq, ID: 12}, "drawings.pdf", strings.NewReader("hello"))
	require.NoError(t, err)
	require.Equal(t, "drawings.pdf", doc.OriginalName)
	require.Equal(t, int64(5), doc.FileSize)

	var buf bytes.Buffer
	n, err := c.DownloadDocument(ctx, 4, &buf)
	require.NoError(t, err)
	require.Equal(t, int64(9), n)
	require.Equal(t, "pdf-bytes", buf.String())

	_, err = c.ListDocuments(ctx, models.EntityRef{Kind: "vendor", ID: 1})
	var vErr *apiclient.ValidationError
	require.ErrorAs(t, err, &vErr)
}

func TestRegisterValidationMakesNoCalls(t *testing.T) {
	var calls int32
	c, _ := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	}), "")

	_, err := c.Register(context.Background(), apiclient.RegisterInput{
		Name: "A", Email: "a@b.c", Password: "secret", Role: models.RoleVendor,
		CompanyName: "ACME", ContactPerson: "  ",
	})
	var vErr *apiclient.ValidationError
	require.ErrorAs(t, err, &vErr)
	require.Equal(t, "contact_person", vErr.Field)
	require.Zero(t, atomic.LoadInt32(&calls))
}

func TestLoginInvalidCredentials(t *testing.T) {
	r := chi.NewRouter()
	r.Post("/api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		require.Empty(t, r.Header.Get("Authorization"))
		var creds apiclient.Credentials
		require.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
		if creds.Password != "right" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Invalid credentials"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"token": "jwt", "user": map[string]any{"id": 1, "email": creds.Email, "role": "vendor"},
		})
	})
	c, sess := newClient(t, r, "")
	ctx := context.Background()

	_, err := c.Login(ctx, apiclient.Credentials{Email: "v@x.io", Password: "wrong"})
	require.True(t, errors.Is(err, apiclient.ErrInvalidCredentials))
	require.Empty(t, sess.expired)

	resp, err := c.Login(ctx, apiclient.Credentials{Email: "v@x.io", Password: "right"})
	require.NoError(t, err)
	require.Equal(t, "jwt", resp.Token)
	require.Equal(t, models.RoleVendor, resp.User.Role)
}
