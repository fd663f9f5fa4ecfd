package handlers_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"procure/db"
	"procure/internal/apiclient"
	"procure/internal/handlers"
	"procure/internal/handlers/testutils"
	"procure/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

// MockStorage реализует StorageInterface в памяти
type MockStorage struct {
	mu    sync.Mutex
	runs  map[string]*db.AwardRun
	steps map[string][]db.AwardStep

	ListAwardRunsFunc func(ctx context.Context, owner string, limit, offset int) ([]db.AwardRun, error)
}

func newMockStorage() *MockStorage {
	return &MockStorage{runs: map[string]*db.AwardRun{}, steps: map[string][]db.AwardStep{}}
}

func (m *MockStorage) CreateAwardRun(ctx context.Context, run *db.AwardRun, steps []db.AwardStep) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	run.Status = db.RunPending
	cp := *run
	m.runs[run.ID] = &cp
	for i := range steps {
		steps[i].RunID = run.ID
	}
	m.steps[run.ID] = append([]db.AwardStep(nil), steps...)
	return nil
}

func (m *MockStorage) GetAwardRun(ctx context.Context, owner, id string) (*db.AwardRun, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	run, ok := m.runs[id]
	if !ok || run.Owner != owner {
		return nil, sql.ErrNoRows
	}
	cp := *run
	return &cp, nil
}

func (m *MockStorage) ListAwardSteps(ctx context.Context, runID string) ([]db.AwardStep, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]db.AwardStep(nil), m.steps[runID]...), nil
}

func (m *MockStorage) MarkAwardStepDone(ctx context.Context, runID string, seq int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	steps := m.steps[runID]
	for i := range steps {
		if steps[i].Seq == seq {
			now := time.Now()
			steps[i].DoneAt = &now
		}
	}
	return nil
}

func (m *MockStorage) FinishAwardRun(ctx context.Context, runID string, runErr error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	run := m.runs[runID]
	run.Status, run.LastError = db.RunCompleted, ""
	if runErr != nil {
		run.Status, run.LastError = db.RunFailed, runErr.Error()
	}
	return nil
}

func (m *MockStorage) ListAwardRuns(ctx context.Context, owner string, limit, offset int) ([]db.AwardRun, error) {
	if m.ListAwardRunsFunc != nil {
		return m.ListAwardRunsFunc(ctx, owner, limit, offset)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []db.AwardRun{}
	for _, r := range m.runs {
		if r.Owner == owner {
			out = append(out, *r)
		}
	}
	return out, nil
}

// MockBackend fakes the upstream API for one token.
type MockBackend struct {
	mu      sync.Mutex
	token   string
	rfq     models.Rfq
	quotes  []models.Quote
	failOn  int
	updates []string

	// rejectUsers makes GetUser answer 401, as for a forged token
	rejectUsers bool
	userLookups []int
}

func newMockBackend() *MockBackend {
	return &MockBackend{
		rfq: models.Rfq{ID: 7, ProjectID: 10, Title: "Cement", Status: models.RfqOpen},
		quotes: []models.Quote{
			{ID: 70, RfqID: 7, VendorID: 1, Status: models.QuoteSubmitted, TotalAmount: 900},
			{ID: 71, RfqID: 7, VendorID: 2, Status: models.QuoteSubmitted, TotalAmount: 800},
		},
	}
}

func (m *MockBackend) factory(token string) handlers.Backend {
	m.mu.Lock()
	m.token = token
	m.mu.Unlock()
	return m
}

func (m *MockBackend) checkToken() error {
	if m.token == "expired" {
		return &apiclient.APIError{Status: http.StatusUnauthorized, Message: "Invalid token"}
	}
	return nil
}

func (m *MockBackend) GetUser(ctx context.Context, id int) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.userLookups = append(m.userLookups, id)
	if err := m.checkToken(); err != nil {
		return nil, err
	}
	if m.rejectUsers {
		return nil, &apiclient.APIError{Status: http.StatusUnauthorized, Message: "Invalid token"}
	}
	return &models.User{ID: id, Name: "Asha", Role: models.RoleProjectOwner}, nil
}

func (m *MockBackend) ListProjects(ctx context.Context) ([]models.Project, error) {
	if err := m.checkToken(); err != nil {
		return nil, err
	}
	return []models.Project{{ID: 10, Name: "Tower A"}}, nil
}

func (m *MockBackend) GetProject(ctx context.Context, id int) (*models.Project, error) {
	if id != 10 {
		return nil, &apiclient.APIError{Status: http.StatusNotFound, Message: "Project not found"}
	}
	return &models.Project{ID: 10, Name: "Tower A"}, nil
}

func (m *MockBackend) ListRequirementsByProject(ctx context.Context, projectID int) ([]models.Requirement, error) {
	rate := 350.0
	return []models.Requirement{{ID: 1, ProjectID: projectID, ItemName: "Cement", Quantity: 50, Unit: "bags", Rate: &rate}}, nil
}

func (m *MockBackend) GetRfq(ctx context.Context, id int) (*models.Rfq, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r := m.rfq
	return &r, nil
}

func (m *MockBackend) UpdateRfq(ctx context.Context, id int, in apiclient.RfqUpdate) (*models.Rfq, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.updates = append(m.updates, "rfq")
	m.rfq.Status = *in.Status
	r := m.rfq
	return &r, nil
}

func (m *MockBackend) ListRfqs(ctx context.Context, q apiclient.RfqQuery) ([]models.Rfq, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if q.Status == models.RfqOpen && m.rfq.IsOpen() {
		return []models.Rfq{m.rfq}, nil
	}
	return []models.Rfq{}, nil
}

func (m *MockBackend) ListQuotesByRfq(ctx context.Context, rfqID int) ([]models.Quote, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.Quote(nil), m.quotes...), nil
}

func (m *MockBackend) ListQuotesByVendor(ctx context.Context, vendorID int) ([]models.Quote, error) {
	return nil, &apiclient.APIError{Status: http.StatusInternalServerError, Message: "quotes down"}
}

func (m *MockBackend) GetVendorByUser(ctx context.Context, userID int) (*models.Vendor, error) {
	return &models.Vendor{ID: 1, UserID: userID, CompanyName: "Asha Traders"}, nil
}

func (m *MockBackend) ListDocuments(ctx context.Context, ref models.EntityRef) ([]models.Document, error) {
	return []models.Document{}, nil
}

func (m *MockBackend) UpdateQuote(ctx context.Context, id int, in apiclient.QuoteUpdate) (*models.Quote, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.updates = append(m.updates, "quote")
	if id == m.failOn {
		return nil, &apiclient.APIError{Status: http.StatusInternalServerError, Message: "write failed"}
	}
	for i := range m.quotes {
		if m.quotes[i].ID == id {
			m.quotes[i].Status = *in.Status
			q := m.quotes[i]
			return &q, nil
		}
	}
	return nil, &apiclient.APIError{Status: http.StatusNotFound, Message: "Quote not found"}
}

func newHandler(store *MockStorage, backend *MockBackend) *handlers.Handler {
	return handlers.NewHandler(store, backend.factory, nil)
}

func TestPingHandler(t *testing.T) {
	handler := newHandler(newMockStorage(), newMockBackend())

	req := httptest.NewRequest(http.MethodGet, "/api/ping", nil)
	w := httptest.NewRecorder()
	handler.PingHandler(w, req)

	res := w.Result()
	defer res.Body.Close()
	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, res.StatusCode)
	require.Equal(t, "ok", string(body))
}

func TestOwnerDashboardHandler(t *testing.T) {
	backend := newMockBackend()
	handler := newHandler(newMockStorage(), backend)

	req := testutils.WithBearer(httptest.NewRequest(http.MethodGet, "/api/dashboard/owner", nil), "tok")
	w := httptest.NewRecorder()
	handler.OwnerDashboardHandler(w, req)

	res := w.Result()
	defer res.Body.Close()
	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, res.StatusCode)
	require.Contains(t, string(body), "Tower A")
	require.Equal(t, "tok", backend.token)
}

func TestMissingTokenIsUnauthorized(t *testing.T) {
	handler := newHandler(newMockStorage(), newMockBackend())

	req := httptest.NewRequest(http.MethodGet, "/api/dashboard/owner", nil)
	w := httptest.NewRecorder()
	handler.OwnerDashboardHandler(w, req)

	require.Equal(t, http.StatusUnauthorized, w.Result().StatusCode)
}

func TestUpstreamUnauthorizedIsForwarded(t *testing.T) {
	handler := newHandler(newMockStorage(), newMockBackend())

	req := testutils.WithBearer(httptest.NewRequest(http.MethodGet, "/api/dashboard/owner", nil), "expired")
	w := httptest.NewRecorder()
	handler.OwnerDashboardHandler(w, req)

	require.Equal(t, http.StatusUnauthorized, w.Result().StatusCode)
}

func TestVendorDashboardHandlerDegrades(t *testing.T) {
	handler := newHandler(newMockStorage(), newMockBackend())

	req := testutils.WithBearer(httptest.NewRequest(http.MethodGet, "/api/dashboard/vendor?userId=5", nil), "tok")
	w := httptest.NewRecorder()
	handler.VendorDashboardHandler(w, req)

	res := w.Result()
	defer res.Body.Close()
	require.Equal(t, http.StatusOK, res.StatusCode)

	var view struct {
		OpenRfqs []struct {
			Quoted bool `json:"quoted"`
		} `json:"openRfqs"`
		Warnings []struct {
			Collection string `json:"collection"`
		} `json:"warnings"`
	}
	require.NoError(t, json.NewDecoder(res.Body).Decode(&view))
	require.Len(t, view.OpenRfqs, 1)
	require.Len(t, view.Warnings, 1)
	require.Equal(t, "quotes", view.Warnings[0].Collection)

	req = testutils.WithBearer(httptest.NewRequest(http.MethodGet, "/api/dashboard/vendor", nil), "tok")
	w = httptest.NewRecorder()
	handler.VendorDashboardHandler(w, req)
	require.Equal(t, http.StatusBadRequest, w.Result().StatusCode)
}

func TestProjectOverviewHandler(t *testing.T) {
	handler := newHandler(newMockStorage(), newMockBackend())

	req := testutils.WithBearer(httptest.NewRequest(http.MethodGet, "/api/projects/10/overview", nil), "tok")
	req = testutils.WithChiURLParams(req, map[string]string{"projectId": "10"})
	w := httptest.NewRecorder()
	handler.ProjectOverviewHandler(w, req)

	res := w.Result()
	defer res.Body.Close()
	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, res.StatusCode)
	require.Contains(t, string(body), `"requirementsTotal":17500`)

	req = testutils.WithBearer(httptest.NewRequest(http.MethodGet, "/api/projects/99/overview", nil), "tok")
	req = testutils.WithChiURLParams(req, map[string]string{"projectId": "99"})
	w = httptest.NewRecorder()
	handler.ProjectOverviewHandler(w, req)
	require.Equal(t, http.StatusNotFound, w.Result().StatusCode)

	req = testutils.WithBearer(httptest.NewRequest(http.MethodGet, "/api/projects/abc/overview", nil), "tok")
	req = testutils.WithChiURLParams(req, map[string]string{"projectId": "abc"})
	w = httptest.NewRecorder()
	handler.ProjectOverviewHandler(w, req)
	require.Equal(t, http.StatusBadRequest, w.Result().StatusCode)
}

func TestAwardHandler(t *testing.T) {
	store := newMockStorage()
	backend := newMockBackend()
	handler := newHandler(store, backend)

	req := testutils.WithBearer(httptest.NewRequest(http.MethodPost, "/api/rfqs/7/award", strings.NewReader(`{"quoteId":71,"confirm":true}`)), "tok")
	req = testutils.WithChiURLParams(req, map[string]string{"rfqId": "7"})
	w := httptest.NewRecorder()
	handler.AwardHandler(w, req)

	res := w.Result()
	defer res.Body.Close()
	require.Equal(t, http.StatusOK, res.StatusCode)

	var out struct {
		RunID  string         `json:"runId"`
		Rfq    models.Rfq     `json:"rfq"`
		Quotes []models.Quote `json:"quotes"`
	}
	require.NoError(t, json.NewDecoder(res.Body).Decode(&out))
	require.NotEmpty(t, out.RunID)
	require.Equal(t, models.RfqAwarded, out.Rfq.Status)
	require.Equal(t, models.QuoteRejected, out.Quotes[0].Status)
	require.Equal(t, models.QuoteAccepted, out.Quotes[1].Status)
	require.Equal(t, db.RunCompleted, store.runs[out.RunID].Status)
}

func TestAwardHandlerRequiresConfirm(t *testing.T) {
	backend := newMockBackend()
	handler := newHandler(newMockStorage(), backend)

	req := testutils.WithBearer(httptest.NewRequest(http.MethodPost, "/api/rfqs/7/award", strings.NewReader(`{"quoteId":71}`)), "tok")
	req = testutils.WithChiURLParams(req, map[string]string{"rfqId": "7"})
	w := httptest.NewRecorder()
	handler.AwardHandler(w, req)

	require.Equal(t, http.StatusBadRequest, w.Result().StatusCode)
	require.Empty(t, backend.updates)

	req = testutils.WithBearer(httptest.NewRequest(http.MethodPost, "/api/rfqs/7/award", strings.NewReader(`{"quoteId":99,"confirm":true}`)), "tok")
	req = testutils.WithChiURLParams(req, map[string]string{"rfqId": "7"})
	w = httptest.NewRecorder()
	handler.AwardHandler(w, req)

	require.Equal(t, http.StatusBadRequest, w.Result().StatusCode)
	require.Empty(t, backend.updates)
}

func TestAwardFailureThenResume(t *testing.T) {
	store := newMockStorage()
	backend := newMockBackend()
	backend.failOn = 71
	handler := newHandler(store, backend)

	req := testutils.WithBearer(httptest.NewRequest(http.MethodPost, "/api/rfqs/7/award", strings.NewReader(`{"quoteId":71,"confirm":true}`)), "tok")
	req = testutils.WithChiURLParams(req, map[string]string{"rfqId": "7"})
	w := httptest.NewRecorder()
	handler.AwardHandler(w, req)

	res := w.Result()
	defer res.Body.Close()
	require.Equal(t, http.StatusBadGateway, res.StatusCode)

	var failure struct {
		RunID  string `json:"runId"`
		Resume string `json:"resume"`
		Step   struct {
			Seq      int `json:"seq"`
			TargetID int `json:"targetId"`
		} `json:"step"`
	}
	require.NoError(t, json.NewDecoder(res.Body).Decode(&failure))
	require.Equal(t, 1, failure.Step.Seq)
	require.Equal(t, 71, failure.Step.TargetID)
	require.Equal(t, "/api/awards/"+failure.RunID+"/resume", failure.Resume)
	require.Equal(t, []string{"rfq", "quote"}, backend.updates)

	backend.failOn = 0
	req = testutils.WithBearer(httptest.NewRequest(http.MethodPost, failure.Resume, nil), "tok")
	req = testutils.WithChiURLParams(req, map[string]string{"runId": failure.RunID})
	w = httptest.NewRecorder()
	handler.ResumeAwardHandler(w, req)

	var resumed struct {
		RunID string `json:"runId"`
	}
	testutils.DecodeJSON(t, w, http.StatusOK, &resumed)
	require.Equal(t, failure.RunID, resumed.RunID)
	require.Equal(t, []string{"rfq", "quote", "quote", "quote"}, backend.updates)
	require.Equal(t, db.RunCompleted, store.runs[failure.RunID].Status)
}

func TestResumeUnknownRun(t *testing.T) {
	handler := newHandler(newMockStorage(), newMockBackend())

	req := testutils.WithBearer(httptest.NewRequest(http.MethodPost, "/api/awards/nope/resume", nil), "tok")
	req = testutils.WithChiURLParams(req, map[string]string{"runId": "nope"})
	w := httptest.NewRecorder()
	handler.ResumeAwardHandler(w, req)

	require.Equal(t, http.StatusNotFound, w.Result().StatusCode)
}

func TestGetAwardRunsHandlerPagination(t *testing.T) {
	var gotLimit, gotOffset int
	store := newMockStorage()
	store.ListAwardRunsFunc = func(ctx context.Context, owner string, limit, offset int) ([]db.AwardRun, error) {
		require.True(t, strings.HasPrefix(owner, "token:"), owner)
		gotLimit, gotOffset = limit, offset
		return []db.AwardRun{{ID: "run-1", RfqID: 7}}, nil
	}
	handler := newHandler(store, newMockBackend())

	cases := []struct {
		query         string
		limit, offset int
	}{
		{"", 5, 0},
		{"?limit=20&offset=40", 20, 40},
		{"?limit=500&offset=-1", 5, 0},
	}
	for _, c := range cases {
		req := testutils.WithBearer(httptest.NewRequest(http.MethodGet, "/api/awards"+c.query, nil), "tok")
		w := httptest.NewRecorder()
		handler.GetAwardRunsHandler(w, req)

		res := w.Result()
		body, err := io.ReadAll(res.Body)
		res.Body.Close()
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, res.StatusCode)
		require.Contains(t, string(body), "run-1")
		require.Equal(t, c.limit, gotLimit, c.query)
		require.Equal(t, c.offset, gotOffset, c.query)
	}
}

func TestRouterWiring(t *testing.T) {
	srv := httptest.NewServer(handlers.NewRouter(newHandler(newMockStorage(), newMockBackend())))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/ping")
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/api/rfqs/7/detail", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer tok")
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, string(body), `"awardable":true`)

	resp, err = http.Get(srv.URL + "/api/awards/missing")
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	req, err = http.NewRequest(http.MethodGet, srv.URL+"/api/awards/missing", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer tok")
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAwardJournalRequiresToken(t *testing.T) {
	store := newMockStorage()
	require.NoError(t, store.CreateAwardRun(context.Background(), &db.AwardRun{ID: "run-secret", RfqID: 7, WinningQuoteID: 71, Owner: "user:5"}, nil))
	srv := httptest.NewServer(handlers.NewRouter(newHandler(store, newMockBackend())))
	defer srv.Close()

	cases := []struct {
		method, path string
	}{
		{http.MethodGet, "/api/awards"},
		{http.MethodGet, "/api/awards/run-secret"},
		{http.MethodPost, "/api/awards/run-secret/resume"},
	}
	for _, c := range cases {
		req, err := http.NewRequest(c.method, srv.URL+c.path, nil)
		require.NoError(t, err)
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		require.NoError(t, err)
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode, c.path)
		require.NotContains(t, string(body), "run-secret", c.path)
	}
}

func TestAwardJournalHidesOtherCallersRuns(t *testing.T) {
	store := newMockStorage()
	backend := newMockBackend()
	backend.failOn = 71
	handler := newHandler(store, backend)
	srv := httptest.NewServer(handlers.NewRouter(handler))
	defer srv.Close()

	call := func(method, path, token, body string) (int, string) {
		var rd io.Reader
		if body != "" {
			rd = strings.NewReader(body)
		}
		req, err := http.NewRequest(method, srv.URL+path, rd)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		b, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		return resp.StatusCode, string(b)
	}

	status, body := call(http.MethodPost, "/api/rfqs/7/award", "tok", `{"quoteId":71,"confirm":true}`)
	require.Equal(t, http.StatusBadGateway, status)
	var failure struct {
		RunID string `json:"runId"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &failure))
	updates := len(backend.updates)

	status, body = call(http.MethodGet, "/api/awards", "other", "")
	require.Equal(t, http.StatusOK, status)
	require.NotContains(t, body, failure.RunID)

	status, _ = call(http.MethodGet, "/api/awards/"+failure.RunID, "other", "")
	require.Equal(t, http.StatusNotFound, status)

	backend.failOn = 0
	status, _ = call(http.MethodPost, "/api/awards/"+failure.RunID+"/resume", "other", "")
	require.Equal(t, http.StatusNotFound, status)
	require.Len(t, backend.updates, updates)

	status, body = call(http.MethodGet, "/api/awards", "tok", "")
	require.Equal(t, http.StatusOK, status)
	require.Contains(t, body, failure.RunID)

	status, _ = call(http.MethodGet, "/api/awards/"+failure.RunID, "tok", "")
	require.Equal(t, http.StatusOK, status)
}

func TestJWTCallerOwnsRunsByUserID(t *testing.T) {
	sign := func(iat int64) string {
		tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"userId": 5, "iat": iat}).SignedString([]byte("test-secret"))
		require.NoError(t, err)
		return tok
	}
	store := newMockStorage()
	backend := newMockBackend()
	handler := newHandler(store, backend)

	req := testutils.WithBearer(httptest.NewRequest(http.MethodPost, "/api/rfqs/7/award", strings.NewReader(`{"quoteId":71,"confirm":true}`)), sign(1))
	req = testutils.WithChiURLParams(req, map[string]string{"rfqId": "7"})
	w := httptest.NewRecorder()
	handler.AwardHandler(w, req)

	var out struct {
		RunID string `json:"runId"`
	}
	testutils.DecodeJSON(t, w, http.StatusOK, &out)
	require.Equal(t, "user:5", store.runs[out.RunID].Owner)
	require.Equal(t, []int{5}, backend.userLookups)

	// a fresh login of the same user still sees the run
	req = testutils.WithBearer(httptest.NewRequest(http.MethodGet, "/api/awards/"+out.RunID, nil), sign(2))
	req = testutils.WithChiURLParams(req, map[string]string{"runId": out.RunID})
	w = httptest.NewRecorder()
	handler.GetAwardRunHandler(w, req)
	require.Equal(t, http.StatusOK, w.Result().StatusCode)

	backend.rejectUsers = true
	req = testutils.WithBearer(httptest.NewRequest(http.MethodGet, "/api/awards/"+out.RunID, nil), sign(3))
	req = testutils.WithChiURLParams(req, map[string]string{"runId": out.RunID})
	w = httptest.NewRecorder()
	handler.GetAwardRunHandler(w, req)
	require.Equal(t, http.StatusUnauthorized, w.Result().StatusCode)
}
