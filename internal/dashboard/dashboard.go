// Package dashboard assembles cross-entity views from independent
// collection fetches joined in memory.
//
// Secondary collections degrade to empty with a Warning when their fetch
// fails. Only the primary entity of a view and authentication failures
// turn into an error.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"procure/internal/apiclient"
	"procure/models"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// MaxQuoteFetches caps the per-RFQ quote requests a project overview has
// in flight at once.
const MaxQuoteFetches = 4

type API interface {
	ListProjects(ctx context.Context) ([]models.Project, error)
	GetProject(ctx context.Context, id int) (*models.Project, error)
	ListRequirementsByProject(ctx context.Context, projectID int) ([]models.Requirement, error)
	GetRfq(ctx context.Context, id int) (*models.Rfq, error)
	ListRfqs(ctx context.Context, q apiclient.RfqQuery) ([]models.Rfq, error)
	ListQuotesByRfq(ctx context.Context, rfqID int) ([]models.Quote, error)
	ListQuotesByVendor(ctx context.Context, vendorID int) ([]models.Quote, error)
	GetVendorByUser(ctx context.Context, userID int) (*models.Vendor, error)
	ListDocuments(ctx context.Context, ref models.EntityRef) ([]models.Document, error)
}

// Warning names a collection that could not be loaded.
type Warning struct {
	Collection string `json:"collection"`
	Message    string `json:"message"`
}

// RfqRow is one RFQ as seen by a vendor.
type RfqRow struct {
	Rfq    models.Rfq    `json:"rfq"`
	Quote  *models.Quote `json:"quote,omitempty"`
	Quoted bool          `json:"quoted"`
}

type VendorView struct {
	Vendor     *models.Vendor `json:"vendor,omitempty"`
	OpenRfqs   []RfqRow       `json:"openRfqs"`
	ClosedRfqs []RfqRow       `json:"closedRfqs"`
	Quotes     []models.Quote `json:"quotes"`
	Warnings   []Warning      `json:"warnings,omitempty"`
}

type ProjectRow struct {
	Project    models.Project `json:"project"`
	OpenRfqs   int            `json:"openRfqs"`
	ClosedRfqs int            `json:"closedRfqs"`
}

type OwnerView struct {
	Projects []ProjectRow `json:"projects"`
	Warnings []Warning    `json:"warnings,omitempty"`
}

// QuotedRfq is an RFQ with the quotes it received. Accepted is set once
// the RFQ has been awarded.
type QuotedRfq struct {
	Rfq      models.Rfq     `json:"rfq"`
	Quotes   []models.Quote `json:"quotes"`
	Accepted *models.Quote  `json:"accepted,omitempty"`
}

type ProjectView struct {
	Project           models.Project       `json:"project"`
	Requirements      []models.Requirement `json:"requirements"`
	RequirementsTotal float64              `json:"requirementsTotal"`
	OpenRfqs          []QuotedRfq          `json:"openRfqs"`
	ClosedRfqs        []QuotedRfq          `json:"closedRfqs"`
	Documents         []models.Document    `json:"documents"`
	Warnings          []Warning            `json:"warnings,omitempty"`
}

type RfqView struct {
	Rfq       models.Rfq        `json:"rfq"`
	Quotes    []models.Quote    `json:"quotes"`
	Documents []models.Document `json:"documents"`
	Awardable bool              `json:"awardable"`
	Warnings  []Warning         `json:"warnings,omitempty"`
}

type Aggregator struct {
	api    API
	logger *zap.Logger
}

func New(api API, logger *zap.Logger) *Aggregator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Aggregator{api: api, logger: logger}
}

// WithAPI returns a copy that reads through api.
func (a *Aggregator) WithAPI(api API) *Aggregator {
	return &Aggregator{api: api, logger: a.logger}
}

// collector gathers per-collection failures from concurrent fetches.
type collector struct {
	logger *zap.Logger

	mu       sync.Mutex
	warnings []Warning
	authErr  error
}

func (c *collector) fail(name string, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if isAuthError(err) {
		if c.authErr == nil {
			c.authErr = err
		}
		return
	}
	c.logger.Warn("dashboard collection unavailable", zap.String("collection", name), zap.Error(err))
	c.warnings = append(c.warnings, Warning{Collection: name, Message: err.Error()})
}

func (c *collector) result() ([]Warning, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	sort.Slice(c.warnings, func(i, j int) bool { return c.warnings[i].Collection < c.warnings[j].Collection })
	return c.warnings, c.authErr
}

func isAuthError(err error) bool {
	return errors.Is(err, apiclient.ErrAuthRequired) || errors.Is(err, apiclient.ErrSessionExpired)
}

// fetch runs fn in g and stores its result in dst, or an empty slice and a
// warning when it fails. The goroutine never fails the group.
func fetch[T any](g *errgroup.Group, ctx context.Context, c *collector, name string, dst *[]T, fn func(context.Context) ([]T, error)) {
	g.Go(func() error {
		items, err := fn(ctx)
		if err != nil {
			c.fail(name, err)
			items = nil
		}
		if items == nil {
			items = []T{}
		}
		*dst = items
		return nil
	})
}

func (a *Aggregator) rfqsByStatus(status models.RfqStatus, projectID int) func(context.Context) ([]models.Rfq, error) {
	return func(ctx context.Context) ([]models.Rfq, error) {
		return a.api.ListRfqs(ctx, apiclient.RfqQuery{ProjectID: projectID, Status: status})
	}
}

// VendorDashboard lists open and closed RFQs for the vendor behind user,
// each marked with the vendor's quote when there is one.
func (a *Aggregator) VendorDashboard(ctx context.Context, user models.User) (*VendorView, error) {
	c := &collector{logger: a.logger}
	view := &VendorView{}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		vendor, err := a.api.GetVendorByUser(gctx, user.ID)
		if err != nil {
			c.fail("vendor", err)
			view.Quotes = []models.Quote{}
			return nil
		}
		view.Vendor = vendor
		quotes, err := a.api.ListQuotesByVendor(gctx, vendor.ID)
		if err != nil {
			c.fail("quotes", err)
			quotes = nil
		}
		if quotes == nil {
			quotes = []models.Quote{}
		}
		view.Quotes = quotes
		return nil
	})
	var open, closed []models.Rfq
	fetch(g, gctx, c, "open_rfqs", &open, a.rfqsByStatus(models.RfqOpen, 0))
	fetch(g, gctx, c, "closed_rfqs", &closed, a.rfqsByStatus(models.RfqClosed, 0))
	_ = g.Wait()

	warnings, err := c.result()
	if err != nil {
		return nil, err
	}
	view.Warnings = warnings

	byRfq := quoteByRfq(view.Quotes)
	view.OpenRfqs = joinQuotes(open, byRfq)
	view.ClosedRfqs = joinQuotes(closed, byRfq)
	return view, nil
}

// quoteByRfq picks the quote shown for each RFQ. A quote that is still
// live beats a rejected one; otherwise the later quote in the list wins.
func quoteByRfq(quotes []models.Quote) map[int]*models.Quote {
	byRfq := make(map[int]*models.Quote, len(quotes))
	for i := range quotes {
		q := &quotes[i]
		if prev, ok := byRfq[q.RfqID]; ok && prev.Status != models.QuoteRejected && q.Status == models.QuoteRejected {
			continue
		}
		byRfq[q.RfqID] = q
	}
	return byRfq
}

func joinQuotes(rfqs []models.Rfq, byRfq map[int]*models.Quote) []RfqRow {
	rows := make([]RfqRow, 0, len(rfqs))
	for _, r := range rfqs {
		q := byRfq[r.ID]
		rows = append(rows, RfqRow{Rfq: r, Quote: q, Quoted: q != nil})
	}
	return rows
}

// OwnerDashboard lists the owner's projects with their RFQ counts. The
// project list is primary.
func (a *Aggregator) OwnerDashboard(ctx context.Context) (*OwnerView, error) {
	c := &collector{logger: a.logger}

	var projects []models.Project
	var projectsErr error
	var open, closed []models.Rfq

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		projects, projectsErr = a.api.ListProjects(gctx)
		return nil
	})
	fetch(g, gctx, c, "open_rfqs", &open, a.rfqsByStatus(models.RfqOpen, 0))
	fetch(g, gctx, c, "closed_rfqs", &closed, a.rfqsByStatus(models.RfqClosed, 0))
	_ = g.Wait()

	if projectsErr != nil {
		return nil, fmt.Errorf("load projects: %w", projectsErr)
	}
	warnings, err := c.result()
	if err != nil {
		return nil, err
	}

	openCount := countByProject(open)
	closedCount := countByProject(closed)
	view := &OwnerView{Projects: make([]ProjectRow, 0, len(projects)), Warnings: warnings}
	for _, p := range projects {
		view.Projects = append(view.Projects, ProjectRow{
			Project:    p,
			OpenRfqs:   openCount[p.ID],
			ClosedRfqs: closedCount[p.ID],
		})
	}
	return view, nil
}

func countByProject(rfqs []models.Rfq) map[int]int {
	out := make(map[int]int)
	for _, r := range rfqs {
		out[r.ProjectID]++
	}
	return out
}

// ProjectOverview loads a project with its requirements, RFQs, quotes and
// documents.
func (a *Aggregator) ProjectOverview(ctx context.Context, projectID int) (*ProjectView, error) {
	c := &collector{logger: a.logger}

	var project *models.Project
	var projectErr error
	var reqs []models.Requirement
	var open, closed []models.Rfq
	var docs []models.Document

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		project, projectErr = a.api.GetProject(gctx, projectID)
		return nil
	})
	fetch(g, gctx, c, "requirements", &reqs, func(ctx context.Context) ([]models.Requirement, error) {
		return a.api.ListRequirementsByProject(ctx, projectID)
	})
	fetch(g, gctx, c, "open_rfqs", &open, a.rfqsByStatus(models.RfqOpen, projectID))
	fetch(g, gctx, c, "closed_rfqs", &closed, a.rfqsByStatus(models.RfqClosed, projectID))
	fetch(g, gctx, c, "documents", &docs, func(ctx context.Context) ([]models.Document, error) {
		return a.api.ListDocuments(ctx, models.EntityRef{Kind: models.KindProject, ID: projectID})
	})
	_ = g.Wait()

	if projectErr != nil {
		return nil, fmt.Errorf("load project %d: %w", projectID, projectErr)
	}
	if _, err := c.result(); err != nil {
		return nil, err
	}

	openRows := make([]QuotedRfq, len(open))
	closedRows := make([]QuotedRfq, len(closed))
	g, gctx = errgroup.WithContext(ctx)
	g.SetLimit(MaxQuoteFetches)
	for i, r := range open {
		openRows[i].Rfq = r
		fetch(g, gctx, c, fmt.Sprintf("quotes:rfq_%d", r.ID), &openRows[i].Quotes, a.quotesFor(r.ID))
	}
	for i, r := range closed {
		closedRows[i].Rfq = r
		fetch(g, gctx, c, fmt.Sprintf("quotes:rfq_%d", r.ID), &closedRows[i].Quotes, a.quotesFor(r.ID))
	}
	_ = g.Wait()

	warnings, err := c.result()
	if err != nil {
		return nil, err
	}
	markAccepted(openRows)
	markAccepted(closedRows)

	view := &ProjectView{
		Project:      *project,
		Requirements: reqs,
		OpenRfqs:     openRows,
		ClosedRfqs:   closedRows,
		Documents:    docs,
		Warnings:     warnings,
	}
	for _, r := range reqs {
		view.RequirementsTotal += r.Total()
	}
	return view, nil
}

func (a *Aggregator) quotesFor(rfqID int) func(context.Context) ([]models.Quote, error) {
	return func(ctx context.Context) ([]models.Quote, error) {
		return a.api.ListQuotesByRfq(ctx, rfqID)
	}
}

func markAccepted(rows []QuotedRfq) {
	for i := range rows {
		for j := range rows[i].Quotes {
			if rows[i].Quotes[j].Status == models.QuoteAccepted {
				rows[i].Accepted = &rows[i].Quotes[j]
				break
			}
		}
	}
}

// RfqDetail loads an RFQ with its quotes and documents.
func (a *Aggregator) RfqDetail(ctx context.Context, rfqID int) (*RfqView, error) {
	c := &collector{logger: a.logger}

	var rfq *models.Rfq
	var rfqErr error
	var quotes []models.Quote
	var docs []models.Document

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rfq, rfqErr = a.api.GetRfq(gctx, rfqID)
		return nil
	})
	fetch(g, gctx, c, "quotes", &quotes, a.quotesFor(rfqID))
	fetch(g, gctx, c, "documents", &docs, func(ctx context.Context) ([]models.Document, error) {
		return a.api.ListDocuments(ctx, models.EntityRef{Kind: models.KindRfq, ID: rfqID})
	})
	_ = g.Wait()

	if rfqErr != nil {
		return nil, fmt.Errorf("load rfq %d: %w", rfqID, rfqErr)
	}
	warnings, err := c.result()
	if err != nil {
		return nil, err
	}
	return &RfqView{
		Rfq:       *rfq,
		Quotes:    quotes,
		Documents: docs,
		Awardable: rfq.IsOpen() && len(quotes) > 0,
		Warnings:  warnings,
	}, nil
}
