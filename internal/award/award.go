// Package award drives the status changes that close out an RFQ: the RFQ
// becomes awarded, the winning quote accepted, every other quote rejected.
//
// The calls are strictly sequential. Each planned step is journaled before
// the first call and marked done after it succeeds, so a run that fails
// part-way can be resumed without repeating completed steps.
package award

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"procure/db"
	"procure/internal/apiclient"
	"procure/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	StepRfq   = "rfq"
	StepQuote = "quote"
)

var (
	ErrQuoteNotFound = errors.New("winning quote is not among the rfq's quotes")
	ErrNotConfirmed  = errors.New("award not confirmed")
	ErrNoJournal     = errors.New("award journal not configured")
	ErrRunNotFound   = errors.New("award run not found")
)

// API is the subset of the procurement client the orchestrator calls.
type API interface {
	GetRfq(ctx context.Context, id int) (*models.Rfq, error)
	UpdateRfq(ctx context.Context, id int, in apiclient.RfqUpdate) (*models.Rfq, error)
	ListQuotesByRfq(ctx context.Context, rfqID int) ([]models.Quote, error)
	UpdateQuote(ctx context.Context, id int, in apiclient.QuoteUpdate) (*models.Quote, error)
}

// Journal records award runs and their steps.
type Journal interface {
	CreateAwardRun(ctx context.Context, run *db.AwardRun, steps []db.AwardStep) error
	GetAwardRun(ctx context.Context, owner, id string) (*db.AwardRun, error)
	ListAwardSteps(ctx context.Context, runID string) ([]db.AwardStep, error)
	MarkAwardStepDone(ctx context.Context, runID string, seq int) error
	FinishAwardRun(ctx context.Context, runID string, runErr error) error
	ListAwardRuns(ctx context.Context, owner string, limit, offset int) ([]db.AwardRun, error)
}

// Request names the RFQ, its winner and the caller's current quote list.
type Request struct {
	RfqID          int
	WinningQuoteID int
	Quotes         []models.Quote
}

// Plan is what the user is asked to confirm.
type Plan struct {
	RfqID    int
	Winner   models.Quote
	Rejected []models.Quote
}

// Confirmer approves a plan before any network call is made.
type Confirmer interface {
	Confirm(ctx context.Context, plan Plan) (bool, error)
}

type ConfirmFunc func(ctx context.Context, plan Plan) (bool, error)

func (f ConfirmFunc) Confirm(ctx context.Context, plan Plan) (bool, error) { return f(ctx, plan) }

// Confirmed approves every plan. Callers that already asked the user
// (a --yes flag, a confirm field in a request body) pass it.
var Confirmed Confirmer = ConfirmFunc(func(context.Context, Plan) (bool, error) { return true, nil })

// Result is the refreshed state after a successful run. RefreshErr is set
// when the award went through but the follow-up read failed.
type Result struct {
	RunID      string         `json:"runId"`
	Rfq        *models.Rfq    `json:"rfq,omitempty"`
	Quotes     []models.Quote `json:"quotes"`
	RefreshErr error          `json:"-"`
}

// StepError reports which step of a run failed. Steps before it were
// applied and stay applied.
type StepError struct {
	RunID string
	Step  db.AwardStep
	Err   error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("award run %s: step %d (%s %d -> %s) failed: %v",
		e.RunID, e.Step.Seq, e.Step.Kind, e.Step.TargetID, e.Step.TargetStatus, e.Err)
}

func (e *StepError) Unwrap() error { return e.Err }

// UserOwner is the journal owner key of an authenticated user.
func UserOwner(userID int) string {
	return "user:" + strconv.Itoa(userID)
}

type Orchestrator struct {
	api     API
	journal Journal
	logger  *zap.Logger
	newID   func() string
	owner   string
}

type Option func(*Orchestrator)

func WithLogger(l *zap.Logger) Option {
	return func(o *Orchestrator) {
		if l != nil {
			o.logger = l
		}
	}
}

func WithIDGenerator(fn func() string) Option {
	return func(o *Orchestrator) { o.newID = fn }
}

// New returns an Orchestrator. A nil journal disables Resume and Runs;
// awards still run, just without a record of their progress.
func New(api API, journal Journal, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		api:     api,
		journal: journal,
		logger:  zap.NewNop(),
		newID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithAPI returns a copy that talks to api, sharing the journal.
func (o *Orchestrator) WithAPI(api API) *Orchestrator {
	cp := *o
	cp.api = api
	return &cp
}

// ForOwner returns a copy that records new runs under owner and only sees
// runs recorded under it.
func (o *Orchestrator) ForOwner(owner string) *Orchestrator {
	cp := *o
	cp.owner = owner
	return &cp
}

func planFor(req Request) (Plan, error) {
	plan := Plan{RfqID: req.RfqID}
	found := false
	for _, q := range req.Quotes {
		if q.ID == req.WinningQuoteID {
			plan.Winner = q
			found = true
			continue
		}
		plan.Rejected = append(plan.Rejected, q)
	}
	if !found {
		return Plan{}, fmt.Errorf("%w: quote %d", ErrQuoteNotFound, req.WinningQuoteID)
	}
	return plan, nil
}

func stepsFor(plan Plan) []db.AwardStep {
	amount := plan.Winner.TotalAmount
	steps := []db.AwardStep{
		{Seq: 0, Kind: StepRfq, TargetID: plan.RfqID, TargetStatus: string(models.RfqAwarded)},
		{Seq: 1, Kind: StepQuote, TargetID: plan.Winner.ID, TargetStatus: string(models.QuoteAccepted), Amount: &amount},
	}
	for i, q := range plan.Rejected {
		steps = append(steps, db.AwardStep{
			Seq: i + 2, Kind: StepQuote, TargetID: q.ID, TargetStatus: string(models.QuoteRejected),
		})
	}
	return steps
}

// Award confirms the plan with c, then applies it step by step. Nothing is
// sent when the winner is missing from req.Quotes or c declines.
func (o *Orchestrator) Award(ctx context.Context, req Request, c Confirmer) (*Result, error) {
	if req.RfqID <= 0 {
		return nil, &apiclient.ValidationError{Field: "rfq_id", Message: "rfq_id must be positive"}
	}
	plan, err := planFor(req)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrNotConfirmed
	}
	ok, err := c.Confirm(ctx, plan)
	if err != nil {
		return nil, fmt.Errorf("confirm award: %w", err)
	}
	if !ok {
		return nil, ErrNotConfirmed
	}

	run := &db.AwardRun{ID: o.newID(), Owner: o.owner, RfqID: req.RfqID, WinningQuoteID: req.WinningQuoteID}
	steps := stepsFor(plan)
	if o.journal != nil {
		if err := o.journal.CreateAwardRun(ctx, run, steps); err != nil {
			return nil, fmt.Errorf("record award run: %w", err)
		}
	}
	o.logger.Info("award started",
		zap.String("run_id", run.ID),
		zap.Int("rfq_id", run.RfqID),
		zap.Int("winning_quote_id", run.WinningQuoteID),
		zap.Int("steps", len(steps)))

	return o.execute(ctx, run.ID, run.RfqID, steps)
}

// Resume replays the steps of runID that have not completed. A run that
// already completed only refreshes.
func (o *Orchestrator) Resume(ctx context.Context, runID string) (*Result, error) {
	if o.journal == nil {
		return nil, ErrNoJournal
	}
	run, err := o.run(ctx, runID)
	if err != nil {
		return nil, err
	}
	steps, err := o.journal.ListAwardSteps(ctx, runID)
	if err != nil {
		return nil, fmt.Errorf("load award steps: %w", err)
	}

	pending := steps[:0:0]
	for _, st := range steps {
		if st.DoneAt == nil {
			pending = append(pending, st)
		}
	}
	o.logger.Info("award resumed",
		zap.String("run_id", runID),
		zap.String("status", run.Status),
		zap.Int("pending", len(pending)))

	return o.execute(ctx, runID, run.RfqID, pending)
}

// Runs lists journaled runs, newest first.
func (o *Orchestrator) Runs(ctx context.Context, limit, offset int) ([]db.AwardRun, error) {
	if o.journal == nil {
		return nil, ErrNoJournal
	}
	return o.journal.ListAwardRuns(ctx, o.owner, limit, offset)
}

// Steps returns the journaled steps of one run.
func (o *Orchestrator) Steps(ctx context.Context, runID string) ([]db.AwardStep, error) {
	if o.journal == nil {
		return nil, ErrNoJournal
	}
	if _, err := o.run(ctx, runID); err != nil {
		return nil, err
	}
	return o.journal.ListAwardSteps(ctx, runID)
}

func (o *Orchestrator) run(ctx context.Context, runID string) (*db.AwardRun, error) {
	run, err := o.journal.GetAwardRun(ctx, o.owner, runID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	if err != nil {
		return nil, fmt.Errorf("load award run %s: %w", runID, err)
	}
	return run, nil
}

func (o *Orchestrator) execute(ctx context.Context, runID string, rfqID int, steps []db.AwardStep) (*Result, error) {
	for _, st := range steps {
		if err := o.apply(ctx, st); err != nil {
			stepErr := &StepError{RunID: runID, Step: st, Err: err}
			o.logger.Error("award step failed",
				zap.String("run_id", runID),
				zap.Int("seq", st.Seq),
				zap.String("kind", st.Kind),
				zap.Int("target_id", st.TargetID),
				zap.Error(err))
			o.finish(runID, stepErr)
			return nil, stepErr
		}
		if o.journal != nil {
			if err := o.journal.MarkAwardStepDone(ctx, runID, st.Seq); err != nil {
				o.logger.Warn("mark award step done", zap.String("run_id", runID), zap.Int("seq", st.Seq), zap.Error(err))
			}
		}
	}
	o.finish(runID, nil)
	o.logger.Info("award completed", zap.String("run_id", runID))

	res := &Result{RunID: runID}
	rfq, err := o.api.GetRfq(ctx, rfqID)
	if err != nil {
		res.RefreshErr = err
		return res, nil
	}
	res.Rfq = rfq
	quotes, err := o.api.ListQuotesByRfq(ctx, rfqID)
	if err != nil {
		res.RefreshErr = err
		return res, nil
	}
	res.Quotes = quotes
	return res, nil
}

func (o *Orchestrator) apply(ctx context.Context, st db.AwardStep) error {
	switch st.Kind {
	case StepRfq:
		status := models.RfqStatus(st.TargetStatus)
		_, err := o.api.UpdateRfq(ctx, st.TargetID, apiclient.RfqUpdate{Status: &status})
		return err
	case StepQuote:
		status := models.QuoteStatus(st.TargetStatus)
		_, err := o.api.UpdateQuote(ctx, st.TargetID, apiclient.QuoteUpdate{Status: &status, TotalAmount: st.Amount})
		return err
	default:
		return fmt.Errorf("unknown award step kind %q", st.Kind)
	}
}

// finish records the outcome with a fresh context so a cancelled request
// still leaves the journal accurate.
func (o *Orchestrator) finish(runID string, runErr error) {
	if o.journal == nil {
		return
	}
	if err := o.journal.FinishAwardRun(context.Background(), runID, runErr); err != nil {
		o.logger.Warn("finish award run", zap.String("run_id", runID), zap.Error(err))
	}
}
