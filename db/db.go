package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"procure/models"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Open connects to the local store. sqlite is the default single-user
// store; postgres lets several gateway instances share award journals.
func Open(ctx context.Context, driver, dsn string) (*sqlx.DB, error) {
	switch driver {
	case DriverSQLite, DriverPostgres:
	case "":
		driver = DriverSQLite
	default:
		return nil, fmt.Errorf("unsupported db driver %q", driver)
	}
	conn, err := sqlx.ConnectContext(ctx, driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", driver, err)
	}
	if driver == DriverSQLite {
		// sqlite allows a single writer
		conn.SetMaxOpenConns(1)
	}
	return conn, nil
}

type Storage struct {
	db  *sqlx.DB
	now func() time.Time
}

func NewStorage(db *sqlx.DB) *Storage {
	return &Storage{db: db, now: func() time.Time { return time.Now().UTC() }}
}

func (s *Storage) DB() *sqlx.DB { return s.db }

// Session (текущая сессия клиента)

const sessionSlot = "current"

type sessionRow struct {
	Slot     string    `db:"slot"`
	Token    string    `db:"token"`
	UserJSON string    `db:"user_json"`
	SavedAt  time.Time `db:"saved_at"`
}

func (s *Storage) SaveSession(ctx context.Context, id models.Identity) error {
	user, err := json.Marshal(id.User)
	if err != nil {
		return fmt.Errorf("encode session user: %w", err)
	}
	query := s.db.Rebind(`
        INSERT INTO client_session (slot, token, user_json, saved_at)
        VALUES (?, ?, ?, ?)
        ON CONFLICT (slot) DO UPDATE
        SET token = EXCLUDED.token, user_json = EXCLUDED.user_json, saved_at = EXCLUDED.saved_at`)
	_, err = s.db.ExecContext(ctx, query, sessionSlot, id.Token, string(user), s.now())
	return err
}

func (s *Storage) LoadSession(ctx context.Context) (*models.Identity, error) {
	var row sessionRow
	query := s.db.Rebind(`SELECT slot, token, user_json, saved_at FROM client_session WHERE slot = ?`)
	err := s.db.GetContext(ctx, &row, query, sessionSlot)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	id := &models.Identity{Token: row.Token}
	if err := json.Unmarshal([]byte(row.UserJSON), &id.User); err != nil {
		return nil, fmt.Errorf("decode session user: %w", err)
	}
	return id, nil
}

func (s *Storage) ClearSession(ctx context.Context) error {
	query := s.db.Rebind(`DELETE FROM client_session WHERE slot = ?`)
	_, err := s.db.ExecContext(ctx, query, sessionSlot)
	return err
}

// AwardRun (журнал присуждения)

const (
	RunPending   = "pending"
	RunCompleted = "completed"
	RunFailed    = "failed"
)

// AwardRun is one journaled award. Owner identifies the user who started
// it; runs are only visible to the same owner.
type AwardRun struct {
	ID             string    `db:"id" json:"id"`
	Owner          string    `db:"owner" json:"-"`
	RfqID          int       `db:"rfq_id" json:"rfqId"`
	WinningQuoteID int       `db:"winning_quote_id" json:"winningQuoteId"`
	Status         string    `db:"status" json:"status"`
	LastError      string    `db:"last_error" json:"lastError,omitempty"`
	CreatedAt      time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt      time.Time `db:"updated_at" json:"updatedAt"`
}

// AwardStep is one planned status change of an award run. Kind is "rfq"
// or "quote"; TargetStatus is the status being written.
type AwardStep struct {
	RunID        string     `db:"run_id" json:"runId"`
	Seq          int        `db:"seq" json:"seq"`
	Kind         string     `db:"kind" json:"kind"`
	TargetID     int        `db:"target_id" json:"targetId"`
	TargetStatus string     `db:"target_status" json:"targetStatus"`
	Amount       *float64   `db:"amount" json:"amount,omitempty"`
	DoneAt       *time.Time `db:"done_at" json:"doneAt,omitempty"`
}

func (s *Storage) CreateAwardRun(ctx context.Context, run *AwardRun, steps []AwardStep) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	now := s.now()
	run.Status = RunPending
	run.CreatedAt, run.UpdatedAt = now, now
	query := tx.Rebind(`
        INSERT INTO award_run (id, owner, rfq_id, winning_quote_id, status, last_error, created_at, updated_at)
        VALUES (?, ?, ?, ?, ?, '', ?, ?)`)
	if _, err := tx.ExecContext(ctx, query, run.ID, run.Owner, run.RfqID, run.WinningQuoteID, run.Status, now, now); err != nil {
		return err
	}

	stepQuery := tx.Rebind(`
        INSERT INTO award_step (run_id, seq, kind, target_id, target_status, amount)
        VALUES (?, ?, ?, ?, ?, ?)`)
	for i := range steps {
		steps[i].RunID = run.ID
		st := steps[i]
		if _, err := tx.ExecContext(ctx, stepQuery, st.RunID, st.Seq, st.Kind, st.TargetID, st.TargetStatus, st.Amount); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// GetAwardRun returns sql.ErrNoRows when the run does not exist or belongs
// to another owner.
func (s *Storage) GetAwardRun(ctx context.Context, owner, id string) (*AwardRun, error) {
	run := &AwardRun{}
	query := s.db.Rebind(`SELECT * FROM award_run WHERE id = ? AND owner = ?`)
	if err := s.db.GetContext(ctx, run, query, id, owner); err != nil {
		return nil, err
	}
	return run, nil
}

func (s *Storage) ListAwardSteps(ctx context.Context, runID string) ([]AwardStep, error) {
	steps := []AwardStep{}
	query := s.db.Rebind(`SELECT * FROM award_step WHERE run_id = ? ORDER BY seq ASC`)
	err := s.db.SelectContext(ctx, &steps, query, runID)
	return steps, err
}

func (s *Storage) MarkAwardStepDone(ctx context.Context, runID string, seq int) error {
	query := s.db.Rebind(`UPDATE award_step SET done_at = ? WHERE run_id = ? AND seq = ?`)
	_, err := s.db.ExecContext(ctx, query, s.now(), runID, seq)
	return err
}

func (s *Storage) FinishAwardRun(ctx context.Context, runID string, runErr error) error {
	status, msg := RunCompleted, ""
	if runErr != nil {
		status, msg = RunFailed, runErr.Error()
	}
	query := s.db.Rebind(`UPDATE award_run SET status = ?, last_error = ?, updated_at = ? WHERE id = ?`)
	_, err := s.db.ExecContext(ctx, query, status, msg, s.now(), runID)
	return err
}

func (s *Storage) ListAwardRuns(ctx context.Context, owner string, limit, offset int) ([]AwardRun, error) {
	runs := []AwardRun{}
	query := s.db.Rebind(`
        SELECT * FROM award_run
        WHERE owner = ?
        ORDER BY created_at DESC, id ASC
        LIMIT ? OFFSET ?`)
	err := s.db.SelectContext(ctx, &runs, query, owner, limit, offset)
	return runs, err
}
