package handlers

import (
	"context"

	"procure/db"
	"procure/internal/award"
	"procure/internal/dashboard"
	"procure/models"
)

// StorageInterface is the award journal the gateway records runs in.
type StorageInterface interface {
	CreateAwardRun(ctx context.Context, run *db.AwardRun, steps []db.AwardStep) error
	GetAwardRun(ctx context.Context, owner, id string) (*db.AwardRun, error)
	ListAwardSteps(ctx context.Context, runID string) ([]db.AwardStep, error)
	MarkAwardStepDone(ctx context.Context, runID string, seq int) error
	FinishAwardRun(ctx context.Context, runID string, runErr error) error
	ListAwardRuns(ctx context.Context, owner string, limit, offset int) ([]db.AwardRun, error)
}

// Backend is the upstream API as seen by one authenticated request.
type Backend interface {
	dashboard.API
	award.API
	GetUser(ctx context.Context, id int) (*models.User, error)
}

// BackendFactory binds the upstream API to the caller's bearer token.
type BackendFactory func(token string) Backend
