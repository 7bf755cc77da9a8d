package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"thermocycle"
)

// ErrRunNotFound is returned when a run id has no row.
var ErrRunNotFound = errors.New("run not found")

type Authorization interface {
	Create(username, hash string) (int, error)
	GetByUsername(username string) (*thermocycle.User, error)
}

type RunRepo interface {
	Insert(ctx context.Context, run thermocycle.ProfileRun) error
	Get(ctx context.Context, id string) (thermocycle.ProfileRun, error)
	List(ctx context.Context, from, to time.Time, limit int) ([]thermocycle.RunSummary, error)
}

type Repository struct {
	Runs RunRepo
	Auth Authorization
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		Runs: NewRunSQLite(db),
		Auth: NewUserRepository(db),
	}
}
