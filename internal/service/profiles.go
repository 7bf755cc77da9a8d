package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"thermocycle"
	"thermocycle/internal/engine"
	"thermocycle/internal/export"
	"thermocycle/internal/repository"
)

// ErrRunNotFound mirrors the repository sentinel at the API boundary.
var ErrRunNotFound = repository.ErrRunNotFound

var errInvalidTimeRange = errors.New("invalid time range: From must be <= To")

// IsInvalidConfig reports whether err stems from rejected generation
// parameters rather than a storage failure. Lets the transport layer pick
// the right status code without knowing the engine's error set.
func IsInvalidConfig(err error) bool {
	var ce *engine.ComputationError
	return errors.Is(err, engine.ErrCycleCount) ||
		errors.Is(err, engine.ErrHeatRate) ||
		errors.Is(err, engine.ErrCoolRate) ||
		errors.As(err, &ce)
}

type ProfileService struct {
	runs repository.RunRepo
}

func NewProfileService(runs repository.RunRepo) *ProfileService {
	return &ProfileService{runs: runs}
}

// Generate simulates one schedule and persists the result. The run that
// comes back is exactly what later Get calls return.
func (s *ProfileService) Generate(ctx context.Context, p GenerateParams) (thermocycle.ProfileRun, error) {
	cfg := p.Config()
	profile, keys, err := engine.Simulate(cfg)
	if err != nil {
		return thermocycle.ProfileRun{}, err
	}

	run := thermocycle.ProfileRun{
		ID:         uuid.NewString(),
		Name:       export.SafeName(p.Name),
		CreatedAt:  time.Now().UTC(),
		Config:     cfg,
		Profile:    profile,
		KeyPoints:  keys,
		PointCount: len(profile),
		DurationH:  profile.DurationH(),
	}
	if err := s.runs.Insert(ctx, run); err != nil {
		return thermocycle.ProfileRun{}, fmt.Errorf("persist run: %w", err)
	}
	return run, nil
}

// Get returns a stored run by id.
func (s *ProfileService) Get(ctx context.Context, id string) (thermocycle.ProfileRun, error) {
	return s.runs.Get(ctx, id)
}

// normalizeToUTC returns t in UTC, preserving zero time values.
func normalizeToUTC(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return t.UTC()
}

// List returns run summaries, newest first.
func (s *ProfileService) List(ctx context.Context, f RunFilter) ([]thermocycle.RunSummary, error) {
	from := normalizeToUTC(f.From)
	to := normalizeToUTC(f.To)
	if !from.IsZero() && !to.IsZero() && from.After(to) {
		return nil, errInvalidTimeRange
	}
	limit := f.Limit
	if limit < 0 {
		limit = 0
	}
	return s.runs.List(ctx, from, to, limit)
}

// Annotations lays out the key-point labels for a stored run.
func (s *ProfileService) Annotations(ctx context.Context, id string) ([]thermocycle.LabelPlacement, error) {
	run, err := s.runs.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return engine.Layout(run.Profile, run.KeyPoints), nil
}
