package service

import (
	"context"
	"time"

	"thermocycle"
	"thermocycle/internal/export"
	"thermocycle/internal/repository"
)

type Authorization interface {
	SignUp(username, password string) (int, error)
	GenerateToken(username, password string) (string, error)
	ParseToken(accessToken string) (int, error)
}

// Profiles exposes profile generation and run history.
type Profiles interface {
	Generate(ctx context.Context, p GenerateParams) (thermocycle.ProfileRun, error)
	Get(ctx context.Context, id string) (thermocycle.ProfileRun, error)
	List(ctx context.Context, f RunFilter) ([]thermocycle.RunSummary, error)
	Annotations(ctx context.Context, id string) ([]thermocycle.LabelPlacement, error)
}

// Exports produces the downloadable artifacts for a stored run. Each call
// returns the file name to serve the bytes under.
type Exports interface {
	Workbook(ctx context.Context, id string) (string, []byte, error)
	Chart(ctx context.Context, id string) (string, []byte, error)
}

// Config carries the knobs services read from the config file.
type Config struct {
	SigningKey  string
	TokenTTL    time.Duration
	ChartWidth  int
	ChartHeight int
}

// Service aggregates all sub-services behind one injection point.
type Service struct {
	Profiles
	Exports
	Authorization
}

// NewService wires the repository layer into concrete services.
func NewService(repos *repository.Repository, cfg Config) *Service {
	chart := export.ChartConfig{Width: cfg.ChartWidth, Height: cfg.ChartHeight}
	return &Service{
		Profiles:      NewProfileService(repos.Runs),
		Exports:       NewExportService(repos.Runs, chart),
		Authorization: NewAuthService(repos.Auth, cfg.SigningKey, cfg.TokenTTL),
	}
}
