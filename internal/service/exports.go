package service

import (
	"context"
	"fmt"

	"thermocycle/internal/engine"
	"thermocycle/internal/export"
	"thermocycle/internal/repository"
)

type ExportService struct {
	runs  repository.RunRepo
	chart export.ChartConfig
}

func NewExportService(runs repository.RunRepo, chart export.ChartConfig) *ExportService {
	return &ExportService{runs: runs, chart: chart}
}

// Workbook builds the two-sheet XLSX for a stored run.
func (s *ExportService) Workbook(ctx context.Context, id string) (string, []byte, error) {
	run, err := s.runs.Get(ctx, id)
	if err != nil {
		return "", nil, err
	}
	raw, err := export.Workbook(run)
	if err != nil {
		return "", nil, fmt.Errorf("build workbook: %w", err)
	}
	return export.WorkbookFileName(run.Name), raw, nil
}

// Chart renders the annotated PNG for a stored run.
func (s *ExportService) Chart(ctx context.Context, id string) (string, []byte, error) {
	run, err := s.runs.Get(ctx, id)
	if err != nil {
		return "", nil, err
	}
	placements := engine.Layout(run.Profile, run.KeyPoints)
	raw, err := export.Render(run, placements, s.chart)
	if err != nil {
		return "", nil, fmt.Errorf("render chart: %w", err)
	}
	return export.ChartFileName(run.Name), raw, nil
}
