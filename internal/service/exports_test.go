package service

import (
	"bytes"
	"context"
	"errors"
	"image/png"
	"testing"

	"thermocycle"
	"thermocycle/internal/export"
	"thermocycle/internal/repository"
)

func TestExportService_Workbook(t *testing.T) {
	run := storedRun(t)
	repo := &fakeRunRepo{getResp: run}
	svc := NewExportService(repo, export.ChartConfig{})

	name, raw, err := svc.Workbook(context.Background(), run.ID)
	if err != nil {
		t.Fatalf("Workbook returned error: %v", err)
	}
	if name != "shock board A.xlsx" {
		t.Fatalf("expected file name %q, got %q", "shock board A.xlsx", name)
	}
	if !bytes.HasPrefix(raw, []byte("PK")) {
		t.Fatalf("expected xlsx (zip) bytes, got prefix %q", raw[:min(4, len(raw))])
	}
	if len(repo.getCalls) != 1 || repo.getCalls[0] != run.ID {
		t.Fatalf("expected one Get call for %s, got %v", run.ID, repo.getCalls)
	}
}

func TestExportService_Workbook_NotFound(t *testing.T) {
	repo := &fakeRunRepo{getErr: repository.ErrRunNotFound}
	svc := NewExportService(repo, export.ChartConfig{})

	_, _, err := svc.Workbook(context.Background(), "missing")
	if !errors.Is(err, ErrRunNotFound) {
		t.Fatalf("expected ErrRunNotFound, got: %v", err)
	}
}

func TestExportService_Chart(t *testing.T) {
	run := storedRun(t)
	repo := &fakeRunRepo{getResp: run}
	svc := NewExportService(repo, export.ChartConfig{Width: 800, Height: 600})

	name, raw, err := svc.Chart(context.Background(), run.ID)
	if err != nil {
		t.Fatalf("Chart returned error: %v", err)
	}
	if name != "shock board A.png" {
		t.Fatalf("expected file name %q, got %q", "shock board A.png", name)
	}

	cfg, err := png.DecodeConfig(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("rendered chart is not a PNG: %v", err)
	}
	if cfg.Width != 800 || cfg.Height != 600 {
		t.Fatalf("expected 800x600 image, got %dx%d", cfg.Width, cfg.Height)
	}
}

func TestExportService_Chart_EmptyProfile(t *testing.T) {
	repo := &fakeRunRepo{getResp: thermocycle.ProfileRun{ID: "run-8", Name: "empty"}}
	svc := NewExportService(repo, export.ChartConfig{})

	_, _, err := svc.Chart(context.Background(), "run-8")
	if err == nil {
		t.Fatalf("expected error for empty profile, got nil")
	}
	if !errors.Is(err, export.ErrNoSpan) {
		t.Fatalf("expected ErrNoSpan, got: %v", err)
	}
}
