package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"thermocycle"
	"thermocycle/internal/engine"
)

// testRun builds a persisted-run fixture from the reference 3-cycle schedule.
func testRun(t *testing.T) thermocycle.ProfileRun {
	t.Helper()

	cfg := thermocycle.CycleConfig{
		InitialTemp:    70,
		InitialTime:    0.5,
		RecoveryTemp:   40,
		RecoveryTime:   0.5,
		HighTemp:       100,
		HighTolerance:  2,
		LowTemp:        -20,
		LowTolerance:   2,
		FirstHighTime:  0.25,
		FirstLowTime:   2.0,
		LastHighTime:   0.25,
		LastLowTime:    2.0,
		MiddleHighTime: 1.0,
		MiddleLowTime:  1.0,
		HeatRate:       thermocycle.RatePerMinToPerHour(3.0),
		CoolRate:       thermocycle.RatePerMinToPerHour(4.0),
		Cycles:         3,
	}
	profile, keys, err := engine.Simulate(cfg)
	if err != nil {
		t.Fatalf("Simulate() error = %v", err)
	}
	return thermocycle.ProfileRun{
		ID:         "c2c1b9a2-0000-0000-0000-000000000000",
		Name:       "shock board A",
		CreatedAt:  time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		Config:     cfg,
		Profile:    profile,
		KeyPoints:  keys,
		PointCount: len(profile),
		DurationH:  profile.DurationH(),
	}
}

func TestWorkbook(t *testing.T) {
	t.Parallel()

	run := testRun(t)
	raw, err := Workbook(run)
	if err != nil {
		t.Fatalf("Workbook() error = %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("reopen workbook: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) != 2 || sheets[0] != "Parameters" || sheets[1] != "Profile" {
		t.Fatalf("sheets = %v, want [Parameters Profile]", sheets)
	}

	cell := func(sheet, ref string) string {
		v, err := f.GetCellValue(sheet, ref)
		if err != nil {
			t.Fatalf("GetCellValue(%s!%s): %v", sheet, ref, err)
		}
		return v
	}

	if got := cell("Parameters", "A1"); got != "Parameter" {
		t.Fatalf("Parameters!A1 = %q", got)
	}
	if got := cell("Parameters", "A2"); got != "Initial temperature" {
		t.Fatalf("Parameters!A2 = %q", got)
	}
	// Rates written back in the entry unit, not the canonical one.
	if got := cell("Parameters", "B16"); got != "3" {
		t.Fatalf("heat rate cell = %q, want 3 (°C/min)", got)
	}
	if got := cell("Parameters", "C16"); got != "°C/min" {
		t.Fatalf("heat rate unit = %q", got)
	}
	if got := cell("Parameters", "B18"); got != "3" {
		t.Fatalf("cycles cell = %q", got)
	}
	if got := cell("Parameters", "C18"); got != "count" {
		t.Fatalf("cycles unit = %q", got)
	}

	rows, err := f.GetRows("Profile")
	if err != nil {
		t.Fatalf("GetRows(Profile): %v", err)
	}
	if want := len(run.Profile) + 1; len(rows) != want {
		t.Fatalf("Profile rows = %d, want %d", len(rows), want)
	}
	if got := cell("Profile", "B1"); got != "Temperature (°C)" {
		t.Fatalf("Profile!B1 = %q", got)
	}
	if got := cell("Profile", "B2"); got != "70" {
		t.Fatalf("first temperature = %q", got)
	}
	// Third point is the first ramp arrival at 0.6667 h, rounded for display.
	if got := cell("Profile", "A4"); got != "0.67" {
		t.Fatalf("third time = %q, want 0.67", got)
	}
	if got := cell("Profile", "C4"); got != "first cycle high reached" {
		t.Fatalf("third label = %q", got)
	}
}

func TestWorkbook_HeaderIsBold(t *testing.T) {
	t.Parallel()

	raw, err := Workbook(testRun(t))
	if err != nil {
		t.Fatalf("Workbook() error = %v", err)
	}
	f, err := excelize.OpenReader(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("reopen workbook: %v", err)
	}
	defer f.Close()

	for _, sheet := range []string{"Parameters", "Profile"} {
		styleID, err := f.GetCellStyle(sheet, "A1")
		if err != nil {
			t.Fatalf("GetCellStyle(%s!A1): %v", sheet, err)
		}
		style, err := f.GetStyle(styleID)
		if err != nil {
			t.Fatalf("GetStyle(%d): %v", styleID, err)
		}
		if style.Font == nil || !style.Font.Bold {
			t.Fatalf("%s header is not bold", sheet)
		}
	}
}
