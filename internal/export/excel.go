package export

import (
	"fmt"
	"math"

	"github.com/xuri/excelize/v2"

	"thermocycle"
)

const (
	paramSheet   = "Parameters"
	profileSheet = "Profile"
)

// paramRow is one line of the Parameters sheet.
type paramRow struct {
	name  string
	value interface{}
	unit  string
}

// parameterRows flattens a config into the spreadsheet rows. Rates are shown
// in °C/min, the unit operators entered them in; floats are rounded to two
// decimals for display.
func parameterRows(cfg thermocycle.CycleConfig) []paramRow {
	return []paramRow{
		{"Initial temperature", round2(cfg.InitialTemp), "°C"},
		{"Initial hold time", round2(cfg.InitialTime), "h"},
		{"Recovery temperature", round2(cfg.RecoveryTemp), "°C"},
		{"Recovery hold time", round2(cfg.RecoveryTime), "h"},
		{"High temperature", round2(cfg.HighTemp), "°C"},
		{"High tolerance", round2(cfg.HighTolerance), "°C"},
		{"Low temperature", round2(cfg.LowTemp), "°C"},
		{"Low tolerance", round2(cfg.LowTolerance), "°C"},
		{"First cycle high hold", round2(cfg.FirstHighTime), "h"},
		{"First cycle low hold", round2(cfg.FirstLowTime), "h"},
		{"Last cycle high hold", round2(cfg.LastHighTime), "h"},
		{"Last cycle low hold", round2(cfg.LastLowTime), "h"},
		{"Middle cycle high hold", round2(cfg.MiddleHighTime), "h"},
		{"Middle cycle low hold", round2(cfg.MiddleLowTime), "h"},
		{"Heat rate", round2(thermocycle.RatePerHourToPerMin(cfg.HeatRate)), "°C/min"},
		{"Cool rate", round2(thermocycle.RatePerHourToPerMin(cfg.CoolRate)), "°C/min"},
		{"Cycles", cfg.Cycles, "count"},
	}
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }

// Workbook serializes a run as a two-sheet XLSX: the inputs that produced it
// and the full point table.
func Workbook(run thermocycle.ProfileRun) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := writeParameters(f, run.Config); err != nil {
		return nil, fmt.Errorf("parameters sheet: %w", err)
	}
	if err := writeProfile(f, run.Profile); err != nil {
		return nil, fmt.Errorf("profile sheet: %w", err)
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("serialize workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// writeHeader writes a bold first row.
func writeHeader(f *excelize.File, sheet string, titles ...string) error {
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	var last string
	for i, title := range titles {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, title); err != nil {
			return err
		}
		last = cell
	}
	return f.SetCellStyle(sheet, "A1", last, bold)
}

func writeParameters(f *excelize.File, cfg thermocycle.CycleConfig) error {
	// Rename the default sheet rather than deleting it later.
	if err := f.SetSheetName("Sheet1", paramSheet); err != nil {
		return err
	}
	if err := writeHeader(f, paramSheet, "Parameter", "Value", "Unit"); err != nil {
		return err
	}
	for i, row := range parameterRows(cfg) {
		r := i + 2
		if err := f.SetCellValue(paramSheet, fmt.Sprintf("A%d", r), row.name); err != nil {
			return err
		}
		if err := f.SetCellValue(paramSheet, fmt.Sprintf("B%d", r), row.value); err != nil {
			return err
		}
		if err := f.SetCellValue(paramSheet, fmt.Sprintf("C%d", r), row.unit); err != nil {
			return err
		}
	}
	return f.SetColWidth(paramSheet, "A", "A", 26)
}

func writeProfile(f *excelize.File, p thermocycle.Profile) error {
	if _, err := f.NewSheet(profileSheet); err != nil {
		return err
	}
	if err := writeHeader(f, profileSheet, "Time (h)", "Temperature (°C)", "Label"); err != nil {
		return err
	}
	for i, pt := range p {
		r := i + 2
		if err := f.SetCellValue(profileSheet, fmt.Sprintf("A%d", r), round2(pt.TimeH)); err != nil {
			return err
		}
		if err := f.SetCellValue(profileSheet, fmt.Sprintf("B%d", r), round2(pt.TempC)); err != nil {
			return err
		}
		if err := f.SetCellValue(profileSheet, fmt.Sprintf("C%d", r), pt.Label); err != nil {
			return err
		}
	}
	return f.SetColWidth(profileSheet, "C", "C", 28)
}
