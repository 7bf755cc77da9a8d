package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"thermocycle"
	"thermocycle/internal/engine"
	"thermocycle/internal/export"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

const (
	dataSubdir  = "data"
	chartSubdir = "charts"
)

// genOptions holds everything the generate run needs. Defaults mirror the
// values preloaded into the web form.
type genOptions struct {
	name string

	initialTemp float64
	initialTime float64

	recoveryTemp float64
	recoveryTime float64

	highTemp float64
	highTol  float64
	lowTemp  float64
	lowTol   float64

	firstHigh  float64
	firstLow   float64
	lastHigh   float64
	lastLow    float64
	middleHigh float64
	middleLow  float64

	heatRatePerMin float64
	coolRatePerMin float64

	cycles int

	outDir      string
	chartWidth  int
	chartHeight int
	interactive bool
}

func defaultOptions() genOptions {
	return genOptions{
		name:           "temp_profile",
		initialTemp:    70.0,
		initialTime:    0.5,
		recoveryTemp:   40.0,
		recoveryTime:   0.5,
		highTemp:       100.0,
		highTol:        2.0,
		lowTemp:        -20.0,
		lowTol:         2.0,
		firstHigh:      0.25,
		firstLow:       2.0,
		lastHigh:       0.25,
		lastLow:        2.0,
		middleHigh:     1.0,
		middleLow:      1.0,
		heatRatePerMin: 3.0,
		coolRatePerMin: 4.0,
		cycles:         3,
		outDir:         ".",
	}
}

func (o *genOptions) config() thermocycle.CycleConfig {
	return thermocycle.CycleConfig{
		InitialTemp:    o.initialTemp,
		RecoveryTemp:   o.recoveryTemp,
		HighTemp:       o.highTemp,
		LowTemp:        o.lowTemp,
		HighTolerance:  o.highTol,
		LowTolerance:   o.lowTol,
		InitialTime:    o.initialTime,
		RecoveryTime:   o.recoveryTime,
		FirstHighTime:  o.firstHigh,
		FirstLowTime:   o.firstLow,
		LastHighTime:   o.lastHigh,
		LastLowTime:    o.lastLow,
		MiddleHighTime: o.middleHigh,
		MiddleLowTime:  o.middleLow,
		HeatRate:       thermocycle.RatePerMinToPerHour(o.heatRatePerMin),
		CoolRate:       thermocycle.RatePerMinToPerHour(o.coolRatePerMin),
		Cycles:         o.cycles,
	}
}

func newRootCmd() *cobra.Command {
	opts := defaultOptions()

	cmd := &cobra.Command{
		Use:   "profilegen",
		Short: "Generate a thermal cycling profile workbook and chart",
		Long: `profilegen simulates a thermal cycling schedule from its parameters and
writes two artifacts under the output directory: data/<name>.xlsx with the
parameter sheet and full point table, and charts/<name>.png with the
annotated trajectory.

Rates are entered in °C per minute; times in hours; temperatures in °C.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.interactive {
				opts.promptAll(cmd.InOrStdin(), cmd.OutOrStdout())
			}
			return runGenerate(cmd, opts)
		},
	}

	fs := cmd.Flags()
	fs.StringVar(&opts.name, "name", opts.name, "export name; unsafe filename characters are stripped")
	fs.Float64Var(&opts.initialTemp, "initial-temp", opts.initialTemp, "starting soak temperature in °C")
	fs.Float64Var(&opts.initialTime, "initial-time", opts.initialTime, "starting soak duration in hours")
	fs.Float64Var(&opts.recoveryTemp, "recovery-temp", opts.recoveryTemp, "final recovery temperature in °C")
	fs.Float64Var(&opts.recoveryTime, "recovery-time", opts.recoveryTime, "final recovery hold in hours")
	fs.Float64Var(&opts.highTemp, "high-temp", opts.highTemp, "hot extreme in °C")
	fs.Float64Var(&opts.highTol, "high-tol", opts.highTol, "reporting tolerance around the hot extreme in °C")
	fs.Float64Var(&opts.lowTemp, "low-temp", opts.lowTemp, "cold extreme in °C")
	fs.Float64Var(&opts.lowTol, "low-tol", opts.lowTol, "reporting tolerance around the cold extreme in °C")
	fs.Float64Var(&opts.firstHigh, "first-high", opts.firstHigh, "first-cycle hold at the hot extreme in hours")
	fs.Float64Var(&opts.firstLow, "first-low", opts.firstLow, "first-cycle hold at the cold extreme in hours")
	fs.Float64Var(&opts.lastHigh, "last-high", opts.lastHigh, "last-cycle hold at the hot extreme in hours")
	fs.Float64Var(&opts.lastLow, "last-low", opts.lastLow, "last-cycle hold at the cold extreme in hours")
	fs.Float64Var(&opts.middleHigh, "middle-high", opts.middleHigh, "middle-cycle hold at the hot extreme in hours")
	fs.Float64Var(&opts.middleLow, "middle-low", opts.middleLow, "middle-cycle hold at the cold extreme in hours")
	fs.Float64Var(&opts.heatRatePerMin, "heat-rate", opts.heatRatePerMin, "heating rate in °C per minute")
	fs.Float64Var(&opts.coolRatePerMin, "cool-rate", opts.coolRatePerMin, "cooling rate in °C per minute")
	fs.IntVar(&opts.cycles, "cycles", opts.cycles, "number of cycles")
	fs.StringVarP(&opts.outDir, "out", "o", opts.outDir, "output directory root")
	fs.IntVar(&opts.chartWidth, "width", opts.chartWidth, "chart width in pixels (0 uses the renderer default)")
	fs.IntVar(&opts.chartHeight, "height", opts.chartHeight, "chart height in pixels (0 uses the renderer default)")
	fs.BoolVarP(&opts.interactive, "interactive", "i", false, "prompt for every parameter, one value per line")

	return cmd
}

func runGenerate(cmd *cobra.Command, opts genOptions) error {
	cfg := opts.config()
	profile, keys, err := engine.Simulate(cfg)
	if err != nil {
		return err
	}

	run := thermocycle.ProfileRun{
		ID:         uuid.NewString(),
		Name:       export.SafeName(opts.name),
		CreatedAt:  time.Now().UTC(),
		Config:     cfg,
		Profile:    profile,
		KeyPoints:  keys,
		PointCount: len(profile),
		DurationH:  profile.DurationH(),
	}

	wb, err := export.Workbook(run)
	if err != nil {
		return fmt.Errorf("build workbook: %w", err)
	}
	png, err := export.Render(run, engine.Layout(run.Profile, run.KeyPoints), export.ChartConfig{
		Width:  opts.chartWidth,
		Height: opts.chartHeight,
	})
	if err != nil {
		return fmt.Errorf("render chart: %w", err)
	}

	wbPath := filepath.Join(opts.outDir, dataSubdir, export.WorkbookFileName(run.Name))
	pngPath := filepath.Join(opts.outDir, chartSubdir, export.ChartFileName(run.Name))
	if err := writeArtifact(wbPath, wb); err != nil {
		return err
	}
	if err := writeArtifact(pngPath, png); err != nil {
		return err
	}

	cmd.Printf("generated %d points over %.2fh\n", run.PointCount, run.DurationH)
	cmd.Printf("workbook: %s\n", wbPath)
	cmd.Printf("chart:    %s\n", pngPath)
	return nil
}

// writeArtifact creates the parent directory on demand before writing.
func writeArtifact(path string, raw []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create %s: %w", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// promptAll walks every parameter in sheet order. An empty line keeps the
// default shown in brackets.
func (o *genOptions) promptAll(in io.Reader, out io.Writer) {
	sc := bufio.NewScanner(in)
	o.name = promptString(sc, out, "profile name", o.name)
	o.initialTemp = promptFloat(sc, out, "initial temperature (°C)", o.initialTemp)
	o.initialTime = promptFloat(sc, out, "initial hold (h)", o.initialTime)
	o.recoveryTemp = promptFloat(sc, out, "recovery temperature (°C)", o.recoveryTemp)
	o.recoveryTime = promptFloat(sc, out, "recovery hold (h)", o.recoveryTime)
	o.highTemp = promptFloat(sc, out, "high temperature (°C)", o.highTemp)
	o.highTol = promptFloat(sc, out, "high tolerance (°C)", o.highTol)
	o.lowTemp = promptFloat(sc, out, "low temperature (°C)", o.lowTemp)
	o.lowTol = promptFloat(sc, out, "low tolerance (°C)", o.lowTol)
	o.firstHigh = promptFloat(sc, out, "first cycle high hold (h)", o.firstHigh)
	o.firstLow = promptFloat(sc, out, "first cycle low hold (h)", o.firstLow)
	o.lastHigh = promptFloat(sc, out, "last cycle high hold (h)", o.lastHigh)
	o.lastLow = promptFloat(sc, out, "last cycle low hold (h)", o.lastLow)
	o.middleHigh = promptFloat(sc, out, "middle cycle high hold (h)", o.middleHigh)
	o.middleLow = promptFloat(sc, out, "middle cycle low hold (h)", o.middleLow)
	o.heatRatePerMin = promptFloat(sc, out, "heating rate (°C/min)", o.heatRatePerMin)
	o.coolRatePerMin = promptFloat(sc, out, "cooling rate (°C/min)", o.coolRatePerMin)
	o.cycles = promptInt(sc, out, "cycles", o.cycles)
}

func promptString(sc *bufio.Scanner, out io.Writer, label, def string) string {
	fmt.Fprintf(out, "%s [%s]: ", label, def)
	if !sc.Scan() {
		return def
	}
	line := strings.TrimSpace(sc.Text())
	if line == "" {
		return def
	}
	return line
}

func promptFloat(sc *bufio.Scanner, out io.Writer, label string, def float64) float64 {
	for {
		fmt.Fprintf(out, "%s [%g]: ", label, def)
		if !sc.Scan() {
			return def
		}
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			return def
		}
		v, err := strconv.ParseFloat(line, 64)
		if err == nil {
			return v
		}
		fmt.Fprintf(out, "not a number: %q\n", line)
	}
}

func promptInt(sc *bufio.Scanner, out io.Writer, label string, def int) int {
	for {
		fmt.Fprintf(out, "%s [%d]: ", label, def)
		if !sc.Scan() {
			return def
		}
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			return def
		}
		v, err := strconv.Atoi(line)
		if err == nil {
			return v
		}
		fmt.Fprintf(out, "not an integer: %q\n", line)
	}
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
