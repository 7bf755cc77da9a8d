package engine

import (
	"errors"
	"fmt"
	"math"

	"thermocycle"
)

// Configuration guards. Simulation refuses to start on any of these, so a
// caller never sees a partially built profile.
var (
	ErrCycleCount = errors.New("cycles must be at least 1")
	ErrHeatRate   = errors.New("heat rate must be positive")
	ErrCoolRate   = errors.New("cool rate must be positive")
)

var errNonFiniteRamp = errors.New("non-finite ramp duration")

// ComputationError reports a non-finite intermediate during the phase walk,
// carrying the phase that produced it. Unreachable for validated input.
type ComputationError struct {
	Phase string
	Err   error
}

func (e *ComputationError) Error() string {
	return fmt.Sprintf("phase %q: %v", e.Phase, e.Err)
}

func (e *ComputationError) Unwrap() error { return e.Err }

type phaseKind uint8

const (
	rampKind phaseKind = iota
	holdKind
)

// phase is one segment of the schedule: a ramp toward a target temperature
// at the config's heat or cool rate, or a hold at the current temperature.
// Each non-degenerate phase emits exactly one profile point when it ends.
type phase struct {
	kind      phaseKind
	targetC   float64 // rampKind only
	durationH float64 // holdKind only
	label     string  // label of the emitted point
}

func ramp(targetC float64, label string) phase {
	return phase{kind: rampKind, targetC: targetC, label: label}
}

func hold(durationH float64, label string) phase {
	return phase{kind: holdKind, durationH: durationH, label: label}
}

// degenerate reports whether the phase emits nothing: a ramp whose target
// equals the current temperature exactly. Holds are never degenerate; a
// zero-duration hold still emits a coincident-time point.
func (ph phase) degenerate(currentTempC float64) bool {
	return ph.kind == rampKind && ph.targetC == currentTempC
}

// cycleHold picks the hold durations and label prefix for a cycle by its
// position. First is checked before last, so a single-cycle run always uses
// the first-cycle durations and labels.
func cycleHold(cfg thermocycle.CycleConfig, cycle int) (highH, lowH float64, slot string) {
	switch {
	case cycle == 0:
		return cfg.FirstHighTime, cfg.FirstLowTime, "first cycle"
	case cycle == cfg.Cycles-1:
		return cfg.LastHighTime, cfg.LastLowTime, "last cycle"
	default:
		return cfg.MiddleHighTime, cfg.MiddleLowTime, fmt.Sprintf("middle cycle %d", cycle)
	}
}

// plan expands the config into the ordered phase list that follows the seed
// point: initial hold, then per cycle a ramp/hold at high plus, on every
// cycle but the final one, a ramp/hold at low, then the recovery ramp and
// hold.
func plan(cfg thermocycle.CycleConfig) []phase {
	phases := make([]phase, 0, 3+cfg.Cycles*4)
	phases = append(phases, hold(cfg.InitialTime, "initial hold end"))
	for cycle := 0; cycle < cfg.Cycles; cycle++ {
		highH, lowH, slot := cycleHold(cfg, cycle)
		phases = append(phases,
			ramp(cfg.HighTemp, slot+" high reached"),
			hold(highH, slot+" high end"),
		)
		if cycle < cfg.Cycles-1 {
			phases = append(phases,
				ramp(cfg.LowTemp, slot+" low reached"),
				hold(lowH, slot+" low end"),
			)
		}
	}
	return append(phases,
		ramp(cfg.RecoveryTemp, "recovery reached"),
		hold(cfg.RecoveryTime, "recovery end"),
	)
}

// cursor is the running clock and temperature threaded through the fold.
type cursor struct {
	timeH float64
	tempC float64
}

// advance applies the phase to the cursor and returns the emitted point.
// ok is false for degenerate ramps, which advance nothing and emit nothing.
func (ph phase) advance(cur *cursor, cfg thermocycle.CycleConfig) (pt thermocycle.ProfilePoint, ok bool, err error) {
	switch ph.kind {
	case rampKind:
		if ph.degenerate(cur.tempC) {
			return thermocycle.ProfilePoint{}, false, nil
		}
		rate := cfg.HeatRate
		if ph.targetC < cur.tempC {
			rate = cfg.CoolRate
		}
		dt := math.Abs(ph.targetC-cur.tempC) / rate
		if math.IsNaN(dt) || math.IsInf(dt, 0) {
			return thermocycle.ProfilePoint{}, false, &ComputationError{Phase: ph.label, Err: errNonFiniteRamp}
		}
		cur.timeH += dt
		cur.tempC = ph.targetC
	case holdKind:
		cur.timeH += ph.durationH
	}
	return thermocycle.ProfilePoint{TimeH: cur.timeH, TempC: cur.tempC, Label: ph.label}, true, nil
}

// Validate checks the guards that keep the walk total: at least one cycle
// and strictly positive rates (a zero rate would divide by zero).
func Validate(cfg thermocycle.CycleConfig) error {
	if cfg.Cycles < 1 {
		return fmt.Errorf("%w: got %d", ErrCycleCount, cfg.Cycles)
	}
	if cfg.HeatRate <= 0 {
		return fmt.Errorf("%w: got %g °C/h", ErrHeatRate, cfg.HeatRate)
	}
	if cfg.CoolRate <= 0 {
		return fmt.Errorf("%w: got %g °C/h", ErrCoolRate, cfg.CoolRate)
	}
	return nil
}

// Simulate converts cycle parameters into the ordered time-temperature
// trajectory and the key-point indices worth annotating. Every emitted
// point is a phase boundary and every phase boundary is a key point.
// The walk is deterministic: identical configs produce identical output.
func Simulate(cfg thermocycle.CycleConfig) (thermocycle.Profile, thermocycle.KeyPointSet, error) {
	if err := Validate(cfg); err != nil {
		return nil, nil, err
	}

	phases := plan(cfg)
	profile := make(thermocycle.Profile, 0, len(phases)+1)
	keys := make(thermocycle.KeyPointSet, 0, len(phases)+1)

	profile = append(profile, thermocycle.ProfilePoint{TimeH: 0, TempC: cfg.InitialTemp, Label: "initial hold start"})
	keys = append(keys, 0)

	cur := cursor{timeH: 0, tempC: cfg.InitialTemp}
	for _, ph := range phases {
		pt, ok, err := ph.advance(&cur, cfg)
		if err != nil {
			return nil, nil, err
		}
		if !ok {
			continue
		}
		profile = append(profile, pt)
		keys = append(keys, len(profile)-1)
	}
	return profile, keys, nil
}
