package thermocycle

import "time"

// MinutesPerHour is the factor between the two ramp-rate units: operators
// enter °C/min at the boundary, CycleConfig carries °C/h internally.
const MinutesPerHour = 60.0

// RatePerMinToPerHour converts a ramp rate from °C per minute to the
// canonical °C per hour carried by CycleConfig.
func RatePerMinToPerHour(r float64) float64 { return r * MinutesPerHour }

// RatePerHourToPerMin converts a canonical rate back to °C per minute for
// redisplay (forms, spreadsheets).
func RatePerHourToPerMin(r float64) float64 { return r / MinutesPerHour }

// CycleConfig is the full set of thermal-cycling parameters. All times are
// hours, temperatures °C, rates °C per hour. It is built once at the input
// boundary and never mutated.
type CycleConfig struct {
	InitialTemp  float64 `json:"initial_temp"`
	RecoveryTemp float64 `json:"recovery_temp"`
	HighTemp     float64 `json:"high_temp"`
	LowTemp      float64 `json:"low_temp"`

	// Tolerances are carried for reporting only; the simulator ignores them.
	HighTolerance float64 `json:"high_tolerance"`
	LowTolerance  float64 `json:"low_tolerance"`

	InitialTime  float64 `json:"initial_time"`
	RecoveryTime float64 `json:"recovery_time"`

	// Hold durations by cycle position. A single-cycle run uses the
	// first-cycle pair (first wins over last).
	FirstHighTime  float64 `json:"first_high_time"`
	FirstLowTime   float64 `json:"first_low_time"`
	LastHighTime   float64 `json:"last_high_time"`
	LastLowTime    float64 `json:"last_low_time"`
	MiddleHighTime float64 `json:"middle_high_time"`
	MiddleLowTime  float64 `json:"middle_low_time"`

	HeatRate float64 `json:"heat_rate"` // °C/h, must be > 0
	CoolRate float64 `json:"cool_rate"` // °C/h, must be > 0

	Cycles int `json:"cycles"` // must be >= 1
}

// ProfilePoint is one phase boundary on the time-temperature trajectory.
type ProfilePoint struct {
	TimeH float64 `json:"time_h"`
	TempC float64 `json:"temp_c"`
	Label string  `json:"label"`
}

// Profile is the ordered trajectory from initial soak through final
// recovery. Times never decrease; coincident times occur only for
// zero-duration holds.
type Profile []ProfilePoint

// Times returns the time column, for plotting.
func (p Profile) Times() []float64 {
	ts := make([]float64, len(p))
	for i, pt := range p {
		ts[i] = pt.TimeH
	}
	return ts
}

// Temps returns the temperature column, for plotting.
func (p Profile) Temps() []float64 {
	vs := make([]float64, len(p))
	for i, pt := range p {
		vs[i] = pt.TempC
	}
	return vs
}

// DurationH is the total schedule length: the time of the last point, or 0
// for an empty profile.
func (p Profile) DurationH() float64 {
	if len(p) == 0 {
		return 0
	}
	return p[len(p)-1].TimeH
}

// KeyPointSet holds indices into a Profile marking points that get chart
// annotations. Indices are appended in emission order; consumers collapse
// duplicates and sort before use.
type KeyPointSet []int

// LabelPlacement positions the two annotation labels for one key point.
// TimeLabelY is the y coordinate the time label row sits at; TempLabelX the
// x coordinate of the temperature label column. Tier 1 is the default inset,
// tier 2 the bumped fallback used when a neighbor is too close. Both labels
// are always placed; collisions only change the tier.
type LabelPlacement struct {
	TimeH float64 `json:"time_h"`
	TempC float64 `json:"temp_c"`

	TimeLabel string `json:"time_label"` // e.g. "3.42h"
	TempLabel string `json:"temp_label"` // e.g. "-20.0°C"

	TimeLabelY float64 `json:"time_label_y"`
	TempLabelX float64 `json:"temp_label_x"`

	TimeTier int `json:"time_tier"` // 1 or 2
	TempTier int `json:"temp_tier"` // 1 or 2
}

// ProfileRun is one persisted generation: the inputs and everything derived
// from them. Runs are immutable once stored.
type ProfileRun struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"` // sanitized export name
	CreatedAt time.Time   `json:"created_at"`
	Config    CycleConfig `json:"config"`
	Profile   Profile     `json:"profile"`
	KeyPoints KeyPointSet `json:"key_points"`

	PointCount int     `json:"point_count"`
	DurationH  float64 `json:"duration_h"`
}

// RunSummary is the listing row for run history.
type RunSummary struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	CreatedAt  time.Time `json:"created_at"`
	Cycles     int       `json:"cycles"`
	PointCount int       `json:"point_count"`
	DurationH  float64   `json:"duration_h"`
}

// User is an API account.
type User struct {
	ID           int    `json:"id"`
	Username     string `json:"username"`
	PasswordHash string `json:"-"` // don't expose hash
}
