package service

import (
	"time"

	"thermocycle"
)

// GenerateParams carries one generation request across the input boundary.
// Rates arrive in °C/min, the unit operators enter them in; Config converts
// to the canonical °C/h exactly once.
type GenerateParams struct {
	Name string

	InitialTemp  float64
	InitialTime  float64
	RecoveryTemp float64
	RecoveryTime float64

	HighTemp      float64
	HighTolerance float64
	LowTemp       float64
	LowTolerance  float64

	FirstHighTime  float64
	FirstLowTime   float64
	LastHighTime   float64
	LastLowTime    float64
	MiddleHighTime float64
	MiddleLowTime  float64

	HeatRatePerMin float64
	CoolRatePerMin float64

	Cycles int
}

// Config builds the canonical simulation config from the request.
func (p GenerateParams) Config() thermocycle.CycleConfig {
	return thermocycle.CycleConfig{
		InitialTemp:    p.InitialTemp,
		RecoveryTemp:   p.RecoveryTemp,
		HighTemp:       p.HighTemp,
		LowTemp:        p.LowTemp,
		HighTolerance:  p.HighTolerance,
		LowTolerance:   p.LowTolerance,
		InitialTime:    p.InitialTime,
		RecoveryTime:   p.RecoveryTime,
		FirstHighTime:  p.FirstHighTime,
		FirstLowTime:   p.FirstLowTime,
		LastHighTime:   p.LastHighTime,
		LastLowTime:    p.LastLowTime,
		MiddleHighTime: p.MiddleHighTime,
		MiddleLowTime:  p.MiddleLowTime,
		HeatRate:       thermocycle.RatePerMinToPerHour(p.HeatRatePerMin),
		CoolRate:       thermocycle.RatePerMinToPerHour(p.CoolRatePerMin),
		Cycles:         p.Cycles,
	}
}

// RunFilter narrows run history listings.
type RunFilter struct {
	From  time.Time // inclusive; zero means no lower bound
	To    time.Time // inclusive; zero means no upper bound
	Limit int       // max rows; 0 means no limit
}
