// Package model contains domain models passed between layers.
package model

import (
	"math"
	"time"
)

// Pitch type codes as recorded by Statcast.
const (
	PitchTypeBall         = "B"
	PitchTypeCalledStrike = "S"
	PitchTypeInPlay       = "X"
)

// Pitch outcome descriptions that mark a taken, called pitch.
const (
	DescBall         = "ball"
	DescBlockedBall  = "blocked_ball"
	DescCalledStrike = "called_strike"
)

// GameTypeNames maps Statcast game_type codes to readable names.
var GameTypeNames = map[string]string{
	"E": "Exhibition",
	"S": "Spring Training",
	"R": "Regular Season",
	"F": "Wild Card",
	"D": "Divisional Series",
	"L": "League Championship Series",
	"W": "World Series",
}

// GameTypeRegular is the game_type code for regular-season games.
const GameTypeRegular = "R"

// PitchEvent is one pitch as it crossed the plate. Plate coordinates are in
// feet: PlateX signed from the center of the plate, PlateZ absolute height.
// SzTop/SzBot are the batter-specific strike-zone bounds for this pitch.
// Missing numeric fields are NaN.
type PitchEvent struct {
	GamePK      int64     `json:"game_pk"`
	GameDate    time.Time `json:"game_date"`
	GameType    string    `json:"game_type"`
	Batter      int64     `json:"batter"`
	Pitcher     int64     `json:"pitcher"`
	Umpire      int64     `json:"umpire"`
	Type        string    `json:"type"`
	Description string    `json:"description"`
	PlateX      float64   `json:"plate_x"`
	PlateZ      float64   `json:"plate_z"`
	SzTop       float64   `json:"sz_top"`
	SzBot       float64   `json:"sz_bot"`
	// DeltaRunExp is run expectancy after the pitch minus before it.
	DeltaRunExp float64 `json:"delta_run_exp"`
}

// HasGeometry reports whether all four zone-geometry fields are present.
func (p PitchEvent) HasGeometry() bool {
	return !math.IsNaN(p.PlateX) && !math.IsNaN(p.PlateZ) &&
		!math.IsNaN(p.SzTop) && !math.IsNaN(p.SzBot)
}

// Taken reports whether the pitch was taken for a called ball or strike
// (no swing). Only taken pitches are candidates for borderline analysis.
func (p PitchEvent) Taken() bool {
	if p.Type != PitchTypeBall && p.Type != PitchTypeCalledStrike {
		return false
	}
	switch p.Description {
	case DescBall, DescBlockedBall, DescCalledStrike:
		return true
	}
	return false
}

// CalledStrike reports whether the umpire called this pitch a strike.
func (p PitchEvent) CalledStrike() bool {
	return p.Description == DescCalledStrike
}

// Reason identifies which edge of the zone made a pitch borderline.
type Reason string

// Borderline reasons in priority order.
const (
	ReasonNearTop  Reason = "near_top"
	ReasonNearBot  Reason = "near_bot"
	ReasonNearSide Reason = "near_side"
	ReasonNone     Reason = ""
)

// BorderlineResult is a pitch judged borderline, annotated with the edge
// that triggered it.
type BorderlineResult struct {
	PitchEvent
	Reason Reason `json:"borderline_reason"`
}
