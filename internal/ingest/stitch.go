// Package ingest prepares raw season data for serving: it stitches per-game
// home-plate umpire assignments onto pitch records and applies the standard
// regular-season, taken-pitch filters.
package ingest

import (
	"github.com/ubrstats/ubr/internal/domain/model"
)

// UmpireAssignment is one game's home-plate umpire, keyed by game_pk.
type UmpireAssignment struct {
	GamePK   int64  `json:"game_pk"`
	UmpireID int64  `json:"umpire_id"`
	Name     string `json:"name"`
}

// StitchUmpires joins umpire assignments onto pitches by game_pk. Pitches
// whose game has no assignment keep Umpire == 0; duplicate assignments for a
// game keep the last one seen.
func StitchUmpires(pitches []model.PitchEvent, assignments []UmpireAssignment) []model.PitchEvent {
	byGame := make(map[int64]int64, len(assignments))
	for _, a := range assignments {
		byGame[a.GamePK] = a.UmpireID
	}

	out := make([]model.PitchEvent, len(pitches))
	for i, p := range pitches {
		if id, ok := byGame[p.GamePK]; ok {
			p.Umpire = id
		}
		out[i] = p
	}
	return out
}

// FilterGameTypes keeps only pitches whose game_type is in the given set.
func FilterGameTypes(pitches []model.PitchEvent, gameTypes ...string) []model.PitchEvent {
	included := make(map[string]struct{}, len(gameTypes))
	for _, gt := range gameTypes {
		included[gt] = struct{}{}
	}
	out := make([]model.PitchEvent, 0, len(pitches))
	for _, p := range pitches {
		if _, ok := included[p.GameType]; ok {
			out = append(out, p)
		}
	}
	return out
}

// FilterTaken keeps only taken, called pitches with complete zone geometry.
// This is the standard precondition for borderline analysis.
func FilterTaken(pitches []model.PitchEvent) []model.PitchEvent {
	out := make([]model.PitchEvent, 0, len(pitches))
	for _, p := range pitches {
		if p.Taken() && p.HasGeometry() {
			out = append(out, p)
		}
	}
	return out
}

// PrepareSeason runs the full serving pipeline on raw season data: stitch
// umpires, keep regular-season games, then keep taken pitches with geometry.
func PrepareSeason(pitches []model.PitchEvent, assignments []UmpireAssignment) []model.PitchEvent {
	stitched := StitchUmpires(pitches, assignments)
	regular := FilterGameTypes(stitched, model.GameTypeRegular)
	return FilterTaken(regular)
}
