// Package report aggregates borderline-call statistics for umpire/batter
// pairings.
package report

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/ubrstats/ubr/internal/domain/borderline"
	"github.com/ubrstats/ubr/internal/domain/model"
)

// Rounding precision for report figures, matching the serving layer.
const (
	csRateDecimals  = 3
	deltaREDecimals = 4
)

// Builder computes umpire-batter reports over pre-filtered taken pitches.
type Builder struct {
	classifier *borderline.Classifier
}

// NewBuilder creates a Builder using the given classifier for the borderline
// restriction.
func NewBuilder(c *borderline.Classifier) *Builder {
	return &Builder{classifier: c}
}

// Build restricts pitches to the (batter, umpire) pair, classifies the
// borderline subset, and summarizes it: sample count, called-strike rate, and
// mean delta run expectancy (missing values counted as 0). Rate fields are
// nil when no borderline samples exist.
func (b *Builder) Build(season int, batterID, umpireID int64, pitches []model.PitchEvent) model.UmpireBatterReport {
	rep := model.UmpireBatterReport{
		BatterID: batterID,
		UmpireID: umpireID,
		Season:   season,
	}

	sub := make([]model.PitchEvent, 0, len(pitches))
	for _, p := range pitches {
		if p.Batter == batterID && p.Umpire == umpireID {
			sub = append(sub, p)
		}
	}
	if len(sub) == 0 {
		return rep
	}

	results := b.classifier.Classify(sub)
	rep.Samples = len(results)
	if rep.Samples == 0 {
		return rep
	}

	calls := make([]float64, len(results))
	deltas := make([]float64, len(results))
	for i, r := range results {
		if r.CalledStrike() {
			calls[i] = 1
		}
		if !math.IsNaN(r.DeltaRunExp) {
			deltas[i] = r.DeltaRunExp
		}
	}

	csRate := roundTo(stat.Mean(calls, nil), csRateDecimals)
	dre := roundTo(stat.Mean(deltas, nil), deltaREDecimals)
	rep.BorderlineCSRate = &csRate
	rep.DeltaREBorderline = &dre
	return rep
}

func roundTo(v float64, decimals int) float64 {
	pow := math.Pow(10, float64(decimals))
	return math.Round(v*pow) / pow
}
