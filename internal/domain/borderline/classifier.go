// Package borderline classifies taken pitches against the batter's strike
// zone and labels the ones close enough to an edge to be contested calls.
package borderline

import (
	"math"

	"github.com/ubrstats/ubr/internal/domain/model"
)

// Plate half-widths in feet. The plate is 17 inches across; including the
// ball's diameter widens the effective edge to roughly 0.83 ft per side.
const (
	HalfPlateWithBallFt = 0.83
	HalfPlateOnlyFt     = 17.0 / 24.0
)

// DefaultEdgeMarginFt is how close to an edge counts as borderline.
// Downstream sweeps commonly use 0.15-0.25.
const DefaultEdgeMarginFt = 0.20

// Classifier labels pitches as borderline. It is pure and stateless; a single
// Classifier may be shared across goroutines.
type Classifier struct {
	edgeMarginFt    float64
	halfPlateFt     float64
	includeBallDiam bool
}

// Option applies a configuration option to the Classifier.
type Option func(*Classifier)

// WithEdgeMargin sets how close to an edge (feet) counts as borderline.
// Non-positive values are ignored.
func WithEdgeMargin(ft float64) Option {
	return func(c *Classifier) {
		if ft > 0 {
			c.edgeMarginFt = ft
		}
	}
}

// WithBallDiameter toggles whether the ball's diameter extends the effective
// plate half-width.
func WithBallDiameter(include bool) Option {
	return func(c *Classifier) {
		c.includeBallDiam = include
	}
}

// New creates a Classifier with default tunables (0.20 ft margin, ball
// diameter included).
func New(opts ...Option) *Classifier {
	c := &Classifier{
		edgeMarginFt:    DefaultEdgeMarginFt,
		includeBallDiam: true,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.includeBallDiam {
		c.halfPlateFt = HalfPlateWithBallFt
	} else {
		c.halfPlateFt = HalfPlateOnlyFt
	}
	return c
}

// EdgeMargin returns the configured edge margin in feet.
func (c *Classifier) EdgeMargin() float64 { return c.edgeMarginFt }

// HalfPlate returns the effective plate half-width in feet.
func (c *Classifier) HalfPlate() float64 { return c.halfPlateFt }

// rule pairs a reason label with its geometric predicate. Rules are evaluated
// in a fixed order and the first match wins; a pitch near a corner can satisfy
// more than one predicate, so the order is a deliberate tie-break policy, not
// an accident of evaluation.
type rule struct {
	reason model.Reason
	match  func(c *Classifier, p model.PitchEvent) bool
}

var rules = []rule{
	{model.ReasonNearTop, (*Classifier).nearTop},
	{model.ReasonNearBot, (*Classifier).nearBot},
	{model.ReasonNearSide, (*Classifier).nearSide},
}

func (c *Classifier) insideHoriz(p model.PitchEvent) bool {
	return math.Abs(p.PlateX) <= c.halfPlateFt
}

func (c *Classifier) betweenVert(p model.PitchEvent) bool {
	return p.PlateZ >= p.SzBot && p.PlateZ <= p.SzTop
}

func (c *Classifier) nearTop(p model.PitchEvent) bool {
	return math.Abs(p.PlateZ-p.SzTop) <= c.edgeMarginFt && c.insideHoriz(p)
}

func (c *Classifier) nearBot(p model.PitchEvent) bool {
	return math.Abs(p.PlateZ-p.SzBot) <= c.edgeMarginFt && c.insideHoriz(p)
}

func (c *Classifier) nearSide(p model.PitchEvent) bool {
	return math.Abs(math.Abs(p.PlateX)-c.halfPlateFt) <= c.edgeMarginFt && c.betweenVert(p)
}

// Reason returns the borderline reason for a single pitch, or ReasonNone.
// Pitches with incomplete geometry always return ReasonNone.
func (c *Classifier) Reason(p model.PitchEvent) model.Reason {
	if !p.HasGeometry() {
		return model.ReasonNone
	}
	for _, r := range rules {
		if r.match(c, p) {
			return r.reason
		}
	}
	return model.ReasonNone
}

// Classify returns only the borderline pitches from the input, each annotated
// with the edge that triggered it. The caller is expected to have filtered to
// taken pitches already; residual rows with missing geometry are dropped
// silently rather than rejected.
//
// Zone geometry is applied as-is: an inverted zone (sz_top below sz_bot) is
// not an error, it just leaves no vertical band for the side predicate.
func (c *Classifier) Classify(pitches []model.PitchEvent) []model.BorderlineResult {
	out := make([]model.BorderlineResult, 0, len(pitches)/4)
	for _, p := range pitches {
		reason := c.Reason(p)
		if reason == model.ReasonNone {
			continue
		}
		out = append(out, model.BorderlineResult{PitchEvent: p, Reason: reason})
	}
	return out
}
