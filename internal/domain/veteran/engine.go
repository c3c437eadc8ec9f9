// Package veteran computes the 0-100 veteran presence score from a player's
// season-start snapshot.
package veteran

import (
	"fmt"
	"math"

	"github.com/ubrstats/ubr/internal/domain/model"
)

// weightSumTolerance bounds float drift when validating that weights sum to 1.
const weightSumTolerance = 1e-9

// Weights are the sub-score weights of the composite. They must sum to 1.0;
// Validate enforces this at construction or in tests, never per call.
type Weights struct {
	Tenure      float64 `koanf:"tenure"`
	Volume      float64 `koanf:"volume"`
	AllStar     float64 `koanf:"allstar"`
	Performance float64 `koanf:"performance"`
	Awards      float64 `koanf:"awards"`
}

// Caps saturate each raw signal before scaling to [0,1].
type Caps struct {
	YearsService float64 `koanf:"years_service"`
	PALogK       float64 `koanf:"pa_log_k"`
	AllStar      float64 `koanf:"allstar"`
	WAR          float64 `koanf:"war"`
	AwardPoints  float64 `koanf:"award_points"`
}

// AwardPoints are the per-award point values feeding the awards sub-score.
type AwardPoints struct {
	MVP           float64 `koanf:"mvp"`
	HankAaron     float64 `koanf:"hank_aaron"`
	SilverSlugger float64 `koanf:"silver_slugger"`
	GoldGlove     float64 `koanf:"gold_glove"`
	PlatinumGlove float64 `koanf:"platinum_glove"`
	AllMLBFirst   float64 `koanf:"allmlb_first"`
	AllMLBSecond  float64 `koanf:"allmlb_second"`
	ALRoty        float64 `koanf:"al_roty"`
	NLRoty        float64 `koanf:"nl_roty"`
	HRDerby       float64 `koanf:"hr_derby"`
}

// Config is the immutable scoring configuration. Passing it explicitly (rather
// than reading package globals) lets tests score with alternate weightings.
type Config struct {
	Weights     Weights     `koanf:"weights"`
	Caps        Caps        `koanf:"caps"`
	AwardPoints AwardPoints `koanf:"award_points"`
}

// DefaultConfig returns the production scoring configuration.
func DefaultConfig() Config {
	return Config{
		Weights: Weights{
			Tenure:      0.30,
			Volume:      0.20,
			AllStar:     0.12,
			Performance: 0.18,
			Awards:      0.20,
		},
		Caps: Caps{
			YearsService: 20.0,
			PALogK:       10000.0,
			AllStar:      10.0,
			WAR:          60.0,
			AwardPoints:  20.0,
		},
		AwardPoints: AwardPoints{
			MVP:           4.0,
			HankAaron:     2.5,
			SilverSlugger: 1.5,
			GoldGlove:     1.2,
			PlatinumGlove: 1.7,
			AllMLBFirst:   1.5,
			AllMLBSecond:  1.0,
			ALRoty:        1.2,
			NLRoty:        1.2,
			HRDerby:       0.5,
		},
	}
}

// Validate checks the configuration invariants: weights sum to 1.0 and every
// weight, cap, and point value is non-negative.
func (c Config) Validate() error {
	w := c.Weights
	for _, v := range []float64{w.Tenure, w.Volume, w.AllStar, w.Performance, w.Awards} {
		if v < 0 || math.IsNaN(v) {
			return fmt.Errorf("%w: negative or NaN weight", ErrInvalidConfig)
		}
	}
	sum := w.Tenure + w.Volume + w.AllStar + w.Performance + w.Awards
	if math.Abs(sum-1.0) > weightSumTolerance {
		return fmt.Errorf("%w: weights sum to %v, want 1.0", ErrInvalidConfig, sum)
	}
	caps := c.Caps
	for _, v := range []float64{caps.YearsService, caps.PALogK, caps.AllStar, caps.WAR, caps.AwardPoints} {
		if v <= 0 || math.IsNaN(v) {
			return fmt.Errorf("%w: caps must be positive", ErrInvalidConfig)
		}
	}
	return nil
}

// Engine scores snapshots. It is pure and stateless after construction; one
// Engine may score any number of snapshots concurrently.
type Engine struct {
	cfg Config
}

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithConfig replaces the default scoring configuration.
func WithConfig(cfg Config) Option {
	return func(e *Engine) {
		e.cfg = cfg
	}
}

// New creates an Engine. It returns an error if the effective configuration
// fails Validate, so a miswired weighting is caught at startup.
func New(opts ...Option) (*Engine, error) {
	e := &Engine{cfg: DefaultConfig()}
	for _, opt := range opts {
		opt(e)
	}
	if err := e.cfg.Validate(); err != nil {
		return nil, err
	}
	return e, nil
}

// Config returns the engine's scoring configuration.
func (e *Engine) Config() Config { return e.cfg }

// nz coerces a raw input to a usable non-negative float: NaN, Inf, or
// negative values become 0.0. Missing or junk historical fields degrade to
// neutral instead of poisoning downstream aggregates.
func nz(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0.0
	}
	return v
}

// scaleMinCap linearly scales v into [0,1], saturating at limit.
func scaleMinCap(v, limit float64) float64 {
	if limit <= 0 {
		return 0.0
	}
	if v > limit {
		v = limit
	}
	if v < 0 {
		v = 0
	}
	return v / limit
}

// scaleLogPA maps plate appearances through log1p(pa)/log1p(k), clamped to 1
// so careers past ~10k PA saturate rather than overflow the composite.
func scaleLogPA(pa, k float64) float64 {
	if k <= 0 {
		return 0.0
	}
	s := math.Log1p(math.Max(0, pa)) / math.Log1p(k)
	return math.Min(s, 1.0)
}

// awardPoints computes the weighted award total for a snapshot. Each count is
// normalized via nz before weighting.
func (e *Engine) awardPoints(s model.PlayerSeasonSnapshot) float64 {
	p := e.cfg.AwardPoints
	return p.MVP*nz(s.MVPsPrior) +
		p.HankAaron*nz(s.HankAaronAwardsPrior) +
		p.SilverSlugger*nz(s.SilverSluggersPrior) +
		p.GoldGlove*nz(s.GoldGlovesPrior) +
		p.PlatinumGlove*nz(s.PlatinumGlovesPrior) +
		p.AllMLBFirst*nz(s.AllMLBFirstTeamPrior) +
		p.AllMLBSecond*nz(s.AllMLBSecondTeamPrior) +
		p.ALRoty*nz(s.ALRotyPrior) +
		p.NLRoty*nz(s.NLRotyPrior) +
		p.HRDerby*nz(s.HRDerbyTitlesPrior)
}

// Score computes the veteran presence score in [0.0, 100.0], rounded to one
// decimal place. It is a total function: invalid inputs degrade to 0
// contributions, never to an error.
func (e *Engine) Score(s model.PlayerSeasonSnapshot) float64 {
	w, caps := e.cfg.Weights, e.cfg.Caps

	tenure := scaleMinCap(nz(s.YearsServicePrior), caps.YearsService)
	volume := scaleLogPA(nz(s.PACareerPrior), caps.PALogK)
	allstar := scaleMinCap(nz(s.AllStarPrior), caps.AllStar)
	war := scaleMinCap(nz(s.WARCareerPrior), caps.WAR)
	awards := scaleMinCap(e.awardPoints(s), caps.AwardPoints)

	score01 := w.Tenure*tenure +
		w.Volume*volume +
		w.AllStar*allstar +
		w.Performance*war +
		w.Awards*awards

	score01 = math.Min(math.Max(score01, 0.0), 1.0)
	return math.Round(100.0*score01*10) / 10
}
