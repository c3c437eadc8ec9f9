package veteran_test

import (
	"math"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/ubrstats/ubr/internal/domain/model"
	"github.com/ubrstats/ubr/internal/domain/veteran"
)

func mustEngine(t *testing.T, opts ...veteran.Option) *veteran.Engine {
	t.Helper()
	e, err := veteran.New(opts...)
	if err != nil {
		t.Fatalf("build engine: %v", err)
	}
	return e
}

func TestEngine_Score(t *testing.T) {
	Convey("Given an engine with the default configuration", t, func() {
		e := mustEngine(t)

		Convey("When scoring an empty snapshot", func() {
			Convey("Then the score is zero", func() {
				So(e.Score(model.PlayerSeasonSnapshot{}), ShouldEqual, 0.0)
			})
		})

		Convey("When scoring a snapshot at or above every cap", func() {
			snap := model.PlayerSeasonSnapshot{
				YearsServicePrior: 20,
				PACareerPrior:     10000,
				AllStarPrior:      10,
				WARCareerPrior:    60,
				MVPsPrior:         5, // 20 award points on its own
			}

			Convey("Then the score saturates at 100", func() {
				So(e.Score(snap), ShouldEqual, 100.0)
			})

			Convey("And going past the caps changes nothing", func() {
				snap.YearsServicePrior = 25
				snap.PACareerPrior = 14000
				snap.AllStarPrior = 14
				snap.WARCareerPrior = 90
				snap.GoldGlovesPrior = 8
				So(e.Score(snap), ShouldEqual, 100.0)
			})
		})

		Convey("When scoring a mid-career snapshot", func() {
			snap := model.PlayerSeasonSnapshot{
				YearsServicePrior: 10,
				PACareerPrior:     5000,
				AllStarPrior:      5,
				WARCareerPrior:    30,
				MVPsPrior:         1,
			}

			Convey("Then the sub-scores combine as expected", func() {
				// tenure 0.5, volume log1p(5000)/log1p(10000) ~ 0.92475,
				// allstar 0.5, war 0.5, awards 4/20 = 0.2:
				// 0.30*0.5 + 0.20*0.92475 + 0.12*0.5 + 0.18*0.5 + 0.20*0.2
				// = 0.52495 -> 52.5
				So(e.Score(snap), ShouldEqual, 52.5)
			})

			Convey("And scoring twice yields the identical float", func() {
				So(e.Score(snap), ShouldEqual, e.Score(snap))
			})
		})

		Convey("When inputs are NaN or negative", func() {
			snap := model.PlayerSeasonSnapshot{
				YearsServicePrior: math.NaN(),
				PACareerPrior:     -100,
				AllStarPrior:      math.NaN(),
				WARCareerPrior:    -12.5,
				MVPsPrior:         -3,
			}

			Convey("Then they degrade to zero contributions", func() {
				So(e.Score(snap), ShouldEqual, 0.0)
			})
		})

		Convey("When one input grows, holding the rest fixed", func() {
			base := model.PlayerSeasonSnapshot{
				YearsServicePrior:   5,
				PACareerPrior:       2000,
				AllStarPrior:        2,
				WARCareerPrior:      15,
				SilverSluggersPrior: 1,
			}
			baseScore := e.Score(base)

			Convey("Then the score never decreases", func() {
				bump := base
				bump.YearsServicePrior += 3
				So(e.Score(bump), ShouldBeGreaterThanOrEqualTo, baseScore)

				bump = base
				bump.PACareerPrior += 2500
				So(e.Score(bump), ShouldBeGreaterThanOrEqualTo, baseScore)

				bump = base
				bump.AllStarPrior += 2
				So(e.Score(bump), ShouldBeGreaterThanOrEqualTo, baseScore)

				bump = base
				bump.WARCareerPrior += 10
				So(e.Score(bump), ShouldBeGreaterThanOrEqualTo, baseScore)

				bump = base
				bump.MVPsPrior += 1
				bump.GoldGlovesPrior += 2
				So(e.Score(bump), ShouldBeGreaterThanOrEqualTo, baseScore)
			})
		})

		Convey("When only award counts are present", func() {
			snap := model.PlayerSeasonSnapshot{
				MVPsPrior:             1,   // 4.0
				HankAaronAwardsPrior:  1,   // 2.5
				SilverSluggersPrior:   2,   // 3.0
				GoldGlovesPrior:       1,   // 1.2
				PlatinumGlovesPrior:   1,   // 1.7
				AllMLBFirstTeamPrior:  1,   // 1.5
				AllMLBSecondTeamPrior: 1,   // 1.0
				ALRotyPrior:           1,   // 1.2
				HRDerbyTitlesPrior:    2,   // 1.0
			}

			Convey("Then the awards sub-score reflects the point table", func() {
				// 17.1 points / 20 cap * 0.20 weight = 0.171 -> 17.1
				So(e.Score(snap), ShouldEqual, 17.1)
			})
		})
	})
}

func TestEngine_Config(t *testing.T) {
	Convey("Given the default configuration", t, func() {
		cfg := veteran.DefaultConfig()

		Convey("Then it validates", func() {
			So(cfg.Validate(), ShouldBeNil)
		})

		Convey("Then the weights sum to one", func() {
			w := cfg.Weights
			sum := w.Tenure + w.Volume + w.AllStar + w.Performance + w.Awards
			So(sum, ShouldAlmostEqual, 1.0, 1e-12)
		})
	})

	Convey("Given a configuration whose weights do not sum to one", t, func() {
		cfg := veteran.DefaultConfig()
		cfg.Weights.Tenure = 0.5

		Convey("Then construction fails", func() {
			_, err := veteran.New(veteran.WithConfig(cfg))
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "invalid scoring config")
		})
	})

	Convey("Given a configuration with a non-positive cap", t, func() {
		cfg := veteran.DefaultConfig()
		cfg.Caps.WAR = 0

		Convey("Then construction fails", func() {
			_, err := veteran.New(veteran.WithConfig(cfg))
			So(err, ShouldNotBeNil)
		})
	})

	Convey("Given an alternate but valid weighting", t, func() {
		cfg := veteran.DefaultConfig()
		cfg.Weights = veteran.Weights{Tenure: 1.0}
		e := mustEngine(t, veteran.WithConfig(cfg))

		Convey("Then scoring uses it", func() {
			snap := model.PlayerSeasonSnapshot{YearsServicePrior: 10}
			So(e.Score(snap), ShouldEqual, 50.0)
		})
	})
}
