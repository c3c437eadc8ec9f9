package report_test

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/ubrstats/ubr/internal/domain/borderline"
	"github.com/ubrstats/ubr/internal/domain/model"
	"github.com/ubrstats/ubr/internal/domain/report"
)

func pitch(batter, umpire int64, desc string, px, pz, dre float64) model.PitchEvent {
	typ := model.PitchTypeBall
	if desc == model.DescCalledStrike {
		typ = model.PitchTypeCalledStrike
	}
	return model.PitchEvent{
		Batter:      batter,
		Umpire:      umpire,
		Type:        typ,
		Description: desc,
		PlateX:      px,
		PlateZ:      pz,
		SzTop:       3.5,
		SzBot:       1.5,
		DeltaRunExp: dre,
	}
}

func TestBuilder_Build(t *testing.T) {
	Convey("Given taken pitches for several batter/umpire pairs", t, func() {
		builder := report.NewBuilder(borderline.New())
		pitches := []model.PitchEvent{
			// Pair (100, 7): two borderline top-edge calls, one ball down
			// the middle that is not borderline.
			pitch(100, 7, model.DescCalledStrike, 0, 3.5, -0.05),
			pitch(100, 7, model.DescBall, 0, 3.45, 0.03),
			pitch(100, 7, model.DescBall, 0, 2.5, 0.02),
			// Other pairs must not leak into the report.
			pitch(100, 9, model.DescCalledStrike, 0, 3.5, -0.10),
			pitch(200, 7, model.DescCalledStrike, 0, 3.5, -0.10),
		}

		Convey("When building the report for pair (100, 7)", func() {
			rep := builder.Build(2024, 100, 7, pitches)

			Convey("Then only the pair's borderline pitches are counted", func() {
				So(rep.Samples, ShouldEqual, 2)
			})

			Convey("Then the called-strike rate covers the borderline subset", func() {
				So(rep.BorderlineCSRate, ShouldNotBeNil)
				So(*rep.BorderlineCSRate, ShouldEqual, 0.5)
			})

			Convey("Then delta run expectancy is averaged and rounded", func() {
				So(rep.DeltaREBorderline, ShouldNotBeNil)
				So(*rep.DeltaREBorderline, ShouldEqual, -0.01)
			})
		})

		Convey("When the pair has no pitches at all", func() {
			rep := builder.Build(2024, 999, 7, pitches)

			Convey("Then the report is empty with nil rates", func() {
				So(rep.Samples, ShouldEqual, 0)
				So(rep.BorderlineCSRate, ShouldBeNil)
				So(rep.DeltaREBorderline, ShouldBeNil)
			})
		})

		Convey("When the pair has pitches but none borderline", func() {
			middle := []model.PitchEvent{pitch(100, 7, model.DescBall, 0, 2.5, 0.02)}
			rep := builder.Build(2024, 100, 7, middle)

			Convey("Then samples are zero and rates stay nil", func() {
				So(rep.Samples, ShouldEqual, 0)
				So(rep.BorderlineCSRate, ShouldBeNil)
			})
		})
	})
}
