package service_test

import (
	"context"
	"os"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	service "github.com/ubrstats/ubr/internal/app"
	"github.com/ubrstats/ubr/internal/config"
	"github.com/ubrstats/ubr/internal/domain/model"
	"github.com/ubrstats/ubr/internal/ingest"
	"github.com/ubrstats/ubr/pkg/logger"
)

func TestMain(m *testing.M) {
	if err := logger.Init(); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

func pitch(gamePK, batter int64, desc string, px, pz, dre float64) model.PitchEvent {
	typ := model.PitchTypeBall
	if desc == model.DescCalledStrike {
		typ = model.PitchTypeCalledStrike
	}
	return model.PitchEvent{
		GamePK:      gamePK,
		GameType:    model.GameTypeRegular,
		Batter:      batter,
		Type:        typ,
		Description: desc,
		PlateX:      px,
		PlateZ:      pz,
		SzTop:       3.5,
		SzBot:       1.5,
		DeltaRunExp: dre,
	}
}

func startService(t *testing.T, opts ...service.Option) *service.Service {
	t.Helper()
	svc := service.New(opts...)
	if err := svc.Start(context.Background()); err != nil {
		t.Fatalf("start service: %v", err)
	}
	t.Cleanup(svc.Stop)
	return svc
}

func loadFixture(t *testing.T, svc *service.Service) {
	t.Helper()
	raw := []model.PitchEvent{
		pitch(1001, 100, model.DescCalledStrike, 0, 3.5, -0.05),
		pitch(1001, 100, model.DescBall, 0, 3.45, 0.03),
		pitch(1001, 100, model.DescBall, 0, 2.5, 0.02),
		pitch(1001, 200, model.DescBall, 0.9, 2.5, 0.01),
	}
	spring := pitch(1001, 100, model.DescCalledStrike, 0, 3.5, -0.05)
	spring.GameType = "S"
	raw = append(raw, spring)

	assignments := []ingest.UmpireAssignment{{GamePK: 1001, UmpireID: 7, Name: "Home Plate"}}
	snaps := []model.PlayerSeasonSnapshot{
		{BatterID: 100, FullName: "Mid Career", Season: 2024,
			YearsServicePrior: 10, PACareerPrior: 5000, AllStarPrior: 5,
			WARCareerPrior: 30, MVPsPrior: 1},
		{BatterID: 200, FullName: "Rookie", Season: 2024},
	}
	if err := svc.LoadSeason(context.Background(), 2024, raw, assignments, snaps); err != nil {
		t.Fatalf("load season: %v", err)
	}
}

func TestService_VeteranPresence(t *testing.T) {
	ctx := context.Background()

	Convey("Given a started service with a loaded season", t, func() {
		svc := startService(t)
		loadFixture(t, svc)

		Convey("When listing veteran presence for the season", func() {
			entries, err := svc.VeteranPresenceAll(ctx, 2024)

			Convey("Then every snapshot is scored", func() {
				So(err, ShouldBeNil)
				So(entries, ShouldHaveLength, 2)
				So(entries[0].BatterID, ShouldEqual, 100)
				So(entries[0].VP, ShouldEqual, 52.5)
				So(entries[1].VP, ShouldEqual, 0.0)
			})
		})

		Convey("When the season is omitted", func() {
			entries, err := svc.VeteranPresenceAll(ctx, 0)

			Convey("Then the latest loaded season is served", func() {
				So(err, ShouldBeNil)
				So(entries[0].Season, ShouldEqual, 2024)
			})
		})

		Convey("When fetching one batter", func() {
			entry, err := svc.VeteranPresence(ctx, 2024, 100)

			Convey("Then the score matches the listing", func() {
				So(err, ShouldBeNil)
				So(entry.FullName, ShouldEqual, "Mid Career")
				So(entry.VP, ShouldEqual, 52.5)
			})
		})

		Convey("When the batter has no snapshot", func() {
			_, err := svc.VeteranPresence(ctx, 2024, 999)

			Convey("Then the error maps to not found", func() {
				So(err, ShouldNotBeNil)
				So(service.IsNotFound(err), ShouldBeTrue)
			})
		})

		Convey("When the season was never loaded", func() {
			_, err := svc.VeteranPresenceAll(ctx, 2019)

			Convey("Then the error maps to not found", func() {
				So(err, ShouldNotBeNil)
				So(service.IsNotFound(err), ShouldBeTrue)
			})
		})
	})

	Convey("Given a service with nothing loaded", t, func() {
		svc := startService(t)

		Convey("When the season is omitted", func() {
			_, err := svc.VeteranPresenceAll(ctx, 0)

			Convey("Then there is no season to fall back to", func() {
				So(err, ShouldNotBeNil)
				So(service.IsNotFound(err), ShouldBeTrue)
			})
		})
	})
}

func TestService_UmpireBatterReport(t *testing.T) {
	ctx := context.Background()

	Convey("Given a started service with a loaded season", t, func() {
		svc := startService(t)
		loadFixture(t, svc)

		Convey("When building the report for pair (100, 7)", func() {
			rep, err := svc.UmpireBatterReport(ctx, 2024, 100, 7, service.ClassifyParams{})

			Convey("Then the borderline subset drives the rates", func() {
				So(err, ShouldBeNil)
				So(rep.Samples, ShouldEqual, 2)
				So(rep.BorderlineCSRate, ShouldNotBeNil)
				So(*rep.BorderlineCSRate, ShouldEqual, 0.5)
			})
		})

		Convey("When a tighter margin rides along", func() {
			margin := 0.01
			rep, err := svc.UmpireBatterReport(ctx, 2024, 100, 7,
				service.ClassifyParams{EdgeMarginFt: &margin})

			Convey("Then fewer pitches qualify", func() {
				So(err, ShouldBeNil)
				So(rep.Samples, ShouldEqual, 1)
			})
		})
	})
}

func TestService_Borderline(t *testing.T) {
	ctx := context.Background()

	Convey("Given a started service with a loaded season", t, func() {
		svc := startService(t)
		loadFixture(t, svc)

		Convey("When summarizing with the defaults", func() {
			summary, err := svc.Borderline(ctx, 0, service.ClassifyParams{})

			Convey("Then only prepared regular-season pitches are counted", func() {
				So(err, ShouldBeNil)
				So(summary.Season, ShouldEqual, 2024)
				So(summary.TakenPitches, ShouldEqual, 4)
				So(summary.Borderline, ShouldEqual, 3)
				So(summary.ByReason["near_top"], ShouldEqual, 2)
				So(summary.ByReason["near_side"], ShouldEqual, 1)
			})
		})

		Convey("When sweeping down the edge margin", func() {
			margin := 0.05
			summary, err := svc.Borderline(ctx, 2024, service.ClassifyParams{EdgeMarginFt: &margin})

			Convey("Then the side pitch drops out", func() {
				So(err, ShouldBeNil)
				So(summary.EdgeMarginFt, ShouldEqual, 0.05)
				So(summary.Borderline, ShouldEqual, 2)
				So(summary.ByReason["near_side"], ShouldEqual, 0)
			})
		})
	})
}

func TestService_Reconfigure(t *testing.T) {
	ctx := context.Background()

	Convey("Given a started service with a loaded season", t, func() {
		svc := startService(t)
		loadFixture(t, svc)

		Convey("When a reloaded config tightens the default margin", func() {
			cfg := config.New()
			cfg.EdgeMarginFt = 0.05
			cfg.DefaultSeason = 2024
			svc.Reconfigure(ctx, cfg)

			Convey("Then the new defaults apply to later requests", func() {
				summary, err := svc.Borderline(ctx, 0, service.ClassifyParams{})
				So(err, ShouldBeNil)
				So(summary.EdgeMarginFt, ShouldEqual, 0.05)
				So(summary.Borderline, ShouldEqual, 2)
			})
		})
	})
}

func TestService_GetStats(t *testing.T) {
	Convey("Given a started service with a loaded season", t, func() {
		svc := startService(t)
		loadFixture(t, svc)

		Convey("When reading service stats", func() {
			stats := svc.GetStats()

			Convey("Then the load is visible", func() {
				So(stats["started"], ShouldEqual, true)
				So(stats["snapshots"], ShouldEqual, 2)
				So(stats["pitches"], ShouldEqual, 4)
				So(stats["seasons"], ShouldResemble, []int{2024})
			})
		})
	})
}
