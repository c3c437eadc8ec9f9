package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/ubrstats/ubr/internal/adapters/http/api"
	"github.com/ubrstats/ubr/internal/adapters/repository"
	"github.com/ubrstats/ubr/internal/adapters/statsapi"
	service "github.com/ubrstats/ubr/internal/app"
	"github.com/ubrstats/ubr/internal/domain/model"
)

// mockDeps implements api.Dependencies with pluggable behavior per test.
type mockDeps struct {
	vpAll      func(ctx context.Context, season int) ([]model.VeteranPresence, error)
	vpByID     func(ctx context.Context, season int, batterID int64) (model.VeteranPresence, error)
	ubr        func(ctx context.Context, season int, batterID, umpireID int64, params service.ClassifyParams) (model.UmpireBatterReport, error)
	borderline func(ctx context.Context, season int, params service.ClassifyParams) (service.BorderlineSummary, error)
	search     func(ctx context.Context, name string) ([]statsapi.Person, error)
}

func (m *mockDeps) VeteranPresenceAll(ctx context.Context, season int) ([]model.VeteranPresence, error) {
	return m.vpAll(ctx, season)
}

func (m *mockDeps) VeteranPresence(ctx context.Context, season int, batterID int64) (model.VeteranPresence, error) {
	return m.vpByID(ctx, season, batterID)
}

func (m *mockDeps) UmpireBatterReport(ctx context.Context, season int, batterID, umpireID int64, params service.ClassifyParams) (model.UmpireBatterReport, error) {
	return m.ubr(ctx, season, batterID, umpireID, params)
}

func (m *mockDeps) Borderline(ctx context.Context, season int, params service.ClassifyParams) (service.BorderlineSummary, error) {
	return m.borderline(ctx, season, params)
}

func (m *mockDeps) SearchPlayers(ctx context.Context, name string) ([]statsapi.Person, error) {
	return m.search(ctx, name)
}

type mockStats struct{}

func (mockStats) GetStats() map[string]interface{} {
	return map[string]interface{}{"started": true}
}

func serve(deps *mockDeps, method, target string) *httptest.ResponseRecorder {
	mux := http.NewServeMux()
	api.NewServer(deps, mockStats{}).Register(context.Background(), mux)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	return rec
}

func TestVPRoutes(t *testing.T) {
	Convey("Given a server with veteran presence data", t, func() {
		deps := &mockDeps{
			vpAll: func(_ context.Context, season int) ([]model.VeteranPresence, error) {
				return []model.VeteranPresence{
					{BatterID: 100, FullName: "A", Season: season, VP: 52.5},
				}, nil
			},
			vpByID: func(_ context.Context, season int, batterID int64) (model.VeteranPresence, error) {
				if batterID != 100 {
					return model.VeteranPresence{}, repository.ErrNotFound
				}
				return model.VeteranPresence{BatterID: 100, FullName: "A", Season: season, VP: 52.5}, nil
			},
		}

		Convey("When listing a season", func() {
			rec := serve(deps, http.MethodGet, "/metrics/vp?season=2024")

			Convey("Then the entries are returned as JSON", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				So(rec.Header().Get("Content-Type"), ShouldStartWith, "application/json")
				So(rec.Header().Get("X-Request-Id"), ShouldNotBeEmpty)

				var entries []model.VeteranPresence
				So(json.Unmarshal(rec.Body.Bytes(), &entries), ShouldBeNil)
				So(entries, ShouldHaveLength, 1)
				So(entries[0].VP, ShouldEqual, 52.5)
			})
		})

		Convey("When the season is out of range", func() {
			rec := serve(deps, http.MethodGet, "/metrics/vp?season=1850")

			Convey("Then the request is rejected", func() {
				So(rec.Code, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When the season is not a number", func() {
			rec := serve(deps, http.MethodGet, "/metrics/vp?season=twenty")

			Convey("Then the request is rejected", func() {
				So(rec.Code, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When fetching one batter", func() {
			rec := serve(deps, http.MethodGet, "/metrics/vp/100?season=2024")

			Convey("Then the entry is returned", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)

				var entry model.VeteranPresence
				So(json.Unmarshal(rec.Body.Bytes(), &entry), ShouldBeNil)
				So(entry.BatterID, ShouldEqual, 100)
			})
		})

		Convey("When the batter does not exist", func() {
			rec := serve(deps, http.MethodGet, "/metrics/vp/999?season=2024")

			Convey("Then it is a 404 with a structured body", func() {
				So(rec.Code, ShouldEqual, http.StatusNotFound)

				var body map[string]string
				So(json.Unmarshal(rec.Body.Bytes(), &body), ShouldBeNil)
				So(body["code"], ShouldEqual, "not_found")
			})
		})

		Convey("When the batter id is not numeric", func() {
			rec := serve(deps, http.MethodGet, "/metrics/vp/abc")

			Convey("Then the request is rejected", func() {
				So(rec.Code, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When the season is not loaded", func() {
			deps.vpAll = func(context.Context, int) ([]model.VeteranPresence, error) {
				return nil, repository.ErrSeasonNotLoaded
			}
			rec := serve(deps, http.MethodGet, "/metrics/vp?season=2024")

			Convey("Then it is a 404", func() {
				So(rec.Code, ShouldEqual, http.StatusNotFound)
			})
		})

		Convey("When the store fails", func() {
			deps.vpAll = func(context.Context, int) ([]model.VeteranPresence, error) {
				return nil, errors.New("boom")
			}
			rec := serve(deps, http.MethodGet, "/metrics/vp")

			Convey("Then it is a 500", func() {
				So(rec.Code, ShouldEqual, http.StatusInternalServerError)
			})
		})
	})
}

func TestUBRRoute(t *testing.T) {
	Convey("Given a server with report data", t, func() {
		var gotParams service.ClassifyParams
		rate := 0.5
		deps := &mockDeps{
			ubr: func(_ context.Context, season int, batterID, umpireID int64, params service.ClassifyParams) (model.UmpireBatterReport, error) {
				gotParams = params
				return model.UmpireBatterReport{
					BatterID: batterID, UmpireID: umpireID, Season: season,
					Samples: 2, BorderlineCSRate: &rate,
				}, nil
			},
		}

		Convey("When all parameters are supplied", func() {
			rec := serve(deps, http.MethodGet, "/metrics/ubr?batter_id=100&umpire_id=7&season=2024")

			Convey("Then the report is returned", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)

				var rep model.UmpireBatterReport
				So(json.Unmarshal(rec.Body.Bytes(), &rep), ShouldBeNil)
				So(rep.Samples, ShouldEqual, 2)
				So(*rep.BorderlineCSRate, ShouldEqual, 0.5)
			})
		})

		Convey("When tunables ride along", func() {
			rec := serve(deps, http.MethodGet,
				"/metrics/ubr?batter_id=100&umpire_id=7&season=2024&edge_margin_ft=0.15&include_ball_diameter=false")

			Convey("Then they are parsed and forwarded", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				So(gotParams.EdgeMarginFt, ShouldNotBeNil)
				So(*gotParams.EdgeMarginFt, ShouldEqual, 0.15)
				So(gotParams.IncludeBallDiameter, ShouldNotBeNil)
				So(*gotParams.IncludeBallDiameter, ShouldBeFalse)
			})
		})

		Convey("When the season is omitted", func() {
			rec := serve(deps, http.MethodGet, "/metrics/ubr?batter_id=100&umpire_id=7")

			Convey("Then the request is rejected", func() {
				So(rec.Code, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When batter_id is missing", func() {
			rec := serve(deps, http.MethodGet, "/metrics/ubr?umpire_id=7&season=2024")

			Convey("Then the request is rejected", func() {
				So(rec.Code, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When the edge margin is not positive", func() {
			rec := serve(deps, http.MethodGet,
				"/metrics/ubr?batter_id=100&umpire_id=7&season=2024&edge_margin_ft=0")

			Convey("Then the request is rejected", func() {
				So(rec.Code, ShouldEqual, http.StatusBadRequest)
			})
		})
	})
}

func TestBorderlineRoute(t *testing.T) {
	Convey("Given a server with a season summary", t, func() {
		deps := &mockDeps{
			borderline: func(_ context.Context, season int, params service.ClassifyParams) (service.BorderlineSummary, error) {
				margin := 0.20
				if params.EdgeMarginFt != nil {
					margin = *params.EdgeMarginFt
				}
				return service.BorderlineSummary{
					Season: season, EdgeMarginFt: margin, IncludeBallDiameter: true,
					TakenPitches: 10, Borderline: 3,
					ByReason: map[string]int{"near_top": 2, "near_side": 1},
				}, nil
			},
		}

		Convey("When summarizing with an override margin", func() {
			rec := serve(deps, http.MethodGet, "/metrics/borderline?season=2024&edge_margin_ft=0.25")

			Convey("Then the summary echoes the tunables", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)

				var summary service.BorderlineSummary
				So(json.Unmarshal(rec.Body.Bytes(), &summary), ShouldBeNil)
				So(summary.EdgeMarginFt, ShouldEqual, 0.25)
				So(summary.Borderline, ShouldEqual, 3)
				So(summary.ByReason["near_top"], ShouldEqual, 2)
			})
		})

		Convey("When include_ball_diameter is garbage", func() {
			rec := serve(deps, http.MethodGet, "/metrics/borderline?include_ball_diameter=maybe")

			Convey("Then the request is rejected", func() {
				So(rec.Code, ShouldEqual, http.StatusBadRequest)
			})
		})
	})
}

func TestPlayersRoute(t *testing.T) {
	Convey("Given a server with a player resolver", t, func() {
		deps := &mockDeps{
			search: func(_ context.Context, name string) ([]statsapi.Person, error) {
				if name == "down" {
					return nil, errors.New("upstream unavailable")
				}
				return []statsapi.Person{{ID: 660271, FullName: "Shohei Ohtani"}}, nil
			},
		}

		Convey("When searching by name", func() {
			rec := serve(deps, http.MethodGet, "/players/search?name=ohtani")

			Convey("Then matches come back", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)

				var people []statsapi.Person
				So(json.Unmarshal(rec.Body.Bytes(), &people), ShouldBeNil)
				So(people, ShouldHaveLength, 1)
				So(people[0].ID, ShouldEqual, 660271)
			})
		})

		Convey("When the name is missing", func() {
			rec := serve(deps, http.MethodGet, "/players/search")

			Convey("Then the request is rejected", func() {
				So(rec.Code, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When the upstream is down", func() {
			rec := serve(deps, http.MethodGet, "/players/search?name=down")

			Convey("Then it is a 502", func() {
				So(rec.Code, ShouldEqual, http.StatusBadGateway)
			})
		})
	})
}

func TestStatsRoute(t *testing.T) {
	Convey("Given a server", t, func() {
		deps := &mockDeps{}

		Convey("When fetching stats", func() {
			rec := serve(deps, http.MethodGet, "/stats")

			Convey("Then the provider's view is returned", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)

				var stats map[string]interface{}
				So(json.Unmarshal(rec.Body.Bytes(), &stats), ShouldBeNil)
				So(stats["started"], ShouldEqual, true)
			})
		})

		Convey("When using a non-GET method", func() {
			rec := serve(deps, http.MethodPost, "/stats")

			Convey("Then the route does not exist", func() {
				So(rec.Code, ShouldEqual, http.StatusNotFound)
			})
		})
	})
}
