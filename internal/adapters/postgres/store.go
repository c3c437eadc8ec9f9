// Package postgres implements the season data stores on PostgreSQL.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"sort"

	"github.com/lib/pq"

	"github.com/ubrstats/ubr/internal/adapters/repository"
	"github.com/ubrstats/ubr/internal/domain/model"
	"github.com/ubrstats/ubr/pkg/metrics"
)

// Store implements repository.SnapshotStore and repository.PitchStore
// against PostgreSQL. Season loads run as COPY inside a single transaction;
// reads stream rows.
type Store struct {
	db *sql.DB
}

var (
	_ repository.SnapshotStore = (*Store)(nil)
	_ repository.PitchStore    = (*Store)(nil)
)

// NewStore creates a Store on an open database handle. The caller owns the
// handle's lifecycle.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Open connects to PostgreSQL with the lib/pq driver and pings it.
func Open(dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return db, nil
}

// nullable converts NaN to a SQL NULL so missing fields round-trip.
func nullable(v float64) sql.NullFloat64 {
	if math.IsNaN(v) {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: v, Valid: true}
}

// fromNull converts a SQL NULL back to NaN.
func fromNull(v sql.NullFloat64) float64 {
	if !v.Valid {
		return math.NaN()
	}
	return v.Float64
}

// PutSnapshots replaces the snapshot set for a season.
func (s *Store) PutSnapshots(ctx context.Context, year int, snaps []model.PlayerSeasonSnapshot) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		metrics.RecordStoreError("postgres", "begin_tx")
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM player_snapshots WHERE season = $1`, year); err != nil {
		metrics.RecordStoreError("postgres", "delete")
		return fmt.Errorf("clear season %d snapshots: %w", year, err)
	}

	stmt, err := tx.PrepareContext(ctx, pq.CopyIn("player_snapshots",
		"batter_id", "full_name", "season",
		"years_service_prior", "pa_career_prior", "allstar_prior", "war_career_prior",
		"mvps_prior", "hank_aaron_awards_prior", "silver_sluggers_prior",
		"gold_gloves_prior", "platinum_gloves_prior",
		"allmlb_first_team_prior", "allmlb_second_team_prior",
		"al_roty_prior", "nl_roty_prior", "hr_derby_titles_prior",
		"games_played_prior", "hr_career_prior", "hits_career_prior",
		"ab_career_prior", "avg_career_prior",
	))
	if err != nil {
		metrics.RecordStoreError("postgres", "prepare_copy")
		return fmt.Errorf("prepare snapshot copy: %w", err)
	}

	for _, snap := range snaps {
		_, err := stmt.ExecContext(ctx,
			snap.BatterID, snap.FullName, year,
			nullable(snap.YearsServicePrior), nullable(snap.PACareerPrior),
			nullable(snap.AllStarPrior), nullable(snap.WARCareerPrior),
			nullable(snap.MVPsPrior), nullable(snap.HankAaronAwardsPrior),
			nullable(snap.SilverSluggersPrior), nullable(snap.GoldGlovesPrior),
			nullable(snap.PlatinumGlovesPrior), nullable(snap.AllMLBFirstTeamPrior),
			nullable(snap.AllMLBSecondTeamPrior), nullable(snap.ALRotyPrior),
			nullable(snap.NLRotyPrior), nullable(snap.HRDerbyTitlesPrior),
			nullable(snap.GamesPlayedPrior), nullable(snap.HRCareerPrior),
			nullable(snap.HitsCareerPrior), nullable(snap.ABCareerPrior),
			nullable(snap.AvgCareerPrior),
		)
		if err != nil {
			metrics.RecordStoreError("postgres", "copy_exec")
			return fmt.Errorf("copy snapshot %d: %w", snap.BatterID, err)
		}
	}
	if _, err := stmt.ExecContext(ctx); err != nil {
		metrics.RecordStoreError("postgres", "copy_flush")
		return fmt.Errorf("flush snapshot copy: %w", err)
	}
	if err := stmt.Close(); err != nil {
		return fmt.Errorf("close snapshot copy: %w", err)
	}
	if err := tx.Commit(); err != nil {
		metrics.RecordStoreError("postgres", "commit")
		return fmt.Errorf("commit snapshots: %w", err)
	}
	return nil
}

const snapshotColumns = `batter_id, full_name, season,
	years_service_prior, pa_career_prior, allstar_prior, war_career_prior,
	mvps_prior, hank_aaron_awards_prior, silver_sluggers_prior,
	gold_gloves_prior, platinum_gloves_prior,
	allmlb_first_team_prior, allmlb_second_team_prior,
	al_roty_prior, nl_roty_prior, hr_derby_titles_prior,
	games_played_prior, hr_career_prior, hits_career_prior,
	ab_career_prior, avg_career_prior`

func scanSnapshot(rows *sql.Rows) (model.PlayerSeasonSnapshot, error) {
	var snap model.PlayerSeasonSnapshot
	var (
		svc, pa, asg, war                       sql.NullFloat64
		mvp, aaron, slugger, gold, platinum     sql.NullFloat64
		allmlb1, allmlb2, alroty, nlroty, derby sql.NullFloat64
		games, hr, hits, ab, avg                sql.NullFloat64
	)
	err := rows.Scan(
		&snap.BatterID, &snap.FullName, &snap.Season,
		&svc, &pa, &asg, &war,
		&mvp, &aaron, &slugger, &gold, &platinum,
		&allmlb1, &allmlb2, &alroty, &nlroty, &derby,
		&games, &hr, &hits, &ab, &avg,
	)
	if err != nil {
		return snap, fmt.Errorf("scan snapshot: %w", err)
	}
	snap.YearsServicePrior = fromNull(svc)
	snap.PACareerPrior = fromNull(pa)
	snap.AllStarPrior = fromNull(asg)
	snap.WARCareerPrior = fromNull(war)
	snap.MVPsPrior = fromNull(mvp)
	snap.HankAaronAwardsPrior = fromNull(aaron)
	snap.SilverSluggersPrior = fromNull(slugger)
	snap.GoldGlovesPrior = fromNull(gold)
	snap.PlatinumGlovesPrior = fromNull(platinum)
	snap.AllMLBFirstTeamPrior = fromNull(allmlb1)
	snap.AllMLBSecondTeamPrior = fromNull(allmlb2)
	snap.ALRotyPrior = fromNull(alroty)
	snap.NLRotyPrior = fromNull(nlroty)
	snap.HRDerbyTitlesPrior = fromNull(derby)
	snap.GamesPlayedPrior = fromNull(games)
	snap.HRCareerPrior = fromNull(hr)
	snap.HitsCareerPrior = fromNull(hits)
	snap.ABCareerPrior = fromNull(ab)
	snap.AvgCareerPrior = fromNull(avg)
	return snap, nil
}

// Snapshot returns one batter's snapshot for a season.
func (s *Store) Snapshot(ctx context.Context, year int, batterID int64) (model.PlayerSeasonSnapshot, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+snapshotColumns+` FROM player_snapshots WHERE season = $1 AND batter_id = $2`,
		year, batterID)
	if err != nil {
		metrics.RecordStoreError("postgres", "query")
		return model.PlayerSeasonSnapshot{}, fmt.Errorf("query snapshot: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return model.PlayerSeasonSnapshot{}, fmt.Errorf("iterate snapshot: %w", err)
		}
		return model.PlayerSeasonSnapshot{}, repository.ErrNotFound
	}
	return scanSnapshot(rows)
}

// Snapshots returns all snapshots for a season, ordered by batter id.
func (s *Store) Snapshots(ctx context.Context, year int) ([]model.PlayerSeasonSnapshot, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+snapshotColumns+` FROM player_snapshots WHERE season = $1 ORDER BY batter_id`, year)
	if err != nil {
		metrics.RecordStoreError("postgres", "query")
		return nil, fmt.Errorf("query snapshots: %w", err)
	}
	defer rows.Close()

	var out []model.PlayerSeasonSnapshot
	for rows.Next() {
		snap, err := scanSnapshot(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, snap)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate snapshots: %w", err)
	}
	if len(out) == 0 {
		return nil, repository.ErrSeasonNotLoaded
	}
	return out, nil
}

// Seasons returns the seasons that have snapshots, ascending.
func (s *Store) Seasons(ctx context.Context) []int {
	rows, err := s.db.QueryContext(ctx, `SELECT DISTINCT season FROM player_snapshots`)
	if err != nil {
		metrics.RecordStoreError("postgres", "query")
		return nil
	}
	defer rows.Close()

	var years []int
	for rows.Next() {
		var y int
		if err := rows.Scan(&y); err != nil {
			return years
		}
		years = append(years, y)
	}
	sort.Ints(years)
	return years
}

// Count returns the total number of snapshots.
func (s *Store) Count(ctx context.Context) int {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM player_snapshots`).Scan(&n); err != nil {
		metrics.RecordStoreError("postgres", "query")
		return 0
	}
	return n
}

// PutPitches replaces the pitch set for a season.
func (s *Store) PutPitches(ctx context.Context, year int, pitches []model.PitchEvent) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		metrics.RecordStoreError("postgres", "begin_tx")
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM pitches WHERE season = $1`, year); err != nil {
		metrics.RecordStoreError("postgres", "delete")
		return fmt.Errorf("clear season %d pitches: %w", year, err)
	}

	stmt, err := tx.PrepareContext(ctx, pq.CopyIn("pitches",
		"season", "game_pk", "game_date", "game_type",
		"batter", "pitcher", "umpire", "type", "description",
		"plate_x", "plate_z", "sz_top", "sz_bot", "delta_run_exp",
	))
	if err != nil {
		metrics.RecordStoreError("postgres", "prepare_copy")
		return fmt.Errorf("prepare pitch copy: %w", err)
	}

	for _, p := range pitches {
		_, err := stmt.ExecContext(ctx,
			year, p.GamePK, p.GameDate, p.GameType,
			p.Batter, p.Pitcher, p.Umpire, p.Type, p.Description,
			nullable(p.PlateX), nullable(p.PlateZ),
			nullable(p.SzTop), nullable(p.SzBot), nullable(p.DeltaRunExp),
		)
		if err != nil {
			metrics.RecordStoreError("postgres", "copy_exec")
			return fmt.Errorf("copy pitch game=%d: %w", p.GamePK, err)
		}
	}
	if _, err := stmt.ExecContext(ctx); err != nil {
		metrics.RecordStoreError("postgres", "copy_flush")
		return fmt.Errorf("flush pitch copy: %w", err)
	}
	if err := stmt.Close(); err != nil {
		return fmt.Errorf("close pitch copy: %w", err)
	}
	if err := tx.Commit(); err != nil {
		metrics.RecordStoreError("postgres", "commit")
		return fmt.Errorf("commit pitches: %w", err)
	}
	return nil
}

// Pitches returns all stored pitches for a season.
func (s *Store) Pitches(ctx context.Context, year int) ([]model.PitchEvent, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT game_pk, game_date, game_type, batter, pitcher, umpire,
			type, description, plate_x, plate_z, sz_top, sz_bot, delta_run_exp
		 FROM pitches WHERE season = $1`, year)
	if err != nil {
		metrics.RecordStoreError("postgres", "query")
		return nil, fmt.Errorf("query pitches: %w", err)
	}
	defer rows.Close()

	var out []model.PitchEvent
	for rows.Next() {
		var p model.PitchEvent
		var px, pz, top, bot, dre sql.NullFloat64
		err := rows.Scan(&p.GamePK, &p.GameDate, &p.GameType,
			&p.Batter, &p.Pitcher, &p.Umpire, &p.Type, &p.Description,
			&px, &pz, &top, &bot, &dre)
		if err != nil {
			return nil, fmt.Errorf("scan pitch: %w", err)
		}
		p.PlateX = fromNull(px)
		p.PlateZ = fromNull(pz)
		p.SzTop = fromNull(top)
		p.SzBot = fromNull(bot)
		p.DeltaRunExp = fromNull(dre)
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate pitches: %w", err)
	}
	if len(out) == 0 {
		return nil, repository.ErrSeasonNotLoaded
	}
	return out, nil
}

// CountPitches returns the total number of pitches.
func (s *Store) CountPitches(ctx context.Context) int {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM pitches`).Scan(&n); err != nil {
		metrics.RecordStoreError("postgres", "query")
		return 0
	}
	return n
}
