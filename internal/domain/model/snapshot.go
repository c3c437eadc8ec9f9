package model

// PlayerSeasonSnapshot is a frozen season-start summary of one batter's
// career. Every stat and award count runs through the season PRIOR to
// Season, so scoring a snapshot never leaks future data. Numeric fields are
// float64 with NaN for missing; award counts come from upstream text
// heuristics over award names and are taken at face value here.
type PlayerSeasonSnapshot struct {
	BatterID int64  `json:"batter_id"`
	FullName string `json:"full_name"`
	Season   int    `json:"season"`

	YearsServicePrior float64 `json:"years_service_prior"`
	PACareerPrior     float64 `json:"pa_career_prior"`
	AllStarPrior      float64 `json:"allstar_prior"`
	WARCareerPrior    float64 `json:"war_career_prior"`

	MVPsPrior             float64 `json:"mvps_prior"`
	HankAaronAwardsPrior  float64 `json:"hank_aaron_awards_prior"`
	SilverSluggersPrior   float64 `json:"silver_sluggers_prior"`
	GoldGlovesPrior       float64 `json:"gold_gloves_prior"`
	PlatinumGlovesPrior   float64 `json:"platinum_gloves_prior"`
	AllMLBFirstTeamPrior  float64 `json:"allmlb_first_team_prior"`
	AllMLBSecondTeamPrior float64 `json:"allmlb_second_team_prior"`
	ALRotyPrior           float64 `json:"al_roty_prior"`
	NLRotyPrior           float64 `json:"nl_roty_prior"`
	HRDerbyTitlesPrior    float64 `json:"hr_derby_titles_prior"`

	GamesPlayedPrior float64 `json:"games_played_prior"`
	HRCareerPrior    float64 `json:"hr_career_prior"`
	HitsCareerPrior  float64 `json:"hits_career_prior"`
	ABCareerPrior    float64 `json:"ab_career_prior"`
	AvgCareerPrior   float64 `json:"avg_career_prior"`
}

// VeteranPresence pairs a batter with their computed veteran score for
// API responses.
type VeteranPresence struct {
	BatterID int64   `json:"batter_id"`
	FullName string  `json:"full_name"`
	Season   int     `json:"season"`
	VP       float64 `json:"vp"`
}

// UmpireBatterReport summarizes borderline calls for one (batter, umpire)
// pair in a season.
type UmpireBatterReport struct {
	BatterID int64 `json:"batter_id"`
	UmpireID int64 `json:"umpire_id"`
	Season   int   `json:"season"`
	Samples  int   `json:"samples"`
	// BorderlineCSRate and DeltaREBorderline are nil when Samples == 0.
	BorderlineCSRate  *float64 `json:"borderline_cs_rate"`
	DeltaREBorderline *float64 `json:"delta_re_borderline"`
}
