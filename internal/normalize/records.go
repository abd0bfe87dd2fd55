package normalize

import "strconv"

// Target table names. S3 snapshot layout and Athena table names both key off
// these, so they only live here.
const (
	TablePlayers      = "players"
	TableTeams        = "teams"
	TableEvents       = "events"
	TableElementTypes = "element_types"
	TableHistory      = "element_history"
	TableHistoryPast  = "element_history_past"
	TableFixtures     = "fixtures"
)

// Row is one normalized record. Key is the row's primary-key tuple rendered
// as a string; rows derived from one payload never repeat a key.
type Row interface {
	Key() string
}

// Table is one target table's worth of rows from a single run.
type Table struct {
	Name string
	Rows []Row
}

// dedupe drops rows whose key was already seen, keeping the first occurrence.
func dedupe(rows []Row) []Row {
	seen := make(map[string]struct{}, len(rows))
	out := rows[:0]
	for _, r := range rows {
		k := r.Key()
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, r)
	}
	return out
}

type PlayerRow struct {
	ID                int     `parquet:"id" json:"id"`
	Code              int     `parquet:"code" json:"code"`
	FirstName         string  `parquet:"first_name" json:"first_name"`
	SecondName        string  `parquet:"second_name" json:"second_name"`
	WebName           string  `parquet:"web_name" json:"web_name"`
	Team              int     `parquet:"team" json:"team"`
	TeamCode          int     `parquet:"team_code" json:"team_code"`
	ElementType       int     `parquet:"element_type" json:"element_type"`
	Status            string  `parquet:"status" json:"status"`
	NowCost           int     `parquet:"now_cost" json:"now_cost"`
	TotalPoints       int     `parquet:"total_points" json:"total_points"`
	Minutes           int     `parquet:"minutes" json:"minutes"`
	GoalsScored       int     `parquet:"goals_scored" json:"goals_scored"`
	Assists           int     `parquet:"assists" json:"assists"`
	CleanSheets       int     `parquet:"clean_sheets" json:"clean_sheets"`
	GoalsConceded     int     `parquet:"goals_conceded" json:"goals_conceded"`
	OwnGoals          int     `parquet:"own_goals" json:"own_goals"`
	PenaltiesSaved    int     `parquet:"penalties_saved" json:"penalties_saved"`
	PenaltiesMissed   int     `parquet:"penalties_missed" json:"penalties_missed"`
	YellowCards       int     `parquet:"yellow_cards" json:"yellow_cards"`
	RedCards          int     `parquet:"red_cards" json:"red_cards"`
	Saves             int     `parquet:"saves" json:"saves"`
	Bonus             int     `parquet:"bonus" json:"bonus"`
	BPS               int     `parquet:"bps" json:"bps"`
	Form              float64 `parquet:"form" json:"form"`
	PointsPerGame     float64 `parquet:"points_per_game" json:"points_per_game"`
	SelectedByPercent float64 `parquet:"selected_by_percent" json:"selected_by_percent"`
	Influence         float64 `parquet:"influence" json:"influence"`
	Creativity        float64 `parquet:"creativity" json:"creativity"`
	Threat            float64 `parquet:"threat" json:"threat"`
	ICTIndex          float64 `parquet:"ict_index" json:"ict_index"`
	TransfersIn       int     `parquet:"transfers_in" json:"transfers_in"`
	TransfersOut      int     `parquet:"transfers_out" json:"transfers_out"`
}

func (r PlayerRow) Key() string { return strconv.Itoa(r.ID) }

type TeamRow struct {
	ID                  int    `parquet:"id" json:"id"`
	Code                int    `parquet:"code" json:"code"`
	Name                string `parquet:"name" json:"name"`
	ShortName           string `parquet:"short_name" json:"short_name"`
	Strength            int    `parquet:"strength" json:"strength"`
	StrengthOverallHome int    `parquet:"strength_overall_home" json:"strength_overall_home"`
	StrengthOverallAway int    `parquet:"strength_overall_away" json:"strength_overall_away"`
	StrengthAttackHome  int    `parquet:"strength_attack_home" json:"strength_attack_home"`
	StrengthAttackAway  int    `parquet:"strength_attack_away" json:"strength_attack_away"`
	StrengthDefenceHome int    `parquet:"strength_defence_home" json:"strength_defence_home"`
	StrengthDefenceAway int    `parquet:"strength_defence_away" json:"strength_defence_away"`
	Played              int    `parquet:"played" json:"played"`
	Win                 int    `parquet:"win" json:"win"`
	Draw                int    `parquet:"draw" json:"draw"`
	Loss                int    `parquet:"loss" json:"loss"`
	Points              int    `parquet:"points" json:"points"`
	Position            int    `parquet:"position" json:"position"`
}

func (r TeamRow) Key() string { return strconv.Itoa(r.ID) }

type EventRow struct {
	ID                int    `parquet:"id" json:"id"`
	Name              string `parquet:"name" json:"name"`
	DeadlineTime      string `parquet:"deadline_time" json:"deadline_time"`
	AverageEntryScore int    `parquet:"average_entry_score" json:"average_entry_score"`
	HighestScore      int    `parquet:"highest_score" json:"highest_score"`
	Finished          bool   `parquet:"finished" json:"finished"`
	DataChecked       bool   `parquet:"data_checked" json:"data_checked"`
	IsPrevious        bool   `parquet:"is_previous" json:"is_previous"`
	IsCurrent         bool   `parquet:"is_current" json:"is_current"`
	IsNext            bool   `parquet:"is_next" json:"is_next"`
	MostSelected      int    `parquet:"most_selected" json:"most_selected"`
	MostTransferredIn int    `parquet:"most_transferred_in" json:"most_transferred_in"`
	MostCaptained     int    `parquet:"most_captained" json:"most_captained"`
	TopElement        int    `parquet:"top_element" json:"top_element"`
	TransfersMade     int    `parquet:"transfers_made" json:"transfers_made"`
}

func (r EventRow) Key() string { return strconv.Itoa(r.ID) }

type ElementTypeRow struct {
	ID              int    `parquet:"id" json:"id"`
	SingularName    string `parquet:"singular_name" json:"singular_name"`
	SingularNameSh  string `parquet:"singular_name_short" json:"singular_name_short"`
	PluralName      string `parquet:"plural_name" json:"plural_name"`
	PluralNameShort string `parquet:"plural_name_short" json:"plural_name_short"`
	SquadSelect     int    `parquet:"squad_select" json:"squad_select"`
	SquadMinPlay    int    `parquet:"squad_min_play" json:"squad_min_play"`
	SquadMaxPlay    int    `parquet:"squad_max_play" json:"squad_max_play"`
	ElementCount    int    `parquet:"element_count" json:"element_count"`
}

func (r ElementTypeRow) Key() string { return strconv.Itoa(r.ID) }

// HistoryRow is one player's line for one fixture of the current season.
type HistoryRow struct {
	Element          int     `parquet:"element" json:"element"`
	Fixture          int     `parquet:"fixture" json:"fixture"`
	Round            int     `parquet:"round" json:"round"`
	OpponentTeam     int     `parquet:"opponent_team" json:"opponent_team"`
	WasHome          bool    `parquet:"was_home" json:"was_home"`
	KickoffTime      string  `parquet:"kickoff_time" json:"kickoff_time"`
	TotalPoints      int     `parquet:"total_points" json:"total_points"`
	Minutes          int     `parquet:"minutes" json:"minutes"`
	GoalsScored      int     `parquet:"goals_scored" json:"goals_scored"`
	Assists          int     `parquet:"assists" json:"assists"`
	CleanSheets      int     `parquet:"clean_sheets" json:"clean_sheets"`
	GoalsConceded    int     `parquet:"goals_conceded" json:"goals_conceded"`
	OwnGoals         int     `parquet:"own_goals" json:"own_goals"`
	PenaltiesSaved   int     `parquet:"penalties_saved" json:"penalties_saved"`
	PenaltiesMissed  int     `parquet:"penalties_missed" json:"penalties_missed"`
	YellowCards      int     `parquet:"yellow_cards" json:"yellow_cards"`
	RedCards         int     `parquet:"red_cards" json:"red_cards"`
	Saves            int     `parquet:"saves" json:"saves"`
	Bonus            int     `parquet:"bonus" json:"bonus"`
	BPS              int     `parquet:"bps" json:"bps"`
	Influence        float64 `parquet:"influence" json:"influence"`
	Creativity       float64 `parquet:"creativity" json:"creativity"`
	Threat           float64 `parquet:"threat" json:"threat"`
	ICTIndex         float64 `parquet:"ict_index" json:"ict_index"`
	Value            int     `parquet:"value" json:"value"`
	Selected         int     `parquet:"selected" json:"selected"`
	TransfersIn      int     `parquet:"transfers_in" json:"transfers_in"`
	TransfersOut     int     `parquet:"transfers_out" json:"transfers_out"`
	TransfersBalance int     `parquet:"transfers_balance" json:"transfers_balance"`
}

func (r HistoryRow) Key() string { return strconv.Itoa(r.Element) + "#" + strconv.Itoa(r.Fixture) }

// PastSeasonRow is one player's totals for one prior season.
type PastSeasonRow struct {
	Element       int     `parquet:"element" json:"element"`
	SeasonName    string  `parquet:"season_name" json:"season_name"`
	ElementCode   int     `parquet:"element_code" json:"element_code"`
	StartCost     int     `parquet:"start_cost" json:"start_cost"`
	EndCost       int     `parquet:"end_cost" json:"end_cost"`
	TotalPoints   int     `parquet:"total_points" json:"total_points"`
	Minutes       int     `parquet:"minutes" json:"minutes"`
	GoalsScored   int     `parquet:"goals_scored" json:"goals_scored"`
	Assists       int     `parquet:"assists" json:"assists"`
	CleanSheets   int     `parquet:"clean_sheets" json:"clean_sheets"`
	GoalsConceded int     `parquet:"goals_conceded" json:"goals_conceded"`
	YellowCards   int     `parquet:"yellow_cards" json:"yellow_cards"`
	RedCards      int     `parquet:"red_cards" json:"red_cards"`
	Saves         int     `parquet:"saves" json:"saves"`
	Bonus         int     `parquet:"bonus" json:"bonus"`
	BPS           int     `parquet:"bps" json:"bps"`
	Influence     float64 `parquet:"influence" json:"influence"`
	Creativity    float64 `parquet:"creativity" json:"creativity"`
	Threat        float64 `parquet:"threat" json:"threat"`
	ICTIndex      float64 `parquet:"ict_index" json:"ict_index"`
}

func (r PastSeasonRow) Key() string { return strconv.Itoa(r.Element) + "#" + r.SeasonName }

// FixtureRow is one match with team ids resolved to short names and kickoff
// in canonical UTC RFC3339. Pointer fields stay null until the fixture is
// scheduled or played.
type FixtureRow struct {
	ID                  int     `parquet:"id" json:"id"`
	Code                int     `parquet:"code" json:"code"`
	Event               *int    `parquet:"event,optional" json:"event"`
	KickoffTime         *string `parquet:"kickoff_time,optional" json:"kickoff_time"`
	Started             bool    `parquet:"started" json:"started"`
	Finished            bool    `parquet:"finished" json:"finished"`
	FinishedProvisional bool    `parquet:"finished_provisional" json:"finished_provisional"`
	Minutes             int     `parquet:"minutes" json:"minutes"`
	TeamH               int     `parquet:"team_h" json:"team_h"`
	TeamHName           string  `parquet:"team_h_name" json:"team_h_name"`
	TeamHScore          *int    `parquet:"team_h_score,optional" json:"team_h_score"`
	TeamHDifficulty     int     `parquet:"team_h_difficulty" json:"team_h_difficulty"`
	TeamA               int     `parquet:"team_a" json:"team_a"`
	TeamAName           string  `parquet:"team_a_name" json:"team_a_name"`
	TeamAScore          *int    `parquet:"team_a_score,optional" json:"team_a_score"`
	TeamADifficulty     int     `parquet:"team_a_difficulty" json:"team_a_difficulty"`
}

func (r FixtureRow) Key() string { return strconv.Itoa(r.ID) }
