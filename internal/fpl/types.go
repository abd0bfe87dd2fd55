package fpl

import "sort"

// BootstrapStatic is the bootstrap-static/ response: the game's global
// reference data, one section per downstream table. Fields the pipeline
// does not land are left undeclared and ignored by the decoder.
type BootstrapStatic struct {
	Events       []Event       `json:"events"`
	Teams        []Team        `json:"teams"`
	Elements     []Element     `json:"elements"`
	ElementTypes []ElementType `json:"element_types"`
}

// Event is one gameweek.
type Event struct {
	ID                int    `json:"id"`
	Name              string `json:"name"`
	DeadlineTime      string `json:"deadline_time"`
	AverageEntryScore int    `json:"average_entry_score"`
	HighestScore      int    `json:"highest_score"`
	Finished          bool   `json:"finished"`
	DataChecked       bool   `json:"data_checked"`
	IsPrevious        bool   `json:"is_previous"`
	IsCurrent         bool   `json:"is_current"`
	IsNext            bool   `json:"is_next"`
	MostSelected      int    `json:"most_selected"`
	MostTransferredIn int    `json:"most_transferred_in"`
	MostCaptained     int    `json:"most_captained"`
	TopElement        int    `json:"top_element"`
	TransfersMade     int    `json:"transfers_made"`
}

type Team struct {
	ID                  int    `json:"id"`
	Code                int    `json:"code"`
	Name                string `json:"name"`
	ShortName           string `json:"short_name"`
	Strength            int    `json:"strength"`
	StrengthOverallHome int    `json:"strength_overall_home"`
	StrengthOverallAway int    `json:"strength_overall_away"`
	StrengthAttackHome  int    `json:"strength_attack_home"`
	StrengthAttackAway  int    `json:"strength_attack_away"`
	StrengthDefenceHome int    `json:"strength_defence_home"`
	StrengthDefenceAway int    `json:"strength_defence_away"`
	Played              int    `json:"played"`
	Win                 int    `json:"win"`
	Draw                int    `json:"draw"`
	Loss                int    `json:"loss"`
	Points              int    `json:"points"`
	Position            int    `json:"position"`
}

// Element is one player. The FPL API serves several numeric fields as
// decimal strings (form, influence, ...); they stay strings here and are
// coerced during normalization.
type Element struct {
	ID                int    `json:"id"`
	Code              int    `json:"code"`
	FirstName         string `json:"first_name"`
	SecondName        string `json:"second_name"`
	WebName           string `json:"web_name"`
	Team              int    `json:"team"`
	TeamCode          int    `json:"team_code"`
	ElementType       int    `json:"element_type"`
	Status            string `json:"status"`
	NowCost           int    `json:"now_cost"`
	TotalPoints       int    `json:"total_points"`
	Minutes           int    `json:"minutes"`
	GoalsScored       int    `json:"goals_scored"`
	Assists           int    `json:"assists"`
	CleanSheets       int    `json:"clean_sheets"`
	GoalsConceded     int    `json:"goals_conceded"`
	OwnGoals          int    `json:"own_goals"`
	PenaltiesSaved    int    `json:"penalties_saved"`
	PenaltiesMissed   int    `json:"penalties_missed"`
	YellowCards       int    `json:"yellow_cards"`
	RedCards          int    `json:"red_cards"`
	Saves             int    `json:"saves"`
	Bonus             int    `json:"bonus"`
	BPS               int    `json:"bps"`
	Form              string `json:"form"`
	PointsPerGame     string `json:"points_per_game"`
	SelectedByPercent string `json:"selected_by_percent"`
	Influence         string `json:"influence"`
	Creativity        string `json:"creativity"`
	Threat            string `json:"threat"`
	ICTIndex          string `json:"ict_index"`
	TransfersIn       int    `json:"transfers_in"`
	TransfersOut      int    `json:"transfers_out"`
}

type ElementType struct {
	ID              int    `json:"id"`
	SingularName    string `json:"singular_name"`
	SingularNameSh  string `json:"singular_name_short"`
	PluralName      string `json:"plural_name"`
	PluralNameShort string `json:"plural_name_short"`
	SquadSelect     int    `json:"squad_select"`
	SquadMinPlay    int    `json:"squad_min_play"`
	SquadMaxPlay    int    `json:"squad_max_play"`
	ElementCount    int    `json:"element_count"`
}

// ElementSummary is the element-summary/{id}/ response for one player.
type ElementSummary struct {
	History     []HistoryEntry `json:"history"`
	HistoryPast []PastSeason   `json:"history_past"`
}

// HistoryEntry is one player's line for one played fixture of the
// current season.
type HistoryEntry struct {
	Element          int    `json:"element"`
	Fixture          int    `json:"fixture"`
	Round            int    `json:"round"`
	OpponentTeam     int    `json:"opponent_team"`
	WasHome          bool   `json:"was_home"`
	KickoffTime      string `json:"kickoff_time"`
	TotalPoints      int    `json:"total_points"`
	Minutes          int    `json:"minutes"`
	GoalsScored      int    `json:"goals_scored"`
	Assists          int    `json:"assists"`
	CleanSheets      int    `json:"clean_sheets"`
	GoalsConceded    int    `json:"goals_conceded"`
	OwnGoals         int    `json:"own_goals"`
	PenaltiesSaved   int    `json:"penalties_saved"`
	PenaltiesMissed  int    `json:"penalties_missed"`
	YellowCards      int    `json:"yellow_cards"`
	RedCards         int    `json:"red_cards"`
	Saves            int    `json:"saves"`
	Bonus            int    `json:"bonus"`
	BPS              int    `json:"bps"`
	Influence        string `json:"influence"`
	Creativity       string `json:"creativity"`
	Threat           string `json:"threat"`
	ICTIndex         string `json:"ict_index"`
	Value            int    `json:"value"`
	Selected         int    `json:"selected"`
	TransfersIn      int    `json:"transfers_in"`
	TransfersOut     int    `json:"transfers_out"`
	TransfersBalance int    `json:"transfers_balance"`
}

// PastSeason is one player's totals for a prior season.
type PastSeason struct {
	SeasonName    string `json:"season_name"`
	ElementCode   int    `json:"element_code"`
	StartCost     int    `json:"start_cost"`
	EndCost       int    `json:"end_cost"`
	TotalPoints   int    `json:"total_points"`
	Minutes       int    `json:"minutes"`
	GoalsScored   int    `json:"goals_scored"`
	Assists       int    `json:"assists"`
	CleanSheets   int    `json:"clean_sheets"`
	GoalsConceded int    `json:"goals_conceded"`
	YellowCards   int    `json:"yellow_cards"`
	RedCards      int    `json:"red_cards"`
	Saves         int    `json:"saves"`
	Bonus         int    `json:"bonus"`
	BPS           int    `json:"bps"`
	Influence     string `json:"influence"`
	Creativity    string `json:"creativity"`
	Threat        string `json:"threat"`
	ICTIndex      string `json:"ict_index"`
}

// Fixture is one match from the fixtures/ endpoint. Event and the two
// scores are null until the fixture is scheduled/played, kickoff_time
// until scheduled.
type Fixture struct {
	ID                   int     `json:"id"`
	Code                 int     `json:"code"`
	Event                *int    `json:"event"`
	KickoffTime          *string `json:"kickoff_time"`
	ProvisionalStartTime bool    `json:"provisional_start_time"`
	Started              bool    `json:"started"`
	Finished             bool    `json:"finished"`
	FinishedProvisional  bool    `json:"finished_provisional"`
	Minutes              int     `json:"minutes"`
	TeamH                int     `json:"team_h"`
	TeamHScore           *int    `json:"team_h_score"`
	TeamHDifficulty      int     `json:"team_h_difficulty"`
	TeamA                int     `json:"team_a"`
	TeamAScore           *int    `json:"team_a_score"`
	TeamADifficulty      int     `json:"team_a_difficulty"`
}

// TeamElements returns the ids of the elements belonging to one team.
func (b *BootstrapStatic) TeamElements(teamID int) []int {
	var ids []int
	for _, e := range b.Elements {
		if e.Team == teamID {
			ids = append(ids, e.ID)
		}
	}
	return ids
}

// SelectElements resolves the element ids an element-summary run should
// fetch. With no filters every known element is selected; teamIDs narrows
// to those teams; elementIDs narrows further and is validated against the
// bootstrap universe (unknown or out-of-team ids come back separately so
// the caller can report them without failing the run).
func SelectElements(b *BootstrapStatic, teamIDs, elementIDs []int) (ids, unknown []int) {
	elementTeam := make(map[int]int, len(b.Elements))
	for _, e := range b.Elements {
		elementTeam[e.ID] = e.Team
	}

	teamOK := func(team int) bool {
		if len(teamIDs) == 0 {
			return true
		}
		for _, t := range teamIDs {
			if t == team {
				return true
			}
		}
		return false
	}

	if len(elementIDs) == 0 {
		for _, e := range b.Elements {
			if teamOK(e.Team) {
				ids = append(ids, e.ID)
			}
		}
		sort.Ints(ids)
		return ids, nil
	}

	for _, id := range elementIDs {
		team, known := elementTeam[id]
		if !known || !teamOK(team) {
			unknown = append(unknown, id)
			continue
		}
		ids = append(ids, id)
	}
	sort.Ints(ids)
	sort.Ints(unknown)
	return ids, unknown
}
