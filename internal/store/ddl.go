package store

import (
	"fmt"
	"strings"

	"github.com/Mattanalytix/fantasy-football-connector/internal/normalize"
)

// Column DDL per target table, in parquet field order. A warehouse load
// recreates the external table over the run's prefix, so these and the
// parquet tags in normalize must stay in lockstep.
var tableColumns = map[string][]string{
	normalize.TablePlayers: {
		"id bigint", "code bigint", "first_name string", "second_name string",
		"web_name string", "team bigint", "team_code bigint", "element_type bigint",
		"status string", "now_cost bigint", "total_points bigint", "minutes bigint",
		"goals_scored bigint", "assists bigint", "clean_sheets bigint",
		"goals_conceded bigint", "own_goals bigint", "penalties_saved bigint",
		"penalties_missed bigint", "yellow_cards bigint", "red_cards bigint",
		"saves bigint", "bonus bigint", "bps bigint", "form double",
		"points_per_game double", "selected_by_percent double", "influence double",
		"creativity double", "threat double", "ict_index double",
		"transfers_in bigint", "transfers_out bigint",
	},
	normalize.TableTeams: {
		"id bigint", "code bigint", "name string", "short_name string",
		"strength bigint", "strength_overall_home bigint", "strength_overall_away bigint",
		"strength_attack_home bigint", "strength_attack_away bigint",
		"strength_defence_home bigint", "strength_defence_away bigint",
		"played bigint", "win bigint", "draw bigint", "loss bigint",
		"points bigint", "position bigint",
	},
	normalize.TableEvents: {
		"id bigint", "name string", "deadline_time string", "average_entry_score bigint",
		"highest_score bigint", "finished boolean", "data_checked boolean",
		"is_previous boolean", "is_current boolean", "is_next boolean",
		"most_selected bigint", "most_transferred_in bigint", "most_captained bigint",
		"top_element bigint", "transfers_made bigint",
	},
	normalize.TableElementTypes: {
		"id bigint", "singular_name string", "singular_name_short string",
		"plural_name string", "plural_name_short string", "squad_select bigint",
		"squad_min_play bigint", "squad_max_play bigint", "element_count bigint",
	},
	normalize.TableHistory: {
		"element bigint", "fixture bigint", "round bigint", "opponent_team bigint",
		"was_home boolean", "kickoff_time string", "total_points bigint",
		"minutes bigint", "goals_scored bigint", "assists bigint",
		"clean_sheets bigint", "goals_conceded bigint", "own_goals bigint",
		"penalties_saved bigint", "penalties_missed bigint", "yellow_cards bigint",
		"red_cards bigint", "saves bigint", "bonus bigint", "bps bigint",
		"influence double", "creativity double", "threat double", "ict_index double",
		"value bigint", "selected bigint", "transfers_in bigint",
		"transfers_out bigint", "transfers_balance bigint",
	},
	normalize.TableHistoryPast: {
		"element bigint", "season_name string", "element_code bigint",
		"start_cost bigint", "end_cost bigint", "total_points bigint",
		"minutes bigint", "goals_scored bigint", "assists bigint",
		"clean_sheets bigint", "goals_conceded bigint", "yellow_cards bigint",
		"red_cards bigint", "saves bigint", "bonus bigint", "bps bigint",
		"influence double", "creativity double", "threat double", "ict_index double",
	},
	normalize.TableFixtures: {
		"id bigint", "code bigint", "event bigint", "kickoff_time string",
		"started boolean", "finished boolean", "finished_provisional boolean",
		"minutes bigint", "team_h bigint", "team_h_name string",
		"team_h_score bigint", "team_h_difficulty bigint", "team_a bigint",
		"team_a_name string", "team_a_score bigint", "team_a_difficulty bigint",
	},
}

// BuildDrop returns the DROP for one served table.
func BuildDrop(db, table string) string {
	return fmt.Sprintf("DROP TABLE IF EXISTS %s.%s", db, table)
}

// BuildCreateExternal returns the CREATE EXTERNAL TABLE pointing the served
// table at one run's parquet prefix. Dropping and recreating over the new
// location is the whole replace step; older run prefixes stay in S3.
func BuildCreateExternal(db, table, location string) (string, error) {
	cols, ok := tableColumns[table]
	if !ok {
		return "", fmt.Errorf("no column DDL for table %q", table)
	}
	return fmt.Sprintf(`CREATE EXTERNAL TABLE %s.%s (
  %s
)
STORED AS PARQUET
LOCATION '%s'
TBLPROPERTIES ('parquet.compression'='SNAPPY')`,
		db, table, strings.Join(cols, ",\n  "), location), nil
}
