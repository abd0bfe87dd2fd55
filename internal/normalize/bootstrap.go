package normalize

import (
	"strconv"
	"strings"

	"github.com/Mattanalytix/fantasy-football-connector/internal/fpl"
)

// Bootstrap flattens the bootstrap-static payload into its four target
// tables. Pure: same payload in, same tables out.
func Bootstrap(b *fpl.BootstrapStatic) ([]Table, error) {
	players := make([]Row, 0, len(b.Elements))
	for _, e := range b.Elements {
		row, err := playerRow(e)
		if err != nil {
			return nil, err
		}
		players = append(players, row)
	}

	teams := make([]Row, 0, len(b.Teams))
	for _, t := range b.Teams {
		if t.ID == 0 {
			return nil, mismatch(TableTeams, "id", "missing team id")
		}
		teams = append(teams, TeamRow(t))
	}

	events := make([]Row, 0, len(b.Events))
	for _, ev := range b.Events {
		if ev.ID == 0 {
			return nil, mismatch(TableEvents, "id", "missing event id")
		}
		events = append(events, EventRow(ev))
	}

	kinds := make([]Row, 0, len(b.ElementTypes))
	for _, et := range b.ElementTypes {
		if et.ID == 0 {
			return nil, mismatch(TableElementTypes, "id", "missing element_type id")
		}
		kinds = append(kinds, ElementTypeRow(et))
	}

	return []Table{
		{Name: TablePlayers, Rows: dedupe(players)},
		{Name: TableTeams, Rows: dedupe(teams)},
		{Name: TableEvents, Rows: dedupe(events)},
		{Name: TableElementTypes, Rows: dedupe(kinds)},
	}, nil
}

func playerRow(e fpl.Element) (PlayerRow, error) {
	if e.ID == 0 {
		return PlayerRow{}, mismatch(TablePlayers, "id", "missing element id")
	}
	if e.Team == 0 {
		return PlayerRow{}, mismatch(TablePlayers, "team", "element %d has no team", e.ID)
	}
	row := PlayerRow{
		ID:              e.ID,
		Code:            e.Code,
		FirstName:       e.FirstName,
		SecondName:      e.SecondName,
		WebName:         e.WebName,
		Team:            e.Team,
		TeamCode:        e.TeamCode,
		ElementType:     e.ElementType,
		Status:          e.Status,
		NowCost:         e.NowCost,
		TotalPoints:     e.TotalPoints,
		Minutes:         e.Minutes,
		GoalsScored:     e.GoalsScored,
		Assists:         e.Assists,
		CleanSheets:     e.CleanSheets,
		GoalsConceded:   e.GoalsConceded,
		OwnGoals:        e.OwnGoals,
		PenaltiesSaved:  e.PenaltiesSaved,
		PenaltiesMissed: e.PenaltiesMissed,
		YellowCards:     e.YellowCards,
		RedCards:        e.RedCards,
		Saves:           e.Saves,
		Bonus:           e.Bonus,
		BPS:             e.BPS,
		TransfersIn:     e.TransfersIn,
		TransfersOut:    e.TransfersOut,
	}
	var err error
	for _, f := range []struct {
		name string
		src  string
		dst  *float64
	}{
		{"form", e.Form, &row.Form},
		{"points_per_game", e.PointsPerGame, &row.PointsPerGame},
		{"selected_by_percent", e.SelectedByPercent, &row.SelectedByPercent},
		{"influence", e.Influence, &row.Influence},
		{"creativity", e.Creativity, &row.Creativity},
		{"threat", e.Threat, &row.Threat},
		{"ict_index", e.ICTIndex, &row.ICTIndex},
	} {
		if *f.dst, err = floatField(TablePlayers, f.name, f.src); err != nil {
			return PlayerRow{}, err
		}
	}
	return row, nil
}

// floatField coerces the FPL API's decimal-string fields. The API serves ""
// for a player with no data yet; that lands as 0.
func floatField(table, field, s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, mismatch(table, field, "cannot coerce %q to float", s)
	}
	return f, nil
}
