package normalize

import (
	"github.com/Mattanalytix/fantasy-football-connector/internal/fpl"
)

// ElementSummary normalizes one player's summary into current-season history
// rows and past-season rows.
//
// A player whose every current-season entry shows zero minutes (or who has
// no entries at all) never played; such a player is excluded entirely, past
// seasons included. One nonzero-minutes entry retains the player in full.
func ElementSummary(elementID int, s *fpl.ElementSummary) (history []Row, past []Row, err error) {
	played := false
	for _, h := range s.History {
		if h.Minutes > 0 {
			played = true
			break
		}
	}
	if !played {
		return nil, nil, nil
	}

	history = make([]Row, 0, len(s.History))
	for _, h := range s.History {
		if h.Fixture == 0 {
			return nil, nil, mismatch(TableHistory, "fixture", "element %d entry has no fixture id", elementID)
		}
		row := HistoryRow{
			Element:          elementID,
			Fixture:          h.Fixture,
			Round:            h.Round,
			OpponentTeam:     h.OpponentTeam,
			WasHome:          h.WasHome,
			KickoffTime:      h.KickoffTime,
			TotalPoints:      h.TotalPoints,
			Minutes:          h.Minutes,
			GoalsScored:      h.GoalsScored,
			Assists:          h.Assists,
			CleanSheets:      h.CleanSheets,
			GoalsConceded:    h.GoalsConceded,
			OwnGoals:         h.OwnGoals,
			PenaltiesSaved:   h.PenaltiesSaved,
			PenaltiesMissed:  h.PenaltiesMissed,
			YellowCards:      h.YellowCards,
			RedCards:         h.RedCards,
			Saves:            h.Saves,
			Bonus:            h.Bonus,
			BPS:              h.BPS,
			Value:            h.Value,
			Selected:         h.Selected,
			TransfersIn:      h.TransfersIn,
			TransfersOut:     h.TransfersOut,
			TransfersBalance: h.TransfersBalance,
		}
		// the API reports the element id inside each entry too; prefer it
		// when present so a misrouted payload surfaces as a key, not a lie
		if h.Element != 0 {
			row.Element = h.Element
		}
		for _, f := range []struct {
			name string
			src  string
			dst  *float64
		}{
			{"influence", h.Influence, &row.Influence},
			{"creativity", h.Creativity, &row.Creativity},
			{"threat", h.Threat, &row.Threat},
			{"ict_index", h.ICTIndex, &row.ICTIndex},
		} {
			if *f.dst, err = floatField(TableHistory, f.name, f.src); err != nil {
				return nil, nil, err
			}
		}
		history = append(history, row)
	}

	past = make([]Row, 0, len(s.HistoryPast))
	for _, p := range s.HistoryPast {
		if p.SeasonName == "" {
			return nil, nil, mismatch(TableHistoryPast, "season_name", "element %d past entry has no season", elementID)
		}
		row := PastSeasonRow{
			Element:       elementID,
			SeasonName:    p.SeasonName,
			ElementCode:   p.ElementCode,
			StartCost:     p.StartCost,
			EndCost:       p.EndCost,
			TotalPoints:   p.TotalPoints,
			Minutes:       p.Minutes,
			GoalsScored:   p.GoalsScored,
			Assists:       p.Assists,
			CleanSheets:   p.CleanSheets,
			GoalsConceded: p.GoalsConceded,
			YellowCards:   p.YellowCards,
			RedCards:      p.RedCards,
			Saves:         p.Saves,
			Bonus:         p.Bonus,
			BPS:           p.BPS,
		}
		for _, f := range []struct {
			name string
			src  string
			dst  *float64
		}{
			{"influence", p.Influence, &row.Influence},
			{"creativity", p.Creativity, &row.Creativity},
			{"threat", p.Threat, &row.Threat},
			{"ict_index", p.ICTIndex, &row.ICTIndex},
		} {
			if *f.dst, err = floatField(TableHistoryPast, f.name, f.src); err != nil {
				return nil, nil, err
			}
		}
		past = append(past, row)
	}

	return dedupe(history), dedupe(past), nil
}
