package normalize

import (
	"time"

	"github.com/Mattanalytix/fantasy-football-connector/internal/fpl"
)

// Fixtures normalizes the match list, resolving team ids to short names via
// the bootstrap team index and coercing kickoff times to UTC RFC3339.
func Fixtures(fixtures []fpl.Fixture, teams []fpl.Team) (Table, error) {
	names := make(map[int]string, len(teams))
	for _, t := range teams {
		names[t.ID] = t.ShortName
	}

	rows := make([]Row, 0, len(fixtures))
	for _, f := range fixtures {
		if f.ID == 0 {
			return Table{}, mismatch(TableFixtures, "id", "missing fixture id")
		}
		hName, ok := names[f.TeamH]
		if !ok {
			return Table{}, mismatch(TableFixtures, "team_h", "fixture %d references unknown team %d", f.ID, f.TeamH)
		}
		aName, ok := names[f.TeamA]
		if !ok {
			return Table{}, mismatch(TableFixtures, "team_a", "fixture %d references unknown team %d", f.ID, f.TeamA)
		}

		var kickoff *string
		if f.KickoffTime != nil && *f.KickoffTime != "" {
			ts, err := time.Parse(time.RFC3339, *f.KickoffTime)
			if err != nil {
				return Table{}, mismatch(TableFixtures, "kickoff_time", "fixture %d: cannot parse %q", f.ID, *f.KickoffTime)
			}
			s := ts.UTC().Format(time.RFC3339)
			kickoff = &s
		}

		rows = append(rows, FixtureRow{
			ID:                  f.ID,
			Code:                f.Code,
			Event:               f.Event,
			KickoffTime:         kickoff,
			Started:             f.Started,
			Finished:            f.Finished,
			FinishedProvisional: f.FinishedProvisional,
			Minutes:             f.Minutes,
			TeamH:               f.TeamH,
			TeamHName:           hName,
			TeamHScore:          f.TeamHScore,
			TeamHDifficulty:     f.TeamHDifficulty,
			TeamA:               f.TeamA,
			TeamAName:           aName,
			TeamAScore:          f.TeamAScore,
			TeamADifficulty:     f.TeamADifficulty,
		})
	}

	return Table{Name: TableFixtures, Rows: dedupe(rows)}, nil
}
