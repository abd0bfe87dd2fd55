package normalize

import (
	"errors"
	"testing"

	"github.com/Mattanalytix/fantasy-football-connector/internal/fpl"
)

func strp(s string) *string { return &s }
func intp(i int) *int       { return &i }

func TestFixtures_ResolvesTeamsAndKickoff(t *testing.T) {
	teams := []fpl.Team{
		{ID: 1, ShortName: "ARS"},
		{ID: 2, ShortName: "CHE"},
	}
	fixtures := []fpl.Fixture{
		{ID: 5, Event: intp(1), KickoffTime: strp("2025-08-16T14:00:00+01:00"), TeamH: 1, TeamA: 2, TeamHScore: intp(2), TeamAScore: intp(0), Finished: true},
		{ID: 6, TeamH: 2, TeamA: 1}, // unscheduled: no event, no kickoff
	}

	table, err := Fixtures(fixtures, teams)
	if err != nil {
		t.Fatalf("Fixtures: %v", err)
	}
	if len(table.Rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(table.Rows))
	}

	r := table.Rows[0].(FixtureRow)
	if r.TeamHName != "ARS" || r.TeamAName != "CHE" {
		t.Fatalf("team names: %+v", r)
	}
	if r.KickoffTime == nil || *r.KickoffTime != "2025-08-16T13:00:00Z" {
		t.Fatalf("kickoff not canonical UTC: %v", r.KickoffTime)
	}
	if r.TeamHScore == nil || *r.TeamHScore != 2 {
		t.Fatalf("score: %+v", r)
	}

	r2 := table.Rows[1].(FixtureRow)
	if r2.KickoffTime != nil || r2.Event != nil || r2.TeamHScore != nil {
		t.Fatalf("unscheduled fixture should keep nulls: %+v", r2)
	}
}

func TestFixtures_UnknownTeamIsMismatch(t *testing.T) {
	_, err := Fixtures([]fpl.Fixture{{ID: 5, TeamH: 1, TeamA: 9}}, []fpl.Team{{ID: 1, ShortName: "ARS"}})
	var pe *ProcessError
	if !errors.As(err, &pe) {
		t.Fatalf("want *ProcessError, got %v", err)
	}
	if pe.Field != "team_a" {
		t.Fatalf("mismatch field = %s", pe.Field)
	}
}

func TestFixtures_BadKickoffIsMismatch(t *testing.T) {
	_, err := Fixtures(
		[]fpl.Fixture{{ID: 5, TeamH: 1, TeamA: 1, KickoffTime: strp("yesterday")}},
		[]fpl.Team{{ID: 1, ShortName: "ARS"}},
	)
	var pe *ProcessError
	if !errors.As(err, &pe) {
		t.Fatalf("want *ProcessError, got %v", err)
	}
}
