package normalize

import (
	"errors"
	"reflect"
	"testing"

	"github.com/Mattanalytix/fantasy-football-connector/internal/fpl"
)

func sampleBootstrap() *fpl.BootstrapStatic {
	return &fpl.BootstrapStatic{
		Events: []fpl.Event{
			{ID: 1, Name: "Gameweek 1", DeadlineTime: "2025-08-15T17:30:00Z", Finished: true},
		},
		Teams: []fpl.Team{
			{ID: 1, Name: "Arsenal", ShortName: "ARS", Strength: 5},
			{ID: 2, Name: "Chelsea", ShortName: "CHE", Strength: 4},
		},
		Elements: []fpl.Element{
			{ID: 101, Team: 1, WebName: "Saka", Form: "6.5", PointsPerGame: "5.8", SelectedByPercent: "45.2", Influence: "80.4", Creativity: "70.0", Threat: "60.1", ICTIndex: "21.0", Minutes: 180},
			{ID: 102, Team: 1, WebName: "Saliba", Form: "", Minutes: 180},
			{ID: 103, Team: 2, WebName: "Palmer", Form: "7.1", Minutes: 175},
		},
	}
}

func tableByName(t *testing.T, tables []Table, name string) Table {
	t.Helper()
	for _, tb := range tables {
		if tb.Name == name {
			return tb
		}
	}
	t.Fatalf("no table %q", name)
	return Table{}
}

func TestBootstrap_FlattensAllSections(t *testing.T) {
	tables, err := Bootstrap(sampleBootstrap())
	if err != nil {
		t.Fatalf("Bootstrap: %v", err)
	}

	// 3 players + 2 teams + 1 event, each in its own table
	players := tableByName(t, tables, TablePlayers)
	teams := tableByName(t, tables, TableTeams)
	events := tableByName(t, tables, TableEvents)
	if len(players.Rows)+len(teams.Rows)+len(events.Rows) != 6 {
		t.Fatalf("rows = %d+%d+%d, want 6", len(players.Rows), len(teams.Rows), len(events.Rows))
	}

	p := players.Rows[0].(PlayerRow)
	if p.ID != 101 || p.Team != 1 || p.WebName != "Saka" {
		t.Fatalf("player row: %+v", p)
	}
	if p.Form != 6.5 || p.SelectedByPercent != 45.2 || p.ICTIndex != 21.0 {
		t.Fatalf("coerced floats: %+v", p)
	}
	// empty decimal string coerces to 0
	if p2 := players.Rows[1].(PlayerRow); p2.Form != 0 {
		t.Fatalf("empty form = %v, want 0", p2.Form)
	}

	tm := teams.Rows[1].(TeamRow)
	if tm.ID != 2 || tm.ShortName != "CHE" {
		t.Fatalf("team row: %+v", tm)
	}
	ev := events.Rows[0].(EventRow)
	if ev.ID != 1 || ev.Name != "Gameweek 1" || !ev.Finished {
		t.Fatalf("event row: %+v", ev)
	}
}

func TestBootstrap_Deterministic(t *testing.T) {
	a, err := Bootstrap(sampleBootstrap())
	if err != nil {
		t.Fatal(err)
	}
	b, err := Bootstrap(sampleBootstrap())
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("two runs over the same payload differ")
	}
}

func TestBootstrap_DuplicateIDsCollapse(t *testing.T) {
	in := sampleBootstrap()
	in.Elements = append(in.Elements, in.Elements[0])
	tables, err := Bootstrap(in)
	if err != nil {
		t.Fatal(err)
	}
	if got := len(tableByName(t, tables, TablePlayers).Rows); got != 3 {
		t.Fatalf("players = %d, want 3 after dedupe", got)
	}
}

func TestBootstrap_SchemaMismatch(t *testing.T) {
	in := sampleBootstrap()
	in.Elements[2].Form = "n/a"
	_, err := Bootstrap(in)
	var pe *ProcessError
	if !errors.As(err, &pe) {
		t.Fatalf("want *ProcessError, got %v", err)
	}
	if pe.Table != TablePlayers || pe.Field != "form" {
		t.Fatalf("mismatch at %s.%s", pe.Table, pe.Field)
	}

	in = sampleBootstrap()
	in.Elements[0].Team = 0
	if _, err := Bootstrap(in); !errors.As(err, &pe) {
		t.Fatalf("missing team: want *ProcessError, got %v", err)
	}
}
