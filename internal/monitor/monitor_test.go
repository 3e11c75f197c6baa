package monitor

import (
	"testing"

	"github.com/gpv-watch/gpvwatch/internal/schedule"
)

func TestClassifyNoBaseline(t *testing.T) {
	for _, s := range schedule.AllStates {
		if got := Classify("", false, s); got != Same {
			t.Errorf("Classify(absent, %q) = %q, want same", s, got)
		}
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		old  schedule.HourState
		new  schedule.HourState
		want ChangeKind
	}{
		{"yes to no is worse", schedule.StateYes, schedule.StateNo, Worse},
		{"no to yes is better", schedule.StateNo, schedule.StateYes, Better},
		{"yes to maybe is worse", schedule.StateYes, schedule.StateMaybe, Worse},
		{"first to no is worse", schedule.StateFirst, schedule.StateNo, Worse},
		{"no to first is better", schedule.StateNo, schedule.StateFirst, Better},
		{"first to second ties", schedule.StateFirst, schedule.StateSecond, Same},
		{"maybe family ties", schedule.StateMaybe, schedule.StateMaybeFirst, Same},
		{"unchanged", schedule.StateNo, schedule.StateNo, Same},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.old, true, tt.new); got != tt.want {
				t.Errorf("Classify(%q, %q) = %q, want %q", tt.old, tt.new, got, tt.want)
			}
		})
	}
}

// Classifications of (A,B) and (B,A) must never agree on a direction.
func TestClassifySymmetry(t *testing.T) {
	for _, a := range schedule.AllStates {
		for _, b := range schedule.AllStates {
			forward := Classify(a, true, b)
			backward := Classify(b, true, a)

			if forward == Worse && backward != Better {
				t.Errorf("(%q,%q)=worse but (%q,%q)=%q", a, b, b, a, backward)
			}
			if forward == Better && backward != Worse {
				t.Errorf("(%q,%q)=better but (%q,%q)=%q", a, b, b, a, backward)
			}
			if forward == Same && backward != Same {
				t.Errorf("(%q,%q)=same but (%q,%q)=%q", a, b, b, a, backward)
			}
		}
	}
}

func dayWith(hour string, state schedule.HourState) schedule.DaySchedule {
	gs := schedule.AllYes()
	gs[hour] = state
	return schedule.DaySchedule{"GPV1.1": gs}
}

func TestDiffWorseHour(t *testing.T) {
	prev := schedule.FactData{"1765144800": dayWith("5", schedule.StateYes)}
	cur := schedule.FactData{"1765144800": dayWith("5", schedule.StateNo)}

	report := Diff(prev, cur)

	if report.Worse != 1 || report.Better != 0 {
		t.Fatalf("worse=%d better=%d, want 1/0", report.Worse, report.Better)
	}
	if !report.HasChanges() {
		t.Error("HasChanges() must be true")
	}
	if report.First == nil {
		t.Fatal("First must be reported")
	}
	if report.First.Hour != "5" || report.First.Old != schedule.StateYes || report.First.New != schedule.StateNo || report.First.Kind != Worse {
		t.Errorf("unexpected first change: %+v", report.First)
	}
	if got := report.Tags.Get("1765144800", "GPV1.1", "5"); got != Worse {
		t.Errorf("tag = %q, want worse", got)
	}
	if got := report.Tags.Get("1765144800", "GPV1.1", "6"); got != Same {
		t.Errorf("untouched hour tagged %q", got)
	}
	if report.ID == "" {
		t.Error("report must carry an ID")
	}
}

func TestDiffFirstRunProducesNoSignal(t *testing.T) {
	cur := schedule.FactData{"1765144800": dayWith("5", schedule.StateNo)}

	report := Diff(nil, cur)

	if report.HasChanges() {
		t.Errorf("first run flagged worse=%d better=%d, want none", report.Worse, report.Better)
	}
	if report.First != nil {
		t.Errorf("first run reported a change: %+v", report.First)
	}
}

func TestDiffMissingGroupAndDay(t *testing.T) {
	prev := schedule.FactData{
		"1765144800": {"GPV1.1": schedule.AllYes()},
	}
	cur := schedule.FactData{
		"1765144800": {
			"GPV1.1": schedule.AllYes(),
			"GPV1.2": dayWith("3", schedule.StateNo)["GPV1.1"],
		},
		"1765231200": dayWith("3", schedule.StateNo),
	}

	report := Diff(prev, cur)
	if report.HasChanges() {
		t.Errorf("hours without baseline flagged worse=%d better=%d", report.Worse, report.Better)
	}
}

func TestDiffMissingHourInBaseline(t *testing.T) {
	// Baseline group exists but lacks hour 5; only hour 7 moved.
	prevHours := schedule.GroupSchedule{"7": schedule.StateNo}
	curHours := schedule.AllYes()
	curHours["5"] = schedule.StateNo

	prev := schedule.FactData{"1765144800": {"GPV1.1": prevHours}}
	cur := schedule.FactData{"1765144800": {"GPV1.1": curHours}}

	report := Diff(prev, cur)

	if report.Worse != 0 {
		t.Errorf("worse=%d, want 0 (hour 5 has no baseline)", report.Worse)
	}
	if report.Better != 1 {
		t.Errorf("better=%d, want 1 (hour 7 cleared)", report.Better)
	}
}

func TestDiffFirstChangeOrder(t *testing.T) {
	// Changes in two groups; the lower queue number must be reported first.
	prev := schedule.FactData{"1765144800": {
		"GPV1.1": schedule.AllYes(),
		"GPV2.1": schedule.AllYes(),
	}}
	curG1 := schedule.AllYes()
	curG1["10"] = schedule.StateNo
	curG2 := schedule.AllYes()
	curG2["2"] = schedule.StateNo
	cur := schedule.FactData{"1765144800": {
		"GPV1.1": curG1,
		"GPV2.1": curG2,
	}}

	report := Diff(prev, cur)
	if report.Worse != 2 {
		t.Fatalf("worse=%d, want 2", report.Worse)
	}
	if report.First.Group != "GPV1.1" || report.First.Hour != "10" {
		t.Errorf("first change = %s/%s, want GPV1.1/10", report.First.Group, report.First.Hour)
	}
}

func TestDiffNormalizesUnknownSymbols(t *testing.T) {
	prevHours := schedule.AllYes()
	prevHours["4"] = "corrupted"
	curHours := schedule.AllYes()
	curHours["4"] = schedule.StateYes

	prev := schedule.FactData{"1765144800": {"GPV1.1": prevHours}}
	cur := schedule.FactData{"1765144800": {"GPV1.1": curHours}}

	if report := Diff(prev, cur); report.HasChanges() {
		t.Error("unknown baseline symbol must read as yes, not as a change")
	}
}
