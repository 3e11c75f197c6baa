package schedule

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestDecodeHour(t *testing.T) {
	tests := []struct {
		name       string
		firstHalf  bool
		secondHalf bool
		want       HourState
	}{
		{"both halves out", true, true, StateNo},
		{"first half out", true, false, StateFirst},
		{"second half out", false, true, StateSecond},
		{"no outage", false, false, StateYes},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DecodeHour(tt.firstHalf, tt.secondHalf); got != tt.want {
				t.Errorf("DecodeHour(%v, %v) = %q, want %q", tt.firstHalf, tt.secondHalf, got, tt.want)
			}
		})
	}
}

func TestSeverityOrdering(t *testing.T) {
	if !(Severity(StateNo) > Severity(StateFirst)) {
		t.Error("no must outrank first")
	}
	if Severity(StateFirst) != Severity(StateSecond) {
		t.Error("first and second must tie")
	}
	if !(Severity(StateFirst) > Severity(StateMaybe)) {
		t.Error("first must outrank maybe")
	}
	if Severity(StateMaybe) != Severity(StateMaybeFirst) || Severity(StateMaybe) != Severity(StateMaybeSecond) {
		t.Error("the maybe family must tie")
	}
	if !(Severity(StateMaybe) > Severity(StateYes)) {
		t.Error("maybe must outrank yes")
	}
	if Severity(HourState("bogus")) != 0 {
		t.Error("unknown symbols must rank as no outage")
	}
}

func TestNormalize(t *testing.T) {
	for _, s := range AllStates {
		if s.Normalize() != s {
			t.Errorf("Normalize(%q) changed a valid symbol", s)
		}
	}
	if HourState("off").Normalize() != StateYes {
		t.Error("unknown symbol must normalize to yes")
	}
	if HourState("").Normalize() != StateYes {
		t.Error("empty symbol must normalize to yes")
	}
}

func TestBuildGroupSchedule(t *testing.T) {
	t.Run("alternating flags decode to first", func(t *testing.T) {
		flags := make([]bool, SamplesPerDay)
		for i := 0; i < SamplesPerDay; i += 2 {
			flags[i] = true
		}

		gs, err := BuildGroupSchedule("GPV1.1", flags)
		if err != nil {
			t.Fatalf("BuildGroupSchedule failed: %v", err)
		}
		for h := 1; h <= HoursPerDay; h++ {
			if got := gs.State(h); got != StateFirst {
				t.Errorf("hour %d = %q, want %q", h, got, StateFirst)
			}
		}
	})

	t.Run("wrong sample count defaults to all yes", func(t *testing.T) {
		gs, err := BuildGroupSchedule("GPV2.1", make([]bool, 40))

		var sampleErr *InvalidSampleCountError
		if !errors.As(err, &sampleErr) {
			t.Fatalf("expected InvalidSampleCountError, got %v", err)
		}
		if sampleErr.Got != 40 || sampleErr.Group != "GPV2.1" {
			t.Errorf("unexpected error detail: %+v", sampleErr)
		}
		if len(gs) != HoursPerDay {
			t.Fatalf("fallback schedule has %d hours, want %d", len(gs), HoursPerDay)
		}
		for h := 1; h <= HoursPerDay; h++ {
			if gs.State(h) != StateYes {
				t.Errorf("fallback hour %d = %q, want yes", h, gs.State(h))
			}
		}
	})

	t.Run("full and half outages", func(t *testing.T) {
		flags := make([]bool, SamplesPerDay)
		flags[8] = true  // hour 5, first half
		flags[9] = true  // hour 5, second half
		flags[21] = true // hour 11, second half

		gs, err := BuildGroupSchedule("GPV1.1", flags)
		if err != nil {
			t.Fatalf("BuildGroupSchedule failed: %v", err)
		}
		if gs.State(5) != StateNo {
			t.Errorf("hour 5 = %q, want no", gs.State(5))
		}
		if gs.State(11) != StateSecond {
			t.Errorf("hour 11 = %q, want second", gs.State(11))
		}
		if gs.State(1) != StateYes {
			t.Errorf("hour 1 = %q, want yes", gs.State(1))
		}
	})
}

func TestAssembleDay(t *testing.T) {
	groups := []GroupSamples{
		{Group: "GPV1.1", Flags: make([]bool, SamplesPerDay)},
		{Group: "GPV1.2", Flags: make([]bool, 40)},
		{Group: "GPV2.1", Flags: nil},
	}

	day, malformed := AssembleDay(groups)
	if malformed != 2 {
		t.Errorf("malformed = %d, want 2", malformed)
	}
	if len(day) != 3 {
		t.Fatalf("day has %d groups, want 3", len(day))
	}
	for _, g := range []string{"GPV1.2", "GPV2.1"} {
		for h := 1; h <= HoursPerDay; h++ {
			if day[g].State(h) != StateYes {
				t.Errorf("%s hour %d = %q, want yes fallback", g, h, day[g].State(h))
			}
		}
	}
}

func TestGroupScheduleAccessors(t *testing.T) {
	gs := GroupSchedule{"5": StateNo, "6": HourState("glitch")}

	if gs.State(5) != StateNo {
		t.Errorf("State(5) = %q, want no", gs.State(5))
	}
	if gs.State(6) != StateYes {
		t.Errorf("State(6) = %q, want yes after normalization", gs.State(6))
	}
	if gs.State(7) != StateYes {
		t.Errorf("State(7) = %q, want yes for missing key", gs.State(7))
	}

	raw, ok := gs.Raw(6)
	if !ok || raw != HourState("glitch") {
		t.Errorf("Raw(6) = %q, %v; want raw symbol present", raw, ok)
	}
	if _, ok := gs.Raw(7); ok {
		t.Error("Raw(7) must report absence")
	}
}

func TestFactDataDays(t *testing.T) {
	d := FactData{
		"1765231200": {},
		"1765144800": {},
	}
	days := d.Days()
	if len(days) != 2 || days[0] != "1765144800" || days[1] != "1765231200" {
		t.Errorf("Days() = %v, want ascending timestamps", days)
	}
}

func TestFactDataEqual(t *testing.T) {
	a := FactData{"1765144800": {"GPV1.1": {"1": StateNo}}}
	b := FactData{"1765144800": {"GPV1.1": {"1": StateNo}}}
	c := FactData{"1765144800": {"GPV1.1": {"1": StateYes}}}

	if !a.Equal(b) {
		t.Error("identical payloads must compare equal")
	}
	if a.Equal(c) {
		t.Error("differing payloads must not compare equal")
	}
	if !(FactData{}).Equal(nil) {
		t.Error("empty and nil payloads must compare equal")
	}
}

func TestSortedGroups(t *testing.T) {
	day := DaySchedule{
		"GPV10.1": {},
		"GPV2.2":  {},
		"GPV2.1":  {},
		"GPV1.1":  {},
		"exotic":  {},
	}
	got := day.SortedGroups()
	want := []string{"GPV1.1", "GPV2.1", "GPV2.2", "GPV10.1", "exotic"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("SortedGroups() = %v, want %v", got, want)
		}
	}
}

func TestSnapshotJSONShape(t *testing.T) {
	now := time.Date(2025, 12, 8, 6, 54, 55, 423_000_000, time.UTC)
	snap := NewSnapshot("Zhytomyr", FactData{
		"1765144800": {"GPV1.1": AllYes()},
	}, "08:30 08.12.2025", 1765144800, now)

	raw, err := json.Marshal(snap)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	out := string(raw)

	for _, key := range []string{
		`"regionId":"Zhytomyr"`,
		`"lastUpdated":"2025-12-08T06:54:55.423Z"`,
		`"update":"08:30 08.12.2025"`,
		`"today":1765144800`,
		`"time_type"`,
		`"time_zone"`,
	} {
		if !strings.Contains(out, key) {
			t.Errorf("snapshot JSON missing %s", key)
		}
	}

	var back Snapshot
	if err := json.Unmarshal(raw, &back); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if back.Fact.Data["1765144800"]["GPV1.1"].State(1) != StateYes {
		t.Error("round-tripped schedule lost state data")
	}
}

func TestDefaultPreset(t *testing.T) {
	p := DefaultPreset()
	if len(p.TimeZone) != HoursPerDay {
		t.Fatalf("time_zone has %d entries, want %d", len(p.TimeZone), HoursPerDay)
	}
	slot := p.TimeZone["1"]
	if len(slot) != 3 || slot[0] != "00-01" || slot[1] != "00:00" || slot[2] != "01:00" {
		t.Errorf("time_zone[1] = %v", slot)
	}
	if p.TimeType["no"] == "" || p.TimeType["yes"] == "" {
		t.Error("time_type must carry the published labels")
	}
}
