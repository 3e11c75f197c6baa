package schedule

import "fmt"

const (
	// HoursPerDay is the fixed number of hourly slots in a group schedule.
	HoursPerDay = 24
	// SamplesPerDay is the number of half-hour samples a group must provide.
	SamplesPerDay = 48
)

// InvalidSampleCountError reports a group whose raw half-hour sample sequence
// did not contain exactly SamplesPerDay entries. The group is unparseable;
// callers default it to an all-yes schedule rather than guessing.
type InvalidSampleCountError struct {
	Group string
	Got   int
}

func (e *InvalidSampleCountError) Error() string {
	return fmt.Sprintf("group %s: got %d half-hour samples, expected %d", e.Group, e.Got, SamplesPerDay)
}

// DecodeHour combines the two half-hour outage flags of one hour into a state.
// It only ever produces yes/no/first/second; the maybe family arrives through
// upstream metadata, never from color sampling.
func DecodeHour(firstHalf, secondHalf bool) HourState {
	switch {
	case firstHalf && secondHalf:
		return StateNo
	case firstHalf:
		return StateFirst
	case secondHalf:
		return StateSecond
	default:
		return StateYes
	}
}

// BuildGroupSchedule decodes 48 half-hour flags into a 24-hour schedule.
// When the sample count is wrong it returns an all-yes schedule together with
// an *InvalidSampleCountError so the caller can log the discrepancy and still
// render a valid grid.
func BuildGroupSchedule(group string, flags []bool) (GroupSchedule, error) {
	if len(flags) != SamplesPerDay {
		return AllYes(), &InvalidSampleCountError{Group: group, Got: len(flags)}
	}

	gs := make(GroupSchedule, HoursPerDay)
	for h := 1; h <= HoursPerDay; h++ {
		idx := (h - 1) * 2
		gs[HourKey(h)] = DecodeHour(flags[idx], flags[idx+1])
	}
	return gs, nil
}

// GroupSamples carries one group's raw half-hour flags, in slot order.
type GroupSamples struct {
	Group string
	Flags []bool
}

// AssembleDay builds a DaySchedule from raw per-group samples. Groups with a
// wrong sample count are kept as all-yes schedules; the returned count says
// how many were malformed so the caller can log it. Never fails.
func AssembleDay(groups []GroupSamples) (DaySchedule, int) {
	day := make(DaySchedule, len(groups))
	malformed := 0
	for _, g := range groups {
		gs, err := BuildGroupSchedule(g.Group, g.Flags)
		if err != nil {
			malformed++
		}
		day[g.Group] = gs
	}
	return day, malformed
}
