// Package schedule defines the outage-schedule domain model: the hour-state
// alphabet, the half-hour decoder, severity ranking, and the snapshot
// structures persisted between runs.
//
// Terminology (matching the source utility's naming):
//   - Group: a distribution queue such as "GPV1.1". Each group has its own
//     hourly schedule.
//   - Hour state: one of seven symbols describing availability for a clock
//     hour. Hour keys are 1-based strings "1".."24"; hour h spans [h-1, h).
//   - Snapshot: one full day×group×hour schedule plus metadata, the unit
//     compared across runs.
package schedule

// HourState describes power availability for one clock hour.
type HourState string

const (
	// StateYes means power is available for the whole hour.
	StateYes HourState = "yes"
	// StateNo means a full-hour outage.
	StateNo HourState = "no"
	// StateMaybe means a possible outage for the whole hour.
	StateMaybe HourState = "maybe"
	// StateFirst means an outage in the first half-hour only.
	StateFirst HourState = "first"
	// StateSecond means an outage in the second half-hour only.
	StateSecond HourState = "second"
	// StateMaybeFirst means a possible outage in the first half-hour only.
	StateMaybeFirst HourState = "mfirst"
	// StateMaybeSecond means a possible outage in the second half-hour only.
	StateMaybeSecond HourState = "msecond"
)

// AllStates lists the seven valid symbols in severity order.
var AllStates = []HourState{
	StateYes, StateMaybe, StateMaybeFirst, StateMaybeSecond,
	StateFirst, StateSecond, StateNo,
}

// Valid reports whether s is one of the seven known symbols.
func (s HourState) Valid() bool {
	switch s {
	case StateYes, StateNo, StateMaybe, StateFirst, StateSecond,
		StateMaybeFirst, StateMaybeSecond:
		return true
	}
	return false
}

// Normalize maps unknown symbols to StateYes. The whole pipeline fails open
// toward "no outage shown", so a corrupted symbol degrades to an optimistic
// display instead of an alarmist one.
func (s HourState) Normalize() HourState {
	if !s.Valid() {
		return StateYes
	}
	return s
}

var severityTable = map[HourState]int{
	StateYes:         0,
	StateMaybe:       2,
	StateMaybeFirst:  2,
	StateMaybeSecond: 2,
	StateFirst:       3,
	StateSecond:      3,
	StateNo:          4,
}

// Severity ranks how much outage a state represents. Higher is worse.
// Ties are intentional: the maybe family ranks equally, as do first/second.
// Unknown symbols rank as 0, the same as StateYes.
func Severity(s HourState) int {
	return severityTable[s]
}
