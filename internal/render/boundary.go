package render

import "github.com/gpv-watch/gpvwatch/internal/schedule"

// Tone is an abstract display color for one half of an hour cell. The SVG
// layer maps tones to concrete colors.
type Tone int

const (
	// Available renders as the background "power on" color.
	Available Tone = iota
	// Outage renders as the outage fill.
	Outage
	// Possible renders as the possible-outage fill.
	Possible
)

// Neighbor-inclusion sets. Which neighbor states extend a half-state cell's
// opposite half is the one point the two legacy rule sets disagreed on; keep
// the membership here in one place.
var (
	// outageFamily is every symbol that is not plain availability. Consulted
	// only at the day edges, where both legacy rule sets agreed.
	outageFamily = map[schedule.HourState]bool{
		schedule.StateNo:          true,
		schedule.StateFirst:       true,
		schedule.StateSecond:      true,
		schedule.StateMaybe:       true,
		schedule.StateMaybeFirst:  true,
		schedule.StateMaybeSecond: true,
	}
	// continuesFirst extends a StateFirst cell's right half.
	continuesFirst = map[schedule.HourState]bool{
		schedule.StateNo:    true,
		schedule.StateFirst: true,
		schedule.StateMaybe: true,
	}
	// continuesSecond extends a StateSecond cell's left half.
	continuesSecond = map[schedule.HourState]bool{
		schedule.StateNo:     true,
		schedule.StateSecond: true,
		schedule.StateMaybe:  true,
	}
	// hardNextFirst extends a StateMaybeFirst cell's right half.
	hardNextFirst = map[schedule.HourState]bool{
		schedule.StateNo:    true,
		schedule.StateFirst: true,
	}
	// hardPrevSecond extends a StateMaybeSecond cell's left half.
	hardPrevSecond = map[schedule.HourState]bool{
		schedule.StateNo:     true,
		schedule.StateSecond: true,
	}
)

func inFamily(set map[schedule.HourState]bool, s *schedule.HourState) bool {
	return s != nil && set[*s]
}

// ResolveCell decides the left and right half colors of one hour cell from
// its own state and the raw states of the neighboring hours. prev and next
// are nil at the first and last hour of the day; there is no wraparound
// across days. The function is pure and total: unknown states resolve to
// Available on both halves, never an error.
//
// The half states need neighbor context because a lone half-outage should
// read as a short bar, while a half-outage that continues into the next hour
// should read as one uninterrupted bar across the cell border.
func ResolveCell(state schedule.HourState, prev, next *schedule.HourState) (left, right Tone) {
	switch state {
	case schedule.StateYes:
		return Available, Available

	case schedule.StateNo:
		return Outage, Outage

	case schedule.StateMaybe:
		return Possible, Possible

	case schedule.StateFirst:
		left = Outage
		right = Available
		if inFamily(continuesFirst, next) {
			right = Outage
		}
		return left, right

	case schedule.StateSecond:
		right = Outage
		left = Available
		if inFamily(continuesSecond, prev) {
			left = Outage
		}
		return left, right

	case schedule.StateMaybeFirst:
		left = Possible
		if next != nil {
			if inFamily(hardNextFirst, next) {
				right = Outage
			} else {
				right = Available
			}
			return left, right
		}
		// Last hour of the day: no next to consult, so the rule inverts and
		// reads the previous hour instead. A preceding outage means the
		// possible half is the tail end of it, leaving the second half clear.
		if inFamily(outageFamily, prev) {
			right = Available
		} else {
			right = Outage
		}
		return left, right

	case schedule.StateMaybeSecond:
		right = Possible
		if prev != nil {
			if inFamily(hardPrevSecond, prev) {
				left = Outage
			} else {
				left = Available
			}
			return left, right
		}
		// First hour of the day: mirror of the StateMaybeFirst edge rule.
		if inFamily(outageFamily, next) {
			left = Available
		} else {
			left = Outage
		}
		return left, right

	default:
		return Available, Available
	}
}
