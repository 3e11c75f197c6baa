// Package monitor compares two schedule snapshots and classifies every hour
// as worse, better, or same using the severity ranking.
//
// The single most important contract here: an hour with no prior data is
// never classified as a change. Comparing against a default would flag every
// first-run hour as an "improvement".
package monitor

import (
	"time"

	"github.com/google/uuid"

	"github.com/gpv-watch/gpvwatch/internal/schedule"
)

// ChangeKind classifies one hour's movement between two snapshots.
type ChangeKind string

const (
	// Worse means the new state has strictly higher severity.
	Worse ChangeKind = "worse"
	// Better means the new state has strictly lower severity.
	Better ChangeKind = "better"
	// Same means equal severity, or no baseline to compare against.
	Same ChangeKind = "same"
)

// Classify compares one hour's old and new states. oldPresent is false when
// the baseline has no data for this hour; that is a defined no-signal outcome,
// not an error, and always yields Same.
func Classify(old schedule.HourState, oldPresent bool, current schedule.HourState) ChangeKind {
	if !oldPresent {
		return Same
	}
	oldSev := schedule.Severity(old)
	newSev := schedule.Severity(current)
	switch {
	case newSev > oldSev:
		return Worse
	case newSev < oldSev:
		return Better
	default:
		return Same
	}
}

// HourChange identifies one classified hour, reported for observability.
type HourChange struct {
	Day   string
	Group string
	Hour  string
	Old   schedule.HourState
	New   schedule.HourState
	Kind  ChangeKind
}

// Tags holds the non-same classifications of a diff, keyed day → group →
// hour key. Hours absent from Tags showed no visible change.
type Tags map[string]map[string]map[string]ChangeKind

// Get returns the tag for one hour, or Same when none was recorded.
func (t Tags) Get(day, group, hourKey string) ChangeKind {
	if g, ok := t[day]; ok {
		if h, ok := g[group]; ok {
			if k, ok := h[hourKey]; ok {
				return k
			}
		}
	}
	return Same
}

func (t Tags) set(day, group, hourKey string, kind ChangeKind) {
	g, ok := t[day]
	if !ok {
		g = make(map[string]map[string]ChangeKind)
		t[day] = g
	}
	h, ok := g[group]
	if !ok {
		h = make(map[string]ChangeKind)
		g[group] = h
	}
	h[hourKey] = kind
}

// Report aggregates one whole-snapshot diff.
type Report struct {
	ID          string
	Worse       int
	Better      int
	Tags        Tags
	First       *HourChange
	GeneratedAt time.Time
}

// HasChanges reports whether any hour moved in either direction.
func (r *Report) HasChanges() bool {
	return r.Worse > 0 || r.Better > 0
}

// Diff walks the current fact data hour by hour against the previous one and
// classifies every hour. Iteration order is days ascending, groups in queue
// order, hours 1 through 24, so First is reproducible across runs. Days,
// groups, or hours missing from the baseline produce no signal.
func Diff(prev, cur schedule.FactData) *Report {
	report := &Report{
		ID:          uuid.New().String(),
		Tags:        make(Tags),
		GeneratedAt: time.Now(),
	}

	for _, day := range cur.Days() {
		daySchedule := cur[day]
		prevDay := prev[day]
		for _, group := range daySchedule.SortedGroups() {
			hours := daySchedule[group]
			var prevHours schedule.GroupSchedule
			if prevDay != nil {
				prevHours = prevDay[group]
			}
			for h := 1; h <= schedule.HoursPerDay; h++ {
				newState := hours.State(h)
				var oldState schedule.HourState
				oldPresent := false
				if prevHours != nil {
					if raw, ok := prevHours.Raw(h); ok {
						oldState = raw.Normalize()
						oldPresent = true
					}
				}

				kind := Classify(oldState, oldPresent, newState)
				if kind == Same {
					continue
				}

				key := schedule.HourKey(h)
				report.Tags.set(day, group, key, kind)
				if report.First == nil {
					report.First = &HourChange{
						Day:   day,
						Group: group,
						Hour:  key,
						Old:   oldState,
						New:   newState,
						Kind:  kind,
					}
				}
				if kind == Worse {
					report.Worse++
				} else {
					report.Better++
				}
			}
		}
	}

	return report
}
