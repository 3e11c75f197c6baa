package schedule

import (
	"reflect"
	"regexp"
	"sort"
	"strconv"
	"time"
)

// GroupSchedule maps hour keys "1".."24" to hour states. A fully derived
// schedule has exactly 24 entries; missing keys read as StateYes.
type GroupSchedule map[string]HourState

// DaySchedule maps group ids to their schedules for one calendar day.
type DaySchedule map[string]GroupSchedule

// FactData maps day identifiers (stringified Unix timestamps of the day start
// in the publication timezone) to day schedules.
type FactData map[string]DaySchedule

// Fact is the schedule payload of a snapshot.
type Fact struct {
	Data   FactData `json:"data"`
	Update string   `json:"update"`
	Today  int64    `json:"today"`
}

// Preset carries pass-through display metadata. The core never interprets it.
type Preset struct {
	TimeZone map[string][]string `json:"time_zone"`
	TimeType map[string]string   `json:"time_type"`
}

// Snapshot is one published schedule plus metadata. Field names and JSON keys
// mirror the persisted legacy format exactly; existing consumers depend on them.
type Snapshot struct {
	RegionID    string `json:"regionId"`
	LastUpdated string `json:"lastUpdated"`
	Fact        Fact   `json:"fact"`
	Preset      Preset `json:"preset"`
}

// HourKey returns the 1-based string key for hour h.
func HourKey(h int) string {
	return strconv.Itoa(h)
}

// State returns the normalized state for hour h, defaulting to StateYes for
// missing keys and unknown symbols.
func (g GroupSchedule) State(h int) HourState {
	return g[HourKey(h)].Normalize()
}

// Raw returns the stored state for hour h and whether the key is present.
// Unlike State it does not normalize; the boundary resolver needs the raw
// neighbor symbol.
func (g GroupSchedule) Raw(h int) (HourState, bool) {
	s, ok := g[HourKey(h)]
	return s, ok
}

// AllYes returns a fully populated schedule with every hour available.
func AllYes() GroupSchedule {
	gs := make(GroupSchedule, HoursPerDay)
	for h := 1; h <= HoursPerDay; h++ {
		gs[HourKey(h)] = StateYes
	}
	return gs
}

// Days returns the day identifiers sorted ascending by timestamp value.
// Non-numeric keys sort after numeric ones, lexicographically.
func (d FactData) Days() []string {
	keys := make([]string, 0, len(d))
	for k := range d {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, aErr := strconv.ParseInt(keys[i], 10, 64)
		b, bErr := strconv.ParseInt(keys[j], 10, 64)
		if aErr == nil && bErr == nil {
			return a < b
		}
		if (aErr == nil) != (bErr == nil) {
			return aErr == nil
		}
		return keys[i] < keys[j]
	})
	return keys
}

// Equal reports whether two fact payloads carry identical schedules. Used to
// skip a full publish cycle when the source has not changed.
func (d FactData) Equal(other FactData) bool {
	if len(d) == 0 && len(other) == 0 {
		return true
	}
	return reflect.DeepEqual(d, other)
}

var groupIDRe = regexp.MustCompile(`^GPV(\d+)\.(\d+)$`)

// SortedGroups returns the day's group ids in queue order: numeric by the
// queue pair ("GPV3.2" sorts as 3,2), lexicographic for ids that do not match
// the pattern. The differ and both renderers iterate groups in this order so
// diagnostics stay reproducible.
func (d DaySchedule) SortedGroups() []string {
	ids := make([]string, 0, len(d))
	for id := range d {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		mi := groupIDRe.FindStringSubmatch(ids[i])
		mj := groupIDRe.FindStringSubmatch(ids[j])
		if mi != nil && mj != nil {
			qi, _ := strconv.Atoi(mi[1])
			qj, _ := strconv.Atoi(mj[1])
			if qi != qj {
				return qi < qj
			}
			si, _ := strconv.Atoi(mi[2])
			sj, _ := strconv.Atoi(mj[2])
			if si != sj {
				return si < sj
			}
			return ids[i] < ids[j]
		}
		if (mi != nil) != (mj != nil) {
			return mi != nil
		}
		return ids[i] < ids[j]
	})
	return ids
}

// DefaultPreset builds the pass-through display metadata published alongside
// every snapshot: hour-slot labels and the Ukrainian state descriptions.
func DefaultPreset() Preset {
	tz := make(map[string][]string, HoursPerDay)
	for h := 1; h <= HoursPerDay; h++ {
		tz[HourKey(h)] = []string{
			twoDigits(h-1) + "-" + twoDigits(h),
			twoDigits(h-1) + ":00",
			twoDigits(h) + ":00",
		}
	}
	return Preset{
		TimeZone: tz,
		TimeType: map[string]string{
			"yes":    "Світло є",
			"maybe":  "Можливе відключення",
			"no":     "Світла немає",
			"first":  "Світла не буде перші 30 хв.",
			"second": "Світла не буде другі 30 хв.",
		},
	}
}

func twoDigits(n int) string {
	if n < 10 {
		return "0" + strconv.Itoa(n)
	}
	return strconv.Itoa(n)
}

// lastUpdatedLayout is ISO-8601 UTC with millisecond precision, the exact
// format of the legacy feed's lastUpdated field.
const lastUpdatedLayout = "2006-01-02T15:04:05.000Z"

// NewSnapshot assembles a publishable snapshot from decoded day schedules.
func NewSnapshot(regionID string, data FactData, update string, today int64, now time.Time) *Snapshot {
	return &Snapshot{
		RegionID:    regionID,
		LastUpdated: now.UTC().Format(lastUpdatedLayout),
		Fact: Fact{
			Data:   data,
			Update: update,
			Today:  today,
		},
		Preset: DefaultPreset(),
	}
}
