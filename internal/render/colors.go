package render

import "github.com/gpv-watch/gpvwatch/internal/schedule"

// Concrete palette, carried over from the published grids.
const (
	colorBackground  = "#fafafa"
	colorTableBG     = "#ffffff"
	colorGrid        = "#8b8b8b"
	colorText        = "#000000"
	colorOutage      = "#93aad2"
	colorPossible    = "#ffdc73"
	colorAvailable   = "#ffffff"
	colorHeaderBG    = "#f5f7fa"
	colorFooter      = "#8c8c8c"
	colorWorse       = "#dc3545"
	colorBetter      = "#28a745"
	colorHighlightBG = "#ffdc73"
)

// Fill maps a tone to its SVG fill color.
func (t Tone) Fill() string {
	switch t {
	case Outage:
		return colorOutage
	case Possible:
		return colorPossible
	default:
		return colorAvailable
	}
}

// StateTone returns the whole-cell tone for a state, ignoring neighbors.
// Used for the legend, where half states show their dominant tone.
func StateTone(s schedule.HourState) Tone {
	switch s.Normalize() {
	case schedule.StateNo, schedule.StateFirst, schedule.StateSecond:
		return Outage
	case schedule.StateMaybe, schedule.StateMaybeFirst, schedule.StateMaybeSecond:
		return Possible
	default:
		return Available
	}
}

var stateLabels = map[schedule.HourState]string{
	schedule.StateYes:         "Світло є",
	schedule.StateNo:          "Світла немає",
	schedule.StateMaybe:       "Можливе відключення",
	schedule.StateFirst:       "Світла не буде перші 30 хв.",
	schedule.StateSecond:      "Світла не буде другі 30 хв.",
	schedule.StateMaybeFirst:  "Світла можливо не буде перші 30 хв.",
	schedule.StateMaybeSecond: "Світла можливо не буде другі 30 хв.",
}

// StateLabel returns the human label for a state, preferring the snapshot's
// pass-through preset over the built-in fallbacks.
func StateLabel(s schedule.HourState, preset schedule.Preset) string {
	if label, ok := preset.TimeType[string(s)]; ok {
		return label
	}
	if label, ok := stateLabels[s]; ok {
		return label
	}
	return "Невідомий стан"
}
