// Package render turns a schedule snapshot into SVG grid images: one full
// grid per published date and one two-row grid per group with change
// highlights. The boundary resolver in this package owns the split-cell
// color decisions; everything else is geometry.
package render

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gpv-watch/gpvwatch/internal/monitor"
	"github.com/gpv-watch/gpvwatch/internal/schedule"
)

// Output file names, kept from the legacy pipeline (consumers link to them).
const (
	TodayFile    = "gpv-all-today.svg"
	TomorrowFile = "gpv-all-tomorrow.svg"
)

const secondsPerDay = 86400

// Geometry shared by both grid variants.
const (
	cellW   = 44
	cellH   = 36
	spacing = 60
	headerH = 34
)

// Full-grid geometry.
const (
	fullLeftColW      = 140
	fullHourRowH      = 90
	fullHeaderSpacing = 35
	fullLegendH       = 60
)

// Per-group grid geometry.
const (
	groupLeftColW      = 160
	groupHourRowH      = 70
	groupHeaderSpacing = 45
	groupLegendH       = 100
)

var ukMonths = [...]string{
	"січня", "лютого", "березня", "квітня", "травня", "червня",
	"липня", "серпня", "вересня", "жовтня", "листопада", "грудня",
}

// Renderer writes schedule grids into an output directory.
type Renderer struct {
	outDir string
	loc    *time.Location
}

// New creates a renderer. loc is the publication timezone used for date labels.
func New(outDir string, loc *time.Location) *Renderer {
	return &Renderer{outDir: outDir, loc: loc}
}

// TodayImage returns the path of the full grid for today.
func (r *Renderer) TodayImage() string {
	return filepath.Join(r.outDir, TodayFile)
}

// TomorrowImage returns the path of the full grid for tomorrow.
func (r *Renderer) TomorrowImage() string {
	return filepath.Join(r.outDir, TomorrowFile)
}

// GroupImage returns the path of the per-group grid for a group id.
func (r *Renderer) GroupImage(group string) string {
	safe := strings.ReplaceAll(strings.ReplaceAll(group, "GPV", ""), ".", "-")
	return filepath.Join(r.outDir, fmt.Sprintf("gpv-%s-emergency.svg", safe))
}

// RenderFull writes one full grid per published date and returns the file
// names it generated. Dates map to today/tomorrow files relative to the
// snapshot's own today timestamp; a stale tomorrow file left over from a
// previous run is removed when the source stops publishing a second day.
func (r *Renderer) RenderFull(snap *schedule.Snapshot) ([]string, error) {
	if err := os.MkdirAll(r.outDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create images dir: %w", err)
	}

	days := snap.Fact.Data.Days()
	if len(days) == 0 {
		return nil, fmt.Errorf("snapshot has no days to render")
	}

	var generated []string
	for _, dayKey := range days {
		ts, err := strconv.ParseInt(dayKey, 10, 64)
		if err != nil {
			continue
		}
		var name string
		switch (ts - snap.Fact.Today) / secondsPerDay {
		case 0:
			name = TodayFile
		case 1:
			name = TomorrowFile
		default:
			if len(days) > 1 {
				continue
			}
			name = TodayFile
		}

		doc := r.fullGrid(snap, dayKey, ts)
		if err := r.writeDoc(name, doc); err != nil {
			return generated, err
		}
		generated = append(generated, name)
	}

	if len(generated) == 0 {
		// Nothing matched today or tomorrow; publish the latest day as today
		// so the feed still shows a grid.
		dayKey := days[len(days)-1]
		ts, _ := strconv.ParseInt(dayKey, 10, 64)
		if err := r.writeDoc(TodayFile, r.fullGrid(snap, dayKey, ts)); err != nil {
			return nil, err
		}
		generated = append(generated, TodayFile)
	}

	if !contains(generated, TomorrowFile) {
		if err := os.Remove(r.TomorrowImage()); err != nil && !os.IsNotExist(err) {
			return generated, fmt.Errorf("failed to remove stale tomorrow grid: %w", err)
		}
	}

	return generated, nil
}

// RenderGroups writes one grid per group covering up to the first two
// published dates, outlining hours the diff tagged as worse or better.
func (r *Renderer) RenderGroups(snap *schedule.Snapshot, tags monitor.Tags) error {
	if err := os.MkdirAll(r.outDir, 0o755); err != nil {
		return fmt.Errorf("failed to create images dir: %w", err)
	}

	days := snap.Fact.Data.Days()
	if len(days) == 0 {
		return fmt.Errorf("snapshot has no days to render")
	}
	if len(days) > 2 {
		days = days[:2]
	}

	for _, group := range snap.Fact.Data[days[0]].SortedGroups() {
		doc := r.groupGrid(snap, group, days, tags)
		name := filepath.Base(r.GroupImage(group))
		if err := r.writeDoc(name, doc); err != nil {
			return err
		}
	}
	return nil
}

func (r *Renderer) writeDoc(name string, doc *document) error {
	path := filepath.Join(r.outDir, name)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", name, err)
	}
	if err := doc.write(f); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	return f.Close()
}

func contains(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}

// splitCell paints one hour cell, resolving its two half tones from the raw
// neighbor states and outlining it when the diff tagged the hour.
func splitCell(doc *document, x, y int, state schedule.HourState, prev, next *schedule.HourState, tag monitor.ChangeKind) {
	left, right := ResolveCell(state, prev, next)
	if left == right {
		doc.fillRect(x, y, cellW, cellH, left.Fill())
	} else {
		doc.addRect(rect{X: x, Y: y, W: cellW / 2, H: cellH, Fill: left.Fill()})
		doc.addRect(rect{X: x + cellW/2, Y: y, W: cellW - cellW/2, H: cellH, Fill: right.Fill()})
		doc.addRect(rect{X: x, Y: y, W: cellW, H: cellH, Fill: "none", Stroke: colorGrid, StrokeWidth: 1})
	}

	switch tag {
	case monitor.Worse:
		doc.addRect(rect{X: x + 1, Y: y + 1, W: cellW - 3, H: cellH - 3, Fill: "none", Stroke: colorWorse, StrokeWidth: 3})
	case monitor.Better:
		doc.addRect(rect{X: x + 1, Y: y + 1, W: cellW - 3, H: cellH - 3, Fill: "none", Stroke: colorBetter, StrokeWidth: 3})
	}
}

// neighborStates returns the raw previous and next hour states for hour h,
// nil at the day edges. Deriving them from the raw map (not the normalized
// accessor) keeps unknown symbols visible to the resolver's own defaulting.
func neighborStates(hours schedule.GroupSchedule, h int) (prev, next *schedule.HourState) {
	if h > 1 {
		if s, ok := hours.Raw(h - 1); ok {
			prev = &s
		}
	}
	if h < schedule.HoursPerDay {
		if s, ok := hours.Raw(h + 1); ok {
			next = &s
		}
	}
	return prev, next
}

// hourHeader draws the 24 hour-range columns plus the corner cell.
func hourHeader(doc *document, x0, y0, leftColW, rowH int, corner string) {
	doc.fillRect(x0, y0, leftColW, rowH, colorHeaderBG)
	doc.centeredText(corner, x0, y0, leftColW, rowH, 15, false)

	for h := 0; h < schedule.HoursPerDay; h++ {
		x := x0 + leftColW + h*cellW
		doc.fillRect(x, y0, cellW, rowH, colorHeaderBG)
		lineH := rowH / 3
		doc.centeredText(fmt.Sprintf("%02d", h), x, y0, cellW, lineH, 15, false)
		doc.centeredText("–", x, y0+lineH, cellW, lineH, 15, false)
		doc.centeredText(fmt.Sprintf("%02d", (h+1)%24), x, y0+2*lineH, cellW, lineH, 15, false)
	}
}

// legend draws the three color swatches and, when the diff found movement,
// the worse/better outline swatches.
func legend(doc *document, x0, y, worse, better int, preset schedule.Preset) {
	const boxSize = 20
	const gap = 15
	x := x0
	for _, s := range []schedule.HourState{schedule.StateYes, schedule.StateNo, schedule.StateMaybe} {
		doc.fillRect(x, y, boxSize, boxSize, StateTone(s).Fill())
		label := StateLabel(s, preset)
		doc.addText(text{X: x + boxSize + 4, Y: y + boxSize - 5, Size: 14, Content: label})
		x += boxSize + 4 + approxTextWidth(label, 14) + gap
	}

	if worse == 0 && better == 0 {
		return
	}
	x += gap * 2
	doc.addRect(rect{X: x, Y: y, W: boxSize, H: boxSize, Fill: colorTableBG, Stroke: colorWorse, StrokeWidth: 3})
	doc.addText(text{X: x + boxSize + 4, Y: y + boxSize - 5, Size: 14, Content: "Більше відключень"})
	x += boxSize + 4 + approxTextWidth("Більше відключень", 14) + gap
	doc.addRect(rect{X: x, Y: y, W: boxSize, H: boxSize, Fill: colorTableBG, Stroke: colorBetter, StrokeWidth: 3})
	doc.addText(text{X: x + boxSize + 4, Y: y + boxSize - 5, Size: 14, Content: "Менше відключень"})
}

// approxTextWidth estimates rendered width for legend layout. SVG text lays
// itself out, so only the swatch spacing needs the estimate.
func approxTextWidth(s string, size int) int {
	return len([]rune(s)) * size * 6 / 10
}

// publishedLabel picks the publication stamp for the footer.
func publishedLabel(snap *schedule.Snapshot, loc *time.Location) string {
	stamp := snap.Fact.Update
	if stamp == "" {
		stamp = snap.LastUpdated
	}
	if stamp == "" {
		stamp = time.Now().In(loc).Format("02.01.2006")
	}
	return "Опубліковано " + stamp
}
