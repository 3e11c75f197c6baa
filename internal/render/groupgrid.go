package render

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gpv-watch/gpvwatch/internal/monitor"
	"github.com/gpv-watch/gpvwatch/internal/schedule"
)

// groupGrid lays out one group over up to two dates (today and tomorrow as
// rows), with changed hours outlined in the worse/better colors.
func (r *Renderer) groupGrid(snap *schedule.Snapshot, group string, dayKeys []string, tags monitor.Tags) *document {
	nRows := len(dayKeys)
	if nRows == 0 {
		nRows = 1
	}

	width := spacing*2 + groupLeftColW + schedule.HoursPerDay*cellW
	height := spacing*2 + headerH + groupHourRowH + nRows*cellH + groupLegendH + 40 + groupHeaderSpacing

	doc := newDocument(width, height)

	doc.addText(text{X: spacing, Y: spacing + 30, Size: 36, Bold: true, Content: "Графік відключень:"})
	r.groupTitlePill(doc, group, width)

	tableX0 := spacing
	tableY0 := spacing + headerH + groupHourRowH + groupHeaderSpacing
	tableX1 := tableX0 + groupLeftColW + schedule.HoursPerDay*cellW
	tableY1 := tableY0 + nRows*cellH

	hourHeader(doc, tableX0, tableY0-groupHourRowH, groupLeftColW, groupHourRowH, "Дата")

	worse, better := 0, 0
	for row, dayKey := range dayKeys {
		y := tableY0 + row*cellH
		doc.fillRect(tableX0, y, groupLeftColW, cellH, colorTableBG)
		doc.centeredText(r.dateLabel(dayKey), tableX0, y, groupLeftColW, cellH, 20, false)

		hours := snap.Fact.Data[dayKey][group]
		for h := 1; h <= schedule.HoursPerDay; h++ {
			key := schedule.HourKey(h)
			tag := tags.Get(dayKey, group, key)
			switch tag {
			case monitor.Worse:
				worse++
			case monitor.Better:
				better++
			}

			prev, next := neighborStates(hours, h)
			x := tableX0 + groupLeftColW + (h-1)*cellW
			splitCell(doc, x, y, hours.State(h), prev, next, tag)
		}
	}

	for i := 0; i <= schedule.HoursPerDay; i++ {
		x := tableX0 + groupLeftColW + i*cellW
		doc.addLine(line{X1: x, Y1: tableY0 - groupHourRowH, X2: x, Y2: tableY1, Stroke: colorGrid})
	}
	for row := 0; row <= nRows; row++ {
		y := tableY0 + row*cellH
		doc.addLine(line{X1: tableX0, Y1: y, X2: tableX1, Y2: y, Stroke: colorGrid})
	}

	legend(doc, spacing, tableY1+15, worse, better, snap.Preset)
	r.groupFooter(doc, snap, width, tableY1+groupLegendH)

	return doc
}

func (r *Renderer) groupTitlePill(doc *document, group string, width int) {
	title := "Черга " + strings.ReplaceAll(group, "GPV", "")
	w := approxTextWidth(title, 36) + 24
	x1 := width - spacing
	x0 := x1 - w
	doc.addRect(rect{X: x0, Y: spacing, W: w, H: headerH + 10, Fill: colorHighlightBG, Stroke: colorText, StrokeWidth: 3, Rx: 20})
	doc.centeredText(title, x0, spacing, w, headerH+10, 36, true)
}

// dateLabel formats a day key as "08 грудня" in the publication timezone.
func (r *Renderer) dateLabel(dayKey string) string {
	ts, err := strconv.ParseInt(dayKey, 10, 64)
	if err != nil {
		return dayKey
	}
	t := time.Unix(ts, 0).In(r.loc)
	return fmt.Sprintf("%02d %s", t.Day(), ukMonths[t.Month()-1])
}

var footerLines = []string{
	"Цей проєкт створено волонтерами для вас. Разом ми можемо зробити інформацію доступною для всіх.",
	"Помітили розбіжності між графіком та офіційним джерелом? Напишіть нам: https://t.me/OUTAGE_CHAT",
	"Офіційна спільнота проєкту: https://t.me/svitlobot_api",
}

func (r *Renderer) groupFooter(doc *document, snap *schedule.Snapshot, width, yBase int) {
	doc.addText(text{
		X:       width - spacing,
		Y:       yBase - 20,
		Size:    16,
		Fill:    colorFooter,
		Anchor:  "end",
		Content: publishedLabel(snap, r.loc),
	})

	for i, l := range footerLines {
		doc.addText(text{X: spacing, Y: yBase + i*22, Size: 16, Fill: colorFooter, Content: l})
	}
}
