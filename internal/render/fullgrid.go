package render

import (
	"strings"
	"time"

	"github.com/gpv-watch/gpvwatch/internal/schedule"
)

// fullGrid lays out one date: every group as a row, 24 hour columns.
func (r *Renderer) fullGrid(snap *schedule.Snapshot, dayKey string, ts int64) *document {
	day := snap.Fact.Data[dayKey]
	groups := day.SortedGroups()
	nRows := len(groups)
	if nRows == 0 {
		nRows = 1
	}

	width := spacing*2 + fullLeftColW + schedule.HoursPerDay*cellW
	height := spacing*2 + headerH + fullHourRowH + nRows*cellH + fullLegendH + 40

	doc := newDocument(width, height)

	dateStr := time.Unix(ts, 0).In(r.loc).Format("02.01.2006")
	title := "Графік погодинних відключень на " + dateStr
	doc.centeredText(title, spacing, spacing, fullLeftColW+schedule.HoursPerDay*cellW, headerH, 34, true)

	tableX0 := spacing
	tableY0 := spacing + headerH + fullHourRowH + fullHeaderSpacing
	tableX1 := tableX0 + fullLeftColW + schedule.HoursPerDay*cellW
	tableY1 := tableY0 + nRows*cellH

	doc.fillRect(tableX0, tableY0, tableX1-tableX0, tableY1-tableY0, colorTableBG)
	hourHeader(doc, tableX0, tableY0-fullHourRowH, fullLeftColW, fullHourRowH, "Черга")

	for row, group := range groups {
		y := tableY0 + row*cellH
		doc.fillRect(tableX0, y, fullLeftColW, cellH, colorTableBG)
		doc.centeredText(strings.TrimSpace(strings.ReplaceAll(group, "GPV", "")), tableX0, y, fullLeftColW, cellH, 20, false)

		hours := day[group]
		for h := 1; h <= schedule.HoursPerDay; h++ {
			prev, next := neighborStates(hours, h)
			x := tableX0 + fullLeftColW + (h-1)*cellW
			splitCell(doc, x, y, hours.State(h), prev, next, "")
		}
	}

	for i := 0; i <= schedule.HoursPerDay; i++ {
		x := tableX0 + fullLeftColW + i*cellW
		doc.addLine(line{X1: x, Y1: tableY0 - fullHourRowH, X2: x, Y2: tableY1, Stroke: colorGrid})
	}
	for row := 0; row <= nRows; row++ {
		y := tableY0 + row*cellH
		doc.addLine(line{X1: tableX0, Y1: y, X2: tableX1, Y2: y, Stroke: colorGrid})
	}

	legend(doc, spacing, tableY1+15, 0, 0, snap.Preset)

	pub := publishedLabel(snap, r.loc)
	doc.addText(text{
		X:       width - spacing,
		Y:       tableY1 + 15 + 20 + 20,
		Size:    16,
		Fill:    colorFooter,
		Anchor:  "end",
		Content: pub,
	})

	return doc
}
