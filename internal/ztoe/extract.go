package ztoe

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/gpv-watch/gpvwatch/internal/schedule"
)

// The page is a server-rendered table per date: one anchor per subgroup
// ("pidcherga") and 48 inline-styled half-hour cells per row. The markup is
// too irregular for a DOM walk to buy anything, so extraction is regex-based,
// mirroring the structure the source actually emits.
var (
	trRe        = regexp.MustCompile(`(?is)<tr[^>]*>.*?</tr>`)
	subgroupRe  = regexp.MustCompile(`pidcherga_id=(\d+)[^>]*><b[^>]*>(\d+\.\d+)</b>`)
	cellColorRe = regexp.MustCompile(`background:\s*#([0-9a-fA-F]{6})`)
	updateRe    = regexp.MustCompile(`Дата оновлення інформації\D*(\d{2}):(\d{2})\s*(\d{2})\.(\d{2})\.(\d{4})`)
)

// Outage color threshold: saturated red. Fixed perceptual constants, not
// configurable; output parity with the published grids depends on them.
const (
	redMin   = 200
	greenMax = 80
	blueMax  = 80
)

// IsOutageColor classifies a 6-digit hex color (no leading '#') as an outage
// cell. Anything that is not saturated red, including malformed values, reads
// as available.
func IsOutageColor(hexColor string) bool {
	c := strings.ToLower(hexColor)
	if len(c) != 6 {
		return false
	}
	r, err := strconv.ParseInt(c[0:2], 16, 0)
	if err != nil {
		return false
	}
	g, err := strconv.ParseInt(c[2:4], 16, 0)
	if err != nil {
		return false
	}
	b, err := strconv.ParseInt(c[4:6], 16, 0)
	if err != nil {
		return false
	}
	return r > redMin && g < greenMax && b < blueMax
}

// ExtractUpdateStamp pulls the page's "Дата оновлення інформації" stamp,
// normalized to "HH:MM dd.mm.yyyy". ok is false when the page carries none.
func ExtractUpdateStamp(html string) (stamp string, ok bool) {
	m := updateRe.FindStringSubmatch(html)
	if m == nil {
		return "", false
	}
	return fmt.Sprintf("%s:%s %s.%s.%s", m[1], m[2], m[3], m[4], m[5]), true
}

// ExtractDay extracts raw half-hour samples for every subgroup in the table
// published for the given date (formatted "dd.mm.yyyy"). Groups whose row is
// missing or short on cells are returned with the flags found so far; the
// decoder rejects wrong counts and the caller falls back per group. Returns
// nil when no table exists for the date.
func ExtractDay(html, dateStr string) []schedule.GroupSamples {
	tableRe := regexp.MustCompile(`(?is)<b[^>]*>` + regexp.QuoteMeta(dateStr) + `</b>.*?</table>`)
	table := tableRe.FindString(html)
	if table == "" {
		return nil
	}

	subgroups := subgroupRe.FindAllStringSubmatch(table, -1)
	if len(subgroups) == 0 {
		return nil
	}

	rows := trRe.FindAllString(table, -1)

	var out []schedule.GroupSamples
	for _, m := range subgroups {
		sub := m[2]
		gs := schedule.GroupSamples{Group: "GPV" + sub}

		row := findRowForSubgroup(rows, sub)
		if row != "" {
			gs.Flags = rowFlags(row)
		}
		out = append(out, gs)
	}
	return out
}

// findRowForSubgroup locates the <tr> whose label cell holds the subgroup
// number (">1.1<" or ">1.1</b>").
func findRowForSubgroup(rows []string, subgroup string) string {
	for _, row := range rows {
		if strings.Contains(row, ">"+subgroup+"<") || strings.Contains(row, ">"+subgroup+"</b>") {
			return row
		}
	}
	return ""
}

// rowFlags classifies the row's cell colors into half-hour outage flags.
// Extra styled cells past the 48 schedule slots are ignored.
func rowFlags(row string) []bool {
	cells := cellColorRe.FindAllStringSubmatch(row, -1)
	if len(cells) > schedule.SamplesPerDay {
		cells = cells[:schedule.SamplesPerDay]
	}
	flags := make([]bool, 0, len(cells))
	for _, c := range cells {
		flags = append(flags, IsOutageColor(c[1]))
	}
	return flags
}

// PageDate formats a day-start time the way the page labels its tables.
func PageDate(t time.Time) string {
	return t.Format("02.01.2006")
}
