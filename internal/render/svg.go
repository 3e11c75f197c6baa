package render

import (
	"html/template"
	"io"
)

// The renderer builds a flat display list and serializes it with a template.
// Paint order is rects, then grid lines, then text.

type rect struct {
	X, Y, W, H  int
	Fill        string
	Stroke      string
	StrokeWidth int
	Rx          int
}

type line struct {
	X1, Y1, X2, Y2 int
	Stroke         string
}

type text struct {
	X, Y    int
	Size    int
	Bold    bool
	Fill    string
	Anchor  string
	Content string
}

type document struct {
	Width, Height int
	Background    string
	Rects         []rect
	Lines         []line
	Texts         []text
}

func newDocument(width, height int) *document {
	return &document{Width: width, Height: height, Background: colorBackground}
}

func (d *document) addRect(r rect) {
	d.Rects = append(d.Rects, r)
}

func (d *document) addLine(l line) {
	d.Lines = append(d.Lines, l)
}

func (d *document) addText(t text) {
	if t.Fill == "" {
		t.Fill = colorText
	}
	d.Texts = append(d.Texts, t)
}

// fillRect is the common case of a filled box with a grid outline.
func (d *document) fillRect(x, y, w, h int, fill string) {
	d.addRect(rect{X: x, Y: y, W: w, H: h, Fill: fill, Stroke: colorGrid, StrokeWidth: 1})
}

// centeredText places s horizontally centered over [x, x+w) with the text
// baseline vertically centered in [y, y+h).
func (d *document) centeredText(s string, x, y, w, h, size int, bold bool) {
	d.addText(text{
		X:       x + w/2,
		Y:       y + h/2 + size*2/5,
		Size:    size,
		Bold:    bold,
		Anchor:  "middle",
		Content: s,
	})
}

var svgTmpl = template.Must(template.New("svg").Parse(`<svg xmlns="http://www.w3.org/2000/svg" width="{{.Width}}" height="{{.Height}}" viewBox="0 0 {{.Width}} {{.Height}}">
<rect width="{{.Width}}" height="{{.Height}}" fill="{{.Background}}"/>
{{- range .Rects}}
<rect x="{{.X}}" y="{{.Y}}" width="{{.W}}" height="{{.H}}" fill="{{.Fill}}"{{if .Stroke}} stroke="{{.Stroke}}" stroke-width="{{.StrokeWidth}}"{{end}}{{if .Rx}} rx="{{.Rx}}"{{end}}/>
{{- end}}
{{- range .Lines}}
<line x1="{{.X1}}" y1="{{.Y1}}" x2="{{.X2}}" y2="{{.Y2}}" stroke="{{.Stroke}}"/>
{{- end}}
{{- range .Texts}}
<text x="{{.X}}" y="{{.Y}}" font-family="DejaVu Sans, sans-serif" font-size="{{.Size}}"{{if .Bold}} font-weight="bold"{{end}} fill="{{.Fill}}"{{if .Anchor}} text-anchor="{{.Anchor}}"{{end}}>{{.Content}}</text>
{{- end}}
</svg>
`))

func (d *document) write(w io.Writer) error {
	return svgTmpl.Execute(w, d)
}
