package display

import (
	"io"

	"github.com/jedib0t/go-pretty/v6/table"

	"parkboard/internal/status"
)

// Surface renders a status payload. The engine never holds rendered state
// between cycles; each render fully overwrites the previous frame.
type Surface interface {
	Render(p status.Payload) error
}

// Text renders the payload as a boxed frame on a writer, truncating each line
// to the configured character width.
type Text struct {
	Out   io.Writer
	Width int
}

func (t Text) Render(p status.Payload) error {
	width := t.Width
	if width <= 0 {
		width = 20
	}
	tw := table.NewWriter()
	tw.SetOutputMirror(t.Out)
	tw.SetStyle(table.StyleLight)
	for _, line := range p.Lines() {
		tw.AppendRow(table.Row{Truncate(line, width)})
	}
	tw.Render()
	return nil
}

// Truncate cuts a line to at most width runes.
func Truncate(s string, width int) string {
	if width <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	return string(runes[:width])
}
