// Package menu renders bot screens from a catalog snapshot and a decoded
// payload. It holds no state: everything needed for the next click travels
// in the button payloads.
package menu

import (
	"lecturebot/internal/payload"
	"strings"
)

// maxLabelLength is the longest button label, in runes, shown untruncated.
const maxLabelLength = 30

type Button struct {
	Label   string
	Payload payload.Payload
}

type Screen struct {
	Text     string
	Markdown bool
	Buttons  [][]Button
}

// AllButtons flattens the keyboard in display order.
func (s Screen) AllButtons() []Button {
	var out []Button
	for _, row := range s.Buttons {
		out = append(out, row...)
	}
	return out
}

func single(label string, p payload.Payload) []Button {
	return []Button{{Label: label, Payload: p}}
}

// Notice is a plain text screen with optional buttons.
func Notice(text string, rows ...[]Button) Screen {
	return Screen{Text: text, Buttons: rows}
}

func truncate(label string) string {
	r := []rune(label)
	if len(r) <= maxLabelLength {
		return label
	}
	return string(r[:maxLabelLength-3]) + "..."
}

var markdownEscaper = strings.NewReplacer("_", "\\_", "*", "\\*", "`", "\\`", "[", "\\[")

// md escapes user text embedded in a Markdown screen.
func md(s string) string {
	return markdownEscaper.Replace(s)
}
