package display

import (
	"github.com/muesli/reflow/wordwrap"
)

// DefaultWidth is the column limit used when no width is configured.
const DefaultWidth = 80

// Wrap word-wraps text to width columns, or to DefaultWidth when width is
// not positive. ANSI escape sequences do not count toward the width.
func Wrap(text string, width int) string {
	if width <= 0 {
		width = DefaultWidth
	}
	return wordwrap.String(text, width)
}
