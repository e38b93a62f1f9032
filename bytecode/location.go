package bytecode

import "fmt"

// LineEntry maps the instruction at PC, and those after it up to the next
// entry, to a 1-based source line.
type LineEntry struct {
	PC   int
	Line int
}

// String returns a formatted string representation of the entry.
func (e LineEntry) String() string {
	return fmt.Sprintf("%d:%d", e.PC, e.Line)
}
