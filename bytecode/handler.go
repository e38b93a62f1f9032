package bytecode

// ExceptionHandler describes a protected code range. When an exception is
// raised at a pc in [Start, End), the VM truncates the operand stack to
// StackDepth items and the with scope chain to ScopeDepth entries, pushes
// the exception and continues at Handler. Handlers are ordered innermost
// first; the first matching entry wins.
type ExceptionHandler struct {
	Start      int
	End        int
	Handler    int
	StackDepth int
	ScopeDepth int
}

// Contains reports whether pc lies in the protected range.
func (h ExceptionHandler) Contains(pc int) bool {
	return pc >= h.Start && pc < h.End
}
