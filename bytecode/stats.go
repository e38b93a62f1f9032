package bytecode

// Stats contains statistics about a compiled module and all of its nested
// function modules.
type Stats struct {
	// InstructionCount is the total number of decoded instructions.
	InstructionCount int

	// CodeBytes is the total size of all code blocks in bytes.
	CodeBytes int

	// NumberCount is the total number of number table entries.
	NumberCount int

	// StringCount is the size of the global string table.
	StringCount int

	// FunctionCount is the number of nested function modules.
	FunctionCount int

	// HandlerCount is the total number of exception table entries.
	HandlerCount int
}
