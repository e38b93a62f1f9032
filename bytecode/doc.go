// Package bytecode provides the binary module format produced by the
// MiniJoe compiler.
//
// A [Module] is an immutable compiled code block together with its constant
// tables and nested function modules. [Encode] assembles a module into the
// tagged-section byte format and [Decode] parses it back.
//
// # Format
//
// A module starts with the 7-byte magic "MiniJoe" and a version byte,
// followed by tagged sections in ascending tag order:
//
//	0x00  comment                   utf string
//	0x10  global string table       count, utf strings (top level only)
//	0x20  number table              count, float64 values
//	0x30  string literal table      count, string table indices
//	0x40  regex literal table       count, string table indices
//	0x50  function table            count, nested modules
//	0x60  local name table          count, string table indices
//	0x70  exception table           count, (start, end, handler, stack, scope)
//	0x80  code block                locals, params, flags, length, bytes
//	0xE0  line table                count, (pc, line) pairs
//	0xFF  end marker
//
// Counts, indices and lengths are unsigned 16-bit big-endian values and
// strings are encoded as modified UTF-8 with a 16-bit length prefix.
// Nested modules use the same layout without the magic and version, and
// resolve string indices against the global string table of the
// outermost module.
//
// # Immutability
//
// All types in this package are immutable after construction. Index-based
// accessors are used for all collections:
//
//	m.NumberAt(0)
//	m.StringLit(i)
//	m.FunctionAt(j)
//
// Modules are safe to share across goroutines.
package bytecode
