package compiler

import (
	"fmt"

	"github.com/cloudcmds/minijoe/bytecode"
)

// Symbol is a local variable with an assigned slot.
type Symbol struct {
	name  string
	index int
}

// Name returns the variable name.
func (s *Symbol) Name() string { return s.name }

// Index returns the slot of the variable.
func (s *Symbol) Index() int { return s.index }

// SymbolTable tracks the local variables of a function. A table may have a
// parent, in which case it represents a block within a function, such as a
// catch clause. Blocks allocate slots from the enclosing function's table,
// so there may be more symbols in the symbols array than there are in
// symbolsByName.
type SymbolTable struct {
	parent        *SymbolTable
	symbolsByName map[string]*Symbol
	symbols       []*Symbol
	isBlock       bool
}

// NewSymbolTable returns a new function-level symbol table.
func NewSymbolTable() *SymbolTable {
	return &SymbolTable{symbolsByName: map[string]*Symbol{}}
}

// NewBlock creates a table for a block within the function. Names defined
// in the block shadow those of the enclosing table.
func (t *SymbolTable) NewBlock() *SymbolTable {
	return &SymbolTable{
		parent:        t,
		symbolsByName: map[string]*Symbol{},
		isBlock:       true,
	}
}

// Parent returns the enclosing table of a block table.
func (t *SymbolTable) Parent() *SymbolTable {
	return t.parent
}

// LocalTable returns the table that owns the slots for this table.
func (t *SymbolTable) LocalTable() *SymbolTable {
	current := t
	for current.isBlock {
		current = current.parent
	}
	return current
}

func (t *SymbolTable) claimIndex(s *Symbol) error {
	owner := t.LocalTable()
	if len(owner.symbols) >= bytecode.MaxU16 {
		return fmt.Errorf("too many local variables (limit %d)", bytecode.MaxU16)
	}
	s.index = len(owner.symbols)
	owner.symbols = append(owner.symbols, s)
	return nil
}

// Insert allocates a new slot for name and binds the name to it in this
// table. A name that is already bound is rebound to the new slot.
func (t *SymbolTable) Insert(name string) (*Symbol, error) {
	s := &Symbol{name: name}
	if err := t.claimIndex(s); err != nil {
		return nil, err
	}
	t.symbolsByName[name] = s
	return s, nil
}

// Declare binds name to a slot unless it is already defined in this table.
func (t *SymbolTable) Declare(name string) (*Symbol, error) {
	if s, ok := t.symbolsByName[name]; ok {
		return s, nil
	}
	return t.Insert(name)
}

// IsDefined returns true if the name is bound in this table. Parent tables
// are not checked.
func (t *SymbolTable) IsDefined(name string) bool {
	_, ok := t.symbolsByName[name]
	return ok
}

// Resolve looks the name up in this table and its enclosing block tables.
func (t *SymbolTable) Resolve(name string) (*Symbol, bool) {
	for current := t; current != nil; current = current.parent {
		if s, ok := current.symbolsByName[name]; ok {
			return s, true
		}
	}
	return nil, false
}

// Count returns the number of slots allocated in the function.
func (t *SymbolTable) Count() int {
	return len(t.LocalTable().symbols)
}

// Names returns the names of all slots in slot order.
func (t *SymbolTable) Names() []string {
	symbols := t.LocalTable().symbols
	names := make([]string, len(symbols))
	for i, s := range symbols {
		names[i] = s.name
	}
	return names
}
