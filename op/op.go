// Package op defines the opcodes emitted by the MiniJoe compiler.
//
// An opcode stream mixes two encodings. A byte below 0x80 is a single-byte
// opcode with no operand. A byte at or above 0x80 is an extended opcode
// (xcode): bits 1-6 hold the xcode and bit 0 selects the width of the
// immediate that follows, 0 for one byte and 1 for two bytes big-endian.
package op

import "fmt"

// Code is a single-byte opcode.
type Code uint8

const (
	// Arithmetic and bitwise
	Nop  Code = 0x00
	Add  Code = 0x01
	Sub  Code = 0x02
	Mul  Code = 0x03
	Div  Code = 0x04
	Mod  Code = 0x05
	Neg  Code = 0x06
	Plus Code = 0x07
	Not  Code = 0x08
	Inv  Code = 0x09
	And  Code = 0x0A
	Or   Code = 0x0B
	Xor  Code = 0x0C
	Shl  Code = 0x0D
	Shr  Code = 0x0E
	Shru Code = 0x0F

	// Comparison
	Eq         Code = 0x10
	Ne         Code = 0x11
	Seq        Code = 0x12
	Sne        Code = 0x13
	Lt         Code = 0x14
	Le         Code = 0x15
	Gt         Code = 0x16
	Ge         Code = 0x17
	In         Code = 0x18
	Instanceof Code = 0x19
	Typeof     Code = 0x1A
	Delete     Code = 0x1B

	// Stack
	Dup   Code = 0x20
	Dup2  Code = 0x21
	Drop  Code = 0x22
	Swap  Code = 0x23
	Rot   Code = 0x24 // a b c -> b c a
	DupX2 Code = 0x25 // a b c -> c a b c

	// Push constants
	PushUndef    Code = 0x28
	PushNull     Code = 0x29
	PushTrue     Code = 0x2A
	PushFalse    Code = 0x2B
	PushThis     Code = 0x2C
	PushGlobal   Code = 0x2D
	PushFunction Code = 0x2E // the running function, for self-binding

	// Properties and containers
	Get       Code = 0x30 // obj key -> value
	Set       Code = 0x31 // obj key value -> value
	NewObject Code = 0x32
	NewArray  Code = 0x33
	Append    Code = 0x34 // arr value -> arr
	Enum      Code = 0x35 // obj -> enumerator

	// Control
	WithStart Code = 0x38
	WithEnd   Code = 0x39
	Throw     Code = 0x3A
	Ret       Code = 0x3B
)

// XCode is an extended opcode carrying an immediate operand.
type XCode uint8

const (
	PushNum   XCode = 0  // number table index
	PushStr   XCode = 1  // string table index
	PushInt   XCode = 2  // signed integer value
	PushFn    XCode = 3  // function table index
	GetVar    XCode = 4  // string table index of the name
	SetVar    XCode = 5  // string table index of the name
	GetLocal  XCode = 6  // local slot
	SetLocal  XCode = 7  // local slot
	TypeofVar XCode = 8  // string table index of the name
	DeleteVar XCode = 9  // string table index of the name
	Call      XCode = 10 // argument count
	New       XCode = 11 // argument count
	Jump      XCode = 12 // signed offset
	IfFalse   XCode = 13 // signed offset
	IfTrue    XCode = 14 // signed offset
	Next      XCode = 15 // signed offset
)

// ExtendedBit marks an extended opcode byte.
const ExtendedBit = 0x80

// MaxXCode is the largest xcode that fits in an extended opcode byte.
const MaxXCode = 0x3F

// OperandKind describes how the immediate of an xcode is interpreted.
type OperandKind uint8

const (
	NoOperand OperandKind = iota
	NumberIndex
	StringIndex
	FunctionIndex
	LocalIndex
	IntValue
	ArgCount
	JumpOffset
)

// Signed reports whether immediates of this kind are two's complement.
func (k OperandKind) Signed() bool {
	return k == IntValue || k == JumpOffset
}

func (k OperandKind) String() string {
	switch k {
	case NumberIndex:
		return "number"
	case StringIndex:
		return "string"
	case FunctionIndex:
		return "function"
	case LocalIndex:
		return "local"
	case IntValue:
		return "int"
	case ArgCount:
		return "argc"
	case JumpOffset:
		return "offset"
	default:
		return ""
	}
}

// Info contains information about an opcode.
type Info struct {
	Name     string
	Extended bool
	Code     Code  // set for single-byte opcodes
	XCode    XCode // set for extended opcodes
	Operand  OperandKind
	// StackEffect is the net change in operand stack height. Call and New
	// also pop their arguments.
	StackEffect int
}

var (
	infos  = make([]Info, ExtendedBit)
	xinfos = make([]Info, MaxXCode+1)
	byName = map[string]Info{}
)

func init() {
	type opInfo struct {
		op     Code
		name   string
		effect int
	}
	ops := []opInfo{
		{Nop, "NOP", 0},
		{Add, "ADD", -1},
		{Sub, "SUB", -1},
		{Mul, "MUL", -1},
		{Div, "DIV", -1},
		{Mod, "MOD", -1},
		{Neg, "NEG", 0},
		{Plus, "PLUS", 0},
		{Not, "NOT", 0},
		{Inv, "INV", 0},
		{And, "AND", -1},
		{Or, "OR", -1},
		{Xor, "XOR", -1},
		{Shl, "SHL", -1},
		{Shr, "SHR", -1},
		{Shru, "SHRU", -1},
		{Eq, "EQ", -1},
		{Ne, "NE", -1},
		{Seq, "SEQ", -1},
		{Sne, "SNE", -1},
		{Lt, "LT", -1},
		{Le, "LE", -1},
		{Gt, "GT", -1},
		{Ge, "GE", -1},
		{In, "IN", -1},
		{Instanceof, "INSTANCEOF", -1},
		{Typeof, "TYPEOF", 0},
		{Delete, "DELETE", -1},
		{Dup, "DUP", 1},
		{Dup2, "DUP2", 2},
		{Drop, "DROP", -1},
		{Swap, "SWAP", 0},
		{Rot, "ROT", 0},
		{DupX2, "DUP_X2", 1},
		{PushUndef, "PUSH_UNDEF", 1},
		{PushNull, "PUSH_NULL", 1},
		{PushTrue, "PUSH_TRUE", 1},
		{PushFalse, "PUSH_FALSE", 1},
		{PushThis, "PUSH_THIS", 1},
		{PushGlobal, "PUSH_GLOBAL", 1},
		{PushFunction, "PUSH_FUNCTION", 1},
		{Get, "GET", -1},
		{Set, "SET", -2},
		{NewObject, "NEW_OBJECT", 1},
		{NewArray, "NEW_ARRAY", 1},
		{Append, "APPEND", -1},
		{Enum, "ENUM", 0},
		{WithStart, "WITH_START", -1},
		{WithEnd, "WITH_END", 0},
		{Throw, "THROW", -1},
		{Ret, "RET", -1},
	}
	for _, o := range ops {
		info := Info{Name: o.name, Code: o.op, StackEffect: o.effect}
		infos[o.op] = info
		byName[o.name] = info
	}

	type xopInfo struct {
		op      XCode
		name    string
		operand OperandKind
		effect  int
	}
	xops := []xopInfo{
		{PushNum, "PUSH_NUM", NumberIndex, 1},
		{PushStr, "PUSH_STR", StringIndex, 1},
		{PushInt, "PUSH_INT", IntValue, 1},
		{PushFn, "PUSH_FN", FunctionIndex, 1},
		{GetVar, "GET_VAR", StringIndex, 1},
		{SetVar, "SET_VAR", StringIndex, 0},
		{GetLocal, "GET_LOCAL", LocalIndex, 1},
		{SetLocal, "SET_LOCAL", LocalIndex, 0},
		{TypeofVar, "TYPEOF_VAR", StringIndex, 1},
		{DeleteVar, "DELETE_VAR", StringIndex, 1},
		{Call, "CALL", ArgCount, -1},
		{New, "NEW", ArgCount, 0},
		{Jump, "JUMP", JumpOffset, 0},
		{IfFalse, "IF_FALSE", JumpOffset, -1},
		{IfTrue, "IF_TRUE", JumpOffset, -1},
		{Next, "NEXT", JumpOffset, 1},
	}
	for _, o := range xops {
		info := Info{Name: o.name, Extended: true, XCode: o.op, Operand: o.operand, StackEffect: o.effect}
		xinfos[o.op] = info
		byName[o.name] = info
	}
}

// GetInfo returns information about the given single-byte opcode. The
// returned Info has an empty Name if the opcode is not defined.
func GetInfo(c Code) Info {
	if int(c) >= len(infos) {
		return Info{}
	}
	return infos[c]
}

// GetXInfo returns information about the given extended opcode.
func GetXInfo(x XCode) Info {
	if int(x) >= len(xinfos) {
		return Info{}
	}
	return xinfos[x]
}

// Lookup returns the opcode with the given mnemonic.
func Lookup(name string) (Info, bool) {
	info, ok := byName[name]
	return info, ok
}

// Names returns every mnemonic in the catalog.
func Names() []string {
	names := make([]string, 0, len(byName))
	for _, info := range infos {
		if info.Name != "" {
			names = append(names, info.Name)
		}
	}
	for _, info := range xinfos {
		if info.Name != "" {
			names = append(names, info.Name)
		}
	}
	return names
}

// Valid reports whether c is a defined single-byte opcode.
func (c Code) Valid() bool {
	return GetInfo(c).Name != ""
}

func (c Code) String() string {
	if name := GetInfo(c).Name; name != "" {
		return name
	}
	return fmt.Sprintf("OP_%02X", uint8(c))
}

// Valid reports whether x is a defined extended opcode.
func (x XCode) Valid() bool {
	return GetXInfo(x).Name != ""
}

func (x XCode) String() string {
	if name := GetXInfo(x).Name; name != "" {
		return name
	}
	return fmt.Sprintf("XOP_%02X", uint8(x))
}

// IsExtended reports whether b begins an extended opcode.
func IsExtended(b byte) bool {
	return b&ExtendedBit != 0
}

// ExtendedByte returns the opcode byte for x with a one or two byte
// immediate.
func ExtendedByte(x XCode, wide bool) byte {
	b := byte(ExtendedBit) | byte(x)<<1
	if wide {
		b |= 1
	}
	return b
}

// SplitExtended decodes an extended opcode byte.
func SplitExtended(b byte) (x XCode, wide bool) {
	return XCode((b &^ ExtendedBit) >> 1), b&1 == 1
}

// OperandSize returns the immediate width in bytes of an opcode byte.
func OperandSize(b byte) int {
	if !IsExtended(b) {
		return 0
	}
	if b&1 == 1 {
		return 2
	}
	return 1
}
