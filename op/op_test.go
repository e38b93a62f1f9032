package op

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGetInfo(t *testing.T) {
	info := GetInfo(DupX2)
	require.Equal(t, "DUP_X2", info.Name)
	require.Equal(t, DupX2, info.Code)
	require.False(t, info.Extended)
	require.Equal(t, NoOperand, info.Operand)

	xinfo := GetXInfo(IfFalse)
	require.Equal(t, "IF_FALSE", xinfo.Name)
	require.True(t, xinfo.Extended)
	require.Equal(t, JumpOffset, xinfo.Operand)
	require.True(t, xinfo.Operand.Signed())
}

func TestSingleByteCatalog(t *testing.T) {
	tests := []struct {
		code Code
		b    byte
		name string
	}{
		{Nop, 0x00, "NOP"},
		{Add, 0x01, "ADD"},
		{Shru, 0x0F, "SHRU"},
		{Eq, 0x10, "EQ"},
		{Seq, 0x12, "SEQ"},
		{Instanceof, 0x19, "INSTANCEOF"},
		{Typeof, 0x1A, "TYPEOF"},
		{Delete, 0x1B, "DELETE"},
		{Dup, 0x20, "DUP"},
		{Rot, 0x24, "ROT"},
		{DupX2, 0x25, "DUP_X2"},
		{PushUndef, 0x28, "PUSH_UNDEF"},
		{PushGlobal, 0x2D, "PUSH_GLOBAL"},
		{PushFunction, 0x2E, "PUSH_FUNCTION"},
		{Get, 0x30, "GET"},
		{Set, 0x31, "SET"},
		{Enum, 0x35, "ENUM"},
		{WithStart, 0x38, "WITH_START"},
		{Throw, 0x3A, "THROW"},
		{Ret, 0x3B, "RET"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.b, byte(tt.code))
			require.Equal(t, tt.name, tt.code.String())
			require.True(t, tt.code.Valid())
			info, ok := Lookup(tt.name)
			require.True(t, ok)
			require.Equal(t, tt.code, info.Code)
		})
	}
}

func TestExtendedCatalog(t *testing.T) {
	tests := []struct {
		code    XCode
		n       uint8
		name    string
		operand OperandKind
	}{
		{PushNum, 0, "PUSH_NUM", NumberIndex},
		{PushStr, 1, "PUSH_STR", StringIndex},
		{PushInt, 2, "PUSH_INT", IntValue},
		{PushFn, 3, "PUSH_FN", FunctionIndex},
		{GetVar, 4, "GET_VAR", StringIndex},
		{SetVar, 5, "SET_VAR", StringIndex},
		{GetLocal, 6, "GET_LOCAL", LocalIndex},
		{SetLocal, 7, "SET_LOCAL", LocalIndex},
		{TypeofVar, 8, "TYPEOF_VAR", StringIndex},
		{DeleteVar, 9, "DELETE_VAR", StringIndex},
		{Call, 10, "CALL", ArgCount},
		{New, 11, "NEW", ArgCount},
		{Jump, 12, "JUMP", JumpOffset},
		{IfFalse, 13, "IF_FALSE", JumpOffset},
		{IfTrue, 14, "IF_TRUE", JumpOffset},
		{Next, 15, "NEXT", JumpOffset},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.n, uint8(tt.code))
			require.Equal(t, tt.name, tt.code.String())
			require.Equal(t, tt.operand, GetXInfo(tt.code).Operand)
			info, ok := Lookup(tt.name)
			require.True(t, ok)
			require.True(t, info.Extended)
			require.Equal(t, tt.code, info.XCode)
		})
	}
}

func TestUndefinedOpcodes(t *testing.T) {
	require.False(t, Code(0x1C).Valid())
	require.Equal(t, "OP_1C", Code(0x1C).String())
	require.False(t, Code(0x7F).Valid())
	require.False(t, XCode(16).Valid())
	require.Equal(t, "XOP_10", XCode(16).String())
	require.Equal(t, Info{}, GetXInfo(XCode(200)))
	require.Equal(t, Info{}, GetInfo(Code(0x90)))
	_, ok := Lookup("LOAD_CONST")
	require.False(t, ok)
}

func TestExtendedEncoding(t *testing.T) {
	require.Equal(t, byte(0x80), ExtendedByte(PushNum, false))
	require.Equal(t, byte(0x81), ExtendedByte(PushNum, true))
	require.Equal(t, byte(0x99), ExtendedByte(Jump, true))
	require.Equal(t, byte(0x9F), ExtendedByte(Next, true))

	for x := XCode(0); x <= MaxXCode; x++ {
		for _, wide := range []bool{false, true} {
			b := ExtendedByte(x, wide)
			require.True(t, IsExtended(b))
			gotX, gotWide := SplitExtended(b)
			require.Equal(t, x, gotX)
			require.Equal(t, wide, gotWide)
			if wide {
				require.Equal(t, 2, OperandSize(b))
			} else {
				require.Equal(t, 1, OperandSize(b))
			}
		}
	}
	require.False(t, IsExtended(byte(Ret)))
	require.Equal(t, 0, OperandSize(byte(Ret)))
}

func TestNames(t *testing.T) {
	names := Names()
	require.Len(t, names, 51+16)
	seen := map[string]bool{}
	for _, name := range names {
		require.False(t, seen[name], name)
		seen[name] = true
	}
}
