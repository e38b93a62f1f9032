package bytecode

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cloudcmds/minijoe/op"
)

func TestEncodeMinimal(t *testing.T) {
	m := NewModule(ModuleParams{
		Strings:    []string{"x"},
		StringLits: []int{0},
		Code:       code(x1(op.PushStr, 0), op.Ret),
	})
	data, err := Encode(m)
	require.NoError(t, err)
	expected := []byte("MiniJoe")
	expected = append(expected,
		0x01,
		0x10, 0x00, 0x01, 0x00, 0x01, 'x',
		0x30, 0x00, 0x01, 0x00, 0x00,
		0x80, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x03, 0x82, 0x00, 0x3B,
		0xFF,
	)
	require.Equal(t, expected, data)
}

func TestEncodeSectionLayout(t *testing.T) {
	m := NewModule(ModuleParams{
		Numbers:  []float64{1.5},
		Handlers: []ExceptionHandler{{Start: 0, End: 1, Handler: 1, StackDepth: 2, ScopeDepth: 1}},
		Code:     code(op.Nop, op.Ret),
		Lines:    []LineEntry{{PC: 0, Line: 7}},
	})
	data, err := Encode(m)
	require.NoError(t, err)
	body := data[len(Magic)+1:]
	require.Equal(t, []byte{0x20, 0x00, 0x01, 0x3F, 0xF8, 0, 0, 0, 0, 0, 0}, body[:11])
	body = body[11:]
	require.Equal(t, []byte{0x70, 0x00, 0x01, 0, 0, 0, 1, 0, 1, 0, 2, 0, 1}, body[:13])
	body = body[13:]
	require.Equal(t, []byte{0x80, 0, 0, 0, 0, 0, 0, 0x02, 0x00, 0x3B}, body[:10])
	body = body[10:]
	require.Equal(t, []byte{0xE0, 0x00, 0x01, 0x00, 0x00, 0x00, 0x07, 0xFF}, body)
}

func withHeader(b ...byte) []byte {
	out := append([]byte{}, Magic[:]...)
	out = append(out, Version)
	return append(out, b...)
}

func TestRoundTrip(t *testing.T) {
	m := sampleModule()
	require.NoError(t, Validate(m))
	data, err := Encode(m)
	require.NoError(t, err)

	decoded, err := Decode(data)
	require.NoError(t, err)
	require.NoError(t, Validate(decoded))

	again, err := Encode(decoded)
	require.NoError(t, err)
	require.Equal(t, data, again)

	require.Equal(t, "sample.js", decoded.Comment())
	require.Equal(t, "hi \u00e9", decoded.StringLit(1))
	require.Equal(t, 1, decoded.FunctionCount())
	fn := decoded.FunctionAt(0)
	require.Equal(t, "add", fn.Comment())
	require.Equal(t, "b", fn.LocalName(1))
	require.True(t, fn.FastLocals())
	require.Equal(t, m.FunctionAt(0).Code(), fn.Code())

	want, err := NewInstructionIter(m).All()
	require.NoError(t, err)
	got, err := NewInstructionIter(decoded).All()
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func TestEncodeNestedModule(t *testing.T) {
	m := sampleModule()
	_, err := Encode(m.FunctionAt(0))
	require.ErrorIs(t, err, ErrNotRoot)
}

func TestEncodeLimits(t *testing.T) {
	_, err := Encode(NewModule(ModuleParams{Strings: []string{strings.Repeat("a", MaxU16+1)}}))
	require.ErrorIs(t, err, ErrStringTooLong)

	_, err = Encode(NewModule(ModuleParams{Numbers: make([]float64, MaxU16+1)}))
	require.ErrorIs(t, err, ErrValueTooLarge)
	require.Contains(t, err.Error(), "number count")

	_, err = Encode(NewModule(ModuleParams{Code: make([]byte, MaxU16+1)}))
	require.ErrorIs(t, err, ErrValueTooLarge)
}

func TestDecodeErrors(t *testing.T) {
	valid, err := Encode(NewModule(ModuleParams{Code: code(op.Ret)}))
	require.NoError(t, err)

	tests := []struct {
		name string
		data []byte
		err  error
	}{
		{"empty", nil, ErrUnexpectedEOF},
		{"bad magic", append([]byte("MaxiJoe"), 1, 0xFF), ErrInvalidMagic},
		{"bad version", append([]byte("MiniJoe"), 2, 0xFF), ErrVersionMismatch},
		{"no end marker", withHeader(), ErrUnexpectedEOF},
		{"missing code", withHeader(0xFF), ErrMissingCode},
		{"unknown tag", withHeader(0x90), ErrUnknownSection},
		{"out of order", withHeader(0x80, 0, 0, 0, 0, 0, 0, 0, 0x20, 0, 0, 0xFF), ErrSectionOrder},
		{"duplicate", withHeader(0x20, 0, 0, 0x20, 0, 0), ErrSectionOrder},
		{"short code", withHeader(0x80, 0, 0, 0, 0, 0, 0, 5, 0x3B), ErrUnexpectedEOF},
		{"trailing", append(append([]byte{}, valid...), 0x00), ErrTrailingData},
		{"bad string", withHeader(0x10, 0, 1, 0, 1, 0xFF), ErrMalformedString},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.data)
			require.ErrorIs(t, err, tt.err)
		})
	}
}

func TestDecodeNestedStringTable(t *testing.T) {
	data := withHeader(
		0x50, 0x00, 0x01,
		0x10, 0x00, 0x00, // string table in a nested module
	)
	_, err := Decode(data)
	require.ErrorIs(t, err, ErrUnknownSection)
}

func TestValidate(t *testing.T) {
	fn := NewModule(ModuleParams{
		NumLocals: 1,
		NumParams: 2,
		Code:      code(x1(op.GetLocal, 3), op.Ret),
	})
	m := NewModule(ModuleParams{
		Strings:    []string{"a"},
		StringLits: []int{0, 5},
		Functions:  []*Module{fn},
		Handlers:   []ExceptionHandler{{Start: 0, End: 1, Handler: 40}},
		Code: code(
			x1(op.PushNum, 0),    // 0
			x1(op.PushStr, 2),    // 2
			x1(op.PushFn, 1),     // 4
			x2(op.IfFalse, 0x01), // 6: into the middle of the next instruction
			x1(op.GetVar, 1),     // 9
			byte(0x3F),           // 11
			op.Ret,               // 12
		),
		Lines: []LineEntry{{PC: 2, Line: 1}, {PC: 2, Line: 2}, {PC: 50, Line: 0}},
	})
	err := Validate(m)
	require.Error(t, err)
	msg := err.Error()
	for _, want := range []string{
		"main: string literal 1: string index 5 out of range (1 strings)",
		"main: pc 0: PUSH_NUM index 0 out of range (0 numbers)",
		"main: pc 2: PUSH_STR index 2 out of range (2 string literals)",
		"main: pc 4: PUSH_FN index 1 out of range (1 functions)",
		"main: pc 6: IF_FALSE target 10 is not an instruction boundary",
		"main: handler 0: invalid range [0, 1)",
		"main: handler 0: handler pc 40 is not an instruction boundary",
		"main: line entry 1: pc 2 not increasing",
		"main: line entry 2: invalid line 0",
		"main: line entry 2: pc 50 out of range",
		"main.fn[0]: 2 parameters exceed 1 locals",
		"main.fn[0]: 0 local names for 1 locals",
		"main.fn[0]: pc 0: GET_LOCAL without slot-addressed locals",
		"main.fn[0]: pc 0: GET_LOCAL index 3 out of range (1 locals)",
	} {
		require.Contains(t, msg, want)
	}
	require.NotContains(t, msg, "pc 9")
	require.Contains(t, msg, "pc 11: undefined opcode 0x3F")
}

func TestValidateSample(t *testing.T) {
	require.NoError(t, Validate(sampleModule()))
}
