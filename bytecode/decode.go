package bytecode

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

var (
	ErrInvalidMagic    = errors.New("invalid magic: expected MiniJoe")
	ErrVersionMismatch = errors.New("module version mismatch")
	ErrUnexpectedEOF   = errors.New("unexpected end of module data")
	ErrUnknownSection  = errors.New("unknown section tag")
	ErrSectionOrder    = errors.New("section out of order")
	ErrMissingCode     = errors.New("module has no code block")
	ErrTrailingData    = errors.New("trailing data after module")
)

// Decode parses a module in the binary module format.
func Decode(data []byte) (*Module, error) {
	if len(data) < len(Magic)+1 {
		return nil, ErrUnexpectedEOF
	}
	if string(data[:len(Magic)]) != string(Magic[:]) {
		return nil, fmt.Errorf("%w: got %q", ErrInvalidMagic, data[:len(Magic)])
	}
	if v := data[len(Magic)]; v != Version {
		return nil, fmt.Errorf("%w: expected %d, got %d", ErrVersionMismatch, Version, v)
	}
	r := &reader{data: data, offset: len(Magic) + 1}
	m, err := r.module(true)
	if err != nil {
		return nil, err
	}
	if r.offset != len(r.data) {
		return nil, fmt.Errorf("%w: %d bytes at offset %d", ErrTrailingData, len(r.data)-r.offset, r.offset)
	}
	return m, nil
}

type reader struct {
	data   []byte
	offset int
}

func (r *reader) eof(what string) error {
	return fmt.Errorf("%w: reading %s at offset %d", ErrUnexpectedEOF, what, r.offset)
}

func (r *reader) u8(what string) (byte, error) {
	if r.offset+1 > len(r.data) {
		return 0, r.eof(what)
	}
	v := r.data[r.offset]
	r.offset++
	return v, nil
}

func (r *reader) u16(what string) (int, error) {
	if r.offset+2 > len(r.data) {
		return 0, r.eof(what)
	}
	v := binary.BigEndian.Uint16(r.data[r.offset:])
	r.offset += 2
	return int(v), nil
}

func (r *reader) bytes(n int, what string) ([]byte, error) {
	if r.offset+n > len(r.data) {
		return nil, r.eof(what)
	}
	b := r.data[r.offset : r.offset+n]
	r.offset += n
	return b, nil
}

func (r *reader) f64(what string) (float64, error) {
	b, err := r.bytes(8, what)
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(binary.BigEndian.Uint64(b)), nil
}

func (r *reader) utf(what string) (string, error) {
	n, err := r.u16(what)
	if err != nil {
		return "", err
	}
	b, err := r.bytes(n, what)
	if err != nil {
		return "", err
	}
	s, err := decodeModifiedUTF8(b)
	if err != nil {
		return "", fmt.Errorf("%s at offset %d: %w", what, r.offset-n, err)
	}
	return s, nil
}

func (r *reader) indices(what string) ([]int, error) {
	count, err := r.u16(what + " count")
	if err != nil {
		return nil, err
	}
	idx := make([]int, count)
	for i := range idx {
		if idx[i], err = r.u16(what + " index"); err != nil {
			return nil, err
		}
	}
	return idx, nil
}

func (r *reader) module(top bool) (*Module, error) {
	var (
		params  ModuleParams
		hasCode bool
		last    = -1
	)
	for {
		tagOffset := r.offset
		tag, err := r.u8("section tag")
		if err != nil {
			return nil, err
		}
		if tag == TagEnd {
			break
		}
		if int(tag) <= last {
			return nil, fmt.Errorf("%w: tag 0x%02X at offset %d", ErrSectionOrder, tag, tagOffset)
		}
		last = int(tag)

		switch tag {
		case TagComment:
			params.Comment, err = r.utf("comment")
		case TagStrings:
			if !top {
				return nil, fmt.Errorf("%w: string table in nested module at offset %d", ErrUnknownSection, tagOffset)
			}
			params.Strings, err = r.strings()
		case TagNumbers:
			params.Numbers, err = r.numbers()
		case TagStringLit:
			params.StringLits, err = r.indices("string literal")
		case TagRegexLit:
			params.RegexLits, err = r.indices("regex literal")
		case TagFunctions:
			params.Functions, err = r.functions()
		case TagLocals:
			params.LocalNames, err = r.indices("local name")
		case TagHandlers:
			params.Handlers, err = r.handlers()
		case TagCode:
			hasCode = true
			err = r.code(&params)
		case TagLines:
			params.Lines, err = r.lines()
		default:
			return nil, fmt.Errorf("%w: 0x%02X at offset %d", ErrUnknownSection, tag, tagOffset)
		}
		if err != nil {
			return nil, err
		}
	}
	if !hasCode {
		return nil, ErrMissingCode
	}
	return NewModule(params), nil
}

func (r *reader) strings() ([]string, error) {
	count, err := r.u16("string count")
	if err != nil {
		return nil, err
	}
	strs := make([]string, count)
	for i := range strs {
		if strs[i], err = r.utf("string"); err != nil {
			return nil, err
		}
	}
	return strs, nil
}

func (r *reader) numbers() ([]float64, error) {
	count, err := r.u16("number count")
	if err != nil {
		return nil, err
	}
	nums := make([]float64, count)
	for i := range nums {
		if nums[i], err = r.f64("number"); err != nil {
			return nil, err
		}
	}
	return nums, nil
}

func (r *reader) functions() ([]*Module, error) {
	count, err := r.u16("function count")
	if err != nil {
		return nil, err
	}
	fns := make([]*Module, count)
	for i := range fns {
		if fns[i], err = r.module(false); err != nil {
			return nil, err
		}
	}
	return fns, nil
}

func (r *reader) handlers() ([]ExceptionHandler, error) {
	count, err := r.u16("handler count")
	if err != nil {
		return nil, err
	}
	hs := make([]ExceptionHandler, count)
	for i := range hs {
		fields := []*int{&hs[i].Start, &hs[i].End, &hs[i].Handler, &hs[i].StackDepth, &hs[i].ScopeDepth}
		for _, f := range fields {
			if *f, err = r.u16("handler"); err != nil {
				return nil, err
			}
		}
	}
	return hs, nil
}

func (r *reader) code(params *ModuleParams) error {
	var err error
	if params.NumLocals, err = r.u16("local count"); err != nil {
		return err
	}
	if params.NumParams, err = r.u16("parameter count"); err != nil {
		return err
	}
	flags, err := r.u8("code flags")
	if err != nil {
		return err
	}
	params.Flags = Flags(flags)
	n, err := r.u16("code length")
	if err != nil {
		return err
	}
	code, err := r.bytes(n, "code")
	if err != nil {
		return err
	}
	params.Code = code
	return nil
}

func (r *reader) lines() ([]LineEntry, error) {
	count, err := r.u16("line count")
	if err != nil {
		return nil, err
	}
	lines := make([]LineEntry, count)
	for i := range lines {
		if lines[i].PC, err = r.u16("line pc"); err != nil {
			return nil, err
		}
		if lines[i].Line, err = r.u16("line number"); err != nil {
			return nil, err
		}
	}
	return lines, nil
}
