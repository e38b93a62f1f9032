package bytecode

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

// Magic identifies a MiniJoe module.
var Magic = [7]byte{'M', 'i', 'n', 'i', 'J', 'o', 'e'}

// Version is the module format version.
const Version byte = 1

// Section tags, written in ascending order.
const (
	TagComment   byte = 0x00
	TagStrings   byte = 0x10
	TagNumbers   byte = 0x20
	TagStringLit byte = 0x30
	TagRegexLit  byte = 0x40
	TagFunctions byte = 0x50
	TagLocals    byte = 0x60
	TagHandlers  byte = 0x70
	TagCode      byte = 0x80
	TagLines     byte = 0xE0
	TagEnd       byte = 0xFF
)

// MaxU16 is the largest count, index or length the format can hold.
const MaxU16 = math.MaxUint16

var (
	ErrNotRoot       = errors.New("nested module cannot be encoded on its own")
	ErrValueTooLarge = errors.New("value does not fit in 16 bits")
	ErrStringTooLong = errors.New("string too long")
)

// Encode assembles the module and its nested function modules into the
// binary module format.
func Encode(m *Module) ([]byte, error) {
	if m.parent != nil {
		return nil, ErrNotRoot
	}
	w := &writer{}
	w.buf.Write(Magic[:])
	w.buf.WriteByte(Version)
	w.module(m, true)
	if w.err != nil {
		return nil, w.err
	}
	return w.buf.Bytes(), nil
}

// writer appends sections to a buffer. The first error sticks and turns
// later writes into no-ops.
type writer struct {
	buf bytes.Buffer
	err error
}

func (w *writer) fail(err error) {
	if w.err == nil {
		w.err = err
	}
}

func (w *writer) u8(v byte) {
	w.buf.WriteByte(v)
}

func (w *writer) u16(v int, what string) {
	if v < 0 || v > MaxU16 {
		w.fail(fmt.Errorf("%w: %s %d", ErrValueTooLarge, what, v))
		return
	}
	var b [2]byte
	binary.BigEndian.PutUint16(b[:], uint16(v))
	w.buf.Write(b[:])
}

func (w *writer) f64(v float64) {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], math.Float64bits(v))
	w.buf.Write(b[:])
}

func (w *writer) utf(s string) {
	n := modifiedUTF8Len(s)
	if n > MaxU16 {
		w.fail(fmt.Errorf("%w: %d bytes", ErrStringTooLong, n))
		return
	}
	w.u16(n, "string length")
	w.buf.Write(appendModifiedUTF8(nil, s))
}

func (w *writer) indices(tag byte, what string, idx []int) {
	if len(idx) == 0 {
		return
	}
	w.u8(tag)
	w.u16(len(idx), what+" count")
	for _, i := range idx {
		w.u16(i, what+" index")
	}
}

func (w *writer) module(m *Module, top bool) {
	if m.comment != "" {
		w.u8(TagComment)
		w.utf(m.comment)
	}
	if top && len(m.strings) > 0 {
		w.u8(TagStrings)
		w.u16(len(m.strings), "string count")
		for _, s := range m.strings {
			w.utf(s)
		}
	}
	if len(m.numbers) > 0 {
		w.u8(TagNumbers)
		w.u16(len(m.numbers), "number count")
		for _, n := range m.numbers {
			w.f64(n)
		}
	}
	w.indices(TagStringLit, "string literal", m.stringLits)
	w.indices(TagRegexLit, "regex literal", m.regexLits)
	if len(m.functions) > 0 {
		w.u8(TagFunctions)
		w.u16(len(m.functions), "function count")
		for _, fn := range m.functions {
			w.module(fn, false)
		}
	}
	w.indices(TagLocals, "local name", m.localNames)
	if len(m.handlers) > 0 {
		w.u8(TagHandlers)
		w.u16(len(m.handlers), "handler count")
		for _, h := range m.handlers {
			w.u16(h.Start, "handler start")
			w.u16(h.End, "handler end")
			w.u16(h.Handler, "handler pc")
			w.u16(h.StackDepth, "handler stack depth")
			w.u16(h.ScopeDepth, "handler scope depth")
		}
	}

	w.u8(TagCode)
	w.u16(m.numLocals, "local count")
	w.u16(m.numParams, "parameter count")
	w.u8(byte(m.flags))
	w.u16(len(m.code), "code length")
	w.buf.Write(m.code)

	if len(m.lines) > 0 {
		w.u8(TagLines)
		w.u16(len(m.lines), "line count")
		for _, l := range m.lines {
			w.u16(l.PC, "line pc")
			w.u16(l.Line, "line number")
		}
	}
	w.u8(TagEnd)
}
