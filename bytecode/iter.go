package bytecode

import (
	"encoding/binary"
	"fmt"

	"github.com/cloudcmds/minijoe/op"
)

// Instruction is one decoded instruction of an opcode stream.
type Instruction struct {
	PC       int
	Opcode   byte // raw opcode byte
	Extended bool
	Wide     bool
	Code     op.Code  // set for single-byte opcodes
	XCode    op.XCode // set for extended opcodes
	Operand  int      // sign-extended for signed operand kinds
}

// Info returns the catalog entry for the instruction's opcode.
func (i Instruction) Info() op.Info {
	if i.Extended {
		return op.GetXInfo(i.XCode)
	}
	return op.GetInfo(i.Code)
}

// Name returns the opcode mnemonic.
func (i Instruction) Name() string {
	if i.Extended {
		return i.XCode.String()
	}
	return i.Code.String()
}

// Size returns the encoded size of the instruction in bytes.
func (i Instruction) Size() int {
	return 1 + op.OperandSize(i.Opcode)
}

// IsJump reports whether the operand is a jump offset.
func (i Instruction) IsJump() bool {
	return i.Extended && i.Info().Operand == op.JumpOffset
}

// Target returns the absolute pc a jump instruction transfers control to.
func (i Instruction) Target() int {
	return i.PC + i.Size() + i.Operand
}

// DecodeInstruction decodes the instruction starting at pc.
func DecodeInstruction(code []byte, pc int) (Instruction, error) {
	if pc < 0 || pc >= len(code) {
		return Instruction{}, fmt.Errorf("pc %d out of range", pc)
	}
	b := code[pc]
	instr := Instruction{PC: pc, Opcode: b}
	if !op.IsExtended(b) {
		instr.Code = op.Code(b)
		return instr, nil
	}
	instr.Extended = true
	instr.XCode, instr.Wide = op.SplitExtended(b)
	signed := op.GetXInfo(instr.XCode).Operand.Signed()
	if instr.Wide {
		if pc+2 >= len(code) {
			return Instruction{}, fmt.Errorf("pc %d: truncated operand for %s", pc, instr.XCode)
		}
		v := binary.BigEndian.Uint16(code[pc+1:])
		if signed {
			instr.Operand = int(int16(v))
		} else {
			instr.Operand = int(v)
		}
	} else {
		if pc+1 >= len(code) {
			return Instruction{}, fmt.Errorf("pc %d: truncated operand for %s", pc, instr.XCode)
		}
		v := code[pc+1]
		if signed {
			instr.Operand = int(int8(v))
		} else {
			instr.Operand = int(v)
		}
	}
	return instr, nil
}

// InstructionIter iterates over the instructions of a module.
type InstructionIter struct {
	code []byte
	pos  int
	err  error
}

// NewInstructionIter creates a new instruction iterator for the given module.
func NewInstructionIter(m *Module) *InstructionIter {
	return &InstructionIter{code: m.code}
}

// Next returns the next instruction. Returns false when there are no more
// instructions or the stream is malformed; see Err.
func (i *InstructionIter) Next() (Instruction, bool) {
	if i.err != nil || i.pos >= len(i.code) {
		return Instruction{}, false
	}
	instr, err := DecodeInstruction(i.code, i.pos)
	if err != nil {
		i.err = err
		return Instruction{}, false
	}
	i.pos += instr.Size()
	return instr, true
}

// Err returns the error that stopped iteration, if any.
func (i *InstructionIter) Err() error {
	return i.err
}

// All returns all instructions as a newly allocated slice.
// This is a convenience method that collects all results from Next().
func (i *InstructionIter) All() ([]Instruction, error) {
	var results []Instruction
	for {
		instr, ok := i.Next()
		if !ok {
			break
		}
		results = append(results, instr)
	}
	return results, i.err
}
