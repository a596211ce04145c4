// Copyright (c) 2024 Helix Chain Labs
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at helixchain.io/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package opcode

import "fmt"

// Opcode is a single-byte instruction code of the HelixVM instruction set.
type Opcode byte

// The instruction set. Constants, data and flow-control instructions carry an
// inline operand whose width is defined by the operandSizes table below.
const (
	// Constants
	PUSHINT8   Opcode = 0x00
	PUSHINT16  Opcode = 0x01
	PUSHINT32  Opcode = 0x02
	PUSHINT64  Opcode = 0x03
	PUSHINT128 Opcode = 0x04
	PUSHINT256 Opcode = 0x05

	PUSHNULL Opcode = 0x0B

	PUSHDATA1 Opcode = 0x0C
	PUSHDATA2 Opcode = 0x0D

	PUSHM1 Opcode = 0x0F
	PUSH0  Opcode = 0x10
	PUSH1  Opcode = 0x11
	PUSH2  Opcode = 0x12
	PUSH3  Opcode = 0x13
	PUSH4  Opcode = 0x14
	PUSH5  Opcode = 0x15
	PUSH6  Opcode = 0x16
	PUSH7  Opcode = 0x17
	PUSH8  Opcode = 0x18
	PUSH9  Opcode = 0x19
	PUSH10 Opcode = 0x1A
	PUSH11 Opcode = 0x1B
	PUSH12 Opcode = 0x1C
	PUSH13 Opcode = 0x1D
	PUSH14 Opcode = 0x1E
	PUSH15 Opcode = 0x1F
	PUSH16 Opcode = 0x20

	// Flow control
	NOP      Opcode = 0x21
	JMP      Opcode = 0x22
	JMPIF    Opcode = 0x24
	JMPIFNOT Opcode = 0x26
	CALL     Opcode = 0x34
	ABORT    Opcode = 0x38
	RET      Opcode = 0x40
	SYSCALL  Opcode = 0x41

	// Stack manipulation
	DEPTH Opcode = 0x43
	DROP  Opcode = 0x45
	DUP   Opcode = 0x4A
	OVER  Opcode = 0x4B
	SWAP  Opcode = 0x50

	// Arithmetic
	ADD Opcode = 0x9E
	SUB Opcode = 0x9F
	MUL Opcode = 0xA0
	DIV Opcode = 0xA1

	// Compound types
	PACK      Opcode = 0xC0
	UNPACK    Opcode = 0xC1
	NEWARRAY0 Opcode = 0xC2
)

var names = map[Opcode]string{
	PUSHINT8:   "PUSHINT8",
	PUSHINT16:  "PUSHINT16",
	PUSHINT32:  "PUSHINT32",
	PUSHINT64:  "PUSHINT64",
	PUSHINT128: "PUSHINT128",
	PUSHINT256: "PUSHINT256",
	PUSHNULL:   "PUSHNULL",
	PUSHDATA1:  "PUSHDATA1",
	PUSHDATA2:  "PUSHDATA2",
	PUSHM1:     "PUSHM1",
	PUSH0:      "PUSH0",
	PUSH1:      "PUSH1",
	PUSH2:      "PUSH2",
	PUSH3:      "PUSH3",
	PUSH4:      "PUSH4",
	PUSH5:      "PUSH5",
	PUSH6:      "PUSH6",
	PUSH7:      "PUSH7",
	PUSH8:      "PUSH8",
	PUSH9:      "PUSH9",
	PUSH10:     "PUSH10",
	PUSH11:     "PUSH11",
	PUSH12:     "PUSH12",
	PUSH13:     "PUSH13",
	PUSH14:     "PUSH14",
	PUSH15:     "PUSH15",
	PUSH16:     "PUSH16",
	NOP:        "NOP",
	JMP:        "JMP",
	JMPIF:      "JMPIF",
	JMPIFNOT:   "JMPIFNOT",
	CALL:       "CALL",
	ABORT:      "ABORT",
	RET:        "RET",
	SYSCALL:    "SYSCALL",
	DEPTH:      "DEPTH",
	DROP:       "DROP",
	DUP:        "DUP",
	OVER:       "OVER",
	SWAP:       "SWAP",
	ADD:        "ADD",
	SUB:        "SUB",
	MUL:        "MUL",
	DIV:        "DIV",
	PACK:       "PACK",
	UNPACK:     "UNPACK",
	NEWARRAY0:  "NEWARRAY0",
}

func (op Opcode) String() string {
	if name, found := names[op]; found {
		return name
	}
	return fmt.Sprintf("opcode(0x%02X)", byte(op))
}

// IsValid returns true if op is part of the instruction set.
func (op Opcode) IsValid() bool {
	_, found := names[op]
	return found
}

// operandSizes lists the width in bytes of the inline operand of each opcode.
// A value of -1 or -2 indicates a length-prefixed operand with a 1 or 2 byte
// prefix, respectively. Opcodes without an entry take no operand.
var operandSizes = map[Opcode]int{
	PUSHINT8:   1,
	PUSHINT16:  2,
	PUSHINT32:  4,
	PUSHINT64:  8,
	PUSHINT128: 16,
	PUSHINT256: 32,
	PUSHDATA1:  -1,
	PUSHDATA2:  -2,
	JMP:        1,
	JMPIF:      1,
	JMPIFNOT:   1,
	CALL:       1,
	SYSCALL:    4,
}

// OperandSize returns the fixed operand width of the given opcode in bytes,
// or 0 if the opcode takes no fixed-size operand.
func (op Opcode) OperandSize() int {
	if size, found := operandSizes[op]; found && size > 0 {
		return size
	}
	return 0
}

// OperandPrefixSize returns the width of the operand length prefix of the
// given opcode, or 0 if the operand is not length-prefixed.
func (op Opcode) OperandPrefixSize() int {
	if size, found := operandSizes[op]; found && size < 0 {
		return -size
	}
	return 0
}
