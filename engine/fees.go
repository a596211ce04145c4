// Copyright (c) 2024 Helix Chain Labs
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at helixchain.io/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package engine

import "github.com/helixchain/helixvm/vm/opcode"

// opcodePrices is the static per-opcode gas price table charged before each
// instruction executes. SYSCALL itself is free; the dispatched service
// charges its own fixed price.
var opcodePrices = [256]int64{}

func init() {
	for i := 0; i < len(opcodePrices); i++ {
		opcodePrices[i] = staticOpcodePrice(opcode.Opcode(i))
	}
}

func staticOpcodePrice(op opcode.Opcode) int64 {
	if opcode.PUSHINT8 <= op && op <= opcode.PUSHINT256 {
		return 1
	}
	if opcode.PUSHM1 <= op && op <= opcode.PUSH16 {
		return 1
	}
	switch op {
	case opcode.PUSHNULL:
		return 1
	case opcode.PUSHDATA1, opcode.PUSHDATA2:
		return 8
	case opcode.NOP:
		return 1
	case opcode.JMP, opcode.JMPIF, opcode.JMPIFNOT:
		return 2
	case opcode.CALL:
		return 512
	case opcode.DEPTH, opcode.DROP, opcode.DUP, opcode.OVER, opcode.SWAP:
		return 2
	case opcode.ADD, opcode.SUB:
		return 8
	case opcode.MUL, opcode.DIV:
		return 16
	case opcode.PACK, opcode.UNPACK:
		return 64
	case opcode.NEWARRAY0:
		return 16
	case opcode.ABORT, opcode.RET, opcode.SYSCALL:
		return 0
	}
	return 0
}

// opcodePrice returns the static gas price of the given opcode.
func opcodePrice(op opcode.Opcode) int64 {
	return opcodePrices[op]
}
