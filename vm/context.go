// Copyright (c) 2024 Helix Chain Labs
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at helixchain.io/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package vm

import (
	"encoding/binary"

	"github.com/helixchain/helixvm/callflag"
	"github.com/helixchain/helixvm/hash"
	"github.com/helixchain/helixvm/vm/opcode"
	"github.com/helixchain/helixvm/vm/stackitem"
)

// unconstrainedReturnCount marks a context whose unload is not subject to the
// return-arity check.
const unconstrainedReturnCount = -1

// Context is a single frame of the invocation stack. It carries the executed
// script, the instruction pointer, the frame's evaluation stack, and the
// frame-scoped state consulted by syscall dispatch: the lazily derived script
// hash, the hash of the calling script, the frame's capability flags, and the
// declared number of return values.
type Context struct {
	script []byte
	ip     int

	estack *Stack

	scriptHash        hash.Hash160
	hashed            bool
	callingScriptHash hash.Hash160

	callFlags callflag.Flag
	retCount  int
}

func newContext(script []byte, flags callflag.Flag, retCount int, estack *Stack) *Context {
	return &Context{
		script:    script,
		estack:    estack,
		callFlags: flags,
		retCount:  retCount,
	}
}

// Script returns the script executed by this frame.
func (c *Context) Script() []byte {
	return c.script
}

// IP returns the current instruction pointer.
func (c *Context) IP() int {
	return c.ip
}

// Estack returns the evaluation stack of this frame.
func (c *Context) Estack() *Stack {
	return c.estack
}

// CallFlags returns the capability flags of this frame.
func (c *Context) CallFlags() callflag.Flag {
	return c.callFlags
}

// ReturnCount returns the declared number of values this frame must leave on
// its evaluation stack on unload, or -1 if unconstrained.
func (c *Context) ReturnCount() int {
	return c.retCount
}

// ScriptHash returns the identifying hash of the executed script. The hash is
// derived on first use and cached on the frame, so repeated calls are cheap
// and idempotent.
func (c *Context) ScriptHash() hash.Hash160 {
	if !c.hashed {
		c.scriptHash = hash.CachedHash160FromScript(c.script)
		c.hashed = true
	}
	return c.scriptHash
}

// CallingScriptHash returns the script hash of the frame that loaded this
// one, or the zero hash for an entry frame.
func (c *Context) CallingScriptHash() hash.Hash160 {
	return c.callingScriptHash
}

// Jump moves the instruction pointer to the given offset.
func (c *Context) Jump(offset int) error {
	if offset < 0 || offset > len(c.script) {
		return ErrInvalidJump
	}
	c.ip = offset
	return nil
}

// atEnd returns true if the instruction pointer has run past the script.
func (c *Context) atEnd() bool {
	return c.ip >= len(c.script)
}

// CurrentOpcode returns the opcode the instruction pointer rests on. If the
// frame has exhausted its script, an implicit RET is reported.
func (c *Context) CurrentOpcode() opcode.Opcode {
	if c.atEnd() {
		return opcode.RET
	}
	return opcode.Opcode(c.script[c.ip])
}

// currentInstruction decodes the instruction at the current instruction
// pointer. It returns the opcode, its operand (nil if none), and the position
// of the following instruction.
func (c *Context) currentInstruction() (opcode.Opcode, []byte, int, error) {
	op := opcode.Opcode(c.script[c.ip])
	if !op.IsValid() {
		return 0, nil, 0, ErrInvalidOpcode
	}
	next := c.ip + 1

	if size := op.OperandSize(); size > 0 {
		if next+size > len(c.script) {
			return 0, nil, 0, ErrTruncatedScript
		}
		return op, c.script[next : next+size], next + size, nil
	}

	if prefix := op.OperandPrefixSize(); prefix > 0 {
		if next+prefix > len(c.script) {
			return 0, nil, 0, ErrTruncatedScript
		}
		var size int
		switch prefix {
		case 1:
			size = int(c.script[next])
		case 2:
			size = int(binary.LittleEndian.Uint16(c.script[next : next+2]))
		}
		next += prefix
		if size > stackitem.MaxByteArraySize || next+size > len(c.script) {
			return 0, nil, 0, ErrTruncatedScript
		}
		return op, c.script[next : next+size], next + size, nil
	}

	return op, nil, next, nil
}
