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
	"math/big"

	"github.com/helixchain/helixvm/callflag"
	"github.com/helixchain/helixvm/vm/opcode"
	"github.com/helixchain/helixvm/vm/stackitem"
)

// State is an enumeration of the execution state of a VM run.
type State byte

const (
	NoneState  State = iota // < nothing loaded or still running
	HaltState               // < invocation stack emptied normally
	FaultState              // < execution stopped with an error
)

func (s State) String() string {
	switch s {
	case NoneState:
		return "NONE"
	case HaltState:
		return "HALT"
	case FaultState:
		return "FAULT"
	default:
		return "UNKNOWN"
	}
}

// VM is a stack-based bytecode interpreter. It owns the invocation stack of
// call contexts and a result stack receiving the values left behind by the
// entry frame. Resource accounting and syscall dispatch are not part of the
// VM itself; an embedding engine observes execution through the three hook
// fields below.
//
// A VM instance is used for a single run and is not thread-safe. Independent
// runs on separate VM instances may execute in parallel.
type VM struct {
	istack []*Context
	rstack *Stack
	state  State

	// OnPreExec is invoked before every instruction of a frame that has not
	// exhausted its script. A returned error aborts the run with FaultState
	// without executing the instruction.
	OnPreExec func(ctx *Context, op opcode.Opcode) error

	// OnSyscall handles SYSCALL instructions. A nil handler or a returned
	// error makes the instruction illegal, faulting the run.
	OnSyscall func(id uint32) error

	// OnContextUnloaded is invoked when a frame is popped from the invocation
	// stack, before its remaining values are forwarded. current is the frame
	// control returns to, or nil when the popped frame was the entry frame.
	// A returned error faults the run.
	OnContextUnloaded func(popped, current *Context) error
}

// New creates a VM with an empty invocation stack.
func New() *VM {
	return &VM{rstack: NewStack()}
}

// State returns the current execution state of the VM.
func (v *VM) State() State {
	return v.state
}

// Context returns the current (topmost) call context, or nil if the
// invocation stack is empty.
func (v *VM) Context() *Context {
	if len(v.istack) == 0 {
		return nil
	}
	return v.istack[len(v.istack)-1]
}

// EntryContext returns the bottom frame of the invocation stack, or nil if
// nothing is loaded.
func (v *VM) EntryContext() *Context {
	if len(v.istack) == 0 {
		return nil
	}
	return v.istack[0]
}

// Estack returns the evaluation stack of the current context.
func (v *VM) Estack() *Stack {
	if ctx := v.Context(); ctx != nil {
		return ctx.estack
	}
	return nil
}

// ResultStack returns the stack receiving the values left by the entry frame
// after a run halted.
func (v *VM) ResultStack() *Stack {
	return v.rstack
}

// LoadScriptWithFlags pushes a new entry frame executing the given script
// with the given capability flags and an unconstrained return count. The
// frame starts with a fresh evaluation stack.
func (v *VM) LoadScriptWithFlags(script []byte, flags callflag.Flag) *Context {
	return v.LoadScriptWithRvCount(script, flags, unconstrainedReturnCount)
}

// LoadScriptWithRvCount pushes a new frame like LoadScriptWithFlags, but
// declares the number of values the frame must leave on its evaluation stack
// when it unloads. Pass -1 to leave the count unconstrained.
func (v *VM) LoadScriptWithRvCount(script []byte, flags callflag.Flag, rvcount int) *Context {
	ctx := newContext(script, flags, rvcount, NewStack())
	v.loadContext(ctx)
	return ctx
}

func (v *VM) loadContext(ctx *Context) {
	if parent := v.Context(); parent != nil {
		ctx.callingScriptHash = parent.ScriptHash()
	}
	v.istack = append(v.istack, ctx)
}

// Run drives the VM until the invocation stack empties or a fault occurs.
// The returned error is nil on a normal halt and carries the fault reason
// otherwise.
func (v *VM) Run() error {
	for v.state == NoneState {
		if err := v.Step(); err != nil {
			return err
		}
	}
	return nil
}

// Step executes a single instruction of the current context.
func (v *VM) Step() error {
	ctx := v.Context()
	if ctx == nil {
		v.state = HaltState
		return nil
	}

	var (
		op      opcode.Opcode
		operand []byte
		next    int
		err     error
	)
	if ctx.atEnd() {
		// A frame that has run past its script returns implicitly. The
		// pre-execution hook is skipped; there is nothing left to meter.
		op, next = opcode.RET, ctx.ip
	} else {
		op, operand, next, err = ctx.currentInstruction()
		if err != nil {
			return v.fault(err)
		}
		if v.OnPreExec != nil {
			if err := v.OnPreExec(ctx, op); err != nil {
				return v.fault(err)
			}
		}
	}

	ctx.ip = next
	if err := v.execute(ctx, op, operand); err != nil {
		return v.fault(err)
	}
	return nil
}

func (v *VM) fault(err error) error {
	v.state = FaultState
	return err
}

func (v *VM) execute(ctx *Context, op opcode.Opcode, operand []byte) error {
	switch op {
	case opcode.PUSHINT8, opcode.PUSHINT16, opcode.PUSHINT32,
		opcode.PUSHINT64, opcode.PUSHINT128, opcode.PUSHINT256:
		return ctx.estack.Push(stackitem.NewBigInteger(bigIntFromLE(operand)))
	case opcode.PUSHNULL:
		return ctx.estack.Push(stackitem.Null{})
	case opcode.PUSHDATA1, opcode.PUSHDATA2:
		data := make([]byte, len(operand))
		copy(data, operand)
		return ctx.estack.Push(stackitem.NewByteArray(data))
	case opcode.PUSHM1:
		return ctx.estack.Push(stackitem.NewBigInteger(big.NewInt(-1)))
	case opcode.PUSH0, opcode.PUSH1, opcode.PUSH2, opcode.PUSH3,
		opcode.PUSH4, opcode.PUSH5, opcode.PUSH6, opcode.PUSH7,
		opcode.PUSH8, opcode.PUSH9, opcode.PUSH10, opcode.PUSH11,
		opcode.PUSH12, opcode.PUSH13, opcode.PUSH14, opcode.PUSH15,
		opcode.PUSH16:
		value := int64(op) - int64(opcode.PUSH0)
		return ctx.estack.Push(stackitem.NewBigInteger(big.NewInt(value)))

	case opcode.NOP:
		return nil
	case opcode.JMP:
		return v.jump(ctx, operand)
	case opcode.JMPIF, opcode.JMPIFNOT:
		item, err := ctx.estack.Pop()
		if err != nil {
			return err
		}
		cond, err := item.TryBool()
		if err != nil {
			return err
		}
		if cond == (op == opcode.JMPIF) {
			return v.jump(ctx, operand)
		}
		return nil
	case opcode.CALL:
		// The callee shares the evaluation stack of the caller, so its
		// unload is not a true call/return boundary.
		callee := newContext(ctx.script, ctx.callFlags, unconstrainedReturnCount, ctx.estack)
		callee.scriptHash, callee.hashed = ctx.ScriptHash(), true
		offset := ctx.ip - 1 - opcode.CALL.OperandSize() + int(int8(operand[0]))
		if err := callee.Jump(offset); err != nil {
			return err
		}
		v.loadContext(callee)
		return nil
	case opcode.ABORT:
		return ErrAbort
	case opcode.RET:
		return v.unloadContext()
	case opcode.SYSCALL:
		if v.OnSyscall == nil {
			return ErrSyscallFailed
		}
		return v.OnSyscall(binary.LittleEndian.Uint32(operand))

	case opcode.DEPTH:
		depth := big.NewInt(int64(ctx.estack.Len()))
		return ctx.estack.Push(stackitem.NewBigInteger(depth))
	case opcode.DROP:
		_, err := ctx.estack.Pop()
		return err
	case opcode.DUP:
		item, err := ctx.estack.Peek(0)
		if err != nil {
			return err
		}
		return ctx.estack.Push(item)
	case opcode.OVER:
		item, err := ctx.estack.Peek(1)
		if err != nil {
			return err
		}
		return ctx.estack.Push(item)
	case opcode.SWAP:
		a, err := ctx.estack.Pop()
		if err != nil {
			return err
		}
		b, err := ctx.estack.Pop()
		if err != nil {
			return err
		}
		if err := ctx.estack.Push(a); err != nil {
			return err
		}
		return ctx.estack.Push(b)

	case opcode.ADD, opcode.SUB, opcode.MUL, opcode.DIV:
		return v.binaryArithmetic(ctx, op)

	case opcode.PACK:
		return v.pack(ctx)
	case opcode.UNPACK:
		return v.unpack(ctx)
	case opcode.NEWARRAY0:
		return ctx.estack.Push(stackitem.NewArray(nil))
	default:
		return ErrInvalidOpcode
	}
}

func (v *VM) jump(ctx *Context, operand []byte) error {
	// Jump offsets are relative to the position of the JMP instruction.
	base := ctx.ip - 1 - 1 // < opcode byte plus the 1-byte offset operand
	return ctx.Jump(base + int(int8(operand[0])))
}

func (v *VM) binaryArithmetic(ctx *Context, op opcode.Opcode) error {
	right, err := popInteger(ctx.estack)
	if err != nil {
		return err
	}
	left, err := popInteger(ctx.estack)
	if err != nil {
		return err
	}
	res := new(big.Int)
	switch op {
	case opcode.ADD:
		res.Add(left, right)
	case opcode.SUB:
		res.Sub(left, right)
	case opcode.MUL:
		res.Mul(left, right)
	case opcode.DIV:
		if right.Sign() == 0 {
			return ConstError("division by zero")
		}
		res.Quo(left, right)
	}
	if len(res.Bytes()) > stackitem.MaxIntegerBytes {
		return ErrIntegerTooLarge
	}
	return ctx.estack.Push(stackitem.NewBigInteger(res))
}

func (v *VM) pack(ctx *Context) error {
	count, err := popInteger(ctx.estack)
	if err != nil {
		return err
	}
	if !count.IsInt64() {
		return ErrBadCollectionLen
	}
	n := int(count.Int64())
	if n < 0 || n > MaxStackSize || n > ctx.estack.Len() {
		return ErrBadCollectionLen
	}
	items := make([]stackitem.Item, n)
	for i := 0; i < n; i++ {
		items[i], _ = ctx.estack.Pop()
	}
	return ctx.estack.Push(stackitem.NewArray(items))
}

func (v *VM) unpack(ctx *Context) error {
	item, err := ctx.estack.Pop()
	if err != nil {
		return err
	}
	array, ok := item.(*stackitem.Array)
	if !ok {
		return ConstError("UNPACK expects an array")
	}
	elements := array.Value()
	for i := len(elements) - 1; i >= 0; i-- {
		if err := ctx.estack.Push(elements[i]); err != nil {
			return err
		}
	}
	length := big.NewInt(int64(len(elements)))
	return ctx.estack.Push(stackitem.NewBigInteger(length))
}

func (v *VM) unloadContext() error {
	popped := v.istack[len(v.istack)-1]
	v.istack = v.istack[:len(v.istack)-1]
	current := v.Context()

	if v.OnContextUnloaded != nil {
		if err := v.OnContextUnloaded(popped, current); err != nil {
			return err
		}
	}

	target := v.rstack
	if current != nil {
		target = current.estack
	}
	if popped.estack != target {
		for _, item := range popped.estack.Items() {
			if err := target.Push(item); err != nil {
				return err
			}
		}
		popped.estack.Clear()
	}

	if current == nil {
		v.state = HaltState
	}
	return nil
}

func popInteger(s *Stack) (*big.Int, error) {
	item, err := s.Pop()
	if err != nil {
		return nil, err
	}
	return item.TryInteger()
}

// bigIntFromLE interprets the given bytes as a little-endian two's-complement
// signed integer.
func bigIntFromLE(data []byte) *big.Int {
	be := make([]byte, len(data))
	for i, b := range data {
		be[len(data)-1-i] = b
	}
	res := new(big.Int).SetBytes(be)
	if len(be) > 0 && be[0]&0x80 != 0 {
		shift := new(big.Int).Lsh(big.NewInt(1), uint(len(be)*8))
		res.Sub(res, shift)
	}
	return res
}
