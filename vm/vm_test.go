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
	"errors"
	"testing"

	"github.com/helixchain/helixvm/callflag"
	"github.com/helixchain/helixvm/vm/opcode"
	"github.com/helixchain/helixvm/vm/stackitem"
)

func runScript(t *testing.T, script ...byte) *VM {
	t.Helper()
	vm := New()
	vm.LoadScriptWithFlags(script, callflag.All)
	if err := vm.Run(); err != nil {
		t.Fatalf("unexpected fault: %v", err)
	}
	if want, got := HaltState, vm.State(); want != got {
		t.Fatalf("unexpected state, wanted %v, got %v", want, got)
	}
	return vm
}

func expectFault(t *testing.T, want error, script ...byte) {
	t.Helper()
	vm := New()
	vm.LoadScriptWithFlags(script, callflag.All)
	err := vm.Run()
	if want != nil && !errors.Is(err, want) {
		t.Fatalf("unexpected fault reason, wanted %v, got %v", want, err)
	}
	if want == nil && err == nil {
		t.Fatalf("expected a fault, got none")
	}
	if wantState, got := FaultState, vm.State(); wantState != got {
		t.Fatalf("unexpected state, wanted %v, got %v", wantState, got)
	}
}

func resultInts(t *testing.T, vm *VM) []int64 {
	t.Helper()
	items := vm.ResultStack().Items()
	res := make([]int64, len(items))
	for i, item := range items {
		value, err := item.TryInteger()
		if err != nil {
			t.Fatalf("result %d is not an integer: %v", i, err)
		}
		res[i] = value.Int64()
	}
	return res
}

func TestVM_PushOpcodesProduceExpectedValues(t *testing.T) {
	tests := map[string]struct {
		script []byte
		want   int64
	}{
		"push0":          {script: []byte{byte(opcode.PUSH0)}, want: 0},
		"push16":         {script: []byte{byte(opcode.PUSH16)}, want: 16},
		"pushm1":         {script: []byte{byte(opcode.PUSHM1)}, want: -1},
		"int8":           {script: []byte{byte(opcode.PUSHINT8), 0x2A}, want: 42},
		"int8_negative":  {script: []byte{byte(opcode.PUSHINT8), 0xFF}, want: -1},
		"int16":          {script: []byte{byte(opcode.PUSHINT16), 0x00, 0x01}, want: 256},
		"int32_negative": {script: []byte{byte(opcode.PUSHINT32), 0xFF, 0xFF, 0xFF, 0xFF}, want: -1},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			vm := runScript(t, test.script...)
			results := resultInts(t, vm)
			if len(results) != 1 {
				t.Fatalf("unexpected result count: %d", len(results))
			}
			if want, got := test.want, results[0]; want != got {
				t.Errorf("unexpected result, wanted %d, got %d", want, got)
			}
		})
	}
}

func TestVM_PushDataCopiesOperand(t *testing.T) {
	vm := runScript(t, byte(opcode.PUSHDATA1), 3, 0xAA, 0xBB, 0xCC)
	item, err := vm.ResultStack().Pop()
	if err != nil {
		t.Fatalf("no result: %v", err)
	}
	data, err := item.TryBytes()
	if err != nil {
		t.Fatalf("result is not a byte array: %v", err)
	}
	if want, got := "\xAA\xBB\xCC", string(data); want != got {
		t.Errorf("unexpected result, wanted %x, got %x", want, got)
	}
}

func TestVM_Arithmetic(t *testing.T) {
	tests := map[string]struct {
		op   opcode.Opcode
		want int64
	}{
		"add": {op: opcode.ADD, want: 9},
		"sub": {op: opcode.SUB, want: 5},
		"mul": {op: opcode.MUL, want: 14},
		"div": {op: opcode.DIV, want: 3},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			vm := runScript(t, byte(opcode.PUSH7), byte(opcode.PUSH2), byte(test.op))
			if want, got := []int64{test.want}, resultInts(t, vm); want[0] != got[0] {
				t.Errorf("unexpected result, wanted %d, got %d", want[0], got[0])
			}
		})
	}
}

func TestVM_DivisionByZeroFaults(t *testing.T) {
	expectFault(t, nil, byte(opcode.PUSH1), byte(opcode.PUSH0), byte(opcode.DIV))
}

func TestVM_DivisionTruncatesTowardsZero(t *testing.T) {
	vm := runScript(t,
		byte(opcode.PUSHINT8), 0xF9, // < -7
		byte(opcode.PUSH2),
		byte(opcode.DIV),
	)
	if want, got := int64(-3), resultInts(t, vm)[0]; want != got {
		t.Errorf("unexpected result, wanted %d, got %d", want, got)
	}
}

func TestVM_StackManipulationOpcodes(t *testing.T) {
	tests := map[string]struct {
		script []byte
		want   []int64
	}{
		"depth": {
			script: []byte{byte(opcode.PUSH5), byte(opcode.PUSH6), byte(opcode.DEPTH)},
			want:   []int64{5, 6, 2},
		},
		"drop": {
			script: []byte{byte(opcode.PUSH5), byte(opcode.PUSH6), byte(opcode.DROP)},
			want:   []int64{5},
		},
		"dup": {
			script: []byte{byte(opcode.PUSH5), byte(opcode.DUP)},
			want:   []int64{5, 5},
		},
		"over": {
			script: []byte{byte(opcode.PUSH5), byte(opcode.PUSH6), byte(opcode.OVER)},
			want:   []int64{5, 6, 5},
		},
		"swap": {
			script: []byte{byte(opcode.PUSH5), byte(opcode.PUSH6), byte(opcode.SWAP)},
			want:   []int64{6, 5},
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			vm := runScript(t, test.script...)
			got := resultInts(t, vm)
			if len(test.want) != len(got) {
				t.Fatalf("unexpected result count, wanted %v, got %v", test.want, got)
			}
			for i := range got {
				if test.want[i] != got[i] {
					t.Errorf("unexpected result %v, wanted %v", got, test.want)
				}
			}
		})
	}
}

func TestVM_UnconditionalJumpSkipsCode(t *testing.T) {
	// The jump offset is relative to the position of the JMP opcode.
	vm := runScript(t,
		byte(opcode.JMP), 3,
		byte(opcode.PUSH1),
		byte(opcode.PUSH2),
	)
	if want, got := []int64{2}, resultInts(t, vm); len(got) != 1 || want[0] != got[0] {
		t.Errorf("unexpected result, wanted %v, got %v", want, got)
	}
}

func TestVM_ConditionalJumps(t *testing.T) {
	tests := map[string]struct {
		condition opcode.Opcode
		jump      opcode.Opcode
		want      int64
	}{
		"jmpif_taken":        {condition: opcode.PUSH1, jump: opcode.JMPIF, want: 3},
		"jmpif_not_taken":    {condition: opcode.PUSH0, jump: opcode.JMPIF, want: 2},
		"jmpifnot_taken":     {condition: opcode.PUSH0, jump: opcode.JMPIFNOT, want: 3},
		"jmpifnot_not_taken": {condition: opcode.PUSH1, jump: opcode.JMPIFNOT, want: 2},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			vm := runScript(t,
				byte(test.condition),
				byte(test.jump), 3,
				byte(opcode.PUSH2),
				byte(opcode.PUSH3),
			)
			got := resultInts(t, vm)
			if test.want == 2 {
				// fall-through executes both pushes
				if len(got) != 2 || got[0] != 2 || got[1] != 3 {
					t.Fatalf("unexpected result: %v", got)
				}
			} else {
				if len(got) != 1 || got[0] != 3 {
					t.Fatalf("unexpected result: %v", got)
				}
			}
		})
	}
}

func TestVM_JumpOutOfScriptFaults(t *testing.T) {
	expectFault(t, ErrInvalidJump, byte(opcode.JMP), 0x80)
}

func TestVM_CallSharesEvaluationStack(t *testing.T) {
	vm := runScript(t,
		byte(opcode.PUSH7),
		byte(opcode.CALL), 3, // < target: the PUSH2 below
		byte(opcode.RET),
		byte(opcode.PUSH2),
		byte(opcode.ADD),
		byte(opcode.RET),
	)
	if want, got := []int64{9}, resultInts(t, vm); len(got) != 1 || want[0] != got[0] {
		t.Errorf("unexpected result, wanted %v, got %v", want, got)
	}
}

func TestVM_CalleeReportsCallingScriptHash(t *testing.T) {
	vm := New()
	outer := vm.LoadScriptWithFlags([]byte{byte(opcode.PUSH1)}, callflag.All)
	inner := vm.LoadScriptWithFlags([]byte{byte(opcode.PUSH2)}, callflag.All)
	if want, got := outer.ScriptHash(), inner.CallingScriptHash(); want != got {
		t.Errorf("unexpected calling script hash, wanted %v, got %v", want, got)
	}
	if want, got := (Context{}).callingScriptHash, outer.CallingScriptHash(); want != got {
		t.Errorf("the entry frame should have no calling script hash, got %v", got)
	}
}

func TestVM_PackAndUnpack(t *testing.T) {
	vm := runScript(t,
		byte(opcode.PUSH5),
		byte(opcode.PUSH6),
		byte(opcode.PUSH2), // < element count
		byte(opcode.PACK),
		byte(opcode.UNPACK),
	)
	if want, got := []int64{5, 6, 2}, resultInts(t, vm); len(got) != 3 ||
		want[0] != got[0] || want[1] != got[1] || want[2] != got[2] {
		t.Errorf("unexpected result, wanted %v, got %v", want, got)
	}
}

func TestVM_PackWithExcessiveCountFaults(t *testing.T) {
	expectFault(t, ErrBadCollectionLen, byte(opcode.PUSH5), byte(opcode.PUSH2), byte(opcode.PACK))
}

func TestVM_UnpackOfNonArrayFaults(t *testing.T) {
	expectFault(t, nil, byte(opcode.PUSH5), byte(opcode.UNPACK))
}

func TestVM_NewArray0PushesEmptyArray(t *testing.T) {
	vm := runScript(t, byte(opcode.NEWARRAY0))
	item, _ := vm.ResultStack().Pop()
	array, ok := item.(*stackitem.Array)
	if !ok || array.Len() != 0 {
		t.Errorf("unexpected result: %v", item)
	}
}

func TestVM_AbortFaults(t *testing.T) {
	expectFault(t, ErrAbort, byte(opcode.PUSH1), byte(opcode.ABORT))
}

func TestVM_InvalidOpcodeFaults(t *testing.T) {
	expectFault(t, ErrInvalidOpcode, 0xFF)
}

func TestVM_TruncatedOperandFaults(t *testing.T) {
	tests := map[string][]byte{
		"fixed_operand":     {byte(opcode.PUSHINT16), 0x01},
		"missing_prefix":    {byte(opcode.PUSHDATA1)},
		"truncated_payload": {byte(opcode.PUSHDATA1), 3, 0xAA},
		"syscall_id":        {byte(opcode.SYSCALL), 0x01, 0x02},
	}
	for name, script := range tests {
		t.Run(name, func(t *testing.T) {
			expectFault(t, ErrTruncatedScript, script...)
		})
	}
}

func TestVM_ScriptEndActsAsImplicitReturn(t *testing.T) {
	vm := runScript(t, byte(opcode.PUSH3))
	if want, got := []int64{3}, resultInts(t, vm); len(got) != 1 || want[0] != got[0] {
		t.Errorf("unexpected result, wanted %v, got %v", want, got)
	}
}

func TestVM_SyscallInvokesHandlerWithDecodedId(t *testing.T) {
	vm := New()
	var got uint32
	vm.OnSyscall = func(id uint32) error {
		got = id
		return nil
	}
	vm.LoadScriptWithFlags([]byte{byte(opcode.SYSCALL), 0xAA, 0xBB, 0xCC, 0xDD}, callflag.All)
	if err := vm.Run(); err != nil {
		t.Fatalf("unexpected fault: %v", err)
	}
	if want := uint32(0xDDCCBBAA); want != got {
		t.Errorf("unexpected service id, wanted 0x%08X, got 0x%08X", want, got)
	}
}

func TestVM_SyscallWithoutHandlerFaults(t *testing.T) {
	expectFault(t, ErrSyscallFailed, byte(opcode.SYSCALL), 1, 2, 3, 4)
}

func TestVM_SyscallHandlerErrorFaults(t *testing.T) {
	sentinel := ConstError("handler rejected")
	vm := New()
	vm.OnSyscall = func(id uint32) error { return sentinel }
	vm.LoadScriptWithFlags([]byte{byte(opcode.SYSCALL), 1, 2, 3, 4}, callflag.All)
	if err := vm.Run(); !errors.Is(err, sentinel) {
		t.Errorf("unexpected fault reason: %v", err)
	}
	if want, got := FaultState, vm.State(); want != got {
		t.Errorf("unexpected state, wanted %v, got %v", want, got)
	}
}

func TestVM_PreExecHookAbortsBeforeExecution(t *testing.T) {
	sentinel := ConstError("metering rejected")
	vm := New()
	vm.OnPreExec = func(ctx *Context, op opcode.Opcode) error {
		if op == opcode.PUSH2 {
			return sentinel
		}
		return nil
	}
	vm.LoadScriptWithFlags([]byte{byte(opcode.PUSH1), byte(opcode.PUSH2)}, callflag.All)
	if err := vm.Run(); !errors.Is(err, sentinel) {
		t.Fatalf("unexpected fault reason: %v", err)
	}
	if want, got := 1, vm.EntryContext().Estack().Len(); want != got {
		t.Errorf("the rejected instruction must not execute, wanted %d items, got %d", want, got)
	}
}

func TestVM_ContextUnloadHookSeesPoppedAndCurrentFrame(t *testing.T) {
	vm := New()
	type unload struct{ popped, current *Context }
	var unloads []unload
	vm.OnContextUnloaded = func(popped, current *Context) error {
		unloads = append(unloads, unload{popped, current})
		return nil
	}
	outer := vm.LoadScriptWithFlags([]byte{byte(opcode.PUSH1)}, callflag.All)
	inner := vm.LoadScriptWithFlags([]byte{byte(opcode.PUSH2)}, callflag.All)
	if err := vm.Run(); err != nil {
		t.Fatalf("unexpected fault: %v", err)
	}
	if len(unloads) != 2 {
		t.Fatalf("unexpected number of unloads: %d", len(unloads))
	}
	if unloads[0].popped != inner || unloads[0].current != outer {
		t.Errorf("unexpected first unload")
	}
	if unloads[1].popped != outer || unloads[1].current != nil {
		t.Errorf("the entry frame should unload with a nil successor")
	}
}

func TestVM_ContextUnloadHookErrorFaults(t *testing.T) {
	sentinel := ConstError("unload rejected")
	vm := New()
	vm.OnContextUnloaded = func(popped, current *Context) error { return sentinel }
	vm.LoadScriptWithFlags([]byte{byte(opcode.PUSH1)}, callflag.All)
	if err := vm.Run(); !errors.Is(err, sentinel) {
		t.Errorf("unexpected fault reason: %v", err)
	}
}

func TestVM_UnloadedFrameForwardsItemsToParentStack(t *testing.T) {
	vm := New()
	vm.LoadScriptWithFlags([]byte{byte(opcode.PUSH1), byte(opcode.DEPTH)}, callflag.All)
	vm.LoadScriptWithFlags([]byte{byte(opcode.PUSH7)}, callflag.All)

	// Step through the inner frame; its value must land on the outer
	// frame's evaluation stack, where DEPTH can observe it.
	if err := vm.Run(); err != nil {
		t.Fatalf("unexpected fault: %v", err)
	}
	got := resultInts(t, vm)
	if len(got) != 3 || got[0] != 7 || got[1] != 1 || got[2] != 2 {
		t.Errorf("unexpected result: %v", got)
	}
}

func TestVM_DeclaredReturnCountIsVisibleOnTheFrame(t *testing.T) {
	vm := New()
	ctx := vm.LoadScriptWithRvCount([]byte{byte(opcode.PUSH1)}, callflag.All, 1)
	if want, got := 1, ctx.ReturnCount(); want != got {
		t.Errorf("unexpected return count, wanted %d, got %d", want, got)
	}
	unconstrained := vm.LoadScriptWithFlags([]byte{byte(opcode.PUSH1)}, callflag.All)
	if want, got := -1, unconstrained.ReturnCount(); want != got {
		t.Errorf("unexpected return count, wanted %d, got %d", want, got)
	}
}
