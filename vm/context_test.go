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
	"testing"

	"github.com/helixchain/helixvm/callflag"
	"github.com/helixchain/helixvm/hash"
	"github.com/helixchain/helixvm/vm/opcode"
)

func TestContext_ScriptHashIsDerivedLazilyAndCached(t *testing.T) {
	script := []byte{byte(opcode.PUSH1), byte(opcode.RET)}
	ctx := newContext(script, callflag.All, unconstrainedReturnCount, NewStack())
	want := hash.Hash160FromScript(script)
	if got := ctx.ScriptHash(); want != got {
		t.Errorf("unexpected script hash, wanted %v, got %v", want, got)
	}
	if got := ctx.ScriptHash(); want != got {
		t.Errorf("repeated derivation changed the hash, wanted %v, got %v", want, got)
	}
}

func TestContext_JumpBounds(t *testing.T) {
	ctx := newContext(make([]byte, 4), callflag.All, unconstrainedReturnCount, NewStack())
	tests := map[string]struct {
		offset int
		valid  bool
	}{
		"start":        {offset: 0, valid: true},
		"inside":       {offset: 2, valid: true},
		"script_end":   {offset: 4, valid: true},
		"negative":     {offset: -1, valid: false},
		"past_the_end": {offset: 5, valid: false},
	}
	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			err := ctx.Jump(test.offset)
			if test.valid && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if !test.valid && err == nil {
				t.Errorf("expected error, got nil")
			}
		})
	}
}

func TestContext_ExhaustedScriptReportsImplicitReturn(t *testing.T) {
	ctx := newContext([]byte{byte(opcode.PUSH1)}, callflag.All, unconstrainedReturnCount, NewStack())
	if want, got := opcode.PUSH1, ctx.CurrentOpcode(); want != got {
		t.Errorf("unexpected opcode, wanted %v, got %v", want, got)
	}
	if err := ctx.Jump(1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want, got := opcode.RET, ctx.CurrentOpcode(); want != got {
		t.Errorf("unexpected opcode, wanted %v, got %v", want, got)
	}
}
