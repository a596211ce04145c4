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

import "github.com/helixchain/helixvm/vm"

const (
	// ErrGasExhausted aborts a run whose gas budget cannot cover the next
	// instruction or syscall. Contracts cannot catch it.
	ErrGasExhausted = vm.ConstError("gas limit exceeded")

	// ErrInvariantViolation reports a frame that left a number of values on
	// its evaluation stack different from its declared return count. This is
	// a defect of the emitted bytecode, not a recoverable condition.
	ErrInvariantViolation = vm.ConstError("return value count mismatch on context unload")

	// errGasOverflow signals integer overflow in gas accounting. Budgets are
	// bounded far below the integer range, so an overflow is a programming
	// error upstream and surfaces as a panic that faults the engine.
	errGasOverflow = vm.ConstError("gas counter overflow")

	errNegativeGas      = vm.ConstError("negative gas amount")
	errNotAnArray       = vm.ConstError("array parameter is not an array")
	errTooManyElements  = vm.ConstError("array parameter length exceeds stack limit")
	errNotAnEnumValue   = vm.ConstError("enum parameter is not numeric")
	errInteropMismatch  = vm.ConstError("interop handle wraps an unexpected type")
	errNotAnInteropItem = vm.ConstError("parameter is not an interop handle")
	errNoScriptLoaded   = vm.ConstError("no script loaded")
)
