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

// ConstError is a constant error type, enabling the definition of immutable
// error sentinels.
type ConstError string

func (e ConstError) Error() string {
	return string(e)
}

const (
	ErrStackUnderflow   = ConstError("stack underflow")
	ErrStackOverflow    = ConstError("stack overflow")
	ErrInvalidOpcode    = ConstError("invalid opcode")
	ErrTruncatedScript  = ConstError("truncated instruction operand")
	ErrInvalidJump      = ConstError("invalid jump destination")
	ErrSyscallFailed    = ConstError("illegal system call")
	ErrAbort            = ConstError("execution aborted")
	ErrIntegerTooLarge  = ConstError("integer exceeds size limit")
	ErrItemTooLarge     = ConstError("item exceeds size limit")
	ErrBadCollectionLen = ConstError("invalid collection length")
)
