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

import (
	"crypto/sha256"
	"encoding/binary"

	"github.com/helixchain/helixvm/callflag"
	"github.com/helixchain/helixvm/trigger"
)

// Handler is the native implementation of an interop service. It receives
// the engine of the current run and the already-marshalled arguments in
// declared parameter order. The returned value is marshalled back onto the
// evaluation stack iff the descriptor declares a return value.
type Handler func(e *Engine, args []any) (any, error)

// ParamType is the closed set of native shapes an interop-service parameter
// can be converted to.
type ParamType byte

const (
	BoolParam    ParamType = iota // bool
	IntParam                      // int64
	BigIntParam                   // *big.Int
	BytesParam                    // []byte
	StringParam                   // string
	Hash160Param                  // hash.Hash160
	ItemParam                     // raw stackitem.Item, no conversion
	InteropParam                  // native reference unwrapped from an opaque handle
)

func (t ParamType) String() string {
	switch t {
	case BoolParam:
		return "Bool"
	case IntParam:
		return "Int"
	case BigIntParam:
		return "BigInt"
	case BytesParam:
		return "Bytes"
	case StringParam:
		return "String"
	case Hash160Param:
		return "Hash160"
	case ItemParam:
		return "Item"
	case InteropParam:
		return "Interop"
	default:
		return "Unknown"
	}
}

// ParamDescriptor describes one parameter of an interop service and drives
// its conversion from the evaluation stack.
type ParamDescriptor struct {
	Type ParamType

	// IsArray marks a parameter accepting either an array item or the
	// count-plus-elements calling convention. The converted native value
	// is a slice of the element type.
	IsArray bool

	// Enum reinterprets the converted numeric value as a typed enumeration
	// value. Only meaningful for IntParam.
	Enum func(int64) any

	// Unwrap type-checks the native reference recovered from an opaque
	// interop handle and returns it in its concrete type. Only meaningful
	// for InteropParam. A false result faults the run.
	Unwrap func(any) (any, bool)
}

// Descriptor describes a single registered interop service. Descriptors are
// immutable after registration.
type Descriptor struct {
	// ID is the stable numeric identifier derived from Name.
	ID uint32
	// Name is the dotted service name, e.g. "System.Runtime.Log".
	Name string
	// Handler is the native implementation.
	Handler Handler
	// Price is the fixed gas price charged before parameters are consumed.
	Price int64
	// AllowedTriggers restricts the trigger kinds the service may be
	// invoked under.
	AllowedTriggers trigger.Kind
	// RequiredFlags must all be present in the calling frame's flags.
	RequiredFlags callflag.Flag
	// Params describes the parameters in calling order.
	Params []ParamDescriptor
	// ReturnsValue declares whether the handler result is pushed back.
	ReturnsValue bool
}

// ServiceID derives the stable numeric identifier of an interop service from
// its name. The identifier is the first four bytes, little-endian, of the
// SHA-256 digest of the name.
func ServiceID(name string) uint32 {
	digest := sha256.Sum256([]byte(name))
	return binary.LittleEndian.Uint32(digest[:4])
}
