// Copyright (c) 2024 Helix Chain Labs
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at helixchain.io/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package stackitem

import (
	"fmt"
	"math/big"
)

// MaxIntegerBytes is the maximum byte length of the two's-complement
// representation of an Integer item.
const MaxIntegerBytes = 32

// MaxByteArraySize is the maximum length of a ByteArray item.
const MaxByteArraySize = 1024 * 1024

// Item errors.
const (
	errInvalidConversion = constError("invalid stack item conversion")
	errIntegerTooBig     = constError("integer exceeds 32 bytes")
	errByteArrayTooBig   = constError("byte array exceeds size limit")
)

type constError string

func (e constError) Error() string { return string(e) }

// Type is an enumeration of the kinds of items that may appear on the
// evaluation stack of the VM.
type Type byte

const (
	AnyT Type = iota
	BooleanT
	IntegerT
	ByteArrayT
	ArrayT
	StructT
	InteropT
)

func (t Type) String() string {
	switch t {
	case AnyT:
		return "Any"
	case BooleanT:
		return "Boolean"
	case IntegerT:
		return "Integer"
	case ByteArrayT:
		return "ByteArray"
	case ArrayT:
		return "Array"
	case StructT:
		return "Struct"
	case InteropT:
		return "InteropInterface"
	default:
		return fmt.Sprintf("Type(%d)", byte(t))
	}
}

// Item is the tagged value representation exchanged on the evaluation stack.
// All conversions are explicit and report failures as errors so that the
// engine can turn a malformed operand into a deterministic fault.
type Item interface {
	Type() Type
	// TryBool converts the item to a boolean value.
	TryBool() (bool, error)
	// TryInteger converts the item to an arbitrary-precision integer.
	TryInteger() (*big.Int, error)
	// TryBytes converts the item to a byte slice.
	TryBytes() ([]byte, error)
	// Equals compares two items for equality. Compound items compare
	// element-wise, interop items by reference identity.
	Equals(other Item) bool
}

// --- Null ---

// Null represents the absence of a value.
type Null struct{}

func (Null) Type() Type                    { return AnyT }
func (Null) TryBool() (bool, error)        { return false, nil }
func (Null) TryInteger() (*big.Int, error) { return nil, errInvalidConversion }
func (Null) TryBytes() ([]byte, error)     { return nil, errInvalidConversion }
func (Null) Equals(other Item) bool {
	_, ok := other.(Null)
	return ok
}
func (Null) String() string { return "Null" }

// --- Bool ---

// Bool is a boolean stack item.
type Bool bool

func NewBool(value bool) Bool { return Bool(value) }

func (b Bool) Type() Type             { return BooleanT }
func (b Bool) TryBool() (bool, error) { return bool(b), nil }
func (b Bool) TryInteger() (*big.Int, error) {
	if b {
		return big.NewInt(1), nil
	}
	return big.NewInt(0), nil
}
func (b Bool) TryBytes() ([]byte, error) {
	if b {
		return []byte{1}, nil
	}
	return []byte{0}, nil
}
func (b Bool) Equals(other Item) bool {
	o, ok := other.(Bool)
	return ok && b == o
}
func (b Bool) String() string { return fmt.Sprintf("Boolean(%v)", bool(b)) }

// --- BigInteger ---

// BigInteger is an arbitrary-precision integer stack item bounded to
// MaxIntegerBytes in its two's-complement encoding.
type BigInteger struct {
	value *big.Int
}

// NewBigInteger wraps the given integer as a stack item. The caller must not
// mutate the integer afterwards.
func NewBigInteger(value *big.Int) *BigInteger {
	return &BigInteger{value: value}
}

func (i *BigInteger) Value() *big.Int { return i.value }

func (i *BigInteger) Type() Type { return IntegerT }
func (i *BigInteger) TryBool() (bool, error) {
	return i.value.Sign() != 0, nil
}
func (i *BigInteger) TryInteger() (*big.Int, error) {
	if len(i.value.Bytes()) > MaxIntegerBytes {
		return nil, errIntegerTooBig
	}
	return i.value, nil
}
func (i *BigInteger) TryBytes() ([]byte, error) {
	return i.value.Bytes(), nil
}
func (i *BigInteger) Equals(other Item) bool {
	o, ok := other.(*BigInteger)
	return ok && i.value.Cmp(o.value) == 0
}
func (i *BigInteger) String() string { return fmt.Sprintf("Integer(%v)", i.value) }

// --- ByteArray ---

// ByteArray is a raw byte sequence stack item.
type ByteArray []byte

func NewByteArray(value []byte) ByteArray { return ByteArray(value) }

func (a ByteArray) Type() Type { return ByteArrayT }
func (a ByteArray) TryBool() (bool, error) {
	for _, b := range a {
		if b != 0 {
			return true, nil
		}
	}
	return false, nil
}
func (a ByteArray) TryInteger() (*big.Int, error) {
	if len(a) > MaxIntegerBytes {
		return nil, errIntegerTooBig
	}
	return new(big.Int).SetBytes(a), nil
}
func (a ByteArray) TryBytes() ([]byte, error) { return a, nil }
func (a ByteArray) Equals(other Item) bool {
	o, ok := other.(ByteArray)
	if !ok || len(a) != len(o) {
		return false
	}
	for i := range a {
		if a[i] != o[i] {
			return false
		}
	}
	return true
}
func (a ByteArray) String() string { return fmt.Sprintf("ByteArray(0x%x)", []byte(a)) }

// --- Array ---

// Array is an ordered sequence of items.
type Array struct {
	value []Item
}

func NewArray(items []Item) *Array { return &Array{value: items} }

func (a *Array) Value() []Item { return a.value }
func (a *Array) Len() int      { return len(a.value) }

// Append adds an item to the end of the array.
func (a *Array) Append(item Item) { a.value = append(a.value, item) }

func (a *Array) Type() Type                    { return ArrayT }
func (a *Array) TryBool() (bool, error)        { return true, nil }
func (a *Array) TryInteger() (*big.Int, error) { return nil, errInvalidConversion }
func (a *Array) TryBytes() ([]byte, error)     { return nil, errInvalidConversion }
func (a *Array) Equals(other Item) bool {
	o, ok := other.(*Array)
	return ok && equalElements(a.value, o.value)
}
func (a *Array) String() string { return fmt.Sprintf("Array(%d)", len(a.value)) }

// --- Struct ---

// Struct is an ordered record of items. It differs from Array only in its
// type tag and value-wise comparison semantics.
type Struct struct {
	value []Item
}

func NewStruct(fields []Item) *Struct { return &Struct{value: fields} }

func (s *Struct) Value() []Item { return s.value }
func (s *Struct) Len() int      { return len(s.value) }

func (s *Struct) Type() Type                    { return StructT }
func (s *Struct) TryBool() (bool, error)        { return true, nil }
func (s *Struct) TryInteger() (*big.Int, error) { return nil, errInvalidConversion }
func (s *Struct) TryBytes() ([]byte, error)     { return nil, errInvalidConversion }
func (s *Struct) Equals(other Item) bool {
	o, ok := other.(*Struct)
	return ok && equalElements(s.value, o.value)
}
func (s *Struct) String() string { return fmt.Sprintf("Struct(%d)", len(s.value)) }

func equalElements(a, b []Item) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equals(b[i]) {
			return false
		}
	}
	return true
}

// --- Interop ---

// Interop wraps a native reference as an opaque handle. Script code cannot
// introspect the wrapped value; it can only pass the handle back to host
// functions, which unwrap and type-check it.
type Interop struct {
	value any
}

func NewInterop(value any) *Interop { return &Interop{value: value} }

func (i *Interop) Value() any { return i.value }

func (i *Interop) Type() Type                    { return InteropT }
func (i *Interop) TryBool() (bool, error)        { return true, nil }
func (i *Interop) TryInteger() (*big.Int, error) { return nil, errInvalidConversion }
func (i *Interop) TryBytes() ([]byte, error)     { return nil, errInvalidConversion }
func (i *Interop) Equals(other Item) bool {
	o, ok := other.(*Interop)
	return ok && i.value == o.value
}
func (i *Interop) String() string { return fmt.Sprintf("InteropInterface(%T)", i.value) }
