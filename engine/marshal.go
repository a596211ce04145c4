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
	"encoding"
	"fmt"
	"math/big"

	"github.com/helixchain/helixvm/callflag"
	"github.com/helixchain/helixvm/hash"
	"github.com/helixchain/helixvm/trigger"
	"github.com/helixchain/helixvm/vm"
	"github.com/helixchain/helixvm/vm/stackitem"
)

// Convertible is implemented by native values that know how to express
// themselves as a structured stack-item representation.
type Convertible interface {
	ToStackItem() (stackitem.Item, error)
}

// Pair is a native 2-tuple marshalled as a two-field struct item, converting
// each element recursively.
type Pair struct {
	Key   any
	Value any
}

// ToStackItem converts a native value to its stack-item representation. The
// supported shapes form a closed set; any other value is wrapped as an
// opaque interop handle that script code can hold but not introspect.
func ToStackItem(value any) (stackitem.Item, error) {
	switch v := value.(type) {
	case nil:
		return stackitem.Null{}, nil
	case bool:
		return stackitem.NewBool(v), nil
	case int:
		return stackitem.NewBigInteger(big.NewInt(int64(v))), nil
	case int8:
		return stackitem.NewBigInteger(big.NewInt(int64(v))), nil
	case int16:
		return stackitem.NewBigInteger(big.NewInt(int64(v))), nil
	case int32:
		return stackitem.NewBigInteger(big.NewInt(int64(v))), nil
	case int64:
		return stackitem.NewBigInteger(big.NewInt(v)), nil
	case uint:
		return stackitem.NewBigInteger(new(big.Int).SetUint64(uint64(v))), nil
	case uint8:
		return stackitem.NewBigInteger(big.NewInt(int64(v))), nil
	case uint16:
		return stackitem.NewBigInteger(big.NewInt(int64(v))), nil
	case uint32:
		return stackitem.NewBigInteger(big.NewInt(int64(v))), nil
	case uint64:
		return stackitem.NewBigInteger(new(big.Int).SetUint64(v)), nil
	case trigger.Kind:
		return stackitem.NewBigInteger(big.NewInt(int64(v))), nil
	case callflag.Flag:
		return stackitem.NewBigInteger(big.NewInt(int64(v))), nil
	case []byte:
		return stackitem.NewByteArray(v), nil
	case string:
		return stackitem.NewByteArray([]byte(v)), nil
	case *big.Int:
		return stackitem.NewBigInteger(v), nil
	case hash.Hash160:
		return stackitem.NewByteArray(v[:]), nil
	case hash.Hash256:
		return stackitem.NewByteArray(v[:]), nil
	case stackitem.Item:
		return v, nil
	case Convertible:
		return v.ToStackItem()
	case encoding.BinaryMarshaler:
		data, err := v.MarshalBinary()
		if err != nil {
			return nil, fmt.Errorf("failed to marshal %T: %w", value, err)
		}
		return stackitem.NewByteArray(data), nil
	case Pair:
		key, err := ToStackItem(v.Key)
		if err != nil {
			return nil, err
		}
		val, err := ToStackItem(v.Value)
		if err != nil {
			return nil, err
		}
		return stackitem.NewStruct([]stackitem.Item{key, val}), nil
	case []any:
		return sliceToStackItem(v)
	case [][]byte:
		return sliceToStackItem(v)
	case []string:
		return sliceToStackItem(v)
	case []int64:
		return sliceToStackItem(v)
	case []*big.Int:
		return sliceToStackItem(v)
	case []hash.Hash160:
		return sliceToStackItem(v)
	case []stackitem.Item:
		return stackitem.NewArray(v), nil
	case []Pair:
		return sliceToStackItem(v)
	default:
		return stackitem.NewInterop(value), nil
	}
}

func sliceToStackItem[T any](values []T) (stackitem.Item, error) {
	items := make([]stackitem.Item, len(values))
	for i, v := range values {
		item, err := ToStackItem(v)
		if err != nil {
			return nil, err
		}
		items[i] = item
	}
	return stackitem.NewArray(items), nil
}

// convertParam converts a popped stack item to the native value described by
// the parameter descriptor. Array parameters may consume additional values
// from the given evaluation stack when the arguments arrive in the
// count-plus-elements calling convention.
func convertParam(p ParamDescriptor, item stackitem.Item, estack *vm.Stack) (any, error) {
	if p.IsArray {
		return convertArrayParam(p, item, estack)
	}
	return convertElement(p, item)
}

func convertElement(p ParamDescriptor, item stackitem.Item) (any, error) {
	value, err := convertScalar(p.Type, item)
	if err != nil {
		return nil, err
	}
	if p.Enum != nil {
		num, ok := value.(int64)
		if !ok {
			return nil, errNotAnEnumValue
		}
		return p.Enum(num), nil
	}
	if p.Type == InteropParam && p.Unwrap != nil {
		unwrapped, ok := p.Unwrap(value)
		if !ok {
			return nil, errInteropMismatch
		}
		return unwrapped, nil
	}
	return value, nil
}

func convertScalar(t ParamType, item stackitem.Item) (any, error) {
	switch t {
	case BoolParam:
		return item.TryBool()
	case IntParam:
		num, err := item.TryInteger()
		if err != nil {
			return nil, err
		}
		if !num.IsInt64() {
			return nil, fmt.Errorf("%v does not fit into an int64", num)
		}
		return num.Int64(), nil
	case BigIntParam:
		return item.TryInteger()
	case BytesParam:
		return item.TryBytes()
	case StringParam:
		data, err := item.TryBytes()
		if err != nil {
			return nil, err
		}
		return string(data), nil
	case Hash160Param:
		data, err := item.TryBytes()
		if err != nil {
			return nil, err
		}
		var res hash.Hash160
		if len(data) != len(res) {
			return nil, fmt.Errorf("expected %d bytes for a script hash, got %d", len(res), len(data))
		}
		copy(res[:], data)
		return res, nil
	case ItemParam:
		return item, nil
	case InteropParam:
		handle, ok := item.(*stackitem.Interop)
		if !ok {
			return nil, errNotAnInteropItem
		}
		return handle.Value(), nil
	default:
		return nil, fmt.Errorf("unsupported parameter type %v", t)
	}
}

func convertArrayParam(p ParamDescriptor, item stackitem.Item, estack *vm.Stack) (any, error) {
	element := ParamDescriptor{Type: p.Type, Enum: p.Enum, Unwrap: p.Unwrap}

	if array, ok := item.(*stackitem.Array); ok {
		elements := make([]any, array.Len())
		for i, member := range array.Value() {
			value, err := convertElement(element, member)
			if err != nil {
				return nil, err
			}
			elements[i] = value
		}
		return buildSlice(p, elements), nil
	}

	// The alternative calling convention encodes an array argument as its
	// element count followed by that many discrete stack values. The count
	// is validated before anything further is popped.
	count, err := item.TryInteger()
	if err != nil {
		return nil, err
	}
	if !count.IsInt64() || count.Sign() < 0 {
		return nil, errNotAnArray
	}
	n := count.Int64()
	if n > vm.MaxStackSize {
		return nil, errTooManyElements
	}
	elements := make([]any, n)
	for i := range elements {
		member, err := estack.Pop()
		if err != nil {
			return nil, err
		}
		value, err := convertElement(element, member)
		if err != nil {
			return nil, err
		}
		elements[i] = value
	}
	return buildSlice(p, elements), nil
}

// buildSlice re-types the converted elements as a slice of the declared
// native element type. Enum and interop elements keep the open []any shape
// since their concrete types are descriptor-defined.
func buildSlice(p ParamDescriptor, elements []any) any {
	if p.Enum != nil {
		return elements
	}
	switch p.Type {
	case BoolParam:
		return retype[bool](elements)
	case IntParam:
		return retype[int64](elements)
	case BigIntParam:
		return retype[*big.Int](elements)
	case BytesParam:
		return retype[[]byte](elements)
	case StringParam:
		return retype[string](elements)
	case Hash160Param:
		return retype[hash.Hash160](elements)
	case ItemParam:
		return retype[stackitem.Item](elements)
	default:
		return elements
	}
}

func retype[T any](elements []any) []T {
	res := make([]T, len(elements))
	for i, e := range elements {
		res[i] = e.(T)
	}
	return res
}
