// Copyright (c) 2024 Helix Chain Labs
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at helixchain.io/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package interops

import (
	"fmt"

	"github.com/helixchain/helixvm/callflag"
	"github.com/helixchain/helixvm/engine"
	"github.com/helixchain/helixvm/hash"
	"github.com/helixchain/helixvm/trigger"
)

const (
	// MaxStorageKeyLength bounds the key size of a contract storage entry.
	MaxStorageKeyLength = 64
	// MaxStorageValueLength bounds the value size of a contract storage
	// entry.
	MaxStorageValueLength = 65535
)

// StorageContext scopes storage access to the contract that requested it.
// Contracts hold it as an opaque handle; only host functions can inspect it.
type StorageContext struct {
	Contract hash.Hash160
	ReadOnly bool
}

// storageContextParam accepts an opaque handle wrapping a StorageContext.
var storageContextParam = engine.ParamDescriptor{
	Type: engine.InteropParam,
	Unwrap: func(value any) (any, bool) {
		sc, ok := value.(*StorageContext)
		return sc, ok
	},
}

func init() {
	engine.MustRegister(engine.Descriptor{
		Name:            "System.Storage.GetContext",
		Price:           1 << 4,
		AllowedTriggers: trigger.Application,
		RequiredFlags:   callflag.ReadStates,
		Handler: func(e *engine.Engine, args []any) (any, error) {
			return &StorageContext{Contract: e.CurrentScriptHash()}, nil
		},
		ReturnsValue: true,
	})
	engine.MustRegister(engine.Descriptor{
		Name:            "System.Storage.GetReadOnlyContext",
		Price:           1 << 4,
		AllowedTriggers: trigger.Application,
		RequiredFlags:   callflag.ReadStates,
		Handler: func(e *engine.Engine, args []any) (any, error) {
			return &StorageContext{Contract: e.CurrentScriptHash(), ReadOnly: true}, nil
		},
		ReturnsValue: true,
	})
	engine.MustRegister(engine.Descriptor{
		Name:            "System.Storage.AsReadOnly",
		Price:           1 << 4,
		AllowedTriggers: trigger.Application,
		RequiredFlags:   callflag.ReadStates,
		Params:          []engine.ParamDescriptor{storageContextParam},
		Handler: func(e *engine.Engine, args []any) (any, error) {
			sc := args[0].(*StorageContext)
			return &StorageContext{Contract: sc.Contract, ReadOnly: true}, nil
		},
		ReturnsValue: true,
	})
	engine.MustRegister(engine.Descriptor{
		Name:            "System.Storage.Get",
		Price:           1 << 15,
		AllowedTriggers: trigger.Application,
		RequiredFlags:   callflag.ReadStates,
		Params: []engine.ParamDescriptor{
			storageContextParam,
			{Type: engine.BytesParam},
		},
		Handler:      storageGet,
		ReturnsValue: true,
	})
	engine.MustRegister(engine.Descriptor{
		Name:            "System.Storage.Put",
		Price:           1 << 15,
		AllowedTriggers: trigger.Application,
		RequiredFlags:   callflag.WriteStates,
		Params: []engine.ParamDescriptor{
			storageContextParam,
			{Type: engine.BytesParam},
			{Type: engine.BytesParam},
		},
		Handler: storagePut,
	})
	engine.MustRegister(engine.Descriptor{
		Name:            "System.Storage.Delete",
		Price:           1 << 15,
		AllowedTriggers: trigger.Application,
		RequiredFlags:   callflag.WriteStates,
		Params: []engine.ParamDescriptor{
			storageContextParam,
			{Type: engine.BytesParam},
		},
		Handler: storageDelete,
	})
	engine.MustRegister(engine.Descriptor{
		Name:            "System.Storage.Find",
		Price:           1 << 15,
		AllowedTriggers: trigger.Application,
		RequiredFlags:   callflag.ReadStates,
		Params: []engine.ParamDescriptor{
			storageContextParam,
			{Type: engine.BytesParam},
		},
		Handler:      storageFind,
		ReturnsValue: true,
	})
}

func storageGet(e *engine.Engine, args []any) (any, error) {
	sc := args[0].(*StorageContext)
	value, err := e.Snapshot().GetStorageItem(sc.Contract, args[1].([]byte))
	if err != nil {
		return nil, err
	}
	if value == nil {
		return nil, nil
	}
	return value, nil
}

func storagePut(e *engine.Engine, args []any) (any, error) {
	sc := args[0].(*StorageContext)
	if sc.ReadOnly {
		return nil, fmt.Errorf("storage context is read-only")
	}
	key := args[1].([]byte)
	if len(key) > MaxStorageKeyLength {
		return nil, fmt.Errorf("key length %d exceeds the limit of %d bytes", len(key), MaxStorageKeyLength)
	}
	value := args[2].([]byte)
	if len(value) > MaxStorageValueLength {
		return nil, fmt.Errorf("value length %d exceeds the limit of %d bytes", len(value), MaxStorageValueLength)
	}
	return nil, e.Snapshot().PutStorageItem(sc.Contract, key, value)
}

func storageDelete(e *engine.Engine, args []any) (any, error) {
	sc := args[0].(*StorageContext)
	if sc.ReadOnly {
		return nil, fmt.Errorf("storage context is read-only")
	}
	return nil, e.Snapshot().DeleteStorageItem(sc.Contract, args[1].([]byte))
}

func storageFind(e *engine.Engine, args []any) (any, error) {
	sc := args[0].(*StorageContext)
	iterator, err := e.Snapshot().FindStorage(sc.Contract, args[1].([]byte))
	if err != nil {
		return nil, err
	}
	// The iterator outlives this call; the engine closes it on disposal.
	e.RegisterDisposable(iterator)
	return iterator, nil
}
