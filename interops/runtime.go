// Copyright (c) 2024 Helix Chain Labs
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at helixchain.io/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package interops provides the standard library of host functions available
// to contract scripts. Importing the package registers all of its services
// with the process-wide engine registry.
package interops

import (
	"fmt"

	"github.com/helixchain/helixvm/callflag"
	"github.com/helixchain/helixvm/engine"
	"github.com/helixchain/helixvm/hash"
	"github.com/helixchain/helixvm/trigger"
	"github.com/helixchain/helixvm/vm/stackitem"
)

// Platform is the name reported by System.Runtime.Platform.
const Platform = "HELIX"

const (
	// MaxLogLength bounds the message size of System.Runtime.Log.
	MaxLogLength = 1024
	// MaxEventNameLength bounds the name size of System.Runtime.Notify.
	MaxEventNameLength = 32
)

func init() {
	engine.MustRegister(engine.Descriptor{
		Name:            "System.Runtime.Platform",
		Price:           1 << 3,
		AllowedTriggers: trigger.All,
		Handler: func(e *engine.Engine, args []any) (any, error) {
			return []byte(Platform), nil
		},
		ReturnsValue: true,
	})
	engine.MustRegister(engine.Descriptor{
		Name:            "System.Runtime.GetTrigger",
		Price:           1 << 3,
		AllowedTriggers: trigger.All,
		Handler: func(e *engine.Engine, args []any) (any, error) {
			return e.Trigger(), nil
		},
		ReturnsValue: true,
	})
	engine.MustRegister(engine.Descriptor{
		Name:            "System.Runtime.GetTime",
		Price:           1 << 3,
		AllowedTriggers: trigger.All,
		RequiredFlags:   callflag.ReadStates,
		Handler:         runtimeGetTime,
		ReturnsValue:    true,
	})
	engine.MustRegister(engine.Descriptor{
		Name:            "System.Runtime.GasLeft",
		Price:           1 << 4,
		AllowedTriggers: trigger.All,
		Handler: func(e *engine.Engine, args []any) (any, error) {
			return e.GasLeft(), nil
		},
		ReturnsValue: true,
	})
	engine.MustRegister(engine.Descriptor{
		Name:            "System.Runtime.GetInvocationCounter",
		Price:           1 << 4,
		AllowedTriggers: trigger.All,
		Handler: func(e *engine.Engine, args []any) (any, error) {
			return e.InvocationCounter(e.CurrentScriptHash()), nil
		},
		ReturnsValue: true,
	})
	engine.MustRegister(engine.Descriptor{
		Name:            "System.Runtime.GetNotifications",
		Price:           1 << 12,
		AllowedTriggers: trigger.All,
		Params:          []engine.ParamDescriptor{{Type: engine.ItemParam}},
		Handler:         runtimeGetNotifications,
		ReturnsValue:    true,
	})
	engine.MustRegister(engine.Descriptor{
		Name:            "System.Runtime.GetExecutingScriptHash",
		Price:           1 << 4,
		AllowedTriggers: trigger.All,
		Handler: func(e *engine.Engine, args []any) (any, error) {
			return e.CurrentScriptHash(), nil
		},
		ReturnsValue: true,
	})
	engine.MustRegister(engine.Descriptor{
		Name:            "System.Runtime.GetCallingScriptHash",
		Price:           1 << 4,
		AllowedTriggers: trigger.All,
		Handler: func(e *engine.Engine, args []any) (any, error) {
			return e.CallingScriptHash(), nil
		},
		ReturnsValue: true,
	})
	engine.MustRegister(engine.Descriptor{
		Name:            "System.Runtime.GetEntryScriptHash",
		Price:           1 << 4,
		AllowedTriggers: trigger.All,
		Handler: func(e *engine.Engine, args []any) (any, error) {
			return e.EntryScriptHash(), nil
		},
		ReturnsValue: true,
	})
	engine.MustRegister(engine.Descriptor{
		Name:            "System.Runtime.Log",
		Price:           1 << 15,
		AllowedTriggers: trigger.All,
		RequiredFlags:   callflag.AllowNotify,
		Params:          []engine.ParamDescriptor{{Type: engine.StringParam}},
		Handler:         runtimeLog,
	})
	engine.MustRegister(engine.Descriptor{
		Name:            "System.Runtime.Notify",
		Price:           1 << 15,
		AllowedTriggers: trigger.All,
		RequiredFlags:   callflag.AllowNotify,
		Params: []engine.ParamDescriptor{
			{Type: engine.StringParam},
			{Type: engine.ItemParam},
		},
		Handler: runtimeNotify,
	})
}

func runtimeGetTime(e *engine.Engine, args []any) (any, error) {
	block := e.Snapshot().PersistingBlock()
	if block == nil {
		return nil, fmt.Errorf("no persisting block in the context")
	}
	return block.Timestamp, nil
}

// runtimeGetNotifications lists the notifications emitted so far, each as a
// [contract, name, state] struct. A null filter selects all contracts; a
// 20-byte filter selects one.
func runtimeGetNotifications(e *engine.Engine, args []any) (any, error) {
	item := args[0].(stackitem.Item)
	var filter *hash.Hash160
	if _, isNull := item.(stackitem.Null); !isNull {
		data, err := item.TryBytes()
		if err != nil {
			return nil, err
		}
		if len(data) != len(hash.Hash160{}) {
			return nil, fmt.Errorf("invalid contract filter of %d bytes", len(data))
		}
		var h hash.Hash160
		copy(h[:], data)
		filter = &h
	}
	result := make([]stackitem.Item, 0, len(e.Notifications()))
	for _, n := range e.Notifications() {
		if filter != nil && n.Contract != *filter {
			continue
		}
		result = append(result, stackitem.NewStruct([]stackitem.Item{
			stackitem.NewByteArray(n.Contract[:]),
			stackitem.NewByteArray([]byte(n.Name)),
			n.Item,
		}))
	}
	return result, nil
}

func runtimeLog(e *engine.Engine, args []any) (any, error) {
	message := args[0].(string)
	if len(message) > MaxLogLength {
		return nil, fmt.Errorf("message length %d exceeds the limit of %d bytes", len(message), MaxLogLength)
	}
	e.Log(message)
	return nil, nil
}

func runtimeNotify(e *engine.Engine, args []any) (any, error) {
	name := args[0].(string)
	if len(name) > MaxEventNameLength {
		return nil, fmt.Errorf("event name length %d exceeds the limit of %d bytes", len(name), MaxEventNameLength)
	}
	e.SendNotification(e.CurrentScriptHash(), name, args[1].(stackitem.Item))
	return nil, nil
}
