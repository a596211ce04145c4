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
	"github.com/helixchain/helixvm/callflag"
	"github.com/helixchain/helixvm/engine"
	"github.com/helixchain/helixvm/ledger"
	"github.com/helixchain/helixvm/trigger"
)

// storageIteratorParam accepts an opaque handle wrapping a storage iterator
// produced by System.Storage.Find.
var storageIteratorParam = engine.ParamDescriptor{
	Type: engine.InteropParam,
	Unwrap: func(value any) (any, bool) {
		it, ok := value.(*ledger.StorageIterator)
		return it, ok
	},
}

func init() {
	engine.MustRegister(engine.Descriptor{
		Name:            "System.Iterator.Next",
		Price:           1 << 15,
		AllowedTriggers: trigger.All,
		RequiredFlags:   callflag.ReadStates,
		Params:          []engine.ParamDescriptor{storageIteratorParam},
		Handler: func(e *engine.Engine, args []any) (any, error) {
			return args[0].(*ledger.StorageIterator).Next(), nil
		},
		ReturnsValue: true,
	})
	engine.MustRegister(engine.Descriptor{
		Name:            "System.Iterator.Value",
		Price:           1 << 4,
		AllowedTriggers: trigger.All,
		RequiredFlags:   callflag.ReadStates,
		Params:          []engine.ParamDescriptor{storageIteratorParam},
		Handler: func(e *engine.Engine, args []any) (any, error) {
			it := args[0].(*ledger.StorageIterator)
			return engine.Pair{Key: it.Key(), Value: it.Value()}, nil
		},
		ReturnsValue: true,
	})
}
