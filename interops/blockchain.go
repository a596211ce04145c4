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
	"encoding/binary"
	"fmt"

	"github.com/helixchain/helixvm/callflag"
	"github.com/helixchain/helixvm/engine"
	"github.com/helixchain/helixvm/hash"
	"github.com/helixchain/helixvm/ledger"
	"github.com/helixchain/helixvm/trigger"
)

func init() {
	engine.MustRegister(engine.Descriptor{
		Name:            "System.Blockchain.GetHeight",
		Price:           1 << 4,
		AllowedTriggers: trigger.Application,
		RequiredFlags:   callflag.ReadStates,
		Handler: func(e *engine.Engine, args []any) (any, error) {
			return e.Snapshot().CurrentHeight(), nil
		},
		ReturnsValue: true,
	})
	engine.MustRegister(engine.Descriptor{
		Name:            "System.Blockchain.GetBlock",
		Price:           1 << 15,
		AllowedTriggers: trigger.Application,
		RequiredFlags:   callflag.ReadStates,
		Params:          []engine.ParamDescriptor{{Type: engine.BytesParam}},
		Handler:         blockchainGetBlock,
		ReturnsValue:    true,
	})
}

// blockchainGetBlock resolves a block by its 32-byte hash or by a
// little-endian index of at most 4 bytes. A missing block yields null.
func blockchainGetBlock(e *engine.Engine, args []any) (any, error) {
	id := args[0].([]byte)
	var (
		block *ledger.Block
		err   error
	)
	switch {
	case len(id) == 32:
		var h hash.Hash256
		copy(h[:], id)
		block, err = e.Snapshot().BlockByHash(h)
	case len(id) <= 4:
		padded := make([]byte, 4)
		copy(padded, id)
		block, err = e.Snapshot().BlockByHeight(binary.LittleEndian.Uint32(padded))
	default:
		return nil, fmt.Errorf("invalid block identifier of %d bytes", len(id))
	}
	if err != nil {
		return nil, nil
	}
	return blockFields(block), nil
}

// blockFields lays out the header of a block as the array contracts observe.
func blockFields(block *ledger.Block) []any {
	return []any{
		block.Hash(),
		block.Version,
		block.PrevHash,
		block.MerkleRoot,
		block.Timestamp,
		block.Index,
		block.NextConsensus,
		len(block.Transactions),
	}
}
