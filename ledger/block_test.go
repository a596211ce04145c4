// Copyright (c) 2024 Helix Chain Labs
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at helixchain.io/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/helixchain/helixvm/hash"
)

func TestBlock_BinaryEncodingRoundTrip(t *testing.T) {
	block := &Block{
		Version:       1,
		PrevHash:      hash.Hash256{1, 2},
		MerkleRoot:    hash.Hash256{3, 4},
		Timestamp:     1468595301,
		Index:         42,
		NextConsensus: hash.Hash160{5, 6},
		Witness: Witness{
			Invocation:   []byte{0x0C, 0x01},
			Verification: []byte{0x41},
		},
		Transactions: []Transaction{
			{Version: 0, Script: []byte{0x10, 0x40}},
			{Version: 1, Script: []byte{0x11}, Witness: Witness{Invocation: []byte{9}}},
		},
	}

	data, err := block.MarshalBinary()
	require.NoError(t, err)

	restored := new(Block)
	require.NoError(t, restored.UnmarshalBinary(data))
	assert.Equal(t, block, restored)
}

func TestBlock_HashCoversOnlyTheHeader(t *testing.T) {
	block := &Block{Index: 7, Timestamp: 1000}
	want := block.Hash()

	block.Transactions = append(block.Transactions, Transaction{Script: []byte{1}})
	assert.Equal(t, want, block.Hash(), "transactions must not change the block hash")

	block.Index = 8
	assert.NotEqual(t, want, block.Hash(), "header fields must change the block hash")
}

func TestBlock_UnmarshalRejectsCorruptedLengths(t *testing.T) {
	block := &Block{Index: 1}
	data, err := block.MarshalBinary()
	require.NoError(t, err)

	// Truncate into the witness length fields.
	assert.Error(t, new(Block).UnmarshalBinary(data[:len(data)-10]))
	assert.Error(t, new(Block).UnmarshalBinary(nil))
}

func TestTransaction_HashDependsOnScript(t *testing.T) {
	a := &Transaction{Script: []byte{1, 2, 3}}
	b := &Transaction{Script: []byte{1, 2, 4}}
	assert.Equal(t, a.Hash(), (&Transaction{Script: []byte{1, 2, 3}}).Hash())
	assert.NotEqual(t, a.Hash(), b.Hash())
}
