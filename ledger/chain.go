// Copyright (c) 2024 Helix Chain Labs
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at helixchain.io/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package ledger provides the chain state the execution engine runs against:
// block headers, contract storage, and scoped snapshots carrying the
// persisting-block context of a run.
package ledger

import (
	"encoding/binary"
	"fmt"

	dbm "github.com/cometbft/cometbft-db"

	"github.com/helixchain/helixvm/hash"
	"github.com/helixchain/helixvm/vm"
)

const errBlockNotFound = vm.ConstError("block not found")

// Key prefixes of the backing key-value store.
var (
	prefixBlock   = []byte("blk:") // block hash -> serialized block
	prefixHeight  = []byte("idx:") // big-endian height -> block hash
	prefixStorage = []byte("st:")  // contract hash + key -> storage item
	keyHeight     = []byte("height")
)

// Chain is a minimal ledger over a key-value database. It tracks the block
// chain tip and contract storage, and hands out snapshots for engine runs.
type Chain struct {
	db dbm.DB
}

// NewChain creates a chain on top of the given database.
func NewChain(db dbm.DB) *Chain {
	return &Chain{db: db}
}

// NewMemChain creates an in-memory chain seeded with a genesis block. It is
// used by tests and by direct script evaluations that do not operate on a
// real chain.
func NewMemChain() (*Chain, error) {
	chain := NewChain(dbm.NewMemDB())
	genesis := &Block{
		Timestamp:     1468595301, // arbitrary but deterministic genesis time
		NextConsensus: hash.Hash160FromScript([]byte{byte(1)}),
	}
	if err := chain.AddBlock(genesis); err != nil {
		return nil, fmt.Errorf("failed to persist genesis block: %w", err)
	}
	return chain, nil
}

// CurrentHeight returns the index of the newest persisted block.
func (c *Chain) CurrentHeight() uint32 {
	raw, err := c.db.Get(keyHeight)
	if err != nil || len(raw) != 4 {
		return 0
	}
	return binary.BigEndian.Uint32(raw)
}

// CurrentBlockHash returns the hash of the newest persisted block.
func (c *Chain) CurrentBlockHash() hash.Hash256 {
	return c.blockHashByHeight(c.CurrentHeight())
}

func (c *Chain) blockHashByHeight(height uint32) (res hash.Hash256) {
	key := make([]byte, len(prefixHeight)+4)
	copy(key, prefixHeight)
	binary.BigEndian.PutUint32(key[len(prefixHeight):], height)
	raw, err := c.db.Get(key)
	if err == nil && len(raw) == len(res) {
		copy(res[:], raw)
	}
	return res
}

// BlockByHash loads the block with the given hash.
func (c *Chain) BlockByHash(h hash.Hash256) (*Block, error) {
	raw, err := c.db.Get(append(prefixBlock, h[:]...))
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, errBlockNotFound
	}
	block := new(Block)
	if err := block.UnmarshalBinary(raw); err != nil {
		return nil, fmt.Errorf("failed to decode block %v: %w", h, err)
	}
	return block, nil
}

// BlockByHeight loads the block at the given height.
func (c *Chain) BlockByHeight(height uint32) (*Block, error) {
	return c.BlockByHash(c.blockHashByHeight(height))
}

// AddBlock appends a block to the chain. The block becomes the new tip; no
// validation beyond monotonic indexing is performed.
func (c *Chain) AddBlock(block *Block) error {
	if block.Index > 0 {
		if current := c.CurrentHeight(); block.Index != current+1 {
			return fmt.Errorf("unexpected block index %d at height %d", block.Index, current)
		}
	}
	raw, err := block.MarshalBinary()
	if err != nil {
		return err
	}
	blockHash := block.Hash()
	if err := c.db.Set(append(prefixBlock, blockHash[:]...), raw); err != nil {
		return err
	}
	key := make([]byte, len(prefixHeight)+4)
	copy(key, prefixHeight)
	binary.BigEndian.PutUint32(key[len(prefixHeight):], block.Index)
	if err := c.db.Set(key, blockHash[:]); err != nil {
		return err
	}
	height := make([]byte, 4)
	binary.BigEndian.PutUint32(height, block.Index)
	return c.db.Set(keyHeight, height)
}

// GetSnapshot returns a scoped view of the chain state for a single engine
// run. The caller must release it when the run completes.
func (c *Chain) GetSnapshot() *Snapshot {
	return &Snapshot{chain: c}
}
