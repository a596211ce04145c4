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
	dbm "github.com/cometbft/cometbft-db"

	"github.com/helixchain/helixvm/hash"
	"github.com/helixchain/helixvm/vm"
)

const errSnapshotReleased = vm.ConstError("snapshot already released")

// Snapshot is a scoped view of the chain state bound to a single engine run.
// Besides storage and header access it carries the mutable persisting-block
// slot consulted by block-context-dependent host functions.
type Snapshot struct {
	chain           *Chain
	persistingBlock *Block
	released        bool
}

// PersistingBlock returns the block this run persists under, or nil if none
// was set.
func (s *Snapshot) PersistingBlock() *Block {
	return s.persistingBlock
}

// SetPersistingBlock binds the block this run persists under.
func (s *Snapshot) SetPersistingBlock(block *Block) {
	s.persistingBlock = block
}

// CurrentHeight returns the height of the chain tip underlying this snapshot.
func (s *Snapshot) CurrentHeight() uint32 {
	return s.chain.CurrentHeight()
}

// BlockByHash loads a block from the underlying chain.
func (s *Snapshot) BlockByHash(h hash.Hash256) (*Block, error) {
	return s.chain.BlockByHash(h)
}

// BlockByHeight loads a block from the underlying chain by its index.
func (s *Snapshot) BlockByHeight(height uint32) (*Block, error) {
	return s.chain.BlockByHeight(height)
}

func storageKey(contract hash.Hash160, key []byte) []byte {
	res := make([]byte, 0, len(prefixStorage)+len(contract)+len(key))
	res = append(res, prefixStorage...)
	res = append(res, contract[:]...)
	return append(res, key...)
}

// GetStorageItem reads a contract storage entry. A missing entry is reported
// as a nil value without error.
func (s *Snapshot) GetStorageItem(contract hash.Hash160, key []byte) ([]byte, error) {
	if s.released {
		return nil, errSnapshotReleased
	}
	return s.chain.db.Get(storageKey(contract, key))
}

// PutStorageItem writes a contract storage entry.
func (s *Snapshot) PutStorageItem(contract hash.Hash160, key, value []byte) error {
	if s.released {
		return errSnapshotReleased
	}
	return s.chain.db.Set(storageKey(contract, key), value)
}

// DeleteStorageItem removes a contract storage entry.
func (s *Snapshot) DeleteStorageItem(contract hash.Hash160, key []byte) error {
	if s.released {
		return errSnapshotReleased
	}
	return s.chain.db.Delete(storageKey(contract, key))
}

// FindStorage iterates all storage entries of the given contract whose key
// starts with the given prefix. The returned iterator must be closed; host
// functions hand it to the engine's resource bag, which closes it when the
// run disposes.
func (s *Snapshot) FindStorage(contract hash.Hash160, prefix []byte) (*StorageIterator, error) {
	if s.released {
		return nil, errSnapshotReleased
	}
	it, err := dbm.IteratePrefix(s.chain.db, storageKey(contract, prefix))
	if err != nil {
		return nil, err
	}
	return &StorageIterator{it: it, skip: len(prefixStorage) + len(contract)}, nil
}

// Release invalidates the snapshot. Storage access after release fails. It is
// safe to release a snapshot more than once.
func (s *Snapshot) Release() {
	s.released = true
}

// StorageIterator walks the storage entries found by Snapshot.FindStorage.
type StorageIterator struct {
	it     dbm.Iterator
	skip   int
	key    []byte
	value  []byte
	closed bool
}

// Next advances the iterator and reports whether another entry is available.
func (i *StorageIterator) Next() bool {
	if i.closed || !i.it.Valid() {
		return false
	}
	i.key = append([]byte(nil), i.it.Key()[i.skip:]...)
	i.value = append([]byte(nil), i.it.Value()...)
	i.it.Next()
	return true
}

// Key returns the contract-local key of the current entry.
func (i *StorageIterator) Key() []byte {
	return i.key
}

// Value returns the value of the current entry.
func (i *StorageIterator) Value() []byte {
	return i.value
}

// Close releases the underlying database iterator. It is safe to call Close
// multiple times; only the first call has an effect.
func (i *StorageIterator) Close() error {
	if i.closed {
		return nil
	}
	i.closed = true
	return i.it.Close()
}
