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

//go:generate mockgen -source run.go -destination ledger_mock.go -package engine

import (
	"github.com/helixchain/helixvm/callflag"
	"github.com/helixchain/helixvm/hash"
	"github.com/helixchain/helixvm/ledger"
	"github.com/helixchain/helixvm/trigger"
)

// DefaultFreeGas is the metering baseline granted to direct script
// evaluations on top of any explicitly allocated budget.
const DefaultFreeGas = 10_000_000

// Ledger is the chain-state source RunToCompletion draws its snapshot and
// placeholder-block inputs from.
type Ledger interface {
	CurrentHeight() uint32
	CurrentBlockHash() hash.Hash256
	BlockByHash(h hash.Hash256) (*ledger.Block, error)
	GetSnapshot() *ledger.Snapshot
}

// RunConfig tunes a RunToCompletion evaluation. The zero value runs the
// script under the application trigger with the default gas baseline and the
// process-wide registry.
type RunConfig struct {
	// Container is the verifiable entity the run executes on behalf of.
	Container Container
	// Offset moves the entry point past the start of the script.
	Offset int
	// Gas is an extra budget granted on top of DefaultFreeGas.
	Gas int64
	// Unmetered disables budget enforcement for test evaluations.
	Unmetered bool
	// Flags restricts the capabilities of the entry script. The zero value
	// grants all of them.
	Flags callflag.Flag
	// Registry overrides the process-wide default service registry.
	Registry *Registry
	// Events overrides the subscriber list notified of emissions.
	Events *Events
	// Snapshot replaces the snapshot otherwise drawn from the ledger. A
	// caller-supplied snapshot is not released on return.
	Snapshot *ledger.Snapshot
	// PersistingBlock replaces the placeholder block otherwise synthesized
	// on top of the chain tip.
	PersistingBlock *ledger.Block
}

// RunToCompletion evaluates a script against the current state of the given
// ledger and returns the engine for result inspection. Unless the config
// supplies one, the run executes under a synthesized placeholder block
// extending the chain tip, so host functions that depend on the persisting
// block observe a consistent next-block context. The engine is disposed
// before returning; its state,
// result stack, gas counters and notifications remain readable.
func RunToCompletion(ld Ledger, script []byte, cfg RunConfig) (*Engine, error) {
	snapshot := cfg.Snapshot
	if snapshot == nil {
		snapshot = ld.GetSnapshot()
		defer snapshot.Release()
	}

	block := cfg.PersistingBlock
	if block == nil {
		tip, err := ld.BlockByHash(ld.CurrentBlockHash())
		if err != nil {
			return nil, err
		}
		block = placeholderBlock(tip)
	}
	snapshot.SetPersistingBlock(block)

	opts := &Options{
		Registry:  cfg.Registry,
		Events:    cfg.Events,
		FreeGas:   DefaultFreeGas,
		Unmetered: cfg.Unmetered,
	}
	e := New(trigger.Application, cfg.Container, snapshot, cfg.Gas, opts)
	defer e.Dispose()

	flags := cfg.Flags
	if flags == callflag.NoneFlag {
		flags = callflag.All
	}
	ctx := e.LoadScriptWithFlags(script, flags)
	if cfg.Offset > 0 {
		ctx.Jump(cfg.Offset)
	}
	if err := e.Run(); err != nil {
		return e, err
	}
	return e, nil
}

// placeholderBlock synthesizes the would-be successor of the chain tip. The
// block is never persisted; it only provides the block context of a run that
// is not tied to real block processing.
func placeholderBlock(tip *ledger.Block) *ledger.Block {
	return &ledger.Block{
		Version:       tip.Version,
		PrevHash:      tip.Hash(),
		Timestamp:     tip.Timestamp + ledger.SecondsPerBlock,
		Index:         tip.Index + 1,
		NextConsensus: tip.NextConsensus,
	}
}
