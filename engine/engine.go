// Copyright (c) 2024 Helix Chain Labs
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at helixchain.io/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package engine provides the gas-metered, syscall-dispatching execution
// engine turning the stack-based bytecode interpreter of the vm package into
// a sandboxed smart-contract runtime.
package engine

import (
	"fmt"
	"io"

	"github.com/helixchain/helixvm/callflag"
	"github.com/helixchain/helixvm/hash"
	"github.com/helixchain/helixvm/ledger"
	"github.com/helixchain/helixvm/trigger"
	"github.com/helixchain/helixvm/vm"
	"github.com/helixchain/helixvm/vm/opcode"
	"github.com/helixchain/helixvm/vm/stackitem"
)

// State is an enumeration of the lifecycle states of an engine run.
type State byte

const (
	Created  State = iota // < engine bound, no script yet
	Loaded                // < entry script loaded, not stepping yet
	Running               // < the dispatch loop is stepping
	Halted                // < invocation stack emptied normally
	Faulted               // < aborted by gas exhaustion, invariant violation, or error
	Disposed              // < all opened resources released
)

func (s State) String() string {
	switch s {
	case Created:
		return "Created"
	case Loaded:
		return "Loaded"
	case Running:
		return "Running"
	case Halted:
		return "Halted"
	case Faulted:
		return "Faulted"
	case Disposed:
		return "Disposed"
	default:
		return "Unknown"
	}
}

// Container is the verifiable entity (typically a transaction or block) a
// run executes on behalf of.
type Container interface {
	Hash() hash.Hash256
}

// Options configures engine construction beyond the required bindings.
type Options struct {
	// Registry overrides the process-wide default service registry.
	Registry *Registry
	// Events overrides the subscriber list notified of emissions.
	Events *Events
	// FreeGas is the metering baseline granted in addition to the
	// allocated gas.
	FreeGas int64
	// Unmetered disables budget enforcement while still recording
	// consumption.
	Unmetered bool
}

// Engine executes one script from load to halt or fault. It owns the run's
// gas meter, notification list and opened resources, and observes the
// interpreter through its pre-instruction, syscall and context-unload hooks.
// An engine is single-threaded; independent engines may run in parallel as
// they share nothing mutable but the read-only registry and the subscriber
// lists.
type Engine struct {
	vm       *vm.VM
	registry *Registry
	events   *Events
	meter    GasMeter

	trigger   trigger.Kind
	container Container
	snapshot  *ledger.Snapshot

	notifications []Notification
	disposables   []io.Closer
	invocations   map[hash.Hash160]int

	state    State
	faultErr error
}

// New creates an engine bound to the given trigger kind, verifiable
// container, snapshot and allocated gas budget. A nil opts uses the default
// registry, no event subscribers, no free baseline and metered execution.
func New(t trigger.Kind, container Container, snapshot *ledger.Snapshot, gas int64, opts *Options) *Engine {
	if opts == nil {
		opts = &Options{}
	}
	registry := opts.Registry
	if registry == nil {
		registry = Default()
	}
	e := &Engine{
		vm:          vm.New(),
		registry:    registry,
		events:      opts.Events,
		meter:       NewGasMeter(opts.FreeGas, gas, opts.Unmetered),
		trigger:     t,
		container:   container,
		snapshot:    snapshot,
		invocations: map[hash.Hash160]int{},
	}
	e.vm.OnPreExec = e.preExec
	e.vm.OnSyscall = e.dispatch
	e.vm.OnContextUnloaded = e.contextUnloaded
	return e
}

// LoadScript loads the entry script with full capabilities.
func (e *Engine) LoadScript(script []byte) *vm.Context {
	return e.LoadScriptWithFlags(script, callflag.All)
}

// LoadScriptWithFlags loads the entry script with a restricted capability
// set. The returned context can be used to move the entry point before the
// run starts.
func (e *Engine) LoadScriptWithFlags(script []byte, flags callflag.Flag) *vm.Context {
	ctx := e.vm.LoadScriptWithFlags(script, flags)
	e.invocations[ctx.ScriptHash()]++
	if e.state == Created {
		e.state = Loaded
	}
	return ctx
}

// Run drives the interpreter until it halts or faults. The returned error is
// nil on a normal halt and carries the fault reason otherwise. Gas
// consumption and notifications accumulated before a fault remain
// inspectable.
func (e *Engine) Run() (err error) {
	if e.state != Loaded {
		return errNoScriptLoaded
	}
	e.state = Running
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("engine panic: %v", r)
			e.state = Faulted
			e.faultErr = err
		}
	}()
	if err := e.vm.Run(); err != nil {
		e.state = Faulted
		e.faultErr = err
		return err
	}
	e.state = Halted
	return nil
}

// State returns the lifecycle state of the run.
func (e *Engine) State() State {
	return e.state
}

// FaultError returns the reason the run faulted, or nil.
func (e *Engine) FaultError() error {
	return e.faultErr
}

// VM exposes the underlying interpreter, mainly for result inspection.
func (e *Engine) VM() *vm.VM {
	return e.vm
}

// Trigger returns the trigger kind the engine is bound to.
func (e *Engine) Trigger() trigger.Kind {
	return e.trigger
}

// Container returns the verifiable container of the run, or nil.
func (e *Engine) Container() Container {
	return e.container
}

// Snapshot returns the chain-state view of the run, or nil.
func (e *Engine) Snapshot() *ledger.Snapshot {
	return e.snapshot
}

// GasConsumed returns the gas consumed so far.
func (e *Engine) GasConsumed() int64 {
	return e.meter.Consumed()
}

// GasLeft returns the remaining gas, or -1 for an unmetered run.
func (e *Engine) GasLeft() int64 {
	return e.meter.Remaining()
}

// CurrentScriptHash returns the script hash of the executing frame.
func (e *Engine) CurrentScriptHash() (res hash.Hash160) {
	if ctx := e.vm.Context(); ctx != nil {
		res = ctx.ScriptHash()
	}
	return res
}

// CallingScriptHash returns the script hash of the frame that loaded the
// executing one, or the zero hash for an entry frame.
func (e *Engine) CallingScriptHash() (res hash.Hash160) {
	if ctx := e.vm.Context(); ctx != nil {
		res = ctx.CallingScriptHash()
	}
	return res
}

// EntryScriptHash returns the script hash of the entry frame.
func (e *Engine) EntryScriptHash() (res hash.Hash160) {
	if ctx := e.vm.EntryContext(); ctx != nil {
		res = ctx.ScriptHash()
	}
	return res
}

// Notifications returns the notifications emitted so far, in emission order.
func (e *Engine) Notifications() []Notification {
	return e.notifications
}

// SendNotification appends a notification and hands it to the subscribers.
func (e *Engine) SendNotification(contract hash.Hash160, name string, item stackitem.Item) {
	n := Notification{Contract: contract, Name: name, Item: item}
	e.notifications = append(e.notifications, n)
	if e.events != nil {
		e.events.emitNotification(n)
	}
}

// Log hands a log message of the executing contract to the subscribers.
func (e *Engine) Log(message string) {
	if e.events != nil {
		e.events.emitLog(e.CurrentScriptHash(), message)
	}
}

// RegisterDisposable adds a resource opened by a host function to the run's
// resource bag. The resource stays open for the remainder of the run - a
// handle may be returned to the contract and used across several syscalls -
// and is released when the engine is disposed.
func (e *Engine) RegisterDisposable(resource io.Closer) {
	e.disposables = append(e.disposables, resource)
}

// InvocationCounter returns the number of times the given contract's script
// was loaded during this run.
func (e *Engine) InvocationCounter(contract hash.Hash160) int {
	return e.invocations[contract]
}

// Dispose releases every resource opened during the run, exactly once, in
// any order. Disposal failures are not propagated; cleanup is best-effort.
func (e *Engine) Dispose() {
	if e.state == Disposed {
		return
	}
	for _, resource := range e.disposables {
		_ = resource.Close()
	}
	e.disposables = nil
	e.state = Disposed
}

// --- interpreter hooks ---

// preExec charges the static price of the instruction about to execute.
func (e *Engine) preExec(_ *vm.Context, op opcode.Opcode) error {
	if !e.meter.Charge(opcodePrice(op)) {
		return ErrGasExhausted
	}
	return nil
}

// dispatch runs the syscall protocol for the given service identifier. An
// unknown identifier, a disallowed trigger and missing call flags all fail
// identically: contract code must not be able to distinguish a missing
// capability from a missing function.
func (e *Engine) dispatch(id uint32) error {
	desc := e.registry.Lookup(id)
	if desc == nil {
		return vm.ErrSyscallFailed
	}
	if !desc.AllowedTriggers.Has(e.trigger) {
		return vm.ErrSyscallFailed
	}
	ctx := e.vm.Context()
	if !ctx.CallFlags().Has(desc.RequiredFlags) {
		return vm.ErrSyscallFailed
	}
	if !e.meter.Charge(desc.Price) {
		return ErrGasExhausted
	}

	estack := ctx.Estack()
	args := make([]any, len(desc.Params))
	for i, param := range desc.Params {
		item, err := estack.Pop()
		if err != nil {
			return fmt.Errorf("failed to get arguments for %s: %w", desc.Name, err)
		}
		if args[i], err = convertParam(param, item, estack); err != nil {
			return fmt.Errorf("failed to convert argument %d of %s: %w", i, desc.Name, err)
		}
	}

	result, err := desc.Handler(e, args)
	if err != nil {
		return fmt.Errorf("%s failed: %w", desc.Name, err)
	}
	if !desc.ReturnsValue {
		return nil
	}
	item, err := ToStackItem(result)
	if err != nil {
		return fmt.Errorf("failed to convert result of %s: %w", desc.Name, err)
	}
	return estack.Push(item)
}

// contextUnloaded enforces the return-arity invariant on a popped frame. A
// frame sharing its evaluation stack with the frame control returns to is
// not a true call/return boundary and is exempt.
func (e *Engine) contextUnloaded(popped, current *vm.Context) error {
	if current != nil && popped.Estack() == current.Estack() {
		return nil
	}
	if rc := popped.ReturnCount(); rc != -1 && popped.Estack().Len() != rc {
		return ErrInvariantViolation
	}
	return nil
}
