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
	"fmt"
	"sync"

	"golang.org/x/exp/maps"
)

// This file provides the registry for interop services.
//
// A registry is built exactly once, before any engine run, typically by the
// init code of packages providing host functions. After initialization it is
// never modified, which makes concurrent lookups from parallel engine runs
// safe. Registering two services whose names hash to the same identifier is
// an unrecoverable configuration defect and refuses to let the process come
// up.

// Registry maps stable numeric service identifiers to their descriptors.
type Registry struct {
	lock     sync.Mutex
	services map[uint32]*Descriptor
}

// NewRegistry creates an empty interop-service registry.
func NewRegistry() *Registry {
	return &Registry{services: map[uint32]*Descriptor{}}
}

// Register derives the service identifier from the descriptor's name and
// inserts the descriptor. An error is returned if the descriptor has no
// handler or if another service is already bound to the same identifier.
func (r *Registry) Register(desc Descriptor) error {
	if desc.Handler == nil {
		return fmt.Errorf("invalid initialization: cannot register nil-handler using `%s`", desc.Name)
	}
	desc.ID = ServiceID(desc.Name)
	r.lock.Lock()
	defer r.lock.Unlock()
	if existing, found := r.services[desc.ID]; found {
		return fmt.Errorf("invalid initialization: `%s` and `%s` map to the same service id 0x%08X",
			existing.Name, desc.Name, desc.ID)
	}
	r.services[desc.ID] = &desc
	return nil
}

// MustRegister registers the descriptor and panics on failure. It is mainly
// intended to be used by package initialization code.
func (r *Registry) MustRegister(desc Descriptor) {
	if err := r.Register(desc); err != nil {
		panic(err)
	}
}

// Lookup returns the descriptor registered under the given identifier, or
// nil if the identifier is unknown.
func (r *Registry) Lookup(id uint32) *Descriptor {
	r.lock.Lock()
	defer r.lock.Unlock()
	return r.services[id]
}

// Services obtains a copy of the full identifier-to-descriptor mapping.
func (r *Registry) Services() map[uint32]*Descriptor {
	r.lock.Lock()
	defer r.lock.Unlock()
	return maps.Clone(r.services)
}

// defaultRegistry holds the services shared by all engines that are not
// configured with an explicit registry.
var defaultRegistry = NewRegistry()

// Default returns the process-wide service registry.
func Default() *Registry {
	return defaultRegistry
}

// Register adds a service to the process-wide registry.
func Register(desc Descriptor) error {
	return defaultRegistry.Register(desc)
}

// MustRegister adds a service to the process-wide registry and panics on
// failure.
func MustRegister(desc Descriptor) {
	defaultRegistry.MustRegister(desc)
}
