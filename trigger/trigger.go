// Copyright (c) 2024 Helix Chain Labs
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at helixchain.io/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package trigger defines the execution context classes a script may run
// under. Host functions declare the set of triggers they may be called from.
package trigger

import "fmt"

// Kind represents an execution trigger. Kinds form a bitset so that a host
// function descriptor can allow several of them at once.
type Kind byte

const (
	// Verification triggers run a script as a predicate checking whether a
	// container (e.g. a transaction) is valid.
	Verification Kind = 0x20
	// Application triggers run a script as a regular contract invocation.
	Application Kind = 0x40

	// All is the union of every trigger kind.
	All = Verification | Application
)

// Has returns true if k includes every kind of the given set.
func (k Kind) Has(other Kind) bool {
	return k&other == other
}

func (k Kind) String() string {
	switch k {
	case Verification:
		return "Verification"
	case Application:
		return "Application"
	case All:
		return "All"
	default:
		return fmt.Sprintf("Kind(0x%02X)", byte(k))
	}
}
