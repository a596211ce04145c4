// Copyright (c) 2024 Helix Chain Labs
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at helixchain.io/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package callflag defines the capability bitset carried by every call frame.
// A frame may only invoke host functions whose required flags are a subset of
// the frame's own flags.
package callflag

import "strings"

// Flag is a capability bitset restricting which categories of host functions
// a call frame may invoke.
type Flag byte

const (
	// ReadStates allows reading chain and contract state.
	ReadStates Flag = 1 << iota
	// WriteStates allows modifying contract state.
	WriteStates
	// AllowCall allows calling other contracts.
	AllowCall
	// AllowNotify allows emitting notifications.
	AllowNotify

	// States combines both state access capabilities.
	States = ReadStates | WriteStates
	// ReadOnly allows state reads and contract calls, but no mutation.
	ReadOnly = ReadStates | AllowCall
	// All grants every capability.
	All = States | AllowCall | AllowNotify
	// NoneFlag grants nothing.
	NoneFlag Flag = 0
)

// Has returns true if f includes every capability of the given set.
func (f Flag) Has(other Flag) bool {
	return f&other == other
}

var flagNames = []struct {
	flag Flag
	name string
}{
	{ReadStates, "ReadStates"},
	{WriteStates, "WriteStates"},
	{AllowCall, "AllowCall"},
	{AllowNotify, "AllowNotify"},
}

func (f Flag) String() string {
	if f == NoneFlag {
		return "None"
	}
	if f == All {
		return "All"
	}
	names := make([]string, 0, len(flagNames))
	for _, entry := range flagNames {
		if f.Has(entry.flag) {
			names = append(names, entry.name)
		}
	}
	return strings.Join(names, "|")
}
