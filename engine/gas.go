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

import "math"

// GasMeter tracks the gas consumed by a single engine run against its
// budget. The budget is the sum of a free baseline (granted to direct script
// evaluations) and the gas allocated by the caller. A meter is owned by
// exactly one engine run and destroyed with it.
type GasMeter struct {
	freeBaseline int64
	allocated    int64
	consumed     int64
	unmetered    bool
}

// NewGasMeter creates a meter with the given budget components. An unmetered
// meter records consumption but never rejects a charge.
func NewGasMeter(freeBaseline, allocated int64, unmetered bool) GasMeter {
	return GasMeter{
		freeBaseline: freeBaseline,
		allocated:    allocated,
		unmetered:    unmetered,
	}
}

// Charge accounts the given amount and reports whether the run may continue.
// Consumption is monotonic: a rejected charge leaves the consumed counter
// untouched, so the recorded consumption never exceeds the budget. Amounts
// must be non-negative and must not overflow the counter; a violation is a
// programming error upstream and panics.
func (m *GasMeter) Charge(amount int64) bool {
	if amount < 0 {
		panic(errNegativeGas)
	}
	if m.consumed > math.MaxInt64-amount {
		panic(errGasOverflow)
	}
	total := m.consumed + amount
	if !m.unmetered && total > m.freeBaseline+m.allocated {
		return false
	}
	m.consumed = total
	return true
}

// Consumed returns the gas consumed so far.
func (m *GasMeter) Consumed() int64 {
	return m.consumed
}

// Remaining returns the gas still available, or -1 if the meter is
// unmetered.
func (m *GasMeter) Remaining() int64 {
	if m.unmetered {
		return -1
	}
	return m.freeBaseline + m.allocated - m.consumed
}

// Unmetered returns true if the meter never rejects charges.
func (m *GasMeter) Unmetered() bool {
	return m.unmetered
}
