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
	"math"
	"testing"
)

func TestGasMeter_ChargesWithinTheBudget(t *testing.T) {
	meter := NewGasMeter(10, 20, false)
	if !meter.Charge(30) {
		t.Fatalf("a charge filling the budget exactly should succeed")
	}
	if want, got := int64(30), meter.Consumed(); want != got {
		t.Errorf("unexpected consumption, wanted %d, got %d", want, got)
	}
	if want, got := int64(0), meter.Remaining(); want != got {
		t.Errorf("unexpected remainder, wanted %d, got %d", want, got)
	}
}

func TestGasMeter_RejectedChargeLeavesConsumptionUntouched(t *testing.T) {
	meter := NewGasMeter(0, 29, false)
	if !meter.Charge(20) {
		t.Fatalf("unexpected rejection")
	}
	if meter.Charge(10) {
		t.Fatalf("a charge above the budget should be rejected")
	}
	if want, got := int64(20), meter.Consumed(); want != got {
		t.Errorf("consumption must never exceed the budget, wanted %d, got %d", want, got)
	}
	// The rejected charge must not eat into the remaining budget either.
	if !meter.Charge(9) {
		t.Errorf("the remaining budget should still be chargeable")
	}
}

func TestGasMeter_ConsumptionIsMonotonic(t *testing.T) {
	meter := NewGasMeter(0, 100, false)
	last := int64(0)
	for _, amount := range []int64{0, 5, 30, 80, 1} {
		meter.Charge(amount)
		if got := meter.Consumed(); got < last {
			t.Fatalf("consumption decreased from %d to %d", last, got)
		} else {
			last = got
		}
	}
	if last > 100 {
		t.Errorf("consumption %d exceeds the budget", last)
	}
}

func TestGasMeter_UnmeteredRecordsButNeverRejects(t *testing.T) {
	meter := NewGasMeter(0, 0, true)
	if !meter.Charge(1_000_000) {
		t.Fatalf("an unmetered meter should accept any charge")
	}
	if want, got := int64(1_000_000), meter.Consumed(); want != got {
		t.Errorf("unexpected consumption, wanted %d, got %d", want, got)
	}
	if want, got := int64(-1), meter.Remaining(); want != got {
		t.Errorf("unexpected remainder, wanted %d, got %d", want, got)
	}
	if !meter.Unmetered() {
		t.Errorf("the meter should report itself as unmetered")
	}
}

func TestGasMeter_NegativeChargePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Errorf("expected a panic")
		}
	}()
	meter := NewGasMeter(0, 10, false)
	meter.Charge(-1)
}

func TestGasMeter_OverflowingChargePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Errorf("expected a panic")
		}
	}()
	meter := NewGasMeter(0, math.MaxInt64, true)
	meter.Charge(math.MaxInt64)
	meter.Charge(math.MaxInt64)
}
