// Copyright (c) 2024 Helix Chain Labs
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at helixchain.io/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package vm

import (
	"fmt"
	"strings"

	"github.com/helixchain/helixvm/vm/stackitem"
)

// MaxStackSize is the maximum number of items allowed on a single evaluation
// stack, and also the upper bound for the length of any collection handled by
// the VM.
const MaxStackSize = 2048

// Stack is the evaluation stack of a call context. It holds tagged stack
// items and reports over- and underflow situations as errors instead of
// panicking, so that the engine can convert them into deterministic faults.
//
// The stack is not thread-safe. Each engine run owns its stacks exclusively.
type Stack struct {
	items []stackitem.Item
}

// NewStack creates a new empty evaluation stack.
func NewStack() *Stack {
	return &Stack{}
}

// Push adds the given item to the top of the stack.
func (s *Stack) Push(item stackitem.Item) error {
	if len(s.items) >= MaxStackSize {
		return ErrStackOverflow
	}
	s.items = append(s.items, item)
	return nil
}

// Pop removes the top item from the stack and returns it.
func (s *Stack) Pop() (stackitem.Item, error) {
	if len(s.items) == 0 {
		return nil, ErrStackUnderflow
	}
	item := s.items[len(s.items)-1]
	s.items = s.items[:len(s.items)-1]
	return item, nil
}

// Peek returns the n-th item from the top of the stack without removing it.
// The top item is at index 0.
func (s *Stack) Peek(n int) (stackitem.Item, error) {
	if n < 0 || n >= len(s.items) {
		return nil, ErrStackUnderflow
	}
	return s.items[len(s.items)-n-1], nil
}

// Len returns the number of items on the stack.
func (s *Stack) Len() int {
	return len(s.items)
}

// Items returns the stack content in bottom-to-top order. The returned slice
// shares its backing array with the stack and must not be modified.
func (s *Stack) Items() []stackitem.Item {
	return s.items
}

// Clear removes all items from the stack.
func (s *Stack) Clear() {
	s.items = s.items[:0]
}

func (s *Stack) String() string {
	b := strings.Builder{}
	for i := len(s.items) - 1; i >= 0; i-- {
		b.WriteString(fmt.Sprintf("    [%4d] %v\n", i, s.items[i]))
	}
	return b.String()
}
