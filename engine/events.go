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
	"sync"

	"github.com/helixchain/helixvm/hash"
	"github.com/helixchain/helixvm/vm/stackitem"
)

// Notification is an event emitted by a contract during a run. Notifications
// are immutable, appended in emission order and never removed, and remain
// visible to the host after the run completes.
type Notification struct {
	Contract hash.Hash160
	Name     string
	Item     stackitem.Item
}

// NotificationHandler observes contract notifications.
type NotificationHandler func(Notification)

// LogHandler observes contract log messages.
type LogHandler func(contract hash.Hash160, message string)

// Events is the subscriber list for notifications and log messages emitted
// by engine runs. Subscriptions must happen before any run begins; handlers
// are invoked synchronously on the emitting run's goroutine, once per
// emission, in emission order. Handlers shared between parallel runs must be
// thread-safe themselves.
type Events struct {
	lock          sync.Mutex
	notifications []NotificationHandler
	logs          []LogHandler
}

// NewEvents creates an empty subscriber list.
func NewEvents() *Events {
	return &Events{}
}

// SubscribeNotification registers a handler for contract notifications.
func (e *Events) SubscribeNotification(handler NotificationHandler) {
	e.lock.Lock()
	defer e.lock.Unlock()
	e.notifications = append(e.notifications, handler)
}

// SubscribeLog registers a handler for contract log messages.
func (e *Events) SubscribeLog(handler LogHandler) {
	e.lock.Lock()
	defer e.lock.Unlock()
	e.logs = append(e.logs, handler)
}

func (e *Events) emitNotification(n Notification) {
	e.lock.Lock()
	handlers := e.notifications
	e.lock.Unlock()
	for _, handler := range handlers {
		handler(n)
	}
}

func (e *Events) emitLog(contract hash.Hash160, message string) {
	e.lock.Lock()
	handlers := e.logs
	e.lock.Unlock()
	for _, handler := range handlers {
		handler(contract, message)
	}
}
