package service_test

import (
	"context"
	"sync"

	"github.com/spec-kit/storefront-admin/internal/events"
)

// stubMailer records deliveries and can be told to fail.
type stubMailer struct {
	mu       sync.Mutex
	failWith error
	sent     []string
}

func (m *stubMailer) SendActivationEmail(_ context.Context, to, _, _ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return m.failWith
	}
	m.sent = append(m.sent, to)
	return nil
}

func (m *stubMailer) sentTo() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string{}, m.sent...)
}

// recordingDispatcher captures published audit events.
type recordingDispatcher struct {
	mu        sync.Mutex
	published []events.Event
}

func (d *recordingDispatcher) Publish(_ context.Context, event events.Event) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.published = append(d.published, event)
	return nil
}

func (d *recordingDispatcher) Subscribe(events.EventType, events.EventHandler) {}

func (d *recordingDispatcher) events() []events.Event {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]events.Event{}, d.published...)
}
