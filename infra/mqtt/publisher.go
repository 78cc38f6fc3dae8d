package mqtt

import (
	"fmt"
	"sync"

	coremqtt "github.com/christianmorkeberg/group25/core/mqtt"
)

// MockPublisher is a simple publisher used in tests.
type MockPublisher struct {
	Messages  []coremqtt.ScheduleMessage
	FailNames map[string]bool
	Closed    bool
	mu        sync.Mutex
}

// NewMockPublisher creates a new MockPublisher.
func NewMockPublisher() *MockPublisher {
	return &MockPublisher{FailNames: make(map[string]bool)}
}

// PublishSchedule records the message or returns an error if configured to
// fail for the scenario.
func (m *MockPublisher) PublishSchedule(msg coremqtt.ScheduleMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailNames[msg.Scenario] {
		return fmt.Errorf("publish failed")
	}
	m.Messages = append(m.Messages, msg)
	return nil
}

// Close marks the publisher closed.
func (m *MockPublisher) Close() {
	m.mu.Lock()
	m.Closed = true
	m.mu.Unlock()
}
