package notify

import (
	"context"
	"sync"

	"github.com/ahmedNJ467/koormatics-dispatch/core/dispatch"
	"github.com/ahmedNJ467/koormatics-dispatch/core/logger"
)

// LogNotifier writes notifications to the structured log. It is the
// default when no broker is configured.
type LogNotifier struct {
	log logger.Logger
}

// NewLogNotifier creates a LogNotifier.
func NewLogNotifier(log logger.Logger) *LogNotifier {
	if log == nil {
		log = logger.Nop{}
	}
	return &LogNotifier{log: log}
}

func (n *LogNotifier) Notify(_ context.Context, note dispatch.Notification) error {
	switch note.Severity {
	case dispatch.SeverityError:
		n.log.Errorf("%s: %s", note.Title, note.Description)
	case dispatch.SeverityWarning:
		n.log.Warnf("%s: %s", note.Title, note.Description)
	default:
		n.log.Infof("%s: %s", note.Title, note.Description)
	}
	return nil
}

// MockNotifier records notifications for tests.
type MockNotifier struct {
	mu   sync.Mutex
	Sent []dispatch.Notification
}

func (n *MockNotifier) Notify(_ context.Context, note dispatch.Notification) error {
	n.mu.Lock()
	n.Sent = append(n.Sent, note)
	n.mu.Unlock()
	return nil
}

// Notifications returns a copy of everything sent so far.
func (n *MockNotifier) Notifications() []dispatch.Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]dispatch.Notification(nil), n.Sent...)
}
