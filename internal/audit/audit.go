package audit

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	ActionCreate = "create"
	ActionUpdate = "update"
	ActionDelete = "delete"
	ActionLogin  = "login"
	ActionLogout = "logout"
	ActionExport = "export"
)

// Entry is one successful mutation performed through the panel.
type Entry struct {
	ID         string    `json:"id"`
	UserID     string    `json:"userId"`
	UserEmail  string    `json:"userEmail"`
	Action     string    `json:"action"`
	Resource   string    `json:"resource"`
	ResourceID string    `json:"resourceId,omitempty"`
	At         time.Time `json:"at"`
}

type Recorder interface {
	Record(ctx context.Context, e Entry) error
}

// Trail fans entries out to every configured recorder. Recorder failures
// are logged and never reach the user.
type Trail struct {
	recorders []Recorder
	logger    *zap.Logger
	now       func() time.Time
}

func NewTrail(logger *zap.Logger, recorders ...Recorder) *Trail {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Trail{recorders: recorders, logger: logger, now: time.Now}
}

func (t *Trail) Record(ctx context.Context, e Entry) {
	if t == nil {
		return
	}
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.At.IsZero() {
		e.At = t.now().UTC()
	}
	for _, r := range t.recorders {
		if err := r.Record(ctx, e); err != nil {
			t.logger.Warn("audit record failed",
				zap.String("action", e.Action),
				zap.String("resource", e.Resource),
				zap.Error(err),
			)
		}
	}
}

// Memory keeps entries in process; used when no database is configured and
// in tests.
type Memory struct {
	mu      sync.Mutex
	entries []Entry
	max     int
}

func NewMemory(max int) *Memory {
	return &Memory{max: max}
}

func (m *Memory) Record(_ context.Context, e Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, e)
	if m.max > 0 && len(m.entries) > m.max {
		m.entries = m.entries[len(m.entries)-m.max:]
	}
	return nil
}

// Recent returns up to limit entries, newest first.
func (m *Memory) Recent(_ context.Context, limit int) ([]Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Entry, 0, limit)
	for i := len(m.entries) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, m.entries[i])
	}
	return out, nil
}
