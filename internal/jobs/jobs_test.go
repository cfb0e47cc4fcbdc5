package jobs

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
)

type flakyBackend struct {
	mu   sync.Mutex
	errs []error
}

func (f *flakyBackend) Health(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.errs) == 0 {
		return nil
	}
	err := f.errs[0]
	f.errs = f.errs[1:]
	return err
}

func TestProbeReportsTransitionsOnly(t *testing.T) {
	backend := &flakyBackend{errs: []error{nil, nil, errors.New("down"), errors.New("down"), nil}}
	var changes []bool
	p := newProbe(backend, func(up bool) { changes = append(changes, up) }, zap.NewNop())

	for i := 0; i < 5; i++ {
		p.run(context.Background(), time.Second)
	}
	want := []bool{true, false, true}
	if len(changes) != len(want) {
		t.Fatalf("expected %v, got %v", want, changes)
	}
	for i := range want {
		if changes[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, changes)
		}
	}
}

func TestStartBackendProbeRunsImmediately(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	got := make(chan bool, 1)
	StartBackendProbe(ctx, time.Hour, &flakyBackend{}, func(up bool) { got <- up }, zap.NewNop())

	select {
	case up := <-got:
		if !up {
			t.Fatalf("expected backend up")
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("probe did not run on start")
	}
}

type countingPurger struct {
	calls chan int
}

func (c *countingPurger) Purge(_ context.Context, days int) (int64, error) {
	c.calls <- days
	return 3, nil
}

func TestAuditPurgeTicks(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	p := &countingPurger{calls: make(chan int, 4)}
	StartAuditPurge(ctx, 10*time.Millisecond, 30, p, zap.NewNop())

	select {
	case days := <-p.calls:
		if days != 30 {
			t.Fatalf("expected retention of 30 days, got %d", days)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("purge never ran")
	}
}
