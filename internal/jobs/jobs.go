package jobs

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
)

var backendUp = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "admin_backend_up",
	Help: "1 when the last backend health probe succeeded.",
})

type Pinger interface {
	Health(ctx context.Context) error
}

// StartBackendProbe pings the backend every interval and reports the result
// through the gauge and onChange. onChange fires on the first probe and on
// every transition.
func StartBackendProbe(ctx context.Context, interval time.Duration, backend Pinger, onChange func(up bool), logger *zap.Logger) {
	if backend == nil {
		logger.Info("backend probe disabled: no backend client")
		return
	}
	if interval <= 0 {
		interval = 30 * time.Second
	}
	timeout := interval / 2
	if timeout > 10*time.Second {
		timeout = 10 * time.Second
	}

	probe := newProbe(backend, onChange, logger)
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		probe.run(ctx, timeout)
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				probe.run(ctx, timeout)
			}
		}
	}()
}

type probe struct {
	backend  Pinger
	onChange func(bool)
	logger   *zap.Logger
	known    bool
	up       bool
}

func newProbe(backend Pinger, onChange func(bool), logger *zap.Logger) *probe {
	return &probe{backend: backend, onChange: onChange, logger: logger}
}

func (p *probe) run(ctx context.Context, timeout time.Duration) {
	tickCtx, cancel := context.WithTimeout(ctx, timeout)
	err := p.backend.Health(tickCtx)
	cancel()
	if ctx.Err() != nil {
		return
	}

	up := err == nil
	if up {
		backendUp.Set(1)
	} else {
		backendUp.Set(0)
	}
	if p.known && p.up == up {
		return
	}
	if up {
		p.logger.Info("backend reachable")
	} else {
		p.logger.Warn("backend probe failed", zap.Error(err))
	}
	p.known, p.up = true, up
	if p.onChange != nil {
		p.onChange(up)
	}
}

type Purger interface {
	Purge(ctx context.Context, olderThanDays int) (int64, error)
}

// StartAuditPurge deletes audit rows past the retention window.
func StartAuditPurge(ctx context.Context, interval time.Duration, retentionDays int, store Purger, logger *zap.Logger) {
	if store == nil || retentionDays <= 0 {
		return
	}
	if interval <= 0 {
		interval = 6 * time.Hour
	}

	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				tickCtx, cancel := context.WithTimeout(ctx, time.Minute)
				deleted, err := store.Purge(tickCtx, retentionDays)
				cancel()
				if err != nil {
					logger.Error("audit purge failed", zap.Error(err))
					continue
				}
				if deleted > 0 {
					logger.Info("audit purge", zap.Int64("deleted", deleted))
				}
			}
		}
	}()
}
