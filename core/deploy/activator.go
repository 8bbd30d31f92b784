package deploy

import (
	"context"
	"sync"

	"github.com/mudler/xlog"
	"github.com/robfig/cron/v3"
)

// DefaultSchedule checks for due deployments every second.
const DefaultSchedule = "@every 1s"

// Activator periodically activates due deployments.
type Activator struct {
	svc      *Service
	schedule string

	mu     sync.Mutex
	cron   *cron.Cron
	ctx    context.Context
	cancel context.CancelFunc
}

func NewActivator(svc *Service, schedule string) *Activator {
	if schedule == "" {
		schedule = DefaultSchedule
	}
	return &Activator{svc: svc, schedule: schedule}
}

func (a *Activator) Start() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.cron != nil {
		xlog.Warn("Deployment activator already started")
		return nil
	}

	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	ctx, cancel := context.WithCancel(context.Background())
	if _, err := c.AddFunc(a.schedule, func() { a.Tick(ctx) }); err != nil {
		cancel()
		return err
	}
	c.Start()

	a.cron, a.ctx, a.cancel = c, ctx, cancel
	xlog.Info("Deployment activator started", "schedule", a.schedule)
	return nil
}

// Stop waits for a running tick to finish.
func (a *Activator) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.cron == nil {
		return
	}
	a.cancel()
	<-a.cron.Stop().Done()
	a.cron, a.ctx, a.cancel = nil, nil, nil
	xlog.Info("Deployment activator stopped")
}

func (a *Activator) Tick(ctx context.Context) {
	n, err := a.svc.ActivateDue(ctx)
	if err != nil {
		xlog.Error("Deployment activation failed", "error", err)
		return
	}
	if n > 0 {
		xlog.Debug("Activated deployments", "count", n)
	}
}
