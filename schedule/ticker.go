package schedule

import (
	"context"
	"sync"
	"time"

	"github.com/shirou/gopsutil/v3/mem"
	"go.uber.org/zap"

	"github.com/propsum/propsum/errors"
)

// statusLogEvery is how many ticks pass between "next run in" status
// lines, to keep the 1s wake-up from flooding the log.
const statusLogEvery = 60

// Ticker fires timer-triggered cycles. It wakes at a short interval and
// runs a cycle whenever the configured sync interval has elapsed, so a
// long interval still reacts promptly to Stop.
type Ticker struct {
	cycle        CycleFunc
	interval     time.Duration
	tickInterval time.Duration

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	logger *zap.SugaredLogger

	mu              sync.Mutex
	nextRunAt       time.Time
	ticksSinceStart int64
}

// NewTicker creates a ticker that invokes cycle every interval, waking
// every tickInterval to check.
func NewTicker(ctx context.Context, cycle CycleFunc, interval, tickInterval time.Duration, logger *zap.SugaredLogger) *Ticker {
	tickerCtx, cancel := context.WithCancel(ctx)
	return &Ticker{
		cycle:        cycle,
		interval:     interval,
		tickInterval: tickInterval,
		ctx:          tickerCtx,
		cancel:       cancel,
		logger:       logger,
	}
}

// Start begins the ticker loop. The first cycle fires immediately.
func (t *Ticker) Start() {
	t.mu.Lock()
	t.nextRunAt = time.Now()
	t.mu.Unlock()

	t.wg.Add(1)
	go t.run()
	t.logger.Infow("Sync ticker started",
		"interval", t.interval,
		"tick_interval", t.tickInterval)
}

// Stop gracefully stops the ticker and waits for the loop to exit. A
// cycle in flight runs to completion.
func (t *Ticker) Stop() {
	t.cancel()
	t.wg.Wait()
	t.logger.Infow("Sync ticker stopped")
}

// NextRunAt returns when the next timer-triggered cycle is due.
func (t *Ticker) NextRunAt() time.Time {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.nextRunAt
}

func (t *Ticker) run() {
	defer t.wg.Done()

	ticker := time.NewTicker(t.tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-t.ctx.Done():
			return
		case now := <-ticker.C:
			t.onTick(now)
		}
	}
}

func (t *Ticker) onTick(now time.Time) {
	t.mu.Lock()
	t.ticksSinceStart++
	due := !now.Before(t.nextRunAt)
	if due {
		t.nextRunAt = now.Add(t.interval)
	}
	ticks := t.ticksSinceStart
	next := t.nextRunAt
	t.mu.Unlock()

	if !due {
		if ticks%statusLogEvery == 0 {
			t.logStatus(next.Sub(now))
		}
		return
	}

	err := t.cycle(t.ctx, Trigger{Kind: TriggerTimer})
	switch {
	case err == nil:
	case errors.Is(err, errors.ErrCycleInProgress):
		t.logger.Infow("Timer trigger skipped, cycle already running")
	default:
		t.logger.Errorw("Timer-triggered cycle failed",
			"error", err,
			"next_run_at", next)
	}
}

// logStatus emits a periodic heartbeat with memory headroom.
func (t *Ticker) logStatus(untilNext time.Duration) {
	fields := []interface{}{"next_run_in", untilNext.Round(time.Second)}

	if v, err := mem.VirtualMemory(); err == nil {
		fields = append(fields,
			"mem_total_mb", v.Total/1024/1024,
			"mem_available_mb", v.Available/1024/1024)
	}

	t.logger.Infow("Waiting for next sync", fields...)
}
