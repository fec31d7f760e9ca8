package workflow

import (
	"context"
	"errors"
	"time"

	"github.com/robfig/cron/v3"

	"scribe/internal/logging"
)

// Start begins the sync, dispatch, and poll loops.
func (m *Manager) Start(ctx context.Context) error {
	m.mu.Lock()
	if m.running {
		m.mu.Unlock()
		return errors.New("workflow already running")
	}
	schedule, err := cron.ParseStandard(m.cfg.Calendar.SyncSchedule)
	if err != nil {
		m.mu.Unlock()
		return err
	}

	runCtx, cancel := context.WithCancel(ctx)
	m.cancel = cancel
	m.running = true
	m.wg.Add(3)
	m.mu.Unlock()

	go m.runSync(runCtx, schedule)
	go m.runDispatch(runCtx)
	go m.runPoll(runCtx)

	return nil
}

// Stop terminates background processing and waits for completion.
func (m *Manager) Stop() {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return
	}
	cancel := m.cancel
	m.running = false
	m.cancel = nil
	m.mu.Unlock()

	cancel()
	m.wg.Wait()
}

func (m *Manager) runSync(ctx context.Context, schedule cron.Schedule) {
	defer m.wg.Done()
	logger := logging.NewComponentLogger(m.logger, "workflow-sync")

	// Sync immediately on startup so dispatch has a meeting snapshot.
	m.syncOnce(ctx, logger)

	for {
		next := schedule.Next(m.now())
		select {
		case <-ctx.Done():
			return
		case <-time.After(time.Until(next)):
		}
		m.syncOnce(ctx, logger)
	}
}

func (m *Manager) runDispatch(ctx context.Context) {
	defer m.wg.Done()
	logger := logging.NewComponentLogger(m.logger, "workflow-dispatch")
	ticker := time.NewTicker(m.dispatchInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
		if err := m.dispatchOnce(ctx, logger); err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
			m.setLastError(err)
			logger.Error("dispatch pass failed", logging.Error(err))
			m.waitOrShutdown(ctx, m.errorRetry)
		}
	}
}

func (m *Manager) runPoll(ctx context.Context) {
	defer m.wg.Done()
	logger := logging.NewComponentLogger(m.logger, "workflow-poll")
	ticker := time.NewTicker(m.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
		if err := m.pollOnce(ctx, logger); err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
			m.setLastError(err)
			logger.Error("poll pass failed", logging.Error(err))
			m.waitOrShutdown(ctx, m.errorRetry)
		}
	}
}

func (m *Manager) waitOrShutdown(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	select {
	case <-ctx.Done():
	case <-time.After(d):
	}
}
