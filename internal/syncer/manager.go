// Concentus - Apple Music Taste Profiles and Listener Matching
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/concentus

package syncer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/tomtom215/concentus/internal/applemusic"
	"github.com/tomtom215/concentus/internal/config"
	"github.com/tomtom215/concentus/internal/events"
	"github.com/tomtom215/concentus/internal/logging"
	"github.com/tomtom215/concentus/internal/metrics"
	"github.com/tomtom215/concentus/internal/models"
)

// UserSource lists the registry users eligible for background re-sync.
// Implemented by users.Registry.
type UserSource interface {
	ListWithTokens(ctx context.Context) ([]*models.User, error)
	Count(ctx context.Context) (int, error)
}

// Manager re-runs the sync pipeline for every user with a stored token,
// once at startup and then on a fixed interval. One user's failure never
// aborts the sweep.
type Manager struct {
	orch  *Orchestrator
	users UserSource
	bus   *events.Bus
	cfg   config.SyncConfig

	lastRun  time.Time
	running  bool
	mu       sync.RWMutex
	sweepMu  sync.Mutex // Prevents overlapping sweeps
	stopChan chan struct{}
	wg       sync.WaitGroup
}

// NewManager creates a resync manager. The bus may be nil to disable
// event publication.
func NewManager(orch *Orchestrator, users UserSource, bus *events.Bus, cfg config.SyncConfig) *Manager {
	logging.Info().
		Bool("resync_on_start", cfg.ResyncOnStart).
		Dur("interval", cfg.ResyncInterval).
		Dur("stagger", cfg.StaggerDelay).
		Msg("Resync manager config loaded")

	return &Manager{
		orch:  orch,
		users: users,
		bus:   bus,
		cfg:   cfg,
	}
}

// Start launches the background resync services. With ResyncOnStart set
// the first sweep begins immediately in the background; with a positive
// ResyncInterval a periodic loop follows. With neither, Start only marks
// the manager running.
func (m *Manager) Start(ctx context.Context) error {
	m.mu.Lock()
	if m.running {
		m.mu.Unlock()
		return fmt.Errorf("resync manager is already running")
	}
	m.running = true
	// Created here rather than in the constructor so the manager can be
	// restarted after Stop, which a supervisor restart does.
	m.stopChan = make(chan struct{})
	m.mu.Unlock()

	logging.Info().Msg("Starting resync manager...")

	if m.cfg.ResyncOnStart {
		// Initial sweep runs in the background so server startup is not
		// blocked behind Apple Music calls. Add before launching so
		// Stop cannot Wait between Add calls.
		m.wg.Add(1)
		go func() {
			defer m.wg.Done()
			m.ResyncAll(ctx)
		}()
	}

	if m.cfg.ResyncInterval > 0 {
		m.wg.Add(1)
		go m.resyncLoop(ctx)
	}

	return nil
}

func (m *Manager) resyncLoop(ctx context.Context) {
	defer m.wg.Done()

	ticker := time.NewTicker(m.cfg.ResyncInterval)
	defer ticker.Stop()

	stop := m.stopSignal()
	for {
		select {
		case <-ctx.Done():
			return
		case <-stop:
			return
		case <-ticker.C:
			m.ResyncAll(ctx)
		}
	}
}

// Stop halts the background services and waits for any in-flight sweep
// to finish.
func (m *Manager) Stop() error {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return fmt.Errorf("resync manager is not running")
	}
	m.running = false
	stop := m.stopChan
	m.mu.Unlock()

	logging.Info().Msg("Stopping resync manager...")
	close(stop)
	m.wg.Wait()
	logging.Info().Msg("Resync manager stopped")

	return nil
}

// LastRunTime returns when the last completed sweep finished, zero
// before any sweep has run.
func (m *Manager) LastRunTime() time.Time {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lastRun
}

// stopSignal returns the current stop channel. It is nil before Start,
// which blocks that select case forever and leaves cancellation to the
// caller's context.
func (m *Manager) stopSignal() <-chan struct{} {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.stopChan
}

// ResyncAll sweeps every user with a stored token through the sync
// pipeline. Sweeps never overlap; a second caller waits its turn.
func (m *Manager) ResyncAll(ctx context.Context) {
	m.sweepMu.Lock()
	defer m.sweepMu.Unlock()

	// One correlation ID per sweep ties its log entries together.
	ctx = logging.ContextWithNewCorrelationID(ctx)

	start := time.Now()
	metrics.ResyncRuns.Inc()

	total, err := m.users.Count(ctx)
	if err != nil {
		logging.CtxErr(ctx, err).Msg("Resync aborted, counting users failed")
		return
	}
	if total == 0 {
		m.markCompleted()
		logging.Ctx(ctx).Info().Msg("No registered users, nothing to resync")
		return
	}

	eligible, err := m.users.ListWithTokens(ctx)
	if err != nil {
		logging.CtxErr(ctx, err).Msg("Resync aborted, listing users failed")
		return
	}

	// Users without a usable stored token never reach the pipeline.
	skipped := total - len(eligible)
	if skipped < 0 {
		skipped = 0
	}
	if skipped > 0 {
		metrics.ResyncUsers.WithLabelValues("skipped").Add(float64(skipped))
	}

	logging.Ctx(ctx).Info().
		Int("users", total).
		Int("eligible", len(eligible)).
		Int("skipped", skipped).
		Msg("Starting bulk resync")

	stop := m.stopSignal()
	var synced, failed int
	for i, user := range eligible {
		if i > 0 && m.cfg.StaggerDelay > 0 {
			if !m.pause(ctx, stop, m.cfg.StaggerDelay) {
				return
			}
		}
		select {
		case <-ctx.Done():
			return
		case <-stop:
			return
		default:
		}

		switch _, err := m.orch.Sync(ctx, user.AppleMusicUserID, user.UserToken, user.Storefront); {
		case err == nil:
			synced++
			metrics.ResyncUsers.WithLabelValues("synced").Inc()
		case errors.Is(err, ErrNoRecentTracks):
			skipped++
			metrics.ResyncUsers.WithLabelValues("skipped").Inc()
			logging.Ctx(ctx).Debug().Str("user_id", user.AppleMusicUserID).Msg("No recent tracks, keeping existing profile")
		case errors.Is(err, applemusic.ErrUnauthorized):
			failed++
			metrics.ResyncUsers.WithLabelValues("failed").Inc()
			logging.Ctx(ctx).Warn().Str("user_id", user.AppleMusicUserID).Msg("Stored user token rejected, user must log in again")
		default:
			failed++
			metrics.ResyncUsers.WithLabelValues("failed").Inc()
			logging.Ctx(ctx).Warn().Err(err).Str("user_id", user.AppleMusicUserID).Msg("Resync failed for user")
		}
	}

	duration := time.Since(start)
	m.markCompleted()

	logging.Ctx(ctx).Info().
		Int("users", total).
		Int("synced", synced).
		Int("failed", failed).
		Int("skipped", skipped).
		Dur("duration", duration).
		Msg("Bulk resync completed")

	m.publishResyncCompleted(ctx, events.NewResyncCompleted(total, synced, failed, skipped, duration))
}

func (m *Manager) markCompleted() {
	m.mu.Lock()
	m.lastRun = time.Now()
	m.mu.Unlock()
}

func (m *Manager) publishResyncCompleted(ctx context.Context, event events.ResyncCompleted) {
	if m.bus == nil {
		return
	}
	if err := m.bus.PublishResyncCompleted(ctx, event); err != nil {
		logging.Warn().Err(err).Msg("Failed to publish resync completed event")
	}
}

// pause sleeps for the stagger delay between users, returning false when
// interrupted by shutdown.
func (m *Manager) pause(ctx context.Context, stop <-chan struct{}, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-stop:
		return false
	case <-timer.C:
		return true
	}
}
