// Concentus - Apple Music Taste Profiles and Listener Matching
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/concentus

package services

import (
	"context"
	"fmt"
)

// StartStopManager interface matches the internal/syncer.Manager lifecycle.
//
// This interface abstracts the resync manager's Start/Stop pattern, allowing
// the ResyncService wrapper to adapt it to suture's Serve pattern without
// modifying the manager code.
//
// Satisfied by *syncer.Manager from internal/syncer/manager.go:
//   - Start(ctx context.Context) error
//   - Stop() error
type StartStopManager interface {
	Start(ctx context.Context) error
	Stop() error
}

// ResyncService wraps the background resync manager as a supervised service.
//
// It adapts the Start/Stop lifecycle pattern to suture's Serve pattern:
//  1. Calls Start(ctx) to begin the periodic profile refresh loop
//  2. Waits for context cancellation
//  3. Calls Stop() for graceful shutdown
//
// The resync manager handles its own goroutines internally via WaitGroup,
// so this wrapper simply orchestrates the lifecycle transitions.
type ResyncService struct {
	manager StartStopManager
	name    string
}

// NewResyncService creates a new resync service wrapper.
//
// Example usage:
//
//	manager := syncer.NewManager(orchestrator, registry, cfg.Sync)
//	svc := services.NewResyncService(manager)
//	tree.AddDataService(svc)
func NewResyncService(manager StartStopManager) *ResyncService {
	return &ResyncService{
		manager: manager,
		name:    "resync-manager",
	}
}

// Serve implements suture.Service.
//
// This method:
//  1. Starts the resync manager (which spawns its internal goroutines)
//  2. Blocks until the context is canceled
//  3. Stops the manager (which waits for its goroutines to complete)
//
// If Start() fails, the error is returned immediately, causing suture to
// restart the service according to its backoff policy.
func (s *ResyncService) Serve(ctx context.Context) error {
	// Start the manager - this spawns internal goroutines but returns immediately
	if err := s.manager.Start(ctx); err != nil {
		return fmt.Errorf("resync manager start failed: %w", err)
	}

	// Wait for shutdown signal
	<-ctx.Done()

	// Stop the manager - this blocks until the in-flight resync pass completes
	if err := s.manager.Stop(); err != nil {
		return fmt.Errorf("resync manager stop failed: %w", err)
	}

	return ctx.Err()
}

// String implements fmt.Stringer for logging.
// Suture uses this to identify the service in log messages.
func (s *ResyncService) String() string {
	return s.name
}
