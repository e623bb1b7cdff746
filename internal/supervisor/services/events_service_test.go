// Concentus - Apple Music Taste Profiles and Listener Matching
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/concentus

package services

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/thejerf/suture/v4"
)

// mockMessageRouter is a test double for MessageRouter interface.
type mockMessageRouter struct {
	runErr   error
	runCount atomic.Int32
}

func (m *mockMessageRouter) Run(ctx context.Context) error {
	m.runCount.Add(1)
	if m.runErr != nil {
		return m.runErr
	}
	<-ctx.Done()
	return ctx.Err()
}

func (m *mockMessageRouter) RunCount() int {
	return int(m.runCount.Load())
}

func TestEventRouterService_Interface(t *testing.T) {
	// Verify EventRouterService implements suture.Service
	var _ suture.Service = (*EventRouterService)(nil)
}

func TestNewEventRouterService(t *testing.T) {
	router := &mockMessageRouter{}
	svc := NewEventRouterService(router)

	if svc == nil {
		t.Fatal("NewEventRouterService returned nil")
	}
	if svc.router != router {
		t.Error("router not assigned correctly")
	}
	if svc.name != "event-router" {
		t.Errorf("expected name 'event-router', got %q", svc.name)
	}
}

func TestEventRouterService_Serve(t *testing.T) {
	t.Run("returns context error on cancellation", func(t *testing.T) {
		router := &mockMessageRouter{}
		svc := NewEventRouterService(router)

		ctx, cancel := context.WithCancel(context.Background())

		errCh := make(chan error, 1)
		go func() {
			errCh <- svc.Serve(ctx)
		}()

		time.Sleep(20 * time.Millisecond)
		cancel()

		select {
		case err := <-errCh:
			if !errors.Is(err, context.Canceled) {
				t.Errorf("expected context.Canceled, got %v", err)
			}
		case <-time.After(time.Second):
			t.Error("Serve did not return after context cancellation")
		}

		if router.RunCount() != 1 {
			t.Errorf("expected 1 run, got %d", router.RunCount())
		}
	})

	t.Run("returns context error on deadline", func(t *testing.T) {
		router := &mockMessageRouter{}
		svc := NewEventRouterService(router)

		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()

		err := svc.Serve(ctx)
		if !errors.Is(err, context.DeadlineExceeded) {
			t.Errorf("expected context.DeadlineExceeded, got %v", err)
		}
	})

	t.Run("propagates router errors", func(t *testing.T) {
		expectedErr := errors.New("router startup error")
		router := &mockMessageRouter{runErr: expectedErr}
		svc := NewEventRouterService(router)

		ctx := context.Background()
		err := svc.Serve(ctx)

		if !errors.Is(err, expectedErr) {
			t.Errorf("expected %v, got %v", expectedErr, err)
		}
	})
}

func TestEventRouterService_String(t *testing.T) {
	router := &mockMessageRouter{}
	svc := NewEventRouterService(router)

	if svc.String() != "event-router" {
		t.Errorf("expected 'event-router', got %q", svc.String())
	}
}

func TestEventRouterService_WithSupervisor(t *testing.T) {
	router := &mockMessageRouter{}
	svc := NewEventRouterService(router)

	sup := suture.New("test-sup", suture.Spec{
		FailureThreshold: 3,
		FailureBackoff:   10 * time.Millisecond,
		Timeout:          100 * time.Millisecond,
	})
	sup.Add(svc)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	errCh := sup.ServeBackground(ctx)

	// Wait for router to start with polling (more reliable in CI under load)
	var started bool
	for i := 0; i < 10; i++ {
		time.Sleep(20 * time.Millisecond)
		if router.RunCount() >= 1 {
			started = true
			break
		}
	}

	if !started {
		t.Error("router Run was not called")
	}

	cancel()
	<-errCh
}
