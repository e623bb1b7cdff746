// Concentus - Apple Music Taste Profiles and Listener Matching
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/concentus

package auth

import (
	"context"
	"errors"
	"testing"
	"time"
)

func testSubject() *Subject {
	return &Subject{
		UserID:      "user_dGVzdC10b2tl",
		DisplayName: "Listener",
		Storefront:  "us",
		Role:        RoleUser,
	}
}

func TestNewSession(t *testing.T) {
	subject := testSubject()
	session := NewSession(subject, "music-user-token", time.Hour)

	if session.ID == "" {
		t.Fatal("Expected non-empty session ID")
	}
	if len(session.ID) != 36 {
		t.Errorf("Expected UUID-length session ID, got %q (%d chars)", session.ID, len(session.ID))
	}
	if session.UserID != subject.UserID {
		t.Errorf("Expected user ID %q, got %q", subject.UserID, session.UserID)
	}
	if session.UserToken != "music-user-token" {
		t.Errorf("Expected user token to be carried, got %q", session.UserToken)
	}
	if session.IsExpired() {
		t.Error("Expected fresh session to be unexpired")
	}
	if !session.ExpiresAt.After(session.CreatedAt) {
		t.Error("Expected expiry after creation time")
	}

	// IDs must be unique across sessions
	other := NewSession(subject, "music-user-token", time.Hour)
	if other.ID == session.ID {
		t.Error("Expected distinct session IDs")
	}
}

func TestSessionSubject(t *testing.T) {
	session := NewSession(testSubject(), "tok", time.Hour)

	subject := session.Subject()
	if subject.UserID != session.UserID {
		t.Errorf("Expected user ID %q, got %q", session.UserID, subject.UserID)
	}
	if subject.SessionID != session.ID {
		t.Errorf("Expected session ID %q, got %q", session.ID, subject.SessionID)
	}
	if subject.Role != RoleUser {
		t.Errorf("Expected role %q, got %q", RoleUser, subject.Role)
	}
}

func TestMemoryStoreRoundTrip(t *testing.T) {
	store := NewMemorySessionStore()
	ctx := context.Background()

	session := NewSession(testSubject(), "tok", time.Hour)
	if err := store.Create(ctx, session); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	got, err := store.Get(ctx, session.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.UserID != session.UserID {
		t.Errorf("Expected user ID %q, got %q", session.UserID, got.UserID)
	}
	if got.UserToken != "tok" {
		t.Errorf("Expected user token %q, got %q", "tok", got.UserToken)
	}

	// Mutating the returned copy must not affect the stored session
	got.DisplayName = "mutated"
	again, err := store.Get(ctx, session.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if again.DisplayName != "Listener" {
		t.Errorf("Expected stored session untouched, got display name %q", again.DisplayName)
	}
}

func TestMemoryStoreNotFound(t *testing.T) {
	store := NewMemorySessionStore()

	_, err := store.Get(context.Background(), "no-such-session")
	if !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Expected ErrSessionNotFound, got %v", err)
	}

	err = store.Update(context.Background(), NewSession(testSubject(), "tok", time.Hour))
	if !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Expected ErrSessionNotFound on update, got %v", err)
	}

	err = store.Touch(context.Background(), "no-such-session", time.Now().Add(time.Hour))
	if !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Expected ErrSessionNotFound on touch, got %v", err)
	}

	// Deleting a missing session is not an error
	if err := store.Delete(context.Background(), "no-such-session"); err != nil {
		t.Errorf("Expected nil deleting missing session, got %v", err)
	}
}

func TestMemoryStoreExpiry(t *testing.T) {
	store := NewMemorySessionStore()
	ctx := context.Background()

	session := NewSession(testSubject(), "tok", -time.Minute)
	if err := store.Create(ctx, session); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	_, err := store.Get(ctx, session.ID)
	if !errors.Is(err, ErrSessionExpired) {
		t.Errorf("Expected ErrSessionExpired, got %v", err)
	}
}

func TestMemoryStoreTouchExtends(t *testing.T) {
	store := NewMemorySessionStore()
	ctx := context.Background()

	session := NewSession(testSubject(), "tok", time.Minute)
	if err := store.Create(ctx, session); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	newExpiry := time.Now().Add(2 * time.Hour)
	if err := store.Touch(ctx, session.ID, newExpiry); err != nil {
		t.Fatalf("Touch failed: %v", err)
	}

	got, err := store.Get(ctx, session.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !got.ExpiresAt.Equal(newExpiry) {
		t.Errorf("Expected expiry %v, got %v", newExpiry, got.ExpiresAt)
	}
	if !got.LastAccessedAt.After(session.LastAccessedAt) {
		t.Error("Expected last accessed time to advance")
	}
}

func TestMemoryStoreByUserID(t *testing.T) {
	store := NewMemorySessionStore()
	ctx := context.Background()

	alice := &Subject{UserID: "user_alice", Role: RoleUser}
	bob := &Subject{UserID: "user_bob", Role: RoleUser}

	for i := 0; i < 3; i++ {
		if err := store.Create(ctx, NewSession(alice, "tok", time.Hour)); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}
	if err := store.Create(ctx, NewSession(bob, "tok", time.Hour)); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	// An expired session for alice should not be listed
	if err := store.Create(ctx, NewSession(alice, "tok", -time.Minute)); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	sessions, err := store.GetByUserID(ctx, "user_alice")
	if err != nil {
		t.Fatalf("GetByUserID failed: %v", err)
	}
	if len(sessions) != 3 {
		t.Errorf("Expected 3 live sessions for alice, got %d", len(sessions))
	}

	deleted, err := store.DeleteByUserID(ctx, "user_alice")
	if err != nil {
		t.Fatalf("DeleteByUserID failed: %v", err)
	}
	if deleted != 4 {
		t.Errorf("Expected 4 deleted sessions (including expired), got %d", deleted)
	}

	remaining, err := store.Count(ctx)
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if remaining != 1 {
		t.Errorf("Expected 1 remaining session, got %d", remaining)
	}
}

func TestMemoryStoreCleanupExpired(t *testing.T) {
	store := NewMemorySessionStore()
	ctx := context.Background()

	subject := testSubject()
	if err := store.Create(ctx, NewSession(subject, "tok", time.Hour)); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	for i := 0; i < 2; i++ {
		if err := store.Create(ctx, NewSession(subject, "tok", -time.Minute)); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}

	cleaned, err := store.CleanupExpired(ctx)
	if err != nil {
		t.Fatalf("CleanupExpired failed: %v", err)
	}
	if cleaned != 2 {
		t.Errorf("Expected 2 cleaned sessions, got %d", cleaned)
	}

	count, err := store.Count(ctx)
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if count != 1 {
		t.Errorf("Expected 1 session after cleanup, got %d", count)
	}
}
