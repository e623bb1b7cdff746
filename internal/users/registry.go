// Concentus - Apple Music Taste Profiles and Listener Matching
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/concentus

// Package users implements the listener registry. One document per user lives
// in the registry partition of the document store; login upserts entries, the
// admin surface lists and deletes them, and the background re-sync sweep reads
// back every user that still holds an Apple Music user token. Tokens are
// sealed at rest when an encryption key is configured.
package users

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/concentus/internal/auth"
	"github.com/tomtom215/concentus/internal/docstore"
	"github.com/tomtom215/concentus/internal/logging"
	"github.com/tomtom215/concentus/internal/models"
)

// ErrUserNotFound is returned when no registry entry exists for a user ID.
var ErrUserNotFound = errors.New("user not found")

// Registry stores listener records in the document store.
type Registry struct {
	store *docstore.Store
	crypt *auth.TokenEncryptor
}

// Compile-time check that Registry satisfies the login flow's interface.
var _ auth.UserRegistry = (*Registry)(nil)

// NewRegistry creates a registry backed by the document store. crypt may be
// nil, which stores tokens unencrypted.
func NewRegistry(store *docstore.Store, crypt *auth.TokenEncryptor) *Registry {
	return &Registry{store: store, crypt: crypt}
}

// Upsert creates or refreshes a registry entry and reports whether it was
// newly created.
//
// On create, an empty display name gets the default derived from the user ID.
// On refresh, the stored display name and storefront survive empty incoming
// values, CreatedAt is preserved, and the token, role, and last login are
// brought up to date.
func (r *Registry) Upsert(ctx context.Context, user *models.User) (*models.User, bool, error) {
	if user.AppleMusicUserID == "" {
		return nil, false, errors.New("user ID required")
	}

	now := time.Now().UTC()
	existing, err := r.Get(ctx, user.AppleMusicUserID)
	if errors.Is(err, ErrUserNotFound) {
		entry := &models.User{
			AppleMusicUserID: user.AppleMusicUserID,
			DisplayName:      user.DisplayName,
			Storefront:       user.Storefront,
			UserToken:        user.UserToken,
			Role:             user.Role,
			LastLogin:        now,
			CreatedAt:        now,
		}
		if entry.DisplayName == "" {
			entry.DisplayName = auth.DefaultDisplayName(entry.AppleMusicUserID)
		}
		if err := r.put(ctx, entry); err != nil {
			return nil, false, err
		}

		logging.Info().
			Str("user_id", entry.AppleMusicUserID).
			Str("storefront", entry.Storefront).
			Msg("User registered")
		return entry, true, nil
	}
	if err != nil {
		return nil, false, err
	}

	existing.LastLogin = now
	if user.UserToken != "" {
		existing.UserToken = user.UserToken
	}
	if user.DisplayName != "" {
		existing.DisplayName = user.DisplayName
	}
	if user.Storefront != "" {
		existing.Storefront = user.Storefront
	}
	if user.Role != "" {
		existing.Role = user.Role
	}

	if err := r.put(ctx, existing); err != nil {
		return nil, false, err
	}
	return existing, false, nil
}

// Get loads a registry entry with its token decrypted, or ErrUserNotFound.
func (r *Registry) Get(ctx context.Context, userID string) (*models.User, error) {
	var user models.User
	err := r.store.Get(ctx, docstore.RegistryPartition, userID, &user)
	if errors.Is(err, docstore.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}

	token, err := r.crypt.Decrypt(user.UserToken)
	if err != nil {
		return nil, fmt.Errorf("decrypt user token: %w", err)
	}
	user.UserToken = token
	return &user, nil
}

// List returns public projections of every registry entry, most recent login
// first. Tokens stay sealed; the projection only reports their presence.
func (r *Registry) List(ctx context.Context) ([]models.PublicUser, error) {
	users := []models.PublicUser{}
	err := r.store.ScanPartition(ctx, docstore.RegistryPartition, func(docID string, data []byte) error {
		var user models.User
		if err := json.Unmarshal(data, &user); err != nil {
			return fmt.Errorf("decode user %s: %w", docID, err)
		}
		users = append(users, user.Public())
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan registry: %w", err)
	}

	sort.Slice(users, func(i, j int) bool {
		li, lj := users[i].LastLogin, users[j].LastLogin
		switch {
		case li == nil && lj == nil:
			return users[i].AppleMusicUserID < users[j].AppleMusicUserID
		case li == nil:
			return false
		case lj == nil:
			return true
		case li.Equal(*lj):
			return users[i].AppleMusicUserID < users[j].AppleMusicUserID
		}
		return li.After(*lj)
	})
	return users, nil
}

// ListWithTokens returns every registry entry that still holds a user token,
// tokens decrypted, ordered by user ID. The background re-sync sweep feeds on
// it. An entry whose token no longer decrypts (key rotation) is skipped with
// a warning rather than failing the listing.
func (r *Registry) ListWithTokens(ctx context.Context) ([]*models.User, error) {
	var users []*models.User
	err := r.store.ScanPartition(ctx, docstore.RegistryPartition, func(docID string, data []byte) error {
		var user models.User
		if err := json.Unmarshal(data, &user); err != nil {
			return fmt.Errorf("decode user %s: %w", docID, err)
		}
		if user.UserToken == "" {
			return nil
		}

		token, err := r.crypt.Decrypt(user.UserToken)
		if err != nil {
			logging.Warn().
				Err(err).
				Str("user_id", user.AppleMusicUserID).
				Msg("Skipping user with undecryptable token")
			return nil
		}
		user.UserToken = token
		users = append(users, &user)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan registry: %w", err)
	}

	sort.Slice(users, func(i, j int) bool {
		return users[i].AppleMusicUserID < users[j].AppleMusicUserID
	})
	return users, nil
}

// UpdateDisplayName sets a user's display name and returns the updated entry.
func (r *Registry) UpdateDisplayName(ctx context.Context, userID, displayName string) (*models.User, error) {
	user, err := r.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	user.DisplayName = displayName
	if err := r.put(ctx, user); err != nil {
		return nil, err
	}

	logging.Debug().Str("user_id", userID).Msg("Display name updated")
	return user, nil
}

// Delete removes a user's registry entry and drops their profile partition.
// Returns ErrUserNotFound when no entry exists.
func (r *Registry) Delete(ctx context.Context, userID string) error {
	if _, err := r.Get(ctx, userID); err != nil {
		return err
	}

	if err := r.store.Delete(ctx, docstore.RegistryPartition, userID); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if err := r.store.DropPartition(ctx, docstore.UserPartition(userID)); err != nil {
		return fmt.Errorf("drop profile partition: %w", err)
	}

	logging.Info().Str("user_id", userID).Msg("User deleted")
	return nil
}

// Count returns the number of registry entries.
func (r *Registry) Count(ctx context.Context) (int, error) {
	count := 0
	err := r.store.ScanPartition(ctx, docstore.RegistryPartition, func(string, []byte) error {
		count++
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("scan registry: %w", err)
	}
	return count, nil
}

// put seals the token and writes the entry. The caller's struct is not
// mutated; sealing happens on a copy.
func (r *Registry) put(ctx context.Context, user *models.User) error {
	sealed := *user
	token, err := r.crypt.Encrypt(user.UserToken)
	if err != nil {
		return fmt.Errorf("encrypt user token: %w", err)
	}
	sealed.UserToken = token

	if err := r.store.Put(ctx, docstore.RegistryPartition, user.AppleMusicUserID, &sealed); err != nil {
		return fmt.Errorf("store user: %w", err)
	}
	return nil
}
