// Concentus - Apple Music Taste Profiles and Listener Matching
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/concentus

package profile

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tomtom215/concentus/internal/docstore"
	"github.com/tomtom215/concentus/internal/models"
)

// ErrNotFound reports that a user has no stored profile, or none with an
// embedding where one is required.
var ErrNotFound = errors.New("profile not found")

// docIDPrefix builds the per-user document ID. The raw user ID is used
// here, not the sanitized partition name, matching documents written by
// earlier deployments.
const docIDPrefix = "profile_"

// Stored metadata constants of the legacy document layout.
const (
	metaSource   = "blob"
	metaBlobType = "application/json"
)

// DocID returns the document ID under which a user's profile is stored.
func DocID(userID string) string {
	return docIDPrefix + userID
}

// Store persists profile documents, one per user partition.
type Store struct {
	docs *docstore.Store
}

// NewStore wraps a document store with the profile document layout.
func NewStore(docs *docstore.Store) *Store {
	return &Store{docs: docs}
}

// Upsert writes a full-replace profile document for the user, stamped with
// the current instant. A nil embedding is stored as an empty array so the
// document shape stays constant. Returns the partition the document landed
// in.
func (s *Store) Upsert(ctx context.Context, userID, text string, embedding []float64) (string, error) {
	if embedding == nil {
		embedding = []float64{}
	}

	partition := docstore.UserPartition(userID)
	doc := models.ProfileDocument{
		ID:        DocID(userID),
		Text:      text,
		Embedding: embedding,
		Metadata: models.DocumentMeta{
			Source:   metaSource,
			BlobType: metaBlobType,
			Loc: models.DocumentLoc{
				Lines: models.LineRange{From: 1, To: 1},
			},
		},
		PageContent: text,
		Timestamp:   time.Now().UTC(),
	}

	if err := s.docs.Put(ctx, partition, doc.ID, doc); err != nil {
		return "", fmt.Errorf("storing profile for %s: %w", userID, err)
	}
	return partition, nil
}

// Get loads a user's profile document, or ErrNotFound when absent.
func (s *Store) Get(ctx context.Context, userID string) (*models.ProfileDocument, error) {
	var doc models.ProfileDocument
	err := s.docs.Get(ctx, docstore.UserPartition(userID), DocID(userID), &doc)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("loading profile for %s: %w", userID, err)
	}
	return &doc, nil
}

// GetWithEmbedding loads a user's profile document and requires it to carry
// a non-empty embedding. A document without one reports ErrNotFound, the
// same as no document at all, because a profile that cannot be compared is
// invisible to similarity queries.
func (s *Store) GetWithEmbedding(ctx context.Context, userID string) (*models.ProfileDocument, error) {
	doc, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !doc.HasEmbedding() {
		return nil, ErrNotFound
	}
	return doc, nil
}

// ListUserPartitions enumerates the partitions that may hold profiles,
// which is every partition carrying the user prefix. The registry partition
// shares the prefix and is included; candidate scans skip it naturally
// because it holds no profile document.
func (s *Store) ListUserPartitions(ctx context.Context) ([]string, error) {
	partitions, err := s.docs.ListPartitions(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing user partitions: %w", err)
	}

	users := []string{}
	for _, p := range partitions {
		if strings.HasPrefix(p, "user_") {
			users = append(users, p)
		}
	}
	return users, nil
}

// Drop removes a user's entire profile partition. Dropping a partition
// that does not exist is not an error.
func (s *Store) Drop(ctx context.Context, userID string) error {
	if err := s.docs.DropPartition(ctx, docstore.UserPartition(userID)); err != nil {
		return fmt.Errorf("dropping profile partition for %s: %w", userID, err)
	}
	return nil
}
