// Concentus - Apple Music Taste Profiles and Listener Matching
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/concentus

package docstore

import (
	"regexp"
	"strings"
)

// RegistryPartition holds the user registry documents, separate from the
// per-user profile partitions.
const RegistryPartition = "user_registry"

// nonAlphanumeric matches every character that is not allowed in a partition
// name. Badger keys could carry more, but partition names stay conservative
// so they remain valid across export targets.
var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9]`)

// UserPartition derives the partition name for a user ID.
//
// Every character outside [a-zA-Z0-9] becomes an underscore, and the result
// is prefixed with "user_" unless the ID already starts with it. Distinct
// user IDs can sanitize to the same partition ("a.b" and "a-b" both become
// "user_a_b"); IDs issued by the login flow are alphanumeric, so collisions
// only affect externally supplied IDs and the first writer wins.
func UserPartition(userID string) string {
	sanitized := nonAlphanumeric.ReplaceAllString(userID, "_")
	if strings.HasPrefix(sanitized, "user_") {
		return sanitized
	}
	return "user_" + sanitized
}

// UserIDFromPartition recovers the candidate user ID from a partition name by
// stripping the first "user_" prefix. This is the inverse of UserPartition
// only for IDs that were alphanumeric to begin with.
func UserIDFromPartition(partition string) string {
	return strings.Replace(partition, "user_", "", 1)
}
