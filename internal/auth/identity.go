// Concentus - Apple Music Taste Profiles and Listener Matching
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/concentus

package auth

import (
	"encoding/base64"
	"strings"
)

// base64Filler removes the base64 characters that are unsafe in identifiers.
// Stripping happens after truncation, so derived IDs may be shorter than the
// nominal 12 characters. Existing deployments depend on the exact sequence;
// changing it would orphan every stored profile.
var base64Filler = strings.NewReplacer("+", "", "/", "", "=", "")

// DeriveUserID derives the stable user identifier from an Apple Music user
// token: base64 of the first 20 bytes, truncated to 12 characters, with
// "+", "/" and "=" removed, prefixed with "user_".
//
// The same token always yields the same ID, which is what makes repeat logins
// land on the same profile partition without the service storing any mapping.
func DeriveUserID(musicUserToken string) string {
	raw := musicUserToken
	if len(raw) > 20 {
		raw = raw[:20]
	}

	encoded := base64.StdEncoding.EncodeToString([]byte(raw))
	if len(encoded) > 12 {
		encoded = encoded[:12]
	}

	return "user_" + base64Filler.Replace(encoded)
}

// DefaultDisplayName builds the fallback display name for a user that did not
// choose one: "User_" plus the last six characters of the derived ID.
func DefaultDisplayName(userID string) string {
	suffix := userID
	if len(suffix) > 6 {
		suffix = suffix[len(suffix)-6:]
	}
	return "User_" + suffix
}
