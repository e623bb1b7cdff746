// Concentus - Apple Music Taste Profiles and Listener Matching
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/concentus

package applemusic

import (
	"crypto/ecdsa"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/tomtom215/concentus/internal/config"
	"github.com/tomtom215/concentus/internal/logging"
	"github.com/tomtom215/concentus/internal/metrics"
)

// refreshMargin is how long before expiry a cached developer token is
// replaced. Apple rejects expired tokens hard, so the margin keeps a
// long-lived process from ever presenting one.
const refreshMargin = time.Hour

// defaultTokenTTL is Apple's maximum developer token lifetime.
const defaultTokenTTL = 180 * 24 * time.Hour

// ErrNoPrivateKey reports that neither inline PEM material nor a key
// file path was configured.
var ErrNoPrivateKey = errors.New("no Apple Music private key configured")

// TokenSource mints and caches Apple Music developer tokens.
//
// Developer tokens are ES256 JWTs signed with the team's MusicKit
// private key, carrying the team ID as issuer and the key ID in the
// header. A minted token is reused until one hour before its expiry.
type TokenSource struct {
	teamID  string
	keyID   string
	rawPEM  string
	keyPath string
	ttl     time.Duration

	mu      sync.Mutex
	key     *ecdsa.PrivateKey
	token   string
	refresh time.Time
}

// NewTokenSource creates a developer token source from MusicKit
// credentials. The key itself is loaded lazily on first use so a
// misconfigured path surfaces as an error from Token, not a panic at
// startup.
func NewTokenSource(cfg config.AppleConfig) *TokenSource {
	ttl := cfg.TokenTTL
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}

	return &TokenSource{
		teamID:  cfg.TeamID,
		keyID:   cfg.KeyID,
		rawPEM:  cfg.PrivateKey,
		keyPath: cfg.PrivateKeyPath,
		ttl:     ttl,
	}
}

// Token returns a valid developer token, minting a new one when none
// is cached or the cached token is inside the refresh margin.
func (ts *TokenSource) Token() (string, error) {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	if ts.token != "" && time.Now().Before(ts.refresh) {
		return ts.token, nil
	}
	return ts.mint()
}

// Refresh discards the cached token and mints a fresh one.
func (ts *TokenSource) Refresh() (string, error) {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	ts.token = ""
	ts.refresh = time.Time{}
	return ts.mint()
}

// Valid reports whether a cached token exists and is outside the
// refresh margin.
func (ts *TokenSource) Valid() bool {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	return ts.token != "" && time.Now().Before(ts.refresh)
}

// mint signs a new developer token. Caller must hold mu.
func (ts *TokenSource) mint() (string, error) {
	key, err := ts.privateKey()
	if err != nil {
		return "", err
	}

	now := time.Now()
	claims := jwt.RegisteredClaims{
		Issuer:    ts.teamID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ts.ttl)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodES256, claims)
	token.Header["kid"] = ts.keyID

	signed, err := token.SignedString(key)
	if err != nil {
		return "", fmt.Errorf("signing developer token: %w", err)
	}

	ts.token = signed
	ts.refresh = now.Add(ts.ttl - refreshMargin)
	metrics.DevTokenGenerations.Inc()

	logging.Info().
		Str("team_id", ts.teamID).
		Str("key_id", ts.keyID).
		Time("refresh_after", ts.refresh).
		Msg("Generated Apple Music developer token")

	return signed, nil
}

// privateKey loads and caches the ES256 signing key. Caller must hold mu.
func (ts *TokenSource) privateKey() (*ecdsa.PrivateKey, error) {
	if ts.key != nil {
		return ts.key, nil
	}

	pemData, err := ts.loadPEM()
	if err != nil {
		return nil, err
	}

	key, err := jwt.ParseECPrivateKeyFromPEM(pemData)
	if err != nil {
		return nil, fmt.Errorf("parsing Apple Music private key: %w", err)
	}

	ts.key = key
	return key, nil
}

// loadPEM resolves the key material. Inline PEM content wins over a
// file path; literal "\n" sequences from env files are unescaped.
func (ts *TokenSource) loadPEM() ([]byte, error) {
	if ts.rawPEM != "" {
		return []byte(strings.ReplaceAll(ts.rawPEM, `\n`, "\n")), nil
	}

	if ts.keyPath != "" {
		data, err := os.ReadFile(ts.keyPath)
		if err != nil {
			return nil, fmt.Errorf("reading private key file %s: %w", ts.keyPath, err)
		}
		return data, nil
	}

	return nil, ErrNoPrivateKey
}
