// Concentus - Apple Music Taste Profiles and Listener Matching
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/concentus

package auth

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
)

// Token encryption errors
var (
	// ErrDecryptionFailed indicates the decryption operation failed.
	ErrDecryptionFailed = errors.New("decryption failed")

	// ErrInvalidCiphertext indicates the ciphertext is malformed.
	ErrInvalidCiphertext = errors.New("invalid ciphertext")
)

// encryptionContext feeds HKDF so the derived key is bound to this purpose.
// Reusing the master key for another context yields an unrelated key.
const encryptionContext = "concentus-user-token"

// TokenEncryptor seals Apple Music user tokens with AES-256-GCM before they
// are persisted. The cipher key is derived from the configured master key via
// HKDF-SHA256.
//
// A nil *TokenEncryptor is valid and means encryption is disabled: Encrypt
// and Decrypt pass values through unchanged. Callers never need to branch.
type TokenEncryptor struct {
	aead cipher.AEAD
}

// NewTokenEncryptor creates a token encryptor from the configured hex key
// (64 hex characters, 32 bytes). An empty key returns (nil, nil), which
// disables encryption.
func NewTokenEncryptor(hexKey string) (*TokenEncryptor, error) {
	if hexKey == "" {
		return nil, nil
	}

	masterKey, err := hex.DecodeString(hexKey)
	if err != nil {
		return nil, fmt.Errorf("decode encryption key: %w", err)
	}
	if len(masterKey) != 32 {
		return nil, fmt.Errorf("encryption key must decode to 32 bytes, got %d", len(masterKey))
	}

	derivedKey, err := deriveKey(masterKey, []byte(encryptionContext), 32)
	if err != nil {
		return nil, fmt.Errorf("derive encryption key: %w", err)
	}

	block, err := aes.NewCipher(derivedKey)
	if err != nil {
		return nil, fmt.Errorf("create AES cipher: %w", err)
	}

	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("create GCM cipher: %w", err)
	}

	return &TokenEncryptor{aead: aead}, nil
}

// deriveKey derives a key using HKDF-SHA256.
func deriveKey(secret, context []byte, keyLen int) ([]byte, error) {
	reader := hkdf.New(sha256.New, secret, nil, context)
	key := make([]byte, keyLen)
	if _, err := io.ReadFull(reader, key); err != nil {
		return nil, err
	}
	return key, nil
}

// Encrypt encrypts the plaintext and returns base64-encoded ciphertext with
// the nonce prepended. Empty strings and disabled encryptors pass through.
func (e *TokenEncryptor) Encrypt(plaintext string) (string, error) {
	if e == nil || e.aead == nil {
		return plaintext, nil
	}
	if plaintext == "" {
		return "", nil
	}

	nonce := make([]byte, e.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("generate nonce: %w", err)
	}

	ciphertext := e.aead.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(ciphertext), nil
}

// Decrypt decrypts base64-encoded ciphertext produced by Encrypt.
// Empty strings and disabled encryptors pass through.
func (e *TokenEncryptor) Decrypt(ciphertext string) (string, error) {
	if e == nil || e.aead == nil {
		return ciphertext, nil
	}
	if ciphertext == "" {
		return "", nil
	}

	data, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return "", fmt.Errorf("%w: base64 decode failed", ErrInvalidCiphertext)
	}

	nonceSize := e.aead.NonceSize()
	if len(data) < nonceSize+1+e.aead.Overhead() {
		return "", fmt.Errorf("%w: data too short", ErrInvalidCiphertext)
	}

	nonce := data[:nonceSize]
	encryptedData := data[nonceSize:]

	plaintext, err := e.aead.Open(nil, nonce, encryptedData, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrDecryptionFailed, err.Error())
	}

	return string(plaintext), nil
}

// IsEnabled returns true if encryption is enabled.
func (e *TokenEncryptor) IsEnabled() bool {
	return e != nil && e.aead != nil
}

// GenerateEncryptionKey generates a random 32-byte key and returns it hex
// encoded, ready for the TOKEN_ENCRYPTION_KEY setting.
func GenerateEncryptionKey() (string, error) {
	key := make([]byte, 32)
	if _, err := io.ReadFull(rand.Reader, key); err != nil {
		return "", fmt.Errorf("generate random key: %w", err)
	}
	return hex.EncodeToString(key), nil
}
