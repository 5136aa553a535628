// Package vault seals the history file at rest when a passphrase is
// configured.
//
// A 32-byte symmetric key is derived from the passphrase using HKDF-SHA256.
// The sealed file layout is:
//
//	[ 8-byte magic ][ 24-byte nonce ][ secretbox ciphertext ]
//
// The magic lets the loader distinguish a sealed file from plain JSON, so a
// history written without a passphrase still loads after one is configured
// (and vice versa the mismatch is reported cleanly instead of as garbage).
package vault

import (
	"bytes"
	"crypto/rand"
	"crypto/sha256"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
	"golang.org/x/crypto/nacl/secretbox"
)

const (
	keySize   = 32
	nonceSize = 24
)

var (
	magic    = []byte("PAISTEv1")
	hkdfInfo = []byte("paiste-vault-v1")
)

// Key is a derived secretbox key.
type Key = [keySize]byte

// DeriveKey derives the sealing key from a passphrase. The same passphrase
// always yields the same key.
func DeriveKey(passphrase string) (*Key, error) {
	h := hkdf.New(sha256.New, []byte(passphrase), nil, hkdfInfo)
	var key Key
	if _, err := io.ReadFull(h, key[:]); err != nil {
		return nil, fmt.Errorf("key derivation: %w", err)
	}
	return &key, nil
}

// IsSealed reports whether data starts with the sealed-file magic.
func IsSealed(data []byte) bool {
	return bytes.HasPrefix(data, magic)
}

// Seal encrypts plaintext under key with a fresh random nonce and returns
// the full sealed file contents.
func Seal(plaintext []byte, key *Key) ([]byte, error) {
	var nonce [nonceSize]byte
	if _, err := io.ReadFull(rand.Reader, nonce[:]); err != nil {
		return nil, fmt.Errorf("nonce generation: %w", err)
	}
	out := make([]byte, 0, len(magic)+nonceSize+len(plaintext)+secretbox.Overhead)
	out = append(out, magic...)
	out = append(out, nonce[:]...)
	return secretbox.Seal(out, plaintext, &nonce, key), nil
}

// Open decrypts a sealed file produced by Seal.
func Open(sealed []byte, key *Key) ([]byte, error) {
	if !IsSealed(sealed) {
		return nil, fmt.Errorf("not a sealed file")
	}
	body := sealed[len(magic):]
	if len(body) < nonceSize {
		return nil, fmt.Errorf("sealed data truncated")
	}
	var nonce [nonceSize]byte
	copy(nonce[:], body[:nonceSize])
	plain, ok := secretbox.Open(nil, body[nonceSize:], &nonce, key)
	if !ok {
		return nil, fmt.Errorf("unseal failed (wrong passphrase?)")
	}
	return plain, nil
}
