// Package cryptox holds the symmetric-encryption primitives the sync layer
// builds its envelopes on: AES-256-GCM over opaque byte buffers, plus room-key
// derivation from a human passphrase.
//
// The sync layer treats these as black boxes; the server only ever sees the
// ciphertext they produce.
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"

	"golang.org/x/crypto/argon2"
)

const (
	// KeySize is the room key length in bytes (AES-256).
	KeySize = 32

	// NonceSize is the fixed GCM nonce length. Both producer and consumer of
	// a stored envelope rely on this value when splitting nonce||ciphertext.
	NonceSize = 12
)

// Encrypt seals plaintext with the given key under AES-GCM.
//
// The key must be a valid AES key length (16, 24, or 32 bytes). A new random
// nonce is generated for every call and returned separately from the
// ciphertext.
func Encrypt(plaintext, key []byte) (ciphertext, nonce []byte, err error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, nil, err
	}

	aesgcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, nil, err
	}

	nonce = make([]byte, aesgcm.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, nil, err
	}

	ciphertext = aesgcm.Seal(nil, nonce, plaintext, nil)

	return ciphertext, nonce, nil
}

// Decrypt opens ciphertext produced by Encrypt. The key and nonce must match
// the ones used during encryption; any mismatch or corruption fails the GCM
// authentication check and returns an error.
func Decrypt(ciphertext, nonce, key []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	aesgcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	return aesgcm.Open(nil, nonce, ciphertext, nil)
}

// GenerateKey returns a fresh random room key.
func GenerateKey() ([]byte, error) {
	key := make([]byte, KeySize)
	if _, err := rand.Read(key); err != nil {
		return nil, err
	}
	return key, nil
}

// DeriveRoomKey derives a room key from a passphrase using Argon2id. The salt
// must be stable per room (the room id is a reasonable choice) so that every
// participant derives the same key.
func DeriveRoomKey(passphrase, salt []byte) []byte {
	return argon2.IDKey(passphrase, salt, 1, 64*1024, 4, KeySize)
}
