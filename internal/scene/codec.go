package scene

import (
	"encoding/json"
	"fmt"

	"github.com/dmitrijs2005/scenesync/internal/common"
	"github.com/dmitrijs2005/scenesync/internal/cryptox"
)

// Stored payload layout: nonce (cryptox.NonceSize bytes) || ciphertext.
// The nonce length is fixed and known to both producer and consumer; the
// ciphertext length is variable.

// EncodeScene serializes an ordered element sequence to canonical JSON and
// encrypts it with the room key, returning the transport payload.
//
// A nil slice is encoded as the empty scene, so EncodeScene(nil) and
// EncodeScene([]Element{}) produce equivalent payloads.
func EncodeScene(elements []Element, key []byte) ([]byte, error) {
	if elements == nil {
		elements = []Element{}
	}

	plaintext, err := json.Marshal(elements)
	if err != nil {
		return nil, fmt.Errorf("serializing scene: %w", err)
	}

	return seal(plaintext, key)
}

// DecodeScene decrypts a stored payload and parses the element sequence back
// out of it. Every failure mode (truncated payload, wrong key, corrupted
// bytes, malformed JSON) wraps common.ErrDecodeFailed; a broken payload never
// decodes to an empty scene.
func DecodeScene(payload, key []byte) ([]Element, error) {
	plaintext, err := open(payload, key)
	if err != nil {
		return nil, err
	}

	var elements []Element
	if err := json.Unmarshal(plaintext, &elements); err != nil {
		return nil, fmt.Errorf("%w: parsing scene: %v", common.ErrDecodeFailed, err)
	}

	return elements, nil
}

// EncodeBlob seals an attachment payload into the same nonce||ciphertext
// envelope used for scenes.
func EncodeBlob(data, key []byte) ([]byte, error) {
	return seal(data, key)
}

// DecodeBlob opens an attachment payload. Failures wrap common.ErrDecodeFailed.
func DecodeBlob(payload, key []byte) ([]byte, error) {
	return open(payload, key)
}

func seal(plaintext, key []byte) ([]byte, error) {
	ciphertext, nonce, err := cryptox.Encrypt(plaintext, key)
	if err != nil {
		return nil, fmt.Errorf("encrypting payload: %w", err)
	}

	payload := make([]byte, 0, len(nonce)+len(ciphertext))
	payload = append(payload, nonce...)
	payload = append(payload, ciphertext...)
	return payload, nil
}

func open(payload, key []byte) ([]byte, error) {
	if len(payload) < cryptox.NonceSize {
		return nil, fmt.Errorf("%w: payload shorter than nonce (%d bytes)", common.ErrDecodeFailed, len(payload))
	}

	nonce := payload[:cryptox.NonceSize]
	ciphertext := payload[cryptox.NonceSize:]

	plaintext, err := cryptox.Decrypt(ciphertext, nonce, key)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrDecodeFailed, err)
	}

	return plaintext, nil
}
