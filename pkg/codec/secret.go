package codec

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"io"

	"golang.org/x/crypto/pbkdf2"
)

// Secret framing constants. The stored string is
// base64(salt || nonce || ciphertext || tag); salt and nonce are random
// per call, so a nonce is never reused under one derived key.
const (
	secretSaltSize  = 16
	secretNonceSize = 12
	secretTagSize   = 16
	secretKeySize   = 32 // AES-256

	// DefaultIterations is the PBKDF2 round count. Keep it at or above
	// 100k; lowering it weakens every secret written afterwards.
	DefaultIterations = 100_000
)

func (c Codec) iterations() int {
	if c.Iterations <= 0 {
		return DefaultIterations
	}
	return c.Iterations
}

func (c Codec) deriveKey(salt []byte) []byte {
	return pbkdf2.Key([]byte(c.Passphrase), salt, c.iterations(), secretKeySize, sha256.New)
}

// encodeSecret encrypts the plaintext under a passphrase-derived key.
func (c Codec) encodeSecret(field string, value any) (string, error) {
	plaintext, err := toString(field, value)
	if err != nil {
		return "", err
	}
	if c.Passphrase == "" {
		return "", &EncodingError{Field: field, Value: "(secret)", Reason: "no passphrase configured for secret codec"}
	}

	buf := make([]byte, secretSaltSize+secretNonceSize)
	if _, err := io.ReadFull(rand.Reader, buf); err != nil {
		return "", &EncodingError{Field: field, Value: "(secret)", Reason: fmt.Sprintf("entropy source failed: %v", err)}
	}
	salt := buf[:secretSaltSize]
	nonce := buf[secretSaltSize:]

	block, err := aes.NewCipher(c.deriveKey(salt))
	if err != nil {
		return "", &EncodingError{Field: field, Value: "(secret)", Reason: err.Error()}
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", &EncodingError{Field: field, Value: "(secret)", Reason: err.Error()}
	}

	// Seal appends ciphertext||tag after the salt and nonce already in buf.
	sealed := gcm.Seal(buf, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// decodeSecret authenticates and decrypts a stored secret. Any failure is
// a DecryptionError: tampered ciphertext and a wrong passphrase are
// indistinguishable by construction, and neither ever yields data.
func (c Codec) decodeSecret(field, wire string) (string, error) {
	if c.Passphrase == "" {
		return "", &DecryptionError{Field: field, Reason: "no passphrase configured for secret codec"}
	}
	raw, err := base64.StdEncoding.DecodeString(wire)
	if err != nil {
		return "", &DecryptionError{Field: field, Reason: "stored value is not base64"}
	}
	if len(raw) < secretSaltSize+secretNonceSize+secretTagSize {
		return "", &DecryptionError{Field: field, Reason: "stored value too short for secret framing"}
	}
	salt := raw[:secretSaltSize]
	nonce := raw[secretSaltSize : secretSaltSize+secretNonceSize]
	ciphertext := raw[secretSaltSize+secretNonceSize:]

	block, err := aes.NewCipher(c.deriveKey(salt))
	if err != nil {
		return "", &DecryptionError{Field: field, Reason: err.Error()}
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", &DecryptionError{Field: field, Reason: err.Error()}
	}
	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", &DecryptionError{Field: field, Reason: "authentication failed"}
	}
	return string(plaintext), nil
}

// secretEncodedSize is deterministic for a given plaintext length: the
// framing overhead is constant, only the ciphertext grows with the input.
func (c Codec) secretEncodedSize(field string, value any) (int, error) {
	plaintext, err := toString(field, value)
	if err != nil {
		return 0, err
	}
	framed := secretSaltSize + secretNonceSize + len(plaintext) + secretTagSize
	return base64.StdEncoding.EncodedLen(framed), nil
}
