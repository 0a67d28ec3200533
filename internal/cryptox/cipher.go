// Package cryptox implements the field-level cipher used for secrets at rest.
//
// Values are encrypted with AES-256-GCM under a key derived from the
// operator-supplied passphrase. The 12-byte random nonce is prepended to the
// ciphertext and the whole blob is base64-encoded, so decryption needs nothing
// beyond the blob and the passphrase.
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"sync"

	"tgvault/internal/common"
)

const (
	keySize   = 32
	nonceSize = 12
)

// Cipher encrypts and decrypts field values. It caches the key derived from
// the last-seen passphrase; a different passphrase replaces the cached key,
// so the process does not need a restart after a passphrase change.
type Cipher struct {
	mu         sync.Mutex
	passphrase string
	key        []byte
}

func NewCipher() *Cipher {
	return &Cipher{}
}

// deriveKey pads the passphrase with '0' to the AES-256 key length, or
// truncates it. The passphrase is an operator secret, not a user password,
// so a slow KDF is intentionally not used here.
func deriveKey(passphrase string) []byte {
	key := make([]byte, keySize)
	for i := range key {
		key[i] = '0'
	}
	copy(key, passphrase)
	return key
}

func (c *Cipher) keyFor(passphrase string) []byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.key == nil || c.passphrase != passphrase {
		c.key = deriveKey(passphrase)
		c.passphrase = passphrase
	}
	return c.key
}

func (c *Cipher) aead(passphrase string) (cipher.AEAD, error) {
	block, err := aes.NewCipher(c.keyFor(passphrase))
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

// Encrypt seals the plaintext and returns base64(nonce || ciphertext).
func (c *Cipher) Encrypt(plaintext string, passphrase string) (string, error) {
	aead, err := c.aead(passphrase)
	if err != nil {
		return "", err
	}

	nonce := make([]byte, nonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return "", err
	}

	blob := aead.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(blob), nil
}

// Decrypt reverses Encrypt. A malformed blob or a failed authentication tag
// yields common.ErrDecryption.
func (c *Cipher) Decrypt(blob string, passphrase string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(blob)
	if err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrDecryption, err)
	}
	if len(raw) < nonceSize {
		return "", fmt.Errorf("%w: blob too short", common.ErrDecryption)
	}

	aead, err := c.aead(passphrase)
	if err != nil {
		return "", err
	}

	plaintext, err := aead.Open(nil, raw[:nonceSize], raw[nonceSize:], nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrDecryption, err)
	}
	return string(plaintext), nil
}
