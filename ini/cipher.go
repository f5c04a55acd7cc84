package ini

import (
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/scrypt"
)

// KeySize is the key length expected by NewCipher.
const KeySize = chacha20poly1305.KeySize

// fallbackPassphrase seeds the key used when no per-user key is configured.
// It only keeps secrets out of plain sight in the settings file.
const fallbackPassphrase = "snapkit settings obfuscation"

var fallbackSalt = []byte("snapkit/ini/v1")

// Cipher turns secret values into printable text and back.
type Cipher interface {
	Encrypt(plain string) (string, error)
	Decrypt(encrypted string) (string, error)
}

type aeadCipher struct {
	aead cipher.AEAD
}

// NewCipher returns an XChaCha20-Poly1305 cipher for a KeySize byte key.
func NewCipher(key []byte) (Cipher, error) {
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, fmt.Errorf("create cipher: %w", err)
	}
	return &aeadCipher{aead: aead}, nil
}

// DeriveKey stretches a passphrase into a cipher key with scrypt.
func DeriveKey(passphrase string, salt []byte) ([]byte, error) {
	return scrypt.Key([]byte(passphrase), salt, 1<<14, 8, 1, KeySize)
}

func (c *aeadCipher) Encrypt(plain string) (string, error) {
	nonce := make([]byte, c.aead.NonceSize(), c.aead.NonceSize()+len(plain)+c.aead.Overhead())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("generate nonce: %w", err)
	}

	sealed := c.aead.Seal(nonce, nonce, []byte(plain), nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

func (c *aeadCipher) Decrypt(encrypted string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(encrypted)
	if err != nil {
		return "", fmt.Errorf("decode: %w", err)
	}

	if len(raw) < c.aead.NonceSize()+c.aead.Overhead() {
		return "", errors.New("cipher text too short")
	}

	nonce, sealed := raw[:c.aead.NonceSize()], raw[c.aead.NonceSize():]
	plain, err := c.aead.Open(nil, nonce, sealed, nil)
	if err != nil {
		return "", fmt.Errorf("open: %w", err)
	}
	return string(plain), nil
}

var (
	activeMu sync.RWMutex
	active   Cipher
)

// UseCipher replaces the cipher used by every section.
func UseCipher(c Cipher) {
	activeMu.Lock()
	defer activeMu.Unlock()
	active = c
}

func current() (Cipher, error) {
	activeMu.RLock()
	c := active
	activeMu.RUnlock()
	if c != nil {
		return c, nil
	}

	key, err := DeriveKey(fallbackPassphrase, fallbackSalt)
	if err != nil {
		return nil, fmt.Errorf("derive fallback key: %w", err)
	}

	c, err = NewCipher(key)
	if err != nil {
		return nil, err
	}

	activeMu.Lock()
	defer activeMu.Unlock()
	if active == nil {
		active = c
	}
	return active, nil
}

// Encrypt encrypts plain with the active cipher.
func Encrypt(plain string) (string, error) {
	c, err := current()
	if err != nil {
		return "", err
	}
	return c.Encrypt(plain)
}

// Decrypt decrypts text produced by Encrypt with the active cipher.
func Decrypt(encrypted string) (string, error) {
	c, err := current()
	if err != nil {
		return "", err
	}
	return c.Decrypt(encrypted)
}
