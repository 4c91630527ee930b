// Package keystore stores API credentials in the OS keychain.
package keystore

import (
	"fmt"
	"runtime"

	"github.com/99designs/keyring"
)

const keychainService = "txscout"

// Names of the secrets txscout manages.
const (
	KeyAPIKey        = "helius-api-key"
	KeyTelegramToken = "telegram-bot-token"
)

// Keystore wraps OS keychain access.
type Keystore struct {
	ring keyring.Keyring
}

// Default returns a keystore backed by the OS keychain.
func Default() *Keystore {
	cfg := keyring.Config{
		ServiceName:              keychainService,
		KeychainTrustApplication: true,
	}

	// On Linux without a GUI, fall back to file-based storage.
	if runtime.GOOS == "linux" {
		cfg.AllowedBackends = []keyring.BackendType{
			keyring.SecretServiceBackend,
			keyring.KWalletBackend,
			keyring.FileBackend,
		}
	}

	ring, err := keyring.Open(cfg)
	if err != nil {
		// Use file backend as ultimate fallback.
		ring, _ = keyring.Open(keyring.Config{
			ServiceName:     keychainService,
			AllowedBackends: []keyring.BackendType{keyring.FileBackend},
		})
	}

	return &Keystore{ring: ring}
}

// Store saves a secret under the given name.
func (k *Keystore) Store(name, value string) error {
	if k.ring == nil {
		return fmt.Errorf("keystore not available")
	}
	err := k.ring.Set(keyring.Item{
		Key:  keychainService + "." + name,
		Data: []byte(value),
	})
	if err != nil {
		return fmt.Errorf("keychain store: %w", err)
	}
	return nil
}

// Retrieve fetches a secret by name. Missing secrets return "" without
// error so callers can fall through to the next credential source.
func (k *Keystore) Retrieve(name string) (string, error) {
	if k.ring == nil {
		return "", fmt.Errorf("keystore not available")
	}
	item, err := k.ring.Get(keychainService + "." + name)
	if err == keyring.ErrKeyNotFound {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("keychain retrieve: %w", err)
	}
	return string(item.Data), nil
}

// Delete removes a stored secret.
func (k *Keystore) Delete(name string) error {
	if k.ring == nil {
		return nil
	}
	err := k.ring.Remove(keychainService + "." + name)
	if err == keyring.ErrKeyNotFound {
		return nil
	}
	return err
}

// InMemory is a keystore for tests.
type InMemory struct {
	data map[string]string
}

// NewInMemory creates an in-memory keystore.
func NewInMemory() *InMemory {
	return &InMemory{data: make(map[string]string)}
}

func (k *InMemory) Store(name, value string) error {
	k.data[name] = value
	return nil
}

func (k *InMemory) Retrieve(name string) (string, error) {
	return k.data[name], nil
}

func (k *InMemory) Delete(name string) error {
	delete(k.data, name)
	return nil
}
