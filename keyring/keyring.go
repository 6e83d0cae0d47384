// Package keyring provides secure storage for lookup provider API keys.
// It uses the system keyring when available, falling back to
// encrypted local file storage when not.
package keyring

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/zalando/go-keyring"
	"golang.org/x/crypto/chacha20poly1305"

	"github.com/yllada/vpn-status/common"
)

const (
	// serviceName is the identifier used in the system keyring.
	serviceName = common.AppName
	// probeKey is written once to check that the system keyring works.
	probeKey = common.AppName + "-probe"
)

// Credentials stores secrets in the system keyring or in an encrypted file.
// The backend is chosen on first use.
type Credentials struct {
	service string
	file    string

	once     sync.Once
	mu       sync.RWMutex
	useLocal bool
	local    map[string]string
	key      []byte
}

var _ common.CredentialStore = (*Credentials)(nil)

// New returns credentials stored under the application service name, with
// the fallback file in the configuration directory.
func New() *Credentials {
	file := ""
	if dir, err := common.ConfigDirPath(); err == nil {
		file = filepath.Join(dir, common.CredentialsFileName)
	}
	return &Credentials{service: serviceName, file: file}
}

func (c *Credentials) init() {
	c.once.Do(func() {
		err := keyring.Set(c.service, probeKey, "probe")
		if err == nil {
			_ = keyring.Delete(c.service, probeKey)
			return
		}
		common.LogDebug("System keyring unavailable, using local storage: %v", err)
		c.initLocal()
	})
}

// initLocal switches to the encrypted file. Callers hold no lock.
func (c *Credentials) initLocal() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.useLocal {
		return
	}
	c.useLocal = true
	c.key = deriveKey()
	c.local = make(map[string]string)
	c.loadLocal()
}

// deriveKey builds the file encryption key from machine-specific data.
func deriveKey() []byte {
	hostname, _ := os.Hostname()
	keyData := fmt.Sprintf("%s-%s-%s-%d", common.AppName, hostname, machineID(), os.Getuid())
	hash := sha256.Sum256([]byte(keyData))
	return hash[:]
}

func machineID() string {
	// Try to read machine-id
	data, err := os.ReadFile("/etc/machine-id")
	if err == nil {
		return strings.TrimSpace(string(data))
	}
	// Fallback
	return "default-machine-id"
}

func (c *Credentials) loadLocal() {
	if c.file == "" {
		return
	}
	data, err := os.ReadFile(c.file)
	if err != nil {
		return
	}

	decrypted, err := decrypt(c.key, data)
	if err != nil {
		common.LogWarn("Ignoring unreadable credentials file: %v", err)
		return
	}

	if err := json.Unmarshal(decrypted, &c.local); err != nil {
		common.LogWarn("Ignoring malformed credentials file: %v", err)
	}
}

// saveLocal writes the store. Callers hold the write lock.
func (c *Credentials) saveLocal() error {
	if c.file == "" {
		return fmt.Errorf("%w: no credentials file", common.ErrCredentialStorage)
	}
	data, err := json.Marshal(c.local)
	if err != nil {
		return err
	}

	encrypted, err := encrypt(c.key, data)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(c.file), 0700); err != nil {
		return err
	}
	return os.WriteFile(c.file, encrypted, 0600)
}

func encrypt(key, plaintext []byte) ([]byte, error) {
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}

	ciphertext := aead.Seal(nonce, nonce, plaintext, nil)
	return []byte(base64.StdEncoding.EncodeToString(ciphertext)), nil
}

func decrypt(key, data []byte) ([]byte, error) {
	ciphertext, err := base64.StdEncoding.DecodeString(string(data))
	if err != nil {
		return nil, err
	}

	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, err
	}

	if len(ciphertext) < aead.NonceSize() {
		return nil, errors.New("ciphertext too short")
	}

	nonce, ciphertext := ciphertext[:aead.NonceSize()], ciphertext[aead.NonceSize():]
	return aead.Open(nil, nonce, ciphertext, nil)
}

// Store saves the secret for a key, usually a provider name.
func (c *Credentials) Store(key, secret string) error {
	if key == "" {
		return errors.New("key cannot be empty")
	}
	if secret == "" {
		return errors.New("secret cannot be empty")
	}
	c.init()

	if !c.isLocal() {
		err := keyring.Set(c.service, key, secret)
		if err == nil {
			return nil
		}
		// Fallback to local storage
		common.LogWarn("System keyring rejected %s, using local storage: %v", key, err)
		c.initLocal()
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.local[key] = secret
	if err := c.saveLocal(); err != nil {
		return fmt.Errorf("%w: %v", common.ErrCredentialStorage, err)
	}
	return nil
}

// Get retrieves the secret for a key.
func (c *Credentials) Get(key string) (string, error) {
	if key == "" {
		return "", errors.New("key cannot be empty")
	}
	c.init()

	if !c.isLocal() {
		secret, err := keyring.Get(c.service, key)
		if err == nil {
			return secret, nil
		}
		if !errors.Is(err, keyring.ErrNotFound) {
			common.LogDebug("System keyring lookup for %s failed: %v", key, err)
		}
		return "", common.ErrCredentialsNotFound
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	secret, exists := c.local[key]
	if !exists {
		return "", common.ErrCredentialsNotFound
	}
	return secret, nil
}

// Delete removes the secret for a key. Deleting a missing key is not an error.
func (c *Credentials) Delete(key string) error {
	if key == "" {
		return errors.New("key cannot be empty")
	}
	c.init()

	if !c.isLocal() {
		err := keyring.Delete(c.service, key)
		if err != nil && !errors.Is(err, keyring.ErrNotFound) {
			return fmt.Errorf("%w: %v", common.ErrCredentialStorage, err)
		}
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.local[key]; !ok {
		return nil
	}
	delete(c.local, key)
	if err := c.saveLocal(); err != nil {
		return fmt.Errorf("%w: %v", common.ErrCredentialStorage, err)
	}
	return nil
}

// Exists checks if a secret is stored for a key.
func (c *Credentials) Exists(key string) bool {
	_, err := c.Get(key)
	return err == nil
}

func (c *Credentials) isLocal() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.useLocal
}
