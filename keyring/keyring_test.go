package keyring

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"

	"github.com/yllada/vpn-status/common"
)

func newTestCredentials(t *testing.T) *Credentials {
	t.Helper()
	return &Credentials{
		service: serviceName,
		file:    filepath.Join(t.TempDir(), common.CredentialsFileName),
	}
}

func TestCredentials_SystemKeyring(t *testing.T) {
	keyring.MockInit()
	c := newTestCredentials(t)

	require.NoError(t, c.Store("ipinfo", "token-123"))
	assert.False(t, c.isLocal())
	assert.False(t, common.FileExists(c.file), "system keyring must not touch the file")

	secret, err := c.Get("ipinfo")
	require.NoError(t, err)
	assert.Equal(t, "token-123", secret)
	assert.True(t, c.Exists("ipinfo"))

	direct, err := keyring.Get(serviceName, "ipinfo")
	require.NoError(t, err)
	assert.Equal(t, "token-123", direct)

	require.NoError(t, c.Delete("ipinfo"))
	_, err = c.Get("ipinfo")
	assert.ErrorIs(t, err, common.ErrCredentialsNotFound)
	assert.NoError(t, c.Delete("ipinfo"), "deleting twice is fine")
}

func TestCredentials_Missing(t *testing.T) {
	keyring.MockInit()
	c := newTestCredentials(t)

	_, err := c.Get("mullvad")
	assert.ErrorIs(t, err, common.ErrCredentialsNotFound)
	assert.False(t, c.Exists("mullvad"))
}

func TestCredentials_LocalFallback(t *testing.T) {
	keyring.MockInitWithError(errors.New("no secret service"))
	t.Cleanup(keyring.MockInit)

	c := newTestCredentials(t)
	require.NoError(t, c.Store("ipapi.co", "s3cr3t"))
	assert.True(t, c.isLocal())

	data, err := os.ReadFile(c.file)
	require.NoError(t, err)
	assert.False(t, strings.Contains(string(data), "s3cr3t"), "file must be encrypted")

	info, err := os.Stat(c.file)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	// A fresh instance reads the same file back.
	reopened := &Credentials{service: serviceName, file: c.file}
	secret, err := reopened.Get("ipapi.co")
	require.NoError(t, err)
	assert.Equal(t, "s3cr3t", secret)

	require.NoError(t, reopened.Delete("ipapi.co"))
	_, err = (&Credentials{service: serviceName, file: c.file}).Get("ipapi.co")
	assert.ErrorIs(t, err, common.ErrCredentialsNotFound)
}

func TestCredentials_CorruptFile(t *testing.T) {
	keyring.MockInitWithError(errors.New("no secret service"))
	t.Cleanup(keyring.MockInit)

	c := newTestCredentials(t)
	require.NoError(t, os.WriteFile(c.file, []byte("garbage"), 0600))

	_, err := c.Get("ipinfo")
	assert.ErrorIs(t, err, common.ErrCredentialsNotFound)

	require.NoError(t, c.Store("ipinfo", "fresh"))
	secret, err := c.Get("ipinfo")
	require.NoError(t, err)
	assert.Equal(t, "fresh", secret)
}

func TestCredentials_EmptyArguments(t *testing.T) {
	keyring.MockInit()
	c := newTestCredentials(t)

	assert.Error(t, c.Store("", "x"))
	assert.Error(t, c.Store("ipinfo", ""))
	_, err := c.Get("")
	assert.Error(t, err)
	assert.Error(t, c.Delete(""))
}

func TestEncryptDecrypt(t *testing.T) {
	key := deriveKey()
	sealed, err := encrypt(key, []byte(`{"ipinfo":"abc"}`))
	require.NoError(t, err)

	opened, err := decrypt(key, sealed)
	require.NoError(t, err)
	assert.Equal(t, `{"ipinfo":"abc"}`, string(opened))

	other := make([]byte, len(key))
	_, err = decrypt(other, sealed)
	assert.Error(t, err)

	_, err = decrypt(key, []byte("c2hvcnQ="))
	assert.Error(t, err)
}
