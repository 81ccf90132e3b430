package settings

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/darkmailhq/darkmail/internal/credential"
)

func submitted(t *testing.T, m Model) SavedMsg {
	t.Helper()

	msg := m.handleSubmit()()
	saved, ok := msg.(SavedMsg)
	require.True(t, ok, "expected a SavedMsg, got %T", msg)
	return saved
}

func TestHandleSubmitStoresPassphrase(t *testing.T) {
	orig := storePassphrase
	t.Cleanup(func() { storePassphrase = orig })

	var gotKey, gotValue string
	storePassphrase = func(key, value string) error {
		gotKey, gotValue = key, value
		return nil
	}

	m := New(80, 24)
	m.fb.name = "DarkMail User"
	m.fb.email = "user@example.com"
	m.fb.latencyMS = "1500"
	m.fb.reminder = "30"
	m.fb.passphrase = "hunter2"

	saved := submitted(t, m)
	require.NoError(t, saved.PassphraseErr)
	assert.Equal(t, credential.PassphraseKey, gotKey)
	assert.Equal(t, "hunter2", gotValue)
	assert.Equal(t, 1500, saved.Config.Assistant.LatencyMS)
}

func TestHandleSubmitReportsKeyringFailure(t *testing.T) {
	orig := storePassphrase
	t.Cleanup(func() { storePassphrase = orig })

	storePassphrase = func(string, string) error {
		return errors.New("keyring locked")
	}

	m := New(80, 24)
	m.fb.latencyMS = "1500"
	m.fb.reminder = "30"
	m.fb.passphrase = "hunter2"

	saved := submitted(t, m)
	require.Error(t, saved.PassphraseErr)
	assert.Contains(t, saved.PassphraseErr.Error(), "keyring locked")
	require.NotNil(t, saved.Config, "a keyring failure must not discard the config")
}

func TestHandleSubmitSkipsKeyringWhenBlank(t *testing.T) {
	orig := storePassphrase
	t.Cleanup(func() { storePassphrase = orig })

	called := false
	storePassphrase = func(string, string) error {
		called = true
		return nil
	}

	m := New(80, 24)
	m.fb.latencyMS = "0"
	m.fb.reminder = "30"

	saved := submitted(t, m)
	require.NoError(t, saved.PassphraseErr)
	assert.False(t, called, "blank passphrase must leave the keyring untouched")
}
