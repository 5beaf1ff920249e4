package sshutil

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveSettingsUserAtHost(t *testing.T) {
	s := resolveSettings("alice@example.internal")
	assert.Equal(t, "alice", s.user)
	assert.Equal(t, "example.internal", s.hostname)
	assert.Equal(t, "22", s.port)
}

func TestResolveSettingsBareHost(t *testing.T) {
	s := resolveSettings("example.internal")
	assert.Equal(t, "example.internal", s.hostname)
	assert.NotEmpty(t, s.user, "falls back to the current user")
}

func TestExpandPath(t *testing.T) {
	home := homeDir()
	assert.Equal(t, filepath.Join(home, ".ssh", "id_ed25519"), expandPath("~/.ssh/id_ed25519"))
	assert.Equal(t, "/etc/ssh/key", expandPath("/etc/ssh/key"))
}
