// Package testing provides a mock SSH client for tests that exercise
// remote metrics fetches without real connections.
package testing

import (
	"errors"
	"strings"
	"sync"
)

// MockClient simulates an SSH connection. It understands `cat <path>`
// against a virtual file map and records every executed command so tests
// can assert how often the transport was used.
type MockClient struct {
	mu     sync.Mutex
	host   string
	closed bool

	// Files maps remote paths to contents served by cat.
	Files map[string][]byte

	// Calls records every command passed to Exec, in order.
	Calls []string

	// ExecErr, when set, fails every Exec with this error.
	ExecErr error
}

// NewMockClient creates a mock client for the given host with an empty
// virtual filesystem.
func NewMockClient(host string) *MockClient {
	return &MockClient{
		host:  host,
		Files: make(map[string][]byte),
	}
}

// Exec runs a command against the virtual filesystem.
func (m *MockClient) Exec(cmd string) (stdout, stderr []byte, exitCode int, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil, nil, -1, errors.New("connection closed")
	}
	m.Calls = append(m.Calls, cmd)

	if m.ExecErr != nil {
		return nil, nil, -1, m.ExecErr
	}

	if path, ok := strings.CutPrefix(cmd, "cat "); ok {
		if content, exists := m.Files[path]; exists {
			return content, nil, 0, nil
		}
		return nil, []byte("cat: " + path + ": No such file or directory\n"), 1, nil
	}

	return nil, []byte("command not found: " + cmd + "\n"), 127, nil
}

// Close marks the connection closed; later Execs fail.
func (m *MockClient) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// Host returns the host the mock was created for.
func (m *MockClient) Host() string {
	return m.host
}

// CallCount returns how many commands have been executed.
func (m *MockClient) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}
