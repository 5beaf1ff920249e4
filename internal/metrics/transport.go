package metrics

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rileyhilliard/borgspace/internal/errors"
	"github.com/rileyhilliard/borgspace/pkg/sshutil"
)

// DefaultSSHTimeout bounds how long a dial may take per host.
const DefaultSSHTimeout = 10 * time.Second

// SSHTransport reads remote files by running cat over SSH. Connections
// are cached per host so a batch of repos on one machine dials once.
type SSHTransport struct {
	// Timeout applies to each dial. Zero means DefaultSSHTimeout.
	Timeout time.Duration

	// DialFunc opens a connection to a host. Defaults to sshutil.Dial;
	// tests inject their own.
	DialFunc func(host string, timeout time.Duration) (sshutil.Client, error)

	mu      sync.Mutex
	clients map[string]sshutil.Client
}

// NewSSHTransport creates a transport with the default dialer and timeout.
func NewSSHTransport() *SSHTransport {
	return &SSHTransport{}
}

// ReadFile returns the contents of path on host.
func (t *SSHTransport) ReadFile(host, path string) ([]byte, error) {
	client, err := t.clientFor(host)
	if err != nil {
		return nil, err
	}

	// The path stays unquoted so the remote shell expands ~user; every
	// segment was validated as identifier characters upstream.
	stdout, stderr, exitCode, err := client.Exec("cat " + path)
	if err != nil {
		return nil, err
	}
	if exitCode != 0 {
		detail := strings.TrimSpace(string(stderr))
		if detail == "" {
			detail = fmt.Sprintf("cat exited with status %d", exitCode)
		}
		return nil, errors.New(errors.ErrSSH,
			fmt.Sprintf("Can't read %s on %s", path, host),
			detail)
	}
	return stdout, nil
}

// Close closes all cached connections and returns the first error.
func (t *SSHTransport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	var firstErr error
	for host, client := range t.clients {
		if err := client.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		delete(t.clients, host)
	}
	return firstErr
}

func (t *SSHTransport) clientFor(host string) (sshutil.Client, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if client, ok := t.clients[host]; ok {
		return client, nil
	}

	dial := t.DialFunc
	if dial == nil {
		dial = sshutil.Dial
	}
	timeout := t.Timeout
	if timeout == 0 {
		timeout = DefaultSSHTimeout
	}

	client, err := dial(host, timeout)
	if err != nil {
		return nil, err
	}
	if t.clients == nil {
		t.clients = make(map[string]sshutil.Client)
	}
	t.clients[host] = client
	return client, nil
}
