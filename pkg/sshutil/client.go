// Package sshutil dials SSH hosts and runs one-shot commands over the
// connection. Connection settings come from ~/.ssh/config when present,
// authentication from the SSH agent or the usual default key files, and
// host keys are verified against ~/.ssh/known_hosts.
package sshutil

import (
	stderrors "errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/kevinburke/ssh_config"
	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/agent"
	"golang.org/x/crypto/ssh/knownhosts"

	"github.com/rileyhilliard/borgspace/internal/errors"
)

// StrictHostKeyChecking controls host key verification. When false, host
// key verification is skipped (insecure; for CI and automation only).
var StrictHostKeyChecking = true

// connection wraps an SSH connection with the host it was dialed as.
type connection struct {
	client *ssh.Client
	host   string
}

// Dial connects to a host. The host can be an SSH config alias, a
// hostname, or user@hostname; user and port fall back to ~/.ssh/config
// and then to the current user on port 22.
func Dial(host string, timeout time.Duration) (Client, error) {
	settings := resolveSettings(host)

	cfg, err := clientConfig(settings, timeout)
	if err != nil {
		return nil, err
	}

	address := net.JoinHostPort(settings.hostname, settings.port)
	conn, err := net.DialTimeout("tcp", address, timeout)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrSSH,
			fmt.Sprintf("Can't reach '%s' at %s", host, address),
			"Make sure the host is up and reachable: ssh "+host)
	}

	sshConn, chans, reqs, err := ssh.NewClientConn(conn, address, cfg)
	if err != nil {
		conn.Close()
		return nil, errors.WrapWithCode(err, errors.ErrSSH,
			fmt.Sprintf("SSH handshake with '%s' failed", host),
			"Check your keys are loaded (ssh-add -l) and try: ssh "+host)
	}

	return &connection{client: ssh.NewClient(sshConn, chans, reqs), host: host}, nil
}

func (c *connection) Close() error {
	if c.client == nil {
		return nil
	}
	return c.client.Close()
}

func (c *connection) Host() string {
	return c.host
}

// settings holds resolved SSH connection parameters.
type settings struct {
	hostname     string
	port         string
	user         string
	identityFile string
}

// resolveSettings parses user@host and overlays values from ~/.ssh/config.
func resolveSettings(host string) *settings {
	s := &settings{port: "22", user: currentUser()}

	if at := strings.Index(host, "@"); at != -1 {
		s.user = host[:at]
		host = host[at+1:]
	}
	s.hostname = host

	if hostname := ssh_config.Get(host, "HostName"); hostname != "" {
		s.hostname = hostname
	}
	if port := ssh_config.Get(host, "Port"); port != "" {
		s.port = port
	}
	if user := ssh_config.Get(host, "User"); user != "" {
		s.user = user
	}
	if identity := ssh_config.Get(host, "IdentityFile"); identity != "" {
		s.identityFile = expandPath(identity)
	}

	return s
}

// clientConfig assembles auth methods and the host key callback.
func clientConfig(s *settings, timeout time.Duration) (*ssh.ClientConfig, error) {
	var methods []ssh.AuthMethod

	if agentAuth := sshAgentAuth(); agentAuth != nil {
		methods = append(methods, agentAuth)
	}

	keyPaths := []string{s.identityFile}
	for _, name := range []string{"id_ed25519", "id_rsa", "id_ecdsa"} {
		keyPaths = append(keyPaths, filepath.Join(homeDir(), ".ssh", name))
	}
	tried := map[string]bool{}
	for _, path := range keyPaths {
		if path == "" || tried[path] {
			continue
		}
		tried[path] = true
		if auth, err := keyFileAuth(path); err == nil {
			methods = append(methods, auth)
		}
	}

	if len(methods) == 0 {
		return nil, errors.New(errors.ErrSSH,
			"No SSH auth methods available",
			"Load a key into your agent (ssh-add) or create ~/.ssh/id_ed25519")
	}

	callback := ssh.InsecureIgnoreHostKey() //nolint:gosec // explicit opt-out below
	if StrictHostKeyChecking {
		var err error
		callback, err = hostKeyCallback()
		if err != nil {
			return nil, errors.WrapWithCode(err, errors.ErrSSH,
				"Failed to load known_hosts",
				"Check permissions on ~/.ssh/known_hosts")
		}
	}

	return &ssh.ClientConfig{
		User:            s.user,
		Auth:            methods,
		HostKeyCallback: callback,
		Timeout:         timeout,
	}, nil
}

// sshAgentAuth returns agent-based auth when the agent is reachable and
// has keys loaded; an empty agent placed first only causes auth failures.
func sshAgentAuth() ssh.AuthMethod {
	socket := os.Getenv("SSH_AUTH_SOCK")
	if socket == "" {
		return nil
	}
	conn, err := net.Dial("unix", socket)
	if err != nil {
		return nil
	}
	client := agent.NewClient(conn)
	signers, err := client.Signers()
	if err != nil || len(signers) == 0 {
		conn.Close()
		return nil
	}
	return ssh.PublicKeysCallback(client.Signers)
}

func keyFileAuth(path string) (ssh.AuthMethod, error) {
	key, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	signer, err := ssh.ParsePrivateKey(key)
	if err != nil {
		return nil, err
	}
	return ssh.PublicKeys(signer), nil
}

func hostKeyCallback() (ssh.HostKeyCallback, error) {
	path := filepath.Join(homeDir(), ".ssh", "known_hosts")
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
			return nil, err
		}
		if err := os.WriteFile(path, nil, 0600); err != nil {
			return nil, err
		}
	}

	callback, err := knownhosts.New(path)
	if err != nil {
		return nil, err
	}

	return func(hostname string, remote net.Addr, key ssh.PublicKey) error {
		err := callback(hostname, remote, key)
		var keyErr *knownhosts.KeyError
		if stderrors.As(err, &keyErr) && len(keyErr.Want) > 0 {
			return fmt.Errorf("host key mismatch for %s: remove the stale entry with ssh-keygen -R %s", hostname, hostname)
		}
		return err
	}, nil
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return os.Getenv("HOME")
	}
	return home
}

func currentUser() string {
	if user := os.Getenv("USER"); user != "" {
		return user
	}
	return "root"
}

func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(homeDir(), path[2:])
	}
	return path
}
