package sshutil

// Client is the minimal SSH surface borgspace needs: run one command on
// a remote host and close the connection. Both the real connection and
// the test mock satisfy this interface.
type Client interface {
	// Exec runs a command and returns stdout, stderr, and exit code.
	// Exit code is -1 when the command couldn't be executed at all;
	// a non-zero exit code with nil error means the command ran but failed.
	Exec(cmd string) (stdout, stderr []byte, exitCode int, err error)

	// Close closes the SSH connection.
	Close() error

	// Host returns the original host/alias used to connect.
	Host() string
}
