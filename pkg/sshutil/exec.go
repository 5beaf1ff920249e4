package sshutil

import (
	"bytes"
	stderrors "errors"
	"fmt"

	"golang.org/x/crypto/ssh"

	"github.com/rileyhilliard/borgspace/internal/errors"
)

// Exec runs a command on the remote host and returns the output.
// Exit code is -1 if the command couldn't be executed at all.
func (c *connection) Exec(cmd string) (stdout, stderr []byte, exitCode int, err error) {
	session, err := c.client.NewSession()
	if err != nil {
		return nil, nil, -1, errors.WrapWithCode(err, errors.ErrSSH,
			"Failed to create SSH session",
			"The connection may have been closed; try again")
	}
	defer session.Close()

	var stdoutBuf, stderrBuf bytes.Buffer
	session.Stdout = &stdoutBuf
	session.Stderr = &stderrBuf

	exitCode = 0
	if runErr := session.Run(cmd); runErr != nil {
		var exitErr *ssh.ExitError
		if stderrors.As(runErr, &exitErr) {
			// Command ran, just exited non-zero.
			exitCode = exitErr.ExitStatus()
		} else {
			return nil, nil, -1, errors.WrapWithCode(runErr, errors.ErrSSH,
				fmt.Sprintf("Failed to execute command: %s", cmd),
				"Check the command exists on the remote host")
		}
	}

	return stdoutBuf.Bytes(), stderrBuf.Bytes(), exitCode, nil
}
