package metrics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rileyhilliard/borgspace/pkg/sshutil"
	sshtesting "github.com/rileyhilliard/borgspace/pkg/sshutil/testing"
)

func TestSSHTransportReadFile(t *testing.T) {
	mock := sshtesting.NewMockClient("files")
	mock.Files["~root/.local/share/emborg/home.latest.nt"] = []byte("repository size: 1 GB\n")

	transport := &SSHTransport{
		DialFunc: func(host string, timeout time.Duration) (sshutil.Client, error) {
			return mock, nil
		},
	}

	data, err := transport.ReadFile("files", "~root/.local/share/emborg/home.latest.nt")
	require.NoError(t, err)
	assert.Equal(t, "repository size: 1 GB\n", string(data))
	assert.Equal(t, []string{"cat ~root/.local/share/emborg/home.latest.nt"}, mock.Calls)
}

func TestSSHTransportMissingFile(t *testing.T) {
	mock := sshtesting.NewMockClient("files")
	transport := &SSHTransport{
		DialFunc: func(host string, timeout time.Duration) (sshutil.Client, error) {
			return mock, nil
		},
	}

	_, err := transport.ReadFile("files", "~root/.local/share/emborg/gone.latest.nt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "No such file")
}

func TestSSHTransportCachesConnections(t *testing.T) {
	dials := 0
	transport := &SSHTransport{
		DialFunc: func(host string, timeout time.Duration) (sshutil.Client, error) {
			dials++
			mock := sshtesting.NewMockClient(host)
			mock.Files["a"] = []byte("x")
			mock.Files["b"] = []byte("y")
			return mock, nil
		},
	}

	_, err := transport.ReadFile("files", "a")
	require.NoError(t, err)
	_, err = transport.ReadFile("files", "b")
	require.NoError(t, err)
	assert.Equal(t, 1, dials, "one host, one dial")

	_, err = transport.ReadFile("other", "a")
	require.NoError(t, err)
	assert.Equal(t, 2, dials)
}

func TestSSHTransportClose(t *testing.T) {
	mock := sshtesting.NewMockClient("files")
	mock.Files["a"] = []byte("x")
	transport := &SSHTransport{
		DialFunc: func(host string, timeout time.Duration) (sshutil.Client, error) {
			return mock, nil
		},
	}

	_, err := transport.ReadFile("files", "a")
	require.NoError(t, err)
	require.NoError(t, transport.Close())

	_, _, _, execErr := mock.Exec("cat a")
	assert.Error(t, execErr)
}
