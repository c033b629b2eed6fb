package docker

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDaemonUnavailable(t *testing.T) {
	cause := errors.New("dial unix /var/run/docker.sock: connect: no such file or directory")
	err := daemonUnavailable(cause)

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "Docker daemon not accessible")
	assert.Contains(t, err.Error(), "--driver sqlite", "should point at the Docker-free driver")
}
