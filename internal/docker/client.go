// Package docker manages the local development Redis container used by
// `dogroom redis up` and `dogroom redis down`.
package docker

import (
	"context"
	"fmt"

	"github.com/docker/docker/client"
)

// NewClient connects to the Docker daemon for the `dogroom redis` commands.
// Only those commands need Docker; the SQLite driver runs without it, and the
// error says so.
func NewClient(ctx context.Context) (*client.Client, error) {
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, fmt.Errorf("failed to create Docker client: %w", err)
	}

	if _, err := cli.Ping(ctx); err != nil {
		cli.Close()
		return nil, daemonUnavailable(err)
	}

	return cli, nil
}

// daemonUnavailable explains how to start Docker or avoid it.
func daemonUnavailable(err error) error {
	return fmt.Errorf(`Docker daemon not accessible: %w

The local Redis container needs Docker. Either start it:
  • macOS: Docker Desktop
  • Linux: sudo systemctl start docker

or run DogRoom without Redis:
  dogroom --driver sqlite hosts list`, err)
}
