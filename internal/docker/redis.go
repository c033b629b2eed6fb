package docker

import (
	"context"
	"fmt"
	"io"

	"github.com/docker/docker/api/types"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/filters"
	"github.com/docker/docker/client"
	"github.com/docker/go-connections/nat"
)

// RedisContainer describes the development Redis container of an instance.
type RedisContainer struct {
	ID    string
	Name  string
	Port  int
	State string
}

// URL returns the Redis URL of the published port.
func (r RedisContainer) URL() string {
	return RedisURL(r.Port)
}

// FindRedis returns the Redis container of instanceName, if any.
func FindRedis(ctx context.Context, cli *client.Client, instanceName string) (*RedisContainer, error) {
	containers, err := listRedis(ctx, cli, instanceName)
	if err != nil {
		return nil, err
	}
	if len(containers) == 0 {
		return nil, nil
	}

	c := containers[0]
	port, _ := redisPortLabel(c.Labels)
	name := RedisContainerName(instanceName)
	if len(c.Names) > 0 {
		name = c.Names[0]
	}
	return &RedisContainer{ID: c.ID, Name: name, Port: port, State: c.State}, nil
}

// StartRedis pulls image and starts a Redis container for instanceName on the
// next free host port. Fails if the instance already has one.
func StartRedis(ctx context.Context, cli *client.Client, instanceName, image string) (*RedisContainer, error) {
	existing, err := FindRedis(ctx, cli, instanceName)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("redis container for instance '%s' already exists (%s)", instanceName, existing.Name)
	}

	reader, err := cli.ImagePull(ctx, image, types.ImagePullOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to pull image %s: %w", image, err)
	}
	// The pull only completes once the progress stream is drained.
	_, _ = io.Copy(io.Discard, reader)
	reader.Close()

	port, err := FindNextAvailablePort(ctx, cli)
	if err != nil {
		return nil, err
	}

	name := RedisContainerName(instanceName)
	labels := BuildLabels(instanceName, GenerateRunID(), ComponentRedis)
	labels[LabelRedisPort] = fmt.Sprintf("%d", port)

	resp, err := cli.ContainerCreate(ctx, &container.Config{
		Image:  image,
		Labels: labels,
		ExposedPorts: nat.PortSet{
			"6379/tcp": struct{}{},
		},
	}, &container.HostConfig{
		PortBindings: nat.PortMap{
			"6379/tcp": []nat.PortBinding{
				{
					HostIP:   "127.0.0.1",
					HostPort: fmt.Sprintf("%d", port),
				},
			},
		},
	}, nil, nil, name)
	if err != nil {
		return nil, fmt.Errorf("failed to create Redis container: %w", err)
	}

	if err := cli.ContainerStart(ctx, resp.ID, container.StartOptions{}); err != nil {
		return nil, fmt.Errorf("failed to start Redis container: %w", err)
	}

	return &RedisContainer{ID: resp.ID, Name: name, Port: port, State: "running"}, nil
}

// RemoveRedis stops and removes every Redis container of instanceName.
// Returns the names of the removed containers.
func RemoveRedis(ctx context.Context, cli *client.Client, instanceName string) ([]string, error) {
	containers, err := listRedis(ctx, cli, instanceName)
	if err != nil {
		return nil, err
	}

	timeout := 10
	var removed []string
	for _, c := range containers {
		name := c.ID
		if len(c.Names) > 0 {
			name = c.Names[0]
		}
		// Ignore stop failures; the container might already be stopped
		_ = cli.ContainerStop(ctx, c.ID, container.StopOptions{Timeout: &timeout})

		if err := cli.ContainerRemove(ctx, c.ID, container.RemoveOptions{Force: true, RemoveVolumes: true}); err != nil {
			return removed, fmt.Errorf("failed to remove %s: %w", name, err)
		}
		removed = append(removed, name)
	}
	return removed, nil
}

func listRedis(ctx context.Context, cli *client.Client, instanceName string) ([]types.Container, error) {
	filter := filters.NewArgs()
	filter.Add("label", fmt.Sprintf("%s=%s", LabelInstanceName, instanceName))
	filter.Add("label", fmt.Sprintf("%s=%s", LabelComponent, ComponentRedis))

	containers, err := cli.ContainerList(ctx, container.ListOptions{
		All:     true,
		Filters: filter,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list containers: %w", err)
	}
	return containers, nil
}
