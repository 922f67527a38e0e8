// File: internal/docker/docker.go
// Brief: Docker daemon availability and backing-service checks.

// Package docker wraps the thin daemon interactions ddc needs: checking that
// the daemon is reachable, that required backing services are running, and
// the MySQL maintenance helpers used by the reset flows.
package docker

import (
	"context"
	"fmt"
	"strings"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/filters"
	"github.com/docker/docker/client"
)

// UnavailableError reports an unreachable Docker daemon.
type UnavailableError struct {
	Err error
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("could not connect to docker: %v", e.Err)
}

func (e *UnavailableError) Unwrap() error { return e.Err }

func newClient() (*client.Client, error) {
	return client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
}

// Check verifies the daemon answers. Failure is fatal for every compose
// command, so it returns a typed error the CLI maps to a user-facing hint.
func Check(ctx context.Context) error {
	cli, err := newClient()
	if err != nil {
		return &UnavailableError{Err: err}
	}
	defer cli.Close()
	if _, err := cli.Ping(ctx); err != nil {
		return &UnavailableError{Err: err}
	}
	return nil
}

// ServicesRunning reports whether a running container matches each of the
// given service names (matched as a substring of the container name, which
// covers both compose-generated and the ddc_<service> fixed names).
func ServicesRunning(ctx context.Context, names ...string) (bool, error) {
	cli, err := newClient()
	if err != nil {
		return false, &UnavailableError{Err: err}
	}
	defer cli.Close()

	containers, err := cli.ContainerList(ctx, container.ListOptions{})
	if err != nil {
		return false, fmt.Errorf("list containers: %w", err)
	}
	for _, name := range names {
		if !containerMatches(containers, name) {
			return false, nil
		}
	}
	return true, nil
}

func containerMatches(containers []container.Summary, name string) bool {
	for _, c := range containers {
		for _, cn := range c.Names {
			if strings.Contains(strings.TrimPrefix(cn, "/"), name) {
				return true
			}
		}
	}
	return false
}

// findContainer returns the id of the first running container whose name
// contains name.
func findContainer(ctx context.Context, name string) (string, error) {
	cli, err := newClient()
	if err != nil {
		return "", &UnavailableError{Err: err}
	}
	defer cli.Close()

	f := filters.NewArgs()
	f.Add("name", name)
	containers, err := cli.ContainerList(ctx, container.ListOptions{Filters: f})
	if err != nil {
		return "", fmt.Errorf("list containers: %w", err)
	}
	if len(containers) == 0 {
		return "", fmt.Errorf("no running container matching %q", name)
	}
	return containers[0].ID, nil
}
