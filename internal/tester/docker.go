package tester

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"

	"chorddht/internal/ring"
)

// DockerBootstrap discovers peer addresses by matching running container
// names against a suffix and reading their IP on a shared Docker network.
// It shells out to the docker CLI rather than a client library, since
// that is all the fleet harness needs and it avoids a daemon-socket
// dependency inside the tester process itself.
type DockerBootstrap struct {
	suffix  string
	port    int
	network string
}

// NewDockerBootstrap builds a Docker-based discovery backend.
func NewDockerBootstrap(suffix string, port int, network string) *DockerBootstrap {
	return &DockerBootstrap{
		suffix:  strings.TrimSpace(suffix),
		port:    port,
		network: strings.TrimSpace(network),
	}
}

// Discover lists running containers whose name contains the configured
// suffix and are attached to the configured network, returning each as
// a "name:port" address (container DNS name, not its IP).
func (d *DockerBootstrap) Discover(ctx context.Context) ([]string, error) {
	cmd := exec.CommandContext(ctx, "docker", "ps", "--format", "{{.Names}}")
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("docker ps: %w", err)
	}

	var addrs []string
	for _, name := range strings.Split(strings.TrimSpace(string(out)), "\n") {
		name = strings.TrimSpace(name)
		if name == "" || !strings.Contains(name, d.suffix) {
			continue
		}

		inspect := exec.CommandContext(ctx, "docker", "inspect", name)
		raw, err := inspect.Output()
		if err != nil {
			continue
		}

		var data []struct {
			NetworkSettings struct {
				Networks map[string]struct {
					IPAddress string `json:"IPAddress"`
				} `json:"Networks"`
			} `json:"NetworkSettings"`
		}
		if err := json.Unmarshal(raw, &data); err != nil || len(data) == 0 {
			continue
		}

		netInfo, ok := data[0].NetworkSettings.Networks[d.network]
		if !ok || netInfo.IPAddress == "" {
			continue
		}

		addrs = append(addrs, fmt.Sprintf("%s:%d", name, d.port))
	}

	return addrs, nil
}

// Register and Deregister are no-ops: the fleet's own containers each
// register themselves through their own bootstrap backend, not this one.
func (d *DockerBootstrap) Register(ctx context.Context, node ring.Node) error   { return nil }
func (d *DockerBootstrap) Deregister(ctx context.Context, node ring.Node) error { return nil }
