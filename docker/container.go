package docker

import (
	"strconv"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/mount"
	"github.com/docker/go-connections/nat"
)

// Container is the full specification for one named container: everything
// the engine needs to create it. It is supplied by the caller per invocation
// and never persisted as-is; only its fingerprint is recorded.
type Container struct {
	Name        string
	Image       string
	Command     []string
	Environment []string
	Mounts      []mount.Mount
	// Ports maps container port to published host port, tcp only.
	Ports map[int]int
	// RestartPolicy is one of the engine's policy names ("no", "always",
	// "on-failure", "unless-stopped"). Empty means the engine default.
	RestartPolicy string
}

func (c Container) String() string {
	return c.Name + " (" + c.Image + ")"
}

// PortBindings expands the Ports map into the exposed-port set and host
// binding map the engine API expects.
func (c Container) PortBindings() (nat.PortSet, nat.PortMap, error) {
	set := make(nat.PortSet, len(c.Ports))
	bindings := make(nat.PortMap, len(c.Ports))

	for containerPort, hostPort := range c.Ports {
		port, err := nat.NewPort("tcp", strconv.Itoa(containerPort))
		if err != nil {
			return nil, nil, err
		}

		set[port] = struct{}{}
		bindings[port] = []nat.PortBinding{
			{HostIP: "0.0.0.0", HostPort: strconv.Itoa(hostPort)},
		}
	}

	return set, bindings, nil
}

func (c Container) restartPolicy() container.RestartPolicy {
	if c.RestartPolicy == "" {
		return container.RestartPolicy{}
	}

	return container.RestartPolicy{Name: container.RestartPolicyMode(c.RestartPolicy)}
}

// State is the observed state of a named container, or the absence of one.
type State struct {
	ID      string
	Name    string
	Image   string
	Exists  bool
	Running bool
	// Status is the engine's human-readable status, e.g. "Up 2 hours".
	Status  string
	Created int64
}
