package docker

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/containerd/errdefs"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/filters"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/client"

	"devup/log"
	"devup/utils"
)

// Controller wraps the engine client with the handful of operations the
// bootstrapper needs.
type Controller struct {
	cli *client.Client
}

func NewController() (*Controller, error) {
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		msg := log.Error("Unable to create Docker client: %v", err)
		return nil, errors.New(msg)
	}

	return &Controller{cli: cli}, nil
}

func (d *Controller) Close() error {
	return d.cli.Close()
}

// Ping verifies the daemon is reachable before any state is touched.
func (d *Controller) Ping(ctx context.Context) error {
	_, err := d.cli.Ping(ctx)
	if err != nil {
		msg := log.Error("Docker daemon is not reachable: %v", err)
		return errors.New(msg)
	}

	return nil
}

// FindByName looks up a container, running or stopped, whose name matches
// exactly. The engine's name filter matches substrings, so the result list
// is re-checked client-side.
func (d *Controller) FindByName(ctx context.Context, name string) (State, error) {
	args := filters.NewArgs(filters.Arg("name", name))
	list, err := d.cli.ContainerList(ctx, container.ListOptions{All: true, Filters: args})
	if err != nil {
		msg := log.Error("Unable to list containers named %s: %v", name, err)
		return State{}, errors.New(msg)
	}

	for _, summary := range list {
		for _, candidate := range summary.Names {
			if strings.TrimPrefix(candidate, "/") != name {
				continue
			}

			return State{
				ID:      summary.ID,
				Name:    name,
				Image:   summary.Image,
				Exists:  true,
				Running: summary.State == "running",
				Status:  summary.Status,
				Created: summary.Created,
			}, nil
		}
	}

	return State{}, nil
}

// EnsureImage pulls the image, streaming the engine's progress lines to the
// log. Pull errors reported inside the stream are surfaced as well.
func (d *Controller) EnsureImage(ctx context.Context, ref string) error {
	reader, err := d.cli.ImagePull(ctx, ref, image.PullOptions{})
	if err != nil {
		msg := log.Error("Unable to pull image %s: %v", ref, err)
		return errors.New(msg)
	}
	defer reader.Close()

	lines := utils.ReadLinesAsBytes(reader)
	for line := range lines {
		var progress PullProgress
		err := json.Unmarshal(line, &progress)
		if err != nil {
			log.Debug("[DOCKER] %s", string(line))
			continue
		}

		if progress.Error != "" {
			msg := log.Error("Unable to pull image %s: %s", ref, progress.Error)
			return errors.New(msg)
		}

		log.Info("[DOCKER] %s", progress)
	}

	return nil
}

// Create creates the container without starting it and returns its ID.
func (d *Controller) Create(ctx context.Context, c Container) (string, error) {
	portSet, portMap, err := c.PortBindings()
	if err != nil {
		msg := log.Error("Unable to build port bindings for %s: %v", c, err)
		return "", errors.New(msg)
	}

	containerConfig := container.Config{
		Image:        c.Image,
		Cmd:          c.Command,
		Env:          c.Environment,
		ExposedPorts: portSet,
		Tty:          false,
	}

	hostConfig := container.HostConfig{
		Mounts:        c.Mounts,
		PortBindings:  portMap,
		RestartPolicy: c.restartPolicy(),
	}

	resp, err := d.cli.ContainerCreate(ctx, &containerConfig, &hostConfig, nil, nil, c.Name)
	if err != nil {
		msg := log.Error("Unable to create container %s: %v", c, err)
		return "", errors.New(msg)
	}

	for _, warning := range resp.Warnings {
		log.Warn("[DOCKER] %s: %s", c.Name, warning)
	}

	return resp.ID, nil
}

func (d *Controller) Start(ctx context.Context, id string) error {
	err := d.cli.ContainerStart(ctx, id, container.StartOptions{})
	if err != nil {
		msg := log.Error("Unable to start container %s: %v", id, err)
		return errors.New(msg)
	}

	return nil
}

func (d *Controller) Stop(ctx context.Context, id string) error {
	err := d.cli.ContainerStop(ctx, id, container.StopOptions{})
	if err != nil {
		msg := log.Error("Unable to stop container %s: %v", id, err)
		return errors.New(msg)
	}

	return nil
}

func (d *Controller) Remove(ctx context.Context, id string, force bool) error {
	err := d.cli.ContainerRemove(ctx, id, container.RemoveOptions{Force: force})
	if err != nil && !errdefs.IsNotFound(err) {
		msg := log.Error("Unable to remove container %s: %v", id, err)
		return errors.New(msg)
	}

	return nil
}

// Logs returns the last lines of a container's output with the engine's
// stream framing stripped.
func (d *Controller) Logs(ctx context.Context, name string, lines int) (string, error) {
	opts := container.LogsOptions{
		ShowStdout: true,
		ShowStderr: true,
		Tail:       fmt.Sprintf("%d", lines),
	}

	reader, err := d.cli.ContainerLogs(ctx, name, opts)
	if err != nil {
		msg := log.Error("Unable to read logs for container %s: %v", name, err)
		return "", errors.New(msg)
	}
	defer reader.Close()

	data, _ := io.ReadAll(reader)

	// Each chunk carries an 8-byte multiplexing header.
	var clean []byte
	for len(data) >= 8 {
		size := int(data[4])<<24 | int(data[5])<<16 | int(data[6])<<8 | int(data[7])
		data = data[8:]
		if size > len(data) {
			size = len(data)
		}
		clean = append(clean, data[:size]...)
		data = data[size:]
	}

	return string(bytes.TrimSpace(clean)), nil
}
