package bootstrap

import (
	"context"
	"errors"
	"fmt"

	"devup/docker"
	"devup/log"
)

// Runtime is the slice of the container engine the bootstrapper consumes.
// *docker.Controller satisfies it; tests substitute an in-memory fake.
type Runtime interface {
	FindByName(ctx context.Context, name string) (docker.State, error)
	EnsureImage(ctx context.Context, image string) error
	Create(ctx context.Context, c docker.Container) (string, error)
	Start(ctx context.Context, id string) error
	Remove(ctx context.Context, id string, force bool) error
	Logs(ctx context.Context, name string, lines int) (string, error)
}

// Store remembers which specification a container was created from, keyed
// by name. It is optional; without one, drift detection falls back to
// comparing image references.
type Store interface {
	Lookup(ctx context.Context, name string) (Record, bool, error)
	Save(ctx context.Context, record Record) error
	Delete(ctx context.Context, name string) error
}

type Record struct {
	Name        string
	Image       string
	Fingerprint string
}

const logTailLines = 20

type Bootstrapper struct {
	runtime  Runtime
	store    Store
	recreate bool
}

func New(runtime Runtime, store Store, recreate bool) *Bootstrapper {
	return &Bootstrapper{runtime: runtime, store: store, recreate: recreate}
}

// Ensure guarantees that on successful return a container named c.Name is
// running, creating it only when no container of that name exists. An
// existing container is started as-is even when its configuration no longer
// matches c; the mismatch is reported, and replaced only when recreate was
// requested.
//
// The name existence check and the create are not atomic. Concurrent
// invocations for the same name race, and the engine's duplicate-name error
// decides the loser; callers serialize per name.
func (b *Bootstrapper) Ensure(ctx context.Context, c docker.Container) error {
	state, err := b.runtime.FindByName(ctx, c.Name)
	if err != nil {
		return err
	}

	if state.Exists {
		return b.ensureExisting(ctx, c, state)
	}

	return b.createAndStart(ctx, c)
}

func (b *Bootstrapper) ensureExisting(ctx context.Context, c docker.Container, state docker.State) error {
	drifted, detail := b.checkDrift(ctx, c, state)

	if drifted && b.recreate {
		log.Info("Recreating container %s: %s", c.Name, detail)

		if err := b.runtime.Remove(ctx, state.ID, true); err != nil {
			return err
		}

		if b.store != nil {
			if err := b.store.Delete(ctx, c.Name); err != nil {
				log.Warn("Unable to forget stored specification for %s: %v", c.Name, err)
			}
		}

		return b.createAndStart(ctx, c)
	}

	if drifted {
		log.Warn("Container %s exists with a different specification (%s); keeping it as-is. Use --recreate to replace it.",
			c.Name, detail)
	}

	if state.Running {
		log.Info("Container %s is already running.", c)
	} else {
		log.Info("Starting existing container %s ...", c)
		if err := b.runtime.Start(ctx, state.ID); err != nil {
			return err
		}
	}

	return b.verifyRunning(ctx, c)
}

func (b *Bootstrapper) createAndStart(ctx context.Context, c docker.Container) error {
	if err := b.runtime.EnsureImage(ctx, c.Image); err != nil {
		return err
	}

	id, err := b.runtime.Create(ctx, c)
	if err != nil {
		return err
	}

	log.Info("Created container %s.", c)

	if err := b.runtime.Start(ctx, id); err != nil {
		// The container was never observed running, so removing it
		// cannot lose data. Don't leave it half-configured.
		if removeErr := b.runtime.Remove(ctx, id, true); removeErr != nil {
			log.Warn("Unable to clean up container %s after failed start: %v", c.Name, removeErr)
		}
		return err
	}

	if b.store != nil {
		record := Record{Name: c.Name, Image: c.Image, Fingerprint: Fingerprint(c)}
		if err := b.store.Save(ctx, record); err != nil {
			log.Warn("Unable to record specification for %s: %v", c.Name, err)
		}
	}

	return b.verifyRunning(ctx, c)
}

func (b *Bootstrapper) verifyRunning(ctx context.Context, c docker.Container) error {
	state, err := b.runtime.FindByName(ctx, c.Name)
	if err != nil {
		return err
	}

	if !state.Exists || !state.Running {
		logs, logsErr := b.runtime.Logs(ctx, c.Name, logTailLines)
		if logsErr == nil && logs != "" {
			log.Error("Last output from %s:\n%s", c.Name, logs)
		}

		msg := log.Error("Container %s is not running after start; inspect its output with 'docker logs %s'",
			c, c.Name)
		return errors.New(msg)
	}

	log.Info("Container %s is running.", c)
	return nil
}

func (b *Bootstrapper) checkDrift(ctx context.Context, c docker.Container, state docker.State) (bool, string) {
	if b.store != nil {
		record, found, err := b.store.Lookup(ctx, c.Name)
		if err != nil {
			log.Warn("Unable to look up stored specification for %s: %v", c.Name, err)
		} else if found {
			requested := Fingerprint(c)
			if record.Fingerprint == requested {
				return false, ""
			}
			return true, fmt.Sprintf("created from fingerprint %s, requested %s",
				short(record.Fingerprint), short(requested))
		}
	}

	if state.Image != c.Image {
		return true, fmt.Sprintf("running image %s, requested %s", state.Image, c.Image)
	}

	return false, ""
}
