package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/docker/docker/api/types/mount"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"devup/docker"
)

type fakeContainer struct {
	spec    docker.Container
	running bool
}

// fakeRuntime is an in-memory Runtime. Failure modes are opt-in per test:
// images that cannot be pulled, host ports already bound by another
// process, and containers that exit immediately after starting.
type fakeRuntime struct {
	mu         sync.Mutex
	containers map[string]*fakeContainer
	calls      []string

	unpullable map[string]bool
	boundPorts map[int]bool
	crashing   map[string]bool
	logs       map[string]string
}

func newFakeRuntime() *fakeRuntime {
	return &fakeRuntime{
		containers: make(map[string]*fakeContainer),
		unpullable: make(map[string]bool),
		boundPorts: make(map[int]bool),
		crashing:   make(map[string]bool),
		logs:       make(map[string]string),
	}
}

func (r *fakeRuntime) record(call string, arg string) {
	r.calls = append(r.calls, call+" "+arg)
}

func (r *fakeRuntime) callsTo(call string) int {
	count := 0
	for _, c := range r.calls {
		if strings.HasPrefix(c, call+" ") {
			count++
		}
	}
	return count
}

func (r *fakeRuntime) byID(id string) (string, *fakeContainer) {
	for name, c := range r.containers {
		if "id-"+name == id {
			return name, c
		}
	}
	return "", nil
}

func (r *fakeRuntime) FindByName(ctx context.Context, name string) (docker.State, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record("FindByName", name)

	c, ok := r.containers[name]
	if !ok {
		return docker.State{}, nil
	}

	return docker.State{
		ID:      "id-" + name,
		Name:    name,
		Image:   c.spec.Image,
		Exists:  true,
		Running: c.running,
	}, nil
}

func (r *fakeRuntime) EnsureImage(ctx context.Context, image string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record("EnsureImage", image)

	if r.unpullable[image] {
		return fmt.Errorf("pull access denied for %s: manifest unknown", image)
	}
	return nil
}

func (r *fakeRuntime) Create(ctx context.Context, c docker.Container) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record("Create", c.Name)

	if _, ok := r.containers[c.Name]; ok {
		return "", fmt.Errorf("container name %q is already in use", c.Name)
	}

	r.containers[c.Name] = &fakeContainer{spec: c}
	return "id-" + c.Name, nil
}

func (r *fakeRuntime) Start(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record("Start", id)

	name, c := r.byID(id)
	if c == nil {
		return fmt.Errorf("no such container %s", id)
	}

	for _, hostPort := range c.spec.Ports {
		if r.boundPorts[hostPort] {
			return fmt.Errorf("bind for 0.0.0.0:%d failed: port is already allocated", hostPort)
		}
	}

	// A crash-looping container starts and exits before the post-check.
	c.running = !r.crashing[name]
	return nil
}

func (r *fakeRuntime) Remove(ctx context.Context, id string, force bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record("Remove", id)

	name, c := r.byID(id)
	if c == nil {
		return nil
	}

	delete(r.containers, name)
	return nil
}

func (r *fakeRuntime) Logs(ctx context.Context, name string, lines int) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record("Logs", name)
	return r.logs[name], nil
}

type memStore struct {
	records map[string]Record
}

func newMemStore() *memStore {
	return &memStore{records: make(map[string]Record)}
}

func (s *memStore) Lookup(ctx context.Context, name string) (Record, bool, error) {
	record, ok := s.records[name]
	return record, ok, nil
}

func (s *memStore) Save(ctx context.Context, record Record) error {
	s.records[record.Name] = record
	return nil
}

func (s *memStore) Delete(ctx context.Context, name string) error {
	delete(s.records, name)
	return nil
}

func redisSpec() docker.Container {
	return docker.Container{
		Name:  "my-redis",
		Image: "redis:7.2.5",
		Mounts: []mount.Mount{
			{Type: mount.TypeVolume, Source: "redis_data", Target: "/data"},
		},
		Ports:         map[int]int{6379: 6379},
		RestartPolicy: "unless-stopped",
	}
}

func TestEnsureCreatesAndStarts(t *testing.T) {
	rt := newFakeRuntime()
	b := New(rt, nil, false)

	require.NoError(t, b.Ensure(context.Background(), redisSpec()))

	state, err := rt.FindByName(context.Background(), "my-redis")
	require.NoError(t, err)
	assert.True(t, state.Exists)
	assert.True(t, state.Running)
}

func TestEnsureTwiceCreatesOnce(t *testing.T) {
	rt := newFakeRuntime()
	b := New(rt, nil, false)

	require.NoError(t, b.Ensure(context.Background(), redisSpec()))
	require.NoError(t, b.Ensure(context.Background(), redisSpec()))

	assert.Equal(t, 1, rt.callsTo("Create"))
	assert.Len(t, rt.containers, 1)
	assert.True(t, rt.containers["my-redis"].running)
}

func TestEnsureRunningContainerIssuesNoCreateOrStart(t *testing.T) {
	rt := newFakeRuntime()
	rt.containers["my-redis"] = &fakeContainer{spec: redisSpec(), running: true}
	b := New(rt, nil, false)

	require.NoError(t, b.Ensure(context.Background(), redisSpec()))

	assert.Zero(t, rt.callsTo("Create"))
	assert.Zero(t, rt.callsTo("Start"))
}

func TestEnsureStartsStoppedContainer(t *testing.T) {
	rt := newFakeRuntime()
	rt.containers["my-redis"] = &fakeContainer{spec: redisSpec(), running: false}
	b := New(rt, nil, false)

	require.NoError(t, b.Ensure(context.Background(), redisSpec()))

	assert.Zero(t, rt.callsTo("Create"))
	assert.Equal(t, 1, rt.callsTo("Start"))
	assert.True(t, rt.containers["my-redis"].running)
}

func TestEnsureUnknownImageCreatesNothing(t *testing.T) {
	rt := newFakeRuntime()
	rt.unpullable["redis:7.2.5"] = true
	b := New(rt, nil, false)

	err := b.Ensure(context.Background(), redisSpec())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "manifest unknown")
	assert.Zero(t, rt.callsTo("Create"))
	assert.Empty(t, rt.containers)
}

func TestEnsureBoundPortLeavesNoContainerBehind(t *testing.T) {
	rt := newFakeRuntime()
	rt.boundPorts[6379] = true
	b := New(rt, nil, false)

	err := b.Ensure(context.Background(), redisSpec())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "port is already allocated")
	assert.Empty(t, rt.containers, "failed start must not leave a half-configured container")
}

func TestEnsureCrashLoopingContainerFails(t *testing.T) {
	rt := newFakeRuntime()
	rt.crashing["my-redis"] = true
	rt.logs["my-redis"] = "Fatal error: cannot open append only file"
	b := New(rt, nil, false)

	err := b.Ensure(context.Background(), redisSpec())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "docker logs my-redis")
	assert.Equal(t, 1, rt.callsTo("Logs"))
}

func TestEnsureFindErrorPropagates(t *testing.T) {
	rt := newFakeRuntime()
	b := New(erroringRuntime{rt}, nil, false)

	err := b.Ensure(context.Background(), redisSpec())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "daemon unreachable")
}

type erroringRuntime struct {
	*fakeRuntime
}

func (erroringRuntime) FindByName(ctx context.Context, name string) (docker.State, error) {
	return docker.State{}, errors.New("daemon unreachable")
}

func TestEnsureDriftWarnsAndKeepsContainer(t *testing.T) {
	rt := newFakeRuntime()
	store := newMemStore()
	b := New(rt, store, false)

	old := redisSpec()
	require.NoError(t, b.Ensure(context.Background(), old))

	updated := old
	updated.Image = "redis:7.4.0"
	require.NoError(t, b.Ensure(context.Background(), updated))

	assert.Zero(t, rt.callsTo("Remove"))
	assert.Equal(t, 1, rt.callsTo("Create"))
	assert.Equal(t, "redis:7.2.5", rt.containers["my-redis"].spec.Image,
		"a drifted specification must not be applied silently")
}

func TestEnsureDriftRecreatesWhenRequested(t *testing.T) {
	rt := newFakeRuntime()
	store := newMemStore()

	require.NoError(t, New(rt, store, false).Ensure(context.Background(), redisSpec()))

	updated := redisSpec()
	updated.Image = "redis:7.4.0"
	require.NoError(t, New(rt, store, true).Ensure(context.Background(), updated))

	assert.Equal(t, 1, rt.callsTo("Remove"))
	assert.Equal(t, 2, rt.callsTo("Create"))
	assert.Equal(t, "redis:7.4.0", rt.containers["my-redis"].spec.Image)
	assert.True(t, rt.containers["my-redis"].running)

	record, found, err := store.Lookup(context.Background(), "my-redis")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "redis:7.4.0", record.Image)
}

func TestEnsureUnchangedSpecWithStoreIsQuiet(t *testing.T) {
	rt := newFakeRuntime()
	store := newMemStore()
	b := New(rt, store, true)

	require.NoError(t, b.Ensure(context.Background(), redisSpec()))
	require.NoError(t, b.Ensure(context.Background(), redisSpec()))

	// recreate is armed, but an identical specification must not trigger it.
	assert.Zero(t, rt.callsTo("Remove"))
	assert.Equal(t, 1, rt.callsTo("Create"))
}

func TestEnsureImageDriftDetectedWithoutStore(t *testing.T) {
	rt := newFakeRuntime()
	rt.containers["my-redis"] = &fakeContainer{spec: redisSpec(), running: true}

	updated := redisSpec()
	updated.Image = "redis:7.4.0"
	require.NoError(t, New(rt, nil, true).Ensure(context.Background(), updated))

	assert.Equal(t, 1, rt.callsTo("Remove"))
	assert.Equal(t, "redis:7.4.0", rt.containers["my-redis"].spec.Image)
}
