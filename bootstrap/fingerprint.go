package bootstrap

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/docker/docker/api/types/mount"

	"devup/docker"
)

// normalized mirrors docker.Container with deterministic ordering so
// equivalent specifications always hash identically.
type normalized struct {
	Name          string
	Image         string
	Command       []string
	Environment   []string
	Mounts        []mount.Mount
	Ports         []portPair
	RestartPolicy string
}

type portPair struct {
	Container int
	Host      int
}

// Fingerprint returns a stable hash of the specification. Environment and
// port ordering do not affect the result; image, command, mounts, ports and
// restart policy all do.
func Fingerprint(c docker.Container) string {
	environment := append([]string(nil), c.Environment...)
	sort.Strings(environment)

	mounts := append([]mount.Mount(nil), c.Mounts...)
	sort.Slice(mounts, func(i, j int) bool { return mounts[i].Target < mounts[j].Target })

	ports := make([]portPair, 0, len(c.Ports))
	for containerPort, hostPort := range c.Ports {
		ports = append(ports, portPair{Container: containerPort, Host: hostPort})
	}
	sort.Slice(ports, func(i, j int) bool { return ports[i].Container < ports[j].Container })

	n := normalized{
		Name:          c.Name,
		Image:         c.Image,
		Command:       c.Command,
		Environment:   environment,
		Mounts:        mounts,
		Ports:         ports,
		RestartPolicy: c.RestartPolicy,
	}

	data, err := json.Marshal(n)
	if err != nil {
		// Only plain data types above; marshalling cannot fail.
		panic(err)
	}

	return fmt.Sprintf("%x", sha256.Sum256(data))
}

func short(fingerprint string) string {
	if len(fingerprint) > 12 {
		return fingerprint[:12]
	}

	return fingerprint
}
