package mirror

import (
	"os"
	"strings"

	"github.com/pkg/errors"
)

const osReleasePath = "/etc/os-release"

// Family is the package-manager family a distribution belongs to. Each
// family generates its repository list independently.
type Family int

const (
	FamilyUnknown Family = iota
	FamilyDebian
	FamilyRedHat
)

func (f Family) String() string {
	switch f {
	case FamilyDebian:
		return "debian"
	case FamilyRedHat:
		return "redhat"
	}
	return "unknown"
}

// OSRelease holds the fields of /etc/os-release this tool branches on.
type OSRelease struct {
	ID              string
	IDLike          string
	VersionID       string
	VersionCodename string
	PrettyName      string
}

// Family maps the distribution onto a package-manager family using ID with
// ID_LIKE as fallback.
func (r OSRelease) Family() Family {
	ids := append([]string{r.ID}, strings.Fields(r.IDLike)...)
	for _, id := range ids {
		switch id {
		case "debian", "ubuntu":
			return FamilyDebian
		case "rhel", "centos", "fedora", "rocky", "almalinux":
			return FamilyRedHat
		}
	}

	return FamilyUnknown
}

// ParseOSRelease parses os-release KEY=VALUE content. Values may be quoted;
// unknown keys are ignored.
func ParseOSRelease(content string) OSRelease {
	var release OSRelease

	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, found := strings.Cut(line, "=")
		if !found {
			continue
		}
		value = strings.Trim(value, `"'`)

		switch key {
		case "ID":
			release.ID = value
		case "ID_LIKE":
			release.IDLike = value
		case "VERSION_ID":
			release.VersionID = value
		case "VERSION_CODENAME":
			release.VersionCodename = value
		case "PRETTY_NAME":
			release.PrettyName = value
		}
	}

	return release
}

// Detect reads the os-release file at path, or /etc/os-release when path is
// empty.
func Detect(path string) (OSRelease, error) {
	if path == "" {
		path = osReleasePath
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return OSRelease{}, errors.Wrapf(err, "unable to identify OS: cannot read %s", path)
	}

	return ParseOSRelease(string(data)), nil
}
