package mirror

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

const yumRepoPath = "/etc/yum.repos.d/devup-mirror.repo"

// redhatGenerator writes a dnf/yum repo file for Enterprise Linux
// derivatives. $basearch is left for the package manager to expand.
type redhatGenerator struct {
	release OSRelease
}

func (g *redhatGenerator) Path() string {
	return yumRepoPath
}

func (g *redhatGenerator) Generate(baseURL string) (string, error) {
	version := majorVersion(g.release.VersionID)
	if version == "" {
		return "", errors.Errorf("cannot generate yum repo for %q: no VERSION_ID in os-release",
			g.release.ID)
	}

	distro := g.release.ID
	if distro == "rhel" {
		// RHEL itself has no public mirrors; Rocky's layout is the
		// conventional stand-in.
		distro = "rocky"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# Generated by devup mirror. Original repo files are untouched; disable them manually.\n")

	for _, repo := range []string{"BaseOS", "AppStream", "extras"} {
		fmt.Fprintf(&b, "\n[devup-%s]\n", strings.ToLower(repo))
		fmt.Fprintf(&b, "name=%s - %s (devup mirror)\n", g.release.PrettyName, repo)
		fmt.Fprintf(&b, "baseurl=%s/%s/%s/%s/$basearch/os/\n", baseURL, distro, version, repo)
		fmt.Fprintf(&b, "enabled=1\n")
		fmt.Fprintf(&b, "gpgcheck=0\n")
	}

	return b.String(), nil
}

func majorVersion(versionID string) string {
	major, _, _ := strings.Cut(versionID, ".")
	return major
}
