package mirror

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

const aptSourcesPath = "/etc/apt/sources.list"

// debianGenerator writes apt sources for Debian and Ubuntu. The two share
// the sources.list format but differ in archive layout and components.
type debianGenerator struct {
	release OSRelease
}

func (g *debianGenerator) Path() string {
	return aptSourcesPath
}

func (g *debianGenerator) Generate(baseURL string) (string, error) {
	codename := g.release.VersionCodename
	if codename == "" {
		return "", errors.Errorf("cannot generate apt sources for %q: no VERSION_CODENAME in os-release",
			g.release.ID)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# Generated by devup mirror. Original saved with a .bak suffix.\n")

	if g.release.ID == "ubuntu" {
		const components = "main restricted universe multiverse"
		for _, suite := range []string{codename, codename + "-updates", codename + "-backports", codename + "-security"} {
			fmt.Fprintf(&b, "deb %s/ubuntu/ %s %s\n", baseURL, suite, components)
		}
		return b.String(), nil
	}

	const components = "main contrib non-free non-free-firmware"
	for _, suite := range []string{codename, codename + "-updates"} {
		fmt.Fprintf(&b, "deb %s/debian/ %s %s\n", baseURL, suite, components)
	}
	fmt.Fprintf(&b, "deb %s/debian-security/ %s-security %s\n", baseURL, codename, components)

	return b.String(), nil
}
