// Package mirror rewrites the distribution's package-manager repository
// list to point at a chosen mirror host. All protocol logic stays with
// apt/dnf; this package only detects the platform, templates one of the
// known mirror base URLs into a repository file and writes it.
package mirror

import (
	"os"

	"github.com/pkg/errors"

	"devup/log"
	"devup/utils"
)

// Generator produces the repository list for one package-manager family.
type Generator interface {
	// Path is the file the generated content belongs in.
	Path() string
	Generate(baseURL string) (string, error)
}

// NewGenerator selects the strategy for the detected platform. An
// unsupported OS is an error, not a silent no-op.
func NewGenerator(release OSRelease) (Generator, error) {
	switch release.Family() {
	case FamilyDebian:
		return &debianGenerator{release: release}, nil
	case FamilyRedHat:
		return &redhatGenerator{release: release}, nil
	}

	return nil, errors.Errorf("unsupported OS %q (%s)", release.ID, release.PrettyName)
}

type Options struct {
	// Mirror is one of Names(); empty selects DefaultMirror.
	Mirror string
	// OSReleasePath overrides /etc/os-release.
	OSReleasePath string
	// OutputPath overrides the generator's target file.
	OutputPath string
}

// Setup detects the platform, generates the mirror list and writes it,
// backing up an existing file once (to <path>.bak) before the first
// rewrite.
func Setup(opts Options) error {
	name := opts.Mirror
	if name == "" {
		name = DefaultMirror
	}

	baseURL, err := BaseURL(name)
	if err != nil {
		return err
	}

	release, err := Detect(opts.OSReleasePath)
	if err != nil {
		return err
	}

	log.Info("Detected %s (%s family)", release.PrettyName, release.Family())

	generator, err := NewGenerator(release)
	if err != nil {
		return err
	}

	content, err := generator.Generate(baseURL)
	if err != nil {
		return err
	}

	path := opts.OutputPath
	if path == "" {
		path = generator.Path()
	}

	backup := path + ".bak"
	if utils.FileExists(path) && !utils.FileExists(backup) {
		log.Info("Backing up %s to %s", path, backup)
		if err := utils.CopyFile(path, backup); err != nil {
			return err
		}
	}

	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return errors.Wrapf(err, "unable to write %s", path)
	}

	log.Info("Wrote %s pointing at %s", path, baseURL)
	return nil
}
