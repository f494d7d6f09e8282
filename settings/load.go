package settings

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Load overlays a YAML settings file on top of the defaults. A missing file
// is not an error; the defaults are returned unchanged.
func Load(path string) (*Config, error) {
	config := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return config, nil
		}
		return nil, errors.Wrapf(err, "unable to read settings file %s", path)
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, errors.Wrapf(err, "unable to parse settings file %s", path)
	}

	// A partially-specified file must not leave nil sections behind.
	defaults := DefaultConfig()
	if config.Redis == nil {
		config.Redis = defaults.Redis
	}
	if config.Postgres == nil {
		config.Postgres = defaults.Postgres
	}
	if config.MySQL == nil {
		config.MySQL = defaults.MySQL
	}
	if config.MariaDB == nil {
		config.MariaDB = defaults.MariaDB
	}
	if config.Nginx == nil {
		config.Nginx = defaults.Nginx
	}
	if config.Proxy == nil {
		config.Proxy = defaults.Proxy
	}

	return config, nil
}
