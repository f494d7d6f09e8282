package settings

import (
	"context"
	"os"
	"path/filepath"
)

const (
	configContextKey = contextKey("config")

	DefaultDataPath = "data"

	DefaultRedisPort    = 6379
	DefaultPostgresPort = 5432
	DefaultMySQLPort    = 3306
	DefaultMariaDBPort  = 3307
	DefaultNginxPort    = 8080

	DefaultPostgresPassword = "postgres"
	DefaultMySQLPassword    = "root"
	DefaultMariaDBPassword  = "root"

	// DefaultProxyAdapter is the ipconfig.exe section header fragment that
	// identifies the WSL virtual switch on the Windows side.
	DefaultProxyAdapter   = "vEthernet (WSL"
	DefaultProxyHTTPPort  = 7890
	DefaultProxySocksPort = 7891
)

type contextKey string

// Service holds the per-container knobs that used to be hardcoded shell
// variables: the published host port and, where the image needs one, the
// superuser password.
type Service struct {
	Port     int    `yaml:"port"`
	Password string `yaml:"password,omitempty"`
}

// Proxy configures host-IP discovery and the ports the external proxy
// process listens on.
type Proxy struct {
	Adapter   string `yaml:"adapter"`
	HTTPPort  int    `yaml:"http_port"`
	SocksPort int    `yaml:"socks_port"`
}

type Config struct {
	IsDebug bool `yaml:"debug"`

	// Recreate replaces an existing container whose stored specification
	// no longer matches the requested one. Off by default: a drifted
	// container is reported, not touched.
	Recreate bool `yaml:"-"`

	Redis    *Service `yaml:"redis"`
	Postgres *Service `yaml:"postgres"`
	MySQL    *Service `yaml:"mysql"`
	MariaDB  *Service `yaml:"mariadb"`
	Nginx    *Service `yaml:"nginx"`

	Proxy *Proxy `yaml:"proxy"`

	dataPath string
}

func (config *Config) DataPath() string {
	if filepath.IsAbs(config.dataPath) {
		return config.dataPath
	}

	cwd, err := os.Getwd()
	if err != nil {
		panic(err)
	}

	return filepath.Join(cwd, config.dataPath)
}

func (config *Config) SetDataPath(path string) {
	if path != "" {
		config.dataPath = path
	}
}

func (config *Config) DbConnectionString() string {
	return "file:" + filepath.Join(config.DataPath(), "db.sqlite3")
}

func (config *Config) NewContext(ctx context.Context) context.Context {
	return context.WithValue(ctx, configContextKey, config)
}

func FromContext(ctx context.Context) *Config {
	cfg, ok := ctx.Value(configContextKey).(*Config)
	if ok {
		return cfg
	}

	return DefaultConfig()
}

func DefaultConfig() *Config {
	return &Config{
		IsDebug:  false,
		Redis:    &Service{Port: DefaultRedisPort},
		Postgres: &Service{Port: DefaultPostgresPort, Password: DefaultPostgresPassword},
		MySQL:    &Service{Port: DefaultMySQLPort, Password: DefaultMySQLPassword},
		MariaDB:  &Service{Port: DefaultMariaDBPort, Password: DefaultMariaDBPassword},
		Nginx:    &Service{Port: DefaultNginxPort},
		Proxy: &Proxy{
			Adapter:   DefaultProxyAdapter,
			HTTPPort:  DefaultProxyHTTPPort,
			SocksPort: DefaultProxySocksPort,
		},
		dataPath: DefaultDataPath,
	}
}
