package settings

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, DefaultRedisPort, cfg.Redis.Port)
	assert.Equal(t, DefaultMariaDBPort, cfg.MariaDB.Port)
	assert.Equal(t, DefaultPostgresPassword, cfg.Postgres.Password)
	assert.Equal(t, DefaultProxyAdapter, cfg.Proxy.Adapter)
	assert.False(t, cfg.IsDebug)
}

func TestDataPathIsAbsolute(t *testing.T) {
	cfg := DefaultConfig()
	assert.True(t, filepath.IsAbs(cfg.DataPath()))

	cfg.SetDataPath("/var/lib/devup")
	assert.Equal(t, "/var/lib/devup", cfg.DataPath())

	// Empty override keeps the previous path.
	cfg.SetDataPath("")
	assert.Equal(t, "/var/lib/devup", cfg.DataPath())
}

func TestDbConnectionString(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SetDataPath("/tmp/devup")

	assert.Equal(t, "file:/tmp/devup/db.sqlite3", cfg.DbConnectionString())
}

func TestContextRoundTrip(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Redis.Port = 16379

	ctx := cfg.NewContext(context.Background())
	assert.Same(t, cfg, FromContext(ctx))
}

func TestFromContextWithoutConfigReturnsDefaults(t *testing.T) {
	cfg := FromContext(context.Background())
	require.NotNil(t, cfg)
	assert.Equal(t, DefaultRedisPort, cfg.Redis.Port)
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultRedisPort, cfg.Redis.Port)
}

func TestLoadOverlaysPartialFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	content := `
redis:
  port: 16379
postgres:
  password: hunter2
proxy:
  adapter: "vEthernet (Default Switch"
  http_port: 8118
  socks_port: 1080
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 16379, cfg.Redis.Port)
	assert.Equal(t, "hunter2", cfg.Postgres.Password)
	assert.Equal(t, DefaultPostgresPort, cfg.Postgres.Port, "unset key within a present section keeps its default")
	assert.Equal(t, DefaultMySQLPort, cfg.MySQL.Port, "absent section keeps its defaults")
	assert.Equal(t, 8118, cfg.Proxy.HTTPPort)
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	require.NoError(t, os.WriteFile(path, []byte("redis: [not a mapping"), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}
