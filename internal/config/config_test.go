package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/notely/internal/config"
)

func write(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	c, err := config.Default()
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:3000/api", c.Server)
	assert.Equal(t, "warn", c.Log.Level)
	assert.Equal(t, 10, c.Log.MaxSizeMB)
	assert.Empty(t, c.File)

	d, err := c.RequestTimeout()
	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, d)
}

func TestLoad(t *testing.T) {
	t.Run("Overrides Defaults", func(t *testing.T) {
		path := write(t, `
server: https://notes.example.com/api
state-dir: /var/lib/notely
timeout: 5s
log:
  level: debug
  file: /tmp/notely.log
  compress: true
`)
		c, err := config.Load(path)
		require.NoError(t, err)

		assert.Equal(t, path, c.File)
		assert.Equal(t, "https://notes.example.com/api", c.Server)
		assert.Equal(t, "/var/lib/notely", c.StateDir)
		assert.Equal(t, "debug", c.Log.Level)
		assert.True(t, c.Log.Compress)
		assert.Equal(t, 3, c.Log.MaxBackups, "unset fields keep defaults")
		assert.Equal(t, "notely-cli", c.UserAgent)

		d, err := c.RequestTimeout()
		require.NoError(t, err)
		assert.Equal(t, 5*time.Second, d)
	})

	t.Run("Empty Values Fall Back", func(t *testing.T) {
		c, err := config.Load(write(t, "server: \"\"\nlog:\n  level: \"\"\n"))
		require.NoError(t, err)
		assert.Equal(t, "http://localhost:3000/api", c.Server)
		assert.Equal(t, "warn", c.Log.Level)
	})

	t.Run("Missing File", func(t *testing.T) {
		_, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "read config file failed")
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("Malformed YAML", func(t *testing.T) {
		_, err := config.Load(write(t, "server: [unterminated\n"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "parse config file failed")
	})

	t.Run("Bad Timeout", func(t *testing.T) {
		_, err := config.Load(write(t, "timeout: soon\n"))
		assert.Error(t, err)

		_, err = config.Load(write(t, "timeout: -1s\n"))
		assert.Error(t, err)
	})
}

func TestSave(t *testing.T) {
	c, err := config.Default()
	require.NoError(t, err)
	assert.Error(t, c.Save())

	c.File = filepath.Join(t.TempDir(), "nested", "config.yaml")
	c.Server = "https://other.example/api"
	require.NoError(t, c.Save())

	loaded, err := config.Load(c.File)
	require.NoError(t, err)
	assert.Equal(t, c.Server, loaded.Server)
	assert.Equal(t, c.Timeout, loaded.Timeout)
}

func TestSet(t *testing.T) {
	c, err := config.Default()
	require.NoError(t, err)

	for _, key := range config.Keys {
		value := "x"
		if key == "timeout" {
			value = "5s"
		}
		require.NoError(t, c.Set(key, value), key)
	}
	assert.Equal(t, "x", c.Server)
	assert.Equal(t, "x", c.StateDir)
	assert.Equal(t, "5s", c.Timeout)
	assert.Equal(t, "x", c.UserAgent)
	assert.Equal(t, "x", c.Log.Level)
	assert.Equal(t, "x", c.Log.File)

	t.Run("Rejects Bad Timeout", func(t *testing.T) {
		assert.Error(t, c.Set("timeout", "-1s"))
		assert.Error(t, c.Set("timeout", "soon"))
		assert.Equal(t, "5s", c.Timeout)
	})

	t.Run("Unknown Key", func(t *testing.T) {
		assert.Error(t, c.Set("colour", "red"))
	})

	t.Run("Survives Save", func(t *testing.T) {
		c.File = filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, c.Set("server", "https://set.example/api"))
		require.NoError(t, c.Save())

		loaded, err := config.Load(c.File)
		require.NoError(t, err)
		assert.Equal(t, "https://set.example/api", loaded.Server)
	})
}
