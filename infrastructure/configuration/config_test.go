package configuration

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfiguration(t *testing.T) {
	t.Run("defaults_are_applied", func(t *testing.T) {
		require.NotZero(t, C.App.Port)
		require.NotEmpty(t, C.Database.Mongo.Name)
		require.NotZero(t, C.Database.Mongo.TimeoutSeconds)
		require.NotEmpty(t, C.Storage.Bucket)
		require.NotEmpty(t, C.Upload.Dir)
		require.NotZero(t, C.Cache.StatsTTLSeconds)
	})

	t.Run("env_overrides_port", func(t *testing.T) {
		t.Setenv("APP_PORT", "9123")
		cfg := Config{}
		initApp(&cfg)
		assert.Equal(t, 9123, cfg.App.Port)
		assert.Equal(t, 86400, cfg.App.AccessTokenTTL)
	})

	t.Run("storage_public_url_follows_ssl", func(t *testing.T) {
		cfg := Config{Storage: Storage{Endpoint: "cdn.example.com", UseSSL: true, Bucket: "media"}}
		initStorage(&cfg)
		assert.Equal(t, "https://cdn.example.com/media", cfg.Storage.PublicBaseURL)
	})
}

func TestDb_MongoURI(t *testing.T) {
	assert.Equal(t, "mongodb://db:27017", Db{Host: "db", Port: "27017"}.MongoURI())
	assert.Equal(t, "mongodb://u:p@db:1", Db{Host: "db", Port: "1", User: "u", Password: "p"}.MongoURI())
	assert.Equal(t, "mongodb+srv://x", Db{URI: "mongodb+srv://x", Host: "ignored"}.MongoURI())
}

func TestLoadEnvFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.env")
	require.NoError(t, os.WriteFile(path, []byte("# comment\nVIDTUBE_TEST_KEY=\"value\"\n\nVIDTUBE_TEST_KEEP=file\nexport VIDTUBE_TEST_EXPORTED=yes\nnot a pair\n"), 0o600))
	t.Setenv("VIDTUBE_TEST_KEEP", "env")
	os.Unsetenv("VIDTUBE_TEST_KEY")
	os.Unsetenv("VIDTUBE_TEST_EXPORTED")
	defer os.Unsetenv("VIDTUBE_TEST_KEY")
	defer os.Unsetenv("VIDTUBE_TEST_EXPORTED")

	loaded := LoadEnvFromFile(path, filepath.Join(t.TempDir(), "missing.env"))

	assert.Equal(t, []string{path}, loaded)
	assert.Equal(t, "value", os.Getenv("VIDTUBE_TEST_KEY"))
	assert.Equal(t, "env", os.Getenv("VIDTUBE_TEST_KEEP"))
	assert.Equal(t, "yes", os.Getenv("VIDTUBE_TEST_EXPORTED"))
}

func TestEnvFiles(t *testing.T) {
	t.Setenv("VIDTUBE_ENV_FILE", "")
	assert.Equal(t, []string{"config.env", ".env"}, EnvFiles())

	t.Setenv("VIDTUBE_ENV_FILE", "deploy/prod.env, ,local.env")
	assert.Equal(t, []string{"deploy/prod.env", "local.env"}, EnvFiles())
}
