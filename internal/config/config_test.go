package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCmd(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	cmd := &cobra.Command{Use: "test", Run: func(*cobra.Command, []string) {}}
	RegisterFlags(cmd)
	require.NoError(t, cmd.ParseFlags(args))
	return cmd
}

func TestLoad_Defaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load(newCmd(t))
	require.NoError(t, err)

	assert.Equal(t, DefaultHTTPTimeout, cfg.HTTPTimeout)
	assert.Equal(t, float64(DefaultMaxPrice), cfg.MaxPrice)
	assert.Equal(t, DefaultPriceCandidates, cfg.PriceCandidates)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.Empty(t, cfg.Proxies)
}

func TestLoad_EnvThenFlags(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("LINKFILL_TIMEOUT", "3s")
	t.Setenv("LINKFILL_MAX_PRICE", "5000")
	t.Setenv("LINKFILL_PROXY", "http://p1:8080, http://p2:8080")

	cfg, err := Load(newCmd(t, "--max-price", "100", "--verbose"))
	require.NoError(t, err)

	assert.Equal(t, 3*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, 100.0, cfg.MaxPrice)
	assert.Equal(t, []string{"http://p1:8080", "http://p2:8080"}, cfg.Proxies)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoad_DotEnvFile(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	// Restored on cleanup; godotenv only sets variables that are unset
	t.Setenv("LINKFILL_PRICE_CANDIDATES", "")
	os.Unsetenv("LINKFILL_PRICE_CANDIDATES")

	require.NoError(t, os.WriteFile(filepath.Join(dir, "custom.env"), []byte("LINKFILL_PRICE_CANDIDATES=7\n"), 0o644))

	cfg, err := Load(newCmd(t, "--config", "custom.env"))
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.PriceCandidates)
}

func TestLoad_Invalid(t *testing.T) {
	chdir(t, t.TempDir())

	_, err := Load(newCmd(t, "--timeout", "0s"))
	assert.Error(t, err)

	_, err = Load(newCmd(t, "--price-candidates", "0"))
	assert.Error(t, err)

	t.Setenv("LINKFILL_RETRY_ATTEMPTS", "many")
	_, err = Load(newCmd(t))
	assert.Error(t, err)
}

func TestRegisterFlags_EnvBindings(t *testing.T) {
	cmd := &cobra.Command{Use: "test"}
	RegisterFlags(cmd)

	name, ok := EnvFor(cmd.PersistentFlags().Lookup("max-price"))
	assert.True(t, ok)
	assert.Equal(t, "LINKFILL_MAX_PRICE", name)

	_, ok = EnvFor(cmd.PersistentFlags().Lookup("verbose"))
	assert.False(t, ok)
}

// chdir changes the working directory for the duration of the test and
// restores it on cleanup (equivalent of testing.T.Chdir, added in Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}
