package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/turnstile/internal/game"
	"github.com/roach88/turnstile/internal/testutil"
)

// isolate points the test at an empty directory so a stray .env is not
// picked up.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	return dir
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, Config{Draws: 2, Format: "text"}, cfg)
}

func TestLoad_Environment(t *testing.T) {
	isolate(t)
	seed := strings.Repeat("0a", 32)
	t.Setenv("TURNSTILE_SEED", seed)
	t.Setenv("TURNSTILE_DRAWS", "7")
	t.Setenv("TURNSTILE_JOURNAL", "runs.db")
	t.Setenv("TURNSTILE_MAX_STEPS", "100")
	t.Setenv("TURNSTILE_FORMAT", "json")
	t.Setenv("TURNSTILE_VERBOSE", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, Config{
		Seed:     seed,
		Draws:    7,
		Journal:  "runs.db",
		MaxSteps: 100,
		Format:   "json",
		Verbose:  true,
	}, cfg)
}

func TestLoad_EnvFile(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "custom.env")
	require.NoError(t, os.WriteFile(path, []byte("TURNSTILE_DRAWS=4\n"), 0o644))
	t.Cleanup(func() { os.Unsetenv("TURNSTILE_DRAWS") })

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.Draws)
}

func TestLoad_EnvironmentWinsOverFile(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "custom.env")
	require.NoError(t, os.WriteFile(path, []byte("TURNSTILE_DRAWS=4\n"), 0o644))
	t.Setenv("TURNSTILE_DRAWS", "9")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9, cfg.Draws)
}

func TestLoad_MissingEnvFile(t *testing.T) {
	dir := isolate(t)

	_, err := Load(filepath.Join(dir, "missing.env"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load env file")
}

func TestLoad_ParseError(t *testing.T) {
	isolate(t)
	t.Setenv("TURNSTILE_DRAWS", "lots")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse env:")
}

func TestValidate(t *testing.T) {
	valid := Config{Draws: 2, Format: "text"}

	tests := []struct {
		name   string
		modify func(*Config)
		want   string
	}{
		{"bad format", func(c *Config) { c.Format = "xml" }, "format"},
		{"zero draws", func(c *Config) { c.Draws = 0 }, "draws"},
		{"negative steps", func(c *Config) { c.MaxSteps = -1 }, "max steps"},
		{"bad seed", func(c *Config) { c.Seed = "xyz" }, "seed"},
	}

	require.NoError(t, valid.Validate())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.modify(&cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidConfig))
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestGameRules(t *testing.T) {
	cfg := Config{Seed: testutil.SeedHex(0xff), Draws: 3, Format: "text"}

	rules, err := cfg.GameRules()
	require.NoError(t, err)

	assert.Equal(t, game.Rules{Name: "blind-draw", Seed: testutil.Seed(0xff), Draws: 3}, rules)
}

func TestGameRules_ZeroSeedByDefault(t *testing.T) {
	rules, err := Config{Draws: 2, Format: "text"}.GameRules()
	require.NoError(t, err)
	assert.Equal(t, game.DefaultRules(), rules)
}

func TestDefault_MatchesEmptyEnvironment(t *testing.T) {
	isolate(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.NoError(t, Default().Validate())
}
