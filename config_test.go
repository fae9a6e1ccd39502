package stride

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_Validate(t *testing.T) {
	var testCases = []struct {
		description string
		mutate      func(c *Config)
		expectErr   bool
	}{
		{description: "defaults", mutate: func(*Config) {}},
		{description: "no frames", mutate: func(c *Config) { c.Memory.Frames = 0 }, expectErr: true},
		{description: "misaligned base", mutate: func(c *Config) { c.Task.BaseAddress = 0x10010 }, expectErr: true},
		{description: "zero base", mutate: func(c *Config) { c.Task.BaseAddress = 0 }, expectErr: true},
		{description: "no stack", mutate: func(c *Config) { c.Task.StackPages = 0 }, expectErr: true},
		{description: "unknown log level", mutate: func(c *Config) { c.LogLevel = "verbose" }, expectErr: true},
	}
	for _, testCase := range testCases {
		t.Run(testCase.description, func(t *testing.T) {
			cfg := DefaultConfig()
			testCase.mutate(cfg)
			err := cfg.Validate()
			if testCase.expectErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("STRIDE_FRAMES", "48")
	URL := filepath.Join(dir, "kernel.yaml")
	data := []byte(`logLevel: debug
memory:
  frames: ${env.STRIDE_FRAMES}
task:
  baseAddress: 0x20000
policy:
  mode: auto
  block: [mmap]
`)
	require.NoError(t, os.WriteFile(URL, data, 0o644))

	cfg, err := LoadConfig(context.Background(), URL)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 48, cfg.Memory.Frames)
	assert.Equal(t, uint64(0x20000), cfg.Task.BaseAddress)
	assert.Equal(t, 2, cfg.Task.StackPages, "unset fields keep defaults")
	require.NotNil(t, cfg.Policy)
	assert.Equal(t, []string{"mmap"}, cfg.Policy.BlockList)

	require.NoError(t, os.WriteFile(URL, []byte("memory:\n  frames: 0\n"), 0o644))
	_, err = LoadConfig(context.Background(), URL)
	assert.Error(t, err)
}
