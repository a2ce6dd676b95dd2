package config

import (
	"testing"

	"msc/feature/launcher"

	"github.com/spf13/afero"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const serverDir = "/srv/minecraft"

func newServerFs(t *testing.T) afero.Fs {
	t.Helper()
	fsys := afero.NewMemMapFs()
	require.NoError(t, fsys.MkdirAll(serverDir, 0o755))
	return fsys
}

func TestOptions_RoundTrip(t *testing.T) {
	fsys := newServerFs(t)
	want := launcher.Options{GUI: true, SafeMode: true, Port: 25570, World: "creative world", Universe: "worlds"}

	require.NoError(t, WriteOptions(fsys, serverDir, want))

	got, exists, err := ReadOptions(fsys, serverDir)
	require.NoError(t, err)
	assert.True(t, exists)
	assert.Equal(t, want, got)

	data, err := afero.ReadFile(fsys, OptionsPath(serverDir))
	require.NoError(t, err)
	assert.Contains(t, string(data), "server:")
	assert.Contains(t, string(data), "safe_mode: true")
}

func TestOptions_Missing(t *testing.T) {
	got, exists, err := ReadOptions(newServerFs(t), serverDir)
	require.NoError(t, err)
	assert.False(t, exists)
	assert.Equal(t, launcher.Options{}, got)
}

func TestOptions_Malformed(t *testing.T) {
	fsys := newServerFs(t)
	require.NoError(t, afero.WriteFile(fsys, OptionsPath(serverDir), []byte("server: [unclosed\n"), 0o644))

	_, _, err := ReadOptions(fsys, serverDir)
	assert.Error(t, err)

	_, err = LoadServerConfig(t.TempDir(), nil, fsys, serverDir)
	assert.Error(t, err)

	assert.Error(t, WriteOptions(fsys, serverDir, launcher.Options{}))
}

func TestOptions_WriteKeepsOtherSections(t *testing.T) {
	fsys := newServerFs(t)
	require.NoError(t, afero.WriteFile(fsys, OptionsPath(serverDir), []byte("launcher:\n  max_memory: 6G\nserver:\n  demo: true\n"), 0o600))

	require.NoError(t, WriteOptions(fsys, serverDir, launcher.Options{Port: 25570}))

	cfg, err := LoadServerConfig(t.TempDir(), nil, fsys, serverDir)
	require.NoError(t, err)
	assert.Equal(t, "6G", cfg.Launcher.MaxMemory)
	assert.Equal(t, launcher.Options{Port: 25570}, cfg.Server)

	info, err := fsys.Stat(OptionsPath(serverDir))
	require.NoError(t, err)
	assert.Equal(t, "-rw-------", info.Mode().Perm().String())
}

func TestLoadServerConfig_Precedence(t *testing.T) {
	fsys := newServerFs(t)
	require.NoError(t, WriteOptions(fsys, serverDir, launcher.Options{
		GUI:      true,
		Port:     25570,
		World:    "from-file",
		Universe: "from-file",
	}))
	t.Setenv("MSC_SERVER_WORLD", "from-env")
	t.Setenv("MSC_SERVER_PORT", "25580")

	flags := pflag.NewFlagSet("msc", pflag.ContinueOnError)
	flags.Int("port", 0, "")
	flags.String("world", "", "")
	flags.Bool("demo", false, "")
	require.NoError(t, flags.Parse([]string{"--port", "25590"}))

	cfg, err := LoadServerConfig(t.TempDir(), flags, fsys, serverDir)
	require.NoError(t, err)

	assert.Equal(t, 25590, cfg.Server.Port, "flags win over the environment and the file")
	assert.Equal(t, "from-env", cfg.Server.World, "the environment wins over the file")
	assert.Equal(t, "from-file", cfg.Server.Universe)
	assert.True(t, cfg.Server.GUI)
	assert.False(t, cfg.Server.Demo, "unset flags keep their defaults out")
	assert.Equal(t, "java", cfg.Launcher.JavaPath)
}

func TestLoadServerConfig_NoOptionsFile(t *testing.T) {
	cfg, err := LoadServerConfig(t.TempDir(), nil, newServerFs(t), serverDir)
	require.NoError(t, err)
	assert.Equal(t, launcher.Options{}, cfg.Server)
}
