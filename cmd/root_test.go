package cmd

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"msc/core/config"
	"msc/core/storage"
	"msc/core/storage/mocks"
	"msc/feature/launcher"
	"msc/feature/settings"

	"github.com/minio/minio-go/v7"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// serverCommand stands in for the Java process.
type serverCommand struct {
	code     int
	startErr error
	output   string
}

type discardCloser struct{ io.Writer }

func (discardCloser) Close() error { return nil }

func (c *serverCommand) StdinPipe() (io.WriteCloser, error) { return discardCloser{io.Discard}, nil }
func (c *serverCommand) StdoutPipe() (io.ReadCloser, error) {
	return io.NopCloser(strings.NewReader(c.output)), nil
}
func (c *serverCommand) StderrPipe() (io.ReadCloser, error) {
	return io.NopCloser(strings.NewReader("")), nil
}
func (c *serverCommand) Start() error  { return c.startErr }
func (c *serverCommand) Wait() error   { return nil }
func (c *serverCommand) Pid() int      { return 1234 }
func (c *serverCommand) ExitCode() int { return c.code }

type launches struct {
	specs []*launcher.LaunchSpec
}

// useServer makes launches run server instead of Java and records them.
func useServer(t *testing.T, server *serverCommand) *launches {
	t.Helper()
	rec := &launches{}
	prev := commandFactory
	commandFactory = func(_ context.Context, spec *launcher.LaunchSpec) launcher.Command {
		rec.specs = append(rec.specs, spec)
		return server
	}
	t.Cleanup(func() { commandFactory = prev })
	return rec
}

// serverDir creates a server directory with a jar and, unless empty, a settings file.
func serverDir(t *testing.T, settingsContent string) string {
	t.Helper()
	t.Setenv("MSC_LOG_LEVEL", "error")
	t.Setenv("MSC_SETTINGS_FILE", "settings.txt")

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "server.jar"), []byte("PK"), 0o644))
	if settingsContent != "" {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "settings.txt"), []byte(settingsContent), 0o644))
	}
	return dir
}

func readSettings(t *testing.T, dir string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, "settings.txt"))
	require.NoError(t, err)
	return string(data)
}

type result struct {
	code   int
	out    string
	errOut string
}

func run(input string, args ...string) result {
	var out, errOut bytes.Buffer
	code := Run(context.Background(), args, strings.NewReader(input), &out, &errOut)
	return result{code: code, out: out.String(), errOut: errOut.String()}
}

func keepAll() string {
	return strings.Repeat("\n", len(settings.Schema)+len(launcher.OptionSchema))
}

func readOptions(t *testing.T, dir string) (launcher.Options, bool) {
	t.Helper()
	opts, exists, err := config.ReadOptions(afero.NewOsFs(), dir)
	require.NoError(t, err)
	return opts, exists
}

func TestRun_KeepingDefaultsLeavesSettingsUntouched(t *testing.T) {
	const original = "#my server\r\ndifficulty=easy\r\n"
	dir := serverDir(t, original)
	rec := useServer(t, &serverCommand{output: "Done (2.1s)!\n"})

	res := run(keepAll(), "server.jar", dir)
	require.Equal(t, ExitOK, res.code, res.errOut)

	assert.Equal(t, original, readSettings(t, dir))
	require.Len(t, rec.specs, 1)
	assert.Equal(t, dir, rec.specs[0].Dir)
	assert.Contains(t, rec.specs[0].Argv, "server.jar")
	assert.Contains(t, res.out, "No changes.")
	assert.Contains(t, res.out, "Done (2.1s)!")
}

func TestRun_EditedSettingsAreSavedBeforeLaunch(t *testing.T) {
	dir := serverDir(t, "difficulty=easy\n")
	rec := useServer(t, &serverCommand{})

	res := run("\nhard\n!done\n", "server.jar", dir)
	require.Equal(t, ExitOK, res.code, res.errOut)

	assert.Equal(t, "difficulty=hard\n", readSettings(t, dir))
	assert.Len(t, rec.specs, 1)
	assert.Contains(t, res.out, "1 setting(s) changed.")
}

func TestRun_InvalidAnswerIsAskedAgain(t *testing.T) {
	dir := serverDir(t, "difficulty=easy\n")
	useServer(t, &serverCommand{})

	res := run("\nimpossible\nnormal\n!done\n", "server.jar", dir)
	require.Equal(t, ExitOK, res.code, res.errOut)
	assert.Equal(t, "difficulty=normal\n", readSettings(t, dir))
	assert.Contains(t, res.out, `invalid value "impossible" for difficulty`)
}

func TestRun_AbortDiscardsAndDoesNotLaunch(t *testing.T) {
	dir := serverDir(t, "difficulty=easy\n")
	rec := useServer(t, &serverCommand{})

	res := run("hard\n!abort\n", "server.jar", dir, "--set", "pvp=false")
	assert.Equal(t, ExitOK, res.code)
	assert.Equal(t, "difficulty=easy\n", readSettings(t, dir))
	assert.Empty(t, rec.specs)
}

func TestRun_EndOfInputAborts(t *testing.T) {
	dir := serverDir(t, "difficulty=easy\n")
	rec := useServer(t, &serverCommand{})

	res := run("", "server.jar", dir)
	assert.Equal(t, ExitOK, res.code)
	assert.Empty(t, rec.specs)
}

func TestRun_CreatesDefaultSettings(t *testing.T) {
	dir := serverDir(t, "")
	rec := useServer(t, &serverCommand{})

	res := run("", "server.jar", dir, "--no-edit")
	require.Equal(t, ExitOK, res.code, res.errOut)
	assert.Equal(t, string(settings.Default().Bytes()), readSettings(t, dir))
	assert.Len(t, rec.specs, 1)
}

func TestRun_SetFlags(t *testing.T) {
	dir := serverDir(t, "difficulty=easy\n")
	rec := useServer(t, &serverCommand{})

	res := run("", "server.jar", dir, "--no-edit", "--set", "difficulty=Hard", "--set", "max-players=8",
		"--port", "25570", "--max-memory", "4G")
	require.Equal(t, ExitOK, res.code, res.errOut)

	assert.Equal(t, "difficulty=hard\nmax-players=8\n", readSettings(t, dir))
	require.Len(t, rec.specs, 1)
	argv := strings.Join(rec.specs[0].Argv, " ")
	assert.Contains(t, argv, "-Xmx4G -jar server.jar --nogui --port 25570")
}

func TestRun_KeepingEverythingWritesNoOptionsFile(t *testing.T) {
	dir := serverDir(t, "difficulty=easy\n")
	useServer(t, &serverCommand{})

	res := run(keepAll(), "server.jar", dir)
	require.Equal(t, ExitOK, res.code, res.errOut)

	_, exists := readOptions(t, dir)
	assert.False(t, exists)
}

func TestRun_LaunchOptionsAreSavedPerDirectory(t *testing.T) {
	dir := serverDir(t, "difficulty=easy\n")
	rec := useServer(t, &serverCommand{})

	// Keep every setting, then gui, and answer port and world.
	input := strings.Repeat("\n", len(settings.Schema)) + "\n25570\nadventure\n!done\n"
	res := run(input, "server.jar", dir)
	require.Equal(t, ExitOK, res.code, res.errOut)
	assert.Contains(t, res.out, "2 setting(s) changed.")
	assert.Equal(t, "difficulty=easy\n", readSettings(t, dir))

	opts, exists := readOptions(t, dir)
	require.True(t, exists)
	assert.Equal(t, launcher.Options{Port: 25570, World: "adventure"}, opts)

	res = run("", "server.jar", dir, "--no-edit")
	require.Equal(t, ExitOK, res.code, res.errOut)

	res = run("", "server.jar", dir, "--no-edit", "--port", "25599")
	require.Equal(t, ExitOK, res.code, res.errOut)

	require.Len(t, rec.specs, 3)
	assert.Contains(t, strings.Join(rec.specs[0].Argv, " "), "--port 25570 --world adventure")
	assert.Contains(t, strings.Join(rec.specs[1].Argv, " "), "--port 25570 --world adventure")
	assert.Contains(t, strings.Join(rec.specs[2].Argv, " "), "--port 25599 --world adventure")

	opts, _ = readOptions(t, dir)
	assert.Equal(t, 25570, opts.Port, "flags are not saved")
}

func TestRun_OptionsFileWithEnvironmentOverride(t *testing.T) {
	dir := serverDir(t, "difficulty=easy\n")
	rec := useServer(t, &serverCommand{})
	require.NoError(t, config.WriteOptions(afero.NewOsFs(), dir, launcher.Options{Demo: true, World: "saved"}))
	t.Setenv("MSC_SERVER_WORLD", "from-env")

	res := run("", "server.jar", dir, "--no-edit")
	require.Equal(t, ExitOK, res.code, res.errOut)

	require.Len(t, rec.specs, 1)
	argv := strings.Join(rec.specs[0].Argv, " ")
	assert.Contains(t, argv, "--demo")
	assert.Contains(t, argv, "--world from-env")
}

func TestRun_EditedOptionOverridesFlagForThisRun(t *testing.T) {
	dir := serverDir(t, "difficulty=easy\n")
	rec := useServer(t, &serverCommand{})

	input := strings.Repeat("\n", len(settings.Schema)) + "\n25571\n!done\n"
	res := run(input, "server.jar", dir, "--port", "25599", "--world", "flagged")
	require.Equal(t, ExitOK, res.code, res.errOut)

	require.Len(t, rec.specs, 1)
	assert.Contains(t, strings.Join(rec.specs[0].Argv, " "), "--port 25571 --world flagged")

	opts, _ := readOptions(t, dir)
	assert.Equal(t, launcher.Options{Port: 25571}, opts, "only the edited option is saved")
}

func TestRun_AbortWritesNoOptions(t *testing.T) {
	dir := serverDir(t, "difficulty=easy\n")
	rec := useServer(t, &serverCommand{})

	input := strings.Repeat("\n", len(settings.Schema)) + "true\n!abort\n"
	res := run(input, "server.jar", dir)
	assert.Equal(t, ExitOK, res.code)
	assert.Empty(t, rec.specs)

	_, exists := readOptions(t, dir)
	assert.False(t, exists)
}

func TestRun_InvalidSavedOptions(t *testing.T) {
	dir := serverDir(t, "pvp=true\n")
	rec := useServer(t, &serverCommand{})
	require.NoError(t, os.WriteFile(filepath.Join(dir, config.OptionsFileName), []byte("server:\n  port: 70000\n"), 0o644))

	res := run(keepAll(), "server.jar", dir)
	assert.Equal(t, ExitUsage, res.code)
	assert.Empty(t, rec.specs)
}

func TestRun_UsageAndValidationErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"MissingJar", []string{}, "missing jar filename"},
		{"TooManyArgs", []string{"a.jar", "dir", "extra"}, "at most 2"},
		{"UnknownFlag", []string{"server.jar", "--bogus"}, "unknown flag"},
		{"BadAssignment", []string{"server.jar", "{dir}", "--set", "pvp"}, "expected name=value"},
		{"InvalidValue", []string{"server.jar", "{dir}", "--set", "pvp=notaboolean"}, ""},
		{"InvalidPort", []string{"server.jar", "{dir}", "--port", "70000"}, ""},
		{"MissingDirectory", []string{"server.jar", "{dir}/nowhere"}, ""},
		{"JarNotInDirectory", []string{"missing.jar", "{dir}"}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			const original = "pvp=true\n"
			dir := serverDir(t, original)
			rec := useServer(t, &serverCommand{})

			args := make([]string, len(tt.args))
			for i, a := range tt.args {
				args[i] = strings.ReplaceAll(a, "{dir}", dir)
			}

			res := run(keepAll(), args...)
			assert.Equal(t, ExitUsage, res.code)
			if tt.want != "" {
				assert.Contains(t, res.errOut, tt.want)
			}
			assert.Empty(t, rec.specs, "nothing is launched")
			assert.Equal(t, original, readSettings(t, dir))
		})
	}
}

func TestRun_Help(t *testing.T) {
	res := run("", "--help")
	assert.Equal(t, ExitOK, res.code)
	assert.Contains(t, res.out, "msc <jar-filename> [server-directory]")
}

func TestRun_ServerExitCodeIsPropagated(t *testing.T) {
	dir := serverDir(t, "difficulty=easy\n")
	useServer(t, &serverCommand{code: 3})

	res := run("", "server.jar", dir, "--no-edit")
	assert.Equal(t, 3, res.code)
}

func TestRun_SpawnFailure(t *testing.T) {
	dir := serverDir(t, "difficulty=easy\n")
	useServer(t, &serverCommand{startErr: errors.New("exec: \"java\": executable file not found in $PATH")})

	res := run("", "server.jar", dir, "--no-edit")
	assert.Equal(t, ExitFailure, res.code)
}

func TestRun_MalformedSettingsFile(t *testing.T) {
	dir := serverDir(t, "pvp=true\npvp=false\n")
	rec := useServer(t, &serverCommand{})

	res := run(keepAll(), "server.jar", dir)
	assert.Equal(t, ExitFailure, res.code)
	assert.Empty(t, rec.specs)
}

// useStorage replaces the object storage client and enables backups.
func useStorage(t *testing.T, client storage.Client) {
	t.Helper()
	t.Setenv("MSC_STORAGE_ENABLED", "true")
	t.Setenv("MSC_STORAGE_BUCKET", "backups")
	prev := newStorageClient
	newStorageClient = func(storage.Config) (storage.Client, error) { return client, nil }
	t.Cleanup(func() { newStorageClient = prev })
}

func TestRun_BackupBeforeSave(t *testing.T) {
	dir := serverDir(t, "difficulty=easy\n")
	useServer(t, &serverCommand{})

	client := new(mocks.Client)
	client.On("BucketExists", mock.Anything, "backups").Return(true, nil)
	client.On("PutObject", mock.Anything, "backups", mock.MatchedBy(func(key string) bool {
		return strings.HasPrefix(key, "settings/"+filepath.Base(dir)+"/") && strings.HasSuffix(key, "-settings.txt")
	}), mock.Anything, int64(len("difficulty=easy\n")), mock.Anything).Return(minio.UploadInfo{}, nil)
	useStorage(t, client)

	res := run("", "server.jar", dir, "--no-edit", "--set", "difficulty=peaceful")
	require.Equal(t, ExitOK, res.code, res.errOut)
	assert.Equal(t, "difficulty=peaceful\n", readSettings(t, dir))
	client.AssertExpectations(t)
}
