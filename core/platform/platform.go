package platform

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
)

// ErrNoHome is returned when no base directory for the default server folder can be found.
var ErrNoHome = errors.New("no home directory for the default server folder")

// Env is the view of the host the default directory is derived from.
type Env struct {
	// GOOS is the target operating system name (runtime.GOOS).
	GOOS string
	// Getenv looks up an environment variable.
	Getenv func(string) string
	// HomeDir returns the current user's home directory.
	HomeDir func() (string, error)
	// Getwd returns the directory relative paths are resolved against.
	Getwd func() (string, error)
}

// Host returns the Env of the running process.
func Host() Env {
	return Env{
		GOOS:    runtime.GOOS,
		Getenv:  os.Getenv,
		HomeDir: os.UserHomeDir,
		Getwd:   os.Getwd,
	}
}

// DefaultServerDir returns the server directory used when none is given.
//
// On Windows this is %APPDATA%\.minecraft\server, elsewhere ~/.minecraft/server.
func DefaultServerDir(env Env) (string, error) {
	if env.GOOS == "windows" {
		appData := ""
		if env.Getenv != nil {
			appData = env.Getenv("APPDATA")
		}
		if appData == "" {
			return "", ErrNoHome
		}
		return join(env.GOOS, appData, ".minecraft", "server"), nil
	}

	if env.HomeDir == nil {
		return "", ErrNoHome
	}
	home, err := env.HomeDir()
	if err != nil || home == "" {
		return "", ErrNoHome
	}
	return join(env.GOOS, home, ".minecraft", "server"), nil
}

// Abs returns path made absolute against env.Getwd.
func Abs(env Env, path string) (string, error) {
	if filepath.IsAbs(path) || env.Getwd == nil {
		return filepath.Abs(path)
	}
	wd, err := env.Getwd()
	if err != nil {
		return "", err
	}
	return filepath.Join(wd, path), nil
}

// join uses the separator of the target OS so results are stable in tests
// regardless of the OS running them.
func join(goos string, elem ...string) string {
	if goos == runtime.GOOS {
		return filepath.Join(elem...)
	}
	sep := "/"
	if goos == "windows" {
		sep = `\`
	}
	out := elem[0]
	for _, e := range elem[1:] {
		if len(out) > 0 && out[len(out)-1:] != sep {
			out += sep
		}
		out += e
	}
	return out
}
