package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"msc/core/storage"
	"msc/feature/launcher"

	"github.com/spf13/afero"
	"github.com/spf13/viper"
	"go.yaml.in/yaml/v3"
)

// OptionsFileName is the file in a server directory that keeps its launch options.
// Besides the server section it may hold any other configuration section.
const OptionsFileName = "msc.yaml"

const serverKey = "server"

// OptionsPath returns the options file path for dir.
func OptionsPath(dir string) string {
	return filepath.Join(dir, OptionsFileName)
}

// ReadOptions returns the launch options saved in dir, ignoring the environment and
// flags. The second value is false when dir has no options file.
func ReadOptions(fsys afero.Fs, dir string) (launcher.Options, bool, error) {
	v := viper.New()
	bindValues(v, launcher.Options{}, serverKey)

	exists, err := mergeOptionsFile(v, fsys, dir)
	if err != nil {
		return launcher.Options{}, false, err
	}

	var opts launcher.Options
	if err := v.UnmarshalKey(serverKey, &opts); err != nil {
		return launcher.Options{}, false, fmt.Errorf("failed to decode %s: %w", OptionsPath(dir), err)
	}
	return opts, exists, nil
}

// WriteOptions atomically saves opts as the launch options of dir.
// Other sections already in the file are kept.
func WriteOptions(fsys afero.Fs, dir string, opts launcher.Options) error {
	path := OptionsPath(dir)
	perm := os.FileMode(0o644)
	doc := map[string]any{}

	data, err := afero.ReadFile(fsys, path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return fmt.Errorf("failed to parse %s: %w", path, err)
		}
		if doc == nil {
			doc = map[string]any{}
		}
		if info, err := fsys.Stat(path); err == nil {
			perm = info.Mode().Perm()
		}
	case !errors.Is(err, fs.ErrNotExist):
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	doc[serverKey] = opts
	out, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode launch options: %w", err)
	}

	if err := storage.WriteFileAtomic(fsys, path, out, perm); err != nil {
		return fmt.Errorf("failed to save %s: %w", path, err)
	}
	return nil
}

// mergeOptionsFile merges the options file of dir into v. A missing file is not an error.
func mergeOptionsFile(v *viper.Viper, fsys afero.Fs, dir string) (bool, error) {
	path := OptionsPath(dir)
	v.SetFs(fsys)
	v.SetConfigFile(path)

	if err := v.MergeInConfig(); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return true, nil
}
