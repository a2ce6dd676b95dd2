package settings

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"msc/core/storage"

	"github.com/spf13/afero"
	"go.uber.org/zap"
)

const defaultPerm os.FileMode = 0o644

// Archiver receives the previous content of a settings file before it is replaced.
type Archiver interface {
	Archive(ctx context.Context, dir, name string, previous []byte) error
}

// Store loads and saves the settings file of a server directory.
type Store struct {
	fs       afero.Fs
	fileName string
	logger   *zap.Logger
	archiver Archiver
}

// NewStore creates a store reading cfg.FileName inside server directories of fsys.
func NewStore(fsys afero.Fs, cfg Config, logger *zap.Logger) *Store {
	name := cfg.FileName
	if name == "" {
		name = DefaultFileName
	}
	return &Store{
		fs:       fsys,
		fileName: name,
		logger:   logger,
	}
}

// SetArchiver registers a to be handed the old content on every save that replaces
// an existing file.
func (s *Store) SetArchiver(a Archiver) {
	s.archiver = a
}

// FileName returns the settings file name used inside server directories.
func (s *Store) FileName() string { return s.fileName }

// Path returns the settings file path for dir.
func (s *Store) Path(dir string) string {
	return filepath.Join(dir, s.fileName)
}

// Load reads the settings file of dir.
//
// A missing file yields the default template, flagged IsNew so the caller writes it
// before launching. Read failures wrap ErrIO; malformed content is a *ParseError.
func (s *Store) Load(dir string) (*File, error) {
	path := s.Path(dir)

	data, err := afero.ReadFile(s.fs, path)
	if errors.Is(err, fs.ErrNotExist) {
		s.logger.Info("Settings file not found, starting from defaults", zap.String("path", path))
		return Default(), nil
	}
	if err != nil {
		return nil, ioError("read", path, err)
	}

	f, err := Parse(data)
	if err != nil {
		var perr *ParseError
		if errors.As(err, &perr) {
			perr.Path = path
		}
		return nil, err
	}

	s.logger.Debug("Loaded settings file", zap.String("path", path), zap.Int("settings", len(f.index)))
	return f, nil
}

// Save atomically writes f as the settings file of dir.
//
// On failure the previous file is left untouched and f keeps its pending changes.
func (s *Store) Save(ctx context.Context, f *File, dir string) error {
	path := s.Path(dir)
	perm := defaultPerm

	info, err := s.fs.Stat(path)
	switch {
	case err == nil:
		perm = info.Mode().Perm()
		s.archive(ctx, dir, path)
	case !errors.Is(err, fs.ErrNotExist):
		return ioError("stat", path, err)
	}

	if err := storage.WriteFileAtomic(s.fs, path, f.Bytes(), perm); err != nil {
		return ioError("write", path, err)
	}

	f.markSaved()
	s.logger.Info("Saved settings file", zap.String("path", path))
	return nil
}

// archive hands the current on-disk content to the archiver. Failures are logged only.
func (s *Store) archive(ctx context.Context, dir, path string) {
	if s.archiver == nil {
		return
	}
	previous, err := afero.ReadFile(s.fs, path)
	if err != nil {
		s.logger.Warn("Could not read settings file for backup", zap.String("path", path), zap.Error(err))
		return
	}
	if err := s.archiver.Archive(ctx, dir, s.fileName, previous); err != nil {
		s.logger.Warn("Settings backup failed", zap.String("path", path), zap.Error(err))
	}
}
