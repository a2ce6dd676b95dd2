package cmd

import (
	"os"

	"msc/core/config"
	"msc/core/logger"
	"msc/core/storage"
	"msc/feature/backup"
	"msc/feature/launcher"
	"msc/feature/settings"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// Replaceable in tests.
var (
	commandFactory   launcher.CommandFactory
	newStorageClient = storage.NewClient
	newFs            = storage.NewOsFS
)

// app holds what every command needs once flags are parsed.
type app struct {
	cfg    *config.Config
	logger *zap.Logger
	fs     afero.Fs
}

func newApp(cmd *cobra.Command) (*app, error) {
	cfg, err := config.LoadConfig(".", cmd.Flags())
	if err != nil {
		return nil, err
	}

	logg, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, err
	}

	return &app{cfg: cfg, logger: logg, fs: newFs()}, nil
}

// forServer reloads the configuration with the launch options saved in dir.
func (a *app) forServer(cmd *cobra.Command, dir string) error {
	cfg, err := config.LoadServerConfig(".", cmd.Flags(), a.fs, dir)
	if err != nil {
		return err
	}
	a.cfg = cfg
	return nil
}

func (a *app) launcher() *launcher.Launcher {
	l := launcher.NewLauncher(a.fs, a.cfg.Launcher, a.cfg.Server, a.logger)
	if commandFactory != nil {
		l.SetCommandFactory(commandFactory)
	}
	return l
}

// store returns the settings store, archiving replaced files when backups are enabled.
func (a *app) store() *settings.Store {
	s := settings.NewStore(a.fs, a.cfg.Settings, a.logger)
	if !a.cfg.Storage.Enabled {
		return s
	}

	svc, err := a.backups()
	if err != nil {
		a.logger.Warn("Settings backups unavailable", zap.Error(err))
		return s
	}
	s.SetArchiver(svc)
	return s
}

func (a *app) backups() (*backup.Service, error) {
	client, err := newStorageClient(a.cfg.Storage)
	if err != nil {
		return nil, err
	}
	return backup.NewService(client, a.cfg.Storage, a.logger), nil
}

// serverDir resolves the server directory argument the way a launch would.
func (a *app) serverDir(args []string) (string, error) {
	dir := ""
	if len(args) > 0 {
		dir = args[0]
	}
	return a.launcher().ServerDir(dir)
}

func (a *app) close() {
	_ = a.logger.Sync()
}

func isTerminal(v any) bool {
	f, ok := v.(*os.File)
	return ok && logger.IsTerminal(f)
}
