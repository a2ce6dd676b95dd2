package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"msc/core/config"
	"msc/core/logger"
	"msc/core/utils"
	"msc/feature/editor"
	"msc/feature/launcher"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type launchFlags struct {
	set    []string
	noEdit bool
}

// NewRootCmd builds the msc command tree.
func NewRootCmd() *cobra.Command {
	var flags launchFlags

	root := &cobra.Command{
		Use:   "msc <jar-filename> [server-directory]",
		Short: "Configure and launch a Minecraft server",
		Long: `msc walks through the server settings file of a Minecraft server directory,
saves any changes, and then runs the server jar with Java in that directory,
relaying the server console to this terminal.

When server-directory is omitted, %APPDATA%\.minecraft\server is used on Windows
and ~/.minecraft/server elsewhere.`,
		Args: func(cmd *cobra.Command, args []string) error {
			switch {
			case len(args) == 0:
				return usageErrorf("missing jar filename")
			case len(args) > 2:
				return usageErrorf("expected at most 2 arguments, got %d", len(args))
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLaunch(cmd, args, &flags)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &usageError{err: err}
	})

	pf := root.PersistentFlags()
	pf.String("settings-file", "", "name of the settings file in the server directory (default server.properties)")
	pf.String("log-level", "", "log level: debug, info, warn or error")
	pf.Bool("backup", false, "upload the previous settings file to object storage before saving")

	f := root.Flags()
	f.StringArrayVar(&flags.set, "set", nil, "set a setting before editing, as name=value (repeatable)")
	f.BoolVar(&flags.noEdit, "no-edit", false, "skip the interactive settings editor")
	f.String("java", "", "Java executable (default java)")
	f.String("min-memory", "", "initial heap size, e.g. 1G")
	f.String("max-memory", "", "maximum heap size, e.g. 2G")
	f.String("jvm-flags", "", "extra JVM flags, whitespace separated")
	f.Bool("gui", false, "open the server window instead of passing --nogui")
	f.Int("port", 0, "port to listen on for this run")
	f.String("world", "", "world folder to load")
	f.String("universe", "", "folder holding the worlds")
	f.Bool("bonus-chest", false, "generate a bonus chest in new worlds")
	f.Bool("demo", false, "run in demo mode")
	f.Bool("erase-cache", false, "erase cached world data")
	f.Bool("force-upgrade", false, "upgrade all chunks to the current version")
	f.Bool("init-settings", false, "write the server settings and exit")
	f.Bool("safe-mode", false, "load the vanilla datapack only")
	f.Bool("singleplayer", false, "run as a single player server")

	root.AddCommand(newSettingsCmd())
	return root
}

// Execute runs msc with the process arguments and returns the exit code.
func Execute() int {
	return Run(context.Background(), os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
}

// Run runs msc with args and the given streams and returns the exit code.
func Run(ctx context.Context, args []string, in io.Reader, out, errOut io.Writer) int {
	root := NewRootCmd()
	root.SetArgs(args)
	root.SetIn(in)
	root.SetOut(out)
	root.SetErr(errOut)

	err := root.ExecuteContext(ctx)
	code := exitCode(err)

	var usageErr *usageError
	var serverErr *serverExitError
	switch {
	case err == nil, errors.As(err, &serverErr):
	case errors.As(err, &usageErr):
		fmt.Fprintf(errOut, "Error: %v\n\n%s", err, root.UsageString())
	default:
		// Console format with ISO8601 timestamps, independent of the user's log settings.
		l, logErr := logger.New(&logger.Config{Level: "debug", Format: "console"})
		if logErr != nil {
			fmt.Fprintln(errOut, err)
			break
		}
		l.Error("command failed", zap.Error(err))
		_ = l.Sync()
	}
	return code
}

func runLaunch(cmd *cobra.Command, args []string, flags *launchFlags) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	jar, dirArg := args[0], ""
	if len(args) > 1 {
		dirArg = args[1]
	}
	out := cmd.OutOrStdout()

	dir, err := a.launcher().ServerDir(dirArg)
	if err != nil {
		return err
	}
	if err := a.forServer(cmd, dir); err != nil {
		return err
	}

	// Reject bad input before the settings file is touched.
	l := a.launcher()
	if err := l.Validate(); err != nil {
		return err
	}
	if err := l.CheckJar(dir, jar); err != nil {
		return err
	}
	a.logger = logger.ForServer(a.logger, dir, jar)

	store := a.store()
	file, err := store.Load(dir)
	if err != nil {
		return err
	}
	saved, _, err := config.ReadOptions(a.fs, dir)
	if err != nil {
		return err
	}

	for _, pair := range flags.set {
		name, value, ok := utils.SplitPair(pair)
		if !ok {
			return usageErrorf("invalid --set %q, expected name=value", pair)
		}
		if err := file.Set(name, value); err != nil {
			return err
		}
	}

	opts := a.cfg.Server
	optionsChanged := false

	in := bufio.NewReader(cmd.InOrStdin())
	if !flags.noEdit {
		ed := editor.NewEditor(editor.NewLineReader(in), out, a.logger)
		ed.SetHints(isTerminal(cmd.InOrStdin()))
		ed.AddSection("Launch options", launcher.OptionSchema, &opts)

		res, err := ed.Run(file)
		if errors.Is(err, editor.ErrAborted) {
			fmt.Fprintln(out, "Aborted, settings left unchanged and server not started.")
			return nil
		}
		if err != nil {
			return err
		}
		if res.Empty() {
			fmt.Fprintln(out, "No changes.")
		} else {
			fmt.Fprintf(out, "%d setting(s) changed.\n", len(res.Changes))
		}

		for _, c := range res.Changes {
			if _, ok := launcher.LookupOption(c.Name); !ok {
				continue
			}
			if err := saved.Set(c.Name, c.New); err != nil {
				return err
			}
			optionsChanged = true
		}
	}

	if file.NeedsSave() {
		if err := store.Save(cmd.Context(), file, dir); err != nil {
			return err
		}
	}
	if optionsChanged {
		if err := config.WriteOptions(a.fs, dir, saved); err != nil {
			return err
		}
		a.logger.Info("Saved launch options", zap.String("path", config.OptionsPath(dir)))
	}

	a.cfg.Server = opts
	l = a.launcher()
	spec, err := l.Resolve(jar, dir)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	code, err := l.Launch(ctx, spec, launcher.Stdio{
		Stdin:  in,
		Stdout: out,
		Stderr: cmd.ErrOrStderr(),
	})
	if err != nil {
		return err
	}
	if code != 0 {
		return &serverExitError{code: code}
	}
	return nil
}
