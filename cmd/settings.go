package cmd

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"msc/core/config"
	"msc/core/utils"
	"msc/feature/launcher"
	"msc/feature/settings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newSettingsCmd() *cobra.Command {
	settingsCmd := &cobra.Command{
		Use:   "settings",
		Short: "Inspect and change server settings without launching",
	}
	settingsCmd.AddCommand(newSettingsListCmd(), newSettingsSetCmd(), newSettingsBackupsCmd())
	return settingsCmd
}

func newSettingsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list [server-directory]",
		Short: "Print the settings of a server directory",
		Long: `Prints every setting in file order. Known settings missing from the file are
listed with the default the editor would offer. The launch options saved for the
directory follow.`,
		Args: maxArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer a.close()

			dir, err := a.serverDir(args)
			if err != nil {
				return err
			}
			file, err := a.store().Load(dir)
			if err != nil {
				return err
			}

			opts, saved, err := config.ReadOptions(a.fs, dir)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, e := range file.Entries() {
				fmt.Fprintf(w, "%s\t%s\t\n", e.Name, e.Value)
			}
			for _, s := range settings.Schema {
				if _, ok := file.Get(s.Name); !ok {
					fmt.Fprintf(w, "%s\t%s\t(default)\n", s.Name, s.Default)
				}
			}

			fmt.Fprintf(w, "\n# launch options (%s)\n", config.OptionsFileName)
			mark := ""
			if !saved {
				mark = "(default)"
			}
			for _, s := range launcher.OptionSchema {
				v, _ := opts.Get(s.Name)
				fmt.Fprintf(w, "%s\t%s\t%s\n", s.Name, v, mark)
			}
			return w.Flush()
		},
	}
}

func newSettingsSetCmd() *cobra.Command {
	var dirFlag string

	cmd := &cobra.Command{
		Use:   "set name=value... [--dir server-directory]",
		Short: "Change settings and save them",
		Long: `Validates every assignment, then saves the settings file atomically.
Launch option names (port, world, gui, ...) are saved to the directory's launch
options instead. Nothing is written if any assignment is invalid.`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return usageErrorf("expected at least one name=value")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer a.close()

			var dirArgs []string
			if dirFlag != "" {
				dirArgs = []string{dirFlag}
			}
			dir, err := a.serverDir(dirArgs)
			if err != nil {
				return err
			}

			store := a.store()
			file, err := store.Load(dir)
			if err != nil {
				return err
			}
			opts, _, err := config.ReadOptions(a.fs, dir)
			if err != nil {
				return err
			}

			optionsChanged := false
			for _, pair := range args {
				name, value, ok := utils.SplitPair(pair)
				if !ok {
					return usageErrorf("invalid assignment %q, expected name=value", pair)
				}
				if _, ok := launcher.LookupOption(name); ok {
					before, _ := opts.Get(name)
					if err := opts.Set(name, value); err != nil {
						return err
					}
					after, _ := opts.Get(name)
					optionsChanged = optionsChanged || after != before
					continue
				}
				if err := file.Set(name, value); err != nil {
					return err
				}
			}

			if !file.NeedsSave() && !optionsChanged {
				fmt.Fprintln(cmd.OutOrStdout(), "No changes.")
				return nil
			}
			if file.NeedsSave() {
				if err := store.Save(cmd.Context(), file, dir); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Saved %s\n", store.Path(dir))
			}
			if optionsChanged {
				if err := config.WriteOptions(a.fs, dir, opts); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Saved %s\n", config.OptionsPath(dir))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&dirFlag, "dir", "", "server directory (default: platform default)")
	return cmd
}

func newSettingsBackupsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "backups [server-directory]",
		Short: "List settings backups kept in object storage",
		Args:  maxArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer a.close()

			if !a.cfg.Storage.Enabled {
				return errors.New("backups are disabled, enable them with --backup or MSC_STORAGE_ENABLED=true")
			}

			dir, err := a.serverDir(args)
			if err != nil {
				return err
			}
			svc, err := a.backups()
			if err != nil {
				return err
			}
			list, err := svc.List(cmd.Context(), dir)
			if err != nil {
				return err
			}
			a.logger.Debug("Listed backups", zap.Int("count", len(list)))

			if len(list) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No backups.")
				return nil
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, b := range list {
				fmt.Fprintf(w, "%s\t%d\t%s\n", b.Key, b.Size, b.LastModified.UTC().Format("2006-01-02 15:04:05"))
			}
			return w.Flush()
		},
	}
}

func maxArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) > n {
			return usageErrorf("expected at most %d argument(s), got %d", n, len(args))
		}
		return nil
	}
}
