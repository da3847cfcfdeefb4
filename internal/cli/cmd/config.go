package cmd

import (
	"fmt"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"fordownload/internal/config"
	"fordownload/internal/dirs"
)

func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or initialise the configuration file",
	}
	cmd.AddCommand(&cobra.Command{
		Use:           "show",
		Short:         "Print the resolved settings",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			if f := a.v.ConfigFileUsed(); f != "" {
				fmt.Fprintf(out, "# %s\n", f)
			}
			all := a.v.AllSettings()
			keys := make([]string, 0, len(all))
			for k := range all {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				fmt.Fprintf(out, "%s: %v\n", k, all[k])
			}
			return nil
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:           "init",
		Short:         "Write the current settings to the default config file",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, err := dirs.ConfigFile()
			if err != nil {
				return fail(err)
			}
			if err := dirs.Ensure(filepath.Dir(path)); err != nil {
				return fail(err)
			}
			if err := settingsToWrite(a).SafeWriteConfigAs(path); err != nil {
				return fail(fmt.Errorf("write %s: %w", path, err))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			return nil
		},
	})
	return cmd
}

// settingsToWrite copies the resolved settings for "config init". An unset
// quality is left out; writing its zero value would read back as explicit.
func settingsToWrite(a *app) *viper.Viper {
	out := viper.New()
	for k, val := range a.v.AllSettings() {
		if k == config.KeyQuality && !a.settings.QualitySet {
			continue
		}
		out.Set(k, val)
	}
	return out
}
