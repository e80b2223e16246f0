package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// configCmd groups configuration subcommands; alone it prints help.
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect jsonpeek configuration",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return cmd.Help()
	},
}

var configGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Show the merged configuration as YAML",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		data, err := appConfig.Marshal()
		if err != nil {
			return fmt.Errorf("encode config: %w", err)
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}

var configThemesCmd = &cobra.Command{
	Use:     "themes",
	Aliases: []string{"theme"},
	Short:   "List the configured display modes, starring the active one",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		active, err := activeTheme()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for _, name := range appConfig.ThemeNames() {
			marker := " "
			if name == active {
				marker = "*"
			}
			if _, err := fmt.Fprintf(out, "%s %s\n", marker, name); err != nil {
				return err
			}
		}
		return nil
	},
}

// activeTheme is the mode the viewer starts in: the one last chosen with the
// theme toggle when history is enabled, otherwise the configured default.
func activeTheme() (string, error) {
	def := appConfig.UI.Theme.Default
	store, err := openHistory()
	if err != nil || store == nil {
		return def, err
	}
	defer func() { _ = store.Close() }()
	name, err := store.Theme(def)
	if err != nil {
		return "", fmt.Errorf("read theme: %w", err)
	}
	if _, ok := appConfig.UI.Themes[name]; !ok {
		return def, nil
	}
	return name, nil
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show the config file and history database in use",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		file := appConfigPath
		if file == "" {
			file = "(built-in defaults)"
		}
		historyPath, err := appConfig.HistoryPath()
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(cmd.OutOrStdout(), "config: %s\nhistory: %s\n", file, historyPath)
		return err
	},
}

func init() { //nolint:gochecknoinits
	configCmd.AddCommand(configGetCmd, configThemesCmd, configPathCmd)
	rootCmd.AddCommand(configCmd)
}
