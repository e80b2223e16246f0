package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/oakwood-commons/jsonpeek/internal/history"
)

var historyLimit int

// historyCmd lists the URL history when run without a subcommand.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show or edit the URL history",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return historyListCmd.RunE(cmd, args)
	},
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List fetched addresses, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withHistory(func(store history.Store) error {
			entries, err := store.List(historyLimit)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, e := range entries {
				if _, err := fmt.Fprintf(out, "%s\t%s\n", e.AddedAt.Local().Format(time.DateTime), e.Address); err != nil {
					return err
				}
			}
			return nil
		})
	},
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every address from the history",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withHistory(func(store history.Store) error {
			if err := store.Clear(); err != nil {
				return err
			}
			_, err := fmt.Fprintln(cmd.OutOrStdout(), "History cleared.")
			return err
		})
	},
}

var historyRemoveCmd = &cobra.Command{
	Use:     "remove <address>",
	Aliases: []string{"rm"},
	Short:   "Remove one address from the history",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withHistory(func(store history.Store) error {
			err := store.Remove(args[0])
			if errors.Is(err, history.ErrNotFound) {
				return fmt.Errorf("%q is not in the history", args[0])
			}
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", args[0])
			return err
		})
	},
}

// withHistory opens the configured store for the duration of fn.
func withHistory(fn func(history.Store) error) error {
	store, err := openHistory()
	if err != nil {
		return err
	}
	if store == nil {
		return errors.New("history is disabled in the configuration")
	}
	defer func() { _ = store.Close() }()
	return fn(store)
}

// openHistory opens the store at the configured path. It returns nil, nil
// when history is disabled.
func openHistory() (*history.DB, error) {
	if !historyEnabled() {
		return nil, nil
	}
	path, err := appConfig.HistoryPath()
	if err != nil {
		return nil, err
	}
	store, err := history.Open(path, appConfig.History.Limit)
	if err != nil {
		return nil, fmt.Errorf("open history: %w", err)
	}
	return store, nil
}

func init() { //nolint:gochecknoinits
	historyListCmd.Flags().IntVarP(&historyLimit, "limit", "n", 0, "show at most n entries (0 = all)")
	historyCmd.Flags().AddFlagSet(historyListCmd.Flags())
	historyCmd.AddCommand(historyListCmd, historyClearCmd, historyRemoveCmd)
	rootCmd.AddCommand(historyCmd)
}
