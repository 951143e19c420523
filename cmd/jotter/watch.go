package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/aretw0/jotter/pkg/adapters/lifecycle"
	"github.com/aretw0/jotter/pkg/core"
)

func (c *cli) newWatchCmd() *cobra.Command {
	var pattern string

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Print changes to the data file until interrupted",
		Long: `Watch reports every change to the data file made by any process and prints
the number of notes after each change. Stop it with Ctrl+C.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := c.open()
			if err != nil {
				return err
			}
			defer closeStore(repo)

			watchable, ok := repo.Store().(core.Watchable)
			if !ok {
				return fmt.Errorf("adapter %q does not support watching", c.settings.Adapter)
			}

			ctx, stop := signal.NotifyContext(c.context(cmd), os.Interrupt, syscall.SIGTERM)
			defer stop()

			events, err := watchable.Watch(ctx, pattern)
			if err != nil {
				return fmt.Errorf("%w: %w", core.ErrStore, err)
			}

			src := lifecycle.NewSource(events)
			if err := src.Start(ctx); err != nil {
				return fmt.Errorf("%w: %w", core.ErrStore, err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "watching %s\n", c.settings.File)
			for e := range src.Events() {
				notes, err := repo.List(ctx)
				if err != nil {
					// Mid-write or corrupt; report and keep watching.
					c.logger.Warn("reload failed", "event", e.String(), "error", err)
					fmt.Fprintf(out, "%s (reload failed)\n", e)
					continue
				}
				fmt.Fprintf(out, "%s (%d notes)\n", e, len(notes))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&pattern, "pattern", "p", "", "Glob of files to watch in the data directory (default: the data file)")
	return cmd
}
