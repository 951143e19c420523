package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/jotter/pkg/core"
)

// historian is implemented by stores that record each change.
type historian interface {
	History(ctx context.Context, limit int) ([]string, error)
}

func (c *cli) newHistoryCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded changes (requires --versioning)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := c.open()
			if err != nil {
				return err
			}
			defer closeStore(repo)

			h, ok := repo.Store().(historian)
			if !ok {
				return fmt.Errorf("adapter %q does not record history", c.settings.Adapter)
			}

			entries, err := h.History(c.context(cmd), limit)
			if err != nil {
				return fmt.Errorf("%w: %w", core.ErrStore, err)
			}
			for _, e := range entries {
				fmt.Fprintln(cmd.OutOrStdout(), e)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of entries")
	return cmd
}
