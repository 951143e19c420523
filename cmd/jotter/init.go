package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (c *cli) newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Prepare the data directory (and git repository with --versioning)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := c.open()
			if err != nil {
				return err
			}
			defer closeStore(repo)

			fmt.Fprintf(cmd.OutOrStdout(), "initialized %s (%s)\n", c.settings.File, c.settings.Adapter)
			return nil
		},
	}
}
