package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/jotter/pkg/core"
)

func (c *cli) newListCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List all notes in collection order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := c.open()
			if err != nil {
				return err
			}
			defer closeStore(repo)

			notes, err := repo.List(c.context(cmd))
			if err != nil {
				return err
			}
			return printNotes(cmd.OutOrStdout(), notes, asJSON)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output in JSON format")
	return cmd
}

func (c *cli) newGetCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "get <id>",
		Short: "Show one note",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := core.ParseID(args[0])
			if err != nil {
				return err
			}

			repo, err := c.open()
			if err != nil {
				return err
			}
			defer closeStore(repo)

			note, err := repo.Get(c.context(cmd), id)
			if err != nil {
				return err
			}
			return printNote(cmd.OutOrStdout(), note, asJSON)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output in JSON format")
	return cmd
}

func (c *cli) newSearchCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "search [query...]",
		Short: "Find notes whose title or content contains the query, ignoring case",
		Long: `Search matches the query as a substring of title or content, ignoring case.
An empty query lists every note.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := c.open()
			if err != nil {
				return err
			}
			defer closeStore(repo)

			notes, err := repo.Search(c.context(cmd), strings.Join(args, " "))
			if err != nil {
				return err
			}
			return printNotes(cmd.OutOrStdout(), notes, asJSON)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output in JSON format")
	return cmd
}

func (c *cli) newCreateCmd() *cobra.Command {
	var in core.CreateInput

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a note and print it as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := c.open()
			if err != nil {
				return err
			}
			defer closeStore(repo)

			note, err := repo.Create(c.context(cmd), in)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), note)
		},
	}

	cmd.Flags().StringVarP(&in.Title, "title", "t", "", "Note title")
	cmd.Flags().StringVarP(&in.Content, "content", "c", "", "Note content")
	cmd.Flags().StringVarP(&c.reason, "message", "m", "", "Change reason recorded with versioning")
	return cmd
}

func (c *cli) newUpdateCmd() *cobra.Command {
	var title, content string

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change the title and/or content of a note",
		Long: `Update replaces only the fields whose flags are given; an empty value
leaves the field unchanged. The note's updatedAt is always refreshed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := core.ParseID(args[0])
			if err != nil {
				return err
			}

			var in core.UpdateInput
			if cmd.Flags().Changed("title") {
				in.Title = core.String(title)
			}
			if cmd.Flags().Changed("content") {
				in.Content = core.String(content)
			}

			repo, err := c.open()
			if err != nil {
				return err
			}
			defer closeStore(repo)

			note, err := repo.Update(c.context(cmd), id, in)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), note)
		},
	}

	cmd.Flags().StringVarP(&title, "title", "t", "", "New title")
	cmd.Flags().StringVarP(&content, "content", "c", "", "New content")
	cmd.Flags().StringVarP(&c.reason, "message", "m", "", "Change reason recorded with versioning")
	return cmd
}

func (c *cli) newDeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a note permanently",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := core.ParseID(args[0])
			if err != nil {
				return err
			}

			repo, err := c.open()
			if err != nil {
				return err
			}
			defer closeStore(repo)

			deleted, err := repo.Delete(c.context(cmd), id)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), deleteResponse{
				Success:   true,
				Message:   deletedMessage,
				DeletedID: deleted.ID,
			})
		},
	}

	cmd.Flags().StringVarP(&c.reason, "message", "m", "", "Change reason recorded with versioning")
	return cmd
}
