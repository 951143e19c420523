package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/aretw0/jotter/pkg/core"
)

const deletedMessage = "Note deleted successfully"

// deleteResponse mirrors the confirmation returned for a delete.
type deleteResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	DeletedID int64  `json:"deletedId"`
}

func printJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

func printNotes(w io.Writer, notes []core.Note, asJSON bool) error {
	if asJSON {
		return printJSON(w, notes)
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, n := range notes {
		fmt.Fprintf(tw, "%d\t%s\t%s\n", n.ID, n.Title, n.UpdatedAt.Local().Format(time.DateTime))
	}
	return tw.Flush()
}

func printNote(w io.Writer, n core.Note, asJSON bool) error {
	if asJSON {
		return printJSON(w, n)
	}

	fmt.Fprintf(w, "#%d %s\n\n%s\n\n", n.ID, n.Title, n.Content)
	fmt.Fprintf(w, "created %s, updated %s\n",
		n.CreatedAt.Local().Format(time.DateTime),
		n.UpdatedAt.Local().Format(time.DateTime),
	)
	return nil
}
