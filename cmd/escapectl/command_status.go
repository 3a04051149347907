package main

import (
	"errors"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/SallySoul/escape/internal/workspace"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "List the workspaces recorded in a ledger",
	RunE: func(cmd *cobra.Command, args []string) error {
		return showStatus()
	},
}

func registerStatusCommand(root *cobra.Command) {
	root.AddCommand(statusCmd)
}

func showStatus() error {
	if ledgerPath == "" {
		return errors.New("status needs --ledger")
	}
	if _, err := os.Stat(ledgerPath); err != nil {
		return fmt.Errorf("failed to open ledger: %w", err)
	}

	ledger, err := workspace.OpenLedger(ledgerPath, workspace.NewDirStore(outputRoot))
	if err != nil {
		return err
	}
	defer ledger.Close()

	entries, err := ledger.Entries()
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Println("No workspaces recorded")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tCREATED\tCOMPLETED\tDIR")
	for _, e := range entries {
		completed := "-"
		if !e.CompletedAt.IsZero() {
			completed = e.CompletedAt.Format(time.RFC3339)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", e.ID, e.CreatedAt.Format(time.RFC3339), completed, e.Dir)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Printf("\n✓ %d workspaces\n", len(entries))
	return nil
}
