// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/mdhender/kconfig-lsp/internal/history"
)

var argsHistory struct {
	path string
}

var cmdHistory = &cobra.Command{
	Use:   "history",
	Short: "inspect the optional diagnostics-history database",
	Long:  `Read-only inspection of the sqlite diagnostics-history database a serve session may have recorded to.`,
}

var cmdHistoryList = &cobra.Command{
	Use:   "list",
	Short: "list every URI with a recorded diagnostics batch",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := history.Open(argsHistory.path, context.Background())
		if err != nil {
			return err
		}
		defer store.Close()

		uris, err := store.URIs()
		if err != nil {
			return err
		}
		for _, uri := range uris {
			latest, err := store.LatestBatch(uri)
			if err != nil {
				return err
			}
			if latest == nil {
				continue
			}
			when := time.Unix(latest.PublishedAt, 0).UTC().Format(time.RFC3339)
			fmt.Fprintf(cmd.OutOrStdout(), "%s  version=%d  diagnostics=%d  published=%s\n", uri, latest.Version, latest.DiagnosticCount, when)
		}
		return nil
	},
}

var cmdHistoryShow = &cobra.Command{
	Use:   "show <uri>",
	Short: "show every recorded diagnostics batch for a URI",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := history.Open(argsHistory.path, context.Background())
		if err != nil {
			return err
		}
		defer store.Close()

		batches, err := store.BatchesForURI(args[0])
		if err != nil {
			return err
		}
		if len(batches) == 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "no recorded batches for %s\n", args[0])
			return nil
		}
		for _, b := range batches {
			when := time.Unix(b.PublishedAt, 0).UTC().Format(time.RFC3339)
			fmt.Fprintf(cmd.OutOrStdout(), "version %d (published %s)\n", b.Version, when)
			for _, d := range b.Diagnostics {
				fmt.Fprintf(cmd.OutOrStdout(), "  %d:%d %s[%s]: %s\n", d.Line, d.Col, d.Severity, d.Source, d.Message)
			}
		}
		return nil
	},
}
