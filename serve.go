// Copyright (c) 2024 Michael D Henderson. All rights reserved.

package main

import (
	"context"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/mdhender/kconfig-lsp/internal/history"
	"github.com/mdhender/kconfig-lsp/internal/lsp"
	"github.com/mdhender/kconfig-lsp/internal/stdlib"
)

var argsServe struct {
	trace          bool
	historyPath    string
	historyEnabled bool
}

var cmdServe = &cobra.Command{
	Use:   "serve",
	Short: "run the language server",
	Long:  `Run the Kconfig language server, speaking JSON-RPC 2.0 over stdin/stdout.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		var opts []lsp.Option

		if argsServe.historyEnabled {
			store, err := openOrCreateHistory(argsServe.historyPath)
			if err != nil {
				log.Printf("[history] %s: %v\n", argsServe.historyPath, err)
			} else {
				opts = append(opts, lsp.WithHistoryStore(store))
				defer store.Close()
			}
		}

		log.Printf("[lsp] serving on stdin/stdout (history=%v, trace=%v)\n", argsServe.historyEnabled, argsServe.trace)
		s := lsp.New(os.Stdin, os.Stdout, opts...)
		if err := s.Serve(); err != nil {
			log.Printf("[lsp] %v\n", err)
			os.Exit(1)
		}
		return nil
	},
}

// openOrCreateHistory opens the history database at path, creating it
// first if it doesn't yet exist.
func openOrCreateHistory(path string) (*history.Store, error) {
	ctx := context.Background()
	if ok, err := stdlib.IsFileExists(path); err != nil {
		return nil, err
	} else if !ok {
		if err := history.Create(path, ctx); err != nil {
			return nil, err
		}
	}
	return history.Open(path, ctx)
}
