// Copyright (c) 2024 Michael D Henderson. All rights reserved.

// Package main implements the kconfig-lsp language server and its debug CLI.
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/maloquacious/semver"
	"github.com/spf13/cobra"

	"github.com/mdhender/kconfig-lsp/internal/config"
)

var (
	version = semver.Version{
		Major: 0,
		Minor: 1,
		Patch: 0,
		Build: semver.Commit(),
	}
	globalConfig *config.Config
)

func main() {
	// if version is on the command line, show it and exit
	for _, arg := range os.Args {
		if arg == "-version" || arg == "--version" {
			fmt.Printf("%s\n", version.Short())
			return
		} else if arg == "-build-info" || arg == "--build-info" {
			fmt.Printf("%s\n", version.String())
			return
		}
	}
	log.SetFlags(log.Lshortfile | log.Ltime)

	const configFileName = "kconfig-lsp.json"
	debugConfigFile := false
	if sb, err := os.Stat(configFileName); err == nil && sb.Mode().IsRegular() {
		debugConfigFile = true
	}
	cfg, err := config.Load(configFileName, debugConfigFile)
	if err != nil && debugConfigFile {
		log.Printf("[config] %q: %v\n", configFileName, err)
	}

	if err := Execute(cfg); err != nil {
		log.Fatal(err)
	}
}

func Execute(cfg *config.Config) error {
	if cfg == nil {
		globalConfig = config.Default()
	} else {
		globalConfig = cfg
	}

	cmdRoot.PersistentFlags().BoolVar(&argsRoot.showVersion, "show-version", false, "show version")
	cmdRoot.PersistentFlags().StringVar(&argsRoot.logFile.name, "log-file", globalConfig.Log.File, "set log file")

	cmdRoot.AddCommand(cmdServe)
	cmdServe.Flags().BoolVar(&argsServe.trace, "trace", globalConfig.Log.Trace, "report trace mode in the startup log line (frames are not logged)")
	cmdServe.Flags().StringVar(&argsServe.historyPath, "history-db", globalConfig.History.Path, "path to the diagnostics-history database")
	cmdServe.Flags().BoolVar(&argsServe.historyEnabled, "history", globalConfig.History.Enabled, "record published diagnostics to the history database")

	cmdRoot.AddCommand(cmdParse)
	cmdParse.Flags().BoolVar(&argsParse.json, "json", false, "emit machine-readable JSON instead of a colorized dump")

	cmdRoot.AddCommand(cmdHistory)
	cmdHistory.PersistentFlags().StringVar(&argsHistory.path, "history-db", globalConfig.History.Path, "path to the diagnostics-history database")
	cmdHistory.AddCommand(cmdHistoryList)
	cmdHistory.AddCommand(cmdHistoryShow)

	cmdRoot.AddCommand(cmdVersion)

	return cmdRoot.Execute()
}

var argsRoot struct {
	logFile struct {
		name string
		fd   *os.File
	}
	showVersion bool
}

var cmdRoot = &cobra.Command{
	Use:   "kconfig-lsp",
	Short: "Language server for Kconfig files",
	Long:  `A language server implementing hover, definition, references, completion, and diagnostics for Kconfig files.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if argsRoot.logFile.name != "" {
			fd, err := os.OpenFile(argsRoot.logFile.name, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
			if err != nil {
				return err
			}
			argsRoot.logFile.fd = fd
			log.SetOutput(argsRoot.logFile.fd)
			argsRoot.showVersion = true
		}
		if argsRoot.showVersion {
			log.Printf("version: %s\n", version)
		}
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if argsRoot.logFile.fd != nil {
			if err := log.Output(2, "log file closed"); err != nil {
				return err
			} else if err = argsRoot.logFile.fd.Close(); err != nil {
				return err
			}
		}
		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
	},
}
