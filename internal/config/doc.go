// Copyright (c) 2024 Michael D Henderson. All rights reserved.

// Package config manages JSON configuration loading for the Kconfig
// language server: the log file path, trace verbosity, the optional sqlite
// diagnostics-history store, and keyword-catalog overrides. Configuration
// is loaded from a kconfig-lsp.json file with sensible defaults.
package config
