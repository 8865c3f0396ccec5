// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package config

import (
	"encoding/json"
	"errors"
	"log"
	"os"
	"reflect"

	"github.com/mdhender/kconfig-lsp/cerrs"
)

// Config holds server-wide settings. It is loaded once at startup and
// shared read-only afterward (spec.md §5: the document set, not this
// struct, is what gets mutated during a session).
type Config struct {
	Log     Log_t     `json:"Log"`
	History History_t `json:"History"`
	Catalog Catalog_t `json:"Catalog"`
}

// Log_t controls where the server logs and how chatty it is.
type Log_t struct {
	File  string `json:"File,omitempty"`  // empty means stderr
	Trace bool   `json:"Trace,omitempty"` // default for serve --trace; only reported in serve's startup log line, frames are not logged
}

// History_t controls the optional sqlite-backed diagnostics-history store.
type History_t struct {
	Enabled bool   `json:"Enabled,omitempty"`
	Path    string `json:"Path,omitempty"`
}

// Catalog_t overrides the static keyword catalog (internal/catalog).
type Catalog_t struct {
	// AllowLegacyHelp is loaded but not read anywhere: the parser always
	// warns on the legacy "---help---" spelling. Default true. Load copies
	// only non-zero fields, so a false in the file leaves it true.
	AllowLegacyHelp bool `json:"AllowLegacyHelp,omitempty"`
}

const (
	ErrIsDirectory = cerrs.Error("is directory")
	ErrIsNotAFile  = cerrs.Error("is not a file")
)

// Default returns the configuration used when no config file is present.
func Default() *Config {
	return &Config{
		History: History_t{
			Path: "kconfig-lsp-history.db",
		},
		Catalog: Catalog_t{
			AllowLegacyHelp: true,
		},
	}
}

// Load reads name as JSON and overlays its non-zero fields onto Default().
// A missing file, an unreadable file, or invalid JSON is logged (when debug
// is true) and yields the defaults with a nil error — the server should
// still come up with sane behavior if the editor launches it before a
// project config exists. A directory or other non-regular file yields the
// defaults together with ErrIsDirectory or ErrIsNotAFile.
func Load(name string, debug bool) (*Config, error) {
	if debug {
		log.Printf("[config] %q: loading configuration...\n", name)
	}
	cfg := Default()
	if sb, err := os.Stat(name); errors.Is(err, os.ErrNotExist) || os.IsNotExist(err) {
		if debug {
			log.Printf("[config] %q: %v\n", name, err)
		}
		return cfg, nil
	} else if sb.Mode().IsDir() {
		return cfg, ErrIsDirectory
	} else if !sb.Mode().IsRegular() {
		return cfg, ErrIsNotAFile
	}

	var tmp Config
	if data, err := os.ReadFile(name); err != nil {
		if debug {
			log.Printf("[config] %q: %v\n", name, err)
		}
		return cfg, nil
	} else if err = json.Unmarshal(data, &tmp); err != nil {
		if debug {
			log.Printf("[config] %q: %v\n", name, err)
		}
		return cfg, nil
	} else if debug {
		if nice, err := json.MarshalIndent(tmp, "", "  "); err == nil {
			log.Printf("[config] %s\n", nice)
		} else {
			log.Printf("[config] %q: loaded %s\n", name, string(data))
		}
	}

	copyNonZeroFields(&tmp, cfg)

	return cfg, nil
}

// copyNonZeroFields recursively copies non-zero fields from src to dst using
// reflection, so a config file only needs to mention the settings it wants
// to override.
func copyNonZeroFields(src, dst interface{}) {
	srcVal := reflect.ValueOf(src)
	dstVal := reflect.ValueOf(dst)

	if srcVal.Kind() == reflect.Ptr {
		srcVal = srcVal.Elem()
	}
	if dstVal.Kind() == reflect.Ptr {
		dstVal = dstVal.Elem()
	}

	if srcVal.Kind() != reflect.Struct || dstVal.Kind() != reflect.Struct {
		return
	}

	for i := 0; i < srcVal.NumField(); i++ {
		srcField := srcVal.Field(i)
		dstField := dstVal.Field(i)

		if !srcField.CanInterface() || !dstField.CanSet() {
			continue
		}
		if srcField.IsZero() {
			continue
		}

		switch srcField.Kind() {
		case reflect.Struct:
			copyNonZeroFields(srcField.Interface(), dstField.Addr().Interface())
		default:
			dstField.Set(srcField)
		}
	}
}
