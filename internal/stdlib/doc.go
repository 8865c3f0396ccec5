// Copyright (c) 2024 Michael D Henderson. All rights reserved.

// Package stdlib provides small filesystem utilities shared by the
// diagnostics history store and the serve command: generic existence-checking
// functions for directories and files.
package stdlib
