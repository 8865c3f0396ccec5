// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package lsp

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mdhender/kconfig-lsp/cerrs"
)

// readMessage reads one Content-Length-framed JSON-RPC message from r
// (spec.md §6 "Transport"). It returns io.EOF unmodified on a clean client
// disconnect so the caller can tell that apart from a framing error.
func readMessage(r *bufio.Reader) ([]byte, error) {
	contentLength := -1
	for {
		line, err := r.ReadString('\n')
		if err != nil {
			if err == io.EOF && line == "" {
				return nil, io.EOF
			}
			return nil, err
		}
		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			break // blank line ends the header block
		}
		name, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		if !strings.EqualFold(strings.TrimSpace(name), "Content-Length") {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil || n < 0 {
			return nil, cerrs.ErrInvalidContentLength
		}
		contentLength = n
	}
	if contentLength < 0 {
		return nil, cerrs.ErrInvalidContentLength
	}

	body := make([]byte, contentLength)
	if _, err := io.ReadFull(r, body); err != nil {
		return nil, err
	}
	return body, nil
}

// writeMessage frames payload with a Content-Length header and writes it to
// w in a single write; w is not flushed here.
func writeMessage(w io.Writer, payload []byte) error {
	_, err := fmt.Fprintf(w, "Content-Length: %d\r\n\r\n%s", len(payload), payload)
	return err
}
