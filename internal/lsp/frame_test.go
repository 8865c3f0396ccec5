// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package lsp

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/mdhender/kconfig-lsp/cerrs"
)

func TestReadMessage_RoundTripsWriteMessage(t *testing.T) {
	var buf bytes.Buffer
	payload := []byte(`{"jsonrpc":"2.0","method":"initialized"}`)
	if err := writeMessage(&buf, payload); err != nil {
		t.Fatalf("writeMessage: %v", err)
	}

	got, err := readMessage(bufio.NewReader(&buf))
	if err != nil {
		t.Fatalf("readMessage: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Fatalf("readMessage = %q, want %q", got, payload)
	}
}

func TestReadMessage_EOFOnEmptyStream(t *testing.T) {
	_, err := readMessage(bufio.NewReader(&bytes.Buffer{}))
	if !errors.Is(err, io.EOF) {
		t.Fatalf("readMessage on empty stream: got %v, want io.EOF", err)
	}
}

func TestReadMessage_MissingContentLengthIsAnError(t *testing.T) {
	r := bufio.NewReader(strings.NewReader("X-Custom: 1\r\n\r\n{}"))
	_, err := readMessage(r)
	if !errors.Is(err, cerrs.ErrInvalidContentLength) {
		t.Fatalf("readMessage with no Content-Length: got %v, want ErrInvalidContentLength", err)
	}
}
