// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package lsp

import (
	"bufio"
	"encoding/json"
	"io"
	"log"
	"sync"

	"github.com/google/uuid"

	"github.com/mdhender/kconfig-lsp/internal/document"
	"github.com/mdhender/kconfig-lsp/internal/history"
	"github.com/mdhender/kconfig-lsp/internal/query"
)

// Server is the JSON-RPC/stdio adapter. Per spec.md §5, message handling is
// single-threaded and strictly ordered: Serve's loop reads one frame,
// handles it to completion, and only then reads the next.
type Server struct {
	in  *bufio.Reader
	out io.Writer

	outMu sync.Mutex // guards writes to out

	ws   *document.Workspace
	qe   *query.Engine
	hist *history.Store

	sessionID uuid.UUID
	batchSeq  int

	initialized bool
	shutdown    bool
	exited      bool
}

// Option configures a Server at construction time.
type Option func(*Server)

// WithHistoryStore enables persisting published diagnostics batches to an
// already-open history.Store. Passing nil (the default) disables history.
func WithHistoryStore(s *history.Store) Option {
	return func(srv *Server) { srv.hist = s }
}

// WithHoverCacheSize overrides the query engine's hover-markdown cache
// capacity (default 256).
func WithHoverCacheSize(n int) Option {
	return func(srv *Server) { srv.qe = query.NewEngine(srv.ws, n) }
}

// New builds a Server reading JSON-RPC frames from in and writing responses
// and notifications to out.
func New(in io.Reader, out io.Writer, opts ...Option) *Server {
	s := &Server{
		in:        bufio.NewReader(in),
		out:       out,
		ws:        document.NewWorkspace(),
		sessionID: uuid.New(),
	}
	s.qe = query.NewEngine(s.ws, 256)
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Serve runs the read-dispatch loop until the client disconnects or sends
// exit. Returns nil on a clean shutdown, a non-zero-worthy error otherwise
// (spec.md §6: "non-zero on unrecoverable I/O error").
func (s *Server) Serve() error {
	log.Printf("[lsp] session %s starting\n", s.sessionID)
	defer log.Printf("[lsp] session %s ending\n", s.sessionID)

	for {
		payload, err := readMessage(s.in)
		if err == io.EOF {
			log.Printf("[lsp] client disconnected\n")
			return nil
		}
		if err != nil {
			log.Printf("[lsp] frame error: %v\n", err)
			return err
		}

		var req requestMessage
		if err := json.Unmarshal(payload, &req); err != nil {
			log.Printf("[lsp] malformed json-rpc frame: %v\n", err)
			s.writeResponse(nil, nil, &responseError{Code: errParseError, Message: "parse error"})
			continue
		}

		s.dispatch(req)
		if s.exited {
			return nil
		}
	}
}

func (s *Server) writeResponse(id json.RawMessage, result any, rpcErr *responseError) {
	payload, err := json.Marshal(responseMessage{JSONRPC: "2.0", ID: id, Result: result, Error: rpcErr})
	if err != nil {
		log.Printf("[lsp] failed to marshal response: %v\n", err)
		return
	}
	s.outMu.Lock()
	defer s.outMu.Unlock()
	if err := writeMessage(s.out, payload); err != nil {
		log.Printf("[lsp] failed to write response: %v\n", err)
	}
}

func (s *Server) writeNotification(method string, params any) {
	type notification struct {
		JSONRPC string `json:"jsonrpc"`
		Method  string `json:"method"`
		Params  any    `json:"params,omitempty"`
	}
	payload, err := json.Marshal(notification{JSONRPC: "2.0", Method: method, Params: params})
	if err != nil {
		log.Printf("[lsp] failed to marshal notification: %v\n", err)
		return
	}
	s.outMu.Lock()
	defer s.outMu.Unlock()
	if err := writeMessage(s.out, payload); err != nil {
		log.Printf("[lsp] failed to write notification: %v\n", err)
	}
}
