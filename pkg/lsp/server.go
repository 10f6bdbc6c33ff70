// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package lsp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"

	"go.lsp.dev/jsonrpc2"
	"go.lsp.dev/protocol"
	"go.lsp.dev/uri"
	"go.uber.org/zap"

	"github.com/consensys/mlogls/pkg/config"
	"github.com/consensys/mlogls/pkg/mlog"
	"github.com/consensys/mlogls/pkg/mlog/flow"
)

// Name identifies this server to clients.
const Name = "mlogls"

// session holds everything the server knows about one open document.
type session struct {
	text string
	// lines is text split per physical line, kept for column conversion.
	lines       []string
	version     int32
	document    *mlog.Document
	diagnostics []mlog.Diagnostic
}

// Server implements the language protocol over a single JSON-RPC connection.
// Documents are synchronised whole (full text on every change) and reanalysed
// eagerly: an mlog file is a few hundred lines at most, so there is nothing to
// debounce.
type Server struct {
	conn     jsonrpc2.Conn
	logger   *zap.Logger
	cfg      config.Config
	mu       sync.Mutex
	sessions map[uri.URI]*session
	shutdown bool
}

// NewServer constructs a server around a given configuration.
func NewServer(cfg config.Config, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	//
	return &Server{
		logger:   logger,
		cfg:      cfg,
		sessions: make(map[uri.URI]*session),
	}
}

// Serve runs the protocol over rwc until the client disconnects or asks to
// exit.
func (s *Server) Serve(ctx context.Context, rwc io.ReadWriteCloser) error {
	conn := jsonrpc2.NewConn(jsonrpc2.NewStream(rwc))
	s.conn = conn
	//
	conn.Go(ctx, s.handle)
	<-conn.Done()
	//
	if err := conn.Err(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("connection failed: %w", err)
	}
	//
	return nil
}

// handle dispatches one incoming request or notification.
func (s *Server) handle(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	s.logger.Debug("request", zap.String("method", req.Method()))
	//
	switch req.Method() {
	case protocol.MethodInitialize:
		var params protocol.InitializeParams
		if err := json.Unmarshal(req.Params(), &params); err != nil {
			return replyParseError(ctx, reply, err)
		}
		//
		return reply(ctx, s.initialize(&params), nil)
	case protocol.MethodInitialized:
		return reply(ctx, nil, nil)
	case protocol.MethodShutdown:
		s.mu.Lock()
		s.shutdown = true
		s.mu.Unlock()
		//
		return reply(ctx, nil, nil)
	case protocol.MethodExit:
		err := reply(ctx, nil, nil)
		// Closing the connection unblocks Serve.
		s.conn.Close()
		//
		return err
	case protocol.MethodTextDocumentDidOpen:
		var params protocol.DidOpenTextDocumentParams
		if err := json.Unmarshal(req.Params(), &params); err != nil {
			return replyParseError(ctx, reply, err)
		}
		//
		s.publish(ctx, s.update(params.TextDocument.URI, params.TextDocument.Text, params.TextDocument.Version))
		//
		return reply(ctx, nil, nil)
	case protocol.MethodTextDocumentDidChange:
		var params protocol.DidChangeTextDocumentParams
		if err := json.Unmarshal(req.Params(), &params); err != nil {
			return replyParseError(ctx, reply, err)
		}
		// Full synchronisation: the last change event carries the whole text.
		if n := len(params.ContentChanges); n > 0 {
			text := params.ContentChanges[n-1].Text
			s.publish(ctx, s.update(params.TextDocument.URI, text, params.TextDocument.Version))
		}
		//
		return reply(ctx, nil, nil)
	case protocol.MethodTextDocumentDidClose:
		var params protocol.DidCloseTextDocumentParams
		if err := json.Unmarshal(req.Params(), &params); err != nil {
			return replyParseError(ctx, reply, err)
		}
		//
		s.publish(ctx, s.close(params.TextDocument.URI))
		//
		return reply(ctx, nil, nil)
	case protocol.MethodTextDocumentFormatting:
		var params protocol.DocumentFormattingParams
		if err := json.Unmarshal(req.Params(), &params); err != nil {
			return replyParseError(ctx, reply, err)
		}
		//
		return reply(ctx, s.formatting(&params), nil)
	case protocol.MethodTextDocumentCompletion:
		var params protocol.CompletionParams
		if err := json.Unmarshal(req.Params(), &params); err != nil {
			return replyParseError(ctx, reply, err)
		}
		//
		return reply(ctx, s.completion(&params), nil)
	case protocol.MethodTextDocumentHover:
		var params protocol.HoverParams
		if err := json.Unmarshal(req.Params(), &params); err != nil {
			return replyParseError(ctx, reply, err)
		}
		//
		return reply(ctx, s.hover(&params), nil)
	default:
		return jsonrpc2.MethodNotFoundHandler(ctx, reply, req)
	}
}

// initialize declares what this server can do.
func (s *Server) initialize(params *protocol.InitializeParams) *protocol.InitializeResult {
	s.logger.Info("initialize", zap.String("client", clientName(params)))
	//
	return &protocol.InitializeResult{
		Capabilities: protocol.ServerCapabilities{
			TextDocumentSync: protocol.TextDocumentSyncOptions{
				OpenClose: true,
				Change:    protocol.TextDocumentSyncKindFull,
			},
			DocumentFormattingProvider: true,
			HoverProvider:              true,
			CompletionProvider: &protocol.CompletionOptions{
				TriggerCharacters: []string{" "},
			},
		},
		ServerInfo: &protocol.ServerInfo{Name: Name},
	}
}

// update reparses and reanalyses a document, returning the diagnostics to
// publish for it.
func (s *Server) update(docURI protocol.DocumentURI, text string, version int32) protocol.PublishDiagnosticsParams {
	document, diagnostics := mlog.Parse(text)
	//
	_, flowDiagnostics := flow.Analyze(document)
	diagnostics = s.cfg.Check.Filter(append(diagnostics, flowDiagnostics...))
	//
	lines := splitLines(text)
	//
	s.mu.Lock()
	s.sessions[uri.URI(docURI)] = &session{
		text:        text,
		lines:       lines,
		version:     version,
		document:    document,
		diagnostics: diagnostics,
	}
	s.mu.Unlock()
	//
	s.logger.Debug("analyzed",
		zap.String("uri", string(docURI)),
		zap.Int("nodes", document.Len()),
		zap.Int("diagnostics", len(diagnostics)))
	//
	return protocol.PublishDiagnosticsParams{
		URI:         docURI,
		Version:     uint32(version),
		Diagnostics: toProtocolDiagnostics(lines, diagnostics),
	}
}

// close forgets a document; publishing the empty set clears its diagnostics
// on the client.
func (s *Server) close(docURI protocol.DocumentURI) protocol.PublishDiagnosticsParams {
	s.mu.Lock()
	delete(s.sessions, uri.URI(docURI))
	s.mu.Unlock()
	//
	return protocol.PublishDiagnosticsParams{
		URI:         docURI,
		Diagnostics: []protocol.Diagnostic{},
	}
}

// formatting renders the whole document and returns it as a single edit
// spanning the original text.
func (s *Server) formatting(params *protocol.DocumentFormattingParams) []protocol.TextEdit {
	sess := s.session(params.TextDocument.URI)
	if sess == nil {
		return nil
	}
	//
	formatted := formatSession(sess, s.cfg.Format, &params.Options)
	if formatted == sess.text {
		return []protocol.TextEdit{}
	}
	//
	return []protocol.TextEdit{{
		Range: protocol.Range{
			Start: protocol.Position{Line: 0, Character: 0},
			End:   endPosition(sess.text),
		},
		NewText: formatted,
	}}
}

// session returns the live state for a document, if it is open.
func (s *Server) session(docURI protocol.DocumentURI) *session {
	s.mu.Lock()
	defer s.mu.Unlock()
	//
	return s.sessions[uri.URI(docURI)]
}

func replyParseError(ctx context.Context, reply jsonrpc2.Replier, err error) error {
	return reply(ctx, nil, fmt.Errorf("%w: %s", jsonrpc2.ErrParse, err))
}

// publish pushes a diagnostics notification; a nil connection (as in tests)
// keeps the computation but skips the wire.
func (s *Server) publish(ctx context.Context, params protocol.PublishDiagnosticsParams) {
	if s.conn == nil {
		return
	}
	//
	if err := s.conn.Notify(ctx, protocol.MethodTextDocumentPublishDiagnostics, &params); err != nil {
		s.logger.Warn("failed to publish diagnostics",
			zap.String("uri", string(params.URI)), zap.Error(err))
	}
}

func clientName(params *protocol.InitializeParams) string {
	if params.ClientInfo != nil {
		return params.ClientInfo.Name
	}
	//
	return "unknown"
}

// endPosition locates the position just past the final rune of text, in the
// protocol's UTF-16 columns.
func endPosition(text string) protocol.Position {
	var (
		line      uint32
		character uint32
	)
	//
	for _, r := range text {
		if r == '\n' {
			line++
			character = 0
		} else {
			character += utf16Width(r)
		}
	}
	//
	return protocol.Position{Line: line, Character: character}
}

// splitLines splits source text into its physical lines, matching the
// parser's line numbering.
func splitLines(text string) []string {
	lines := strings.Split(text, "\n")
	//
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	//
	return lines
}
