// Package lspserver implements §10.10's editor-facing language server: it
// re-runs the typechecker's batch pipeline on every document change and
// reports the result as `textDocument/publishDiagnostics`, plus
// `textDocument/hover` for the inferred type of the term under the
// cursor. It holds no compiler state beyond the last successful typed
// contract per open document — there is no incremental algorithm here,
// matching the compiler's own pure-batch nature; a keystroke just means
// running the whole pipeline again.
package lspserver

import (
	"sync"

	"github.com/tliron/commonlog"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	glspserver "github.com/tliron/glsp/server"

	_ "github.com/tliron/commonlog/simple"

	"github.com/chazu/clc/ir"
	"github.com/chazu/clc/loc"
	"github.com/chazu/clc/surfaceast"
	"github.com/chazu/clc/typecheck"
)

const lspName = "clc-lsp"

// Server bridges LSP editor requests to the typechecker.
type Server struct {
	mu   sync.Mutex
	docs map[string]string       // URI -> last-seen document text (the JSON boundary form)
	last map[string]*ir.Contract // URI -> last successfully typechecked contract, for hover

	handler protocol.Handler
	server  *glspserver.Server
	version string
}

// New creates a language server ready to Run.
func New() *Server {
	s := &Server{
		docs:    make(map[string]string),
		last:    make(map[string]*ir.Contract),
		version: "0.1.0",
	}
	s.handler = protocol.Handler{
		Initialize:  s.initialize,
		Initialized: s.initialized,
		Shutdown:    s.shutdown,
		SetTrace:    s.setTrace,

		TextDocumentDidOpen:   s.textDocumentDidOpen,
		TextDocumentDidChange: s.textDocumentDidChange,
		TextDocumentDidClose:  s.textDocumentDidClose,
		TextDocumentHover:     s.textDocumentHover,
	}
	s.server = glspserver.NewServer(&s.handler, lspName, false)
	return s
}

// Run starts the server on stdio, blocking until the client disconnects.
func (s *Server) Run() error {
	return s.server.RunStdio()
}

func boolPtr(b bool) *bool { return &b }

func (s *Server) initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	commonlog.NewInfoMessage(0, "clc language server initializing")

	capabilities := s.handler.CreateServerCapabilities()
	syncKind := protocol.TextDocumentSyncKindFull
	capabilities.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: boolPtr(true),
		Change:    &syncKind,
	}
	capabilities.HoverProvider = true

	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    lspName,
			Version: &s.version,
		},
	}, nil
}

func (s *Server) initialized(ctx *glsp.Context, params *protocol.InitializedParams) error { return nil }
func (s *Server) shutdown(ctx *glsp.Context) error                                        { return nil }
func (s *Server) setTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error        { return nil }

func (s *Server) textDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	uri := string(params.TextDocument.URI)
	text := params.TextDocument.Text
	s.setDoc(uri, text)
	s.publishDiagnostics(ctx, params.TextDocument.URI, text)
	return nil
}

func (s *Server) textDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	uri := string(params.TextDocument.URI)
	if len(params.ContentChanges) == 0 {
		return nil
	}
	last := params.ContentChanges[len(params.ContentChanges)-1]
	whole, ok := last.(protocol.TextDocumentContentChangeEventWhole)
	if !ok {
		return nil
	}
	s.setDoc(uri, whole.Text)
	s.publishDiagnostics(ctx, params.TextDocument.URI, whole.Text)
	return nil
}

func (s *Server) textDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	uri := string(params.TextDocument.URI)
	s.mu.Lock()
	delete(s.docs, uri)
	delete(s.last, uri)
	s.mu.Unlock()

	go ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         params.TextDocument.URI,
		Diagnostics: []protocol.Diagnostic{},
	})
	return nil
}

func (s *Server) setDoc(uri, text string) {
	s.mu.Lock()
	s.docs[uri] = text
	s.mu.Unlock()
}

// publishDiagnostics re-runs the batch pipeline (JSON boundary decode,
// then typecheck) over text and reports the result. A clean compile
// caches the typed contract for hover and clears any prior diagnostics.
func (s *Server) publishDiagnostics(ctx *glsp.Context, uri protocol.DocumentUri, text string) {
	diagnostics, contract := checkDocument(text)

	s.mu.Lock()
	if contract != nil {
		s.last[string(uri)] = contract
	}
	s.mu.Unlock()

	go ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: diagnostics,
	})
}

// checkDocument decodes text off the JSON boundary and typechecks it,
// translating diag.Bag entries into LSP diagnostics. A decode failure
// (malformed JSON, not a semantic error) is reported the same way, at
// the document's first character, since the untyped decoder carries no
// finer location on a structurally broken document.
func checkDocument(text string) ([]protocol.Diagnostic, *ir.Contract) {
	prog, decodeErr := surfaceast.Decode([]byte(text))
	if decodeErr != nil {
		return []protocol.Diagnostic{diagnosticAt(loc.Span{}, decodeErr.Message)}, nil
	}

	contract, _, bag := typecheck.Check(prog)
	var diagnostics []protocol.Diagnostic
	for _, d := range bag.All() {
		diagnostics = append(diagnostics, diagnosticAt(d.Loc, d.Message))
	}
	if bag.HasErrors() {
		return diagnostics, nil
	}
	return diagnostics, contract
}

func diagnosticAt(span loc.Span, message string) protocol.Diagnostic {
	severity := protocol.DiagnosticSeverityError
	source := lspName
	return protocol.Diagnostic{
		Range:    spanToRange(span),
		Severity: &severity,
		Source:   &source,
		Message:  message,
	}
}

// spanToRange converts loc's 1-based line/column pair to LSP's 0-based
// line/character pair. A zero span (synthesized location) collapses to
// the document's first character.
func spanToRange(span loc.Span) protocol.Range {
	toPos := func(p loc.Pos) protocol.Position {
		if p.Zero() {
			return protocol.Position{Line: 0, Character: 0}
		}
		return protocol.Position{Line: uint32(p.Line - 1), Character: uint32(p.Column - 1)}
	}
	return protocol.Range{Start: toPos(span.Start), End: toPos(span.End)}
}

func (s *Server) textDocumentHover(ctx *glsp.Context, params *protocol.HoverParams) (*protocol.Hover, error) {
	uri := string(params.TextDocument.URI)
	s.mu.Lock()
	contract := s.last[uri]
	s.mu.Unlock()
	if contract == nil {
		return nil, nil
	}

	line := int(params.Position.Line) + 1
	col := int(params.Position.Character) + 1
	term := findTermAt(contract, line, col)
	if term == nil || term.Ty == nil {
		return nil, nil
	}

	return &protocol.Hover{
		Contents: protocol.MarkupContent{
			Kind:  protocol.MarkupKindPlainText,
			Value: term.Ty.String(),
		},
	}, nil
}

// findTermAt returns the smallest (most deeply nested) term in contract
// whose source span covers (line, col), or nil if the cursor sits over
// no term at all (whitespace, punctuation the untyped AST doesn't carry
// a node for).
func findTermAt(contract *ir.Contract, line, col int) *ir.Term {
	var best *ir.Term
	var walk func(t *ir.Term)
	walk = func(t *ir.Term) {
		if t == nil {
			return
		}
		if spanContains(t.Loc, line, col) {
			if best == nil || spanNarrower(t.Loc, best.Loc) {
				best = t
			}
		}
		for _, c := range ir.Children(t) {
			walk(c)
		}
	}
	for _, g := range contract.Globals {
		walk(g.Value)
	}
	for _, e := range contract.Entries {
		walk(e.Body)
	}
	return best
}

func spanContains(span loc.Span, line, col int) bool {
	if span.Start.Zero() && span.End.Zero() {
		return false
	}
	if line < span.Start.Line || (line == span.Start.Line && col < span.Start.Column) {
		return false
	}
	if line > span.End.Line || (line == span.End.Line && col > span.End.Column) {
		return false
	}
	return true
}

func spanNarrower(a, b loc.Span) bool {
	widthOf := func(s loc.Span) int {
		return (s.End.Line-s.Start.Line)*1_000_000 + (s.End.Column - s.Start.Column)
	}
	return widthOf(a) < widthOf(b)
}
