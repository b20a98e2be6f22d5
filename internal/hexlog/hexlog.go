// Package hexlog is the injected logger SPEC_FULL.md §10 specifies in
// place of the teacher's package-level log.Printf/log.Fatal calls
// (cmd/chessplay-uci/main.go, internal/engine/engine.go,
// internal/engine/worker.go) — Design Notes §9 "Global state" asks for
// configuration and logging to be per-search values, not globals, so
// this wraps the same standard-library *log.Logger the teacher uses
// behind a small interface that gets passed down instead of called as
// a package global.
package hexlog

import (
	"fmt"
	"io"
	"log"
	"os"
)

// Logger is the interface the engine, protocol front end and search
// components depend on. Nothing below this package imports "log"
// directly.
type Logger interface {
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	// Fatalf logs a resource/consistency error (spec §7) and terminates
	// the process — the Go analog of the teacher's log.Fatal.
	Fatalf(format string, args ...any)
}

// StdLogger wraps a standard library *log.Logger with level-prefixed
// helpers, matching the plain Printf-style calls scattered through the
// teacher's cmd/chessplay-uci/main.go and internal/engine package.
type StdLogger struct {
	l *log.Logger
}

// New creates a StdLogger writing to w with the standard log flags
// (date/time prefix), mirroring the teacher's use of the default
// log.Logger rather than a structured logging library — no such library
// is ever directly imported by the teacher's own code (SPEC_FULL.md
// §10).
func New(w io.Writer) *StdLogger {
	return &StdLogger{l: log.New(w, "", log.LstdFlags)}
}

// Default returns a StdLogger writing to stderr, the teacher's own
// destination for "info string"/warning output in the UCI handler.
func Default() *StdLogger {
	return New(os.Stderr)
}

func (s *StdLogger) Infof(format string, args ...any) {
	s.l.Printf("info: "+format, args...)
}

func (s *StdLogger) Warnf(format string, args ...any) {
	s.l.Printf("warn: "+format, args...)
}

func (s *StdLogger) Fatalf(format string, args ...any) {
	s.l.Fatalf("fatal: "+format, args...)
}

// FatalError distinguishes a resource/consistency error (pattern file
// absent or malformed, an invariant violated in a debug build) from
// ordinary protocol and rules errors (spec §7): the entry point checks
// for this type and calls Logger.Fatalf with full context instead of
// just reporting the error back to the client.
type FatalError struct {
	Msg string
	Err error
}

func (e *FatalError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *FatalError) Unwrap() error { return e.Err }
