// Package cli holds the flag handling shared by the demo binaries.
package cli

import (
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/wippyai/lang-concepts/console"
	"github.com/wippyai/lang-concepts/heap"
	"github.com/wippyai/lang-concepts/memdemo"
	"github.com/wippyai/lang-concepts/resource"
)

// SetupLogging installs a development logger in every package that logs
// when verbose is set. It writes to path, or to stderr when path is empty.
// The returned sync func flushes it.
func SetupLogging(verbose bool, path string) (func(), error) {
	if !verbose {
		return func() {}, nil
	}

	cfg := zap.NewDevelopmentConfig()
	if path != "" {
		cfg.OutputPaths = []string{path}
		cfg.ErrorOutputPaths = []string{path}
	}
	l, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}
	heap.SetLogger(l.Named("heap"))
	resource.SetLogger(l.Named("resource"))
	memdemo.SetLogger(l.Named("memdemo"))

	return func() { _ = l.Sync() }, nil
}

// NewPrinter creates a transcript printer on w for a -color flag value.
// Styling in auto mode follows whether stdout is a terminal.
func NewPrinter(w io.Writer, color string) (*console.Printer, error) {
	mode, err := console.ParseColorMode(color)
	if err != nil {
		return nil, err
	}
	return console.New(w, console.WithStyle(console.StdoutStyled(mode))), nil
}
