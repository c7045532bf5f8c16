package console

import (
	"fmt"
	"os"
	"sync/atomic"

	"golang.org/x/term"
)

// ColorMode selects when output is styled.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

// ParseColorMode validates a -color flag value.
func ParseColorMode(s string) (ColorMode, error) {
	switch m := ColorMode(s); m {
	case ColorAuto, ColorAlways, ColorNever:
		return m, nil
	default:
		return "", fmt.Errorf("unknown color mode %q (want auto, always or never)", s)
	}
}

var stdoutIsTerminal int32 = -1 // -1 = unchecked, 0 = no, 1 = yes

// StdoutStyled reports whether output to stdout should be styled under m.
func StdoutStyled(m ColorMode) bool {
	switch m {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	}

	if v := atomic.LoadInt32(&stdoutIsTerminal); v >= 0 {
		return v == 1
	}
	result := term.IsTerminal(int(os.Stdout.Fd()))
	if result {
		atomic.StoreInt32(&stdoutIsTerminal, 1)
	} else {
		atomic.StoreInt32(&stdoutIsTerminal, 0)
	}
	return result
}
