package console

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

var (
	sectionColor = lipgloss.Color("#7D56F4")
	cautionColor = lipgloss.Color("#FF6B6B")
)

// Printer writes a demo transcript one line at a time.
// With styling off the output is plain text, line for line.
type Printer struct {
	w       io.Writer
	err     error
	section lipgloss.Style
	caution lipgloss.Style
	styled  bool
}

// Option configures a Printer.
type Option func(*Printer)

// WithStyle enables lipgloss styling of section headers and cautions.
// Styled output always carries ANSI colour codes, whatever w is.
func WithStyle(on bool) Option {
	return func(p *Printer) {
		p.styled = on
	}
}

// New creates a Printer writing to w.
func New(w io.Writer, opts ...Option) *Printer {
	p := &Printer{w: w}
	for _, opt := range opts {
		opt(p)
	}
	if p.styled {
		r := lipgloss.NewRenderer(w)
		r.SetColorProfile(termenv.ANSI256)
		p.section = r.NewStyle().Bold(true).Foreground(sectionColor)
		p.caution = r.NewStyle().Bold(true).Foreground(cautionColor)
	}
	return p
}

// Println writes its operands followed by a newline.
func (p *Printer) Println(a ...any) {
	p.write(fmt.Sprintln(a...))
}

// Printf writes a formatted line. The newline is added.
func (p *Printer) Printf(format string, a ...any) {
	p.write(fmt.Sprintf(format, a...) + "\n")
}

// Blank writes an empty line.
func (p *Printer) Blank() {
	p.write("\n")
}

// Section writes an empty line and a "--- title ---" header.
func (p *Printer) Section(title string) {
	p.Blank()
	p.write(p.render(p.section, "--- "+title+" ---") + "\n")
}

// Caution writes an empty line and a highlighted warning.
func (p *Printer) Caution(msg string) {
	p.Blank()
	p.write(p.render(p.caution, msg) + "\n")
}

// Err returns the first write error, if any.
func (p *Printer) Err() error {
	return p.err
}

func (p *Printer) render(s lipgloss.Style, text string) string {
	if !p.styled {
		return text
	}
	return s.Render(text)
}

func (p *Printer) write(s string) {
	if p.err != nil {
		return
	}
	_, p.err = io.WriteString(p.w, s)
}

// Float formats v with six significant digits, so 5.5+3.2 prints as 8.7.
func Float(v float64) string {
	return strconv.FormatFloat(v, 'g', 6, 64)
}

// Lines splits a transcript into lines, dropping the final newline.
func Lines(s string) []string {
	s = strings.TrimSuffix(s, "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}
