package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/wippyai/lang-concepts/demo"
	"github.com/wippyai/lang-concepts/internal/cli"
)

func main() {
	var (
		list        = flag.Bool("list", false, "List demos and exit")
		name        = flag.String("demo", "", "Demo to run (default: all, in order)")
		interactive = flag.Bool("i", false, "Interactive mode with TUI")
		verbose     = flag.Bool("v", false, "Log heap and ownership events to stderr")
		color       = flag.String("color", "auto", "Styled output: auto, always or never")
		logFile     = flag.String("log", "tour.log", "Log file for -v in interactive mode")
	)
	flag.Parse()

	sync, err := cli.SetupLogging(*verbose, logPath(*interactive, *logFile))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer sync()

	reg := demo.NewRegistry(demo.DefaultConfig())

	if *interactive {
		if err := runInteractive(reg); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := run(reg, *list, *name, *color); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// logPath keeps log output off the terminal while the TUI owns it.
func logPath(interactive bool, file string) string {
	if !interactive {
		return ""
	}
	if file == "" {
		return "tour.log"
	}
	return file
}

func run(reg *demo.Registry, listOnly bool, name, color string) error {
	if listOnly {
		for _, d := range reg.All() {
			fmt.Printf("  %-10s %s\n", d.Name, d.Summary)
		}
		return nil
	}

	demos := reg.All()
	if name != "" {
		d, ok := reg.Lookup(name)
		if !ok {
			return fmt.Errorf("unknown demo %q (see -list)", name)
		}
		demos = []demo.Demo{d}
	}

	p, err := cli.NewPrinter(os.Stdout, color)
	if err != nil {
		return err
	}

	ctx := context.Background()
	for i, d := range demos {
		if i > 0 {
			p.Blank()
		}
		if len(demos) > 1 {
			p.Printf("=== %s ===", d.Title)
		}
		if err := d.Run(ctx, p); err != nil {
			return fmt.Errorf("%s: %w", d.Name, err)
		}
	}
	return nil
}
