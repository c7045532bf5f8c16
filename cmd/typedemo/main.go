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
	color := flag.String("color", "auto", "Styled output: auto, always or never")
	flag.Parse()

	if err := run(*color); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(color string) error {
	p, err := cli.NewPrinter(os.Stdout, color)
	if err != nil {
		return err
	}

	d, _ := demo.NewRegistry(demo.DefaultConfig()).Lookup("types")
	return d.Run(context.Background(), p)
}
