package main

import (
	"context"
	"flag"
	"fmt"
	"math"
	"os"

	"github.com/wippyai/lang-concepts/demo"
	"github.com/wippyai/lang-concepts/errors"
	"github.com/wippyai/lang-concepts/heap"
	"github.com/wippyai/lang-concepts/internal/cli"
	"github.com/wippyai/lang-concepts/internal/procstat"
)

func main() {
	var (
		color     = flag.String("color", "auto", "Styled output: auto, always or never")
		verbose   = flag.Bool("v", false, "Log heap and ownership events to stderr")
		heapPages = flag.Uint64("heap-pages", uint64(heap.DefaultConfig().MaxPages), "Maximum heap size in 64KB pages")
		rss       = flag.Bool("rss", false, "Print the process max RSS after the demo")
	)
	flag.Parse()

	if err := run(*color, *verbose, *heapPages, *rss); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(color string, verbose bool, heapPages uint64, rss bool) error {
	if heapPages > math.MaxUint32 {
		return errors.InvalidInput(errors.PhaseRuntime,
			fmt.Sprintf("-heap-pages %d does not fit in 32 bits", heapPages))
	}

	sync, err := cli.SetupLogging(verbose, "")
	if err != nil {
		return err
	}
	defer sync()

	p, err := cli.NewPrinter(os.Stdout, color)
	if err != nil {
		return err
	}

	cfg := demo.DefaultConfig()
	cfg.Heap.MaxPages = uint32(heapPages)

	d, _ := demo.NewRegistry(cfg).Lookup("memory")
	if err := d.Run(context.Background(), p); err != nil {
		return err
	}

	if rss {
		n, err := procstat.MaxRSS()
		if err != nil {
			return err
		}
		p.Printf("Process max RSS: %s", procstat.FormatMB(n))
	}
	return p.Err()
}
