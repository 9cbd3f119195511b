// Command diffjar-compare runs the binary comparison on two local files
package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"diffjar/internal/core/version"
	dom "diffjar/internal/services/diff/domain"
	"diffjar/internal/services/diff/service"
)

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		_, _ = fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("diffjar-compare", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		leftPath  = fs.String("left", "", "path to the left source")
		rightPath = fs.String("right", "", "path to the right source")
		asJSON    = fs.Bool("json", false, "print the diff object as JSON")
		showVer   = fs.Bool("version", false, "print build info and exit")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *showVer {
		bi := version.Info()
		_, err := fmt.Fprintf(stdout, "%s %s (%s, %s)\n", bi.Service, bi.Version, bi.Commit, bi.Date)
		return err
	}
	if *leftPath == "" || *rightPath == "" {
		return errors.New("-left and -right are required")
	}

	left, err := os.ReadFile(*leftPath)
	if err != nil {
		return fmt.Errorf("read left: %w", err)
	}
	right, err := os.ReadFile(*rightPath)
	if err != nil {
		return fmt.Errorf("read right: %w", err)
	}

	res, err := service.Binary{}.Compare([]dom.SourceContent{
		{Side: dom.SideLeft, Data: left},
		{Side: dom.SideRight, Data: right},
	})
	if err != nil {
		return err
	}

	if *asJSON {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}
	return printText(stdout, res)
}

func printText(w io.Writer, res dom.DifferenceContent) error {
	if _, err := fmt.Fprintln(w, res.Type); err != nil {
		return err
	}
	for _, d := range res.Details {
		if _, err := fmt.Fprintf(w, "  left %d+%d  right %d+%d\n",
			d.LeftOffset, d.LeftLength, d.RightOffset, d.RightLength); err != nil {
			return err
		}
	}
	return nil
}
