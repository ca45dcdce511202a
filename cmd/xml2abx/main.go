// Command xml2abx converts textual XML 1.0 to Android Binary XML.
package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/abxcodec/abx"
	"github.com/abxcodec/abx/internal/diag"
)

func main() {
	cmd := &cli.Command{
		Name:      "xml2abx",
		Usage:     "convert textual XML to Android Binary XML",
		ArgsUsage: "INPUT [OUTPUT]",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "in-place",
				Aliases: []string{"i"},
				Usage:   "overwrite INPUT with the converted output",
			},
			&cli.BoolFlag{
				Name:  "collapse-whitespace",
				Usage: "drop whitespace-only text nodes instead of encoding them",
			},
		},
		Action: run,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		diag.Log(context.Background(), slog.LevelError, "xml2abx failed", "error", err)
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cmd *cli.Command) error {
	inPath := cmd.Args().Get(0)
	if inPath == "" {
		return fmt.Errorf("xml2abx: missing INPUT")
	}
	outPath := cmd.Args().Get(1)
	inPlace := cmd.Bool("in-place")
	if inPlace {
		if outPath != "" {
			return fmt.Errorf("xml2abx: -i and an explicit OUTPUT are mutually exclusive")
		}
		outPath = inPath
	}

	src, closeSrc, err := openInput(inPath)
	if err != nil {
		return err
	}
	defer closeSrc()

	cfg := abx.Config{
		CollapseWhitespace: cmd.Bool("collapse-whitespace"),
		Warn:               warnToStderr,
	}

	var out bytes.Buffer
	if err := abx.Encode(src, &out, cfg); err != nil {
		return fmt.Errorf("xml2abx: %w", err)
	}

	dst, closeDst, err := openOutput(outPath)
	if err != nil {
		return err
	}
	defer closeDst()

	if _, err := dst.Write(out.Bytes()); err != nil {
		return fmt.Errorf("xml2abx: write output: %w", err)
	}
	return nil
}

func warnToStderr(category, message string) {
	fmt.Fprintf(os.Stderr, "xml2abx: warning: %s: %s\n", category, message)
}

func openInput(path string) (io.Reader, func(), error) {
	if path == "-" {
		return os.Stdin, func() {}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("xml2abx: open input: %w", err)
	}
	return f, func() { f.Close() }, nil
}

func openOutput(path string) (io.Writer, func(), error) {
	if path == "" || path == "-" {
		return os.Stdout, func() {}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("xml2abx: create output: %w", err)
	}
	return f, func() { f.Close() }, nil
}
