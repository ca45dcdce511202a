// Command abx2xml converts an Android Binary XML stream to textual XML 1.0.
package main

import (
	"bytes"
	"context"
	"encoding/xml"
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
		Name:      "abx2xml",
		Usage:     "convert Android Binary XML to textual XML",
		ArgsUsage: "INPUT [OUTPUT]",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "in-place",
				Aliases: []string{"i"},
				Usage:   "overwrite INPUT with the converted output",
			},
			&cli.BoolFlag{
				Name:    "pretty",
				Aliases: []string{"p"},
				Usage:   "indent the emitted XML",
			},
		},
		Action: run,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		diag.Log(context.Background(), slog.LevelError, "abx2xml failed", "error", err)
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cmd *cli.Command) error {
	inPath := cmd.Args().Get(0)
	if inPath == "" {
		return fmt.Errorf("abx2xml: missing INPUT")
	}
	outPath := cmd.Args().Get(1)
	inPlace := cmd.Bool("in-place")
	if inPlace {
		if outPath != "" {
			return fmt.Errorf("abx2xml: -i and an explicit OUTPUT are mutually exclusive")
		}
		outPath = inPath
	}

	src, closeSrc, err := openInput(inPath)
	if err != nil {
		return err
	}
	defer closeSrc()

	var out bytes.Buffer
	cfg := abx.Config{Warn: warnToStderr}
	if err := abx.Decode(src, &out, cfg); err != nil {
		return fmt.Errorf("abx2xml: %w", err)
	}

	if cmd.Bool("pretty") {
		pretty, err := prettyPrint(out.Bytes())
		if err != nil {
			return fmt.Errorf("abx2xml: pretty-print: %w", err)
		}
		out = *pretty
	}

	dst, closeDst, err := openOutput(outPath)
	if err != nil {
		return err
	}
	defer closeDst()

	if _, err := dst.Write(out.Bytes()); err != nil {
		return fmt.Errorf("abx2xml: write output: %w", err)
	}
	return nil
}

// prettyPrint round-trips b through encoding/xml's Decoder/Encoder with
// indentation, since abx.Decode itself emits compact, unindented XML.
func prettyPrint(b []byte) (*bytes.Buffer, error) {
	var out bytes.Buffer
	enc := xml.NewEncoder(&out)
	enc.Indent("", "  ")

	dec := xml.NewDecoder(bytes.NewReader(b))
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if err := enc.EncodeToken(tok); err != nil {
			return nil, err
		}
	}
	if err := enc.Flush(); err != nil {
		return nil, err
	}
	return &out, nil
}

func warnToStderr(category, message string) {
	fmt.Fprintf(os.Stderr, "abx2xml: warning: %s: %s\n", category, message)
}

func openInput(path string) (io.Reader, func(), error) {
	if path == "-" {
		return os.Stdin, func() {}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("abx2xml: open input: %w", err)
	}
	return f, func() { f.Close() }, nil
}

func openOutput(path string) (io.Writer, func(), error) {
	if path == "" || path == "-" {
		return os.Stdout, func() {}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("abx2xml: create output: %w", err)
	}
	return f, func() { f.Close() }, nil
}
