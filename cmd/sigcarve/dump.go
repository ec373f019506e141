package main

import (
	"context"
	"encoding/hex"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"

	"github.com/hupe1980/sigcarve/blobstore"
	"github.com/hupe1980/sigcarve/record"
)

const dumpUsage = `Usage:
  sigcarve dump [--width sig|lsig] FILE

Prints one line per record: index, payload length and a hex prefix.
The width is taken from the file extension unless given. Files ending in
.zst or .lz4 are decompressed.

Flags:
`

func runDump(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	var widthFlag string
	var prefix int
	flagSet := pflag.NewFlagSet("dump", pflag.ContinueOnError)
	flagSet.StringVar(&widthFlag, "width", "", "record width: sig/2 or lsig/4")
	flagSet.IntVar(&prefix, "bytes", 16, "payload bytes to print per record")
	if err := parseFlags(flagSet, args, dumpUsage, stderr); err != nil {
		return err
	}
	if flagSet.NArg() != 1 {
		return fmt.Errorf("expected exactly one file, got %d", flagSet.NArg())
	}
	path := flagSet.Arg(0)

	var width record.Width
	if widthFlag != "" {
		w, err := record.ParseWidth(widthFlag)
		if err != nil {
			return err
		}
		width = w
	} else {
		w, ok := record.ForName(path)
		if !ok {
			return fmt.Errorf("%s: cannot infer width, use --width", path)
		}
		width = w
	}

	dir, name := filepath.Split(path)
	comp := blobstore.CompressionNone
	for _, c := range []blobstore.Compression{blobstore.CompressionZSTD, blobstore.CompressionLZ4} {
		if strings.HasSuffix(name, c.Ext()) {
			comp = c
			name = strings.TrimSuffix(name, c.Ext())
		}
	}
	if dir == "" {
		dir = "."
	}
	store := blobstore.NewCompressedStore(blobstore.NewLocalStore(dir), comp)

	blob, err := store.Open(ctx, name)
	if err != nil {
		return err
	}
	defer blob.Close()

	r := record.NewReader(blobstore.NewReader(blob), width)
	for p, err := range r.All() {
		if err != nil {
			return fmt.Errorf("%s: record %d at byte %d: %w", path, r.Records(), r.Offset(), err)
		}
		fmt.Fprintf(stdout, "%d\t%d\t%s\n", r.Records()-1, len(p), hex.EncodeToString(p[:min(prefix, len(p))]))
	}
	fmt.Fprintf(stdout, "%d records, %d bytes\n", r.Records(), r.Offset())
	return nil
}
