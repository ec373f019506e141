// sigcarve carves signature-framed objects out of files.
//
// Two subcommands:
//
// carve: maps each input file into memory, matches the signatures of a
// YAML catalog against it, and appends every extracted payload to the
// output stream owning its keys. Streams go to a local directory, MinIO
// or S3, optionally zstd or lz4 compressed.
//
// dump: decodes one .sig/.lsig stream and prints a line per record.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	if err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	if len(args) == 0 {
		printUsage(stderr)
		return errors.New("missing subcommand")
	}
	switch args[0] {
	case "carve":
		return runCarve(ctx, args[1:], stdout, stderr)
	case "dump":
		return runDump(ctx, args[1:], stdout, stderr)
	case "help", "-h", "--help":
		printUsage(stdout)
		return nil
	default:
		printUsage(stderr)
		return fmt.Errorf("unknown subcommand %q", args[0])
	}
}

func printUsage(w io.Writer) {
	fmt.Fprint(w, `sigcarve carves signature-framed objects out of files.

Usage:
  sigcarve carve --catalog sigs.yaml [flags] FILE...
  sigcarve dump [--width sig|lsig] FILE

Run "sigcarve <subcommand> --help" for the flags of a subcommand.
`)
}

// parseFlags parses args and prints help on -h.
func parseFlags(flagSet *pflag.FlagSet, args []string, usage string, stderr io.Writer) error {
	flagSet.SetOutput(stderr)
	flagSet.Usage = func() {
		fmt.Fprint(stderr, usage)
		flagSet.PrintDefaults()
	}
	return flagSet.Parse(args)
}
