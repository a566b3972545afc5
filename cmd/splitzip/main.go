// Command splitzip is the CLI front-end for the splitzip archive writer.
// The core ZIP logic lives entirely in pkg/archive; this package only
// parses arguments, walks directories, and renders progress.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/bgrewell/usage"
	"github.com/go-logr/logr"
	"github.com/theckman/yacspin"

	"github.com/archivekit/splitzip/pkg/archive"
	"github.com/archivekit/splitzip/pkg/config"
	"github.com/archivekit/splitzip/pkg/logging"
	"github.com/archivekit/splitzip/pkg/sizeparse"
	"github.com/archivekit/splitzip/pkg/walk"
)

func main() {
	if len(os.Args) < 2 {
		printTopLevelUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "create":
		if err := runCreate(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "splitzip: %v\n", err)
			os.Exit(1)
		}
	case "-h", "--help", "help":
		printTopLevelUsage()
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "splitzip: unknown subcommand %q\n", os.Args[1])
		printTopLevelUsage()
		os.Exit(1)
	}
}

// printTopLevelUsage renders the command banner with bgrewell/usage, the
// same way rstms-iso-kit/cmd/isoview renders its help text.
func printTopLevelUsage() {
	u := usage.NewUsage(
		usage.WithApplicationName("splitzip"),
		usage.WithApplicationDescription("splitzip writes multi-volume PKWARE ZIP archives that are "+
			"extractable by standard tools without reassembly."),
	)
	u.AddBooleanOption("h", "help", false, "Show this help message", "optional", nil)
	u.PrintUsage()
	fmt.Println("\nSubcommands:")
	fmt.Println("  create -o <out> -s <size> [--level 1-9] [--store] [--verbose] [--config <path>] <paths...>")
}

// runCreate implements the "create" subcommand. It uses the stdlib flag
// package rather than bgrewell/usage because it needs a trailing variadic
// list of input paths, the same reason rstms-iso-kit's own cmd/isoextract
// falls back to flag instead of usage for its single positional argument.
func runCreate(args []string) error {
	fs := flag.NewFlagSet("create", flag.ContinueOnError)
	output := fs.String("o", "", "output archive path (.zip)")
	splitSize := fs.String("s", "700MiB", "split size, e.g. 100MB or 700MiB")
	level := fs.Int("level", 6, "DEFLATE compression level 1-9")
	store := fs.Bool("store", false, "store entries uncompressed")
	verbose := fs.Bool("verbose", false, "print progress as the archive is built")
	configPath := fs.String("config", "", "load defaults from a .splitzip.yaml file")

	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil
		}
		return err
	}

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	levelOverride := 0
	if flagWasSet(fs, "level") {
		levelOverride = *level
	}
	cfg = config.Merge(cfg, config.Config{
		SplitSize: flagOrEmpty(fs, "s", *splitSize),
		Level:     levelOverride,
		Store:     *store,
		Verbose:   *verbose,
		Output:    *output,
	})

	if cfg.Output == "" {
		return fmt.Errorf("-o <output> is required")
	}
	paths := fs.Args()
	if len(paths) == 0 {
		return fmt.Errorf("at least one input path is required")
	}

	splitBytes, err := sizeparse.ParseSplitSize(cfg.SplitSize)
	if err != nil {
		return err
	}

	logger := logging.DefaultLogger()
	logrLogger := logr.Discard()
	var spinner *yacspin.Spinner
	if cfg.Verbose {
		logrLogger = logr.New(logging.NewSimpleLogSink(os.Stderr, logging.LEVEL_DEBUG, true))
		logger = logging.NewLogger(logrLogger)
		spinner, err = newSpinner()
		if err != nil {
			return err
		}
		if err := spinner.Start(); err != nil {
			return err
		}
		defer spinner.Stop()
	}

	opts := []archive.Option{
		archive.WithSplitSize(splitBytes),
		archive.WithLevel(cfg.Level),
		archive.WithStore(cfg.Store),
		archive.WithLogger(logrLogger),
	}
	if spinner != nil {
		opts = append(opts,
			archive.WithOnVolume(func(n int, path string) {
				spinner.Message(fmt.Sprintf("volume %d: %s", n, path))
			}),
			archive.WithOnProgress(func(name string, done, total int64) {
				if total > 0 {
					spinner.Message(fmt.Sprintf("%s: %d/%d bytes", name, done, total))
				} else {
					spinner.Message(fmt.Sprintf("%s: %d bytes", name, done))
				}
			}),
		)
	}

	volumes, err := archive.RunScoped(cfg.Output, opts, func(w *archive.Writer) error {
		for _, p := range paths {
			info, err := os.Stat(p)
			if err != nil {
				return err
			}
			if !info.IsDir() {
				if err := w.AddFile(p, filepath.Base(p)); err != nil {
					return err
				}
				continue
			}
			pairs, err := walk.Walk(p, logger)
			if err != nil {
				return err
			}
			for _, pair := range pairs {
				if pair.IsDir {
					if err := w.AddDir(pair.Arcname); err != nil {
						return err
					}
					continue
				}
				if err := w.AddFile(pair.Path, pair.Arcname); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	fmt.Printf("wrote %d volume(s):\n", len(volumes))
	for _, v := range volumes {
		fmt.Printf("  %s\n", v)
	}
	return nil
}

func flagOrEmpty(fs *flag.FlagSet, name, value string) string {
	if !flagWasSet(fs, name) {
		return ""
	}
	return value
}

func flagWasSet(fs *flag.FlagSet, name string) bool {
	set := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == name {
			set = true
		}
	})
	return set
}

func newSpinner() (*yacspin.Spinner, error) {
	cfg := yacspin.Config{
		Frequency:       100 * time.Millisecond,
		CharSet:         yacspin.CharSets[9],
		Suffix:          " ",
		Message:         "building archive",
		StopCharacter:   "✓",
		StopColors:      []string{"fgGreen"},
		StopFailMessage: "failed",
	}
	return yacspin.New(cfg)
}
