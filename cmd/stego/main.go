package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	stego "github.com/yyyoichi/stego_zero"
	"github.com/yyyoichi/stego_zero/imgdir"
	"github.com/yyyoichi/stego_zero/internal/distortion"
	"github.com/yyyoichi/stego_zero/internal/zpayload"
)

const usage = `Hide bytes on media files.

Usage:
  stego image hide -ip <dir> -if <file> [-op <dir>] [-fc <code>] [-z] [-ecc] [-v]
  stego image read -ip <dir> -op <file> [-fc <code>] [-z] [-ecc] [-v]
`

var (
	errUsage           = errors.New("invalid arguments")
	errUnsupportedType = errors.New("unsupported media type")
)

type config struct {
	kind, mode string

	imagePath  string
	inputFile  string
	finalCode  string
	outputPath string
	verbose    bool
	compress   bool
	ecc        bool
}

func main() {
	log.SetFlags(0)
	if err := run(os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprint(os.Stderr, usage)
		}
		log.Fatalf("stego: %v", err)
	}
}

func run(args []string, stdout io.Writer) error {
	cfg, err := parse(args)
	if err != nil {
		return err
	}
	logger := log.New(io.Discard, "", 0)
	if cfg.verbose {
		logger.SetOutput(stdout)
	}

	var opts []stego.Option
	if cfg.finalCode != "" {
		opts = append(opts, stego.WithSentinel([]byte(cfg.finalCode)))
	}
	if cfg.ecc {
		opts = append(opts, stego.WithGolay())
	}
	s, err := stego.New(opts...)
	if err != nil {
		return err
	}

	switch cfg.mode {
	case "hide":
		return hide(cfg, s, logger, stdout)
	default:
		return read(cfg, s, logger, stdout)
	}
}

func parse(args []string) (config, error) {
	var cfg config
	if len(args) < 2 {
		return cfg, fmt.Errorf("%w: type and mode are required", errUsage)
	}
	cfg.kind, cfg.mode = args[0], args[1]

	fs := flag.NewFlagSet("stego", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	for _, name := range []string{"ip", "imagePath"} {
		fs.StringVar(&cfg.imagePath, name, "", "Image folder")
	}
	for _, name := range []string{"if", "inputFile"} {
		fs.StringVar(&cfg.inputFile, name, "", "Input file to hide")
	}
	for _, name := range []string{"fc", "finalCode"} {
		fs.StringVar(&cfg.finalCode, name, "", "Code to stop reading hidden bytes in images")
	}
	for _, name := range []string{"op", "outputPath"} {
		fs.StringVar(&cfg.outputPath, name, "", "Output folder for the images (hide) or output file for the hidden bytes (read)")
	}
	for _, name := range []string{"v", "verbose"} {
		fs.BoolVar(&cfg.verbose, name, false, "Show logs")
	}
	for _, name := range []string{"z", "compress"} {
		fs.BoolVar(&cfg.compress, name, false, "Compress the payload with zstd")
	}
	fs.BoolVar(&cfg.ecc, "ecc", false, "Protect the payload with Golay error correction")
	if err := fs.Parse(args[2:]); err != nil {
		return cfg, fmt.Errorf("%w: %w", errUsage, err)
	}

	switch cfg.kind {
	case "image":
	case "audio":
		return cfg, fmt.Errorf("%w: %s", errUnsupportedType, cfg.kind)
	default:
		return cfg, fmt.Errorf("%w: type must be image or audio, got %q", errUsage, cfg.kind)
	}
	if cfg.imagePath == "" {
		return cfg, fmt.Errorf("%w: -ip is required", errUsage)
	}
	switch cfg.mode {
	case "hide":
		if cfg.inputFile == "" {
			return cfg, fmt.Errorf("%w: -if is required in hide mode", errUsage)
		}
		if cfg.outputPath == "" {
			cfg.outputPath = filepath.Join(cfg.imagePath, "secret")
		}
	case "read":
		if cfg.outputPath == "" {
			return cfg, fmt.Errorf("%w: -op is required in read mode", errUsage)
		}
	default:
		return cfg, fmt.Errorf("%w: mode must be hide or read, got %q", errUsage, cfg.mode)
	}
	return cfg, nil
}

func hide(cfg config, s *stego.Stego, logger *log.Logger, stdout io.Writer) error {
	payload, err := os.ReadFile(cfg.inputFile)
	if err != nil {
		return fmt.Errorf("failed to read input file: %w", err)
	}
	if cfg.compress {
		if payload, err = zpayload.Compress(payload); err != nil {
			return err
		}
		logger.Printf("Compressed payload: %d bytes", len(payload))
	}

	images, err := imgdir.Load(cfg.imagePath)
	if err != nil {
		return err
	}
	logger.Printf("Images loaded: %d", len(images))
	if cfg.verbose {
		printImages(stdout, images)
	}

	hidden, err := s.Hide(images, payload)
	if err != nil {
		var ce *stego.CapacityError
		if errors.As(err, &ce) {
			return fmt.Errorf("the total length of the images is insufficient to hide the message "+
				"(you need %d bytes more). Try loading more images. "+
				"Percentage of the message hidden: %.2f%%: %w", ce.ShortfallBytes, ce.Percent, err)
		}
		return err
	}

	paths, err := imgdir.Save(cfg.outputPath, hidden)
	if err != nil {
		return err
	}
	for _, p := range paths {
		logger.Printf("Saved: %s", p)
	}
	if cfg.verbose {
		reports, err := distortion.Compare(images, hidden)
		if err != nil {
			return err
		}
		printReports(stdout, reports)
	}
	return nil
}

func read(cfg config, s *stego.Stego, logger *log.Logger, stdout io.Writer) error {
	images, err := imgdir.Load(cfg.imagePath)
	if err != nil {
		return err
	}
	logger.Printf("Images loaded: %d", len(images))
	if cfg.verbose {
		printImages(stdout, images)
	}

	payload, err := s.Read(images)
	if err != nil {
		return fmt.Errorf("failed to read hidden bytes: %w", err)
	}
	if cfg.compress {
		if payload, err = zpayload.Decompress(payload); err != nil {
			return err
		}
	}
	if err := os.WriteFile(cfg.outputPath, payload, 0o644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	logger.Printf("Recovered %d bytes to %s", len(payload), cfg.outputPath)
	return nil
}
