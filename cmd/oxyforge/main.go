// Command oxyforge resolves the descriptor set layouts of a set of pipelines and writes
// the deduplicated layout pool with its pipeline reference table.
//
// Usage:
//
//	oxyforge [flags] <config>
package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/Carmen-Shannon/oxy-forge/common"
	"github.com/Carmen-Shannon/oxy-forge/engine"
	"github.com/Carmen-Shannon/oxy-forge/engine/config"
	"github.com/Carmen-Shannon/oxy-forge/engine/emit"
	"github.com/Carmen-Shannon/oxy-forge/engine/layout"
	"github.com/pkg/errors"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

// run parses the arguments, resolves the configured pipelines and writes the layout document.
//
// Parameters:
//   - ctx: cancels shader acquisition
//   - args: the command line arguments without the program name
//   - stdout: receives the document when no output file is configured
//   - stderr: receives usage, warnings and log output
//
// Returns:
//   - error: a usage, configuration, load, resolution or write error
func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("oxyforge", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintln(fs.Output(), "usage: oxyforge [flags] <config>")
		fs.PrintDefaults()
	}

	var (
		output      = fs.String("o", "", "write the document to `file` instead of the configured output or stdout")
		format      = fs.String("format", "", "output format: json or yaml (default json)")
		roots       = fs.String("roots", "", "comma separated shader search `dirs`, searched before the configured roots")
		buildDir    = fs.String("build-dir", "", "directory compiled GLSL is written to")
		strict      = fs.Bool("strict", false, "fail on array bindings whose size cannot be resolved")
		workers     = fs.Int("workers", 0, "number of extraction workers (default NumCPU-1)")
		profile     = fs.Bool("profile", false, "log the duration and memory use of each phase")
		checkWebGPU = fs.Bool("wgpu", false, "fail unless every layout converts to WebGPU bind group layouts")
		showVersion = fs.Bool("version", false, "print the version and exit")
	)
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	if *showVersion {
		fmt.Fprintf(stdout, "oxyforge %s\n", version)
		return nil
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return errors.Errorf("oxyforge: expected exactly one configuration file, got %d", fs.NArg())
	}

	cfg, err := config.Load(fs.Arg(0))
	if err != nil {
		return err
	}
	if *strict {
		cfg.ArrayPolicy = layout.ArrayPolicyStrict.String()
	}
	if *workers > 0 {
		cfg.Workers = *workers
	}

	outFormat := common.Coalesce(*format, cfg.Format, config.FormatJSON)
	outPath := *output
	if outPath == "" && cfg.Output != "" {
		outPath = cfg.Output
		if !filepath.IsAbs(outPath) {
			outPath = filepath.Join(cfg.Dir, outPath)
		}
	}

	options := []engine.ForgeBuilderOption{
		engine.WithLogger(log.New(stderr, "", log.LstdFlags)),
		engine.WithConfigRoots(splitList(*roots)...),
		engine.WithBuildDir(*buildDir),
		engine.WithProfiling(*profile),
		engine.WithWebGPUCheck(*checkWebGPU),
	}
	if cfg.Workers > 0 {
		options = append(options, engine.WithWorkers(cfg.Workers))
	}
	f := engine.NewForge(options...)

	res, err := f.Run(ctx, cfg)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := emit.Write(&buf, emit.NewDocument(res.Pool), outFormat); err != nil {
		return err
	}

	if outPath == "" {
		_, err = stdout.Write(buf.Bytes())
		return err
	}
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return err
	}
	return os.WriteFile(outPath, buf.Bytes(), 0o644)
}

// splitList splits a comma separated flag value, dropping empty items.
func splitList(value string) []string {
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
