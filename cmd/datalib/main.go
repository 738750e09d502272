package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/wdm0006/datalib/pkg/clean"
	"github.com/wdm0006/datalib/pkg/config"
	dl "github.com/wdm0006/datalib/pkg/datalib"
	"github.com/wdm0006/datalib/pkg/io/jsonio"
	"github.com/wdm0006/datalib/pkg/io/tableio"
	"github.com/wdm0006/datalib/pkg/logging"
	"github.com/wdm0006/datalib/pkg/profile"
)

var (
	version = "0.1.0-dev"
)

func main() {
	showVersion := flag.Bool("version", false, "Print version and exit")
	configPath := flag.String("config", "", "Path to config file (.json, .yaml, .yml or .toml)")
	showProfile := flag.Bool("profile", false, "Print a column profile of the cleaned table")
	profileInput := flag.String("profile-input", "", "Profile a file chunk by chunk without cleaning it, then exit")
	chunkSize := flag.Int("chunk-size", 10000, "Rows per chunk for -profile-input")
	logLevel := flag.String("log-level", "", "Log level: debug, info, warn, error (overrides config)")
	logFormat := flag.String("log-format", "", "Log format: text or json (overrides config)")
	flag.Parse()

	if *showVersion {
		fmt.Println("datalib", version)
		return
	}

	if *profileInput != "" {
		logging.Setup(*logLevel, *logFormat)
		c, err := profileFile(*profileInput, *chunkSize, 5)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		if err := writeProfile(os.Stdout, c, false); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		return
	}

	if *configPath == "" {
		fmt.Fprintln(os.Stderr, "no config provided; nothing to do. try -config <file> or -version")
		os.Exit(2)
	}
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if *logLevel != "" {
		cfg.Logging.Level = *logLevel
	}
	if *logFormat != "" {
		cfg.Logging.Format = *logFormat
	}
	log := logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cl := &clean.Cleaner{Logger: log}
	out, rep, err := cl.Run(ctx, cfg.Input.Path, cfg.Input.Format, cfg.Cleaning)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		if dl.ClassOf(err) == dl.ClassConfiguration {
			os.Exit(2)
		}
		os.Exit(1)
	}
	opts := tableio.ExportOptions{
		Delimiter: cfg.Output.DelimiterRune(),
		NoHeader:  cfg.Output.NoHeader,
		Orient:    jsonio.Orient(cfg.Output.Orient),
		Sheet:     cfg.Output.Sheet,
	}
	if err := tableio.Export(out, cfg.Output.Path, cfg.Output.Format, opts); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	log.Info("exported", "run_id", rep.RunID.String(), "output", cfg.Output.Path,
		"rows", out.Rows(), "failed_steps", len(rep.Failed()))

	if *showProfile {
		c := profile.Table(out, cfg.Profile.TopK)
		if err := writeProfile(os.Stdout, c, cfg.Profile.JSON); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}
}
