package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/okian/podium/internal/cli"
	"github.com/okian/podium/internal/config"
)

// Default configuration constants.
const (
	defaultTopN    = 10
	defaultTimeout = 30 * time.Second
	defaultRunTime = 5 * time.Minute
)

func main() {
	_ = godotenv.Load()

	// Source defaults follow the server's configuration.
	base, err := config.Load(context.Background())
	if err != nil {
		base = config.New(context.Background())
	}

	var cfg cli.Config
	flag.StringVar(&cfg.Athletes1, "athletes1", base.AthleteSources[0], "First athlete CSV, \"-\" for stdin")
	flag.StringVar(&cfg.Athletes2, "athletes2", base.AthleteSources[1], "Second athlete CSV, \"-\" for stdin")
	flag.StringVar(&cfg.Regions, "regions", base.RegionSource, "NOC region lookup CSV, \"-\" for stdin")
	flag.StringVar(&cfg.BaseURL, "url", "", "Query a running service at this base URL instead of reading files")
	flag.Var(&cfg.Sports, "sport", "Sport to include, repeatable")
	flag.Var(&cfg.RegionSel, "region", "Region to include, repeatable")
	flag.Var(&cfg.Medals, "medal", "Medal to include, repeatable")
	flag.IntVar(&cfg.TopN, "top", defaultTopN, "Number of top countries; with -url at most the server's top_countries")
	flag.IntVar(&cfg.Raw, "raw", 0, "Also print the first N filtered records")
	flag.StringVar(&cfg.Policy, "policy", base.DuplicatePolicy, "Duplicate region code policy: keep_first or strict")
	flag.DurationVar(&cfg.Timeout, "timeout", defaultTimeout, "HTTP request timeout when -url is set")
	logLevel := flag.String("log-level", "warn", "Log level written to stderr")
	help := flag.Bool("help", false, "Show help")
	flag.Parse()

	if *help {
		cli.ShowHelp(os.Stdout)
		return
	}

	if err := cli.SetupLogging(*logLevel); err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, defaultRunTime)
	defer cancel()

	if err := cli.Run(ctx, &cfg, os.Stdin, os.Stdout); err != nil {
		os.Stderr.WriteString("Summary failed: " + err.Error() + "\n")
		os.Exit(1)
	}
}
