// Command metissync loads one education office scope from the API, prints a JSON
// summary of the synced collections and optionally keeps following the push feed.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/metis-placement/metis.go/internal/config"
)

func main() {
	configPath := flag.String("config", "", "YAML config file (overrides METIS_CONFIG_PATH)")
	dotenv := flag.String("env", ".env", "dotenv file to load")
	follow := flag.Bool("follow", false, "keep applying pushed changes until interrupted")
	flag.Parse()

	if *configPath != "" {
		os.Setenv(config.EnvPrefix+"CONFIG_PATH", *configPath)
	}
	cfg, err := config.Load(*dotenv)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		flag.Usage()
		os.Exit(2)
	}
	if *follow {
		cfg.Scope.Follow = true
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
