package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/five82/docket/internal/app"
	"github.com/five82/docket/internal/config"
)

var version = "dev"

func main() {
	os.Exit(run())
}

func run() int {
	flags := pflag.NewFlagSet("docket", pflag.ContinueOnError)
	configPath := flags.StringP("config", "c", "", "config file path (default "+config.DefaultPath()+")")
	backend := flags.String("backend", "", "storage backend: file or sqlite (overrides config)")
	dataDir := flags.String("data-dir", "", "directory for task data and the log (overrides config)")
	showVersion := flags.BoolP("version", "v", false, "print version and exit")

	if err := flags.Parse(os.Args[1:]); err != nil {
		if err == pflag.ErrHelp {
			return 0
		}
		fmt.Fprintf(os.Stderr, "docket: %v\n", err)
		return 2
	}
	if *showVersion {
		fmt.Println("docket", version)
		return 0
	}
	if args := flags.Args(); len(args) > 0 {
		fmt.Fprintf(os.Stderr, "docket: unexpected argument: %s\n", args[0])
		return 2
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	opts := app.Options{
		ConfigPath: *configPath,
		Backend:    *backend,
		DataDir:    *dataDir,
	}
	if err := app.Run(ctx, opts); err != nil {
		fmt.Fprintf(os.Stderr, "docket: %v\n", err)
		return 1
	}
	return 0
}
