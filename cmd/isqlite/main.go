package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"
)

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

func main() {
	cmd := &cli.Command{
		EnableShellCompletion: true,
		Suggest:               true,
		Name:                  "isqlite",
		Version:               Version,
		Usage:                 "isqlite [command]",
		Description:           "A schema management layer over SQLite: diffs a declared schema against a live database and applies the result, rebuilding tables where ALTER TABLE can't.",
		DefaultCommand:        "help",
		Commands:              commands,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := cmd.Run(ctx, os.Args); err != nil {
		log.Print(err)
		os.Exit(exitCodeFor(err))
	}
}
