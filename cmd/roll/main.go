package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	rollcmd "github.com/louisbranch/rollplayer/internal/cmd/roll"
	"github.com/louisbranch/rollplayer/internal/platform/config"
)

// main rolls the expression given on the command line, e.g.
//
//	roll -tier elevated 4d6kh3 1d20+5
func main() {
	cfg, err := rollcmd.ParseConfig(flag.CommandLine, os.Args[1:], os.Environ())
	if err != nil {
		config.Exitf("roll: parse flags: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rollcmd.Run(ctx, cfg, os.Stdout); err != nil {
		stop()
		config.Exitf("roll: %v", err)
	}
}
