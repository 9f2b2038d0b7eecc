package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	rollcmd "github.com/louisbranch/dicemaiden/internal/cmd/roll"
	platformcmd "github.com/louisbranch/dicemaiden/internal/platform/cmd"
	"github.com/louisbranch/dicemaiden/internal/platform/config"
)

// main rolls the notation given as arguments.
func main() {
	log.SetPrefix(platformcmd.LogPrefix(platformcmd.ServiceRoll))
	cfg, err := rollcmd.ParseConfig()
	if err != nil {
		config.Exitf("parse config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rollcmd.Run(ctx, cfg, os.Args[1:], os.Stdout); err != nil {
		stop()
		config.ExitErr(err)
	}
}
