// Package main is the entry point for the contacts API.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"contactsapi/src/app/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := cli.Execute(ctx); err != nil {
		log.Printf("fatal error: %v\n", err)
		stop()
		os.Exit(1)
	}
}
