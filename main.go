// missioncomm - a mission-partitioned text chat server with an
// artificial delivery delay between mission participants.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"missioncomm/cmd"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := cmd.Execute(ctx, os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "missioncomm: %v\n", err)
		os.Exit(1)
	}
}
