package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"

	"github.com/tomz197/ballpit/internal/config"
	"github.com/tomz197/ballpit/internal/logging"
	"github.com/tomz197/ballpit/internal/loop/client"
	loopconfig "github.com/tomz197/ballpit/internal/loop/config"
	"github.com/tomz197/ballpit/internal/loop/server"
	"github.com/tomz197/ballpit/internal/sim"
)

func main() {
	// The terminal belongs to the viewer, so logs only go to a file when asked.
	var logOut io.Writer = io.Discard
	if path := config.GetEnv("BALLPIT_LOG_FILE", ""); path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to open log file: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		logOut = f
	}
	logger := logging.NewWithWriter(logOut, "game")
	logging.Install(logger)

	world, err := sim.NewWorld(loopconfig.Physics(), loopconfig.Sim())
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}

	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to enable raw mode: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = term.Restore(fd, oldState)
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pit := server.NewServer(world, logger)
	go pit.Run(ctx)

	c := client.NewClient(pit, bufio.NewReader(os.Stdin), os.Stdout, client.ClientOptions{
		Username: config.GetEnv("USER", "local"),
	})
	if err := c.Run(); err != nil {
		_ = term.Restore(fd, oldState)
		fmt.Fprintf(os.Stderr, "viewer error: %v\n", err)
		os.Exit(1)
	}
}
