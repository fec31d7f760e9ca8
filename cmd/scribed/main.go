// Command scribed runs the scribe daemon in the foreground. It is the
// supervisor-friendly alternative to `scribe start`, which detaches.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"scribe/internal/config"
	"scribe/internal/daemonrun"
)

func main() {
	var configPath string
	var socketPath string
	var logLevel string
	flag.StringVar(&configPath, "config", "", "configuration file path")
	flag.StringVar(&socketPath, "socket", "", "daemon socket path override")
	flag.StringVar(&logLevel, "log-level", "", "log level override")
	flag.Parse()

	cfg, _, _, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		log.Fatalf("ensure directories: %v", err)
	}

	err = daemonrun.Run(context.Background(), cfg, daemonrun.Options{
		LogLevel:   logLevel,
		SocketPath: socketPath,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
