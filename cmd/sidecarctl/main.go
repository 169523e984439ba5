package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/danmuck/sidecarctl/internal/logging"
	"github.com/danmuck/sidecarctl/internal/supervisor"
)

func main() {
	configPath := flag.String("config", "", "path to supervisor config file")
	flag.Parse()

	logging.ConfigureRuntime()

	cfg := supervisor.DefaultServiceConfig()
	if *configPath != "" {
		loaded, err := loadServiceConfig(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "sidecarctl: %v\n", err)
			os.Exit(1)
		}
		cfg = loaded
	}

	svc := supervisor.NewServiceWithConfig(cfg)
	if err := svc.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "sidecarctl: %v\n", err)
		os.Exit(1)
	}
}
