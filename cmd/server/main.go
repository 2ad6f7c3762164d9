// Package main implements the entry point for the viral script server,
// which walks browser sessions through the script wizard and generates
// the scripts with a hosted LLM.
package main

import (
	"context"
	"fmt"
	"log"
)

// main loads configuration, sets up logging, wires the application and
// serves HTTP until SIGINT or SIGTERM.
func main() {
	if err := run(context.Background()); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

func run(ctx context.Context) error {
	cfg, err := loadAppConfig()
	if err != nil {
		return err
	}

	logger, err := setupAppLogger(cfg)
	if err != nil {
		return err
	}

	app, err := newApplication(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	return app.Run(ctx)
}
