package main

import (
	"fmt"
	"log"
	"os"

	"github.com/orgball2608/bluesky-likes-crawler/internal/migrations"
	"github.com/orgball2608/bluesky-likes-crawler/pkg/config"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("Usage: migrate [up|down|status|reset|version]")
	}

	command := os.Args[1]
	switch command {
	case "up", "down", "status", "reset", "version":
	default:
		log.Fatalf("Unknown command: %s", command)
	}

	cfg, err := config.New()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := migrations.Run(cfg.GetDSN(), command, os.Args[2:]...); err != nil {
		log.Fatalf("Failed to run %s: %v", command, err)
	}
	fmt.Printf("Migration command %q completed\n", command)
}
