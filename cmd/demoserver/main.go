// Command demoserver starts the stand-in analysis backend on its own.
// Usage: go run ./cmd/demoserver [addr] [fixtures.yaml]
// Default addr: :5000, built-in fixtures.
package main

import (
	"log"
	"os"

	"github.com/raysh454/phishview/internal/demoserver"
	"github.com/raysh454/phishview/internal/logging"
)

func main() {
	cfg := demoserver.DefaultConfig()

	if len(os.Args) > 1 {
		cfg.Addr = os.Args[1]
	}
	if len(os.Args) > 2 {
		cfg.FixturesPath = os.Args[2]
	}

	server, err := demoserver.NewDemoServer(cfg, logging.NewStdoutLogger("DemoServer"))
	if err != nil {
		log.Fatalf("Loading fixtures: %v", err)
	}
	if err := server.Start(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
