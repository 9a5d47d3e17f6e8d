// Command skillroute indexes a methodology corpus and routes agent queries.
package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/custodia-labs/skillroute/internal/adapters/driving/cli"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	// A missing .env is fine.
	_ = godotenv.Load()

	if err := cli.Execute(version); err != nil {
		os.Exit(1)
	}
}
