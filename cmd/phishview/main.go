// Command phishview submits URLs to a phishing analysis backend and renders
// its verdicts in a browser page, over a websocket or on the terminal.
//
//	phishview analyze https://example.com
//	phishview serve --backend http://localhost:5000
//	phishview demo-backend --fixtures fixtures.yaml
package main

import (
	"fmt"
	"os"

	"github.com/raysh454/phishview/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
