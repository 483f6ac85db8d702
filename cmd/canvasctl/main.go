// canvasctl analyses canvas fingerprint renderings offline.
package main

import (
	"os"

	"github.com/canvasprint/canvasprint/cmd/canvasctl/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
