// Command fish renders and validates declarative widget tree documents.
package main

import (
	"os"

	"github.com/go-drift/fish/cmd/fish/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
