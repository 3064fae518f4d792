package main

import (
	"fmt"
	"os"

	"github.com/meshbridge/meshbridge/cmd/meshbridge"
	"github.com/meshbridge/meshbridge/pkg/style"
)

func main() {
	rootCmd := meshbridge.NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, style.ErrorStyle.Render(fmt.Sprintf("Error: %v", err)))
		os.Exit(1)
	}
}
