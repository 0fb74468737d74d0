package main

import (
	"fmt"
	"os"

	"github.com/camvision/camboot/cmd/camboot/cmd"
	"github.com/camvision/camboot/pkg/bootstrap"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(bootstrap.ExitCode(err))
	}
}
