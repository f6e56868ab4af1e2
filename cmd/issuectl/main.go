package main

import (
	"fmt"
	"os"

	"github.com/gogotex/issuetracker/internal/cli"
	"github.com/gogotex/issuetracker/pkg/logger"
)

func main() {
	logger.Init(os.Getenv("LOG_LEVEL"))
	if err := cli.NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
