package main

import (
	"os"

	cli "github.com/llmserver/llmserver/cmd/llmserver"
)

func main() {
	if err := cli.SetupRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
