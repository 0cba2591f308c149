package main

import (
	"os"

	"cafelist/command"
)

func main() {
	if err := command.Execute(); err != nil {
		os.Exit(1)
	}
}
