package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"card-memory/cmd"
)

func main() {
	// A missing .env is fine; the environment is used as is.
	_ = godotenv.Load()

	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
