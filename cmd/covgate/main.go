package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/harrison/covgate/internal/cmd"
)

func main() {
	// Optional .env file; absence is not an error
	_ = godotenv.Load()

	rootCmd := cmd.NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
