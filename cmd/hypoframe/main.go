// Package main provides the entry point for the HypoFrame HTTP API server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "hypoframe",
	Short: "HypoFrame HTTP API Server",
	Long:  "HypoFrame crawls a company site, structures what it finds and generates a business summary, a five-stage hypothesis chain and a letter draft via REST API.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
