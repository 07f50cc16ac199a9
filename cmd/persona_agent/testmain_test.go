package main

import (
	"os"
	"testing"

	"github.com/joho/godotenv"
)

// TestMain loads .env from the package or the module root so integration
// tests see the same credentials as the CLI. Missing files are fine in CI.
func TestMain(m *testing.M) {
	_ = godotenv.Load()
	_ = godotenv.Load("../../.env")

	os.Exit(m.Run())
}
