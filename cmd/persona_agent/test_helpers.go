package main

import (
	"os"
	"path/filepath"
	"testing"
)

// getBinaryPath returns the path to a built persona_agent binary for CLI tests.
// PERSONA_AGENT_BIN overrides the default bin/ location.
func getBinaryPath(t *testing.T) string {
	if testing.Short() {
		t.Skip("Skipping CLI tests in short mode")
	}

	binaryPath := os.Getenv("PERSONA_AGENT_BIN")
	if binaryPath == "" {
		binaryPath = filepath.Join("..", "..", "bin", "persona_agent")
	}
	if _, err := os.Stat(binaryPath); os.IsNotExist(err) {
		t.Skipf("Binary not found at %s, build it with 'go build -o bin/persona_agent ./cmd/persona_agent'", binaryPath)
	}

	return binaryPath
}
