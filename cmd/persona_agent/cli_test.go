package main

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCommands_FlagsValidation(t *testing.T) {
	binaryPath := getBinaryPath(t)

	tests := []struct {
		name        string
		args        []string
		env         []string
		wantError   bool
		errorString string
	}{
		{
			name:        "generate without required flags",
			args:        []string{"generate", "--company-name", "Acme"},
			wantError:   true,
			errorString: "required",
		},
		{
			name:        "generate without API key",
			args:        []string{"generate", "-n", "Acme", "-d", "Anvils", "-g", "Grow"},
			env:         []string{"GEMINI_API_KEY=", "API_KEY="},
			wantError:   true,
			errorString: "configuration error",
		},
		{
			name:        "normalize without input",
			args:        []string{"normalize"},
			wantError:   true,
			errorString: "required",
		},
		{
			name:        "export with neither source",
			args:        []string{"export"},
			wantError:   true,
			errorString: "exactly one of --in or --id",
		},
		{
			name:        "preprocess without files",
			args:        []string{"preprocess"},
			wantError:   true,
			errorString: "requires at least 1 arg",
		},
		{
			name:      "help",
			args:      []string{"--help"},
			wantError: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := exec.Command(binaryPath, tt.args...)
			cmd.Dir = t.TempDir()
			cmd.Env = append(os.Environ(), tt.env...)
			output, err := cmd.CombinedOutput()

			if tt.wantError {
				assert.Error(t, err)
				if tt.errorString != "" {
					assert.Contains(t, string(output), tt.errorString)
				}
			} else {
				assert.NoError(t, err, string(output))
			}
		})
	}
}

func TestNormalizeCommand_Binary(t *testing.T) {
	binaryPath := getBinaryPath(t)

	dir := t.TempDir()
	in := filepath.Join(dir, "raw.txt")
	out := filepath.Join(dir, "personas.json")
	assert.NoError(t, os.WriteFile(in, []byte("```json\n[{\"name\":\"Ana\"}]\n```"), 0o644))

	cmd := exec.Command(binaryPath, "normalize", "--in", in, "--out", out)
	output, err := cmd.CombinedOutput()
	assert.NoError(t, err, string(output))
	assert.Contains(t, string(output), "Warnings")

	data, err := os.ReadFile(out)
	assert.NoError(t, err)
	assert.Contains(t, string(data), `"name": "Ana"`)
}
