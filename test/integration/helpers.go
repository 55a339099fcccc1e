//go:build integration

package integration

import (
	"bytes"
	"encoding/json"
	"os"
	"os/exec"
	"strings"
	"testing"
)

// TestConfig holds configuration for integration tests
type TestConfig struct {
	APIEndpoint string
	BinaryPath  string
	Verbose     bool
}

// LoadTestConfig loads configuration from environment variables
func LoadTestConfig() *TestConfig {
	return &TestConfig{
		APIEndpoint: os.Getenv("MTGIO_INTEGRATION_API"),
		BinaryPath:  getBinaryPath(),
		Verbose:     os.Getenv("MTGIO_VERBOSE") == "true",
	}
}

// getBinaryPath determines the path to the mtgio binary
func getBinaryPath() string {
	if path := os.Getenv("MTGIO_BINARY_PATH"); path != "" {
		return path
	}

	candidates := []string{
		"../../mtgio",
		"./mtgio",
		"../mtgio",
	}

	for _, candidate := range candidates {
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}

	return "mtgio"
}

// SkipIfMissingConfig skips the test unless the live API was requested and
// the binary exists.
func (config *TestConfig) SkipIfMissingConfig(t *testing.T) {
	t.Helper()

	if config.APIEndpoint == "" {
		t.Skip("MTGIO_INTEGRATION_API not set, skipping integration test")
	}

	if _, err := exec.LookPath(config.BinaryPath); err != nil {
		t.Skipf("mtgio binary not found at %s, skipping integration test", config.BinaryPath)
	}
}

// CommandRunner runs mtgio against the configured endpoint with an empty
// config file.
type CommandRunner struct {
	config     *TestConfig
	configFile string
	t          *testing.T
}

// NewCommandRunner creates a new command runner
func NewCommandRunner(config *TestConfig, t *testing.T) *CommandRunner {
	t.Helper()

	return &CommandRunner{
		config:     config,
		configFile: t.TempDir() + "/config.yml",
		t:          t,
	}
}

// Run executes an mtgio command and returns its output
func (runner *CommandRunner) Run(args ...string) (stdout, stderr string, err error) {
	args = append([]string{"--config", runner.configFile, "--api", runner.config.APIEndpoint}, args...)

	// #nosec G204
	cmd := exec.Command(runner.config.BinaryPath, args...)

	var stdoutBuf, stderrBuf bytes.Buffer

	cmd.Stdout = &stdoutBuf
	cmd.Stderr = &stderrBuf

	if runner.config.Verbose {
		runner.t.Logf("Running: %s %s", runner.config.BinaryPath, strings.Join(args, " "))
	}

	err = cmd.Run()
	stdout = stdoutBuf.String()
	stderr = stderrBuf.String()

	if runner.config.Verbose && err != nil {
		runner.t.Logf("Command failed: %v\nStdout: %s\nStderr: %s", err, stdout, stderr)
	}

	return stdout, stderr, err
}

// DecodeJSONOutput decodes command output into out and fails the test if it
// is not valid JSON.
func DecodeJSONOutput(t *testing.T, output string, out interface{}) {
	t.Helper()

	if err := json.Unmarshal([]byte(output), out); err != nil {
		t.Fatalf("Output is not valid JSON: %v\n%s", err, output)
	}
}
