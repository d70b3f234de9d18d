//go:build integration

package integration

import (
	"bytes"
	"os"
	"os/exec"
	"strings"
	"testing"

	"github.com/fivetwenty-io/opencorp/pkg/occlient"
	"github.com/fivetwenty-io/opencorp/pkg/opencorp"
	"github.com/stretchr/testify/require"
)

// TestConfig holds configuration for integration tests
type TestConfig struct {
	BaseURL    string
	Token      string
	BinaryPath string
	Live       bool
	Verbose    bool
}

// LoadTestConfig loads configuration from environment variables
func LoadTestConfig() *TestConfig {
	return &TestConfig{
		BaseURL:    os.Getenv("OPENCORP_API_URL"),
		Token:      os.Getenv("OPENCORP_TOKEN"),
		BinaryPath: getBinaryPath(),
		Live:       os.Getenv("OPENCORP_LIVE") == "true",
		Verbose:    os.Getenv("OPENCORP_VERBOSE") == "true",
	}
}

// getBinaryPath determines the path to the opencorp binary
func getBinaryPath() string {
	if path := os.Getenv("OPENCORP_BINARY_PATH"); path != "" {
		return path
	}

	for _, candidate := range []string{"../../opencorp", "./opencorp", "../opencorp"} {
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}

	return "opencorp"
}

// SkipIfNotLive skips tests that would reach the public API.
func (config *TestConfig) SkipIfNotLive(t *testing.T) {
	t.Helper()

	if !config.Live {
		t.Skip("OPENCORP_LIVE not set, skipping live API test")
	}
}

// SkipIfMissingBinary skips CLI tests when the binary has not been built.
func (config *TestConfig) SkipIfMissingBinary(t *testing.T) {
	t.Helper()

	if _, err := exec.LookPath(config.BinaryPath); err != nil {
		t.Skipf("opencorp binary not found at %s, skipping CLI test", config.BinaryPath)
	}
}

// NewClient builds a library client against the configured API.
func (config *TestConfig) NewClient(t *testing.T) opencorp.Client {
	t.Helper()

	client, err := occlient.NewWithBaseURL(config.BaseURL, config.Token)
	require.NoError(t, err)

	return client
}

// CommandRunner provides utilities for running opencorp commands
type CommandRunner struct {
	config *TestConfig
	t      *testing.T
}

// NewCommandRunner creates a new command runner
func NewCommandRunner(config *TestConfig, t *testing.T) *CommandRunner {
	return &CommandRunner{
		config: config,
		t:      t,
	}
}

// Run executes an opencorp command and returns output
func (runner *CommandRunner) Run(args ...string) (stdout, stderr string, err error) {
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

// AssertJSONOutput verifies command output is valid JSON
func AssertJSONOutput(t *testing.T, output string) {
	t.Helper()

	output = strings.TrimSpace(output)
	if !strings.HasPrefix(output, "{") && !strings.HasPrefix(output, "[") {
		t.Errorf("Output does not appear to be JSON: %s", output)
	}
}
