//go:build basic || database

package integration

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"testing"
)

// trialFixture is the trial document used by the integration tests, relative to the project root.
const trialFixture = "integration/testdata/trial.yaml"

var (
	// sharedBinaryPath holds the path to a shared germtrack binary built once for all tests.
	sharedBinaryPath string

	// buildOnce ensures we only build the binary once.
	buildOnce sync.Once

	// buildMutex protects the shared binary path.
	buildMutex sync.Mutex

	// tempDir holds the temp directory for cleanup.
	tempDir string
)

// TestMain handles setup and cleanup for all integration tests.
func TestMain(m *testing.M) {
	// Run all tests
	code := m.Run()

	// Cleanup the shared binary after all tests
	if tempDir != "" {
		_ = os.RemoveAll(tempDir)
	}

	os.Exit(code)
}

// getGermtrackBinary returns the path to the germtrack binary, building it once if needed.
func getGermtrackBinary() string {
	buildMutex.Lock()
	defer buildMutex.Unlock()

	buildOnce.Do(func() {
		// Create a temp directory for the binary
		var err error
		tempDir, err = os.MkdirTemp("", "germtrack-integration-*")
		if err != nil {
			panic(fmt.Sprintf("failed to create temp dir: %v", err))
		}

		binaryPath := filepath.Join(tempDir, "germtrack")
		buildCmd := exec.Command("go", "build", "-o", binaryPath, ".")
		buildCmd.Dir = ".." // Build from parent directory (project root)
		if err := buildCmd.Run(); err != nil {
			panic(fmt.Sprintf("failed to build germtrack: %v", err))
		}

		sharedBinaryPath = binaryPath
	})

	return sharedBinaryPath
}

// runGermtrack runs the binary from the project root and returns its combined output.
func runGermtrack(t *testing.T, env []string, args ...string) (string, error) {
	t.Helper()
	cmd := newGermtrackCommand(args...)
	cmd.Env = append(os.Environ(), env...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		t.Logf("Command failed: %s\nOutput: %s", cmd.String(), string(output))
	}
	return string(output), err
}

// newGermtrackCommand prepares a germtrack invocation rooted at the project directory.
func newGermtrackCommand(args ...string) *exec.Cmd {
	cmd := exec.Command(getGermtrackBinary(), args...)
	cmd.Dir = "../" // Run from project root
	return cmd
}
