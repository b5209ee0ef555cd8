// Package tsconfig locates the tsserver-style analyzer binary and loads
// the workspace's editor-facing configuration (tsfmt.json and
// settings.json-style overrides), which are JSON-with-comments documents
// the way VS Code workspace settings are.
package tsconfig

import (
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/pkg/errors"
)

// binaryName is the platform-appropriate executable name for the bundled
// analyzer inside node_modules/.bin.
func binaryName(name string) string {
	if runtime.GOOS == "windows" {
		return name + ".cmd"
	}
	return name
}

// ResolveBinary finds the analyzer executable to launch, trying each
// candidate in order:
//  1. explicitPath, if the caller (initializationOptions) set one
//  2. <root>/node_modules/.bin/tsserver(.cmd), the project's own install
//  3. "tsserver" on PATH
//
// It returns the first candidate that exists: candidates 1 and 2 must be
// a file (not a directory), and candidate 3 is resolved by exec.LookPath.
// A non-empty explicitPath that is not a file is an error; the other
// candidates are then not tried.
func ResolveBinary(explicitPath, root string) (string, error) {
	if explicitPath != "" {
		if info, err := os.Stat(explicitPath); err == nil && !info.IsDir() {
			return explicitPath, nil
		}
		return "", errors.Errorf("tsconfig: configured server path %q is not a file", explicitPath)
	}

	if root != "" {
		local := filepath.Join(root, "node_modules", ".bin", binaryName("tsserver"))
		if info, err := os.Stat(local); err == nil && !info.IsDir() {
			return local, nil
		}
	}

	if path, err := exec.LookPath("tsserver"); err == nil {
		return path, nil
	}

	return "", errors.New("tsconfig: no tsserver binary found on the project, PATH, or explicit configuration")
}
