// Package testutil provides shared test helpers used across integration
// and unit test packages.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// WriteFile writes content to path, creating parent directories. It fails
// the test on any error.
func WriteFile(t *testing.T, path string, content string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// WriteProject writes a depman project file into a fresh temporary
// directory and returns its path.
func WriteProject(t *testing.T, content string) string {
	t.Helper()
	return WriteFile(t, filepath.Join(t.TempDir(), "depman.project.yaml"), content)
}
