package platform

import (
	"os"
	"path/filepath"
	"strings"
)

// DevDirName is the sandbox directory, under the system temp dir, used for
// state written by development runs.
const DevDirName = "notely-dev"

// IsDevRun checks if the current process is running via `go run` or `go test`.
// It relies on the fact that these commands build binaries in temporary directories.
func IsDevRun() bool {
	exe, err := os.Executable()
	if err != nil {
		return false
	}

	if strings.HasPrefix(strings.ToLower(exe), strings.ToLower(os.TempDir())) {
		return true
	}

	return strings.HasSuffix(exe, ".test") || strings.HasSuffix(exe, ".test.exe")
}

// ResolveStateDir determines where state is written. With forceTemp the
// directory is re-rooted under the dev sandbox unless it already lives in
// the system temp directory.
func ResolveStateDir(userDir string, forceTemp bool) string {
	if !forceTemp {
		return userDir
	}

	clean := filepath.Clean(userDir)
	rel, err := filepath.Rel(os.TempDir(), clean)
	if userDir != "" && err == nil && !strings.HasPrefix(rel, "..") {
		return clean
	}

	sub := filepath.Base(clean)
	if userDir == "" || sub == "." || sub == string(os.PathSeparator) {
		sub = "default"
	}
	return filepath.Join(os.TempDir(), DevDirName, sub)
}
