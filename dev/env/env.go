package devenv

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

var modName = regexp.MustCompile(`(?m)^module *([\w\-_]+)$`)

func isWorkspaceRoot(currentdir string) bool {
	mod, err := os.ReadFile(filepath.Join(currentdir, "go.mod"))
	if err != nil {
		return false
	}
	matches := modName.FindSubmatch(mod)
	return len(matches) >= 2 && string(matches[1]) == "cardvault-backend"
}

// GetWorkspaceRoot walks up from the cwd until it finds the
// repository's go.mod, so tests and dev tooling can address files
// relative to the repo no matter where they are run from.
func GetWorkspaceRoot() (string, error) {
	currentdir, err := filepath.Abs(".")
	if err != nil {
		return "", err
	}
	root, err := filepath.Abs("/")
	if err != nil {
		return "", err
	}

	for currentdir != root {
		if !isWorkspaceRoot(currentdir) {
			currentdir = filepath.Join(currentdir, "..")
			continue
		}
		return currentdir, nil
	}

	return "", os.ErrNotExist
}

// ResolvePath expands the <dev_state> prefix into the repo-local
// dev/.state directory, creating it if necessary. Paths without the
// prefix pass through untouched.
func ResolvePath(path string) (string, error) {
	if !strings.HasPrefix(path, "<dev_state>") {
		return path, nil
	}

	root, err := GetWorkspaceRoot()
	if err != nil {
		return "", err
	}

	err = os.MkdirAll(filepath.Join(root, "dev", ".state"), 0777)
	if err != nil {
		return "", err
	}

	subpath := filepath.Join(strings.Split(path, string(os.PathSeparator))[1:]...)
	return filepath.Join(root, "dev", ".state", subpath), nil
}
