// Package scaffold creates the local environment and ignore files on first run.
// Existing files are never touched.
package scaffold

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

const (
	EnvFileName    = ".env"
	IgnoreFileName = ".gitignore"

	// SelfCheckKey is written to the template so the bootstrap command can
	// verify the file parses.
	SelfCheckKey = "TEST_KEY"
)

const envTemplate = `TEST_KEY=MyPassword123
NEWS_API_KEY=<INPUT_YOUR_KEY_HERE>
TODOIST_API_KEY=<INPUT_YOUR_KEY_HERE>
WEATHER_API_KEY=<INPUT_YOUR_KEY_HERE>
EMAIL_SENDER=<YOUR_EMAIL>
EMAIL_PASSWORD=<YOUR_EMAIL_PASSWORD>
`

const ignoreTemplate = `.env

# Build output
/bin/
*.exe
*.test
*.out

# OS generated files
.DS_Store
Thumbs.db
`

// EnvTemplate returns the content written to a fresh environment file.
func EnvTemplate() string { return envTemplate }

// IgnoreTemplate returns the content written to a fresh ignore file.
func IgnoreTemplate() string { return ignoreTemplate }

// EnsureFile writes content to path unless the file already exists.
// It reports whether the file was created.
func EnsureFile(path, content string, perm fs.FileMode) (bool, error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, perm)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return false, nil
		}
		return false, fmt.Errorf("create %s: %w", path, err)
	}

	if _, err := f.WriteString(content); err != nil {
		_ = f.Close()
		return false, fmt.Errorf("write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return false, fmt.Errorf("close %s: %w", path, err)
	}
	return true, nil
}

// Result reports what Bootstrap did.
type Result struct {
	EnvPath       string
	IgnorePath    string
	EnvCreated    bool
	IgnoreCreated bool
	// SelfCheckOK is true when the environment file parses and defines SelfCheckKey.
	SelfCheckOK bool
}

// Bootstrap ensures both files exist in dir, then parses the environment file.
func Bootstrap(dir string) (Result, error) {
	res := Result{
		EnvPath:    filepath.Join(dir, EnvFileName),
		IgnorePath: filepath.Join(dir, IgnoreFileName),
	}

	created, err := EnsureFile(res.EnvPath, envTemplate, 0o600)
	if err != nil {
		return res, err
	}
	res.EnvCreated = created

	created, err = EnsureFile(res.IgnorePath, ignoreTemplate, 0o644)
	if err != nil {
		return res, err
	}
	res.IgnoreCreated = created

	values, err := godotenv.Read(res.EnvPath)
	if err != nil {
		return res, fmt.Errorf("parse %s: %w", res.EnvPath, err)
	}
	res.SelfCheckOK = values[SelfCheckKey] != ""

	return res, nil
}
