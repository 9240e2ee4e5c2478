// Package file provides file-based implementations of driven port interfaces.
// These adapters persist data to the local filesystem under ~/.bucketqa.
//
// Adapters:
//   - ConfigStore: TOML-based configuration storage
//   - PromptStore: user-editable prompt templates
package file

import (
	"fmt"
	"os"
	"path/filepath"
)

// dirName is the configuration directory under the user's home.
const dirName = ".bucketqa"

// DefaultDir returns ~/.bucketqa.
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home directory: %w", err)
	}
	return filepath.Join(home, dirName), nil
}
