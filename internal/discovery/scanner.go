package discovery

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Scanner finds fixture input files in a directory
type Scanner struct {
	inputExt string
}

// NewScanner creates a new Scanner for input files with the given extension
func NewScanner(inputExt string) *Scanner {
	return &Scanner{inputExt: "." + strings.TrimPrefix(inputExt, ".")}
}

// Scan returns the input files directly inside root. Subdirectories and
// hidden files are ignored.
func (s *Scanner) Scan(root string) ([]string, error) {
	root = filepath.Clean(root)
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("test path does not exist: %s", root)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("test path is not a directory: %s", root)
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("read test directory %s: %w", root, err)
	}

	var inputs []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}
		if strings.HasSuffix(name, s.inputExt) && len(name) > len(s.inputExt) {
			inputs = append(inputs, filepath.Join(root, name))
		}
	}
	return inputs, nil
}

// Ext returns the input extension, with its leading dot
func (s *Scanner) Ext() string {
	return s.inputExt
}
