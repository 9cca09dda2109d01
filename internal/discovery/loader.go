package discovery

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"cth/internal/domain"
	"cth/internal/literal"
)

// ErrEmptySuite is returned when a directory holds no fixture group
var ErrEmptySuite = errors.New("no test found")

// MalformedExpectationError reports an expectation file that is not a valid
// literal. The corpus itself is broken, so the run cannot go on.
type MalformedExpectationError struct {
	Name string
	Path string
	Text string // Raw file content
	Err  error
}

func (e *MalformedExpectationError) Error() string {
	return fmt.Sprintf("unable to evaluate the expected output of %s (%s): %v", e.Name, e.Path, e.Err)
}

func (e *MalformedExpectationError) Unwrap() error {
	return e.Err
}

// Loader builds test suites from fixture directories
type Loader struct {
	scanner     *Scanner
	expectedExt string
	errorExt    string

	// Notify, when set, receives informational messages about the groups
	Notify func(msg string)
}

// NewLoader creates a Loader for the given fixture file extensions
func NewLoader(scanner *Scanner, expectedExt, errorExt string) *Loader {
	return &Loader{
		scanner:     scanner,
		expectedExt: "." + strings.TrimPrefix(expectedExt, "."),
		errorExt:    "." + strings.TrimPrefix(errorExt, "."),
	}
}

// Load reads every fixture group of dir and returns them sorted by name.
// A malformed expectation file stops loading with a
// *MalformedExpectationError; a directory without groups yields
// ErrEmptySuite.
func (l *Loader) Load(dir string) (domain.TestSuite, error) {
	inputs, err := l.scanner.Scan(dir)
	if err != nil {
		return nil, err
	}

	byName := make(map[string]domain.TestCase, len(inputs))
	for _, input := range inputs {
		tc, err := l.LoadCase(input)
		if err != nil {
			return nil, err
		}
		byName[tc.Name] = tc
	}
	if len(byName) == 0 {
		return nil, fmt.Errorf("%w in directory '%s'", ErrEmptySuite, dir)
	}

	suite := make(domain.TestSuite, 0, len(byName))
	for _, tc := range byName {
		suite = append(suite, tc)
	}
	sort.Slice(suite, func(i, j int) bool { return suite[i].Name < suite[j].Name })
	return suite, nil
}

// LoadCase reads one fixture group given the path of its input file
func (l *Loader) LoadCase(inputPath string) (domain.TestCase, error) {
	base := strings.TrimSuffix(inputPath, l.scanner.Ext())
	tc := domain.TestCase{
		Name:      filepath.Base(base),
		InputPath: inputPath,
	}

	input, err := os.ReadFile(inputPath)
	if err != nil {
		return tc, fmt.Errorf("read input of %s: %w", tc.Name, err)
	}
	tc.Input = string(input)

	expectedPath := base + l.expectedExt
	text, found, err := readOptional(expectedPath)
	if err != nil {
		return tc, fmt.Errorf("read expected output of %s: %w", tc.Name, err)
	}
	if found {
		v, err := literal.Parse(text)
		if err != nil {
			return tc, &MalformedExpectationError{Name: tc.Name, Path: expectedPath, Text: text, Err: err}
		}
		tc.Expected = &v
		tc.ExpectedPath = expectedPath
	} else if l.Notify != nil {
		l.Notify(fmt.Sprintf("No expected output file found for %s, using empty one", tc.Name))
	}

	errorPath := base + l.errorExt
	text, found, err = readOptional(errorPath)
	if err != nil {
		return tc, fmt.Errorf("read expected error of %s: %w", tc.Name, err)
	}
	if found {
		tc.ExpectedError = text
		tc.HasExpectedError = true
		tc.ErrorPath = errorPath
	}

	return tc, nil
}

func readOptional(path string) (string, bool, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return string(data), true, nil
}
