package domain

import "cth/internal/literal"

// TestCase is one fixture group: an input document plus what the encoder is
// expected to make of it.
type TestCase struct {
	Name  string // Basename shared by the group files
	Input string // Document fed to the encoder, verbatim

	// Expected is nil when the group has no expectation file.
	Expected *literal.Value

	// ExpectedError is the substring a failing parse must print on stdout.
	// Only meaningful when HasExpectedError is set.
	ExpectedError    string
	HasExpectedError bool

	InputPath    string
	ExpectedPath string // Empty when absent
	ErrorPath    string // Empty when absent
}

// ExpectedValue returns the value the forward parse must produce. A group
// without an expectation file expects None.
func (tc TestCase) ExpectedValue() literal.Value {
	if tc.Expected == nil {
		return literal.None()
	}
	return *tc.Expected
}

// TestSuite is the ordered set of cases loaded from one directory.
type TestSuite []TestCase

// Names returns the case names in suite order.
func (s TestSuite) Names() []string {
	names := make([]string, len(s))
	for i, tc := range s {
		names[i] = tc.Name
	}
	return names
}
