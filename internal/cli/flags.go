package cli

import "cth/internal/config"

// Flags holds command-line flags
type Flags struct {
	Pattern       string
	OutputDir     string
	FailFast      bool
	NoRoundTrip   bool
	Verbose       bool
	NoColor       bool
	Progress      bool
	TestCases     bool
	Stats         bool
	ConfigFile    string
	InputExt      string
	ExpectedExt   string
	ErrorExt      string
	DumpFlag      string
	Timeout       string
	FormatName    string
	ResultsFormat string
	DSN           string
}

// ToConfigFlags converts CLI flags to config flags
func (f *Flags) ToConfigFlags() config.Flags {
	return config.Flags{
		Pattern:       f.Pattern,
		OutputDir:     f.OutputDir,
		FailFast:      f.FailFast,
		NoRoundTrip:   f.NoRoundTrip,
		Verbose:       f.Verbose,
		NoColor:       f.NoColor,
		Progress:      f.Progress,
		TestCases:     f.TestCases,
		Stats:         f.Stats,
		ConfigFile:    f.ConfigFile,
		InputExt:      f.InputExt,
		ExpectedExt:   f.ExpectedExt,
		ErrorExt:      f.ErrorExt,
		DumpFlag:      f.DumpFlag,
		Timeout:       f.Timeout,
		FormatName:    f.FormatName,
		ResultsFormat: f.ResultsFormat,
		DSN:           f.DSN,
	}
}
