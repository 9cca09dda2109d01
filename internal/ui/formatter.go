package ui

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/fatih/color"

	"cth/internal/domain"
)

// Formatter prints suites and stored runs
type Formatter struct {
	out io.Writer
}

// NewFormatter creates a new Formatter writing to out, stdout when nil
func NewFormatter(out io.Writer) *Formatter {
	if out == nil {
		out = os.Stdout
	}
	return &Formatter{out: out}
}

// PrintMetaStats displays the statistics of a stored run
func (f *Formatter) PrintMetaStats(report *domain.RunReport) {
	cyan := color.New(color.FgCyan)
	white := color.New(color.FgWhite)
	green := color.New(color.FgGreen)
	red := color.New(color.FgRed)
	meta := report.Meta

	fmt.Fprint(f.out, "\n")
	cyan.Fprintln(f.out, "╔═══════════════════════════════════════════════════════════════╗")
	cyan.Fprintln(f.out, "║                     Last Run Statistics                       ║")
	cyan.Fprintln(f.out, "╚═══════════════════════════════════════════════════════════════╝")

	rows := []struct {
		label string
		value string
		c     *color.Color
	}{
		{"Encoder", meta.Encoder, white},
		{"Test Directory", meta.TestDir, white},
		{"Cases Run", fmt.Sprint(meta.TotalCases), white},
		{"Passed", fmt.Sprint(meta.PassedCases), green},
		{"Failed", fmt.Sprint(meta.FailedCases), red},
		{"Unresolved", fmt.Sprint(report.Unresolved()), red},
		{"Duration", fmt.Sprintf("%.2fs", meta.DurationSeconds), white},
		{"Timestamp", meta.Timestamp, white},
	}

	fmt.Fprintln(f.out, "┌─────────────────────────────────┬─────────────────────────────┐")
	for i, row := range rows {
		fmt.Fprintf(f.out, "│ %-31s │ ", row.label)
		row.c.Fprintf(f.out, "%-27s", row.value)
		fmt.Fprintln(f.out, " │")
		if i < len(rows)-1 {
			fmt.Fprintln(f.out, "├─────────────────────────────────┼─────────────────────────────┤")
		}
	}
	fmt.Fprintln(f.out, "└─────────────────────────────────┴─────────────────────────────┘")

	fmt.Fprintln(f.out)
	if meta.FailedCases == 0 {
		green.Fprintln(f.out, "✓ All tests passed!")
		return
	}
	red.Fprintf(f.out, "✗ %d test case(s) failed\n", meta.FailedCases)
	for _, d := range report.Details {
		marker := " "
		if d.Resolved {
			marker = "✓"
		}
		fmt.Fprintf(f.out, "  %s ", marker)
		color.New(color.FgYellow).Fprintf(f.out, "%s", d.TestName)
		fmt.Fprintf(f.out, " - %s\n", d.Reason)
	}
}

// PrintTestList prints the cases of a suite, optionally with the files of
// each group. Names in failed are marked with [F] (from the last run).
func (f *Formatter) PrintTestList(suite domain.TestSuite, showFiles bool, failed map[string]struct{}) {
	cyan := color.New(color.FgCyan)
	color.New(color.FgGreen).Fprintf(f.out, "Found %d test case(s):\n\n", len(suite))

	for i, tc := range suite {
		isLast := i == len(suite)-1

		failMarker := ""
		if _, ok := failed[tc.Name]; ok {
			failMarker = " " + color.RedString("[F]")
		}
		branch := "├── "
		if isLast {
			branch = "└── "
		}
		cyan.Fprintf(f.out, "%s%s", branch, tc.Name)
		fmt.Fprintln(f.out, failMarker)

		if !showFiles {
			continue
		}
		files := []string{tc.InputPath}
		for _, p := range []string{tc.ExpectedPath, tc.ErrorPath} {
			if p != "" {
				files = append(files, p)
			}
		}
		for j, p := range files {
			indent := "│   "
			if isLast {
				indent = "    "
			}
			leaf := "├── "
			if j == len(files)-1 {
				leaf = "└── "
			}
			fmt.Fprintf(f.out, "%s%s%s\n", indent, leaf, color.YellowString(filepath.Base(p)))
		}
	}
}
