package ui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"cth/internal/domain"
	"cth/internal/literal"
)

const (
	// DefaultHeaderWidth is the width of the header and footer rules
	DefaultHeaderWidth = 61
	nameColumn         = 40
	blockPrefix        = " "
)

// ReporterOptions configures a Reporter
type ReporterOptions struct {
	Out        io.Writer // Defaults to stdout
	Color      bool
	Verbose    bool   // Print diagnostics under failing cases
	FormatName string // Shown in the header
	Width      int    // Header and footer width
	Progress   *ProgressBar
}

// Reporter renders a run on a terminal
type Reporter struct {
	opts ReporterOptions

	yellow *color.Color
	green  *color.Color
	red    *color.Color

	passed int
	failed int
}

// NewReporter creates a new Reporter
func NewReporter(opts ReporterOptions) *Reporter {
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.Width <= 0 {
		opts.Width = DefaultHeaderWidth
	}
	r := &Reporter{
		opts:   opts,
		yellow: color.New(color.FgYellow),
		green:  color.New(color.FgGreen),
		red:    color.New(color.FgRed),
	}
	for _, c := range []*color.Color{r.yellow, r.green, r.red} {
		if opts.Color {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return r
}

// Header prints the run banner
func (r *Reporter) Header() {
	fill := r.opts.Width - len(r.opts.FormatName) - len("  tests ")
	if fill < 0 {
		fill = 0
	}
	left := fill / 2
	r.yellow.Fprintf(r.opts.Out, "%s %s tests %s\n",
		strings.Repeat("=", left), r.opts.FormatName, strings.Repeat("=", fill-left))
}

// Notice prints an informational message
func (r *Reporter) Notice(msg string) {
	fmt.Fprintf(r.opts.Out, "> %s\n", msg)
}

// NoMatch tells that the name filter selected no case
func (r *Reporter) NoMatch(pattern string) {
	r.yellow.Fprintf(r.opts.Out, "No test matches pattern '%s'\n", pattern)
}

// CaseFinished prints the status line of a case, followed by its
// diagnostics when verbose
func (r *Reporter) CaseFinished(res domain.CaseResult) {
	if res.Verdict.Passed {
		r.passed++
	} else {
		r.failed++
	}

	if p := r.opts.Progress; p != nil {
		p.Update(r.passed, r.failed)
		if res.Verdict.Passed {
			return
		}
		p.Clear()
	}

	w := r.opts.Out
	r.yellow.Fprint(w, runewidth.FillRight(res.Case.Name, nameColumn))
	fmt.Fprint(w, " ")
	if res.Verdict.Passed {
		r.green.Fprintln(w, "OK")
		return
	}
	r.red.Fprintf(w, "FAIL - %s\n", res.Verdict.Reason)
	if r.opts.Verbose {
		r.printDiagnostics(res)
	}
}

func (r *Reporter) printDiagnostics(res domain.CaseResult) {
	v := res.Verdict
	r.block("Input", res.Case.Input)
	if looped, ok := v.LoopedInput(); ok {
		r.block("Looped input", looped)
	}

	if label, text := v.Stderr(); text != "" {
		r.block(label, text)
	} else {
		r.block("Expected", literal.Format(res.Case.ExpectedValue(), literal.DefaultWidth))
		if v.Output != nil {
			r.block("Output", literal.Format(*v.Output, literal.DefaultWidth))
		} else if last := v.LastParse(); last != nil && strings.TrimSpace(last.Stdout) != "" {
			r.block("Output text", last.Stdout)
		}
	}
	fmt.Fprintln(r.opts.Out)
}

func (r *Reporter) block(title, text string) {
	fmt.Fprintf(r.opts.Out, "%s%s:\n", blockPrefix, title)
	r.red.Fprintln(r.opts.Out, prefixLines(text, blockPrefix))
}

// Stopping tells that fail-fast ended the run
func (r *Reporter) Stopping() {
	if r.opts.Progress != nil {
		r.opts.Progress.Clear()
	}
	fmt.Fprintln(r.opts.Out, "Stopping at first error...")
}

// Footer prints the totals of the run
func (r *Reporter) Footer(summary domain.RunSummary) {
	if r.opts.Progress != nil {
		r.opts.Progress.Finish()
	}

	c, status := r.green, "OK"
	if !summary.OK() {
		c, status = r.red, "FAIL"
	}
	rule := strings.Repeat("=", r.opts.Width)
	c.Fprintln(r.opts.Out, rule)
	c.Fprintf(r.opts.Out, "%-*s %d / %d => %s\n", nameColumn, "TOTAL", summary.Passed, summary.Run, status)
	c.Fprintln(r.opts.Out, rule)
}

// prefixLines prepends prefix to every line of s
func prefixLines(s, prefix string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = prefix + l
	}
	return strings.Join(lines, "\n")
}
