package commands

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"cth/internal/config"
	"cth/internal/discovery"
	"cth/internal/domain"
	"cth/internal/execution"
	"cth/internal/storage"
	"cth/internal/ui"
)

// RunCommand handles the root command: it runs a suite against an encoder
type RunCommand struct {
	config *config.Config
	filter *discovery.Filter
}

// NewRunCommand creates a new RunCommand
func NewRunCommand(cfg *config.Config, filter *discovery.Filter) *RunCommand {
	return &RunCommand{
		config: cfg,
		filter: filter,
	}
}

// Execute runs the command. args are the encoder command line and the test
// directory.
func (rc *RunCommand) Execute(cmd *cobra.Command, args []string) error {
	encoder, testDir := args[0], args[1]
	cfg := rc.config
	out := cmd.OutOrStdout()

	runner, err := execution.NewRunner(encoder, cfg.Timeout)
	if err != nil {
		return err
	}

	opts := ui.ReporterOptions{
		Out:        out,
		Color:      !cfg.Flags.NoColor && !color.NoColor,
		Verbose:    cfg.Flags.Verbose,
		FormatName: cfg.FormatName,
	}
	reporter := ui.NewReporter(opts)

	loader := discovery.NewLoader(discovery.NewScanner(cfg.InputExt), cfg.ExpectedExt, cfg.ErrorExt)
	loader.Notify = reporter.Notice
	suite, err := loader.Load(testDir)
	if err != nil {
		return loadError(out, err)
	}

	selected := rc.filter.FilterByName(suite, cfg.Flags.Pattern)
	if cfg.Flags.Progress && len(selected) > 0 {
		opts.Progress = ui.NewProgressBar(len(selected), cmd.ErrOrStderr())
		reporter = ui.NewReporter(opts)
	}

	reporter.Header()
	if len(selected) == 0 {
		reporter.NoMatch(cfg.Flags.Pattern)
	}

	checker := execution.NewChecker(runner, execution.CheckerOptions{
		DumpFlag:  cfg.DumpFlag,
		RoundTrip: cfg.RoundTrip(),
		Timeout:   cfg.Timeout,
	})
	suiteRunner := execution.NewSuiteRunner(checker, cfg.Flags.FailFast)
	suiteRunner.SetReporter(reporter)

	summary, runErr := suiteRunner.Execute(cmd.Context(), selected)
	if summary.Stopped && runErr == nil {
		reporter.Stopping()
	}
	reporter.Footer(summary)

	info := domain.RunInfo{
		Encoder:   encoder,
		TestDir:   testDir,
		Pattern:   cfg.Flags.Pattern,
		RoundTrip: cfg.RoundTrip(),
	}
	if err := rc.saveResults(out, summary, info); err != nil {
		return err
	}

	if runErr != nil {
		return fmt.Errorf("run interrupted: %w", runErr)
	}
	if !summary.OK() {
		return ErrTestsFailed
	}
	return nil
}

// saveResults stores the report when an output directory or a database is
// configured
func (rc *RunCommand) saveResults(out io.Writer, summary domain.RunSummary, info domain.RunInfo) error {
	cfg := rc.config
	var backends storage.Multi

	if cfg.HasOutputDir() {
		fileStorage, err := storage.New(cfg)
		if err != nil {
			return err
		}
		backends = append(backends, fileStorage)
	}
	if cfg.HasDatabase() {
		dsn, err := cfg.GetDSN()
		if err != nil {
			return err
		}
		sqlStorage, err := storage.OpenSQLStorage(dsn)
		if err != nil {
			return err
		}
		defer sqlStorage.Close()
		backends = append(backends, sqlStorage)
	}
	if len(backends) == 0 {
		return nil
	}

	report := domain.NewRunReport(summary, info, time.Now())
	if err := backends.Save(&report); err != nil {
		return fmt.Errorf("failed to save test results: %w", err)
	}
	if cfg.HasOutputDir() {
		color.New(color.FgCyan).Fprintf(out, "Results saved to %s\n", cfg.GetOutputPath())
	}
	return nil
}

// loadError reports a broken suite. Corpus problems are printed like test
// failures and end the run with ErrTestsFailed; other errors are returned.
func loadError(out io.Writer, err error) error {
	red := color.New(color.FgRed)

	var malformed *discovery.MalformedExpectationError
	switch {
	case errors.As(err, &malformed):
		fmt.Fprintf(out, ">>> ERROR: unable to evaluate the expected output test pattern of %s: %v\n", malformed.Name, malformed.Err)
		red.Fprintln(out, malformed.Text)
		return ErrTestsFailed
	case errors.Is(err, discovery.ErrEmptySuite):
		fmt.Fprintf(out, ">>> ERROR: %v\n", err)
		return ErrTestsFailed
	}
	return err
}
