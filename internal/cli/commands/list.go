package commands

import (
	"errors"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"cth/internal/config"
	"cth/internal/discovery"
	"cth/internal/storage"
	"cth/internal/ui"
)

// ListCommand handles the list command
type ListCommand struct {
	config *config.Config
	filter *discovery.Filter
}

// NewListCommand creates a new ListCommand
func NewListCommand(cfg *config.Config, filter *discovery.Filter) *ListCommand {
	return &ListCommand{
		config: cfg,
		filter: filter,
	}
}

// Execute runs the command
func (lc *ListCommand) Execute(cmd *cobra.Command, args []string) error {
	cfg := lc.config
	loader := discovery.NewLoader(discovery.NewScanner(cfg.InputExt), cfg.ExpectedExt, cfg.ErrorExt)
	suite, err := loader.Load(args[0])
	if err != nil {
		return err
	}

	// Filter tests
	suite = lc.filter.FilterByName(suite, cfg.Flags.Pattern)

	if len(suite) == 0 {
		color.New(color.FgYellow).Fprintln(cmd.OutOrStdout(), "No tests found")
		return nil
	}

	failed, err := lc.lastFailures()
	if err != nil {
		return err
	}

	ui.NewFormatter(cmd.OutOrStdout()).PrintTestList(suite, cfg.Flags.TestCases, failed)
	return nil
}

// lastFailures returns the names that failed in the last stored run, if any
func (lc *ListCommand) lastFailures() (map[string]struct{}, error) {
	st, err := storage.New(lc.config)
	if err != nil {
		return nil, err
	}
	report, err := st.Load()
	if errors.Is(err, storage.ErrNoResults) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return report.FailedNames(), nil
}
