package commands

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"cth/internal/config"
	"cth/internal/storage"
	"cth/internal/ui"
)

// FailuresCommand handles the failures command
type FailuresCommand struct {
	config *config.Config
}

// NewFailuresCommand creates a new FailuresCommand
func NewFailuresCommand(cfg *config.Config) *FailuresCommand {
	return &FailuresCommand{config: cfg}
}

// Execute runs the command
func (fc *FailuresCommand) Execute(cmd *cobra.Command, args []string) error {
	st, err := storage.New(fc.config)
	if err != nil {
		return err
	}
	report, err := st.Load()
	if err != nil {
		return err
	}

	// The viewer needs a terminal; print the statistics otherwise.
	if fc.config.Flags.Stats || !term.IsTerminal(int(os.Stdout.Fd())) {
		ui.NewFormatter(cmd.OutOrStdout()).PrintMetaStats(report)
		return nil
	}
	var viewer ui.Viewer = ui.NewErrorViewer(st, cmd.OutOrStdout())
	return viewer.View(report)
}
