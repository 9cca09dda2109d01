package commands

import (
	"errors"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"cth/internal/cli"
	"cth/internal/config"
	"cth/internal/discovery"
)

// ErrTestsFailed is returned when the run completed but not every case
// passed. The report has already been printed.
var ErrTestsFailed = errors.New("tests failed")

// Commands holds all CLI commands
type Commands struct {
	Run      *RunCommand
	List     *ListCommand
	Migrate  *MigrateCommand
	Failures *FailuresCommand
}

// NewCommands creates all commands sharing cfg. cfg is filled in from the
// flags before any command executes.
func NewCommands(cfg *config.Config) *Commands {
	filter := discovery.NewFilter()

	return &Commands{
		Run:      NewRunCommand(cfg, filter),
		List:     NewListCommand(cfg, filter),
		Migrate:  NewMigrateCommand(cfg),
		Failures: NewFailuresCommand(cfg),
	}
}

// Register registers all commands with cobra. The root command runs the
// suite.
func (c *Commands) Register(rootCmd *cobra.Command, flags *cli.Flags, cfg *config.Config) {
	loadConfig := func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(flags.ToConfigFlags())
		if err != nil {
			return err
		}
		*cfg = *loaded
		if cfg.Flags.NoColor {
			color.NoColor = true
		}
		return nil
	}

	rootCmd.Args = cobra.ExactArgs(2)
	rootCmd.RunE = c.Run.Execute
	rootCmd.PersistentPreRunE = loadConfig
	rootCmd.SilenceUsage = true
	rootCmd.SilenceErrors = true

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flags.ConfigFile, "config", "", "Configuration file (.yaml, .yml or .toml)")
	pf.StringVarP(&flags.OutputDir, "output", "o", "", "Directory where the results of the run are stored")
	pf.StringVar(&flags.ResultsFormat, "results-format", "", "Results file format: json or msgpack (default json)")
	pf.StringVar(&flags.InputExt, "ext", "", "Extension of fixture input files (default yaml)")
	pf.StringVar(&flags.ExpectedExt, "expected-ext", "", "Extension of expected output files (default txt)")
	pf.StringVar(&flags.ErrorExt, "error-ext", "", "Extension of expected error files (default error)")
	pf.StringVar(&flags.DSN, "dsn", "", "MySQL DSN where runs are also recorded")
	pf.BoolVar(&flags.NoColor, "no-color", false, "Disable colored output")

	f := rootCmd.Flags()
	f.StringVarP(&flags.Pattern, "pattern", "k", "", "Only run the tests whose name contains this pattern")
	f.BoolVarP(&flags.FailFast, "fail-fast", "f", false, "Stop at the first error")
	f.BoolVarP(&flags.NoRoundTrip, "no-round-trip", "u", false, "Do not check the round trip (dump then parse again) nor idempotence")
	f.BoolVarP(&flags.Verbose, "verbose", "v", false, "Print diagnostics when a test fails")
	f.StringVar(&flags.Timeout, "timeout", "", "Timeout of each encoder invocation, 0 to disable (default 60s)")
	f.StringVar(&flags.DumpFlag, "dump-flag", "", "Argument asking the encoder to dump its input back (default -d)")
	f.StringVar(&flags.FormatName, "name", "", "Format name shown in the header (default STYML)")
	f.BoolVar(&flags.Progress, "progress", false, "Show a progress bar and only print failing tests")

	// List command
	listCmd := &cobra.Command{
		Use:   "list <test dir>",
		Short: "List the test cases of a directory",
		Long:  "Load the fixture groups of a directory and list them without running the encoder",
		Args:  cobra.ExactArgs(1),
		RunE:  c.List.Execute,
	}
	listCmd.Flags().StringVarP(&flags.Pattern, "pattern", "k", "", "Only list the tests whose name contains this pattern")
	listCmd.Flags().BoolVarP(&flags.TestCases, "files", "c", false, "Show the files of each test case")
	rootCmd.AddCommand(listCmd)

	// Migrate command
	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create the results database",
		Long:  "Create the MySQL database and tables where runs are recorded with --dsn",
		Args:  cobra.NoArgs,
		RunE:  c.Migrate.Execute,
	}
	rootCmd.AddCommand(migrateCmd)

	// Failures command
	failuresCmd := &cobra.Command{
		Use:   "failures",
		Short: "View test failures interactively",
		Long:  "Display the failures of the last stored run in an interactive viewer",
		Args:  cobra.NoArgs,
		RunE:  c.Failures.Execute,
	}
	failuresCmd.Flags().BoolVar(&flags.Stats, "stats", false, "Print the statistics of the last run instead of opening the viewer")
	rootCmd.AddCommand(failuresCmd)
}
