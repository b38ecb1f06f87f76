/*
PURPOSE:
  Defines the root Cobra command for the sitecheck CLI.
  Running it with no subcommand validates the project.

REQUIREMENTS:
  User-specified:
  - Invoked as a standalone command with no flags.
  - Support global flags like --config and --root for non-default layouts.

  Implementation-discovered:
  - Needs to expose an Execute() function for main.go.
  - cobra's own error and usage printing is silenced; main prints the
    single ERROR line.

ARCHITECTURE INTEGRATION:
  - Called by: cmd/sitecheck/main.go
  - Calls: Child commands (validate, list-checks, policy)
  - Modifies: Global flag state (temporarily, until passed down).

ERROR HANDLING:
  - Returns error to main.go for exit code handling.

IMPLEMENTATION RULES:
  - Use `PersistentFlags()` for flags available to all subcommands.

USAGE:
  Called by main.go.

SELF-HEALING INSTRUCTIONS:
  - If adding new global flags, add them to init() and loadConfig().

RELATED FILES:
  - cmd/sitecheck/main.go
  - internal/cli/validate.go

MAINTENANCE:
  - Update when adding global configuration options.
*/

package cli

import (
	"github.com/spf13/cobra"

	"github.com/daryltucker/sitecheck/internal/config"
	"github.com/daryltucker/sitecheck/internal/output"
)

var (
	// cfgFile stores the path to the config file (if specified via flag)
	cfgFile string

	rootOverride      string
	policyOverride    string
	reportDirOverride string
	verbose           bool

	rootCmd = &cobra.Command{
		Use:   "sitecheck",
		Short: "Pre-publish content contract validator for the project page",
		Long: `Checks data/*.json and index.html in a project directory against the
site's content contract and stops at the first violation.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runValidate,
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./sitecheck.yaml)")
	rootCmd.PersistentFlags().StringVar(&rootOverride, "root", "", "project root directory (default is the current directory)")
	rootCmd.PersistentFlags().StringVar(&policyOverride, "policy", "", "content policy YAML (default is the embedded policy)")
	rootCmd.PersistentFlags().StringVar(&reportDirOverride, "report-dir", "", "directory for JSON Lines and CSV check reports")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log each check to stderr")
}

// loadConfig loads the config file and applies flag overrides.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}

	if rootOverride != "" {
		cfg.Root = rootOverride
	}
	if policyOverride != "" {
		cfg.PolicyFile = policyOverride
	}
	if reportDirOverride != "" {
		cfg.ReportDir = reportDirOverride
	}
	if verbose {
		cfg.LogLevel = "debug"
	}

	output.Configure(cmd.ErrOrStderr(), cfg.LogLevel)
	return cfg, nil
}
