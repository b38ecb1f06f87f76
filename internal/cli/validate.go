/*
PURPOSE:
  Defines the 'validate' subcommand (also the root command's action).
  Executes the full content contract check.

REQUIREMENTS:
  User-specified:
  - Run the checks and print one verdict line.

  Implementation-discovered:
  - Need to load config first.
  - Apply flag overrides to config.

ARCHITECTURE INTEGRATION:
  - Calls: internal/engine.Run()
  - Uses: internal/config

ERROR HANDLING:
  - Returns error if config load fails or a check fails; main prints it.

IMPLEMENTATION RULES:
  - Logic: Load Config -> Override -> Engine.Run -> OK line.

USAGE:
  sitecheck validate --root ./site

SELF-HEALING INSTRUCTIONS:
  - Check flag names match Config struct fields generally.

RELATED FILES:
  - internal/cli/root.go

MAINTENANCE:
  - Update when adding new CLI overrides.
*/

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/daryltucker/sitecheck/internal/engine"
)

// SuccessLine is printed when every check passes.
const SuccessLine = "OK: site validation passed"

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the project against the content contract",
	Long: `Runs the content contract checks against a project directory.
The process follows a strict order and stops at the first violation:
1. JSON contracts: key sets, types, enumerated values and cross-document
   references in data/*.json, including media files on disk.
2. HTML and links: <title>, alt text on every <img>, and local href/src targets.
3. Content contract: required and forbidden tokens from the content policy.

Pass --report-dir to append each stage's outcome to JSON Lines and CSV reports.`,
	Example: `  # Validate the current directory (same as plain 'sitecheck')
  sitecheck validate

  # Validate another checkout with an edited policy
  sitecheck validate --root ../project-page --policy ./sitecheck.policy.yaml

  # Keep a report for CI artifacts
  sitecheck validate --report-dir ./reports -v`,
	Args: cobra.NoArgs,
	RunE: runValidate,
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	if err := engine.Run(cfg); err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), SuccessLine)
	return nil
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
