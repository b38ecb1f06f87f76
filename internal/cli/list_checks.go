/*
PURPOSE:
  Defines the 'list-checks' subcommand.
  Shows what the active configuration and policy will enforce.

REQUIREMENTS:
  User-specified:
  - Inspect the policy before a publication run.

  Implementation-discovered:
  - Useful for confirming an edited policy file was picked up.

ARCHITECTURE INTEGRATION:
  - Calls: internal/config.LoadPolicy(), internal/contract stage names

ERROR HANDLING:
  - Returns error if config or policy fail to load.

IMPLEMENTATION RULES:
  - Simple output to stdout. Sorted where the source is a map.

USAGE:
  sitecheck list-checks --policy ./sitecheck.policy.yaml

SELF-HEALING INSTRUCTIONS:
  - None.

RELATED FILES:
  - internal/config/policy.go

MAINTENANCE:
  - Add a section when the policy gains a field.
*/

package cli

import (
	"fmt"
	"io"
	"sort"

	"github.com/spf13/cobra"

	"github.com/daryltucker/sitecheck/internal/config"
	"github.com/daryltucker/sitecheck/internal/contract"
	"github.com/daryltucker/sitecheck/internal/model"
)

var listChecksCmd = &cobra.Command{
	Use:   "list-checks",
	Short: "List the documents, stages and policy tokens that will be checked",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		policy, err := config.LoadPolicy(cfg.PolicyFile)
		if err != nil {
			return err
		}

		PrintChecks(cmd.OutOrStdout(), cfg, policy)
		return nil
	},
}

// PrintChecks writes a human-readable summary of what a run enforces.
func PrintChecks(w io.Writer, cfg *config.Config, policy *config.Policy) {
	fmt.Fprintf(w, "Project root: %s\n", cfg.Root)

	section(w, "Stages", contract.StageJSONContracts, contract.StageHTMLAndLinks, contract.StageContentContract)
	section(w, "Documents",
		model.ResultsPath, model.LinksPath, model.SiteMetaPath,
		model.MethodMediaPath, model.PreferenceCasesPath, model.PreferenceMediaPath,
		model.IndexPath)

	var pinned []string
	for _, k := range policy.Links.PinnedKeys() {
		pinned = append(pinned, fmt.Sprintf("%s = %s", k, policy.Links.Pinned[k]))
	}
	section(w, "Pinned links", pinned...)
	section(w, "Method media stems", policy.MethodMedia.Stems...)

	phases := make([]string, 0, len(policy.PreferenceCases.PhaseBadges))
	for p, badge := range policy.PreferenceCases.PhaseBadges {
		phases = append(phases, fmt.Sprintf("%s = %s", p, badge))
	}
	sort.Strings(phases)
	section(w, fmt.Sprintf("Preference case phases (%d cases required)", model.PreferenceCaseCount), phases...)

	section(w, "Required nav anchors", policy.HTML.RequiredNav...)
	section(w, "Forbidden tokens", policy.HTML.ForbiddenTokens...)
	section(w, "Required snippets", policy.HTML.RequiredSnippets...)
	section(w, "Hero labels", policy.HTML.HeroLabels...)
}

func section(w io.Writer, title string, items ...string) {
	fmt.Fprintf(w, "\n%s:\n", title)
	if len(items) == 0 {
		fmt.Fprintln(w, "  (none)")
		return
	}
	for _, item := range items {
		fmt.Fprintf(w, "- %s\n", item)
	}
}

func init() {
	rootCmd.AddCommand(listChecksCmd)
}
