package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/daryltucker/sitecheck/internal/assets"
	"github.com/daryltucker/sitecheck/internal/output"
)

// DefaultPolicyFile is where 'policy install' writes when no path is given.
const DefaultPolicyFile = "sitecheck.policy.yaml"

var forceInstall bool

var policyCmd = &cobra.Command{
	Use:   "policy",
	Short: "Manage the content policy (required and forbidden page tokens)",
}

var policyInstallCmd = &cobra.Command{
	Use:   "install [path]",
	Short: "Write the embedded default policy to a file for editing",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		target := DefaultPolicyFile
		if len(args) == 1 {
			target = args[0]
		}
		if err := InstallPolicy(target, forceInstall); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Installed policy to %s (use --policy %s)\n", target, target)
		return nil
	},
}

// InstallPolicy copies the embedded default policy to target. An existing
// file is only replaced when force is set.
func InstallPolicy(target string, force bool) error {
	if !force {
		if _, err := os.Stat(target); err == nil {
			return fmt.Errorf("%s already exists (use --force to overwrite)", target)
		} else if !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to check %s: %w", target, err)
		}
	}

	content, err := assets.DefaultPolicy()
	if err != nil {
		return fmt.Errorf("failed to read embedded policy: %w", err)
	}

	if dir := filepath.Dir(target); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(target, content, 0o644); err != nil {
		return fmt.Errorf("failed to write policy to %s: %w", target, err)
	}

	output.Logger.Info("Installed policy", "source", assets.DefaultPolicyName, "target", target)
	return nil
}

func init() {
	policyInstallCmd.Flags().BoolVar(&forceInstall, "force", false, "overwrite an existing file")
	policyCmd.AddCommand(policyInstallCmd)
	rootCmd.AddCommand(policyCmd)
}
