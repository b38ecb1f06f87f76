// Package assets embeds files shipped inside the sitecheck binary.
package assets

import "embed"

// Policies holds the bundled content policies.
//
//go:embed policies/*.yaml
var Policies embed.FS

// DefaultPolicyName is the embedded policy used when none is configured.
const DefaultPolicyName = "policies/contract.yaml"

// DefaultPolicy returns the bytes of the embedded default policy.
func DefaultPolicy() ([]byte, error) {
	return Policies.ReadFile(DefaultPolicyName)
}
