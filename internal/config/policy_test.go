package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadPolicy_Embedded(t *testing.T) {
	p, err := LoadPolicy("")
	require.NoError(t, err)

	assert.Equal(t, []string{"code_url", "paper_url"}, p.Links.PinnedKeys())
	assert.Equal(t, "https://arxiv.org/abs/2509.24159", p.Links.Pinned["paper_url"])
	assert.Equal(t, []string{"flow_method", "reliability_method"}, p.MethodMedia.Stems)
	assert.Equal(t, map[string]string{"A": "Paper evidence", "B": "Illustrative example"}, p.PreferenceCases.PhaseBadges)
	assert.Equal(t, []string{"#contributions", "#method", "#results", "#citation"}, p.HTML.RequiredNav)
	assert.Contains(t, p.HTML.ForbiddenTokens, "<h2>Scope</h2>")
	assert.Contains(t, p.HTML.RequiredSnippets, "💡 Our Method (RE-PO)")
	assert.Equal(t, []string{">Paper<", ">Code<", ">Citation<"}, p.HTML.HeroLabels)
}

func TestLoadPolicy_File(t *testing.T) {
	path := writeFile(t, t.TempDir(), "policy.yaml", `
method_media:
  stems: [teaser]
preference_cases:
  phase_badges:
    A: Paper evidence
html:
  required_nav: ["#intro"]
`)

	p, err := LoadPolicy(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"teaser"}, p.MethodMedia.Stems)
	assert.Equal(t, []string{"#intro"}, p.HTML.RequiredNav)
	assert.Empty(t, p.Links.PinnedKeys())
}

func TestParsePolicy_Errors(t *testing.T) {
	tests := map[string]struct {
		content      string
		wantContains string
	}{
		"unknown key": {
			content: `
method_media: {stems: [a]}
preference_cases: {phase_badges: {A: x}}
html:
  requried_nav: ["#typo"]
`,
			wantContains: "failed to parse policy",
		},
		"no stems": {
			content: `
preference_cases: {phase_badges: {A: x}}
`,
			wantContains: "validation failed",
		},
		"no phases": {
			content: `
method_media: {stems: [a]}
`,
			wantContains: "validation failed",
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			_, err := ParsePolicy([]byte(tc.content), "test.yaml")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantContains)
		})
	}
}

func TestLoadPolicy_MissingFile(t *testing.T) {
	_, err := LoadPolicy(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read policy")
}
