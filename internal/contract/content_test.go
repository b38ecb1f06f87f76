package contract_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daryltucker/sitecheck/internal/config"
	"github.com/daryltucker/sitecheck/internal/contract"
	"github.com/daryltucker/sitecheck/internal/testutil"
)

func TestContentContract(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		html         string
		wantContains string
	}{
		"valid fixture": {
			html: testutil.ValidHTML,
		},
		"missing nav anchor": {
			html:         strings.Replace(testutil.ValidHTML, `href="#method"`, `href="#approach"`, 1),
			wantContains: "missing nav anchor #method",
		},
		"forbidden heading": {
			html:         withBody("<h2>Scope</h2>"),
			wantContains: "forbidden content token found: <h2>Scope</h2>",
		},
		"forbidden mailto link": {
			html:         withBody(`<a href="mailto:team@example.com">team</a>`),
			wantContains: "forbidden content token found: mailto:",
		},
		"removed tldr section": {
			html:         withBody(`<section id="tldr"></section>`),
			wantContains: `forbidden content token found: id="tldr"`,
		},
		"missing required snippet": {
			html:         strings.Replace(testutil.ValidHTML, "Accepted to ICLR 2026", "Under review", 1),
			wantContains: "missing required content snippet: Accepted to ICLR 2026",
		},
		"missing emoji heading": {
			html:         strings.Replace(testutil.ValidHTML, "🚀 Key Results", "Key Results", 1),
			wantContains: "missing required content snippet: 🚀 Key Results",
		},
		"missing hero label": {
			html:         strings.Replace(testutil.ValidHTML, ">Code<", ">Source<", 1),
			wantContains: "hero section must expose Paper/Code/Citation text buttons",
		},
		"nav anchors are checked before forbidden tokens": {
			html:         strings.Replace(withBody("Target Metrics"), `href="#results"`, `href="#numbers"`, 1),
			wantContains: "missing nav anchor #results",
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			f := testutil.NewFixture()
			f.HTML = tc.html
			err := newChecker(t, f.MapFS(t)).ContentContract()

			if tc.wantContains == "" {
				assert.NoError(t, err)
				return
			}
			v := requireViolation(t, err, contract.KindContent, tc.wantContains)
			assert.Equal(t, "index.html", v.Document)
		})
	}
}

func TestContentContract_PolicyDriven(t *testing.T) {
	t.Parallel()

	policy, err := config.ParsePolicy([]byte(`
method_media:
  stems: [flow_method]
preference_cases:
  phase_badges: {A: Paper evidence}
html:
  required_snippets: ["Camera-ready"]
  forbidden_tokens: ["Key Contributions"]
`), "inline")
	require.NoError(t, err)

	f := testutil.NewFixture()
	f.HTML = "<title>t</title>Camera-ready"
	assert.NoError(t, contract.New(f.MapFS(t), policy).ContentContract())

	f.HTML = testutil.ValidHTML
	err = contract.New(f.MapFS(t), policy).ContentContract()
	requireViolation(t, err, contract.KindContent, "forbidden content token found: Key Contributions")
}
