package contract_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/daryltucker/sitecheck/internal/contract"
	"github.com/daryltucker/sitecheck/internal/testutil"
)

// withBody inserts markup just before </body>.
func withBody(markup string) string {
	return strings.Replace(testutil.ValidHTML, "</body>", markup+"\n</body>", 1)
}

func TestHTMLAndLinks_Passes(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		html   string
		assets map[string]string
	}{
		"valid fixture": {
			html: testutil.ValidHTML,
		},
		"external and non-file references are skipped": {
			html: withBody(`<a href="http://example.com/x">x</a>
<a href="mailto:someone@example.com">mail</a>
<a href="#top">top</a>
<script src="//cdn.example.com/lib.js"></script>
<img src="data:image/png;base64,AAAA" alt="dot">
<a href="">empty</a>`),
		},
		"query and fragment are stripped": {
			html: withBody(`<a href="assets/js/site.js?v=2#main">js</a>`),
		},
		"root-relative path resolves against the project root": {
			html: withBody(`<link rel="icon" href="/assets/css/site.css">`),
		},
		"percent-encoded path": {
			html:   withBody(`<img src="assets/img/with%20space.png" alt="spaced">`),
			assets: map[string]string{"assets/img/with space.png": "png"},
		},
		"single-quoted attributes": {
			html: withBody(`<img src='assets/img/one_annotator_eta.png' alt='quoted'>`),
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			f := testutil.NewFixture()
			f.HTML = tc.html
			for k, v := range tc.assets {
				f.Assets[k] = v
			}

			assert.NoError(t, newChecker(t, f.MapFS(t)).HTMLAndLinks())
		})
	}
}

func TestHTMLAndLinks_Violations(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		html         string
		wantKind     contract.Kind
		wantContains []string
	}{
		"missing title": {
			html:         strings.Replace(testutil.ValidHTML, "<title>RE-PO: Robust Preference Optimization</title>", "", 1),
			wantKind:     contract.KindContent,
			wantContains: []string{"index.html missing <title>"},
		},
		"image without alt": {
			html:         withBody(`<img src="assets/img/one_annotator_eta.png">`),
			wantKind:     contract.KindContent,
			wantContains: []string{"images missing alt text: [assets/img/one_annotator_eta.png]"},
		},
		"every image lacking alt is listed": {
			html: withBody(`<img src="assets/img/one_annotator_eta.png" alt="  ">
<IMG SRC="assets/img/two_annotators_eta.png"/>
<img alt="">`),
			wantKind: contract.KindContent,
			wantContains: []string{
				"images missing alt text: [assets/img/one_annotator_eta.png, assets/img/two_annotators_eta.png, <unknown>]",
			},
		},
		"broken local link": {
			html:         withBody(`<a href="docs/paper.pdf">pdf</a>`),
			wantKind:     contract.KindReference,
			wantContains: []string{"broken local reference in index.html: docs/paper.pdf"},
		},
		"broken local script": {
			html:         withBody(`<script src="assets/js/missing.js?v=1"></script>`),
			wantKind:     contract.KindReference,
			wantContains: []string{"broken local reference in index.html: assets/js/missing.js?v=1"},
		},
		"reference escaping the root": {
			html:         withBody(`<a href="../outside.txt">out</a>`),
			wantKind:     contract.KindReference,
			wantContains: []string{"broken local reference in index.html: ../outside.txt"},
		},
		"alt check runs before link check": {
			html:         withBody(`<a href="missing.html">m</a><img src="x.png">`),
			wantKind:     contract.KindContent,
			wantContains: []string{"images missing alt text: [x.png]"},
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			f := testutil.NewFixture()
			f.HTML = tc.html

			requireViolation(t, newChecker(t, f.MapFS(t)).HTMLAndLinks(), tc.wantKind, tc.wantContains...)
		})
	}
}

func TestHTMLAndLinks_MissingIndex(t *testing.T) {
	t.Parallel()

	fsys := testutil.NewFixture().MapFS(t)
	delete(fsys, "index.html")

	requireViolation(t, newChecker(t, fsys).HTMLAndLinks(), contract.KindMalformed, "cannot read index.html")
}
