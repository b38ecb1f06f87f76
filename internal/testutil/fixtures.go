// Package testutil provides a valid project fixture for sitecheck tests.
// Tests mutate the exported fields, then materialize the fixture as an
// in-memory filesystem or as files in a temp directory.
package testutil

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"
)

// Fixture is a project page whose documents satisfy the default policy.
type Fixture struct {
	Results         []map[string]any
	Links           map[string]any
	Meta            map[string]any
	MethodMedia     map[string]any
	Cases           []map[string]any
	PreferenceMedia map[string]any
	HTML            string
	// Assets are extra files (media, images, scripts) keyed by root-relative path.
	Assets map[string]string
}

// NewFixture returns a fixture that passes every check.
func NewFixture() *Fixture {
	f := &Fixture{
		Links: map[string]any{
			"paper_url": "https://arxiv.org/abs/2509.24159",
			"code_url":  "https://github.com/XiaoyangCao1113/RE-PO",
		},
		Meta: map[string]any{
			"project_name":     "RE-PO",
			"tagline":          "Robust preference optimization under noisy annotators",
			"conference":       "ICLR",
			"year":             2026,
			"license":          "MIT",
			"paper_badge_text": "Accepted to ICLR 2026",
			"authors":          []any{"A. Author", "B. Author"},
			"affiliations":     []any{"Example University"},
		},
		MethodMedia:     map[string]any{},
		PreferenceMedia: map[string]any{},
		HTML:            ValidHTML,
		Assets: map[string]string{
			"assets/img/one_annotator_eta.png":  "png",
			"assets/img/two_annotators_eta.png": "png",
			"assets/css/site.css":               "body{}",
			"assets/js/site.js":                 "boot();",
		},
	}

	for _, dataset := range []string{"ultrafeedback", "multipref"} {
		for _, method := range []string{"dpo", "re_dpo"} {
			f.Results = append(f.Results, map[string]any{
				"experiment_id": fmt.Sprintf("%s-mistral-%s", dataset, method),
				"dataset":       dataset,
				"model":         "mistral",
				"method":        method,
				"lc":            21.5,
				"wr":            19,
				"source":        "Table 2",
			})
		}
	}

	for _, stem := range []string{"flow_method", "reliability_method"} {
		f.MethodMedia[stem] = f.mediaEntry("assets/media", stem)
	}

	for i := 1; i <= 6; i++ {
		id := fmt.Sprintf("case_%02d", i)
		phase, badge := "A", "Paper evidence"
		if i > 3 {
			phase, badge = "B", "Illustrative example"
		}
		f.Cases = append(f.Cases, map[string]any{
			"case_id":           id,
			"phase":             phase,
			"badge":             badge,
			"prompt":            "Summarize the article in two sentences.",
			"left_label":        "Chosen",
			"right_label":       "Rejected",
			"left_text":         "A concise two sentence summary.",
			"right_text":        "A rambling answer that ignores the length limit.",
			"winner":            "left",
			"reason_short":      "Follows the instruction.",
			"confidence_signal": "High agreement",
		})
		f.PreferenceMedia[id] = f.mediaEntry("assets/cases", id)
	}

	return f
}

// mediaEntry builds a media record and registers its files as assets.
func (f *Fixture) mediaEntry(dir, stem string) map[string]any {
	entry := map[string]any{
		"gif":         dir + "/" + stem + ".gif",
		"mp4":         dir + "/" + stem + ".mp4",
		"webm":        dir + "/" + stem + ".webm",
		"poster":      dir + "/" + stem + ".png",
		"alt":         "Animated preview for " + stem,
		"duration_ms": 2666,
	}
	for _, key := range []string{"gif", "mp4", "webm", "poster"} {
		f.Assets[entry[key].(string)] = "media"
	}
	return entry
}

// Files renders the fixture as root-relative paths and contents.
func (f *Fixture) Files(t testing.TB) map[string]string {
	t.Helper()

	files := map[string]string{
		"data/results_main.json":     mustJSON(t, f.Results),
		"data/links.json":            mustJSON(t, f.Links),
		"data/site_meta.json":        mustJSON(t, f.Meta),
		"data/method_media.json":     mustJSON(t, f.MethodMedia),
		"data/preference_cases.json": mustJSON(t, f.Cases),
		"data/preference_media.json": mustJSON(t, f.PreferenceMedia),
		"index.html":                 f.HTML,
	}
	for name, content := range f.Assets {
		files[name] = content
	}
	return files
}

// MapFS renders the fixture as an in-memory filesystem.
func (f *Fixture) MapFS(t testing.TB) fstest.MapFS {
	t.Helper()

	fsys := fstest.MapFS{}
	for name, content := range f.Files(t) {
		fsys[name] = &fstest.MapFile{Data: []byte(content), Mode: 0o644}
	}
	return fsys
}

// Write materializes the fixture under dir.
func (f *Fixture) Write(t testing.TB, dir string) {
	t.Helper()

	for name, content := range f.Files(t) {
		path := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("failed to create %s: %v", filepath.Dir(path), err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("failed to write %s: %v", path, err)
		}
	}
}

func mustJSON(t testing.TB, v any) string {
	t.Helper()

	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		t.Fatalf("failed to marshal fixture: %v", err)
	}
	return string(b)
}

// ValidHTML satisfies the default content policy.
const ValidHTML = `<!doctype html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <title>RE-PO: Robust Preference Optimization</title>
  <link rel="stylesheet" href="assets/css/site.css?v=3">
</head>
<body>
  <nav>
    <a href="#contributions">Contributions</a>
    <a href="#method">Method</a>
    <a href="#results">Results</a>
    <a href="#citation">Cite</a>
  </nav>
  <header class="hero">
    <p id="paper-badge">Accepted to ICLR 2026</p>
    <a id="cta-paper" href="https://arxiv.org/abs/2509.24159">Paper</a>
    <a id="cta-code" href="https://github.com/XiaoyangCao1113/RE-PO">Code</a>
    <a id="cta-cite" href="#citation">Citation</a>
  </header>
  <section id="contributions">
    <h2 id="contributions-title">Key Contributions</h2>
    <div class="card">🔴 The Problem</div>
    <div class="card">💡 Our Method (RE-PO)</div>
    <div class="card">🚀 Key Results</div>
  </section>
  <section id="method">
    <p>Works with DPO, IPO, SimPO, and CPO.</p>
  </section>
  <section id="results">
    <h2 id="results-title">Key Results</h2>
    <h3 id="noise-robustness-title">Noise Robustness</h3>
    <img src="assets/img/one_annotator_eta.png" alt="Reliability with one annotator">
    <img src="assets/img/two_annotators_eta.png" alt="Reliability with two annotators"/>
  </section>
  <section id="citation">
    <h2 id="citation-title">Citation</h2>
    <a href="javascript:void(0)" id="copy-citation">Copy</a>
  </section>
  <script src="assets/js/site.js"></script>
</body>
</html>
`
