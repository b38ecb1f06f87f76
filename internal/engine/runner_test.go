package engine_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daryltucker/sitecheck/internal/config"
	"github.com/daryltucker/sitecheck/internal/contract"
	"github.com/daryltucker/sitecheck/internal/engine"
	"github.com/daryltucker/sitecheck/internal/model"
	"github.com/daryltucker/sitecheck/internal/testutil"
)

func writeProject(t *testing.T, mutate func(f *testutil.Fixture)) string {
	t.Helper()

	f := testutil.NewFixture()
	if mutate != nil {
		mutate(f)
	}
	dir := t.TempDir()
	f.Write(t, dir)
	return dir
}

func TestRun(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		mutate       func(f *testutil.Fixture)
		wantContains string
	}{
		"valid project": {},
		"schema violation": {
			mutate:       func(f *testutil.Fixture) { f.Results[0]["dataset"] = "other" },
			wantContains: "row 0",
		},
		"broken local reference": {
			mutate:       func(f *testutil.Fixture) { delete(f.Assets, "assets/js/site.js") },
			wantContains: "broken local reference in index.html: assets/js/site.js",
		},
		"content violation": {
			mutate:       func(f *testutil.Fixture) { f.HTML += "<p>Contact</p>" },
			wantContains: "forbidden content token found: Contact",
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			dir := writeProject(t, tc.mutate)
			err := engine.Run(&config.Config{Root: dir, LogLevel: "warn"})

			if tc.wantContains == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantContains)

			var v *contract.Violation
			assert.True(t, errors.As(err, &v), "expected a *contract.Violation, got %T", err)
		})
	}
}

func TestRun_WritesReports(t *testing.T) {
	t.Parallel()

	dir := writeProject(t, nil)
	reportDir := filepath.Join(t.TempDir(), "reports")

	require.NoError(t, engine.Run(&config.Config{Root: dir, ReportDir: reportDir, LogLevel: "warn"}))

	jsonl, err := os.ReadFile(filepath.Join(reportDir, engine.ReportJSONName))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(jsonl)), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], `"check":"json_contracts"`)
	assert.Contains(t, lines[2], `"check":"content_contract"`)

	csvData, err := os.ReadFile(filepath.Join(reportDir, engine.ReportCSVName))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(csvData), "check,root,status,document,message,started_at,duration_ms\n"))
	assert.Equal(t, 4, strings.Count(string(csvData), "\n"))
}

func TestRun_PolicyFile(t *testing.T) {
	t.Parallel()

	dir := writeProject(t, nil)
	policy := filepath.Join(t.TempDir(), "policy.yaml")
	require.NoError(t, os.WriteFile(policy, []byte(`
method_media:
  stems: [flow_method, reliability_method]
preference_cases:
  phase_badges: {A: Paper evidence, B: Illustrative example}
html:
  required_snippets: ["Camera-ready version"]
`), 0o644))

	err := engine.Run(&config.Config{Root: dir, PolicyFile: policy, LogLevel: "warn"})
	require.Error(t, err)
	assert.Equal(t, "missing required content snippet: Camera-ready version", err.Error())
}

func TestRun_Errors(t *testing.T) {
	t.Parallel()

	file := filepath.Join(t.TempDir(), "index.html")
	require.NoError(t, os.WriteFile(file, []byte("<title>x</title>"), 0o644))

	tests := map[string]struct {
		cfg          config.Config
		wantContains string
	}{
		"missing root": {
			cfg:          config.Config{Root: filepath.Join(t.TempDir(), "absent")},
			wantContains: "failed to open project root",
		},
		"root is a file": {
			cfg:          config.Config{Root: file},
			wantContains: "is not a directory",
		},
		"missing policy": {
			cfg:          config.Config{Root: t.TempDir(), PolicyFile: filepath.Join(t.TempDir(), "nope.yaml")},
			wantContains: "failed to read policy",
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			err := engine.Run(&tc.cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantContains)
		})
	}
}

func TestRunStages_RecordsUpToFirstFailure(t *testing.T) {
	t.Parallel()

	f := testutil.NewFixture()
	f.HTML = strings.Replace(f.HTML, "<title>", "<h1>", 1)
	dir := t.TempDir()
	f.Write(t, dir)

	project, err := engine.Open(dir)
	require.NoError(t, err)
	policy, err := config.LoadPolicy("")
	require.NoError(t, err)

	var recorded []model.CheckResult
	results, err := engine.RunStages(contract.New(project, policy), project.Root, func(r model.CheckResult) {
		recorded = append(recorded, r)
	})
	require.Error(t, err)
	assert.Equal(t, "index.html missing <title>", err.Error())

	require.Len(t, results, 2)
	assert.Equal(t, results, recorded)
	assert.Equal(t, model.StatusPass, results[0].Status)
	assert.Equal(t, contract.StageHTMLAndLinks, results[1].Check)
	assert.Equal(t, model.StatusFail, results[1].Status)
	assert.Equal(t, "index.html", results[1].Document)
	assert.Equal(t, project.Root, results[1].Root)
}

func TestProject_ReadFile(t *testing.T) {
	t.Parallel()

	dir := writeProject(t, nil)
	project, err := engine.Open(dir)
	require.NoError(t, err)

	data, err := project.ReadFile("data/links.json")
	require.NoError(t, err)
	assert.Contains(t, string(data), "paper_url")

	info, err := project.Stat("assets/css/site.css")
	require.NoError(t, err)
	assert.False(t, info.IsDir())

	_, err = project.ReadFile("../outside.json")
	assert.Error(t, err)
}
