package contract_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daryltucker/sitecheck/internal/contract"
	"github.com/daryltucker/sitecheck/internal/testutil"
)

func TestStages_Order(t *testing.T) {
	t.Parallel()

	c := newChecker(t, testutil.NewFixture().MapFS(t))

	var names []string
	for _, s := range c.Stages() {
		names = append(names, s.Name)
	}
	assert.Equal(t, []string{
		contract.StageJSONContracts,
		contract.StageHTMLAndLinks,
		contract.StageContentContract,
	}, names)
}

func TestRun_StopsAtFirstFailingStage(t *testing.T) {
	t.Parallel()

	f := testutil.NewFixture()
	f.Results[0]["dataset"] = "other"
	f.HTML = withBody(`<img src="x.png">`)

	err := newChecker(t, f.MapFS(t)).Run()
	v := requireViolation(t, err, contract.KindSchema, "row 0")
	assert.Equal(t, "data/results_main.json", v.Document)
}

func TestRun_Idempotent(t *testing.T) {
	t.Parallel()

	tests := map[string]func(f *testutil.Fixture){
		"valid":   func(f *testutil.Fixture) {},
		"invalid": func(f *testutil.Fixture) { f.Cases = f.Cases[:5] },
	}

	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			f := testutil.NewFixture()
			mutate(f)
			c := newChecker(t, f.MapFS(t))

			first := c.Run()
			second := c.Run()
			if first == nil {
				require.NoError(t, second)
				return
			}
			require.Error(t, second)
			assert.Equal(t, first.Error(), second.Error())
		})
	}
}

func TestViolation_Error(t *testing.T) {
	t.Parallel()

	v := &contract.Violation{Kind: contract.KindContent, Document: "index.html", Message: "missing nav anchor #method"}
	assert.Equal(t, "missing nav anchor #method", v.Error())
}
