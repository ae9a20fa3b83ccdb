package reporter

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/leaplint/pkg/baseline"
	"github.com/leapstack-labs/leaplint/pkg/engine"
)

var (
	vFound = engine.Violation{Line: 1, Column: 8, RuleID: "standard:keyword-case", Message: "Keyword must be upper case", Status: engine.StatusFoundCorrectable}
	vHard  = engine.Violation{Line: 2, Column: 1, RuleID: "standard:max-line-length", Message: "Exceeded max line length (80)", Status: engine.StatusFoundNotCorrectable}
	vFixed = engine.Violation{Line: 3, Column: 1, RuleID: "standard:final-newline", Message: "File must end with a newline", Status: engine.StatusCorrected}
	vBase  = engine.Violation{Line: 4, Column: 1, RuleID: "standard:no-select-star", Message: "Avoid select *", Status: engine.StatusBaselineIgnored}
)

// feed drives r the way the runner does.
func feed(t *testing.T, r engine.Reporter, files map[string][]engine.Violation) {
	t.Helper()
	r.BeforeAll()
	var wg sync.WaitGroup
	for name, vs := range files {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.Before(name)
			for _, v := range vs {
				r.OnLintError(name, v)
			}
			r.After(name)
		}()
	}
	wg.Wait()
	require.NoError(t, r.AfterAll())
}

func TestPlain(t *testing.T) {
	var buf bytes.Buffer
	feed(t, NewPlain(&buf, false, false), map[string][]engine.Violation{
		"a.sql": {vFound, vHard, vFixed, vBase},
		"b.sql": nil,
	})

	assert.Equal(t,
		"a.sql:1:8: Keyword must be upper case (standard:keyword-case)\n"+
			"a.sql:2:1: Exceeded max line length (80) (cannot be auto-corrected) (standard:max-line-length)\n",
		buf.String())
}

func TestPlain_Grouped(t *testing.T) {
	var buf bytes.Buffer
	feed(t, NewPlain(&buf, false, true), map[string][]engine.Violation{"a.sql": {vFound}})

	assert.Equal(t, "a.sql\n  1:8 Keyword must be upper case (standard:keyword-case)\n\n", buf.String())
}

func TestPlainSummary(t *testing.T) {
	var buf bytes.Buffer
	feed(t, NewPlainSummary(&buf), map[string][]engine.Violation{
		"a.sql": {vFound, vHard, vFixed},
		"b.sql": {vFound},
	})

	out := buf.String()
	assert.Contains(t, out, "Summary error count (descending) by rule")
	assert.Contains(t, out, "Summary corrected count (descending) by rule")
	assert.Less(t, strings.Index(out, "standard:keyword-case"), strings.Index(out, "standard:max-line-length"))
	assert.Contains(t, out, "standard:final-newline")
}

func TestJSON(t *testing.T) {
	var buf bytes.Buffer
	feed(t, NewJSON(&buf), map[string][]engine.Violation{
		"b.sql": {vHard},
		"a.sql": {vFound, vFixed},
		"c.sql": nil,
	})

	var report []JSONFile
	require.NoError(t, json.Unmarshal(buf.Bytes(), &report))
	require.Len(t, report, 2)
	assert.Equal(t, "a.sql", report[0].File)
	assert.Equal(t, []JSONError{{Line: 1, Column: 8, Message: vFound.Message, Rule: "standard:keyword-case", Status: "found-correctable"}}, report[0].Errors)
	assert.Equal(t, "b.sql", report[1].File)
}

func TestJSON_Empty(t *testing.T) {
	var buf bytes.Buffer
	feed(t, NewJSON(&buf), nil)
	assert.Equal(t, "[]\n", buf.String())
}

func TestCheckstyle(t *testing.T) {
	var buf bytes.Buffer
	feed(t, NewCheckstyle(&buf), map[string][]engine.Violation{"a.sql": {vFound, vFixed}})

	out := buf.String()
	assert.Contains(t, out, `<checkstyle version="8.0">`)
	assert.Contains(t, out, `<file name="a.sql">`)
	assert.Contains(t, out, `line="1" column="8" severity="error" message="Keyword must be upper case" source="standard:keyword-case"`)
	assert.NotContains(t, out, "final-newline")
}

func TestBaselineReporter(t *testing.T) {
	var buf bytes.Buffer
	feed(t, NewBaseline(&buf), map[string][]engine.Violation{
		"a.sql": {vFound, vHard, vFixed, vBase},
		"b.sql": {{Line: 1, Column: 1, RuleID: engine.SyntaxRuleID, Status: engine.StatusParseError}},
	})

	b, err := baseline.Read(strings.NewReader(buf.String()), nil)
	require.NoError(t, err)
	assert.Equal(t, 3, b.Len())
	assert.True(t, b.Contains("a.sql", 1, 8, "standard:keyword-case"))
	assert.True(t, b.Contains("a.sql", 4, 1, "standard:no-select-star"))
	assert.False(t, b.Contains("a.sql", 3, 1, "standard:final-newline"))
	assert.False(t, b.HasFile("b.sql"))
}

type failing struct{ engine.NopReporter }

func (failing) AfterAll() error { return errors.New("boom") }

func TestMulti(t *testing.T) {
	var plain, js bytes.Buffer
	m := Multi{NewPlain(&plain, false, false), NewJSON(&js)}
	feed(t, m, map[string][]engine.Violation{"a.sql": {vFound}})

	assert.Contains(t, plain.String(), "a.sql:1:8")
	assert.Contains(t, js.String(), `"file": "a.sql"`)

	err := Multi{failing{}, engine.NopReporter{}}.AfterAll()
	assert.EqualError(t, err, "boom")
}

func TestNew(t *testing.T) {
	var buf bytes.Buffer
	for _, name := range Names() {
		r, err := New(name, Options{Out: &buf})
		require.NoError(t, err, name)
		assert.NotNil(t, r)
	}

	_, err := New("sarif", Options{Out: &buf})
	assert.Error(t, err)
	_, err = New(NamePlain, Options{})
	assert.Error(t, err)
}
