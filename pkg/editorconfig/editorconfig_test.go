package editorconfig

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

var pProperty = &Property[int]{Name: "p", Parse: ParsePositiveInt, Default: 9}

func TestResolver_Cascade(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a", FileName), "root = true\n[*]\np = 1\nq = 7\n")
	writeFile(t, filepath.Join(dir, "a", "b", FileName), "[*]\np = 2\n")
	target := filepath.Join(dir, "a", "b", "file.sql")

	t.Run("nearest file wins", func(t *testing.T) {
		r, err := NewResolver(Options{})
		require.NoError(t, err)
		cfg, err := r.Resolve(target)
		require.NoError(t, err)
		assert.Equal(t, 2, pProperty.Get(cfg))
		raw, ok := cfg.Raw("q")
		assert.True(t, ok)
		assert.Equal(t, "7", raw)
	})

	t.Run("override beats files", func(t *testing.T) {
		r, err := NewResolver(Options{Overrides: Overrides{"P": "3"}})
		require.NoError(t, err)
		cfg, err := r.Resolve(target)
		require.NoError(t, err)
		assert.Equal(t, 3, pProperty.Get(cfg))
	})

	t.Run("root stops the search", func(t *testing.T) {
		writeFile(t, filepath.Join(dir, FileName), "[*]\nz = 1\n")
		r, err := NewResolver(Options{})
		require.NoError(t, err)
		cfg, err := r.Resolve(target)
		require.NoError(t, err)
		_, ok := cfg.Raw("z")
		assert.False(t, ok)
		assert.Len(t, r.Files(filepath.Dir(target)), 2)
	})

	t.Run("unset removes a farther value", func(t *testing.T) {
		writeFile(t, filepath.Join(dir, "a", "c", FileName), "[*]\nq = unset\n")
		r, err := NewResolver(Options{})
		require.NoError(t, err)
		cfg, err := r.Resolve(filepath.Join(dir, "a", "c", "x.sql"))
		require.NoError(t, err)
		_, ok := cfg.Raw("q")
		assert.False(t, ok)
	})

	t.Run("default file sits below the cascade", func(t *testing.T) {
		def := filepath.Join(t.TempDir(), "defaults.editorconfig")
		writeFile(t, def, "[*.sql]\np = 5\nr = 6\n")
		r, err := NewResolver(Options{DefaultFile: def})
		require.NoError(t, err)
		cfg, err := r.Resolve(target)
		require.NoError(t, err)
		assert.Equal(t, 2, pProperty.Get(cfg))
		raw, _ := cfg.Raw("r")
		assert.Equal(t, "6", raw)
	})

	t.Run("concurrent resolution", func(t *testing.T) {
		r, err := NewResolver(Options{CacheSize: 1})
		require.NoError(t, err)
		var wg sync.WaitGroup
		for i := 0; i < 16; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				cfg, err := r.Resolve(target)
				assert.NoError(t, err)
				assert.Equal(t, 2, pProperty.Get(cfg))
			}()
		}
		wg.Wait()
	})
}

func TestResolver_Sections(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, FileName), strings.Join([]string{
		"root = true",
		"[*]",
		"indent_size = 2",
		"[*.{sql,ddl}]",
		"indent_size = 4",
		"[models/**.sql]",
		"max_line_length = 100",
		"[v{1..3}.sql]",
		"max_line_length = OFF",
		"",
	}, "\n"))

	r, err := NewResolver(Options{})
	require.NoError(t, err)

	tests := []struct {
		path       string
		indentSize int
		maxLine    int
	}{
		{"readme.md", 2, 120},
		{"query.sql", 4, 120},
		{"deep/schema.ddl", 4, 120},
		{"models/staging/orders.sql", 4, 100},
		{"other/models/orders.sql", 4, 120},
		{"v2.sql", 4, MaxLineLengthOff},
		{"v4.sql", 4, 120},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			cfg, err := r.Resolve(filepath.Join(dir, filepath.FromSlash(tt.path)))
			require.NoError(t, err)
			assert.Equal(t, tt.indentSize, IndentSizeProperty.Get(cfg))
			assert.Equal(t, tt.maxLine, MaxLineLengthProperty.Get(cfg))
		})
	}
}

func TestProperty_Precedence(t *testing.T) {
	t.Run("style defaults apply when unset", func(t *testing.T) {
		official := NewConfig("x.sql", nil, nil)
		dbt := NewConfig("x.sql", map[string]string{"leaplint_code_style": "dbt"}, nil)
		assert.Equal(t, StyleOfficial, official.CodeStyle())
		assert.Equal(t, KeywordUpper, KeywordCaseProperty.Get(official))
		assert.Equal(t, KeywordLower, KeywordCaseProperty.Get(dbt))
		assert.Equal(t, 80, MaxLineLengthProperty.Get(dbt))
	})

	t.Run("explicit value beats style default", func(t *testing.T) {
		cfg := NewConfig("x.sql", map[string]string{
			"leaplint_code_style":   "dbt",
			"leaplint_keyword_case": "capitalize",
		}, nil)
		assert.Equal(t, KeywordCapitalize, KeywordCaseProperty.Get(cfg))
	})

	t.Run("tab width follows indent size", func(t *testing.T) {
		assert.Equal(t, 2, TabWidthProperty.Get(NewConfig("x", map[string]string{"indent_size": "2"}, nil)))
		assert.Equal(t, 8, TabWidthProperty.Get(NewConfig("x", map[string]string{"indent_size": "2", "tab_width": "8"}, nil)))
		assert.Equal(t, 4, TabWidthProperty.Get(NewConfig("x", map[string]string{"indent_size": "tab"}, nil)))
		assert.Equal(t, 8, IndentWidth(NewConfig("x", map[string]string{"indent_size": "tab", "tab_width": "8"}, nil)))
	})

	t.Run("invalid value warns once and uses the default", func(t *testing.T) {
		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		cfg := NewConfig("x.sql", map[string]string{"max_line_length": "wide"}, logger)

		assert.Equal(t, MaxLineLengthOff, MaxLineLengthProperty.Get(cfg))
		assert.Equal(t, MaxLineLengthOff, MaxLineLengthProperty.Get(cfg))
		assert.Equal(t, 1, strings.Count(buf.String(), "invalid editorconfig value"))
	})

	t.Run("execution properties", func(t *testing.T) {
		cfg := NewConfig("x.sql", map[string]string{
			"leaplint_standard_keyword-case": "disabled",
			"leaplint_experimental":          "maybe",
		}, nil)
		v, ok := cfg.Execution("leaplint_standard_keyword-case")
		assert.True(t, ok)
		assert.Equal(t, Disabled, v)
		_, ok = cfg.Execution("leaplint_experimental")
		assert.False(t, ok)
		_, ok = cfg.Execution("leaplint_standard")
		assert.False(t, ok)
	})
}

func TestParse(t *testing.T) {
	f, err := Parse(strings.NewReader("# comment\nROOT = TRUE\n\n[*.sql]\n; note\nIndent_Style = Space\nmy_key = MixedCase\n"), "/p/.editorconfig")
	require.NoError(t, err)
	assert.True(t, f.Root)
	assert.Equal(t, "/p", f.Dir)
	require.Len(t, f.Sections, 1)
	assert.Equal(t, []Pair{{Key: "indent_style", Value: "space"}, {Key: "my_key", Value: "MixedCase"}}, f.Sections[0].Pairs)

	assert.Empty(t, f.Warnings)
}

func TestParse_MalformedLines(t *testing.T) {
	src := "[*]\nnot a pair\nindent_size = 2\n = 3\n[*.sql\nmax_line_length = 10\n[*.sql]\nmax_line_length = 80\n"
	f, err := Parse(strings.NewReader(src), "/p/.editorconfig")
	require.NoError(t, err)

	require.Len(t, f.Sections, 2)
	assert.Equal(t, []Pair{{Key: "indent_size", Value: "2"}}, f.Sections[0].Pairs)
	assert.Equal(t, []Pair{{Key: "max_line_length", Value: "80"}}, f.Sections[1].Pairs,
		"pairs under a broken header are dropped")

	var lines []int
	for _, w := range f.Warnings {
		assert.Equal(t, "/p/.editorconfig", w.Path)
		lines = append(lines, w.Line)
	}
	assert.Equal(t, []int{2, 4, 5}, lines)
	assert.Equal(t, `/p/.editorconfig:2: expected key = value, got "not a pair"`, f.Warnings[0].Error())
}

func TestResolver_MalformedLineIsSkipped(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, FileName), "root = true\n[*]\np = 4\noops\n")

	var buf bytes.Buffer
	r, err := NewResolver(Options{Logger: slog.New(slog.NewTextHandler(&buf, nil))})
	require.NoError(t, err)
	cfg, err := r.Resolve(filepath.Join(dir, "x.sql"))
	require.NoError(t, err)
	assert.Equal(t, 4, pProperty.Get(cfg))
	assert.Contains(t, buf.String(), "skipping malformed editorconfig line")
	assert.Contains(t, buf.String(), "line=4")
}

func TestGenerate(t *testing.T) {
	cfg := NewConfig("x.sql", map[string]string{"leaplint_code_style": "dbt", "indent_size": "tab"}, nil)
	out := Generate("*.sql", []Definition{MaxLineLengthProperty, IndentSizeProperty, KeywordCaseProperty, MaxLineLengthProperty}, cfg)
	assert.Equal(t, "[*.sql]\nindent_size = tab\nleaplint_keyword_case = lower\nmax_line_length = 80\n", out)
}
