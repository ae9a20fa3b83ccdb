// Package config loads the leaplint process configuration.
//
// Values are layered, lowest precedence first: built-in defaults, the
// .leaplint.yaml project file, LEAPLINT_ environment variables, then flags
// the user set explicitly. Style properties do not live here; they come from
// .editorconfig files.
package config

// FileName is the project configuration file.
const FileName = ".leaplint.yaml"

// EnvPrefix prefixes environment variables that override configuration.
const EnvPrefix = "LEAPLINT_"

// Default configuration values.
const (
	DefaultReporter      = "plain"
	DefaultOutput        = "auto" // text on a terminal, markdown otherwise
	DefaultColor         = "auto"
	DefaultMaxFormatRuns = 3
)

// Color modes.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// Config holds the process configuration.
type Config struct {
	// Reporters are reporter names, each optionally followed by :<path> to
	// write that report to a file.
	Reporters []string `koanf:"reporter"`
	Baseline  string   `koanf:"baseline"`
	Workers   int      `koanf:"workers"`
	// Limit stops the run after this many failing violations. Zero means no
	// limit.
	Limit         int  `koanf:"limit"`
	MaxFormatRuns int  `koanf:"max_format_runs"`
	DetectCycles  bool `koanf:"detect_cycles"`
	// Relative prints paths relative to the project root instead of
	// absolute paths.
	Relative bool `koanf:"relative"`
	// GroupByFile makes the plain reporter print a header per file.
	GroupByFile bool   `koanf:"group_by_file"`
	Color       string `koanf:"color"`
	Output      string `koanf:"output"`

	// EditorConfig is a default .editorconfig applied below the cascade.
	EditorConfig          string            `koanf:"editorconfig"`
	EditorConfigOverrides map[string]string `koanf:"editorconfig_overrides"`
	// DisabledRules are rule ids turned off through the overrides.
	DisabledRules []string `koanf:"disabled_rules"`

	Verbose bool `koanf:"verbose"`

	// ProjectRoot is the directory holding the configuration file, or the
	// working directory. Not read from configuration.
	ProjectRoot string `koanf:"-"`
	// File is the configuration file that was loaded, if any.
	File string `koanf:"-"`
}

// Defaults returns the default values keyed by configuration key.
func Defaults() map[string]any {
	return map[string]any{
		"reporter":        []string{DefaultReporter},
		"baseline":        "",
		"workers":         0,
		"limit":           0,
		"max_format_runs": DefaultMaxFormatRuns,
		"detect_cycles":   true,
		"relative":        true,
		"group_by_file":   false,
		"color":           DefaultColor,
		"output":          DefaultOutput,
		"editorconfig":    "",
		"disabled_rules":  []string{},
		"verbose":         false,
	}
}
