package editorconfig

import (
	"fmt"
	"strconv"
)

// CodeStyle selects a preset of property defaults.
type CodeStyle string

// Code styles.
const (
	StyleOfficial CodeStyle = "leaplint_official"
	StyleDBT      CodeStyle = "dbt"
)

// IndentStyle values.
type IndentStyle string

// Indent styles.
const (
	IndentSpace IndentStyle = "space"
	IndentTab   IndentStyle = "tab"
)

// EndOfLine values.
type EndOfLine string

// Line endings.
const (
	EndOfLineLF   EndOfLine = "lf"
	EndOfLineCRLF EndOfLine = "crlf"
	EndOfLineCR   EndOfLine = "cr"
)

// KeywordCase values.
type KeywordCase string

// Keyword cases.
const (
	KeywordUpper      KeywordCase = "upper"
	KeywordLower      KeywordCase = "lower"
	KeywordCapitalize KeywordCase = "capitalize"
)

// Execution is the value of a rule execution property.
type Execution string

// Rule execution values.
const (
	Enabled  Execution = "enabled"
	Disabled Execution = "disabled"
)

const (
	// IndentSizeTab is the parsed value of indent_size = tab.
	IndentSizeTab = -1
	// MaxLineLengthOff is the parsed value of max_line_length = off.
	MaxLineLengthOff = -1
)

// Standard editorconfig properties.
var (
	CodeStyleProperty = &Property[CodeStyle]{
		Name:        "leaplint_code_style",
		Description: "Code style preset providing defaults for other properties",
		Parse:       ParseEnum(StyleOfficial, StyleDBT),
		Default:     StyleOfficial,
	}

	IndentStyleProperty = &Property[IndentStyle]{
		Name:        "indent_style",
		Description: "Indent with tabs or spaces",
		Parse:       ParseEnum(IndentSpace, IndentTab),
		Default:     IndentSpace,
	}

	IndentSizeProperty = &Property[int]{
		Name:        "indent_size",
		Description: "Number of columns per indentation level, or tab",
		Parse: func(raw string) (int, error) {
			if raw == "tab" {
				return IndentSizeTab, nil
			}
			return ParsePositiveInt(raw)
		},
		Format: func(v int) string {
			if v == IndentSizeTab {
				return "tab"
			}
			return strconv.Itoa(v)
		},
		Default:       4,
		StyleDefaults: map[CodeStyle]int{StyleDBT: 4},
	}

	TabWidthProperty = &Property[int]{
		Name:        "tab_width",
		Description: "Number of columns a tab character represents",
		Parse:       ParsePositiveInt,
		Default:     4,
		Derive: func(c *Config) (int, bool) {
			if _, ok := c.Raw(IndentSizeProperty.Name); !ok {
				return 0, false
			}
			size := IndentSizeProperty.Get(c)
			return size, size > 0
		},
	}

	EndOfLineProperty = &Property[EndOfLine]{
		Name:        "end_of_line",
		Description: "Line separator written by format",
		Parse:       ParseEnum(EndOfLineLF, EndOfLineCRLF, EndOfLineCR),
		Default:     EndOfLineLF,
	}

	CharsetProperty = &Property[string]{
		Name:        "charset",
		Description: "File character set",
		Parse:       ParseEnum("latin1", "utf-8", "utf-8-bom", "utf-16be", "utf-16le"),
		Default:     "utf-8",
	}

	InsertFinalNewlineProperty = &Property[bool]{
		Name:        "insert_final_newline",
		Description: "Require a line separator at the end of the file",
		Parse:       ParseBool,
		Default:     true,
	}

	TrimTrailingWhitespaceProperty = &Property[bool]{
		Name:        "trim_trailing_whitespace",
		Description: "Remove whitespace at the end of lines",
		Parse:       ParseBool,
		Default:     true,
	}

	MaxLineLengthProperty = &Property[int]{
		Name:        "max_line_length",
		Description: "Maximum line length, or off",
		Parse: func(raw string) (int, error) {
			if raw == "off" {
				return MaxLineLengthOff, nil
			}
			return ParsePositiveInt(raw)
		},
		Format: func(v int) string {
			if v == MaxLineLengthOff {
				return "off"
			}
			return strconv.Itoa(v)
		},
		Default: MaxLineLengthOff,
		StyleDefaults: map[CodeStyle]int{
			StyleOfficial: 120,
			StyleDBT:      80,
		},
	}

	KeywordCaseProperty = &Property[KeywordCase]{
		Name:        "leaplint_keyword_case",
		Description: "Case of SQL keywords",
		Parse:       ParseEnum(KeywordUpper, KeywordLower, KeywordCapitalize),
		Default:     KeywordUpper,
		StyleDefaults: map[CodeStyle]KeywordCase{
			StyleOfficial: KeywordUpper,
			StyleDBT:      KeywordLower,
		},
	}

	FormatterTagsEnabledProperty = &Property[bool]{
		Name:        "ij_formatter_tags_enabled",
		Description: "Honour formatter off and on tags in comments",
		Parse:       ParseBool,
		Default:     false,
	}

	FormatterOffTagProperty = &Property[string]{
		Name:        "ij_formatter_off_tag",
		Description: "Comment tag that suspends all rules",
		Parse:       ParseString,
		Default:     "@formatter:off",
	}

	FormatterOnTagProperty = &Property[string]{
		Name:        "ij_formatter_on_tag",
		Description: "Comment tag that resumes all rules",
		Parse:       ParseString,
		Default:     "@formatter:on",
	}
)

// Builtin returns the standard properties every run resolves.
func Builtin() []Definition {
	return []Definition{
		CodeStyleProperty,
		IndentStyleProperty,
		IndentSizeProperty,
		TabWidthProperty,
		EndOfLineProperty,
		CharsetProperty,
		InsertFinalNewlineProperty,
		TrimTrailingWhitespaceProperty,
		MaxLineLengthProperty,
		KeywordCaseProperty,
		FormatterTagsEnabledProperty,
		FormatterOffTagProperty,
		FormatterOnTagProperty,
	}
}

// knownProperties are the editorconfig core properties whose values are
// case-insensitive.
var knownProperties = map[string]bool{
	"root":                     true,
	"indent_style":             true,
	"indent_size":              true,
	"tab_width":                true,
	"end_of_line":              true,
	"charset":                  true,
	"insert_final_newline":     true,
	"trim_trailing_whitespace": true,
	"max_line_length":          true,
}

func isKnownProperty(key string) bool {
	return knownProperties[key]
}

// ParseExecution parses a rule execution property value.
func ParseExecution(raw string) (Execution, error) {
	switch Execution(raw) {
	case Enabled, Disabled:
		return Execution(raw), nil
	}
	return "", fmt.Errorf("expected enabled or disabled, got %q", raw)
}

// IndentWidth returns the number of columns of one indentation level,
// following tab_width when indent_size is tab.
func IndentWidth(c *Config) int {
	size := IndentSizeProperty.Get(c)
	if size == IndentSizeTab {
		return TabWidthProperty.Get(c)
	}
	return size
}
