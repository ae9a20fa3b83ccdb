package token

import (
	"strings"
	"sync"
)

var (
	keywordsMu sync.RWMutex

	// keywords holds the lowercase reserved words recognised by the lexer.
	keywords = map[string]struct{}{}
)

func init() {
	RegisterKeywords(
		// query
		"all", "and", "as", "asc", "between", "by", "case", "cast", "cross",
		"current", "desc", "distinct", "else", "end", "except", "exists", "false",
		"filter", "first", "following", "from", "full", "group", "groups", "having",
		"ilike", "in", "inner", "intersect", "interval", "is", "join", "last",
		"lateral", "left", "like", "limit", "natural", "not", "null", "nulls",
		"offset", "on", "or", "order", "outer", "over", "partition", "preceding",
		"qualify", "range", "recursive", "right", "row", "rows", "select", "then",
		"true", "unbounded", "union", "using", "when", "where", "window", "with",
		"within",
		// statements
		"alter", "create", "delete", "drop", "insert", "into", "merge", "replace",
		"set", "table", "truncate", "update", "values", "view", "temporary",
		"primary", "key", "references", "default", "constraint", "unique", "index",
		"if",
	)
}

// RegisterKeywords adds words to the keyword table. Dialect extensions call
// it from init; registration is case-insensitive.
func RegisterKeywords(words ...string) {
	keywordsMu.Lock()
	defer keywordsMu.Unlock()
	for _, w := range words {
		keywords[strings.ToLower(w)] = struct{}{}
	}
}

// IsKeyword reports whether word is a registered keyword, ignoring case.
func IsKeyword(word string) bool {
	keywordsMu.RLock()
	defer keywordsMu.RUnlock()
	_, ok := keywords[strings.ToLower(word)]
	return ok
}
