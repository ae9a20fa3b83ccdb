// Package standard contains the standard rule set shipped with leaplint.
//
// Rules work on the lossless syntax tree and only ever touch whitespace,
// comments and keyword spelling, so formatting never changes what a query
// means.
//
//   - keyword-case: keywords follow leaplint_keyword_case
//   - comma-spacing: no space before a comma, one after it
//   - no-trailing-spaces: lines do not end in spaces or tabs
//   - no-consecutive-blank-lines: at most one blank line in a row
//   - final-newline: the file ends as insert_final_newline asks
//   - indentation-style: indentation follows indent_style
//   - max-line-length: lines fit max_line_length
//   - no-select-star: select lists name their columns (experimental)
package standard
