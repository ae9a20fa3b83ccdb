package suppress

import (
	"maps"
	"slices"
	"strings"

	"github.com/leapstack-labs/leaplint/pkg/editorconfig"
	"github.com/leapstack-labs/leaplint/pkg/rule"
	"github.com/leapstack-labs/leaplint/pkg/tree"
)

// Open marks a range that runs to the end of the file.
const Open = -1

// Range suppresses Rule, or every rule except Except when Rule is empty,
// for offsets in [Start, End).
type Range struct {
	Rule   rule.ID
	Except []rule.ID
	Start  int
	End    int
}

// Covers reports whether the range suppresses id at offset.
func (r Range) Covers(offset int, id rule.ID) bool {
	if offset < r.Start || (r.End != Open && offset >= r.End) {
		return false
	}
	if r.Rule != "" {
		return r.Rule == id
	}
	return !slices.Contains(r.Except, id)
}

// Locator answers suppression queries. It remembers the directive comments
// of the tree it was built from and re-derives its ranges when the tree
// changes.
type Locator struct {
	defaultSet string
	offTag     string
	onTag      string

	marks  []mark
	ranges []Range

	rev        uint64
	commentRev uint64
}

// mark is a comment that opens or closes a range.
type mark struct {
	n   tree.NodeID
	tag tag
	d   directive
}

type tag int

const (
	tagNone tag = iota
	tagOff
	tagOn
)

// Suppressed reports whether id is suppressed at offset.
func (l *Locator) Suppressed(offset int, id rule.ID) bool {
	for _, r := range l.ranges {
		if r.Covers(offset, id) {
			return true
		}
	}
	return false
}

// Ranges returns the computed ranges in document order of their start.
func (l *Locator) Ranges() []Range {
	return slices.Clone(l.ranges)
}

// Empty reports whether nothing is suppressed anywhere.
func (l *Locator) Empty() bool {
	return len(l.ranges) == 0
}

// Build scans the comments of t. cfg controls formatter tags and may be nil.
func Build(t *tree.Tree, cfg *editorconfig.Config, defaultSet string) *Locator {
	l := &Locator{defaultSet: defaultSet}
	if cfg != nil && editorconfig.FormatterTagsEnabledProperty.Get(cfg) {
		l.offTag = editorconfig.FormatterOffTagProperty.Get(cfg)
		l.onTag = editorconfig.FormatterOnTagProperty.Get(cfg)
	}
	l.scan(t)
	l.derive(t)
	return l
}

// Refresh brings the ranges up to date with t. Comments are only rescanned
// when one of them changed; other mutations just move the ranges.
func (l *Locator) Refresh(t *tree.Tree) {
	switch {
	case l.commentRev != t.CommentRevision():
		l.scan(t)
		l.derive(t)
	case l.rev != t.Revision():
		l.derive(t)
	}
}

func (l *Locator) scan(t *tree.Tree) {
	l.marks = l.marks[:0]
	l.collect(t, t.Root())
	l.commentRev = t.CommentRevision()
}

func (l *Locator) collect(t *tree.Tree, n tree.NodeID) {
	if !t.IsLeaf(n) {
		for _, c := range t.Children(n) {
			l.collect(t, c)
		}
		return
	}
	if !t.IsComment(n) {
		return
	}
	text := t.Text(n)
	switch {
	case l.offTag != "" && strings.Contains(text, l.offTag):
		l.marks = append(l.marks, mark{n: n, tag: tagOff})
	case l.onTag != "" && strings.Contains(text, l.onTag):
		l.marks = append(l.marks, mark{n: n, tag: tagOn})
	default:
		if d := parseDirective(commentBody(t.Kind(n), text), l.defaultSet); d.action != actionNone {
			l.marks = append(l.marks, mark{n: n, d: d})
		}
	}
}

// derive computes the ranges from the marks at the current offsets.
func (l *Locator) derive(t *tree.Tree) {
	l.rev = t.Revision()
	if len(l.marks) == 0 {
		l.ranges = nil
		return
	}

	b := &builder{t: t, disabled: make(map[rule.ID]int), allStart: Open, tagStart: Open}
	for _, m := range l.marks {
		b.comment(m)
	}
	b.closeAll(Open)
	if b.tagStart != Open {
		b.add(Range{Start: b.tagStart, End: Open})
	}

	slices.SortStableFunc(b.ranges, func(x, y Range) int { return x.Start - y.Start })
	l.ranges = b.ranges
}

type builder struct {
	t *tree.Tree

	// all-rules range state
	allStart int
	except   map[rule.ID]bool

	// per-rule open ranges: id -> start
	disabled map[rule.ID]int

	// formatter tag range start
	tagStart int

	ranges []Range
}

func (b *builder) add(r Range) {
	if r.End != Open && r.End <= r.Start {
		return
	}
	b.ranges = append(b.ranges, r)
}

func (b *builder) comment(m mark) {
	off := b.t.Offset(m.n)

	switch m.tag {
	case tagOff:
		if b.tagStart == Open {
			b.tagStart = off
		}
		return
	case tagOn:
		if b.tagStart != Open {
			b.add(Range{Start: b.tagStart, End: off})
			b.tagStart = Open
		}
		return
	}

	d := m.d
	if b.trailsCode(m.n) {
		if d.action == actionDisable {
			b.line(off, d.ids)
		}
		return
	}

	switch {
	case d.action == actionDisable && d.ids == nil:
		b.disableAll(off)
	case d.action == actionDisable:
		b.disableRules(off, d.ids)
	case d.ids == nil:
		b.closeAll(off)
	default:
		b.enableRules(off, d.ids)
	}
}

// trailsCode reports whether code precedes n on its line.
func (b *builder) trailsCode(n tree.NodeID) bool {
	for p := b.t.PrevLeaf(n, true); p != tree.NoNode; p = b.t.PrevLeaf(p, true) {
		if b.t.IsCode(p) {
			return true
		}
		if strings.Contains(b.t.Text(p), "\n") {
			return false
		}
	}
	return false
}

// line suppresses ids (or everything) on the line holding offset.
func (b *builder) line(offset int, ids []rule.ID) {
	idx := b.t.LineIndex()
	span := idx.LineSpan(idx.Position(offset).Line)
	if ids == nil {
		b.add(Range{Start: span.Start, End: span.End + 1})
		return
	}
	for _, id := range ids {
		b.add(Range{Rule: id, Start: span.Start, End: span.End + 1})
	}
}

func (b *builder) disableAll(off int) {
	if b.allStart != Open {
		if len(b.except) == 0 {
			return
		}
		b.flushAll(off)
		b.except = nil
		b.allStart = off
		return
	}
	b.closeRules(off)
	b.allStart = off
	b.except = nil
}

func (b *builder) disableRules(off int, ids []rule.ID) {
	if b.allStart != Open {
		changed := false
		for _, id := range ids {
			if b.except[id] {
				changed = true
			}
		}
		if !changed {
			return
		}
		b.flushAll(off)
		for _, id := range ids {
			delete(b.except, id)
		}
		b.allStart = off
		return
	}
	for _, id := range ids {
		if _, open := b.disabled[id]; !open {
			b.disabled[id] = off
		}
	}
}

func (b *builder) enableRules(off int, ids []rule.ID) {
	if b.allStart != Open {
		changed := false
		for _, id := range ids {
			if !b.except[id] {
				changed = true
			}
		}
		if !changed {
			return
		}
		b.flushAll(off)
		if b.except == nil {
			b.except = make(map[rule.ID]bool)
		}
		for _, id := range ids {
			b.except[id] = true
		}
		b.allStart = off
		return
	}
	for _, id := range ids {
		if start, open := b.disabled[id]; open {
			b.add(Range{Rule: id, Start: start, End: off})
			delete(b.disabled, id)
		}
	}
}

// flushAll emits the current all-rules range ending at off.
func (b *builder) flushAll(off int) {
	b.add(Range{Except: slices.Sorted(maps.Keys(b.except)), Start: b.allStart, End: off})
}

// closeAll ends every open directive range at off.
func (b *builder) closeAll(off int) {
	if b.allStart != Open {
		b.flushAll(off)
		b.allStart = Open
		b.except = nil
	}
	b.closeRules(off)
}

func (b *builder) closeRules(off int) {
	for _, id := range slices.Sorted(maps.Keys(b.disabled)) {
		b.add(Range{Rule: id, Start: b.disabled[id], End: off})
		delete(b.disabled, id)
	}
}
