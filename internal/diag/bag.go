package diag

import (
	"cmp"
	"slices"
)

// Bag collects diagnostics up to a limit; max <= 0 means no limit. Items
// over the limit are counted, not kept.
type Bag struct {
	items   []Diagnostic
	max     int
	dropped int
}

func NewBag(limit int) *Bag {
	capacity := 16
	if limit > 0 && limit <= 64 {
		capacity = limit
	}
	return &Bag{max: limit, items: make([]Diagnostic, 0, capacity)}
}

// Add keeps d unless the bag is full. It reports whether d was kept.
func (b *Bag) Add(d Diagnostic) bool {
	if b.max > 0 && len(b.items) >= b.max {
		b.dropped++
		return false
	}
	b.items = append(b.items, d)
	return true
}

func (b *Bag) Cap() int     { return b.max }
func (b *Bag) Len() int     { return len(b.items) }
func (b *Bag) Dropped() int { return b.dropped }

// Items returns the bag's own slice. Callers must not modify it.
func (b *Bag) Items() []Diagnostic { return b.items }

func (b *Bag) worst() Severity {
	var sev Severity
	for i := range b.items {
		sev = max(sev, b.items[i].Severity)
	}
	return sev
}

func (b *Bag) HasErrors() bool   { return b.Len() > 0 && b.worst() >= SevError }
func (b *Bag) HasWarnings() bool { return b.Len() > 0 && b.worst() >= SevWarning }

// Count returns the number of diagnostics with exactly severity sev.
func (b *Bag) Count(sev Severity) int {
	n := 0
	for i := range b.items {
		if b.items[i].Severity == sev {
			n++
		}
	}
	return n
}

// Merge appends everything other holds, growing the limit when needed.
func (b *Bag) Merge(other *Bag) {
	if other == nil {
		return
	}
	if total := len(b.items) + len(other.items); b.max > 0 && total > b.max {
		b.max = total
	}
	b.items = append(b.items, other.items...)
	b.dropped += other.dropped
}

// Sort orders by position, then severity (errors first), then code.
func (b *Bag) Sort() {
	slices.SortStableFunc(b.items, func(x, y Diagnostic) int {
		return cmp.Or(
			cmp.Compare(x.Primary.File, y.Primary.File),
			cmp.Compare(x.Primary.Start, y.Primary.Start),
			cmp.Compare(x.Primary.End, y.Primary.End),
			cmp.Compare(y.Severity, x.Severity),
			cmp.Compare(x.Code, y.Code),
		)
	})
}

// Dedup drops repeats of the same code and message at the same span.
func (b *Bag) Dedup() {
	type key struct {
		code Code
		span string
		msg  string
	}
	seen := make(map[key]struct{}, len(b.items))
	b.items = slices.DeleteFunc(b.items, func(d Diagnostic) bool {
		k := key{d.Code, d.Primary.String(), d.Message}
		if _, dup := seen[k]; dup {
			return true
		}
		seen[k] = struct{}{}
		return false
	})
}
