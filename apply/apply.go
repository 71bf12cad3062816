// Package apply substitutes dictionary translations into parsed string
// tables. Lookup is intentionally literal: a plain-text segment either
// matches a dictionary key verbatim (whitespace included) or it is left
// unchanged and reported, never approximated.
package apply

import (
	"strings"

	"github.com/pokemmo-tools/dexlate/dictionary"
	"github.com/pokemmo-tools/dexlate/strtable"
)

// Report aggregates one file's outcome for the operator. It never halts
// a run.
type Report struct {
	Matched   int
	Unmatched int
	Skipped   int

	// UnmatchedKeys lists the plain-text segments that had no dictionary
	// entry, first occurrence order, deduplicated.
	UnmatchedKeys []string

	seen map[string]bool
}

func (r *Report) miss(key string) {
	if r.seen == nil {
		r.seen = make(map[string]bool)
	}
	if !r.seen[key] {
		r.seen[key] = true
		r.UnmatchedKeys = append(r.UnmatchedKeys, key)
	}
}

// Applier substitutes one merged dictionary into string tables, honoring
// a language's special cases.
type Applier struct {
	dict    *dictionary.Dictionary
	special *SpecialCases
}

// NewApplier builds an applier. Extra entries from the special cases are
// merged over dict, so hand additions win collisions. special may be nil.
func NewApplier(dict *dictionary.Dictionary, special *SpecialCases) *Applier {
	if special == nil {
		special = NewSpecialCases()
	}
	return &Applier{
		dict:    dictionary.Merge(dict, special.AddEntries()),
		special: special,
	}
}

// File translates every entry of f in place and returns the report.
// Priority per entry: override_translation, then no_translation, then
// transform_translation, then the entry's own case, then plain segment
// lookup. Control tokens are never looked up and pass through in position.
func (a *Applier) File(f *strtable.File) *Report {
	r := &Report{}
	for _, e := range f.Entries() {
		a.entry(e, r)
	}
	return r
}

func (a *Applier) entry(e *strtable.Entry, r *Report) {
	if strings.TrimSpace(e.Text) == "" {
		return
	}
	id := e.Key

	if text, ok := a.special.overrides[id]; ok {
		// Overrides always apply, even when empty.
		e.Text = text
		r.Matched++
		return
	}

	if a.special.noTranslate[id] {
		r.Skipped++
		return
	}

	if patterns, ok := a.special.transforms[id]; ok {
		if out, ok := transform(patterns, e.Text, a.dict.Get); ok {
			e.Text = out
			r.Matched++
			return
		}
	}

	if c, ok := a.special.perID[id]; ok {
		switch c.Type {
		case "no_translation":
			r.Skipped++
			return
		case "override_translation":
			e.Text = c.Translation
			r.Matched++
			return
		case "transform_translation":
			if out, ok := transform(c.Patterns, e.Text, a.dict.Get); ok {
				e.Text = out
				r.Matched++
				return
			}
		case "add_translation":
			a.segments(e, r, c.Translations)
			return
		}
	}

	a.segments(e, r, nil)
}

// segments performs the literal per-segment lookup. extra, when present,
// is consulted before the merged dictionary (per-entry additions).
func (a *Applier) segments(e *strtable.Entry, r *Report, extra map[string]string) {
	segs, err := strtable.Segments(e.Text)
	if err != nil {
		// Token grammar is validated at parse time; an entry edited since
		// then stays untouched rather than half-translated.
		r.Unmatched++
		r.miss(e.Text)
		return
	}

	lookup := func(key string) (string, bool) {
		if extra != nil {
			if v, ok := extra[key]; ok {
				return v, true
			}
		}
		return a.dict.Get(key)
	}

	looked, missed := 0, 0
	for i := range segs {
		if segs[i].Token || strings.TrimSpace(segs[i].Text) == "" {
			continue
		}
		looked++
		if v, ok := lookup(segs[i].Text); ok {
			segs[i].Text = v
		} else {
			missed++
			r.miss(segs[i].Text)
		}
	}
	e.Text = strtable.Join(segs)

	switch {
	case looked == 0:
		// Tokens and whitespace only: nothing to translate.
	case missed == 0:
		r.Matched++
	default:
		r.Unmatched++
	}
}
