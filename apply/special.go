package apply

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/pokemmo-tools/dexlate/dictionary"
)

// TransformPattern rewrites an entry whose text matches Regex using
// Template. Template placeholders: {original}, {match}, {groupN},
// {translated}.
type TransformPattern struct {
	Regex       string `json:"regex"`
	Template    string `json:"template"`
	Description string `json:"description"`
}

// Case is a per-entry special case keyed by entry id.
type Case struct {
	Type         string             `json:"type"`
	Reason       string             `json:"reason"`
	Translation  string             `json:"translation"`
	Translations map[string]string  `json:"translations"`
	Patterns     []TransformPattern `json:"patterns"`
}

// Block is content appended to one file after translation, keyed by file
// path. Appending happens after the dictionary pass so the added text is
// never itself translated.
type Block struct {
	Content string `json:"content"`
	Reason  string `json:"reason"`
}

// SpecialCases carries the hand-maintained exceptions for one language:
// entries that must stay untranslated, fixed override texts, regex
// transforms, extra dictionary entries, and per-file appended blocks,
// addressed by entry id with range support ("101-105").
type SpecialCases struct {
	overrides   map[string]string
	noTranslate map[string]bool
	transforms  map[string][]TransformPattern
	perID       map[string]Case
	add         map[string]string
	blocks      map[string]Block
}

// SpecialFileName returns the on-disk name of a language's special-cases
// file, e.g. "special_cases-it.json".
func SpecialFileName(lang string) string {
	return "special_cases-" + lang + ".json"
}

// NewSpecialCases returns an empty set, applying nothing.
func NewSpecialCases() *SpecialCases {
	return &SpecialCases{
		overrides:   make(map[string]string),
		noTranslate: make(map[string]bool),
		transforms:  make(map[string][]TransformPattern),
		perID:       make(map[string]Case),
		add:         make(map[string]string),
		blocks:      make(map[string]Block),
	}
}

// idEntry is one element of a grouped id list.
type idEntry struct {
	ID          string             `json:"id"`
	Translation string             `json:"translation"`
	Reason      string             `json:"reason"`
	Comment     string             `json:"comment"`
	Patterns    []TransformPattern `json:"patterns"`
}

type idGroup struct {
	IDs []idEntry `json:"ids"`
}

type addGroup struct {
	Translations map[string]string `json:"translations"`
}

// LoadSpecialCases reads a special-cases file. A missing file yields an
// empty set: most languages carry no exceptions.
func LoadSpecialCases(path string) (*SpecialCases, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return NewSpecialCases(), nil
		}
		return nil, fmt.Errorf("reading special cases: %w", err)
	}
	sc, err := ParseSpecialCases(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", filepath.Base(path), err)
	}
	return sc, nil
}

// ParseSpecialCases decodes the special-cases document. Known top-level
// groups are override_translation, no_translation, transform_translation,
// add_translation and add_block; every other top-level key is an entry id
// (or id range) with its own case.
func ParseSpecialCases(data []byte) (*SpecialCases, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	sc := NewSpecialCases()

	if msg, ok := raw["add_translation"]; ok {
		var g addGroup
		if err := json.Unmarshal(msg, &g); err != nil {
			return nil, fmt.Errorf("add_translation: %w", err)
		}
		for k, v := range g.Translations {
			sc.add[k] = v
		}
		delete(raw, "add_translation")
	}

	if msg, ok := raw["add_block"]; ok {
		var g map[string]Block
		if err := json.Unmarshal(msg, &g); err != nil {
			return nil, fmt.Errorf("add_block: %w", err)
		}
		for p, b := range g {
			sc.blocks[normalizePath(p)] = b
		}
		delete(raw, "add_block")
	}

	if msg, ok := raw["override_translation"]; ok {
		var g idGroup
		if err := json.Unmarshal(msg, &g); err != nil {
			return nil, fmt.Errorf("override_translation: %w", err)
		}
		for _, e := range g.IDs {
			for _, id := range expandIDs(e.ID) {
				sc.overrides[id] = e.Translation
			}
		}
		delete(raw, "override_translation")
	}

	if msg, ok := raw["no_translation"]; ok {
		var g idGroup
		if err := json.Unmarshal(msg, &g); err != nil {
			return nil, fmt.Errorf("no_translation: %w", err)
		}
		for _, e := range g.IDs {
			for _, id := range expandIDs(e.ID) {
				sc.noTranslate[id] = true
			}
		}
		delete(raw, "no_translation")
	}

	if msg, ok := raw["transform_translation"]; ok {
		var g idGroup
		if err := json.Unmarshal(msg, &g); err != nil {
			return nil, fmt.Errorf("transform_translation: %w", err)
		}
		for _, e := range g.IDs {
			for _, id := range expandIDs(e.ID) {
				sc.transforms[id] = e.Patterns
			}
		}
		delete(raw, "transform_translation")
	}

	for key, msg := range raw {
		var c Case
		if err := json.Unmarshal(msg, &c); err != nil {
			return nil, fmt.Errorf("case %q: %w", key, err)
		}
		for _, id := range expandIDs(key) {
			sc.perID[id] = c
		}
	}

	return sc, nil
}

// AddEntries returns the extra dictionary entries, to be merged over the
// built dictionaries (later wins, so hand additions take precedence).
func (sc *SpecialCases) AddEntries() *dictionary.Dictionary {
	d := dictionary.New()
	for _, k := range sortedKeys(sc.add) {
		d.Set(k, sc.add[k])
	}
	return d
}

// Block returns the content to append to the named file, if any. Paths
// compare with forward slashes regardless of how the document wrote them.
func (sc *SpecialCases) Block(path string) (string, bool) {
	b, ok := sc.blocks[normalizePath(path)]
	if !ok || b.Content == "" {
		return "", false
	}
	return b.Content, true
}

func normalizePath(p string) string {
	return strings.ReplaceAll(p, "\\", "/")
}

// expandIDs expands "101-105" into the ids it covers. A key that is not a
// well-formed numeric range is returned as-is.
func expandIDs(key string) []string {
	start, end, ok := strings.Cut(key, "-")
	if !ok {
		return []string{key}
	}
	from, err1 := strconv.Atoi(start)
	to, err2 := strconv.Atoi(end)
	if err1 != nil || err2 != nil || to < from {
		return []string{key}
	}
	ids := make([]string, 0, to-from+1)
	for i := from; i <= to; i++ {
		ids = append(ids, strconv.Itoa(i))
	}
	return ids
}

// transform applies the first matching pattern to text. The {translated}
// placeholder resolves the first capture group (or whole text) through
// lookup; a miss falls back to the term itself.
func transform(patterns []TransformPattern, text string, lookup func(string) (string, bool)) (string, bool) {
	for _, p := range patterns {
		if p.Regex == "" || p.Template == "" {
			continue
		}
		re, err := regexp.Compile(p.Regex)
		if err != nil {
			continue
		}
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}

		out := p.Template
		out = strings.ReplaceAll(out, "{original}", text)
		out = strings.ReplaceAll(out, "{match}", m[0])
		for i := 1; i < len(m); i++ {
			out = strings.ReplaceAll(out, "{group"+strconv.Itoa(i)+"}", m[i])
		}

		term := text
		if len(m) > 1 {
			term = m[1]
		}
		translated := term
		if v, ok := lookup(term); ok {
			translated = v
		}
		out = strings.ReplaceAll(out, "{translated}", translated)
		return out, true
	}
	return "", false
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
