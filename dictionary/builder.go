package dictionary

import (
	"context"

	"github.com/pokemmo-tools/dexlate/pokeapi"
)

// Missing is one resource that has no text in the target language. Exported
// to CSV so translators can fill the gap by hand.
type Missing struct {
	ResourceID  int
	LanguageID  int
	EnglishName string
}

// Builder constructs dictionaries for one target language from a resource
// source. The source decides whether records come from the network or from
// the local cache.
type Builder struct {
	src    pokeapi.Source
	lang   string
	langID int
}

// NewBuilder returns a builder for the given target language. The language
// id is resolved once from the language listing; it only labels missing
// rows, so an unknown language resolves to id 0 and a failed listing
// degrades to id 0 rather than blocking builds that can run from cache.
func NewBuilder(ctx context.Context, src pokeapi.Source, lang string) (*Builder, error) {
	b := &Builder{src: src, lang: lang}

	refs, err := src.List(ctx, pokeapi.LanguageCategory)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return b, nil
	}
	for _, r := range refs {
		if r.Name == lang {
			b.langID = r.ID
			break
		}
	}
	return b, nil
}

// Lang returns the builder's target language code.
func (b *Builder) Lang() string {
	return b.lang
}

// Build constructs the dictionary for one category. The category listing is
// the ground truth for the id range; each record contributes one entry keyed
// by its English name (falling back to the resource slug when no English
// text exists). A record without target-language text is a gap: it is
// skipped and reported, not written as an empty entry. Any fetch failure
// aborts the category.
func (b *Builder) Build(ctx context.Context, category string) (*Dictionary, []Missing, error) {
	refs, err := b.src.List(ctx, category)
	if err != nil {
		return nil, nil, err
	}

	dict := New()
	var missing []Missing

	for _, ref := range refs {
		rec, err := b.src.Resource(ctx, category, ref.ID)
		if err != nil {
			return nil, nil, err
		}

		key := rec.EnglishName()
		translated, ok := rec.NameIn(b.lang)
		if !ok || translated == "" {
			missing = append(missing, Missing{
				ResourceID:  rec.ID,
				LanguageID:  b.langID,
				EnglishName: key,
			})
			continue
		}
		dict.Set(key, translated)
	}

	return dict, missing, nil
}
