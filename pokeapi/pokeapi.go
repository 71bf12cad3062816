// Package pokeapi implements a read-only client for the PokeAPI game-data
// API: list all ids in a resource category, fetch a record by (category, id),
// and read a record's name per language code.
//
// Each category shares one explicit schema (Resource). Fields absent from a
// payload stay zero values; no runtime attribute discovery is performed.
package pokeapi

import (
	"fmt"
	"strconv"
	"strings"
)

// Categories are the resource categories dictionaries can be built from.
var Categories = []string{
	"ability", "berry", "item", "location", "move", "nature", "region", "type",
}

// LanguageCategory is the category holding the API's language registry.
const LanguageCategory = "language"

// DefaultBaseURL is the public PokeAPI endpoint.
const DefaultBaseURL = "https://pokeapi.co/api/v2"

// Ref identifies one resource inside a category listing.
type Ref struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// NamedRef is a reference payload as it appears inside resource records.
type NamedRef struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// Name is one localized name of a resource.
type Name struct {
	Name     string   `json:"name"`
	Language NamedRef `json:"language"`
}

// Resource is the schema shared by all supported categories: the numeric id,
// the English slug, and the localized names.
type Resource struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Names []Name `json:"names"`
}

// NameIn returns the resource name in the given language code.
// The second return value is false when the language is absent.
func (r *Resource) NameIn(lang string) (string, bool) {
	for _, n := range r.Names {
		if n.Language.Name == lang {
			return n.Name, true
		}
	}
	return "", false
}

// EnglishName returns the official English name, falling back to the
// resource slug when no English entry exists.
func (r *Resource) EnglishName() string {
	if name, ok := r.NameIn("en"); ok {
		return name
	}
	return r.Name
}

// FetchError reports a failed fetch with no cached fallback. It aborts the
// affected category build only, never the whole run.
type FetchError struct {
	Category string
	ID       int // 0 for the category listing
	Err      error
}

func (e *FetchError) Error() string {
	if e.ID == 0 {
		return fmt.Sprintf("fetching %s listing: %v", e.Category, e.Err)
	}
	return fmt.Sprintf("fetching %s/%d: %v", e.Category, e.ID, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// idFromURL extracts the trailing numeric id from a resource URL
// (".../api/v2/item/23/" -> 23). Returns 0 when the URL has no id.
func idFromURL(url string) int {
	trimmed := strings.TrimSuffix(url, "/")
	idx := strings.LastIndex(trimmed, "/")
	if idx < 0 {
		return 0
	}
	id, err := strconv.Atoi(trimmed[idx+1:])
	if err != nil {
		return 0
	}
	return id
}
