// Package config — .dexlate.yaml project file support.
//
// When a .dexlate.yaml file exists in the project root, dexlate uses it as
// the sole source of truth for the run: languages, categories, directories
// and per-file actions. Absent fields fall back to defaults; the target
// language list can be auto-detected from the translations directory.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/pokemmo-tools/dexlate/pokeapi"
)

// ---------------------------------------------------------------------------
// YAML schema
// ---------------------------------------------------------------------------

// Config is the top-level .dexlate.yaml structure.
type Config struct {
	// SourceLang is the source language code (default "en").
	SourceLang string `yaml:"source_lang,omitempty"`
	// Languages is the target language list. Empty means auto-detect from
	// the translations directory.
	Languages []string `yaml:"languages,omitempty"`
	// Categories is the list of API categories to build dictionaries from.
	Categories []string `yaml:"categories,omitempty"`

	// InputDir holds the original archive (info.xml + string tables).
	InputDir string `yaml:"input_dir,omitempty"`
	// TranslationsDir holds per-language dictionaries and special cases.
	TranslationsDir string `yaml:"translations_dir,omitempty"`
	// OutputDir receives translated archives, one subdirectory per language.
	OutputDir string `yaml:"output_dir,omitempty"`
	// CacheDir holds the API response cache.
	CacheDir string `yaml:"cache_dir,omitempty"`

	// APIBaseURL overrides the resource API endpoint.
	APIBaseURL string `yaml:"api_base_url,omitempty"`

	// ModVersion is stamped into the output manifest and the zip name.
	ModVersion string `yaml:"mod_version,omitempty"`
	// EditedBy is credited in the output manifest's author attribute.
	EditedBy string `yaml:"edited_by,omitempty"`
	// SourceURL is credited in the output manifest's description attribute.
	SourceURL string `yaml:"source_url,omitempty"`
	// ZipPrefix is the leading part of the release zip name.
	ZipPrefix string `yaml:"zip_prefix,omitempty"`

	// Files lists per-file actions. Files in the manifest but not listed
	// here get DefaultAction.
	Files []FileRule `yaml:"files,omitempty"`
	// DefaultAction applies to unlisted files (default "copy").
	DefaultAction string `yaml:"default_action,omitempty"`

	root string
}

// FileRule binds one manifest file path to an action.
type FileRule struct {
	Path   string `yaml:"path"`
	Action string `yaml:"action"`
}

// Actions for manifest files.
const (
	ActionTranslate = "translate"
	ActionCopy      = "copy"
	ActionSkip      = "skip"
)

// FileName is the config file name.
const FileName = ".dexlate.yaml"

// ---------------------------------------------------------------------------
// Loading
// ---------------------------------------------------------------------------

// Default returns the configuration used when no .dexlate.yaml exists.
func Default(rootDir string) *Config {
	c := &Config{root: rootDir}
	c.applyDefaults()
	return c
}

// Load reads .dexlate.yaml from rootDir. A missing file yields the default
// configuration; a malformed or invalid one is an error.
func Load(rootDir string) (*Config, error) {
	path := filepath.Join(rootDir, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(rootDir), nil
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var c Config
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	c.root = rootDir
	c.applyDefaults()

	for _, cat := range c.Categories {
		if !validCategory(cat) {
			return nil, fmt.Errorf("%s: unknown category %q (valid: %s)",
				path, cat, strings.Join(pokeapi.Categories, ", "))
		}
	}
	for i, f := range c.Files {
		if f.Path == "" {
			return nil, fmt.Errorf("%s: files entry #%d has no path", path, i+1)
		}
		switch f.Action {
		case ActionTranslate, ActionCopy, ActionSkip:
		default:
			return nil, fmt.Errorf("%s: file %q has unknown action %q (valid: translate, copy, skip)",
				path, f.Path, f.Action)
		}
	}
	switch c.DefaultAction {
	case ActionTranslate, ActionCopy, ActionSkip:
	default:
		return nil, fmt.Errorf("%s: unknown default_action %q", path, c.DefaultAction)
	}

	return &c, nil
}

func (c *Config) applyDefaults() {
	if c.SourceLang == "" {
		c.SourceLang = "en"
	}
	if len(c.Categories) == 0 {
		c.Categories = append([]string(nil), pokeapi.Categories...)
	}
	if c.InputDir == "" {
		c.InputDir = "input"
	}
	if c.TranslationsDir == "" {
		c.TranslationsDir = "translations"
	}
	if c.OutputDir == "" {
		c.OutputDir = "output"
	}
	if c.CacheDir == "" {
		c.CacheDir = ".dexlate-cache"
	}
	if c.APIBaseURL == "" {
		c.APIBaseURL = pokeapi.DefaultBaseURL
	}
	if c.ZipPrefix == "" {
		c.ZipPrefix = "SupersStoryStrings"
	}
	if c.DefaultAction == "" {
		c.DefaultAction = ActionCopy
	}
}

func validCategory(cat string) bool {
	for _, c := range pokeapi.Categories {
		if c == cat {
			return true
		}
	}
	return false
}

// ---------------------------------------------------------------------------
// Resolved paths and per-run helpers
// ---------------------------------------------------------------------------

// AbsInputDir returns the absolute input directory.
func (c *Config) AbsInputDir() string {
	return filepath.Join(c.root, c.InputDir)
}

// AbsTranslationsDir returns the absolute translations directory.
func (c *Config) AbsTranslationsDir() string {
	return filepath.Join(c.root, c.TranslationsDir)
}

// AbsOutputDir returns the absolute output directory for one language.
// Output archives live under output/{LANG}/, language upper-cased.
func (c *Config) AbsOutputDir(lang string) string {
	return filepath.Join(c.root, c.OutputDir, strings.ToUpper(lang))
}

// AbsCacheDir returns the absolute cache directory.
func (c *Config) AbsCacheDir() string {
	return filepath.Join(c.root, c.CacheDir)
}

// ActionFor returns the action configured for a manifest file path.
func (c *Config) ActionFor(path string) string {
	for _, f := range c.Files {
		if f.Path == path {
			return f.Action
		}
	}
	return c.DefaultAction
}

// TargetLanguages returns the configured languages, or auto-detects them
// when none were declared.
func (c *Config) TargetLanguages() []string {
	if len(c.Languages) > 0 {
		return c.Languages
	}
	return DetectLanguages(c.AbsTranslationsDir())
}

// ---------------------------------------------------------------------------
// Language auto-detection
// ---------------------------------------------------------------------------

// DetectLanguages finds target languages from the translations directory:
// subdirectories named like a language code that contain at least one
// dictionary JSON file. Special-cases files alone do not make a language.
func DetectLanguages(translationsDir string) []string {
	entries, err := os.ReadDir(translationsDir)
	if err != nil {
		return nil
	}

	var langs []string
	for _, entry := range entries {
		if !entry.IsDir() || !isLangCode(entry.Name()) {
			continue
		}
		if hasDictionaries(filepath.Join(translationsDir, entry.Name())) {
			langs = append(langs, entry.Name())
		}
	}
	sort.Strings(langs)
	return langs
}

func hasDictionaries(langDir string) bool {
	entries, err := os.ReadDir(langDir)
	if err != nil {
		return false
	}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		if strings.HasPrefix(name, "special_cases") {
			continue
		}
		return true
	}
	return false
}

// isLangCode checks if a string looks like a language code (en, it, pt-BR,
// zh-Hant — the API uses hyphenated variants).
func isLangCode(s string) bool {
	if len(s) == 2 {
		return s[0] >= 'a' && s[0] <= 'z' && s[1] >= 'a' && s[1] <= 'z'
	}
	base, rest, ok := strings.Cut(s, "-")
	if !ok || len(base) != 2 || rest == "" {
		return false
	}
	return base[0] >= 'a' && base[0] <= 'z' && base[1] >= 'a' && base[1] <= 'z'
}
