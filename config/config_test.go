package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	c, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.SourceLang != "en" {
		t.Errorf("SourceLang = %q", c.SourceLang)
	}
	if c.DefaultAction != ActionCopy {
		t.Errorf("DefaultAction = %q", c.DefaultAction)
	}
	if len(c.Categories) == 0 {
		t.Error("default categories empty")
	}
	if c.ActionFor("anything.xml") != ActionCopy {
		t.Error("unlisted files should default to copy")
	}
}

func TestLoadFullFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, FileName), `
source_lang: en
languages: [it]
categories: [item, move]
input_dir: in
output_dir: out
cache_dir: cachedir
mod_version: "0.5"
edited_by: someone
files:
  - path: sws_strings_en.xml
    action: translate
  - path: extra/binary.xml
    action: skip
`)

	c, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !reflect.DeepEqual(c.Languages, []string{"it"}) {
		t.Errorf("Languages = %v", c.Languages)
	}
	if !reflect.DeepEqual(c.Categories, []string{"item", "move"}) {
		t.Errorf("Categories = %v", c.Categories)
	}
	if got := c.ActionFor("sws_strings_en.xml"); got != ActionTranslate {
		t.Errorf("ActionFor(sws_strings_en.xml) = %q", got)
	}
	if got := c.ActionFor("extra/binary.xml"); got != ActionSkip {
		t.Errorf("ActionFor(extra/binary.xml) = %q", got)
	}
	if got := c.ActionFor("other.xml"); got != ActionCopy {
		t.Errorf("ActionFor(other.xml) = %q", got)
	}
	if got := c.AbsOutputDir("it"); got != filepath.Join(dir, "out", "IT") {
		t.Errorf("AbsOutputDir = %q", got)
	}
	if got := c.AbsCacheDir(); got != filepath.Join(dir, "cachedir") {
		t.Errorf("AbsCacheDir = %q", got)
	}
}

func TestLoadRejectsUnknownValues(t *testing.T) {
	tests := []struct {
		name, content string
	}{
		{"bad category", "categories: [pokeball]\n"},
		{"bad action", "files:\n  - path: a.xml\n    action: maybe\n"},
		{"missing path", "files:\n  - action: copy\n"},
		{"bad default action", "default_action: sometimes\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeFile(t, filepath.Join(dir, FileName), tt.content)
			if _, err := Load(dir); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestDetectLanguages(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "it", "item-it.json"), "{}\n")
	writeFile(t, filepath.Join(dir, "es", "move-es.json"), "{}\n")
	// Only a special-cases file: not a usable language.
	writeFile(t, filepath.Join(dir, "fr", "special_cases-fr.json"), "{}\n")
	// Not a language code directory.
	writeFile(t, filepath.Join(dir, "missing", "item-it.json"), "{}\n")

	want := []string{"es", "it"}
	if got := DetectLanguages(dir); !reflect.DeepEqual(got, want) {
		t.Fatalf("DetectLanguages = %v, want %v", got, want)
	}
}

func TestTargetLanguagesPrefersConfigured(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "translations", "it", "item-it.json"), "{}\n")
	writeFile(t, filepath.Join(dir, FileName), "languages: [pt-BR]\n")

	c, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := c.TargetLanguages(); !reflect.DeepEqual(got, []string{"pt-BR"}) {
		t.Fatalf("TargetLanguages = %v", got)
	}

	c2 := Default(dir)
	if got := c2.TargetLanguages(); !reflect.DeepEqual(got, []string{"it"}) {
		t.Fatalf("auto-detected TargetLanguages = %v", got)
	}
}
