package dictionary

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParsePreservesKeyOrder(t *testing.T) {
	data := []byte(`{
  "Oran Berry": "Baia Strana",
  "Cheri Berry": "Baia Liechi",
  "Sitrus Berry": "Baia Cedro"
}
`)
	d, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	want := []string{"Oran Berry", "Cheri Berry", "Sitrus Berry"}
	got := d.Keys()
	if len(got) != len(want) {
		t.Fatalf("got %d keys, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("key[%d] = %q, want %q", i, got[i], want[i])
		}
	}
	if v, _ := d.Get("Cheri Berry"); v != "Baia Liechi" {
		t.Errorf("Get(Cheri Berry) = %q", v)
	}
}

func TestParseRejectsNonStringValue(t *testing.T) {
	if _, err := Parse([]byte(`{"a": 1}`)); err == nil {
		t.Fatal("expected error for non-string value")
	}
	if _, err := Parse([]byte(`["a"]`)); err == nil {
		t.Fatal("expected error for non-object root")
	}
}

func TestLoadMissingFileIsEmpty(t *testing.T) {
	d, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if d.Len() != 0 {
		t.Fatalf("missing file dictionary has %d entries", d.Len())
	}
}

func TestMarshalRoundTrip(t *testing.T) {
	d := New()
	d.Set("Poké Ball", "Poké Ball")
	d.Set("Thunder Shock", "Tuonoshock")

	out := d.Marshal()
	want := "{\n  \"Poké Ball\": \"Poké Ball\",\n  \"Thunder Shock\": \"Tuonoshock\"\n}\n"
	if string(out) != want {
		t.Fatalf("Marshal:\n%s\nwant:\n%s", out, want)
	}

	back, err := Parse(out)
	if err != nil {
		t.Fatalf("Parse(Marshal()): %v", err)
	}
	if back.Len() != 2 {
		t.Fatalf("round trip lost entries: %d", back.Len())
	}
}

func TestMarshalControlCharactersStayParseable(t *testing.T) {
	d := New()
	d.Set("Bell", "ding\a")
	d.Set("Feed", "top\vbottom")

	out := d.Marshal()
	if !strings.Contains(string(out), `\u0007`) || !strings.Contains(string(out), `\u000b`) {
		t.Fatalf("control characters must use JSON escapes:\n%s", out)
	}

	back, err := Parse(out)
	if err != nil {
		t.Fatalf("Parse(Marshal()): %v", err)
	}
	if v, _ := back.Get("Bell"); v != "ding\a" {
		t.Errorf("Bell = %q", v)
	}
	if v, _ := back.Get("Feed"); v != "top\vbottom" {
		t.Errorf("Feed = %q", v)
	}
}

func TestMarshalEmpty(t *testing.T) {
	if got := string(New().Marshal()); got != "{}\n" {
		t.Fatalf("empty Marshal = %q", got)
	}
}

func TestWriteFileCreatesDirectories(t *testing.T) {
	dir := t.TempDir()
	d := New()
	d.Set("Hardy", "Ardita")

	path := Path(dir, "it", "nature")
	if err := d.WriteFile(path); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	back, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if v, _ := back.Get("Hardy"); v != "Ardita" {
		t.Fatalf("reloaded value = %q", v)
	}
}

func TestMergeLaterWins(t *testing.T) {
	a := New()
	a.Set("Potion", "Pozione")
	a.Set("Antidote", "Antidoto")

	b := New()
	b.Set("Potion", "Pozione Vecchia")
	b.Set("Revive", "Revitalizzante")

	m := Merge(a, b)
	if v, _ := m.Get("Potion"); v != "Pozione Vecchia" {
		t.Fatalf("later dictionary should win, got %q", v)
	}
	want := []string{"Potion", "Antidote", "Revive"}
	got := m.Keys()
	if len(got) != len(want) {
		t.Fatalf("merged keys = %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("key[%d] = %q, want %q", i, got[i], want[i])
		}
	}

	// Merging the same inputs again is deterministic.
	again := Merge(a, b)
	if string(again.Marshal()) != string(m.Marshal()) {
		t.Fatal("merge is not deterministic")
	}
}

func TestWriteMissing(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, MissingFileName("item", "it"))

	rows := []Missing{
		{ResourceID: 23, LanguageID: 8, EnglishName: "Oran Berry"},
		{ResourceID: 24, LanguageID: 8, EnglishName: "Sitrus Berry"},
	}
	if err := WriteMissing(path, rows); err != nil {
		t.Fatalf("WriteMissing: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading report: %v", err)
	}
	want := "resource_id,language_id,english_name,translation\n" +
		"23,8,Oran Berry,\n" +
		"24,8,Sitrus Berry,\n"
	if string(data) != want {
		t.Fatalf("report:\n%s\nwant:\n%s", data, want)
	}

	// No rows removes the stale report.
	if err := WriteMissing(path, nil); err != nil {
		t.Fatalf("WriteMissing(empty): %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatal("stale report should be removed")
	}
}
