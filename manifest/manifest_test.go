package manifest

import (
	"reflect"
	"strings"
	"testing"
)

const sampleManifest = `<?xml version="1.0" encoding="UTF-8"?>
<resource name="SupersStrings" version="1.2.3" author="Super" description="Story strings">
	<strings>
		<string path="sws_strings_en.xml"/>
		<string path="extra/sws_items_en.xml"/>
		<string path="extra/sws_moves_en.xml"/>
	</strings>
</resource>
`

func TestFilesAndVersion(t *testing.T) {
	m := Parse("info.xml", []byte(sampleManifest))

	want := []string{
		"sws_strings_en.xml",
		"extra/sws_items_en.xml",
		"extra/sws_moves_en.xml",
	}
	if got := m.Files(); !reflect.DeepEqual(got, want) {
		t.Fatalf("Files = %v, want %v", got, want)
	}
	if got := m.Version(); got != "1.2.3" {
		t.Fatalf("Version = %q", got)
	}
}

func TestStamp(t *testing.T) {
	m := Parse("info.xml", []byte(sampleManifest))
	m.Stamp(StampOptions{
		NameSuffix: "ITA(ClientENG)",
		ModVersion: "0.5",
		EditedBy:   "someone",
		SourceURL:  "https://example.org/strings",
	})

	out := string(m.Bytes())
	for _, want := range []string{
		`name="SupersStrings ITA(ClientENG)"`,
		`version="1.2.3-mod_0.5"`,
		`author="Super (edited by someone)"`,
		`description="Story strings (edited version from: https://example.org/strings)"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("stamped manifest missing %q:\n%s", want, out)
		}
	}
	// Structure outside the resource tag is untouched.
	if !strings.Contains(out, "\t\t<string path=\"sws_strings_en.xml\"/>\n") {
		t.Fatalf("file list disturbed:\n%s", out)
	}
}

func TestRemoveFiles(t *testing.T) {
	m := Parse("info.xml", []byte(sampleManifest))
	m.RemoveFiles([]string{"sws_strings_en.xml", "extra/sws_moves_en.xml"})

	want := []string{"sws_strings_en.xml", "extra/sws_moves_en.xml"}
	if got := m.Files(); !reflect.DeepEqual(got, want) {
		t.Fatalf("Files after removal = %v, want %v", got, want)
	}
	out := string(m.Bytes())
	if strings.Contains(out, "sws_items_en.xml") {
		t.Fatalf("removed reference still present:\n%s", out)
	}
	// The removal takes the whole line, leaving no blank gap.
	if strings.Contains(out, "\n\n\t") {
		t.Fatalf("removal left a blank line:\n%s", out)
	}
}

func TestZipName(t *testing.T) {
	got := ZipName("SupersStoryStrings", "it", "1.2.3", "0.5")
	want := "SupersStoryStrings_IT-EN_@ClientEN@-@1.2.3-mod_0.5@"
	if got != want {
		t.Fatalf("ZipName = %q, want %q", got, want)
	}
}
