package strtable

import (
	"errors"
	"reflect"
	"testing"
)

func TestSegments(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []Segment
	}{
		{
			"plain only",
			"Potion",
			[]Segment{{Text: "Potion"}},
		},
		{
			"color tokens",
			"Red {COLOR:1}Berry{COLOR:0}",
			[]Segment{
				{Text: "Red "},
				{Text: "{COLOR:1}", Token: true},
				{Text: "Berry"},
				{Text: "{COLOR:0}", Token: true},
			},
		},
		{
			"placeholder",
			"Restores {str1} HP.",
			[]Segment{
				{Text: "Restores "},
				{Text: "{str1}", Token: true},
				{Text: " HP."},
			},
		},
		{
			"escapes",
			`Line one\nLine two\tend`,
			[]Segment{
				{Text: "Line one"},
				{Text: `\n`, Token: true},
				{Text: "Line two"},
				{Text: `\t`, Token: true},
				{Text: "end"},
			},
		},
		{
			"adjacent tokens",
			`{COLOR:1}{str1}\n`,
			[]Segment{
				{Text: "{COLOR:1}", Token: true},
				{Text: "{str1}", Token: true},
				{Text: `\n`, Token: true},
			},
		},
		{
			"lone backslash is plain",
			`a\z`,
			[]Segment{{Text: `a\z`}},
		},
		{
			"empty",
			"",
			nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Segments(tt.in)
			if err != nil {
				t.Fatalf("Segments: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("Segments(%q) = %#v, want %#v", tt.in, got, tt.want)
			}
			if Join(got) != tt.in {
				t.Fatalf("Join does not restore input: %q", Join(got))
			}
		})
	}
}

func TestSegmentsUnterminated(t *testing.T) {
	_, err := Segments("Red {COLOR:1")
	if !errors.Is(err, ErrUnterminatedToken) {
		t.Fatalf("error = %v, want ErrUnterminatedToken", err)
	}
}
