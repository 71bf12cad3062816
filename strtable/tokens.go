package strtable

import (
	"errors"
	"strings"
)

// ErrUnterminatedToken reports a control token opened with { that never
// closes before the entry text ends.
var ErrUnterminatedToken = errors.New("unterminated control token")

// Segment is one slice of entry text: either translatable plain text or a
// control token that must pass through substitution unchanged.
type Segment struct {
	Text  string
	Token bool
}

// Segments splits entry text into alternating plain/token segments. Control
// tokens are brace-delimited markers like {COLOR:1} or {str1} and the escape
// sequences \n and \t. Tokens keep their delimiters so Join restores the
// input exactly.
func Segments(text string) ([]Segment, error) {
	var segs []Segment
	var plain strings.Builder

	flush := func() {
		if plain.Len() > 0 {
			segs = append(segs, Segment{Text: plain.String()})
			plain.Reset()
		}
	}

	for i := 0; i < len(text); {
		switch {
		case text[i] == '{':
			end := strings.IndexByte(text[i:], '}')
			if end < 0 {
				return nil, ErrUnterminatedToken
			}
			flush()
			segs = append(segs, Segment{Text: text[i : i+end+1], Token: true})
			i += end + 1
		case text[i] == '\\' && i+1 < len(text) && (text[i+1] == 'n' || text[i+1] == 't'):
			flush()
			segs = append(segs, Segment{Text: text[i : i+2], Token: true})
			i += 2
		default:
			plain.WriteByte(text[i])
			i++
		}
	}
	flush()
	return segs, nil
}

// Join concatenates segments back into entry text.
func Join(segs []Segment) string {
	var b strings.Builder
	for _, s := range segs {
		b.WriteString(s.Text)
	}
	return b.String()
}
