// Package rewrite benennt einen Modell-Codenamen in Code-Dateien um.
//
// Dieses Modul enthaelt:
// - Codename: Woerter eines Codenamens und ihre Schreibweisen
// - Rules: geordnete Ersetzungsregeln (rules.go)
// - Walker: paralleler Verzeichnis-Durchlauf (walk.go)
package rewrite

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ErrInvalidCodename wird zurueckgegeben wenn ein Codename keine Woerter enthaelt
var ErrInvalidCodename = errors.New("invalid codename")

// DefaultCodename ist der Codename, der ohne --from/--to normalisiert wird
const DefaultCodename = "mini-retro"

// Codename ist ein Codename als Liste kleingeschriebener Woerter
type Codename struct {
	words []string
}

// ParseCodename zerlegt s in Woerter.
// Trennzeichen sind '-', '_', '.' und Leerzeichen sowie CamelCase-Grenzen.
func ParseCodename(s string) (Codename, error) {
	var words []string
	var cur []rune
	flush := func() {
		if len(cur) > 0 {
			words = append(words, strings.ToLower(string(cur)))
			cur = cur[:0]
		}
	}

	runes := []rune(s)
	for i, r := range runes {
		switch {
		case r == '-' || r == '_' || r == '.' || unicode.IsSpace(r):
			flush()
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			if unicode.IsUpper(r) && i > 0 {
				prev := runes[i-1]
				nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
				if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
					flush()
				}
			}
			cur = append(cur, r)
		default:
			return Codename{}, fmt.Errorf("%w: %q contains %q", ErrInvalidCodename, s, r)
		}
	}
	flush()

	if len(words) == 0 {
		return Codename{}, fmt.Errorf("%w: %q", ErrInvalidCodename, s)
	}
	return Codename{words: words}, nil
}

// MustParseCodename wie ParseCodename, panict bei Fehlern
func MustParseCodename(s string) Codename {
	c, err := ParseCodename(s)
	if err != nil {
		panic(err)
	}
	return c
}

// Words gibt eine Kopie der Woerter zurueck
func (c Codename) Words() []string {
	return append([]string(nil), c.words...)
}

// Kebab: mini-retro
func (c Codename) Kebab() string {
	return strings.Join(c.words, "-")
}

// Snake: mini_retro
func (c Codename) Snake() string {
	return strings.Join(c.words, "_")
}

// Upper: MINI_RETRO
func (c Codename) Upper() string {
	return strings.ToUpper(c.Snake())
}

// Camel: MiniRetro
func (c Codename) Camel() string {
	return strings.Join(c.titled(), "")
}

// TitleSnake: Mini_Retro
func (c Codename) TitleSnake() string {
	return strings.Join(c.titled(), "_")
}

// Sentence: Mini-retro
func (c Codename) Sentence() string {
	kebab := c.Kebab()
	r, size := utf8.DecodeRuneInString(kebab)
	return string(unicode.ToUpper(r)) + kebab[size:]
}

// Compact: MINIRETRO (ohne Trennzeichen, fuer Platzhalter)
func (c Codename) Compact() string {
	return strings.ToUpper(strings.Join(c.words, ""))
}

func (c Codename) String() string {
	return c.Kebab()
}

func (c Codename) titled() []string {
	caser := cases.Title(language.Und)
	out := make([]string, len(c.words))
	for i, w := range c.words {
		out[i] = caser.String(w)
	}
	return out
}
