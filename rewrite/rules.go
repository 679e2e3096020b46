package rewrite

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/dlclark/regexp2"
)

// literal ist eine feste Teilstring-Ersetzung
type literal struct {
	old, new string
}

// Rules ersetzt die Schreibweisen von From durch die von To.
// Die Reihenfolge der Schritte ist fest:
//  1. spezifische Literale (<Camel>Model, <snake>_model, ...)
//  2. UPPER, Camel und snake
//  3. kebab abhaengig von den Nachbarzeichen
//  4. Title_Snake_, Ziel-kebab vor [A-Za-z0-9] wird snake, UPPER
type Rules struct {
	From, To Codename

	specific []literal
	upper    *regexp.Regexp
	camel    *regexp.Regexp
	snake    *regexp.Regexp
	kebab    *regexp.Regexp
	title    *regexp.Regexp
	// kebab gefolgt von Buchstabe/Ziffer, braucht Lookahead
	kebabAlnum *regexp2.Regexp
}

// NewRules erstellt die Regeln fuer die Umbenennung from -> to
func NewRules(from, to Codename) *Rules {
	specific := func(f func(Codename) string) literal {
		return literal{f(from), f(to)}
	}

	return &Rules{
		From: from,
		To:   to,
		specific: []literal{
			specific(func(c Codename) string { return c.Camel() + "Model" }),
			specific(func(c Codename) string { return c.Snake() + "_model" }),
			specific(func(c Codename) string { return c.Snake() + "_spec" }),
			specific(func(c Codename) string { return c.Snake() + "ov" }),
			specific(func(c Codename) string { return c.Snake() + "onevision" }),
			specific(func(c Codename) string { return "multimodal_" + c.Snake() }),
			specific(func(c Codename) string { return "pretrain_" + c.Snake() }),
			specific(func(c Codename) string { return "sft_" + c.Snake() }),
		},
		upper:      regexp.MustCompile(regexp.QuoteMeta(from.Upper())),
		camel:      regexp.MustCompile(regexp.QuoteMeta(from.Camel())),
		snake:      regexp.MustCompile(regexp.QuoteMeta(from.Snake())),
		kebab:      regexp.MustCompile(regexp.QuoteMeta(from.Kebab())),
		title:      regexp.MustCompile(regexp.QuoteMeta(from.TitleSnake() + "_")),
		kebabAlnum: regexp2.MustCompile(regexp2.Escape(to.Kebab())+`(?=[A-Za-z0-9])`, regexp2.None),
	}
}

// DefaultRules normalisiert die Schreibweisen von DefaultCodename
func DefaultRules() *Rules {
	c := MustParseCodename(DefaultCodename)
	return NewRules(c, c)
}

// Apply wendet alle Regeln in fester Reihenfolge auf text an
func (r *Rules) Apply(text string) string {
	for _, l := range r.specific {
		text = strings.ReplaceAll(text, l.old, l.new)
	}

	text = r.upper.ReplaceAllLiteralString(text, r.To.Upper())
	text = r.camel.ReplaceAllLiteralString(text, r.To.Camel())
	text = r.snake.ReplaceAllLiteralString(text, r.To.Snake())
	text = r.replaceKebab(text)
	text = r.title.ReplaceAllLiteralString(text, r.To.TitleSnake()+"_")

	if out, err := r.kebabAlnum.Replace(text, strings.ReplaceAll(r.To.Snake(), "$", "$$"), -1, -1); err == nil {
		text = out
	}

	return r.upper.ReplaceAllLiteralString(text, r.To.Upper())
}

// replaceKebab waehlt die Ziel-Schreibweise anhand der Zeichen vor und nach
// dem Treffer im Eingabetext:
//   - '-' auf einer Seite: kebab
//   - Grossbuchstaben auf beiden Seiten: UPPER
//   - Buchstabe oder '_' auf einer Seite: snake
//   - sonst: kebab
func (r *Rules) replaceKebab(text string) string {
	matches := r.kebab.FindAllStringIndex(text, -1)
	if matches == nil {
		return text
	}

	var sb strings.Builder
	sb.Grow(len(text))
	last := 0
	for _, m := range matches {
		before, _ := utf8.DecodeLastRuneInString(text[:m[0]])
		after, _ := utf8.DecodeRuneInString(text[m[1]:])
		if m[0] == 0 {
			before = 0
		}
		if m[1] == len(text) {
			after = 0
		}

		sb.WriteString(text[last:m[0]])
		switch {
		case before == '-' || after == '-':
			sb.WriteString(r.To.Kebab())
		case unicode.IsUpper(before) && unicode.IsUpper(after):
			sb.WriteString(r.To.Upper())
		case isIdentStart(before) || isIdentStart(after):
			sb.WriteString(r.To.Snake())
		default:
			sb.WriteString(r.To.Kebab())
		}
		last = m[1]
	}
	sb.WriteString(text[last:])
	return sb.String()
}

// isIdentStart meldet ob r ein Bezeichner beginnen kann
func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}
