// Package translate uebersetzt Markdown-Dokumente abschnittsweise ueber einen
// externen Uebersetzungsdienst und schuetzt dabei Codename-Tokens.
//
// Dieses Modul enthaelt:
// - Terms: Codename-Normalisierung, Platzhalter und kosmetische Korrekturen
// - Document: Zerlegung in Code, Tabellen und Fliesstext (document.go)
// - Client: LibreTranslate-kompatibler HTTP-Client (client.go)
package translate

import (
	"cmp"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/Retro788/Euclidian-VisionModel/rewrite"
)

// Placeholder verbindet einen Platzhalter mit dem geschuetzten Token
type Placeholder struct {
	Key   string
	Token string
}

type fix struct {
	old, new string
}

type cleanup struct {
	re  *regexp.Regexp
	new string
}

// cleanups werden nach der Uebersetzung in dieser Reihenfolge angewendet
var cleanups = []cleanup{
	{regexp.MustCompile(`\*\*\s+`), "**"},
	{regexp.MustCompile(`\s+\*\*`), "**"},
	{regexp.MustCompile(`\[\s+`), "["},
	{regexp.MustCompile(`\s+\]`), "]"},
	{regexp.MustCompile(`\(\s+`), "("},
	{regexp.MustCompile(`\s+\)`), ")"},
	{regexp.MustCompile(`\s+=\s+`), "="},
	{regexp.MustCompile(`/\s+`), "/"},
	{regexp.MustCompile(`\s+/`), "/"},
	{regexp.MustCompile(`\s+:`), ":"},
	{regexp.MustCompile(` :`), ":"},
}

// Terms normalisiert Schreibweisen von From in die von To
type Terms struct {
	From, To rewrite.Codename

	kebab      *regexp.Regexp
	kebabDash  *regexp.Regexp
	snakeScore *regexp.Regexp
	protect    *regexp.Regexp
	prefix     string
	fixes      []fix
}

// NewTerms erstellt die Term-Regeln fuer from -> to
func NewTerms(from, to rewrite.Codename) *Terms {
	word := `[\p{L}\p{N}_\-/]*`
	return &Terms{
		From:       from,
		To:         to,
		kebab:      regexp.MustCompile(`(?i)` + regexp.QuoteMeta(from.Kebab())),
		kebabDash:  regexp.MustCompile(`(?i)` + regexp.QuoteMeta(from.Kebab()+"-")),
		snakeScore: regexp.MustCompile(`(?i)` + regexp.QuoteMeta(from.Snake()+"_")),
		protect:    regexp.MustCompile(`(?i)` + word + regexp.QuoteMeta(to.Kebab()) + word),
		prefix:     "__" + to.Compact() + "_",
		fixes: []fix{
			{to.Kebab() + "-anevision", to.Kebab() + "-OneVision"},
			{to.Kebab() + "-next", to.Kebab() + "-NeXT"},
			{"WebDataSet", "WebDataset"},
			{"hf/" + to.Kebab(), "HF/" + to.Kebab()},
			{"alturra", "altura"},
		},
	}
}

// DefaultTerms normalisiert rewrite.DefaultCodename
func DefaultTerms() *Terms {
	c := rewrite.MustParseCodename(rewrite.DefaultCodename)
	return NewTerms(c, c)
}

// Replace ersetzt den kebab-Codenamen (ohne Gross-/Kleinschreibung) durch
// UPPER, Sentence-kebab oder kebab, je nach Schreibweise des Treffers
func (t *Terms) Replace(text string) string {
	return t.kebab.ReplaceAllStringFunc(text, func(token string) string {
		if isUpper(token) {
			return t.To.Upper()
		}
		if r, _ := utf8.DecodeRuneInString(token); unicode.IsUpper(r) {
			return t.To.Sentence()
		}
		return t.To.Kebab()
	})
}

// Code normalisiert Codenamen in Code-Bloecken auf Kleinschreibung
func (t *Terms) Code(text string) string {
	text = t.snakeScore.ReplaceAllLiteralString(text, t.To.Snake()+"_")
	text = t.kebabDash.ReplaceAllLiteralString(text, t.To.Kebab()+"-")
	return t.kebab.ReplaceAllLiteralString(text, t.To.Kebab())
}

// Protect ersetzt alle Tokens, die den Codenamen enthalten, durch Platzhalter.
// Laengere Tokens werden zuerst ersetzt.
func (t *Terms) Protect(text string) (string, []Placeholder) {
	seen := make(map[string]struct{})
	var tokens []string
	for _, tok := range t.protect.FindAllString(text, -1) {
		if _, ok := seen[tok]; !ok {
			seen[tok] = struct{}{}
			tokens = append(tokens, tok)
		}
	}

	slices.SortFunc(tokens, func(a, b string) int {
		if c := cmp.Compare(len(b), len(a)); c != 0 {
			return c
		}
		return strings.Compare(a, b)
	})

	placeholders := make([]Placeholder, len(tokens))
	for i, tok := range tokens {
		key := t.prefix + strconv.Itoa(i) + "__"
		placeholders[i] = Placeholder{Key: key, Token: tok}
		text = strings.ReplaceAll(text, tok, key)
	}
	return text, placeholders
}

// Restore setzt die geschuetzten Tokens wieder ein
func Restore(text string, placeholders []Placeholder) string {
	for _, p := range placeholders {
		text = strings.ReplaceAll(text, p.Key, p.Token)
	}
	return text
}

// Cleanup korrigiert typische Uebersetzungsartefakte und Leerraum um Satzzeichen
func (t *Terms) Cleanup(text string) string {
	for _, f := range t.fixes {
		text = strings.ReplaceAll(text, f.old, f.new)
	}
	for _, c := range cleanups {
		text = c.re.ReplaceAllLiteralString(text, c.new)
	}
	return text
}

// isUpper meldet ob s Grossbuchstaben, aber keine Kleinbuchstaben enthaelt
func isUpper(s string) bool {
	cased := false
	for _, r := range s {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsUpper(r) {
			cased = true
		}
	}
	return cased
}
