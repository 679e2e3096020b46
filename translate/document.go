package translate

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
)

// ErrNoPaths wird zurueckgegeben wenn keine Dateien angegeben wurden
var ErrNoPaths = errors.New("no paths given")

// Translator uebersetzt einen Textabschnitt
type Translator interface {
	Translate(ctx context.Context, text string) (string, error)
}

// TranslatorFunc erlaubt gewoehnliche Funktionen als Translator
type TranslatorFunc func(ctx context.Context, text string) (string, error)

// Translate implementiert Translator
func (f TranslatorFunc) Translate(ctx context.Context, text string) (string, error) {
	return f(ctx, text)
}

// Document uebersetzt Markdown-artige Texte.
// Code-Bloecke werden nur normalisiert, Tabellen zellenweise und
// Fliesstext absatzweise uebersetzt.
type Document struct {
	terms      *Terms
	translator Translator
}

// NewDocument erstellt ein Document. terms == nil bedeutet DefaultTerms.
func NewDocument(tr Translator, terms *Terms) *Document {
	if terms == nil {
		terms = DefaultTerms()
	}
	return &Document{terms: terms, translator: tr}
}

// Translate uebersetzt text und gibt das Ergebnis mit abschliessendem
// Zeilenumbruch zurueck
func (d *Document) Translate(ctx context.Context, text string) (string, error) {
	var out, buffer []string
	inCode := false

	flush := func() error {
		if len(buffer) == 0 {
			return nil
		}
		lines, err := d.translateProse(ctx, strings.Join(buffer, "\n"))
		if err != nil {
			return err
		}
		out = append(out, lines...)
		buffer = buffer[:0]
		return nil
	}

	for _, line := range splitLines(text) {
		trimmed := strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(trimmed, "```"):
			if err := flush(); err != nil {
				return "", err
			}
			inCode = !inCode
			out = append(out, line)
		case inCode:
			out = append(out, d.terms.Code(line))
		case strings.HasPrefix(trimmed, "|"):
			if err := flush(); err != nil {
				return "", err
			}
			row, err := d.TranslateTableLine(ctx, line)
			if err != nil {
				return "", err
			}
			out = append(out, row)
		default:
			buffer = append(buffer, line)
		}
	}

	if err := flush(); err != nil {
		return "", err
	}

	return strings.Join(out, "\n") + "\n", nil
}

// translateProse uebersetzt jeden nicht-leeren Absatz einzeln
func (d *Document) translateProse(ctx context.Context, chunk string) ([]string, error) {
	if strings.TrimSpace(chunk) == "" {
		return strings.Split(chunk, "\n"), nil
	}

	parts := strings.Split(chunk, "\n\n")
	for i, part := range parts {
		if strings.TrimSpace(part) == "" {
			parts[i] = ""
			continue
		}

		translated, err := d.TranslateChunk(ctx, part)
		if err != nil {
			return nil, err
		}
		parts[i] = translated
	}

	return strings.Split(strings.Join(parts, "\n\n"), "\n"), nil
}

// TranslateChunk normalisiert, schuetzt, uebersetzt und bereinigt einen Abschnitt
func (d *Document) TranslateChunk(ctx context.Context, chunk string) (string, error) {
	chunk = d.terms.Replace(chunk)
	chunk, placeholders := d.terms.Protect(chunk)

	translated, err := d.translator.Translate(ctx, chunk)
	if err != nil {
		return "", err
	}

	translated = Restore(translated, placeholders)
	return d.terms.Cleanup(translated), nil
}

// TranslateTableLine uebersetzt die Zellen einer Tabellenzeile.
// Trennzeilen und Trennzellen bleiben unveraendert.
func (d *Document) TranslateTableLine(ctx context.Context, line string) (string, error) {
	trimmed := strings.TrimSpace(line)
	if isDelimiter(strings.ReplaceAll(trimmed, "|", "")) {
		return trimmed, nil
	}

	cells := strings.Split(strings.Trim(trimmed, "|"), "|")
	for i, cell := range cells {
		cell = strings.TrimSpace(cell)
		if cell != "" && !isDelimiter(cell) {
			translated, err := d.TranslateChunk(ctx, cell)
			if err != nil {
				return "", err
			}
			cell = translated
		}
		cells[i] = cell
	}

	return "| " + strings.Join(cells, " | ") + " |", nil
}

// TranslateFile uebersetzt die Datei path und gibt den neuen Inhalt zurueck
func (d *Document) TranslateFile(ctx context.Context, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}

	return d.Translate(ctx, string(data))
}

// PathsOptions steuert TranslatePaths
type PathsOptions struct {
	DryRun bool      // Ergebnis nach Stdout statt in die Datei
	Stdout io.Writer // Fortschritt und Dry-Run-Ausgabe
	Stderr io.Writer // uebersprungene Dateien
}

// TranslatePaths uebersetzt alle Dateien in paths und ueberschreibt sie.
// Fehlende Dateien werden auf Stderr gemeldet und uebersprungen.
func (d *Document) TranslatePaths(ctx context.Context, paths []string, opts PathsOptions) error {
	if len(paths) == 0 {
		return ErrNoPaths
	}
	if opts.Stdout == nil {
		opts.Stdout = io.Discard
	}
	if opts.Stderr == nil {
		opts.Stderr = io.Discard
	}

	for _, path := range paths {
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			fmt.Fprintf(opts.Stderr, "skipping %s: does not exist\n", path)
			continue
		}

		fmt.Fprintf(opts.Stdout, "translating %s\n", path)
		out, err := d.TranslateFile(ctx, path)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}

		if opts.DryRun {
			fmt.Fprint(opts.Stdout, out)
			continue
		}

		info, err := os.Stat(path)
		if err != nil {
			return err
		}
		if err := os.WriteFile(path, []byte(out), info.Mode().Perm()); err != nil {
			return err
		}
	}

	return nil
}

// isDelimiter meldet ob s nur aus '-', ':' und Leerraum besteht
func isDelimiter(s string) bool {
	return strings.Trim(s, "-: \t") == ""
}

// splitLines zerlegt text in Zeilen ohne Zeilenende.
// Ein abschliessender Zeilenumbruch erzeugt keine leere letzte Zeile.
func splitLines(text string) []string {
	if text == "" {
		return nil
	}

	lines := strings.Split(strings.TrimSuffix(text, "\n"), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}
