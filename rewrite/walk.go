// MODUL: walk
// ZWECK: Wendet Rules parallel auf alle Code-Dateien unterhalb eines Verzeichnisses an
// INPUT: Wurzelverzeichnis, Rules, Optionen (Dry-Run, Worker, Ausschluesse, Endungen)
// OUTPUT: Result mit Zaehlern und geaenderten Dateien
// NEBENEFFEKTE: Ueberschreibt geaenderte Dateien (ausser im Dry-Run)
// ABHAENGIGKEITEN: errgroup (begrenzte Parallelitaet)
// HINWEISE: Dateien, die kein gueltiges UTF-8 sind, werden still uebersprungen

package rewrite

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"sync"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"

	"github.com/Retro788/Euclidian-VisionModel/logutil"
)

// DefaultExtensions sind die Endungen der bearbeiteten Dateien
var DefaultExtensions = []string{".py", ".sh", ".yaml", ".yml", ".json", ".toml", ".ini", ".cfg"}

// DefaultExclude sind Verzeichnisse, die nie betreten werden
var DefaultExclude = []string{".git"}

// ============================================================================
// Optionen
// ============================================================================

// Option konfiguriert einen Walker
type Option func(*Walker)

// WithDryRun meldet Aenderungen nur, ohne zu schreiben
func WithDryRun(dryRun bool) Option {
	return func(w *Walker) {
		w.dryRun = dryRun
	}
}

// WithWorkers setzt die Anzahl paralleler Dateien.
// n <= 0 bedeutet GOMAXPROCS-1 (mindestens 1).
func WithWorkers(n int) Option {
	return func(w *Walker) {
		w.workers = n
	}
}

// WithExclude fuegt Verzeichnisnamen hinzu, die uebersprungen werden
func WithExclude(dirs ...string) Option {
	return func(w *Walker) {
		w.exclude = append(w.exclude, dirs...)
	}
}

// WithExtensions ersetzt die Liste der bearbeiteten Endungen
func WithExtensions(exts ...string) Option {
	return func(w *Walker) {
		w.extensions = w.extensions[:0]
		for _, ext := range exts {
			w.extensions = append(w.extensions, strings.ToLower(ext))
		}
	}
}

// ============================================================================
// Walker
// ============================================================================

// Walker durchlaeuft ein Verzeichnis und wendet Rules auf passende Dateien an
type Walker struct {
	rules      *Rules
	dryRun     bool
	workers    int
	exclude    []string
	extensions []string
}

// Result fasst einen Durchlauf zusammen
type Result struct {
	Visited int      // passende Dateien
	Changed []string // geaenderte (bzw. im Dry-Run zu aendernde) Dateien, sortiert
	Skipped int      // kein gueltiges UTF-8
}

// NewWalker erstellt einen Walker fuer rules
func NewWalker(rules *Rules, opts ...Option) *Walker {
	w := &Walker{
		rules:      rules,
		exclude:    slices.Clone(DefaultExclude),
		extensions: slices.Clone(DefaultExtensions),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run bearbeitet alle passenden Dateien unterhalb von root.
// Ein Fehler bricht den Durchlauf ab; bereits geschriebene Dateien bleiben geschrieben.
func (w *Walker) Run(ctx context.Context, root string) (Result, error) {
	files, err := w.collect(root)
	if err != nil {
		return Result{}, err
	}

	workers := w.workers
	if workers <= 0 {
		workers = max(runtime.GOMAXPROCS(0)-1, 1)
	}

	var mu sync.Mutex
	result := Result{Visited: len(files)}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for _, path := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			changed, skipped, err := w.rewriteFile(path)
			if err != nil {
				return err
			}

			mu.Lock()
			defer mu.Unlock()
			if skipped {
				result.Skipped++
			}
			if changed {
				result.Changed = append(result.Changed, path)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return Result{}, err
	}

	slices.Sort(result.Changed)
	return result, nil
}

// collect sammelt alle regulaeren Dateien mit passender Endung
func (w *Walker) collect(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			if path != root && slices.Contains(w.exclude, d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}

		if d.Type().IsRegular() && slices.Contains(w.extensions, strings.ToLower(filepath.Ext(path))) {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}

// rewriteFile wendet die Regeln auf eine Datei an
func (w *Walker) rewriteFile(path string) (changed, skipped bool, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return false, false, err
	}

	if !utf8.Valid(data) {
		logutil.Trace("skipping non utf-8 file", "path", path)
		return false, true, nil
	}

	text := string(data)
	out := w.rules.Apply(text)
	if out == text {
		return false, false, nil
	}

	if w.dryRun {
		slog.Info("would rewrite", "path", path)
		return true, false, nil
	}

	info, err := os.Stat(path)
	if err != nil {
		return false, false, err
	}

	if err := os.WriteFile(path, []byte(out), info.Mode().Perm()); err != nil {
		return false, false, err
	}

	slog.Debug("rewrote", "path", path)
	return true, false, nil
}
