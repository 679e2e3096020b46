// config_features.go - Einfache Environment-Variablen der Werkzeuge
//
// Dieses Modul enthaelt:
// - Uebersetzungs-Einstellungen (Sprachen, API-Key)
// - Rewriter-Einstellungen (Worker-Anzahl)
package envconfig

// =============================================================================
// Uebersetzung
// =============================================================================

var (
	// TranslateAPIKey wird als api_key an den Uebersetzungsdienst gesendet
	TranslateAPIKey = String("RETRO_TRANSLATE_API_KEY")

	// TranslateSource ist die Quellsprache ("auto" wenn leer)
	TranslateSource = String("RETRO_TRANSLATE_SOURCE")

	// TranslateTarget ist die Zielsprache ("es" wenn leer)
	TranslateTarget = String("RETRO_TRANSLATE_TARGET")

	// TranslateCacheSize setzt die Groesse des LRU-Caches fuer uebersetzte Abschnitte
	TranslateCacheSize = Uint("RETRO_TRANSLATE_CACHE_SIZE", 1024)
)

// =============================================================================
// Rewriter
// =============================================================================

var (
	// RewriteWorkers setzt die Anzahl paralleler Datei-Worker
	// 0 = GOMAXPROCS-1 (mindestens 1)
	RewriteWorkers = Uint("RETRO_REWRITE_WORKERS", 0)

	// RewriteDryRun meldet Aenderungen nur, ohne Dateien zu schreiben
	RewriteDryRun = Bool("RETRO_REWRITE_DRY_RUN")
)
