// config_utils.go - Utility-Funktionen und Export fuer Konfiguration
//
// Dieses Modul enthaelt:
// - BoolWithDefault/Bool: Boolean-Getter mit Default-Wert
// - String: String-Getter
// - Uint: Integer-Getter mit Default-Wert
// - EnvVar: Struktur fuer Environment-Variablen-Info
// - AsMap: Gibt alle Konfigurationen als Map zurueck
// - Values: Gibt alle Konfigurationswerte als String-Map zurueck
package envconfig

import (
	"fmt"
	"log/slog"
	"strconv"
)

// =============================================================================
// Boolean-Getter
// =============================================================================

// BoolWithDefault gibt eine Funktion zurueck, die einen Bool mit Default-Wert liest
func BoolWithDefault(k string) func(defaultValue bool) bool {
	return func(defaultValue bool) bool {
		if s := Var(k); s != "" {
			b, err := strconv.ParseBool(s)
			if err != nil {
				return true
			}
			return b
		}
		return defaultValue
	}
}

// Bool gibt eine Funktion zurueck, die einen Bool liest (Default: false)
func Bool(k string) func() bool {
	withDefault := BoolWithDefault(k)
	return func() bool {
		return withDefault(false)
	}
}

// =============================================================================
// String-Getter
// =============================================================================

// String gibt eine Funktion zurueck, die einen String liest
func String(s string) func() string {
	return func() string {
		return Var(s)
	}
}

// =============================================================================
// Integer-Getter
// =============================================================================

// Uint gibt eine Funktion zurueck, die einen uint mit Default-Wert liest
func Uint(key string, defaultValue uint) func() uint {
	return func() uint {
		if s := Var(key); s != "" {
			if n, err := strconv.ParseUint(s, 10, 64); err != nil {
				slog.Warn("invalid environment variable, using default", "key", key, "value", s, "default", defaultValue)
			} else {
				return uint(n)
			}
		}
		return defaultValue
	}
}

// =============================================================================
// Export-Strukturen und -Funktionen
// =============================================================================

// EnvVar repraesentiert eine Environment-Variable mit Metadaten
type EnvVar struct {
	Name        string
	Value       any
	Description string
}

// AsMap gibt alle Konfigurationen als Map zurueck
// Enthaelt Namen, aktuelle Werte und Beschreibungen
func AsMap() map[string]EnvVar {
	translateURL := ""
	if u := TranslateURL(); u != nil {
		translateURL = u.String()
	}

	return map[string]EnvVar{
		"RETRO_DEBUG":                {"RETRO_DEBUG", LogLevel(), "Show additional debug information (e.g. RETRO_DEBUG=1)"},
		"RETRO_REWRITE_ROOT":         {"RETRO_REWRITE_ROOT", RewriteRoot(), "Root directory scanned by the token rewriter (default: working directory)"},
		"RETRO_REWRITE_WORKERS":      {"RETRO_REWRITE_WORKERS", RewriteWorkers(), "Number of files rewritten in parallel (default: GOMAXPROCS-1)"},
		"RETRO_REWRITE_DRY_RUN":      {"RETRO_REWRITE_DRY_RUN", RewriteDryRun(), "Report changed files without writing them"},
		"RETRO_TRANSLATE_URL":        {"RETRO_TRANSLATE_URL", translateURL, "Base URL of a LibreTranslate compatible translation service"},
		"RETRO_TRANSLATE_API_KEY":    {"RETRO_TRANSLATE_API_KEY", TranslateAPIKey() != "", "API key sent to the translation service"},
		"RETRO_TRANSLATE_SOURCE":     {"RETRO_TRANSLATE_SOURCE", TranslateSource(), "Source language (default \"auto\")"},
		"RETRO_TRANSLATE_TARGET":     {"RETRO_TRANSLATE_TARGET", TranslateTarget(), "Target language (default \"es\")"},
		"RETRO_TRANSLATE_TIMEOUT":    {"RETRO_TRANSLATE_TIMEOUT", TranslateTimeout(), "Timeout of a single translation request (default \"30s\")"},
		"RETRO_TRANSLATE_RPS":        {"RETRO_TRANSLATE_RPS", TranslateRPS(), "Maximum translation requests per second, 0 for unlimited (default 5)"},
		"RETRO_TRANSLATE_CACHE_SIZE": {"RETRO_TRANSLATE_CACHE_SIZE", TranslateCacheSize(), "Number of translated chunks kept in memory (default 1024)"},
	}
}

// Values gibt alle Konfigurationswerte als String-Map zurueck
func Values() map[string]string {
	vals := make(map[string]string)
	for k, v := range AsMap() {
		vals[k] = fmt.Sprintf("%v", v.Value)
	}
	return vals
}
