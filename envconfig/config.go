// config.go - Haupt-Konfigurationsfunktionen fuer die retro-Werkzeuge
//
// Dieses Modul enthaelt:
// - TranslateURL/ParseURL: Basis-URL des Uebersetzungsdienstes (RETRO_TRANSLATE_URL)
// - TranslateTimeout: Timeout pro Uebersetzungs-Request (RETRO_TRANSLATE_TIMEOUT)
// - TranslateRPS: Client-seitiges Request-Limit (RETRO_TRANSLATE_RPS)
// - RewriteRoot: Wurzelverzeichnis fuer den Token-Rewriter (RETRO_REWRITE_ROOT)
// - LogLevel: Gibt Log-Level zurueck (RETRO_DEBUG)
//
// Weitere Konfigurationen sind ausgelagert:
// - config_features.go: einfache String/Bool/Uint-Variablen
// - config_utils.go: Utility-Funktionen und AsMap/Values
package envconfig

import (
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// TranslateURL gibt die Basis-URL des Uebersetzungsdienstes zurueck
// Konfigurierbar via RETRO_TRANSLATE_URL
// Leerer oder ungueltiger Wert = kein Dienst konfiguriert (nil)
func TranslateURL() *url.URL {
	s := Var("RETRO_TRANSLATE_URL")
	if s == "" {
		return nil
	}

	u, err := ParseURL(s)
	if err != nil {
		slog.Warn("invalid translation service url, ignoring", "url", s, "error", err)
		return nil
	}

	return u
}

// ParseURL parst eine Dienst-URL. Ohne Scheme wird https angenommen,
// ein abschliessender Slash im Pfad wird entfernt.
func ParseURL(s string) (*url.URL, error) {
	s = strings.TrimSpace(s)
	if !strings.Contains(s, "://") {
		s = "https://" + s
	}

	u, err := url.Parse(s)
	if err != nil {
		return nil, err
	}
	if u.Host == "" {
		return nil, fmt.Errorf("missing host in %q", s)
	}

	u.Path = strings.TrimSuffix(u.Path, "/")
	return u, nil
}

// TranslateTimeout gibt das Timeout fuer einen einzelnen Uebersetzungs-Request zurueck
// Konfigurierbar via RETRO_TRANSLATE_TIMEOUT (Dauer oder Sekunden)
// 0 oder negative Werte = Default
// Default: 30 Sekunden
func TranslateTimeout() (timeout time.Duration) {
	timeout = 30 * time.Second
	if s := Var("RETRO_TRANSLATE_TIMEOUT"); s != "" {
		if d, err := time.ParseDuration(s); err == nil && d > 0 {
			timeout = d
		} else if n, err := strconv.ParseInt(s, 10, 64); err == nil && n > 0 {
			timeout = time.Duration(n) * time.Second
		} else {
			slog.Warn("invalid environment variable, using default", "key", "RETRO_TRANSLATE_TIMEOUT", "value", s, "default", timeout)
		}
	}

	return timeout
}

// TranslateRPS gibt die maximale Anzahl Uebersetzungs-Requests pro Sekunde zurueck
// Konfigurierbar via RETRO_TRANSLATE_RPS
// 0 = unbegrenzt
// Default: 5
func TranslateRPS() float64 {
	rps := 5.0
	if s := Var("RETRO_TRANSLATE_RPS"); s != "" {
		if f, err := strconv.ParseFloat(s, 64); err == nil && f >= 0 {
			rps = f
		} else {
			slog.Warn("invalid environment variable, using default", "key", "RETRO_TRANSLATE_RPS", "value", s, "default", rps)
		}
	}

	return rps
}

// RewriteRoot gibt das Wurzelverzeichnis fuer den Token-Rewriter zurueck
// Konfigurierbar via RETRO_REWRITE_ROOT
// Default: aktuelles Arbeitsverzeichnis
func RewriteRoot() string {
	if s := Var("RETRO_REWRITE_ROOT"); s != "" {
		return s
	}

	wd, err := os.Getwd()
	if err != nil {
		return "."
	}

	return wd
}

// LogLevel gibt das Log-Level zurueck
// Konfigurierbar via RETRO_DEBUG
// Werte: 0/false = INFO (Default), 1/true = DEBUG, 2 = TRACE
func LogLevel() slog.Level {
	level := slog.LevelInfo
	if s := Var("RETRO_DEBUG"); s != "" {
		if b, _ := strconv.ParseBool(s); b {
			level = slog.LevelDebug
		} else if i, _ := strconv.ParseInt(s, 10, 64); i != 0 {
			level = slog.Level(i * -4)
		}
	}

	return level
}

// Var gibt eine Environment-Variable zurueck
// Entfernt fuehrende/trailing Quotes und Leerzeichen
func Var(key string) string {
	return strings.Trim(strings.TrimSpace(os.Getenv(key)), "\"'")
}
