// registry.go - Modellname -> Familie/Arch Registry
//
// MODUL: registry
// ZWECK: Verwaltet bekannte Modellnamen, ihre Familie und Sprachmodell-Groessen
// INPUT: Arch-Beschreibungen (via init() der Familien-Pakete)
// OUTPUT: Familie, Arch-Konfiguration, Listen unterstuetzter Modelle
// NEBENEFFEKTE: RegisterArch aendert die globale Registry
// ABHAENGIGKEITEN: levenshtein (Namensvorschlaege)
package model

import (
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/agnivade/levenshtein"

	"github.com/Retro788/Euclidian-VisionModel/transformer"
)

// Arch beschreibt einen konkreten Modellnamen einer Familie
type Arch struct {
	Name   string
	Family string

	// Language enthaelt die Groessen des Sprachmodells
	Language transformer.Args

	VocabSize                       int
	MaxPositionEmbeddings           int
	PositionEmbeddingType           string
	RotaryBase                      float64
	UntieEmbeddingsAndOutputWeights bool
}

// RegistryError repraesentiert einen Registry-spezifischen Fehler
type RegistryError struct {
	Op         string // Operation (z.B. "family", "provider")
	Name       string // Modell- oder Familienname
	Suggestion string // naechster bekannter Name, falls vorhanden
	Err        error
}

// Error implementiert das error Interface
func (e *RegistryError) Error() string {
	msg := "model: " + e.Op + " '" + e.Name + "': " + e.Err.Error()
	if e.Suggestion != "" {
		msg += fmt.Sprintf(" (did you mean %q?)", e.Suggestion)
	}
	return msg
}

// Unwrap gibt den urspruenglichen Fehler zurueck
func (e *RegistryError) Unwrap() error {
	return e.Err
}

var (
	archsMu sync.RWMutex
	archs   = make(map[string]Arch)
)

// RegisterArch registriert einen Modellnamen.
// Namen werden case-insensitiv behandelt.
func RegisterArch(arch Arch) {
	archsMu.Lock()
	defer archsMu.Unlock()

	key := strings.ToLower(arch.Name)
	if _, ok := archs[key]; ok {
		panic("model: arch already registered: " + arch.Name)
	}
	archs[key] = arch
}

// Family gibt die Familie eines Modellnamens zurueck
func Family(name string) (string, error) {
	arch, err := ArchConfig(name)
	if err != nil {
		return "", err
	}
	return arch.Family, nil
}

// ArchConfig gibt die registrierte Arch eines Modellnamens zurueck
func ArchConfig(name string) (Arch, error) {
	archsMu.RLock()
	arch, ok := archs[strings.ToLower(name)]
	archsMu.RUnlock()

	if !ok {
		return Arch{}, &RegistryError{
			Op:         "family",
			Name:       name,
			Suggestion: closest(name, SupportedArchs()),
			Err:        ErrUnsupportedModel,
		}
	}
	return arch, nil
}

// SupportedArchs gibt alle registrierten Modellnamen sortiert zurueck
func SupportedArchs() []string {
	archsMu.RLock()
	defer archsMu.RUnlock()

	names := make([]string, 0, len(archs))
	for _, arch := range archs {
		names = append(names, arch.Name)
	}
	slices.Sort(names)
	return names
}

// SupportedFamiliesAndArchs gruppiert die Modellnamen nach Familie
func SupportedFamiliesAndArchs() map[string][]string {
	archsMu.RLock()
	defer archsMu.RUnlock()

	out := make(map[string][]string)
	for _, arch := range archs {
		out[arch.Family] = append(out[arch.Family], arch.Name)
	}
	for _, names := range out {
		slices.Sort(names)
	}
	return out
}

// closest gibt den Kandidaten mit der kleinsten Edit-Distanz zurueck.
// Leer wenn nichts halbwegs aehnlich ist.
func closest(name string, candidates []string) string {
	best, score := "", -1
	for _, c := range candidates {
		d := levenshtein.ComputeDistance(strings.ToLower(name), strings.ToLower(c))
		if score < 0 || d < score {
			best, score = c, d
		}
	}

	if score < 0 || score > max(len(name)/2, 3) {
		return ""
	}
	return best
}
