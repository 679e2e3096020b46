// Package model - Provider-Registry und Modell-Aufbau
//
// Dieses Paket verbindet Modellnamen mit Modell-Familien und deren
// Providern und baut daraus zusammengesetzte Modelle.
//
// Hauptkomponenten:
// - Model: Interface fuer zusammengesetzte Modelle
// - Provider: baut ein Modell aus Args, Topologie und Stages
// - Register: registriert einen Provider fuer eine Familie
// - New: loest den Provider fuer args.ModelName auf und ruft ihn auf

package model

import (
	"errors"
	"fmt"
	"sync"

	"github.com/Retro788/Euclidian-VisionModel/transformer"
)

// Fehler-Definitionen
var (
	ErrUnsupportedModel       = errors.New("model not supported")
	ErrLegacyModel            = errors.New("classic models are not supported")
	ErrEncoderPipelineSize    = errors.New("vision model and projection can only live on 1 pipeline stage")
	ErrUnknownTrainableModule = errors.New("unknown trainable module")
	ErrUnknownSpec            = transformer.ErrUnknownSpec
)

// Model ist ein zusammengesetztes Modell aus mehreren Teilmodellen
type Model interface {
	// Family gibt die Modell-Familie zurueck
	Family() string
	// Submodels gibt die auf dieser Pipeline-Stage berechneten Teilmodelle zurueck
	Submodels() []*Submodel
}

// Submodel beschreibt ein Teilmodell (Sprache, Vision, Adapter)
type Submodel struct {
	Name      string
	Config    *transformer.Config
	Spec      *transformer.LayerSpec
	Trainable bool
}

// Stages beschreibt welche Architektur-Teile dieser Prozess berechnet
type Stages struct {
	PreProcess     bool // Embeddings
	PostProcess    bool // Output-Logits/Loss
	AddEncoder     bool
	AddDecoder     bool
	ParallelOutput bool
}

// DefaultStages berechnet alles (ein Prozess, keine Pipeline)
func DefaultStages() Stages {
	return Stages{
		PreProcess:     true,
		PostProcess:    true,
		AddEncoder:     true,
		AddDecoder:     true,
		ParallelOutput: true,
	}
}

// Provider baut das Modell einer Familie
type Provider func(args *Args, topo Topology, stages Stages) (Model, error)

var (
	providersMu sync.RWMutex
	providers   = make(map[string]Provider)
)

// Register registriert einen Provider fuer eine Modell-Familie
func Register(family string, p Provider) {
	providersMu.Lock()
	defer providersMu.Unlock()

	if _, ok := providers[family]; ok {
		panic("model: provider already registered: " + family)
	}

	providers[family] = p
}

// ProviderFor gibt den Provider fuer einen Modellnamen zurueck
func ProviderFor(name string) (Provider, error) {
	family, err := Family(name)
	if err != nil {
		return nil, err
	}

	providersMu.RLock()
	p, ok := providers[family]
	providersMu.RUnlock()

	if !ok {
		return nil, &RegistryError{Op: "provider", Name: family, Err: ErrUnsupportedModel}
	}
	return p, nil
}

// New baut das Modell fuer args.ModelName.
// Args werden vorher mit der Arch-Konfiguration des Modellnamens ergaenzt.
func New(args *Args, topo Topology, stages Stages) (Model, error) {
	if args == nil {
		return nil, fmt.Errorf("%w: no arguments", ErrUnsupportedModel)
	}

	p, err := ProviderFor(args.ModelName)
	if err != nil {
		return nil, err
	}

	full, err := args.WithArch()
	if err != nil {
		return nil, err
	}

	if topo == nil {
		topo = SingleStage()
	}

	return p(full, topo, stages)
}
