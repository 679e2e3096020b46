package miniretroov

import (
	"log/slog"

	"github.com/Retro788/Euclidian-VisionModel/model"
	"github.com/Retro788/Euclidian-VisionModel/transformer"
)

// Namen der Teilmodelle, wie sie in trainable_modules stehen
const (
	LanguageModule = "language_model"
	VisionModule   = "vision_model"
	AdapterModule  = "adapter"
)

// Hyper enthaelt die skalaren Hyper-Parameter des Sprachmodells.
// ParallelOutput steht in model.Stages.
type Hyper struct {
	VocabSize                       int
	MaxSequenceLength               int
	FP16LMCrossEntropy              bool
	ShareEmbeddingsAndOutputWeights bool
	PositionEmbeddingType           string
	RotaryPercent                   float64
	RotaryBase                      float64
	SeqLenInterpolationFactor       *float64
}

// Parts buendelt Konfiguration und Spec je Teilmodell
type Parts struct {
	LanguageConfig, VisionConfig, AdapterConfig *transformer.Config
	LanguageSpec, VisionSpec, AdapterSpec       *transformer.LayerSpec
}

// Model ist das zusammengesetzte Vision-Sprach-Modell.
// Vision und Adapter existieren nur mit AddEncoder, Language nur mit AddDecoder.
type Model struct {
	Language *model.Submodel
	Vision   *model.Submodel
	Adapter  *model.Submodel

	model.Stages
	Hyper
}

// New erstellt das Modell. Alle Teilmodelle sind zunaechst trainierbar.
func New(parts Parts, stages model.Stages, hyper Hyper) *Model {
	m := &Model{Stages: stages, Hyper: hyper}
	if stages.AddEncoder {
		m.Vision = &model.Submodel{Name: VisionModule, Config: parts.VisionConfig, Spec: parts.VisionSpec, Trainable: true}
		m.Adapter = &model.Submodel{Name: AdapterModule, Config: parts.AdapterConfig, Spec: parts.AdapterSpec, Trainable: true}
	}
	if stages.AddDecoder {
		m.Language = &model.Submodel{Name: LanguageModule, Config: parts.LanguageConfig, Spec: parts.LanguageSpec, Trainable: true}
	}
	return m
}

// Family implementiert model.Model
func (m *Model) Family() string {
	return Family
}

// Submodels implementiert model.Model
func (m *Model) Submodels() []*model.Submodel {
	var out []*model.Submodel
	for _, s := range []*model.Submodel{m.Vision, m.Adapter, m.Language} {
		if s != nil {
			out = append(out, s)
		}
	}
	return out
}

// Freeze markiert die angegebenen Teilmodelle als nicht trainierbar.
// Teilmodelle, die auf dieser Stage fehlen, werden uebersprungen.
func (m *Model) Freeze(freezeLanguage, freezeVision, freezeAdapter bool) {
	freeze := func(s *model.Submodel, f bool) {
		if s != nil && f {
			s.Trainable = false
			slog.Debug("froze submodel", "name", s.Name)
		}
	}

	freeze(m.Language, freezeLanguage)
	freeze(m.Vision, freezeVision)
	freeze(m.Adapter, freezeAdapter)
}
