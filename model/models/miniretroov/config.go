package miniretroov

import (
	"fmt"
	"strings"

	"github.com/Retro788/Euclidian-VisionModel/model"
	"github.com/Retro788/Euclidian-VisionModel/transformer"
)

// ============================================================================
// Familie und Modellnamen
// ============================================================================
//
// Dieses Modul enthaelt:
// - Family: Name der Modell-Familie
// - Arch-Registrierungen fuer die bekannten Modellnamen
// - VisionPatch/AdapterPatch: Felder, die auf die Basis-Konfiguration gelegt werden

// Family ist die Modell-Familie dieses Pakets
const Family = "mini-retro-ov-1.5"

// Token-IDs fuer Bild- und Video-Platzhalter im Sprachmodell
const (
	ImageTokenID = 151655
	VideoTokenID = 151656
)

func init() {
	model.RegisterArch(model.Arch{
		Name:   Family + "-3b",
		Family: Family,
		Language: transformer.Args{
			NumLayers:         36,
			HiddenSize:        2048,
			FFNHiddenSize:     11008,
			NumAttentionHeads: 16,
			NumQueryGroups:    2,
			KVChannels:        128,
			Normalization:     transformer.RMSNorm,
			NormEpsilon:       1e-6,
			SwiGLU:            true,
			AddQKVBias:        true,
		},
		VocabSize:             151936,
		MaxPositionEmbeddings: 32768,
		PositionEmbeddingType: "rope",
		RotaryBase:            1000000,
	})

	model.RegisterArch(model.Arch{
		Name:   Family + "-8b",
		Family: Family,
		Language: transformer.Args{
			NumLayers:         36,
			HiddenSize:        4096,
			FFNHiddenSize:     12288,
			NumAttentionHeads: 32,
			NumQueryGroups:    8,
			KVChannels:        128,
			Normalization:     transformer.RMSNorm,
			NormEpsilon:       1e-6,
			SwiGLU:            true,
		},
		VocabSize:                       151936,
		MaxPositionEmbeddings:           40960,
		PositionEmbeddingType:           "rope",
		RotaryBase:                      1000000,
		UntieEmbeddingsAndOutputWeights: true,
	})
}

// visionPatch enthaelt die Groessen des Vision-Encoders.
// Alle Modellnamen der Familie teilen sich denselben ViT.
var visionPatch = transformer.Patch{
	NumLayers:         transformer.Ptr(24),
	HiddenSize:        transformer.Ptr(1024),
	FFNHiddenSize:     transformer.Ptr(4096),
	NumAttentionHeads: transformer.Ptr(16),
	NumQueryGroups:    transformer.Ptr(16),
	KVChannels:        transformer.Ptr(64),
	Normalization:     transformer.Ptr(transformer.LayerNorm),
	NormEpsilon:       transformer.Ptr(1e-5),
	ActivationFunc:    transformer.Ptr("gelu"),
	GatedLinearUnit:   transformer.Ptr(false),
	AddBiasLinear:     transformer.Ptr(true),
	AddQKVBias:        transformer.Ptr(true),
	HiddenDropout:     transformer.Ptr(0.0),
	AttentionDropout:  transformer.Ptr(0.0),
	PatchSize:         transformer.Ptr(14),
	TemporalPatchSize: transformer.Ptr(2),
	SpatialMergeSize:  transformer.Ptr(2),
	InChannels:        transformer.Ptr(3),
}

// VisionPatch gibt den Vision-Overlay fuer (family, modelName) zurueck
func VisionPatch(family, modelName string) (transformer.Patch, error) {
	if family != Family {
		return transformer.Patch{}, fmt.Errorf("%w: vision config for family %q", model.ErrUnsupportedModel, family)
	}
	if !strings.HasPrefix(strings.ToLower(modelName), Family) {
		return transformer.Patch{}, fmt.Errorf("%w: vision config for %q", model.ErrUnsupportedModel, modelName)
	}

	return visionPatch, nil
}

// AdapterPatch gibt den Overlay fuer den Projektor zwischen Vision und Sprache zurueck.
// Der Projektor bildet spatial_merge_size^2 Vision-Tokens auf ein Sprach-Token ab.
func AdapterPatch(family string) (transformer.Patch, error) {
	if family != Family {
		return transformer.Patch{}, fmt.Errorf("%w: adapter config for family %q", model.ErrUnsupportedModel, family)
	}

	merge := *visionPatch.SpatialMergeSize
	hidden := *visionPatch.HiddenSize * merge * merge
	return transformer.Patch{
		NumLayers:       transformer.Ptr(1),
		FFNHiddenSize:   transformer.Ptr(hidden),
		Normalization:   transformer.Ptr(transformer.LayerNorm),
		NormEpsilon:     transformer.Ptr(1e-6),
		ActivationFunc:  transformer.Ptr("gelu"),
		GatedLinearUnit: transformer.Ptr(false),
		AddBiasLinear:   transformer.Ptr(true),
	}, nil
}
