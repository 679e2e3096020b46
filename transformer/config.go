// Package transformer - Basis-Konfiguration fuer Transformer-Bausteine.
//
// MODUL: config
// ZWECK: Veraenderbarer Konfigurations-Record fuer Sprach-, Vision- und Adapter-Teilmodelle
// INPUT: Args (bereits geparste Prozess-Argumente)
// OUTPUT: *Config, tiefe Kopien via Clone
// NEBENEFFEKTE: Keine
// ABHAENGIGKEITEN: keine
// HINWEISE: Drei unabhaengige Kopien werden via Clone + Patch.Apply abgeleitet
package transformer

import (
	"errors"
	"fmt"
)

// Fehler-Definitionen
var (
	ErrInvalidConfig = errors.New("transformer: invalid config")
	ErrUnknownSpec   = errors.New("transformer: unknown layer spec")
)

// Normalisierungs-Typen
const (
	LayerNorm = "LayerNorm"
	RMSNorm   = "RMSNorm"
)

// ============================================================================
// Args - Eingaben fuer BuildConfig
// ============================================================================

// Args enthaelt die Argumente, aus denen die Basis-Konfiguration gebaut wird.
// Wird von model.Args eingebettet (yaml inline).
type Args struct {
	NumLayers         int     `yaml:"num_layers"`
	HiddenSize        int     `yaml:"hidden_size"`
	FFNHiddenSize     int     `yaml:"ffn_hidden_size"`
	NumAttentionHeads int     `yaml:"num_attention_heads"`
	NumQueryGroups    int     `yaml:"num_query_groups"`
	KVChannels        int     `yaml:"kv_channels"`
	Normalization     string  `yaml:"normalization"`
	NormEpsilon       float64 `yaml:"norm_epsilon"`
	SwiGLU            bool    `yaml:"swiglu"`
	AddBiasLinear     bool    `yaml:"add_bias_linear"`
	AddQKVBias        bool    `yaml:"add_qkv_bias"`
	HiddenDropout     float64 `yaml:"hidden_dropout"`
	AttentionDropout  float64 `yaml:"attention_dropout"`

	TensorModelParallelSize      int  `yaml:"tensor_model_parallel_size"`
	PipelineModelParallelSize    int  `yaml:"pipeline_model_parallel_size"`
	ContextParallelSize          int  `yaml:"context_parallel_size"`
	ContextParallelUlyssesDegree int  `yaml:"context_parallel_ulysses_degree"`
	SequenceParallel             bool `yaml:"sequence_parallel"`
	TPCommOverlap                bool `yaml:"tp_comm_overlap"`
	FirstPipelineNumLayers       *int `yaml:"decoder_first_pipeline_num_layers"`
	LastPipelineNumLayers        *int `yaml:"decoder_last_pipeline_num_layers"`

	FP16 bool `yaml:"fp16"`
	BF16 bool `yaml:"bf16"`
}

// ============================================================================
// Config - Transformer-Konfiguration
// ============================================================================

// Config ist die Konfiguration eines Transformer-Teilmodells.
// Vision-spezifische Felder bleiben im Sprachmodell auf 0.
type Config struct {
	NumLayers         int
	HiddenSize        int
	FFNHiddenSize     int
	NumAttentionHeads int
	NumQueryGroups    int
	KVChannels        int
	Normalization     string
	NormEpsilon       float64
	ActivationFunc    string
	GatedLinearUnit   bool
	AddBiasLinear     bool
	AddQKVBias        bool
	HiddenDropout     float64
	AttentionDropout  float64

	// Parallelitaet
	TensorModelParallelSize      int
	PipelineModelParallelSize    int
	ContextParallelSize          int
	ContextParallelUlyssesDegree int
	SequenceParallel             bool
	TPCommOverlap                bool
	FirstPipelineNumLayers       *int
	LastPipelineNumLayers        *int

	// Vision
	PatchSize         int
	TemporalPatchSize int
	SpatialMergeSize  int
	InChannels        int
	ImageTokenID      int
	VideoTokenID      int

	// Praezision
	FP16 bool
	BF16 bool
}

// BuildConfig baut die Basis-Konfiguration aus den Argumenten.
// Nicht gesetzte Parallelitaetsgrade werden auf 1 normalisiert.
func BuildConfig(args Args) (*Config, error) {
	if args.NumLayers <= 0 || args.HiddenSize <= 0 || args.NumAttentionHeads <= 0 {
		return nil, fmt.Errorf("%w: num_layers, hidden_size and num_attention_heads must be positive", ErrInvalidConfig)
	}
	if args.HiddenSize%args.NumAttentionHeads != 0 {
		return nil, fmt.Errorf("%w: hidden_size %d not divisible by num_attention_heads %d", ErrInvalidConfig, args.HiddenSize, args.NumAttentionHeads)
	}
	if args.FP16 && args.BF16 {
		return nil, fmt.Errorf("%w: fp16 and bf16 are mutually exclusive", ErrInvalidConfig)
	}

	cfg := &Config{
		NumLayers:         args.NumLayers,
		HiddenSize:        args.HiddenSize,
		FFNHiddenSize:     args.FFNHiddenSize,
		NumAttentionHeads: args.NumAttentionHeads,
		NumQueryGroups:    args.NumQueryGroups,
		KVChannels:        args.KVChannels,
		Normalization:     args.Normalization,
		NormEpsilon:       args.NormEpsilon,
		ActivationFunc:    "gelu",
		GatedLinearUnit:   args.SwiGLU,
		AddBiasLinear:     args.AddBiasLinear,
		AddQKVBias:        args.AddQKVBias,
		HiddenDropout:     args.HiddenDropout,
		AttentionDropout:  args.AttentionDropout,

		TensorModelParallelSize:      max(args.TensorModelParallelSize, 1),
		PipelineModelParallelSize:    max(args.PipelineModelParallelSize, 1),
		ContextParallelSize:          max(args.ContextParallelSize, 1),
		ContextParallelUlyssesDegree: max(args.ContextParallelUlyssesDegree, 1),
		SequenceParallel:             args.SequenceParallel,
		TPCommOverlap:                args.TPCommOverlap,
		FirstPipelineNumLayers:       clonePtr(args.FirstPipelineNumLayers),
		LastPipelineNumLayers:        clonePtr(args.LastPipelineNumLayers),

		FP16: args.FP16,
		BF16: args.BF16,
	}

	if args.SwiGLU {
		cfg.ActivationFunc = "silu"
	}
	if cfg.FFNHiddenSize == 0 {
		cfg.FFNHiddenSize = 4 * cfg.HiddenSize
	}
	if cfg.NumQueryGroups == 0 {
		cfg.NumQueryGroups = cfg.NumAttentionHeads
	}
	if cfg.KVChannels == 0 {
		cfg.KVChannels = cfg.HiddenSize / cfg.NumAttentionHeads
	}
	if cfg.Normalization == "" {
		cfg.Normalization = LayerNorm
	}
	if cfg.NormEpsilon == 0 {
		cfg.NormEpsilon = 1e-5
	}

	return cfg, nil
}

// Clone gibt eine tiefe Kopie zurueck. Pointer-Felder werden neu allokiert.
func (c *Config) Clone() *Config {
	if c == nil {
		return nil
	}

	out := *c
	out.FirstPipelineNumLayers = clonePtr(c.FirstPipelineNumLayers)
	out.LastPipelineNumLayers = clonePtr(c.LastPipelineNumLayers)
	return &out
}

// HeadDim gibt die Dimension eines Attention-Heads zurueck
func (c *Config) HeadDim() int {
	if c.NumAttentionHeads == 0 {
		return 0
	}
	return c.HiddenSize / c.NumAttentionHeads
}

// Ptr gibt einen Pointer auf v zurueck
func Ptr[T any](v T) *T {
	return &v
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
