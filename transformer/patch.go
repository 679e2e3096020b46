// patch.go - Feldweise Overlays auf Config
//
// Dieses Modul enthaelt:
// - Patch: Record mit optionalen Feldern
// - Apply: setzt nur die gesetzten Felder auf dem Ziel
// - Fields: gesetzte Felder in Deklarationsreihenfolge (fuer Logging)
package transformer

import (
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Patch beschreibt eine Teilmenge von Config-Feldern.
// nil bedeutet "nicht ueberschreiben".
type Patch struct {
	NumLayers         *int
	HiddenSize        *int
	FFNHiddenSize     *int
	NumAttentionHeads *int
	NumQueryGroups    *int
	KVChannels        *int
	Normalization     *string
	NormEpsilon       *float64
	ActivationFunc    *string
	GatedLinearUnit   *bool
	AddBiasLinear     *bool
	AddQKVBias        *bool
	HiddenDropout     *float64
	AttentionDropout  *float64

	PatchSize         *int
	TemporalPatchSize *int
	SpatialMergeSize  *int
	InChannels        *int
}

// Apply schreibt alle gesetzten Felder nach cfg
func (p Patch) Apply(cfg *Config) {
	setIf(&cfg.NumLayers, p.NumLayers)
	setIf(&cfg.HiddenSize, p.HiddenSize)
	setIf(&cfg.FFNHiddenSize, p.FFNHiddenSize)
	setIf(&cfg.NumAttentionHeads, p.NumAttentionHeads)
	setIf(&cfg.NumQueryGroups, p.NumQueryGroups)
	setIf(&cfg.KVChannels, p.KVChannels)
	setIf(&cfg.Normalization, p.Normalization)
	setIf(&cfg.NormEpsilon, p.NormEpsilon)
	setIf(&cfg.ActivationFunc, p.ActivationFunc)
	setIf(&cfg.GatedLinearUnit, p.GatedLinearUnit)
	setIf(&cfg.AddBiasLinear, p.AddBiasLinear)
	setIf(&cfg.AddQKVBias, p.AddQKVBias)
	setIf(&cfg.HiddenDropout, p.HiddenDropout)
	setIf(&cfg.AttentionDropout, p.AttentionDropout)

	setIf(&cfg.PatchSize, p.PatchSize)
	setIf(&cfg.TemporalPatchSize, p.TemporalPatchSize)
	setIf(&cfg.SpatialMergeSize, p.SpatialMergeSize)
	setIf(&cfg.InChannels, p.InChannels)
}

// Fields gibt die gesetzten Felder mit ihren Werten zurueck
func (p Patch) Fields() *orderedmap.OrderedMap[string, any] {
	m := orderedmap.New[string, any]()
	addIf(m, "num_layers", p.NumLayers)
	addIf(m, "hidden_size", p.HiddenSize)
	addIf(m, "ffn_hidden_size", p.FFNHiddenSize)
	addIf(m, "num_attention_heads", p.NumAttentionHeads)
	addIf(m, "num_query_groups", p.NumQueryGroups)
	addIf(m, "kv_channels", p.KVChannels)
	addIf(m, "normalization", p.Normalization)
	addIf(m, "norm_epsilon", p.NormEpsilon)
	addIf(m, "activation_func", p.ActivationFunc)
	addIf(m, "gated_linear_unit", p.GatedLinearUnit)
	addIf(m, "add_bias_linear", p.AddBiasLinear)
	addIf(m, "add_qkv_bias", p.AddQKVBias)
	addIf(m, "hidden_dropout", p.HiddenDropout)
	addIf(m, "attention_dropout", p.AttentionDropout)
	addIf(m, "patch_size", p.PatchSize)
	addIf(m, "temporal_patch_size", p.TemporalPatchSize)
	addIf(m, "spatial_merge_size", p.SpatialMergeSize)
	addIf(m, "in_channels", p.InChannels)
	return m
}

// LogArgs listet die gesetzten Felder als key=value Paare
func (p Patch) LogArgs() []any {
	fields := p.Fields()
	args := make([]any, 0, 2*fields.Len())
	for pair := fields.Oldest(); pair != nil; pair = pair.Next() {
		args = append(args, pair.Key, pair.Value)
	}
	return args
}

func setIf[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

func addIf[T any](m *orderedmap.OrderedMap[string, any], key string, v *T) {
	if v != nil {
		m.Set(key, *v)
	}
}
