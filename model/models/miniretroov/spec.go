package miniretroov

import (
	"github.com/Retro788/Euclidian-VisionModel/transformer"
)

// Namen der Default-Specs
const (
	AdapterSpec  = "mini-retro-adapter"
	VisionSpec   = "mini-retro-vision"
	LanguageSpec = "qwen-te"
)

func init() {
	transformer.RegisterSpec(AdapterSpec, adapterSpec)
	transformer.RegisterSpec(VisionSpec, visionSpec)
	transformer.RegisterSpec(LanguageSpec, qwenTESpec)
}

func adapterSpec(cfg *transformer.Config) (*transformer.LayerSpec, error) {
	return transformer.NewLayerSpec(AdapterSpec, "MultimodalProjector").
		With("layernorm", normImpl(cfg)).
		With("linear_fc1", "TEColumnParallelLinear").
		With("activation", "GELU").
		With("linear_fc2", "TERowParallelLinear"), nil
}

func visionSpec(cfg *transformer.Config) (*transformer.LayerSpec, error) {
	return transformer.NewLayerSpec(VisionSpec, "TransformerLayer").
		With("patch_embed", "PatchEmbed").
		With("rotary_pos_emb", "VisionRotaryEmbedding").
		With("input_layernorm", normImpl(cfg)).
		With("self_attention", "SelfAttention").
		With("linear_qkv", "TEColumnParallelLinear").
		With("core_attention", "TEDotProductAttention").
		With("linear_proj", "TERowParallelLinear").
		With("pre_mlp_layernorm", normImpl(cfg)).
		With("mlp", "MLP").
		With("linear_fc1", "TEColumnParallelLinear").
		With("linear_fc2", "TERowParallelLinear"), nil
}

// qwenTESpec baut den Sprach-Layer mit Transformer-Engine-Modulen.
// Die Normen sind in die Linear-Layer fusioniert.
func qwenTESpec(cfg *transformer.Config) (*transformer.LayerSpec, error) {
	attention := "TEDotProductAttention"
	if cfg != nil && cfg.ContextParallelSize > 1 && cfg.ContextParallelUlyssesDegree > 1 {
		attention = "UlyssesDotProductAttention"
	}

	spec := transformer.NewLayerSpec(LanguageSpec, "TransformerLayer").
		With("input_layernorm", "IdentityOp").
		With("self_attention", "SelfAttention").
		With("linear_qkv", "TELayerNormColumnParallelLinear").
		With("core_attention", attention).
		With("linear_proj", "TERowParallelLinear").
		With("pre_mlp_layernorm", "IdentityOp").
		With("mlp", "MLP").
		With("linear_fc1", "TELayerNormColumnParallelLinear").
		With("linear_fc2", "TERowParallelLinear")

	if cfg != nil && cfg.NumQueryGroups > 0 && cfg.NumQueryGroups < cfg.NumAttentionHeads {
		spec.With("self_attention", "GroupedQuerySelfAttention")
	}
	return spec, nil
}

func normImpl(cfg *transformer.Config) string {
	if cfg != nil && cfg.Normalization == transformer.RMSNorm {
		return "TENorm[RMSNorm]"
	}
	return "TENorm[LayerNorm]"
}
