// args.go - Prozess-Argumente fuer den Modell-Aufbau
//
// Dieses Modul enthaelt:
// - Args: alle Argumente, die ein Provider liest
// - LoadArgs/ParseArgs: YAML-Argumentdateien
// - WithArch: ergaenzt nicht gesetzte Felder aus der Arch-Registry
package model

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Retro788/Euclidian-VisionModel/transformer"
)

// Args sind die bereits geparsten Prozess-Argumente.
// Sie werden explizit durch den Aufbau gereicht.
type Args struct {
	transformer.Args `yaml:",inline"`

	ModelName        string   `yaml:"model_name"`
	Spec             string   `yaml:"spec"`
	TrainableModules []string `yaml:"trainable_modules"`
	UseLegacyModels  bool     `yaml:"use_legacy_models"`

	EncoderPipelineModelParallelSize int `yaml:"encoder_pipeline_model_parallel_size"`
	EncoderTensorModelParallelSize   int `yaml:"encoder_tensor_model_parallel_size"`

	VocabSize                       int      `yaml:"vocab_size"`
	MakeVocabSizeDivisibleBy        int      `yaml:"make_vocab_size_divisible_by"`
	PaddedVocabSize                 int      `yaml:"padded_vocab_size"`
	MaxPositionEmbeddings           int      `yaml:"max_position_embeddings"`
	FP16LMCrossEntropy              bool     `yaml:"fp16_lm_cross_entropy"`
	UntieEmbeddingsAndOutputWeights bool     `yaml:"untie_embeddings_and_output_weights"`
	PositionEmbeddingType           string   `yaml:"position_embedding_type"`
	RotaryPercent                   float64  `yaml:"rotary_percent"`
	RotaryBase                      float64  `yaml:"rotary_base"`
	RotarySeqLenInterpolationFactor *float64 `yaml:"rotary_seq_len_interpolation_factor"`
}

// LoadArgs liest Args aus einer YAML-Datei
func LoadArgs(path string) (*Args, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	args, err := ParseArgs(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return args, nil
}

// ParseArgs dekodiert Args aus YAML. Unbekannte Schluessel sind ein Fehler.
func ParseArgs(r io.Reader) (*Args, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var args Args
	if err := dec.Decode(&args); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode args: %w", err)
	}
	return &args, nil
}

// WithArch gibt eine Kopie zurueck, in der alle nicht gesetzten Felder aus der
// Arch-Konfiguration von ModelName ergaenzt sind. Danach werden Defaults
// gesetzt und die Vokabulargroesse gepadded.
func (a *Args) WithArch() (*Args, error) {
	arch, err := ArchConfig(a.ModelName)
	if err != nil {
		return nil, err
	}

	out := *a
	out.TrainableModules = append([]string(nil), a.TrainableModules...)

	lang := arch.Language
	orDefault(&out.NumLayers, lang.NumLayers)
	orDefault(&out.HiddenSize, lang.HiddenSize)
	orDefault(&out.FFNHiddenSize, lang.FFNHiddenSize)
	orDefault(&out.NumAttentionHeads, lang.NumAttentionHeads)
	orDefault(&out.NumQueryGroups, lang.NumQueryGroups)
	orDefault(&out.KVChannels, lang.KVChannels)
	orDefault(&out.Normalization, lang.Normalization)
	orDefault(&out.NormEpsilon, lang.NormEpsilon)
	if !out.SwiGLU {
		out.SwiGLU = lang.SwiGLU
	}
	if !out.AddQKVBias {
		out.AddQKVBias = lang.AddQKVBias
	}

	orDefault(&out.VocabSize, arch.VocabSize)
	orDefault(&out.MaxPositionEmbeddings, arch.MaxPositionEmbeddings)
	orDefault(&out.PositionEmbeddingType, arch.PositionEmbeddingType)
	orDefault(&out.RotaryBase, arch.RotaryBase)
	if !out.UntieEmbeddingsAndOutputWeights {
		out.UntieEmbeddingsAndOutputWeights = arch.UntieEmbeddingsAndOutputWeights
	}

	orDefault(&out.PositionEmbeddingType, "rope")
	orDefault(&out.RotaryPercent, 1.0)
	orDefault(&out.RotaryBase, 10000)
	orDefault(&out.MakeVocabSizeDivisibleBy, 128)
	if len(out.TrainableModules) == 0 {
		out.TrainableModules = []string{AllModules}
	}

	if out.PaddedVocabSize == 0 {
		out.PaddedVocabSize = PadVocabSize(out.VocabSize, out.MakeVocabSizeDivisibleBy, max(out.TensorModelParallelSize, 1))
	}

	return &out, nil
}

// PadVocabSize rundet vocab auf ein Vielfaches von divisibleBy*tp auf
func PadVocabSize(vocab, divisibleBy, tp int) int {
	multiple := max(divisibleBy, 1) * max(tp, 1)
	if vocab <= 0 {
		return 0
	}
	return (vocab + multiple - 1) / multiple * multiple
}

func orDefault[T comparable](dst *T, v T) {
	var zero T
	if *dst == zero {
		*dst = v
	}
}
