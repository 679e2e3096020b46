package miniretroov

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Retro788/Euclidian-VisionModel/model"
	"github.com/Retro788/Euclidian-VisionModel/transformer"
)

func testArgs(t *testing.T, mutate ...func(*model.Args)) *model.Args {
	t.Helper()

	a := &model.Args{ModelName: Family + "-3b"}
	a.TensorModelParallelSize = 2
	a.PipelineModelParallelSize = 2
	a.ContextParallelSize = 2
	a.ContextParallelUlyssesDegree = 2
	a.SequenceParallel = true
	a.TPCommOverlap = true
	a.FirstPipelineNumLayers = transformer.Ptr(10)
	a.LastPipelineNumLayers = transformer.Ptr(8)
	a.BF16 = true

	for _, m := range mutate {
		m(a)
	}

	full, err := a.WithArch()
	require.NoError(t, err)
	return full
}

func TestProvideWithoutEncoderPipeline(t *testing.T) {
	for _, rank := range []int{0, 1} {
		m, err := Provide(testArgs(t), model.StaticTopology{Rank: rank, Size: 2}, model.Stages{})
		require.NoError(t, err)

		assert.True(t, m.AddDecoder)
		assert.Equal(t, rank == 0, m.AddEncoder)
		require.NotNil(t, m.Language)

		if rank != 0 {
			assert.Nil(t, m.Vision)
			assert.Nil(t, m.Adapter)
			continue
		}

		require.NotNil(t, m.Vision)
		vc := m.Vision.Config
		assert.Equal(t, 1, vc.PipelineModelParallelSize)
		assert.Equal(t, 1, vc.TensorModelParallelSize)
		assert.Equal(t, 1, vc.ContextParallelSize)
		assert.Equal(t, 1, vc.ContextParallelUlyssesDegree)
		assert.False(t, vc.SequenceParallel)
		assert.False(t, vc.TPCommOverlap)

		// Sprachmodell behaelt seine Parallelitaet
		lc := m.Language.Config
		assert.Equal(t, 2, lc.TensorModelParallelSize)
		assert.Equal(t, 2, lc.ContextParallelSize)
		assert.True(t, lc.SequenceParallel)
	}
}

func TestProvideEncoderPipelineMustBeOne(t *testing.T) {
	for _, n := range []int{2, 4, -1} {
		args := testArgs(t, func(a *model.Args) { a.EncoderPipelineModelParallelSize = n })
		_, err := Provide(args, model.SingleStage(), model.DefaultStages())
		if !errors.Is(err, model.ErrEncoderPipelineSize) {
			t.Errorf("%d: ErrEncoderPipelineSize erwartet, got %v", n, err)
		}
	}
}

func TestProvideEncoderPipelineOne(t *testing.T) {
	args := testArgs(t, func(a *model.Args) {
		a.EncoderPipelineModelParallelSize = 1
		a.EncoderTensorModelParallelSize = 4
	})

	stages := model.Stages{AddEncoder: false, AddDecoder: true}
	m, err := Provide(args, model.StaticTopology{Rank: 1, Size: 2}, stages)
	require.NoError(t, err)

	// Stages werden nicht ueberschrieben
	assert.False(t, m.AddEncoder)
	assert.Nil(t, m.Vision)

	m, err = Provide(args, model.SingleStage(), model.DefaultStages())
	require.NoError(t, err)

	vc := m.Vision.Config
	assert.Equal(t, 1, vc.PipelineModelParallelSize)
	assert.Equal(t, 4, vc.TensorModelParallelSize)
	assert.Nil(t, vc.FirstPipelineNumLayers)
	assert.Nil(t, vc.LastPipelineNumLayers)
	assert.False(t, vc.SequenceParallel)
	assert.False(t, vc.TPCommOverlap)
	assert.Equal(t, 1, vc.ContextParallelSize)

	lc := m.Language.Config
	require.NotNil(t, lc.FirstPipelineNumLayers)
	assert.Equal(t, 10, *lc.FirstPipelineNumLayers)
}

func TestProvideEncoderTensorParallelUnset(t *testing.T) {
	args := testArgs(t, func(a *model.Args) { a.EncoderPipelineModelParallelSize = 1 })

	m, err := Provide(args, model.SingleStage(), model.DefaultStages())
	require.NoError(t, err)
	assert.Equal(t, 2, m.Vision.Config.TensorModelParallelSize)
}

func TestProvideLegacyRejected(t *testing.T) {
	args := testArgs(t, func(a *model.Args) { a.UseLegacyModels = true })
	_, err := Provide(args, model.SingleStage(), model.DefaultStages())
	assert.ErrorIs(t, err, model.ErrLegacyModel)
}

func TestProvideConfigs(t *testing.T) {
	m, err := Provide(testArgs(t), model.SingleStage(), model.DefaultStages())
	require.NoError(t, err)

	lc, vc, ac := m.Language.Config, m.Vision.Config, m.Adapter.Config

	assert.Equal(t, ImageTokenID, lc.ImageTokenID)
	assert.Equal(t, VideoTokenID, lc.VideoTokenID)
	assert.Zero(t, vc.ImageTokenID)
	assert.Zero(t, ac.VideoTokenID)

	assert.Equal(t, 2048, lc.HiddenSize)
	assert.Equal(t, transformer.RMSNorm, lc.Normalization)
	assert.Equal(t, 1024, vc.HiddenSize)
	assert.Equal(t, 14, vc.PatchSize)
	assert.Equal(t, transformer.LayerNorm, vc.Normalization)
	assert.Equal(t, 1, ac.NumLayers)
	assert.Equal(t, 4096, ac.FFNHiddenSize)

	// keine geteilten Pointer zwischen den Kopien
	*lc.FirstPipelineNumLayers = 99
	assert.Equal(t, 10, *ac.FirstPipelineNumLayers)
}

func TestProvideHyperParameters(t *testing.T) {
	m, err := Provide(testArgs(t), model.SingleStage(), model.DefaultStages())
	require.NoError(t, err)

	want := Hyper{
		VocabSize:                       152064,
		MaxSequenceLength:               32768,
		ShareEmbeddingsAndOutputWeights: true,
		PositionEmbeddingType:           "rope",
		RotaryPercent:                   1.0,
		RotaryBase:                      1000000,
	}
	if diff := cmp.Diff(want, m.Hyper); diff != "" {
		t.Errorf("Hyper (-want +got):\n%s", diff)
	}

	args := testArgs(t, func(a *model.Args) {
		a.ModelName = Family + "-8b"
		a.RotarySeqLenInterpolationFactor = transformer.Ptr(2.0)
	})
	m, err = Provide(args, model.SingleStage(), model.DefaultStages())
	require.NoError(t, err)
	assert.False(t, m.ShareEmbeddingsAndOutputWeights)
	require.NotNil(t, m.SeqLenInterpolationFactor)
	assert.Equal(t, 2.0, *m.SeqLenInterpolationFactor)
}

func TestProvideDefaultSpecs(t *testing.T) {
	m, err := Provide(testArgs(t), model.SingleStage(), model.DefaultStages())
	require.NoError(t, err)

	assert.Equal(t, LanguageSpec, m.Language.Spec.Name)
	assert.Equal(t, VisionSpec, m.Vision.Spec.Name)
	assert.Equal(t, AdapterSpec, m.Adapter.Spec.Name)

	attn, _ := m.Language.Spec.Submodule("core_attention")
	assert.Equal(t, "UlyssesDotProductAttention", attn)
	attn, _ = m.Language.Spec.Submodule("self_attention")
	assert.Equal(t, "GroupedQuerySelfAttention", attn)

	norm, _ := m.Vision.Spec.Submodule("input_layernorm")
	assert.Equal(t, "TENorm[LayerNorm]", norm)
}

func TestProvideOverrideSpec(t *testing.T) {
	args := testArgs(t, func(a *model.Args) { a.Spec = "gpt-te" })
	m, err := Provide(args, model.SingleStage(), model.DefaultStages())
	require.NoError(t, err)

	for _, s := range m.Submodels() {
		assert.Equal(t, "gpt-te", s.Spec.Name, s.Name)
	}

	args = testArgs(t, func(a *model.Args) { a.Spec = "gpt-nope" })
	_, err = Provide(args, model.SingleStage(), model.DefaultStages())
	assert.ErrorIs(t, err, model.ErrUnknownSpec)
}

func TestProvideTrainableModules(t *testing.T) {
	cases := []struct {
		modules                   []string
		language, vision, adapter bool
	}{
		{[]string{"all"}, true, true, true},
		{nil, true, true, true},
		{[]string{LanguageModule}, true, false, false},
		{[]string{VisionModule, AdapterModule}, false, true, true},
		{[]string{AdapterModule}, false, false, true},
	}

	for _, tt := range cases {
		args := testArgs(t, func(a *model.Args) { a.TrainableModules = tt.modules })
		m, err := Provide(args, model.SingleStage(), model.DefaultStages())
		require.NoError(t, err)

		assert.Equal(t, tt.language, m.Language.Trainable, "%v language", tt.modules)
		assert.Equal(t, tt.vision, m.Vision.Trainable, "%v vision", tt.modules)
		assert.Equal(t, tt.adapter, m.Adapter.Trainable, "%v adapter", tt.modules)
	}
}

func TestProvideUnknownTrainableModule(t *testing.T) {
	for _, modules := range [][]string{{"visoin_model"}, {"all", "adapter"}, {"decoder"}} {
		args := testArgs(t, func(a *model.Args) { a.TrainableModules = modules })
		_, err := Provide(args, model.SingleStage(), model.DefaultStages())
		assert.ErrorIs(t, err, model.ErrUnknownTrainableModule, "%v", modules)
	}
}

func TestFreezeSkipsMissingSubmodels(t *testing.T) {
	m := New(Parts{}, model.Stages{AddDecoder: true}, Hyper{})
	m.Freeze(true, true, true)

	assert.False(t, m.Language.Trainable)
	assert.Nil(t, m.Vision)
	assert.Len(t, m.Submodels(), 1)
}

func TestNewThroughRegistry(t *testing.T) {
	args := &model.Args{ModelName: "Mini-Retro-OV-1.5-8B"}
	args.TrainableModules = []string{LanguageModule}

	got, err := model.New(args, nil, model.DefaultStages())
	require.NoError(t, err)
	assert.Equal(t, Family, got.Family())

	m, ok := got.(*Model)
	require.True(t, ok)
	assert.Equal(t, 4096, m.Language.Config.HiddenSize)
	assert.False(t, m.Vision.Trainable)
}

func TestPatchesRejectOtherFamilies(t *testing.T) {
	_, err := VisionPatch("qwen2-vl", "qwen2-vl-7b")
	assert.ErrorIs(t, err, model.ErrUnsupportedModel)
	_, err = AdapterPatch("qwen2-vl")
	assert.ErrorIs(t, err, model.ErrUnsupportedModel)
}
