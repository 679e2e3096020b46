// provider.go - Aufbau des mini-retro OneVision 1.5 Modells
//
// MODUL: provider
// ZWECK: Leitet Sprach-, Vision- und Adapter-Konfiguration aus den Args ab und baut das Modell
// INPUT: *model.Args, model.Topology, model.Stages
// OUTPUT: *Model
// NEBENEFFEKTE: Logging auf Pipeline-Rang 0
// ABHAENGIGKEITEN: transformer (Config, Patch, Specs), model (Registry, Fehler)
package miniretroov

import (
	"fmt"
	"log/slog"

	"github.com/Retro788/Euclidian-VisionModel/logutil"
	"github.com/Retro788/Euclidian-VisionModel/model"
	"github.com/Retro788/Euclidian-VisionModel/transformer"
)

func init() {
	model.Register(Family, func(args *model.Args, topo model.Topology, stages model.Stages) (model.Model, error) {
		return Provide(args, topo, stages)
	})
}

// Provide baut das Modell fuer args.
// stages.AddEncoder/AddDecoder werden ueberschrieben, wenn kein
// Encoder-Pipeline-Grad gesetzt ist.
func Provide(args *model.Args, topo model.Topology, stages model.Stages) (*Model, error) {
	logutil.RankZero(topo.PipelineRank(), fmt.Sprintf("building %s model ...", args.ModelName))

	config, err := transformer.BuildConfig(args.Args)
	if err != nil {
		return nil, err
	}

	languageConfig := config.Clone()
	visionConfig := config.Clone()
	adapterConfig := config.Clone()

	family, err := model.Family(args.ModelName)
	if err != nil {
		return nil, err
	}

	visionPatch, err := VisionPatch(family, args.ModelName)
	if err != nil {
		return nil, err
	}
	visionPatch.Apply(visionConfig)
	slog.Debug("applied vision config", visionPatch.LogArgs()...)

	adapterPatch, err := AdapterPatch(family)
	if err != nil {
		return nil, err
	}
	adapterPatch.Apply(adapterConfig)
	slog.Debug("applied adapter config", adapterPatch.LogArgs()...)

	languageConfig.ImageTokenID = ImageTokenID
	languageConfig.VideoTokenID = VideoTokenID

	if args.EncoderPipelineModelParallelSize == 0 {
		visionConfig.PipelineModelParallelSize = 1
		visionConfig.TensorModelParallelSize = 1
		visionConfig.SequenceParallel = false
		visionConfig.TPCommOverlap = false
		visionConfig.ContextParallelSize = 1
		visionConfig.ContextParallelUlyssesDegree = 1
		stages.AddEncoder = topo.IsPipelineFirstStage()
		stages.AddDecoder = true
	} else {
		if args.EncoderPipelineModelParallelSize != 1 {
			return nil, fmt.Errorf("%w: got encoder_pipeline_model_parallel_size=%d", model.ErrEncoderPipelineSize, args.EncoderPipelineModelParallelSize)
		}
		visionConfig.PipelineModelParallelSize = args.EncoderPipelineModelParallelSize
		if args.EncoderTensorModelParallelSize > 0 {
			visionConfig.TensorModelParallelSize = args.EncoderTensorModelParallelSize
		}

		// nicht vom Sprachmodell erben
		visionConfig.FirstPipelineNumLayers = nil
		visionConfig.LastPipelineNumLayers = nil

		// Vision und Projektor nutzen weder SP noch CP
		visionConfig.SequenceParallel = false
		visionConfig.ContextParallelSize = 1
		visionConfig.TPCommOverlap = false
	}

	if args.UseLegacyModels {
		return nil, model.ErrLegacyModel
	}

	parts := Parts{
		LanguageConfig: languageConfig,
		VisionConfig:   visionConfig,
		AdapterConfig:  adapterConfig,
	}

	if args.Spec != "" {
		if parts.LanguageSpec, err = transformer.BuildSpec(args.Spec, languageConfig); err != nil {
			return nil, err
		}
		if parts.VisionSpec, err = transformer.BuildSpec(args.Spec, visionConfig); err != nil {
			return nil, err
		}
		if parts.AdapterSpec, err = transformer.BuildSpec(args.Spec, adapterConfig); err != nil {
			return nil, err
		}
	} else {
		if parts.AdapterSpec, err = transformer.BuildSpec(AdapterSpec, adapterConfig); err != nil {
			return nil, err
		}
		if parts.VisionSpec, err = transformer.BuildSpec(VisionSpec, visionConfig); err != nil {
			return nil, err
		}
		if parts.LanguageSpec, err = transformer.BuildSpec(LanguageSpec, languageConfig); err != nil {
			return nil, err
		}
	}

	trainable, err := model.ParseTrainable(args.TrainableModules, LanguageModule, VisionModule, AdapterModule)
	if err != nil {
		return nil, err
	}

	m := New(parts, stages, Hyper{
		VocabSize:                       args.PaddedVocabSize,
		MaxSequenceLength:               args.MaxPositionEmbeddings,
		FP16LMCrossEntropy:              args.FP16LMCrossEntropy,
		ShareEmbeddingsAndOutputWeights: !args.UntieEmbeddingsAndOutputWeights,
		PositionEmbeddingType:           args.PositionEmbeddingType,
		RotaryPercent:                   args.RotaryPercent,
		RotaryBase:                      args.RotaryBase,
		SeqLenInterpolationFactor:       args.RotarySeqLenInterpolationFactor,
	})

	if !trainable.All() {
		m.Freeze(
			!trainable.Contains(LanguageModule),
			!trainable.Contains(VisionModule),
			!trainable.Contains(AdapterModule),
		)
	}

	return m, nil
}
