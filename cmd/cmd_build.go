// cmd_build.go - build und archs Commands
// Hauptfunktionen: BuildHandler, ArchsHandler
package cmd

import (
	"fmt"
	"log/slog"
	"slices"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/Retro788/Euclidian-VisionModel/model"
)

// BuildHandler - Baut das Modell aus einer YAML-Datei und zeigt die Teilmodelle
func BuildHandler(cmd *cobra.Command, _ []string) error {
	path, _ := cmd.Flags().GetString("config")
	args, err := model.LoadArgs(path)
	if err != nil {
		return err
	}

	if name, _ := cmd.Flags().GetString("model"); name != "" {
		args.ModelName = name
	}

	rank, _ := cmd.Flags().GetInt("pipeline-rank")
	size, _ := cmd.Flags().GetInt("pipeline-size")
	if size < 1 || rank < 0 || rank >= size {
		return fmt.Errorf("pipeline rank %d out of range for %d stages", rank, size)
	}

	var stages model.Stages
	stages.PreProcess, _ = cmd.Flags().GetBool("pre-process")
	stages.PostProcess, _ = cmd.Flags().GetBool("post-process")
	stages.AddEncoder, _ = cmd.Flags().GetBool("add-encoder")
	stages.AddDecoder, _ = cmd.Flags().GetBool("add-decoder")
	stages.ParallelOutput, _ = cmd.Flags().GetBool("parallel-output")

	m, err := model.New(args, model.StaticTopology{Rank: rank, Size: size}, stages)
	if err != nil {
		return err
	}

	submodels := m.Submodels()
	slog.Debug("model built", "family", m.Family(), "submodels", len(submodels), "rank", rank)

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s (%s), pipeline stage %d/%d\n\n", args.ModelName, m.Family(), rank+1, size)
	if len(submodels) == 0 {
		fmt.Fprintln(out, "no sub-models on this pipeline stage")
		return nil
	}

	var data [][]string
	for _, s := range submodels {
		c := s.Config
		data = append(data, []string{
			s.Name,
			s.Spec.Name,
			strconv.Itoa(c.NumLayers),
			strconv.Itoa(c.HiddenSize),
			fmt.Sprintf("%d/%d", c.NumAttentionHeads, c.NumQueryGroups),
			fmt.Sprintf("%dx%dx%d", c.TensorModelParallelSize, c.PipelineModelParallelSize, c.ContextParallelSize),
			yesNo(c.SequenceParallel),
			yesNo(s.Trainable),
		})
	}

	renderTable(out, []string{"MODULE", "SPEC", "LAYERS", "HIDDEN", "HEADS/GROUPS", "TPxPPxCP", "SP", "TRAINABLE"}, data)

	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		fmt.Fprintln(out)
		for _, s := range submodels {
			fmt.Fprintf(out, "%s: %s\n", s.Name, truncate(s.Spec.String(), maxCellWidth*2))
		}
	}

	return nil
}

// ArchsHandler - Listet alle registrierten Familien und Modellnamen
func ArchsHandler(cmd *cobra.Command, _ []string) error {
	byFamily := model.SupportedFamiliesAndArchs()

	families := make([]string, 0, len(byFamily))
	for family := range byFamily {
		families = append(families, family)
	}
	slices.Sort(families)

	var data [][]string
	for _, family := range families {
		for _, name := range byFamily[family] {
			arch, err := model.ArchConfig(name)
			if err != nil {
				return err
			}
			data = append(data, []string{
				family,
				arch.Name,
				strconv.Itoa(arch.Language.NumLayers),
				strconv.Itoa(arch.Language.HiddenSize),
				strconv.Itoa(arch.VocabSize),
				strconv.Itoa(arch.MaxPositionEmbeddings),
			})
		}
	}

	renderTable(cmd.OutOrStdout(), []string{"FAMILY", "NAME", "LAYERS", "HIDDEN", "VOCAB", "CONTEXT"}, data)
	return nil
}
