// cmd_builders.go - Command-Builder Funktionen
// Hauptfunktionen: newBuildCmd, newArchsCmd, newRewriteCmd, newTranslateCmd, newEnvCmd
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/Retro788/Euclidian-VisionModel/rewrite"
	"github.com/Retro788/Euclidian-VisionModel/translate"
)

// newBuildCmd - Erstellt den build Command
func newBuildCmd() *cobra.Command {
	buildCmd := &cobra.Command{
		Use:   "build",
		Short: "Assemble a model from an arguments file and print its sub-models",
		Args:  cobra.NoArgs,
		RunE:  BuildHandler,
	}

	buildCmd.Flags().StringP("config", "f", "", "YAML arguments file")
	buildCmd.Flags().String("model", "", "Override model_name from the arguments file")
	buildCmd.Flags().Int("pipeline-rank", 0, "Pipeline rank of this process")
	buildCmd.Flags().Int("pipeline-size", 1, "Number of pipeline stages")
	buildCmd.Flags().Bool("pre-process", true, "Compute embeddings on this stage")
	buildCmd.Flags().Bool("post-process", true, "Compute output logits on this stage")
	buildCmd.Flags().Bool("add-encoder", true, "Build vision model and adapter (needs encoder_pipeline_model_parallel_size)")
	buildCmd.Flags().Bool("add-decoder", true, "Build the language model (needs encoder_pipeline_model_parallel_size)")
	buildCmd.Flags().Bool("parallel-output", true, "Keep output logits split across tensor parallel ranks")
	buildCmd.Flags().Bool("verbose", false, "Print the layer spec of every sub-model")
	_ = buildCmd.MarkFlagRequired("config")

	return buildCmd
}

// newArchsCmd - Erstellt den archs Command
func newArchsCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "archs",
		Aliases: []string{"ls"},
		Short:   "List supported model families and names",
		Args:    cobra.NoArgs,
		RunE:    ArchsHandler,
	}
}

// newRewriteCmd - Erstellt den rewrite Command
func newRewriteCmd() *cobra.Command {
	rewriteCmd := &cobra.Command{
		Use:   "rewrite [ROOT]",
		Short: "Rename a model codename in source files",
		Args:  cobra.MaximumNArgs(1),
		RunE:  RewriteHandler,
	}

	rewriteCmd.Flags().String("from", rewrite.DefaultCodename, "Codename to replace")
	rewriteCmd.Flags().String("to", rewrite.DefaultCodename, "Replacement codename")
	rewriteCmd.Flags().Bool("dry-run", false, "Report changed files without writing them")
	rewriteCmd.Flags().Int("workers", 0, "Files rewritten in parallel (0 = GOMAXPROCS-1)")
	rewriteCmd.Flags().StringSlice("exclude", nil, "Additional directory names to skip")
	rewriteCmd.Flags().StringSlice("ext", nil, "File extensions to rewrite (default: built-in list)")

	return rewriteCmd
}

// newTranslateCmd - Erstellt den translate Command
func newTranslateCmd() *cobra.Command {
	translateCmd := &cobra.Command{
		Use:   "translate PATH...",
		Short: "Translate markdown documents and normalize the codename",
		Args:  cobra.MinimumNArgs(1),
		RunE:  TranslateHandler,
	}

	translateCmd.Flags().String("url", "", "Translation service URL (overrides RETRO_TRANSLATE_URL)")
	translateCmd.Flags().String("source", "", "Source language (default \""+translate.DefaultSource+"\")")
	translateCmd.Flags().String("target", "", "Target language (default \""+translate.DefaultTarget+"\")")
	translateCmd.Flags().String("from", rewrite.DefaultCodename, "Codename to replace")
	translateCmd.Flags().String("to", rewrite.DefaultCodename, "Replacement codename")
	translateCmd.Flags().Bool("dry-run", false, "Print translated documents instead of writing them")

	return translateCmd
}

// newEnvCmd - Erstellt den env Command
func newEnvCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "env",
		Short: "Show RETRO_* environment configuration",
		Args:  cobra.NoArgs,
		RunE:  EnvHandler,
	}
}
