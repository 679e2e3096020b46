// cmd.go - Haupt-CLI Setup und Root Command
// Hauptfunktionen: NewCLI, appendEnvDocs
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Retro788/Euclidian-VisionModel/envconfig"
)

// Version wird beim Build via -ldflags gesetzt
var Version = "0.0.0"

// appendEnvDocs - Fuegt Umgebungsvariablen-Dokumentation zum Command hinzu
func appendEnvDocs(cmd *cobra.Command, envs []envconfig.EnvVar) {
	if len(envs) == 0 {
		return
	}

	envUsage := `
Environment Variables:
`
	for _, e := range envs {
		envUsage += fmt.Sprintf("      %-28s   %s\n", e.Name, e.Description)
	}

	cmd.SetUsageTemplate(cmd.UsageTemplate() + envUsage)
}

// versionHandler - Gibt die Version aus
func versionHandler(cmd *cobra.Command, _ []string) {
	fmt.Fprintf(cmd.OutOrStdout(), "retro version is %s\n", Version)
}

// NewCLI - Erstellt das Haupt-CLI mit allen Commands
func NewCLI() *cobra.Command {
	cobra.EnableCommandSorting = false

	rootCmd := &cobra.Command{
		Use:           "retro",
		Short:         "Vision-language model assembly and codename tooling",
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		Run: func(cmd *cobra.Command, args []string) {
			if version, _ := cmd.Flags().GetBool("version"); version {
				versionHandler(cmd, args)
				return
			}

			cmd.Print(cmd.UsageString())
		},
	}

	rootCmd.Flags().BoolP("version", "v", false, "Show version information")

	// Commands erstellen
	buildCmd := newBuildCmd()
	archsCmd := newArchsCmd()
	rewriteCmd := newRewriteCmd()
	translateCmd := newTranslateCmd()
	envCmd := newEnvCmd()

	// Environment-Dokumentation hinzufuegen
	envVars := envconfig.AsMap()
	envs := []envconfig.EnvVar{envVars["RETRO_DEBUG"]}

	for _, cmd := range []*cobra.Command{
		buildCmd,
		archsCmd,
		rewriteCmd,
		translateCmd,
	} {
		switch cmd {
		case rewriteCmd:
			appendEnvDocs(cmd, []envconfig.EnvVar{
				envVars["RETRO_DEBUG"],
				envVars["RETRO_REWRITE_ROOT"],
				envVars["RETRO_REWRITE_WORKERS"],
				envVars["RETRO_REWRITE_DRY_RUN"],
			})
		case translateCmd:
			appendEnvDocs(cmd, []envconfig.EnvVar{
				envVars["RETRO_DEBUG"],
				envVars["RETRO_TRANSLATE_URL"],
				envVars["RETRO_TRANSLATE_API_KEY"],
				envVars["RETRO_TRANSLATE_SOURCE"],
				envVars["RETRO_TRANSLATE_TARGET"],
				envVars["RETRO_TRANSLATE_TIMEOUT"],
				envVars["RETRO_TRANSLATE_RPS"],
				envVars["RETRO_TRANSLATE_CACHE_SIZE"],
			})
		default:
			appendEnvDocs(cmd, envs)
		}
	}

	rootCmd.AddCommand(
		buildCmd,
		archsCmd,
		rewriteCmd,
		translateCmd,
		envCmd,
	)

	return rootCmd
}

// standalone - Macht einen Sub-Command zum eigenen Root-Command
func standalone(cmd *cobra.Command, use string, names ...string) *cobra.Command {
	cmd.Use = use
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	cmd.CompletionOptions = cobra.CompletionOptions{DisableDefaultCmd: true}

	envVars := envconfig.AsMap()
	envs := make([]envconfig.EnvVar, 0, len(names))
	for _, name := range names {
		envs = append(envs, envVars[name])
	}
	appendEnvDocs(cmd, envs)

	return cmd
}

// NewReplaceTokensCLI - CLI des replace-tokens Binaries
func NewReplaceTokensCLI() *cobra.Command {
	return standalone(newRewriteCmd(), "replace-tokens [ROOT]",
		"RETRO_DEBUG", "RETRO_REWRITE_ROOT", "RETRO_REWRITE_WORKERS", "RETRO_REWRITE_DRY_RUN")
}

// NewTranslateDocsCLI - CLI des translate-docs Binaries
func NewTranslateDocsCLI() *cobra.Command {
	return standalone(newTranslateCmd(), "translate-docs PATH...",
		"RETRO_DEBUG", "RETRO_TRANSLATE_URL", "RETRO_TRANSLATE_API_KEY", "RETRO_TRANSLATE_TARGET", "RETRO_TRANSLATE_RPS")
}
