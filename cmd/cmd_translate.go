// cmd_translate.go - translate Command
// Hauptfunktionen: TranslateHandler
package cmd

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/Retro788/Euclidian-VisionModel/translate"
)

// TranslateHandler - Uebersetzt markdown-Dateien und normalisiert den Codenamen
func TranslateHandler(cmd *cobra.Command, args []string) error {
	from, to, err := codenamesFromFlags(cmd)
	if err != nil {
		return err
	}

	client, err := clientFromFlags(cmd)
	if err != nil {
		return err
	}

	dryRun, _ := cmd.Flags().GetBool("dry-run")
	slog.Debug("translating", "paths", len(args), "target", client.Target(), "dry_run", dryRun)

	doc := translate.NewDocument(client, translate.NewTerms(from, to))
	return doc.TranslatePaths(cmd.Context(), args, translate.PathsOptions{
		DryRun: dryRun,
		Stdout: cmd.OutOrStdout(),
		Stderr: cmd.ErrOrStderr(),
	})
}
