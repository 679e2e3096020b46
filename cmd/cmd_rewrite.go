// cmd_rewrite.go - rewrite Command
// Hauptfunktionen: RewriteHandler
package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/Retro788/Euclidian-VisionModel/envconfig"
	"github.com/Retro788/Euclidian-VisionModel/rewrite"
)

// RewriteHandler - Benennt den Codenamen unterhalb von ROOT um
func RewriteHandler(cmd *cobra.Command, args []string) error {
	from, to, err := codenamesFromFlags(cmd)
	if err != nil {
		return err
	}

	root := envconfig.RewriteRoot()
	if len(args) > 0 {
		root = args[0]
	}

	dryRun, _ := cmd.Flags().GetBool("dry-run")
	dryRun = dryRun || envconfig.RewriteDryRun()

	workers := int(envconfig.RewriteWorkers())
	if cmd.Flags().Changed("workers") {
		workers, _ = cmd.Flags().GetInt("workers")
	}

	opts := []rewrite.Option{
		rewrite.WithDryRun(dryRun),
		rewrite.WithWorkers(workers),
	}
	if exclude, _ := cmd.Flags().GetStringSlice("exclude"); len(exclude) > 0 {
		opts = append(opts, rewrite.WithExclude(exclude...))
	}
	if exts, _ := cmd.Flags().GetStringSlice("ext"); len(exts) > 0 {
		opts = append(opts, rewrite.WithExtensions(exts...))
	}

	slog.Debug("rewriting", "root", root, "from", from, "to", to, "dry_run", dryRun, "workers", workers)

	result, err := rewrite.NewWalker(rewrite.NewRules(from, to), opts...).Run(cmd.Context(), root)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, path := range result.Changed {
		fmt.Fprintln(out, path)
	}

	slog.Info("rewrite finished", "visited", result.Visited, "changed", len(result.Changed), "skipped", result.Skipped, "dry_run", dryRun)
	return nil
}
