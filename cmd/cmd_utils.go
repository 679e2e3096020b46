// cmd_utils.go - Gemeinsame Hilfsfunktionen
// Hauptfunktionen: codenamesFromFlags, clientFromFlags
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Retro788/Euclidian-VisionModel/envconfig"
	"github.com/Retro788/Euclidian-VisionModel/rewrite"
	"github.com/Retro788/Euclidian-VisionModel/translate"
)

// codenamesFromFlags - Liest --from und --to
func codenamesFromFlags(cmd *cobra.Command) (from, to rewrite.Codename, err error) {
	fromFlag, _ := cmd.Flags().GetString("from")
	toFlag, _ := cmd.Flags().GetString("to")

	if from, err = rewrite.ParseCodename(fromFlag); err != nil {
		return from, to, fmt.Errorf("--from: %w", err)
	}
	if to, err = rewrite.ParseCodename(toFlag); err != nil {
		return from, to, fmt.Errorf("--to: %w", err)
	}
	return from, to, nil
}

// clientFromFlags - Erstellt den Uebersetzungs-Client.
// Flags haben Vorrang vor RETRO_TRANSLATE_*.
func clientFromFlags(cmd *cobra.Command) (*translate.Client, error) {
	base := envconfig.TranslateURL()
	if s, _ := cmd.Flags().GetString("url"); s != "" {
		u, err := envconfig.ParseURL(s)
		if err != nil {
			return nil, fmt.Errorf("--url: %w", err)
		}
		base = u
	}
	if base == nil {
		return nil, translate.ErrNoService
	}

	source, _ := cmd.Flags().GetString("source")
	if source == "" {
		source = envconfig.TranslateSource()
	}
	target, _ := cmd.Flags().GetString("target")
	if target == "" {
		target = envconfig.TranslateTarget()
	}

	return translate.NewClient(base,
		translate.WithSource(source),
		translate.WithTarget(target),
		translate.WithAPIKey(envconfig.TranslateAPIKey()),
		translate.WithTimeout(envconfig.TranslateTimeout()),
		translate.WithRateLimit(envconfig.TranslateRPS()),
		translate.WithCacheSize(int(envconfig.TranslateCacheSize())),
	)
}
