// cmd_display.go - Tabellen-Ausgabe und env Command
// Hauptfunktionen: renderTable, truncate, EnvHandler
package cmd

import (
	"fmt"
	"io"
	"slices"

	"github.com/mattn/go-runewidth"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/Retro788/Euclidian-VisionModel/envconfig"
)

// maxCellWidth begrenzt breite Zellen (z.B. Layer-Specs)
const maxCellWidth = 72

// renderTable - Gibt eine linksbuendige Tabelle ohne Rahmen aus
func renderTable(w io.Writer, header []string, data [][]string) {
	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(false)
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetNoWhiteSpace(true)
	table.SetTablePadding("    ")
	table.AppendBulk(data)
	table.Render()
}

// truncate - Kuerzt s auf width Terminal-Spalten
func truncate(s string, width int) string {
	if runewidth.StringWidth(s) <= width {
		return s
	}
	return runewidth.Truncate(s, width, "...")
}

// yesNo - Formatiert einen Bool fuer Tabellen
func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

// EnvHandler - Zeigt alle RETRO_* Variablen mit aktuellem Wert
func EnvHandler(cmd *cobra.Command, _ []string) error {
	vars := envconfig.AsMap()

	names := make([]string, 0, len(vars))
	for name := range vars {
		names = append(names, name)
	}
	slices.Sort(names)

	data := make([][]string, 0, len(names))
	for _, name := range names {
		v := vars[name]
		data = append(data, []string{v.Name, fmt.Sprintf("%v", v.Value), truncate(v.Description, maxCellWidth)})
	}

	renderTable(cmd.OutOrStdout(), []string{"NAME", "VALUE", "DESCRIPTION"}, data)
	return nil
}
