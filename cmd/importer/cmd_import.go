package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/centros-finder/app/services"
	"github.com/spf13/cobra"
)

var sourceFlags services.ImportSources

func addSourceFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&sourceFlags.Base, "base", "", "CSV base de centros (por defecto datasets.base)")
	cmd.Flags().StringVar(&sourceFlags.Bilingual, "bilingues", "", "CSV de centros bilingües (por defecto datasets.bilingual)")
	cmd.Flags().StringVar(&sourceFlags.Compensatory, "compensatorios", "", "CSV de centros de compensatoria (por defecto datasets.compensatory)")
}

// resolveSources overlays the flags on the configured paths.
func resolveSources(configured services.ImportSources) services.ImportSources {
	src := configured
	if sourceFlags.Base != "" {
		src.Base = sourceFlags.Base
	}
	if sourceFlags.Bilingual != "" {
		src.Bilingual = sourceFlags.Bilingual
	}
	if sourceFlags.Compensatory != "" {
		src.Compensatory = sourceFlags.Compensatory
	}
	return src
}

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Carga los listados, los cruza y reemplaza los centros guardados",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, logger, err := loadSettings()
		if err != nil {
			return err
		}
		defer logger.Sync()

		return withComponents(cmd.Context(), cfg, logger, func(comp *services.Components) error {
			importer, err := services.NewImportService(comp.Store, comp.Indexer(), logger)
			if err != nil {
				return err
			}
			result, err := importer.Run(cmd.Context(), resolveSources(comp.Sources()), false)
			if err != nil {
				return fmt.Errorf("import: %w", err)
			}
			printReport(os.Stdout, result)
			return nil
		})
	},
}

func printReport(w io.Writer, r *services.ImportResult) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "Centros\t%d\n", r.Centers)
	fmt.Fprintf(tw, "Filas base descartadas\t%d\n", r.BaseSkipped)
	fmt.Fprintf(tw, "Códigos repetidos\t%d\n", len(r.Collisions))
	for _, rep := range r.Reports {
		fmt.Fprintf(tw, "%s\t%d/%d cruzados, %d sin cruzar, %d descartados\n",
			rep.Dataset, rep.Matched, rep.Total, len(rep.Unmatched), rep.SkippedCount())
	}
	if !r.DryRun {
		fmt.Fprintf(tw, "Indexado en Meilisearch\t%t\n", r.Indexed)
	}
	fmt.Fprintf(tw, "Tiempo\t%d ms\n", r.ProcessingTimeMs)
	tw.Flush()
}

func init() {
	addSourceFlags(importCmd)
	rootCmd.AddCommand(importCmd)
}
