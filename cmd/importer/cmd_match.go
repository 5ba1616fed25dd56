package main

import (
	"fmt"
	"os"

	"github.com/centros-finder/app/services"
	"github.com/spf13/cobra"
)

var matchShowUnmatched bool

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Cruza los listados sin guardar nada e informa de las coincidencias",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, logger, err := loadSettings()
		if err != nil {
			return err
		}
		defer logger.Sync()

		importer, err := services.NewImportService(nil, nil, logger)
		if err != nil {
			return err
		}

		configured := services.ImportSources{
			Base:         cfg.Datasets.Base,
			Bilingual:    cfg.Datasets.Bilingual,
			Compensatory: cfg.Datasets.Compensatory,
		}
		_, result, err := importer.Link(resolveSources(configured))
		if err != nil {
			return fmt.Errorf("match: %w", err)
		}
		result.DryRun = true
		printReport(os.Stdout, result)

		if matchShowUnmatched {
			for _, rep := range result.Reports {
				for _, u := range rep.Unmatched {
					fmt.Printf("%s:%d\t%s\t%s", rep.Dataset, u.Line, u.Code, u.Name)
					if u.Suggestion != "" {
						fmt.Printf("\t(¿%s?)", u.Suggestion)
					}
					fmt.Println()
				}
			}
		}
		return nil
	},
}

func init() {
	addSourceFlags(matchCmd)
	matchCmd.Flags().BoolVar(&matchShowUnmatched, "unmatched", false, "lista los códigos sin cruzar")
	rootCmd.AddCommand(matchCmd)
}
