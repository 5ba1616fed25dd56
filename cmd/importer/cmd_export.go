package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/centros-finder/app/models"
	"github.com/centros-finder/app/services"
	"github.com/centros-finder/internal/dataset"
	"github.com/centros-finder/internal/filter"
	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var exportOptions struct {
	origin   string
	out      string
	timeout  time.Duration
	criteria filter.Criteria
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Exporta a CSV los centros, ordenados por tiempo de viaje si hay origen",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, logger, err := loadSettings()
		if err != nil {
			return err
		}
		defer logger.Sync()

		origin := exportOptions.origin
		if origin == "" {
			origin = cfg.Export.Origin
		}
		if exportOptions.timeout > 0 {
			cfg.Ranking.Timeout = exportOptions.timeout
		}

		return withComponents(cmd.Context(), cfg, logger, func(comp *services.Components) error {
			svc := services.NewCenterService(comp.Store, comp.Ranker, nil, logger)

			centers, err := svc.Matching(cmd.Context(), exportOptions.criteria, "", nil)
			if err != nil {
				return err
			}

			if origin != "" {
				if comp.Ranker == nil {
					return services.ErrRankingUnavailable
				}
				ranker := comp.Ranker
				if isatty.IsTerminal(os.Stderr.Fd()) {
					bar := progressbar.NewOptions(len(centers),
						progressbar.OptionSetDescription("Calculando rutas"),
						progressbar.OptionSetWriter(os.Stderr),
						progressbar.OptionShowCount(),
						progressbar.OptionClearOnFinish(),
					)
					ranker = ranker.WithProgress(func() { _ = bar.Add(1) })
				}
				total := len(centers)
				centers = ranker.Rank(cmd.Context(), centers, origin)
				logger.Info("Centers ranked",
					zap.String("origin", origin),
					zap.Int("matched", total),
					zap.Int("ranked", len(centers)))
			}

			return writeExport(exportOptions.out, centers)
		})
	},
}

func writeExport(path string, centers []models.EducationalCenter) (err error) {
	if path == "" || path == "-" {
		return dataset.WriteCSV(os.Stdout, centers)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		err = errors.Join(err, f.Close())
	}()
	return dataset.WriteCSV(f, centers)
}

func init() {
	f := exportCmd.Flags()
	f.StringVar(&exportOptions.origin, "origin", "", "dirección de origen (por defecto export.origin)")
	f.StringVarP(&exportOptions.out, "out", "o", "-", "fichero CSV de salida")
	f.DurationVar(&exportOptions.timeout, "timeout", 0, "límite total del cálculo de rutas")
	f.StringVar(&exportOptions.criteria.Locality, "localidad", "", "filtra por localidad")
	f.StringVar(&exportOptions.criteria.Province, "provincia", "", "filtra por provincia")
	f.StringVar(&exportOptions.criteria.Stage, "etapa", "", "filtra por etapa (p. ej. eso)")
	f.StringVar(&exportOptions.criteria.CenterType, "tipo", "", "filtra por tipo de centro")
	rootCmd.AddCommand(exportCmd)
}
