package main

import (
	"errors"

	"github.com/centros-finder/app/services"
	"github.com/centros-finder/internal/filter"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Reconstruye el índice de Meilisearch desde los centros guardados",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, logger, err := loadSettings()
		if err != nil {
			return err
		}
		defer logger.Sync()
		cfg.Meili.Enabled = true

		return withComponents(cmd.Context(), cfg, logger, func(comp *services.Components) error {
			if comp.Searcher == nil {
				return errors.New("meilisearch is not reachable")
			}
			centers, err := comp.Store.Find(cmd.Context(), filter.Set{})
			if err != nil {
				return err
			}
			if len(centers) == 0 {
				return services.ErrNoCenters
			}
			if err := comp.Searcher.IndexCenters(centers); err != nil {
				return err
			}
			logger.Info("Search index rebuilt", zap.Int("centers", len(centers)))
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(indexCmd)
}
