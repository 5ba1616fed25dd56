// Command importer loads the center datasets into MongoDB and exports
// ranked center lists.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/centros-finder/app/config"
	"github.com/centros-finder/app/services"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	configDir string
	verbose   bool
)

var rootCmd = &cobra.Command{
	Use:   "importer",
	Short: "Carga y exporta centros educativos",
	Long: `
importer carga el listado base de centros educativos, lo cruza con los
listados de centros bilingües y de compensatoria y lo guarda en MongoDB.
También exporta los centros ordenados por tiempo de viaje a CSV.
`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configDir, "config", "", "directorio de app.yaml")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log de depuración")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadSettings reads the configuration and builds the logger.
func loadSettings() (*config.Settings, *zap.Logger, error) {
	var paths []string
	if configDir != "" {
		paths = append(paths, configDir)
	}
	cfg, err := config.Load(paths...)
	if err != nil {
		return nil, nil, err
	}

	env := cfg.App.Env
	if verbose {
		env = "development"
	}
	logger, err := config.NewLogger(env)
	if err != nil {
		return nil, nil, fmt.Errorf("init logger: %w", err)
	}
	return cfg, logger, nil
}

// withComponents runs fn with connected components and closes them after.
func withComponents(ctx context.Context, cfg *config.Settings, logger *zap.Logger, fn func(*services.Components) error) error {
	comp, err := services.NewComponents(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := comp.Close(context.Background()); err != nil {
			logger.Warn("Closing components failed", zap.Error(err))
		}
	}()
	return fn(comp)
}
