// Package config loads service settings from config/app.yaml and the
// environment.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type AppConfig struct {
	Port string `mapstructure:"port"`
	Env  string `mapstructure:"env"`
}

type MongoConfig struct {
	URL        string `mapstructure:"url"`
	Database   string `mapstructure:"database"`
	Collection string `mapstructure:"collection"`
}

type RedisConfig struct {
	URL string `mapstructure:"url"`
}

// CacheConfig selects the route cache backend: memory, redis, mongo or hybrid.
type CacheConfig struct {
	Backend string        `mapstructure:"backend"`
	L1Size  int           `mapstructure:"l1_size"`
	TTL     time.Duration `mapstructure:"ttl"`
}

type MeiliConfig struct {
	Enabled   bool          `mapstructure:"enabled"`
	URL       string        `mapstructure:"url"`
	MasterKey string        `mapstructure:"master_key"`
	Index     string        `mapstructure:"index"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

type MapsConfig struct {
	APIKey            string `mapstructure:"api_key"`
	Language          string `mapstructure:"language"`
	Mode              string `mapstructure:"mode"`
	RequestsPerSecond int    `mapstructure:"requests_per_second"`
}

type RankingConfig struct {
	Workers       int           `mapstructure:"workers"`
	LookupTimeout time.Duration `mapstructure:"lookup_timeout"`
	Timeout       time.Duration `mapstructure:"timeout"`
}

// DatasetsConfig holds the CSV paths loaded by the importer.
type DatasetsConfig struct {
	Base         string `mapstructure:"base"`
	Bilingual    string `mapstructure:"bilingual"`
	Compensatory string `mapstructure:"compensatory"`
}

type ExportConfig struct {
	Origin string `mapstructure:"origin"`
}

// Settings is the full service configuration.
type Settings struct {
	App      AppConfig      `mapstructure:"app"`
	Mongo    MongoConfig    `mapstructure:"mongo"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Cache    CacheConfig    `mapstructure:"cache"`
	Meili    MeiliConfig    `mapstructure:"meilisearch"`
	Maps     MapsConfig     `mapstructure:"maps"`
	Ranking  RankingConfig  `mapstructure:"ranking"`
	Datasets DatasetsConfig `mapstructure:"datasets"`
	Export   ExportConfig   `mapstructure:"export"`
}

// IsProduction reports whether app.env is production.
func (s *Settings) IsProduction() bool {
	return s.App.Env == "production"
}

// C holds the settings of the last successful Load.
var C Settings

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.port", "8080")
	v.SetDefault("app.env", "development")
	v.SetDefault("mongo.url", "mongodb://localhost:27017")
	v.SetDefault("mongo.database", "CentrosEducativosCluster")
	v.SetDefault("mongo.collection", "CentrosAndalucia")
	v.SetDefault("redis.url", "redis://localhost:6379")
	v.SetDefault("cache.backend", "memory")
	v.SetDefault("cache.l1_size", 10000)
	v.SetDefault("cache.ttl", "168h")
	v.SetDefault("meilisearch.enabled", false)
	v.SetDefault("meilisearch.url", "http://localhost:7700")
	v.SetDefault("meilisearch.master_key", "")
	v.SetDefault("meilisearch.index", "centros")
	v.SetDefault("meilisearch.timeout", "10s")
	v.SetDefault("maps.api_key", "")
	v.SetDefault("maps.language", "es")
	v.SetDefault("maps.mode", "driving")
	v.SetDefault("maps.requests_per_second", 50)
	v.SetDefault("ranking.workers", 8)
	v.SetDefault("ranking.lookup_timeout", "10s")
	v.SetDefault("ranking.timeout", "60s")
	v.SetDefault("datasets.base", "data/centros.csv")
	v.SetDefault("datasets.bilingual", "data/bilingues.csv")
	v.SetDefault("datasets.compensatory", "data/compensatorios.csv")
	v.SetDefault("export.origin", "")
}

// Load reads app.yaml from the given directories (./config and . when none
// are given) and applies environment overrides such as MONGO_URL or
// MAPS_API_KEY. A missing file is not an error.
func Load(paths ...string) (*Settings, error) {
	v := viper.New()
	v.SetConfigName("app")
	v.SetConfigType("yaml")
	if len(paths) == 0 {
		paths = []string{"./config", "."}
	}
	for _, p := range paths {
		v.AddConfigPath(p)
	}

	setDefaults(v)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// Names used by earlier deployments
	_ = v.BindEnv("mongo.url", "MONGO_URL", "MONGO_DB_URI")
	_ = v.BindEnv("maps.api_key", "MAPS_API_KEY", "GOOGLE_MAPS_API_KEY")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	C = s
	return &s, nil
}
