package shared

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv      string
	HTTPAddr    string
	MetricsAddr string
	MySQLDSN    string
	RedisAddr   string
	RedisDB     int
	RedisPass   string

	// Pipeline knobs. NeighborK and OutlierCeiling are the fixed constants
	// the pipeline was designed around; change them only together with a
	// retrain.
	NeighborK      int
	OutlierCeiling float64
	RidgeAlpha     float64
	TestFraction   float64
	SplitSeed      int64

	// Seeder
	SeedCount   int
	SeedWorkers int
	SeedSeed    int64

	// Predict route throttle, requests per second.
	PredictRPS int
}

func Load() Config {
	// Local dev convenience; absent .env is fine.
	_ = godotenv.Load()

	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
		}
		return def
	}
	atof := func(k string, def float64) float64 {
		if v := os.Getenv(k); v != "" {
			if f, err := strconv.ParseFloat(v, 64); err == nil {
				return f
			}
		}
		return def
	}
	c := Config{
		AppEnv:         env("APP_ENV", "prod"),
		HTTPAddr:       env("HTTP_ADDR", ":8080"),
		MetricsAddr:    env("METRICS_ADDR", ":9100"),
		MySQLDSN:       env("MYSQL_DSN", "root:root@tcp(localhost:3306)/staypricer?parseTime=true&charset=utf8mb4,utf8&loc=UTC"),
		RedisAddr:      env("REDIS_ADDR", "localhost:6379"),
		RedisDB:        atoi("REDIS_DB", 0),
		RedisPass:      env("REDIS_PASSWORD", ""),
		NeighborK:      atoi("NEIGHBOR_K", 5),
		OutlierCeiling: atof("OUTLIER_CEILING", 5000),
		RidgeAlpha:     atof("RIDGE_ALPHA", 1.0),
		TestFraction:   atof("TEST_FRACTION", 0.2),
		SplitSeed:      int64(atoi("SPLIT_SEED", 42)),
		SeedCount:      atoi("SEED_COUNT", 5000),
		SeedWorkers:    atoi("SEED_WORKERS", 8),
		SeedSeed:       int64(atoi("SEED_SEED", 1)),
		PredictRPS:     atoi("PREDICT_RPS", 50),
	}
	if c.NeighborK <= 0 {
		log.Warn().Int("k", c.NeighborK).Msg("NEIGHBOR_K must be positive, using 5")
		c.NeighborK = 5
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
