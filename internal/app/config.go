package app

import (
	"strings"
	"time"

	"github.com/astrovows/starlight-backend/internal/logger"
	"github.com/astrovows/starlight-backend/internal/utils"
)

type Config struct {
	Addr        string
	Environment string
	Version     string

	// CatalogURL is the dataset source. CatalogDecompressed mirrors how
	// the transport delivers the payload; it is configuration the loader
	// honors exactly, never inferred from the stream.
	CatalogURL          string
	CatalogDecompressed bool
	CatalogWarmDelay    time.Duration
	CatalogFetchTimeout time.Duration

	AllowOrigins []string

	// DedicationsEnabled gates the persistence edge; the suggestion
	// engine runs without it.
	DedicationsEnabled bool
}

func LoadConfig(log *logger.Logger) Config {
	addr := utils.GetEnv("HTTP_ADDR", ":8080", log)
	env := utils.GetEnv("APP_ENV", "development", log)
	version := utils.GetEnv("APP_VERSION", "dev", log)

	catalogURL := utils.GetEnv("CATALOG_URL",
		"https://raw.githubusercontent.com/astronexus/HYG-Database/main/hyg/CURRENT/hygdata_v41.csv.gz", log)
	catalogDecompressed := utils.GetEnvAsBool("CATALOG_ALREADY_DECOMPRESSED", false, log)
	warmDelaySec := utils.GetEnvAsInt("CATALOG_WARM_DELAY_SECONDS", 3, log)
	fetchTimeoutSec := utils.GetEnvAsInt("CATALOG_FETCH_TIMEOUT_SECONDS", 30, log)

	var origins []string
	if raw := utils.GetEnv("CORS_ALLOW_ORIGINS", "", log); raw != "" {
		for _, o := range strings.Split(raw, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
	}

	return Config{
		Addr:                addr,
		Environment:         env,
		Version:             version,
		CatalogURL:          catalogURL,
		CatalogDecompressed: catalogDecompressed,
		CatalogWarmDelay:    time.Duration(warmDelaySec) * time.Second,
		CatalogFetchTimeout: time.Duration(fetchTimeoutSec) * time.Second,
		AllowOrigins:        origins,
		DedicationsEnabled:  utils.GetEnvAsBool("DEDICATIONS_ENABLED", true, log),
	}
}
