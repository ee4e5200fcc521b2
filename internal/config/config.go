package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	DefaultBind             = ":8080"
	DefaultVectorDBPath     = "praline-vectors.db"
	DefaultCLIPURL          = "http://localhost:3003"
	DefaultCLIPModel        = "ViT-B-32__openai"
	DefaultCLIPDimensions   = 512
	DefaultExploreMaxFields = 12
	DefaultExploreMinAssets = 5
)

type AuthMode string

const (
	AuthNone   AuthMode = "none"
	AuthAPIKey AuthMode = "apikey"
	AuthOIDC   AuthMode = "oidc"
)

// MachineLearning holds the settings for the external embedding service.
type MachineLearning struct {
	URL            string
	CLIPModel      string
	CLIPDimensions int
	CLIPEnabled    bool
}

type Config struct {
	Bind               string
	DBDSN              string
	VectorDBPath       string
	SearchEnabled      bool
	ExploreMaxFields   int
	ExploreMinAssets   int
	ML                 MachineLearning
	AuthMode           AuthMode
	APIKeysFile        string
	CORSAllowedOrigins []string
	LogLevel           string
	SwaggerUIPath      string
	OpenAPIPath        string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Bind:             getenv("PRALINE_BIND", DefaultBind),
		VectorDBPath:     getenv("PRALINE_VECTOR_DB_PATH", DefaultVectorDBPath),
		SearchEnabled:    getBool("PRALINE_SEARCH_ENABLED", true),
		ExploreMaxFields: getInt("PRALINE_EXPLORE_MAX_FIELDS", DefaultExploreMaxFields),
		ExploreMinAssets: getInt("PRALINE_EXPLORE_MIN_ASSETS", DefaultExploreMinAssets),
		ML: MachineLearning{
			URL:            getenv("PRALINE_ML_URL", DefaultCLIPURL),
			CLIPModel:      getenv("PRALINE_CLIP_MODEL", DefaultCLIPModel),
			CLIPDimensions: getInt("PRALINE_CLIP_DIMENSIONS", DefaultCLIPDimensions),
			CLIPEnabled:    getBool("PRALINE_CLIP_ENABLED", true),
		},
		AuthMode:           AuthMode(getenv("PRALINE_AUTH_MODE", string(AuthAPIKey))),
		CORSAllowedOrigins: splitAndTrim(os.Getenv("PRALINE_CORS_ALLOWED_ORIGINS")),
		LogLevel:           os.Getenv("PRALINE_LOG_LEVEL"),
		SwaggerUIPath:      "/swagger",
		OpenAPIPath:        "/openapi.yaml",
	}

	cfg.DBDSN = os.Getenv("PRALINE_DB_DSN")
	if cfg.DBDSN == "" {
		return nil, fmt.Errorf("PRALINE_DB_DSN is required")
	}

	switch cfg.AuthMode {
	case AuthNone, AuthAPIKey, AuthOIDC:
	default:
		return nil, fmt.Errorf("invalid PRALINE_AUTH_MODE: %s", cfg.AuthMode)
	}

	if cfg.AuthMode == AuthAPIKey {
		cfg.APIKeysFile = getenv("PRALINE_API_KEYS_FILE", "api-keys.yaml")
		if cfg.APIKeysFile == "" {
			return nil, fmt.Errorf("PRALINE_API_KEYS_FILE is required when PRALINE_AUTH_MODE=apikey")
		}
	}

	if cfg.ML.CLIPDimensions <= 0 {
		return nil, fmt.Errorf("PRALINE_CLIP_DIMENSIONS must be positive")
	}

	return cfg, nil
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
	}
	return def
}

func getBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		v = strings.ToLower(strings.TrimSpace(v))
		return v == "1" || v == "true" || v == "yes" || v == "y"
	}
	return def
}

func splitAndTrim(input string) []string {
	if input == "" {
		return nil
	}
	parts := strings.Split(input, ",")
	var out []string
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
