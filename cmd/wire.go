package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	chainstore "github.com/bnema/geowhisper/internal/adapters/durable/chain"
	tomlstore "github.com/bnema/geowhisper/internal/adapters/durable/toml"
	"github.com/bnema/geowhisper/internal/adapters/places/geoapify"
	poirender "github.com/bnema/geowhisper/internal/adapters/render/pois"
	"github.com/bnema/geowhisper/internal/adapters/secrets/pass"
	"github.com/bnema/geowhisper/internal/application"
	"github.com/bnema/geowhisper/internal/ports"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	configKeyAPIKey        = "geoapify.api_key"
	configKeyAPIKeyPass    = "geoapify.api_key_pass"
	configKeyBaseURL       = "geoapify.base_url"
	configKeyLimit         = "geoapify.limit"
	configKeyCategoryDelay = "geoapify.category_delay"
	configKeyTimeout       = "geoapify.timeout"
	configKeyFallbackDir   = "store.fallback_dir"
	configKeyDebounce      = "sync.debounce"
	configKeyLogLevel      = "log.level"

	envPrefix = "GW"
	stateDir  = ".geowhisper"
)

type app struct {
	store    *application.Store
	engine   *application.SyncEngine
	places   *geoapify.Client
	renderer func(poirender.View, poirender.RenderOptions) (string, error)
	logger   *slog.Logger
	logLevel *slog.LevelVar
	now      func() time.Time
	loaded   bool
}

func wireApp() (*app, error) {
	if err := loadDotEnv(".env"); err != nil {
		return nil, err
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolve home directory: %w", err)
	}

	cfg := newConfig(homeDir)
	if err := readConfig(cfg, homeDir); err != nil {
		return nil, err
	}

	logLevel := &slog.LevelVar{}
	if err := setLogLevel(logLevel, cfg.GetString(configKeyLogLevel)); err != nil {
		return nil, err
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))

	durable, err := chainstore.NewTOMLFirstWithFileFallback(cfg, cfg.GetString(configKeyFallbackDir))
	if err != nil {
		return nil, fmt.Errorf("wire durable store chain: %w", err)
	}

	store := application.NewStore(durable, application.StoreOptions{
		Clock:  ports.SystemClock{},
		Logger: logger.With("component", "store"),
	})

	places := geoapify.NewClient(geoapify.Config{
		BaseURL:       cfg.GetString(configKeyBaseURL),
		APIKey:        cfg.GetString(configKeyAPIKey),
		KeySource:     pass.NewSource(),
		KeyName:       cfg.GetString(configKeyAPIKeyPass),
		Limit:         cfg.GetInt(configKeyLimit),
		CategoryDelay: cfg.GetDuration(configKeyCategoryDelay),
		HTTPClient:    &http.Client{Timeout: cfg.GetDuration(configKeyTimeout)},
		Logger:        logger.With("component", "geoapify"),
	})

	engine := application.NewSyncEngine(store, places, application.SyncOptions{
		Debounce: cfg.GetDuration(configKeyDebounce),
		Logger:   logger.With("component", "sync"),
	})

	return &app{
		store:    store,
		engine:   engine,
		places:   places,
		renderer: poirender.Render,
		logger:   logger,
		logLevel: logLevel,
		now:      time.Now,
	}, nil
}

// newConfig layers GW_* environment variables over ~/.geowhisper/config.toml.
func newConfig(homeDir string) *viper.Viper {
	cfg := viper.New()
	cfg.SetEnvPrefix(envPrefix)
	cfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	cfg.AutomaticEnv()

	defaults := geoapify.DefaultConfig()
	cfg.SetDefault(configKeyBaseURL, defaults.BaseURL)
	cfg.SetDefault(configKeyLimit, defaults.Limit)
	cfg.SetDefault(configKeyCategoryDelay, defaults.CategoryDelay)
	cfg.SetDefault(configKeyTimeout, geoapify.DefaultTimeout)
	cfg.SetDefault(configKeyFallbackDir, filepath.Join(homeDir, stateDir, "state.d"))
	cfg.SetDefault(configKeyDebounce, application.DefaultSyncDebounce)
	cfg.SetDefault(configKeyLogLevel, "info")
	cfg.SetDefault(tomlstore.StorePathKey, filepath.Join(homeDir, stateDir, "state.toml"))

	return cfg
}

func readConfig(cfg *viper.Viper, homeDir string) error {
	cfg.SetConfigName("config")
	cfg.SetConfigType("toml")
	cfg.AddConfigPath(filepath.Join(homeDir, stateDir))

	if err := cfg.ReadInConfig(); err != nil {
		var configNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configNotFound) {
			return fmt.Errorf("read config file: %w", err)
		}
	}

	return nil
}

func loadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load %s: %w", path, err)
	}

	return nil
}

func setLogLevel(level *slog.LevelVar, raw string) error {
	if strings.TrimSpace(raw) == "" {
		return nil
	}

	var parsed slog.Level
	if err := parsed.UnmarshalText([]byte(strings.TrimSpace(raw))); err != nil {
		return fmt.Errorf("invalid log level %q: %w", raw, err)
	}
	level.Set(parsed)

	return nil
}

// load reads persisted settings and manual POIs once per process.
func (a *app) load(ctx context.Context) error {
	if a.loaded {
		return nil
	}
	if err := a.store.Load(ctx); err != nil {
		return err
	}
	a.loaded = true

	return nil
}
