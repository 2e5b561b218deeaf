package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spigell/talentsage/internal/assistant"
	"github.com/spigell/talentsage/internal/persist"
	"github.com/spigell/talentsage/internal/recruitment"
	"github.com/spigell/talentsage/internal/secrets"
	"github.com/spigell/talentsage/internal/voice"
	"github.com/spigell/talentsage/internal/voice/gemini"
)

// application holds everything a command needs, built once from the config.
type application struct {
	config      *Config
	logger      *zap.Logger
	store       *recruitment.Store
	interpreter *assistant.Interpreter
	registry    *prometheus.Registry
	closers     []func() error
}

func newApplication(ctx context.Context, config *Config, logger *zap.Logger) (*application, error) {
	if config == nil {
		return nil, errors.New("config is required")
	}

	fixtures := recruitment.DefaultFixtures()
	if path := strings.TrimSpace(config.Fixtures); path != "" {
		loaded, err := recruitment.LoadFixtures(path)
		if err != nil {
			return nil, err
		}
		fixtures = loaded
		logger.Info("loaded fixtures", zap.String("file", path),
			zap.Int("jobs", len(fixtures.Jobs)), zap.Int("candidates", len(fixtures.Candidates)))
	}

	a := &application{config: config, logger: logger}

	rubrics, err := a.rubricStore(ctx)
	if err != nil {
		return nil, err
	}

	deps := &recruitment.Deps{Ctx: ctx, Logger: logger}
	if rubrics != nil {
		deps.Persister = rubrics
	}
	a.store = recruitment.NewStore(fixtures, deps)

	if rubrics != nil {
		if err := rubrics.Restore(ctx, a.store); err != nil {
			// a corrupted snapshot falls back to the seeded templates
			logger.Warn("restoring persisted rubrics failed", zap.Error(err))
		}
	}

	a.registry = prometheus.NewRegistry()
	a.registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	opts := []assistant.Option{
		assistant.WithLogger(logger),
		assistant.WithMetrics(assistant.NewMetrics(a.registry)),
	}
	if cfg := config.Assistant; cfg != nil {
		opts = append(opts, assistant.WithDelayer(assistant.SleepDelayer{Duration: cfg.Delay}))
		if cfg.ShortlistThreshold > 0 {
			opts = append(opts, assistant.WithThreshold(cfg.ShortlistThreshold))
		}
	}
	a.interpreter = assistant.NewInterpreter(a.store, opts...)

	return a, nil
}

func (a *application) rubricStore(ctx context.Context) (*persist.RubricStore, error) {
	cfg := a.config.Storage
	if cfg == nil {
		cfg = &StorageConfig{Backend: "memory"}
	}

	var blob persist.Blob
	switch strings.ToLower(strings.TrimSpace(cfg.Backend)) {
	case "", "file":
		if strings.TrimSpace(cfg.Path) == "" {
			return nil, errors.New("storage.path is required for the file backend")
		}
		blob = persist.NewFileBlob(cfg.Path)
		a.logger.Debug("using file storage", zap.String("path", cfg.Path))
	case "redis":
		if cfg.Redis == nil || strings.TrimSpace(cfg.Redis.Addr) == "" {
			return nil, errors.New("storage.redis.addr is required for the redis backend")
		}
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, fmt.Errorf("connecting to redis at %s: %w", cfg.Redis.Addr, err)
		}
		a.closers = append(a.closers, client.Close)
		blob = persist.NewRedisBlob(client, cfg.Redis.Key)
		a.logger.Debug("using redis storage", zap.String("addr", cfg.Redis.Addr))
	case "memory":
		a.logger.Debug("rubrics are not persisted")
		return nil, nil
	default:
		return nil, fmt.Errorf("unsupported storage backend: %s", cfg.Backend)
	}

	return persist.NewRubricStore(blob, a.logger), nil
}

// voiceAdapter builds the speech adapter when voice input is enabled.
func (a *application) voiceAdapter(ctx context.Context) (*voice.Adapter, error) {
	cfg := a.config.Voice
	if cfg == nil || !cfg.Enabled {
		return nil, errors.New("voice input is disabled (set voice.enabled)")
	}

	gcfg := cfg.Gemini
	if gcfg == nil {
		gcfg = &GeminiConfig{}
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name: "gemini api key",
		File: gcfg.APIKeyFile,
		Env:  "GEMINI_API_KEY",
	})
	if err != nil {
		return nil, fmt.Errorf("%w (set voice.gemini.api-key-file or GEMINI_API_KEY_FILE)", err)
	}

	transcriber, err := gemini.NewTranscriber(ctx, gemini.Config{
		APIKey:     apiKey,
		Model:      gcfg.Model,
		MaxRetries: gcfg.MaxRetries,
	}, a.logger)
	if err != nil {
		return nil, err
	}

	return voice.NewAdapter(transcriber, a.interpreter, a.logger), nil
}

func (a *application) Close() {
	for _, closer := range a.closers {
		if err := closer(); err != nil {
			a.logger.Warn("closing resource", zap.Error(err))
		}
	}
}
