package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/aretw0/codebench"
	"github.com/aretw0/codebench/internal/config"
	"github.com/aretw0/codebench/pkg/adapters/file"
	loamAdapter "github.com/aretw0/codebench/pkg/adapters/loam"
	"github.com/aretw0/codebench/pkg/adapters/memory"
	redisAdapter "github.com/aretw0/codebench/pkg/adapters/redis"
	"github.com/aretw0/codebench/pkg/batch"
	"github.com/aretw0/codebench/pkg/ports"
	"github.com/aretw0/codebench/pkg/roster"
	"github.com/aretw0/codebench/pkg/vocabulary"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Options are the settings shared by every command. Zero values leave the
// configuration file untouched; flags only override what they set.
type Options struct {
	ConfigPath string
	Debug      bool

	Games       int
	Workers     int
	MaxTurns    int
	PoolSize    int
	Seed        *int64
	Words       string
	StoreKind   string
	StoreDir    string
	ProfilesDir string
	// Players restricts the roster to these names.
	Players []string
}

func (o Options) apply(cfg *config.Config) {
	if o.Games > 0 {
		cfg.Games = o.Games
	}
	if o.Workers > 0 {
		cfg.Workers = o.Workers
	}
	if o.MaxTurns > 0 {
		cfg.MaxTurns = o.MaxTurns
	}
	if o.PoolSize > 0 {
		cfg.PoolSize = o.PoolSize
	}
	if o.Seed != nil {
		cfg.Seed = *o.Seed
	}
	if o.Words != "" {
		cfg.Words = o.Words
	}
	if o.StoreKind != "" {
		cfg.Store.Kind = o.StoreKind
	}
	if o.StoreDir != "" {
		cfg.Store.Dir = o.StoreDir
	}
	if o.ProfilesDir != "" {
		cfg.ProfilesDir = o.ProfilesDir
	}
}

// Env is everything a command needs, built once from the configuration.
type Env struct {
	Config   *config.Config
	Logger   *slog.Logger
	Bench    *codebench.Bench
	Store    ports.ResultStore
	Metrics  *batch.Metrics
	Registry *prometheus.Registry

	closers []func() error
}

// Close releases the store connection, if any.
func (e *Env) Close() error {
	var errs []error
	for _, c := range e.closers {
		errs = append(errs, c())
	}
	return errors.Join(errs...)
}

// Setup loads the configuration and .env files, then wires the store, the
// roster, the vocabulary and the metrics registry into a Bench.
func Setup(ctx context.Context, opts Options, extra ...codebench.Option) (*Env, error) {
	cfg, err := config.Load(opts.ConfigPath, opts.ConfigPath != "")
	if err != nil {
		return nil, err
	}
	opts.apply(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger, err := createLogger(cfg.LogLevel, opts.Debug)
	if err != nil {
		return nil, err
	}
	if err := cfg.LoadEnv(); err != nil {
		return nil, err
	}

	env := &Env{Config: cfg, Logger: logger}

	env.Registry = prometheus.NewRegistry()
	env.Registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	env.Metrics = batch.NewMetrics(env.Registry)

	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	env.Store = store
	if closeStore != nil {
		env.closers = append(env.closers, closeStore)
	}

	profiles, err := loadProfiles(ctx, cfg, opts.Players)
	if err != nil {
		_ = env.Close()
		return nil, err
	}
	players, err := roster.Build(profiles, roster.BuildOptions{
		Logger:   logger,
		Observer: env.Metrics,
		Attempts: cfg.Agent.Attempts,
		Timeout:  cfg.Agent.Timeout,
	})
	if err != nil {
		_ = env.Close()
		return nil, err
	}

	words, err := vocabulary.NewSource(cfg.Words).Words(ctx)
	if err != nil {
		_ = env.Close()
		return nil, err
	}

	benchOpts := []codebench.Option{
		codebench.WithStore(store),
		codebench.WithLogger(logger),
		codebench.WithMetrics(env.Metrics),
		codebench.WithPoolSize(cfg.PoolSize),
		codebench.WithMaxTurns(cfg.MaxTurns),
		codebench.WithWorkers(cfg.Workers),
	}
	if cfg.Seed != 0 {
		benchOpts = append(benchOpts, codebench.WithSeed(cfg.Seed))
	}
	bench, err := codebench.New(players, words, append(benchOpts, extra...)...)
	if err != nil {
		_ = env.Close()
		return nil, err
	}
	env.Bench = bench

	logger.Debug("Environment ready",
		"store", cfg.Store.Kind, "players", bench.Players(), "words", len(words))
	return env, nil
}

// openStore builds the result store selected by the configuration.
func openStore(ctx context.Context, cfg *config.Config) (ports.ResultStore, func() error, error) {
	switch cfg.Store.Kind {
	case config.StoreMemory:
		return memory.NewStore(), nil, nil
	case config.StoreRedis:
		rc := cfg.Store.Redis
		var opts []redisAdapter.Option
		if rc.Prefix != "" {
			opts = append(opts, redisAdapter.WithPrefix(rc.Prefix))
		}
		if rc.TTL > 0 {
			opts = append(opts, redisAdapter.WithTTL(rc.TTL))
		}
		store := redisAdapter.New(rc.Addr, rc.Password, rc.DB, opts...)
		if err := store.Ping(ctx); err != nil {
			_ = store.Close()
			return nil, nil, fmt.Errorf("redis at %s: %w", rc.Addr, err)
		}
		return store, store.Close, nil
	default:
		return file.New(cfg.Store.Dir), nil, nil
	}
}

// loadProfiles merges configured players with the profiles directory. The
// directory wins on name clashes. Without either, two random players are used.
func loadProfiles(ctx context.Context, cfg *config.Config, only []string) ([]roster.Profile, error) {
	profiles := cfg.Players
	if cfg.ProfilesDir != "" {
		src, err := loamAdapter.Open(cfg.ProfilesDir)
		if err != nil {
			return nil, err
		}
		fromDir, err := src.Profiles(ctx)
		if err != nil {
			return nil, err
		}
		profiles = roster.Merge(profiles, fromDir)
	}
	if len(profiles) == 0 {
		profiles = config.DefaultPlayers()
	}

	if len(only) == 0 {
		return profiles, nil
	}
	var picked []roster.Profile
	for _, name := range only {
		i := slices.IndexFunc(profiles, func(p roster.Profile) bool { return p.Name == name })
		if i < 0 {
			return nil, fmt.Errorf("unknown player %q", name)
		}
		picked = append(picked, profiles[i])
	}
	return picked, nil
}
