// Package app wires configuration into the running components. Construction
// is explicit; there is no global state beyond the slog and OTel defaults.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ekisa-team/signbridge/internal/assets"
	"github.com/ekisa-team/signbridge/internal/composer"
	"github.com/ekisa-team/signbridge/internal/config"
	"github.com/ekisa-team/signbridge/internal/gesture"
	"github.com/ekisa-team/signbridge/internal/library"
	"github.com/ekisa-team/signbridge/internal/observe"
	grpcserver "github.com/ekisa-team/signbridge/internal/server/grpc"
	httpserver "github.com/ekisa-team/signbridge/internal/server/http"
	"github.com/ekisa-team/signbridge/internal/service"
	"github.com/ekisa-team/signbridge/internal/toolchain"
)

// App holds every long-lived component.
type App struct {
	config atomic.Pointer[config.Config]

	Metrics  *observe.Metrics
	Executor *toolchain.Executor
	Media    *toolchain.Media
	Library  *library.Index
	Codec    *gesture.Codec
	Composer *composer.Composer
	Signs    *service.Signs
}

// New builds the toolchain, library index, lexicon, composer and service from
// cfg. metrics may be nil.
func New(ctx context.Context, cfg *config.Config, metrics *observe.Metrics) (*App, error) {
	a := &App{Metrics: metrics}
	a.config.Store(cfg)

	a.Executor = toolchain.NewExecutor(toolchain.NewRegistry(map[toolchain.Tool]string{
		toolchain.ToolFFmpeg:  cfg.Toolchain.FFmpeg,
		toolchain.ToolFFprobe: cfg.Toolchain.FFprobe,
	}))
	if metrics != nil {
		a.Executor.SetObserver(func(ctx context.Context, tool toolchain.Tool, elapsed time.Duration, err error) {
			metrics.RecordTool(ctx, string(tool), elapsed, err)
		})
	}
	a.Media = toolchain.NewMedia(a.Executor, profileFrom(cfg), timeoutsFrom(cfg))

	if !a.Executor.Registry().Available(toolchain.ToolFFprobe) {
		slog.Warn("ffprobe not found, clip durations use defaults until it is installed")
	}

	var err error
	a.Library, err = library.Open(ctx, library.Options{
		VideoDir:             cfg.Library.VideoDir,
		FingerspellDir:       cfg.Library.FingerspellDir,
		IndexFile:            cfg.Library.IndexFile,
		Extensions:           cfg.Library.Extensions,
		Prober:               a.Media,
		Workers:              cfg.Library.ProbeWorkers,
		VideoURLPrefix:       cfg.Library.VideoURLPrefix,
		FingerspellURLPrefix: cfg.Library.FingerspellURLPrefix,
	})
	if err != nil {
		return nil, fmt.Errorf("app: failed to open library: %w", err)
	}

	a.Codec, err = gesture.NewCodec(ctx, gesture.NewStore(cfg.Lexicon.File))
	if err != nil {
		return nil, fmt.Errorf("app: failed to load lexicon: %w", err)
	}

	a.Composer, err = composer.New(a.Media, composer.Config{
		CacheDir:  cfg.Composer.CacheDir,
		Overlap:   cfg.Composer.CrossfadeSeconds,
		Workers:   cfg.Composer.Workers,
		MaxAge:    cfg.Composer.MaxAge,
		URLPrefix: cfg.Composer.SequenceURLPrefix,
	})
	if err != nil {
		return nil, fmt.Errorf("app: failed to create composer: %w", err)
	}

	a.Signs = service.NewSigns(a.Library, a.Codec, a.Composer, metrics)

	cov := a.Library.CoverageStats()
	slog.Info("Sign library ready",
		"signs", cov.TotalSigns,
		"letters", cov.FingerspellLetters,
		"lexicon", a.Codec.LexiconSize(),
		"toolchain", a.Media.Available() == nil,
	)
	return a, nil
}

// Config returns the configuration currently in effect.
func (a *App) Config() *config.Config {
	return a.config.Load()
}

// Reload applies a changed configuration and rescans the library. Only the
// eviction age and the seeding sources take effect live; every other section
// is bound to the running components until a restart.
func (a *App) Reload(ctx context.Context, cfg *config.Config) {
	prev := a.config.Load()
	if changed := restartOnly(prev, cfg); len(changed) > 0 {
		slog.Warn("Config change requires a restart to take effect", "sections", changed)
	}

	next := *prev
	next.Composer.MaxAge = cfg.Composer.MaxAge
	next.Assets = cfg.Assets
	a.config.Store(&next)

	cov, err := a.Signs.Refresh(ctx)
	if err != nil {
		slog.Error("Failed to refresh library after config reload", "error", err)
		return
	}
	slog.Info("Library refreshed after config reload", "signs", cov.TotalSigns)
}

// restartOnly lists the changed sections that are fixed at start-up.
func restartOnly(prev, next *config.Config) []string {
	var changed []string
	check := func(name string, a, b any) {
		if !reflect.DeepEqual(a, b) {
			changed = append(changed, name)
		}
	}

	composerPrev := prev.Composer
	composerPrev.MaxAge = next.Composer.MaxAge

	check("server", prev.Server, next.Server)
	check("log", prev.Log, next.Log)
	check("library", prev.Library, next.Library)
	check("lexicon", prev.Lexicon, next.Lexicon)
	check("composer", composerPrev, next.Composer)
	check("toolchain", prev.Toolchain, next.Toolchain)
	return changed
}

// Seeder builds an asset seeder for the configured library directories.
func (a *App) Seeder(opts ...assets.Option) (*assets.Seeder, error) {
	cfg := a.Config()
	opts = append([]assets.Option{
		assets.WithPlaceholder(a.Media),
		assets.WithExtensions(cfg.Library.Extensions),
	}, opts...)
	return assets.NewSeeder(cfg.Library.VideoDir, cfg.Library.FingerspellDir, opts...)
}

// SeedPlan converts the configured asset sources into a seeding plan.
func (a *App) SeedPlan() assets.Plan {
	return PlanFromConfig(a.Config().Assets)
}

// PlanFromConfig maps configured asset sources onto a seeding plan.
func PlanFromConfig(cfg config.AssetsConfig) assets.Plan {
	plan := assets.Plan{
		Placeholders: cfg.Placeholders,
		Tokens:       cfg.Tokens,
	}
	for _, src := range cfg.Sources {
		plan.Sources = append(plan.Sources, assets.Source{
			Name:    src.Name,
			Signs:   src.Signs,
			Letters: src.Letters,
		})
	}
	return plan
}

// Serve runs the HTTP and gRPC servers until ctx is cancelled or either fails.
func (a *App) Serve(ctx context.Context, version string) error {
	cfg := a.Config()

	httpSrv := httpserver.NewServer(httpserver.Config{
		Port:    cfg.Server.HTTPPort,
		Version: version,
		Mounts: []httpserver.Mount{
			{Prefix: cfg.Library.VideoURLPrefix, Dir: cfg.Library.VideoDir, Extensions: cfg.Library.Extensions},
			{Prefix: cfg.Library.FingerspellURLPrefix, Dir: cfg.Library.FingerspellDir, Extensions: cfg.Library.Extensions},
			{Prefix: cfg.Composer.SequenceURLPrefix, Dir: a.Composer.CacheDir(), Extensions: []string{".mp4"}},
		},
		EvictMaxAge: cfg.Composer.MaxAge,
	}, a.Signs, a.Metrics, nil)

	grpcSrv := grpcserver.New(cfg.Server.GRPCPort)
	grpcSrv.SetServing(true)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return httpSrv.ListenAndServe(ctx) })
	g.Go(func() error { return grpcSrv.ListenAndServe(ctx) })
	g.Go(func() error {
		a.evictLoop(ctx)
		return nil
	})
	return g.Wait()
}

// evictLoop removes stale sequences once a day.
func (a *App) evictLoop(ctx context.Context) {
	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n, err := a.Signs.Evict(a.Config().Composer.MaxAge); err != nil {
				slog.Warn("Sequence eviction incomplete", "removed", n, "error", err)
			} else if n > 0 {
				slog.Info("Evicted stale sequences", "removed", n)
			}
		}
	}
}

func profileFrom(cfg *config.Config) toolchain.Profile {
	p := toolchain.DefaultProfile()
	c := cfg.Composer
	if c.Width > 0 {
		p.Width = c.Width
	}
	if c.Height > 0 {
		p.Height = c.Height
	}
	if c.FPS > 0 {
		p.FPS = c.FPS
	}
	if c.CRF > 0 {
		p.CRF = c.CRF
	}
	if c.Preset != "" {
		p.Preset = c.Preset
	}
	return p
}

func timeoutsFrom(cfg *config.Config) toolchain.Timeouts {
	t := toolchain.DefaultTimeouts()
	if cfg.Library.ProbeTimeout > 0 {
		t.Probe = cfg.Library.ProbeTimeout
	}
	if cfg.Composer.NormalizeTimeout > 0 {
		t.Normalize = cfg.Composer.NormalizeTimeout
	}
	if cfg.Composer.ConcatTimeout > 0 {
		t.Concat = cfg.Composer.ConcatTimeout
	}
	if cfg.Composer.CrossfadeTimeout > 0 {
		t.Crossfade = cfg.Composer.CrossfadeTimeout
	}
	return t
}
