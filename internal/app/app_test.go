package app

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ekisa-team/signbridge/internal/config"
	"github.com/ekisa-team/signbridge/internal/envvar"
	"github.com/ekisa-team/signbridge/internal/library"
	"github.com/ekisa-team/signbridge/internal/resolver"
	"github.com/ekisa-team/signbridge/internal/toolchain"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	t.Setenv(envvar.SignbridgeDataPath, t.TempDir())

	cfg := &config.Config{
		Version: "1",
		Toolchain: config.ToolchainConfig{
			FFmpeg:  "signbridge-test-no-ffmpeg",
			FFprobe: "signbridge-test-no-ffprobe",
		},
	}
	config.ApplyDefaults(cfg)

	require.NoError(t, os.MkdirAll(cfg.Library.VideoDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(cfg.Library.VideoDir, "HELLO.mp4"), []byte("clip"), 0o644))
	return cfg
}

func TestNew_WiresComponents(t *testing.T) {
	cfg := testConfig(t)

	a, err := New(context.Background(), cfg, nil)
	require.NoError(t, err)

	assert.Error(t, a.Media.Available())
	assert.True(t, a.Library.HasVideo("HELLO"))
	assert.FileExists(t, cfg.Lexicon.File)
	assert.DirExists(t, a.Composer.CacheDir())

	d := a.Signs.Resolve(context.Background(), []string{"hello", "thank"})
	require.Len(t, d, 2)
	assert.Equal(t, resolver.KindVideo, d[0].Kind)
	assert.Equal(t, resolver.KindMarkup, d[1].Kind)
}

func TestReload_RescansLibrary(t *testing.T) {
	cfg := testConfig(t)
	a, err := New(context.Background(), cfg, nil)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(cfg.Library.VideoDir, "GOODBYE.mp4"), []byte("clip"), 0o644))
	a.Reload(context.Background(), cfg)

	assert.True(t, a.Library.HasVideo("GOODBYE"))
}

func TestReload_AppliesSettingsAndKeepsStartupOnes(t *testing.T) {
	cfg := testConfig(t)
	a, err := New(context.Background(), cfg, nil)
	require.NoError(t, err)

	next := *cfg
	next.Composer.MaxAge = time.Hour
	next.Composer.CRF = cfg.Composer.CRF + 5
	next.Library.VideoDir = filepath.Join(t.TempDir(), "moved")
	next.Server.HTTPPort = cfg.Server.HTTPPort + 1
	a.Reload(context.Background(), &next)

	got := a.Config()
	assert.Equal(t, time.Hour, got.Composer.MaxAge)
	assert.Equal(t, cfg.Composer.CRF, got.Composer.CRF)
	assert.Equal(t, cfg.Library.VideoDir, got.Library.VideoDir)
	assert.Equal(t, cfg.Server.HTTPPort, got.Server.HTTPPort)
}

func TestRestartOnly(t *testing.T) {
	cfg := testConfig(t)

	same := *cfg
	same.Composer.MaxAge = cfg.Composer.MaxAge + time.Hour
	assert.Empty(t, restartOnly(cfg, &same))

	moved := *cfg
	moved.Composer.CacheDir = "/elsewhere"
	moved.Server.GRPCPort++
	assert.Equal(t, []string{"server", "composer"}, restartOnly(cfg, &moved))
}

func TestRefresh_UsesProberInstalledAfterStart(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses a shell script as ffprobe")
	}
	cfg := testConfig(t)
	a, err := New(context.Background(), cfg, nil)
	require.NoError(t, err)

	e, ok := a.Library.Entry("HELLO")
	require.True(t, ok)
	assert.Equal(t, library.DefaultDuration, e.Duration)

	script := filepath.Join(t.TempDir(), "ffprobe")
	require.NoError(t, os.WriteFile(script, []byte("#!/bin/sh\necho 2.5\n"), 0o755))
	a.Executor.Registry().Register(toolchain.ToolFFprobe, script)

	_, err = a.Signs.Refresh(context.Background())
	require.NoError(t, err)

	e, ok = a.Library.Entry("HELLO")
	require.True(t, ok)
	assert.InDelta(t, 2.5, e.Duration, 1e-9)
}

func TestPlanFromConfig(t *testing.T) {
	plan := PlanFromConfig(config.AssetsConfig{
		Placeholders: true,
		Tokens:       []string{"HELLO"},
		Sources: []config.AssetSource{
			{Name: "demo", Signs: map[string]string{"HELLO": "https://example.com/hello.mp4"}},
		},
	})

	assert.True(t, plan.Placeholders)
	assert.Equal(t, []string{"HELLO"}, plan.Tokens)
	require.Len(t, plan.Sources, 1)
	assert.Equal(t, "demo", plan.Sources[0].Name)
	assert.Equal(t, "https://example.com/hello.mp4", plan.Sources[0].Signs["HELLO"])
}

func TestProfileAndTimeoutsFromConfig(t *testing.T) {
	cfg := testConfig(t)
	cfg.Composer.Width = 480
	cfg.Composer.Preset = "medium"

	p := profileFrom(cfg)
	assert.Equal(t, 480, p.Width)
	assert.Equal(t, 720, p.Height)
	assert.Equal(t, "medium", p.Preset)

	to := timeoutsFrom(cfg)
	assert.Equal(t, cfg.Composer.ConcatTimeout, to.Concat)
	assert.Equal(t, cfg.Library.ProbeTimeout, to.Probe)
}
