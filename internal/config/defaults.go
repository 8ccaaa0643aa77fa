package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"time"

	"github.com/ekisa-team/signbridge/internal/envvar"
	"github.com/ekisa-team/signbridge/internal/xfs"
)

const (
	defaultHTTPPort = 8000
	defaultGRPCPort = 50051
)

// DefaultConfigPath returns the default path for the signbridge config directory.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "signbridge", "config")
	}

	switch runtime.GOOS {
	case "windows":
		return filepath.Join(home, "AppData", "Roaming", "signbridge")
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "signbridge")
	default: // Linux, BSD, etc.
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "signbridge")
		}
		return filepath.Join(home, ".config", "signbridge")
	}
}

// DefaultDataPath returns the default path for media, lexicon and cache files.
// SIGNBRIDGE_DATA_PATH takes precedence over the platform default.
func DefaultDataPath() string {
	if p := os.Getenv(envvar.SignbridgeDataPath); p != "" {
		return xfs.ExpandTilde(p)
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "signbridge", "data")
	}

	switch runtime.GOOS {
	case "windows":
		return filepath.Join(home, "AppData", "Local", "signbridge")
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "signbridge", "data")
	default:
		if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
			return filepath.Join(xdg, "signbridge")
		}
		return filepath.Join(home, ".local", "share", "signbridge")
	}
}

// DefaultHTTPPort returns the HTTP port from SIGNBRIDGE_SERVER_HTTP_PORT or the built-in default.
func DefaultHTTPPort() int {
	return portFromEnv(envvar.SignbridgeServerHTTPPort, defaultHTTPPort)
}

// DefaultGRPCPort returns the gRPC port from SIGNBRIDGE_SERVER_GRPC_PORT or the built-in default.
func DefaultGRPCPort() int {
	return portFromEnv(envvar.SignbridgeServerGRPCPort, defaultGRPCPort)
}

func portFromEnv(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if p, err := strconv.Atoi(v); err == nil && p > 0 {
			return p
		}
	}
	return fallback
}

// Default returns a fully populated configuration rooted at DefaultDataPath.
func Default() *Config {
	cfg := &Config{Version: "1"}
	ApplyDefaults(cfg)
	return cfg
}

// ApplyDefaults fills every zero-valued field of cfg. Relative directories are
// resolved against the data path.
func ApplyDefaults(cfg *Config) {
	data := DefaultDataPath()

	if cfg.Server.HTTPPort == 0 {
		cfg.Server.HTTPPort = DefaultHTTPPort()
	}
	if cfg.Server.GRPCPort == 0 {
		cfg.Server.GRPCPort = DefaultGRPCPort()
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.File == "" {
		cfg.Log.File = filepath.Join(data, "logs", "signbridge.log")
	}

	lib := &cfg.Library
	lib.VideoDir = resolveDir(data, lib.VideoDir, "asl_video_library")
	lib.FingerspellDir = resolveDir(data, lib.FingerspellDir, "asl_fingerspelling")
	if lib.IndexFile == "" {
		lib.IndexFile = filepath.Join(lib.VideoDir, "video_index.json")
	}
	lib.IndexFile = xfs.ExpandTilde(lib.IndexFile)
	if len(lib.Extensions) == 0 {
		lib.Extensions = []string{".mp4", ".webm"}
	}
	if lib.ProbeTimeout == 0 {
		lib.ProbeTimeout = 5 * time.Second
	}
	if lib.ProbeWorkers == 0 {
		lib.ProbeWorkers = runtime.NumCPU()
	}
	if lib.VideoURLPrefix == "" {
		lib.VideoURLPrefix = "/asl-videos"
	}
	if lib.FingerspellURLPrefix == "" {
		lib.FingerspellURLPrefix = "/asl-fingerspelling"
	}

	if cfg.Lexicon.File == "" {
		cfg.Lexicon.File = filepath.Join(data, "sigml_lexicon", "asl_lexicon.yaml")
	}
	cfg.Lexicon.File = xfs.ExpandTilde(cfg.Lexicon.File)

	c := &cfg.Composer
	c.CacheDir = resolveDir(data, c.CacheDir, "concatenated_sequences")
	if c.Width == 0 {
		c.Width = 720
	}
	if c.Height == 0 {
		c.Height = 720
	}
	if c.FPS == 0 {
		c.FPS = 30
	}
	if c.CRF == 0 {
		c.CRF = 23
	}
	if c.Preset == "" {
		c.Preset = "veryfast"
	}
	if c.CrossfadeSeconds == 0 {
		c.CrossfadeSeconds = 0.25
	}
	if c.NormalizeTimeout == 0 {
		c.NormalizeTimeout = 30 * time.Second
	}
	if c.ConcatTimeout == 0 {
		c.ConcatTimeout = 60 * time.Second
	}
	if c.CrossfadeTimeout == 0 {
		c.CrossfadeTimeout = 120 * time.Second
	}
	if c.Workers == 0 {
		c.Workers = runtime.NumCPU()
	}
	if c.MaxAge == 0 {
		c.MaxAge = 7 * 24 * time.Hour
	}
	if c.SequenceURLPrefix == "" {
		c.SequenceURLPrefix = "/asl-sequences"
	}

	if cfg.Toolchain.FFmpeg == "" {
		cfg.Toolchain.FFmpeg = envOr(envvar.SignbridgeFFmpegPath, "ffmpeg")
	}
	if cfg.Toolchain.FFprobe == "" {
		cfg.Toolchain.FFprobe = envOr(envvar.SignbridgeFFprobePath, "ffprobe")
	}
}

func resolveDir(data, dir, fallback string) string {
	if dir == "" {
		return filepath.Join(data, fallback)
	}
	dir = xfs.ExpandTilde(dir)
	if !filepath.IsAbs(dir) {
		return filepath.Join(data, dir)
	}
	return dir
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
