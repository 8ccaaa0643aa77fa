package config

import "time"

// Config holds the main configuration for the application.
type Config struct {
	Version   string          `json:"version"             yaml:"version"`
	Server    ServerConfig    `json:"server,omitempty"    yaml:"server,omitempty"`
	Log       LogConfig       `json:"log,omitempty"       yaml:"log,omitempty"`
	Library   LibraryConfig   `json:"library,omitempty"   yaml:"library,omitempty"`
	Lexicon   LexiconConfig   `json:"lexicon,omitempty"   yaml:"lexicon,omitempty"`
	Composer  ComposerConfig  `json:"composer,omitempty"  yaml:"composer,omitempty"`
	Toolchain ToolchainConfig `json:"toolchain,omitempty" yaml:"toolchain,omitempty"`
	Assets    AssetsConfig    `json:"assets,omitempty"    yaml:"assets,omitempty"`
}

// ServerConfig holds the listener settings for the HTTP and gRPC servers.
type ServerConfig struct {
	HTTPPort int `json:"http_port,omitempty" yaml:"http_port,omitempty"`
	GRPCPort int `json:"grpc_port,omitempty" yaml:"grpc_port,omitempty"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `json:"level,omitempty"   yaml:"level,omitempty"`
	ToFile bool   `json:"to_file,omitempty" yaml:"to_file,omitempty"`
	File   string `json:"file,omitempty"    yaml:"file,omitempty"`
}

// LibraryConfig describes the recorded sign-video library.
type LibraryConfig struct {
	VideoDir             string        `json:"video_dir,omitempty"              yaml:"video_dir,omitempty"`
	FingerspellDir       string        `json:"fingerspell_dir,omitempty"        yaml:"fingerspell_dir,omitempty"`
	IndexFile            string        `json:"index_file,omitempty"             yaml:"index_file,omitempty"`
	Extensions           []string      `json:"extensions,omitempty"             yaml:"extensions,omitempty"`
	ProbeTimeout         time.Duration `json:"probe_timeout,omitempty"          yaml:"probe_timeout,omitempty"`
	ProbeWorkers         int           `json:"probe_workers,omitempty"          yaml:"probe_workers,omitempty"`
	VideoURLPrefix       string        `json:"video_url_prefix,omitempty"       yaml:"video_url_prefix,omitempty"`
	FingerspellURLPrefix string        `json:"fingerspell_url_prefix,omitempty" yaml:"fingerspell_url_prefix,omitempty"`
}

// LexiconConfig points at the persisted gesture lexicon.
type LexiconConfig struct {
	File string `json:"file,omitempty" yaml:"file,omitempty"`
}

// ComposerConfig holds sequence composition settings.
type ComposerConfig struct {
	CacheDir          string        `json:"cache_dir,omitempty"           yaml:"cache_dir,omitempty"`
	Width             int           `json:"width,omitempty"               yaml:"width,omitempty"`
	Height            int           `json:"height,omitempty"              yaml:"height,omitempty"`
	FPS               int           `json:"fps,omitempty"                 yaml:"fps,omitempty"`
	CRF               int           `json:"crf,omitempty"                 yaml:"crf,omitempty"`
	Preset            string        `json:"preset,omitempty"              yaml:"preset,omitempty"`
	CrossfadeSeconds  float64       `json:"crossfade_seconds,omitempty"   yaml:"crossfade_seconds,omitempty"`
	NormalizeTimeout  time.Duration `json:"normalize_timeout,omitempty"   yaml:"normalize_timeout,omitempty"`
	ConcatTimeout     time.Duration `json:"concat_timeout,omitempty"      yaml:"concat_timeout,omitempty"`
	CrossfadeTimeout  time.Duration `json:"crossfade_timeout,omitempty"   yaml:"crossfade_timeout,omitempty"`
	Workers           int           `json:"workers,omitempty"             yaml:"workers,omitempty"`
	MaxAge            time.Duration `json:"max_age,omitempty"             yaml:"max_age,omitempty"`
	SequenceURLPrefix string        `json:"sequence_url_prefix,omitempty" yaml:"sequence_url_prefix,omitempty"`
}

// ToolchainConfig locates the external media binaries.
type ToolchainConfig struct {
	FFmpeg  string `json:"ffmpeg,omitempty"  yaml:"ffmpeg,omitempty"`
	FFprobe string `json:"ffprobe,omitempty" yaml:"ffprobe,omitempty"`
}

// AssetsConfig lists where sign clips can be fetched from when seeding the library.
type AssetsConfig struct {
	Sources      []AssetSource `json:"sources,omitempty"      yaml:"sources,omitempty"`
	Placeholders bool          `json:"placeholders,omitempty" yaml:"placeholders,omitempty"`
	Tokens       []string      `json:"tokens,omitempty"       yaml:"tokens,omitempty"`
}

// AssetSource maps sign tokens (or single letters) to downloadable clip URLs.
type AssetSource struct {
	Name    string            `json:"name"              yaml:"name"`
	Signs   map[string]string `json:"signs,omitempty"   yaml:"signs,omitempty"`
	Letters map[string]string `json:"letters,omitempty" yaml:"letters,omitempty"`
}
