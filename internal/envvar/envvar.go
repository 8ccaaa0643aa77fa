package envvar

const (
	// SignbridgeEnv is the environment variable used to determine the environment
	SignbridgeEnv = "SIGNBRIDGE_ENV"

	// SignbridgeServerHTTPPort is the environment variable used to determine the HTTP port
	SignbridgeServerHTTPPort = "SIGNBRIDGE_SERVER_HTTP_PORT"

	// SignbridgeServerGRPCPort is the environment variable used to determine the gRPC port
	SignbridgeServerGRPCPort = "SIGNBRIDGE_SERVER_GRPC_PORT"

	// SignbridgeDataPath overrides the directory holding media, lexicon and caches.
	SignbridgeDataPath = "SIGNBRIDGE_DATA_PATH"

	// SignbridgeFFmpegPath overrides the ffmpeg binary location.
	SignbridgeFFmpegPath = "SIGNBRIDGE_FFMPEG_PATH"

	// SignbridgeFFprobePath overrides the ffprobe binary location.
	SignbridgeFFprobePath = "SIGNBRIDGE_FFPROBE_PATH"
)
