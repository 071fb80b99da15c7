package config

const (
	DefaultHost      = "0.0.0.0"
	DefaultPort      = 8081
	DefaultTitle     = "Wekeza Downloads"
	DefaultChunkSize = 1024 * 1024 // bytes per read/write while streaming
	DefaultLogLevel  = "info"
	DefaultLogFormat = "text"
	EnvFile          = ".env"
)

// Environment variables that override the defaults. Flags override these.
const (
	EnvHost      = "GOSERVE_HOST"
	EnvPort      = "GOSERVE_PORT"
	EnvBaseDir   = "GOSERVE_BASE_DIR"
	EnvCatalog   = "GOSERVE_CATALOG"
	EnvTitle     = "GOSERVE_TITLE"
	EnvChunkSize = "GOSERVE_CHUNK_SIZE"
	EnvLogLevel  = "GOSERVE_LOG_LEVEL"
	EnvLogFormat = "GOSERVE_LOG_FORMAT"
	EnvLogFile   = "GOSERVE_LOG_FILE"
	EnvConsole   = "GOSERVE_CONSOLE"
)
