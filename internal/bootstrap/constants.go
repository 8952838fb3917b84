package bootstrap

import "time"

// =============================================================================
// Database Pool
// =============================================================================

const (
	// DBMaxConnIdleTime closes idle connections after this long
	DBMaxConnIdleTime = 5 * time.Minute

	// DBMaxConnLifetime recycles connections after this long
	DBMaxConnLifetime = time.Hour

	// DBConnectTimeout bounds pool creation and migrations at startup
	DBConnectTimeout = 30 * time.Second
)

// =============================================================================
// Upstream Clients
// =============================================================================

const (
	// UpstreamMaxRetries is the retry budget for 5xx and transport failures
	UpstreamMaxRetries = 3

	// UpstreamRetryDelay is the base delay between retries
	UpstreamRetryDelay = 250 * time.Millisecond
)

// =============================================================================
// Shutdown
// =============================================================================

const (
	// ShutdownTimeout bounds graceful shutdown of every component
	ShutdownTimeout = 15 * time.Second
)

// Log messages for startup and shutdown
const (
	LogMsgLoggingInitialized   = "Logging initialized"
	LogMsgStarting             = "Starting ChocoboBot"
	LogMsgConfigurationLoaded  = "Configuration loaded"
	LogMsgConfigWarning        = "Configuration warning"
	LogMsgSchemaValidationOff  = "Payload schema validation disabled"
	LogMsgShuttingDown         = "Shutting down..."
	LogMsgServerForcedShutdown = "HTTP server forced to shutdown"
	LogMsgStopped              = "ChocoboBot stopped"
)
