package config

import (
	"flag"
	"strings"
	"time"
)

// ParseFlags parses all configuration flags.
//
// Flags:
//
//	-a server address in format [host]:[port]
//	-b/-base base directory for the collection store
//	-create create a new collection if not present
//	-c/-config json file path with configs
//	-api-key static API key clients must present
//	-token-sign-key bearer token signing key
//	-sync-key remote sync host key
//	-sync-endpoint remote sync endpoint base URL
//	-debounce-delay delay between a modification and the auto-sync (e.g. "2s")
//	-periodic-delay unconditional background sync cadence (e.g. "30m")
//	-io-timeout network timeout for one sync round trip (e.g. "30s")
//	-sync-media request media synchronization
//	-request-timeout HTTP request timeout (e.g. "30s", "1m")
//	-cors-origins comma-separated list of allowed CORS origins
//	-log-level log level name (debug, info, warn, error)
//	-log-file rotating log file path
func ParseFlags() *StructuredConfig {
	var serverAddress string
	var baseDir string
	var create bool
	var jsonConfigPath string
	var apiKey string
	var tokenSignKey string
	var syncKey string
	var syncEndpoint string
	var debounceDelay time.Duration
	var periodicDelay time.Duration
	var ioTimeout time.Duration
	var syncMedia bool
	var requestTimeout time.Duration
	var corsOrigins string
	var logLevel string
	var logFile string

	flag.StringVar(&serverAddress, "a", "", "Net address host:port")
	flag.StringVar(&baseDir, "b", "", "Base directory for the collection store")
	flag.StringVar(&baseDir, "base", "", "Base directory for the collection store (alias)")
	flag.BoolVar(&create, "create", false, "Create a new collection if not present")
	flag.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	flag.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")
	flag.StringVar(&apiKey, "api-key", "", "Static API key")
	flag.StringVar(&tokenSignKey, "token-sign-key", "", "Bearer token signing key")
	flag.StringVar(&syncKey, "sync-key", "", "Remote sync host key")
	flag.StringVar(&syncEndpoint, "sync-endpoint", "", "Remote sync endpoint base URL")
	flag.DurationVar(&debounceDelay, "debounce-delay", 0, "Auto-sync debounce delay (e.g. 2s)")
	flag.DurationVar(&periodicDelay, "periodic-delay", 0, "Periodic sync cadence (e.g. 30m)")
	flag.DurationVar(&ioTimeout, "io-timeout", 0, "Sync round trip timeout (e.g. 30s)")
	flag.BoolVar(&syncMedia, "sync-media", false, "Request media synchronization")
	flag.DurationVar(&requestTimeout, "request-timeout", 0, "Request timeout (e.g., 30s, 1m)")
	flag.StringVar(&corsOrigins, "cors-origins", "", "Comma-separated allowed CORS origins")
	flag.StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	flag.StringVar(&logFile, "log-file", "", "Rotating log file path")

	flag.Parse()

	var origins []string
	if corsOrigins != "" {
		origins = strings.Split(corsOrigins, ",")
	}

	return &StructuredConfig{
		App: App{
			APIKey:       apiKey,
			TokenSignKey: tokenSignKey,
			LogLevel:     logLevel,
			LogFile:      logFile,
		},
		Collection: Collection{
			BaseDir: baseDir,
			Create:  create,
		},
		Server: Server{
			HTTPAddress:    serverAddress,
			RequestTimeout: requestTimeout,
			CORSOrigins:    origins,
		},
		Sync: Sync{
			HostKey:       syncKey,
			Endpoint:      syncEndpoint,
			DebounceDelay: debounceDelay,
			PeriodicDelay: periodicDelay,
			IOTimeout:     ioTimeout,
			Media:         syncMedia,
		},
		JSONFilePath: jsonConfigPath,
	}
}
