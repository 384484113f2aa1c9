package startup

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/ray-u/bare-photos/internal/exiftool"
	"github.com/ray-u/bare-photos/internal/logging"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
)

// Build-time variables (injected via -ldflags)
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
	GoVersion = runtime.Version()
)

// Favorites persistence backends accepted by FAVORITES_BACKEND.
const (
	FavoritesBackendJSON   = "json"
	FavoritesBackendSQLite = "sqlite"
)

// BuildInfo contains version and build information
type BuildInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildTime string `json:"buildTime"`
	GoVersion string `json:"goVersion"`
	OS        string `json:"os"`
	Arch      string `json:"arch"`
}

// GetBuildInfo returns the current build information
func GetBuildInfo() BuildInfo {
	return BuildInfo{
		Version:   Version,
		Commit:    Commit,
		BuildTime: BuildTime,
		GoVersion: GoVersion,
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
	}
}

// RouteInfo contains information about a registered route
type RouteInfo struct {
	Method string
	Path   string
	Name   string
}

// Config holds all application configuration
type Config struct {
	PhotoDir  string
	ThumbDir  string
	DataDir   string
	StaticDir string

	FavoritesBackend string
	FavoritesFile    string
	FavoritesDB      string

	ThumbMaxEdge int
	ThumbQuality int
	ThumbBackend string

	ExiftoolPath    string
	ExiftoolTimeout time.Duration

	BasicUser string
	BasicPass string

	Port            string
	MetricsPort     string
	MetricsEnabled  bool
	LogStaticFiles  bool
	LogHealthChecks bool
}

// AuthEnabled reports whether basic auth credentials were configured.
func (c *Config) AuthEnabled() bool {
	return c.BasicUser != ""
}

// LoadConfig loads and validates configuration from environment variables.
// A .env file in the working directory is read first; variables already
// present in the environment take precedence over it.
func LoadConfig() (*Config, error) {
	printBanner()
	logSystemInfo()

	loadDotEnv(".env")

	logging.Info("------------------------------------------------------------")
	logging.Info("CONFIGURATION")
	logging.Info("------------------------------------------------------------")

	dataDir := getEnv("DATA_DIR", "./data")

	cfg := &Config{
		PhotoDir:         getEnv("PHOTO_DIR", "./photos"),
		ThumbDir:         getEnv("THUMB_DIR", "./thumbs"),
		DataDir:          dataDir,
		StaticDir:        getEnv("STATIC_DIR", ""),
		FavoritesBackend: strings.ToLower(getEnv("FAVORITES_BACKEND", FavoritesBackendJSON)),
		FavoritesFile:    getEnv("FAVORITES_FILE", ""),
		ThumbMaxEdge:     getEnvInt("THUMB_MAX_EDGE", 480),
		ThumbQuality:     getEnvInt("THUMB_QUALITY", 84),
		ThumbBackend:     strings.ToLower(getEnv("THUMB_BACKEND", "auto")),
		ExiftoolPath:     getEnv("EXIFTOOL_PATH", "exiftool"),
		ExiftoolTimeout:  getEnvDuration("EXIFTOOL_TIMEOUT", exiftool.DefaultTimeout),
		BasicUser:        os.Getenv("APP_BASIC_USER"),
		BasicPass:        os.Getenv("APP_BASIC_PASS"),
		Port:             getEnv("PORT", "8080"),
		MetricsPort:      getEnv("METRICS_PORT", "9090"),
		MetricsEnabled:   getEnvBool("METRICS_ENABLED", true),
		LogStaticFiles:   getEnvBool("LOG_STATIC_FILES", false),
		LogHealthChecks:  getEnvBool("LOG_HEALTH_CHECKS", true),
	}

	switch cfg.FavoritesBackend {
	case FavoritesBackendJSON, FavoritesBackendSQLite:
	default:
		logging.Warn("  Invalid FAVORITES_BACKEND %q, using default: %s", cfg.FavoritesBackend, FavoritesBackendJSON)
		cfg.FavoritesBackend = FavoritesBackendJSON
	}
	if cfg.ThumbQuality < 1 || cfg.ThumbQuality > 100 {
		logging.Warn("  Invalid THUMB_QUALITY %d, using default: 84", cfg.ThumbQuality)
		cfg.ThumbQuality = 84
	}
	if cfg.ThumbMaxEdge < 1 {
		logging.Warn("  Invalid THUMB_MAX_EDGE %d, using default: 480", cfg.ThumbMaxEdge)
		cfg.ThumbMaxEdge = 480
	}

	logging.Info("  PHOTO_DIR:           %s", cfg.PhotoDir)
	logging.Info("  THUMB_DIR:           %s", cfg.ThumbDir)
	logging.Info("  DATA_DIR:            %s", cfg.DataDir)
	logging.Info("  STATIC_DIR:          %s", valueOrNone(cfg.StaticDir))
	logging.Info("  FAVORITES_BACKEND:   %s", cfg.FavoritesBackend)
	logging.Info("  THUMB_MAX_EDGE:      %d", cfg.ThumbMaxEdge)
	logging.Info("  THUMB_QUALITY:       %d", cfg.ThumbQuality)
	logging.Info("  THUMB_BACKEND:       %s", cfg.ThumbBackend)
	logging.Info("  EXIFTOOL_PATH:       %s", cfg.ExiftoolPath)
	logging.Info("  EXIFTOOL_TIMEOUT:    %v", cfg.ExiftoolTimeout)
	logging.Info("  PORT:                %s", cfg.Port)
	logging.Info("  METRICS_PORT:        %s", cfg.MetricsPort)
	logging.Info("  METRICS_ENABLED:     %v", cfg.MetricsEnabled)
	logging.Info("  LOG_STATIC_FILES:    %v", cfg.LogStaticFiles)
	logging.Info("  LOG_HEALTH_CHECKS:   %v", cfg.LogHealthChecks)
	logging.Info("  LOG_LEVEL:           %s", logging.GetLevel())
	logging.Info("  Basic auth:          %s", enabledString(cfg.AuthEnabled()))

	logging.Info("")
	logging.Info("------------------------------------------------------------")
	logging.Info("DIRECTORY SETUP")
	logging.Info("------------------------------------------------------------")

	var err error
	if cfg.PhotoDir, err = filepath.Abs(cfg.PhotoDir); err != nil {
		return nil, fmt.Errorf("failed to resolve photo directory path: %w", err)
	}
	logging.Info("  Photo directory (absolute): %s", cfg.PhotoDir)

	if cfg.ThumbDir, err = filepath.Abs(cfg.ThumbDir); err != nil {
		return nil, fmt.Errorf("failed to resolve thumbnail directory path: %w", err)
	}
	logging.Info("  Thumbnail directory (absolute): %s", cfg.ThumbDir)

	if cfg.DataDir, err = filepath.Abs(cfg.DataDir); err != nil {
		return nil, fmt.Errorf("failed to resolve data directory path: %w", err)
	}
	logging.Info("  Data directory (absolute): %s", cfg.DataDir)

	if cfg.StaticDir != "" {
		if cfg.StaticDir, err = filepath.Abs(cfg.StaticDir); err != nil {
			return nil, fmt.Errorf("failed to resolve static directory path: %w", err)
		}
	}

	if cfg.FavoritesFile == "" {
		cfg.FavoritesFile = filepath.Join(cfg.DataDir, "favorites.json")
	} else if cfg.FavoritesFile, err = filepath.Abs(cfg.FavoritesFile); err != nil {
		return nil, fmt.Errorf("failed to resolve favorites file path: %w", err)
	}
	cfg.FavoritesDB = filepath.Join(cfg.DataDir, "favorites.db")

	if err := ensureDirectory(cfg.PhotoDir, "photo"); err != nil {
		return nil, fmt.Errorf("photo directory error: %w", err)
	}
	if err := ensureDirectory(cfg.ThumbDir, "thumbnail"); err != nil {
		return nil, fmt.Errorf("thumbnail directory error: %w", err)
	}
	if err := ensureDirectory(cfg.DataDir, "data"); err != nil {
		return nil, fmt.Errorf("data directory error: %w", err)
	}
	if err := ensureDirectory(filepath.Dir(cfg.FavoritesFile), "favorites"); err != nil {
		return nil, fmt.Errorf("favorites directory error: %w", err)
	}

	logging.Debug("  Testing thumbnail directory write access...")
	if err := testWriteAccess(cfg.ThumbDir); err != nil {
		return nil, fmt.Errorf("thumbnail directory is not writable: %w", err)
	}
	logging.Info("  [OK] Thumbnail directory is writable")

	logging.Debug("  Testing data directory write access...")
	if err := testWriteAccess(cfg.DataDir); err != nil {
		logging.Warn("  Data directory is not writable: %v", err)
		logging.Warn("  Favorite changes will fail to persist")
	} else {
		logging.Info("  [OK] Data directory is writable")
	}

	return cfg, nil
}

func loadDotEnv(path string) {
	err := godotenv.Load(path)
	switch {
	case err == nil:
		logging.Info("  Loaded environment from %s", path)
	case errors.Is(err, fs.ErrNotExist):
		logging.Debug("  No %s file found", path)
	default:
		logging.Warn("  Failed to load %s: %v", path, err)
	}
}

func enabledString(enabled bool) string {
	if enabled {
		return "ENABLED"
	}
	return "DISABLED"
}

func valueOrNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}

// LogDatabaseInit logs favorites database initialization
func LogDatabaseInit(path string, duration time.Duration) {
	logging.Info("")
	logging.Info("------------------------------------------------------------")
	logging.Info("DATABASE INITIALIZATION")
	logging.Info("------------------------------------------------------------")
	logging.Info("  Path: %s", path)
	logging.Info("  [OK] Database initialized in %v", duration)
}

// VersionReporter is satisfied by *exiftool.Tool.
type VersionReporter interface {
	Available() bool
	Version(ctx context.Context) (string, error)
}

// LogExiftoolInit logs exiftool availability and reports whether RAW
// extraction through it is possible.
func LogExiftoolInit(tool VersionReporter) bool {
	logging.Info("")
	logging.Info("------------------------------------------------------------")
	logging.Info("EXIFTOOL")
	logging.Info("------------------------------------------------------------")

	if tool == nil || !tool.Available() {
		logging.Warn("  exiftool not found in PATH")
		logging.Warn("  RAW files without a sidecar JPEG will show no preview")
		return false
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	version, err := tool.Version(ctx)
	if err != nil {
		logging.Warn("  exiftool version check failed: %v", err)
		return true
	}
	logging.Info("  [OK] exiftool %s", version)
	return true
}

// LogTranscoderInit logs which thumbnail backend was selected
func LogTranscoderInit(name string, maxEdge, quality int) {
	logging.Info("")
	logging.Info("------------------------------------------------------------")
	logging.Info("THUMBNAIL TRANSCODER")
	logging.Info("------------------------------------------------------------")
	logging.Info("  Backend:  %s", name)
	logging.Info("  Max edge: %dpx", maxEdge)
	logging.Info("  Quality:  %d", quality)
}

// LogFavoritesInit logs the favorites store in use and its current size
func LogFavoritesInit(backend, location string, count int) {
	logging.Info("")
	logging.Info("------------------------------------------------------------")
	logging.Info("FAVORITES")
	logging.Info("------------------------------------------------------------")
	logging.Info("  Backend:   %s", backend)
	logging.Info("  Location:  %s", location)
	logging.Info("  [OK] %d favorites loaded", count)
}

// GetRoutes extracts all registered routes from a mux.Router
func GetRoutes(router *mux.Router) ([]RouteInfo, error) {
	var routes []RouteInfo

	err := router.Walk(func(route *mux.Route, _ *mux.Router, _ []*mux.Route) error {
		pathTemplate, err := route.GetPathTemplate()
		if err != nil {
			return err
		}

		methods, err := route.GetMethods()
		if err != nil {
			// Route might not have methods specified (e.g., static file server)
			methods = []string{"*"}
		}

		name := route.GetName()

		for _, method := range methods {
			routes = append(routes, RouteInfo{
				Method: method,
				Path:   pathTemplate,
				Name:   name,
			})
		}

		return nil
	})

	return routes, err
}

// LogHTTPRoutes logs all registered HTTP routes dynamically
func LogHTTPRoutes(router *mux.Router, logStaticFiles, logHealthChecks bool) {
	logging.Info("")
	logging.Info("------------------------------------------------------------")
	logging.Info("HTTP SERVER SETUP")
	logging.Info("------------------------------------------------------------")

	if logging.IsDebugEnabled() {
		routes, err := GetRoutes(router)
		if err != nil {
			logging.Warn("error walking routes: %v", err)
		}

		logging.Debug("  Registered routes (%d total):", len(routes))

		groups := make(map[string][]RouteInfo)
		for _, route := range routes {
			prefix := getRouteGroup(route.Path)
			groups[prefix] = append(groups[prefix], route)
		}

		groupKeys := make([]string, 0, len(groups))
		for k := range groups {
			groupKeys = append(groupKeys, k)
		}
		sort.Strings(groupKeys)

		for _, group := range groupKeys {
			if group != "" {
				logging.Debug("  [%s]", group)
			} else {
				logging.Debug("  [root]")
			}
			for _, route := range groups[group] {
				logging.Debug("    %-6s %s", route.Method, route.Path)
			}
		}
	}

	logging.Info("  HTTP logging enabled")
	if logStaticFiles {
		logging.Info("    Static file logging: ON")
	} else {
		logging.Info("    Static file logging: OFF (set LOG_STATIC_FILES=true to enable)")
	}
	if logHealthChecks {
		logging.Info("    Health check logging: ON")
	} else {
		logging.Info("    Health check logging: OFF (set LOG_HEALTH_CHECKS=true to enable)")
	}
}

// getRouteGroup extracts a group name from a route path
func getRouteGroup(path string) string {
	path = strings.TrimPrefix(path, "/")

	parts := strings.SplitN(path, "/", 2)
	first := parts[0]

	if first == "api" && len(parts) > 1 {
		subParts := strings.SplitN(parts[1], "/", 2)
		return "api/" + subParts[0]
	}

	return first
}

// ServerConfig holds configuration for the server startup log
type ServerConfig struct {
	Port            string
	MetricsPort     string
	MetricsEnabled  bool
	StartupDuration time.Duration
}

// LogServerStarted logs successful server start with all endpoint information
func LogServerStarted(config ServerConfig) {
	logging.Info("")
	logging.Info("------------------------------------------------------------")
	logging.Info("SERVER STARTED")
	logging.Info("------------------------------------------------------------")
	logging.Info("  Startup time:    %v", config.StartupDuration)
	logging.Info("")
	logging.Info("  Endpoints:")
	logging.Info("    Application:   http://0.0.0.0:%s", config.Port)
	if config.MetricsEnabled {
		logging.Info("    Metrics:       http://0.0.0.0:%s/metrics", config.MetricsPort)
	} else {
		logging.Info("    Metrics:       DISABLED")
	}
	logging.Info("")
	logging.Info("  Press Ctrl+C to stop the server")
	logging.Info("------------------------------------------------------------")
	logging.Info("")
}

// LogShutdownInitiated logs shutdown start
func LogShutdownInitiated(signal string) {
	logging.Info("")
	logging.Info("------------------------------------------------------------")
	logging.Info("SHUTDOWN INITIATED (received %s)", signal)
	logging.Info("------------------------------------------------------------")
}

// LogShutdownStep logs a shutdown step
func LogShutdownStep(step string) {
	logging.Debug("  %s...", step)
}

// LogShutdownStepComplete logs a completed shutdown step
func LogShutdownStepComplete(step string) {
	logging.Info("  [OK] %s", step)
}

// LogShutdownComplete logs shutdown completion
func LogShutdownComplete() {
	logging.Info("  [OK] Shutdown complete")
}

// LogFatal logs a fatal error and exits
func LogFatal(format string, args ...interface{}) {
	logging.Fatal(format, args...)
}

func printBanner() {
	if logging.GetLevel() > logging.LevelInfo {
		return
	}
	banner := `
------------------------------------------------------------
    __                                 __          __
   / /_  ____ _________        ____  / /_  ____  / /_____  _____
  / __ \/ __ '/ ___/ _ \______/ __ \/ __ \/ __ \/ __/ __ \/ ___/
 / /_/ / /_/ / /  /  __/_____/ /_/ / / / / /_/ / /_/ /_/ (__  )
/_.___/\__,_/_/   \___/     / .___/_/ /_/\____/\__/\____/____/
                           /_/
------------------------------------------------------------`
	fmt.Println(banner)
	logging.Info("  Version:    %s", Version)
	logging.Info("  Commit:     %s", Commit)
	logging.Info("  Build Time: %s", BuildTime)
	logging.Info("  Started:    %s", time.Now().Format(time.RFC1123))
	logging.Info("")
}

func logSystemInfo() {
	logging.Info("------------------------------------------------------------")
	logging.Info("SYSTEM INFORMATION")
	logging.Info("------------------------------------------------------------")
	logging.Info("  Go version:      %s", runtime.Version())
	logging.Info("  OS/Arch:         %s/%s", runtime.GOOS, runtime.GOARCH)
	logging.Info("  CPUs available:  %d", runtime.NumCPU())
	logging.Info("  GOMAXPROCS:      %d", runtime.GOMAXPROCS(0))

	if logging.IsDebugEnabled() {
		if wd, err := os.Getwd(); err == nil {
			logging.Debug("  Working dir:     %s", wd)
		}
		if hostname, err := os.Hostname(); err == nil {
			logging.Debug("  Hostname:        %s", hostname)
		}
	}

	logging.Info("")
}

func ensureDirectory(path, name string) error {
	logging.Debug("  Checking %s directory: %s", name, path)

	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		logging.Debug("    Directory does not exist, creating...")
		if err := os.MkdirAll(path, 0o755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
		logging.Debug("    [OK] Created directory: %s", path)
		return nil
	}

	if err != nil {
		return fmt.Errorf("failed to stat directory: %w", err)
	}

	if !info.IsDir() {
		return fmt.Errorf("path exists but is not a directory")
	}

	logging.Debug("    [OK] Directory exists")

	if name == "photo" && logging.IsDebugEnabled() {
		entries, err := os.ReadDir(path)
		if err == nil {
			files, dirs := 0, 0
			for _, e := range entries {
				if e.IsDir() {
					dirs++
				} else {
					files++
				}
			}
			logging.Debug("    Contents: %d files, %d directories (top level)", files, dirs)
		}
	}

	return nil
}

func testWriteAccess(dir string) error {
	testFile := filepath.Join(dir, ".write-test")
	if err := os.WriteFile(testFile, []byte("test"), 0o644); err != nil {
		return err
	}
	if err := os.Remove(testFile); err != nil {
		logging.Warn("failed to remove write test file %s: %v", testFile, err)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		logging.Warn("Invalid boolean value for %s: %q, using default: %v", key, value, defaultValue)
		return defaultValue
	}
	return parsed
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		logging.Warn("Invalid integer value for %s: %q, using default: %d", key, value, defaultValue)
		return defaultValue
	}
	return parsed
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := time.ParseDuration(value)
	if err != nil || parsed <= 0 {
		logging.Warn("Invalid duration for %s: %q, using default: %v", key, value, defaultValue)
		return defaultValue
	}
	return parsed
}
