package startup

import (
	"context"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gorilla/mux"
)

// unsetEnv clears key for the duration of the test.
func unsetEnv(t *testing.T, key string) {
	t.Helper()
	t.Setenv(key, "")
	os.Unsetenv(key)
}

func clearConfigEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"PHOTO_DIR", "THUMB_DIR", "DATA_DIR", "STATIC_DIR", "FAVORITES_FILE",
		"FAVORITES_BACKEND", "THUMB_MAX_EDGE", "THUMB_QUALITY", "THUMB_BACKEND",
		"EXIFTOOL_PATH", "EXIFTOOL_TIMEOUT", "APP_BASIC_USER", "APP_BASIC_PASS",
		"PORT", "METRICS_PORT", "METRICS_ENABLED", "LOG_STATIC_FILES", "LOG_HEALTH_CHECKS",
	} {
		unsetEnv(t, key)
	}
}

func TestGetBuildInfo(t *testing.T) {
	info := GetBuildInfo()

	if info.Version == "" {
		t.Error("Expected Version to be set")
	}
	if info.OS == "" || info.Arch == "" {
		t.Error("Expected OS and Arch to be set")
	}
	if info.GoVersion != GoVersion {
		t.Errorf("Expected GoVersion=%s, got %s", GoVersion, info.GoVersion)
	}
}

func TestGetEnv(t *testing.T) {
	t.Setenv("TEST_SET_VAR", "custom")
	unsetEnv(t, "TEST_UNSET_VAR")

	if got := getEnv("TEST_SET_VAR", "default"); got != "custom" {
		t.Errorf("getEnv(set) = %q, want custom", got)
	}
	if got := getEnv("TEST_UNSET_VAR", "default"); got != "default" {
		t.Errorf("getEnv(unset) = %q, want default", got)
	}
}

func TestGetEnvBool(t *testing.T) {
	tests := []struct {
		name         string
		envValue     string
		defaultValue bool
		want         bool
	}{
		{"empty uses default", "", true, true},
		{"true", "true", false, true},
		{"false", "false", true, false},
		{"one", "1", false, true},
		{"zero", "0", true, false},
		{"invalid uses default", "maybe", true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TEST_BOOL", tt.envValue)
			if got := getEnvBool("TEST_BOOL", tt.defaultValue); got != tt.want {
				t.Errorf("getEnvBool(%q, %v) = %v, want %v", tt.envValue, tt.defaultValue, got, tt.want)
			}
		})
	}
}

func TestGetEnvInt(t *testing.T) {
	tests := []struct {
		envValue string
		want     int
	}{
		{"", 480},
		{"640", 640},
		{" 320 ", 320},
		{"big", 480},
	}

	for _, tt := range tests {
		t.Setenv("TEST_INT", tt.envValue)
		if got := getEnvInt("TEST_INT", 480); got != tt.want {
			t.Errorf("getEnvInt(%q) = %d, want %d", tt.envValue, got, tt.want)
		}
	}
}

func TestGetEnvDuration(t *testing.T) {
	tests := []struct {
		envValue string
		want     time.Duration
	}{
		{"", 30 * time.Second},
		{"5s", 5 * time.Second},
		{"2m", 2 * time.Minute},
		{"soon", 30 * time.Second},
		{"-1s", 30 * time.Second},
	}

	for _, tt := range tests {
		t.Setenv("TEST_DURATION", tt.envValue)
		if got := getEnvDuration("TEST_DURATION", 30*time.Second); got != tt.want {
			t.Errorf("getEnvDuration(%q) = %v, want %v", tt.envValue, got, tt.want)
		}
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	clearConfigEnv(t)
	dir := t.TempDir()
	t.Chdir(dir)

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	for name, got := range map[string]string{
		"PhotoDir": cfg.PhotoDir,
		"ThumbDir": cfg.ThumbDir,
		"DataDir":  cfg.DataDir,
	} {
		if !filepath.IsAbs(got) {
			t.Errorf("%s = %q, want absolute path", name, got)
		}
		if info, err := os.Stat(got); err != nil || !info.IsDir() {
			t.Errorf("%s %q was not created", name, got)
		}
	}

	if cfg.FavoritesFile != filepath.Join(cfg.DataDir, "favorites.json") {
		t.Errorf("FavoritesFile = %q", cfg.FavoritesFile)
	}
	if cfg.FavoritesDB != filepath.Join(cfg.DataDir, "favorites.db") {
		t.Errorf("FavoritesDB = %q", cfg.FavoritesDB)
	}
	if cfg.FavoritesBackend != FavoritesBackendJSON {
		t.Errorf("FavoritesBackend = %q, want json", cfg.FavoritesBackend)
	}
	if cfg.ThumbMaxEdge != 480 || cfg.ThumbQuality != 84 {
		t.Errorf("thumb settings = %d/%d, want 480/84", cfg.ThumbMaxEdge, cfg.ThumbQuality)
	}
	if cfg.ThumbBackend != "auto" {
		t.Errorf("ThumbBackend = %q, want auto", cfg.ThumbBackend)
	}
	if cfg.ExiftoolPath != "exiftool" || cfg.ExiftoolTimeout != 30*time.Second {
		t.Errorf("exiftool = %q/%v", cfg.ExiftoolPath, cfg.ExiftoolTimeout)
	}
	if cfg.Port != "8080" || cfg.MetricsPort != "9090" || !cfg.MetricsEnabled {
		t.Errorf("ports = %s/%s metrics=%v", cfg.Port, cfg.MetricsPort, cfg.MetricsEnabled)
	}
	if cfg.AuthEnabled() {
		t.Error("AuthEnabled() = true without APP_BASIC_USER")
	}
	if cfg.StaticDir != "" {
		t.Errorf("StaticDir = %q, want empty", cfg.StaticDir)
	}
}

func TestLoadConfig_FromEnvironment(t *testing.T) {
	clearConfigEnv(t)
	dir := t.TempDir()
	t.Chdir(dir)

	t.Setenv("PHOTO_DIR", filepath.Join(dir, "pics"))
	t.Setenv("THUMB_DIR", filepath.Join(dir, "cache"))
	t.Setenv("DATA_DIR", filepath.Join(dir, "state"))
	t.Setenv("FAVORITES_FILE", filepath.Join(dir, "elsewhere", "favs.json"))
	t.Setenv("FAVORITES_BACKEND", "SQLite")
	t.Setenv("THUMB_MAX_EDGE", "256")
	t.Setenv("THUMB_QUALITY", "150")
	t.Setenv("THUMB_BACKEND", "imaging")
	t.Setenv("EXIFTOOL_TIMEOUT", "3s")
	t.Setenv("APP_BASIC_USER", "alice")
	t.Setenv("APP_BASIC_PASS", "secret")
	t.Setenv("METRICS_ENABLED", "false")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.PhotoDir != filepath.Join(dir, "pics") {
		t.Errorf("PhotoDir = %q", cfg.PhotoDir)
	}
	if cfg.FavoritesFile != filepath.Join(dir, "elsewhere", "favs.json") {
		t.Errorf("FavoritesFile = %q", cfg.FavoritesFile)
	}
	if _, err := os.Stat(filepath.Join(dir, "elsewhere")); err != nil {
		t.Errorf("favorites directory not created: %v", err)
	}
	if cfg.FavoritesBackend != FavoritesBackendSQLite {
		t.Errorf("FavoritesBackend = %q, want sqlite", cfg.FavoritesBackend)
	}
	if cfg.ThumbMaxEdge != 256 {
		t.Errorf("ThumbMaxEdge = %d, want 256", cfg.ThumbMaxEdge)
	}
	if cfg.ThumbQuality != 84 {
		t.Errorf("ThumbQuality = %d, want out-of-range value replaced by 84", cfg.ThumbQuality)
	}
	if cfg.ThumbBackend != "imaging" {
		t.Errorf("ThumbBackend = %q", cfg.ThumbBackend)
	}
	if cfg.ExiftoolTimeout != 3*time.Second {
		t.Errorf("ExiftoolTimeout = %v", cfg.ExiftoolTimeout)
	}
	if !cfg.AuthEnabled() || cfg.BasicPass != "secret" {
		t.Error("basic auth credentials not loaded")
	}
	if cfg.MetricsEnabled {
		t.Error("MetricsEnabled = true, want false")
	}
}

func TestLoadConfig_InvalidBackendFallsBack(t *testing.T) {
	clearConfigEnv(t)
	t.Chdir(t.TempDir())
	t.Setenv("FAVORITES_BACKEND", "redis")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.FavoritesBackend != FavoritesBackendJSON {
		t.Errorf("FavoritesBackend = %q, want json", cfg.FavoritesBackend)
	}
}

func TestLoadConfig_DotEnv(t *testing.T) {
	clearConfigEnv(t)
	dir := t.TempDir()
	t.Chdir(dir)

	env := "PHOTO_DIR=from-dotenv\nTHUMB_QUALITY=70\nPORT=9999\n"
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte(env), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PORT", "7000")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.PhotoDir != filepath.Join(dir, "from-dotenv") {
		t.Errorf("PhotoDir = %q, want value from .env", cfg.PhotoDir)
	}
	if cfg.ThumbQuality != 70 {
		t.Errorf("ThumbQuality = %d, want 70 from .env", cfg.ThumbQuality)
	}
	if cfg.Port != "7000" {
		t.Errorf("Port = %q, existing environment must win over .env", cfg.Port)
	}
}

func TestLoadConfig_PhotoDirIsFile(t *testing.T) {
	clearConfigEnv(t)
	dir := t.TempDir()
	t.Chdir(dir)

	file := filepath.Join(dir, "photos")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PHOTO_DIR", file)

	if _, err := LoadConfig(); err == nil {
		t.Fatal("LoadConfig() succeeded with PHOTO_DIR pointing at a file")
	}
}

type fakeVersionReporter struct {
	available bool
	version   string
	err       error
}

func (f fakeVersionReporter) Available() bool { return f.available }

func (f fakeVersionReporter) Version(context.Context) (string, error) { return f.version, f.err }

func TestLogExiftoolInit(t *testing.T) {
	tests := []struct {
		name string
		tool VersionReporter
		want bool
	}{
		{"nil", nil, false},
		{"missing", fakeVersionReporter{}, false},
		{"available", fakeVersionReporter{available: true, version: "12.76"}, true},
		{"version fails", fakeVersionReporter{available: true, err: errors.New("boom")}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := LogExiftoolInit(tt.tool); got != tt.want {
				t.Errorf("LogExiftoolInit() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGetRoutes(t *testing.T) {
	router := mux.NewRouter()
	noop := func(_ http.ResponseWriter, _ *http.Request) {}
	router.HandleFunc("/api/photos", noop).Methods("GET").Name("photos")
	router.HandleFunc("/api/delete", noop).Methods("POST")
	router.HandleFunc("/healthz", noop)

	routes, err := GetRoutes(router)
	if err != nil {
		t.Fatalf("GetRoutes() error = %v", err)
	}
	if len(routes) != 3 {
		t.Fatalf("GetRoutes() returned %d routes, want 3", len(routes))
	}
	if routes[0].Method != "GET" || routes[0].Path != "/api/photos" || routes[0].Name != "photos" {
		t.Errorf("routes[0] = %+v", routes[0])
	}
	if routes[2].Method != "*" {
		t.Errorf("route without methods reported %q, want *", routes[2].Method)
	}

	LogHTTPRoutes(router, false, true)
}

func TestGetRouteGroup(t *testing.T) {
	tests := map[string]string{
		"/api/photos":     "api/photos",
		"/api/thumb":      "api/thumb",
		"/healthz":        "healthz",
		"/":               "",
		"/static/app.css": "static",
	}
	for path, want := range tests {
		if got := getRouteGroup(path); got != want {
			t.Errorf("getRouteGroup(%q) = %q, want %q", path, got, want)
		}
	}
}
