package main

// Notes:
// - Variables come from an in-memory envSource, so no test touches the
//   process environment and all run in parallel.
// - loadEnvSource: .env layering is tested with real files in t.TempDir().
// These are acceptable gaps: we test observable behavior, not implementation details.

import (
	"bytes"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/alnah/go-md2png/internal/config"
)

// mapSource returns an envSource over vars.
func mapSource(vars map[string]string) *envSource {
	src := &envSource{lookup: func(k string) (string, bool) {
		v, ok := vars[k]
		return v, ok
	}}
	for k := range vars {
		src.names = append(src.names, k)
	}
	return src
}

// ---------------------------------------------------------------------------
// TestLoadEnvConfig - Variable parsing
// ---------------------------------------------------------------------------

func TestLoadEnvConfig(t *testing.T) {
	t.Parallel()

	var logs bytes.Buffer
	cfg := loadEnvConfig(mapSource(map[string]string{
		envConfigPath:   "/etc/md2png.yaml",
		envBrowserBin:   "/opt/edge",
		envTimeout:      "2m",
		envStyle:        "mobile",
		envAssetPath:    "/assets",
		envOutputDir:    "/out",
		envNoSandbox:    "0",
		envAllowNetwork: "true",
	}), zerolog.New(&logs))

	if cfg.ConfigPath != "/etc/md2png.yaml" || cfg.BrowserBin != "/opt/edge" || cfg.Style != "mobile" {
		t.Errorf("strings = %+v", cfg)
	}
	if cfg.AssetPath != "/assets" || cfg.OutputDir != "/out" {
		t.Errorf("paths = %q, %q", cfg.AssetPath, cfg.OutputDir)
	}
	if cfg.Timeout != 2*time.Minute {
		t.Errorf("Timeout = %s, want 2m", cfg.Timeout)
	}
	if cfg.NoSandbox == nil || *cfg.NoSandbox {
		t.Errorf("NoSandbox = %v, want explicit false", cfg.NoSandbox)
	}
	if cfg.AllowNetwork == nil || !*cfg.AllowNetwork {
		t.Errorf("AllowNetwork = %v, want explicit true", cfg.AllowNetwork)
	}
	if logs.Len() != 0 {
		t.Errorf("unexpected warnings: %s", logs.String())
	}
}

func TestLoadEnvConfig_InvalidValues(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"unparsable timeout", envTimeout, "soon"},
		{"negative timeout", envTimeout, "-5s"},
		{"zero timeout", envTimeout, "0s"},
		{"bad sandbox bool", envNoSandbox, "maybe"},
		{"bad network bool", envAllowNetwork, "yes please"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var logs bytes.Buffer
			cfg := loadEnvConfig(mapSource(map[string]string{tt.key: tt.value}), zerolog.New(&logs))

			if cfg.Timeout != 0 || cfg.NoSandbox != nil || cfg.AllowNetwork != nil {
				t.Errorf("invalid value applied: %+v", cfg)
			}
			if !strings.Contains(logs.String(), tt.key) {
				t.Errorf("warning should name %s, got %q", tt.key, logs.String())
			}
		})
	}
}

func TestLoadEnvConfig_Empty(t *testing.T) {
	t.Parallel()

	cfg := loadEnvConfig(mapSource(nil), zerolog.Nop())
	if !reflect.DeepEqual(cfg, &envConfig{}) {
		t.Errorf("loadEnvConfig(empty) = %+v, want zero value", cfg)
	}
}

// ---------------------------------------------------------------------------
// TestWarnUnknownEnvVars - Typo detection
// ---------------------------------------------------------------------------

func TestWarnUnknownEnvVars(t *testing.T) {
	t.Parallel()

	var logs bytes.Buffer
	src := mapSource(map[string]string{
		"MD2PNG_TIMOUT": "1s",
		"MD2PNG_STYLE":  "mobile",
		"MD2PNG_WIDHT":  "375",
		"PATH":          "/usr/bin",
		"MD2PDF_STYLE":  "other tool",
	})
	src.names = append(src.names, "MD2PNG_TIMOUT") // seen in both sources

	got := warnUnknownEnvVars(src, zerolog.New(&logs))
	want := []string{"MD2PNG_TIMOUT", "MD2PNG_WIDHT"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("warnUnknownEnvVars() = %v, want %v", got, want)
	}
	if n := strings.Count(logs.String(), "unknown environment variable"); n != 2 {
		t.Errorf("warnings = %d, want 2:\n%s", n, logs.String())
	}
}

// ---------------------------------------------------------------------------
// TestApplyEnvConfig - Env over config file
// ---------------------------------------------------------------------------

func TestApplyEnvConfig(t *testing.T) {
	t.Parallel()

	off := false
	cfg := &config.Config{
		Render:  config.RenderConfig{Timeout: time.Minute},
		Browser: config.BrowserConfig{Bin: "/from/config", NoSandbox: &off},
		Assets:  config.AssetsConfig{Style: "config-style"},
		Output:  config.OutputConfig{Dir: "/config/out"},
	}

	on := true
	applyEnvConfig(&envConfig{
		BrowserBin:   "/from/env",
		Timeout:      2 * time.Minute,
		NoSandbox:    &on,
		AllowNetwork: &on,
	}, cfg)

	if cfg.Browser.Bin != "/from/env" || cfg.Render.Timeout != 2*time.Minute {
		t.Errorf("env did not override config: %+v", cfg)
	}
	if cfg.Browser.NoSandbox == nil || !*cfg.Browser.NoSandbox || !cfg.Browser.AllowNetwork {
		t.Errorf("Browser = %+v", cfg.Browser)
	}
	if cfg.Assets.Style != "config-style" || cfg.Output.Dir != "/config/out" {
		t.Errorf("unset env vars changed config: %+v", cfg)
	}
}

// ---------------------------------------------------------------------------
// TestLoadEnvSource - .env layering
// ---------------------------------------------------------------------------

func TestLoadEnvSource(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	dotenv := writeFile(t, dir, ".env", "MD2PNG_STYLE=from-file\nMD2PNG_TIMEOUT=10s\n")

	te := newTestEnv(t, "")
	te.vars[envStyle] = "from-process"
	te.DotEnv = dotenv

	src, err := te.loadEnvSource()
	if err != nil {
		t.Fatalf("loadEnvSource() error = %v", err)
	}
	if got := src.get(envStyle); got != "from-process" {
		t.Errorf("MD2PNG_STYLE = %q, want process value", got)
	}
	if got := src.get(envTimeout); got != "10s" {
		t.Errorf("MD2PNG_TIMEOUT = %q, want .env value", got)
	}
	if got := src.get(envOutputDir); got != "" {
		t.Errorf("unset variable = %q", got)
	}

	names := strings.Join(src.names, ",")
	if !strings.Contains(names, envTimeout) || !strings.Contains(names, envStyle) {
		t.Errorf("names = %v", src.names)
	}
}

func TestLoadEnvSource_MissingFile(t *testing.T) {
	t.Parallel()

	te := newTestEnv(t, "")
	te.DotEnv = filepath.Join(t.TempDir(), ".env")
	te.vars[envStyle] = "mobile"

	src, err := te.loadEnvSource()
	if err != nil {
		t.Fatalf("loadEnvSource() error = %v, want missing .env ignored", err)
	}
	if got := src.get(envStyle); got != "mobile" {
		t.Errorf("MD2PNG_STYLE = %q", got)
	}
}

func TestRun_DotEnv(t *testing.T) {
	t.Parallel()

	te := newTestEnv(t, "# Hi")
	outDir := t.TempDir()
	te.DotEnv = writeFile(t, t.TempDir(), ".env", envOutputDir+"="+outDir+"\n")

	if code := run(nil, te.Environment); code != ExitSuccess {
		t.Fatalf("run() = %d (%q)", code, te.notes.Messages)
	}
	entries, err := filepath.Glob(filepath.Join(outDir, "*.png"))
	if err != nil || len(entries) != 1 {
		t.Errorf("images in .env output dir = %v, %v", entries, err)
	}
}
