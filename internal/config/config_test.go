package config

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"
)

// writeConfig writes content to dir/name and returns the path.
func writeConfig(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("setup: %v", err)
	}
	return path
}

// ---------------------------------------------------------------------------
// TestDefaultConfig - Zero values mean defaults
// ---------------------------------------------------------------------------

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	if cfg.Render != (RenderConfig{}) {
		t.Errorf("Render = %+v, want zero value", cfg.Render)
	}
	if cfg.Browser.NoSandbox != nil {
		t.Error("Browser.NoSandbox should be unset")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("DefaultConfig().Validate() = %v", err)
	}
}

// ---------------------------------------------------------------------------
// TestConfig_Validate - Ranges and lengths
// ---------------------------------------------------------------------------

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{
			name: "full valid config",
			mutate: func(c *Config) {
				c.Render = RenderConfig{
					Width: 375, DeviceScaleFactor: 4, ProbeHeight: 800,
					PollInterval: 50 * time.Millisecond, SettleTimeout: 5 * time.Second,
					TypesetFallback: 4 * time.Second, Timeout: time.Minute,
				}
				c.Assets.Style = "mobile"
			},
		},
		{
			name:    "negative width",
			mutate:  func(c *Config) { c.Render.Width = -1 },
			wantErr: ErrOutOfRange,
		},
		{
			name:    "width too large",
			mutate:  func(c *Config) { c.Render.Width = MaxWidth + 1 },
			wantErr: ErrOutOfRange,
		},
		{
			name:    "negative probe height",
			mutate:  func(c *Config) { c.Render.ProbeHeight = -800 },
			wantErr: ErrOutOfRange,
		},
		{
			name:    "scale factor too large",
			mutate:  func(c *Config) { c.Render.DeviceScaleFactor = 9 },
			wantErr: ErrOutOfRange,
		},
		{
			name:    "negative poll interval",
			mutate:  func(c *Config) { c.Render.PollInterval = -time.Millisecond },
			wantErr: ErrOutOfRange,
		},
		{
			name:    "timeout too long",
			mutate:  func(c *Config) { c.Render.Timeout = time.Hour },
			wantErr: ErrOutOfRange,
		},
		{
			name: "poll interval above settle timeout",
			mutate: func(c *Config) {
				c.Render.PollInterval = 2 * time.Second
				c.Render.SettleTimeout = time.Second
			},
			wantErr: ErrOutOfRange,
		},
		{
			name: "fallback above settle timeout is allowed",
			mutate: func(c *Config) {
				c.Render.TypesetFallback = 10 * time.Second
				c.Render.SettleTimeout = 5 * time.Second
			},
		},
		{
			name:    "style name too long",
			mutate:  func(c *Config) { c.Assets.Style = strings.Repeat("s", MaxStyleLength+1) },
			wantErr: ErrFieldTooLong,
		},
		{
			name:    "output dir too long",
			mutate:  func(c *Config) { c.Output.Dir = strings.Repeat("d", MaxPathLength+1) },
			wantErr: ErrFieldTooLong,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == nil && err != nil {
				t.Fatalf("Validate() unexpected error: %v", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Fatalf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateFieldLength(t *testing.T) {
	t.Parallel()

	if err := validateFieldLength("f", "1234567890", 10); err != nil {
		t.Errorf("value at limit: unexpected error %v", err)
	}
	err := validateFieldLength("test.field", "12345678901", 10)
	if !errors.Is(err, ErrFieldTooLong) {
		t.Fatalf("error = %v, want ErrFieldTooLong", err)
	}
	if !strings.Contains(err.Error(), "test.field") {
		t.Errorf("error %q should name the field", err)
	}
}

// ---------------------------------------------------------------------------
// TestLoadConfig - File loading
// ---------------------------------------------------------------------------

func TestLoadConfig(t *testing.T) {
	t.Parallel()

	t.Run("empty name returns ErrEmptyConfigName", func(t *testing.T) {
		t.Parallel()

		if _, err := LoadConfig(""); !errors.Is(err, ErrEmptyConfigName) {
			t.Errorf("error = %v, want ErrEmptyConfigName", err)
		}
	})

	t.Run("valid file path loads config", func(t *testing.T) {
		t.Parallel()

		path := writeConfig(t, t.TempDir(), "md2png.yaml", `render:
  width: 414
  deviceScaleFactor: 3
  pollInterval: 100ms
  settleTimeout: 8s
  typesetFallback: 6s
browser:
  bin: /opt/chrome
  noSandbox: false
assets:
  style: mobile
output:
  dir: /tmp/out
`)

		cfg, err := LoadConfig(path)
		if err != nil {
			t.Fatalf("LoadConfig() error = %v", err)
		}
		if cfg.Render.Width != 414 || cfg.Render.DeviceScaleFactor != 3 {
			t.Errorf("Render = %+v", cfg.Render)
		}
		if cfg.Render.PollInterval != 100*time.Millisecond {
			t.Errorf("PollInterval = %s, want 100ms", cfg.Render.PollInterval)
		}
		if cfg.Render.SettleTimeout != 8*time.Second || cfg.Render.TypesetFallback != 6*time.Second {
			t.Errorf("SettleTimeout/TypesetFallback = %s/%s", cfg.Render.SettleTimeout, cfg.Render.TypesetFallback)
		}
		if cfg.Browser.Bin != "/opt/chrome" {
			t.Errorf("Browser.Bin = %q", cfg.Browser.Bin)
		}
		if cfg.Browser.NoSandbox == nil || *cfg.Browser.NoSandbox {
			t.Errorf("Browser.NoSandbox = %v, want explicit false", cfg.Browser.NoSandbox)
		}
		if cfg.Output.Dir != "/tmp/out" {
			t.Errorf("Output.Dir = %q", cfg.Output.Dir)
		}
	})

	t.Run("nonexistent file path returns ErrConfigNotFound", func(t *testing.T) {
		t.Parallel()

		if _, err := LoadConfig("/nonexistent/path/config.yaml"); !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("error = %v, want ErrConfigNotFound", err)
		}
	})

	t.Run("invalid YAML returns ErrConfigParse", func(t *testing.T) {
		t.Parallel()

		path := writeConfig(t, t.TempDir(), "invalid.yaml", "render: [unclosed")
		if _, err := LoadConfig(path); !errors.Is(err, ErrConfigParse) {
			t.Errorf("error = %v, want ErrConfigParse", err)
		}
	})

	t.Run("unknown field returns ErrConfigParse in strict mode", func(t *testing.T) {
		t.Parallel()

		path := writeConfig(t, t.TempDir(), "unknown.yaml", "render:\n  widht: 375\n")
		if _, err := LoadConfig(path); !errors.Is(err, ErrConfigParse) {
			t.Errorf("error = %v, want ErrConfigParse", err)
		}
	})

	t.Run("bad duration returns ErrConfigParse", func(t *testing.T) {
		t.Parallel()

		path := writeConfig(t, t.TempDir(), "dur.yaml", "render:\n  pollInterval: soon\n")
		if _, err := LoadConfig(path); !errors.Is(err, ErrConfigParse) {
			t.Errorf("error = %v, want ErrConfigParse", err)
		}
	})

	t.Run("out of range value fails validation", func(t *testing.T) {
		t.Parallel()

		path := writeConfig(t, t.TempDir(), "range.yaml", "render:\n  width: -5\n")
		if _, err := LoadConfig(path); !errors.Is(err, ErrOutOfRange) {
			t.Errorf("error = %v, want ErrOutOfRange", err)
		}
	})

	t.Run("empty file returns ErrConfigParse", func(t *testing.T) {
		t.Parallel()

		path := writeConfig(t, t.TempDir(), "empty.yaml", "")
		if _, err := LoadConfig(path); !errors.Is(err, ErrConfigParse) {
			t.Errorf("error = %v, want ErrConfigParse", err)
		}
	})

	t.Run("unreadable file returns read error not ErrConfigNotFound", func(t *testing.T) {
		t.Parallel()

		if runtime.GOOS == "windows" || os.Geteuid() == 0 {
			t.Skip("permission bits not enforced")
		}
		path := writeConfig(t, t.TempDir(), "unreadable.yaml", "render:\n  width: 1\n")
		if err := os.Chmod(path, 0o000); err != nil {
			t.Fatalf("setup chmod: %v", err)
		}
		defer func() { _ = os.Chmod(path, 0o600) }()

		_, err := LoadConfig(path)
		if err == nil || errors.Is(err, ErrConfigNotFound) {
			t.Errorf("error = %v, want read error", err)
		}
	})
}

func TestLoadConfig_ByName(t *testing.T) {
	// Not parallel: changes the working directory.
	dir := t.TempDir()
	writeConfig(t, dir, "phone.yml", "render:\n  width: 390\n")
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })

	cfg, err := LoadConfig("phone")
	if err != nil {
		t.Fatalf("LoadConfig(phone) error = %v", err)
	}
	if cfg.Render.Width != 390 {
		t.Errorf("Render.Width = %d, want 390", cfg.Render.Width)
	}

	_, err = LoadConfig("missing")
	if !errors.Is(err, ErrConfigNotFound) {
		t.Fatalf("LoadConfig(missing) error = %v, want ErrConfigNotFound", err)
	}
	if !strings.Contains(err.Error(), "missing.yaml") || !strings.Contains(err.Error(), "missing.yml") {
		t.Errorf("error %q should list tried paths", err)
	}
}

func TestIsFilePath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  bool
	}{
		{input: "phone", want: false},
		{input: "phone.yaml", want: true},
		{input: "phone.YML", want: true},
		{input: "./phone", want: true},
		{input: `dir\phone`, want: true},
	}

	for _, tt := range tests {
		if got := isFilePath(tt.input); got != tt.want {
			t.Errorf("isFilePath(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

// ---------------------------------------------------------------------------
// TestDecodeStrict - Input guards
// ---------------------------------------------------------------------------

func TestDecodeStrict(t *testing.T) {
	t.Parallel()

	var cfg Config
	if err := decodeStrict(nil, &cfg); !errors.Is(err, ErrEmptyInput) {
		t.Errorf("nil input error = %v, want ErrEmptyInput", err)
	}

	big := make([]byte, MaxInputSize+1)
	if err := decodeStrict(big, &cfg); !errors.Is(err, ErrInputTooLarge) {
		t.Errorf("oversized input error = %v, want ErrInputTooLarge", err)
	}
}

func TestConfig_YAML(t *testing.T) {
	t.Parallel()

	cfg := &Config{Render: RenderConfig{Width: 375, PollInterval: 50 * time.Millisecond}}
	out, err := cfg.YAML()
	if err != nil {
		t.Fatalf("YAML() error = %v", err)
	}

	back, err := Parse(out)
	if err != nil {
		t.Fatalf("Parse(YAML()) error = %v\n%s", err, out)
	}
	if back.Render.Width != 375 || back.Render.PollInterval != 50*time.Millisecond {
		t.Errorf("round trip Render = %+v", back.Render)
	}
}
