package main

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/alnah/go-md2png/internal/config"
)

// Environment variable names.
const (
	envConfigPath   = "MD2PNG_CONFIG"
	envBrowserBin   = "MD2PNG_BROWSER_BIN"
	envTimeout      = "MD2PNG_TIMEOUT"
	envStyle        = "MD2PNG_STYLE"
	envAssetPath    = "MD2PNG_ASSET_PATH"
	envOutputDir    = "MD2PNG_OUTPUT_DIR"
	envNoSandbox    = "MD2PNG_NO_SANDBOX"
	envAllowNetwork = "MD2PNG_ALLOW_NETWORK"
)

// knownEnvVars lists valid MD2PNG_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	envConfigPath:   true,
	envBrowserBin:   true,
	envTimeout:      true,
	envStyle:        true,
	envAssetPath:    true,
	envOutputDir:    true,
	envNoSandbox:    true,
	envAllowNetwork: true,
}

// envConfig holds configuration from environment variables.
// Unset variables leave their field zero (or nil).
type envConfig struct {
	ConfigPath   string
	BrowserBin   string
	Timeout      time.Duration
	Style        string
	AssetPath    string
	OutputDir    string
	NoSandbox    *bool
	AllowNetwork *bool
}

// loadEnvConfig reads MD2PNG_* variables. Values that do not parse are
// ignored with a warning.
func loadEnvConfig(src *envSource, log zerolog.Logger) *envConfig {
	cfg := &envConfig{
		ConfigPath: src.get(envConfigPath),
		BrowserBin: src.get(envBrowserBin),
		Style:      src.get(envStyle),
		AssetPath:  src.get(envAssetPath),
		OutputDir:  src.get(envOutputDir),
	}

	if v := src.get(envTimeout); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.Timeout = d
		} else {
			log.Warn().Str("var", envTimeout).Str("value", v).Msg("ignoring invalid duration")
		}
	}

	cfg.NoSandbox = parseEnvBool(src, envNoSandbox, log)
	cfg.AllowNetwork = parseEnvBool(src, envAllowNetwork, log)

	return cfg
}

func parseEnvBool(src *envSource, name string, log zerolog.Logger) *bool {
	v := src.get(name)
	if v == "" {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		log.Warn().Str("var", name).Str("value", v).Msg("ignoring invalid boolean")
		return nil
	}
	return &b
}

// warnUnknownEnvVars logs warnings for unrecognized MD2PNG_* variables.
// Helps catch typos like MD2PNG_TIMOUT.
func warnUnknownEnvVars(src *envSource, log zerolog.Logger) []string {
	var unknown []string
	seen := make(map[string]bool)
	for _, name := range src.names {
		if !strings.HasPrefix(name, "MD2PNG_") || knownEnvVars[name] || seen[name] {
			continue
		}
		seen[name] = true
		unknown = append(unknown, name)
	}
	sort.Strings(unknown)
	for _, name := range unknown {
		log.Warn().Str("var", name).Msg("unknown environment variable (typo?)")
	}
	return unknown
}

// applyEnvConfig overrides config file values with set environment
// variables. Flags are applied afterwards by mergeFlags, giving
// flags > env > config file > defaults.
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	if env.BrowserBin != "" {
		cfg.Browser.Bin = env.BrowserBin
	}
	if env.Timeout > 0 {
		cfg.Render.Timeout = env.Timeout
	}
	if env.Style != "" {
		cfg.Assets.Style = env.Style
	}
	if env.AssetPath != "" {
		cfg.Assets.BasePath = env.AssetPath
	}
	if env.OutputDir != "" {
		cfg.Output.Dir = env.OutputDir
	}
	if env.NoSandbox != nil {
		cfg.Browser.NoSandbox = env.NoSandbox
	}
	if env.AllowNetwork != nil {
		cfg.Browser.AllowNetwork = *env.AllowNetwork
	}
}
