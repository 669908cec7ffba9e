package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"go.uber.org/automaxprocs/maxprocs"

	md2png "github.com/alnah/go-md2png"
	"github.com/alnah/go-md2png/internal/assets"
	"github.com/alnah/go-md2png/internal/config"
	"github.com/alnah/go-md2png/internal/fileutil"
	"github.com/alnah/go-md2png/internal/hints"
	"github.com/alnah/go-md2png/internal/input"
)

// Output directory permissions.
const dirPerm = 0o750

// Artifact permissions: images are meant to be shared.
const filePerm = 0o644

// run executes the command line and returns the process exit code.
// Every failure is presented exactly once through env.Notifier.
func run(args []string, env *Environment) int {
	f, arg, err := parseFlags(args)
	if err != nil {
		return fail(env, err, nil)
	}

	if f.help {
		printUsage(env.Stdout)
		return ExitSuccess
	}
	if f.version {
		fmt.Fprintf(env.Stdout, "md2png %s\n", Version)
		return ExitSuccess
	}

	log := newLogger(env.Stderr, f.verbose)

	// Error ignored: maxprocs.Set only fails if GOMAXPROCS env is invalid,
	// in which case Go runtime defaults apply and the program continues safely.
	_, _ = maxprocs.Set(maxprocs.Logger(func(format string, args ...interface{}) {
		log.Debug().Msgf(format, args...)
	}))

	src, err := env.loadEnvSource()
	if err != nil {
		log.Warn().Err(err).Str("file", env.DotEnv).Msg("ignoring unreadable .env file")
		src = &envSource{lookup: env.LookupEnv}
	}
	warnUnknownEnvVars(src, log)
	envCfg := loadEnvConfig(src, log)

	cfg, err := resolveConfig(f, envCfg)
	if err != nil {
		return fail(env, err, cfg)
	}

	if f.doctor {
		return runDoctor(env, cfg, f.json)
	}

	if f.printConfig {
		out, err := cfg.YAML()
		if err != nil {
			return fail(env, err, cfg)
		}
		_, _ = env.Stdout.Write(out)
		return ExitSuccess
	}

	ctx, stop := notifyContext(context.Background())
	defer stop()

	if err := convert(ctx, env, f, arg, cfg, log); err != nil {
		return fail(env, err, cfg)
	}
	return ExitSuccess
}

// newLogger returns a console logger on w when verbose, a disabled one otherwise.
func newLogger(w io.Writer, verbose bool) zerolog.Logger {
	if !verbose {
		return zerolog.Nop()
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.TimeOnly}).
		Level(zerolog.DebugLevel).
		With().Timestamp().Logger()
}

// resolveConfig loads the config file, then layers environment variables
// and flags on top: flags > env > config file > defaults.
func resolveConfig(f *cliFlags, envCfg *envConfig) (*config.Config, error) {
	cfg := config.DefaultConfig()

	name := f.config
	if name == "" {
		name = envCfg.ConfigPath
	}
	if name != "" {
		loaded, err := config.LoadConfig(name)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	applyEnvConfig(envCfg, cfg)
	mergeFlags(f, cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// mergeFlags copies explicitly set flags into cfg.
func mergeFlags(f *cliFlags, cfg *config.Config) {
	if f.timeout != 0 {
		cfg.Render.Timeout = f.timeout
	}
	if f.width != 0 {
		cfg.Render.Width = f.width
	}
	if f.scale != 0 {
		cfg.Render.DeviceScaleFactor = f.scale
	}
	if f.browser != "" {
		cfg.Browser.Bin = f.browser
	}
	if f.changed != nil && f.changed("no-sandbox") {
		v := f.noSandbox
		cfg.Browser.NoSandbox = &v
	}
	if f.allowNetwork {
		cfg.Browser.AllowNetwork = true
	}
	if f.style != "" {
		cfg.Assets.Style = f.style
	}
	if f.assetPath != "" {
		cfg.Assets.BasePath = f.assetPath
	}
}

// converterOptions translates cfg into library options. Zero values keep
// the library defaults.
func converterOptions(cfg *config.Config, log zerolog.Logger) []md2png.Option {
	opts := []md2png.Option{md2png.WithLogger(log)}
	r := cfg.Render

	if r.Timeout > 0 {
		opts = append(opts, md2png.WithTimeout(r.Timeout))
	}
	if r.Width > 0 {
		opts = append(opts, md2png.WithViewportWidth(r.Width))
	}
	if r.DeviceScaleFactor > 0 {
		opts = append(opts, md2png.WithDeviceScaleFactor(r.DeviceScaleFactor))
	}
	if r.ProbeHeight > 0 {
		opts = append(opts, md2png.WithProbeHeight(r.ProbeHeight))
	}
	if r.PollInterval > 0 {
		opts = append(opts, md2png.WithPollInterval(r.PollInterval))
	}
	if r.SettleTimeout > 0 {
		opts = append(opts, md2png.WithSettleTimeout(r.SettleTimeout))
	}
	if r.TypesetFallback > 0 {
		opts = append(opts, md2png.WithTypesetFallback(r.TypesetFallback))
	}
	if cfg.Browser.Bin != "" {
		opts = append(opts, md2png.WithBrowserBin(cfg.Browser.Bin))
	}
	if cfg.Browser.NoSandbox != nil {
		opts = append(opts, md2png.WithNoSandbox(*cfg.Browser.NoSandbox))
	}
	if cfg.Browser.AllowNetwork {
		opts = append(opts, md2png.WithAllowNetwork(true))
	}
	if cfg.Assets.BasePath != "" {
		opts = append(opts, md2png.WithAssetPath(cfg.Assets.BasePath))
	}
	if cfg.Assets.Style != "" {
		opts = append(opts, md2png.WithStyle(cfg.Assets.Style))
	}
	return opts
}

// convert acquires the input, renders it and writes the image.
func convert(ctx context.Context, env *Environment, f *cliFlags, arg string, cfg *config.Config, log zerolog.Logger) error {
	src, err := input.Resolve(ctx, arg, env.Clipboard)
	if err != nil {
		return fmt.Errorf("%w: %w", md2png.ErrInputUnavailable, err)
	}
	log.Debug().Str("origin", string(src.Origin)).Str("path", src.Path).Msg("input acquired")

	var css string
	if f.css != "" {
		data, err := os.ReadFile(f.css) // #nosec G304 -- CSS path is user-provided
		if err != nil {
			return fmt.Errorf("%w: %v", ErrReadCSS, err)
		}
		css = string(data)
	}

	conv, err := env.NewConverter(converterOptions(cfg, log)...)
	if err != nil {
		return err
	}
	defer func() { _ = conv.Close() }()

	res, err := conv.Convert(ctx, md2png.Input{
		Markdown:  src.Text,
		CSS:       css,
		SourceDir: src.SourceDir(),
	})
	if err != nil {
		return err
	}
	if res.UntypesetMath {
		warnUntypeset(env.Stderr)
	}

	dest, err := destination(f.output, cfg.Output.Dir, src)
	if err != nil {
		return fmt.Errorf("%w: %v", md2png.ErrOutputWrite, err)
	}
	if err := fileutil.WriteFileAtomic(dest, res.PNG, filePerm); err != nil {
		return fmt.Errorf("%w: %v", md2png.ErrOutputWrite, err)
	}
	log.Info().
		Str("output", dest).
		Str("settle", res.Settle.String()).
		Int("width", res.Viewport.Width).
		Int("height", res.Viewport.Height).
		Msg("image written")

	if f.html {
		htmlPath := strings.TrimSuffix(dest, filepath.Ext(dest)) + ".html"
		if err := fileutil.WriteFileAtomic(htmlPath, []byte(res.HTML), filePerm); err != nil {
			return fmt.Errorf("%w: %v", md2png.ErrOutputWrite, err)
		}
		log.Info().Str("output", htmlPath).Msg("html written")
	}
	return nil
}

// warnUntypeset tells the user, verbose or not, that formulas were rendered
// as TeX source. The image is still written.
func warnUntypeset(w io.Writer) {
	_, _ = fmt.Fprintf(w, "md2png warning: no math typesetter is bundled, formulas left as source text%s\n",
		hints.ForTypesetterMissing())
}

// destination picks a PNG path that does not exist yet.
// output ending in .png names the file; any other output is a directory.
// Without output, configDir is used, then the input's own directory.
func destination(output, configDir string, src *input.Source) (string, error) {
	dir, stem := src.Dir, src.Stem
	switch {
	case strings.EqualFold(filepath.Ext(output), ".png"):
		dir = filepath.Dir(output)
		base := filepath.Base(output)
		stem = strings.TrimSuffix(base, filepath.Ext(base))
	case output != "":
		dir = output
	case configDir != "":
		dir = configDir
	}

	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return "", err
	}
	return fileutil.UniquePath(dir, stem, "png")
}

// fail presents err with any matching hint and returns its exit code.
func fail(env *Environment, err error, cfg *config.Config) int {
	_ = env.Notifier.Failure(err.Error() + hintFor(err, cfg))
	return exitCodeFor(err)
}

// hintFor returns an actionable hint for err, or "".
func hintFor(err error, cfg *config.Config) string {
	switch {
	case errors.Is(err, md2png.ErrEngineNotFound):
		return hints.ForEngineNotFound()
	case errors.Is(err, md2png.ErrEngineLaunch):
		sandboxed := cfg != nil && cfg.Browser.NoSandbox != nil && !*cfg.Browser.NoSandbox
		return hints.ForEngineLaunch(sandboxed)
	case errors.Is(err, context.DeadlineExceeded):
		return hints.ForTimeout()
	case errors.Is(err, input.ErrEmpty), errors.Is(err, input.ErrClipboard):
		return hints.ForClipboard()
	case errors.Is(err, config.ErrConfigNotFound):
		return hints.ForConfigNotFound(userConfigPaths())
	case errors.Is(err, md2png.ErrStyleNotFound):
		return hints.ForStyleNotFound(assets.EmbeddedStyleNames())
	}
	return ""
}

// userConfigPaths returns the user config directory entry suggested by hints.
func userConfigPaths() []string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return nil
	}
	return []string{filepath.Join(dir, "go-md2png", "default.yaml")}
}
